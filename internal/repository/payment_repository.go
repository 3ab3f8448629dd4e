package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/go-sql-driver/mysql"

	"storefront-service/internal/entity"
)

// ErrDuplicateTransaction reports an insert that lost the race against another
// confirmation of the same external transaction. The unique index on
// transaction_id is the real guarantee; callers treat this as an idempotent
// replay, not a failure.
var ErrDuplicateTransaction = errors.New("payment already recorded for transaction")

type PaymentRepository struct {
	db *sql.DB
}

func NewPaymentRepository(db *sql.DB) *PaymentRepository {
	return &PaymentRepository{db}
}

const paymentColumns = `id, order_id, email, transaction_id, amount, currency, status, product_name, product_image, quantity, paid_at`

func (r *PaymentRepository) CreatePayment(ctx context.Context, payment *entity.Payment) (*entity.Payment, error) {
	query := `INSERT INTO payments (order_id, email, transaction_id, amount, currency, status, product_name, product_image, quantity, paid_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	res, err := r.db.ExecContext(ctx, query, payment.OrderID, payment.Email, payment.TransactionID,
		payment.Amount, payment.Currency, payment.Status, payment.ProductName, payment.ProductImage,
		payment.Quantity, payment.PaidAt)
	if err != nil {
		var myErr *mysql.MySQLError
		if errors.As(err, &myErr) && myErr.Number == 1062 {
			return nil, ErrDuplicateTransaction
		}
		return nil, err
	}

	id, err := res.LastInsertId()
	if err != nil {
		return nil, err
	}

	payment.ID = id
	return payment, nil
}

func (r *PaymentRepository) GetPaymentByTransactionID(ctx context.Context, transactionID string) (*entity.Payment, error) {
	payment := &entity.Payment{}
	err := r.db.QueryRowContext(ctx, `SELECT `+paymentColumns+` FROM payments WHERE transaction_id = ?`, transactionID).
		Scan(&payment.ID, &payment.OrderID, &payment.Email, &payment.TransactionID, &payment.Amount,
			&payment.Currency, &payment.Status, &payment.ProductName, &payment.ProductImage, &payment.Quantity, &payment.PaidAt)
	if err != nil {
		return nil, err
	}
	return payment, nil
}

func (r *PaymentRepository) ListPaymentsByEmail(ctx context.Context, email string) ([]entity.Payment, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+paymentColumns+` FROM payments WHERE email = ?`, email)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	payments := []entity.Payment{}
	for rows.Next() {
		payment := entity.Payment{}
		err := rows.Scan(&payment.ID, &payment.OrderID, &payment.Email, &payment.TransactionID, &payment.Amount,
			&payment.Currency, &payment.Status, &payment.ProductName, &payment.ProductImage, &payment.Quantity, &payment.PaidAt)
		if err != nil {
			return nil, err
		}
		payments = append(payments, payment)
	}
	return payments, rows.Err()
}

func (r *PaymentRepository) CountPayments(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM payments`).Scan(&count)
	return count, err
}
