package repository

import (
	"context"
	"database/sql"
	"time"

	"storefront-service/internal/entity"
)

type OrderRepository struct {
	db *sql.DB
}

func NewOrderRepository(db *sql.DB) *OrderRepository {
	return &OrderRepository{db}
}

const orderColumns = `id, email, product_name, product_image, quantity, total_price, status, payment_status, COALESCE(transaction_id, ''), approved_at, created_at`

func scanOrder(row interface{ Scan(...any) error }) (*entity.Order, error) {
	order := &entity.Order{}
	err := row.Scan(&order.ID, &order.Email, &order.ProductName, &order.ProductImage, &order.Quantity,
		&order.TotalPrice, &order.Status, &order.PaymentStatus, &order.TransactionID, &order.ApprovedAt, &order.CreatedAt)
	if err != nil {
		return nil, err
	}
	return order, nil
}

func (r *OrderRepository) CreateOrder(ctx context.Context, order *entity.Order) (*entity.Order, error) {
	query := `INSERT INTO orders (email, product_name, product_image, quantity, total_price, status, payment_status) VALUES (?, ?, ?, ?, ?, ?, ?)`
	res, err := r.db.ExecContext(ctx, query, order.Email, order.ProductName, order.ProductImage,
		order.Quantity, order.TotalPrice, entity.StatusPending, entity.PaymentUnpaid)
	if err != nil {
		return nil, err
	}

	id, err := res.LastInsertId()
	if err != nil {
		return nil, err
	}

	order.ID = id
	order.Status = entity.StatusPending
	order.PaymentStatus = entity.PaymentUnpaid
	return order, nil
}

func (r *OrderRepository) GetOrderByID(ctx context.Context, id int64) (*entity.Order, error) {
	order, err := scanOrder(r.db.QueryRowContext(ctx, `SELECT `+orderColumns+` FROM orders WHERE id = ?`, id))
	if err != nil {
		return nil, err
	}

	rows, err := r.db.QueryContext(ctx,
		`SELECT id, order_id, status, location, note, event_date, created_at FROM order_tracking WHERE order_id = ? ORDER BY id`, id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		event := entity.TrackingEvent{}
		err := rows.Scan(&event.ID, &event.OrderID, &event.Status, &event.Location, &event.Note, &event.EventDate, &event.CreatedAt)
		if err != nil {
			return nil, err
		}
		order.Tracking = append(order.Tracking, event)
	}
	return order, rows.Err()
}

func (r *OrderRepository) ListOrdersByEmail(ctx context.Context, email string) ([]entity.Order, error) {
	return r.queryOrders(ctx, `SELECT `+orderColumns+` FROM orders WHERE email = ?`, email)
}

// ListPending returns exactly the orders still awaiting review.
func (r *OrderRepository) ListPending(ctx context.Context) ([]entity.Order, error) {
	return r.queryOrders(ctx, `SELECT `+orderColumns+` FROM orders WHERE status = ?`, entity.StatusPending)
}

// ListActive returns every order that is neither pending nor terminal. The
// exclusion list keeps future fulfillment stages in the active queue without a
// query change.
func (r *OrderRepository) ListActive(ctx context.Context) ([]entity.Order, error) {
	return r.queryOrders(ctx,
		`SELECT `+orderColumns+` FROM orders WHERE status NOT IN (?, ?, ?) ORDER BY approved_at DESC`,
		entity.StatusPending, entity.StatusRejected, entity.StatusCancelled)
}

func (r *OrderRepository) queryOrders(ctx context.Context, query string, args ...any) ([]entity.Order, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	orders := []entity.Order{}
	for rows.Next() {
		order, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		orders = append(orders, *order)
	}
	return orders, rows.Err()
}

func (r *OrderRepository) DeleteOrder(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM orders WHERE id = ?`, id)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// UpdateOrderStatus sets the status and stamps approved_at on the transition
// to Approved. The timestamp is write-once in practice: no other status writes
// touch it.
func (r *OrderRepository) UpdateOrderStatus(ctx context.Context, id int64, status string) error {
	if status == entity.StatusApproved {
		_, err := r.db.ExecContext(ctx,
			`UPDATE orders SET status = ?, approved_at = ? WHERE id = ?`, status, time.Now().UTC(), id)
		return err
	}
	_, err := r.db.ExecContext(ctx, `UPDATE orders SET status = ? WHERE id = ?`, status, id)
	return err
}

// AppendTracking inserts the tracking event and moves the order to the event's
// status in a single transaction. The status update runs first: zero matched
// rows means the order does not exist, and reporting that as sql.ErrNoRows
// beats surfacing the foreign key violation the insert would hit.
func (r *OrderRepository) AppendTracking(ctx context.Context, id int64, event *entity.TrackingEvent) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}

	res, err := tx.ExecContext(ctx, `UPDATE orders SET status = ? WHERE id = ?`, event.Status, id)
	if err != nil {
		tx.Rollback()
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		tx.Rollback()
		return err
	}
	if affected == 0 {
		tx.Rollback()
		return sql.ErrNoRows
	}

	insertQuery := `INSERT INTO order_tracking (order_id, status, location, note, event_date, created_at) VALUES (?, ?, ?, ?, ?, ?)`
	_, err = tx.ExecContext(ctx, insertQuery, id, event.Status, event.Location, event.Note, event.EventDate, time.Now().UTC())
	if err != nil {
		tx.Rollback()
		return err
	}

	return tx.Commit()
}

func (r *OrderRepository) SetOrderPayment(ctx context.Context, id int64, paymentStatus, transactionID string) (int64, error) {
	res, err := r.db.ExecContext(ctx,
		`UPDATE orders SET payment_status = ?, transaction_id = ? WHERE id = ?`, paymentStatus, transactionID, id)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

func (r *OrderRepository) CountOrders(ctx context.Context) (int64, float64, error) {
	var count int64
	var total float64
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*), COALESCE(SUM(total_price), 0) FROM orders`).Scan(&count, &total)
	if err != nil {
		return 0, 0, err
	}
	return count, total, nil
}
