package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/segmentio/kafka-go"

	"storefront-service/internal/checkout"
	"storefront-service/internal/entity"
	"storefront-service/internal/repository"
)

// SessionAPI is the slice of the processor client the payment flow uses.
type SessionAPI interface {
	CreateSession(ctx context.Context, params checkout.SessionParams) (*checkout.Session, error)
	RetrieveSession(ctx context.Context, sessionID string) (*checkout.Session, error)
}

type PaymentRepo interface {
	CreatePayment(ctx context.Context, payment *entity.Payment) (*entity.Payment, error)
	GetPaymentByTransactionID(ctx context.Context, transactionID string) (*entity.Payment, error)
	ListPaymentsByEmail(ctx context.Context, email string) ([]entity.Payment, error)
}

// PaymentOrderRepo is the slice of the order store the payment flow touches.
type PaymentOrderRepo interface {
	GetOrderByID(ctx context.Context, id int64) (*entity.Order, error)
	SetOrderPayment(ctx context.Context, id int64, paymentStatus, transactionID string) (int64, error)
}

// ConfirmResult reports what a confirmation call did. InsertedID is nil on an
// idempotent replay: no new record was created.
type ConfirmResult struct {
	InsertedID   *int64 `json:"insertedId"`
	UpdatedCount int64  `json:"updatedCount"`
	Message      string `json:"message,omitempty"`
}

// PaymentService brokers checkout sessions with the external processor and
// records confirmed payments exactly once per transaction.
type PaymentService struct {
	sessions    SessionAPI
	paymentRepo PaymentRepo
	orderRepo   PaymentOrderRepo
	kafkaWriter EventWriter
	rdb         *redis.Client
	siteDomain  string
}

func NewPaymentService(sessions SessionAPI, paymentRepo PaymentRepo, orderRepo PaymentOrderRepo, kafkaWriter EventWriter, rdb *redis.Client, siteDomain string) *PaymentService {
	return &PaymentService{
		sessions:    sessions,
		paymentRepo: paymentRepo,
		orderRepo:   orderRepo,
		kafkaWriter: kafkaWriter,
		rdb:         rdb,
		siteDomain:  siteDomain,
	}
}

// CreateCheckoutSession opens an external checkout session for the order and
// returns the processor's redirect URL verbatim. No local state is written.
func (s *PaymentService) CreateCheckoutSession(ctx context.Context, order *entity.Order) (string, error) {
	amount := int64(math.Round(order.TotalPrice * 100))

	name := order.ProductName
	if name == "" {
		name = "Garment Order"
	}

	session, err := s.sessions.CreateSession(ctx, checkout.SessionParams{
		ProductName:   name,
		UnitAmount:    amount,
		CustomerEmail: order.Email,
		SuccessURL:    fmt.Sprintf("%s/dashboard/payment/success?session_id={CHECKOUT_SESSION_ID}&orderId=%d", s.siteDomain, order.ID),
		CancelURL:     s.siteDomain + "/dashboard/payment/cancelled",
	})
	if err != nil {
		logger.Error().Err(err).Msgf("Error creating checkout session for order %d", order.ID)
		return "", fmt.Errorf("%w: %v", ErrUpstreamUnavailable, err)
	}

	return session.URL, nil
}

// ConfirmPayment turns a completed external session into a durable payment
// record and marks the order paid. Safe to call any number of times for the
// same session: the transaction id is unique at the store, so at most one
// record ever exists.
func (s *PaymentService) ConfirmPayment(ctx context.Context, sessionID string, orderID int64) (*ConfirmResult, error) {
	session, err := s.sessions.RetrieveSession(ctx, sessionID)
	if err != nil {
		logger.Error().Err(err).Msgf("Error retrieving checkout session %s", sessionID)
		return nil, fmt.Errorf("%w: %v", ErrUpstreamUnavailable, err)
	}

	if session.PaymentStatus != "paid" {
		return nil, ErrPaymentNotVerified
	}

	transactionID := session.PaymentIntent

	if s.seenTransaction(ctx, transactionID) {
		return alreadyProcessed(), nil
	}

	_, err = s.paymentRepo.GetPaymentByTransactionID(ctx, transactionID)
	if err == nil {
		return alreadyProcessed(), nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return nil, err
	}

	// A missing order is not a hard precondition: the payment is still
	// recorded, just without the denormalized display fields.
	payment := &entity.Payment{
		OrderID:       orderID,
		Email:         session.CustomerDetails.Email,
		TransactionID: transactionID,
		Amount:        float64(session.AmountTotal) / 100,
		Currency:      session.Currency,
		Status:        entity.PaymentPaid,
		PaidAt:        time.Now().UTC(),
	}
	order, err := s.orderRepo.GetOrderByID(ctx, orderID)
	if err == nil {
		payment.ProductName = order.ProductName
		payment.ProductImage = order.ProductImage
		payment.Quantity = order.Quantity
	}

	created, err := s.paymentRepo.CreatePayment(ctx, payment)
	if err != nil {
		// A concurrent confirmation won the insert; the unique index makes
		// this a replay, not a failure.
		if errors.Is(err, repository.ErrDuplicateTransaction) {
			return alreadyProcessed(), nil
		}
		logger.Error().Err(err).Msgf("Error recording payment for order %d", orderID)
		return nil, err
	}

	updated, err := s.orderRepo.SetOrderPayment(ctx, orderID, entity.PaymentPaid, transactionID)
	if err != nil {
		logger.Error().Err(err).Msgf("Error marking order %d paid", orderID)
		return nil, err
	}

	s.markTransaction(ctx, transactionID)
	s.publishPaymentEvent(ctx, created)

	return &ConfirmResult{InsertedID: &created.ID, UpdatedCount: updated}, nil
}

func (s *PaymentService) ListPaymentsByEmail(ctx context.Context, email string) ([]entity.Payment, error) {
	return s.paymentRepo.ListPaymentsByEmail(ctx, email)
}

func alreadyProcessed() *ConfirmResult {
	return &ConfirmResult{InsertedID: nil, Message: "Payment already processed"}
}

// seenTransaction is a fast path only; correctness rests on the unique index.
func (s *PaymentService) seenTransaction(ctx context.Context, transactionID string) bool {
	if s.rdb == nil {
		return false
	}
	val, err := s.rdb.Get(ctx, "payment-tx:"+transactionID).Result()
	if err != nil && !errors.Is(err, redis.Nil) {
		logger.Error().Err(err).Msg("Error checking transaction cache")
	}
	return val != ""
}

func (s *PaymentService) markTransaction(ctx context.Context, transactionID string) {
	if s.rdb == nil {
		return
	}
	if err := s.rdb.Set(ctx, "payment-tx:"+transactionID, "processed", 24*time.Hour).Err(); err != nil {
		logger.Error().Err(err).Msg("Error marking transaction cache")
	}
}

func (s *PaymentService) publishPaymentEvent(ctx context.Context, payment *entity.Payment) {
	if s.kafkaWriter == nil {
		return
	}

	msg := kafka.Message{
		Key:   []byte(fmt.Sprintf("order-paid-%d", payment.OrderID)),
		Value: []byte(fmt.Sprintf(`{"order_id":%d,"transaction_id":%q,"amount":%g}`, payment.OrderID, payment.TransactionID, payment.Amount)),
	}

	if err := s.kafkaWriter.WriteMessages(ctx, msg); err != nil {
		logger.Error().Err(err).Msgf("Error publishing payment event for order %d", payment.OrderID)
	}
}
