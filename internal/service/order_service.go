package service

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"github.com/segmentio/kafka-go"

	"storefront-service/internal/entity"
)

var logger = zerolog.New(os.Stdout).With().Timestamp().Logger()

// EventWriter is satisfied by *kafka.Writer.
type EventWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
}

type OrderRepo interface {
	CreateOrder(ctx context.Context, order *entity.Order) (*entity.Order, error)
	GetOrderByID(ctx context.Context, id int64) (*entity.Order, error)
	ListOrdersByEmail(ctx context.Context, email string) ([]entity.Order, error)
	ListPending(ctx context.Context) ([]entity.Order, error)
	ListActive(ctx context.Context) ([]entity.Order, error)
	DeleteOrder(ctx context.Context, id int64) error
	UpdateOrderStatus(ctx context.Context, id int64, status string) error
	AppendTracking(ctx context.Context, id int64, event *entity.TrackingEvent) error
}

// OrderService owns the order lifecycle: creation by buyers, review and
// fulfillment tracking by managers.
type OrderService struct {
	orderRepo   OrderRepo
	kafkaWriter EventWriter
}

func NewOrderService(orderRepo OrderRepo, kafkaWriter EventWriter) *OrderService {
	return &OrderService{
		orderRepo:   orderRepo,
		kafkaWriter: kafkaWriter,
	}
}

// CreateOrder inserts a new order as Pending/Unpaid regardless of what the
// client sent for those fields.
func (s *OrderService) CreateOrder(ctx context.Context, order *entity.Order) (*entity.Order, error) {
	createdOrder, err := s.orderRepo.CreateOrder(ctx, order)
	if err != nil {
		logger.Error().Err(err).Msg("Error creating order")
		return nil, err
	}

	s.publishOrderEvent(ctx, createdOrder, "created")

	return createdOrder, nil
}

func (s *OrderService) GetOrderByID(ctx context.Context, id int64) (*entity.Order, error) {
	order, err := s.orderRepo.GetOrderByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		logger.Error().Err(err).Msgf("Error getting order by ID %d", id)
		return nil, err
	}
	return order, nil
}

func (s *OrderService) ListOrdersByEmail(ctx context.Context, email string) ([]entity.Order, error) {
	return s.orderRepo.ListOrdersByEmail(ctx, email)
}

func (s *OrderService) ListPending(ctx context.Context) ([]entity.Order, error) {
	return s.orderRepo.ListPending(ctx)
}

func (s *OrderService) ListActive(ctx context.Context) ([]entity.Order, error) {
	return s.orderRepo.ListActive(ctx)
}

func (s *OrderService) DeleteOrder(ctx context.Context, id int64) error {
	err := s.orderRepo.DeleteOrder(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrNotFound
		}
		logger.Error().Err(err).Msgf("Error deleting order %d", id)
		return err
	}
	return nil
}

// UpdateOrderStatus moves an order to a new review/fulfillment status. The
// approval timestamp is stamped on the Approved transition and never cleared.
func (s *OrderService) UpdateOrderStatus(ctx context.Context, id int64, status string) (*entity.Order, error) {
	err := s.orderRepo.UpdateOrderStatus(ctx, id, status)
	if err != nil {
		logger.Error().Err(err).Msgf("Error updating status for order %d", id)
		return nil, err
	}

	order, err := s.orderRepo.GetOrderByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	s.publishOrderEvent(ctx, order, "status")

	return order, nil
}

// AppendTracking records a fulfillment event and moves the order to the
// event's status; the repository applies both writes in one transaction.
func (s *OrderService) AppendTracking(ctx context.Context, id int64, event *entity.TrackingEvent) (*entity.Order, error) {
	err := s.orderRepo.AppendTracking(ctx, id, event)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		logger.Error().Err(err).Msgf("Error appending tracking for order %d", id)
		return nil, err
	}

	order, err := s.orderRepo.GetOrderByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	s.publishOrderEvent(ctx, order, "tracking")

	return order, nil
}

func (s *OrderService) publishOrderEvent(ctx context.Context, order *entity.Order, key string) {
	if s.kafkaWriter == nil {
		return
	}

	orderJSON, err := json.Marshal(order)
	if err != nil {
		logger.Error().Err(err).Msgf("Error marshalling order %d event", order.ID)
		return
	}

	// order-created-1 or order-status-1
	msg := kafka.Message{
		Key:   []byte(fmt.Sprintf("order-%s-%d", key, order.ID)),
		Value: orderJSON,
	}

	if err := s.kafkaWriter.WriteMessages(ctx, msg); err != nil {
		logger.Error().Err(err).Msgf("Error publishing order %d event", order.ID)
	}
}
