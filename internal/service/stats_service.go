package service

import "context"

type OrderCounter interface {
	CountOrders(ctx context.Context) (int64, float64, error)
}

type PaymentCounter interface {
	CountPayments(ctx context.Context) (int64, error)
}

type UserCounter interface {
	CountUsers(ctx context.Context) (int64, error)
}

type ProductCounter interface {
	CountProducts(ctx context.Context) (int64, error)
}

type Overview struct {
	Orders   int64   `json:"orders"`
	Products int64   `json:"products"`
	Users    int64   `json:"users"`
	Payments int64   `json:"payments"`
	Revenue  float64 `json:"revenue"`
}

// StatsService aggregates counts for the admin dashboard.
type StatsService struct {
	orders   OrderCounter
	payments PaymentCounter
	users    UserCounter
	products ProductCounter
}

func NewStatsService(orders OrderCounter, payments PaymentCounter, users UserCounter, products ProductCounter) *StatsService {
	return &StatsService{orders: orders, payments: payments, users: users, products: products}
}

func (s *StatsService) Overview(ctx context.Context) (*Overview, error) {
	orders, revenue, err := s.orders.CountOrders(ctx)
	if err != nil {
		return nil, err
	}
	products, err := s.products.CountProducts(ctx)
	if err != nil {
		return nil, err
	}
	users, err := s.users.CountUsers(ctx)
	if err != nil {
		return nil, err
	}
	payments, err := s.payments.CountPayments(ctx)
	if err != nil {
		return nil, err
	}
	return &Overview{
		Orders:   orders,
		Products: products,
		Users:    users,
		Payments: payments,
		Revenue:  revenue,
	}, nil
}
