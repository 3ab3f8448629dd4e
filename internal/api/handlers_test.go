package api

import (
	"context"
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"

	"storefront-service/internal/checkout"
	"storefront-service/internal/entity"
	"storefront-service/internal/service"
)

type stubUsers struct {
	roles map[string]string
}

func (s *stubUsers) GetUserByEmail(ctx context.Context, email string) (*entity.User, error) {
	role, ok := s.roles[email]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return &entity.User{Email: email, Role: role}, nil
}

type stubOrders struct {
	orders map[int64]*entity.Order
}

func (s *stubOrders) CreateOrder(ctx context.Context, order *entity.Order) (*entity.Order, error) {
	order.ID = 1
	order.Status = entity.StatusPending
	order.PaymentStatus = entity.PaymentUnpaid
	return order, nil
}
func (s *stubOrders) GetOrderByID(ctx context.Context, id int64) (*entity.Order, error) {
	order, ok := s.orders[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return order, nil
}
func (s *stubOrders) ListOrdersByEmail(ctx context.Context, email string) ([]entity.Order, error) {
	return []entity.Order{}, nil
}
func (s *stubOrders) ListPending(ctx context.Context) ([]entity.Order, error) {
	out := []entity.Order{}
	for _, order := range s.orders {
		if order.Status == entity.StatusPending {
			out = append(out, *order)
		}
	}
	return out, nil
}
func (s *stubOrders) ListActive(ctx context.Context) ([]entity.Order, error) {
	return []entity.Order{}, nil
}
func (s *stubOrders) DeleteOrder(ctx context.Context, id int64) error { return nil }
func (s *stubOrders) UpdateOrderStatus(ctx context.Context, id int64, status string) error {
	return nil
}
func (s *stubOrders) AppendTracking(ctx context.Context, id int64, event *entity.TrackingEvent) error {
	return nil
}
func (s *stubOrders) SetOrderPayment(ctx context.Context, id int64, paymentStatus, transactionID string) (int64, error) {
	if _, ok := s.orders[id]; !ok {
		return 0, nil
	}
	return 1, nil
}

type stubSessions struct {
	session *checkout.Session
}

func (s *stubSessions) CreateSession(ctx context.Context, params checkout.SessionParams) (*checkout.Session, error) {
	return s.session, nil
}
func (s *stubSessions) RetrieveSession(ctx context.Context, sessionID string) (*checkout.Session, error) {
	return s.session, nil
}

type stubPayments struct {
	existing map[string]*entity.Payment
}

func (s *stubPayments) CreatePayment(ctx context.Context, payment *entity.Payment) (*entity.Payment, error) {
	payment.ID = 10
	return payment, nil
}
func (s *stubPayments) GetPaymentByTransactionID(ctx context.Context, transactionID string) (*entity.Payment, error) {
	payment, ok := s.existing[transactionID]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return payment, nil
}
func (s *stubPayments) ListPaymentsByEmail(ctx context.Context, email string) ([]entity.Payment, error) {
	return []entity.Payment{}, nil
}

func request(e *echo.Echo, method, target, body, principal string) (echo.Context, *httptest.ResponseRecorder) {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	if principal != "" {
		token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
			"email": principal,
			"exp":   float64(time.Now().Add(time.Hour).Unix()),
		})
		c.Set("user", token)
	}
	return c, rec
}

func TestPendingOrdersForbiddenForNonManager(t *testing.T) {
	e := echo.New()
	access := service.NewAccessService(&stubUsers{roles: map[string]string{"buyer@example.com": entity.RoleUser}})
	orders := service.NewOrderService(&stubOrders{orders: map[int64]*entity.Order{}}, nil)
	h := NewOrderHandler(orders, access)

	c, rec := request(e, http.MethodGet, "/orders/pending", "", "buyer@example.com")
	if err := h.GetPendingOrders(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusForbidden {
		t.Fatalf("status = %d, want 403", rec.Code)
	}
}

func TestPendingOrdersForManager(t *testing.T) {
	e := echo.New()
	access := service.NewAccessService(&stubUsers{roles: map[string]string{"manager@example.com": entity.RoleManager}})
	store := &stubOrders{orders: map[int64]*entity.Order{
		1: {ID: 1, Status: entity.StatusPending},
		2: {ID: 2, Status: entity.StatusApproved},
	}}
	h := NewOrderHandler(service.NewOrderService(store, nil), access)

	c, rec := request(e, http.MethodGet, "/orders/pending", "", "manager@example.com")
	if err := h.GetPendingOrders(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	var got []entity.Order
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(got) != 1 || got[0].Status != entity.StatusPending {
		t.Fatalf("pending = %+v", got)
	}
}

func TestConfirmPaymentReplayShape(t *testing.T) {
	e := echo.New()
	session := &checkout.Session{ID: "cs_1", PaymentStatus: "paid", PaymentIntent: "pi_1", AmountTotal: 1999, Currency: "usd"}
	payments := &stubPayments{existing: map[string]*entity.Payment{
		"pi_1": {ID: 10, TransactionID: "pi_1"},
	}}
	access := service.NewAccessService(&stubUsers{roles: map[string]string{}})
	svc := service.NewPaymentService(&stubSessions{session: session}, payments, &stubOrders{orders: map[int64]*entity.Order{}}, nil, nil, "https://shop.example.com")
	h := NewPaymentHandler(svc, access)

	c, rec := request(e, http.MethodPost, "/payments/success", `{"sessionId":"cs_1","orderId":1}`, "buyer@example.com")
	if err := h.ConfirmPayment(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}

	var body struct {
		Message       string `json:"message"`
		PaymentResult struct {
			InsertedID *int64 `json:"insertedId"`
		} `json:"paymentResult"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body.Message != "Payment already processed" {
		t.Fatalf("message = %q", body.Message)
	}
	if body.PaymentResult.InsertedID != nil {
		t.Fatalf("insertedId should be null on replay")
	}
}

func TestConfirmPaymentNotVerifiedStatus(t *testing.T) {
	e := echo.New()
	session := &checkout.Session{ID: "cs_1", PaymentStatus: "unpaid"}
	access := service.NewAccessService(&stubUsers{roles: map[string]string{}})
	svc := service.NewPaymentService(&stubSessions{session: session}, &stubPayments{existing: map[string]*entity.Payment{}}, &stubOrders{orders: map[int64]*entity.Order{}}, nil, nil, "https://shop.example.com")
	h := NewPaymentHandler(svc, access)

	c, rec := request(e, http.MethodPost, "/payments/success", `{"sessionId":"cs_1","orderId":1}`, "buyer@example.com")
	if err := h.ConfirmPayment(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}

func TestGetOrdersCrossUserForbidden(t *testing.T) {
	e := echo.New()
	access := service.NewAccessService(&stubUsers{roles: map[string]string{"buyer@example.com": entity.RoleUser}})
	h := NewOrderHandler(service.NewOrderService(&stubOrders{orders: map[int64]*entity.Order{}}, nil), access)

	c, rec := request(e, http.MethodGet, "/orders?email=other@example.com", "", "buyer@example.com")
	if err := h.GetOrders(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusForbidden {
		t.Fatalf("status = %d, want 403", rec.Code)
	}
}
