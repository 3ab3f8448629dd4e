package checkout

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestCreateSession(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/v1/checkout/sessions" {
			t.Errorf("unexpected request: %s %s", r.Method, r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer sk_test_123" {
			t.Errorf("authorization = %q", got)
		}
		if err := r.ParseForm(); err != nil {
			t.Errorf("parse form: %v", err)
			return
		}
		if got := r.PostForm.Get("line_items[0][price_data][unit_amount]"); got != "1999" {
			t.Errorf("unit_amount = %q", got)
		}
		if got := r.PostForm.Get("line_items[0][quantity]"); got != "1" {
			t.Errorf("quantity = %q", got)
		}
		if got := r.PostForm.Get("mode"); got != "payment" {
			t.Errorf("mode = %q", got)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"id":"cs_1","url":"https://pay.example.com/cs_1"}`))
	}))
	defer srv.Close()

	client := NewClient(srv.URL, "sk_test_123")
	session, err := client.CreateSession(context.Background(), SessionParams{
		ProductName:   "Denim Jacket",
		UnitAmount:    1999,
		CustomerEmail: "buyer@example.com",
		SuccessURL:    "https://shop.example.com/success",
		CancelURL:     "https://shop.example.com/cancel",
	})
	if err != nil {
		t.Fatalf("CreateSession error: %v", err)
	}
	if session.URL != "https://pay.example.com/cs_1" {
		t.Fatalf("url = %s", session.URL)
	}
}

func TestRetrieveSession(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet || r.URL.Path != "/v1/checkout/sessions/cs_1" {
			t.Errorf("unexpected request: %s %s", r.Method, r.URL.Path)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"id":"cs_1","payment_status":"paid","payment_intent":"pi_9","amount_total":1999,"currency":"usd","customer_details":{"email":"buyer@example.com"}}`))
	}))
	defer srv.Close()

	client := NewClient(srv.URL, "sk_test_123")
	session, err := client.RetrieveSession(context.Background(), "cs_1")
	if err != nil {
		t.Fatalf("RetrieveSession error: %v", err)
	}
	if session.PaymentStatus != "paid" || session.PaymentIntent != "pi_9" {
		t.Fatalf("session = %+v", session)
	}
	if session.AmountTotal != 1999 || session.CustomerDetails.Email != "buyer@example.com" {
		t.Fatalf("session = %+v", session)
	}
}

func TestRetrieveSessionNon200(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	client := NewClient(srv.URL, "sk_test_123")
	if _, err := client.RetrieveSession(context.Background(), "cs_missing"); err == nil {
		t.Fatalf("expected error on 404")
	}
}
