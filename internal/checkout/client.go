// Package checkout talks to the external payment processor's checkout-session
// API. The processor is a black box: this client only creates sessions and
// reads them back.
package checkout

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
)

// Session is the processor's view of a pending card payment.
type Session struct {
	ID              string `json:"id"`
	URL             string `json:"url"`
	PaymentStatus   string `json:"payment_status"`
	PaymentIntent   string `json:"payment_intent"`
	AmountTotal     int64  `json:"amount_total"`
	Currency        string `json:"currency"`
	CustomerDetails struct {
		Email string `json:"email"`
	} `json:"customer_details"`
}

type SessionParams struct {
	ProductName   string
	UnitAmount    int64 // minor units
	CustomerEmail string
	SuccessURL    string
	CancelURL     string
}

type Client struct {
	baseURL   string
	secretKey string
	client    *http.Client
}

func NewClient(baseURL, secretKey string) *Client {
	return &Client{
		baseURL:   baseURL,
		secretKey: secretKey,
		client:    http.DefaultClient,
	}
}

// CreateSession opens a checkout session with a single line item of quantity
// one; the unit amount already carries the full order total.
func (c *Client) CreateSession(ctx context.Context, params SessionParams) (*Session, error) {
	form := url.Values{}
	form.Set("mode", "payment")
	form.Set("payment_method_types[0]", "card")
	form.Set("line_items[0][price_data][currency]", "usd")
	form.Set("line_items[0][price_data][product_data][name]", params.ProductName)
	form.Set("line_items[0][price_data][unit_amount]", strconv.FormatInt(params.UnitAmount, 10))
	form.Set("line_items[0][quantity]", "1")
	form.Set("success_url", params.SuccessURL)
	form.Set("cancel_url", params.CancelURL)
	form.Set("customer_email", params.CustomerEmail)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/v1/checkout/sessions", strings.NewReader(form.Encode()))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+c.secretKey)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	return c.do(req)
}

// RetrieveSession reads a session back by id to learn its payment status.
func (c *Client) RetrieveSession(ctx context.Context, sessionID string) (*Session, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/v1/checkout/sessions/"+url.PathEscape(sessionID), nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+c.secretKey)

	return c.do(req)
}

func (c *Client) do(req *http.Request) (*Session, error) {
	resp, err := c.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("checkout api status %d", resp.StatusCode)
	}

	session := &Session{}
	if err := json.NewDecoder(resp.Body).Decode(session); err != nil {
		return nil, err
	}
	return session, nil
}
