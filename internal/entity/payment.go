package entity

import "time"

// Payment is written exactly once per external transaction; transaction_id is
// unique at the store level.
type Payment struct {
	ID            int64     `json:"id"`
	OrderID       int64     `json:"order_id"`
	Email         string    `json:"email"`
	TransactionID string    `json:"transaction_id"`
	Amount        float64   `json:"amount"`
	Currency      string    `json:"currency"`
	Status        string    `json:"status"`
	ProductName   string    `json:"product_name"`
	ProductImage  string    `json:"product_image"`
	Quantity      int       `json:"quantity"`
	PaidAt        time.Time `json:"paid_at"`
}
