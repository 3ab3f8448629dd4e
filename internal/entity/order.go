package entity

import "time"

// Order statuses. The active queue is defined by exclusion (everything that is
// not Pending, Rejected or Cancelled), so new fulfillment stages are picked up
// without touching the queue query.
const (
	StatusPending    = "Pending"
	StatusApproved   = "Approved"
	StatusRejected   = "Rejected"
	StatusCancelled  = "Cancelled"
	StatusProcessing = "Processing"
	StatusShipped    = "Shipped"
	StatusDelivered  = "Delivered"
)

const (
	PaymentUnpaid = "Unpaid"
	PaymentPaid   = "Paid"
)

type Order struct {
	ID            int64           `json:"id"`
	Email         string          `json:"email"`
	ProductName   string          `json:"product_name"`
	ProductImage  string          `json:"product_image"`
	Quantity      int             `json:"quantity"`
	TotalPrice    float64         `json:"total_price"`
	Status        string          `json:"status"`
	PaymentStatus string          `json:"payment_status"`
	TransactionID string          `json:"transaction_id,omitempty"`
	ApprovedAt    *time.Time      `json:"approved_at,omitempty"`
	Tracking      []TrackingEvent `json:"tracking,omitempty"`
	CreatedAt     time.Time       `json:"created_at"`
}

// TrackingEvent is an append-only fulfillment update. EventDate is supplied by
// the client, CreatedAt is stamped by the server.
type TrackingEvent struct {
	ID        int64     `json:"id"`
	OrderID   int64     `json:"order_id"`
	Status    string    `json:"status"`
	Location  string    `json:"location"`
	Note      string    `json:"note"`
	EventDate string    `json:"date"`
	CreatedAt time.Time `json:"created_at"`
}
