package models

import "time"

// CheckoutEvent is published after a simulated checkout completes.
type CheckoutEvent struct {
	Event     string            `json:"event"` // e.g. "checkout.completed"
	OrderID   string            `json:"order_id"`
	UserID    string            `json:"user_id"`
	Items     []CartDisplayItem `json:"items"`
	Total     float64           `json:"total"`
	Timestamp time.Time         `json:"timestamp"`
}
