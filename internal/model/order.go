package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// OrderStatus enum constants
const (
	OrderPending   = "PENDING"
	OrderPaid      = "PAID"
	OrderShipped   = "SHIPPED"
	OrderDelivered = "DELIVERED"
	OrderCancelled = "CANCELLED"
)

// Order is a purchase record fetched from the backend; read-only on this side.
type Order struct {
	ID        int64           `json:"id"`
	Number    string          `json:"number"`
	Status    string          `json:"status"` // PENDING, PAID, SHIPPED, DELIVERED, CANCELLED
	Total     decimal.Decimal `json:"total"`
	Currency  string          `json:"currency,omitempty"`
	Items     []OrderItem     `json:"items,omitempty"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}

// OrderItem is a single project line within an order.
type OrderItem struct {
	ProjectID int64           `json:"project_id"`
	Name      string          `json:"name"`
	NameRu    string          `json:"name_ru,omitempty"`
	NameEn    string          `json:"name_en,omitempty"`
	Quantity  int             `json:"quantity"`
	Price     decimal.Decimal `json:"price"`
}

// OrderPage is a paginated orders listing from the backend.
type OrderPage struct {
	Items []Order `json:"items"`
	Total int64   `json:"total"`
	Page  int     `json:"page"`
	Limit int     `json:"limit"`
}

// SellerSummary is the seller dashboard aggregate from the backend.
type SellerSummary struct {
	ActiveProjects int64           `json:"active_projects"`
	OrdersTotal    int64           `json:"orders_total"`
	OrdersPending  int64           `json:"orders_pending"`
	Revenue        decimal.Decimal `json:"revenue"`
}
