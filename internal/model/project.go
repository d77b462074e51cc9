package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Project is a catalog listing snapshot. Text attributes come in up to three
// parallel locale fields: the default (uz) value is always present, the ru/en
// values are optional and may be empty.
type Project struct {
	ID            int64           `json:"id"`
	Name          string          `json:"name"`
	NameRu        string          `json:"name_ru,omitempty"`
	NameEn        string          `json:"name_en,omitempty"`
	Description   string          `json:"description,omitempty"`
	DescriptionRu string          `json:"description_ru,omitempty"`
	DescriptionEn string          `json:"description_en,omitempty"`
	Price         decimal.Decimal `json:"price"`
	Currency      string          `json:"currency,omitempty"`
	CategoryID    int64           `json:"category_id"`
	SellerID      int64           `json:"seller_id,omitempty"`
	Image         string          `json:"image,omitempty"`
	IsActive      bool            `json:"is_active"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
}

// ProjectPage is a paginated projects listing from the backend.
type ProjectPage struct {
	Items []Project `json:"items"`
	Total int64     `json:"total"`
	Page  int       `json:"page"`
	Limit int       `json:"limit"`
}
