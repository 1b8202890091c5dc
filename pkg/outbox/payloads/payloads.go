// Package payloads holds the data portion of outbox event envelopes.
// Field names are part of the relay contract, change them with care.
package payloads

import "github.com/shopspring/decimal"

type OrderPlacedEvent struct {
	OrderNumber string          `json:"order_number"`
	Email       string          `json:"email"`
	Name        string          `json:"name"`
	TotalAmount decimal.Decimal `json:"total_amount"`
	ItemsCount  int             `json:"items_count"`
}

type OrderDeliveredEvent struct {
	OrderNumber string `json:"order_number"`
	Email       string `json:"email"`
	Name        string `json:"name"`
}

type BackInStockEvent struct {
	Email       string `json:"email"`
	ProductName string `json:"product_name"`
	ProductURL  string `json:"product_url"`
}
