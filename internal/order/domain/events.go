package domain

import "github.com/shopspring/decimal"

type OrderPlacedItem struct {
	ProductID string          `json:"productId"`
	Quantity  int             `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unitPrice"`
}

type OrderPlaced struct {
	OrderID       string            `json:"orderId"`
	UserID        string            `json:"userId"`
	TotalQuantity int               `json:"totalQuantity"`
	TotalPrice    decimal.Decimal   `json:"totalPrice"`
	Items         []OrderPlacedItem `json:"items"`
}

type OrderStatusChanged struct {
	OrderID string `json:"orderId"`
	From    Status `json:"from"`
	To      Status `json:"to"`
}
