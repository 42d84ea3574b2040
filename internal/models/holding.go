package models

import (
	"holdings-api/internal/mapper"
)

// HoldingsTable is the table holdings are stored in
const HoldingsTable = "holdings"

// HoldingSchema is the read/write contract for a holding. Storage columns use
// the capitalized names of the holdings table; id and created_at are assigned
// by the database.
var HoldingSchema = mapper.MustSchema("holding",
	mapper.Field{Name: "id", Column: "id", Type: mapper.Integer, OutputOnly: true},
	mapper.Field{Name: "currency", Column: "Currency", Type: mapper.String, Required: true},
	mapper.Field{Name: "purchaseDate", Column: "PurchaseDate", Type: mapper.Date, Required: true},
	mapper.Field{Name: "amount", Column: "Amount", Type: mapper.Float, Required: true},
	mapper.Field{Name: "price", Column: "Price", Type: mapper.Float, Required: true},
	mapper.Field{Name: "value", Column: "Value", Type: mapper.Float, Required: true},
	mapper.Field{Name: "created_at", Column: "created_at", Type: mapper.Timestamp, OutputOnly: true, Nullable: true},
)

// HoldingInput documents the accepted request body. Each field may also be
// sent under its capitalized storage name (Currency, PurchaseDate, ...).
type HoldingInput struct {
	Currency     string  `json:"currency" example:"USD"`
	PurchaseDate string  `json:"purchaseDate" example:"2024-01-01"`
	Amount       float64 `json:"amount" example:"10"`
	Price        float64 `json:"price" example:"50"`
	Value        float64 `json:"value" example:"500"`
}

// Holding documents the response shape of a holding.
type Holding struct {
	ID           int64   `json:"id"`
	Currency     string  `json:"currency"`
	PurchaseDate string  `json:"purchaseDate"`
	Amount       float64 `json:"amount"`
	Price        float64 `json:"price"`
	Value        float64 `json:"value"`
	CreatedAt    *string `json:"created_at"`
}
