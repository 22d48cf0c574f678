package models

import (
	"encoding/json"
	"time"

	"gorm.io/datatypes"
)

type Invoice struct {
	ID uint `gorm:"primaryKey" json:"id"`

	InvoiceNo  string `gorm:"uniqueIndex;not null" json:"invoiceNo"`
	CustomerID *uint  `gorm:"index" json:"customerId"`

	Programme     string  `gorm:"default:'lessons'" json:"programme"`
	Subtotal      float64 `json:"subtotal"`
	TravelFee     float64 `json:"travelFee"`
	Total         float64 `json:"total"`
	DepositAmount float64 `json:"depositAmount"`

	// Ordered line items, serialized as JSON on the row.
	Items datatypes.JSON `json:"-"`

	Notes   string `json:"notes"`
	DueDate string `json:"dueDate"`

	IssuedAt time.Time `json:"issuedAt"`

	PaidAt     *time.Time `json:"paidAt"`
	PaidMethod *string    `json:"paidMethod"`
	PaidRef    *string    `json:"paidRef"`

	ReceiptNo        *string    `json:"receiptNo"`
	EmailedReceiptAt *time.Time `json:"emailedReceiptAt"`
}

// InvoiceItem is the shape of one entry in the serialized items list.
// Date and Time are optional display annotations for the line description.
type InvoiceItem struct {
	Desc   string    `json:"desc"`
	Qty    FlexFloat `json:"qty"`
	Unit   FlexFloat `json:"unit"`
	Amount FlexFloat `json:"amount"`
	Date   string    `json:"date,omitempty"`
	Time   string    `json:"time,omitempty"`
}

// ParseItems decodes the stored item list. A row whose items column is empty
// or not valid JSON degrades to an empty list rather than an error.
func ParseItems(raw datatypes.JSON) []InvoiceItem {
	if len(raw) == 0 {
		return []InvoiceItem{}
	}
	var items []InvoiceItem
	if err := json.Unmarshal(raw, &items); err != nil {
		return []InvoiceItem{}
	}
	return items
}

// MarshalItems serializes a line-item list for storage.
func MarshalItems(items []InvoiceItem) datatypes.JSON {
	if items == nil {
		items = []InvoiceItem{}
	}
	raw, err := json.Marshal(items)
	if err != nil {
		return datatypes.JSON("[]")
	}
	return datatypes.JSON(raw)
}
