package invoices

import (
	"errors"
	"fmt"
	"math"
	"strings"
	"time"
)

type Status string

const (
	StatusDraft   Status = "draft"
	StatusSent    Status = "sent"
	StatusPaid    Status = "paid"
	StatusOverdue Status = "overdue"
)

const DefaultPaymentTerm = 30 * 24 * time.Hour

var (
	ErrInvoiceNotFound   = errors.New("invoice not found")
	ErrInvalidInvoice    = errors.New("invalid invoice")
	ErrInvalidTransition = errors.New("invalid invoice status transition")
	ErrCustomerNotFound  = errors.New("invoice customer not found")
	ErrNumberTaken       = errors.New("invoice number already taken")
)

// allowed status transitions, from -> to
var transitions = map[Status][]Status{
	StatusDraft:   {StatusSent},
	StatusSent:    {StatusPaid, StatusOverdue},
	StatusOverdue: {StatusPaid},
}

type Item struct {
	ID             int    `json:"id"`
	Description    string `json:"description"`
	Quantity       int    `json:"quantity"`
	UnitPriceCents int64  `json:"unit_price_cents"`
}

type Invoice struct {
	ID         int       `json:"id"`
	Number     string    `json:"number"`
	CustomerID int       `json:"customer_id"`
	Items      []Item    `json:"items"`
	Status     Status    `json:"status"`
	IssuedAt   time.Time `json:"issued_at"`
	DueAt      time.Time `json:"due_at"`
	TotalCents int64     `json:"total_cents"`
	Notes      string    `json:"notes"`
	CreatedAt  time.Time `json:"created_at"`
}

func ParseStatus(s string) (Status, error) {
	switch status := Status(strings.ToLower(strings.TrimSpace(s))); status {
	case StatusDraft, StatusSent, StatusPaid, StatusOverdue:
		return status, nil
	default:
		return "", fmt.Errorf("%w: unknown status [%s]", ErrInvalidInvoice, s)
	}
}

// CheckTransition returns nil if an invoice in status from may be moved to status to.
// Moving to the current status is an error.
func CheckTransition(from, to Status) error {
	if from == to {
		return fmt.Errorf("%w: invoice already %s", ErrInvalidTransition, to)
	}
	for _, allowed := range transitions[from] {
		if allowed == to {
			return nil
		}
	}
	return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, from, to)
}

// ComputeTotal sums the line items. It fails on invalid items and on overflow.
func ComputeTotal(items []Item) (int64, error) {
	if len(items) == 0 {
		return 0, fmt.Errorf("%w: no line items", ErrInvalidInvoice)
	}

	var total int64
	for i, item := range items {
		if strings.TrimSpace(item.Description) == "" {
			return 0, fmt.Errorf("%w: item %d description empty", ErrInvalidInvoice, i+1)
		}
		if item.Quantity <= 0 {
			return 0, fmt.Errorf("%w: item %d quantity must be positive", ErrInvalidInvoice, i+1)
		}
		if item.UnitPriceCents < 0 {
			return 0, fmt.Errorf("%w: item %d unit price negative", ErrInvalidInvoice, i+1)
		}
		if item.UnitPriceCents > 0 && int64(item.Quantity) > math.MaxInt64/item.UnitPriceCents {
			return 0, fmt.Errorf("%w: item %d amount too large", ErrInvalidInvoice, i+1)
		}
		amount := int64(item.Quantity) * item.UnitPriceCents
		if total > math.MaxInt64-amount {
			return 0, fmt.Errorf("%w: total too large", ErrInvalidInvoice)
		}
		total += amount
	}
	return total, nil
}
