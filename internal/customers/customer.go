package customers

import (
	"errors"
	"fmt"
	"net/mail"
	"strings"
	"time"
)

var (
	ErrCustomerNotFound    = errors.New("customer not found")
	ErrCustomerHasInvoices = errors.New("customer still has invoices")
	ErrInvalidCustomer     = errors.New("invalid customer")
)

type Customer struct {
	ID        int       `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Phone     string    `json:"phone"`
	Company   string    `json:"company"`
	Notes     string    `json:"notes"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (c *Customer) Normalize() error {
	c.Name = strings.TrimSpace(c.Name)
	c.Email = strings.TrimSpace(c.Email)
	c.Phone = strings.TrimSpace(c.Phone)
	c.Company = strings.TrimSpace(c.Company)
	c.Notes = strings.TrimSpace(c.Notes)

	if c.Name == "" {
		return fmt.Errorf("%w: name empty", ErrInvalidCustomer)
	}
	if c.Email == "" {
		return fmt.Errorf("%w: email empty", ErrInvalidCustomer)
	}
	addr, err := mail.ParseAddress(c.Email)
	if err != nil || addr.Address != c.Email {
		return fmt.Errorf("%w: email address invalid", ErrInvalidCustomer)
	}
	c.Email = strings.ToLower(c.Email)

	return nil
}
