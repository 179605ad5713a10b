package invoices

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"
)

var _ invoiceRepo = (*repoMock)(nil)

type repoMock struct {
	mutex    sync.Mutex
	invoices map[int]*Invoice
	numbers  map[string]bool
	nextID   int
	// customers known to the mock, creating an invoice for another one fails
	customers map[int]bool
	listErr   error
}

func newRepoMock(customerIDs ...int) *repoMock {
	customers := make(map[int]bool)
	for _, id := range customerIDs {
		customers[id] = true
	}
	return &repoMock{
		invoices:  make(map[int]*Invoice),
		numbers:   make(map[string]bool),
		nextID:    1,
		customers: customers,
	}
}

func (r *repoMock) Create(_ context.Context, inv *Invoice) error {
	r.mutex.Lock()
	defer r.mutex.Unlock()
	if !r.customers[inv.CustomerID] {
		return ErrCustomerNotFound
	}
	if r.numbers[inv.Number] {
		return ErrNumberTaken
	}
	inv.ID = r.nextID
	r.nextID++
	inv.CreatedAt = time.Now()
	for i := range inv.Items {
		inv.Items[i].ID = inv.ID*100 + i
	}
	r.numbers[inv.Number] = true
	r.invoices[inv.ID] = copyInvoice(inv)
	return nil
}

func (r *repoMock) Get(_ context.Context, id int) (*Invoice, error) {
	r.mutex.Lock()
	defer r.mutex.Unlock()
	inv, ok := r.invoices[id]
	if !ok {
		return nil, ErrInvoiceNotFound
	}
	return copyInvoice(inv), nil
}

func (r *repoMock) List(_ context.Context) ([]*Invoice, error) {
	r.mutex.Lock()
	defer r.mutex.Unlock()
	if r.listErr != nil {
		return nil, r.listErr
	}
	invoices := make([]*Invoice, 0, len(r.invoices))
	for _, inv := range r.invoices {
		invoices = append(invoices, copyInvoice(inv))
	}
	sort.Slice(invoices, func(i, j int) bool {
		return invoices[i].ID > invoices[j].ID
	})
	return invoices, nil
}

func (r *repoMock) UpdateStatus(_ context.Context, id int, from, to Status) error {
	r.mutex.Lock()
	defer r.mutex.Unlock()
	inv, ok := r.invoices[id]
	if !ok {
		return ErrInvoiceNotFound
	}
	if inv.Status != from {
		return fmt.Errorf("%w: invoice %d is no longer %s", ErrInvalidTransition, id, from)
	}
	inv.Status = to
	return nil
}

func (r *repoMock) Delete(_ context.Context, id int) error {
	r.mutex.Lock()
	defer r.mutex.Unlock()
	if _, ok := r.invoices[id]; !ok {
		return ErrInvoiceNotFound
	}
	delete(r.invoices, id)
	return nil
}

func copyInvoice(inv *Invoice) *Invoice {
	c := *inv
	c.Items = append([]Item{}, inv.Items...)
	return &c
}
