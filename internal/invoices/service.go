package invoices

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/brightpixel/studiosite/internal/telemetry/metrics"
	"github.com/brightpixel/studiosite/internal/telemetry/tracing"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

const maxNumberAttempts = 3

type invoiceRepo interface {
	Create(ctx context.Context, inv *Invoice) error
	Get(ctx context.Context, id int) (*Invoice, error)
	List(ctx context.Context) ([]*Invoice, error)
	UpdateStatus(ctx context.Context, id int, from, to Status) error
	Delete(ctx context.Context, id int) error
}

type NewInvoiceParams struct {
	CustomerID int       `json:"customer_id"`
	Items      []Item    `json:"items"`
	IssuedAt   time.Time `json:"issued_at"`
	DueAt      time.Time `json:"due_at"`
	Notes      string    `json:"notes"`
}

type Service struct {
	repo           invoiceRepo
	metricsManager *metrics.Manager
	now            func() time.Time
	newNumber      func(issuedAt time.Time) string
}

func NewService(repo invoiceRepo, metricsManager *metrics.Manager) *Service {
	return &Service{
		repo:           repo,
		metricsManager: metricsManager,
		now:            time.Now,
		newNumber:      NewNumber,
	}
}

// NewNumber generates an invoice number in the INV-YYYYMMDD-XXXXXXXX form.
func NewNumber(issuedAt time.Time) string {
	random := strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", ""))[:8]
	return fmt.Sprintf("INV-%s-%s", issuedAt.UTC().Format("20060102"), random)
}

// Create validates the params, computes the total and stores a new draft invoice.
func (s *Service) Create(ctx context.Context, params NewInvoiceParams) (*Invoice, error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "invoicesService.Create")
	defer span.End()

	if params.CustomerID <= 0 {
		return nil, fmt.Errorf("%w: customer id missing", ErrInvalidInvoice)
	}

	items := make([]Item, len(params.Items))
	for i, item := range params.Items {
		item.ID = 0
		item.Description = strings.TrimSpace(item.Description)
		items[i] = item
	}
	total, err := ComputeTotal(items)
	if err != nil {
		return nil, err
	}

	issuedAt := params.IssuedAt
	if issuedAt.IsZero() {
		issuedAt = s.now()
	}
	dueAt := params.DueAt
	if dueAt.IsZero() {
		dueAt = issuedAt.Add(DefaultPaymentTerm)
	}
	if dueAt.Before(issuedAt) {
		return nil, fmt.Errorf("%w: due date before issue date", ErrInvalidInvoice)
	}

	inv := &Invoice{
		CustomerID: params.CustomerID,
		Items:      items,
		Status:     StatusDraft,
		IssuedAt:   issuedAt,
		DueAt:      dueAt,
		TotalCents: total,
		Notes:      strings.TrimSpace(params.Notes),
	}

	for attempt := 1; attempt <= maxNumberAttempts; attempt++ {
		inv.Number = s.newNumber(issuedAt)
		err = s.repo.Create(ctx, inv)
		if !errors.Is(err, ErrNumberTaken) {
			break
		}
		log.Warnf("invoice number %s taken, attempt %d", inv.Number, attempt)
	}
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	if s.metricsManager != nil {
		s.metricsManager.CounterInvoicesCreated.Inc()
	}
	span.SetAttributes(attribute.String("number", inv.Number))
	span.SetStatus(codes.Ok, "created")

	return inv, nil
}

func (s *Service) Get(ctx context.Context, id int) (*Invoice, error) {
	return s.repo.Get(ctx, id)
}

func (s *Service) List(ctx context.Context) ([]*Invoice, error) {
	return s.repo.List(ctx)
}

func (s *Service) Delete(ctx context.Context, id int) error {
	return s.repo.Delete(ctx, id)
}

// ChangeStatus moves the invoice to the given status if the transition is allowed.
func (s *Service) ChangeStatus(ctx context.Context, id int, to Status) (*Invoice, error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "invoicesService.ChangeStatus")
	span.SetAttributes(attribute.Int("id", id))
	defer span.End()

	inv, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := CheckTransition(inv.Status, to); err != nil {
		return nil, err
	}

	if err := s.repo.UpdateStatus(ctx, id, inv.Status, to); err != nil {
		return nil, err
	}

	log.Debugf("invoice %s: %s -> %s", inv.Number, inv.Status, to)
	inv.Status = to
	return inv, nil
}

// Export writes all invoices as an xlsx spreadsheet.
func (s *Service) Export(ctx context.Context, w io.Writer) error {
	ctx, span := tracing.GlobalTracer.Start(ctx, "invoicesService.Export")
	defer span.End()

	invoices, err := s.repo.List(ctx)
	if err != nil {
		return fmt.Errorf("list invoices: %w", err)
	}
	span.SetAttributes(attribute.Int("count", len(invoices)))

	return WriteSpreadsheet(w, invoices)
}
