package invoices

import (
	"context"
	"errors"
	"fmt"

	"github.com/brightpixel/studiosite/internal/telemetry/tracing"
	"github.com/brightpixel/studiosite/pkg"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"
)

const invoiceColumns = `id, number, customer_id, status, issued_at, due_at, total_cents, notes, created_at`

var _ invoiceRepo = (*Repo)(nil)

type Repo struct {
	db *pgxpool.Pool
}

func NewRepo(db *pgxpool.Pool) *Repo {
	return &Repo{
		db: db,
	}
}

// Create stores the invoice and its items in one transaction.
func (r *Repo) Create(ctx context.Context, inv *Invoice) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "invoicesRepo.Create")
	defer span.End()

	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer func() {
		if err != nil {
			if rbErr := tx.Rollback(ctx); rbErr != nil && !errors.Is(rbErr, pgx.ErrTxClosed) {
				log.Errorf("rollback create invoice tx: %s", rbErr)
			}
		}
	}()

	if err = tx.QueryRow(
		ctx,
		`
			INSERT INTO invoice (number, customer_id, status, issued_at, due_at, total_cents, notes)
			VALUES ($1, $2, $3, $4, $5, $6, $7)
			RETURNING id, created_at;
		`,
		inv.Number, inv.CustomerID, string(inv.Status), inv.IssuedAt, inv.DueAt, inv.TotalCents, inv.Notes,
	).Scan(&inv.ID, &inv.CreatedAt); err != nil {
		switch {
		case pkg.IsForeignKeyViolationError(err):
			return ErrCustomerNotFound
		case pkg.IsUniqueViolationError(err):
			return ErrNumberTaken
		}
		return fmt.Errorf("insert invoice: %w", err)
	}

	for i := range inv.Items {
		item := &inv.Items[i]
		if err = tx.QueryRow(
			ctx,
			`
				INSERT INTO invoice_item (invoice_id, description, quantity, unit_price_cents)
				VALUES ($1, $2, $3, $4)
				RETURNING id;
			`,
			inv.ID, item.Description, item.Quantity, item.UnitPriceCents,
		).Scan(&item.ID); err != nil {
			return fmt.Errorf("insert invoice item %d: %w", i+1, err)
		}
	}

	if err = tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	return nil
}

func (r *Repo) Get(ctx context.Context, id int) (*Invoice, error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "invoicesRepo.Get")
	span.SetAttributes(attribute.Int("id", id))
	defer span.End()

	rows, err := r.db.Query(ctx, `SELECT `+invoiceColumns+` FROM invoice WHERE id = $1;`, id)
	if err != nil {
		return nil, err
	}
	invoices, err := rows2invoices(rows)
	if err != nil {
		return nil, err
	}
	if len(invoices) == 0 {
		return nil, ErrInvoiceNotFound
	}

	if err := r.loadItems(ctx, invoices); err != nil {
		return nil, err
	}
	return invoices[0], nil
}

func (r *Repo) List(ctx context.Context) ([]*Invoice, error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "invoicesRepo.List")
	defer span.End()

	rows, err := r.db.Query(ctx, `SELECT `+invoiceColumns+` FROM invoice ORDER BY issued_at DESC, id DESC;`)
	if err != nil {
		return nil, err
	}
	invoices, err := rows2invoices(rows)
	if err != nil {
		return nil, err
	}

	if err := r.loadItems(ctx, invoices); err != nil {
		return nil, err
	}
	return invoices, nil
}

// UpdateStatus moves the invoice from one status to another. It fails if the
// stored status is no longer from.
func (r *Repo) UpdateStatus(ctx context.Context, id int, from, to Status) error {
	ctx, span := tracing.GlobalTracer.Start(ctx, "invoicesRepo.UpdateStatus")
	span.SetAttributes(attribute.Int("id", id))
	span.SetAttributes(attribute.String("to", string(to)))
	defer span.End()

	tag, err := r.db.Exec(
		ctx,
		`UPDATE invoice SET status = $1 WHERE id = $2 AND status = $3`,
		string(to), id, string(from),
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: invoice %d is no longer %s", ErrInvalidTransition, id, from)
	}
	return nil
}

func (r *Repo) Delete(ctx context.Context, id int) error {
	ctx, span := tracing.GlobalTracer.Start(ctx, "invoicesRepo.Delete")
	span.SetAttributes(attribute.Int("id", id))
	defer span.End()

	tag, err := r.db.Exec(ctx, `DELETE FROM invoice WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrInvoiceNotFound
	}
	return nil
}

func (r *Repo) loadItems(ctx context.Context, invoices []*Invoice) error {
	if len(invoices) == 0 {
		return nil
	}

	byID := make(map[int]*Invoice, len(invoices))
	ids := make([]int, 0, len(invoices))
	for _, inv := range invoices {
		inv.Items = []Item{}
		byID[inv.ID] = inv
		ids = append(ids, inv.ID)
	}

	rows, err := r.db.Query(
		ctx,
		`
			SELECT id, invoice_id, description, quantity, unit_price_cents
			FROM invoice_item
			WHERE invoice_id = ANY($1)
			ORDER BY id;
		`,
		ids,
	)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var item Item
		var invoiceID int
		if err := rows.Scan(&item.ID, &invoiceID, &item.Description, &item.Quantity, &item.UnitPriceCents); err != nil {
			return err
		}
		if inv, ok := byID[invoiceID]; ok {
			inv.Items = append(inv.Items, item)
		}
	}
	return rows.Err()
}

func rows2invoices(rows pgx.Rows) ([]*Invoice, error) {
	defer rows.Close()

	invoices := []*Invoice{}
	for rows.Next() {
		inv := &Invoice{}
		var status string
		if err := rows.Scan(
			&inv.ID, &inv.Number, &inv.CustomerID, &status, &inv.IssuedAt,
			&inv.DueAt, &inv.TotalCents, &inv.Notes, &inv.CreatedAt,
		); err != nil {
			return nil, err
		}
		inv.Status = Status(status)
		invoices = append(invoices, inv)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return invoices, nil
}
