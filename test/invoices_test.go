//go:build integration_test || all_tests

package test

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/brightpixel/studiosite/internal/customers"
	"github.com/brightpixel/studiosite/internal/invoices"
	"github.com/brightpixel/studiosite/pkg"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func (s *IntegrationTestSuite) TestCustomersAndInvoices() {
	t := s.T()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	client := newAdminClient(t)
	loginAdmin(ctx, t, client)

	resp, respBytes := doRequest(ctx, t, client, "POST", "/api/admin/customers", map[string]string{
		"name":    gofakeit.Name(),
		"email":   gofakeit.Email(),
		"company": gofakeit.Company(),
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode, string(respBytes))
	var customer customers.Customer
	require.NoError(t, json.Unmarshal(respBytes, &customer))
	require.Positive(t, customer.ID)

	issued := time.Date(2025, time.March, 1, 0, 0, 0, 0, time.UTC)
	resp, respBytes = doRequest(ctx, t, client, "POST", "/api/admin/invoices", map[string]any{
		"customer_id": customer.ID,
		"issued_at":   issued,
		"items": []map[string]any{
			{"description": "Logo design", "quantity": 1, "unit_price_cents": 150000},
			{"description": "Photo session hours", "quantity": 3, "unit_price_cents": 12500},
		},
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode, string(respBytes))
	var inv invoices.Invoice
	require.NoError(t, json.Unmarshal(respBytes, &inv))
	assert.Equal(t, int64(187500), inv.TotalCents)
	assert.Equal(t, invoices.StatusDraft, inv.Status)
	assert.True(t, issued.Add(invoices.DefaultPaymentTerm).Equal(inv.DueAt), inv.DueAt.String())
	assert.Len(t, inv.Items, 2)

	// unknown customer
	resp, _ = doRequest(ctx, t, client, "POST", "/api/admin/invoices", map[string]any{
		"customer_id": 999999,
		"items":       []map[string]any{{"description": "x", "quantity": 1, "unit_price_cents": 1}},
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	statusPath := fmt.Sprintf("/api/admin/invoices/%d/status", inv.ID)
	resp, _ = doRequest(ctx, t, client, "PUT", statusPath, map[string]string{"status": "paid"})
	assert.Equal(t, http.StatusConflict, resp.StatusCode)

	resp, _ = doRequest(ctx, t, client, "PUT", statusPath, map[string]string{"status": "sent"})
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	resp, _ = doRequest(ctx, t, client, "PUT", statusPath, map[string]string{"status": "paid"})
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var status string
	var itemsCount int
	require.NoError(t, s.DB.QueryRowContext(ctx,
		`SELECT i.status, (SELECT COUNT(*) FROM invoice_item it WHERE it.invoice_id = i.id)
		FROM invoice i WHERE i.id = $1`, inv.ID,
	).Scan(&status, &itemsCount))
	assert.Equal(t, "paid", status)
	assert.Equal(t, 2, itemsCount)

	resp, respBytes = doRequest(ctx, t, client, "GET", "/api/admin/invoices/export", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, pkg.ContentType.XLSX, resp.Header.Get("Content-Type"))
	assert.Contains(t, resp.Header.Get("Content-Disposition"), "invoices-")
	assert.NotEmpty(t, respBytes)

	// a customer with invoices cannot be removed
	resp, _ = doRequest(ctx, t, client, "DELETE", fmt.Sprintf("/api/admin/customers/%d", customer.ID), nil)
	assert.Equal(t, http.StatusConflict, resp.StatusCode)

	resp, _ = doRequest(ctx, t, client, "DELETE", fmt.Sprintf("/api/admin/invoices/%d", inv.ID), nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	resp, _ = doRequest(ctx, t, client, "DELETE", fmt.Sprintf("/api/admin/customers/%d", customer.ID), nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}
