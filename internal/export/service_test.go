package export

import (
	"bytes"
	"context"
	"encoding/csv"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/prokura/procure-backend/constants"
	"github.com/prokura/procure-backend/internal/entity"
	"github.com/prokura/procure-backend/internal/repository"
)

func newSeededService(t *testing.T) *Service {
	t.Helper()
	db, err := repository.Open(repository.Config{Driver: "sqlite", DSN: ":memory:"}, nil)
	require.NoError(t, err)
	repo := repository.NewRequestRepository(db, nil)

	vat := "DE812345678"
	req := &entity.ProcurementRequest{
		RequestorName: "Jamie Fischer",
		Title:         "Laptops",
		Department:    "IT",
		VendorName:    "TechSource GmbH",
		VendorVATID:   &vat,
		TotalCost:     decimal.RequireFromString("2400.00"),
		CurrentStatus: string(constants.StatusOpen),
		OrderLines: []entity.OrderLine{{
			Product:     "Laptop Pro",
			Description: "16 inch workstation",
			UnitPrice:   decimal.RequireFromString("1200.00"),
			Amount:      2,
			TotalPrice:  decimal.RequireFromString("2400.00"),
		}},
	}
	require.NoError(t, repo.Create(context.Background(), req))
	return NewService(repo, nil)
}

func TestRequestsCSV(t *testing.T) {
	svc := newSeededService(t)

	data, err := svc.RequestsCSV(context.Background())
	require.NoError(t, err)

	records, err := csv.NewReader(bytes.NewReader(data)).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, exportHeaders, records[0])

	row := records[1]
	assert.Equal(t, "Laptops", row[1])
	assert.Equal(t, "TechSource GmbH", row[4])
	assert.Equal(t, "2400.00", row[8])
	assert.Equal(t, "2x Laptop Pro @ 1200.00", row[10])
}

func TestRequestsXLSX(t *testing.T) {
	svc := newSeededService(t)

	data, err := svc.RequestsXLSX(context.Background())
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer func() { _ = f.Close() }()

	rows, err := f.GetRows("Requests")
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "Title", rows[0][1])
	assert.Equal(t, "Laptops", rows[1][1])
}
