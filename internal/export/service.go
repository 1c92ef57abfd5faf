package export

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/prokura/procure-backend/internal/entity"
	"github.com/prokura/procure-backend/internal/repository"
)

// Service is a tiny façade over the request repository that produces
// XLSX/CSV bytes for exports.
type Service struct {
	requests repository.RequestRepository
	logger   *slog.Logger
}

func NewService(requests repository.RequestRepository, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{requests: requests, logger: logger}
}

var exportHeaders = []string{
	"ID",
	"Title",
	"Requestor",
	"Department",
	"Vendor",
	"VAT ID",
	"Commodity Group",
	"Status",
	"Total Cost (net)",
	"Created At",
	"Order Lines",
}

// RequestsXLSX returns an XLSX workbook with one row per request.
func (s *Service) RequestsXLSX(ctx context.Context) ([]byte, error) {
	start := time.Now()

	reqs, err := s.requests.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("query requests: %w", err)
	}

	f := excelize.NewFile()
	const sheet = "Requests"
	if index, _ := f.GetSheetIndex(sheet); index == -1 {
		if _, err := f.NewSheet(sheet); err != nil {
			return nil, err
		}
	}
	activeIndex, _ := f.GetSheetIndex(sheet)
	f.SetActiveSheet(activeIndex)
	_ = f.DeleteSheet("Sheet1")

	for i, h := range exportHeaders {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		_ = f.SetCellValue(sheet, cell, h)
	}

	for row, req := range reqs {
		values := exportRow(req)
		for col, v := range values {
			cell, _ := excelize.CoordinatesToCellName(col+1, row+2)
			_ = f.SetCellValue(sheet, cell, v)
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("write workbook: %w", err)
	}

	s.logger.Info("export.xlsx_ok", "rows", len(reqs), "bytes", buf.Len(),
		"elapsed_ms", time.Since(start).Milliseconds())
	return buf.Bytes(), nil
}

// RequestsCSV is the same report as RequestsXLSX, as CSV.
func (s *Service) RequestsCSV(ctx context.Context) ([]byte, error) {
	reqs, err := s.requests.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("query requests: %w", err)
	}

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write(exportHeaders); err != nil {
		return nil, err
	}
	for _, req := range reqs {
		if err := w.Write(exportRow(req)); err != nil {
			return nil, err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}

	s.logger.Info("export.csv_ok", "rows", len(reqs), "bytes", buf.Len())
	return buf.Bytes(), nil
}

func exportRow(req entity.ProcurementRequest) []string {
	vatID := ""
	if req.VendorVATID != nil {
		vatID = *req.VendorVATID
	}
	group := ""
	if req.CommodityGroup != nil {
		group = req.CommodityGroup.ID + " " + req.CommodityGroup.Name
	}
	lines := make([]string, 0, len(req.OrderLines))
	for _, l := range req.OrderLines {
		lines = append(lines, fmt.Sprintf("%dx %s @ %s", l.Amount, l.Product, l.UnitPrice.StringFixed(2)))
	}
	return []string{
		strconv.FormatUint(uint64(req.ID), 10),
		req.Title,
		req.RequestorName,
		req.Department,
		req.VendorName,
		vatID,
		group,
		req.CurrentStatus,
		req.TotalCost.StringFixed(2),
		req.CreatedAt.Format("2006-01-02"),
		strings.Join(lines, "; "),
	}
}
