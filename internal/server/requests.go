package server

import (
	"errors"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"github.com/prokura/procure-backend/constants"
	"github.com/prokura/procure-backend/internal/common"
	"github.com/prokura/procure-backend/internal/doctext"
	"github.com/prokura/procure-backend/internal/entity"
	"github.com/prokura/procure-backend/internal/extract"
	"github.com/prokura/procure-backend/internal/repository"
)

type createLinePayload struct {
	Product     string          `json:"product"`
	Description string          `json:"description" binding:"required"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	Amount      int             `json:"amount"`
	Unit        *string         `json:"unit"`
}

type createRequestPayload struct {
	RequestorName string              `json:"requestor_name" binding:"required"`
	Title         string              `json:"title" binding:"required"`
	Department    string              `json:"department" binding:"required"`
	VendorName    string              `json:"vendor_name" binding:"required"`
	OrderLines    []createLinePayload `json:"order_lines" binding:"required,min=1"`
}

// createRequest builds a request from manual input. Manual lines derive their
// totals from unit price times amount; the request total is the sum of lines.
func (h *handlers) createRequest(c *gin.Context) {
	var p createRequestPayload
	if err := c.ShouldBindJSON(&p); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	lines := make([]entity.OrderLine, 0, len(p.OrderLines))
	total := decimal.Zero
	for i, lp := range p.OrderLines {
		if lp.UnitPrice.IsNegative() {
			c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("order_lines[%d].unit_price must not be negative", i)})
			return
		}
		amount := lp.Amount
		if amount <= 0 {
			amount = 1
		}
		lineTotal := lp.UnitPrice.Mul(decimal.NewFromInt(int64(amount))).Round(2)
		total = total.Add(lineTotal)
		product := strings.TrimSpace(lp.Product)
		if product == "" {
			product = strings.TrimSpace(lp.Description)
		}
		lines = append(lines, entity.OrderLine{
			Product:     product,
			Description: strings.TrimSpace(lp.Description),
			UnitPrice:   lp.UnitPrice,
			Amount:      amount,
			Unit:        lp.Unit,
			TotalPrice:  lineTotal,
		})
	}

	req := entity.ProcurementRequest{
		RequestorName: p.RequestorName,
		Title:         p.Title,
		Department:    p.Department,
		VendorName:    p.VendorName,
		TotalCost:     total,
		CurrentStatus: string(constants.StatusOpen),
		OrderLines:    lines,
		StatusEvents: []entity.StatusEvent{{
			ToStatus:  string(constants.StatusOpen),
			ChangedBy: &p.RequestorName,
		}},
	}
	if err := h.svc.Requests.Create(c.Request.Context(), &req); err != nil {
		h.svc.Logger.Errorw("create request failed", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not create request"})
		return
	}

	h.svc.Logger.Infow("request created", "request_id", req.ID, "requestor", req.RequestorName)
	c.JSON(http.StatusCreated, req)
}

func (h *handlers) listRequests(c *gin.Context) {
	reqs, err := h.svc.Requests.List(c.Request.Context())
	if err != nil {
		h.svc.Logger.Errorw("list requests failed", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not list requests"})
		return
	}
	c.JSON(http.StatusOK, reqs)
}

func (h *handlers) getRequest(c *gin.Context) {
	id, ok := h.requestID(c)
	if !ok {
		return
	}
	req, err := h.svc.Requests.Get(c.Request.Context(), id)
	if err != nil {
		h.respondRepoError(c, err, "get request")
		return
	}
	c.JSON(http.StatusOK, req)
}

type changeStatusPayload struct {
	Status    string  `json:"status" binding:"required"`
	ChangedBy *string `json:"changed_by"`
}

func (h *handlers) changeStatus(c *gin.Context) {
	id, ok := h.requestID(c)
	if !ok {
		return
	}
	var p changeStatusPayload
	if err := c.ShouldBindJSON(&p); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if !constants.IsValidStatus(p.Status) {
		c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("unknown status %q", p.Status)})
		return
	}
	req, err := h.svc.Requests.ChangeStatus(c.Request.Context(), id, p.Status, p.ChangedBy)
	if err != nil {
		h.respondRepoError(c, err, "change status")
		return
	}
	c.JSON(http.StatusOK, req)
}

// uploadOffer stores an offer document under the upload dir and records an
// attachment row. Only txt and pdf are accepted.
func (h *handlers) uploadOffer(c *gin.Context) {
	id, ok := h.requestID(c)
	if !ok {
		return
	}
	file, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing file field"})
		return
	}
	ext := constants.NormalizeExt(filepath.Ext(file.Filename))
	if !constants.IsAllowedOfferExt(ext) {
		c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("unsupported file type %q, allowed: txt, pdf", ext)})
		return
	}

	safeName := strings.NewReplacer("/", "_", "\\", "_").Replace(file.Filename)
	dst := filepath.Join(h.svc.UploadDir, fmt.Sprintf("%d_%s", id, safeName))
	if err := c.SaveUploadedFile(file, dst); err != nil {
		h.svc.Logger.Errorw("save upload failed", "request_id", id, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not store file"})
		return
	}

	att := entity.Attachment{RequestID: id, Filename: safeName, Path: dst}
	if err := h.svc.Requests.AddAttachment(c.Request.Context(), &att); err != nil {
		if removeErr := os.Remove(dst); removeErr != nil {
			h.svc.Logger.Warnw("orphaned upload not removed", "path", dst, "error", removeErr)
		}
		h.respondRepoError(c, err, "record attachment")
		return
	}

	h.svc.Logger.Infow("offer uploaded", "request_id", id, "attachment_id", att.ID, "filename", att.Filename)
	c.JSON(http.StatusCreated, gin.H{"attachment_id": att.ID, "filename": att.Filename})
}

// extractOffer runs the full pipeline on the most recent attachment: text
// extraction, structured interpretation, persistence, then a best-effort
// commodity classification that never fails the call.
func (h *handlers) extractOffer(c *gin.Context) {
	id, ok := h.requestID(c)
	if !ok {
		return
	}
	ctx := c.Request.Context()

	att, err := h.svc.Requests.LatestAttachment(ctx, id)
	if errors.Is(err, common.ErrNotFound) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "no offer document uploaded for this request"})
		return
	}
	if err != nil {
		h.respondRepoError(c, err, "load attachment")
		return
	}

	text, err := doctext.FromFile(att.Path, h.svc.CoreLog)
	if err != nil {
		switch {
		case errors.Is(err, doctext.ErrNoText), errors.Is(err, doctext.ErrUnsupportedFormat):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		default:
			h.svc.Logger.Errorw("document text extraction failed", "request_id", id, "path", att.Path, "error", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "could not read offer document"})
		}
		return
	}

	res, err := h.svc.Extractor.Extract(ctx, text)
	if err != nil {
		h.respondExtractionError(c, err)
		return
	}

	lines := make([]entity.OrderLine, 0, len(res.OrderLines))
	for _, l := range res.OrderLines {
		lines = append(lines, entity.OrderLine{
			Product:     l.Product,
			Description: l.Description,
			UnitPrice:   l.UnitPrice,
			Amount:      l.Quantity,
			Unit:        l.Unit,
			TotalPrice:  l.TotalPrice,
		})
	}
	req, err := h.svc.Requests.ApplyExtraction(ctx, id, repository.ExtractionUpdate{
		Title:       res.Title,
		VendorName:  res.VendorName,
		VendorVATID: res.VendorVATID,
		Department:  res.Department,
		OrderLines:  lines,
		TotalCost:   res.TotalCost,
	})
	if err != nil {
		h.respondRepoError(c, err, "apply extraction")
		return
	}

	if updated := h.classifyBestEffort(c, req); updated != nil {
		req = updated
	}

	c.JSON(http.StatusOK, req)
}

// classifyBestEffort predicts a commodity group for a freshly extracted
// request. Any failure is logged and swallowed; the request simply stays
// unclassified.
func (h *handlers) classifyBestEffort(c *gin.Context, req *entity.ProcurementRequest) *entity.ProcurementRequest {
	ctx := c.Request.Context()

	groups, err := h.svc.Groups.List(ctx)
	if err != nil {
		h.svc.Logger.Warnw("classification skipped, group list failed", "request_id", req.ID, "error", err)
		return nil
	}
	catalogue := make([]constants.CommodityGroup, 0, len(groups))
	for _, g := range groups {
		catalogue = append(catalogue, constants.CommodityGroup{ID: g.ID, Category: g.Category, Name: g.Name})
	}

	var lineText strings.Builder
	for _, l := range req.OrderLines {
		fmt.Fprintf(&lineText, "- %s: %s\n", l.Product, l.Description)
	}
	groupID, err := h.svc.Classifier.Classify(ctx, extract.ClassifyRequest{
		Title:          req.Title,
		Department:     req.Department,
		VendorName:     req.VendorName,
		OrderLinesText: lineText.String(),
		Groups:         catalogue,
	})
	if err != nil {
		h.svc.Logger.Warnw("classification skipped", "request_id", req.ID, "error", err)
		return nil
	}

	exists, err := h.svc.Groups.Exists(ctx, groupID)
	if err != nil || !exists {
		h.svc.Logger.Warnw("classification discarded, unknown group", "request_id", req.ID, "group_id", groupID, "error", err)
		return nil
	}

	updated, err := h.svc.Requests.SetCommodityGroup(ctx, req.ID, groupID)
	if err != nil {
		h.svc.Logger.Warnw("classification not persisted", "request_id", req.ID, "group_id", groupID, "error", err)
		return nil
	}
	return updated
}

type setGroupPayload struct {
	CommodityGroupID string `json:"commodity_group_id" binding:"required"`
}

func (h *handlers) setCommodityGroup(c *gin.Context) {
	id, ok := h.requestID(c)
	if !ok {
		return
	}
	var p setGroupPayload
	if err := c.ShouldBindJSON(&p); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	exists, err := h.svc.Groups.Exists(c.Request.Context(), p.CommodityGroupID)
	if err != nil {
		h.respondRepoError(c, err, "check commodity group")
		return
	}
	if !exists {
		c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("unknown commodity group %q", p.CommodityGroupID)})
		return
	}
	req, err := h.svc.Requests.SetCommodityGroup(c.Request.Context(), id, p.CommodityGroupID)
	if err != nil {
		h.respondRepoError(c, err, "set commodity group")
		return
	}
	c.JSON(http.StatusOK, req)
}

func (h *handlers) exportRequests(c *gin.Context) {
	switch c.DefaultQuery("format", "xlsx") {
	case "csv":
		data, err := h.svc.Export.RequestsCSV(c.Request.Context())
		if err != nil {
			h.svc.Logger.Errorw("csv export failed", "error", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "export failed"})
			return
		}
		c.Header("Content-Disposition", `attachment; filename="requests.csv"`)
		c.Data(http.StatusOK, "text/csv", data)
	case "xlsx":
		data, err := h.svc.Export.RequestsXLSX(c.Request.Context())
		if err != nil {
			h.svc.Logger.Errorw("xlsx export failed", "error", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "export failed"})
			return
		}
		c.Header("Content-Disposition", `attachment; filename="requests.xlsx"`)
		c.Data(http.StatusOK, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", data)
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "format must be xlsx or csv"})
	}
}

func (h *handlers) requestID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request id"})
		return 0, false
	}
	return uint(id), true
}

func (h *handlers) respondRepoError(c *gin.Context, err error, op string) {
	if errors.Is(err, common.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "request not found"})
		return
	}
	h.svc.Logger.Errorw(op+" failed", "error", err)
	c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
}

// respondExtractionError maps pipeline failures onto HTTP semantics: a missing
// engine is 503, an engine that ran but produced nothing usable is 502.
func (h *handlers) respondExtractionError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, extract.ErrExtractionUnavailable):
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "extraction backend not configured"})
	case errors.Is(err, extract.ErrExtractionRefused), errors.Is(err, extract.ErrMalformedMonetaryValue):
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
	default:
		h.svc.Logger.Errorw("extraction failed", "error", err)
		c.JSON(http.StatusBadGateway, gin.H{"error": "extraction failed"})
	}
}
