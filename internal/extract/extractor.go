package extract

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/prokura/procure-backend/internal/llm"
)

// Capability errors. *Unavailable means no interpretation backend was
// configured; *Refused means the backend ran but declined or produced nothing
// structurally usable. Neither is retried here; retry policy belongs to the
// caller.
var (
	ErrExtractionUnavailable     = errors.New("extraction backend not configured")
	ErrExtractionRefused         = errors.New("extraction refused")
	ErrClassificationUnavailable = errors.New("classification backend not configured")
	ErrClassificationRefused     = errors.New("classification refused")
)

// Extractor drives the interpretation engine with the offer schema and
// instruction set. It holds no mutable state: each call owns its own
// conversation and result, so concurrent use needs no coordination.
type Extractor struct {
	client llm.ChatClient
	logger *slog.Logger
}

// NewExtractor accepts a possibly-nil client; absence surfaces as
// ErrExtractionUnavailable per call rather than at construction.
func NewExtractor(client llm.ChatClient, logger *slog.Logger) *Extractor {
	if logger == nil {
		logger = slog.Default()
	}
	return &Extractor{client: client, logger: logger}
}

// Extract turns raw offer text into a validated, normalized OfferExtraction.
func (e *Extractor) Extract(ctx context.Context, documentText string) (OfferExtraction, error) {
	if e.client == nil {
		return OfferExtraction{}, ErrExtractionUnavailable
	}

	rid := uuid.New().String()
	start := time.Now()

	text, truncated := TruncateWords(documentText, MaxDocumentWords)
	if truncated {
		e.logger.Warn("extract.input_truncated",
			"req_id", rid,
			"max_words", MaxDocumentWords,
			"original_len", len(documentText),
			"submitted_len", len(text),
		)
	}
	e.logger.Info("extract.start", "req_id", rid, "text_len", len(text))

	schema := BuildOfferJSONSchema()
	res, err := e.client.Complete(ctx, llm.ChatRequest{
		System:     BuildOfferSystemPrompt(),
		User:       BuildOfferUserPrompt(text),
		SchemaName: "offer_extraction",
		Schema:     schema,
	})
	if err != nil {
		e.logger.Error("extract.engine_error", "req_id", rid, "error", err,
			"elapsed_ms", time.Since(start).Milliseconds())
		return OfferExtraction{}, err
	}
	if res.Refusal != "" {
		e.logger.Warn("extract.refused", "req_id", rid, "refusal", res.Refusal,
			"elapsed_ms", time.Since(start).Milliseconds())
		return OfferExtraction{}, fmt.Errorf("%w: %s", ErrExtractionRefused, res.Refusal)
	}

	content := bytes.TrimSpace(res.Content)
	if len(content) == 0 {
		return OfferExtraction{}, fmt.Errorf("%w: engine returned no structured result", ErrExtractionRefused)
	}

	if vErr := ValidateOfferJSON(content); vErr != nil {
		cleaned, droppedKeys, sErr := NormalizeOfferJSON(content, e.logger)
		if sErr != nil || ValidateOfferJSON(cleaned) != nil {
			e.logger.Error("extract.schema_validation_failed",
				"req_id", rid, "error", vErr,
				"elapsed_ms", time.Since(start).Milliseconds())
			return OfferExtraction{}, fmt.Errorf("%w: engine returned no structurally valid result", ErrExtractionRefused)
		}
		e.logger.Warn("extract.lenient_sanitize_applied", "req_id", rid, "dropped", droppedKeys)
		content = cleaned
	}

	var w offerWire
	if err := json.Unmarshal(content, &w); err != nil {
		return OfferExtraction{}, fmt.Errorf("%w: undecodable result: %v", ErrExtractionRefused, err)
	}

	out, err := buildExtraction(w)
	if err != nil {
		e.logger.Error("extract.normalize_failed", "req_id", rid, "error", err,
			"elapsed_ms", time.Since(start).Milliseconds())
		return OfferExtraction{}, err
	}

	e.logger.Info("extract.ok",
		"req_id", rid,
		"vendor", out.VendorName,
		"lines", len(out.OrderLines),
		"total_cost", out.TotalCost.String(),
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return out, nil
}
