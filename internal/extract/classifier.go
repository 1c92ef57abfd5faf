package extract

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/prokura/procure-backend/constants"
	"github.com/prokura/procure-backend/internal/llm"
)

// Classifier is the second instance of the orchestrator pattern, constrained
// to the closed commodity-group set. Single shot, stateless, no retries;
// callers treat failures as non-fatal and leave the target record
// unclassified.
type Classifier struct {
	client llm.ChatClient
	logger *slog.Logger
}

func NewClassifier(client llm.ChatClient, logger *slog.Logger) *Classifier {
	if logger == nil {
		logger = slog.Default()
	}
	return &Classifier{client: client, logger: logger}
}

// Classify returns a three-digit commodity group id chosen from req.Groups.
// Only the id shape is enforced here; membership in the persisted group set
// is the caller's check.
func (c *Classifier) Classify(ctx context.Context, req ClassifyRequest) (string, error) {
	if c.client == nil {
		return "", ErrClassificationUnavailable
	}

	rid := uuid.New().String()
	start := time.Now()
	c.logger.Info("classify.start", "req_id", rid, "title", req.Title, "groups", len(req.Groups))

	schema := BuildCommodityJSONSchema()
	res, err := c.client.Complete(ctx, llm.ChatRequest{
		System:     BuildClassifierSystemPrompt(),
		User:       BuildClassifierUserPrompt(req),
		SchemaName: "commodity_prediction",
		Schema:     schema,
	})
	if err != nil {
		c.logger.Error("classify.engine_error", "req_id", rid, "error", err,
			"elapsed_ms", time.Since(start).Milliseconds())
		return "", err
	}
	if res.Refusal != "" {
		return "", fmt.Errorf("%w: %s", ErrClassificationRefused, res.Refusal)
	}
	if err := ValidateCommodityJSON(res.Content); err != nil {
		c.logger.Error("classify.schema_validation_failed", "req_id", rid, "error", err,
			"elapsed_ms", time.Since(start).Milliseconds())
		return "", fmt.Errorf("%w: engine returned no parsable prediction", ErrClassificationRefused)
	}

	var p struct {
		CommodityGroupID string `json:"commodity_group_id"`
	}
	if err := json.Unmarshal(res.Content, &p); err != nil {
		return "", fmt.Errorf("%w: undecodable prediction: %v", ErrClassificationRefused, err)
	}
	if !constants.IsGroupIDShape(p.CommodityGroupID) {
		return "", fmt.Errorf("%w: %q is not a valid group id", ErrClassificationRefused, p.CommodityGroupID)
	}

	c.logger.Info("classify.ok", "req_id", rid, "group_id", p.CommodityGroupID,
		"elapsed_ms", time.Since(start).Milliseconds())
	return p.CommodityGroupID, nil
}
