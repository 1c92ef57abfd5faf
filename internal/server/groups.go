package server

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/prokura/procure-backend/constants"
	"github.com/prokura/procure-backend/internal/extract"
)

func (h *handlers) listGroups(c *gin.Context) {
	groups, err := h.svc.Groups.List(c.Request.Context())
	if err != nil {
		h.svc.Logger.Errorw("list commodity groups failed", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not list commodity groups"})
		return
	}
	c.JSON(http.StatusOK, groups)
}

type predictPayload struct {
	Title string `json:"title" binding:"required"`
}

// predictGroup classifies a bare title against the full catalogue. Unlike the
// post-extraction path this one surfaces engine failures to the caller.
func (h *handlers) predictGroup(c *gin.Context) {
	var p predictPayload
	if err := c.ShouldBindJSON(&p); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ctx := c.Request.Context()
	groups, err := h.svc.Groups.List(ctx)
	if err != nil {
		h.svc.Logger.Errorw("list commodity groups failed", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not list commodity groups"})
		return
	}
	catalogue := make([]constants.CommodityGroup, 0, len(groups))
	for _, g := range groups {
		catalogue = append(catalogue, constants.CommodityGroup{ID: g.ID, Category: g.Category, Name: g.Name})
	}

	groupID, err := h.svc.Classifier.Classify(ctx, extract.ClassifyRequest{
		Title:  p.Title,
		Groups: catalogue,
	})
	if err != nil {
		switch {
		case errors.Is(err, extract.ErrClassificationUnavailable):
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": "classification backend not configured"})
		case errors.Is(err, extract.ErrClassificationRefused):
			c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
		default:
			h.svc.Logger.Errorw("classification failed", "error", err)
			c.JSON(http.StatusBadGateway, gin.H{"error": "classification failed"})
		}
		return
	}

	exists, err := h.svc.Groups.Exists(ctx, groupID)
	if err != nil {
		h.svc.Logger.Errorw("check commodity group failed", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}
	if !exists {
		c.JSON(http.StatusBadGateway, gin.H{"error": "prediction named an unknown commodity group"})
		return
	}

	group, _ := constants.FindGroup(groupID)
	c.JSON(http.StatusOK, gin.H{
		"commodity_group_id": groupID,
		"category":           group.Category,
		"name":               group.Name,
	})
}
