package server

import (
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestListCommodityGroups(t *testing.T) {
	r := newTestRouter(t, nil)

	w := doJSON(t, r, http.MethodGet, "/commodity-groups", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"id":"001"`)
	assert.Contains(t, w.Body.String(), `"id":"050"`)
}

func TestPredictGroup(t *testing.T) {
	chat := &stubChat{classifyJSON: `{"commodity_group_id": "027"}`}
	r := newTestRouter(t, chat)

	w := doJSON(t, r, http.MethodPost, "/commodity-groups/predict", gin.H{"title": "New developer laptops"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Contains(t, w.Body.String(), `"commodity_group_id":"027"`)
}

func TestPredictGroupUnavailableWithoutEngine(t *testing.T) {
	r := newTestRouter(t, nil)

	w := doJSON(t, r, http.MethodPost, "/commodity-groups/predict", gin.H{"title": "Laptops"})
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}

func TestPredictGroupRejectsOutOfSetID(t *testing.T) {
	// Well-formed three-digit id that is not in the seeded table: the
	// membership re-check must refuse it rather than echo the engine.
	chat := &stubChat{classifyJSON: `{"commodity_group_id": "999"}`}
	r := newTestRouter(t, chat)

	w := doJSON(t, r, http.MethodPost, "/commodity-groups/predict", gin.H{"title": "Laptops"})
	assert.Equal(t, http.StatusBadGateway, w.Code)
	assert.Contains(t, w.Body.String(), "unknown commodity group")
}

func TestPredictGroupValidation(t *testing.T) {
	r := newTestRouter(t, nil)

	w := doJSON(t, r, http.MethodPost, "/commodity-groups/predict", gin.H{})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
