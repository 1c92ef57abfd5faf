package server

import (
	"log/slog"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/prokura/procure-backend/internal/export"
	"github.com/prokura/procure-backend/internal/extract"
	"github.com/prokura/procure-backend/internal/repository"
)

// Services bundles everything the handlers need. Extractor and Classifier are
// always non-nil; with no engine configured they report unavailable per call.
type Services struct {
	Requests   repository.RequestRepository
	Groups     repository.GroupRepository
	Extractor  *extract.Extractor
	Classifier *extract.Classifier
	Export     *export.Service
	UploadDir  string
	Logger     *zap.SugaredLogger
	CoreLog    *slog.Logger
}

// NewRouter wires the HTTP surface.
func NewRouter(svc Services, corsOrigins []string) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(cors.New(cors.Config{
		AllowOrigins:     corsOrigins,
		AllowMethods:     []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept"},
		AllowCredentials: true,
	}))

	h := &handlers{svc: svc}

	r.GET("/healthz", h.health)

	r.POST("/requests", h.createRequest)
	r.GET("/requests", h.listRequests)
	r.GET("/requests/:id", h.getRequest)
	r.POST("/requests/:id/status", h.changeStatus)
	r.POST("/requests/:id/upload-offer", h.uploadOffer)
	r.POST("/requests/:id/extract-offer", h.extractOffer)
	r.POST("/requests/:id/commodity-group", h.setCommodityGroup)

	r.GET("/commodity-groups", h.listGroups)
	r.POST("/commodity-groups/predict", h.predictGroup)

	// Lives outside /requests so the wildcard :id route stays unambiguous.
	r.GET("/export/requests", h.exportRequests)

	return r
}

type handlers struct {
	svc Services
}

func (h *handlers) health(c *gin.Context) {
	c.JSON(200, gin.H{"status": "ok"})
}
