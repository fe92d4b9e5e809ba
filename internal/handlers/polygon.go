package handlers

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/PratikDhanave/iss-tracker-service/internal/auth"
	"github.com/PratikDhanave/iss-tracker-service/internal/domain"
	"github.com/PratikDhanave/iss-tracker-service/internal/geometry"
	"github.com/PratikDhanave/iss-tracker-service/internal/models"
)

// PolygonStore is the keyed polygon storage.
type PolygonStore interface {
	InsertPolygon(ctx context.Context, poly domain.Polygon) error
	DeletePolygon(ctx context.Context, uuid string) error
	GetPolygon(ctx context.Context, uuid string) (domain.Polygon, error)
	ListPolygons(ctx context.Context) ([]domain.Polygon, error)
}

const invalidPolygonMessage = "The wkt string is not a valid 2D polygon"

// RegisterPolygonRoutes registers the 2D-polygon CRUD endpoints.
// guard runs in front of the mutating routes (POST, DELETE).
func RegisterPolygonRoutes(r gin.IRoutes, st PolygonStore, guard gin.HandlerFunc, logger *slog.Logger) {
	r.POST("/2d-polygons", guard, func(c *gin.Context) {
		var req models.PolygonRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "uuid, color and wkt are required"})
			return
		}

		id, err := uuid.Parse(req.UUID)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "uuid must be a valid UUID"})
			return
		}

		if err := geometry.Validate2DPolygon(req.WKT); err != nil {
			logger.Debug("rejected polygon", "uuid", req.UUID, "error", err)
			c.JSON(http.StatusUnprocessableEntity, gin.H{"error": invalidPolygonMessage})
			return
		}

		poly := domain.Polygon{UUID: id.String(), Color: req.Color, WKT: req.WKT}
		err = st.InsertPolygon(c.Request.Context(), poly)
		if errors.Is(err, domain.ErrDuplicatePolygon) {
			c.JSON(http.StatusConflict, gin.H{"error": "polygon with this uuid already exists"})
			return
		}
		if err != nil {
			logger.Error("inserting polygon failed", "uuid", poly.UUID, "error", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "db insert failed"})
			return
		}

		logger.Info("polygon created", "uuid", poly.UUID, "client", auth.ClientName(c))
		c.JSON(http.StatusCreated, models.MessageResponse{Message: poly.UUID})
	})

	r.DELETE("/2d-polygons/:uuid", guard, func(c *gin.Context) {
		id := canonicalUUID(c.Param("uuid"))

		err := st.DeletePolygon(c.Request.Context(), id)
		if errors.Is(err, domain.ErrPolygonNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "No polygon with the given uuid exists"})
			return
		}
		if err != nil {
			logger.Error("deleting polygon failed", "uuid", id, "error", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "db delete failed"})
			return
		}

		logger.Info("polygon deleted", "uuid", id, "client", auth.ClientName(c))
		c.JSON(http.StatusOK, models.MessageResponse{Message: id})
	})

	r.GET("/2d-polygons", func(c *gin.Context) {
		polys, err := st.ListPolygons(c.Request.Context())
		if err != nil {
			logger.Error("listing polygons failed", "error", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "db query failed"})
			return
		}

		resp := models.PolygonListResponse{Polygons: make([]models.PolygonResponse, 0, len(polys))}
		for _, p := range polys {
			resp.Polygons = append(resp.Polygons, toPolygonResponse(p))
		}
		c.JSON(http.StatusOK, resp)
	})

	r.GET("/2d-polygons/:uuid", func(c *gin.Context) {
		poly, err := st.GetPolygon(c.Request.Context(), canonicalUUID(c.Param("uuid")))
		if errors.Is(err, domain.ErrPolygonNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "No polygon with the given uuid exists"})
			return
		}
		if err != nil {
			logger.Error("reading polygon failed", "error", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "db query failed"})
			return
		}
		c.JSON(http.StatusOK, toPolygonResponse(poly))
	})
}

func toPolygonResponse(p domain.Polygon) models.PolygonResponse {
	return models.PolygonResponse{UUID: p.UUID, Color: p.Color, WKT: p.WKT}
}

// canonicalUUID lower-cases and normalises s when it parses as a UUID, so
// lookups match what POST stored.
func canonicalUUID(s string) string {
	if id, err := uuid.Parse(s); err == nil {
		return id.String()
	}
	return s
}
