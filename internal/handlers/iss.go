package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/PratikDhanave/iss-tracker-service/internal/domain"
	"github.com/PratikDhanave/iss-tracker-service/internal/models"
)

// WindowLister reconstructs sun-exposure windows.
type WindowLister interface {
	Windows(ctx context.Context) ([]domain.Window, error)
}

// PositionReader reads the most recent ISS position.
type PositionReader interface {
	LatestPosition(ctx context.Context) (domain.Position, error)
}

// RegisterISSRoutes registers the read-only ISS endpoints.
//
// GET /iss/sun      - every sun-exposure window, oldest first
// GET /iss/position - the latest polled position
func RegisterISSRoutes(r gin.IRoutes, windows WindowLister, positions PositionReader, logger *slog.Logger) {
	r.GET("/iss/sun", func(c *gin.Context) {
		ws, err := windows.Windows(c.Request.Context())
		if errors.Is(err, domain.ErrInconsistentLog) {
			logger.Error("sun exposure log is inconsistent", "error", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": domain.ErrInconsistentLog.Error()})
			return
		}
		if err != nil {
			logger.Error("listing sun exposures failed", "error", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "db query failed"})
			return
		}

		resp := models.SunExposuresResponse{SunExposures: make([]models.SunExposure, 0, len(ws))}
		for _, w := range ws {
			var end any = w.End
			if w.Open {
				// Open windows end "now", reported as a bare epoch number.
				end = json.Number(w.End)
			}
			resp.SunExposures = append(resp.SunExposures, models.SunExposure{Start: w.Start, End: end})
		}
		c.JSON(http.StatusOK, resp)
	})

	r.GET("/iss/position", func(c *gin.Context) {
		pos, err := positions.LatestPosition(c.Request.Context())
		if errors.Is(err, domain.ErrNoPosition) {
			c.JSON(http.StatusOK, models.MessageResponse{Message: "No position data available"})
			return
		}
		if err != nil {
			logger.Error("reading latest position failed", "error", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "db query failed"})
			return
		}

		c.JSON(http.StatusOK, models.PositionResponse{
			Latitude:  pos.Latitude,
			Longitude: pos.Longitude,
		})
	})
}
