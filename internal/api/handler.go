package api

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/amosWeiskopf/keywordscan/internal/models"
	"github.com/amosWeiskopf/keywordscan/pkg/reporter"
	"github.com/amosWeiskopf/keywordscan/pkg/scanner"
)

// Version is reported by the health endpoint
var Version = "dev"

// ScanRequest is the body of POST /api/v1/scan
type ScanRequest struct {
	// URL is the seed page. Required.
	URL string `json:"url" binding:"required"`

	// Keywords is optional comma separated text. When empty the configured
	// list is used.
	Keywords string `json:"keywords,omitempty"`

	Mode string `json:"mode,omitempty" binding:"omitempty,oneof=frequency context per-page"`

	// Format returns the report file instead of JSON when set
	Format string `json:"format,omitempty" binding:"omitempty,oneof=csv html json markdown"`
}

// ScanResponse is the JSON answer of a scan without a format
type ScanResponse struct {
	Success bool                `json:"success"`
	Result  *models.ScanResult  `json:"result,omitempty"`
	Table   []reporter.Row      `json:"table,omitempty"`
	Error   *models.ErrorDetail `json:"error,omitempty"`
}

// HealthResponse is the answer of GET /api/v1/health
type HealthResponse struct {
	Status  string `json:"status"`
	Uptime  string `json:"uptime"`
	Version string `json:"version"`
}

// Health returns a handler for GET /api/v1/health
func Health(startTime time.Time) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, HealthResponse{
			Status:  "healthy",
			Uptime:  time.Since(startTime).Round(time.Second).String(),
			Version: Version,
		})
	}
}

// Scan returns a handler for POST /api/v1/scan.
//
// Without a format the scan result and its table are returned as JSON. With a
// format the report is sent as an attachment; a scan that matched nothing has
// no report and answers 422.
func Scan(sc *scanner.Scanner, rep *reporter.Reporter) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req ScanRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondError(c, http.StatusBadRequest, models.ErrCodeInvalidInput, err)
			return
		}

		result, err := sc.Run(c.Request.Context(), scanner.Request{
			SeedURL:      req.URL,
			KeywordInput: req.Keywords,
			Mode:         models.Mode(req.Mode),
		})
		if err != nil {
			if errors.Is(err, models.ErrMissingInput) || errors.Is(err, models.ErrInvalidSeedURL) {
				respondError(c, http.StatusBadRequest, models.ErrCodeInvalidInput, err)
				return
			}
			respondError(c, http.StatusInternalServerError, models.ErrCodeInternal, err)
			return
		}

		if req.Format == "" {
			c.JSON(http.StatusOK, ScanResponse{
				Success: true,
				Result:  result,
				Table:   reporter.Table(result),
			})
			return
		}

		if result.Empty() {
			c.JSON(http.StatusUnprocessableEntity, ScanResponse{
				Success: false,
				Result:  result,
				Error: &models.ErrorDetail{
					Code:    models.ErrCodeNoMatches,
					Message: models.ErrNoMatches.Error(),
				},
			})
			return
		}

		artifact, err := rep.Generate(result, reporter.Format(req.Format))
		if err != nil {
			respondError(c, http.StatusInternalServerError, models.ErrCodeInternal, err)
			return
		}
		c.Header("Content-Disposition", `attachment; filename="`+artifact.Filename+`"`)
		c.Data(http.StatusOK, artifact.MIMEType+"; charset=utf-8", artifact.Data)
	}
}

func respondError(c *gin.Context, status int, code string, err error) {
	c.JSON(status, ScanResponse{
		Success: false,
		Error: &models.ErrorDetail{
			Code:    code,
			Message: err.Error(),
		},
	})
}
