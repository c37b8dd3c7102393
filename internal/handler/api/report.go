package api

import (
	"errors"
	"net/http"
	"time"

	resdto "worklab/internal/handler/dto/response"
	"worklab/internal/usecase/queries"

	"github.com/gin-gonic/gin"
)

type ReportHandler struct {
	reportQueries queries.ReportQueries
}

func NewReportHandler(reportQueries queries.ReportQueries) *ReportHandler {
	return &ReportHandler{reportQueries: reportQueries}
}

// @Summary Utilization report
// @Description Admin only; booked hours and counts per resource over a range
// @Tags reports
// @Produce json
// @Security BearerAuth
// @Param from query string true "Range start (RFC3339)"
// @Param to query string true "Range end (RFC3339)"
// @Success 200 {array} resdto.UtilizationResponse
// @Failure 400 {object} map[string]string
// @Router /reports/utilization [get]
func (h *ReportHandler) Utilization(c *gin.Context) {
	from, err := time.Parse(time.RFC3339, c.Query("from"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid from timestamp",
		})
		return
	}
	to, err := time.Parse(time.RFC3339, c.Query("to"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid to timestamp",
		})
		return
	}

	rows, err := h.reportQueries.Utilization(c.Request.Context(), from, to)
	if err != nil {
		if errors.Is(err, queries.ErrInvalidReportRange) {
			c.JSON(http.StatusBadRequest, gin.H{
				"error": "Range start must be before end",
			})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Internal server error",
		})
		return
	}

	c.JSON(http.StatusOK, resdto.FromUtilizationRows(rows))
}
