package handlers

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "troskovi/internal/errors"
	"troskovi/internal/services"
)

// PipelineHandler serves maintenance endpoints for automated jobs.
type PipelineHandler struct {
	snapshotService services.SnapshotServicer
}

// NewPipelineHandler creates a new PipelineHandler.
func NewPipelineHandler(snapshotService services.SnapshotServicer) *PipelineHandler {
	return &PipelineHandler{snapshotService: snapshotService}
}

// SnapshotRequest narrows a rebuild to one (person, month). An empty body
// rebuilds everything.
type SnapshotRequest struct {
	PersonID uint   `json:"person_id" binding:"required_with=Month"`
	Month    string `json:"month" binding:"omitempty,month_key"`
}

// RebuildSnapshotsResponse reports how many snapshots were written.
type RebuildSnapshotsResponse struct {
	Written int `json:"written"`
}

// RebuildSnapshots handles rewriting history snapshots
// @Summary     Rebuild history snapshots
// @Description Rewrite the snapshot of one month, or of every month with a report
// @Tags        pipeline
// @Accept      json
// @Produce     json
// @Security    ApiKeyAuth
// @Param       request body SnapshotRequest false "Optional single month"
// @Success     200 {object} RebuildSnapshotsResponse "Snapshots written"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Invalid API key"
// @Failure     500 {object} ErrorResponse "Some snapshots failed"
// @Router      /pipeline/snapshots [post]
func (h *PipelineHandler) RebuildSnapshots(c *gin.Context) {
	var req SnapshotRequest
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	if req.PersonID != 0 {
		if req.Month == "" {
			respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, "month is required with person_id"))
			return
		}
		if err := h.snapshotService.Snapshot(c.Request.Context(), req.PersonID, req.Month); err != nil {
			respondWithError(c, err)
			return
		}
		c.JSON(http.StatusOK, RebuildSnapshotsResponse{Written: 1})
		return
	}

	written, err := h.snapshotService.RebuildAll(c.Request.Context())
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, RebuildSnapshotsResponse{Written: written})
}
