package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "troskovi/internal/errors"
	"troskovi/internal/pagination"
	"troskovi/internal/services"
)

// HistoryHandler exposes history snapshots and the ledger event log.
type HistoryHandler struct {
	snapshotService services.SnapshotServicer
	eventService    services.EventServicer
}

// NewHistoryHandler creates a new HistoryHandler.
func NewHistoryHandler(snapshotService services.SnapshotServicer, eventService services.EventServicer) *HistoryHandler {
	return &HistoryHandler{snapshotService: snapshotService, eventService: eventService}
}

// ListSnapshots handles listing the months with a history snapshot
// @Summary     List history snapshots
// @Tags        history
// @Produce     json
// @Param       id path int true "Person ID"
// @Success     200 {array} string "Months, newest first"
// @Failure     404 {object} ErrorResponse "Person not found"
// @Router      /persons/{id}/history [get]
func (h *HistoryHandler) ListSnapshots(c *gin.Context) {
	personID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	months, err := h.snapshotService.ListSnapshotMonths(c.Request.Context(), personID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"months": months})
}

// GetSnapshot handles reading one history snapshot
// @Summary     Get history snapshot
// @Tags        history
// @Produce     json
// @Param       id    path int    true "Person ID"
// @Param       month path string true "Month (YYYY-MM)"
// @Success     200 {object} history.Snapshot "Snapshot"
// @Failure     400 {object} ErrorResponse "Invalid month"
// @Failure     404 {object} ErrorResponse "Person or snapshot not found"
// @Router      /persons/{id}/history/{month} [get]
func (h *HistoryHandler) GetSnapshot(c *gin.Context) {
	personID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	snap, err := h.snapshotService.GetSnapshot(c.Request.Context(), personID, c.Param("month"))
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, snap)
}

// ListEvents handles paging through a person's ledger events
// @Summary     List ledger events
// @Description Committed mutations, newest first
// @Tags        history
// @Produce     json
// @Param       id        path  int true  "Person ID"
// @Param       page      query int false "Page number (default 1)"
// @Param       page_size query int false "Items per page (default 20, max 100)"
// @Success     200 {object} pagination.PageResponse[models.LedgerEvent] "Events"
// @Failure     400 {object} ErrorResponse "Invalid pagination"
// @Failure     404 {object} ErrorResponse "Person not found"
// @Router      /persons/{id}/events [get]
func (h *HistoryHandler) ListEvents(c *gin.Context) {
	personID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	var page pagination.PageRequest
	if err := c.ShouldBindQuery(&page); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	result, err := h.eventService.ListEvents(c.Request.Context(), personID, page)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}
