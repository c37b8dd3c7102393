package api

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"worklab/internal/domain/resource"
	reqdto "worklab/internal/handler/dto/request"
	resdto "worklab/internal/handler/dto/response"
	"worklab/internal/handler/middleware"
	"worklab/internal/usecase/commands"
	"worklab/internal/usecase/queries"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type ReservationHandler struct {
	reservationCommands commands.ReservationCommands
	reservationQueries  queries.ReservationQueries
}

func NewReservationHandler(reservationCommands commands.ReservationCommands, reservationQueries queries.ReservationQueries) *ReservationHandler {
	return &ReservationHandler{
		reservationCommands: reservationCommands,
		reservationQueries:  reservationQueries,
	}
}

// @Summary Create reservation
// @Description Book a resource for a time window
// @Tags reservations
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body reqdto.CreateReservationRequest true "Reservation request"
// @Success 201 {object} resdto.ReservationResultResponse
// @Failure 400 {object} map[string]string
// @Failure 401 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Failure 409 {object} map[string]string
// @Failure 422 {object} map[string]string
// @Router /reservations [post]
func (h *ReservationHandler) CreateReservation(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Internal server error",
		})
		return
	}

	var req reqdto.CreateReservationRequest
	if bindErr := c.ShouldBindJSON(&req); bindErr != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid request format",
		})
		return
	}

	result, err := h.reservationCommands.Create(c.Request.Context(), userID, req.ToInput())
	if err != nil {
		h.respondCommandError(c, err)
		return
	}

	c.JSON(http.StatusCreated, resdto.FromReservationResult(result))
}

// @Summary Modify reservation
// @Description Move a reservation to a new time window
// @Tags reservations
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Reservation ID"
// @Param request body reqdto.ModifyReservationRequest true "New window"
// @Success 200 {object} resdto.ReservationResultResponse
// @Failure 400 {object} map[string]string
// @Failure 403 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Failure 409 {object} map[string]string
// @Failure 422 {object} map[string]string
// @Router /reservations/{id} [patch]
func (h *ReservationHandler) ModifyReservation(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Internal server error",
		})
		return
	}

	reservationID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid reservation ID",
		})
		return
	}

	var req reqdto.ModifyReservationRequest
	if bindErr := c.ShouldBindJSON(&req); bindErr != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid request format",
		})
		return
	}

	result, err := h.reservationCommands.Modify(c.Request.Context(), userID, reservationID, req.ToInput())
	if err != nil {
		h.respondCommandError(c, err)
		return
	}

	c.JSON(http.StatusOK, resdto.FromReservationResult(result))
}

// @Summary Cancel reservation
// @Description Cancel an active reservation
// @Tags reservations
// @Produce json
// @Security BearerAuth
// @Param id path string true "Reservation ID"
// @Success 200 {object} resdto.ReservationResultResponse
// @Failure 400 {object} map[string]string
// @Failure 403 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Failure 422 {object} map[string]string
// @Router /reservations/{id}/cancel [post]
func (h *ReservationHandler) CancelReservation(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Internal server error",
		})
		return
	}

	reservationID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid reservation ID",
		})
		return
	}

	result, err := h.reservationCommands.Cancel(c.Request.Context(), userID, reservationID)
	if err != nil {
		h.respondCommandError(c, err)
		return
	}

	c.JSON(http.StatusOK, resdto.FromReservationResult(result))
}

// @Summary Get reservation
// @Description Get reservation by ID (owner or admin)
// @Tags reservations
// @Produce json
// @Security BearerAuth
// @Param id path string true "Reservation ID"
// @Success 200 {object} resdto.ReservationResponse
// @Failure 400 {object} map[string]string
// @Failure 403 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /reservations/{id} [get]
func (h *ReservationHandler) GetReservation(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	role, roleOK := middleware.GetUserRole(c)
	if !ok || !roleOK {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Internal server error",
		})
		return
	}

	reservationID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid reservation ID",
		})
		return
	}

	view, err := h.reservationQueries.GetByID(c.Request.Context(), userID, role, reservationID)
	if err != nil {
		switch {
		case errors.Is(err, queries.ErrReservationNotFound):
			c.JSON(http.StatusNotFound, gin.H{
				"error": "Reservation not found",
			})
		case errors.Is(err, queries.ErrReservationAccess):
			c.JSON(http.StatusForbidden, gin.H{
				"error": "Access denied",
			})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{
				"error": "Internal server error",
			})
		}
		return
	}

	c.JSON(http.StatusOK, resdto.FromReservationView(view))
}

// @Summary List reservations
// @Description List own reservations; admins can pass all=1 for every user's
// @Tags reservations
// @Produce json
// @Security BearerAuth
// @Param all query string false "Set to 1 to list all users' reservations (admin)"
// @Param resource_id query string false "Filter by resource"
// @Param status query string false "Filter by status"
// @Success 200 {array} resdto.ReservationListResponse
// @Failure 403 {object} map[string]string
// @Router /reservations [get]
func (h *ReservationHandler) ListReservations(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	role, roleOK := middleware.GetUserRole(c)
	if !ok || !roleOK {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Internal server error",
		})
		return
	}

	limit := parseLimit(c.Query("limit"))

	if c.Query("all") == "1" {
		if !role.IsAdmin() {
			c.JSON(http.StatusForbidden, gin.H{
				"error": "Insufficient permissions",
			})
			return
		}

		filter, err := buildReservationFilter(c)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{
				"error": err.Error(),
			})
			return
		}

		items, err := h.reservationQueries.ListAll(c.Request.Context(), filter, limit)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{
				"error": "Internal server error",
			})
			return
		}
		c.JSON(http.StatusOK, toListResponses(items))
		return
	}

	items, err := h.reservationQueries.ListByUser(c.Request.Context(), userID, limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Internal server error",
		})
		return
	}
	c.JSON(http.StatusOK, toListResponses(items))
}

func (h *ReservationHandler) respondCommandError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, commands.ErrResourceNotFound):
		c.JSON(http.StatusNotFound, gin.H{
			"error": "Resource not found",
		})
	case errors.Is(err, commands.ErrReservationNotFound):
		c.JSON(http.StatusNotFound, gin.H{
			"error": "Reservation not found",
		})
	case errors.Is(err, commands.ErrForbidden):
		c.JSON(http.StatusForbidden, gin.H{
			"error": "Access denied",
		})
	case errors.Is(err, commands.ErrInvalidTimeSlot):
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid time slot",
		})
	case errors.Is(err, commands.ErrRestrictionViolated):
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"error":  "Booking rules not satisfied",
			"reason": restrictionMessage(err),
		})
	case errors.Is(err, commands.ErrReservationConflict):
		c.JSON(http.StatusConflict, gin.H{
			"error": "Time window conflicts with an existing reservation",
		})
	case errors.Is(err, commands.ErrInvalidState):
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"error": "Reservation is not active",
		})
	case errors.Is(err, commands.ErrUserInactive):
		c.JSON(http.StatusForbidden, gin.H{
			"error": "Account is inactive",
		})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Internal server error",
		})
	}
}

func restrictionMessage(err error) string {
	switch {
	case errors.Is(err, resource.ErrAdvanceNoticeTooShort):
		return "advance notice too short"
	case errors.Is(err, resource.ErrDurationTooLong):
		return "duration too long"
	case errors.Is(err, resource.ErrDisallowedDay):
		return "day not allowed"
	case errors.Is(err, resource.ErrDisallowedTime):
		return "time of day not allowed"
	case errors.Is(err, resource.ErrRoleNotAllowed):
		return "role not allowed"
	default:
		return "invalid window"
	}
}

func toListResponses(items []*queries.ReservationListItem) []*resdto.ReservationListResponse {
	result := make([]*resdto.ReservationListResponse, 0, len(items))
	for _, item := range items {
		result = append(result, resdto.FromReservationListItem(item))
	}
	return result
}

func parseLimit(raw string) int32 {
	if raw == "" {
		return 0
	}
	n, err := strconv.ParseInt(raw, 10, 32)
	if err != nil || n < 0 {
		return 0
	}
	return int32(n)
}

func buildReservationFilter(c *gin.Context) (queries.ReservationFilter, error) {
	var filter queries.ReservationFilter

	if raw := c.Query("resource_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			return filter, errors.New("invalid resource_id")
		}
		filter.ResourceID = &id
	}
	if raw := c.Query("status"); raw != "" {
		filter.Status = &raw
	}
	if raw := c.Query("from"); raw != "" {
		t, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			return filter, errors.New("invalid from timestamp")
		}
		filter.From = &t
	}
	if raw := c.Query("to"); raw != "" {
		t, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			return filter, errors.New("invalid to timestamp")
		}
		filter.To = &t
	}

	return filter, nil
}
