package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	apperrors "troskovi/internal/errors"
	"troskovi/internal/services"
)

// PersonHandler handles ledger owners.
type PersonHandler struct {
	personService services.PersonServicer
	reportService services.ReportServicer
}

// NewPersonHandler creates a new PersonHandler.
func NewPersonHandler(personService services.PersonServicer, reportService services.ReportServicer) *PersonHandler {
	return &PersonHandler{personService: personService, reportService: reportService}
}

// CreatePersonRequest represents the request payload for creating a person
type CreatePersonRequest struct {
	FirstName string `json:"first_name" binding:"required,max=100"`
	LastName  string `json:"last_name" binding:"required,max=100"`
	BirthDate string `json:"birth_date" binding:"required"`
	Photo     string `json:"photo" binding:"max=255"`
}

// UpdatePersonRequest represents the request payload for updating a person.
// Omitted fields keep their stored value.
type UpdatePersonRequest struct {
	FirstName string  `json:"first_name" binding:"max=100"`
	LastName  string  `json:"last_name" binding:"max=100"`
	BirthDate *string `json:"birth_date"`
	Photo     *string `json:"photo" binding:"omitempty,max=255"`
}

// CreatePerson handles the creation of a new person
// @Summary     Create a person
// @Description Register a new ledger owner
// @Tags        persons
// @Accept      json
// @Produce     json
// @Param       request body CreatePersonRequest true "Person details"
// @Success     201 {object} models.Person "Person created"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /persons [post]
func (h *PersonHandler) CreatePerson(c *gin.Context) {
	var req CreatePersonRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	birthDate, err := parseDate(req.BirthDate)
	if err != nil {
		respondWithError(c, err)
		return
	}

	person, err := h.personService.CreatePerson(c.Request.Context(), req.FirstName, req.LastName, birthDate, req.Photo)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"person": person})
}

// ListPersons handles listing every person
// @Summary     List persons
// @Tags        persons
// @Produce     json
// @Success     200 {array} models.Person "Persons"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /persons [get]
func (h *PersonHandler) ListPersons(c *gin.Context) {
	persons, err := h.personService.ListPersons(c.Request.Context())
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"persons": persons})
}

// GetPerson handles the retrieval of a specific person
// @Summary     Get person by ID
// @Tags        persons
// @Produce     json
// @Param       id path int true "Person ID"
// @Success     200 {object} models.Person "Person details"
// @Failure     400 {object} ErrorResponse "Invalid person ID"
// @Failure     404 {object} ErrorResponse "Person not found"
// @Router      /persons/{id} [get]
func (h *PersonHandler) GetPerson(c *gin.Context) {
	id, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	person, err := h.personService.GetPerson(c.Request.Context(), id)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"person": person})
}

// UpdatePerson handles updating a person
// @Summary     Update person
// @Tags        persons
// @Accept      json
// @Produce     json
// @Param       id path int true "Person ID"
// @Param       request body UpdatePersonRequest true "Updated person details"
// @Success     200 {object} models.Person "Updated person"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     404 {object} ErrorResponse "Person not found"
// @Router      /persons/{id} [put]
func (h *PersonHandler) UpdatePerson(c *gin.Context) {
	id, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req UpdatePersonRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	var birthDate *time.Time
	if req.BirthDate != nil {
		parsed, err := parseDate(*req.BirthDate)
		if err != nil {
			respondWithError(c, err)
			return
		}
		birthDate = &parsed
	}

	person, err := h.personService.UpdatePerson(c.Request.Context(), id, req.FirstName, req.LastName, birthDate, req.Photo)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"person": person})
}

// DeletePerson handles deleting a person and everything they own
// @Summary     Delete person
// @Description Delete a person with all incomes, expenses, reports and history files
// @Tags        persons
// @Produce     json
// @Param       id path int true "Person ID"
// @Success     200 {object} MessageResponse "Person deleted"
// @Failure     400 {object} ErrorResponse "Invalid person ID"
// @Failure     404 {object} ErrorResponse "Person not found"
// @Router      /persons/{id} [delete]
func (h *PersonHandler) DeletePerson(c *gin.Context) {
	id, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	if err := h.personService.DeletePerson(c.Request.Context(), id); err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Person deleted successfully"})
}

// ListMonths handles listing the months a person has data for
// @Summary     List months
// @Description List the months with a stored report, newest first
// @Tags        persons
// @Produce     json
// @Param       id path int true "Person ID"
// @Success     200 {array} string "Months"
// @Failure     404 {object} ErrorResponse "Person not found"
// @Router      /persons/{id}/months [get]
func (h *PersonHandler) ListMonths(c *gin.Context) {
	id, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	months, err := h.reportService.ListMonths(c.Request.Context(), id)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"months": months})
}
