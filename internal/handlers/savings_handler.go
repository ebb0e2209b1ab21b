package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "fintrack/internal/errors"
	"fintrack/internal/services"
)

// SavingsHandler handles savings-pot requests.
type SavingsHandler struct {
	savingsService services.SavingsServicer
}

// NewSavingsHandler creates a new SavingsHandler.
func NewSavingsHandler(savingsService services.SavingsServicer) *SavingsHandler {
	return &SavingsHandler{savingsService: savingsService}
}

// CreatePotRequest represents the request payload for creating a savings pot
type CreatePotRequest struct {
	Name         string  `json:"name" binding:"required,min=1,max=100"`
	Balance      int64   `json:"balance" binding:"gte=0"`
	TargetAmount *int64  `json:"target_amount" binding:"omitempty,gt=0"`
	InterestRate float64 `json:"interest_rate" binding:"gte=0,lte=100"`
	Color        string  `json:"color" binding:"omitempty,hex_color"`
	Icon         string  `json:"icon" binding:"max=50"`
}

// UpdatePotRequest represents the request payload for updating a savings pot
type UpdatePotRequest struct {
	Name         string   `json:"name" binding:"omitempty,min=1,max=100"`
	Balance      *int64   `json:"balance" binding:"omitempty,gte=0"`
	TargetAmount *int64   `json:"target_amount" binding:"omitempty,gt=0"`
	InterestRate *float64 `json:"interest_rate" binding:"omitempty,gte=0,lte=100"`
	Color        string   `json:"color" binding:"omitempty,hex_color"`
	Icon         string   `json:"icon" binding:"omitempty,max=50"`
}

// CreatePot handles the creation of a savings pot
// @Summary     Create a savings pot
// @Description Create a new savings pot for the authenticated user
// @Tags        savings
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       request body CreatePotRequest true "Pot details"
// @Success     201 {object} models.SavingsPot "Pot created"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /savings [post]
func (h *SavingsHandler) CreatePot(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req CreatePotRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	pot, err := h.savingsService.CreatePot(userID, req.Name, req.Balance, req.TargetAmount, req.InterestRate, req.Color, req.Icon)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"pot": pot})
}

// GetUserPots handles listing savings pots
// @Summary     List savings pots
// @Description Get the user's savings pots, largest first
// @Tags        savings
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Success     200 {array}  models.SavingsPot "Pots"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /savings [get]
func (h *SavingsHandler) GetUserPots(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	pots, err := h.savingsService.GetUserPots(userID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"pots": pots})
}

// UpdatePot handles editing a savings pot
// @Summary     Update savings pot
// @Description Update a savings pot's fields
// @Tags        savings
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id      path int              true "Pot ID"
// @Param       request body UpdatePotRequest true "Updated pot details"
// @Success     200 {object} models.SavingsPot "Updated pot"
// @Failure     400 {object} ErrorResponse "Invalid input or pot ID"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Pot not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /savings/{id} [put]
func (h *SavingsHandler) UpdatePot(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	potID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req UpdatePotRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	pot, err := h.savingsService.UpdatePot(userID, potID, req.Name, req.Balance, req.TargetAmount, req.InterestRate, req.Color, req.Icon)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"pot": pot})
}

// DeletePot handles removing a savings pot
// @Summary     Delete savings pot
// @Description Delete a savings pot
// @Tags        savings
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id path int true "Pot ID"
// @Success     200 {object} map[string]string "Deleted"
// @Failure     400 {object} ErrorResponse "Invalid pot ID"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Pot not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /savings/{id} [delete]
func (h *SavingsHandler) DeletePot(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	potID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	if err := h.savingsService.DeletePot(userID, potID); err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Savings pot deleted"})
}
