package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	apperrors "fintrack/internal/errors"
	"fintrack/internal/services"
)

// TaxHandler handles tax-deduction requests.
type TaxHandler struct {
	taxService services.TaxServicer
}

// NewTaxHandler creates a new TaxHandler.
func NewTaxHandler(taxService services.TaxServicer) *TaxHandler {
	return &TaxHandler{taxService: taxService}
}

// DeductionRequest represents the request payload for creating or updating a deduction
type DeductionRequest struct {
	Description string `json:"description" binding:"required,max=500"`
	Amount      int64  `json:"amount" binding:"required,gt=0"`
	Category    string `json:"category" binding:"required,max=100"`
	Date        string `json:"date" binding:"required"`
	Receipt     string `json:"receipt" binding:"max=500"`
}

// CreateDeduction handles recording a tax deduction
// @Summary     Create a tax deduction
// @Description Record a deductible expense for the authenticated user
// @Tags        taxes
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       request body DeductionRequest true "Deduction details"
// @Success     201 {object} models.TaxDeduction "Deduction created"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /taxes/deductions [post]
func (h *TaxHandler) CreateDeduction(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req DeductionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	date, err := parseFlexibleTime(req.Date)
	if err != nil {
		respondWithError(c, err)
		return
	}

	deduction, err := h.taxService.CreateDeduction(userID, req.Description, req.Amount, req.Category, date, req.Receipt)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"deduction": deduction})
}

// GetYearDeductions handles listing a year's deductions
// @Summary     List tax deductions
// @Description Get a tax year's deductions grouped by category with the total
// @Tags        taxes
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       year query int false "Tax year (default current year)"
// @Success     200 {object} services.DeductionSummary "Year summary"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /taxes/deductions [get]
func (h *TaxHandler) GetYearDeductions(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	year, _ := strconv.Atoi(c.DefaultQuery("year", strconv.Itoa(time.Now().Year())))

	summary, err := h.taxService.GetYearDeductions(userID, year)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, summary)
}

// UpdateDeduction handles editing a deduction
// @Summary     Update tax deduction
// @Description Replace a deduction's fields
// @Tags        taxes
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id      path int              true "Deduction ID"
// @Param       request body DeductionRequest true "Updated deduction details"
// @Success     200 {object} models.TaxDeduction "Updated deduction"
// @Failure     400 {object} ErrorResponse "Invalid input or deduction ID"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Deduction not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /taxes/deductions/{id} [put]
func (h *TaxHandler) UpdateDeduction(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	deductionID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req DeductionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	date, err := parseFlexibleTime(req.Date)
	if err != nil {
		respondWithError(c, err)
		return
	}

	deduction, err := h.taxService.UpdateDeduction(userID, deductionID, req.Description, req.Amount, req.Category, date, req.Receipt)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"deduction": deduction})
}

// DeleteDeduction handles removing a deduction
// @Summary     Delete tax deduction
// @Description Delete a recorded deduction
// @Tags        taxes
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id path int true "Deduction ID"
// @Success     200 {object} map[string]string "Deleted"
// @Failure     400 {object} ErrorResponse "Invalid deduction ID"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Deduction not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /taxes/deductions/{id} [delete]
func (h *TaxHandler) DeleteDeduction(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	deductionID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	if err := h.taxService.DeleteDeduction(userID, deductionID); err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Deduction deleted"})
}
