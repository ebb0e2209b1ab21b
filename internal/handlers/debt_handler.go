package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "fintrack/internal/errors"
	"fintrack/internal/models"
	"fintrack/internal/services"
)

// DebtHandler handles debt-tracking requests.
type DebtHandler struct {
	debtService services.DebtServicer
}

// NewDebtHandler creates a new DebtHandler.
func NewDebtHandler(debtService services.DebtServicer) *DebtHandler {
	return &DebtHandler{debtService: debtService}
}

// CreateDebtRequest represents the request payload for creating a debt
type CreateDebtRequest struct {
	Name           string          `json:"name" binding:"required,min=1,max=100"`
	Balance        int64           `json:"balance" binding:"required,gt=0"`
	InterestRate   float64         `json:"interest_rate" binding:"gte=0,lte=100"`
	MonthlyPayment int64           `json:"monthly_payment" binding:"required,gt=0"`
	Type           models.DebtType `json:"type" binding:"required,debt_type"`
}

// UpdateDebtRequest represents the request payload for updating a debt
type UpdateDebtRequest struct {
	Name           string           `json:"name" binding:"omitempty,min=1,max=100"`
	Balance        *int64           `json:"balance" binding:"omitempty,gte=0"`
	InterestRate   *float64         `json:"interest_rate" binding:"omitempty,gte=0,lte=100"`
	MonthlyPayment *int64           `json:"monthly_payment" binding:"omitempty,gt=0"`
	Type           *models.DebtType `json:"type" binding:"omitempty,debt_type"`
}

// CreateDebt handles the creation of a debt
// @Summary     Create a debt
// @Description Track a new debt for the authenticated user
// @Tags        debts
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       request body CreateDebtRequest true "Debt details"
// @Success     201 {object} models.Debt "Debt created"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /debts [post]
func (h *DebtHandler) CreateDebt(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req CreateDebtRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	debt, err := h.debtService.CreateDebt(userID, req.Name, req.Balance, req.InterestRate, req.MonthlyPayment, req.Type)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"debt": debt})
}

// GetUserDebts handles listing debts
// @Summary     List debts
// @Description Get the user's debts, largest balance first
// @Tags        debts
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Success     200 {array}  models.Debt "Debts"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /debts [get]
func (h *DebtHandler) GetUserDebts(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	debts, err := h.debtService.GetUserDebts(userID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"debts": debts})
}

// UpdateDebt handles editing a debt
// @Summary     Update debt
// @Description Update a debt's balance, rate, payment, or type
// @Tags        debts
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id      path int               true "Debt ID"
// @Param       request body UpdateDebtRequest true "Updated debt details"
// @Success     200 {object} models.Debt "Updated debt"
// @Failure     400 {object} ErrorResponse "Invalid input or debt ID"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Debt not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /debts/{id} [put]
func (h *DebtHandler) UpdateDebt(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	debtID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req UpdateDebtRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	debt, err := h.debtService.UpdateDebt(userID, debtID, req.Name, req.Balance, req.InterestRate, req.MonthlyPayment, req.Type)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"debt": debt})
}

// DeleteDebt handles removing a debt
// @Summary     Delete debt
// @Description Stop tracking a debt
// @Tags        debts
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id path int true "Debt ID"
// @Success     200 {object} map[string]string "Deleted"
// @Failure     400 {object} ErrorResponse "Invalid debt ID"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Debt not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /debts/{id} [delete]
func (h *DebtHandler) DeleteDebt(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	debtID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	if err := h.debtService.DeleteDebt(userID, debtID); err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Debt deleted"})
}

// GetPayoffPlan handles simulating a payoff plan
// @Summary     Simulate debt payoff
// @Description Simulate paying off all debts with the snowball or avalanche ordering
// @Tags        debts
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       strategy query string false "Payoff strategy (snowball or avalanche; default snowball)"
// @Success     200 {object} services.PayoffPlan "Payoff plan"
// @Failure     400 {object} ErrorResponse "Invalid strategy"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /debts/payoff-plan [get]
func (h *DebtHandler) GetPayoffPlan(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	strategy := services.PayoffStrategy(c.DefaultQuery("strategy", string(services.StrategySnowball)))

	plan, err := h.debtService.CalculatePayoffPlan(userID, strategy)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, plan)
}
