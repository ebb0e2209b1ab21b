package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	apperrors "fintrack/internal/errors"
	"fintrack/internal/models"
	"fintrack/internal/services"
)

// RecurringHandler handles recurring-rule requests.
type RecurringHandler struct {
	recurringService services.RecurringServicer
}

// NewRecurringHandler creates a new RecurringHandler.
func NewRecurringHandler(recurringService services.RecurringServicer) *RecurringHandler {
	return &RecurringHandler{recurringService: recurringService}
}

// RecurringRuleRequest represents the request payload for creating or updating a rule
type RecurringRuleRequest struct {
	AccountID   uint                   `json:"account_id" binding:"required"`
	CategoryID  *uint                  `json:"category_id"`
	Type        models.TransactionType `json:"type" binding:"required,transaction_type"`
	Amount      int64                  `json:"amount" binding:"required,gt=0"`
	Description string                 `json:"description" binding:"required,max=500"`
	Frequency   models.Frequency       `json:"frequency" binding:"required,frequency"`
	StartDate   string                 `json:"start_date" binding:"required"`
	EndDate     *string                `json:"end_date"`
	AutoCreate  bool                   `json:"auto_create"`
}

func (req *RecurringRuleRequest) toFields() (services.RecurringRuleFields, error) {
	startDate, err := parseFlexibleTime(req.StartDate)
	if err != nil {
		return services.RecurringRuleFields{}, err
	}
	endDate, err := parseOptionalDate(req.EndDate)
	if err != nil {
		return services.RecurringRuleFields{}, err
	}
	return services.RecurringRuleFields{
		AccountID:   req.AccountID,
		CategoryID:  req.CategoryID,
		Type:        req.Type,
		Amount:      req.Amount,
		Description: req.Description,
		Frequency:   req.Frequency,
		StartDate:   startDate,
		EndDate:     endDate,
		AutoCreate:  req.AutoCreate,
	}, nil
}

// CreateRule handles the creation of a recurring rule
// @Summary     Create a recurring rule
// @Description Create a new recurring transaction rule for the authenticated user
// @Tags        recurring
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       request body RecurringRuleRequest true "Rule details"
// @Success     201 {object} models.RecurringRule "Rule created"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Account not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /recurring [post]
func (h *RecurringHandler) CreateRule(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req RecurringRuleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	fields, err := req.toFields()
	if err != nil {
		respondWithError(c, err)
		return
	}

	rule, err := h.recurringService.CreateRule(userID, fields)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"rule": rule})
}

// GetUserRules handles listing recurring rules
// @Summary     List recurring rules
// @Description Get the user's recurring rules ordered by next due date
// @Tags        recurring
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Success     200 {array}  models.RecurringRule "Rules"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /recurring [get]
func (h *RecurringHandler) GetUserRules(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	rules, err := h.recurringService.GetUserRules(userID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"rules": rules})
}

// UpdateRule handles editing a recurring rule
// @Summary     Update recurring rule
// @Description Replace a recurring rule's fields and recompute its next due date
// @Tags        recurring
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id      path int                  true "Rule ID"
// @Param       request body RecurringRuleRequest true "Updated rule details"
// @Success     200 {object} models.RecurringRule "Updated rule"
// @Failure     400 {object} ErrorResponse "Invalid input or rule ID"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Rule not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /recurring/{id} [put]
func (h *RecurringHandler) UpdateRule(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	ruleID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req RecurringRuleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	fields, err := req.toFields()
	if err != nil {
		respondWithError(c, err)
		return
	}

	rule, err := h.recurringService.UpdateRule(userID, ruleID, fields)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"rule": rule})
}

// DeleteRule handles removing a recurring rule
// @Summary     Delete recurring rule
// @Description Delete a recurring rule. Materialized transactions are kept.
// @Tags        recurring
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id path int true "Rule ID"
// @Success     200 {object} map[string]string "Deleted"
// @Failure     400 {object} ErrorResponse "Invalid rule ID"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Rule not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /recurring/{id} [delete]
func (h *RecurringHandler) DeleteRule(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	ruleID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	if err := h.recurringService.DeleteRule(userID, ruleID); err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Recurring rule deleted"})
}

// ExecuteRule handles manually materializing one rule
// @Summary     Execute recurring rule
// @Description Materialize one active rule into a transaction now
// @Tags        recurring
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id path int true "Rule ID"
// @Success     200 {object} services.ExecutionResult "Execution outcome"
// @Failure     400 {object} ErrorResponse "Invalid rule ID"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Rule not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /recurring/{id}/execute [post]
func (h *RecurringHandler) ExecuteRule(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	ruleID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	result, err := h.recurringService.ExecuteRule(userID, ruleID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// ProcessDue handles running the due-rule batch on demand
// @Summary     Process due rules
// @Description Materialize every active auto-create rule whose due date has arrived
// @Tags        recurring
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Success     200 {array}  services.ExecutionResult "Batch results"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Router      /recurring/process-due [post]
func (h *RecurringHandler) ProcessDue(c *gin.Context) {
	if _, err := getUserID(c); err != nil {
		respondWithError(c, err)
		return
	}

	results := h.recurringService.RunDueRules(time.Now())
	c.JSON(http.StatusOK, gin.H{"results": results})
}

// GetUpcoming handles listing rules due soon
// @Summary     List upcoming rules
// @Description Get active rules due within the next N days (default 7)
// @Tags        recurring
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       days query int false "Horizon in days (default 7)"
// @Success     200 {array}  models.RecurringRule "Upcoming rules"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /recurring/upcoming [get]
func (h *RecurringHandler) GetUpcoming(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	days, _ := strconv.Atoi(c.DefaultQuery("days", "7"))

	rules, err := h.recurringService.Upcoming(userID, days)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"upcoming": rules})
}

// GetOverdue handles listing overdue rules
// @Summary     List overdue rules
// @Description Get active rules whose due date has passed without execution
// @Tags        recurring
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Success     200 {array}  models.RecurringRule "Overdue rules"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /recurring/overdue [get]
func (h *RecurringHandler) GetOverdue(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	rules, err := h.recurringService.Overdue(userID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"overdue": rules})
}
