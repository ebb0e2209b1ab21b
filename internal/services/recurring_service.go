package services

import (
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	apperrors "fintrack/internal/errors"
	"fintrack/internal/logger"
	"fintrack/internal/models"
)

// recurringService materializes recurring rules into ledger transactions.
type recurringService struct {
	db             *gorm.DB
	accountService AccountServicer
	notifier       Notifier
}

// NewRecurringService creates a new RecurringServicer.
func NewRecurringService(db *gorm.DB, accountService AccountServicer, notifier Notifier) RecurringServicer {
	return &recurringService{
		db:             db,
		accountService: accountService,
		notifier:       notifier,
	}
}

// NextDueDate advances a due date by one period. Month and year arithmetic
// clamps to the last day of the target month rather than rolling over, so
// Jan 31 + 1 month is Feb 29 in a leap year, not Mar 2.
func NextDueDate(current time.Time, frequency models.Frequency) (time.Time, error) {
	switch frequency {
	case models.FrequencyDaily:
		return current.AddDate(0, 0, 1), nil
	case models.FrequencyWeekly:
		return current.AddDate(0, 0, 7), nil
	case models.FrequencyMonthly:
		return addMonthsClamped(current, 1), nil
	case models.FrequencyYearly:
		return addMonthsClamped(current, 12), nil
	}
	return time.Time{}, apperrors.ErrInvalidFrequency
}

// addMonthsClamped adds calendar months, clamping the day to the last day of
// the target month when the source day does not exist there.
// formatCents renders an amount stored in cents as a dollar string,
// e.g. 150000 -> "$1500.00". Amounts here are always positive.
func formatCents(amount int64) string {
	return fmt.Sprintf("$%d.%02d", amount/100, amount%100)
}

func addMonthsClamped(t time.Time, months int) time.Time {
	year, month, day := t.Date()
	firstOfTarget := time.Date(year, month+time.Month(months), 1, t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), t.Location())
	lastDay := firstOfTarget.AddDate(0, 1, -1).Day()
	if day > lastDay {
		day = lastDay
	}
	return time.Date(firstOfTarget.Year(), firstOfTarget.Month(), day, t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), t.Location())
}

// CreateRule creates a recurring rule; the first due date is derived from the
// start date and frequency.
func (s *recurringService) CreateRule(userID uint, fields RecurringRuleFields) (*models.RecurringRule, error) {
	if err := validateRuleFields(fields); err != nil {
		return nil, err
	}

	// Account must exist and belong to the user.
	if _, err := s.accountService.GetAccountByID(userID, fields.AccountID); err != nil {
		return nil, err
	}

	nextDue, err := NextDueDate(fields.StartDate, fields.Frequency)
	if err != nil {
		return nil, err
	}

	rule := &models.RecurringRule{
		UserID:      userID,
		AccountID:   fields.AccountID,
		CategoryID:  fields.CategoryID,
		Type:        fields.Type,
		Amount:      fields.Amount,
		Description: fields.Description,
		Frequency:   fields.Frequency,
		StartDate:   fields.StartDate,
		EndDate:     fields.EndDate,
		NextDueDate: nextDue,
		AutoCreate:  fields.AutoCreate,
		IsActive:    true,
	}

	if err := s.db.Create(rule).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	return rule, nil
}

func validateRuleFields(fields RecurringRuleFields) error {
	if fields.Amount <= 0 {
		return apperrors.WithMessage(apperrors.ErrInvalidInput, "amount must be greater than zero")
	}
	if fields.Type != models.TransactionTypeIncome && fields.Type != models.TransactionTypeExpense {
		return apperrors.ErrInvalidTransactionType
	}
	if fields.Description == "" {
		return apperrors.WithMessage(apperrors.ErrInvalidInput, "description is required")
	}
	if fields.StartDate.IsZero() {
		return apperrors.WithMessage(apperrors.ErrInvalidInput, "start date is required")
	}
	return nil
}

// GetUserRules returns the user's recurring rules ordered by next due date.
func (s *recurringService) GetUserRules(userID uint) ([]models.RecurringRule, error) {
	var rules []models.RecurringRule
	if err := s.db.Where("user_id = ?", userID).Order("next_due_date ASC").Find(&rules).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return rules, nil
}

// GetRuleByID returns a rule by ID if it belongs to the user.
func (s *recurringService) GetRuleByID(userID, ruleID uint) (*models.RecurringRule, error) {
	var rule models.RecurringRule
	if err := s.db.Where("id = ? AND user_id = ?", ruleID, userID).First(&rule).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrRecurringRuleNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &rule, nil
}

// UpdateRule replaces the writable fields of a rule and recomputes the next
// due date from the new start date and frequency.
func (s *recurringService) UpdateRule(userID, ruleID uint, fields RecurringRuleFields) (*models.RecurringRule, error) {
	rule, err := s.GetRuleByID(userID, ruleID)
	if err != nil {
		return nil, err
	}

	if err := validateRuleFields(fields); err != nil {
		return nil, err
	}

	if _, err := s.accountService.GetAccountByID(userID, fields.AccountID); err != nil {
		return nil, err
	}

	nextDue, err := NextDueDate(fields.StartDate, fields.Frequency)
	if err != nil {
		return nil, err
	}

	updates := map[string]interface{}{
		"account_id":    fields.AccountID,
		"category_id":   fields.CategoryID,
		"type":          fields.Type,
		"amount":        fields.Amount,
		"description":   fields.Description,
		"frequency":     fields.Frequency,
		"start_date":    fields.StartDate,
		"end_date":      fields.EndDate,
		"next_due_date": nextDue,
		"auto_create":   fields.AutoCreate,
	}

	if err := s.db.Model(rule).Updates(updates).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	if err := s.db.Where("id = ?", rule.ID).First(rule).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	return rule, nil
}

// DeleteRule removes a recurring rule. Materialized transactions are kept.
func (s *recurringService) DeleteRule(userID, ruleID uint) error {
	rule, err := s.GetRuleByID(userID, ruleID)
	if err != nil {
		return err
	}

	if err := s.db.Delete(rule).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return nil
}

// ExecuteRule materializes one active rule on demand, regardless of its
// auto-create flag.
func (s *recurringService) ExecuteRule(userID, ruleID uint) (*ExecutionResult, error) {
	var rule models.RecurringRule
	if err := s.db.Where("id = ? AND user_id = ? AND is_active = ?", ruleID, userID, true).First(&rule).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrRecurringRuleNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	result, err := s.execute(&rule, time.Now())
	if err != nil {
		return nil, err
	}
	return result, nil
}

// RunDueRules materializes every active auto-create rule whose next due date
// has arrived. The batch is sequential; one rule's failure is logged and
// skipped so it never aborts the remaining rules.
func (s *recurringService) RunDueRules(now time.Time) []ExecutionResult {
	var due []models.RecurringRule
	if err := s.db.Where("is_active = ? AND auto_create = ? AND next_due_date <= ?", true, true, now).Find(&due).Error; err != nil {
		logger.Get().Errorw("failed to load due recurring rules", "error", err.Error())
		return nil
	}

	results := make([]ExecutionResult, 0, len(due))
	for i := range due {
		rule := &due[i]
		result, err := s.execute(rule, now)
		if err != nil {
			logger.Get().Errorw("failed to execute recurring rule",
				"rule_id", rule.ID,
				"user_id", rule.UserID,
				"error", err.Error(),
			)
			results = append(results, ExecutionResult{RuleID: rule.ID, Error: err.Error()})
			continue
		}
		results = append(results, *result)
	}

	return results
}

// execute materializes a single rule: it creates the transaction dated now,
// applies the balance delta, advances the due date, and deactivates the rule
// once past its end date, all in one database transaction. The notification
// is emitted after commit, best-effort.
func (s *recurringService) execute(rule *models.RecurringRule, now time.Time) (*ExecutionResult, error) {
	nextDue, err := NextDueDate(rule.NextDueDate, rule.Frequency)
	if err != nil {
		return nil, err
	}

	transaction := &models.Transaction{
		UserID:          rule.UserID,
		AccountID:       rule.AccountID,
		CategoryID:      rule.CategoryID,
		Type:            rule.Type,
		Amount:          rule.Amount,
		Description:     rule.Description,
		Date:            now,
		IsRecurring:     true,
		RecurringRuleID: &rule.ID,
	}

	deactivated := false

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(transaction).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}

		if err := s.accountService.ApplyBalanceDelta(tx, rule.AccountID, transaction.SignedAmount()); err != nil {
			return err
		}

		updates := map[string]interface{}{"next_due_date": nextDue}
		if rule.EndDate != nil && nextDue.After(*rule.EndDate) {
			updates["is_active"] = false
			deactivated = true
		}
		if err := tx.Model(&models.RecurringRule{}).Where("id = ?", rule.ID).Updates(updates).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	rule.NextDueDate = nextDue
	if deactivated {
		rule.IsActive = false
	}

	s.notifier.Notify(rule.UserID, "Recurring Transaction Created",
		fmt.Sprintf("%s - %s", rule.Description, formatCents(rule.Amount)),
		"recurring_executed")

	return &ExecutionResult{
		RuleID:      rule.ID,
		Transaction: transaction,
		NextDueDate: nextDue,
		Deactivated: deactivated,
	}, nil
}

// Upcoming returns active rules due within the next N days.
func (s *recurringService) Upcoming(userID uint, days int) ([]models.RecurringRule, error) {
	if days <= 0 {
		days = 7
	}
	now := time.Now()
	horizon := now.AddDate(0, 0, days)

	var rules []models.RecurringRule
	if err := s.db.Where("user_id = ? AND is_active = ? AND next_due_date >= ? AND next_due_date <= ?",
		userID, true, now, horizon).
		Order("next_due_date ASC").
		Find(&rules).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return rules, nil
}

// Overdue returns active rules whose due date has already passed.
func (s *recurringService) Overdue(userID uint) ([]models.RecurringRule, error) {
	var rules []models.RecurringRule
	if err := s.db.Where("user_id = ? AND is_active = ? AND next_due_date < ?", userID, true, time.Now()).
		Order("next_due_date ASC").
		Find(&rules).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return rules, nil
}
