package services

import (
	"errors"
	"time"

	"gorm.io/gorm"

	apperrors "fintrack/internal/errors"
	"fintrack/internal/models"
)

type taxService struct {
	db *gorm.DB
}

// NewTaxService creates a new TaxServicer.
func NewTaxService(db *gorm.DB) TaxServicer {
	return &taxService{db: db}
}

func validateDeductionFields(description string, amount int64, category string, date time.Time) error {
	if description == "" {
		return apperrors.WithMessage(apperrors.ErrInvalidInput, "description is required")
	}
	if amount <= 0 {
		return apperrors.WithMessage(apperrors.ErrInvalidInput, "amount must be greater than zero")
	}
	if category == "" {
		return apperrors.WithMessage(apperrors.ErrInvalidInput, "category is required")
	}
	if date.IsZero() {
		return apperrors.WithMessage(apperrors.ErrInvalidInput, "date is required")
	}
	return nil
}

// CreateDeduction records a deductible expense for the user.
func (s *taxService) CreateDeduction(userID uint, description string, amount int64, category string, date time.Time, receipt string) (*models.TaxDeduction, error) {
	if err := validateDeductionFields(description, amount, category, date); err != nil {
		return nil, err
	}

	deduction := &models.TaxDeduction{
		UserID:      userID,
		Description: description,
		Amount:      amount,
		Category:    category,
		Date:        date,
		Receipt:     receipt,
	}

	if err := s.db.Create(deduction).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	return deduction, nil
}

// GetYearDeductions returns a tax year's deductions grouped by category with
// the year total. Year defaults to the current year when zero.
func (s *taxService) GetYearDeductions(userID uint, year int) (*DeductionSummary, error) {
	if year == 0 {
		year = time.Now().Year()
	}
	yearStart := time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC)
	yearEnd := yearStart.AddDate(1, 0, 0)

	var deductions []models.TaxDeduction
	if err := s.db.Where("user_id = ? AND date >= ? AND date < ?", userID, yearStart, yearEnd).
		Order("date DESC").
		Find(&deductions).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	summary := &DeductionSummary{
		Year:       year,
		Deductions: deductions,
		ByCategory: make(map[string][]models.TaxDeduction),
	}
	for _, d := range deductions {
		summary.ByCategory[d.Category] = append(summary.ByCategory[d.Category], d)
		summary.TotalDeductions += d.Amount
	}

	return summary, nil
}

// UpdateDeduction replaces a deduction's fields.
func (s *taxService) UpdateDeduction(userID, deductionID uint, description string, amount int64, category string, date time.Time, receipt string) (*models.TaxDeduction, error) {
	var deduction models.TaxDeduction
	if err := s.db.Where("id = ? AND user_id = ?", deductionID, userID).First(&deduction).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrDeductionNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	if err := validateDeductionFields(description, amount, category, date); err != nil {
		return nil, err
	}

	updates := map[string]interface{}{
		"description": description,
		"amount":      amount,
		"category":    category,
		"date":        date,
		"receipt":     receipt,
	}

	if err := s.db.Model(&deduction).Updates(updates).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	deduction.Description = description
	deduction.Amount = amount
	deduction.Category = category
	deduction.Date = date
	deduction.Receipt = receipt

	return &deduction, nil
}

// DeleteDeduction removes a deduction.
func (s *taxService) DeleteDeduction(userID, deductionID uint) error {
	result := s.db.Where("id = ? AND user_id = ?", deductionID, userID).Delete(&models.TaxDeduction{})
	if result.Error != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, result.Error)
	}
	if result.RowsAffected == 0 {
		return apperrors.ErrDeductionNotFound
	}
	return nil
}
