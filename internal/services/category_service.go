package services

import (
	"errors"
	"time"

	"gorm.io/gorm"

	apperrors "fintrack/internal/errors"
	"fintrack/internal/models"
)

type categoryService struct {
	db *gorm.DB
}

// NewCategoryService creates a new CategoryServicer.
func NewCategoryService(db *gorm.DB) CategoryServicer {
	return &categoryService{db: db}
}

// CreateCategory creates a budget category owned by the user.
func (s *categoryService) CreateCategory(userID uint, name, icon, color string, monthlyLimit *int64) (*models.BudgetCategory, error) {
	if name == "" {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "name is required")
	}
	if monthlyLimit != nil && *monthlyLimit < 0 {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "monthly limit cannot be negative")
	}

	category := &models.BudgetCategory{
		UserID:       &userID,
		Name:         name,
		Icon:         icon,
		Color:        color,
		MonthlyLimit: monthlyLimit,
		IsActive:     true,
	}

	if err := s.db.Create(category).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	return category, nil
}

// GetUserCategories returns the user's categories plus the shared defaults,
// each annotated with the current calendar month's spend and the percentage
// of its monthly limit used.
func (s *categoryService) GetUserCategories(userID uint) ([]CategorySpending, error) {
	var categories []models.BudgetCategory
	if err := s.db.Where("(user_id = ? OR user_id IS NULL) AND is_active = ?", userID, true).
		Order("name ASC").
		Find(&categories).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	now := time.Now()
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())

	type spendRow struct {
		CategoryID uint
		Total      int64
	}
	var rows []spendRow
	if err := s.db.Model(&models.Transaction{}).
		Select("category_id, COALESCE(SUM(amount), 0) AS total").
		Where("user_id = ? AND type = ? AND category_id IS NOT NULL AND date >= ?",
			userID, models.TransactionTypeExpense, monthStart).
		Group("category_id").
		Scan(&rows).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	spentByCategory := make(map[uint]int64, len(rows))
	for _, row := range rows {
		spentByCategory[row.CategoryID] = row.Total
	}

	result := make([]CategorySpending, 0, len(categories))
	for _, category := range categories {
		spent := spentByCategory[category.ID]
		var percentage float64
		if category.MonthlyLimit != nil && *category.MonthlyLimit > 0 {
			percentage = float64(spent) / float64(*category.MonthlyLimit) * 100
		}
		result = append(result, CategorySpending{
			BudgetCategory:    category,
			CurrentMonthSpent: spent,
			PercentageUsed:    percentage,
		})
	}

	return result, nil
}

// GetCategoryByID returns a category the user can see, either their own or a
// shared default.
func (s *categoryService) GetCategoryByID(userID, categoryID uint) (*models.BudgetCategory, error) {
	var category models.BudgetCategory
	if err := s.db.Where("id = ? AND (user_id = ? OR user_id IS NULL) AND is_active = ?",
		categoryID, userID, true).First(&category).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrCategoryNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &category, nil
}

// UpdateCategory modifies a category the user owns. Shared defaults cannot be
// edited.
func (s *categoryService) UpdateCategory(userID, categoryID uint, name, icon, color string, monthlyLimit *int64) (*models.BudgetCategory, error) {
	var category models.BudgetCategory
	if err := s.db.Where("id = ? AND user_id = ?", categoryID, userID).First(&category).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrCategoryNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	if name == "" {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "name is required")
	}
	if monthlyLimit != nil && *monthlyLimit < 0 {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "monthly limit cannot be negative")
	}

	updates := map[string]interface{}{
		"name":          name,
		"icon":          icon,
		"color":         color,
		"monthly_limit": monthlyLimit,
	}

	if err := s.db.Model(&category).Updates(updates).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	category.Name = name
	category.Icon = icon
	category.Color = color
	category.MonthlyLimit = monthlyLimit

	return &category, nil
}

// DeleteCategory deactivates a user-owned category. Existing transactions
// keep their category reference.
func (s *categoryService) DeleteCategory(userID, categoryID uint) error {
	result := s.db.Model(&models.BudgetCategory{}).
		Where("id = ? AND user_id = ? AND is_active = ?", categoryID, userID, true).
		Update("is_active", false)
	if result.Error != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, result.Error)
	}
	if result.RowsAffected == 0 {
		return apperrors.ErrCategoryNotFound
	}
	return nil
}
