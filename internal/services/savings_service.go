package services

import (
	"errors"

	"gorm.io/gorm"

	apperrors "fintrack/internal/errors"
	"fintrack/internal/models"
)

type savingsService struct {
	db *gorm.DB
}

// NewSavingsService creates a new SavingsServicer.
func NewSavingsService(db *gorm.DB) SavingsServicer {
	return &savingsService{db: db}
}

// CreatePot creates a savings pot for the user.
func (s *savingsService) CreatePot(userID uint, name string, balance int64, targetAmount *int64, interestRate float64, color, icon string) (*models.SavingsPot, error) {
	if name == "" {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "name is required")
	}
	if balance < 0 {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "balance cannot be negative")
	}
	if targetAmount != nil && *targetAmount <= 0 {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "target amount must be greater than zero")
	}
	if interestRate < 0 || interestRate > 100 {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "interest rate must be between 0 and 100")
	}

	pot := &models.SavingsPot{
		UserID:       userID,
		Name:         name,
		Balance:      balance,
		TargetAmount: targetAmount,
		InterestRate: interestRate,
	}
	if color != "" {
		pot.Color = color
	}
	if icon != "" {
		pot.Icon = icon
	}

	if err := s.db.Create(pot).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	return pot, nil
}

// GetUserPots returns the user's savings pots, largest first.
func (s *savingsService) GetUserPots(userID uint) ([]models.SavingsPot, error) {
	var pots []models.SavingsPot
	if err := s.db.Where("user_id = ?", userID).Order("balance DESC").Find(&pots).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return pots, nil
}

// GetPotByID returns a pot by ID if it belongs to the user.
func (s *savingsService) GetPotByID(userID, potID uint) (*models.SavingsPot, error) {
	var pot models.SavingsPot
	if err := s.db.Where("id = ? AND user_id = ?", potID, userID).First(&pot).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrSavingsPotNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &pot, nil
}

// UpdatePot modifies a savings pot. Nil pointers leave the current value.
func (s *savingsService) UpdatePot(userID, potID uint, name string, balance, targetAmount *int64, interestRate *float64, color, icon string) (*models.SavingsPot, error) {
	pot, err := s.GetPotByID(userID, potID)
	if err != nil {
		return nil, err
	}

	updates := map[string]interface{}{}
	if name != "" {
		updates["name"] = name
	}
	if balance != nil {
		if *balance < 0 {
			return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "balance cannot be negative")
		}
		updates["balance"] = *balance
	}
	if targetAmount != nil {
		if *targetAmount <= 0 {
			return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "target amount must be greater than zero")
		}
		updates["target_amount"] = *targetAmount
	}
	if interestRate != nil {
		if *interestRate < 0 || *interestRate > 100 {
			return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "interest rate must be between 0 and 100")
		}
		updates["interest_rate"] = *interestRate
	}
	if color != "" {
		updates["color"] = color
	}
	if icon != "" {
		updates["icon"] = icon
	}

	if len(updates) > 0 {
		if err := s.db.Model(pot).Updates(updates).Error; err != nil {
			return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		if err := s.db.Where("id = ?", pot.ID).First(pot).Error; err != nil {
			return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
	}

	return pot, nil
}

// DeletePot removes a savings pot.
func (s *savingsService) DeletePot(userID, potID uint) error {
	pot, err := s.GetPotByID(userID, potID)
	if err != nil {
		return err
	}

	if err := s.db.Delete(pot).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return nil
}
