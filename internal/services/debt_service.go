package services

import (
	"errors"
	"math"

	"gorm.io/gorm"

	apperrors "fintrack/internal/errors"
	"fintrack/internal/models"
)

// payoffIterationCap bounds the amortization loop at 100 years so malformed
// input can never spin forever.
const payoffIterationCap = 1200

// debtService handles debt-related business logic and the payoff simulation.
type debtService struct {
	db *gorm.DB
}

// NewDebtService creates a new DebtServicer.
func NewDebtService(db *gorm.DB) DebtServicer {
	return &debtService{db: db}
}

// CreateDebt records a new debt for the user.
func (s *debtService) CreateDebt(userID uint, name string, balance int64, interestRate float64, monthlyPayment int64, debtType models.DebtType) (*models.Debt, error) {
	if name == "" {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "debt name is required")
	}
	if balance <= 0 {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "balance must be greater than zero")
	}
	if interestRate < 0 || interestRate > 100 {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "interest rate must be between 0 and 100")
	}
	if monthlyPayment <= 0 {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "monthly payment must be greater than zero")
	}

	debt := &models.Debt{
		UserID:         userID,
		Name:           name,
		Balance:        balance,
		InterestRate:   interestRate,
		MonthlyPayment: monthlyPayment,
		Type:           debtType,
	}

	if err := s.db.Create(debt).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	return debt, nil
}

// GetUserDebts returns the user's debts ordered by balance, largest first.
func (s *debtService) GetUserDebts(userID uint) ([]models.Debt, error) {
	var debts []models.Debt
	if err := s.db.Where("user_id = ?", userID).Order("balance DESC").Find(&debts).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return debts, nil
}

// UpdateDebt applies partial changes to a debt.
func (s *debtService) UpdateDebt(userID, debtID uint, name string, balance *int64, interestRate *float64, monthlyPayment *int64, debtType *models.DebtType) (*models.Debt, error) {
	debt, err := s.getDebtByID(userID, debtID)
	if err != nil {
		return nil, err
	}

	updates := make(map[string]interface{})
	if name != "" {
		updates["name"] = name
	}
	if balance != nil {
		if *balance < 0 {
			return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "balance cannot be negative")
		}
		updates["balance"] = *balance
	}
	if interestRate != nil {
		if *interestRate < 0 || *interestRate > 100 {
			return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "interest rate must be between 0 and 100")
		}
		updates["interest_rate"] = *interestRate
	}
	if monthlyPayment != nil {
		if *monthlyPayment <= 0 {
			return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "monthly payment must be greater than zero")
		}
		updates["monthly_payment"] = *monthlyPayment
	}
	if debtType != nil {
		updates["type"] = *debtType
	}

	if len(updates) > 0 {
		if err := s.db.Model(debt).Updates(updates).Error; err != nil {
			return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		if err := s.db.Where("id = ?", debt.ID).First(debt).Error; err != nil {
			return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
	}

	return debt, nil
}

// DeleteDebt removes a debt.
func (s *debtService) DeleteDebt(userID, debtID uint) error {
	debt, err := s.getDebtByID(userID, debtID)
	if err != nil {
		return err
	}

	if err := s.db.Delete(debt).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return nil
}

func (s *debtService) getDebtByID(userID, debtID uint) (*models.Debt, error) {
	var debt models.Debt
	if err := s.db.Where("id = ? AND user_id = ?", debtID, userID).First(&debt).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrDebtNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &debt, nil
}

// CalculatePayoffPlan simulates month-by-month amortization of each of the
// user's debts under the chosen strategy. The strategy orders the output;
// each debt is amortized independently against its own fixed monthly payment.
// A paid-off debt's payment is NOT rolled into the next debt, which differs
// from the textbook snowball/avalanche methods.
func (s *debtService) CalculatePayoffPlan(userID uint, strategy PayoffStrategy) (*PayoffPlan, error) {
	order := "balance ASC"
	switch strategy {
	case StrategySnowball:
		order = "balance ASC"
	case StrategyAvalanche:
		order = "interest_rate DESC"
	default:
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "strategy must be snowball or avalanche")
	}

	var debts []models.Debt
	if err := s.db.Where("user_id = ?", userID).Order(order).Find(&debts).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	plan := &PayoffPlan{
		Strategy: strategy,
		Plan:     make([]DebtPayoffResult, 0, len(debts)),
	}

	for _, debt := range debts {
		months, interest := amortize(debt.Balance, debt.InterestRate, debt.MonthlyPayment)

		plan.Plan = append(plan.Plan, DebtPayoffResult{
			Debt:          debt,
			PayoffMonths:  months,
			TotalInterest: interest,
		})

		if months > plan.Months {
			plan.Months = months
		}
		plan.TotalInterest += interest
		plan.TotalDebt += debt.Balance
	}

	return plan, nil
}

// amortize simulates paying down a single debt with a fixed monthly payment.
// It returns the number of months to payoff and the total interest paid in
// cents. A debt whose monthly interest meets or exceeds the payment never
// shrinks and yields the PayoffNeverMonths sentinel.
func amortize(balance int64, annualRate float64, monthlyPayment int64) (months int, totalInterest int64) {
	if balance <= 0 {
		return 0, 0
	}

	b := float64(balance)
	p := float64(monthlyPayment)
	monthlyRate := annualRate / 100 / 12

	var interestAccum float64
	for b > 0 {
		interest := b * monthlyRate

		if interest >= p {
			months = PayoffNeverMonths
			break
		}

		b -= p - interest
		interestAccum += interest
		months++

		if months > payoffIterationCap {
			break
		}
	}

	return months, int64(math.Round(interestAccum))
}
