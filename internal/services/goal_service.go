package services

import (
	"errors"
	"sort"
	"time"

	"gorm.io/gorm"

	apperrors "fintrack/internal/errors"
	"fintrack/internal/models"
)

type goalService struct {
	db                 *gorm.DB
	transactionService TransactionServicer
}

// NewGoalService creates a new GoalServicer. Contributions are recorded
// through the transaction service so balance bookkeeping stays in one place.
func NewGoalService(db *gorm.DB, transactionService TransactionServicer) GoalServicer {
	return &goalService{db: db, transactionService: transactionService}
}

// CreateGoal creates a savings goal for the user.
func (s *goalService) CreateGoal(userID uint, name, description string, targetAmount int64, targetDate *time.Time, priority int) (*models.Goal, error) {
	if name == "" {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "name is required")
	}
	if targetAmount <= 0 {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "target amount must be greater than zero")
	}
	if priority < 1 || priority > 3 {
		priority = 2
	}

	goal := &models.Goal{
		UserID:       userID,
		Name:         name,
		Description:  description,
		TargetAmount: targetAmount,
		TargetDate:   targetDate,
		Priority:     priority,
	}

	if err := s.db.Create(goal).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	return goal, nil
}

// GetUserGoals returns the user's goals, highest priority first.
func (s *goalService) GetUserGoals(userID uint) ([]models.Goal, error) {
	var goals []models.Goal
	if err := s.db.Where("user_id = ?", userID).
		Order("priority ASC, target_date ASC").
		Find(&goals).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return goals, nil
}

// GetGoalByID returns a goal by ID if it belongs to the user.
func (s *goalService) GetGoalByID(userID, goalID uint) (*models.Goal, error) {
	var goal models.Goal
	if err := s.db.Where("id = ? AND user_id = ?", goalID, userID).First(&goal).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrGoalNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &goal, nil
}

// UpdateGoal modifies goal metadata. CurrentAmount and IsAchieved are owned
// by the contribution path and are never written here.
func (s *goalService) UpdateGoal(userID, goalID uint, name, description string, targetAmount *int64, targetDate *time.Time, priority *int) (*models.Goal, error) {
	goal, err := s.GetGoalByID(userID, goalID)
	if err != nil {
		return nil, err
	}

	updates := map[string]interface{}{}
	if name != "" {
		updates["name"] = name
	}
	if description != "" {
		updates["description"] = description
	}
	if targetAmount != nil {
		if *targetAmount <= 0 {
			return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "target amount must be greater than zero")
		}
		updates["target_amount"] = *targetAmount
	}
	if targetDate != nil {
		updates["target_date"] = *targetDate
	}
	if priority != nil {
		if *priority < 1 || *priority > 3 {
			return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "priority must be between 1 and 3")
		}
		updates["priority"] = *priority
	}

	if len(updates) > 0 {
		if err := s.db.Model(goal).Updates(updates).Error; err != nil {
			return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		if err := s.db.Where("id = ?", goal.ID).First(goal).Error; err != nil {
			return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
	}

	return goal, nil
}

// DeleteGoal removes a goal. Contribution transactions are kept but lose the
// goal linkage on read since the row is soft deleted.
func (s *goalService) DeleteGoal(userID, goalID uint) error {
	goal, err := s.GetGoalByID(userID, goalID)
	if err != nil {
		return err
	}

	if err := s.db.Delete(goal).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return nil
}

// Contribute records a contribution as a goal-linked expense transaction from
// the given account. The transaction path advances CurrentAmount and handles
// the achievement flip atomically.
func (s *goalService) Contribute(userID, goalID, accountID uint, amount int64, description string) (*models.Goal, error) {
	goal, err := s.GetGoalByID(userID, goalID)
	if err != nil {
		return nil, err
	}
	if amount <= 0 {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "amount must be greater than zero")
	}
	if description == "" {
		description = "Contribution to " + goal.Name
	}

	if _, err := s.transactionService.CreateTransaction(userID, accountID, nil, &goalID,
		models.TransactionTypeExpense, amount, description, time.Now()); err != nil {
		return nil, err
	}

	return s.GetGoalByID(userID, goalID)
}

// GetGoalAnalytics returns a goal's contribution history grouped by calendar
// month, with a completion date projected from the average monthly pace.
// Grouping happens in Go over one query so it behaves the same on every
// database driver.
func (s *goalService) GetGoalAnalytics(userID, goalID uint) (*GoalAnalytics, error) {
	goal, err := s.GetGoalByID(userID, goalID)
	if err != nil {
		return nil, err
	}

	var contributions []models.Transaction
	if err := s.db.Where("goal_id = ? AND user_id = ? AND type = ?",
		goalID, userID, models.TransactionTypeExpense).
		Order("date DESC").
		Find(&contributions).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	totalByMonth := make(map[string]int64)
	for _, contribution := range contributions {
		totalByMonth[contribution.Date.Format("2006-01")] += contribution.Amount
	}

	months := make([]string, 0, len(totalByMonth))
	for month := range totalByMonth {
		months = append(months, month)
	}
	sort.Strings(months)

	monthly := make([]GoalMonthlyProgress, 0, len(months))
	var contributedSum int64
	for _, month := range months {
		monthly = append(monthly, GoalMonthlyProgress{Month: month, Total: totalByMonth[month]})
		contributedSum += totalByMonth[month]
	}

	var averageMonthly int64
	if len(monthly) > 0 {
		averageMonthly = contributedSum / int64(len(monthly))
	}

	remaining := goal.TargetAmount - goal.CurrentAmount

	var projected *time.Time
	if goal.TargetDate != nil && remaining > 0 && averageMonthly > 0 {
		monthsToComplete := int((remaining + averageMonthly - 1) / averageMonthly)
		completion := addMonthsClamped(time.Now(), monthsToComplete)
		projected = &completion
	}

	return &GoalAnalytics{
		Goal:                goal,
		Contributions:       contributions,
		MonthlyProgress:     monthly,
		ProjectedCompletion: projected,
		TotalContributed:    goal.CurrentAmount,
		Remaining:           remaining,
		ProgressPercentage:  goal.ProgressPercentage(),
		AverageMonthly:      averageMonthly,
	}, nil
}
