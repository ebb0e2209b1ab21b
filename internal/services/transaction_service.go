package services

import (
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	apperrors "fintrack/internal/errors"
	"fintrack/internal/models"
	"fintrack/internal/pagination"
)

// transactionService handles transaction-related business logic. Every
// mutation leaves exactly one compensating write on the balance of each
// account it touches, executed atomically with the transaction write.
type transactionService struct {
	db             *gorm.DB
	accountService AccountServicer
	notifier       Notifier
}

// NewTransactionService creates a new TransactionServicer.
func NewTransactionService(db *gorm.DB, accountService AccountServicer, notifier Notifier) TransactionServicer {
	return &transactionService{
		db:             db,
		accountService: accountService,
		notifier:       notifier,
	}
}

// CreateTransaction creates a new income or expense transaction and applies
// its signed amount to the owning account. An expense linked to a goal also
// advances the goal's progress; when that pushes the goal over its target the
// achieved flag flips once and a notification is emitted after commit.
func (s *transactionService) CreateTransaction(
	userID, accountID uint,
	categoryID, goalID *uint,
	transactionType models.TransactionType,
	amount int64,
	description string,
	date time.Time,
) (*models.Transaction, error) {
	if amount <= 0 {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "amount must be greater than zero")
	}
	if transactionType != models.TransactionTypeIncome && transactionType != models.TransactionTypeExpense {
		return nil, apperrors.ErrInvalidTransactionType
	}
	if accountID == 0 {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "account ID is required")
	}
	if date.IsZero() {
		date = time.Now()
	}

	account, err := s.accountService.GetAccountByID(userID, accountID)
	if err != nil {
		return nil, err
	}

	transaction := &models.Transaction{
		UserID:      userID,
		AccountID:   account.ID,
		CategoryID:  categoryID,
		GoalID:      goalID,
		Type:        transactionType,
		Amount:      amount,
		Description: description,
		Date:        date,
	}

	var achievedGoal *models.Goal
	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(transaction).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}

		if err := s.accountService.ApplyBalanceDelta(tx, account.ID, transaction.SignedAmount()); err != nil {
			return err
		}

		if goalID != nil && transactionType == models.TransactionTypeExpense {
			goal, err := advanceGoal(tx, userID, *goalID, amount)
			if err != nil {
				return err
			}
			achievedGoal = goal
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	if achievedGoal != nil {
		s.notifier.Notify(userID, "Goal Achieved!",
			fmt.Sprintf("Congratulations! You've reached your goal: %s", achievedGoal.Name),
			"goal_achieved")
	}

	return transaction, nil
}

// advanceGoal increases a goal's progress by amount inside the caller's
// database transaction. It returns the goal only when this contribution
// newly achieved it, so the caller can notify after commit.
func advanceGoal(tx *gorm.DB, userID, goalID uint, amount int64) (*models.Goal, error) {
	var goal models.Goal
	if err := tx.Where("id = ? AND user_id = ?", goalID, userID).First(&goal).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrGoalNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	goal.CurrentAmount += amount
	updates := map[string]interface{}{"current_amount": goal.CurrentAmount}

	newlyAchieved := !goal.IsAchieved && goal.CurrentAmount >= goal.TargetAmount
	if newlyAchieved {
		goal.IsAchieved = true
		updates["is_achieved"] = true
	}

	if err := tx.Model(&models.Goal{}).Where("id = ?", goal.ID).Updates(updates).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	if newlyAchieved {
		return &goal, nil
	}
	return nil, nil
}

// CreateTransfer moves funds between two of the user's accounts as two linked
// transfer legs plus two balance writes, all-or-nothing.
func (s *transactionService) CreateTransfer(
	userID, fromAccountID, toAccountID uint,
	amount int64,
	description string,
	date time.Time,
) (*models.Transaction, error) {
	if amount <= 0 {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "amount must be greater than zero")
	}
	if fromAccountID == toAccountID {
		return nil, apperrors.ErrSameAccountTransfer
	}
	if date.IsZero() {
		date = time.Now()
	}

	fromAccount, err := s.accountService.GetAccountByID(userID, fromAccountID)
	if err != nil {
		return nil, err
	}
	toAccount, err := s.accountService.GetAccountByID(userID, toAccountID)
	if err != nil {
		return nil, err
	}

	if fromAccount.Balance < amount {
		return nil, apperrors.ErrInsufficientBalance
	}

	if description == "" {
		description = fmt.Sprintf("Transfer to %s", toAccount.Name)
	}

	outLeg := &models.Transaction{
		UserID:      userID,
		AccountID:   fromAccount.ID,
		ToAccountID: &toAccount.ID,
		Type:        models.TransactionTypeTransfer,
		Amount:      amount,
		Description: description,
		Date:        date,
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(outLeg).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}

		inLeg := &models.Transaction{
			UserID:        userID,
			AccountID:     toAccount.ID,
			FromAccountID: &fromAccount.ID,
			Type:          models.TransactionTypeTransfer,
			Amount:        amount,
			Description:   fmt.Sprintf("Transfer from %s", fromAccount.Name),
			Date:          date,
		}
		if err := tx.Create(inLeg).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}

		if err := s.accountService.ApplyBalanceDelta(tx, fromAccount.ID, -amount); err != nil {
			return err
		}
		if err := s.accountService.ApplyBalanceDelta(tx, toAccount.ID, amount); err != nil {
			return err
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	return outLeg, nil
}

// GetUserTransactions retrieves a paginated, filtered list of the user's transactions.
func (s *transactionService) GetUserTransactions(userID uint, page pagination.PageRequest, filter TransactionFilter) (*pagination.PageResponse[models.Transaction], error) {
	page.Defaults()

	base := s.db.Model(&models.Transaction{}).Where("user_id = ?", userID)
	base = applyTransactionFilters(base, filter)

	var totalItems int64
	if err := base.Count(&totalItems).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var transactions []models.Transaction
	if err := base.Scopes(pagination.Paginate(page)).
		Order("date DESC, created_at DESC").
		Find(&transactions).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	result := pagination.NewPageResponse(transactions, page.Page, page.PageSize, totalItems)
	return &result, nil
}

func applyTransactionFilters(q *gorm.DB, f TransactionFilter) *gorm.DB {
	if f.FromDate != nil {
		q = q.Where("date >= ?", *f.FromDate)
	}
	if f.ToDate != nil {
		q = q.Where("date <= ?", *f.ToDate)
	}
	if f.Type != nil {
		q = q.Where("type = ?", *f.Type)
	}
	if f.CategoryID != nil {
		q = q.Where("category_id = ?", *f.CategoryID)
	}
	if f.AccountID != nil {
		q = q.Where("account_id = ?", *f.AccountID)
	}
	return q
}

// GetTransactionByID retrieves a transaction by ID for a specific user
func (s *transactionService) GetTransactionByID(userID, transactionID uint) (*models.Transaction, error) {
	var transaction models.Transaction
	if err := s.db.Where("id = ? AND user_id = ?", transactionID, userID).First(&transaction).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrTransactionNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &transaction, nil
}

// UpdateTransaction applies partial changes to a transaction and compensates
// the affected account balance(s) by the signed-amount delta. When the
// account reference itself changes, the old signed amount is reversed on the
// old account and the new signed amount applied to the new one.
func (s *transactionService) UpdateTransaction(userID, transactionID uint, fields TransactionUpdateFields) (*models.Transaction, error) {
	transaction, err := s.GetTransactionByID(userID, transactionID)
	if err != nil {
		return nil, err
	}

	if transaction.Type == models.TransactionTypeTransfer {
		return nil, apperrors.ErrTransactionNotEditable
	}

	oldSigned := transaction.SignedAmount()
	oldAccountID := transaction.AccountID

	if fields.Amount != nil {
		if *fields.Amount <= 0 {
			return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "amount must be greater than zero")
		}
		transaction.Amount = *fields.Amount
	}
	if fields.Type != nil {
		if *fields.Type != models.TransactionTypeIncome && *fields.Type != models.TransactionTypeExpense {
			return nil, apperrors.ErrInvalidTransactionType
		}
		transaction.Type = *fields.Type
	}
	if fields.AccountID != nil && *fields.AccountID != oldAccountID {
		// New account must exist and belong to the same user.
		newAccount, err := s.accountService.GetAccountByID(userID, *fields.AccountID)
		if err != nil {
			return nil, err
		}
		transaction.AccountID = newAccount.ID
	}
	if fields.CategoryID != nil {
		transaction.CategoryID = fields.CategoryID
	}
	if fields.Description != nil {
		transaction.Description = *fields.Description
	}
	if fields.Date != nil {
		transaction.Date = *fields.Date
	}

	newSigned := transaction.SignedAmount()

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Save(transaction).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}

		if transaction.AccountID != oldAccountID {
			if err := s.accountService.ApplyBalanceDelta(tx, oldAccountID, -oldSigned); err != nil {
				return err
			}
			return s.accountService.ApplyBalanceDelta(tx, transaction.AccountID, newSigned)
		}

		return s.accountService.ApplyBalanceDelta(tx, transaction.AccountID, newSigned-oldSigned)
	})
	if err != nil {
		return nil, err
	}

	return transaction, nil
}

// DeleteTransaction deletes a transaction and reverses its effect on the
// account balance.
func (s *transactionService) DeleteTransaction(userID, transactionID uint) error {
	transaction, err := s.GetTransactionByID(userID, transactionID)
	if err != nil {
		return err
	}

	if transaction.Type == models.TransactionTypeTransfer {
		return apperrors.ErrTransactionNotEditable
	}

	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Delete(transaction).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}

		return s.accountService.ApplyBalanceDelta(tx, transaction.AccountID, -transaction.SignedAmount())
	})
}
