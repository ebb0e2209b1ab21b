package testutil

import (
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"fintrack/internal/models"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// counter provides unique values across fixtures within a test run.
var counter atomic.Int64

func nextID() int64 {
	return counter.Add(1)
}

// CreateTestUser creates a user with a hashed password and unique email.
func CreateTestUser(t *testing.T, db *gorm.DB) *models.User {
	t.Helper()
	email := fmt.Sprintf("user%d@test.com", nextID())
	return CreateTestUserWithEmail(t, db, email)
}

// CreateTestUserWithEmail creates a user with the given email.
func CreateTestUserWithEmail(t *testing.T, db *gorm.DB, email string) *models.User {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("failed to hash password: %v", err)
	}

	user := &models.User{
		Email:    email,
		Password: string(hash),
		IsActive: true,
	}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("failed to create test user: %v", err)
	}
	return user
}

// CreateTestAccount creates a checking account with zero balance.
func CreateTestAccount(t *testing.T, db *gorm.DB, userID uint) *models.Account {
	t.Helper()
	return CreateTestAccountWithBalance(t, db, userID, 0)
}

// CreateTestAccountWithBalance creates a checking account with the given balance (in cents).
func CreateTestAccountWithBalance(t *testing.T, db *gorm.DB, userID uint, balance int64) *models.Account {
	t.Helper()

	account := &models.Account{
		UserID:   userID,
		Name:     fmt.Sprintf("Test Account %d", nextID()),
		Type:     models.AccountTypeChecking,
		Balance:  balance,
		Currency: "USD",
		IsActive: true,
	}
	if err := db.Create(account).Error; err != nil {
		t.Fatalf("failed to create test account: %v", err)
	}
	return account
}

// CreateTestCategory creates an active budget category owned by the user.
func CreateTestCategory(t *testing.T, db *gorm.DB, userID uint) *models.BudgetCategory {
	t.Helper()
	return CreateTestCategoryWithLimit(t, db, userID, nil)
}

// CreateTestCategoryWithLimit creates a budget category with a monthly limit (in cents).
func CreateTestCategoryWithLimit(t *testing.T, db *gorm.DB, userID uint, monthlyLimit *int64) *models.BudgetCategory {
	t.Helper()

	category := &models.BudgetCategory{
		UserID:       &userID,
		Name:         fmt.Sprintf("Test Category %d", nextID()),
		MonthlyLimit: monthlyLimit,
		IsActive:     true,
	}
	if err := db.Create(category).Error; err != nil {
		t.Fatalf("failed to create test category: %v", err)
	}
	return category
}

// CreateTestTransaction creates a transaction of the given type and amount (in cents).
func CreateTestTransaction(t *testing.T, db *gorm.DB, userID, accountID uint, txType models.TransactionType, amount int64) *models.Transaction {
	t.Helper()
	return CreateTestTransactionOnDate(t, db, userID, accountID, txType, amount, time.Now())
}

// CreateTestTransactionOnDate creates a transaction dated at the given time.
func CreateTestTransactionOnDate(t *testing.T, db *gorm.DB, userID, accountID uint, txType models.TransactionType, amount int64, date time.Time) *models.Transaction {
	t.Helper()

	tx := &models.Transaction{
		UserID:    userID,
		AccountID: accountID,
		Type:      txType,
		Amount:    amount,
		Date:      date,
	}
	if err := db.Create(tx).Error; err != nil {
		t.Fatalf("failed to create test transaction: %v", err)
	}
	return tx
}

// CreateTestGoal creates a goal with the given target amount (in cents).
func CreateTestGoal(t *testing.T, db *gorm.DB, userID uint, targetAmount int64) *models.Goal {
	t.Helper()

	goal := &models.Goal{
		UserID:       userID,
		Name:         fmt.Sprintf("Test Goal %d", nextID()),
		TargetAmount: targetAmount,
		Priority:     2,
	}
	if err := db.Create(goal).Error; err != nil {
		t.Fatalf("failed to create test goal: %v", err)
	}
	return goal
}

// CreateTestDebt creates a debt with the given balance, annual rate, and monthly payment.
func CreateTestDebt(t *testing.T, db *gorm.DB, userID uint, balance int64, rate float64, payment int64) *models.Debt {
	t.Helper()

	debt := &models.Debt{
		UserID:         userID,
		Name:           fmt.Sprintf("Test Debt %d", nextID()),
		Balance:        balance,
		InterestRate:   rate,
		MonthlyPayment: payment,
		Type:           models.DebtTypeCreditCard,
	}
	if err := db.Create(debt).Error; err != nil {
		t.Fatalf("failed to create test debt: %v", err)
	}
	return debt
}

// CreateTestSavingsPot creates a savings pot with the given balance (in cents).
func CreateTestSavingsPot(t *testing.T, db *gorm.DB, userID uint, balance int64) *models.SavingsPot {
	t.Helper()

	pot := &models.SavingsPot{
		UserID:  userID,
		Name:    fmt.Sprintf("Test Pot %d", nextID()),
		Balance: balance,
		Color:   "#10B981",
		Icon:    "piggy-bank",
	}
	if err := db.Create(pot).Error; err != nil {
		t.Fatalf("failed to create test savings pot: %v", err)
	}
	return pot
}

// CreateTestRecurringRule creates an active auto-create rule due at the given time.
func CreateTestRecurringRule(t *testing.T, db *gorm.DB, userID, accountID uint, frequency models.Frequency, nextDue time.Time) *models.RecurringRule {
	t.Helper()

	rule := &models.RecurringRule{
		UserID:      userID,
		AccountID:   accountID,
		Type:        models.TransactionTypeExpense,
		Amount:      1000,
		Description: fmt.Sprintf("Test Rule %d", nextID()),
		Frequency:   frequency,
		StartDate:   nextDue.AddDate(0, -1, 0),
		NextDueDate: nextDue,
		AutoCreate:  true,
		IsActive:    true,
	}
	if err := db.Create(rule).Error; err != nil {
		t.Fatalf("failed to create test recurring rule: %v", err)
	}
	return rule
}

// CreateTestDeduction creates a tax deduction dated at the given time.
func CreateTestDeduction(t *testing.T, db *gorm.DB, userID uint, amount int64, category string, date time.Time) *models.TaxDeduction {
	t.Helper()

	deduction := &models.TaxDeduction{
		UserID:      userID,
		Description: fmt.Sprintf("Test Deduction %d", nextID()),
		Amount:      amount,
		Category:    category,
		Date:        date,
	}
	if err := db.Create(deduction).Error; err != nil {
		t.Fatalf("failed to create test deduction: %v", err)
	}
	return deduction
}
