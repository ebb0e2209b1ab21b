package testutil_test

import (
	"testing"
	"time"

	"fintrack/internal/models"
	"fintrack/internal/testutil"
)

func TestSetupTestDB(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)

	// Verify all tables exist by doing a simple count query on each model.
	var count int64
	for _, table := range []string{
		"users", "accounts", "budget_categories", "transactions", "goals",
		"debts", "savings_pots", "recurring_rules", "tax_deductions", "notifications",
	} {
		if err := db.Table(table).Count(&count).Error; err != nil {
			t.Errorf("table %q should exist after migration: %v", table, err)
		}
	}
}

func TestFixtures(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)

	user := testutil.CreateTestUser(t, db)
	if user.ID == 0 {
		t.Fatal("user should have a non-zero ID")
	}

	account := testutil.CreateTestAccountWithBalance(t, db, user.ID, 5000)
	if account.Balance != 5000 {
		t.Errorf("expected balance 5000, got %d", account.Balance)
	}

	category := testutil.CreateTestCategory(t, db, user.ID)
	if category.UserID == nil || *category.UserID != user.ID {
		t.Error("expected category owned by the user")
	}

	tx := testutil.CreateTestTransaction(t, db, user.ID, account.ID, models.TransactionTypeIncome, 1000)
	if tx.Amount != 1000 {
		t.Errorf("expected amount 1000, got %d", tx.Amount)
	}

	goal := testutil.CreateTestGoal(t, db, user.ID, 100000)
	if goal.TargetAmount != 100000 {
		t.Errorf("expected target 100000, got %d", goal.TargetAmount)
	}

	debt := testutil.CreateTestDebt(t, db, user.ID, 50000, 18.5, 2500)
	if debt.InterestRate != 18.5 {
		t.Errorf("expected rate 18.5, got %f", debt.InterestRate)
	}

	pot := testutil.CreateTestSavingsPot(t, db, user.ID, 7500)
	if pot.Balance != 7500 {
		t.Errorf("expected pot balance 7500, got %d", pot.Balance)
	}

	rule := testutil.CreateTestRecurringRule(t, db, user.ID, account.ID, models.FrequencyMonthly, time.Now())
	if !rule.IsActive || !rule.AutoCreate {
		t.Error("expected rule active and auto-creating")
	}

	deduction := testutil.CreateTestDeduction(t, db, user.ID, 3000, "home_office", time.Now())
	if deduction.Category != "home_office" {
		t.Errorf("expected category home_office, got %s", deduction.Category)
	}
}

func TestUniqueEmails(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)

	first := testutil.CreateTestUser(t, db)
	second := testutil.CreateTestUser(t, db)
	if first.Email == second.Email {
		t.Error("fixture users must get distinct emails")
	}
}
