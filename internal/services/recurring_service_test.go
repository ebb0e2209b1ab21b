package services

import (
	"strings"
	"testing"
	"time"

	"fintrack/internal/models"
	"fintrack/internal/testutil"
)

func date(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

func TestNextDueDate(t *testing.T) {
	t.Run("daily", func(t *testing.T) {
		next, err := NextDueDate(date(2024, time.March, 15), models.FrequencyDaily)
		testutil.AssertNoError(t, err)
		if !next.Equal(date(2024, time.March, 16)) {
			t.Errorf("expected 2024-03-16, got %s", next)
		}
	})

	t.Run("weekly", func(t *testing.T) {
		next, err := NextDueDate(date(2024, time.March, 15), models.FrequencyWeekly)
		testutil.AssertNoError(t, err)
		if !next.Equal(date(2024, time.March, 22)) {
			t.Errorf("expected 2024-03-22, got %s", next)
		}
	})

	t.Run("monthly", func(t *testing.T) {
		next, err := NextDueDate(date(2024, time.March, 15), models.FrequencyMonthly)
		testutil.AssertNoError(t, err)
		if !next.Equal(date(2024, time.April, 15)) {
			t.Errorf("expected 2024-04-15, got %s", next)
		}
	})

	t.Run("monthly_clamps_to_leap_february", func(t *testing.T) {
		next, err := NextDueDate(date(2024, time.January, 31), models.FrequencyMonthly)
		testutil.AssertNoError(t, err)
		if !next.Equal(date(2024, time.February, 29)) {
			t.Errorf("expected 2024-02-29, got %s", next)
		}
	})

	t.Run("monthly_clamps_to_short_february", func(t *testing.T) {
		next, err := NextDueDate(date(2023, time.January, 31), models.FrequencyMonthly)
		testutil.AssertNoError(t, err)
		if !next.Equal(date(2023, time.February, 28)) {
			t.Errorf("expected 2023-02-28, got %s", next)
		}
	})

	t.Run("yearly_clamps_leap_day", func(t *testing.T) {
		next, err := NextDueDate(date(2024, time.February, 29), models.FrequencyYearly)
		testutil.AssertNoError(t, err)
		if !next.Equal(date(2025, time.February, 28)) {
			t.Errorf("expected 2025-02-28, got %s", next)
		}
	})

	t.Run("invalid_frequency", func(t *testing.T) {
		_, err := NextDueDate(date(2024, time.March, 15), models.Frequency("fortnightly"))
		testutil.AssertAppError(t, err, "INVALID_FREQUENCY")
	})
}

func TestCreateRule(t *testing.T) {
	t.Run("first_due_date_is_one_period_after_start", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewRecurringService(db, NewAccountService(db), NewNotificationService(db))
		user := testutil.CreateTestUser(t, db)
		account := testutil.CreateTestAccount(t, db, user.ID)

		start := date(2024, time.January, 31)
		rule, err := svc.CreateRule(user.ID, RecurringRuleFields{
			AccountID:   account.ID,
			Type:        models.TransactionTypeExpense,
			Amount:      120000,
			Description: "Rent",
			Frequency:   models.FrequencyMonthly,
			StartDate:   start,
			AutoCreate:  true,
		})
		testutil.AssertNoError(t, err)

		if !rule.NextDueDate.Equal(date(2024, time.February, 29)) {
			t.Errorf("expected next due 2024-02-29, got %s", rule.NextDueDate)
		}
		if !rule.IsActive {
			t.Error("expected new rule to be active")
		}
	})

	t.Run("missing_description", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewRecurringService(db, NewAccountService(db), NewNotificationService(db))
		user := testutil.CreateTestUser(t, db)
		account := testutil.CreateTestAccount(t, db, user.ID)

		_, err := svc.CreateRule(user.ID, RecurringRuleFields{
			AccountID: account.ID,
			Type:      models.TransactionTypeExpense,
			Amount:    1000,
			Frequency: models.FrequencyMonthly,
			StartDate: date(2024, time.January, 1),
		})
		testutil.AssertAppError(t, err, "INVALID_INPUT")
	})

	t.Run("wrong_user_account", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewRecurringService(db, NewAccountService(db), NewNotificationService(db))
		user1 := testutil.CreateTestUser(t, db)
		user2 := testutil.CreateTestUser(t, db)
		account := testutil.CreateTestAccount(t, db, user1.ID)

		_, err := svc.CreateRule(user2.ID, RecurringRuleFields{
			AccountID:   account.ID,
			Type:        models.TransactionTypeExpense,
			Amount:      1000,
			Description: "Rent",
			Frequency:   models.FrequencyMonthly,
			StartDate:   date(2024, time.January, 1),
		})
		testutil.AssertAppError(t, err, "ACCOUNT_NOT_FOUND")
	})
}

func TestExecuteRule(t *testing.T) {
	t.Run("creates_transaction_and_advances_due_date", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		acctSvc := NewAccountService(db)
		svc := NewRecurringService(db, acctSvc, NewNotificationService(db))
		user := testutil.CreateTestUser(t, db)
		account := testutil.CreateTestAccountWithBalance(t, db, user.ID, 10000)
		rule := testutil.CreateTestRecurringRule(t, db, user.ID, account.ID, models.FrequencyMonthly, date(2024, time.March, 1))

		result, err := svc.ExecuteRule(user.ID, rule.ID)
		testutil.AssertNoError(t, err)

		if result.Transaction == nil {
			t.Fatal("expected a materialized transaction")
		}
		if !result.Transaction.IsRecurring {
			t.Error("expected transaction flagged as recurring")
		}
		if result.Transaction.RecurringRuleID == nil || *result.Transaction.RecurringRuleID != rule.ID {
			t.Error("expected transaction linked back to its rule")
		}
		if !result.NextDueDate.Equal(date(2024, time.April, 1)) {
			t.Errorf("expected next due 2024-04-01, got %s", result.NextDueDate)
		}

		updated, _ := acctSvc.GetAccountByID(user.ID, account.ID)
		if updated.Balance != 9000 {
			t.Errorf("expected balance 9000 after expense, got %d", updated.Balance)
		}
	})

	t.Run("notification_formats_amount_as_dollars", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewRecurringService(db, NewAccountService(db), NewNotificationService(db))
		user := testutil.CreateTestUser(t, db)
		account := testutil.CreateTestAccountWithBalance(t, db, user.ID, 500000)
		rule := testutil.CreateTestRecurringRule(t, db, user.ID, account.ID, models.FrequencyMonthly, date(2024, time.March, 1))
		db.Model(rule).Update("amount", 150000)

		_, err := svc.ExecuteRule(user.ID, rule.ID)
		testutil.AssertNoError(t, err)

		var notification models.Notification
		testutil.AssertNoError(t, db.Where("user_id = ? AND type = ?", user.ID, "recurring_executed").First(&notification).Error)
		if !strings.Contains(notification.Message, "$1500.00") {
			t.Errorf("expected amount rendered as $1500.00, got %q", notification.Message)
		}
	})

	t.Run("deactivates_past_end_date", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewRecurringService(db, NewAccountService(db), NewNotificationService(db))
		user := testutil.CreateTestUser(t, db)
		account := testutil.CreateTestAccountWithBalance(t, db, user.ID, 10000)
		rule := testutil.CreateTestRecurringRule(t, db, user.ID, account.ID, models.FrequencyMonthly, date(2024, time.March, 1))

		end := date(2024, time.March, 15)
		db.Model(rule).Update("end_date", end)

		result, err := svc.ExecuteRule(user.ID, rule.ID)
		testutil.AssertNoError(t, err)

		if !result.Deactivated {
			t.Error("expected rule deactivated once next due passes its end date")
		}

		var stored models.RecurringRule
		testutil.AssertNoError(t, db.First(&stored, rule.ID).Error)
		if stored.IsActive {
			t.Error("expected stored rule inactive")
		}
	})

	t.Run("inactive_rule_not_found", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewRecurringService(db, NewAccountService(db), NewNotificationService(db))
		user := testutil.CreateTestUser(t, db)
		account := testutil.CreateTestAccount(t, db, user.ID)
		rule := testutil.CreateTestRecurringRule(t, db, user.ID, account.ID, models.FrequencyMonthly, date(2024, time.March, 1))
		db.Model(rule).Update("is_active", false)

		_, err := svc.ExecuteRule(user.ID, rule.ID)
		testutil.AssertAppError(t, err, "RECURRING_RULE_NOT_FOUND")
	})
}

func TestRunDueRules(t *testing.T) {
	t.Run("executes_only_due_rules", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewRecurringService(db, NewAccountService(db), NewNotificationService(db))
		user := testutil.CreateTestUser(t, db)
		account := testutil.CreateTestAccountWithBalance(t, db, user.ID, 100000)

		now := date(2024, time.March, 10)
		due := testutil.CreateTestRecurringRule(t, db, user.ID, account.ID, models.FrequencyMonthly, date(2024, time.March, 1))
		testutil.CreateTestRecurringRule(t, db, user.ID, account.ID, models.FrequencyMonthly, date(2024, time.April, 1))

		results := svc.RunDueRules(now)
		if len(results) != 1 {
			t.Fatalf("expected 1 executed rule, got %d", len(results))
		}
		if results[0].RuleID != due.ID {
			t.Errorf("expected rule %d, got %d", due.ID, results[0].RuleID)
		}
	})

	t.Run("skips_manual_rules", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewRecurringService(db, NewAccountService(db), NewNotificationService(db))
		user := testutil.CreateTestUser(t, db)
		account := testutil.CreateTestAccountWithBalance(t, db, user.ID, 100000)

		rule := testutil.CreateTestRecurringRule(t, db, user.ID, account.ID, models.FrequencyMonthly, date(2024, time.March, 1))
		db.Model(rule).Update("auto_create", false)

		results := svc.RunDueRules(date(2024, time.March, 10))
		if len(results) != 0 {
			t.Errorf("expected manual rule skipped, got %d results", len(results))
		}
	})

	t.Run("failing_rule_does_not_abort_batch", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewRecurringService(db, NewAccountService(db), NewNotificationService(db))
		user := testutil.CreateTestUser(t, db)
		account := testutil.CreateTestAccountWithBalance(t, db, user.ID, 100000)

		// First rule points at an account that does not exist, so its balance
		// update fails; the second must still run.
		broken := &models.RecurringRule{
			UserID:      user.ID,
			AccountID:   99999,
			Type:        models.TransactionTypeExpense,
			Amount:      1000,
			Description: "Orphaned",
			Frequency:   models.FrequencyMonthly,
			StartDate:   date(2024, time.February, 1),
			NextDueDate: date(2024, time.March, 1),
			AutoCreate:  true,
			IsActive:    true,
		}
		testutil.AssertNoError(t, db.Create(broken).Error)
		healthy := testutil.CreateTestRecurringRule(t, db, user.ID, account.ID, models.FrequencyMonthly, date(2024, time.March, 1))

		results := svc.RunDueRules(date(2024, time.March, 10))
		if len(results) != 2 {
			t.Fatalf("expected 2 results, got %d", len(results))
		}

		byRule := make(map[uint]ExecutionResult, len(results))
		for _, r := range results {
			byRule[r.RuleID] = r
		}
		if byRule[broken.ID].Error == "" {
			t.Error("expected an error recorded for the broken rule")
		}
		if byRule[healthy.ID].Error != "" {
			t.Errorf("expected healthy rule to succeed, got error %q", byRule[healthy.ID].Error)
		}
		if byRule[healthy.ID].Transaction == nil {
			t.Error("expected healthy rule to materialize a transaction")
		}
	})
}

func TestUpcomingAndOverdue(t *testing.T) {
	t.Run("upcoming_window", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewRecurringService(db, NewAccountService(db), NewNotificationService(db))
		user := testutil.CreateTestUser(t, db)
		account := testutil.CreateTestAccount(t, db, user.ID)

		soon := testutil.CreateTestRecurringRule(t, db, user.ID, account.ID, models.FrequencyMonthly, time.Now().AddDate(0, 0, 3))
		testutil.CreateTestRecurringRule(t, db, user.ID, account.ID, models.FrequencyMonthly, time.Now().AddDate(0, 0, 30))

		rules, err := svc.Upcoming(user.ID, 7)
		testutil.AssertNoError(t, err)
		if len(rules) != 1 {
			t.Fatalf("expected 1 upcoming rule, got %d", len(rules))
		}
		if rules[0].ID != soon.ID {
			t.Errorf("expected rule %d, got %d", soon.ID, rules[0].ID)
		}
	})

	t.Run("overdue", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewRecurringService(db, NewAccountService(db), NewNotificationService(db))
		user := testutil.CreateTestUser(t, db)
		account := testutil.CreateTestAccount(t, db, user.ID)

		late := testutil.CreateTestRecurringRule(t, db, user.ID, account.ID, models.FrequencyMonthly, time.Now().AddDate(0, 0, -2))
		testutil.CreateTestRecurringRule(t, db, user.ID, account.ID, models.FrequencyMonthly, time.Now().AddDate(0, 0, 5))

		rules, err := svc.Overdue(user.ID)
		testutil.AssertNoError(t, err)
		if len(rules) != 1 {
			t.Fatalf("expected 1 overdue rule, got %d", len(rules))
		}
		if rules[0].ID != late.ID {
			t.Errorf("expected rule %d, got %d", late.ID, rules[0].ID)
		}
	})
}
