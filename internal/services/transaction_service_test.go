package services

import (
	"testing"
	"time"

	"fintrack/internal/models"
	"fintrack/internal/pagination"
	"fintrack/internal/testutil"
)

func TestCreateTransaction(t *testing.T) {
	t.Run("income_increases_balance", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		acctSvc := NewAccountService(db)
		txSvc := NewTransactionService(db, acctSvc, NewNotificationService(db))
		user := testutil.CreateTestUser(t, db)
		account := testutil.CreateTestAccount(t, db, user.ID)

		tx, err := txSvc.CreateTransaction(user.ID, account.ID, nil, nil, models.TransactionTypeIncome, 5000, "Salary", time.Now())
		testutil.AssertNoError(t, err)

		if tx.ID == 0 {
			t.Fatal("expected non-zero transaction ID")
		}
		if tx.Amount != 5000 {
			t.Errorf("expected amount 5000, got %d", tx.Amount)
		}

		updated, err := acctSvc.GetAccountByID(user.ID, account.ID)
		testutil.AssertNoError(t, err)
		if updated.Balance != 5000 {
			t.Errorf("expected balance 5000, got %d", updated.Balance)
		}
	})

	t.Run("expense_decreases_balance", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		acctSvc := NewAccountService(db)
		txSvc := NewTransactionService(db, acctSvc, NewNotificationService(db))
		user := testutil.CreateTestUser(t, db)
		account := testutil.CreateTestAccountWithBalance(t, db, user.ID, 10000)

		_, err := txSvc.CreateTransaction(user.ID, account.ID, nil, nil, models.TransactionTypeExpense, 3000, "Lunch", time.Now())
		testutil.AssertNoError(t, err)

		updated, err := acctSvc.GetAccountByID(user.ID, account.ID)
		testutil.AssertNoError(t, err)
		if updated.Balance != 7000 {
			t.Errorf("expected balance 7000, got %d", updated.Balance)
		}
	})

	t.Run("balance_walk", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		acctSvc := NewAccountService(db)
		txSvc := NewTransactionService(db, acctSvc, NewNotificationService(db))
		user := testutil.CreateTestUser(t, db)
		account := testutil.CreateTestAccountWithBalance(t, db, user.ID, 100000)

		first, err := txSvc.CreateTransaction(user.ID, account.ID, nil, nil, models.TransactionTypeExpense, 20000, "Rent", time.Now())
		testutil.AssertNoError(t, err)

		updated, _ := acctSvc.GetAccountByID(user.ID, account.ID)
		if updated.Balance != 80000 {
			t.Fatalf("expected balance 80000 after first expense, got %d", updated.Balance)
		}

		second, err := txSvc.CreateTransaction(user.ID, account.ID, nil, nil, models.TransactionTypeExpense, 10000, "Groceries", time.Now())
		testutil.AssertNoError(t, err)

		updated, _ = acctSvc.GetAccountByID(user.ID, account.ID)
		if updated.Balance != 70000 {
			t.Fatalf("expected balance 70000 after second expense, got %d", updated.Balance)
		}

		// Deleting both expenses must restore the opening balance exactly.
		testutil.AssertNoError(t, txSvc.DeleteTransaction(user.ID, first.ID))
		testutil.AssertNoError(t, txSvc.DeleteTransaction(user.ID, second.ID))

		updated, _ = acctSvc.GetAccountByID(user.ID, account.ID)
		if updated.Balance != 100000 {
			t.Errorf("expected balance restored to 100000, got %d", updated.Balance)
		}
	})

	t.Run("zero_amount", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		acctSvc := NewAccountService(db)
		txSvc := NewTransactionService(db, acctSvc, NewNotificationService(db))
		user := testutil.CreateTestUser(t, db)
		account := testutil.CreateTestAccount(t, db, user.ID)

		_, err := txSvc.CreateTransaction(user.ID, account.ID, nil, nil, models.TransactionTypeIncome, 0, "", time.Now())
		testutil.AssertAppError(t, err, "INVALID_INPUT")
	})

	t.Run("transfer_type_rejected", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		acctSvc := NewAccountService(db)
		txSvc := NewTransactionService(db, acctSvc, NewNotificationService(db))
		user := testutil.CreateTestUser(t, db)
		account := testutil.CreateTestAccount(t, db, user.ID)

		_, err := txSvc.CreateTransaction(user.ID, account.ID, nil, nil, models.TransactionTypeTransfer, 1000, "", time.Now())
		testutil.AssertAppError(t, err, "INVALID_TRANSACTION_TYPE")
	})

	t.Run("wrong_user_account", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		acctSvc := NewAccountService(db)
		txSvc := NewTransactionService(db, acctSvc, NewNotificationService(db))
		user1 := testutil.CreateTestUser(t, db)
		user2 := testutil.CreateTestUser(t, db)
		account := testutil.CreateTestAccount(t, db, user1.ID)

		_, err := txSvc.CreateTransaction(user2.ID, account.ID, nil, nil, models.TransactionTypeIncome, 1000, "", time.Now())
		testutil.AssertAppError(t, err, "ACCOUNT_NOT_FOUND")
	})

	t.Run("goal_contribution_advances_progress", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		acctSvc := NewAccountService(db)
		txSvc := NewTransactionService(db, acctSvc, NewNotificationService(db))
		user := testutil.CreateTestUser(t, db)
		account := testutil.CreateTestAccountWithBalance(t, db, user.ID, 50000)
		goal := testutil.CreateTestGoal(t, db, user.ID, 10000)

		_, err := txSvc.CreateTransaction(user.ID, account.ID, nil, &goal.ID, models.TransactionTypeExpense, 4000, "Vacation fund", time.Now())
		testutil.AssertNoError(t, err)

		var updated models.Goal
		testutil.AssertNoError(t, db.First(&updated, goal.ID).Error)
		if updated.CurrentAmount != 4000 {
			t.Errorf("expected goal progress 4000, got %d", updated.CurrentAmount)
		}
		if updated.IsAchieved {
			t.Error("goal should not be achieved yet")
		}

		// Second contribution crosses the target and flips achievement.
		_, err = txSvc.CreateTransaction(user.ID, account.ID, nil, &goal.ID, models.TransactionTypeExpense, 6000, "Vacation fund", time.Now())
		testutil.AssertNoError(t, err)

		testutil.AssertNoError(t, db.First(&updated, goal.ID).Error)
		if updated.CurrentAmount != 10000 {
			t.Errorf("expected goal progress 10000, got %d", updated.CurrentAmount)
		}
		if !updated.IsAchieved {
			t.Error("expected goal to be achieved")
		}

		// An achievement notification was written.
		var count int64
		db.Model(&models.Notification{}).Where("user_id = ? AND type = ?", user.ID, "goal_achieved").Count(&count)
		if count != 1 {
			t.Errorf("expected 1 goal_achieved notification, got %d", count)
		}
	})
}

func TestCreateTransfer(t *testing.T) {
	t.Run("moves_balance_between_accounts", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		acctSvc := NewAccountService(db)
		txSvc := NewTransactionService(db, acctSvc, NewNotificationService(db))
		user := testutil.CreateTestUser(t, db)
		from := testutil.CreateTestAccountWithBalance(t, db, user.ID, 10000)
		to := testutil.CreateTestAccount(t, db, user.ID)

		leg, err := txSvc.CreateTransfer(user.ID, from.ID, to.ID, 4000, "", time.Now())
		testutil.AssertNoError(t, err)

		if leg.Type != models.TransactionTypeTransfer {
			t.Errorf("expected transfer type, got %s", leg.Type)
		}
		if leg.ToAccountID == nil || *leg.ToAccountID != to.ID {
			t.Error("outgoing leg should reference the destination account")
		}

		fromUpdated, _ := acctSvc.GetAccountByID(user.ID, from.ID)
		toUpdated, _ := acctSvc.GetAccountByID(user.ID, to.ID)
		if fromUpdated.Balance != 6000 {
			t.Errorf("expected source balance 6000, got %d", fromUpdated.Balance)
		}
		if toUpdated.Balance != 4000 {
			t.Errorf("expected destination balance 4000, got %d", toUpdated.Balance)
		}

		// Two linked legs exist.
		var legs []models.Transaction
		testutil.AssertNoError(t, db.Where("user_id = ? AND type = ?", user.ID, models.TransactionTypeTransfer).Find(&legs).Error)
		if len(legs) != 2 {
			t.Fatalf("expected 2 transfer legs, got %d", len(legs))
		}
	})

	t.Run("same_account", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		acctSvc := NewAccountService(db)
		txSvc := NewTransactionService(db, acctSvc, NewNotificationService(db))
		user := testutil.CreateTestUser(t, db)
		account := testutil.CreateTestAccountWithBalance(t, db, user.ID, 10000)

		_, err := txSvc.CreateTransfer(user.ID, account.ID, account.ID, 1000, "", time.Now())
		testutil.AssertAppError(t, err, "SAME_ACCOUNT_TRANSFER")
	})

	t.Run("insufficient_balance", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		acctSvc := NewAccountService(db)
		txSvc := NewTransactionService(db, acctSvc, NewNotificationService(db))
		user := testutil.CreateTestUser(t, db)
		from := testutil.CreateTestAccountWithBalance(t, db, user.ID, 500)
		to := testutil.CreateTestAccount(t, db, user.ID)

		_, err := txSvc.CreateTransfer(user.ID, from.ID, to.ID, 1000, "", time.Now())
		testutil.AssertAppError(t, err, "INSUFFICIENT_BALANCE")

		// Nothing was written.
		fromUpdated, _ := acctSvc.GetAccountByID(user.ID, from.ID)
		if fromUpdated.Balance != 500 {
			t.Errorf("expected source balance unchanged at 500, got %d", fromUpdated.Balance)
		}
		var count int64
		db.Model(&models.Transaction{}).Where("user_id = ?", user.ID).Count(&count)
		if count != 0 {
			t.Errorf("expected no transactions, got %d", count)
		}
	})

	t.Run("legs_not_editable", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		acctSvc := NewAccountService(db)
		txSvc := NewTransactionService(db, acctSvc, NewNotificationService(db))
		user := testutil.CreateTestUser(t, db)
		from := testutil.CreateTestAccountWithBalance(t, db, user.ID, 10000)
		to := testutil.CreateTestAccount(t, db, user.ID)

		leg, err := txSvc.CreateTransfer(user.ID, from.ID, to.ID, 4000, "", time.Now())
		testutil.AssertNoError(t, err)

		newAmount := int64(5000)
		_, err = txSvc.UpdateTransaction(user.ID, leg.ID, TransactionUpdateFields{Amount: &newAmount})
		testutil.AssertAppError(t, err, "TRANSACTION_NOT_EDITABLE")

		err = txSvc.DeleteTransaction(user.ID, leg.ID)
		testutil.AssertAppError(t, err, "TRANSACTION_NOT_EDITABLE")
	})
}

func TestUpdateTransaction(t *testing.T) {
	t.Run("amount_change_adjusts_balance_by_delta", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		acctSvc := NewAccountService(db)
		txSvc := NewTransactionService(db, acctSvc, NewNotificationService(db))
		user := testutil.CreateTestUser(t, db)
		account := testutil.CreateTestAccountWithBalance(t, db, user.ID, 10000)

		tx, err := txSvc.CreateTransaction(user.ID, account.ID, nil, nil, models.TransactionTypeExpense, 3000, "Lunch", time.Now())
		testutil.AssertNoError(t, err)

		newAmount := int64(5000)
		_, err = txSvc.UpdateTransaction(user.ID, tx.ID, TransactionUpdateFields{Amount: &newAmount})
		testutil.AssertNoError(t, err)

		updated, _ := acctSvc.GetAccountByID(user.ID, account.ID)
		if updated.Balance != 5000 {
			t.Errorf("expected balance 5000 after amount change, got %d", updated.Balance)
		}
	})

	t.Run("type_flip_adjusts_balance", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		acctSvc := NewAccountService(db)
		txSvc := NewTransactionService(db, acctSvc, NewNotificationService(db))
		user := testutil.CreateTestUser(t, db)
		account := testutil.CreateTestAccountWithBalance(t, db, user.ID, 10000)

		tx, err := txSvc.CreateTransaction(user.ID, account.ID, nil, nil, models.TransactionTypeExpense, 2000, "Refunded", time.Now())
		testutil.AssertNoError(t, err)

		income := models.TransactionTypeIncome
		_, err = txSvc.UpdateTransaction(user.ID, tx.ID, TransactionUpdateFields{Type: &income})
		testutil.AssertNoError(t, err)

		// -2000 reversed and +2000 applied: 8000 + 4000.
		updated, _ := acctSvc.GetAccountByID(user.ID, account.ID)
		if updated.Balance != 12000 {
			t.Errorf("expected balance 12000 after type flip, got %d", updated.Balance)
		}
	})

	t.Run("account_move_compensates_both_accounts", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		acctSvc := NewAccountService(db)
		txSvc := NewTransactionService(db, acctSvc, NewNotificationService(db))
		user := testutil.CreateTestUser(t, db)
		first := testutil.CreateTestAccountWithBalance(t, db, user.ID, 10000)
		second := testutil.CreateTestAccountWithBalance(t, db, user.ID, 10000)

		tx, err := txSvc.CreateTransaction(user.ID, first.ID, nil, nil, models.TransactionTypeExpense, 3000, "Dinner", time.Now())
		testutil.AssertNoError(t, err)

		_, err = txSvc.UpdateTransaction(user.ID, tx.ID, TransactionUpdateFields{AccountID: &second.ID})
		testutil.AssertNoError(t, err)

		firstUpdated, _ := acctSvc.GetAccountByID(user.ID, first.ID)
		secondUpdated, _ := acctSvc.GetAccountByID(user.ID, second.ID)
		if firstUpdated.Balance != 10000 {
			t.Errorf("expected old account restored to 10000, got %d", firstUpdated.Balance)
		}
		if secondUpdated.Balance != 7000 {
			t.Errorf("expected new account at 7000, got %d", secondUpdated.Balance)
		}
	})

	t.Run("not_found", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		acctSvc := NewAccountService(db)
		txSvc := NewTransactionService(db, acctSvc, NewNotificationService(db))
		user := testutil.CreateTestUser(t, db)

		amount := int64(100)
		_, err := txSvc.UpdateTransaction(user.ID, 99999, TransactionUpdateFields{Amount: &amount})
		testutil.AssertAppError(t, err, "TRANSACTION_NOT_FOUND")
	})
}

func TestGetUserTransactions(t *testing.T) {
	t.Run("filters_by_type_and_account", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		txSvc := NewTransactionService(db, NewAccountService(db), NewNotificationService(db))
		user := testutil.CreateTestUser(t, db)
		a := testutil.CreateTestAccount(t, db, user.ID)
		b := testutil.CreateTestAccount(t, db, user.ID)

		testutil.CreateTestTransaction(t, db, user.ID, a.ID, models.TransactionTypeIncome, 1000)
		testutil.CreateTestTransaction(t, db, user.ID, a.ID, models.TransactionTypeExpense, 500)
		testutil.CreateTestTransaction(t, db, user.ID, b.ID, models.TransactionTypeExpense, 700)

		expense := models.TransactionTypeExpense
		result, err := txSvc.GetUserTransactions(user.ID, pagination.PageRequest{}, TransactionFilter{Type: &expense, AccountID: &a.ID})
		testutil.AssertNoError(t, err)

		if result.TotalItems != 1 {
			t.Fatalf("expected 1 transaction, got %d", result.TotalItems)
		}
		if result.Data[0].Amount != 500 {
			t.Errorf("expected amount 500, got %d", result.Data[0].Amount)
		}
	})

	t.Run("date_window", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		txSvc := NewTransactionService(db, NewAccountService(db), NewNotificationService(db))
		user := testutil.CreateTestUser(t, db)
		account := testutil.CreateTestAccount(t, db, user.ID)

		now := time.Now()
		testutil.CreateTestTransactionOnDate(t, db, user.ID, account.ID, models.TransactionTypeExpense, 100, now.AddDate(0, 0, -10))
		testutil.CreateTestTransactionOnDate(t, db, user.ID, account.ID, models.TransactionTypeExpense, 200, now.AddDate(0, 0, -1))

		from := now.AddDate(0, 0, -5)
		result, err := txSvc.GetUserTransactions(user.ID, pagination.PageRequest{}, TransactionFilter{FromDate: &from})
		testutil.AssertNoError(t, err)

		if result.TotalItems != 1 {
			t.Fatalf("expected 1 transaction in window, got %d", result.TotalItems)
		}
		if result.Data[0].Amount != 200 {
			t.Errorf("expected the recent transaction, got amount %d", result.Data[0].Amount)
		}
	})
}

func TestDeleteTransaction(t *testing.T) {
	t.Run("reverses_balance", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		acctSvc := NewAccountService(db)
		txSvc := NewTransactionService(db, acctSvc, NewNotificationService(db))
		user := testutil.CreateTestUser(t, db)
		account := testutil.CreateTestAccount(t, db, user.ID)

		tx, err := txSvc.CreateTransaction(user.ID, account.ID, nil, nil, models.TransactionTypeIncome, 5000, "Salary", time.Now())
		testutil.AssertNoError(t, err)

		testutil.AssertNoError(t, txSvc.DeleteTransaction(user.ID, tx.ID))

		updated, _ := acctSvc.GetAccountByID(user.ID, account.ID)
		if updated.Balance != 0 {
			t.Errorf("expected balance restored to 0, got %d", updated.Balance)
		}
	})

	t.Run("not_found", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		txSvc := NewTransactionService(db, NewAccountService(db), NewNotificationService(db))
		user := testutil.CreateTestUser(t, db)

		err := txSvc.DeleteTransaction(user.ID, 99999)
		testutil.AssertAppError(t, err, "TRANSACTION_NOT_FOUND")
	})
}
