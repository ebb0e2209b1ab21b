package services

import (
	"testing"

	"fintrack/internal/models"
	"fintrack/internal/testutil"
)

func TestCreateDebt(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewDebtService(db)
		user := testutil.CreateTestUser(t, db)

		debt, err := svc.CreateDebt(user.ID, "Car Loan", 500000, 6.5, 25000, models.DebtTypePersonalLoan)
		testutil.AssertNoError(t, err)

		if debt.ID == 0 {
			t.Fatal("expected non-zero debt ID")
		}
		if debt.InterestRate != 6.5 {
			t.Errorf("expected interest rate 6.5, got %f", debt.InterestRate)
		}
	})

	t.Run("negative_balance", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewDebtService(db)
		user := testutil.CreateTestUser(t, db)

		_, err := svc.CreateDebt(user.ID, "Bad", -100, 5, 1000, models.DebtTypePersonalLoan)
		testutil.AssertAppError(t, err, "INVALID_INPUT")
	})

	t.Run("negative_rate", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewDebtService(db)
		user := testutil.CreateTestUser(t, db)

		_, err := svc.CreateDebt(user.ID, "Bad", 1000, -1, 1000, models.DebtTypePersonalLoan)
		testutil.AssertAppError(t, err, "INVALID_INPUT")
	})
}

func TestUpdateDebt(t *testing.T) {
	t.Run("partial_update", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewDebtService(db)
		user := testutil.CreateTestUser(t, db)
		debt := testutil.CreateTestDebt(t, db, user.ID, 100000, 18, 5000)

		newBalance := int64(80000)
		updated, err := svc.UpdateDebt(user.ID, debt.ID, "", &newBalance, nil, nil, nil)
		testutil.AssertNoError(t, err)

		if updated.Balance != 80000 {
			t.Errorf("expected balance 80000, got %d", updated.Balance)
		}
		if updated.InterestRate != 18 {
			t.Errorf("expected interest rate untouched at 18, got %f", updated.InterestRate)
		}
	})

	t.Run("not_found", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewDebtService(db)
		user := testutil.CreateTestUser(t, db)

		_, err := svc.UpdateDebt(user.ID, 99999, "Ghost", nil, nil, nil, nil)
		testutil.AssertAppError(t, err, "DEBT_NOT_FOUND")
	})

	t.Run("wrong_user", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewDebtService(db)
		user1 := testutil.CreateTestUser(t, db)
		user2 := testutil.CreateTestUser(t, db)
		debt := testutil.CreateTestDebt(t, db, user1.ID, 100000, 18, 5000)

		_, err := svc.UpdateDebt(user2.ID, debt.ID, "Stolen", nil, nil, nil, nil)
		testutil.AssertAppError(t, err, "DEBT_NOT_FOUND")
	})
}

func TestDeleteDebt(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewDebtService(db)
		user := testutil.CreateTestUser(t, db)
		debt := testutil.CreateTestDebt(t, db, user.ID, 100000, 18, 5000)

		testutil.AssertNoError(t, svc.DeleteDebt(user.ID, debt.ID))

		debts, err := svc.GetUserDebts(user.ID)
		testutil.AssertNoError(t, err)
		if len(debts) != 0 {
			t.Errorf("expected no debts after delete, got %d", len(debts))
		}
	})

	t.Run("not_found", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewDebtService(db)
		user := testutil.CreateTestUser(t, db)

		err := svc.DeleteDebt(user.ID, 99999)
		testutil.AssertAppError(t, err, "DEBT_NOT_FOUND")
	})
}

func TestAmortize(t *testing.T) {
	t.Run("zero_balance", func(t *testing.T) {
		months, interest := amortize(0, 10, 1000)
		if months != 0 || interest != 0 {
			t.Errorf("expected (0, 0), got (%d, %d)", months, interest)
		}
	})

	t.Run("zero_rate_divides_evenly", func(t *testing.T) {
		months, interest := amortize(120000, 0, 10000)
		if months != 12 {
			t.Errorf("expected 12 months, got %d", months)
		}
		if interest != 0 {
			t.Errorf("expected no interest, got %d", interest)
		}
	})

	t.Run("payment_swallowed_by_interest", func(t *testing.T) {
		// 100000 at 24%/yr accrues 2000/month of interest; a 2000 payment
		// never touches principal.
		months, _ := amortize(100000, 24, 2000)
		if months != PayoffNeverMonths {
			t.Errorf("expected sentinel %d, got %d", PayoffNeverMonths, months)
		}
	})

	t.Run("interest_accrues", func(t *testing.T) {
		months, interest := amortize(100000, 12, 10000)
		if months < 10 || months == PayoffNeverMonths {
			t.Errorf("expected slightly more than 10 months, got %d", months)
		}
		if interest <= 0 {
			t.Errorf("expected positive total interest, got %d", interest)
		}
	})
}

func TestCalculatePayoffPlan(t *testing.T) {
	t.Run("snowball_orders_by_balance", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewDebtService(db)
		user := testutil.CreateTestUser(t, db)

		big := testutil.CreateTestDebt(t, db, user.ID, 500000, 10, 25000)
		small := testutil.CreateTestDebt(t, db, user.ID, 50000, 20, 10000)

		plan, err := svc.CalculatePayoffPlan(user.ID, StrategySnowball)
		testutil.AssertNoError(t, err)

		if len(plan.Plan) != 2 {
			t.Fatalf("expected 2 debts in plan, got %d", len(plan.Plan))
		}
		if plan.Plan[0].ID != small.ID || plan.Plan[1].ID != big.ID {
			t.Error("expected smallest balance first under snowball")
		}
	})

	t.Run("avalanche_orders_by_rate", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewDebtService(db)
		user := testutil.CreateTestUser(t, db)

		lowRate := testutil.CreateTestDebt(t, db, user.ID, 50000, 10, 10000)
		highRate := testutil.CreateTestDebt(t, db, user.ID, 500000, 20, 25000)

		plan, err := svc.CalculatePayoffPlan(user.ID, StrategyAvalanche)
		testutil.AssertNoError(t, err)

		if plan.Plan[0].ID != highRate.ID || plan.Plan[1].ID != lowRate.ID {
			t.Error("expected highest rate first under avalanche")
		}
	})

	t.Run("aggregates", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewDebtService(db)
		user := testutil.CreateTestUser(t, db)

		// Both zero-rate so the per-debt numbers are exact.
		testutil.CreateTestDebt(t, db, user.ID, 120000, 0, 10000) // 12 months
		testutil.CreateTestDebt(t, db, user.ID, 50000, 0, 10000)  // 5 months

		plan, err := svc.CalculatePayoffPlan(user.ID, StrategySnowball)
		testutil.AssertNoError(t, err)

		if plan.Months != 12 {
			t.Errorf("expected horizon of 12 months, got %d", plan.Months)
		}
		if plan.TotalInterest != 0 {
			t.Errorf("expected zero total interest, got %d", plan.TotalInterest)
		}
		if plan.TotalDebt != 170000 {
			t.Errorf("expected total debt 170000, got %d", plan.TotalDebt)
		}
	})

	t.Run("invalid_strategy", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewDebtService(db)
		user := testutil.CreateTestUser(t, db)

		_, err := svc.CalculatePayoffPlan(user.ID, PayoffStrategy("tsunami"))
		testutil.AssertAppError(t, err, "INVALID_INPUT")
	})

	t.Run("empty_plan", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewDebtService(db)
		user := testutil.CreateTestUser(t, db)

		plan, err := svc.CalculatePayoffPlan(user.ID, StrategySnowball)
		testutil.AssertNoError(t, err)
		if len(plan.Plan) != 0 || plan.TotalDebt != 0 {
			t.Error("expected an empty plan for a user with no debts")
		}
	})
}
