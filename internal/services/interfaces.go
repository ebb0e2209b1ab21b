package services

import (
	"time"

	"gorm.io/gorm"

	"fintrack/internal/models"
	"fintrack/internal/pagination"
)

// UserServicer defines the contract for user-related business logic.
type UserServicer interface {
	Register(email, password, firstName, lastName string) (*models.User, error)
	GetUserByEmail(email string) (*models.User, error)
	GetUserByID(id uint) (*models.User, error)
	VerifyPassword(user *models.User, password string) bool
}

// AccountUpdateFields holds optional account fields for partial updates.
type AccountUpdateFields struct {
	Name     *string
	BankName *string
	Type     *models.AccountType
}

// AccountServicer defines the contract for account-related business logic.
type AccountServicer interface {
	CreateAccount(userID uint, name, bankName string, accountType models.AccountType, initialBalance int64) (*models.Account, error)
	GetUserAccounts(userID uint, page pagination.PageRequest) (*pagination.PageResponse[models.Account], error)
	GetAccountByID(userID, accountID uint) (*models.Account, error)
	UpdateAccount(userID, accountID uint, fields AccountUpdateFields) (*models.Account, error)
	DeleteAccount(userID, accountID uint) error
	ApplyBalanceDelta(tx *gorm.DB, accountID uint, delta int64) error
}

// TransactionFilter holds optional filter parameters for listing transactions.
type TransactionFilter struct {
	FromDate   *time.Time
	ToDate     *time.Time
	Type       *models.TransactionType
	CategoryID *uint
	AccountID  *uint
}

// TransactionUpdateFields holds optional transaction fields for partial updates.
type TransactionUpdateFields struct {
	AccountID   *uint
	CategoryID  *uint
	Type        *models.TransactionType
	Amount      *int64
	Description *string
	Date        *time.Time
}

// TransactionServicer defines the contract for transaction-related business
// logic, including keeping account balances consistent with the ledger.
type TransactionServicer interface {
	CreateTransaction(userID, accountID uint, categoryID, goalID *uint, transactionType models.TransactionType, amount int64, description string, date time.Time) (*models.Transaction, error)
	CreateTransfer(userID, fromAccountID, toAccountID uint, amount int64, description string, date time.Time) (*models.Transaction, error)
	GetUserTransactions(userID uint, page pagination.PageRequest, filter TransactionFilter) (*pagination.PageResponse[models.Transaction], error)
	GetTransactionByID(userID, transactionID uint) (*models.Transaction, error)
	UpdateTransaction(userID, transactionID uint, fields TransactionUpdateFields) (*models.Transaction, error)
	DeleteTransaction(userID, transactionID uint) error
}

// CategorySpending pairs a category with its spend for the current month.
type CategorySpending struct {
	models.BudgetCategory
	CurrentMonthSpent int64   `json:"current_month_spent"`
	PercentageUsed    float64 `json:"percentage_used"`
}

// CategoryServicer defines the contract for budget-category business logic.
type CategoryServicer interface {
	CreateCategory(userID uint, name, icon, color string, monthlyLimit *int64) (*models.BudgetCategory, error)
	GetUserCategories(userID uint) ([]CategorySpending, error)
	GetCategoryByID(userID, categoryID uint) (*models.BudgetCategory, error)
	UpdateCategory(userID, categoryID uint, name, icon, color string, monthlyLimit *int64) (*models.BudgetCategory, error)
	DeleteCategory(userID, categoryID uint) error
}

// GoalMonthlyProgress is one calendar month's contribution total.
type GoalMonthlyProgress struct {
	Month string `json:"month"`
	Total int64  `json:"total"`
}

// GoalAnalytics bundles a goal's contribution history with derived progress
// figures. ProjectedCompletion is nil when there is no contribution pace to
// extrapolate from.
type GoalAnalytics struct {
	Goal                *models.Goal          `json:"goal"`
	Contributions       []models.Transaction  `json:"contributions"`
	MonthlyProgress     []GoalMonthlyProgress `json:"monthly_progress"`
	ProjectedCompletion *time.Time            `json:"projected_completion,omitempty"`
	TotalContributed    int64                 `json:"total_contributed"`
	Remaining           int64                 `json:"remaining"`
	ProgressPercentage  float64               `json:"progress_percentage"`
	AverageMonthly      int64                 `json:"average_monthly"`
}

// GoalServicer defines the contract for goal-related business logic.
type GoalServicer interface {
	CreateGoal(userID uint, name, description string, targetAmount int64, targetDate *time.Time, priority int) (*models.Goal, error)
	GetUserGoals(userID uint) ([]models.Goal, error)
	GetGoalByID(userID, goalID uint) (*models.Goal, error)
	UpdateGoal(userID, goalID uint, name, description string, targetAmount *int64, targetDate *time.Time, priority *int) (*models.Goal, error)
	DeleteGoal(userID, goalID uint) error
	Contribute(userID, goalID, accountID uint, amount int64, description string) (*models.Goal, error)
	GetGoalAnalytics(userID, goalID uint) (*GoalAnalytics, error)
}

// PayoffStrategy selects the ordering of debts in a payoff plan.
type PayoffStrategy string

const (
	StrategySnowball  PayoffStrategy = "snowball"
	StrategyAvalanche PayoffStrategy = "avalanche"
)

// PayoffNeverMonths is the sentinel month count meaning the fixed payment
// never exceeds accruing interest, so the debt is effectively never repaid.
const PayoffNeverMonths = 999

// DebtPayoffResult is the simulated amortization outcome for a single debt.
type DebtPayoffResult struct {
	models.Debt
	PayoffMonths  int   `json:"payoff_months"`
	TotalInterest int64 `json:"total_interest"`
}

// PayoffPlan aggregates per-debt simulations under one strategy.
type PayoffPlan struct {
	Strategy      PayoffStrategy     `json:"strategy"`
	Plan          []DebtPayoffResult `json:"plan"`
	Months        int                `json:"months"`
	TotalInterest int64              `json:"total_interest"`
	TotalDebt     int64              `json:"total_debt"`
}

// DebtServicer defines the contract for debt-related business logic.
type DebtServicer interface {
	CreateDebt(userID uint, name string, balance int64, interestRate float64, monthlyPayment int64, debtType models.DebtType) (*models.Debt, error)
	GetUserDebts(userID uint) ([]models.Debt, error)
	UpdateDebt(userID, debtID uint, name string, balance *int64, interestRate *float64, monthlyPayment *int64, debtType *models.DebtType) (*models.Debt, error)
	DeleteDebt(userID, debtID uint) error
	CalculatePayoffPlan(userID uint, strategy PayoffStrategy) (*PayoffPlan, error)
}

// SavingsServicer defines the contract for savings-pot business logic.
type SavingsServicer interface {
	CreatePot(userID uint, name string, balance int64, targetAmount *int64, interestRate float64, color, icon string) (*models.SavingsPot, error)
	GetUserPots(userID uint) ([]models.SavingsPot, error)
	GetPotByID(userID, potID uint) (*models.SavingsPot, error)
	UpdatePot(userID, potID uint, name string, balance, targetAmount *int64, interestRate *float64, color, icon string) (*models.SavingsPot, error)
	DeletePot(userID, potID uint) error
}

// RecurringRuleFields holds the writable fields of a recurring rule.
type RecurringRuleFields struct {
	AccountID   uint
	CategoryID  *uint
	Type        models.TransactionType
	Amount      int64
	Description string
	Frequency   models.Frequency
	StartDate   time.Time
	EndDate     *time.Time
	AutoCreate  bool
}

// ExecutionResult reports the outcome of materializing one recurring rule.
type ExecutionResult struct {
	RuleID      uint                `json:"rule_id"`
	Transaction *models.Transaction `json:"transaction,omitempty"`
	NextDueDate time.Time           `json:"next_due_date"`
	Deactivated bool                `json:"deactivated"`
	Error       string              `json:"error,omitempty"`
}

// RecurringServicer defines the contract for recurring-transaction business logic.
type RecurringServicer interface {
	CreateRule(userID uint, fields RecurringRuleFields) (*models.RecurringRule, error)
	GetUserRules(userID uint) ([]models.RecurringRule, error)
	GetRuleByID(userID, ruleID uint) (*models.RecurringRule, error)
	UpdateRule(userID, ruleID uint, fields RecurringRuleFields) (*models.RecurringRule, error)
	DeleteRule(userID, ruleID uint) error
	ExecuteRule(userID, ruleID uint) (*ExecutionResult, error)
	RunDueRules(now time.Time) []ExecutionResult
	Upcoming(userID uint, days int) ([]models.RecurringRule, error)
	Overdue(userID uint) ([]models.RecurringRule, error)
}

// DeductionSummary groups a year's deductions by category.
type DeductionSummary struct {
	Year            int                             `json:"year"`
	Deductions      []models.TaxDeduction           `json:"deductions"`
	ByCategory      map[string][]models.TaxDeduction `json:"by_category"`
	TotalDeductions int64                           `json:"total_deductions"`
}

// TaxServicer defines the contract for tax-deduction business logic.
type TaxServicer interface {
	CreateDeduction(userID uint, description string, amount int64, category string, date time.Time, receipt string) (*models.TaxDeduction, error)
	GetYearDeductions(userID uint, year int) (*DeductionSummary, error)
	UpdateDeduction(userID, deductionID uint, description string, amount int64, category string, date time.Time, receipt string) (*models.TaxDeduction, error)
	DeleteDeduction(userID, deductionID uint) error
}

// Period is a lookback window for analytics queries.
type Period string

const (
	PeriodWeek    Period = "7d"
	PeriodMonth   Period = "30d"
	PeriodQuarter Period = "90d"
	PeriodYear    Period = "1y"
)

// Days returns the window length in days, defaulting to 30 for anything
// unrecognized.
func (p Period) Days() int {
	switch p {
	case PeriodWeek:
		return 7
	case PeriodMonth:
		return 30
	case PeriodQuarter:
		return 90
	case PeriodYear:
		return 365
	}
	return 30
}

// NetWorthSlice is the aggregate balance of one account type.
type NetWorthSlice struct {
	AccountType models.AccountType `json:"account_type"`
	Balance     int64              `json:"balance"`
	Count       int                `json:"count"`
}

// CategoryBreakdown is one category's share of spending in the window.
type CategoryBreakdown struct {
	CategoryID     uint    `json:"category_id"`
	Name           string  `json:"name"`
	Icon           string  `json:"icon,omitempty"`
	Color          string  `json:"color,omitempty"`
	Total          int64   `json:"total"`
	Count          int     `json:"count"`
	PercentOfLimit float64 `json:"percent_of_limit"`
}

// TrendPoint is one day in the income/expense trend. Days with no activity
// are present with zeros.
type TrendPoint struct {
	Date    string `json:"date"`
	Income  int64  `json:"income"`
	Expense int64  `json:"expense"`
	Net     int64  `json:"net"`
}

// Dashboard is the aggregate view for a lookback window.
type Dashboard struct {
	Period        Period              `json:"period"`
	NetWorth      int64               `json:"net_worth"`
	ByAccountType []NetWorthSlice     `json:"by_account_type"`
	TotalIncome   int64               `json:"total_income"`
	IncomeCount   int                 `json:"income_count"`
	TotalExpenses int64               `json:"total_expenses"`
	ExpenseCount  int                 `json:"expense_count"`
	TopCategories []CategoryBreakdown `json:"top_categories"`
	Trend         []TrendPoint        `json:"trend"`
	SavingsRate   float64             `json:"savings_rate"`
}

// UnusualTransaction flags an expense far above the user's recent baseline.
type UnusualTransaction struct {
	models.Transaction
	Mean      float64 `json:"mean"`
	Threshold float64 `json:"threshold"`
}

// Insights carries derived observations about spending behaviour.
type Insights struct {
	UnusualSpending []UnusualTransaction `json:"unusual_spending"`
}

// BalancePoint is an account's end-of-day balance.
type BalancePoint struct {
	Date    string `json:"date"`
	Balance int64  `json:"balance"`
}

// AnalyticsServicer defines the contract for read-only aggregate queries.
type AnalyticsServicer interface {
	GetDashboard(userID uint, period Period) (*Dashboard, error)
	GetInsights(userID uint) (*Insights, error)
	GetBalanceHistory(userID, accountID uint, period Period) ([]BalancePoint, error)
}

// Notifier delivers best-effort user notifications. Implementations must
// never fail the caller: delivery errors are logged and swallowed.
type Notifier interface {
	Notify(userID uint, title, message, notificationType string)
}

// NotificationServicer defines the contract for reading notifications.
type NotificationServicer interface {
	Notifier
	GetUserNotifications(userID uint, page pagination.PageRequest) (*pagination.PageResponse[models.Notification], error)
	MarkRead(userID, notificationID uint) error
}
