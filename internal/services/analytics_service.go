package services

import (
	"math"
	"sort"
	"time"

	"gorm.io/gorm"

	apperrors "fintrack/internal/errors"
	"fintrack/internal/models"
)

// analyticsService answers read-only aggregate queries. Statistics are
// computed in Go rather than in SQL so the queries stay portable across the
// production and test database drivers.
type analyticsService struct {
	db             *gorm.DB
	accountService AccountServicer
}

// NewAnalyticsService creates a new AnalyticsServicer.
func NewAnalyticsService(db *gorm.DB, accountService AccountServicer) AnalyticsServicer {
	return &analyticsService{db: db, accountService: accountService}
}

const dayFormat = "2006-01-02"

// GetDashboard builds the aggregate dashboard for a lookback window.
func (s *analyticsService) GetDashboard(userID uint, period Period) (*Dashboard, error) {
	now := time.Now()
	cutoff := now.AddDate(0, 0, -period.Days())

	dashboard := &Dashboard{Period: period}

	var accounts []models.Account
	if err := s.db.Where("user_id = ? AND is_active = ?", userID, true).Find(&accounts).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	byType := make(map[models.AccountType]*NetWorthSlice)
	for _, account := range accounts {
		dashboard.NetWorth += account.Balance
		slice, ok := byType[account.Type]
		if !ok {
			slice = &NetWorthSlice{AccountType: account.Type}
			byType[account.Type] = slice
		}
		slice.Balance += account.Balance
		slice.Count++
	}
	dashboard.ByAccountType = make([]NetWorthSlice, 0, len(byType))
	for _, slice := range byType {
		dashboard.ByAccountType = append(dashboard.ByAccountType, *slice)
	}
	sort.Slice(dashboard.ByAccountType, func(i, j int) bool {
		return dashboard.ByAccountType[i].AccountType < dashboard.ByAccountType[j].AccountType
	})

	var transactions []models.Transaction
	if err := s.db.Where("user_id = ? AND date >= ? AND type IN ?",
		userID, cutoff, []models.TransactionType{models.TransactionTypeIncome, models.TransactionTypeExpense}).
		Order("date ASC").
		Find(&transactions).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	trendByDay := make(map[string]*TrendPoint)
	spendByCategory := make(map[uint]*CategoryBreakdown)
	for i := range transactions {
		t := &transactions[i]
		day := t.Date.Format(dayFormat)
		point, ok := trendByDay[day]
		if !ok {
			point = &TrendPoint{Date: day}
			trendByDay[day] = point
		}

		switch t.Type {
		case models.TransactionTypeIncome:
			dashboard.TotalIncome += t.Amount
			dashboard.IncomeCount++
			point.Income += t.Amount
		case models.TransactionTypeExpense:
			dashboard.TotalExpenses += t.Amount
			dashboard.ExpenseCount++
			point.Expense += t.Amount
			if t.CategoryID != nil {
				breakdown, ok := spendByCategory[*t.CategoryID]
				if !ok {
					breakdown = &CategoryBreakdown{CategoryID: *t.CategoryID}
					spendByCategory[*t.CategoryID] = breakdown
				}
				breakdown.Total += t.Amount
				breakdown.Count++
			}
		}
	}

	// Zero-fill the trend so every day in the window is present.
	dashboard.Trend = make([]TrendPoint, 0, period.Days()+1)
	for day := cutoff; !day.After(now); day = day.AddDate(0, 0, 1) {
		key := day.Format(dayFormat)
		if point, ok := trendByDay[key]; ok {
			point.Net = point.Income - point.Expense
			dashboard.Trend = append(dashboard.Trend, *point)
		} else {
			dashboard.Trend = append(dashboard.Trend, TrendPoint{Date: key})
		}
	}

	if len(spendByCategory) > 0 {
		categoryIDs := make([]uint, 0, len(spendByCategory))
		for id := range spendByCategory {
			categoryIDs = append(categoryIDs, id)
		}
		var categories []models.BudgetCategory
		if err := s.db.Where("id IN ?", categoryIDs).Find(&categories).Error; err != nil {
			return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		for _, category := range categories {
			breakdown := spendByCategory[category.ID]
			breakdown.Name = category.Name
			breakdown.Icon = category.Icon
			breakdown.Color = category.Color
			if category.MonthlyLimit != nil && *category.MonthlyLimit > 0 {
				breakdown.PercentOfLimit = float64(breakdown.Total) / float64(*category.MonthlyLimit) * 100
			}
		}

		dashboard.TopCategories = make([]CategoryBreakdown, 0, len(spendByCategory))
		for _, breakdown := range spendByCategory {
			dashboard.TopCategories = append(dashboard.TopCategories, *breakdown)
		}
		sort.Slice(dashboard.TopCategories, func(i, j int) bool {
			return dashboard.TopCategories[i].Total > dashboard.TopCategories[j].Total
		})
		if len(dashboard.TopCategories) > 10 {
			dashboard.TopCategories = dashboard.TopCategories[:10]
		}
	}

	if dashboard.TotalIncome > 0 {
		net := dashboard.TotalIncome - dashboard.TotalExpenses
		dashboard.SavingsRate = float64(net) / float64(dashboard.TotalIncome) * 100
	}

	return dashboard, nil
}

// GetInsights flags unusual spending: expenses in the last 30 days whose
// amount exceeds the mean plus two standard deviations of the 90-day expense
// baseline.
func (s *analyticsService) GetInsights(userID uint) (*Insights, error) {
	now := time.Now()
	baselineCutoff := now.AddDate(0, 0, -90)
	recentCutoff := now.AddDate(0, 0, -30)

	var expenses []models.Transaction
	if err := s.db.Where("user_id = ? AND type = ? AND date >= ?",
		userID, models.TransactionTypeExpense, baselineCutoff).
		Order("date DESC").
		Find(&expenses).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	insights := &Insights{UnusualSpending: []UnusualTransaction{}}
	if len(expenses) < 2 {
		return insights, nil
	}

	var sum float64
	for i := range expenses {
		sum += float64(expenses[i].Amount)
	}
	mean := sum / float64(len(expenses))

	var variance float64
	for i := range expenses {
		d := float64(expenses[i].Amount) - mean
		variance += d * d
	}
	variance /= float64(len(expenses))
	threshold := mean + 2*math.Sqrt(variance)

	for i := range expenses {
		t := expenses[i]
		if t.Date.Before(recentCutoff) {
			continue
		}
		if float64(t.Amount) > threshold {
			insights.UnusualSpending = append(insights.UnusualSpending, UnusualTransaction{
				Transaction: t,
				Mean:        mean,
				Threshold:   threshold,
			})
		}
	}

	return insights, nil
}

// GetBalanceHistory reconstructs an account's end-of-day balances over the
// window by walking backward from the current balance through each day's net
// change. Days without activity carry the previous balance.
func (s *analyticsService) GetBalanceHistory(userID, accountID uint, period Period) ([]BalancePoint, error) {
	account, err := s.accountService.GetAccountByID(userID, accountID)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	days := period.Days()
	cutoff := now.AddDate(0, 0, -days)

	var transactions []models.Transaction
	if err := s.db.Where("account_id = ? AND user_id = ? AND date >= ?", accountID, userID, cutoff).
		Find(&transactions).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	netByDay := make(map[string]int64)
	for i := range transactions {
		t := &transactions[i]
		netByDay[t.Date.Format(dayFormat)] += t.SignedAmount()
	}

	points := make([]BalancePoint, days+1)
	running := account.Balance
	for i := days; i >= 0; i-- {
		day := cutoff.AddDate(0, 0, i)
		key := day.Format(dayFormat)
		points[i] = BalancePoint{Date: key, Balance: running}
		running -= netByDay[key]
	}

	return points, nil
}
