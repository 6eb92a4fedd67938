package forecast

import (
	"time"

	"github.com/Dan9191/cashflow-service/internal/models"
	"github.com/shopspring/decimal"
)

// Calendar lists payments due over the next days calendar days, starting
// today. Credit cards are due on their DueDay; expenses on their anchor
// day. Expense frequency, start/end and specific dates are not consulted,
// so a calendar entry is a payment-day reminder rather than a forecast.
// Days without payments are left out.
func Calendar(accounts []models.Account, expenses []models.RecurrenceRule, today time.Time, days int) []models.CalendarDay {
	start := Day(today)
	var calendar []models.CalendarDay

	for n := 0; n < days; n++ {
		date := start.AddDate(0, 0, n)
		dom := date.Day()

		var payments []models.ScheduledPayment
		for _, a := range accounts {
			if !a.IsDebt() || a.DueDay == nil || *a.DueDay != dom {
				continue
			}
			if minimum := a.Minimum(); minimum.IsPositive() {
				payments = append(payments, models.ScheduledPayment{
					Kind:     models.PaymentKindMinimum,
					SourceID: a.ID,
					Name:     a.Name,
					Amount:   minimum,
				})
			}
		}
		for _, e := range expenses {
			if !e.IsActive || e.AnchorDay == nil || *e.AnchorDay != dom {
				continue
			}
			payments = append(payments, models.ScheduledPayment{
				Kind:     models.PaymentKindExpense,
				SourceID: e.ID,
				Name:     e.Description,
				Amount:   e.Amount,
				Category: e.Category,
			})
		}
		if len(payments) == 0 {
			continue
		}

		total := decimal.Zero
		for _, p := range payments {
			total = total.Add(p.Amount)
		}
		calendar = append(calendar, models.CalendarDay{
			Date:        date,
			Payments:    payments,
			TotalAmount: total,
		})
	}
	return calendar
}
