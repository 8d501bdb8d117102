package aguinaldo

import (
	"sort"

	"github.com/shopspring/decimal"
)

var twelve = decimal.NewFromInt(12)

// Entry is one salary payment considered for the bonus.
type Entry struct {
	Year     int
	Month    int
	Currency string
	Amount   decimal.Decimal
}

// CurrencySummary holds the accrual for one currency. The aguinaldo equals
// one twelfth of the earnings in the window, split into two installments.
type CurrencySummary struct {
	Currency          string          `json:"currency"`
	Earned            decimal.Decimal `json:"earned"`
	Accrued           decimal.Decimal `json:"accrued"`
	FirstInstallment  decimal.Decimal `json:"first_installment"`
	SecondInstallment decimal.Decimal `json:"second_installment"`
}

// Summary is the bonus accrued for one aguinaldo year.
type Summary struct {
	Year       int               `json:"year"`
	Payments   int               `json:"payments"`
	Currencies []CurrencySummary `json:"currencies"`
}

// Summarize totals entries that fall inside w, per currency. Entries outside
// the window are ignored.
func Summarize(w Window, entries []Entry) Summary {
	type halves struct{ first, second decimal.Decimal }
	byCurrency := make(map[string]*halves)
	payments := 0

	for _, e := range entries {
		inst := w.Installment(e.Year, e.Month)
		if inst == 0 {
			continue
		}
		payments++
		h, ok := byCurrency[e.Currency]
		if !ok {
			h = &halves{first: decimal.Zero, second: decimal.Zero}
			byCurrency[e.Currency] = h
		}
		if inst == 1 {
			h.first = h.first.Add(e.Amount)
		} else {
			h.second = h.second.Add(e.Amount)
		}
	}

	summary := Summary{Year: w.Year, Payments: payments, Currencies: []CurrencySummary{}}
	for currency, h := range byCurrency {
		earned := h.first.Add(h.second)
		summary.Currencies = append(summary.Currencies, CurrencySummary{
			Currency:          currency,
			Earned:            earned,
			Accrued:           earned.Div(twelve).Round(2),
			FirstInstallment:  h.first.Div(twelve).Round(2),
			SecondInstallment: h.second.Div(twelve).Round(2),
		})
	}
	sort.Slice(summary.Currencies, func(i, j int) bool {
		return summary.Currencies[i].Currency < summary.Currencies[j].Currency
	})
	return summary
}
