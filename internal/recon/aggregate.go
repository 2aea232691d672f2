package recon

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/linemk/treasury-admin/internal/domain/models"
	"github.com/linemk/treasury-admin/internal/lib/money"
)

// DefaultTopN — размер таблицы получателей, если вызывающий не задал свой.
const DefaultTopN = 10

// Params — параметры агрегации, передаются вызывающим явно вместо какого-либо
// разделяемого состояния фильтров.
type Params struct {
	From     *time.Time      // нижняя граница окна, nil — без ограничения
	To       *time.Time      // верхняя граница окна, nil — без ограничения
	Category models.Category // пустая — все категории
	TopN     int             // размер таблицы получателей, <=0 — DefaultTopN
}

// Totals — промежуточные итоги агрегации в точных десятичных значениях,
// до слияния с внешними отчетными цифрами.
type Totals struct {
	ByCategory       map[models.Category]decimal.Decimal
	CountByCategory  map[models.Category]int
	SurplusTotal     decimal.Decimal
	UserGainsTotal   decimal.Decimal
	TopBeneficiaries []BeneficiaryTotal
	TransactionCount int
}

// BeneficiaryTotal — суммарные выводы одного получателя.
type BeneficiaryTotal struct {
	UserID int64
	Total  decimal.Decimal
}

// Aggregate сворачивает категоризованный набор транзакций и связи атрибуции
// в итоги. Все суммирование — коммутативное десятичное сложение, поэтому
// перестановка входного списка не меняет ни один итог.
func Aggregate(txs []models.Transaction, links []models.AttributionLink, p Params) Totals {
	totals := Totals{
		ByCategory:      make(map[models.Category]decimal.Decimal, len(models.Categories)),
		CountByCategory: make(map[models.Category]int, len(models.Categories)),
		SurplusTotal:    decimal.Zero,
		UserGainsTotal:  decimal.Zero,
	}
	for _, c := range models.Categories {
		totals.ByCategory[c] = decimal.Zero
	}

	byUser := make(map[int64]decimal.Decimal)

	for _, tx := range txs {
		if !inWindow(tx, p) {
			continue
		}
		cat := Categorize(tx)
		if p.Category != "" && cat != p.Category {
			continue
		}
		totals.TransactionCount++
		totals.CountByCategory[cat]++
		totals.ByCategory[cat] = totals.ByCategory[cat].Add(tx.Amount.Abs())

		// комиссия, встроенная в описание не-комиссионной строки: без этой
		// добавки итог по комиссиям занижается там, где отдельной строки нет.
		// При фильтре по категории добавка не делается: отфильтрованный срез
		// показывает только запрошенную категорию
		if p.Category == "" && cat != models.CategoryFee {
			if fee, ok := ExtractFee(tx.Description); ok {
				totals.ByCategory[models.CategoryFee] = totals.ByCategory[models.CategoryFee].Add(fee.Abs())
			}
		}

		// отрицательный "Gain" в описании выкупа — профицит платформы
		if cat == models.CategoryDisposalSurplus {
			if gain, ok := ExtractGain(tx.Description); ok && gain.IsNegative() {
				totals.SurplusTotal = totals.SurplusTotal.Add(gain.Abs())
			}
		}

		if cat == models.CategoryWithdrawal && tx.UserID != nil {
			byUser[*tx.UserID] = money.Sum(byUser[*tx.UserID], tx.Amount.Abs())
		}
	}

	for _, link := range links {
		if link.RealizedGain != nil && link.RealizedGain.IsPositive() {
			totals.UserGainsTotal = totals.UserGainsTotal.Add(*link.RealizedGain)
		}
	}

	totals.TopBeneficiaries = topBeneficiaries(byUser, p.TopN)
	return totals
}

func inWindow(tx models.Transaction, p Params) bool {
	if p.From != nil && tx.CreatedAt.Before(*p.From) {
		return false
	}
	if p.To != nil && tx.CreatedAt.After(*p.To) {
		return false
	}
	return true
}

// topBeneficiaries сортирует получателей по убыванию суммы, при равенстве —
// по возрастанию id, и обрезает до n строк.
func topBeneficiaries(byUser map[int64]decimal.Decimal, n int) []BeneficiaryTotal {
	if n <= 0 {
		n = DefaultTopN
	}
	rows := make([]BeneficiaryTotal, 0, len(byUser))
	for id, total := range byUser {
		rows = append(rows, BeneficiaryTotal{UserID: id, Total: total})
	}
	sort.Slice(rows, func(i, j int) bool {
		if !rows[i].Total.Equal(rows[j].Total) {
			return rows[i].Total.GreaterThan(rows[j].Total)
		}
		return rows[i].UserID < rows[j].UserID
	})
	if len(rows) > n {
		rows = rows[:n]
	}
	return rows
}
