package recon

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/linemk/treasury-admin/internal/domain/models"
	"github.com/linemk/treasury-admin/internal/lib/money"
)

// Reported — авторитетные цифры внешней системы учета. Локальный леджер может
// быть неполным (постраничная выгрузка), поэтому баланс, суммы пополнений и
// выводов берутся из отчета источника, а не пересчитываются по леджеру.
// Нулевое значение трактуется как "источник цифру не отдал": вместо нее
// подставляется локально вычисленная, снапшот строится всегда.
type Reported struct {
	Balance   decimal.Decimal
	Currency  string
	Deposited decimal.Decimal
	Withdrawn decimal.Decimal
	Surplus   decimal.Decimal
	UserGains decimal.Decimal
}

// Result — итог одного прогона движка: снапшот для потребителей и связи
// атрибуции для аудита.
type Result struct {
	Snapshot models.Snapshot
	Links    []models.AttributionLink
}

// BuildSnapshot — единственная точка входа движка сверки: чистая пакетная
// функция от неизменяемого списка транзакций и отчетных цифр источника.
// Конвейер: категоризация -> атрибуция выплат -> агрегация -> слияние с
// отчетными цифрами. Никакого разделяемого состояния между прогонами нет,
// параллельные пересчеты безопасны.
func BuildSnapshot(txs []models.Transaction, reported Reported, p Params) Result {
	links := AttributeAll(txs)
	totals := Aggregate(txs, links, p)

	breakdown := make([]models.CategoryTotal, 0, len(models.Categories))
	for _, c := range models.Categories {
		breakdown = append(breakdown, models.CategoryTotal{
			Category: c,
			Total:    money.Format(totals.ByCategory[c]),
			Count:    totals.CountByCategory[c],
		})
	}

	top := make([]models.Beneficiary, 0, len(totals.TopBeneficiaries))
	for _, b := range totals.TopBeneficiaries {
		top = append(top, models.Beneficiary{UserID: b.UserID, Total: money.Format(b.Total)})
	}

	snapshot := models.Snapshot{
		ID:                uuid.NewString(),
		ReportedBalance:   money.Format(reported.Balance),
		Currency:          reported.Currency,
		DepositedTotal:    money.Format(orLocal(reported.Deposited, totals.ByCategory[models.CategoryDeposit])),
		WithdrawnTotal:    money.Format(orLocal(reported.Withdrawn, totals.ByCategory[models.CategoryWithdrawal])),
		FeesTotal:         money.Format(totals.ByCategory[models.CategoryFee]),
		SurplusTotal:      money.Format(orLocal(reported.Surplus, totals.SurplusTotal)),
		UserGainsTotal:    money.Format(orLocal(reported.UserGains, totals.UserGainsTotal)),
		CategoryBreakdown: breakdown,
		TopBeneficiaries:  top,
		TransactionCount:  totals.TransactionCount,
		ComputedAt:        time.Now().UTC(),
	}
	return Result{Snapshot: snapshot, Links: links}
}

func orLocal(reported, local decimal.Decimal) decimal.Decimal {
	if reported.IsZero() {
		return local
	}
	return reported
}
