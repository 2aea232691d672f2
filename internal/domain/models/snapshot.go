package models

import "time"

// Snapshot — неизменяемый итог одного прогона сверки. Это кэш, а не источник
// истины: при каждом обновлении старый снапшот выбрасывается и строится новый.
// Все денежные поля сериализуются строками с двумя знаками после запятой,
// чтобы не терять точность на границе сериализации.
type Snapshot struct {
	ID                string          `json:"id"` // uuid версии снапшота
	ReportedBalance   string          `json:"reported_balance"`
	Currency          string          `json:"currency"`
	DepositedTotal    string          `json:"deposited_total"`
	WithdrawnTotal    string          `json:"withdrawn_total"`
	FeesTotal         string          `json:"fees_total"`
	SurplusTotal      string          `json:"surplus_total"`
	UserGainsTotal    string          `json:"user_gains_total"`
	CategoryBreakdown []CategoryTotal `json:"category_breakdown"`
	TopBeneficiaries  []Beneficiary   `json:"top_beneficiaries"`
	TransactionCount  int             `json:"transaction_count"`
	ComputedAt        time.Time       `json:"computed_at"`
}

// CategoryTotal — сумма и количество транзакций одной категории.
// Разбивка всегда перечисляет категории в порядке models.Categories.
type CategoryTotal struct {
	Category Category `json:"category"`
	Total    string   `json:"total"`
	Count    int      `json:"count"`
}

// Beneficiary — строка таблицы получателей выводов.
type Beneficiary struct {
	UserID int64  `json:"user_id"`
	Total  string `json:"total"`
}
