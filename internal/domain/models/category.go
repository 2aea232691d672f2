package models

// Category — семантическая категория транзакции. Закрытый набор значений,
// ровно одна категория на транзакцию.
type Category string

const (
	CategoryFee             Category = "fee"
	CategoryAcquisition     Category = "acquisition"      // покупка актива пользователем
	CategoryDisposalSurplus Category = "disposal_surplus" // выкуп актива платформой
	CategoryUserPayout      Category = "user_payout"      // вывод стоимости актива пользователю
	CategoryDeposit         Category = "deposit"
	CategoryWithdrawal      Category = "withdrawal"
	CategoryOther           Category = "other"
)

// Categories перечисляет все категории в стабильном порядке — для построения
// разбивки по категориям в снапшоте.
var Categories = []Category{
	CategoryFee,
	CategoryAcquisition,
	CategoryDisposalSurplus,
	CategoryUserPayout,
	CategoryDeposit,
	CategoryWithdrawal,
	CategoryOther,
}
