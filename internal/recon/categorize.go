package recon

import (
	"strings"

	"github.com/linemk/treasury-admin/internal/domain/models"
)

// маркеры в типе транзакции, по которым она относится к категории
const (
	markerFee             = "fee"
	markerAssetPurchase   = "purchase"
	markerAssetBuy        = "buy"
	markerAssetSale       = "sale"
	markerAssetWithdrawal = "asset_withdrawal"
	tagDeposit            = "deposit"
	tagWithdrawal         = "withdrawal"
)

// Categorize относит транзакцию ровно к одной категории по ее типу.
// Порядок проверок значим: тип может содержать одновременно "withdrawal" и
// "fee", и комиссия должна победить, иначе такая строка посчитается выплатой
// и попадет в итоги дважды. Функция чистая и прогоняется заново на каждом
// построении снапшота, результат между прогонами не кэшируется.
func Categorize(tx models.Transaction) models.Category {
	tag := strings.ToLower(strings.TrimSpace(tx.CategoryTag))

	switch {
	case strings.Contains(tag, markerFee):
		return models.CategoryFee
	case strings.Contains(tag, markerAssetPurchase), strings.Contains(tag, markerAssetBuy):
		return models.CategoryAcquisition
	case strings.Contains(tag, markerAssetSale):
		return models.CategoryDisposalSurplus
	case strings.Contains(tag, markerAssetWithdrawal):
		return models.CategoryUserPayout
	case tag == tagDeposit:
		return models.CategoryDeposit
	case tag == tagWithdrawal:
		return models.CategoryWithdrawal
	default:
		return models.CategoryOther
	}
}
