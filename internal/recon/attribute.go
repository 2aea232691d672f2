package recon

import (
	"github.com/linemk/treasury-admin/internal/domain/models"
)

// Attribute сопоставляет выплату (user_payout) с конкретной более ранней
// покупкой того же актива тем же пользователем и считает реализованную
// прибыль. Алгоритм:
//  1. из описания выплаты извлекается токен актива; без токена матч невозможен;
//  2. кандидаты — покупки того же пользователя, упоминающие тот же актив,
//     строго раньше выплаты по времени (заглядывать вперед нельзя);
//  3. из кандидатов берется самый поздний: если пользователь покупал и выводил
//     один и тот же актив несколько раз, закрывается последняя покупка;
//  4. базовая цена покупки — "Social value" из ее описания, если он там есть,
//     иначе сырая сумма покупки;
//  5. прибыль = сумма выплаты - базовая цена; фиксируется как вычислена, даже
//     нулевая или отрицательная, в итоги же идут только строго положительные.
//
// Результат детерминирован: при равных created_at решает меньший ID, никакой
// зависимости от порядка обхода списка.
func Attribute(payout models.Transaction, all []models.Transaction) models.AttributionLink {
	link := models.AttributionLink{WithdrawalID: payout.ID}

	asset, ok := ExtractAssetName(payout.Description)
	if !ok || payout.UserID == nil {
		return link
	}

	var best *models.Transaction
	for i := range all {
		cand := &all[i]
		if cand.ID == payout.ID {
			continue
		}
		if Categorize(*cand) != models.CategoryAcquisition {
			continue
		}
		if cand.UserID == nil || *cand.UserID != *payout.UserID {
			continue
		}
		if !cand.CreatedAt.Before(payout.CreatedAt) {
			continue
		}
		if !mentionsAsset(cand.Description, asset) {
			continue
		}
		if best == nil || cand.CreatedAt.After(best.CreatedAt) ||
			(cand.CreatedAt.Equal(best.CreatedAt) && cand.ID < best.ID) {
			best = cand
		}
	}
	if best == nil {
		return link
	}

	basePrice, ok := ExtractBaseValue(best.Description)
	if !ok {
		basePrice = best.Amount.Abs()
	}
	gain := payout.Amount.Abs().Sub(basePrice)

	matchedID := best.ID
	link.MatchedAcquisitionID = &matchedID
	link.RealizedGain = &gain
	return link
}

// AttributeAll строит связи для всех выплат набора. Порядок связей следует
// порядку входного списка, содержимое каждой связи от него не зависит.
func AttributeAll(txs []models.Transaction) []models.AttributionLink {
	var links []models.AttributionLink
	for _, tx := range txs {
		if Categorize(tx) != models.CategoryUserPayout {
			continue
		}
		links = append(links, Attribute(tx, txs))
	}
	return links
}
