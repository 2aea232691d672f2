package models

import "github.com/shopspring/decimal"

// AttributionLink связывает выплату (user_payout) с конкретной более ранней
// покупкой того же актива тем же пользователем. Создается только для выплат.
// Nil MatchedAcquisitionID означает, что подходящая покупка не найдена;
// RealizedGain в этом случае тоже nil и в агрегатах считается нулем.
type AttributionLink struct {
	WithdrawalID         string           `json:"withdrawal_id"`
	MatchedAcquisitionID *string          `json:"matched_acquisition_id,omitempty"`
	RealizedGain         *decimal.Decimal `json:"realized_gain,omitempty"` // фиксируется как вычислено, в том числе ноль и минус
}

// Matched сообщает, удалось ли сопоставить выплату с покупкой.
func (l AttributionLink) Matched() bool {
	return l.MatchedAcquisitionID != nil
}
