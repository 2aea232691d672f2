package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Transaction представляет запись леджера, полученную из внешней системы учета.
// После загрузки запись никогда не изменяется: все производные величины
// пересчитываются заново на каждом построении снапшота.
type Transaction struct {
	ID          string          `json:"id"`
	UserID      *int64          `json:"user_id,omitempty"` // nil для системных записей
	CategoryTag string          `json:"type"`              // грубый тип из источника, например "asset_withdrawal"
	Amount      decimal.Decimal `json:"amount"`            // знак переопределяется категоризатором, внутри используется модуль
	Description string          `json:"description"`       // свободный текст, может содержать встроенные суммы
	CreatedAt   time.Time       `json:"created_at"`
}
