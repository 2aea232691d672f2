package money

import (
	"encoding/json"
	"regexp"
	"strings"

	"github.com/shopspring/decimal"
)

// Пакет money — единственное место, где сырые значения превращаются в
// decimal.Decimal. Двоичная плавающая точка для денег не используется нигде:
// вся арифметика ведется в точной десятичной форме, округление до двух знаков
// происходит только при финальном форматировании.

// суффикс из кода валюты после числа, например "1234.56 PSC"
var currencySuffixRe = regexp.MustCompile(`^(-?[\d,]+(?:\.\d+)?)\s*[A-Za-z]{2,5}$`)

// Normalize приводит значение произвольного типа к точному decimal.
// Строки допускают разделители тысяч и код валюты в конце. Некорректное или
// отсутствующее значение дает ноль: это отчетный слой, одна битая запись не
// должна ронять весь расчет.
func Normalize(v any) decimal.Decimal {
	switch val := v.(type) {
	case nil:
		return decimal.Zero
	case decimal.Decimal:
		return val
	case string:
		return normalizeString(val)
	case json.Number:
		return normalizeString(val.String())
	case float64:
		// json.Unmarshal отдает нестроковые числа как float64
		return decimal.NewFromFloat(val)
	case int:
		return decimal.NewFromInt(int64(val))
	case int64:
		return decimal.NewFromInt(val)
	default:
		return decimal.Zero
	}
}

func normalizeString(s string) decimal.Decimal {
	s = strings.TrimSpace(s)
	if s == "" {
		return decimal.Zero
	}
	if m := currencySuffixRe.FindStringSubmatch(s); m != nil {
		s = m[1]
	}
	s = strings.ReplaceAll(s, ",", "")
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero
	}
	return d
}

// Format выводит значение с фиксированными двумя знаками после запятой.
func Format(d decimal.Decimal) string {
	return d.StringFixed(2)
}

// Sum складывает значения коммутативным десятичным сложением: порядок
// слагаемых не влияет на результат.
func Sum(vals ...decimal.Decimal) decimal.Decimal {
	total := decimal.Zero
	for _, v := range vals {
		total = total.Add(v)
	}
	return total
}
