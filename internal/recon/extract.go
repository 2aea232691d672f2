package recon

import (
	"regexp"
	"strings"

	"github.com/shopspring/decimal"
)

// Извлечение сумм из свободного текста описаний. Несколько денежных фактов
// источник не хранит структурированными полями, их приходится вычитывать из
// человекочитаемых примечаний. Весь такой разбор изолирован в этом файле:
// если леджер когда-нибудь обогатят структурированными полями, менять нужно
// будет только его, остальной движок зависит от контракта, а не от формата
// текста.

var (
	// "Fee: 173.48" или "Commission: 173.48 PSC"
	feeRe = regexp.MustCompile(`(?i)\b(?:fee|commission)\s*:?\s*(-?[\d,]+(?:\.\d+)?)`)
	// "Social value: 3469.56", встречается и вариант "Reference value"
	baseValueRe = regexp.MustCompile(`(?i)\b(?:social|reference)\s+value\s*:?\s*(-?[\d,]+(?:\.\d+)?)`)
	// "Gain: -120.00", знак значим
	gainRe = regexp.MustCompile(`(?i)\bgain\s*:?\s*([+-]?[\d,]+(?:\.\d+)?)`)
	// "Withdrawal: ZED to external wallet" — токен актива всегда в верхнем регистре
	assetNameRe = regexp.MustCompile(`(?i:withdrawal\s*:?\s+)([A-Z][A-Z0-9_]*)(?i:\s+to\b)`)
)

// ExtractFee возвращает встроенную в описание сумму комиссии.
// Второе значение false — сумма из текста не восстановима.
func ExtractFee(description string) (decimal.Decimal, bool) {
	return extractDecimal(feeRe, description)
}

// ExtractBaseValue возвращает базовую (до комиссии) цену покупки из описания.
func ExtractBaseValue(description string) (decimal.Decimal, bool) {
	return extractDecimal(baseValueRe, description)
}

// ExtractGain возвращает значение "Gain" с учетом знака.
func ExtractGain(description string) (decimal.Decimal, bool) {
	return extractDecimal(gainRe, description)
}

// ExtractAssetName возвращает токен актива из описания вывода,
// например "ZED" из "Withdrawal: ZED to external wallet".
func ExtractAssetName(description string) (string, bool) {
	m := assetNameRe.FindStringSubmatch(description)
	if m == nil {
		return "", false
	}
	return m[1], true
}

func extractDecimal(re *regexp.Regexp, description string) (decimal.Decimal, bool) {
	m := re.FindStringSubmatch(description)
	if m == nil {
		return decimal.Zero, false
	}
	raw := strings.ReplaceAll(strings.TrimPrefix(m[1], "+"), ",", "")
	d, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Zero, false
	}
	return d, true
}

// mentionsAsset проверяет, упоминает ли описание токен актива, без учета
// регистра. Используется матчером атрибуции при поиске покупки-кандидата.
func mentionsAsset(description, asset string) bool {
	if asset == "" {
		return false
	}
	return strings.Contains(strings.ToLower(description), strings.ToLower(asset))
}
