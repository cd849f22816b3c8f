package ranking

import (
	"sort"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// categoryGroups código de grupo del marketplace por categoría; "" = ranking general.
var categoryGroups = map[string]string{
	"total":       "",
	"fashion":     "1",
	"beauty":      "2",
	"men_sports":  "3",
	"appliance":   "4",
	"smart_phone": "5",
	"food":        "6",
	"k-pop":       "10",
	"kids":        "13",
	"pet":         "15",
}

// ValidCategory indica si la categoría tiene ranking.
func ValidCategory(category string) bool {
	_, ok := categoryGroups[category]
	return ok
}

// GroupCode devuelve el código de grupo del marketplace para la categoría.
func GroupCode(category string) (string, bool) {
	g, ok := categoryGroups[category]
	return g, ok
}

// Categories devuelve las categorías soportadas en orden alfabético.
func Categories() []string {
	out := make([]string, 0, len(categoryGroups))
	for c := range categoryGroups {
		out = append(out, c)
	}
	sort.Strings(out)
	return out
}

var hundred = decimal.NewFromInt(100)

// DiscountRate = round((1 - sale/original) * 100, 1). nil si falta algún precio o original <= 0.
func DiscountRate(original, sale *decimal.Decimal) *decimal.Decimal {
	if original == nil || sale == nil || !original.IsPositive() {
		return nil
	}
	rate := decimal.NewFromInt(1).Sub(sale.Div(*original)).Mul(hundred).Round(1)
	return &rate
}

// IsOverseasShipping indica si el texto de envío corresponde a envío internacional.
func IsOverseasShipping(shipInfo string) bool {
	return strings.Contains(shipInfo, "Oversea Shipping") || strings.Contains(shipInfo, "海外配送")
}

// RetentionCutoff instante antes del cual los snapshots se eliminan.
func RetentionCutoff(now time.Time, days int) time.Time {
	if days <= 0 {
		days = 7
	}
	return now.AddDate(0, 0, -days)
}

// StartOfDay medianoche del día de t en su zona horaria.
func StartOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}
