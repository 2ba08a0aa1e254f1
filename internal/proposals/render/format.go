package render

import (
	"math"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/proposalcraft/proposalcraft-backend/internal/proposals/domain"
)

const displayDateLayout = "January 2, 2006"

// notANumber stands in for NaN and infinite values, which have no decimal form.
const notANumber = "n/a"

// FormatCurrency renders amount as US dollars rounded to cents, e.g. "$1,234.50".
func FormatCurrency(amount float64) string {
	if !isFinite(amount) {
		return notANumber
	}
	d := decimal.NewFromFloat(amount).Round(2)
	sign := ""
	if d.IsNegative() {
		sign = "-"
		d = d.Neg()
	}
	fixed := d.StringFixed(2)
	whole, cents, _ := strings.Cut(fixed, ".")
	return sign + "$" + groupThousands(whole) + "." + cents
}

// FormatNumber renders a quantity or percentage without trailing zeros.
func FormatNumber(v float64) string {
	if !isFinite(v) {
		return notANumber
	}
	return decimal.NewFromFloat(v).String()
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

// FormatDate renders a wire date as "January 2, 2006". Blank input yields ""
// and anything that does not parse is returned unchanged.
func FormatDate(value string) string {
	value = strings.TrimSpace(value)
	if value == "" {
		return ""
	}
	t, err := time.Parse(domain.DateLayout, value)
	if err != nil {
		return value
	}
	return t.Format(displayDateLayout)
}

func groupThousands(digits string) string {
	if len(digits) <= 3 {
		return digits
	}
	var b strings.Builder
	lead := len(digits) % 3
	if lead > 0 {
		b.WriteString(digits[:lead])
	}
	for i := lead; i < len(digits); i += 3 {
		if b.Len() > 0 {
			b.WriteByte(',')
		}
		b.WriteString(digits[i : i+3])
	}
	return b.String()
}
