package currency

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/shopspring/decimal"
)

var ErrUnsupportedCurrency = errors.New("unsupported currency")

type definition struct {
	symbol   string
	decimals int32
}

var currencies = map[string]definition{
	"EUR": {"€", 2},
	"USD": {"$", 2},
	"GBP": {"£", 2},
	"JPY": {"¥", 0},
	"CHF": {"CHF", 2},
	"CAD": {"CA$", 2},
	"AUD": {"A$", 2},
	"MXN": {"MX$", 2},
	"BRL": {"R$", 2},
	"ARS": {"ARS$", 2},
	"CLP": {"CLP$", 0},
	"COP": {"COL$", 0},
}

type style struct {
	group        string
	decimal      string
	symbolSuffix bool
}

var styles = map[string]style{
	"en": {group: ",", decimal: ".", symbolSuffix: false},
	"es": {group: ".", decimal: ",", symbolSuffix: true},
	"de": {group: ".", decimal: ",", symbolSuffix: true},
	"it": {group: ".", decimal: ",", symbolSuffix: true},
	"pt": {group: ".", decimal: ",", symbolSuffix: true},
	"fr": {group: " ", decimal: ",", symbolSuffix: true},
}

// Supported reports whether code is a known ISO currency code.
func Supported(code string) bool {
	_, ok := currencies[strings.ToUpper(code)]
	return ok
}

// Codes lists the supported currency codes alphabetically.
func Codes() []string {
	codes := make([]string, 0, len(currencies))
	for code := range currencies {
		codes = append(codes, code)
	}
	sort.Strings(codes)
	return codes
}

// SupportedLanguage reports whether amounts can be formatted for language.
func SupportedLanguage(language string) bool {
	_, ok := styles[strings.ToLower(language)]
	return ok
}

// Formatter renders raw amounts for display. Rounding happens here and
// nowhere earlier.
type Formatter struct {
	code       string
	definition definition
	style      style
}

func NewFormatter(code, language string) (Formatter, error) {
	code = strings.ToUpper(strings.TrimSpace(code))
	def, ok := currencies[code]
	if !ok {
		return Formatter{}, fmt.Errorf("%w: %q", ErrUnsupportedCurrency, code)
	}
	st, ok := styles[strings.ToLower(language)]
	if !ok {
		st = styles["en"]
	}
	return Formatter{code: code, definition: def, style: st}, nil
}

func (f Formatter) Code() string { return f.code }

func (f Formatter) Symbol() string { return f.definition.symbol }

// Round rounds amount half away from zero to the currency's minor unit.
func (f Formatter) Round(amount float64) decimal.Decimal {
	return decimal.NewFromFloat(amount).Round(f.definition.decimals)
}

// Number formats amount with grouping and decimals but without symbol.
func (f Formatter) Number(amount float64) string {
	fixed := f.Round(amount).Abs().StringFixed(f.definition.decimals)
	integer, fraction, _ := strings.Cut(fixed, ".")

	var b strings.Builder
	if f.Round(amount).IsNegative() {
		b.WriteString("-")
	}
	for i, digit := range integer {
		if i > 0 && (len(integer)-i)%3 == 0 {
			b.WriteString(f.style.group)
		}
		b.WriteRune(digit)
	}
	if fraction != "" {
		b.WriteString(f.style.decimal)
		b.WriteString(fraction)
	}
	return b.String()
}

func (f Formatter) Format(amount float64) string {
	number := f.Number(amount)
	if f.style.symbolSuffix {
		return number + " " + f.definition.symbol
	}
	if strings.HasPrefix(number, "-") {
		return "-" + f.definition.symbol + number[1:]
	}
	return f.definition.symbol + number
}

// Percent formats a percentage with one decimal.
func (f Formatter) Percent(value float64) string {
	fixed := decimal.NewFromFloat(value).Round(1).StringFixed(1)
	return strings.Replace(fixed, ".", f.style.decimal, 1) + "%"
}
