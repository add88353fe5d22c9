// Package numfmt renders monetary values with a configurable number of
// decimals, decimal point and thousands separator.
package numfmt

import (
	"strings"

	"github.com/shopspring/decimal"
)

// Format describes how a number is rendered.
type Format struct {
	Decimals          int
	DecimalPoint      string
	ThousandSeparator string
}

// Option overrides a single field of a Format for one call.
type Option func(*Format)

// Default returns the built-in format: 2 decimals, "." and ",".
func Default() Format {
	return Format{
		Decimals:          2,
		DecimalPoint:      ".",
		ThousandSeparator: ",",
	}
}

// Decimals sets the number of decimals.
func Decimals(n int) Option {
	return func(f *Format) {
		f.Decimals = n
	}
}

// DecimalPoint sets the decimal point.
func DecimalPoint(s string) Option {
	return func(f *Format) {
		f.DecimalPoint = s
	}
}

// ThousandSeparator sets the thousands separator. An empty string disables grouping.
func ThousandSeparator(s string) Option {
	return func(f *Format) {
		f.ThousandSeparator = s
	}
}

// With returns a copy of f with opts applied.
func (f Format) With(opts ...Option) Format {
	for _, opt := range opts {
		if opt != nil {
			opt(&f)
		}
	}
	return f
}

// Number formats a float64.
func (f Format) Number(v float64) string {
	return f.Decimal(decimal.NewFromFloat(v))
}

// Decimal formats d, rounding half away from zero.
func (f Format) Decimal(d decimal.Decimal) string {
	decimals := f.Decimals
	if decimals < 0 {
		decimals = 0
	}

	s := d.StringFixed(int32(decimals))
	negative := strings.HasPrefix(s, "-")
	s = strings.TrimPrefix(s, "-")

	intPart, fracPart, _ := strings.Cut(s, ".")

	var b strings.Builder
	if negative {
		b.WriteByte('-')
	}
	b.WriteString(group(intPart, f.ThousandSeparator))
	if decimals > 0 {
		b.WriteString(f.DecimalPoint)
		b.WriteString(fracPart)
	}
	return b.String()
}

func group(digits, sep string) string {
	if sep == "" || len(digits) <= 3 {
		return digits
	}

	var b strings.Builder
	head := len(digits) % 3
	if head > 0 {
		b.WriteString(digits[:head])
	}
	for i := head; i < len(digits); i += 3 {
		if b.Len() > 0 {
			b.WriteString(sep)
		}
		b.WriteString(digits[i : i+3])
	}
	return b.String()
}
