package enums

// Currency is an ISO 4217 code. The storefront trades in naira only; amounts
// are whole-number minor units with no further subdivision.
type Currency string

const (
	CurrencyNGN Currency = "NGN"
)

// String implements fmt.Stringer.
func (c Currency) String() string {
	return string(c)
}

// IsValid reports whether the currency is supported.
func (c Currency) IsValid() bool {
	return c == CurrencyNGN
}
