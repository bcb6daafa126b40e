package integrations

import "math"

// DefaultUSDToZAR is the fixed approximate conversion rate. There is no
// live FX feed; listed prices are ballpark figures for filtering and
// display, not checkout amounts.
const DefaultUSDToZAR = 18.5

// CurrencyConverter converts provider-reported prices into the
// reference currency (ZAR), rounding to whole rand.
type CurrencyConverter struct {
	usdToZAR float64
}

func NewCurrencyConverter(usdToZAR float64) *CurrencyConverter {
	if usdToZAR <= 0 {
		usdToZAR = DefaultUSDToZAR
	}
	return &CurrencyConverter{usdToZAR: usdToZAR}
}

// ToZAR converts an amount in the given ISO currency code to rand.
// ZAR passes through unconverted; everything else is treated as USD,
// the only foreign currency the providers actually report.
func (c *CurrencyConverter) ToZAR(amount float64, currency string) float64 {
	if amount < 0 {
		return 0
	}
	if currency == "ZAR" {
		return math.Round(amount)
	}
	return math.Round(amount * c.usdToZAR)
}
