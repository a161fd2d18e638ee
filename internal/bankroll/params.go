package bankroll

import "github.com/shopspring/decimal"

// toDecimal reads a numeric param (float64 or int, as decoded by viper)
// and converts it to a decimal.Decimal, falling back to def when absent.
func toDecimal(params map[string]any, key string, def decimal.Decimal) (decimal.Decimal, error) {
	v, ok := params[key]
	if !ok {
		return def, nil
	}
	switch n := v.(type) {
	case float64:
		return decimal.NewFromFloat(n), nil
	case int:
		return decimal.NewFromInt(int64(n)), nil
	case string:
		return decimal.NewFromString(n)
	default:
		return def, nil
	}
}
