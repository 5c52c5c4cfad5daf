package enums

import "fmt"

// CoinTransactionType records the direction of a ledger movement.
type CoinTransactionType string

const (
	CoinTransactionEarn  CoinTransactionType = "earn"
	CoinTransactionSpend CoinTransactionType = "spend"
)

var validCoinTransactionTypes = []CoinTransactionType{
	CoinTransactionEarn,
	CoinTransactionSpend,
}

// IsValid reports whether the value is a known CoinTransactionType.
func (t CoinTransactionType) IsValid() bool {
	for _, candidate := range validCoinTransactionTypes {
		if candidate == t {
			return true
		}
	}
	return false
}

// ParseCoinTransactionType converts raw input into a CoinTransactionType.
func ParseCoinTransactionType(value string) (CoinTransactionType, error) {
	for _, candidate := range validCoinTransactionTypes {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid coin transaction type %q", value)
}
