package enums

import "fmt"

// VoucherType groups vouchers by the campus outlet that honours them.
type VoucherType string

const (
	VoucherTypeCanteen   VoucherType = "canteen"
	VoucherTypeCafe      VoucherType = "cafe"
	VoucherTypeBookstore VoucherType = "bookstore"
	VoucherTypeOther     VoucherType = "other"
)

var validVoucherTypes = []VoucherType{
	VoucherTypeCanteen,
	VoucherTypeCafe,
	VoucherTypeBookstore,
	VoucherTypeOther,
}

// IsValid reports whether the value is a known VoucherType.
func (v VoucherType) IsValid() bool {
	for _, candidate := range validVoucherTypes {
		if candidate == v {
			return true
		}
	}
	return false
}

// ParseVoucherType converts raw input into a VoucherType.
func ParseVoucherType(value string) (VoucherType, error) {
	for _, candidate := range validVoucherTypes {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid voucher type %q", value)
}
