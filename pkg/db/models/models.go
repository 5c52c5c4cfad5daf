package models

// All returns every persisted model in dependency order, for AutoMigrate.
func All() []any {
	return []any{
		&User{},
		&Category{},
		&Location{},
		&Banner{},
		&Item{},
		&ItemImage{},
		&Contact{},
		&AdminOperation{},
		&CoinLedger{},
		&CoinTransaction{},
		&Voucher{},
		&VoucherRedemption{},
		&Notification{},
		&NotificationTemplate{},
	}
}
