package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/campusfound/lostfound-backend/pkg/enums"
)

// CoinLedger holds the running coin balance of a single user.
type CoinLedger struct {
	ID          uuid.UUID `gorm:"column:id;type:uuid;primaryKey"`
	UserID      uuid.UUID `gorm:"column:user_id;type:uuid;not null;uniqueIndex"`
	Balance     int       `gorm:"column:balance;not null"`
	TotalEarned int       `gorm:"column:total_earned;not null"`
	TotalSpent  int       `gorm:"column:total_spent;not null"`
	CreatedAt   time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt   time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

// CoinTransaction is an append-only movement on a CoinLedger.
type CoinTransaction struct {
	ID        uuid.UUID                 `gorm:"column:id;type:uuid;primaryKey"`
	UserID    uuid.UUID                 `gorm:"column:user_id;type:uuid;not null;index"`
	Type      enums.CoinTransactionType `gorm:"column:type;type:text;not null"`
	Amount    int                       `gorm:"column:amount;not null"`
	Reason    string                    `gorm:"column:reason;type:text;not null"`
	CreatedAt time.Time                 `gorm:"column:created_at;autoCreateTime"`
}

// Voucher is a campus reward that can be bought with coins.
type Voucher struct {
	ID          uuid.UUID         `gorm:"column:id;type:uuid;primaryKey"`
	Name        string            `gorm:"column:name;type:text;not null"`
	Description string            `gorm:"column:description;type:text"`
	VoucherType enums.VoucherType `gorm:"column:voucher_type;type:text;not null"`
	CoinCost    int               `gorm:"column:coin_cost;not null"`
	Value       decimal.Decimal   `gorm:"column:value;type:numeric(10,2);not null"`
	IsActive    bool              `gorm:"column:is_active;not null"`
	CreatedAt   time.Time         `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt   time.Time         `gorm:"column:updated_at;autoUpdateTime"`
}

// VoucherRedemption records a voucher bought by a user.
type VoucherRedemption struct {
	ID         uuid.UUID  `gorm:"column:id;type:uuid;primaryKey"`
	UserID     uuid.UUID  `gorm:"column:user_id;type:uuid;not null;index"`
	VoucherID  uuid.UUID  `gorm:"column:voucher_id;type:uuid;not null"`
	Voucher    *Voucher   `gorm:"foreignKey:VoucherID"`
	RedeemedAt time.Time  `gorm:"column:redeemed_at;autoCreateTime"`
	IsUsed     bool       `gorm:"column:is_used;not null"`
	UsedAt     *time.Time `gorm:"column:used_at"`
}
