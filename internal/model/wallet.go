package model

import "time"

// Wallet holds value units for an address. The collection's own wallet is the pooled reserve.
type Wallet struct {
	Address   string    `gorm:"primaryKey;size:64"`
	Balance   uint64    `gorm:"column:balance;not null;default:0"`
	CreatedAt time.Time `gorm:"autoCreateTime"`
	UpdatedAt time.Time `gorm:"autoUpdateTime"`
}

func (Wallet) TableName() string {
	return "wallets"
}
