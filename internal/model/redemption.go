package model

import "time"

type Redemption struct {
	ID           string    `gorm:"primaryKey;size:26"`
	Slot         uint64    `gorm:"column:slot;not null;uniqueIndex"`
	AssetAddress string    `gorm:"column:asset_address;size:64;not null;index"`
	Holder       string    `gorm:"column:holder;size:64;not null;index"`
	Points       uint64    `gorm:"column:points;not null"`
	CreatedAt    time.Time `gorm:"autoCreateTime"`
}

func (Redemption) TableName() string {
	return "redemptions"
}
