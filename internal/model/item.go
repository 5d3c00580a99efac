package model

import "time"

// Item tracks one asset's accrued points. Position is the issuance order and never changes.
type Item struct {
	ID                uint64    `gorm:"primaryKey;autoIncrement"`
	CollectionAddress string    `gorm:"column:collection_address;size:64;not null;uniqueIndex:uk_items_position"`
	Position          uint64    `gorm:"column:position;not null;uniqueIndex:uk_items_position"`
	AssetAddress      string    `gorm:"column:asset_address;size:64;not null;uniqueIndex:uk_items_asset"`
	Points            uint64    `gorm:"column:points;not null;default:0"`
	CreatedAt         time.Time `gorm:"autoCreateTime"`
	UpdatedAt         time.Time `gorm:"autoUpdateTime"`
}

func (Item) TableName() string {
	return "items"
}
