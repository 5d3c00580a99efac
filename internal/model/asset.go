package model

import "time"

const (
	AssetName   = "OPOS"
	AssetSymbol = "OPOS"
)

// Asset is the single-supply transferable unit behind an Item.
type Asset struct {
	Address           string          `gorm:"primaryKey;size:64"`
	CollectionAddress string          `gorm:"column:collection_address;size:64;not null;index"`
	Name              string          `gorm:"size:32;not null"`
	Symbol            string          `gorm:"size:16;not null"`
	URI               string          `gorm:"column:uri;size:512;not null"`
	Supply            uint64          `gorm:"not null;default:1"`
	Decimals          uint8           `gorm:"not null;default:0"`
	Metadata          []AssetMetadata `gorm:"foreignKey:AssetAddress;references:Address"`
	CreatedAt         time.Time       `gorm:"autoCreateTime"`
}

func (Asset) TableName() string {
	return "assets"
}
