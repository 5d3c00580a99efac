package model

import "time"

const (
	MetadataKeyOverbid = "overbid"
	MetadataKeyOwner   = "owner"
)

// AssetMetadata is one key/value slot attached to an asset.
type AssetMetadata struct {
	AssetAddress string    `gorm:"column:asset_address;primaryKey;size:64"`
	Key          string    `gorm:"column:meta_key;primaryKey;size:64"`
	Value        string    `gorm:"column:meta_value;size:128;not null"`
	UpdatedAt    time.Time `gorm:"autoUpdateTime"`
}

func (AssetMetadata) TableName() string {
	return "asset_metadata"
}
