package model

import "time"

// CustodyAccount is a holder's account for one asset. Amount is 1 for the current holder
// and 0 for every account the unit has left.
type CustodyAccount struct {
	AssetAddress string    `gorm:"column:asset_address;primaryKey;size:64"`
	Holder       string    `gorm:"column:holder;primaryKey;size:64;index"`
	Amount       uint64    `gorm:"column:amount;not null;default:0"`
	Frozen       bool      `gorm:"column:frozen;not null;default:false"`
	CreatedAt    time.Time `gorm:"autoCreateTime"`
	UpdatedAt    time.Time `gorm:"autoUpdateTime"`
}

func (CustodyAccount) TableName() string {
	return "custody_accounts"
}
