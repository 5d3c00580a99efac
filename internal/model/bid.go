package model

import "time"

// Bid records one accepted bid. ID is the signature of the transition that applied it.
type Bid struct {
	ID              string    `gorm:"primaryKey;size:26"`
	Slot            uint64    `gorm:"column:slot;not null;uniqueIndex"`
	AssetAddress    string    `gorm:"column:asset_address;size:64;not null;index"`
	Payer           string    `gorm:"column:payer;size:64;not null;index"`
	PreviousHolder  string    `gorm:"column:previous_holder;size:64;not null"`
	Amount          uint64    `gorm:"column:amount;not null"`
	PreviousOverbid uint64    `gorm:"column:previous_overbid;not null"`
	ItemCount       uint64    `gorm:"column:item_count;not null"`
	PointsPerItem   uint64    `gorm:"column:points_per_item;not null"`
	Remainder       uint64    `gorm:"column:remainder;not null"`
	Refund          uint64    `gorm:"column:refund;not null"`
	CreatedAt       time.Time `gorm:"autoCreateTime"`
}

func (Bid) TableName() string {
	return "bids"
}

// Pooled is the value the bid moved into the shared reserve.
func (b *Bid) Pooled() uint64 {
	return b.PointsPerItem * b.ItemCount
}
