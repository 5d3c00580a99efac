package model

import "time"

// Collection is the singleton registry of every issued item. Its address is derived
// from Seed, Bump and the program id so any caller can locate it without a lookup.
type Collection struct {
	Address   string    `gorm:"primaryKey;size:64" json:"address"`
	Seed      string    `gorm:"size:32;not null" json:"seed"`
	Bump      uint8     `gorm:"not null" json:"bump"`
	ProgramID string    `gorm:"column:program_id;size:64;not null" json:"programId"`
	Authority string    `gorm:"size:64;not null" json:"authority"`
	Items     []Item    `gorm:"foreignKey:CollectionAddress;references:Address" json:"items,omitempty"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"createdAt"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updatedAt"`
}

func (Collection) TableName() string {
	return "collections"
}
