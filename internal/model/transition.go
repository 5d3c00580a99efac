package model

import "time"

type TransitionKind string

const (
	TransitionInitialize TransitionKind = "initialize"
	TransitionIssue      TransitionKind = "issue"
	TransitionBid        TransitionKind = "bid"
	TransitionRedeem     TransitionKind = "redeem"
	TransitionTransfer   TransitionKind = "transfer"
	TransitionAirdrop    TransitionKind = "airdrop"
)

// Transition is one journal entry of the sequencer. Slots are gapless and strictly increasing.
type Transition struct {
	Slot      uint64         `gorm:"primaryKey;autoIncrement:false"`
	Signature string         `gorm:"size:26;not null;uniqueIndex"`
	Kind      TransitionKind `gorm:"size:32;not null"`
	Signer    string         `gorm:"size:64;not null"`
	CreatedAt time.Time      `gorm:"autoCreateTime"`
}

func (Transition) TableName() string {
	return "transitions"
}
