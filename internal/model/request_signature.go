package model

import "time"

// RequestSignature records a request signature the API has already accepted.
type RequestSignature struct {
	Signature string    `gorm:"primaryKey;size:100"`
	Signer    string    `gorm:"column:signer;size:64;not null"`
	SignedAt  time.Time `gorm:"column:signed_at;not null;index"`
	CreatedAt time.Time `gorm:"autoCreateTime"`
}

func (RequestSignature) TableName() string {
	return "request_signatures"
}
