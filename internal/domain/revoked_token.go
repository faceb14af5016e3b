package domain

import "time"

type TokenType string

const (
	TokenTypeAccess  TokenType = "access"
	TokenTypeRefresh TokenType = "refresh"
)

// RevokedToken is one entry of the revocation ledger. A jti appears at most
// once; rows become dead weight as soon as expires_at passes (an expired
// token fails signature-level validation on its own) and are removed by
// the cleanup sweep.
type RevokedToken struct {
	ID int64 `json:"id" gorm:"primaryKey"`

	JTI       string    `json:"jti" gorm:"size:36;uniqueIndex;not null"`
	TokenType TokenType `json:"token_type" gorm:"size:10;not null"`

	UserID int64 `json:"user_id" gorm:"index;not null"`
	User   User  `json:"-" gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`

	RevokedAt time.Time `json:"revoked_at" gorm:"not null"`
	ExpiresAt time.Time `json:"expires_at" gorm:"index;not null"`
}
