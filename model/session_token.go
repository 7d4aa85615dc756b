package model

// SessionToken is one active login session. A user may hold any number
// of these at once (multi-device). The signed token itself never gets
// revoked, only its row here. The auth middleware treats a token
// without a matching row as invalid no matter how good the signature is
type SessionToken struct {
	ID        uint   `gorm:"primaryKey;autoIncrement"`
	UserID    string `gorm:"index;not null"`
	Token     string `gorm:"index;not null"`
	CreatedAt int64  `gorm:"autoCreateTime"`
}
