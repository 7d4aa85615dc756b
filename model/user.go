// Package model defines database models
package model

type User struct {
	ID           string `gorm:"primaryKey" json:"id"`
	FirstName    string `json:"first_name"`
	LastName     string `json:"last_name"`
	Email        string `gorm:"unique; not null" json:"email"`
	PasswordHash string `gorm:"not null" json:"-"`
	// Age defaults to 0 when a user doesn't provide it. Negative
	// values are rejected before a row is ever written
	Age int `gorm:"default:0" json:"age"`

	// Filename of the current avatar blob. Empty until the first
	// upload, replaced wholesale on every new one
	Avatar string `json:"avatar,omitempty"`

	Tokens []SessionToken `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`

	CreatedAt int64 `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt int64 `gorm:"autoUpdateTime" json:"-"`
}
