// file: internals/features/auth/model/revoked_token_model.go
package model

import "time"

// RevokedTokenModel is a logged-out access token, stored as HMAC-SHA256(token) hex.
// Rows are useless once the token itself would have expired.
type RevokedTokenModel struct {
	Token     string    `gorm:"type:varchar(64);primaryKey;column:token"   json:"-"`
	ExpiredAt time.Time `gorm:"not null;index;column:expired_at"           json:"expired_at"`
	CreatedAt time.Time `gorm:"not null;autoCreateTime;column:created_at"  json:"created_at"`
}

func (RevokedTokenModel) TableName() string { return "token_blacklist" }
