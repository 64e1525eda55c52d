package db

import "time"

// Token is the persisted credential pair. The table holds at most one row and
// both tokens are written by the same statement, so a reader never sees a
// half-written pair.
type Token struct {
	ID           uint      `gorm:"primaryKey" json:"-"`
	AccessToken  string    `json:"accessToken"`
	RefreshToken string    `json:"refreshToken"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// Complete reports whether both tokens are present.
func (t *Token) Complete() bool {
	return t != nil && t.AccessToken != "" && t.RefreshToken != ""
}
