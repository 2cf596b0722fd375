package domain

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"time"

	"github.com/bwmarrin/snowflake"
)

const keyPrefix = "fk_"

// APIKey is a bearer credential bound to a user. Only the SHA-256 hash of
// the secret is stored; the plaintext is shown once at mint time.
type APIKey struct {
	ID        snowflake.ID `gorm:"primaryKey"`
	UserID    snowflake.ID `gorm:"not null;index"`
	Name      string       `gorm:"type:text;not null"`
	KeyHash   string       `gorm:"type:text;not null;uniqueIndex"`
	IsActive  bool         `gorm:"not null;default:true"`
	ExpiresAt *time.Time
	CreatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP"`
}

// TableName sets the database table name.
func (APIKey) TableName() string { return "api_keys" }

// GenerateKey mints a new random secret in its wire form.
func GenerateKey() (string, error) {
	raw := make([]byte, 32)
	if _, err := rand.Read(raw); err != nil {
		return "", err
	}
	return keyPrefix + base64.RawURLEncoding.EncodeToString(raw), nil
}

// HashAPIKey derives the stored lookup hash for a plaintext key.
func HashAPIKey(key string) string {
	sum := sha256.Sum256([]byte(key))
	return hex.EncodeToString(sum[:])
}
