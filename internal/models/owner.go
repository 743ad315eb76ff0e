package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Owner is the single account that owns the tracked vehicles
type Owner struct {
	ID             primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Username       string             `bson:"username" json:"username"`
	PassphraseHash string             `bson:"passphrase_hash" json:"-"`
	LastLogin      *time.Time         `bson:"last_login,omitempty" json:"last_login,omitempty"`
	CreatedAt      time.Time          `bson:"created_at" json:"created_at"`
	UpdatedAt      time.Time          `bson:"updated_at" json:"updated_at"`
}

// LoginRequest represents a login request
type LoginRequest struct {
	Username   string `json:"username"`
	Passphrase string `json:"passphrase"`
}

// LoginResponse represents a successful login response
type LoginResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
	Owner     Owner     `json:"owner"`
}

// Claims represents JWT claims
type Claims struct {
	OwnerID  string `json:"owner_id"`
	Username string `json:"username"`
	Exp      int64  `json:"exp"`
}

// Expired reports whether the claims are past their expiry at now.
func (c *Claims) Expired(now time.Time) bool {
	return now.Unix() >= c.Exp
}
