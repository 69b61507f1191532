package models

import "time"

// User is an operator account for the management UI. Only the bcrypt hash is
// stored; the plaintext never leaves the auth package.
type User struct {
	Base         `bson:",inline"`
	Email        string    `bson:"email" json:"email"`
	Name         string    `bson:"name" json:"name"`
	PasswordHash string    `bson:"password_hash" json:"-"`
	IsAdmin      bool      `bson:"is_admin" json:"isAdmin"`
	CreatedAt    time.Time `bson:"created_at" json:"createdAt"`
}
