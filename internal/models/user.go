package models

import (
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"golang.org/x/crypto/bcrypt"
)

// User is the credential-holding identity record. Password and refresh token
// are never serialized into responses.
type User struct {
	ID           primitive.ObjectID   `bson:"_id,omitempty" json:"id"`
	Username     string               `bson:"username" json:"username"`
	Email        string               `bson:"email" json:"email"`
	FullName     string               `bson:"fullName" json:"fullName"`
	Avatar       string               `bson:"avatar" json:"avatar"`
	CoverImage   string               `bson:"coverImage,omitempty" json:"coverImage,omitempty"`
	WatchHistory []primitive.ObjectID `bson:"watchHistory,omitempty" json:"watchHistory,omitempty"`
	Password     string               `bson:"password,omitempty" json:"-"`
	RefreshToken string               `bson:"refreshToken,omitempty" json:"-"`
	CreatedAt    time.Time            `bson:"createdAt" json:"createdAt"`
	UpdatedAt    time.Time            `bson:"updatedAt" json:"updatedAt"`
}

// NewUser builds a user record, lowercasing username/email and hashing the
// password. Hashing happens only here and in SetPassword, never on save.
func NewUser(username, email, fullName, password string, hashCost int) (*User, error) {
	hash, err := HashPassword(password, hashCost)
	if err != nil {
		return nil, err
	}
	return &User{
		Username: strings.ToLower(strings.TrimSpace(username)),
		Email:    strings.ToLower(strings.TrimSpace(email)),
		FullName: strings.TrimSpace(fullName),
		Password: hash,
	}, nil
}

// HashPassword hashes a plaintext password with the configured bcrypt cost.
func HashPassword(password string, cost int) (string, error) {
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// CheckPassword compares a plaintext candidate against the stored hash.
func (u *User) CheckPassword(password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(u.Password), []byte(password)) == nil
}

// SetPassword re-hashes the password on an explicit change.
func (u *User) SetPassword(password string, hashCost int) error {
	hash, err := HashPassword(password, hashCost)
	if err != nil {
		return err
	}
	u.Password = hash
	return nil
}

// Sanitized returns a copy with credential fields cleared.
func (u *User) Sanitized() *User {
	out := *u
	out.Password = ""
	out.RefreshToken = ""
	return &out
}
