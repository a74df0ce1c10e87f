package models

import (
	"time"
)

// Role values a user can hold. A user may hold several at once
// (e.g. a trainer who also books classes as a client).
const (
	RoleClient  = "client"
	RoleTrainer = "trainer"
	RoleAdmin   = "admin"
)

type User struct {
	ID       uint     `json:"id" gorm:"primaryKey"`
	FullName string   `json:"full_name" gorm:"not null"`
	Email    string   `json:"email" gorm:"unique;not null"`
	Password string   `json:"-" gorm:"not null"`
	Roles    []string `json:"roles" gorm:"type:json;serializer:json"`
	// Credits is a materialized aggregate of the user's ledger entries.
	// It is only ever changed inside the same transaction as the ledger
	// entry that produced the change.
	Credits   int       `json:"credits" gorm:"not null;default:0"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (u *User) HasRole(role string) bool {
	for _, r := range u.Roles {
		if r == role {
			return true
		}
	}
	return false
}

func (u *User) IsClient() bool  { return u.HasRole(RoleClient) }
func (u *User) IsTrainer() bool { return u.HasRole(RoleTrainer) }
func (u *User) IsAdmin() bool   { return u.HasRole(RoleAdmin) }
