package domain

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Role is the authorization role carried by a user and its session
type Role string

const (
	RoleTenant   Role = "tenant"
	RoleLandlord Role = "landlord"
	RoleAdmin    Role = "admin"
)

// Valid reports whether r is one of the known roles
func (r Role) Valid() bool {
	switch r {
	case RoleTenant, RoleLandlord, RoleAdmin:
		return true
	}
	return false
}

// UserStatus is the account state checked at login
type UserStatus string

const (
	UserStatusActive    UserStatus = "active"
	UserStatusSuspended UserStatus = "suspended"
	UserStatusInactive  UserStatus = "inactive"
)

// Profile holds the personal details captured at registration
type Profile struct {
	FirstName   string     `bson:"firstName" json:"firstName"`
	LastName    string     `bson:"lastName" json:"lastName"`
	Phone       string     `bson:"phone" json:"phone"`
	Avatar      string     `bson:"avatar,omitempty" json:"avatar,omitempty"`
	IDDocument  string     `bson:"idDocument,omitempty" json:"idDocument,omitempty"`
	DateOfBirth *time.Time `bson:"dateOfBirth,omitempty" json:"dateOfBirth,omitempty"`
	Nationality string     `bson:"nationality,omitempty" json:"nationality,omitempty"`
}

type Verification struct {
	EmailVerified bool       `bson:"emailVerified" json:"emailVerified"`
	PhoneVerified bool       `bson:"phoneVerified" json:"phoneVerified"`
	IDVerified    bool       `bson:"idVerified" json:"idVerified"`
	VerifiedAt    *time.Time `bson:"verifiedAt,omitempty" json:"verifiedAt,omitempty"`
}

// User is a persisted credential record. Email is stored lowercased and is unique.
type User struct {
	Base         `bson:",inline"`
	Email        string       `bson:"email" json:"email"`
	PasswordHash string       `bson:"password" json:"-"`
	Role         Role         `bson:"role" json:"role"`
	Profile      Profile      `bson:"profile" json:"profile"`
	Verification Verification `bson:"verification" json:"verification"`
	Status       UserStatus   `bson:"status" json:"status"`
}

// UserRepository defines data access for users. Create returns ErrDuplicate for a taken email.
type UserRepository interface {
	Create(ctx context.Context, user *User) error
	GetByID(ctx context.Context, id primitive.ObjectID) (*User, error)
	GetByEmail(ctx context.Context, email string) (*User, error)
	Update(ctx context.Context, user *User) error
}
