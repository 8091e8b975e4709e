package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Role names understood by the API
const (
	RoleModerator = "moderator"
	RoleAdmin     = "admin"
)

// User holds the structure for the user collection in mongo
type User struct {
	ID      primitive.ObjectID `json:"_id" bson:"_id"`
	Details UserDetails        `json:"user" bson:"user"`
}

// UserDetails holds the structure for the inner user structure as defined in the user collection in mongo
type UserDetails struct {
	Email      string    `json:"email" bson:"email"`
	Username   string    `json:"username" bson:"username"`
	IsVerified bool      `json:"isVerified" bson:"isVerified"`
	Roles      []string  `json:"roles" bson:"roles"`
	CreatedAt  time.Time `json:"createdAt" bson:"createdAt"`
}

// Identity is the resolved caller of a request
type Identity struct {
	UserID     string
	Username   string
	CreatedAt  time.Time
	Verified   bool
	Roles      []string
	Credential string
}

// HasRole reports whether the identity carries the given role
func (i Identity) HasRole(role string) bool {
	for _, r := range i.Roles {
		if r == role || r == RoleAdmin {
			return true
		}
	}
	return false
}
