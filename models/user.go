package models

import (
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Role values accepted for portal accounts.
const (
	RolePatient = "patient"
	RoleDoctor  = "doctor"
	RoleAdmin   = "admin"
)

// ValidRole reports whether role is one of the three portal roles.
func ValidRole(role string) bool {
	return role == RolePatient || role == RoleDoctor || role == RoleAdmin
}

// Caller is the resolved identity attached to every authenticated request.
// The auth middleware builds it from the verified token; downstream code
// performs authorization checks only.
type Caller struct {
	ID   string
	Name string
	Role string
}

// IsResponder reports whether the caller may work emergency cases.
func (c Caller) IsResponder() bool {
	return c.Role == RoleDoctor || c.Role == RoleAdmin
}

// User holds the structure for the user collection in mongo
type User struct {
	ID        primitive.ObjectID `json:"_id" bson:"_id,omitempty"`
	Email     string             `json:"email" bson:"email"`
	Password  string             `json:"password,omitempty" bson:"password"`
	Name      string             `json:"name" bson:"name"`
	Role      string             `json:"role" bson:"role"`
	Profile   UserProfile        `json:"profile" bson:"profile"`
	IsActive  bool               `json:"isActive" bson:"isActive"`
	LastLogin interface{}        `json:"lastLogin" bson:"lastLogin"`
	CreatedAt interface{}        `json:"createdAt" bson:"createdAt"`
	UpdatedAt interface{}        `json:"updatedAt" bson:"updatedAt"`
}

// UserProfile holds the structure for the inner profile document on a user
type UserProfile struct {
	Phone            string           `json:"phone" bson:"phone"`
	Address          Address          `json:"address" bson:"address"`
	DateOfBirth      interface{}      `json:"dateOfBirth" bson:"dateOfBirth"`
	Gender           string           `json:"gender" bson:"gender"`
	Specialization   string           `json:"specialization" bson:"specialization"`
	ProfilePicture   string           `json:"profilePicture" bson:"profilePicture"`
	EmergencyContact EmergencyContact `json:"emergencyContact" bson:"emergencyContact"`
}

// Address holds a mailing address on a user profile
type Address struct {
	Street  string `json:"street" bson:"street"`
	City    string `json:"city" bson:"city"`
	State   string `json:"state" bson:"state"`
	ZipCode string `json:"zipCode" bson:"zipCode"`
	Country string `json:"country" bson:"country"`
}

// EmergencyContact holds the emergency contact details on a patient profile
type EmergencyContact struct {
	Name         string `json:"name" bson:"name"`
	Phone        string `json:"phone" bson:"phone"`
	Relationship string `json:"relationship" bson:"relationship"`
}

// Sanitized returns a copy of the user with the password hash removed, safe
// to serialize in API responses.
func (u User) Sanitized() User {
	u.Password = ""
	return u
}
