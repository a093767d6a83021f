package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Role type to distinguish between user roles
type Role string

// Define constants for roles
const (
	RoleCustomer Role = "customer"
	RoleTrainer  Role = "trainer"
	RoleAdmin    Role = "admin"
)

// MembershipStatus reflects whether the user's current membership is paid up.
type MembershipStatus string

const (
	MembershipPaid   MembershipStatus = "Paid"
	MembershipUnpaid MembershipStatus = "Unpaid"
)

// User is the identity record shared by customers, trainers and admins.
// The membership fields are meaningful only for customers and are mutated
// exclusively by the assignment coordinator (TrainerService).
type User struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Username     string             `bson:"username" json:"username"` // Should be unique
	Email        string             `bson:"email" json:"email"`       // Should be unique
	PasswordHash string             `bson:"passwordHash" json:"-"`    // Never expose this via JSON
	Mobile       string             `bson:"mobile,omitempty" json:"mobile,omitempty"`
	Role         Role               `bson:"role" json:"role"`
	CreatedAt    time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt    time.Time          `bson:"updatedAt" json:"updatedAt"`

	// --- Customer-specific membership state ---
	// Empty plan means no membership. Expiry uses a pointer so "never
	// activated" stays distinguishable from a real timestamp.
	MembershipPlan   string           `bson:"membershipPlan,omitempty" json:"membershipPlan,omitempty"`
	MembershipExpiry *time.Time       `bson:"membershipExpiry,omitempty" json:"membershipExpiry,omitempty"`
	PaymentStatus    MembershipStatus `bson:"paymentStatus" json:"paymentStatus"`
}

func (u *User) IsTrainer() bool {
	return u.Role == RoleTrainer
}

func (u *User) IsCustomer() bool {
	return u.Role == RoleCustomer
}

func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}
