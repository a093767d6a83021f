package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// MembershipType enumerates the purchasable membership tiers.
type MembershipType string

const (
	MembershipBasic           MembershipType = "basic"
	MembershipStandard        MembershipType = "standard"
	MembershipPremium         MembershipType = "premium"
	MembershipTrainerAssisted MembershipType = "trainer_assisted"
)

// Valid reports whether t is one of the known membership tiers.
func (t MembershipType) Valid() bool {
	switch t {
	case MembershipBasic, MembershipStandard, MembershipPremium, MembershipTrainerAssisted:
		return true
	}
	return false
}

// PaymentOutcome is the recorded result of a payment attempt.
type PaymentOutcome string

const (
	PaymentSuccessful PaymentOutcome = "successful"
	PaymentFailed     PaymentOutcome = "failed"
	PaymentPending    PaymentOutcome = "pending"
)

// Payment is an immutable record of one payment attempt. It is created once
// by the payment recorder and never mutated or deleted afterwards.
type Payment struct {
	ID              primitive.ObjectID  `bson:"_id,omitempty" json:"id"`
	UserID          primitive.ObjectID  `bson:"userId" json:"user_id"`
	PlanName        string              `bson:"planName" json:"plan_name"`
	Amount          float64             `bson:"amount" json:"amount"`
	MembershipType  MembershipType      `bson:"membershipType" json:"membership_type"`
	TransactionID   string              `bson:"transactionId" json:"transaction_id"` // Unique across all payments
	AssignedTrainer *primitive.ObjectID `bson:"assignedTrainer,omitempty" json:"assigned_trainer,omitempty"`
	Status          PaymentOutcome      `bson:"status" json:"payment_status"`
	CreatedAt       time.Time           `bson:"createdAt" json:"createdAt"`
}
