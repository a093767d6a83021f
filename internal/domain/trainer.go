package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// SalaryStatus for entries in a trainer's salary ledger.
type SalaryStatus string

const (
	SalaryPaid    SalaryStatus = "Paid"
	SalaryPending SalaryStatus = "Pending"
)

// SalaryRecord is one compensation cycle embedded in the Trainer document.
// Invariant: at most one record per (Month, Year) per trainer. The mongo
// repository enforces this atomically on append.
type SalaryRecord struct {
	Amount   float64      `bson:"amount" json:"amount"`
	Status   SalaryStatus `bson:"status" json:"status"`
	PaidDate *time.Time   `bson:"paidDate,omitempty" json:"paidDate,omitempty"`
	Month    string       `bson:"month" json:"month"` // Month name, e.g. "April"
	Year     int          `bson:"year" json:"year"`
}

// Trainer holds the coaching profile attached one-to-one to a User with
// the trainer role.
type Trainer struct {
	ID         primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID     primitive.ObjectID `bson:"userId" json:"userId"` // Unique, links to the User record
	Experience float64            `bson:"experience" json:"experience"`
	Age        int                `bson:"age" json:"age"`

	// User IDs of the customers assigned to this trainer. Appended with
	// $addToSet so repeated assignment calls never duplicate an entry.
	CustomerIDs []primitive.ObjectID `bson:"customerIds,omitempty" json:"customerIds,omitempty"`

	// Current nominal salary. The actual amount paid each period is computed
	// fresh from Experience at append time, never read from this field.
	Salary float64 `bson:"salary" json:"salary"`

	SalaryHistory []SalaryRecord `bson:"salaryHistory,omitempty" json:"salaryHistory,omitempty"`

	CreatedAt time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time `bson:"updatedAt" json:"updatedAt"`
}

// HasCustomer reports whether the given customer user ID is already on the
// trainer's roster.
func (t *Trainer) HasCustomer(customerUserID primitive.ObjectID) bool {
	for _, id := range t.CustomerIDs {
		if id == customerUserID {
			return true
		}
	}
	return false
}
