package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Customer holds the fitness profile attached one-to-one to a User with
// the customer role.
type Customer struct {
	ID       primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID   primitive.ObjectID `bson:"userId" json:"userId"` // Unique, links to the User record
	Weight   float64            `bson:"weight" json:"weight"`
	Height   float64            `bson:"height" json:"height"`
	BodyType string             `bson:"bodyType" json:"bodyType"`

	// Set by the assignment coordinator. Nil while unassigned; reassignment
	// overwrites, it does not accumulate history.
	AssignedTrainer *primitive.ObjectID `bson:"assignedTrainer,omitempty" json:"assignedTrainer,omitempty"`

	CreatedAt time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time `bson:"updatedAt" json:"updatedAt"`
}
