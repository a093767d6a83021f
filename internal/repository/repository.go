package repository

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"gymflow/membership-app/internal/domain"
)

// Error constants for the repository layer. Services translate these into
// their own error taxonomy; ErrConflict covers store-level uniqueness
// violations (duplicate transaction id, salary period already recorded).
var (
	ErrNotFound     = RepositoryError("not found")
	ErrConflict     = RepositoryError("conflict")
	ErrUpdateFailed = RepositoryError("update failed")
)

// RepositoryError helps distinguish repository errors
type RepositoryError string

func (e RepositoryError) Error() string {
	return string(e)
}

// UserRepository defines the interface for interacting with user identity data.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) (primitive.ObjectID, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.User, error)
	// ActivateMembership sets the membership plan, expiry and Paid status on
	// a user in one write. Called only by the assignment coordinator.
	ActivateMembership(ctx context.Context, userID primitive.ObjectID, plan string, expiry time.Time) error
}

// CustomerRepository defines the interface for interacting with customer profiles.
type CustomerRepository interface {
	Create(ctx context.Context, customer *domain.Customer) (primitive.ObjectID, error)
	GetByUserID(ctx context.Context, userID primitive.ObjectID) (*domain.Customer, error)
	SetAssignedTrainer(ctx context.Context, customerUserID, trainerID primitive.ObjectID) error
	List(ctx context.Context) ([]domain.Customer, error)
}

// TrainerRepository defines the interface for interacting with trainer profiles,
// including the embedded salary ledger.
type TrainerRepository interface {
	Create(ctx context.Context, trainer *domain.Trainer) (primitive.ObjectID, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Trainer, error)
	GetByUserID(ctx context.Context, userID primitive.ObjectID) (*domain.Trainer, error)
	List(ctx context.Context) ([]domain.Trainer, error)
	// AddCustomer appends a customer user ID to the trainer's roster as a
	// set-insert; re-adding an existing customer is a no-op, not an error.
	AddCustomer(ctx context.Context, trainerID, customerUserID primitive.ObjectID) error
	// AppendSalaryRecord appends a salary entry if and only if no entry with
	// the same (month, year) exists for the trainer. Returns ErrConflict when
	// the period is already recorded, even under concurrent callers.
	AppendSalaryRecord(ctx context.Context, trainerID primitive.ObjectID, record domain.SalaryRecord) error
}

// PaymentRepository defines the interface for interacting with payment records.
type PaymentRepository interface {
	// Create inserts a payment. Returns ErrConflict when a payment with the
	// same transaction id already exists.
	Create(ctx context.Context, payment *domain.Payment) (primitive.ObjectID, error)
	GetByUserID(ctx context.Context, userID primitive.ObjectID) ([]domain.Payment, error)
}
