package service

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"gymflow/membership-app/internal/domain"
	"gymflow/membership-app/internal/policy"
	"gymflow/membership-app/internal/repository"
)

// --- Error Definitions ---
var (
	ErrTrainerNotFound  = errors.New("trainer not found")
	ErrCustomerNotFound = errors.New("customer not found")
	ErrUserNotFound     = errors.New("user not found")
)

// RosterEntry is a customer on a trainer's roster resolved to identity.
type RosterEntry struct {
	UserID   primitive.ObjectID `json:"userId"`
	Username string             `json:"username"`
	Email    string             `json:"email"`
}

// TrainerService is the assignment coordinator plus the trainer read model.
//
// AssignCustomerToTrainer spans three documents (trainer roster, customer
// profile, user membership) without a store transaction. The three writes
// are each idempotent, so a caller that observes a timeout or partial
// failure retries the whole call; a repeated call converges on the same
// state apart from the expiry, which advances one further month by design
// (each call corresponds to a new paid period).
type TrainerService interface {
	AssignCustomerToTrainer(ctx context.Context, trainerID, customerUserID primitive.ObjectID, membershipPlan string) error
	GetTrainer(ctx context.Context, trainerID primitive.ObjectID) (*domain.Trainer, error)
	ListTrainers(ctx context.Context) ([]domain.Trainer, error)
	GetAssignedCustomers(ctx context.Context, trainerID primitive.ObjectID) ([]RosterEntry, error)
}

// trainerService implements the TrainerService interface.
type trainerService struct {
	userRepo     repository.UserRepository
	customerRepo repository.CustomerRepository
	trainerRepo  repository.TrainerRepository
}

// NewTrainerService creates a new instance of trainerService.
func NewTrainerService(
	userRepo repository.UserRepository,
	customerRepo repository.CustomerRepository,
	trainerRepo repository.TrainerRepository,
) TrainerService {
	return &trainerService{
		userRepo:     userRepo,
		customerRepo: customerRepo,
		trainerRepo:  trainerRepo,
	}
}

// AssignCustomerToTrainer links a customer to a trainer and activates (or
// renews) the customer's membership:
//
//  1. set-insert the customer's user ID into the trainer's roster,
//  2. overwrite the customer's assigned trainer,
//  3. set the user's plan, a fresh one-month expiry, and Paid status.
//
// All three entities are verified to exist before the first write, so the
// not-found errors never leave partial state behind.
func (s *trainerService) AssignCustomerToTrainer(ctx context.Context, trainerID, customerUserID primitive.ObjectID, membershipPlan string) error {
	if trainerID == primitive.NilObjectID || customerUserID == primitive.NilObjectID {
		return errors.New("trainer ID and customer ID are required")
	}

	trainer, err := s.trainerRepo.GetByID(ctx, trainerID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrTrainerNotFound
		}
		return err
	}

	if _, err := s.customerRepo.GetByUserID(ctx, customerUserID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrCustomerNotFound
		}
		return err
	}

	if _, err := s.userRepo.GetByID(ctx, customerUserID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrUserNotFound
		}
		return err
	}

	if err := s.trainerRepo.AddCustomer(ctx, trainer.ID, customerUserID); err != nil {
		return err
	}

	if err := s.customerRepo.SetAssignedTrainer(ctx, customerUserID, trainer.ID); err != nil {
		return err
	}

	expiry := policy.ComputeExpiry(time.Now().UTC())
	return s.userRepo.ActivateMembership(ctx, customerUserID, membershipPlan, expiry)
}

// GetTrainer retrieves a single trainer profile.
func (s *trainerService) GetTrainer(ctx context.Context, trainerID primitive.ObjectID) (*domain.Trainer, error) {
	if trainerID == primitive.NilObjectID {
		return nil, errors.New("trainer ID is required")
	}
	trainer, err := s.trainerRepo.GetByID(ctx, trainerID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrTrainerNotFound
		}
		return nil, err
	}
	return trainer, nil
}

// ListTrainers retrieves all trainer profiles.
func (s *trainerService) ListTrainers(ctx context.Context) ([]domain.Trainer, error) {
	return s.trainerRepo.List(ctx)
}

// GetAssignedCustomers resolves the trainer's roster of customer user IDs
// into username/email entries.
func (s *trainerService) GetAssignedCustomers(ctx context.Context, trainerID primitive.ObjectID) ([]RosterEntry, error) {
	trainer, err := s.trainerRepo.GetByID(ctx, trainerID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrTrainerNotFound
		}
		return nil, err
	}

	roster := make([]RosterEntry, 0, len(trainer.CustomerIDs))
	for _, userID := range trainer.CustomerIDs {
		user, err := s.userRepo.GetByID(ctx, userID)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				// A deleted account leaves a dangling roster entry; skip it
				// rather than failing the whole listing.
				continue
			}
			return nil, err
		}
		roster = append(roster, RosterEntry{
			UserID:   user.ID,
			Username: user.Username,
			Email:    user.Email,
		})
	}
	return roster, nil
}
