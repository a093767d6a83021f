package service

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"gymflow/membership-app/internal/domain"
	"gymflow/membership-app/internal/repository"
)

// CustomerOverview is a customer profile with its user identity and the
// assigned trainer (if any) resolved. Backs the admin dashboard listing.
type CustomerOverview struct {
	Customer        domain.Customer `json:"customer"`
	Username        string          `json:"username"`
	Email           string          `json:"email"`
	AssignedTrainer *TrainerContact `json:"assignedTrainer,omitempty"`
}

// Profile is the combined identity + role profile view for one user.
type Profile struct {
	User     domain.User      `json:"user"`
	Customer *domain.Customer `json:"customer,omitempty"`
	Trainer  *domain.Trainer  `json:"trainer,omitempty"`
}

type CustomerService interface {
	ListCustomers(ctx context.Context) ([]CustomerOverview, error)
	GetProfile(ctx context.Context, userID primitive.ObjectID) (*Profile, error)
}

// customerService implements the CustomerService interface.
type customerService struct {
	userRepo     repository.UserRepository
	customerRepo repository.CustomerRepository
	trainerRepo  repository.TrainerRepository
}

// NewCustomerService creates a new instance of customerService.
func NewCustomerService(
	userRepo repository.UserRepository,
	customerRepo repository.CustomerRepository,
	trainerRepo repository.TrainerRepository,
) CustomerService {
	return &customerService{
		userRepo:     userRepo,
		customerRepo: customerRepo,
		trainerRepo:  trainerRepo,
	}
}

// ListCustomers returns every customer profile with identity and assigned
// trainer resolved.
func (s *customerService) ListCustomers(ctx context.Context) ([]CustomerOverview, error) {
	customers, err := s.customerRepo.List(ctx)
	if err != nil {
		return nil, err
	}

	overviews := make([]CustomerOverview, 0, len(customers))
	for _, c := range customers {
		overview := CustomerOverview{Customer: c}

		user, err := s.userRepo.GetByID(ctx, c.UserID)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				continue // orphaned profile, skip
			}
			return nil, err
		}
		overview.Username = user.Username
		overview.Email = user.Email

		if c.AssignedTrainer != nil {
			contact, err := s.resolveTrainerContact(ctx, *c.AssignedTrainer)
			if err != nil {
				return nil, err
			}
			overview.AssignedTrainer = contact
		}

		overviews = append(overviews, overview)
	}
	return overviews, nil
}

// GetProfile returns the user with whichever role profile exists for it.
func (s *customerService) GetProfile(ctx context.Context, userID primitive.ObjectID) (*Profile, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	user.PasswordHash = ""

	profile := &Profile{User: *user}

	switch user.Role {
	case domain.RoleCustomer:
		customer, err := s.customerRepo.GetByUserID(ctx, userID)
		if err != nil && !errors.Is(err, repository.ErrNotFound) {
			return nil, err
		}
		if err == nil {
			profile.Customer = customer
		}
	case domain.RoleTrainer:
		trainer, err := s.trainerRepo.GetByUserID(ctx, userID)
		if err != nil && !errors.Is(err, repository.ErrNotFound) {
			return nil, err
		}
		if err == nil {
			profile.Trainer = trainer
		}
	}

	return profile, nil
}

// resolveTrainerContact maps a trainer document ID to the trainer's user
// identity. Dangling references resolve to nil rather than an error.
func (s *customerService) resolveTrainerContact(ctx context.Context, trainerID primitive.ObjectID) (*TrainerContact, error) {
	trainer, err := s.trainerRepo.GetByID(ctx, trainerID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}
	user, err := s.userRepo.GetByID(ctx, trainer.UserID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &TrainerContact{Username: user.Username, Email: user.Email}, nil
}
