package service

import (
	"context"
	"errors"
	"math"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"gymflow/membership-app/internal/domain"
	"gymflow/membership-app/internal/policy"
	"gymflow/membership-app/internal/repository"
)

// --- Error Definitions ---
var (
	ErrMissingField         = errors.New("all payment fields are required")
	ErrInvalidAmount        = errors.New("invalid payment amount")
	ErrAmountMismatch       = errors.New("amount does not match the price for this plan")
	ErrDuplicateTransaction = errors.New("a payment with this transaction id already exists")
)

// PaymentReceipt identifies the created payment record.
type PaymentReceipt struct {
	PaymentID     primitive.ObjectID `json:"paymentId"`
	TransactionID string             `json:"transactionId"`
	RecordedAt    time.Time          `json:"recordedAt"`
}

// TrainerContact is the resolved identity of a customer's assigned trainer,
// attached to payment history entries.
type TrainerContact struct {
	Username string `json:"username"`
	Email    string `json:"email"`
}

// PaymentHistoryEntry is one payment augmented with the customer's current
// assigned trainer (resolved through the Customer relationship, not stored
// on the payment itself).
type PaymentHistoryEntry struct {
	Payment         domain.Payment  `json:"payment"`
	AssignedTrainer *TrainerContact `json:"assigned_trainer,omitempty"`
}

// PaymentService is the payment recorder.
//
// Recording a payment does NOT assign the trainer: trainer-assisted
// purchases are a two-phase flow where the caller invokes the assignment
// coordinator after the payment is recorded. A crash between the two steps
// leaves a payment without an assignment; the caller-driven retry of the
// assignment step is the documented mitigation.
type PaymentService interface {
	RecordPayment(ctx context.Context, userID primitive.ObjectID, planName string, amount float64, membershipType domain.MembershipType, transactionID string, assignedTrainer *primitive.ObjectID) (*PaymentReceipt, error)
	PaymentHistory(ctx context.Context, userID primitive.ObjectID) ([]PaymentHistoryEntry, error)
}

// paymentService implements the PaymentService interface.
type paymentService struct {
	userRepo     repository.UserRepository
	customerRepo repository.CustomerRepository
	trainerRepo  repository.TrainerRepository
	paymentRepo  repository.PaymentRepository
}

// NewPaymentService creates a new instance of paymentService.
func NewPaymentService(
	userRepo repository.UserRepository,
	customerRepo repository.CustomerRepository,
	trainerRepo repository.TrainerRepository,
	paymentRepo repository.PaymentRepository,
) PaymentService {
	return &paymentService{
		userRepo:     userRepo,
		customerRepo: customerRepo,
		trainerRepo:  trainerRepo,
		paymentRepo:  paymentRepo,
	}
}

// RecordPayment validates and persists one payment attempt with a
// "successful" status. Validation and existence checks all run before the
// insert, so no failed call leaves a payment behind. The transactionId
// unique index rejects replays that race past the service.
func (s *paymentService) RecordPayment(
	ctx context.Context,
	userID primitive.ObjectID,
	planName string,
	amount float64,
	membershipType domain.MembershipType,
	transactionID string,
	assignedTrainer *primitive.ObjectID,
) (*PaymentReceipt, error) {
	if userID == primitive.NilObjectID || planName == "" || transactionID == "" || membershipType == "" {
		return nil, ErrMissingField
	}
	if !membershipType.Valid() {
		return nil, ErrMissingField
	}
	if math.IsNaN(amount) || math.IsInf(amount, 0) || amount <= 0 {
		return nil, ErrInvalidAmount
	}

	// Server-side price check: enforced whenever the (type, duration) pair
	// has a fixed table price, otherwise the declared amount is trusted.
	if price, ok := policy.PlanPrice(membershipType, planName); ok && amount != price {
		return nil, ErrAmountMismatch
	}

	if _, err := s.userRepo.GetByID(ctx, userID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	if _, err := s.customerRepo.GetByUserID(ctx, userID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrCustomerNotFound
		}
		return nil, err
	}

	if membershipType == domain.MembershipTrainerAssisted {
		if assignedTrainer == nil || *assignedTrainer == primitive.NilObjectID {
			return nil, ErrMissingField
		}
		if _, err := s.trainerRepo.GetByID(ctx, *assignedTrainer); err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return nil, ErrTrainerNotFound
			}
			return nil, err
		}
	}

	payment := &domain.Payment{
		UserID:          userID,
		PlanName:        planName,
		Amount:          amount,
		MembershipType:  membershipType,
		TransactionID:   transactionID,
		AssignedTrainer: assignedTrainer,
		Status:          domain.PaymentSuccessful,
	}

	paymentID, err := s.paymentRepo.Create(ctx, payment)
	if err != nil {
		if errors.Is(err, repository.ErrConflict) {
			return nil, ErrDuplicateTransaction
		}
		return nil, err
	}

	return &PaymentReceipt{
		PaymentID:     paymentID,
		TransactionID: transactionID,
		RecordedAt:    payment.CreatedAt,
	}, nil
}

// PaymentHistory returns the user's payments, each augmented with the
// customer's currently assigned trainer resolved to user identity.
func (s *paymentService) PaymentHistory(ctx context.Context, userID primitive.ObjectID) ([]PaymentHistoryEntry, error) {
	if _, err := s.userRepo.GetByID(ctx, userID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	var contact *TrainerContact
	customer, err := s.customerRepo.GetByUserID(ctx, userID)
	if err != nil && !errors.Is(err, repository.ErrNotFound) {
		return nil, err
	}
	if err == nil && customer.AssignedTrainer != nil {
		trainer, err := s.trainerRepo.GetByID(ctx, *customer.AssignedTrainer)
		if err != nil && !errors.Is(err, repository.ErrNotFound) {
			return nil, err
		}
		if err == nil {
			trainerUser, err := s.userRepo.GetByID(ctx, trainer.UserID)
			if err != nil && !errors.Is(err, repository.ErrNotFound) {
				return nil, err
			}
			if err == nil {
				contact = &TrainerContact{Username: trainerUser.Username, Email: trainerUser.Email}
			}
		}
	}

	payments, err := s.paymentRepo.GetByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}

	entries := make([]PaymentHistoryEntry, len(payments))
	for i, p := range payments {
		entries[i] = PaymentHistoryEntry{Payment: p, AssignedTrainer: contact}
	}
	return entries, nil
}
