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
	ErrSalaryAlreadyPaid = errors.New("salary already paid for this period")
	ErrInvalidPeriod     = errors.New("month and year are required")
)

// SalaryStatement is a trainer's salary ledger resolved with the trainer's
// username for display.
type SalaryStatement struct {
	TrainerName string                `json:"trainerName"`
	Records     []domain.SalaryRecord `json:"salaryHistory"`
}

// SalaryService is the salary ledger. Each (month, year) period transitions
// Unpaid -> Paid exactly once per trainer; the append is rejected with
// ErrSalaryAlreadyPaid ever after.
type SalaryService interface {
	PaySalary(ctx context.Context, trainerID primitive.ObjectID, month string, year int) (float64, error)
	SalaryHistory(ctx context.Context, trainerID primitive.ObjectID) (*SalaryStatement, error)
}

// salaryService implements the SalaryService interface.
type salaryService struct {
	userRepo    repository.UserRepository
	trainerRepo repository.TrainerRepository
}

// NewSalaryService creates a new instance of salaryService.
func NewSalaryService(userRepo repository.UserRepository, trainerRepo repository.TrainerRepository) SalaryService {
	return &salaryService{
		userRepo:    userRepo,
		trainerRepo: trainerRepo,
	}
}

// PaySalary appends one Paid record for the given period and returns the
// amount. The amount comes from the salary policy applied to the trainer's
// CURRENT experience, never from a cached figure. The period-uniqueness
// check and the append are a single document update in the store, so two
// concurrent calls for the same (trainer, month, year) cannot both succeed.
func (s *salaryService) PaySalary(ctx context.Context, trainerID primitive.ObjectID, month string, year int) (float64, error) {
	if trainerID == primitive.NilObjectID {
		return 0, ErrTrainerNotFound
	}
	if month == "" || year <= 0 {
		return 0, ErrInvalidPeriod
	}

	trainer, err := s.trainerRepo.GetByID(ctx, trainerID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return 0, ErrTrainerNotFound
		}
		return 0, err
	}

	amount := policy.ComputeSalary(trainer.Experience)
	now := time.Now().UTC()
	record := domain.SalaryRecord{
		Amount:   amount,
		Status:   domain.SalaryPaid,
		PaidDate: &now,
		Month:    month,
		Year:     year,
	}

	if err := s.trainerRepo.AppendSalaryRecord(ctx, trainerID, record); err != nil {
		switch {
		case errors.Is(err, repository.ErrConflict):
			return 0, ErrSalaryAlreadyPaid
		case errors.Is(err, repository.ErrNotFound):
			return 0, ErrTrainerNotFound
		}
		return 0, err
	}

	return amount, nil
}

// SalaryHistory returns the trainer's ordered ledger with the trainer's
// username resolved for display.
func (s *salaryService) SalaryHistory(ctx context.Context, trainerID primitive.ObjectID) (*SalaryStatement, error) {
	trainer, err := s.trainerRepo.GetByID(ctx, trainerID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrTrainerNotFound
		}
		return nil, err
	}

	statement := &SalaryStatement{Records: trainer.SalaryHistory}
	if statement.Records == nil {
		statement.Records = []domain.SalaryRecord{}
	}

	user, err := s.userRepo.GetByID(ctx, trainer.UserID)
	if err == nil {
		statement.TrainerName = user.Username
	} else if !errors.Is(err, repository.ErrNotFound) {
		return nil, err
	}

	return statement, nil
}
