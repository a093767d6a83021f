package service

// In-memory implementations of the repository interfaces for service tests.
// They mirror the mongo repositories' semantics: unique-key conflicts map to
// repository.ErrConflict, missing documents to repository.ErrNotFound, and
// AppendSalaryRecord performs its period check and append under one lock,
// matching the single-document atomic update the real store issues.

import (
	"context"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"gymflow/membership-app/internal/domain"
	"gymflow/membership-app/internal/repository"
)

type memStore struct {
	mu        sync.Mutex
	users     map[primitive.ObjectID]*domain.User
	customers map[primitive.ObjectID]*domain.Customer // keyed by user ID
	trainers  map[primitive.ObjectID]*domain.Trainer
	payments  []*domain.Payment
}

func newMemStore() *memStore {
	return &memStore{
		users:     make(map[primitive.ObjectID]*domain.User),
		customers: make(map[primitive.ObjectID]*domain.Customer),
		trainers:  make(map[primitive.ObjectID]*domain.Trainer),
	}
}

// --- UserRepository ---

type memUserRepo struct{ s *memStore }

func (r *memUserRepo) Create(_ context.Context, user *domain.User) (primitive.ObjectID, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, u := range r.s.users {
		if u.Email == user.Email || u.Username == user.Username {
			return primitive.NilObjectID, repository.ErrConflict
		}
	}
	user.ID = primitive.NewObjectID()
	user.CreatedAt = time.Now().UTC()
	user.UpdatedAt = user.CreatedAt
	if user.PaymentStatus == "" {
		user.PaymentStatus = domain.MembershipUnpaid
	}
	cp := *user
	r.s.users[user.ID] = &cp
	return user.ID, nil
}

func (r *memUserRepo) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, u := range r.s.users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *memUserRepo) GetByID(_ context.Context, id primitive.ObjectID) (*domain.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	u, ok := r.s.users[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := *u
	return &cp, nil
}

func (r *memUserRepo) ActivateMembership(_ context.Context, userID primitive.ObjectID, plan string, expiry time.Time) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	u, ok := r.s.users[userID]
	if !ok {
		return repository.ErrNotFound
	}
	u.MembershipPlan = plan
	e := expiry.UTC()
	u.MembershipExpiry = &e
	u.PaymentStatus = domain.MembershipPaid
	u.UpdatedAt = time.Now().UTC()
	return nil
}

// --- CustomerRepository ---

type memCustomerRepo struct{ s *memStore }

func (r *memCustomerRepo) Create(_ context.Context, customer *domain.Customer) (primitive.ObjectID, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, exists := r.s.customers[customer.UserID]; exists {
		return primitive.NilObjectID, repository.ErrConflict
	}
	customer.ID = primitive.NewObjectID()
	customer.CreatedAt = time.Now().UTC()
	customer.UpdatedAt = customer.CreatedAt
	cp := *customer
	r.s.customers[customer.UserID] = &cp
	return customer.ID, nil
}

func (r *memCustomerRepo) GetByUserID(_ context.Context, userID primitive.ObjectID) (*domain.Customer, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	c, ok := r.s.customers[userID]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := *c
	return &cp, nil
}

func (r *memCustomerRepo) SetAssignedTrainer(_ context.Context, customerUserID, trainerID primitive.ObjectID) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	c, ok := r.s.customers[customerUserID]
	if !ok {
		return repository.ErrNotFound
	}
	id := trainerID
	c.AssignedTrainer = &id
	c.UpdatedAt = time.Now().UTC()
	return nil
}

func (r *memCustomerRepo) List(_ context.Context) ([]domain.Customer, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := make([]domain.Customer, 0, len(r.s.customers))
	for _, c := range r.s.customers {
		out = append(out, *c)
	}
	return out, nil
}

// --- TrainerRepository ---

type memTrainerRepo struct{ s *memStore }

func (r *memTrainerRepo) Create(_ context.Context, trainer *domain.Trainer) (primitive.ObjectID, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, t := range r.s.trainers {
		if t.UserID == trainer.UserID {
			return primitive.NilObjectID, repository.ErrConflict
		}
	}
	trainer.ID = primitive.NewObjectID()
	trainer.CreatedAt = time.Now().UTC()
	trainer.UpdatedAt = trainer.CreatedAt
	cp := *trainer
	r.s.trainers[trainer.ID] = &cp
	return trainer.ID, nil
}

func (r *memTrainerRepo) GetByID(_ context.Context, id primitive.ObjectID) (*domain.Trainer, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	t, ok := r.s.trainers[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := *t
	cp.CustomerIDs = append([]primitive.ObjectID(nil), t.CustomerIDs...)
	cp.SalaryHistory = append([]domain.SalaryRecord(nil), t.SalaryHistory...)
	return &cp, nil
}

func (r *memTrainerRepo) GetByUserID(_ context.Context, userID primitive.ObjectID) (*domain.Trainer, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, t := range r.s.trainers {
		if t.UserID == userID {
			cp := *t
			return &cp, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *memTrainerRepo) List(_ context.Context) ([]domain.Trainer, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := make([]domain.Trainer, 0, len(r.s.trainers))
	for _, t := range r.s.trainers {
		out = append(out, *t)
	}
	return out, nil
}

func (r *memTrainerRepo) AddCustomer(_ context.Context, trainerID, customerUserID primitive.ObjectID) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	t, ok := r.s.trainers[trainerID]
	if !ok {
		return repository.ErrNotFound
	}
	for _, id := range t.CustomerIDs {
		if id == customerUserID {
			return nil // set-insert: already present
		}
	}
	t.CustomerIDs = append(t.CustomerIDs, customerUserID)
	t.UpdatedAt = time.Now().UTC()
	return nil
}

func (r *memTrainerRepo) AppendSalaryRecord(_ context.Context, trainerID primitive.ObjectID, record domain.SalaryRecord) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	t, ok := r.s.trainers[trainerID]
	if !ok {
		return repository.ErrNotFound
	}
	for _, rec := range t.SalaryHistory {
		if rec.Month == record.Month && rec.Year == record.Year {
			return repository.ErrConflict
		}
	}
	t.SalaryHistory = append(t.SalaryHistory, record)
	t.UpdatedAt = time.Now().UTC()
	return nil
}

// --- PaymentRepository ---

type memPaymentRepo struct{ s *memStore }

func (r *memPaymentRepo) Create(_ context.Context, payment *domain.Payment) (primitive.ObjectID, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, p := range r.s.payments {
		if p.TransactionID == payment.TransactionID {
			return primitive.NilObjectID, repository.ErrConflict
		}
	}
	payment.ID = primitive.NewObjectID()
	payment.CreatedAt = time.Now().UTC()
	cp := *payment
	r.s.payments = append(r.s.payments, &cp)
	return payment.ID, nil
}

func (r *memPaymentRepo) GetByUserID(_ context.Context, userID primitive.ObjectID) ([]domain.Payment, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []domain.Payment
	for _, p := range r.s.payments {
		if p.UserID == userID {
			out = append(out, *p)
		}
	}
	return out, nil
}

// --- Seed helpers ---

// seedTrainer inserts a user with the trainer role plus its trainer profile
// and returns the trainer document.
func seedTrainer(s *memStore, username string, experience float64) *domain.Trainer {
	userRepo := &memUserRepo{s}
	trainerRepo := &memTrainerRepo{s}

	user := &domain.User{
		Username:     username,
		Email:        username + "@gym.test",
		PasswordHash: "x",
		Role:         domain.RoleTrainer,
	}
	userID, _ := userRepo.Create(context.Background(), user)

	trainer := &domain.Trainer{
		UserID:     userID,
		Experience: experience,
		Age:        30,
		Salary:     750,
	}
	trainerID, _ := trainerRepo.Create(context.Background(), trainer)
	trainer.ID = trainerID
	return trainer
}

// seedCustomer inserts a user with the customer role plus its customer
// profile and returns the user ID.
func seedCustomer(s *memStore, username string) primitive.ObjectID {
	userRepo := &memUserRepo{s}
	customerRepo := &memCustomerRepo{s}

	user := &domain.User{
		Username:     username,
		Email:        username + "@gym.test",
		PasswordHash: "x",
		Role:         domain.RoleCustomer,
	}
	userID, _ := userRepo.Create(context.Background(), user)

	customer := &domain.Customer{
		UserID:   userID,
		Weight:   80,
		Height:   180,
		BodyType: "mesomorph",
	}
	_, _ = customerRepo.Create(context.Background(), customer)
	return userID
}
