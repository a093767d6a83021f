package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"gymflow/membership-app/internal/domain"
	"gymflow/membership-app/internal/policy"
)

func newTrainerService(s *memStore) TrainerService {
	return NewTrainerService(&memUserRepo{s}, &memCustomerRepo{s}, &memTrainerRepo{s})
}

func TestAssignCustomerToTrainer(t *testing.T) {
	store := newMemStore()
	trainer := seedTrainer(store, "coach-hal", 2)
	customerUserID := seedCustomer(store, "member-ida")
	svc := newTrainerService(store)

	err := svc.AssignCustomerToTrainer(context.Background(), trainer.ID, customerUserID, "3-month")
	require.NoError(t, err)

	savedTrainer, err := (&memTrainerRepo{store}).GetByID(context.Background(), trainer.ID)
	require.NoError(t, err)
	assert.True(t, savedTrainer.HasCustomer(customerUserID), "trainer roster must contain the customer")

	savedCustomer, err := (&memCustomerRepo{store}).GetByUserID(context.Background(), customerUserID)
	require.NoError(t, err)
	require.NotNil(t, savedCustomer.AssignedTrainer)
	assert.Equal(t, trainer.ID, *savedCustomer.AssignedTrainer)

	savedUser, err := (&memUserRepo{store}).GetByID(context.Background(), customerUserID)
	require.NoError(t, err)
	assert.Equal(t, domain.MembershipPaid, savedUser.PaymentStatus)
	assert.Equal(t, "3-month", savedUser.MembershipPlan)
	require.NotNil(t, savedUser.MembershipExpiry)
	assert.WithinDuration(t, policy.ComputeExpiry(time.Now().UTC()), *savedUser.MembershipExpiry, 5*time.Second,
		"expiry must land exactly one calendar month out")
}

func TestAssignCustomerToTrainerIdempotent(t *testing.T) {
	store := newMemStore()
	trainer := seedTrainer(store, "coach-jon", 2)
	customerUserID := seedCustomer(store, "member-kay")
	svc := newTrainerService(store)

	require.NoError(t, svc.AssignCustomerToTrainer(context.Background(), trainer.ID, customerUserID, "1-month"))

	firstUser, _ := (&memUserRepo{store}).GetByID(context.Background(), customerUserID)
	firstExpiry := *firstUser.MembershipExpiry

	require.NoError(t, svc.AssignCustomerToTrainer(context.Background(), trainer.ID, customerUserID, "1-month"))

	savedTrainer, _ := (&memTrainerRepo{store}).GetByID(context.Background(), trainer.ID)
	count := 0
	for _, id := range savedTrainer.CustomerIDs {
		if id == customerUserID {
			count++
		}
	}
	assert.Equal(t, 1, count, "repeated assignment must not duplicate the roster entry")

	secondUser, _ := (&memUserRepo{store}).GetByID(context.Background(), customerUserID)
	assert.True(t, secondUser.MembershipExpiry.After(firstExpiry) || secondUser.MembershipExpiry.Equal(firstExpiry),
		"renewal must never move expiry backwards")
}

func TestAssignCustomerReassignmentReplaces(t *testing.T) {
	store := newMemStore()
	first := seedTrainer(store, "coach-lee", 2)
	second := seedTrainer(store, "coach-mia", 4)
	customerUserID := seedCustomer(store, "member-ned")
	svc := newTrainerService(store)

	require.NoError(t, svc.AssignCustomerToTrainer(context.Background(), first.ID, customerUserID, "1-month"))
	require.NoError(t, svc.AssignCustomerToTrainer(context.Background(), second.ID, customerUserID, "1-month"))

	savedCustomer, _ := (&memCustomerRepo{store}).GetByUserID(context.Background(), customerUserID)
	require.NotNil(t, savedCustomer.AssignedTrainer)
	assert.Equal(t, second.ID, *savedCustomer.AssignedTrainer, "reassignment replaces the previous trainer")
}

func TestAssignCustomerToTrainerNotFoundErrors(t *testing.T) {
	store := newMemStore()
	trainer := seedTrainer(store, "coach-oli", 2)
	customerUserID := seedCustomer(store, "member-pam")
	svc := newTrainerService(store)

	err := svc.AssignCustomerToTrainer(context.Background(), primitive.NewObjectID(), customerUserID, "1-month")
	assert.ErrorIs(t, err, ErrTrainerNotFound)

	err = svc.AssignCustomerToTrainer(context.Background(), trainer.ID, primitive.NewObjectID(), "1-month")
	assert.ErrorIs(t, err, ErrCustomerNotFound)

	// Customer profile without a user record: the user check must fire.
	orphanUserID := primitive.NewObjectID()
	store.mu.Lock()
	store.customers[orphanUserID] = &domain.Customer{
		ID:     primitive.NewObjectID(),
		UserID: orphanUserID,
	}
	store.mu.Unlock()

	err = svc.AssignCustomerToTrainer(context.Background(), trainer.ID, orphanUserID, "1-month")
	assert.ErrorIs(t, err, ErrUserNotFound)

	// No writes may have landed from the failed calls.
	savedTrainer, _ := (&memTrainerRepo{store}).GetByID(context.Background(), trainer.ID)
	assert.Empty(t, savedTrainer.CustomerIDs)
}

func TestGetAssignedCustomers(t *testing.T) {
	store := newMemStore()
	trainer := seedTrainer(store, "coach-quin", 2)
	first := seedCustomer(store, "member-rae")
	second := seedCustomer(store, "member-sam")
	svc := newTrainerService(store)

	require.NoError(t, svc.AssignCustomerToTrainer(context.Background(), trainer.ID, first, "1-month"))
	require.NoError(t, svc.AssignCustomerToTrainer(context.Background(), trainer.ID, second, "1-month"))

	roster, err := svc.GetAssignedCustomers(context.Background(), trainer.ID)
	require.NoError(t, err)
	require.Len(t, roster, 2)
	assert.Equal(t, "member-rae", roster[0].Username)
	assert.Equal(t, "member-rae@gym.test", roster[0].Email)
	assert.Equal(t, "member-sam", roster[1].Username)
}

func TestGetTrainer(t *testing.T) {
	store := newMemStore()
	trainer := seedTrainer(store, "coach-tess", 5)
	svc := newTrainerService(store)

	got, err := svc.GetTrainer(context.Background(), trainer.ID)
	require.NoError(t, err)
	assert.Equal(t, trainer.UserID, got.UserID)
	assert.Equal(t, float64(5), got.Experience)

	_, err = svc.GetTrainer(context.Background(), primitive.NewObjectID())
	assert.ErrorIs(t, err, ErrTrainerNotFound)
}
