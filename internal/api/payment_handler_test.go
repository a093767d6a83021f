package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"gymflow/membership-app/internal/domain"
	"gymflow/membership-app/internal/service"
)

type mockPaymentService struct {
	mock.Mock
}

func (m *mockPaymentService) RecordPayment(ctx context.Context, userID primitive.ObjectID, planName string, amount float64, membershipType domain.MembershipType, transactionID string, assignedTrainer *primitive.ObjectID) (*service.PaymentReceipt, error) {
	args := m.Called(ctx, userID, planName, amount, membershipType, transactionID, assignedTrainer)
	if receipt := args.Get(0); receipt != nil {
		return receipt.(*service.PaymentReceipt), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockPaymentService) PaymentHistory(ctx context.Context, userID primitive.ObjectID) ([]service.PaymentHistoryEntry, error) {
	args := m.Called(ctx, userID)
	if entries := args.Get(0); entries != nil {
		return entries.([]service.PaymentHistoryEntry), args.Error(1)
	}
	return nil, args.Error(1)
}

// asAuthenticated injects the identity AuthMiddleware would have resolved
// from a valid token.
func asAuthenticated(userID primitive.ObjectID, role domain.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(ContextUserIDKey, userID.Hex())
		c.Set(ContextUserRoleKey, role)
		c.Next()
	}
}

func newPaymentTestRouter(svc service.PaymentService, caller primitive.ObjectID) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	handler := NewPaymentHandler(svc)
	group := router.Group("/api/v1/payments")
	group.Use(asAuthenticated(caller, domain.RoleCustomer))
	group.POST("", handler.RecordPayment)
	group.GET("/history/:userId", handler.PaymentHistory)
	return router
}

func TestRecordPaymentHandler(t *testing.T) {
	caller := primitive.NewObjectID()
	svc := new(mockPaymentService)
	router := newPaymentTestRouter(svc, caller)

	receipt := &service.PaymentReceipt{
		PaymentID:     primitive.NewObjectID(),
		TransactionID: "txn-001",
		RecordedAt:    time.Now().UTC(),
	}
	svc.On("RecordPayment", mock.Anything, caller, "1-month", 800.0,
		domain.MembershipStandard, "txn-001", (*primitive.ObjectID)(nil)).
		Return(receipt, nil)

	body, _ := json.Marshal(map[string]any{
		"plan_name":       "1-month",
		"amount":          800,
		"membership_type": "standard",
		"transaction_id":  "txn-001",
	})
	req := httptest.NewRequest(http.MethodPost, "/api/v1/payments", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusCreated, rec.Code)

	var resp PaymentReceiptResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "Payment successful!", resp.Message)
	assert.Equal(t, receipt.PaymentID.Hex(), resp.PaymentID)
	assert.Equal(t, "txn-001", resp.TransactionID)
	svc.AssertExpectations(t)
}

func TestRecordPaymentHandlerExplicitUserID(t *testing.T) {
	caller := primitive.NewObjectID()
	target := primitive.NewObjectID()
	svc := new(mockPaymentService)
	router := newPaymentTestRouter(svc, caller)

	svc.On("RecordPayment", mock.Anything, target, "3-month", 2000.0,
		domain.MembershipStandard, "txn-002", (*primitive.ObjectID)(nil)).
		Return(&service.PaymentReceipt{PaymentID: primitive.NewObjectID(), TransactionID: "txn-002"}, nil)

	body, _ := json.Marshal(map[string]any{
		"user_id":         target.Hex(),
		"plan_name":       "3-month",
		"amount":          2000,
		"membership_type": "standard",
		"transaction_id":  "txn-002",
	})
	req := httptest.NewRequest(http.MethodPost, "/api/v1/payments", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusCreated, rec.Code)
	svc.AssertExpectations(t)
}

func TestRecordPaymentHandlerErrorMapping(t *testing.T) {
	caller := primitive.NewObjectID()

	tests := []struct {
		name       string
		serviceErr error
		wantStatus int
	}{
		{"amount mismatch", service.ErrAmountMismatch, http.StatusBadRequest},
		{"invalid amount", service.ErrInvalidAmount, http.StatusBadRequest},
		{"unknown user", service.ErrUserNotFound, http.StatusNotFound},
		{"no customer profile", service.ErrCustomerNotFound, http.StatusNotFound},
		{"unknown trainer", service.ErrTrainerNotFound, http.StatusNotFound},
		{"duplicate transaction", service.ErrDuplicateTransaction, http.StatusConflict},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := new(mockPaymentService)
			router := newPaymentTestRouter(svc, caller)
			svc.On("RecordPayment", mock.Anything, caller, mock.Anything, mock.Anything,
				mock.Anything, mock.Anything, mock.Anything).
				Return(nil, tt.serviceErr)

			body, _ := json.Marshal(map[string]any{
				"plan_name":       "1-month",
				"amount":          800,
				"membership_type": "standard",
				"transaction_id":  "txn-dup",
			})
			req := httptest.NewRequest(http.MethodPost, "/api/v1/payments", bytes.NewReader(body))
			req.Header.Set("Content-Type", "application/json")
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, req)

			assert.Equal(t, tt.wantStatus, rec.Code)
		})
	}
}

func TestRecordPaymentHandlerMissingFields(t *testing.T) {
	caller := primitive.NewObjectID()
	svc := new(mockPaymentService)
	router := newPaymentTestRouter(svc, caller)

	// transaction_id absent, binding fails before the service is reached.
	body, _ := json.Marshal(map[string]any{
		"plan_name":       "1-month",
		"amount":          800,
		"membership_type": "standard",
	})
	req := httptest.NewRequest(http.MethodPost, "/api/v1/payments", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	svc.AssertNotCalled(t, "RecordPayment")
}

func TestRecordPaymentHandlerBadTrainerID(t *testing.T) {
	caller := primitive.NewObjectID()
	svc := new(mockPaymentService)
	router := newPaymentTestRouter(svc, caller)

	body, _ := json.Marshal(map[string]any{
		"plan_name":        "1-month",
		"amount":           1200,
		"membership_type":  "trainer_assisted",
		"transaction_id":   "txn-003",
		"assigned_trainer": "not-a-hex-id",
	})
	req := httptest.NewRequest(http.MethodPost, "/api/v1/payments", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	svc.AssertNotCalled(t, "RecordPayment")
}

func TestPaymentHistoryHandler(t *testing.T) {
	caller := primitive.NewObjectID()
	svc := new(mockPaymentService)
	router := newPaymentTestRouter(svc, caller)

	payment := domain.Payment{
		ID:             primitive.NewObjectID(),
		UserID:         caller,
		PlanName:       "3-month",
		Amount:         3000,
		MembershipType: domain.MembershipTrainerAssisted,
		TransactionID:  "txn-010",
		Status:         domain.PaymentSuccessful,
		CreatedAt:      time.Date(2026, time.March, 5, 12, 0, 0, 0, time.UTC),
	}
	entries := []service.PaymentHistoryEntry{
		{
			Payment:         payment,
			AssignedTrainer: &service.TrainerContact{Username: "coach", Email: "coach@gym.test"},
		},
	}
	svc.On("PaymentHistory", mock.Anything, caller).Return(entries, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/payments/history/"+caller.Hex(), nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var items []PaymentHistoryItem
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &items))
	require.Len(t, items, 1)
	assert.Equal(t, payment.ID.Hex(), items[0].ID)
	assert.Equal(t, "txn-010", items[0].TransactionID)
	assert.Equal(t, "successful", items[0].PaymentStatus)
	require.NotNil(t, items[0].AssignedTrainer)
	assert.Equal(t, "coach", items[0].AssignedTrainer.Username)
}

func TestPaymentHistoryHandlerUnknownUser(t *testing.T) {
	caller := primitive.NewObjectID()
	svc := new(mockPaymentService)
	router := newPaymentTestRouter(svc, caller)

	unknown := primitive.NewObjectID()
	svc.On("PaymentHistory", mock.Anything, unknown).Return(nil, service.ErrUserNotFound)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/payments/history/"+unknown.Hex(), nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestPaymentHistoryHandlerBadID(t *testing.T) {
	caller := primitive.NewObjectID()
	svc := new(mockPaymentService)
	router := newPaymentTestRouter(svc, caller)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/payments/history/garbage", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	svc.AssertNotCalled(t, "PaymentHistory")
}
