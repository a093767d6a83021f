package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"gymflow/membership-app/internal/domain"
	"gymflow/membership-app/internal/service"
)

// PaymentHandler exposes the payment recorder over HTTP.
type PaymentHandler struct {
	paymentService service.PaymentService
}

// NewPaymentHandler creates a new PaymentHandler.
func NewPaymentHandler(paymentService service.PaymentService) *PaymentHandler {
	return &PaymentHandler{paymentService: paymentService}
}

// --- DTOs ---

type RecordPaymentRequest struct {
	UserID          string  `json:"user_id"`
	PlanName        string  `json:"plan_name" binding:"required"`
	Amount          float64 `json:"amount" binding:"required"`
	MembershipType  string  `json:"membership_type" binding:"required"`
	TransactionID   string  `json:"transaction_id" binding:"required"`
	AssignedTrainer string  `json:"assigned_trainer"`
}

type PaymentReceiptResponse struct {
	Message       string `json:"message"`
	PaymentID     string `json:"payment_id"`
	TransactionID string `json:"transaction_id"`
}

type PaymentHistoryItem struct {
	ID              string          `json:"id"`
	PlanName        string          `json:"plan_name"`
	Amount          float64         `json:"amount"`
	MembershipType  string          `json:"membership_type"`
	TransactionID   string          `json:"transaction_id"`
	PaymentStatus   string          `json:"payment_status"`
	AssignedTrainer *TrainerContact `json:"assigned_trainer"`
	CreatedAt       string          `json:"createdAt"`
}

type TrainerContact struct {
	Username string `json:"username"`
	Email    string `json:"email"`
}

// RecordPayment validates and records a single payment attempt. Recording
// never assigns the trainer: for a trainer-assisted plan the client invokes
// the assignment endpoint afterwards (two-phase by design).
func (h *PaymentHandler) RecordPayment(c *gin.Context) {
	var req RecordPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "All payment fields are required: "+err.Error())
		return
	}

	// The paying user defaults to the authenticated caller; the body field
	// lets an admin record a payment on someone's behalf.
	userIDStr := req.UserID
	if userIDStr == "" {
		var err error
		userIDStr, err = getUserIDFromContext(c)
		if err != nil {
			abortWithError(c, http.StatusUnauthorized, "Unable to identify user from token.")
			return
		}
	}
	userID, err := primitive.ObjectIDFromHex(userIDStr)
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid user ID format.")
		return
	}

	var assignedTrainer *primitive.ObjectID
	if req.AssignedTrainer != "" {
		trainerID, err := primitive.ObjectIDFromHex(req.AssignedTrainer)
		if err != nil {
			abortWithError(c, http.StatusBadRequest, "Invalid trainer ID format.")
			return
		}
		assignedTrainer = &trainerID
	}

	receipt, err := h.paymentService.RecordPayment(
		c.Request.Context(),
		userID,
		req.PlanName,
		req.Amount,
		domain.MembershipType(req.MembershipType),
		req.TransactionID,
		assignedTrainer,
	)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrMissingField),
			errors.Is(err, service.ErrInvalidAmount),
			errors.Is(err, service.ErrAmountMismatch):
			abortWithError(c, http.StatusBadRequest, err.Error())
		case errors.Is(err, service.ErrUserNotFound),
			errors.Is(err, service.ErrCustomerNotFound),
			errors.Is(err, service.ErrTrainerNotFound):
			abortWithError(c, http.StatusNotFound, err.Error())
		case errors.Is(err, service.ErrDuplicateTransaction):
			abortWithError(c, http.StatusConflict, err.Error())
		default:
			abortWithError(c, http.StatusInternalServerError, "Internal server error. Please try again later.")
		}
		return
	}

	c.JSON(http.StatusCreated, PaymentReceiptResponse{
		Message:       "Payment successful!",
		PaymentID:     receipt.PaymentID.Hex(),
		TransactionID: receipt.TransactionID,
	})
}

// PaymentHistory returns the user's payments, each augmented with the
// currently assigned trainer resolved through the customer profile.
func (h *PaymentHandler) PaymentHistory(c *gin.Context) {
	userID, err := primitive.ObjectIDFromHex(c.Param("userId"))
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid user ID format.")
		return
	}

	entries, err := h.paymentService.PaymentHistory(c.Request.Context(), userID)
	if err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			abortWithError(c, http.StatusNotFound, err.Error())
		} else {
			abortWithError(c, http.StatusInternalServerError, "Failed to fetch payment history.")
		}
		return
	}

	items := make([]PaymentHistoryItem, len(entries))
	for i, e := range entries {
		items[i] = PaymentHistoryItem{
			ID:             e.Payment.ID.Hex(),
			PlanName:       e.Payment.PlanName,
			Amount:         e.Payment.Amount,
			MembershipType: string(e.Payment.MembershipType),
			TransactionID:  e.Payment.TransactionID,
			PaymentStatus:  string(e.Payment.Status),
			CreatedAt:      e.Payment.CreatedAt.Format("2006-01-02T15:04:05Z07:00"),
		}
		if e.AssignedTrainer != nil {
			items[i].AssignedTrainer = &TrainerContact{
				Username: e.AssignedTrainer.Username,
				Email:    e.AssignedTrainer.Email,
			}
		}
	}

	c.JSON(http.StatusOK, items)
}
