package api

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"gymflow/membership-app/internal/domain"
	"gymflow/membership-app/internal/service"
)

// TrainerHandler exposes the assignment coordinator and the trainer read
// model over HTTP.
type TrainerHandler struct {
	trainerService service.TrainerService
}

// NewTrainerHandler creates a new TrainerHandler.
func NewTrainerHandler(trainerService service.TrainerService) *TrainerHandler {
	return &TrainerHandler{trainerService: trainerService}
}

// --- DTOs ---

type AssignCustomerRequest struct {
	TrainerID      string `json:"trainerId" binding:"required"`
	CustomerID     string `json:"customerId" binding:"required"` // customer's user ID
	MembershipPlan string `json:"membershipPlan" binding:"required"`
}

type TrainerResponse struct {
	ID            string    `json:"id"`
	UserID        string    `json:"userId"`
	Experience    float64   `json:"experience"`
	Age           int       `json:"age"`
	Salary        float64   `json:"salary"`
	CustomerCount int       `json:"numberOfCustomers"`
	CreatedAt     time.Time `json:"createdAt"`
}

// MapTrainerToResponse converts a domain.Trainer to its API representation.
func MapTrainerToResponse(t *domain.Trainer) TrainerResponse {
	if t == nil {
		return TrainerResponse{}
	}
	return TrainerResponse{
		ID:            t.ID.Hex(),
		UserID:        t.UserID.Hex(),
		Experience:    t.Experience,
		Age:           t.Age,
		Salary:        t.Salary,
		CustomerCount: len(t.CustomerIDs),
		CreatedAt:     t.CreatedAt,
	}
}

// MapTrainersToResponse converts a slice of domain.Trainer to DTOs.
func MapTrainersToResponse(trainers []domain.Trainer) []TrainerResponse {
	responses := make([]TrainerResponse, len(trainers))
	for i, t := range trainers {
		responses[i] = MapTrainerToResponse(&t)
	}
	return responses
}

// --- Handler Methods ---

// AssignCustomer links a customer to a trainer and activates (or renews)
// the customer's one-month membership.
func (h *TrainerHandler) AssignCustomer(c *gin.Context) {
	var req AssignCustomerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}

	trainerID, err := primitive.ObjectIDFromHex(req.TrainerID)
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid trainer ID format.")
		return
	}
	customerID, err := primitive.ObjectIDFromHex(req.CustomerID)
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid customer ID format.")
		return
	}

	err = h.trainerService.AssignCustomerToTrainer(c.Request.Context(), trainerID, customerID, req.MembershipPlan)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrTrainerNotFound),
			errors.Is(err, service.ErrCustomerNotFound),
			errors.Is(err, service.ErrUserNotFound):
			abortWithError(c, http.StatusNotFound, err.Error())
		default:
			abortWithError(c, http.StatusInternalServerError, "Failed to assign customer to trainer.")
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Customer assigned to trainer and membership updated successfully"})
}

// ListTrainers returns all trainer profiles.
func (h *TrainerHandler) ListTrainers(c *gin.Context) {
	trainers, err := h.trainerService.ListTrainers(c.Request.Context())
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to retrieve trainers.")
		return
	}
	c.JSON(http.StatusOK, MapTrainersToResponse(trainers))
}

// GetTrainer returns one trainer profile.
func (h *TrainerHandler) GetTrainer(c *gin.Context) {
	trainerID, err := primitive.ObjectIDFromHex(c.Param("trainerId"))
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid trainer ID format.")
		return
	}

	trainer, err := h.trainerService.GetTrainer(c.Request.Context(), trainerID)
	if err != nil {
		if errors.Is(err, service.ErrTrainerNotFound) {
			abortWithError(c, http.StatusNotFound, err.Error())
		} else {
			abortWithError(c, http.StatusInternalServerError, "Failed to retrieve trainer.")
		}
		return
	}

	c.JSON(http.StatusOK, MapTrainerToResponse(trainer))
}

// GetAssignedCustomers returns the trainer's roster resolved to identities.
func (h *TrainerHandler) GetAssignedCustomers(c *gin.Context) {
	trainerID, err := primitive.ObjectIDFromHex(c.Param("trainerId"))
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid trainer ID format.")
		return
	}

	roster, err := h.trainerService.GetAssignedCustomers(c.Request.Context(), trainerID)
	if err != nil {
		if errors.Is(err, service.ErrTrainerNotFound) {
			abortWithError(c, http.StatusNotFound, err.Error())
		} else {
			abortWithError(c, http.StatusInternalServerError, "Failed to retrieve assigned customers.")
		}
		return
	}

	c.JSON(http.StatusOK, roster)
}
