package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"gymflow/membership-app/internal/service"
)

// SalaryHandler exposes the salary ledger over HTTP.
type SalaryHandler struct {
	salaryService service.SalaryService
}

// NewSalaryHandler creates a new SalaryHandler.
func NewSalaryHandler(salaryService service.SalaryService) *SalaryHandler {
	return &SalaryHandler{salaryService: salaryService}
}

// --- DTOs ---

type PaySalaryRequest struct {
	TrainerID string `json:"trainerId" binding:"required"`
	Month     string `json:"month" binding:"required"`
	Year      int    `json:"year" binding:"required"`
}

// PaySalary pays a trainer for one (month, year) period. A period already
// in the ledger comes back as 400 with a message, distinct from 404, so
// callers know a retry is wrong rather than the trainer missing.
func (h *SalaryHandler) PaySalary(c *gin.Context) {
	var req PaySalaryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "trainerId, month and year are required")
		return
	}

	trainerID, err := primitive.ObjectIDFromHex(req.TrainerID)
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid trainer ID format.")
		return
	}

	amount, err := h.salaryService.PaySalary(c.Request.Context(), trainerID, req.Month, req.Year)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrSalaryAlreadyPaid):
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"message": "Salary already paid for this period"})
		case errors.Is(err, service.ErrInvalidPeriod):
			abortWithError(c, http.StatusBadRequest, err.Error())
		case errors.Is(err, service.ErrTrainerNotFound):
			abortWithError(c, http.StatusNotFound, err.Error())
		default:
			abortWithError(c, http.StatusInternalServerError, "Error processing salary payment.")
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Salary paid successfully!",
		"salary":  amount,
	})
}

// SalaryHistory returns the trainer's salary ledger.
func (h *SalaryHandler) SalaryHistory(c *gin.Context) {
	trainerID, err := primitive.ObjectIDFromHex(c.Param("trainerId"))
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid trainer ID format.")
		return
	}

	statement, err := h.salaryService.SalaryHistory(c.Request.Context(), trainerID)
	if err != nil {
		if errors.Is(err, service.ErrTrainerNotFound) {
			abortWithError(c, http.StatusNotFound, "Trainer not found.")
		} else {
			abortWithError(c, http.StatusInternalServerError, "Internal server error.")
		}
		return
	}

	if len(statement.Records) == 0 {
		c.JSON(http.StatusOK, gin.H{
			"message":       "No salary records found.",
			"salaryHistory": []interface{}{},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":       "Salary history for trainer " + statement.TrainerName,
		"salaryHistory": statement.Records,
	})
}
