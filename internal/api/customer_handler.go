package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"gymflow/membership-app/internal/service"
)

// CustomerHandler exposes the customer read model over HTTP.
type CustomerHandler struct {
	customerService service.CustomerService
}

// NewCustomerHandler creates a new CustomerHandler.
func NewCustomerHandler(customerService service.CustomerService) *CustomerHandler {
	return &CustomerHandler{customerService: customerService}
}

// ListCustomers returns every customer with identity and assigned trainer
// resolved. Backs the admin dashboard.
func (h *CustomerHandler) ListCustomers(c *gin.Context) {
	overviews, err := h.customerService.ListCustomers(c.Request.Context())
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to retrieve customers.")
		return
	}
	c.JSON(http.StatusOK, overviews)
}

// GetProfile returns the combined identity and role profile for one user.
func (h *CustomerHandler) GetProfile(c *gin.Context) {
	userID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid user ID format.")
		return
	}

	profile, err := h.customerService.GetProfile(c.Request.Context(), userID)
	if err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			abortWithError(c, http.StatusNotFound, err.Error())
		} else {
			abortWithError(c, http.StatusInternalServerError, "Server error while fetching profile.")
		}
		return
	}

	c.JSON(http.StatusOK, profile)
}
