package api

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"gymflow/membership-app/internal/domain"
	"gymflow/membership-app/internal/service"
)

// AuthHandler holds the authentication service dependency.
type AuthHandler struct {
	authService service.AuthService
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(authService service.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

// --- Request/Response Structs ---

type RegisterRequest struct {
	Username string      `json:"username" binding:"required"`
	Email    string      `json:"email" binding:"required,email"`
	Password string      `json:"password" binding:"required,min=8"`
	Mobile   string      `json:"mobile"`
	Role     domain.Role `json:"role" binding:"required,oneof=trainer customer"`

	// Trainer profile
	Experience float64 `json:"experience"`
	Age        int     `json:"age"`

	// Customer profile
	Weight   float64 `json:"weight"`
	Height   float64 `json:"height"`
	BodyType string  `json:"body_type"`
}

// UserResponse excludes sensitive info like password hash
type UserResponse struct {
	ID               string      `json:"id"`
	Username         string      `json:"username"`
	Email            string      `json:"email"`
	Role             domain.Role `json:"role"`
	MembershipPlan   string      `json:"membershipPlan,omitempty"`
	MembershipExpiry *time.Time  `json:"membershipExpiry,omitempty"`
	PaymentStatus    string      `json:"paymentStatus"`
	CreatedAt        time.Time   `json:"createdAt"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type LoginResponse struct {
	Token string       `json:"token"`
	User  UserResponse `json:"user"`
}

// MapUserToResponse converts a domain.User to its API representation.
func MapUserToResponse(u *domain.User) UserResponse {
	if u == nil {
		return UserResponse{}
	}
	return UserResponse{
		ID:               u.ID.Hex(),
		Username:         u.Username,
		Email:            u.Email,
		Role:             u.Role,
		MembershipPlan:   u.MembershipPlan,
		MembershipExpiry: u.MembershipExpiry,
		PaymentStatus:    string(u.PaymentStatus),
		CreatedAt:        u.CreatedAt,
	}
}

// --- Handler Methods ---

// Register creates a new user account with its role profile
// (trainer: experience/age, customer: weight/height/body type).
func (h *AuthHandler) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}

	user, err := h.authService.Register(c.Request.Context(), service.RegisterInput{
		Username:   req.Username,
		Email:      req.Email,
		Password:   req.Password,
		Mobile:     req.Mobile,
		Role:       req.Role,
		Experience: req.Experience,
		Age:        req.Age,
		Weight:     req.Weight,
		Height:     req.Height,
		BodyType:   req.BodyType,
	})
	if err != nil {
		switch {
		case errors.Is(err, service.ErrUserAlreadyExists):
			abortWithError(c, http.StatusConflict, err.Error())
		case errors.Is(err, service.ErrProfileIncomplete):
			abortWithError(c, http.StatusBadRequest, err.Error())
		case errors.Is(err, service.ErrHashingFailed):
			abortWithError(c, http.StatusInternalServerError, "Could not process registration")
		default:
			abortWithError(c, http.StatusInternalServerError, "An unexpected error occurred during registration")
		}
		return
	}

	c.JSON(http.StatusCreated, MapUserToResponse(user))
}

// Login authenticates a user and returns a JWT token.
func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}

	token, user, err := h.authService.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, service.ErrAuthenticationFailed) {
			abortWithError(c, http.StatusUnauthorized, err.Error())
		} else {
			abortWithError(c, http.StatusInternalServerError, "An unexpected error occurred during login")
		}
		return
	}

	c.JSON(http.StatusOK, LoginResponse{
		Token: token,
		User:  MapUserToResponse(user),
	})
}
