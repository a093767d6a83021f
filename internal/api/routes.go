package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"gymflow/membership-app/internal/domain"
	"gymflow/membership-app/internal/service"
)

// SetupRoutes wires all handlers onto the router. The payment and salary
// groups sit behind the JWT middleware; salary payment and the customer
// dashboard are additionally admin-only.
func SetupRoutes(
	router *gin.Engine,
	jwtSecret string,
	authService service.AuthService,
	trainerService service.TrainerService,
	customerService service.CustomerService,
	paymentService service.PaymentService,
	salaryService service.SalaryService,
) {
	authHandler := NewAuthHandler(authService)
	trainerHandler := NewTrainerHandler(trainerService)
	customerHandler := NewCustomerHandler(customerService)
	paymentHandler := NewPaymentHandler(paymentService)
	salaryHandler := NewSalaryHandler(salaryService)

	authMiddleware := AuthMiddleware(jwtSecret)

	router.Use(RequestIDMiddleware())

	router.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong"})
	})

	apiV1 := router.Group("/api/v1")
	{
		authGroup := apiV1.Group("/auth")
		{
			authGroup.POST("/register", authHandler.Register)
			authGroup.POST("/login", authHandler.Login)
		}

		// Public trainer directory, used by the payment form to pick a
		// trainer for trainer-assisted plans.
		apiV1.GET("/trainers", trainerHandler.ListTrainers)
		apiV1.GET("/trainers/:trainerId", trainerHandler.GetTrainer)
	}

	protected := apiV1.Group("")
	protected.Use(authMiddleware)
	{
		protected.GET("/me", func(c *gin.Context) {
			userIDStr, err := getUserIDFromContext(c)
			if err != nil {
				abortWithError(c, http.StatusInternalServerError, "Failed to get user ID from token")
				return
			}
			role, _ := getUserRoleFromContext(c)
			c.JSON(http.StatusOK, gin.H{"userId": userIDStr, "role": role})
		})

		protected.GET("/users/:id", customerHandler.GetProfile)

		// --- Payments ---
		paymentGroup := protected.Group("/payments")
		{
			paymentGroup.POST("", paymentHandler.RecordPayment)
			paymentGroup.GET("/history/:userId", paymentHandler.PaymentHistory)
		}

		// --- Assignment & rosters ---
		protected.POST("/trainers/assignments",
			RoleMiddleware(domain.RoleAdmin, domain.RoleTrainer), trainerHandler.AssignCustomer)
		protected.GET("/trainers/:trainerId/customers", trainerHandler.GetAssignedCustomers)

		// --- Customers (admin dashboard) ---
		protected.GET("/customers", RoleMiddleware(domain.RoleAdmin), customerHandler.ListCustomers)

		// --- Salary ---
		salaryGroup := protected.Group("/salary")
		{
			salaryGroup.POST("/pay", RoleMiddleware(domain.RoleAdmin), salaryHandler.PaySalary)
			salaryGroup.GET("/history/:trainerId",
				RoleMiddleware(domain.RoleTrainer, domain.RoleAdmin), salaryHandler.SalaryHistory)
		}
	}
}
