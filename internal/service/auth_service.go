package service

import (
	"context"
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"golang.org/x/crypto/bcrypt"

	"gymflow/membership-app/internal/domain"
	"gymflow/membership-app/internal/repository"
)

// --- Error Definitions ---
var (
	ErrUserAlreadyExists    = errors.New("user with this username or email already exists")
	ErrAuthenticationFailed = errors.New("authentication failed: invalid email or password")
	ErrHashingFailed        = errors.New("failed to hash password")
	ErrTokenGeneration      = errors.New("failed to generate authentication token")
	ErrProfileIncomplete    = errors.New("role profile fields are missing")
)

// RegisterInput carries everything registration needs. The role decides
// which profile fields are required: trainers need experience and age,
// customers need weight, height and body type.
type RegisterInput struct {
	Username string
	Email    string
	Password string
	Mobile   string
	Role     domain.Role

	// Trainer profile
	Experience float64
	Age        int

	// Customer profile
	Weight   float64
	Height   float64
	BodyType string
}

type AuthService interface {
	Register(ctx context.Context, input RegisterInput) (*domain.User, error)
	Login(ctx context.Context, email, password string) (token string, user *domain.User, err error)
	// EnsureAdmin seeds the admin account on startup if it does not exist.
	EnsureAdmin(ctx context.Context, email, password string) error
	GetJWTSecret() string
}

// authService implements the AuthService interface.
type authService struct {
	userRepo      repository.UserRepository
	customerRepo  repository.CustomerRepository
	trainerRepo   repository.TrainerRepository
	jwtSecret     string
	jwtExpiration time.Duration
}

// NewAuthService creates a new instance of authService.
func NewAuthService(
	userRepo repository.UserRepository,
	customerRepo repository.CustomerRepository,
	trainerRepo repository.TrainerRepository,
	jwtSecret string,
	jwtExpiration time.Duration,
) AuthService {
	if jwtSecret == "" {
		panic("JWT secret cannot be empty") // Critical configuration
	}
	if jwtExpiration <= 0 {
		jwtExpiration = time.Hour * 1
	}
	return &authService{
		userRepo:      userRepo,
		customerRepo:  customerRepo,
		trainerRepo:   trainerRepo,
		jwtSecret:     jwtSecret,
		jwtExpiration: jwtExpiration,
	}
}

// Register creates the identity record plus the role-specific profile
// (Trainer or Customer) in one flow.
func (s *authService) Register(ctx context.Context, input RegisterInput) (*domain.User, error) {
	if input.Username == "" || input.Email == "" || input.Password == "" || input.Role == "" {
		return nil, errors.New("username, email, password, and role cannot be empty")
	}
	switch input.Role {
	case domain.RoleTrainer:
		if input.Experience < 0 || input.Age <= 0 {
			return nil, ErrProfileIncomplete
		}
	case domain.RoleCustomer:
		if input.Weight <= 0 || input.Height <= 0 || input.BodyType == "" {
			return nil, ErrProfileIncomplete
		}
	case domain.RoleAdmin:
		// No profile document for admins.
	default:
		return nil, errors.New("unknown role: " + string(input.Role))
	}

	// Check if user already exists
	_, err := s.userRepo.GetByEmail(ctx, input.Email)
	if err == nil {
		return nil, ErrUserAlreadyExists
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return nil, err
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, ErrHashingFailed
	}

	user := &domain.User{
		Username:      input.Username,
		Email:         input.Email,
		PasswordHash:  string(hashedPassword),
		Mobile:        input.Mobile,
		Role:          input.Role,
		PaymentStatus: domain.MembershipUnpaid,
	}

	userID, err := s.userRepo.Create(ctx, user)
	if err != nil {
		// The unique indexes win any race between the GetByEmail check and
		// the insert.
		if errors.Is(err, repository.ErrConflict) {
			return nil, ErrUserAlreadyExists
		}
		return nil, err
	}
	user.ID = userID

	switch input.Role {
	case domain.RoleTrainer:
		trainer := &domain.Trainer{
			UserID:     userID,
			Experience: input.Experience,
			Age:        input.Age,
			Salary:     750,
		}
		if _, err := s.trainerRepo.Create(ctx, trainer); err != nil {
			return nil, err
		}
	case domain.RoleCustomer:
		customer := &domain.Customer{
			UserID:   userID,
			Weight:   input.Weight,
			Height:   input.Height,
			BodyType: input.BodyType,
		}
		if _, err := s.customerRepo.Create(ctx, customer); err != nil {
			return nil, err
		}
	}

	user.PasswordHash = ""
	return user, nil
}

// Login handles user authentication and JWT generation.
func (s *authService) Login(ctx context.Context, email, password string) (token string, user *domain.User, err error) {
	if email == "" || password == "" {
		err = errors.New("email and password cannot be empty")
		return
	}

	user, err = s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			err = ErrAuthenticationFailed
			return
		}
		return
	}

	err = bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password))
	if err != nil {
		err = ErrAuthenticationFailed
		user = nil
		return
	}

	token, err = s.generateJWT(user)
	if err != nil {
		return "", nil, ErrTokenGeneration
	}

	user.PasswordHash = ""
	return token, user, nil
}

// EnsureAdmin creates the configured admin account when no user with that
// email exists yet. Safe to call on every startup.
func (s *authService) EnsureAdmin(ctx context.Context, email, password string) error {
	if email == "" || password == "" {
		return errors.New("admin email and password cannot be empty")
	}

	_, err := s.userRepo.GetByEmail(ctx, email)
	if err == nil {
		return nil // already seeded
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return err
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return ErrHashingFailed
	}

	admin := &domain.User{
		Username:      "admin",
		Email:         email,
		PasswordHash:  string(hashedPassword),
		Role:          domain.RoleAdmin,
		PaymentStatus: domain.MembershipUnpaid,
	}
	_, err = s.userRepo.Create(ctx, admin)
	if errors.Is(err, repository.ErrConflict) {
		return nil // another instance seeded it first
	}
	return err
}

// --- JWT Helper ---

// jwtClaims defines the structure of the JWT payload.
type jwtClaims struct {
	UserID string      `json:"uid"`
	Role   domain.Role `json:"role"`
	jwt.RegisteredClaims
}

// generateJWT creates a new JWT token for the given user.
func (s *authService) generateJWT(user *domain.User) (string, error) {
	expirationTime := time.Now().Add(s.jwtExpiration)
	claims := &jwtClaims{
		UserID: user.ID.Hex(),
		Role:   user.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID.Hex(),
			ExpiresAt: jwt.NewNumericDate(expirationTime),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			Issuer:    "gymflow",
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signedToken, err := token.SignedString([]byte(s.jwtSecret))
	if err != nil {
		return "", err
	}
	return signedToken, nil
}

// GetJWTSecret returns the JWT secret for middleware authentication
func (s *authService) GetJWTSecret() string {
	return s.jwtSecret
}
