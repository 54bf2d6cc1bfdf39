package services

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"log"
	"time"

	"kriya/internal/models"
	"kriya/internal/repositories"

	"github.com/dgrijalva/jwt-go"
	"github.com/go-playground/validator/v10"
	"golang.org/x/crypto/bcrypt"
)

// Mailer delivers transactional mail. A nil Mailer disables mail entirely;
// delivery failures are logged and never fail the triggering operation.
type Mailer interface {
	Send(to, subject, body string) error
}

// AuthService handles business logic for authentication and authorization.
type AuthService struct {
	userRepo   repositories.UserRepository
	mailer     Mailer
	jwtSecret  []byte
	tokenDurat time.Duration // Duration for which JWT is valid
	clientURL  string        // Base URL used in verification links
	validate   *validator.Validate
}

// NewAuthService creates a new AuthService. mailer may be nil.
func NewAuthService(userRepo repositories.UserRepository, mailer Mailer, jwtSecret, clientURL string) *AuthService {
	return &AuthService{
		userRepo:   userRepo,
		mailer:     mailer,
		jwtSecret:  []byte(jwtSecret),
		tokenDurat: 24 * time.Hour, // Token valid for 24 hours
		clientURL:  clientURL,
		validate:   validator.New(),
	}
}

// RegisterInput is the payload for user registration.
type RegisterInput struct {
	Name     string `json:"name" validate:"required,min=2,max=100"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
	Role     string `json:"role" validate:"omitempty,oneof=buyer artisan admin"`
	Phone    string `json:"phone" validate:"omitempty,max=30"`
}

// RegisterUser registers a new user, hashes their password and sends a
// verification mail (best effort). Returns the stored user and a signed
// session token.
func (s *AuthService) RegisterUser(input RegisterInput) (*models.User, string, error) {
	if err := s.validate.Struct(input); err != nil {
		return nil, "", validationError(err)
	}

	if existingUser, err := s.userRepo.GetByEmail(input.Email); err == nil && existingUser != nil {
		return nil, "", fmt.Errorf("user with email '%s' %w", input.Email, ErrConflict)
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, "", fmt.Errorf("failed to hash password: %w", err)
	}

	role := input.Role
	if role == "" {
		role = models.RoleBuyer
	}

	user := &models.User{
		Name:                   input.Name,
		Email:                  input.Email,
		Password:               string(hashedPassword),
		Role:                   role,
		Phone:                  input.Phone,
		EmailVerificationToken: newVerificationToken(),
	}

	if err := s.userRepo.Create(user); err != nil {
		return nil, "", fmt.Errorf("failed to register user: %w", err)
	}

	s.sendVerificationMail(user)

	token, err := s.generateToken(user)
	if err != nil {
		return nil, "", err
	}
	return user, token, nil
}

// LoginUser authenticates a user by email and returns a JWT token if
// successful.
func (s *AuthService) LoginUser(email, password string) (string, *models.User, error) {
	user, err := s.userRepo.GetByEmail(email)
	if err != nil {
		// Do not reveal whether the email exists
		return "", nil, ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return "", nil, ErrInvalidCredentials
	}

	token, err := s.generateToken(user)
	if err != nil {
		return "", nil, err
	}
	return token, user, nil
}

// ValidateToken parses and validates a JWT token, returning the claims if valid.
func (s *AuthService) ValidateToken(tokenString string) (jwt.MapClaims, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		// Validate the alg is what we expect:
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.jwtSecret, nil
	})

	if err != nil {
		return nil, fmt.Errorf("invalid token: %w", err)
	}

	if claims, ok := token.Claims.(jwt.MapClaims); ok && token.Valid {
		return claims, nil
	}

	return nil, errors.New("invalid token")
}

// GetUserByID returns the user record for a resolved token identity.
func (s *AuthService) GetUserByID(id string) (*models.User, error) {
	return s.userRepo.GetByID(id)
}

// VerifyEmail marks the user holding the given verification token as
// verified and invalidates the token.
func (s *AuthService) VerifyEmail(token string) (*models.User, error) {
	user, err := s.userRepo.GetByVerificationToken(token)
	if err != nil {
		return nil, err
	}

	user.IsEmailVerified = true
	user.EmailVerificationToken = ""
	if err := s.userRepo.Update(user); err != nil {
		return nil, fmt.Errorf("failed to mark email verified: %w", err)
	}
	return user, nil
}

// generateToken signs a JWT carrying the user's identity and role.
func (s *AuthService) generateToken(user *models.User) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id": user.ID,
		"role":    user.Role,
		"exp":     time.Now().Add(s.tokenDurat).Unix(), // Token expiration time
		"iat":     time.Now().Unix(),                   // Issued at time
	})

	tokenString, err := token.SignedString(s.jwtSecret)
	if err != nil {
		return "", fmt.Errorf("failed to generate token: %w", err)
	}
	return tokenString, nil
}

// sendVerificationMail mails the verification link. Failures are logged and
// swallowed; registration succeeds regardless.
func (s *AuthService) sendVerificationMail(user *models.User) {
	if s.mailer == nil {
		return
	}

	verificationURL := fmt.Sprintf("%s/verify-email/%s", s.clientURL, user.EmailVerificationToken)
	body := fmt.Sprintf(
		"<h1>Welcome to the Handicraft Marketplace!</h1>"+
			"<p>Please click the link below to verify your email:</p>"+
			"<a href=%q>%s</a>",
		verificationURL, verificationURL,
	)

	if err := s.mailer.Send(user.Email, "Email Verification - Handicraft Marketplace", body); err != nil {
		log.Printf("Email send error (continuing...): %v", err)
	}
}

func newVerificationToken() string {
	b := make([]byte, 32)
	rand.Read(b)
	return hex.EncodeToString(b)
}
