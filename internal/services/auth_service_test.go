package services_test

import (
	"fmt"
	"testing"
	"time"

	"kriya/internal/models"
	"kriya/internal/repositories"
	"kriya/internal/services"

	"github.com/dgrijalva/jwt-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testJWTSecret = "test_jwt_secret"

// recordingMailer captures outgoing mail; failing makes every send error.
type recordingMailer struct {
	sent    []string
	failing bool
}

func (m *recordingMailer) Send(to, subject, body string) error {
	if m.failing {
		return fmt.Errorf("smtp unavailable")
	}
	m.sent = append(m.sent, to)
	return nil
}

func newAuthService(mail services.Mailer) (*services.AuthService, *repositories.MockUserRepository) {
	repo := repositories.NewMockUserRepository()
	return services.NewAuthService(repo, mail, testJWTSecret, "http://localhost:3000"), repo
}

func TestAuthService_RegisterUser(t *testing.T) {
	mail := &recordingMailer{}
	authService, _ := newAuthService(mail)

	user, token, err := authService.RegisterUser(services.RegisterInput{
		Name:     "Test Artisan",
		Email:    "artisan@example.com",
		Password: "password123",
		Role:     models.RoleArtisan,
	})
	assert.NoError(t, err)
	assert.NotEmpty(t, token)
	assert.NotEmpty(t, user.ID)
	assert.Equal(t, models.RoleArtisan, user.Role)
	// The password is stored hashed, never verbatim.
	assert.NotEqual(t, "password123", user.Password)
	assert.False(t, user.IsEmailVerified)
	assert.Equal(t, []string{"artisan@example.com"}, mail.sent)

	// Duplicate email is rejected with a conflict.
	_, _, err = authService.RegisterUser(services.RegisterInput{
		Name:     "Second Account",
		Email:    "artisan@example.com",
		Password: "password456",
	})
	assert.ErrorIs(t, err, services.ErrConflict)
}

func TestAuthService_RegisterUser_DefaultsToBuyer(t *testing.T) {
	authService, _ := newAuthService(nil)

	user, _, err := authService.RegisterUser(services.RegisterInput{
		Name:     "Test Buyer",
		Email:    "buyer@example.com",
		Password: "password123",
	})
	assert.NoError(t, err)
	assert.Equal(t, models.RoleBuyer, user.Role)
}

func TestAuthService_RegisterUser_Validation(t *testing.T) {
	authService, repo := newAuthService(nil)

	tests := []struct {
		name  string
		input services.RegisterInput
	}{
		{"missing name", services.RegisterInput{Email: "a@example.com", Password: "password123"}},
		{"bad email", services.RegisterInput{Name: "Tester", Email: "not-an-email", Password: "password123"}},
		{"short password", services.RegisterInput{Name: "Tester", Email: "a@example.com", Password: "12345"}},
		{"unknown role", services.RegisterInput{Name: "Tester", Email: "a@example.com", Password: "password123", Role: "superuser"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := authService.RegisterUser(tt.input)
			assert.ErrorIs(t, err, services.ErrValidation)
		})
	}

	count, _ := repo.Count()
	assert.Zero(t, count)
}

func TestAuthService_RegisterUser_MailFailureDoesNotFailRegistration(t *testing.T) {
	authService, _ := newAuthService(&recordingMailer{failing: true})

	_, token, err := authService.RegisterUser(services.RegisterInput{
		Name:     "Test Buyer",
		Email:    "buyer@example.com",
		Password: "password123",
	})
	assert.NoError(t, err)
	assert.NotEmpty(t, token)
}

func TestAuthService_LoginUser(t *testing.T) {
	authService, _ := newAuthService(nil)

	registered, _, err := authService.RegisterUser(services.RegisterInput{
		Name:     "Test Buyer",
		Email:    "buyer@example.com",
		Password: "password123",
	})
	require.NoError(t, err)

	token, user, err := authService.LoginUser("buyer@example.com", "password123")
	assert.NoError(t, err)
	assert.Equal(t, registered.ID, user.ID)
	assert.NotEmpty(t, token)

	parsedToken, err := jwt.Parse(token, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(testJWTSecret), nil
	})
	assert.NoError(t, err)
	claims, ok := parsedToken.Claims.(jwt.MapClaims)
	assert.True(t, ok)
	assert.Equal(t, registered.ID, claims["user_id"])
	assert.Equal(t, models.RoleBuyer, claims["role"])

	// Wrong password and unknown email both yield the same generic error.
	_, _, err = authService.LoginUser("buyer@example.com", "wrongpassword")
	assert.ErrorIs(t, err, services.ErrInvalidCredentials)

	_, _, err = authService.LoginUser("nobody@example.com", "password123")
	assert.ErrorIs(t, err, services.ErrInvalidCredentials)
}

func TestAuthService_ValidateToken(t *testing.T) {
	authService, _ := newAuthService(nil)

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id": "user-123",
		"role":    models.RoleBuyer,
		"exp":     time.Now().Add(time.Hour).Unix(),
	})
	validTokenString, _ := token.SignedString([]byte(testJWTSecret))

	claims, err := authService.ValidateToken(validTokenString)
	assert.NoError(t, err)
	assert.Equal(t, "user-123", claims["user_id"])

	_, err = authService.ValidateToken("invalid.token.string")
	assert.Error(t, err)

	expiredToken := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id": "user-123",
		"exp":     time.Now().Add(-time.Hour).Unix(),
	})
	expiredTokenString, _ := expiredToken.SignedString([]byte(testJWTSecret))
	_, err = authService.ValidateToken(expiredTokenString)
	assert.Error(t, err)

	wrongSecretToken := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id": "user-123",
		"exp":     time.Now().Add(time.Hour).Unix(),
	})
	wrongSecretString, _ := wrongSecretToken.SignedString([]byte("other-secret"))
	_, err = authService.ValidateToken(wrongSecretString)
	assert.Error(t, err)
}

func TestAuthService_VerifyEmail(t *testing.T) {
	authService, repo := newAuthService(nil)

	registered, _, err := authService.RegisterUser(services.RegisterInput{
		Name:     "Test Buyer",
		Email:    "buyer@example.com",
		Password: "password123",
	})
	require.NoError(t, err)
	require.NotEmpty(t, registered.EmailVerificationToken)

	verified, err := authService.VerifyEmail(registered.EmailVerificationToken)
	assert.NoError(t, err)
	assert.True(t, verified.IsEmailVerified)
	assert.Empty(t, verified.EmailVerificationToken)

	// The token is single use.
	_, err = authService.VerifyEmail(registered.EmailVerificationToken)
	assert.ErrorIs(t, err, repositories.ErrNotFound)

	stored, err := repo.GetByID(registered.ID)
	require.NoError(t, err)
	assert.True(t, stored.IsEmailVerified)
}
