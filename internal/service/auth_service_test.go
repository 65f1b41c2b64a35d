package service

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/noah-isme/mtss-api/internal/models"
	appErrors "github.com/noah-isme/mtss-api/pkg/errors"
	"github.com/noah-isme/mtss-api/pkg/validation"
)

type mockAuthRepo struct {
	user             *models.User
	findErr          error
	lastLoginUpdated bool
}

func (m *mockAuthRepo) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	if m.findErr != nil {
		return nil, m.findErr
	}
	return m.user, nil
}

func (m *mockAuthRepo) FindByID(ctx context.Context, id string) (*models.User, error) {
	if m.findErr != nil {
		return nil, m.findErr
	}
	return m.user, nil
}

func (m *mockAuthRepo) UpdateLastLogin(ctx context.Context, id string, ts time.Time) error {
	m.lastLoginUpdated = true
	return nil
}

type recordedAudit struct {
	entries []*models.AuditLog
}

func (r *recordedAudit) Record(ctx context.Context, entry *models.AuditLog) {
	r.entries = append(r.entries, entry)
}

func newTestAuthService(repo *mockAuthRepo, audit *recordedAudit) *AuthService {
	return NewAuthService(repo, audit, validation.New(), zap.NewNop(), AuthConfig{
		AccessTokenSecret: "secret",
		AccessTokenExpiry: time.Hour,
		Issuer:            "mtss-api",
	})
}

func TestAuthServiceLoginSuccess(t *testing.T) {
	password, _ := bcrypt.GenerateFromPassword([]byte("password"), bcrypt.MinCost)
	repo := &mockAuthRepo{user: &models.User{ID: "123", Email: "ana@escola.br", Name: "Ana", PasswordHash: string(password), Active: true, Role: models.RoleSpecialist}}
	audit := &recordedAudit{}
	svc := newTestAuthService(repo, audit)

	res, err := svc.Login(context.Background(), models.LoginRequest{Email: "ana@escola.br", Password: "password", IP: "10.0.0.1"})
	require.NoError(t, err)
	assert.NotEmpty(t, res.AccessToken)
	assert.Equal(t, "Bearer", res.TokenType)
	assert.Equal(t, int64(3600), res.ExpiresIn)
	assert.Equal(t, models.RoleSpecialist, res.User.Role)
	assert.True(t, repo.lastLoginUpdated)
	require.Len(t, audit.entries, 1)
	assert.Equal(t, models.AuditActionLogin, audit.entries[0].Action)
	assert.Equal(t, "10.0.0.1", audit.entries[0].IPAddress)
}

func TestAuthServiceLoginWrongPassword(t *testing.T) {
	password, _ := bcrypt.GenerateFromPassword([]byte("password"), bcrypt.MinCost)
	repo := &mockAuthRepo{user: &models.User{ID: "123", Email: "ana@escola.br", PasswordHash: string(password), Active: true}}
	svc := newTestAuthService(repo, &recordedAudit{})

	_, err := svc.Login(context.Background(), models.LoginRequest{Email: "ana@escola.br", Password: "nope"})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrInvalidCredentials.Code, appErrors.FromError(err).Code)
}

func TestAuthServiceLoginUnknownEmail(t *testing.T) {
	svc := newTestAuthService(&mockAuthRepo{findErr: sql.ErrNoRows}, &recordedAudit{})

	_, err := svc.Login(context.Background(), models.LoginRequest{Email: "ghost@escola.br", Password: "x"})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrInvalidCredentials.Code, appErrors.FromError(err).Code)
}

func TestAuthServiceLoginInactive(t *testing.T) {
	password, _ := bcrypt.GenerateFromPassword([]byte("password"), bcrypt.MinCost)
	repo := &mockAuthRepo{user: &models.User{ID: "123", Email: "ana@escola.br", PasswordHash: string(password), Active: false}}
	svc := newTestAuthService(repo, &recordedAudit{})

	_, err := svc.Login(context.Background(), models.LoginRequest{Email: "ana@escola.br", Password: "password"})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrInactiveAccount.Code, appErrors.FromError(err).Code)
}

func TestAuthServiceLoginValidation(t *testing.T) {
	svc := newTestAuthService(&mockAuthRepo{}, &recordedAudit{})

	_, err := svc.Login(context.Background(), models.LoginRequest{Email: "not-an-email"})
	require.Error(t, err)
	assert.True(t, appErrors.IsValidation(err))
}

func TestValidateTokenRoundTrip(t *testing.T) {
	svc := newTestAuthService(&mockAuthRepo{}, &recordedAudit{})
	user := &models.User{ID: "u1", Email: "ana@escola.br", Name: "Ana", Role: models.RoleTeacher}
	token, err := svc.generateAccessToken(user, time.Now().UTC())
	require.NoError(t, err)

	claims, err := svc.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, user.ID, claims.UserID)
	assert.Equal(t, models.RoleTeacher, claims.Role)
}

func TestValidateTokenRejectsForeignSecret(t *testing.T) {
	svc := newTestAuthService(&mockAuthRepo{}, &recordedAudit{})
	other := NewAuthService(&mockAuthRepo{}, nil, nil, nil, AuthConfig{AccessTokenSecret: "other", Issuer: "mtss-api"})
	token, err := other.generateAccessToken(&models.User{ID: "u1"}, time.Now().UTC())
	require.NoError(t, err)

	_, err = svc.ValidateToken(token)
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrUnauthorized.Code, appErrors.FromError(err).Code)
}

func TestAuthServiceMeNotFound(t *testing.T) {
	svc := newTestAuthService(&mockAuthRepo{findErr: sql.ErrNoRows}, &recordedAudit{})

	_, err := svc.Me(context.Background(), "u1")
	assert.True(t, appErrors.IsNotFound(err))
}
