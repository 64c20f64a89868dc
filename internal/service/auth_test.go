package service

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/TPNayana/TimeTableSolver-TimeFold-03/internal/dto"
	"github.com/TPNayana/TimeTableSolver-TimeFold-03/internal/models"
	"github.com/TPNayana/TimeTableSolver-TimeFold-03/pkg/config"
	appErrors "github.com/TPNayana/TimeTableSolver-TimeFold-03/pkg/errors"
)

type userRepoFake struct {
	byEmail    map[string]*models.User
	lastLogins map[string]time.Time
}

func (f *userRepoFake) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	if u, ok := f.byEmail[email]; ok {
		return u, nil
	}
	return nil, sql.ErrNoRows
}

func (f *userRepoFake) UpdateLastLogin(ctx context.Context, id string, ts time.Time) error {
	if f.lastLogins == nil {
		f.lastLogins = make(map[string]time.Time)
	}
	f.lastLogins[id] = ts
	return nil
}

func newAuthFixture(t *testing.T) (*AuthService, *userRepoFake) {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte("correct horse"), bcrypt.MinCost)
	require.NoError(t, err)

	repo := &userRepoFake{byEmail: map[string]*models.User{
		"planner@school.test": {
			ID: "u1", Email: "planner@school.test", PasswordHash: string(hash),
			FullName: "Planner", Role: models.RolePlanner, Active: true,
		},
		"dormant@school.test": {
			ID: "u2", Email: "dormant@school.test", PasswordHash: string(hash),
			Role: models.RoleViewer, Active: false,
		},
	}}
	svc := NewAuthService(repo, nil, nil, config.JWTConfig{Secret: "test-secret", Expiration: time.Hour})
	return svc, repo
}

func TestLoginSuccess(t *testing.T) {
	svc, repo := newAuthFixture(t)

	resp, err := svc.Login(context.Background(), dto.LoginRequest{
		Email: "planner@school.test", Password: "correct horse",
	})
	require.NoError(t, err)

	assert.NotEmpty(t, resp.Token)
	assert.Equal(t, string(models.RolePlanner), resp.Role)
	assert.InDelta(t, time.Hour.Seconds(), float64(resp.ExpiresIn), 5)
	assert.Contains(t, repo.lastLogins, "u1")

	claims, err := svc.ParseToken(resp.Token)
	require.NoError(t, err)
	assert.Equal(t, "u1", claims.UserID)
	assert.Equal(t, models.RolePlanner, claims.Role)
}

func TestLoginWrongPassword(t *testing.T) {
	svc, _ := newAuthFixture(t)

	_, err := svc.Login(context.Background(), dto.LoginRequest{
		Email: "planner@school.test", Password: "wrong",
	})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrInvalidCredentials.Code, appErrors.FromError(err).Code)
}

func TestLoginUnknownUser(t *testing.T) {
	svc, _ := newAuthFixture(t)

	_, err := svc.Login(context.Background(), dto.LoginRequest{
		Email: "ghost@school.test", Password: "whatever",
	})
	require.Error(t, err)
	// Unknown user and wrong password are indistinguishable on purpose.
	assert.Equal(t, appErrors.ErrInvalidCredentials.Code, appErrors.FromError(err).Code)
}

func TestLoginInactiveAccount(t *testing.T) {
	svc, _ := newAuthFixture(t)

	_, err := svc.Login(context.Background(), dto.LoginRequest{
		Email: "dormant@school.test", Password: "correct horse",
	})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrInactiveAccount.Code, appErrors.FromError(err).Code)
}

func TestLoginValidatesPayload(t *testing.T) {
	svc, _ := newAuthFixture(t)

	_, err := svc.Login(context.Background(), dto.LoginRequest{Email: "", Password: ""})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}

func TestParseTokenRejectsGarbage(t *testing.T) {
	svc, _ := newAuthFixture(t)

	for _, token := range []string{"", "not-a-token", "aaa.bbb.ccc"} {
		_, err := svc.ParseToken(token)
		require.Error(t, err)
		assert.Equal(t, appErrors.ErrUnauthorized.Code, appErrors.FromError(err).Code)
	}
}

func TestParseTokenRejectsWrongSecret(t *testing.T) {
	svc, repo := newAuthFixture(t)

	resp, err := svc.Login(context.Background(), dto.LoginRequest{
		Email: "planner@school.test", Password: "correct horse",
	})
	require.NoError(t, err)

	other := NewAuthService(repo, nil, nil, config.JWTConfig{Secret: "different", Expiration: time.Hour})
	_, err = other.ParseToken(resp.Token)
	require.Error(t, err)
}
