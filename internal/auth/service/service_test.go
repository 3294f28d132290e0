package service

import (
	"context"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/Pet-projects-for-experience/Backend/internal/auth/domain"
	"github.com/Pet-projects-for-experience/Backend/internal/auth/repository"
	"github.com/Pet-projects-for-experience/Backend/internal/config"
)

func newTestService(t *testing.T) domain.Service {
	t.Helper()

	dbConn, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{TranslateError: true})
	require.NoError(t, err)
	require.NoError(t, dbConn.AutoMigrate(&domain.User{}, &domain.Session{}))

	repo, sessionRepo := repository.New(dbConn)
	node, err := snowflake.NewNode(1)
	require.NoError(t, err)

	return New(Params{
		Cfg:         config.Config{SessionTTLHours: 1},
		Log:         zap.NewNop(),
		GenID:       node,
		Repo:        repo,
		SessionRepo: sessionRepo,
	})
}

func register(t *testing.T, svc domain.Service) *domain.User {
	t.Helper()
	user, err := svc.Register(context.Background(), domain.RegisterRequest{
		Username: "alice",
		Email:    "alice@example.com",
		Password: "correct-password",
	})
	require.NoError(t, err)
	return user
}

func TestRegisterAndLogin(t *testing.T) {
	svc := newTestService(t)
	user := register(t, svc)

	require.Equal(t, "alice", user.Username)
	require.False(t, user.IsOrganizer)

	result, err := svc.Login(context.Background(), domain.LoginRequest{
		Email:    "Alice@Example.com",
		Password: "correct-password",
	})
	require.NoError(t, err)
	require.NotEmpty(t, result.RawToken)
	require.True(t, result.ExpiresAt.After(time.Now()))

	session, err := svc.Authenticate(context.Background(), result.RawToken)
	require.NoError(t, err)
	require.Equal(t, user.ID, session.UserID)
}

func TestLoginWrongPassword(t *testing.T) {
	svc := newTestService(t)
	register(t, svc)

	_, err := svc.Login(context.Background(), domain.LoginRequest{
		Email:    "alice@example.com",
		Password: "wrong-password",
	})
	require.ErrorIs(t, err, domain.ErrInvalidCredentials)
}

func TestRegisterDuplicateEmail(t *testing.T) {
	svc := newTestService(t)
	register(t, svc)

	_, err := svc.Register(context.Background(), domain.RegisterRequest{
		Username: "alice2",
		Email:    "alice@example.com",
		Password: "another-password",
	})
	require.ErrorIs(t, err, domain.ErrUserExists)
}

func TestLogoutRevokesSession(t *testing.T) {
	svc := newTestService(t)
	register(t, svc)

	result, err := svc.Login(context.Background(), domain.LoginRequest{
		Email:    "alice@example.com",
		Password: "correct-password",
	})
	require.NoError(t, err)

	require.NoError(t, svc.Logout(context.Background(), result.RawToken))

	_, err = svc.Authenticate(context.Background(), result.RawToken)
	require.Error(t, err)
}

func TestMarkOrganizerIdempotent(t *testing.T) {
	svc := newTestService(t)
	user := register(t, svc)

	require.NoError(t, svc.MarkOrganizer(context.Background(), user.ID))
	require.NoError(t, svc.MarkOrganizer(context.Background(), user.ID))

	got, err := svc.GetUser(context.Background(), user.ID)
	require.NoError(t, err)
	require.True(t, got.IsOrganizer)
}
