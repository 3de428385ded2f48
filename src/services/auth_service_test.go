package services_test

import (
	"context"
	"testing"
	"time"

	"tally-server/src/models"
	"tally-server/src/services"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret"

func registerRequest(name string) models.RegisterRequest {
	return models.RegisterRequest{
		Username:  name,
		Email:     name + "@Example.com",
		Password:  "Sup3r!secret",
		FirstName: "Test",
		LastName:  "User",
	}
}

func TestRegisterSeedsDefaultCategories(t *testing.T) {
	ctx := context.Background()
	store := openStore(t)
	auth := services.NewAuthService(store, testSecret, time.Hour)

	user, err := auth.Register(ctx, registerRequest("alice"))
	require.NoError(t, err)
	assert.Equal(t, "alice@example.com", user.Email)
	assert.NotEqual(t, []byte("Sup3r!secret"), user.PasswordHash)

	categories, err := store.ListCategories(ctx, user.ID)
	require.NoError(t, err)
	assert.Len(t, categories, len(models.DefaultCategories))
	for _, c := range categories {
		assert.True(t, c.IsDefault, c.Name)
	}

	_, err = auth.Register(ctx, registerRequest("alice"))
	assertKind(t, err, services.KindBusinessRule)
}

func TestRegisterValidatesCredentials(t *testing.T) {
	auth := services.NewAuthService(openStore(t), testSecret, time.Hour)

	req := registerRequest("bob")
	req.Password = "password"
	req.Username = "b b"
	req.Email = "bob@example.com"
	_, err := auth.Register(context.Background(), req)
	assertKind(t, err, services.KindValidation)

	var svcErr *services.Error
	require.ErrorAs(t, err, &svcErr)
	assert.Len(t, svcErr.Details, 2)
}

func TestLoginAuthenticateLogout(t *testing.T) {
	ctx := context.Background()
	store := openStore(t)
	auth := services.NewAuthService(store, testSecret, time.Hour)
	user, err := auth.Register(ctx, registerRequest("carol"))
	require.NoError(t, err)

	_, err = auth.Login(ctx, models.LoginRequest{Username: "carol", Password: "wrong"}, "", "")
	assertKind(t, err, services.KindUnauthorized)
	_, err = auth.Login(ctx, models.LoginRequest{Username: "nobody", Password: "Sup3r!secret"}, "", "")
	assertKind(t, err, services.KindUnauthorized)

	tok, err := auth.Login(ctx, models.LoginRequest{Username: "CAROL@example.com", Password: "Sup3r!secret"}, "127.0.0.1", "go-test")
	require.NoError(t, err)
	assert.Equal(t, services.TokenType, tok.TokenType)
	assert.NotEmpty(t, tok.Token)

	p, err := auth.Authenticate(ctx, tok.Token)
	require.NoError(t, err)
	assert.Equal(t, user.ID, p.UserID)
	assert.Equal(t, "carol", p.Username)
	assert.NotEmpty(t, p.SessionID)

	me, err := auth.Me(ctx, p)
	require.NoError(t, err)
	assert.NotNil(t, me.LastLogin)

	require.NoError(t, auth.Logout(ctx, tok.Token))
	_, err = auth.Authenticate(ctx, tok.Token)
	assertKind(t, err, services.KindUnauthorized)
	assertKind(t, auth.Logout(ctx, tok.Token), services.KindUnauthorized)
}

func TestLogoutAllClosesEverySession(t *testing.T) {
	ctx := context.Background()
	auth := services.NewAuthService(openStore(t), testSecret, time.Hour)
	_, err := auth.Register(ctx, registerRequest("dave"))
	require.NoError(t, err)

	login := models.LoginRequest{Username: "dave", Password: "Sup3r!secret"}
	first, err := auth.Login(ctx, login, "", "")
	require.NoError(t, err)
	second, err := auth.Login(ctx, login, "", "")
	require.NoError(t, err)

	p, err := auth.Authenticate(ctx, first.Token)
	require.NoError(t, err)
	n, err := auth.LogoutAll(ctx, p)
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)

	_, err = auth.Authenticate(ctx, second.Token)
	assertKind(t, err, services.KindUnauthorized)
}

func TestAuthenticateRejectsBadTokens(t *testing.T) {
	ctx := context.Background()
	auth := services.NewAuthService(openStore(t), testSecret, time.Hour)
	_, err := auth.Register(ctx, registerRequest("erin"))
	require.NoError(t, err)

	now := time.Now()
	auth.SetClock(func() time.Time { return now })
	tok, err := auth.Login(ctx, models.LoginRequest{Username: "erin", Password: "Sup3r!secret"}, "", "")
	require.NoError(t, err)

	auth.SetClock(func() time.Time { return now.Add(2 * time.Hour) })
	_, err = auth.Authenticate(ctx, tok.Token)
	assertKind(t, err, services.KindUnauthorized)
	auth.SetClock(func() time.Time { return now })

	forged := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id":  1,
		"username": "erin",
		"exp":      now.Add(time.Hour).Unix(),
	})
	signed, err := forged.SignedString([]byte("another-secret"))
	require.NoError(t, err)
	_, err = auth.Authenticate(ctx, signed)
	assertKind(t, err, services.KindUnauthorized)

	unsessioned, err := forged.SignedString([]byte(testSecret))
	require.NoError(t, err)
	_, err = auth.Authenticate(ctx, unsessioned)
	assertKind(t, err, services.KindUnauthorized)

	_, err = auth.Authenticate(ctx, "not-a-token")
	assertKind(t, err, services.KindUnauthorized)
}
