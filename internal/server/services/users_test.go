package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/dmitrijs2005/yatube/internal/common"
	"github.com/dmitrijs2005/yatube/internal/server/auth"
	"github.com/dmitrijs2005/yatube/internal/server/config"
	"github.com/dmitrijs2005/yatube/internal/server/forms"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newUserService(t *testing.T) (*UserService, *memStore) {
	t.Helper()
	db, _ := newSQLMockDB(t)
	store := &memStore{}
	cfg := &config.Config{
		SecretKey:               "k",
		SessionValidityDuration: time.Hour,
	}
	return NewUserService(db, &fakeManager{s: store}, cfg), store
}

func signup(t *testing.T, svc *UserService, username, password string) {
	t.Helper()
	_, err := svc.Signup(context.Background(), &forms.SignupForm{Username: username, Password: password, Password2: password})
	require.NoError(t, err)
}

func TestSignup(t *testing.T) {
	svc, store := newUserService(t)

	u, err := svc.Signup(context.Background(), &forms.SignupForm{Username: "leo", Password: "long-enough", Password2: "long-enough"})
	require.NoError(t, err)
	assert.Equal(t, "leo", u.UserName)
	assert.NotEmpty(t, u.Salt)
	assert.NotEmpty(t, u.Verifier)
	assert.Len(t, store.users, 1)
}

func TestSignup_TakenUsername(t *testing.T) {
	svc, _ := newUserService(t)
	signup(t, svc, "leo", "long-enough")

	form := &forms.SignupForm{Username: "leo", Password: "another-one", Password2: "another-one"}
	_, err := svc.Signup(context.Background(), form)

	var ve *forms.ValidationError
	require.ErrorAs(t, err, &ve)
	assert.NotEmpty(t, form.Errors.Get("username"))
}

func TestSignup_InvalidForm(t *testing.T) {
	svc, store := newUserService(t)

	form := &forms.SignupForm{Username: "leo", Password: "short", Password2: "short"}
	_, err := svc.Signup(context.Background(), form)

	var ve *forms.ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Empty(t, store.users)
}

func TestLogin(t *testing.T) {
	svc, store := newUserService(t)
	signup(t, svc, "leo", "long-enough")

	token, err := svc.Login(context.Background(), &forms.LoginForm{Username: "leo", Password: "long-enough"})
	require.NoError(t, err)

	id, err := auth.GetUserIDFromToken(token, []byte("k"))
	require.NoError(t, err)
	assert.Equal(t, store.users[0].ID, id)
}

func TestLogin_BadCredentials(t *testing.T) {
	svc, _ := newUserService(t)
	signup(t, svc, "leo", "long-enough")

	for name, form := range map[string]*forms.LoginForm{
		"wrong password": {Username: "leo", Password: "not-the-one"},
		"unknown user":   {Username: "ghost", Password: "long-enough"},
	} {
		t.Run(name, func(t *testing.T) {
			_, err := svc.Login(context.Background(), form)
			require.ErrorIs(t, err, common.ErrorUnauthorized)

			var ve *forms.ValidationError
			require.ErrorAs(t, err, &ve)
			assert.NotEmpty(t, form.Errors.Get(forms.NonFieldErrors))
		})
	}
}

func TestLogin_StoreError(t *testing.T) {
	svc, store := newUserService(t)
	store.err = errors.New("db down")

	_, err := svc.Login(context.Background(), &forms.LoginForm{Username: "leo", Password: "x"})
	require.ErrorContains(t, err, "db down")
	assert.False(t, errors.Is(err, common.ErrorUnauthorized))
}

func TestAuthenticate(t *testing.T) {
	svc, store := newUserService(t)
	signup(t, svc, "leo", "long-enough")
	leo := store.users[0]

	token, err := svc.IssueToken(leo.ID)
	require.NoError(t, err)

	actor, err := svc.Authenticate(context.Background(), token)
	require.NoError(t, err)
	assert.True(t, actor.Is(leo.ID))

	t.Run("empty", func(t *testing.T) {
		actor, err := svc.Authenticate(context.Background(), "")
		require.NoError(t, err)
		assert.False(t, actor.IsAuthenticated())
	})

	t.Run("tampered", func(t *testing.T) {
		actor, err := svc.Authenticate(context.Background(), token+"x")
		require.NoError(t, err)
		assert.False(t, actor.IsAuthenticated())
	})

	t.Run("expired", func(t *testing.T) {
		expired, err := auth.GenerateToken(leo.ID, []byte("k"), -time.Minute)
		require.NoError(t, err)

		actor, err := svc.Authenticate(context.Background(), expired)
		require.NoError(t, err)
		assert.False(t, actor.IsAuthenticated())
	})

	t.Run("deleted user", func(t *testing.T) {
		ghost, err := svc.IssueToken(leo.ID + 100)
		require.NoError(t, err)

		actor, err := svc.Authenticate(context.Background(), ghost)
		require.NoError(t, err)
		assert.False(t, actor.IsAuthenticated())
	})

	t.Run("store failure", func(t *testing.T) {
		store.err = errors.New("db down")
		t.Cleanup(func() { store.err = nil })

		_, err := svc.Authenticate(context.Background(), token)
		require.Error(t, err)
	})
}

func TestSessionValidity(t *testing.T) {
	svc, _ := newUserService(t)
	assert.Equal(t, time.Hour, svc.SessionValidity())
}
