package auth

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"go-chms/internal/common/models"
	"go-chms/internal/graphql"
	"go-chms/internal/storage"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// fakeDoer answers every request with data or err.
type fakeDoer struct {
	data  string
	err   error
	panic bool
	vars  map[string]any
}

func (f *fakeDoer) Do(ctx context.Context, query string, variables map[string]any, out any) error {
	f.vars = variables
	if f.panic {
		panic("decoder exploded")
	}
	if f.err != nil {
		return f.err
	}
	return json.Unmarshal([]byte(f.data), out)
}

const loginOK = `{"login":{"token":"opaque-token","user":{
  "id":"u1","email":"ama@example.org","firstName":"Ama","lastName":"Mensah",
  "roles":[{"id":"r1","name":"MEMBER"},{"id":"r2","name":"BRANCH_ADMIN"}],
  "organisationId":"org1","branch":{"id":"b1","name":"Accra Central"},
  "permissions":["members:read"],"modules":["members"]}}}`

func newTestAuth(t *testing.T, doer graphql.Doer) (*AuthServiceImpl, storage.Store) {
	t.Helper()
	store := storage.NewMemoryStore()
	return newAuthService(doer, NewSessionStore(store), zap.NewNop()), store
}

func TestLoginSuccess(t *testing.T) {
	doer := &fakeDoer{data: loginOK}
	svc, store := newTestAuth(t, doer)

	result, err := svc.Login(context.Background(), "ama@example.org", "secret")
	require.NoError(t, err)

	assert.Equal(t, "BRANCH_ADMIN", result.User.PrimaryRole)
	assert.Equal(t, []string{"MEMBER", "BRANCH_ADMIN"}, result.User.Roles)
	assert.Equal(t, "Ama Mensah", result.User.Name)
	assert.Equal(t, "/dashboard", result.Redirect)
	assert.Equal(t, StatusAuthenticated, svc.Status())
	assert.Equal(t, "u1", svc.CurrentUser().ID)

	input := doer.vars["input"].(map[string]string)
	assert.Equal(t, "ama@example.org", input["email"])

	token, err := store.Get(context.Background(), storage.KeyAuthToken)
	require.NoError(t, err)
	assert.Equal(t, "opaque-token", string(token))

	raw, err := store.Get(context.Background(), storage.KeyUserData)
	require.NoError(t, err)
	var stored models.User
	require.NoError(t, json.Unmarshal(raw, &stored))
	assert.Equal(t, "BRANCH_ADMIN", stored.PrimaryRole)
}

func TestLoginFailures(t *testing.T) {
	tests := []struct {
		name    string
		doer    *fakeDoer
		message string
	}{
		{"invalid credentials", &fakeDoer{err: &graphql.Error{Messages: []string{"Invalid email or password"}}}, "Invalid email or password"},
		{"network", &fakeDoer{err: errors.New("dial tcp: connection refused")}, msgUnreachable},
		{"missing token", &fakeDoer{data: `{"login":{"token":"","user":{"id":"u1"}}}`}, msgBadResponse},
		{"null login", &fakeDoer{data: `{"login":null}`}, msgBadResponse},
		{"panic", &fakeDoer{panic: true}, msgUnexpected},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, store := newTestAuth(t, tt.doer)

			result, err := svc.Login(context.Background(), "a@b.c", "pw")
			assert.Nil(t, result)

			var authErr *Error
			require.True(t, errors.As(err, &authErr))
			assert.Equal(t, tt.message, authErr.Message)
			assert.Equal(t, StatusUnauthenticated, svc.Status())
			assert.Nil(t, svc.CurrentUser())

			_, err = store.Get(context.Background(), storage.KeyAuthToken)
			assert.ErrorIs(t, err, storage.ErrNotFound)
		})
	}
}

func TestLoginWithoutRolesDefaultsToMember(t *testing.T) {
	doer := &fakeDoer{data: `{"login":{"token":"t","user":{"id":"u2","roles":[],"userBranches":[]}}}`}
	svc, _ := newTestAuth(t, doer)

	result, err := svc.Login(context.Background(), "x@y.z", "pw")
	require.NoError(t, err)
	assert.Equal(t, "MEMBER", result.User.PrimaryRole)
}

func TestLogoutIsIdempotent(t *testing.T) {
	svc, store := newTestAuth(t, &fakeDoer{data: loginOK})
	ctx := context.Background()

	assert.NotPanics(t, func() {
		assert.Equal(t, "/login", svc.Logout(ctx))
	})

	_, err := svc.Login(ctx, "ama@example.org", "secret")
	require.NoError(t, err)

	for i := 0; i < 2; i++ {
		assert.Equal(t, "/login", svc.Logout(ctx))
		assert.Equal(t, StatusUnauthenticated, svc.Status())
		assert.Nil(t, svc.CurrentUser())
		_, err := store.Get(ctx, storage.KeyAuthToken)
		assert.ErrorIs(t, err, storage.ErrNotFound)
		_, err = store.Get(ctx, storage.KeyUserData)
		assert.ErrorIs(t, err, storage.ErrNotFound)
	}
}

func jwtToken(t *testing.T, exp time.Time) string {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		ExpiresAt: jwt.NewNumericDate(exp),
	}).SignedString([]byte("server-secret"))
	require.NoError(t, err)
	return token
}

func TestRestore(t *testing.T) {
	validUser := `{"id":"u1","roles":["ADMIN"],"primaryRole":"ADMIN"}`

	tests := []struct {
		name      string
		token     string
		userData  string
		want      Status
		wantClean bool
	}{
		{"valid opaque token", "opaque", validUser, StatusAuthenticated, false},
		{"valid jwt", jwtToken(t, time.Now().Add(time.Hour)), validUser, StatusAuthenticated, false},
		{"expired jwt", jwtToken(t, time.Now().Add(-time.Hour)), validUser, StatusUnauthenticated, true},
		{"corrupt user", "opaque", `{"id":`, StatusUnauthenticated, true},
		{"null user", "opaque", `null`, StatusUnauthenticated, true},
		{"user only", "", validUser, StatusUnauthenticated, true},
		{"token only", "opaque", "", StatusUnauthenticated, true},
		{"nothing", "", "", StatusUnauthenticated, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, store := newTestAuth(t, &fakeDoer{})
			ctx := context.Background()
			if tt.token != "" {
				require.NoError(t, store.Set(ctx, storage.KeyAuthToken, []byte(tt.token)))
			}
			if tt.userData != "" {
				require.NoError(t, store.Set(ctx, storage.KeyUserData, []byte(tt.userData)))
			}

			assert.Equal(t, tt.want, svc.Restore(ctx))
			assert.Equal(t, tt.want, svc.Status())

			if tt.want == StatusAuthenticated {
				assert.Equal(t, "u1", svc.CurrentUser().ID)
			}
			if tt.wantClean {
				_, err := store.Get(ctx, storage.KeyAuthToken)
				assert.ErrorIs(t, err, storage.ErrNotFound)
				_, err = store.Get(ctx, storage.KeyUserData)
				assert.ErrorIs(t, err, storage.ErrNotFound)

				// a second attempt finds nothing to restore
				assert.Equal(t, StatusUnauthenticated, svc.Restore(ctx))
			}
		})
	}
}

func TestCanAccessWithoutUserDenies(t *testing.T) {
	svc, _ := newTestAuth(t, &fakeDoer{})
	assert.False(t, svc.CanAccessRoute("/dashboard"))
	assert.False(t, svc.CanAccessDashboard("member"))
}

func TestCanAccessUsesPrimaryRole(t *testing.T) {
	svc, _ := newTestAuth(t, &fakeDoer{data: loginOK})
	_, err := svc.Login(context.Background(), "ama@example.org", "secret")
	require.NoError(t, err)

	assert.True(t, svc.CanAccessRoute("/members/1"))
	assert.False(t, svc.CanAccessRoute("/god-mode"))
	assert.True(t, svc.CanAccessDashboard("branch-admin"))
	assert.False(t, svc.CanAccessDashboard("subscription"))
}
