package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestGate(t *testing.T, opts Options) *Gate {
	t.Helper()

	secret, err := NewSecret()
	require.NoError(t, err)
	return NewGate(secret, opts)
}

func TestNewSecret(t *testing.T) {
	a, err := NewSecret()
	require.NoError(t, err)
	b, err := NewSecret()
	require.NoError(t, err)

	assert.Len(t, a, secretLength)
	assert.NotEqual(t, a, b)
}

func TestGate_SessionLifecycle(t *testing.T) {
	gate := newTestGate(t, Options{Password: "hunter2"})

	assert.False(t, gate.Validate(""), "no session token")

	token, err := gate.Login("hunter2")
	require.NoError(t, err)
	assert.True(t, gate.Validate(token))

	assert.True(t, gate.Logout(token))
	assert.False(t, gate.Validate(token), "token must be dead after logout")
	assert.False(t, gate.Logout(token), "second logout has nothing to end")
}

func TestGate_LogoutOnlyEndsThatSession(t *testing.T) {
	gate := newTestGate(t, Options{})

	first, err := gate.GenToken()
	require.NoError(t, err)
	second, err := gate.GenToken()
	require.NoError(t, err)

	require.True(t, gate.Logout(first))
	assert.False(t, gate.Validate(first))
	assert.True(t, gate.Validate(second))
}

func TestGate_LogoutRejectsForeignTokens(t *testing.T) {
	gate := newTestGate(t, Options{})
	other := newTestGate(t, Options{})

	foreign, err := other.GenToken()
	require.NoError(t, err)

	assert.False(t, gate.Logout(""))
	assert.False(t, gate.Logout("not-a-jwt"))
	assert.False(t, gate.Logout(foreign))
	assert.True(t, other.Validate(foreign), "failed logout elsewhere must not revoke")
}

func TestGate_Login(t *testing.T) {
	tests := []struct {
		name       string
		configured string
		presented  string
		wantErr    error
	}{
		{name: "correct password", configured: "secret", presented: "secret"},
		{name: "wrong password", configured: "secret", presented: "guess", wantErr: ErrWrongPassword},
		{name: "empty presented", configured: "secret", presented: "", wantErr: ErrWrongPassword},
		{name: "no password configured", configured: "", presented: "anything"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gate := newTestGate(t, Options{Password: tt.configured})

			token, err := gate.Login(tt.presented)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Empty(t, token)
				return
			}
			require.NoError(t, err)
			assert.True(t, gate.Validate(token))
		})
	}
}

func TestGate_RestartInvalidatesTokens(t *testing.T) {
	before := newTestGate(t, Options{})
	token, err := before.GenToken()
	require.NoError(t, err)

	after := newTestGate(t, Options{})
	assert.False(t, after.Validate(token))
}

func TestGate_RejectsForgedTokens(t *testing.T) {
	gate := newTestGate(t, Options{})

	t.Run("garbage", func(t *testing.T) {
		assert.False(t, gate.Validate("not-a-jwt"))
	})

	t.Run("expired", func(t *testing.T) {
		claims := &sessionClaims{RegisteredClaims: jwt.RegisteredClaims{
			ID:        "expired",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Hour)),
		}}
		token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(gate.secret))
		require.NoError(t, err)
		assert.False(t, gate.Validate(token))
	})

	t.Run("missing id", func(t *testing.T) {
		claims := &sessionClaims{RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		}}
		token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(gate.secret))
		require.NoError(t, err)
		assert.False(t, gate.Validate(token))
	})

	t.Run("unsigned", func(t *testing.T) {
		claims := &sessionClaims{RegisteredClaims: jwt.RegisteredClaims{ID: "none"}}
		token, err := jwt.NewWithClaims(jwt.SigningMethodNone, claims).SignedString(jwt.UnsafeAllowNoneSignatureType)
		require.NoError(t, err)
		assert.False(t, gate.Validate(token))
	})
}

func TestGate_PublicMode(t *testing.T) {
	private := newTestGate(t, Options{})
	public := newTestGate(t, Options{PublicMode: true})

	assert.False(t, private.CanCreate(""))
	assert.False(t, private.CanList(""))

	assert.True(t, public.CanCreate(""))
	assert.False(t, public.CanList(""), "listing is never public")

	token, err := public.GenToken()
	require.NoError(t, err)
	assert.True(t, public.CanList(token))
}
