package libnioev

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeAuthenticator exercises Authenticator's shape; a real
// authenticator (password DB, OAuth, SCRAM, ...) is extension-point
// scope for whatever is built on this package.
type fakeAuthenticator struct {
	allowed map[string]bool
	err     error
}

func (a *fakeAuthenticator) Authenticate(_ context.Context, authCtx *AuthContext) (*AuthResult, error) {
	if a.err != nil {
		return nil, a.err
	}
	if a.allowed[authCtx.ClientID] {
		return &AuthResult{Success: true, ReasonCode: ReasonSuccess}, nil
	}
	return &AuthResult{Success: false, ReasonCode: ReasonNotAuthorized}, nil
}

func TestAuthenticatorInterfaceShape(t *testing.T) {
	auth := &fakeAuthenticator{allowed: map[string]bool{"client-1": true}}

	result, err := auth.Authenticate(context.Background(), &AuthContext{ClientID: "client-1"})
	require.NoError(t, err)
	assert.True(t, result.Success)
	assert.Equal(t, ReasonSuccess, result.ReasonCode)

	result, err = auth.Authenticate(context.Background(), &AuthContext{ClientID: "client-2"})
	require.NoError(t, err)
	assert.False(t, result.Success)
	assert.Equal(t, ReasonNotAuthorized, result.ReasonCode)
}

func TestAuthenticatorPropagatesError(t *testing.T) {
	boom := errors.New("boom")
	auth := &fakeAuthenticator{err: boom}

	result, err := auth.Authenticate(context.Background(), &AuthContext{ClientID: "client-1"})
	assert.Nil(t, result)
	assert.ErrorIs(t, err, boom)
}

func TestAuthResultContinueAuth(t *testing.T) {
	result := &AuthResult{
		Success:      false,
		ContinueAuth: true,
		AuthData:     []byte("challenge"),
	}

	assert.False(t, result.Success)
	assert.True(t, result.ContinueAuth)
	assert.Equal(t, []byte("challenge"), result.AuthData)
}
