package libnioev

import "context"

// AuthContext carries the CONNECT-time credentials a connection
// presented.
type AuthContext struct {
	ClientID string
	Username string
	Password []byte

	// AuthMethod/AuthData come from CONNECT's authentication-method/
	// authentication-data properties when an enhanced exchange (one or
	// more AUTH packets) is starting.
	AuthMethod string
	AuthData   []byte
}

// AuthResult is an Authenticator's verdict.
type AuthResult struct {
	Success    bool
	ReasonCode ReasonCode
	Properties Properties

	// ContinueAuth, when set alongside Success=false, asks the caller
	// to send an AUTH packet with AuthData back to the client and
	// await its reply rather than failing the connection outright.
	ContinueAuth bool
	AuthData     []byte
}

// Authenticator decides whether a connection may proceed. No policy
// engine ships here — that is an explicit non-goal; this is the
// extension point a broker built on this package would implement.
type Authenticator interface {
	Authenticate(ctx context.Context, authCtx *AuthContext) (*AuthResult, error)
}
