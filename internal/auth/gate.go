package auth

import (
	"context"
	"encoding/base64"
	"errors"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/spec-kit/animation-service/internal/domain"
)

// GateState traces a request through the gate.
type GateState string

const (
	StateUnauthenticated GateState = "UNAUTHENTICATED"
	StateTokenExtracted  GateState = "TOKEN_EXTRACTED"
	StateTokenValidated  GateState = "TOKEN_VALIDATED"
	StateRejected        GateState = "REJECTED"
	StateAuthorized      GateState = "AUTHORIZED"
	StateDenied          GateState = "DENIED"
)

// GateResult is the outcome of checking a protected request.
type GateResult struct {
	State    GateState
	Decision domain.AuthorizationDecision
	Identity *domain.Identity
}

// DecisionRecorder receives every gate decision.
type DecisionRecorder interface {
	RecordAuthDecision(capability domain.Capability, decision domain.AuthorizationDecision)
}

// RequestGate orchestrates login and protected-route checks. It does not
// depend on any HTTP framework.
type RequestGate struct {
	authenticator Authenticator
	tokens        *TokenManager
	policy        *Policy
	logger        *zap.Logger
	recorder      DecisionRecorder
}

// GateDependencies bundles the collaborators of a RequestGate.
type GateDependencies struct {
	Authenticator Authenticator
	Tokens        *TokenManager
	Policy        *Policy
	Logger        *zap.Logger
	Recorder      DecisionRecorder
}

// NewRequestGate constructs the gate.
func NewRequestGate(deps GateDependencies) *RequestGate {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RequestGate{
		authenticator: deps.Authenticator,
		tokens:        deps.Tokens,
		policy:        deps.Policy,
		logger:        logger,
		recorder:      deps.Recorder,
	}
}

// Login verifies credentials and returns a signed token.
func (g *RequestGate) Login(ctx context.Context, username, password string) (string, time.Time, error) {
	identity, err := g.authenticator.Authenticate(ctx, username, password)
	if err != nil {
		if errors.Is(err, ErrStoreUnavailable) {
			g.logger.Warn("login failed: credential store unavailable", zap.Error(err))
			return "", time.Time{}, ErrStoreUnavailable
		}
		g.logger.Debug("login rejected", zap.String("reason", string(domain.ReasonInvalidCredentials)))
		return "", time.Time{}, ErrInvalidCredentials
	}
	return g.tokens.Issue(identity)
}

// LoginBasic runs Login with credentials taken from a Basic Authorization header.
func (g *RequestGate) LoginBasic(ctx context.Context, authorization string) (string, time.Time, error) {
	username, password, ok := ParseBasicAuth(authorization)
	if !ok {
		g.logger.Debug("login rejected", zap.String("reason", string(domain.ReasonNoCredentials)))
		return "", time.Time{}, ErrInvalidCredentials
	}
	return g.Login(ctx, username, password)
}

// Check decides whether a request carrying the given Authorization header may
// reach a route requiring capability.
func (g *RequestGate) Check(authorization string, required domain.Capability) GateResult {
	result := g.check(authorization, required)
	if g.recorder != nil {
		g.recorder.RecordAuthDecision(required, result.Decision)
	}
	if !result.Decision.Allowed {
		g.logger.Debug("request denied",
			zap.String("capability", string(required)),
			zap.String("state", string(result.State)),
			zap.String("reason", string(result.Decision.Reason)))
	}
	return result
}

func (g *RequestGate) check(authorization string, required domain.Capability) GateResult {
	token, ok := ParseBearerToken(authorization)
	if !ok {
		return GateResult{State: StateDenied, Decision: g.policy.Authorize(nil, required)}
	}

	// TokenExtracted
	identity, err := g.tokens.Validate(token)
	if err != nil {
		return GateResult{State: StateRejected, Decision: domain.Deny(tokenDenyReason(err))}
	}

	// TokenValidated
	decision := g.policy.Authorize(&identity, required)
	if !decision.Allowed {
		return GateResult{State: StateDenied, Decision: decision, Identity: &identity}
	}
	return GateResult{State: StateAuthorized, Decision: decision, Identity: &identity}
}

func tokenDenyReason(err error) domain.DenyReason {
	switch {
	case errors.Is(err, ErrInvalidSignature):
		return domain.ReasonInvalidSignature
	case errors.Is(err, ErrExpiredToken):
		return domain.ReasonExpiredToken
	default:
		return domain.ReasonMalformed
	}
}

// ParseBearerToken extracts the token from "Bearer <token>".
func ParseBearerToken(header string) (string, bool) {
	parts := strings.SplitN(strings.TrimSpace(header), " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return "", false
	}
	token := strings.TrimSpace(parts[1])
	return token, token != ""
}

// ParseBasicAuth extracts username and password from "Basic <base64>".
func ParseBasicAuth(header string) (string, string, bool) {
	parts := strings.SplitN(strings.TrimSpace(header), " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Basic") {
		return "", "", false
	}
	decoded, err := base64.StdEncoding.DecodeString(strings.TrimSpace(parts[1]))
	if err != nil {
		return "", "", false
	}
	username, password, ok := strings.Cut(string(decoded), ":")
	if !ok || username == "" {
		return "", "", false
	}
	return username, password, true
}
