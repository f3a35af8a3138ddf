package domain

import "net/http"

// Identity attribute keys.
const (
	AttrUsername = "username"
	AttrRole     = "role"

	RoleAdmin = "admin"
)

// Identity is the verified claim set of a caller. Treat it as immutable.
type Identity struct {
	Subject    string
	Attributes map[string]string
}

// NewIdentity copies attrs so later mutation by the caller cannot leak in.
func NewIdentity(subject string, attrs map[string]string) Identity {
	copied := make(map[string]string, len(attrs))
	for k, v := range attrs {
		copied[k] = v
	}
	return Identity{Subject: subject, Attributes: copied}
}

// Attribute returns a single attribute value.
func (i Identity) Attribute(key string) string {
	return i.Attributes[key]
}

// Credential is the persisted login material of a user.
type Credential struct {
	Username     string
	PasswordHash []byte
	Salt         []byte
}

// Capability is what a protected route requires of its caller.
type Capability string

const (
	CapabilityAnyAuthenticated Capability = "ANY_AUTHENTICATED"
	CapabilityAdminRole        Capability = "ADMIN_ROLE"
)

// DenyReason names why a request was refused.
type DenyReason string

const (
	ReasonNone               DenyReason = ""
	ReasonNoCredentials      DenyReason = "NO_CREDENTIALS"
	ReasonInvalidCredentials DenyReason = "INVALID_CREDENTIALS"
	ReasonMalformed          DenyReason = "MALFORMED"
	ReasonExpiredToken       DenyReason = "EXPIRED_TOKEN"
	ReasonInvalidSignature   DenyReason = "INVALID_SIGNATURE"
	ReasonInsufficientRole   DenyReason = "INSUFFICIENT_ROLE"
)

// AuthorizationDecision is produced once per request.
type AuthorizationDecision struct {
	Allowed bool
	Reason  DenyReason
}

// Allow is the decision for an authorized request.
func Allow() AuthorizationDecision {
	return AuthorizationDecision{Allowed: true}
}

// Deny builds a refusal with the given reason.
func Deny(reason DenyReason) AuthorizationDecision {
	return AuthorizationDecision{Allowed: false, Reason: reason}
}

// HTTPStatus maps the decision onto the status a client sees.
func (d AuthorizationDecision) HTTPStatus() int {
	switch {
	case d.Allowed:
		return http.StatusOK
	case d.Reason == ReasonInsufficientRole:
		return http.StatusForbidden
	default:
		return http.StatusUnauthorized
	}
}
