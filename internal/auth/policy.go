package auth

import "github.com/spec-kit/animation-service/internal/domain"

// Policy maps an identity and a required capability to a decision.
//
// In single-tenant mode every validated identity holds AdminRole; the
// deployment has exactly one privileged account. Otherwise AdminRole needs
// the role=admin attribute.
type Policy struct {
	singleTenant bool
}

// NewPolicy builds the policy.
func NewPolicy(singleTenant bool) *Policy {
	return &Policy{singleTenant: singleTenant}
}

// Authorize returns the decision for identity, which may be nil.
func (p *Policy) Authorize(identity *domain.Identity, required domain.Capability) domain.AuthorizationDecision {
	if identity == nil {
		return domain.Deny(domain.ReasonNoCredentials)
	}

	switch required {
	case domain.CapabilityAnyAuthenticated:
		return domain.Allow()
	case domain.CapabilityAdminRole:
		if p.singleTenant || identity.Attribute(domain.AttrRole) == domain.RoleAdmin {
			return domain.Allow()
		}
		return domain.Deny(domain.ReasonInsufficientRole)
	default:
		return domain.Deny(domain.ReasonInsufficientRole)
	}
}
