package access

import (
	"context"
	"errors"
)

// Role represents an authorisation tier.
type Role string

const (
	// RoleUser is a regular account: full control over owned devices only.
	RoleUser Role = "user"

	// RoleAdmin additionally manages user accounts. Admin does not bypass
	// device ownership checks.
	RoleAdmin Role = "admin"
)

// IsValidRole returns true if the role is a recognised account role.
func IsValidRole(r Role) bool {
	return r == RoleUser || r == RoleAdmin
}

// Principal is the authenticated caller. It is derived from a verified
// session token and passed explicitly into every resource operation; a nil
// *Principal means the caller is unauthenticated.
type Principal struct {
	ID   string
	Role Role
}

// IsAdmin reports whether the principal holds the admin role.
func (p *Principal) IsAdmin() bool {
	return p != nil && p.Role == RoleAdmin
}

// Capability is a requirement a caller must satisfy before an operation runs.
type Capability string

const (
	// CapAuthenticated requires any valid session.
	CapAuthenticated Capability = "authenticated"

	// CapAdmin requires a valid session with the admin role.
	CapAdmin Capability = "admin"
)

// Require is the authorization guard: a pure predicate over the principal.
//
// It fails with Unauthenticated when no principal is present, and with
// Forbidden when the principal's role does not satisfy the capability.
// Every resource operation must pass through this before touching storage.
func Require(p *Principal, cap Capability) error {
	if p == nil || p.ID == "" {
		return Unauthenticated()
	}
	if cap == CapAdmin && p.Role != RoleAdmin {
		return Forbidden("admin access required")
	}
	return nil
}

// OwnerLookup resolves a resource ID to the ID of its owning principal.
//
// Implementations return their package's not-found sentinel when the
// resource does not exist; any other error is treated as a storage failure.
type OwnerLookup func(ctx context.Context, resourceID string) (ownerID string, err error)

// ResolveOwnership loads the owner of the identified resource and compares
// it to the caller.
//
// The not-found case is checked and reported before the ownership
// comparison: reporting Forbidden for a resource that does not exist would
// leak existence information. notFound is the lookup's sentinel for a
// missing resource; resource names the entity for the error message.
func ResolveOwnership(ctx context.Context, p *Principal, lookup OwnerLookup, resourceID, resource string, notFound error) error {
	if err := Require(p, CapAuthenticated); err != nil {
		return err
	}

	ownerID, err := lookup(ctx, resourceID)
	if err != nil {
		if notFound != nil && errors.Is(err, notFound) {
			return NotFound(resource)
		}
		return Internal(err)
	}

	if ownerID != p.ID {
		return Forbidden("you don't have permission to access this " + resource)
	}

	return nil
}
