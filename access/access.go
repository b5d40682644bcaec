// Package access decides which records a caller may see or touch. Each
// request resolves its identity into one of three role contexts; handlers
// ask the context for scope filters and mutation checks instead of
// branching on role strings themselves.
package access

import (
	"context"
	"fmt"

	"github.com/stayease-dev/stayease/backend/models"
	"go.mongodb.org/mongo-driver/bson"
)

type contextKey string

const identityKey = contextKey("identity")

// Identity is the per-request capability token supplied by the auth
// middleware: who is calling and as what role. Nothing else about the
// caller is trusted.
type Identity struct {
	ID    string
	Name  string
	Email string
	Role  models.Role
}

// AdminAction names the admin user-management operations that carry a
// self-protection rule.
type AdminAction string

const (
	ActionActivate   AdminAction = "activate"
	ActionDeactivate AdminAction = "deactivate"
	ActionPromote    AdminAction = "promote"
	ActionDemote     AdminAction = "demote"
	ActionDelete     AdminAction = "delete"
)

// RoleContext is the capability interface shared by the three role
// variants.
type RoleContext interface {
	Role() models.Role
	// InquiryFilter scopes inquiry reads to what the caller may list.
	InquiryFilter() bson.M
	// PropertyFilter scopes "my properties" style reads. Returns false
	// when the role has no property scope at all.
	PropertyFilter() (bson.M, bool)
	// CanMutateRecord reports whether the caller may edit or delete a
	// record owned by ownerID.
	CanMutateRecord(ownerID string) bool
}

type TenantContext struct{ Identity Identity }
type OwnerContext struct{ Identity Identity }
type AdminContext struct{ Identity Identity }

func (c TenantContext) Role() models.Role { return models.RoleTenant }
func (c OwnerContext) Role() models.Role  { return models.RoleOwner }
func (c AdminContext) Role() models.Role  { return models.RoleAdmin }

func (c TenantContext) InquiryFilter() bson.M { return bson.M{"tenantId": c.Identity.ID} }
func (c OwnerContext) InquiryFilter() bson.M  { return bson.M{"ownerId": c.Identity.ID} }
func (c AdminContext) InquiryFilter() bson.M  { return bson.M{} }

func (c TenantContext) PropertyFilter() (bson.M, bool) { return nil, false }
func (c OwnerContext) PropertyFilter() (bson.M, bool) {
	return bson.M{"ownerId": c.Identity.ID}, true
}
func (c AdminContext) PropertyFilter() (bson.M, bool) { return bson.M{}, true }

func (c TenantContext) CanMutateRecord(ownerID string) bool { return ownerID == c.Identity.ID }
func (c OwnerContext) CanMutateRecord(ownerID string) bool  { return ownerID == c.Identity.ID }
func (c AdminContext) CanMutateRecord(string) bool          { return true }

// CanTarget enforces the admin self-protection invariant: an admin may
// never deactivate, demote, or delete their own account.
func (c AdminContext) CanTarget(targetID string, action AdminAction) error {
	if targetID != c.Identity.ID {
		return nil
	}
	switch action {
	case ActionDeactivate, ActionDemote, ActionDelete:
		return fmt.Errorf("%w: %s", ErrSelfActionDenied, action)
	}
	return nil
}

// ForIdentity resolves the role variant for an identity. An unknown role
// is a Forbidden, not a panic: tokens outlive role changes.
func ForIdentity(id Identity) (RoleContext, error) {
	switch id.Role {
	case models.RoleTenant:
		return TenantContext{Identity: id}, nil
	case models.RoleOwner:
		return OwnerContext{Identity: id}, nil
	case models.RoleAdmin:
		return AdminContext{Identity: id}, nil
	}
	return nil, fmt.Errorf("%w: unknown role %q", ErrForbidden, id.Role)
}

// WithIdentity and FromContext move the identity across the middleware
// boundary.
func WithIdentity(ctx context.Context, id Identity) context.Context {
	return context.WithValue(ctx, identityKey, id)
}

func FromContext(ctx context.Context) (Identity, bool) {
	id, ok := ctx.Value(identityKey).(Identity)
	return id, ok
}

// ContextFor is the handler-side shorthand: identity from the request
// context, resolved into its role variant.
func ContextFor(ctx context.Context) (RoleContext, Identity, error) {
	id, ok := FromContext(ctx)
	if !ok {
		return nil, Identity{}, ErrUnauthenticated
	}
	rc, err := ForIdentity(id)
	if err != nil {
		return nil, Identity{}, err
	}
	return rc, id, nil
}
