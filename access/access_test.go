package access

import (
	"context"
	"errors"
	"testing"

	"github.com/stayease-dev/stayease/backend/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
)

func TestForIdentity(t *testing.T) {
	tests := []struct {
		name    string
		role    models.Role
		want    interface{}
		wantErr bool
	}{
		{name: "tenant", role: models.RoleTenant, want: TenantContext{}},
		{name: "owner", role: models.RoleOwner, want: OwnerContext{}},
		{name: "admin", role: models.RoleAdmin, want: AdminContext{}},
		{name: "unknown role", role: "superuser", wantErr: true},
		{name: "empty role", role: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rc, err := ForIdentity(Identity{ID: "u1", Role: tt.role})
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, errors.Is(err, ErrForbidden))
				return
			}
			require.NoError(t, err)
			assert.IsType(t, tt.want, rc)
			assert.Equal(t, tt.role, rc.Role())
		})
	}
}

func TestInquiryFilter(t *testing.T) {
	tenant := TenantContext{Identity: Identity{ID: "t1"}}
	owner := OwnerContext{Identity: Identity{ID: "o1"}}
	admin := AdminContext{Identity: Identity{ID: "a1"}}

	assert.Equal(t, bson.M{"tenantId": "t1"}, tenant.InquiryFilter())
	assert.Equal(t, bson.M{"ownerId": "o1"}, owner.InquiryFilter())
	assert.Equal(t, bson.M{}, admin.InquiryFilter())
}

func TestPropertyFilter(t *testing.T) {
	_, ok := TenantContext{Identity: Identity{ID: "t1"}}.PropertyFilter()
	assert.False(t, ok, "tenants have no property scope")

	filter, ok := OwnerContext{Identity: Identity{ID: "o1"}}.PropertyFilter()
	require.True(t, ok)
	assert.Equal(t, bson.M{"ownerId": "o1"}, filter)

	filter, ok = AdminContext{Identity: Identity{ID: "a1"}}.PropertyFilter()
	require.True(t, ok)
	assert.Empty(t, filter)
}

func TestCanMutateRecord(t *testing.T) {
	owner := OwnerContext{Identity: Identity{ID: "o1"}}
	assert.True(t, owner.CanMutateRecord("o1"))
	assert.False(t, owner.CanMutateRecord("o2"))

	tenant := TenantContext{Identity: Identity{ID: "t1"}}
	assert.True(t, tenant.CanMutateRecord("t1"))
	assert.False(t, tenant.CanMutateRecord("o1"))

	admin := AdminContext{Identity: Identity{ID: "a1"}}
	assert.True(t, admin.CanMutateRecord("anyone"))
}

func TestAdminCanTarget(t *testing.T) {
	admin := AdminContext{Identity: Identity{ID: "a1"}}

	// Restricted actions against the admin's own account always fail,
	// regardless of anything else.
	for _, action := range []AdminAction{ActionDeactivate, ActionDemote, ActionDelete} {
		err := admin.CanTarget("a1", action)
		require.Error(t, err, "action %s", action)
		assert.True(t, errors.Is(err, ErrSelfActionDenied))
		assert.False(t, errors.Is(err, ErrForbidden), "SelfActionDenied is distinct from Forbidden")
	}

	// Self-activate and self-promote are harmless.
	assert.NoError(t, admin.CanTarget("a1", ActionActivate))
	assert.NoError(t, admin.CanTarget("a1", ActionPromote))

	// Any action against another account passes the self-check.
	for _, action := range []AdminAction{ActionActivate, ActionDeactivate, ActionPromote, ActionDemote, ActionDelete} {
		assert.NoError(t, admin.CanTarget("u2", action))
	}
}

func TestIdentityContextRoundTrip(t *testing.T) {
	id := Identity{ID: "u1", Name: "Asha", Email: "asha@example.com", Role: models.RoleOwner}
	ctx := WithIdentity(context.Background(), id)

	got, ok := FromContext(ctx)
	require.True(t, ok)
	assert.Equal(t, id, got)

	_, ok = FromContext(context.Background())
	assert.False(t, ok)
}

func TestContextFor(t *testing.T) {
	_, _, err := ContextFor(context.Background())
	assert.True(t, errors.Is(err, ErrUnauthenticated))

	ctx := WithIdentity(context.Background(), Identity{ID: "u1", Role: models.RoleTenant})
	rc, id, err := ContextFor(ctx)
	require.NoError(t, err)
	assert.Equal(t, "u1", id.ID)
	assert.IsType(t, TenantContext{}, rc)

	ctx = WithIdentity(context.Background(), Identity{ID: "u1", Role: "ghost"})
	_, _, err = ContextFor(ctx)
	assert.True(t, errors.Is(err, ErrForbidden))
}
