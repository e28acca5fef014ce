package requestcontext

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	id "licensehub/pkg/domain"
)

func TestNowFallsBackToWallClock(t *testing.T) {
	before := time.Now()
	got := Now(context.Background())
	assert.False(t, got.Before(before))

	fixed := time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)
	assert.Equal(t, fixed, Now(WithTime(context.Background(), fixed)))
}

func TestActorCanManage(t *testing.T) {
	org := id.OrganizationID(3)

	assert.True(t, Actor{Role: RoleSuperAdmin}.CanManage(org))
	assert.True(t, Actor{Role: RoleSalesAdmin}.CanManage(org))
	assert.True(t, Actor{Role: RoleOrganizationAdmin, OrganizationID: org}.CanManage(org))
	assert.False(t, Actor{Role: RoleOrganizationAdmin, OrganizationID: 4}.CanManage(org))
	assert.False(t, Actor{Role: RoleOrganizationAdmin}.CanManage(org))
	assert.False(t, Actor{Role: RoleStudent, OrganizationID: org}.CanManage(org))
	assert.False(t, ActorFrom(context.Background()).CanManage(org))
}
