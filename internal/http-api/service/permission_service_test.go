package service

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"libraryhub/internal/http-api/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"gorm.io/gorm"
)

func newTestPermissionService(userRepo *MockUserRepository) PermissionService {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewPermissionService(userRepo, logger)
}

func userWithRole(id, role string) *models.User {
	return &models.User{ID: id, Username: "someone", Role: role}
}

func TestCanRole_AdminBypassesEverything(t *testing.T) {
	svc := newTestPermissionService(new(MockUserRepository))

	checks := []struct {
		resource string
		action   string
	}{
		{ResourceBooks, ActionDelete},
		{ResourceMembers, ActionCreate},
		{ResourceCirculation, ActionManage},
		{ResourceReports, ActionGenerate},
		{ResourceOrganization, ActionManage},
		{"some-future-resource", "some-future-action"},
	}
	for _, c := range checks {
		assert.True(t, svc.CanRole(models.RoleAdmin, c.resource, c.action),
			"admin should be allowed %s on %s", c.action, c.resource)
	}
}

func TestCanRole_BookViewIsPublicRead(t *testing.T) {
	svc := newTestPermissionService(new(MockUserRepository))

	assert.True(t, svc.CanRole(models.RoleMember, ResourceBooks, ActionView))
	assert.True(t, svc.CanRole(models.RoleVolunteer, ResourceBooks, ActionView))
	// Even a role the table does not know gets catalog read once authenticated
	assert.True(t, svc.CanRole("intern", ResourceBooks, ActionView))
}

func TestCanRole_MemberCapabilities(t *testing.T) {
	svc := newTestPermissionService(new(MockUserRepository))

	assert.True(t, svc.CanRole(models.RoleMember, ResourceBooks, ActionBorrow))
	assert.True(t, svc.CanRole(models.RoleMember, ResourceBooks, ActionReturn))
	assert.False(t, svc.CanRole(models.RoleMember, ResourceBooks, ActionCreate))
	assert.False(t, svc.CanRole(models.RoleMember, ResourceMembers, ActionView))
	assert.False(t, svc.CanRole(models.RoleMember, ResourceCirculation, ActionManage))
	assert.False(t, svc.CanRole(models.RoleMember, ResourceReports, ActionView))
	assert.False(t, svc.CanRole(models.RoleMember, ResourceOrganization, ActionManage))
}

func TestCanRole_VolunteerCapabilities(t *testing.T) {
	svc := newTestPermissionService(new(MockUserRepository))

	assert.True(t, svc.CanRole(models.RoleVolunteer, ResourceBooks, ActionCreate))
	assert.True(t, svc.CanRole(models.RoleVolunteer, ResourceBooks, ActionUpdate))
	assert.True(t, svc.CanRole(models.RoleVolunteer, ResourceMembers, ActionView))
	assert.True(t, svc.CanRole(models.RoleVolunteer, ResourceCirculation, ActionManage))
	assert.False(t, svc.CanRole(models.RoleVolunteer, ResourceBooks, ActionDelete))
	assert.False(t, svc.CanRole(models.RoleVolunteer, ResourceMembers, ActionDelete))
	assert.False(t, svc.CanRole(models.RoleVolunteer, ResourceReports, ActionView))
	assert.False(t, svc.CanRole(models.RoleVolunteer, ResourceOrganization, ActionManage))
}

func TestCan_EmptyUserIDIsDenied(t *testing.T) {
	userRepo := new(MockUserRepository)
	svc := newTestPermissionService(userRepo)

	assert.False(t, svc.Can(context.Background(), "", ResourceBooks, ActionView))
	userRepo.AssertNotCalled(t, "FindByID", mock.Anything)
}

func TestCan_RoleLookupFailureIsSilentDeny(t *testing.T) {
	userRepo := new(MockUserRepository)
	userRepo.On("FindByID", "ghost").Return(nil, gorm.ErrRecordNotFound)
	svc := newTestPermissionService(userRepo)

	assert.False(t, svc.Can(context.Background(), "ghost", ResourceBooks, ActionView))
}

func TestCan_RoleResolvedFreshOnEveryCheck(t *testing.T) {
	userRepo := new(MockUserRepository)
	userRepo.On("FindByID", "user-1").Return(userWithRole("user-1", models.RoleMember), nil).Once()
	userRepo.On("FindByID", "user-1").Return(userWithRole("user-1", models.RoleAdmin), nil).Once()
	svc := newTestPermissionService(userRepo)

	assert.False(t, svc.Can(context.Background(), "user-1", ResourceOrganization, ActionManage))
	// Role was changed between checks; the next check sees the new role
	assert.True(t, svc.Can(context.Background(), "user-1", ResourceOrganization, ActionManage))
	userRepo.AssertExpectations(t)
}

func TestCapabilitiesFor(t *testing.T) {
	svc := newTestPermissionService(new(MockUserRepository))

	caps := svc.CapabilitiesFor(models.RoleVolunteer)
	assert.ElementsMatch(t, []string{ActionView, ActionCreate, ActionUpdate, ActionBorrow, ActionReturn}, caps[ResourceBooks])
	assert.ElementsMatch(t, []string{ActionView}, caps[ResourceMembers])
	assert.ElementsMatch(t, []string{ActionManage}, caps[ResourceCirculation])

	assert.Empty(t, svc.CapabilitiesFor("no-such-role"))
}
