package service

import (
	"context"
	"log/slog"

	"libraryhub/internal/http-api/models"
	"libraryhub/internal/http-api/repository"
)

// Resources gated by the permission layer.
const (
	ResourceBooks        = "books"
	ResourceMembers      = "members"
	ResourceCirculation  = "circulation"
	ResourceReports      = "reports"
	ResourceOrganization = "organization"
)

// Actions on resources.
const (
	ActionView     = "view"
	ActionCreate   = "create"
	ActionUpdate   = "update"
	ActionDelete   = "delete"
	ActionBorrow   = "borrow"
	ActionReturn   = "return"
	ActionManage   = "manage"
	ActionGenerate = "generate"
)

// roleCapabilities is the single consolidated capability table, keyed by
// role -> resource -> allowed actions. Loaded once at startup, never mutated.
var roleCapabilities = map[string]map[string][]string{
	models.RoleMember: {
		ResourceBooks: {ActionView, ActionBorrow, ActionReturn},
	},
	models.RoleVolunteer: {
		ResourceBooks:       {ActionView, ActionCreate, ActionUpdate, ActionBorrow, ActionReturn},
		ResourceMembers:     {ActionView},
		ResourceCirculation: {ActionManage},
	},
	models.RoleAdmin: {
		ResourceBooks:        {ActionView, ActionCreate, ActionUpdate, ActionDelete, ActionBorrow, ActionReturn},
		ResourceMembers:      {ActionView, ActionCreate, ActionUpdate, ActionDelete},
		ResourceCirculation:  {ActionManage},
		ResourceReports:      {ActionView, ActionGenerate},
		ResourceOrganization: {ActionManage},
	},
}

// PermissionService decides whether a user may perform an action on a
// resource. The user's role is resolved fresh from the store on every check
// so a role change takes effect on the next check without re-login. Every
// lookup failure resolves to deny rather than an error: the evaluator gates
// UI visibility and must never crash navigation.
type PermissionService interface {
	Can(ctx context.Context, userID, resource, action string) bool
	CanRole(role, resource, action string) bool
	RoleOf(ctx context.Context, userID string) (string, error)
	CapabilitiesFor(role string) map[string][]string
}

type permissionService struct {
	userRepo repository.UserRepository
	logger   *slog.Logger
	table    map[string]map[string]map[string]bool
}

func NewPermissionService(userRepo repository.UserRepository, logger *slog.Logger) PermissionService {
	return &permissionService{
		userRepo: userRepo,
		logger:   logger,
		table:    buildLookupTable(roleCapabilities),
	}
}

// buildLookupTable flattens the capability declaration into constant-time
// lookups keyed by (role, resource, action).
func buildLookupTable(caps map[string]map[string][]string) map[string]map[string]map[string]bool {
	table := make(map[string]map[string]map[string]bool, len(caps))
	for role, resources := range caps {
		table[role] = make(map[string]map[string]bool, len(resources))
		for resource, actions := range resources {
			table[role][resource] = make(map[string]bool, len(actions))
			for _, action := range actions {
				table[role][resource][action] = true
			}
		}
	}
	return table
}

// Can resolves the permission in precedence order: unauthenticated deny,
// admin bypass, public read of the book catalog, then the capability table.
func (s *permissionService) Can(ctx context.Context, userID, resource, action string) bool {
	if userID == "" {
		return false
	}

	role, err := s.RoleOf(ctx, userID)
	if err != nil {
		// Silent-deny: a failed role lookup must not propagate.
		s.logger.Debug("permission check denied, role lookup failed",
			"user_id", userID, "resource", resource, "action", action, "error", err)
		return false
	}

	return s.CanRole(role, resource, action)
}

// CanRole evaluates the table for an already-resolved role.
func (s *permissionService) CanRole(role, resource, action string) bool {
	// Admin bypass: full access regardless of resource/action.
	if role == models.RoleAdmin {
		return true
	}

	// Public-read override: any authenticated user may view the catalog.
	if resource == ResourceBooks && action == ActionView {
		return true
	}

	resources, ok := s.table[role]
	if !ok {
		return false
	}
	actions, ok := resources[resource]
	if !ok {
		return false
	}
	return actions[action]
}

// RoleOf reads the user's current role from the store. Never cached, so a
// role update is visible on the next check.
func (s *permissionService) RoleOf(ctx context.Context, userID string) (string, error) {
	user, err := s.userRepo.FindByID(userID)
	if err != nil {
		return "", err
	}
	return user.Role, nil
}

// CapabilitiesFor returns the declared capability set for a role, used by
// the UI to gate controls without a round-trip per control.
func (s *permissionService) CapabilitiesFor(role string) map[string][]string {
	caps, ok := roleCapabilities[role]
	if !ok {
		return map[string][]string{}
	}
	out := make(map[string][]string, len(caps))
	for resource, actions := range caps {
		out[resource] = append([]string(nil), actions...)
	}
	return out
}
