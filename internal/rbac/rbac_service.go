package rbac

import (
	"log"
	"sync"

	"go-leave/internal/domain"

	"github.com/casbin/casbin/v2"
	"github.com/google/uuid"
)

//go:generate mockgen -source=rbac_service.go -destination=mock/rbac_service_mock.go -package=mock
type Service interface {
	ReloadPolicy() error
	Enforce(req domain.EnforceRequest) (bool, error)
	RolesForUser(userID string) ([]string, error)

	// Management
	ListRoles() ([]RoleRow, error)
	GetRole(id string) (*RoleRow, error)
	CreateRole(name, description string) (*RoleRow, error)
	UpdateRole(id, name, description string) (*RoleRow, error)
	DeleteRole(id string) error

	ListPermissions() ([]PermissionRow, error)
	GetRolePermissions(roleID string) ([]PermissionRow, error)
	SetRolePermissions(roleID string, permIDs []string) error
}

type service struct {
	repo     Repository
	enforcer *casbin.Enforcer
	mu       sync.Mutex
}

func NewService(repo Repository, enforcer *casbin.Enforcer) Service {
	return &service{
		repo:     repo,
		enforcer: enforcer,
	}
}

func (s *service) ReloadPolicy() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.reloadPolicyUnlocked()
}

func (s *service) reloadPolicyUnlocked() error {
	s.enforcer.ClearPolicy()

	userRoles, err := s.repo.GetUserRoles()
	if err != nil {
		return err
	}

	for _, ur := range userRoles {
		if _, err := s.enforcer.AddGroupingPolicy(ur.UserID, ur.RoleID); err != nil {
			return err
		}
	}

	rolePerms, err := s.repo.GetRolePermissions()
	if err != nil {
		return err
	}

	for _, rp := range rolePerms {
		if _, err := s.enforcer.AddPolicy(rp.RoleID, rp.Resource, rp.Action); err != nil {
			return err
		}
	}

	log.Printf("rbac load policy: user_roles=%d role_permissions=%d", len(userRoles), len(rolePerms))
	return nil
}

// Enforce reloads the policy from the database before every check so role
// changes take effect without a restart.
func (s *service) Enforce(req domain.EnforceRequest) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.reloadPolicyUnlocked(); err != nil {
		return false, err
	}

	allowed, err := s.enforcer.Enforce(req.UserID, req.Resource, req.Action)
	if err != nil {
		log.Printf("rbac enforce result: user_id=%s resource=%s action=%s err=%v", req.UserID, req.Resource, req.Action, err)
		return false, err
	}

	log.Printf("rbac enforce result: user_id=%s resource=%s action=%s allowed=%t", req.UserID, req.Resource, req.Action, allowed)
	return allowed, nil
}

func (s *service) RolesForUser(userID string) ([]string, error) {
	return s.repo.GetRoleNamesForUser(userID)
}

func (s *service) ListRoles() ([]RoleRow, error) {
	return s.repo.ListRoles()
}

func (s *service) GetRole(id string) (*RoleRow, error) {
	return s.repo.GetRoleByID(id)
}

func (s *service) CreateRole(name, description string) (*RoleRow, error) {
	role := &RoleRow{
		ID:          uuid.NewString(),
		Name:        name,
		Description: description,
	}
	if err := s.repo.CreateRole(role); err != nil {
		return nil, err
	}
	return role, nil
}

func (s *service) UpdateRole(id, name, description string) (*RoleRow, error) {
	role, err := s.repo.GetRoleByID(id)
	if err != nil {
		return nil, err
	}
	role.Name = name
	role.Description = description
	if err := s.repo.UpdateRole(role); err != nil {
		return nil, err
	}
	return role, nil
}

func (s *service) DeleteRole(id string) error {
	return s.repo.DeleteRole(id)
}

func (s *service) ListPermissions() ([]PermissionRow, error) {
	return s.repo.ListPermissions()
}

func (s *service) GetRolePermissions(roleID string) ([]PermissionRow, error) {
	return s.repo.GetPermissionsByRoleID(roleID)
}

func (s *service) SetRolePermissions(roleID string, permIDs []string) error {
	return s.repo.UpdateRolePermissions(roleID, permIDs)
}
