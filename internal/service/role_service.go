package service

import (
	"context"
	"errors"
	"fmt"

	"sacra/internal/model"
	"sacra/internal/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Permission codes checked by the HTTP layer
const (
	PermCatalogRead         = "catalog.read"
	PermCatalogWrite        = "catalog.write"
	PermCatalogDelete       = "catalog.delete"
	PermSalesRead           = "sales.read"
	PermSalesWrite          = "sales.write"
	PermPaymentsWrite       = "payments.write"
	PermDashboardRead       = "dashboard.read"
	PermAuditRead           = "audit.read"
	PermRolesRead           = "roles.read"
	PermPortalAccountsWrite = "portal.accounts.write"
	PermPortalRead          = "portal.read"
)

type RoleResponse struct {
	ID          string               `json:"id"`
	Name        string               `json:"name"`
	Description string               `json:"description"`
	IsSystem    bool                 `json:"is_system"`
	Permissions []PermissionResponse `json:"permissions"`
}

type PermissionResponse struct {
	ID    string `json:"id"`
	Code  string `json:"code"`
	Name  string `json:"name"`
	Group string `json:"group"`
}

type RoleService interface {
	ListRoles(ctx context.Context) ([]RoleResponse, error)
	GetPermissionsByRoleName(ctx context.Context, roleName string) ([]string, error)
	SeedDefaultRolesAndPermissions(ctx context.Context) error
}

type roleService struct {
	repo      repository.RoleRepository
	txManager repository.TransactionManager
}

func NewRoleService(repo repository.RoleRepository, txManager repository.TransactionManager) RoleService {
	return &roleService{repo: repo, txManager: txManager}
}

func (s *roleService) ListRoles(ctx context.Context) ([]RoleResponse, error) {
	roles, err := s.repo.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch roles: %w", err)
	}

	res := make([]RoleResponse, 0, len(roles))
	for _, r := range roles {
		res = append(res, toRoleResponse(r))
	}
	return res, nil
}

// GetPermissionsByRoleName returns no codes for an unknown role.
func (s *roleService) GetPermissionsByRoleName(ctx context.Context, roleName string) ([]string, error) {
	codes, err := s.repo.GetPermissionsByRoleName(ctx, roleName)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return []string{}, nil
		}
		return nil, fmt.Errorf("failed to load permissions: %w", err)
	}
	return codes, nil
}

type permissionSeed struct {
	code, name, group string
	roles             []string
}

var defaultPermissions = []permissionSeed{
	{PermCatalogRead, "View catalog", "catalog", []string{model.RoleAdmin, model.RoleStaff}},
	{PermCatalogWrite, "Add figurines", "catalog", []string{model.RoleAdmin, model.RoleStaff}},
	{PermCatalogDelete, "Delete figurines with their sales", "catalog", []string{model.RoleAdmin}},
	{PermSalesRead, "View sales", "sales", []string{model.RoleAdmin, model.RoleStaff}},
	{PermSalesWrite, "Register sales", "sales", []string{model.RoleAdmin, model.RoleStaff}},
	{PermPaymentsWrite, "Record payments", "sales", []string{model.RoleAdmin, model.RoleStaff}},
	{PermDashboardRead, "View dashboard", "dashboard", []string{model.RoleAdmin, model.RoleStaff}},
	{PermAuditRead, "View audit trail", "admin", []string{model.RoleAdmin}},
	{PermRolesRead, "View roles", "admin", []string{model.RoleAdmin}},
	{PermPortalAccountsWrite, "Create customer portal logins", "portal", []string{model.RoleAdmin, model.RoleStaff}},
	{PermPortalRead, "View own contract", "portal", []string{model.RoleCustomer}},
}

var defaultRoles = []model.Role{
	{Name: model.RoleAdmin, Description: "Full access", IsSystem: true},
	{Name: model.RoleStaff, Description: "Sales staff", IsSystem: true},
	{Name: model.RoleCustomer, Description: "Customer portal", IsSystem: true},
}

// SeedDefaultRolesAndPermissions creates the built-in roles and grants. It is
// safe to run on every start.
func (s *roleService) SeedDefaultRolesAndPermissions(ctx context.Context) error {
	return s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		roleIDs := make(map[string]uuid.UUID, len(defaultRoles))
		for _, def := range defaultRoles {
			role, err := s.repo.FindByName(txCtx, def.Name)
			if err != nil {
				r := def
				if err := s.repo.Create(txCtx, &r); err != nil {
					return fmt.Errorf("failed to create role %s: %w", def.Name, err)
				}
				role = &r
			}
			roleIDs[def.Name] = role.ID
		}

		grants := make(map[string][]uuid.UUID)
		for _, seed := range defaultPermissions {
			perm := &model.Permission{Code: seed.code, Name: seed.name, Group: seed.group}
			if err := s.repo.FindOrCreatePermission(txCtx, perm); err != nil {
				return fmt.Errorf("failed to seed permission %s: %w", seed.code, err)
			}
			for _, roleName := range seed.roles {
				grants[roleName] = append(grants[roleName], perm.ID)
			}
		}

		for roleName, permIDs := range grants {
			if err := s.repo.AssociatePermissions(txCtx, roleIDs[roleName], permIDs); err != nil {
				return fmt.Errorf("failed to grant permissions to %s: %w", roleName, err)
			}
		}
		return nil
	})
}

func toRoleResponse(r model.Role) RoleResponse {
	perms := make([]PermissionResponse, 0, len(r.Permissions))
	for _, p := range r.Permissions {
		perms = append(perms, PermissionResponse{
			ID:    p.ID.String(),
			Code:  p.Code,
			Name:  p.Name,
			Group: p.Group,
		})
	}
	return RoleResponse{
		ID:          r.ID.String(),
		Name:        r.Name,
		Description: r.Description,
		IsSystem:    r.IsSystem,
		Permissions: perms,
	}
}
