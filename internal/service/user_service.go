package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"sacra/internal/model"
	"sacra/internal/repository"
	"sacra/pkg/token"

	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const minPasswordLength = 6

type RegisterRequest struct {
	Username string `json:"username" form:"username" binding:"required,max=150"`
	Email    string `json:"email" form:"email" binding:"omitempty,email"`
	Password string `json:"password" form:"password" binding:"required,min=6"`
}

type LoginRequest struct {
	Username string `json:"username" form:"username" binding:"required"`
	Password string `json:"password" form:"password" binding:"required"`
}

type PortalAccountRequest struct {
	IDNumber string `json:"id_number" form:"id_number" binding:"required,max=20"`
	Password string `json:"password" form:"password" binding:"required,min=6"`
}

// UserResponse never carries the password hash
type UserResponse struct {
	ID        string `json:"id"`
	Username  string `json:"username"`
	Email     string `json:"email,omitempty"`
	Role      string `json:"role"`
	CreatedAt string `json:"created_at"`
}

type AuthResult struct {
	Token string       `json:"token"`
	User  UserResponse `json:"user"`
}

type MeResponse struct {
	User        UserResponse `json:"user"`
	Permissions []string     `json:"permissions"`
}

type UserService interface {
	// Register creates a staff account.
	Register(ctx context.Context, req RegisterRequest) (UserResponse, error)
	// Login signs in staff and admins.
	Login(ctx context.Context, req LoginRequest) (AuthResult, error)
	// PortalLogin signs in customers by id-number.
	PortalLogin(ctx context.Context, req LoginRequest) (AuthResult, error)
	CreatePortalAccount(ctx context.Context, actorID string, req PortalAccountRequest) (UserResponse, error)
	Me(ctx context.Context, userID string) (MeResponse, error)
	// EnsureAdmin creates the bootstrap admin when it does not exist yet.
	EnsureAdmin(ctx context.Context, username, password string) error
}

type userService struct {
	userRepo  repository.UserRepository
	saleRepo  repository.SaleRepository
	roleRepo  repository.RoleRepository
	auditRepo repository.AuditRepository
	txManager repository.TransactionManager
	tokens    *token.Manager
	log       logrus.FieldLogger
}

func NewUserService(
	userRepo repository.UserRepository,
	saleRepo repository.SaleRepository,
	roleRepo repository.RoleRepository,
	auditRepo repository.AuditRepository,
	txManager repository.TransactionManager,
	tokens *token.Manager,
	log logrus.FieldLogger,
) UserService {
	return &userService{
		userRepo:  userRepo,
		saleRepo:  saleRepo,
		roleRepo:  roleRepo,
		auditRepo: auditRepo,
		txManager: txManager,
		tokens:    tokens,
		log:       log.WithField("module", "user"),
	}
}

func mapToResponse(user *model.User) UserResponse {
	return UserResponse{
		ID:        user.ID.String(),
		Username:  user.Username,
		Email:     user.Email,
		Role:      user.Role,
		CreatedAt: user.CreatedAt.Format(timeLayout),
	}
}

func (s *userService) Register(ctx context.Context, req RegisterRequest) (UserResponse, error) {
	user, err := s.createUser(ctx, "", req.Username, req.Email, req.Password, model.RoleStaff, model.ActionRegisterUser)
	if err != nil {
		return UserResponse{}, err
	}
	return mapToResponse(user), nil
}

func (s *userService) CreatePortalAccount(ctx context.Context, actorID string, req PortalAccountRequest) (UserResponse, error) {
	idNumber := strings.TrimSpace(req.IDNumber)
	sales, err := s.saleRepo.FindByIDNumber(ctx, idNumber)
	if err != nil {
		return UserResponse{}, fmt.Errorf("failed to look up sales: %w", err)
	}
	if len(sales) == 0 {
		return UserResponse{}, notFoundf("sale for id-number %q", idNumber)
	}

	user, err := s.createUser(ctx, actorID, idNumber, "", req.Password, model.RoleCustomer, model.ActionCreatePortalAccount)
	if err != nil {
		return UserResponse{}, err
	}
	return mapToResponse(user), nil
}

func (s *userService) createUser(ctx context.Context, actorID, username, email, password, role, action string) (*model.User, error) {
	username = strings.TrimSpace(username)
	if username == "" {
		return nil, invalidf("username is required")
	}
	if len(password) < minPasswordLength {
		return nil, invalidf("password must be at least %d characters", minPasswordLength)
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &model.User{
		Username: username,
		Email:    strings.TrimSpace(email),
		Password: string(hashed),
		Role:     role,
	}

	err = s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		if _, err := s.userRepo.GetByUsername(txCtx, username); err == nil {
			return ErrDuplicateUsername
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("database error: %w", err)
		}

		if err := s.userRepo.Create(txCtx, user); err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return ErrDuplicateUsername
			}
			return fmt.Errorf("failed to create user: %w", err)
		}

		return writeAudit(txCtx, s.auditRepo, actorID, action, user.ID.String(), user.Username, map[string]string{
			"username": user.Username,
			"role":     user.Role,
		})
	})
	if err != nil {
		return nil, err
	}
	return user, nil
}

func (s *userService) Login(ctx context.Context, req LoginRequest) (AuthResult, error) {
	return s.login(ctx, req, model.RoleAdmin, model.RoleStaff)
}

func (s *userService) PortalLogin(ctx context.Context, req LoginRequest) (AuthResult, error) {
	return s.login(ctx, req, model.RoleCustomer)
}

func (s *userService) login(ctx context.Context, req LoginRequest, allowed ...string) (AuthResult, error) {
	user, err := s.userRepo.GetByUsername(ctx, strings.TrimSpace(req.Username))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return AuthResult{}, ErrInvalidCredentials
		}
		return AuthResult{}, fmt.Errorf("database error: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		return AuthResult{}, ErrInvalidCredentials
	}

	permitted := false
	for _, role := range allowed {
		if user.Role == role {
			permitted = true
			break
		}
	}
	if !permitted {
		return AuthResult{}, ErrForbiddenRole
	}

	signed, err := s.tokens.Issue(user.ID.String(), user.Username, user.Role)
	if err != nil {
		return AuthResult{}, err
	}
	return AuthResult{Token: signed, User: mapToResponse(user)}, nil
}

func (s *userService) Me(ctx context.Context, userID string) (MeResponse, error) {
	id, err := parseID(userID, "user")
	if err != nil {
		return MeResponse{}, err
	}
	user, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return MeResponse{}, notFoundf("user %s", id)
		}
		return MeResponse{}, fmt.Errorf("database error: %w", err)
	}

	perms, err := s.roleRepo.GetPermissionsByRoleName(ctx, user.Role)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return MeResponse{}, fmt.Errorf("failed to load permissions: %w", err)
	}
	if perms == nil {
		perms = []string{}
	}
	return MeResponse{User: mapToResponse(user), Permissions: perms}, nil
}

func (s *userService) EnsureAdmin(ctx context.Context, username, password string) error {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return nil
	}

	existing, err := s.userRepo.GetByUsername(ctx, username)
	if err == nil {
		if existing.Role != model.RoleAdmin {
			s.log.WithField("username", username).Warn("bootstrap admin name is taken by a non-admin account")
		}
		return nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("database error: %w", err)
	}

	if _, err := s.createUser(ctx, "", username, "", password, model.RoleAdmin, model.ActionRegisterUser); err != nil {
		return err
	}
	s.log.WithField("username", username).Info("bootstrap admin created")
	return nil
}
