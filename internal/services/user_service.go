package services

import (
	"context"
	"log"

	"tracker-backend/internal/apperrors"
	"tracker-backend/internal/auth"
	"tracker-backend/internal/models"
)

type UserStore interface {
	Create(ctx context.Context, user *models.User) error
	Get(ctx context.Context, id int) (*models.User, error)
	GetByUsername(ctx context.Context, username string) (*models.User, error)
	List(ctx context.Context) ([]models.User, error)
	Update(ctx context.Context, user *models.User) error
	Count(ctx context.Context) (int, error)
}

// UserService owns accounts and login. The very first signup becomes the
// admin; later signups default to logistics officers until an admin assigns
// them a role and base.
type UserService struct {
	Users UserStore
	JWT   *auth.JWTManager
}

func NewUserService(users UserStore, jwt *auth.JWTManager) *UserService {
	return &UserService{Users: users, JWT: jwt}
}

func validRole(role string) bool {
	switch role {
	case models.RoleAdmin, models.RoleBaseCommander, models.RoleLogisticsOfficer:
		return true
	}
	return false
}

func (s *UserService) Signup(ctx context.Context, req *models.SignupRequest) (*models.User, error) {
	if req.Username == "" || req.Password == "" {
		return nil, apperrors.Validation("username and password are required")
	}
	if len(req.Password) < 8 {
		return nil, apperrors.Validation("password must be at least 8 characters")
	}

	if existing, err := s.Users.GetByUsername(ctx, req.Username); err == nil && existing != nil {
		return nil, apperrors.Validation("username %q is taken", req.Username)
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		return nil, err
	}

	count, err := s.Users.Count(ctx)
	if err != nil {
		return nil, err
	}
	role := models.RoleLogisticsOfficer
	if count == 0 {
		role = models.RoleAdmin
	}

	user := &models.User{
		Username:     req.Username,
		FullName:     req.FullName,
		PasswordHash: hash,
		Role:         role,
		IsActive:     true,
	}
	if err := s.Users.Create(ctx, user); err != nil {
		return nil, err
	}

	log.Printf("[User] signed up %q as %s", user.Username, user.Role)
	return user, nil
}

func (s *UserService) Login(ctx context.Context, req *models.LoginRequest) (*models.LoginResponse, error) {
	user, err := s.Users.GetByUsername(ctx, req.Username)
	if err != nil || user == nil || !auth.VerifyPassword(user.PasswordHash, req.Password) {
		// One message for both unknown user and bad password.
		return nil, apperrors.Validation("invalid username or password")
	}
	if !user.IsActive {
		return nil, apperrors.AccessDenied("account is deactivated")
	}

	token, err := s.JWT.GenerateToken(user)
	if err != nil {
		return nil, err
	}
	return &models.LoginResponse{Token: token, User: user}, nil
}

func (s *UserService) Create(ctx context.Context, req *models.CreateUserRequest) (*models.User, error) {
	if req.Username == "" || req.Password == "" {
		return nil, apperrors.Validation("username and password are required")
	}
	if len(req.Password) < 8 {
		return nil, apperrors.Validation("password must be at least 8 characters")
	}
	if !validRole(req.Role) {
		return nil, apperrors.Validation("unknown role %q", req.Role)
	}
	if req.Role != models.RoleAdmin && req.BaseID == nil {
		return nil, apperrors.Validation("role %s requires a base", req.Role)
	}

	if existing, err := s.Users.GetByUsername(ctx, req.Username); err == nil && existing != nil {
		return nil, apperrors.Validation("username %q is taken", req.Username)
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		return nil, err
	}

	user := &models.User{
		Username:     req.Username,
		FullName:     req.FullName,
		PasswordHash: hash,
		Role:         req.Role,
		BaseID:       req.BaseID,
		IsActive:     true,
	}
	if err := s.Users.Create(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

func (s *UserService) Get(ctx context.Context, id int) (*models.User, error) {
	return s.Users.Get(ctx, id)
}

func (s *UserService) List(ctx context.Context) ([]models.User, error) {
	return s.Users.List(ctx)
}

func (s *UserService) Update(ctx context.Context, id int, req *models.UpdateUserRequest) (*models.User, error) {
	user, err := s.Users.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if !validRole(req.Role) {
		return nil, apperrors.Validation("unknown role %q", req.Role)
	}
	if req.Role != models.RoleAdmin && req.BaseID == nil {
		return nil, apperrors.Validation("role %s requires a base", req.Role)
	}

	user.FullName = req.FullName
	user.Role = req.Role
	user.BaseID = req.BaseID
	if req.Role == models.RoleAdmin {
		user.BaseID = nil
	}
	if req.IsActive != nil {
		user.IsActive = *req.IsActive
	}

	if err := s.Users.Update(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}
