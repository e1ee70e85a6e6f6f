package services

import (
	"context"
	"errors"
	"sync"
	"testing"

	"tracker-backend/internal/apperrors"
	"tracker-backend/internal/auth"
	"tracker-backend/internal/config"
	"tracker-backend/internal/models"
)

type memUserStore struct {
	mu     sync.Mutex
	nextID int
	users  map[int]*models.User
}

func newMemUserStore() *memUserStore {
	return &memUserStore{nextID: 1, users: make(map[int]*models.User)}
}

func (s *memUserStore) Create(ctx context.Context, user *models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	user.ID = s.nextID
	s.nextID++
	copied := *user
	s.users[user.ID] = &copied
	return nil
}

func (s *memUserStore) Get(ctx context.Context, id int) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[id]
	if !ok {
		return nil, apperrors.NotFound("user", id)
	}
	copied := *u
	return &copied, nil
}

func (s *memUserStore) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.users {
		if u.Username == username {
			copied := *u
			return &copied, nil
		}
	}
	return nil, apperrors.NotFound("user", username)
}

func (s *memUserStore) List(ctx context.Context) ([]models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []models.User
	for _, u := range s.users {
		out = append(out, *u)
	}
	return out, nil
}

func (s *memUserStore) Update(ctx context.Context, user *models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.users[user.ID]; !ok {
		return apperrors.NotFound("user", user.ID)
	}
	copied := *user
	s.users[user.ID] = &copied
	return nil
}

func (s *memUserStore) Count(ctx context.Context) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.users), nil
}

func newUserService() *UserService {
	cfg := &config.Config{}
	cfg.JWT.Secret = "test-secret"
	cfg.JWT.ExpirationHours = 1
	return NewUserService(newMemUserStore(), auth.NewJWTManager(cfg))
}

func TestFirstSignupBecomesAdmin(t *testing.T) {
	svc := newUserService()
	ctx := context.Background()

	first, err := svc.Signup(ctx, &models.SignupRequest{Username: "alice", Password: "strongpass1"})
	if err != nil {
		t.Fatalf("first Signup: %v", err)
	}
	if first.Role != models.RoleAdmin {
		t.Errorf("expected first user to be admin, got %s", first.Role)
	}

	second, err := svc.Signup(ctx, &models.SignupRequest{Username: "bob", Password: "strongpass2"})
	if err != nil {
		t.Fatalf("second Signup: %v", err)
	}
	if second.Role != models.RoleLogisticsOfficer {
		t.Errorf("expected later users to default to logistics officer, got %s", second.Role)
	}
}

func TestSignupDuplicateUsername(t *testing.T) {
	svc := newUserService()
	ctx := context.Background()

	if _, err := svc.Signup(ctx, &models.SignupRequest{Username: "alice", Password: "strongpass1"}); err != nil {
		t.Fatalf("Signup: %v", err)
	}
	_, err := svc.Signup(ctx, &models.SignupRequest{Username: "alice", Password: "strongpass2"})
	var validation *apperrors.ValidationError
	if !errors.As(err, &validation) {
		t.Fatalf("expected validation error for duplicate username, got %v", err)
	}
}

func TestLoginRoundTrip(t *testing.T) {
	svc := newUserService()
	ctx := context.Background()

	if _, err := svc.Signup(ctx, &models.SignupRequest{Username: "alice", Password: "strongpass1"}); err != nil {
		t.Fatalf("Signup: %v", err)
	}

	resp, err := svc.Login(ctx, &models.LoginRequest{Username: "alice", Password: "strongpass1"})
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if resp.Token == "" {
		t.Error("expected a token")
	}

	if _, err := svc.Login(ctx, &models.LoginRequest{Username: "alice", Password: "wrong"}); err == nil {
		t.Error("expected login to fail with wrong password")
	}
	if _, err := svc.Login(ctx, &models.LoginRequest{Username: "nobody", Password: "whatever"}); err == nil {
		t.Error("expected login to fail for unknown user")
	}
}

func TestLoginDeactivatedUser(t *testing.T) {
	svc := newUserService()
	ctx := context.Background()

	user, _ := svc.Signup(ctx, &models.SignupRequest{Username: "alice", Password: "strongpass1"})

	inactive := false
	if _, err := svc.Update(ctx, user.ID, &models.UpdateUserRequest{
		Role: models.RoleAdmin, IsActive: &inactive,
	}); err != nil {
		t.Fatalf("Update: %v", err)
	}

	_, err := svc.Login(ctx, &models.LoginRequest{Username: "alice", Password: "strongpass1"})
	var denied *apperrors.AccessDeniedError
	if !errors.As(err, &denied) {
		t.Fatalf("expected access denied for deactivated user, got %v", err)
	}
}

func TestCreateUserRequiresBaseForScopedRoles(t *testing.T) {
	svc := newUserService()
	ctx := context.Background()

	_, err := svc.Create(ctx, &models.CreateUserRequest{
		Username: "carol", Password: "strongpass3", Role: models.RoleBaseCommander,
	})
	var validation *apperrors.ValidationError
	if !errors.As(err, &validation) {
		t.Fatalf("expected validation error for commander without base, got %v", err)
	}

	base := 2
	user, err := svc.Create(ctx, &models.CreateUserRequest{
		Username: "carol", Password: "strongpass3", Role: models.RoleBaseCommander, BaseID: &base,
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if user.BaseID == nil || *user.BaseID != 2 {
		t.Errorf("expected base 2, got %v", user.BaseID)
	}
}
