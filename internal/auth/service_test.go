package auth

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"gorm.io/gorm"

	pkgAuth "github.com/getclientflow/clientflow-backend/pkg/auth"
	"github.com/getclientflow/clientflow-backend/pkg/config"
	"github.com/getclientflow/clientflow-backend/pkg/db/models"
	"github.com/getclientflow/clientflow-backend/pkg/enums"
	pkgerrors "github.com/getclientflow/clientflow-backend/pkg/errors"
	"github.com/getclientflow/clientflow-backend/pkg/security"
)

var testJWTConfig = config.JWTConfig{
	Secret:            "test-secret",
	Issuer:            "clientflow",
	ExpirationMinutes: 60,
}

var testPasswordConfig = config.PasswordConfig{
	ArgonMemoryKB:    8192,
	ArgonTime:        1,
	ArgonParallelism: 1,
	ArgonSaltLen:     16,
	ArgonKeyLen:      32,
}

type fakeUserRepo struct {
	users map[string]*models.User
}

func (f *fakeUserRepo) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	user, ok := f.users[email]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return user, nil
}

func seedUser(t *testing.T, email, password string) (*fakeUserRepo, *models.User) {
	t.Helper()
	hash, err := security.HashPassword(password, testPasswordConfig)
	if err != nil {
		t.Fatalf("hash password: %v", err)
	}
	user := &models.User{
		ID:           uuid.New(),
		TenantID:     uuid.New(),
		Email:        email,
		PasswordHash: hash,
		Role:         enums.UserRoleOwner,
	}
	return &fakeUserRepo{users: map[string]*models.User{email: user}}, user
}

func TestLoginIssuesTenantScopedToken(t *testing.T) {
	repo, user := seedUser(t, "owner@studio.example", "correct horse")
	svc, err := NewService(repo, testJWTConfig)
	if err != nil {
		t.Fatalf("new service: %v", err)
	}

	resp, err := svc.Login(context.Background(), LoginRequest{
		Email:    "  Owner@Studio.Example ",
		Password: "correct horse",
	})
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if resp.User == nil || resp.User.ID != user.ID {
		t.Fatalf("unexpected user payload %+v", resp.User)
	}
	if resp.ExpiresIn != 3600 {
		t.Fatalf("unexpected expires_in %d", resp.ExpiresIn)
	}

	claims, err := pkgAuth.ParseAccessToken(testJWTConfig, resp.AccessToken)
	if err != nil {
		t.Fatalf("parse token: %v", err)
	}
	if claims.TenantID != user.TenantID {
		t.Fatalf("token must carry tenant id, got %s", claims.TenantID)
	}
	if claims.Role != enums.UserRoleOwner {
		t.Fatalf("unexpected role %s", claims.Role)
	}
}

func TestLoginRejectsBadPassword(t *testing.T) {
	repo, _ := seedUser(t, "owner@studio.example", "correct horse")
	svc, err := NewService(repo, testJWTConfig)
	if err != nil {
		t.Fatalf("new service: %v", err)
	}

	_, err = svc.Login(context.Background(), LoginRequest{
		Email:    "owner@studio.example",
		Password: "wrong",
	})
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeUnauthorized {
		t.Fatalf("expected unauthorized, got %v", err)
	}
}

func TestLoginUnknownUserLooksLikeBadPassword(t *testing.T) {
	svc, err := NewService(&fakeUserRepo{users: map[string]*models.User{}}, testJWTConfig)
	if err != nil {
		t.Fatalf("new service: %v", err)
	}

	_, err = svc.Login(context.Background(), LoginRequest{
		Email:    "nobody@studio.example",
		Password: "whatever",
	})
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeUnauthorized {
		t.Fatalf("expected unauthorized, got %v", err)
	}
	if typed.Message() != invalidCredentialsMessage {
		t.Fatalf("unknown user must not be distinguishable, got %q", typed.Message())
	}
}
