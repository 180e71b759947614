package profiles

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/marisolvega/cakery-backend/pkg/db/models"
	"github.com/marisolvega/cakery-backend/pkg/enums"
	pkgerrors "github.com/marisolvega/cakery-backend/pkg/errors"
)

type stubProfileRepo struct {
	profile     *models.Profile
	findErr     error
	usernameErr error
	roleErr     error

	updatedUsername string
	updatedRole     enums.UserRole
}

func (s *stubProfileRepo) FindByUserID(_ context.Context, _ uuid.UUID) (*models.Profile, error) {
	if s.findErr != nil {
		return nil, s.findErr
	}
	return s.profile, nil
}

func (s *stubProfileRepo) UpdateUsername(_ context.Context, _ uuid.UUID, username string) error {
	if s.usernameErr != nil {
		return s.usernameErr
	}
	s.updatedUsername = username
	s.profile.Username = username
	return nil
}

func (s *stubProfileRepo) UpdateRole(_ context.Context, _ uuid.UUID, role enums.UserRole) error {
	if s.roleErr != nil {
		return s.roleErr
	}
	s.updatedRole = role
	s.profile.Role = role
	return nil
}

func baseProfile() *models.Profile {
	return &models.Profile{
		UserID:   uuid.New(),
		Username: "marisol",
		Role:     enums.UserRoleViewer,
	}
}

func TestNewServiceRequiresRepo(t *testing.T) {
	if _, err := NewService(nil); err == nil {
		t.Fatal("expected error creating service without repo")
	}
}

func TestResolveRoleReturnsProfileRole(t *testing.T) {
	profile := baseProfile()
	profile.Role = enums.UserRoleAdmin
	svc, err := NewService(&stubProfileRepo{profile: profile})
	if err != nil {
		t.Fatalf("new service: %v", err)
	}

	role, err := svc.ResolveRole(context.Background(), profile.UserID)
	if err != nil {
		t.Fatalf("resolve role: %v", err)
	}
	if role != enums.UserRoleAdmin {
		t.Fatalf("expected admin, got %s", role)
	}
}

func TestResolveRoleMissingProfileDefaultsToViewer(t *testing.T) {
	svc, err := NewService(&stubProfileRepo{findErr: gorm.ErrRecordNotFound})
	if err != nil {
		t.Fatalf("new service: %v", err)
	}

	role, err := svc.ResolveRole(context.Background(), uuid.New())
	if err != nil {
		t.Fatalf("resolve role: %v", err)
	}
	if role != enums.UserRoleViewer {
		t.Fatalf("expected viewer fallback, got %s", role)
	}
}

func TestResolveRoleDependencyError(t *testing.T) {
	svc, err := NewService(&stubProfileRepo{findErr: errors.New("boom")})
	if err != nil {
		t.Fatalf("new service: %v", err)
	}

	_, gotErr := svc.ResolveRole(context.Background(), uuid.New())
	if typed := pkgerrors.As(gotErr); typed == nil || typed.Code() != pkgerrors.CodeDependency {
		t.Fatalf("expected dependency error, got %v", gotErr)
	}
}

func TestUpdateUsernameOwner(t *testing.T) {
	profile := baseProfile()
	repo := &stubProfileRepo{profile: profile}
	svc, err := NewService(repo)
	if err != nil {
		t.Fatalf("new service: %v", err)
	}

	dto, err := svc.UpdateUsername(context.Background(), profile.UserID, enums.UserRoleViewer, profile.UserID, "  new-name  ")
	if err != nil {
		t.Fatalf("update username: %v", err)
	}
	if dto.Username != "new-name" {
		t.Fatalf("expected trimmed username, got %q", dto.Username)
	}
	if repo.updatedUsername != "new-name" {
		t.Fatalf("expected repo write, got %q", repo.updatedUsername)
	}
}

func TestUpdateUsernameForbiddenForOtherViewer(t *testing.T) {
	profile := baseProfile()
	svc, err := NewService(&stubProfileRepo{profile: profile})
	if err != nil {
		t.Fatalf("new service: %v", err)
	}

	_, gotErr := svc.UpdateUsername(context.Background(), uuid.New(), enums.UserRoleViewer, profile.UserID, "other")
	if typed := pkgerrors.As(gotErr); typed == nil || typed.Code() != pkgerrors.CodeForbidden {
		t.Fatalf("expected forbidden, got %v", gotErr)
	}
}

func TestUpdateUsernameAdminMayEditOthers(t *testing.T) {
	profile := baseProfile()
	svc, err := NewService(&stubProfileRepo{profile: profile})
	if err != nil {
		t.Fatalf("new service: %v", err)
	}

	if _, err := svc.UpdateUsername(context.Background(), uuid.New(), enums.UserRoleAdmin, profile.UserID, "renamed"); err != nil {
		t.Fatalf("admin update username: %v", err)
	}
}

func TestUpdateUsernameTooShort(t *testing.T) {
	profile := baseProfile()
	svc, err := NewService(&stubProfileRepo{profile: profile})
	if err != nil {
		t.Fatalf("new service: %v", err)
	}

	_, gotErr := svc.UpdateUsername(context.Background(), profile.UserID, enums.UserRoleViewer, profile.UserID, "ab")
	if typed := pkgerrors.As(gotErr); typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", gotErr)
	}
}

func TestUpdateRoleRequiresAdmin(t *testing.T) {
	profile := baseProfile()
	svc, err := NewService(&stubProfileRepo{profile: profile})
	if err != nil {
		t.Fatalf("new service: %v", err)
	}

	_, gotErr := svc.UpdateRole(context.Background(), enums.UserRoleViewer, profile.UserID, enums.UserRoleAdmin)
	if typed := pkgerrors.As(gotErr); typed == nil || typed.Code() != pkgerrors.CodeForbidden {
		t.Fatalf("expected forbidden, got %v", gotErr)
	}
}

func TestUpdateRoleAdminPromotesViewer(t *testing.T) {
	profile := baseProfile()
	repo := &stubProfileRepo{profile: profile}
	svc, err := NewService(repo)
	if err != nil {
		t.Fatalf("new service: %v", err)
	}

	dto, err := svc.UpdateRole(context.Background(), enums.UserRoleAdmin, profile.UserID, enums.UserRoleAdmin)
	if err != nil {
		t.Fatalf("update role: %v", err)
	}
	if dto.Role != enums.UserRoleAdmin {
		t.Fatalf("expected admin role, got %s", dto.Role)
	}
	if repo.updatedRole != enums.UserRoleAdmin {
		t.Fatalf("expected repo write, got %s", repo.updatedRole)
	}
}

func TestUpdateRoleRejectsUnknownRole(t *testing.T) {
	profile := baseProfile()
	svc, err := NewService(&stubProfileRepo{profile: profile})
	if err != nil {
		t.Fatalf("new service: %v", err)
	}

	_, gotErr := svc.UpdateRole(context.Background(), enums.UserRoleAdmin, profile.UserID, enums.UserRole("owner"))
	if typed := pkgerrors.As(gotErr); typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", gotErr)
	}
}

func TestUpdateRoleTargetMissing(t *testing.T) {
	svc, err := NewService(&stubProfileRepo{findErr: gorm.ErrRecordNotFound})
	if err != nil {
		t.Fatalf("new service: %v", err)
	}

	_, gotErr := svc.UpdateRole(context.Background(), enums.UserRoleAdmin, uuid.New(), enums.UserRoleAdmin)
	if typed := pkgerrors.As(gotErr); typed == nil || typed.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected not found, got %v", gotErr)
	}
}
