package services

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/dmitrijs2005/taskboard/internal/common"
	"github.com/dmitrijs2005/taskboard/internal/dbx"
	"github.com/dmitrijs2005/taskboard/internal/server/auth"
	"github.com/dmitrijs2005/taskboard/internal/server/config"
	"github.com/dmitrijs2005/taskboard/internal/server/models"
	tasksrepo "github.com/dmitrijs2005/taskboard/internal/server/repositories/tasks"
	usersrepo "github.com/dmitrijs2005/taskboard/internal/server/repositories/users"
	"golang.org/x/crypto/bcrypt"
)

// --- fakes ---

type fakeUsersRepo struct {
	createIn  *models.User
	createOut *models.User
	createErr error

	getOut *models.User
	getErr error

	existsOut bool
	existsErr error

	updateOut *models.User
	updateErr error
	updateIn  usersrepo.Patch
}

func (f *fakeUsersRepo) Create(ctx context.Context, u *models.User) (*models.User, error) {
	f.createIn = u
	if f.createErr != nil {
		return nil, f.createErr
	}
	if f.createOut != nil {
		return f.createOut, nil
	}
	return u, nil
}

func (f *fakeUsersRepo) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	return f.getOut, nil
}

func (f *fakeUsersRepo) GetByID(ctx context.Context, id string) (*models.User, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	return f.getOut, nil
}

func (f *fakeUsersRepo) Exists(ctx context.Context, username, email string) (bool, error) {
	return f.existsOut, f.existsErr
}

func (f *fakeUsersRepo) Update(ctx context.Context, id string, patch usersrepo.Patch) (*models.User, error) {
	f.updateIn = patch
	if f.updateErr != nil {
		return nil, f.updateErr
	}
	return f.updateOut, nil
}

type fakeManager struct {
	u *fakeUsersRepo
	t *fakeTasksRepo
}

func (m *fakeManager) RunMigrations(context.Context) error     { return nil }
func (m *fakeManager) Conn() *sql.DB                           { return nil }
func (m *fakeManager) Close() error                            { return nil }
func (m *fakeManager) Users(db dbx.DBTX) usersrepo.Repository  { return m.u }
func (m *fakeManager) Tasks(db dbx.DBTX) tasksrepo.Repository  { return m.t }

func newUserService(t *testing.T, m *fakeManager) *UserService {
	t.Helper()
	cfg := &config.Config{
		SecretKey:             "k",
		TokenValidityDuration: 24 * time.Hour,
	}
	return NewUserService(nil, m, cfg)
}

// --- tests ---

func TestRegister_HashesPassword(t *testing.T) {
	repo := &fakeUsersRepo{}
	s := newUserService(t, &fakeManager{u: repo})

	user, err := s.Register(context.Background(), "alice", "Alice@X.com", "secret1")
	if err != nil {
		t.Fatalf("Register error: %v", err)
	}

	if user.PasswordHash == "secret1" {
		t.Fatal("persisted credential must never equal the plaintext password")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte("secret1")); err != nil {
		t.Fatalf("stored hash does not verify against original plaintext: %v", err)
	}
	if user.Email != "alice@x.com" {
		t.Fatalf("email not lowercase-normalized: %q", user.Email)
	}
	if user.ID == "" {
		t.Fatal("expected generated user ID")
	}
	if user.CreatedAt.IsZero() {
		t.Fatal("expected creation timestamp")
	}
}

func TestRegister_Conflict(t *testing.T) {
	repo := &fakeUsersRepo{existsOut: true}
	s := newUserService(t, &fakeManager{u: repo})

	_, err := s.Register(context.Background(), "alice", "alice@x.com", "secret1")
	if !errors.Is(err, common.ErrorConflict) {
		t.Fatalf("want common.ErrorConflict, got %v", err)
	}
	if repo.createIn != nil {
		t.Fatal("no insert should be attempted after a positive existence check")
	}
}

// Two concurrent registrations can both pass the existence check; the
// storage-level unique index settles the race and the loser still
// surfaces as a Conflict.
func TestRegister_LostRaceSurfacesConflict(t *testing.T) {
	repo := &fakeUsersRepo{existsOut: false, createErr: common.ErrorConflict}
	s := newUserService(t, &fakeManager{u: repo})

	_, err := s.Register(context.Background(), "alice", "alice@x.com", "secret1")
	if !errors.Is(err, common.ErrorConflict) {
		t.Fatalf("want common.ErrorConflict, got %v", err)
	}
}

func mustHash(t *testing.T, plaintext string) string {
	t.Helper()
	h, err := bcrypt.GenerateFromPassword([]byte(plaintext), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("bcrypt error: %v", err)
	}
	return string(h)
}

func TestLogin_Success(t *testing.T) {
	repo := &fakeUsersRepo{
		getOut: &models.User{ID: "u-1", Username: "alice", Email: "alice@x.com", PasswordHash: mustHash(t, "secret1")},
	}
	s := newUserService(t, &fakeManager{u: repo})

	token, user, err := s.Login(context.Background(), "alice@x.com", "secret1")
	if err != nil {
		t.Fatalf("Login error: %v", err)
	}
	if token == "" {
		t.Fatal("expected non-empty token")
	}
	if user.ID != "u-1" {
		t.Fatalf("unexpected user: %+v", user)
	}

	gotID, err := auth.GetUserIDFromToken(token, []byte("k"))
	if err != nil {
		t.Fatalf("issued token does not verify: %v", err)
	}
	if gotID != "u-1" {
		t.Fatalf("token subject mismatch: got %q", gotID)
	}
}

// Wrong password and unknown email must be indistinguishable.
func TestLogin_UniformUnauthorized(t *testing.T) {
	wrongPassword := &fakeUsersRepo{
		getOut: &models.User{ID: "u-1", PasswordHash: mustHash(t, "secret1")},
	}
	noSuchUser := &fakeUsersRepo{getErr: common.ErrorNotFound}

	for name, repo := range map[string]*fakeUsersRepo{
		"wrong password": wrongPassword,
		"no such user":   noSuchUser,
	} {
		s := newUserService(t, &fakeManager{u: repo})
		_, _, err := s.Login(context.Background(), "alice@x.com", "wrong")
		if !errors.Is(err, common.ErrorUnauthorized) {
			t.Fatalf("%s: want common.ErrorUnauthorized, got %v", name, err)
		}
	}
}

func TestLogin_RepoFailureIsInternal(t *testing.T) {
	repo := &fakeUsersRepo{getErr: errors.New("db down")}
	s := newUserService(t, &fakeManager{u: repo})

	_, _, err := s.Login(context.Background(), "alice@x.com", "secret1")
	if !errors.Is(err, common.ErrorInternal) {
		t.Fatalf("want common.ErrorInternal, got %v", err)
	}
}

func TestGetProfile_NotFound(t *testing.T) {
	repo := &fakeUsersRepo{getErr: common.ErrorNotFound}
	s := newUserService(t, &fakeManager{u: repo})

	_, err := s.GetProfile(context.Background(), "missing")
	if !errors.Is(err, common.ErrorNotFound) {
		t.Fatalf("want common.ErrorNotFound, got %v", err)
	}
}

func TestUpdateProfile_NormalizesEmail(t *testing.T) {
	repo := &fakeUsersRepo{updateOut: &models.User{ID: "u-1"}}
	s := newUserService(t, &fakeManager{u: repo})

	email := " Bob@X.com "
	if _, err := s.UpdateProfile(context.Background(), "u-1", usersrepo.Patch{Email: &email}); err != nil {
		t.Fatalf("UpdateProfile error: %v", err)
	}
	if repo.updateIn.Email == nil || *repo.updateIn.Email != "bob@x.com" {
		t.Fatalf("email not normalized before persistence: %+v", repo.updateIn.Email)
	}
}

func TestUpdateProfile_PassesThroughConflictAndNotFound(t *testing.T) {
	for _, sentinel := range []error{common.ErrorConflict, common.ErrorNotFound} {
		repo := &fakeUsersRepo{updateErr: sentinel}
		s := newUserService(t, &fakeManager{u: repo})

		name := "bob"
		_, err := s.UpdateProfile(context.Background(), "u-1", usersrepo.Patch{Username: &name})
		if !errors.Is(err, sentinel) {
			t.Fatalf("want %v, got %v", sentinel, err)
		}
	}
}
