package service

import (
	"context"
	"errors"
	"strconv"
	"testing"

	"petadoption/internal/model"
	"petadoption/pkg/apperr"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// -------------------------
// Test repo (in-memory)
// -------------------------

type fakeUserRepo struct {
	byID   map[int64]model.User
	nextID int64
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{byID: map[int64]model.User{}, nextID: 1}
}

func (r *fakeUserRepo) Create(_ context.Context, user *model.User) error {
	for _, u := range r.byID {
		if u.Email == user.Email {
			return errors.New("UNIQUE constraint failed: users.email")
		}
		if u.Username == user.Username {
			return errors.New("UNIQUE constraint failed: users.username")
		}
	}
	user.ID = r.nextID
	r.nextID++
	r.byID[user.ID] = *user
	return nil
}

func (r *fakeUserRepo) GetByID(_ context.Context, id int64) (*model.User, error) {
	u, ok := r.byID[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := u
	return &cp, nil
}

func (r *fakeUserRepo) GetByEmail(_ context.Context, email string) (*model.User, error) {
	for _, u := range r.byID {
		if u.Email == email {
			cp := u
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeUserRepo) GetByUsername(_ context.Context, username string) (*model.User, error) {
	for _, u := range r.byID {
		if u.Username == username {
			cp := u
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeUserRepo) CountByRole(_ context.Context, role string) (int64, error) {
	var count int64
	for _, u := range r.byID {
		if u.Role == role {
			count++
		}
	}
	return count, nil
}

// -------------------------
// Tests
// -------------------------

func validRegisterRequest() RegisterRequest {
	return RegisterRequest{
		Username: "jamie",
		Email:    "jamie@example.com",
		Password: "hunter22",
		FullName: "Jamie Reyes",
		Role:     model.RoleAdopter,
	}
}

func TestRegister_CreatesAdopterAccount(t *testing.T) {
	repo := newFakeUserRepo()
	svc := NewUserService(repo)

	res, err := svc.Register(context.Background(), validRegisterRequest())
	if err != nil {
		t.Fatalf("Register: %v", err)
	}
	if res.Role != model.RoleAdopter {
		t.Fatalf("expected ADOPTER, got %s", res.Role)
	}

	stored := repo.byID[res.ID]
	if !stored.Active {
		t.Fatalf("expected new accounts active")
	}
	if stored.Password == "hunter22" {
		t.Fatalf("password must not be stored in plain text")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(stored.Password), []byte("hunter22")); err != nil {
		t.Fatalf("stored password is not a valid hash: %v", err)
	}
}

func TestRegister_ShelterRequiresShelterName(t *testing.T) {
	repo := newFakeUserRepo()
	svc := NewUserService(repo)

	req := validRegisterRequest()
	req.Role = model.RoleShelter
	_, err := svc.Register(context.Background(), req)
	assertKind(t, err, apperr.KindInvalidArgument)

	req.ShelterName = "Paws Rescue"
	res, err := svc.Register(context.Background(), req)
	if err != nil {
		t.Fatalf("Register shelter: %v", err)
	}
	if res.ShelterName != "Paws Rescue" {
		t.Fatalf("expected shelter name kept, got %q", res.ShelterName)
	}
}

func TestRegister_RejectsAdminRole(t *testing.T) {
	repo := newFakeUserRepo()
	svc := NewUserService(repo)

	req := validRegisterRequest()
	req.Role = model.RoleAdmin
	_, err := svc.Register(context.Background(), req)
	assertKind(t, err, apperr.KindInvalidArgument)
}

func TestRegister_RejectsMalformedEmail(t *testing.T) {
	repo := newFakeUserRepo()
	svc := NewUserService(repo)

	req := validRegisterRequest()
	req.Email = "not-an-email"
	_, err := svc.Register(context.Background(), req)
	assertKind(t, err, apperr.KindInvalidArgument)
}

func TestRegister_RejectsDuplicates(t *testing.T) {
	repo := newFakeUserRepo()
	svc := NewUserService(repo)

	if _, err := svc.Register(context.Background(), validRegisterRequest()); err != nil {
		t.Fatalf("first register: %v", err)
	}

	dupUsername := validRegisterRequest()
	dupUsername.Email = "other@example.com"
	_, err := svc.Register(context.Background(), dupUsername)
	assertKind(t, err, apperr.KindInvalidState)

	dupEmail := validRegisterRequest()
	dupEmail.Username = "jamie2"
	_, err = svc.Register(context.Background(), dupEmail)
	assertKind(t, err, apperr.KindInvalidState)
}

func TestLogin_ReturnsSignedToken(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")

	repo := newFakeUserRepo()
	svc := NewUserService(repo)

	registered, err := svc.Register(context.Background(), validRegisterRequest())
	if err != nil {
		t.Fatalf("Register: %v", err)
	}

	res, err := svc.Login(context.Background(), LoginRequest{Email: "jamie@example.com", Password: "hunter22"})
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if res.Token == "" {
		t.Fatalf("expected a token")
	}

	token, err := jwt.Parse(res.Token, func(t *jwt.Token) (interface{}, error) {
		return []byte("test-secret"), nil
	})
	if err != nil || !token.Valid {
		t.Fatalf("token does not verify: %v", err)
	}
	claims := token.Claims.(jwt.MapClaims)
	if claims["sub"] != strconv.FormatInt(registered.ID, 10) {
		t.Fatalf("expected sub %d, got %v", registered.ID, claims["sub"])
	}
	if claims["role"] != model.RoleAdopter {
		t.Fatalf("expected role claim ADOPTER, got %v", claims["role"])
	}
}

func TestLogin_RejectsWrongCredentials(t *testing.T) {
	repo := newFakeUserRepo()
	svc := NewUserService(repo)

	if _, err := svc.Register(context.Background(), validRegisterRequest()); err != nil {
		t.Fatalf("Register: %v", err)
	}

	if _, err := svc.Login(context.Background(), LoginRequest{Email: "jamie@example.com", Password: "wrong"}); err == nil {
		t.Fatalf("expected wrong password to be rejected")
	}
	if _, err := svc.Login(context.Background(), LoginRequest{Email: "nobody@example.com", Password: "hunter22"}); err == nil {
		t.Fatalf("expected unknown email to be rejected")
	}
}

func TestLogin_RejectsDeactivatedAccount(t *testing.T) {
	repo := newFakeUserRepo()
	svc := NewUserService(repo)

	registered, err := svc.Register(context.Background(), validRegisterRequest())
	if err != nil {
		t.Fatalf("Register: %v", err)
	}
	user := repo.byID[registered.ID]
	user.Active = false
	repo.byID[registered.ID] = user

	_, err = svc.Login(context.Background(), LoginRequest{Email: "jamie@example.com", Password: "hunter22"})
	if err == nil || err.Error() != "account is deactivated" {
		t.Fatalf("expected deactivated account rejection, got %v", err)
	}
}

func TestGetUserByID_NotFound(t *testing.T) {
	repo := newFakeUserRepo()
	svc := NewUserService(repo)

	_, err := svc.GetUserByID(context.Background(), 999)
	assertKind(t, err, apperr.KindNotFound)
}
