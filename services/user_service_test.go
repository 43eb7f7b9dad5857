package services

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/meinhoongagan/therapy-booking/apperr"
	"github.com/meinhoongagan/therapy-booking/auth"
	"github.com/meinhoongagan/therapy-booking/authz"
	"github.com/meinhoongagan/therapy-booking/models"
)

func newUserFixture() (*UserService, *mockUserRepo, *recordingMailer, *auth.Tokens) {
	repo := newMockUserRepo()
	mailer := &recordingMailer{}
	tokens := auth.NewTokens("test-secret", time.Hour)
	return NewUserService(repo, tokens, mailer, "http://localhost:4200/", testLogger()), repo, mailer, tokens
}

func TestRequestAccessCreatesGuest(t *testing.T) {
	svc, _, _, _ := newUserFixture()

	u, err := svc.RequestAccess(context.Background(), AccessRequestInput{Name: "Ana", Email: "Ana@Example.com"})
	if err != nil {
		t.Fatalf("request access: %v", err)
	}
	if u.Role != models.RoleGuest || u.Approved {
		t.Fatalf("expected unapproved GUEST, got role=%s approved=%v", u.Role, u.Approved)
	}
	if u.Email != "ana@example.com" {
		t.Fatalf("email not normalised: %s", u.Email)
	}

	if _, err := svc.RequestAccess(context.Background(), AccessRequestInput{Name: "Ana", Email: "not-an-email"}); !errors.Is(err, apperr.ErrBadRequest) {
		t.Fatalf("expected BadRequest, got %v", err)
	}
}

func TestApproveThenCompleteRegistrationThenLogin(t *testing.T) {
	svc, repo, mailer, tokens := newUserFixture()
	guest, err := svc.RequestAccess(context.Background(), AccessRequestInput{Name: "Ana", Email: "ana@example.com"})
	if err != nil {
		t.Fatal(err)
	}

	if _, _, err := svc.Login(context.Background(), "ana@example.com", "whatever1"); !errors.Is(err, apperr.ErrUnauthorized) {
		t.Fatalf("login before registration: expected Unauthorized, got %v", err)
	}

	approved, err := svc.Approve(context.Background(), guest.ID)
	if err != nil {
		t.Fatalf("approve: %v", err)
	}
	if approved.Role != models.RoleUser || !approved.Approved {
		t.Fatalf("expected approved USER, got %+v", approved)
	}
	if len(mailer.sent) != 1 {
		t.Fatalf("expected one registration email, got %d", len(mailer.sent))
	}
	body := mailer.sent[0].body
	const prefix = "http://localhost:4200/complete-registration?token="
	i := strings.Index(body, prefix)
	if i < 0 {
		t.Fatalf("registration link missing from %q", body)
	}
	token := body[i+len(prefix):]
	token = token[:strings.IndexByte(token, '\'')]

	if _, err := svc.CompleteRegistration(context.Background(), token, "short"); !errors.Is(err, apperr.ErrBadRequest) {
		t.Fatalf("short password: expected BadRequest, got %v", err)
	}
	if _, err := svc.CompleteRegistration(context.Background(), "garbage", "long-enough"); !errors.Is(err, apperr.ErrUnauthorized) {
		t.Fatalf("bad token: expected Unauthorized, got %v", err)
	}
	session, err := tokens.Issue(authz.Principal{ID: guest.ID, Role: models.RoleUser})
	if err != nil {
		t.Fatal(err)
	}
	if _, err := svc.CompleteRegistration(context.Background(), session, "long-enough"); !errors.Is(err, apperr.ErrUnauthorized) {
		t.Fatalf("session token: expected Unauthorized, got %v", err)
	}
	if _, err := tokens.Parse(token); !errors.Is(err, apperr.ErrUnauthorized) {
		t.Fatalf("registration token must not open a session, got %v", err)
	}
	if _, err := svc.CompleteRegistration(context.Background(), token, "long-enough"); err != nil {
		t.Fatalf("complete registration: %v", err)
	}
	if _, err := svc.CompleteRegistration(context.Background(), token, "another-password"); !errors.Is(err, apperr.ErrConflict) {
		t.Fatalf("reused link: expected Conflict, got %v", err)
	}
	if repo.users[guest.ID].Password == "long-enough" {
		t.Fatal("password stored in clear text")
	}

	signed, u, err := svc.Login(context.Background(), "ana@example.com", "long-enough")
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	p, err := tokens.Parse(signed)
	if err != nil {
		t.Fatalf("parse issued token: %v", err)
	}
	if p.ID != u.ID || p.Role != models.RoleUser {
		t.Fatalf("unexpected principal %+v", p)
	}

	if _, _, err := svc.Login(context.Background(), "ana@example.com", "wrong-password"); !errors.Is(err, apperr.ErrUnauthorized) {
		t.Fatalf("wrong password: expected Unauthorized, got %v", err)
	}
	if _, _, err := svc.Login(context.Background(), "nobody@example.com", "long-enough"); !errors.Is(err, apperr.ErrUnauthorized) {
		t.Fatalf("unknown email: expected Unauthorized, got %v", err)
	}
}

func TestUpdateUserStripsPrivilegedFieldsForNonAdmins(t *testing.T) {
	svc, repo, _, _ := newUserFixture()
	u := repo.add(models.User{Name: "Ana", Email: "ana@example.com", Role: models.RoleUser, Approved: true})

	admin := models.RoleAdmin
	no := false
	self := authz.Principal{ID: u.ID, Role: models.RoleUser}
	got, err := svc.Update(context.Background(), u.ID, UpdateUserInput{Name: strPtr("Ana María"), Role: &admin, Approved: &no}, self)
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if got.Name != "Ana María" || got.Role != models.RoleUser || !got.Approved {
		t.Fatalf("unexpected user %+v", got)
	}

	root := authz.Principal{ID: uuid.New(), Role: models.RoleAdmin}
	got, err = svc.Update(context.Background(), u.ID, UpdateUserInput{Role: &admin}, root)
	if err != nil {
		t.Fatalf("admin update: %v", err)
	}
	if got.Role != models.RoleAdmin {
		t.Fatalf("admin could not change role, got %s", got.Role)
	}

	bogus := models.Role("ROOT")
	if _, err := svc.Update(context.Background(), u.ID, UpdateUserInput{Role: &bogus}, root); !errors.Is(err, apperr.ErrBadRequest) {
		t.Fatalf("expected BadRequest, got %v", err)
	}
}

func TestLoginUnapproved(t *testing.T) {
	svc, repo, _, _ := newUserFixture()
	hash, err := auth.HashPassword("long-enough")
	if err != nil {
		t.Fatal(err)
	}
	repo.add(models.User{Name: "Ana", Email: "ana@example.com", Password: hash, Role: models.RoleGuest})

	if _, _, err := svc.Login(context.Background(), "ana@example.com", "long-enough"); !errors.Is(err, apperr.ErrForbidden) {
		t.Fatalf("expected Forbidden, got %v", err)
	}
}

func TestDeleteUser(t *testing.T) {
	svc, repo, _, _ := newUserFixture()
	u := repo.add(models.User{Name: "Ana", Email: "ana@example.com"})

	if _, err := svc.Delete(context.Background(), u.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := svc.Delete(context.Background(), u.ID); !errors.Is(err, apperr.ErrNotFound) {
		t.Fatalf("expected NotFound, got %v", err)
	}
}
