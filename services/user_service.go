package services

import (
	"context"
	"fmt"
	"net/mail"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/meinhoongagan/therapy-booking/apperr"
	"github.com/meinhoongagan/therapy-booking/auth"
	"github.com/meinhoongagan/therapy-booking/authz"
	"github.com/meinhoongagan/therapy-booking/models"
	"github.com/meinhoongagan/therapy-booking/repository"
)

const minPasswordLength = 8

type AccessRequestInput struct {
	Name    string  `json:"name"`
	Email   string  `json:"email"`
	Message *string `json:"message"`
}

func (in AccessRequestInput) Validate() error {
	if strings.TrimSpace(in.Name) == "" {
		return apperr.BadRequest("name is required")
	}
	if _, err := mail.ParseAddress(in.Email); err != nil {
		return apperr.BadRequest("a valid email is required")
	}
	return nil
}

type UpdateUserInput struct {
	Name     *string      `json:"name"`
	Email    *string      `json:"email"`
	Message  *string      `json:"message"`
	Avatar   *string      `json:"avatar"`
	Role     *models.Role `json:"role"`
	Approved *bool        `json:"approved"`
}

type UserService struct {
	repo      repository.IUserRepository
	tokens    *auth.Tokens
	mailer    Mailer
	appDomain string
	log       *zap.Logger
}

func NewUserService(repo repository.IUserRepository, tokens *auth.Tokens, mailer Mailer, appDomain string, log *zap.Logger) *UserService {
	return &UserService{
		repo:      repo,
		tokens:    tokens,
		mailer:    mailer,
		appDomain: strings.TrimRight(appDomain, "/"),
		log:       log,
	}
}

func (s *UserService) ReadAll(ctx context.Context) ([]models.User, error) {
	return s.repo.FindAll(ctx)
}

func (s *UserService) ReadByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	return s.repo.FindByID(ctx, id)
}

// Owner loads a user record for the authorization gate.
func (s *UserService) Owner(ctx context.Context, id uuid.UUID) (authz.Owned, error) {
	u, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return u, nil
}

// RequestAccess stores a GUEST user awaiting admin approval. No password is set yet.
func (s *UserService) RequestAccess(ctx context.Context, in AccessRequestInput) (*models.User, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}
	user := models.User{
		Name:    strings.TrimSpace(in.Name),
		Email:   strings.ToLower(strings.TrimSpace(in.Email)),
		Role:    models.RoleGuest,
		Message: in.Message,
	}
	if err := s.repo.Create(ctx, &user); err != nil {
		return nil, err
	}
	s.log.Info("access requested", zap.String("user_id", user.ID.String()))
	return &user, nil
}

func (s *UserService) Login(ctx context.Context, email, password string) (string, *models.User, error) {
	user, err := s.repo.FindByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if apperr.KindOf(err) == apperr.KindNotFound {
		return "", nil, apperr.Unauthorized("invalid credentials")
	}
	if err != nil {
		return "", nil, err
	}
	if user.Password == "" || !auth.CheckPassword(user.Password, password) {
		return "", nil, apperr.Unauthorized("invalid credentials")
	}
	if !user.Approved {
		return "", nil, apperr.Forbidden("account has not been approved yet")
	}

	token, err := s.tokens.Issue(authz.Principal{ID: user.ID, Role: user.Role})
	if err != nil {
		return "", nil, apperr.Storage(err, "failed to sign token")
	}
	return token, user, nil
}

// Update applies a partial change. Only admins may change role or approval.
func (s *UserService) Update(ctx context.Context, id uuid.UUID, in UpdateUserInput, actor authz.Principal) (*models.User, error) {
	if !actor.IsAdmin() {
		in.Role = nil
		in.Approved = nil
	}

	fields := map[string]interface{}{}
	if in.Name != nil {
		if strings.TrimSpace(*in.Name) == "" {
			return nil, apperr.BadRequest("name cannot be empty")
		}
		fields["name"] = strings.TrimSpace(*in.Name)
	}
	if in.Email != nil {
		if _, err := mail.ParseAddress(*in.Email); err != nil {
			return nil, apperr.BadRequest("a valid email is required")
		}
		fields["email"] = strings.ToLower(strings.TrimSpace(*in.Email))
	}
	if in.Message != nil {
		fields["message"] = *in.Message
	}
	if in.Avatar != nil {
		fields["avatar"] = *in.Avatar
	}
	if in.Role != nil {
		if !in.Role.Valid() {
			return nil, apperr.BadRequest("invalid role %q", *in.Role)
		}
		fields["role"] = *in.Role
	}
	if in.Approved != nil {
		fields["approved"] = *in.Approved
	}

	if err := s.repo.Update(ctx, id, fields); err != nil {
		return nil, err
	}
	return s.repo.FindByID(ctx, id)
}

// Approve promotes a GUEST to USER and emails a link to finish registration.
func (s *UserService) Approve(ctx context.Context, id uuid.UUID) (*models.User, error) {
	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	fields := map[string]interface{}{"approved": true, "role": models.RoleUser}
	if err := s.repo.Update(ctx, id, fields); err != nil {
		return nil, err
	}
	user.Approved = true
	user.Role = models.RoleUser

	token, err := s.tokens.IssueRegistration(authz.Principal{ID: user.ID, Role: user.Role})
	if err != nil {
		return nil, apperr.Storage(err, "failed to sign registration token")
	}
	s.sendRegistrationEmail(user, token)
	return user, nil
}

func (s *UserService) RegistrationLink(token string) string {
	return fmt.Sprintf("%s/complete-registration?token=%s", s.appDomain, token)
}

func (s *UserService) sendRegistrationEmail(user *models.User, token string) {
	if s.mailer == nil {
		return
	}
	body := fmt.Sprintf(
		"<h1>Hola, %s</h1><p>Tu cuenta ha sido aprobada. Puedes completar tu registro.</p><p><a href='%s'>Haz click para registrarte</a></p>",
		user.Name, s.RegistrationLink(token),
	)
	if err := s.mailer.Send(user.Email, "Tu cuenta ha sido aprobada", body); err != nil {
		s.log.Warn("registration email failed", zap.String("user_id", user.ID.String()), zap.Error(err))
	}
}

// CompleteRegistration sets the password of an approved user identified by the
// token from the approval email.
func (s *UserService) CompleteRegistration(ctx context.Context, token, password string) (*models.User, error) {
	p, err := s.tokens.ParseRegistration(token)
	if err != nil {
		return nil, err
	}
	if len(password) < minPasswordLength {
		return nil, apperr.BadRequest("password must have at least %d characters", minPasswordLength)
	}
	user, err := s.repo.FindByID(ctx, p.ID)
	if err != nil {
		return nil, err
	}
	if !user.Approved {
		return nil, apperr.Forbidden("account has not been approved yet")
	}
	if user.Password != "" {
		return nil, apperr.Conflict("registration already completed")
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return nil, apperr.Storage(err, "failed to hash password")
	}
	if err := s.repo.Update(ctx, user.ID, map[string]interface{}{"password": hash}); err != nil {
		return nil, err
	}
	s.log.Info("registration completed", zap.String("user_id", user.ID.String()))
	return user, nil
}

func (s *UserService) Delete(ctx context.Context, id uuid.UUID) (*models.User, error) {
	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return nil, err
	}
	return user, nil
}
