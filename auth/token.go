package auth

import (
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"

	"github.com/meinhoongagan/therapy-booking/apperr"
	"github.com/meinhoongagan/therapy-booking/authz"
	"github.com/meinhoongagan/therapy-booking/models"
)

// RegistrationTTL bounds the lifetime of the link mailed on approval.
const RegistrationTTL = 48 * time.Hour

const (
	purposeClaim        = "purpose"
	purposeRegistration = "registration"
)

// Tokens signs and verifies HS256 tokens carrying {id, role}. Session tokens
// have no purpose claim. Registration tokens carry purpose=registration and
// are only accepted by ParseRegistration.
type Tokens struct {
	secret []byte
	ttl    time.Duration
}

func NewTokens(secret string, ttl time.Duration) *Tokens {
	return &Tokens{secret: []byte(secret), ttl: ttl}
}

func (t *Tokens) Secret() []byte { return t.secret }

func (t *Tokens) Issue(p authz.Principal) (string, error) {
	return t.sign(p, t.ttl, nil)
}

// IssueRegistration signs a single-purpose token for the complete-registration link.
func (t *Tokens) IssueRegistration(p authz.Principal) (string, error) {
	return t.sign(p, RegistrationTTL, jwt.MapClaims{purposeClaim: purposeRegistration})
}

func (t *Tokens) sign(p authz.Principal, ttl time.Duration, extra jwt.MapClaims) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"id":   p.ID.String(),
		"role": string(p.Role),
		"iat":  now.Unix(),
	}
	if ttl > 0 {
		claims["exp"] = now.Add(ttl).Unix()
	}
	for k, v := range extra {
		claims[k] = v
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(t.secret)
}

// Parse verifies a session token.
func (t *Tokens) Parse(raw string) (authz.Principal, error) {
	claims, err := t.verify(raw)
	if err != nil {
		return authz.Principal{}, err
	}
	return PrincipalFromClaims(claims)
}

// ParseRegistration verifies a token minted by IssueRegistration.
func (t *Tokens) ParseRegistration(raw string) (authz.Principal, error) {
	claims, err := t.verify(raw)
	if err != nil {
		return authz.Principal{}, err
	}
	if purpose, _ := claims[purposeClaim].(string); purpose != purposeRegistration {
		return authz.Principal{}, apperr.Unauthorized("not a registration token")
	}
	return principal(claims)
}

func (t *Tokens) verify(raw string) (jwt.MapClaims, error) {
	token, err := jwt.Parse(raw, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", token.Header["alg"])
		}
		return t.secret, nil
	})
	if err != nil || !token.Valid {
		return nil, apperr.Unauthorized("invalid or expired token")
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, apperr.Unauthorized("invalid token claims")
	}
	return claims, nil
}

// PrincipalFromClaims extracts {id, role} from verified session claims. Tokens
// minted for a single purpose are rejected.
func PrincipalFromClaims(claims jwt.MapClaims) (authz.Principal, error) {
	if _, ok := claims[purposeClaim]; ok {
		return authz.Principal{}, apperr.Unauthorized("token cannot be used as a session")
	}
	return principal(claims)
}

func principal(claims jwt.MapClaims) (authz.Principal, error) {
	id, err := extractUserID(claims)
	if err != nil {
		return authz.Principal{}, apperr.Unauthorized("invalid user id in token: %v", err)
	}
	role, err := extractRole(claims)
	if err != nil {
		return authz.Principal{}, apperr.Unauthorized("invalid role in token: %v", err)
	}
	return authz.Principal{ID: id, Role: role}, nil
}

func extractUserID(claims jwt.MapClaims) (uuid.UUID, error) {
	switch v := claims["id"].(type) {
	case nil:
		return uuid.Nil, fmt.Errorf("no id found in claims")
	case string:
		return uuid.Parse(v)
	default:
		return uuid.Nil, fmt.Errorf("unsupported id type: %T", v)
	}
}

func extractRole(claims jwt.MapClaims) (models.Role, error) {
	switch v := claims["role"].(type) {
	case nil:
		return "", fmt.Errorf("no role found in claims")
	case string:
		role := models.Role(v)
		if !role.Valid() {
			return "", fmt.Errorf("unknown role %s", strconv.Quote(v))
		}
		return role, nil
	default:
		return "", fmt.Errorf("unsupported role type: %T", v)
	}
}
