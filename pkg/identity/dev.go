package identity

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// DevProvider is an in-process identity provider for local runs and tests.
// It issues HS256 session tokens and checks bcrypt-hashed credentials. It is
// not a credential store for production; real deployments verify sessions
// through the OIDCVerifier against the hosted provider.
type DevProvider struct {
	mu      sync.RWMutex
	secret  []byte
	users   map[string]devUser
	revoked map[string]struct{}
	ttl     time.Duration
	now     func() time.Time
}

type devUser struct {
	SubjectID    string
	Email        string
	FirstName    string
	LastName     string
	PasswordHash []byte
	Verified     bool
}

func NewDevProvider(secret string) *DevProvider {
	return &DevProvider{
		secret:  []byte(secret),
		users:   make(map[string]devUser),
		revoked: make(map[string]struct{}),
		ttl:     24 * time.Hour,
		now:     time.Now,
	}
}

// AddUser registers a user and returns its subject id.
func (p *DevProvider) AddUser(email, password, firstName, lastName string, verified bool) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("identity: hash password: %w", err)
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	subjectID := "user_" + uuid.NewString()
	p.users[normalizeEmail(email)] = devUser{
		SubjectID:    subjectID,
		Email:        normalizeEmail(email),
		FirstName:    firstName,
		LastName:     lastName,
		PasswordHash: hash,
		Verified:     verified,
	}
	return subjectID, nil
}

func (p *DevProvider) SignIn(_ context.Context, email, password string) (Session, error) {
	p.mu.RLock()
	user, ok := p.users[normalizeEmail(email)]
	p.mu.RUnlock()

	if !ok {
		return Session{}, &ProviderError{Code: CodeUnknownIdentifier, Message: "no account for identifier"}
	}
	if err := bcrypt.CompareHashAndPassword(user.PasswordHash, []byte(password)); err != nil {
		return Session{}, &ProviderError{Code: CodeWrongPassword, Message: "password mismatch"}
	}
	if !user.Verified {
		return Session{}, &ProviderError{Code: CodeVerificationRequired, Message: "identifier not verified"}
	}
	return sessionFromUser(user), nil
}

// SessionToken issues a signed session token for a known user email.
func (p *DevProvider) SessionToken(email string) (string, error) {
	p.mu.RLock()
	user, ok := p.users[normalizeEmail(email)]
	p.mu.RUnlock()
	if !ok {
		return "", &ProviderError{Code: CodeUnknownIdentifier, Message: "no account for identifier"}
	}

	now := p.now()
	claims := jwt.MapClaims{
		"jti":        uuid.NewString(),
		"sub":        user.SubjectID,
		"email":      user.Email,
		"first_name": user.FirstName,
		"last_name":  user.LastName,
		"iat":        now.Unix(),
		"exp":        now.Add(p.ttl).Unix(),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(p.secret)
}

func (p *DevProvider) SignOut(_ context.Context, sessionToken string) error {
	claims, err := p.parseToken(sessionToken)
	if err != nil {
		return err
	}
	tokenID, _ := claims["jti"].(string)
	if tokenID == "" {
		return ErrNoSession
	}

	p.mu.Lock()
	p.revoked[tokenID] = struct{}{}
	p.mu.Unlock()
	return nil
}

func (p *DevProvider) SessionFromRequest(_ context.Context, r *http.Request) (Session, error) {
	raw := TokenFromRequest(r)
	if raw == "" {
		return Session{}, ErrNoSession
	}

	claims, err := p.parseToken(raw)
	if err != nil {
		return Session{}, err
	}

	tokenID, _ := claims["jti"].(string)
	p.mu.RLock()
	_, revoked := p.revoked[tokenID]
	p.mu.RUnlock()
	if revoked {
		return Session{}, ErrNoSession
	}

	subjectID, _ := claims["sub"].(string)
	email, _ := claims["email"].(string)
	if subjectID == "" {
		return Session{}, ErrNoSession
	}
	firstName, _ := claims["first_name"].(string)
	lastName, _ := claims["last_name"].(string)
	return Session{
		SubjectID: subjectID,
		Email:     email,
		FirstName: firstName,
		LastName:  lastName,
		Active:    true,
	}, nil
}

func (p *DevProvider) parseToken(raw string) (jwt.MapClaims, error) {
	token, err := jwt.Parse(raw, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("identity: unexpected signing method: %v", token.Header["alg"])
		}
		return p.secret, nil
	}, jwt.WithTimeFunc(func() time.Time { return p.now() }))
	if err != nil || !token.Valid {
		return nil, ErrNoSession
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, ErrNoSession
	}
	return claims, nil
}

func sessionFromUser(user devUser) Session {
	return Session{
		SubjectID: user.SubjectID,
		Email:     user.Email,
		FirstName: user.FirstName,
		LastName:  user.LastName,
		Active:    true,
	}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
