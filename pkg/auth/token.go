package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Claims is the JWT payload accepted by TokenProvider.
type Claims struct {
	Email string `json:"email"`
	Name  string `json:"name,omitempty"`
	jwt.RegisteredClaims
}

// TokenSource yields the raw bearer token to sign in with.
type TokenSource interface {
	Token(ctx context.Context) (string, error)
}

// FileTokenSource reads the token from a file on every call, so a token
// rotated on disk is picked up by the next forced refresh.
type FileTokenSource string

// Token implements TokenSource.
func (f FileTokenSource) Token(_ context.Context) (string, error) {
	data, err := os.ReadFile(string(f))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return "", fmt.Errorf("%w: %s", ErrNoToken, string(f))
		}
		return "", fmt.Errorf("read token file: %w", err)
	}
	tok := strings.TrimSpace(string(data))
	if tok == "" {
		return "", fmt.Errorf("%w: %s is empty", ErrNoToken, string(f))
	}
	return tok, nil
}

// StaticToken is a fixed token, mostly for tests and env-provided tokens.
type StaticToken string

// Token implements TokenSource.
func (s StaticToken) Token(_ context.Context) (string, error) {
	if s == "" {
		return "", ErrNoToken
	}
	return string(s), nil
}

// TokenProviderConfig configures a TokenProvider.
type TokenProviderConfig struct {
	Source TokenSource
	Secret string
	// Issuer, when set, must match the token's iss claim.
	Issuer string
	Logger *slog.Logger
	// Now overrides the clock used for expiry checks.
	Now func() time.Time
}

// TokenProvider is a Provider backed by HS256-signed JWTs.
type TokenProvider struct {
	source TokenSource
	secret []byte
	issuer string
	logger *slog.Logger
	now    func() time.Time

	stream Stream
}

// NewTokenProvider returns a provider. It publishes nothing until Restore
// or SignIn is called.
func NewTokenProvider(cfg TokenProviderConfig) *TokenProvider {
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	return &TokenProvider{
		source: cfg.Source,
		secret: []byte(cfg.Secret),
		issuer: cfg.Issuer,
		logger: cfg.Logger,
		now:    cfg.Now,
	}
}

// Restore publishes the initial session value: signed in when the source
// already holds a valid token, signed out otherwise.
func (p *TokenProvider) Restore(ctx context.Context) {
	principal, err := p.load(ctx)
	if err != nil {
		p.logger.Debug("no session to restore", "error", err)
		p.stream.Publish(nil)
		return
	}
	p.logger.Info("session restored", "email", principal.Email)
	p.stream.Publish(principal)
}

// SignIn implements Provider.
func (p *TokenProvider) SignIn(ctx context.Context) (*Principal, error) {
	principal, err := p.load(ctx)
	if err != nil {
		return nil, &AuthError{Op: "sign in", Err: err}
	}
	p.logger.Info("signed in", "email", principal.Email)
	p.stream.Publish(principal)
	return principal, nil
}

// SignOut implements Provider.
func (p *TokenProvider) SignOut(_ context.Context) error {
	p.logger.Info("signed out")
	p.stream.Publish(nil)
	return nil
}

// IDToken implements Provider.
func (p *TokenProvider) IDToken(ctx context.Context, forceRefresh bool) (string, error) {
	cur, _ := p.stream.Current()
	if cur == nil {
		return "", ErrSignedOut
	}
	if !forceRefresh {
		if !cur.HasToken() {
			return "", &AuthError{Op: "read token", Err: ErrNoToken}
		}
		return cur.Token(), nil
	}
	fresh, err := p.load(ctx)
	if err != nil {
		return "", &AuthError{Op: "refresh token", Err: err}
	}
	// Notifies only if the token on disk now belongs to someone else.
	p.stream.Publish(fresh)
	return fresh.Token(), nil
}

// Subscribe implements Provider.
func (p *TokenProvider) Subscribe(fn func(*Principal)) func() {
	return p.stream.Subscribe(fn)
}

// load fetches a token from the source and verifies it.
func (p *TokenProvider) load(ctx context.Context) (*Principal, error) {
	if p.source == nil {
		return nil, ErrNoToken
	}
	raw, err := p.source.Token(ctx)
	if err != nil {
		return nil, err
	}
	return p.Verify(raw)
}

// Verify parses and validates a raw token and returns its principal.
func (p *TokenProvider) Verify(raw string) (*Principal, error) {
	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(p.now),
	}
	if p.issuer != "" {
		opts = append(opts, jwt.WithIssuer(p.issuer))
	}

	claims := &Claims{}
	token, err := jwt.ParseWithClaims(raw, claims, func(t *jwt.Token) (interface{}, error) {
		return p.secret, nil
	}, opts...)
	if err != nil {
		return nil, fmt.Errorf("verify token: %w", err)
	}
	if !token.Valid {
		return nil, errors.New("verify token: invalid token")
	}
	if strings.TrimSpace(claims.Email) == "" {
		return nil, ErrMissingEmail
	}

	principal := &Principal{
		Subject: claims.Subject,
		Email:   claims.Email,
		Name:    claims.Name,
		token:   raw,
	}
	if principal.Subject == "" {
		principal.Subject = claims.Email
	}
	if claims.ExpiresAt != nil {
		principal.ExpiresAt = claims.ExpiresAt.Time
	}
	return principal, nil
}

// Issuer mints tokens that a TokenProvider with the same secret accepts.
type Issuer struct {
	secret []byte
	issuer string
	ttl    time.Duration
	now    func() time.Time
}

// NewIssuer returns an Issuer. A non-positive ttl defaults to 24 hours.
func NewIssuer(secret, issuer string, ttl time.Duration) *Issuer {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &Issuer{secret: []byte(secret), issuer: issuer, ttl: ttl, now: time.Now}
}

// Issue signs a token for email.
func (i *Issuer) Issue(email, name string) (string, error) {
	email = strings.TrimSpace(email)
	if email == "" {
		return "", ErrMissingEmail
	}
	if len(i.secret) == 0 {
		return "", errors.New("issue token: empty signing secret")
	}

	now := i.now().UTC()
	claims := Claims{
		Email: email,
		Name:  name,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   email,
			Issuer:    i.issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(i.ttl)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(i.secret)
}
