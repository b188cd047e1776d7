package v1handler

import (
	"context"
	"crypto/rsa"
	"fmt"
	"net/http"
	"strings"

	"calculus/internal/config"
	"calculus/pkg/domain"
	"calculus/pkg/serrors"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

type ctxKey string

// UserIDKey is the context key of the authenticated domain.UserID.
const UserIDKey ctxKey = "userID"

// GetUserIDFromContext returns the authenticated user, or
// domain.AnonymousUserID when there is none.
func GetUserIDFromContext(ctx context.Context) domain.UserID {
	if id, ok := ctx.Value(UserIDKey).(domain.UserID); ok {
		return id
	}

	return domain.AnonymousUserID
}

// BearerAuth is the token taken from an Authorization header.
type BearerAuth struct {
	Token string
}

// SecHandlerOptions configure bearer authentication.
type SecHandlerOptions struct {
	// PublicKey is a PEM encoded RSA public key. Empty disables authentication.
	PublicKey string
}

func NewSecHandlerOptions(cfg *config.Config) *SecHandlerOptions {
	return &SecHandlerOptions{PublicKey: cfg.JWT.PublicKey}
}

// SecHandler verifies RS256 tokens whose subject is the caller's user ID.
type SecHandler struct {
	key *rsa.PublicKey
}

func NewSecHandler(opts *SecHandlerOptions) (*SecHandler, error) {
	if opts == nil || opts.PublicKey == "" {
		return &SecHandler{}, nil
	}

	key, err := jwt.ParseRSAPublicKeyFromPEM([]byte(opts.PublicKey))
	if err != nil {
		return nil, fmt.Errorf("could not parse RSA public key: %w", err)
	}

	return &SecHandler{key: key}, nil
}

// Enabled reports whether tokens are verified.
func (s *SecHandler) Enabled() bool { return s != nil && s.key != nil }

func (s *SecHandler) HandleBearerAuth(
	ctx context.Context,
	operationName string,
	t BearerAuth) (context.Context, error) {
	if !s.Enabled() {
		return context.WithValue(ctx, UserIDKey, domain.AnonymousUserID), nil
	}

	var claims jwt.RegisteredClaims
	if _, err := jwt.ParseWithClaims(t.Token, &claims, func(*jwt.Token) (any, error) {
		return s.key, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodRS256.Alg()}), jwt.WithExpirationRequired()); err != nil {
		return ctx, serrors.Wrap(serrors.ErrUnauthorized, err, "invalid token")
	}

	userID, err := uuid.Parse(claims.Subject)
	if err != nil {
		return ctx, serrors.Wrap(serrors.ErrUnauthorized, err, "invalid token subject")
	}

	return context.WithValue(ctx, UserIDKey, domain.UserID(userID)), nil
}

// Authenticate reads the bearer token of r and returns a context carrying
// the caller's user ID.
func (s *SecHandler) Authenticate(r *http.Request) (context.Context, error) {
	if !s.Enabled() {
		return s.HandleBearerAuth(r.Context(), r.Pattern, BearerAuth{})
	}

	scheme, token, found := strings.Cut(r.Header.Get("Authorization"), " ")
	if !found || !strings.EqualFold(scheme, "Bearer") || strings.TrimSpace(token) == "" {
		return r.Context(), serrors.With(serrors.ErrUnauthorized, "missing bearer token")
	}

	return s.HandleBearerAuth(r.Context(), r.Pattern, BearerAuth{Token: strings.TrimSpace(token)})
}

func authenticated(sec *SecHandler, op operationFunc) operationFunc {
	return func(r *http.Request) (response, error) {
		ctx, err := sec.Authenticate(r)
		if err != nil {
			return response{}, err
		}

		return op(r.WithContext(ctx))
	}
}
