package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/cliquepay/cliquepay_backend/internal/apperrors"
	portsrepo "github.com/cliquepay/cliquepay_backend/internal/core/ports/repositories"
	portssvc "github.com/cliquepay/cliquepay_backend/internal/core/ports/services"
	"github.com/golang-jwt/jwt/v5"
)

// jwtIdentityResolver verifies bearer tokens issued by the external identity
// provider and maps their subject to an internal user.
type jwtIdentityResolver struct {
	BaseService
	secret   []byte
	issuer   string
	userRepo portsrepo.UserReader
}

// NewJWTIdentityResolver creates an IdentityResolver for HMAC-signed tokens.
// An empty issuer disables the issuer check.
func NewJWTIdentityResolver(secret, issuer string, userRepo portsrepo.UserReader) portssvc.IdentityResolver {
	return &jwtIdentityResolver{
		BaseService: newBaseService(),
		secret:      []byte(secret),
		issuer:      issuer,
		userRepo:    userRepo,
	}
}

var _ portssvc.IdentityResolver = (*jwtIdentityResolver)(nil)

func (r *jwtIdentityResolver) Resolve(ctx context.Context, credential string) (string, error) {
	opts := []jwt.ParserOption{jwt.WithValidMethods([]string{"HS256", "HS384", "HS512"})}
	if r.issuer != "" {
		opts = append(opts, jwt.WithIssuer(r.issuer))
	}

	token, err := jwt.ParseWithClaims(credential, &jwt.RegisteredClaims{}, func(token *jwt.Token) (interface{}, error) {
		return r.secret, nil
	}, opts...)
	if err != nil {
		msg := "invalid token"
		if errors.Is(err, jwt.ErrTokenExpired) {
			msg = "token has expired"
		} else if errors.Is(err, jwt.ErrTokenNotValidYet) {
			msg = "token not valid yet"
		}
		r.LogDebug(ctx, "Token rejected", slog.String("error", err.Error()))
		return "", fmt.Errorf("%w: %s", apperrors.ErrUnauthorized, msg)
	}

	claims, ok := token.Claims.(*jwt.RegisteredClaims)
	if !ok || !token.Valid || claims.Subject == "" {
		return "", fmt.Errorf("%w: invalid token claims", apperrors.ErrUnauthorized)
	}

	user, err := r.userRepo.FindUserByExternalID(ctx, claims.Subject)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return "", fmt.Errorf("%w: unknown user", apperrors.ErrUnauthorized)
		}
		return "", err
	}
	return user.UserID, nil
}
