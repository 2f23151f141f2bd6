package session

import (
	"context"
	"fmt"
	"strings"

	"github.com/golang-jwt/jwt/v5"
)

// JWTConfig configures the JWT session-id hook.
type JWTConfig struct {
	// HeaderName is the header containing the token.
	// Default: "Authorization"
	HeaderName string

	// TokenPrefix is the prefix before the token in the header.
	// Default: "Bearer "
	TokenPrefix string

	// SubjectClaim is the claim used as the session id.
	// Default: "sub"
	SubjectClaim string
}

// JWTSessionID returns a SessionIDFunc that resolves the session id from
// a bearer token in the request headers (see WithRequestHeaders).
//
// An absent header classifies the request as anonymous. A present but
// invalid token is a hook failure: the request is served without any
// caching rather than risk classifying it under the wrong identity.
func JWTSessionID(config JWTConfig, keyFunc jwt.Keyfunc) SessionIDFunc {
	if config.HeaderName == "" {
		config.HeaderName = "Authorization"
	}
	if config.TokenPrefix == "" {
		config.TokenPrefix = "Bearer "
	}
	if config.SubjectClaim == "" {
		config.SubjectClaim = "sub"
	}

	return func(ctx context.Context) (string, bool, error) {
		header := requestHeader(ctx, config.HeaderName)
		if header == "" {
			return "", false, nil
		}

		tokenString := strings.TrimPrefix(header, config.TokenPrefix)
		if tokenString == header {
			return "", false, fmt.Errorf("%w: header %q has no %q prefix", ErrMissingToken, config.HeaderName, config.TokenPrefix)
		}
		tokenString = strings.TrimSpace(tokenString)

		token, err := jwt.ParseWithClaims(tokenString, jwt.MapClaims{}, keyFunc)
		if err != nil {
			return "", false, fmt.Errorf("%w: %w", ErrInvalidToken, err)
		}
		claims, ok := token.Claims.(jwt.MapClaims)
		if !ok {
			return "", false, ErrInvalidToken
		}

		subject, ok := claims[config.SubjectClaim].(string)
		if !ok || subject == "" {
			return "", false, fmt.Errorf("%w: claim %q", ErrNoSubject, config.SubjectClaim)
		}
		return subject, true, nil
	}
}
