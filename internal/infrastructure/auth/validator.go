package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/MicahParks/keyfunc/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"
)

// ErrInvalidToken is returned for any token that does not validate.
var ErrInvalidToken = errors.New("invalid token")

// ValidatorConfig selects the accepted token sources.
type ValidatorConfig struct {
	Secret   string
	Issuer   string
	Audience string
	// JWKSURL enables RS256 tokens from an external identity provider.
	JWKSURL      string
	RefreshEvery time.Duration
}

// Validator checks HS256 tokens issued by this service and, when configured,
// RS256 tokens signed by keys published at a JWKS endpoint.
type Validator struct {
	cfg  ValidatorConfig
	jwks *keyfunc.JWKS
	log  zerolog.Logger
}

func NewValidator(ctx context.Context, cfg ValidatorConfig, log zerolog.Logger) (*Validator, error) {
	v := &Validator{cfg: cfg, log: log.With().Str("component", "auth").Logger()}
	if cfg.JWKSURL == "" {
		return v, nil
	}

	refresh := cfg.RefreshEvery
	if refresh <= 0 {
		refresh = 5 * time.Minute
	}
	jwks, err := keyfunc.Get(cfg.JWKSURL, keyfunc.Options{
		Ctx:               ctx,
		RefreshInterval:   refresh,
		RefreshUnknownKID: true,
		RefreshErrorHandler: func(err error) {
			v.log.Error().Err(err).Msg("jwks refresh error")
		},
	})
	if err != nil {
		return nil, fmt.Errorf("load jwks: %w", err)
	}
	v.jwks = jwks
	return v, nil
}

func (v *Validator) keyFunc(token *jwt.Token) (any, error) {
	switch token.Method.Alg() {
	case jwt.SigningMethodHS256.Alg():
		if v.cfg.Secret == "" {
			return nil, ErrInvalidToken
		}
		return []byte(v.cfg.Secret), nil
	case "RS256", "RS384", "RS512":
		if v.jwks == nil {
			return nil, ErrInvalidToken
		}
		return v.jwks.Keyfunc(token)
	default:
		return nil, ErrInvalidToken
	}
}

// Validate parses tokenString and returns its principal.
func (v *Validator) Validate(tokenString string) (*Principal, error) {
	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{"HS256", "RS256", "RS384", "RS512"}),
		jwt.WithExpirationRequired(),
		jwt.WithLeeway(30 * time.Second),
	}
	if v.cfg.Issuer != "" && v.jwks == nil {
		opts = append(opts, jwt.WithIssuer(v.cfg.Issuer))
	}
	if v.cfg.Audience != "" && v.jwks == nil {
		opts = append(opts, jwt.WithAudience(v.cfg.Audience))
	}

	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, v.keyFunc, opts...)
	if err != nil || !token.Valid {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if strings.TrimSpace(claims.Subject) == "" {
		return nil, fmt.Errorf("%w: missing subject", ErrInvalidToken)
	}

	p := &Principal{UserID: claims.Subject, Username: claims.Username}
	if claims.ExpiresAt != nil {
		p.ExpiresAt = claims.ExpiresAt.Time
	}
	return p, nil
}

// Ready reports whether external keys, when configured, were loaded.
func (v *Validator) Ready() bool {
	return v.cfg.JWKSURL == "" || v.jwks != nil
}

// Close stops the background JWKS refresh.
func (v *Validator) Close() {
	if v.jwks != nil {
		v.jwks.EndBackground()
	}
}
