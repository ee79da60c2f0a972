package authenticator

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/auth0/go-jwt-middleware/v2/jwks"
	"github.com/auth0/go-jwt-middleware/v2/validator"

	"github.com/curaious/ticktrack/internal/config"
)

const firebaseIssuerPrefix = "https://securetoken.google.com/"

var (
	ErrMissingBearer = errors.New("missing or invalid authorization header")
	ErrInvalidToken  = errors.New("invalid bearer token")
)

// Authenticator turns a bearer credential into the external subject id of the caller.
//
// Without a Firebase project configured the credential itself is the subject id. With one, the
// credential must be a Firebase ID token and its `sub` claim is used.
type Authenticator struct {
	validator *validator.Validator
	issuer    string
}

func New(conf *config.Config) (*Authenticator, error) {
	if conf.FIREBASE_PROJECT_ID == "" {
		return &Authenticator{}, nil
	}

	issuer := firebaseIssuerPrefix + conf.FIREBASE_PROJECT_ID
	issuerURL, err := url.Parse(issuer)
	if err != nil {
		return nil, err
	}

	provider := jwks.NewCachingProvider(issuerURL, 5*time.Minute)

	jwtValidator, err := validator.New(provider.KeyFunc, validator.RS256, issuer, []string{conf.FIREBASE_PROJECT_ID})
	if err != nil {
		return nil, err
	}

	return &Authenticator{
		validator: jwtValidator,
		issuer:    issuer,
	}, nil
}

// VerifiesTokens reports whether bearer credentials are checked as signed tokens.
func (a *Authenticator) VerifiesTokens() bool {
	return a.validator != nil
}

// BearerToken extracts the credential from an Authorization header value.
func BearerToken(header string) (string, error) {
	if !strings.HasPrefix(header, "Bearer ") {
		return "", ErrMissingBearer
	}

	token := strings.TrimSpace(strings.TrimPrefix(header, "Bearer "))
	if token == "" {
		return "", ErrMissingBearer
	}

	return token, nil
}

// Subject resolves the external subject id for a bearer credential.
func (a *Authenticator) Subject(ctx context.Context, token string) (string, error) {
	if token == "" {
		return "", ErrMissingBearer
	}

	if a.validator == nil {
		return token, nil
	}

	claims, err := a.validator.ValidateToken(ctx, token)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	validated, ok := claims.(*validator.ValidatedClaims)
	if !ok || validated.RegisteredClaims.Subject == "" {
		return "", ErrInvalidToken
	}

	return validated.RegisteredClaims.Subject, nil
}
