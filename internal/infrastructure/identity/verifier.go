package identity

import (
	"fmt"

	"github.com/golang-jwt/jwt/v5"
	"github.com/maintdesk/ticket-intake/internal/entity"
	"github.com/maintdesk/ticket-intake/pkg/types/errs"
)

// Verifier checks bearer tokens issued by the external identity provider and
// extracts the confirmed user identity. Credential handling itself (sign-in,
// sign-up, reset links) stays on the provider's side.
type Verifier struct {
	secret []byte
}

func NewVerifier(secret string) *Verifier {
	return &Verifier{secret: []byte(secret)}
}

func (v *Verifier) Verify(tokenString string) (entity.User, error) {
	if tokenString == "" {
		return entity.User{}, fmt.Errorf("identity - Verifier - Verify: %w", errs.ErrUnauthenticated)
	}

	token, err := jwt.Parse(tokenString, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return v.secret, nil
	})
	if err != nil || !token.Valid {
		return entity.User{}, fmt.Errorf("identity - Verifier - Verify - jwt.Parse: %w", errs.ErrUnauthenticated)
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return entity.User{}, fmt.Errorf("identity - Verifier - Verify: %w", errs.ErrUnauthenticated)
	}

	uid, _ := claims["user_id"].(string)
	if uid == "" {
		return entity.User{}, fmt.Errorf("identity - Verifier - Verify: missing user_id: %w", errs.ErrUnauthenticated)
	}

	email, _ := claims["email"].(string)
	name, _ := claims["name"].(string)

	return entity.User{
		UID:         uid,
		Email:       email,
		DisplayName: name,
	}, nil
}
