package jwt

import (
	"context"
	"time"

	"github.com/go-chi/jwtauth/v5"
	"github.com/lestrrat-go/jwx/v2/jwt"
)

// Identity is the already-authenticated caller extracted from JWT claims.
// Tokens are issued by the identity provider; this package only verifies.
type Identity struct {
	UserID    string
	StudentID string
	OrgID     string
	Role      string
}

type Service interface {
	JWTAuth() *jwtauth.JWTAuth
}

type JWTService struct {
	tokenAuth *jwtauth.JWTAuth
}

func NewJWTService(secretKey string) Service {
	return &JWTService{
		tokenAuth: jwtauth.New("HS256", []byte(secretKey), nil, jwt.WithAcceptableSkew(30*time.Second)),
	}
}

func (j *JWTService) JWTAuth() *jwtauth.JWTAuth {
	return j.tokenAuth
}

// IdentityFromContext reads the verified claims placed on the request context
// by the jwtauth verifier middleware.
func IdentityFromContext(ctx context.Context) (Identity, error) {
	_, claims, err := jwtauth.FromContext(ctx)
	if err != nil {
		return Identity{}, err
	}
	id := Identity{}
	if v, ok := claims["user_id"].(string); ok {
		id.UserID = v
	}
	if v, ok := claims["student_id"].(string); ok {
		id.StudentID = v
	}
	if v, ok := claims["org_id"].(string); ok {
		id.OrgID = v
	}
	if v, ok := claims["role"].(string); ok {
		id.Role = v
	}
	return id, nil
}
