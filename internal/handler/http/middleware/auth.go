package middleware

import (
	"net/http"

	"github.com/go-chi/jwtauth/v5"
	"github.com/shukketsu-app/backend-go/internal/handler/http/response"
)

func AuthRequired(ja *jwtauth.JWTAuth) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		hfn := func(w http.ResponseWriter, r *http.Request) {
			token, claims, err := jwtauth.FromContext(r.Context())
			if err != nil {
				response.Unauthorized(w, err.Error())
				return
			}

			if token == nil {
				response.Unauthorized(w, "Missing or invalid token")
				return
			}

			// Every operation is tenant scoped; a token without an
			// organization cannot do anything here.
			orgID, ok := claims["org_id"].(string)
			if !ok || orgID == "" {
				response.Unauthorized(w, "Token carries no organization")
				return
			}

			next.ServeHTTP(w, r)
		}
		return http.HandlerFunc(hfn)
	}
}
