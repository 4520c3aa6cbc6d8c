package api

import (
	"net/http"
	"time"

	"weconnect/cmd/back/internal/app"
	"weconnect/internal/logger"
)

type tokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

// login - OAuth2 password flow: форма username/password
func (s *Server) login(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := r.ParseForm(); err != nil {
		writeError(ctx, w, app.BadRequest("Invalid form"))
		return
	}
	u, err := s.Service.Authenticate(ctx, r.PostForm.Get("username"), r.PostForm.Get("password"))
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	token, err := s.Tokens.Issue(u)
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	writeJSON(ctx, w, http.StatusOK, tokenResponse{AccessToken: token, TokenType: "bearer"})
}

// logout отзывает текущий токен до истечения его срока
func (s *Server) logout(w http.ResponseWriter, r *http.Request, _ int64) {
	ctx := r.Context()
	claims, ok := claimsFromContext(ctx)
	if ok && s.Revoked != nil && claims.ID != "" && claims.ExpiresAt != nil {
		ttl := time.Until(claims.ExpiresAt.Time)
		if ttl > 0 {
			if err := s.Revoked.Revoke(ctx, claims.ID, ttl); err != nil {
				logger.FromContext(ctx).Error("revoke token", "err", err)
				writeError(ctx, w, err)
				return
			}
		}
	}
	w.WriteHeader(http.StatusNoContent)
}
