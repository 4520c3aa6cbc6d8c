package api

import (
	"context"
	"net/http"

	"weconnect/cmd/back/internal/app"
)

func (s *Server) register(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	var in app.RegisterInput
	if err := decodeJSON(w, r, &in); err != nil {
		writeError(ctx, w, err)
		return
	}
	u, err := s.Service.Register(ctx, in)
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	writeJSON(ctx, w, http.StatusCreated, u)
}

func (s *Server) listUsers(w http.ResponseWriter, r *http.Request, actorID int64) {
	users, err := s.Service.ListUsers(r.Context(), actorID)
	if err != nil {
		writeError(r.Context(), w, err)
		return
	}
	writeJSON(r.Context(), w, http.StatusOK, users)
}

func (s *Server) me(w http.ResponseWriter, r *http.Request, actorID int64) {
	p, err := s.Service.Me(r.Context(), actorID)
	if err != nil {
		writeError(r.Context(), w, err)
		return
	}
	writeJSON(r.Context(), w, http.StatusOK, p)
}

func (s *Server) myProfile(w http.ResponseWriter, r *http.Request, actorID int64) {
	p, err := s.Service.MyProfile(r.Context(), actorID)
	if err != nil {
		writeError(r.Context(), w, err)
		return
	}
	writeJSON(r.Context(), w, http.StatusOK, p)
}

func (s *Server) deleteMe(w http.ResponseWriter, r *http.Request, actorID int64) {
	ctx := r.Context()
	if err := s.Service.DeleteAccount(ctx, actorID); err != nil {
		writeError(ctx, w, err)
		return
	}
	s.publish(ctx, KindAccountDeleted, actorID, actorID)
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) profile(w http.ResponseWriter, r *http.Request, actorID int64) {
	ctx := r.Context()
	userID, err := pathID(r)
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	p, err := s.Service.Profile(ctx, actorID, userID)
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	writeJSON(ctx, w, http.StatusOK, p)
}

func (s *Server) followers(w http.ResponseWriter, r *http.Request, actorID int64) {
	s.followList(w, r, actorID, s.Service.Followers)
}

func (s *Server) following(w http.ResponseWriter, r *http.Request, actorID int64) {
	s.followList(w, r, actorID, s.Service.Following)
}

func (s *Server) followList(w http.ResponseWriter, r *http.Request, actorID int64,
	list func(ctx context.Context, actorID, userID int64) ([]app.UserSummary, error)) {
	ctx := r.Context()
	userID, err := pathID(r)
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	users, err := list(ctx, actorID, userID)
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	writeJSON(ctx, w, http.StatusOK, users)
}

func (s *Server) follow(w http.ResponseWriter, r *http.Request, actorID int64) {
	ctx := r.Context()
	targetID, err := pathID(r)
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	if err := s.Service.Follow(ctx, actorID, targetID); err != nil {
		writeError(ctx, w, err)
		return
	}
	s.publish(ctx, KindFollowed, actorID, targetID)
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) unfollow(w http.ResponseWriter, r *http.Request, actorID int64) {
	ctx := r.Context()
	targetID, err := pathID(r)
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	if err := s.Service.Unfollow(ctx, actorID, targetID); err != nil {
		writeError(ctx, w, err)
		return
	}
	s.publish(ctx, KindUnfollowed, actorID, targetID)
	w.WriteHeader(http.StatusNoContent)
}
