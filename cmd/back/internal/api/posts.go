package api

import (
	"context"
	"net/http"

	"weconnect/cmd/back/internal/app"
)

func (s *Server) listPosts(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	skip, limit, err := page(r)
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	posts, err := s.Service.ListPosts(ctx, skip, limit)
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	writeJSON(ctx, w, http.StatusOK, posts)
}

func (s *Server) feed(w http.ResponseWriter, r *http.Request, actorID int64) {
	ctx := r.Context()
	skip, limit, err := page(r)
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	posts, err := s.Service.Feed(ctx, actorID, skip, limit)
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	writeJSON(ctx, w, http.StatusOK, posts)
}

func (s *Server) userPosts(w http.ResponseWriter, r *http.Request, actorID int64) {
	ctx := r.Context()
	ownerID, err := pathID(r)
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	posts, err := s.Service.UserPosts(ctx, actorID, ownerID)
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	writeJSON(ctx, w, http.StatusOK, posts)
}

func (s *Server) myPosts(w http.ResponseWriter, r *http.Request, actorID int64) {
	posts, err := s.Service.MyPosts(r.Context(), actorID)
	if err != nil {
		writeError(r.Context(), w, err)
		return
	}
	writeJSON(r.Context(), w, http.StatusOK, posts)
}

func (s *Server) createPost(w http.ResponseWriter, r *http.Request, actorID int64) {
	ctx := r.Context()
	var in app.PostInput
	if err := decodeJSON(w, r, &in); err != nil {
		writeError(ctx, w, err)
		return
	}
	p, err := s.Service.CreatePost(ctx, actorID, in)
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	s.publish(ctx, KindPostCreated, actorID, p.ID)
	writeJSON(ctx, w, http.StatusOK, p)
}

func (s *Server) deletePost(w http.ResponseWriter, r *http.Request, actorID int64) {
	s.postAction(w, r, actorID, s.Service.DeletePost, KindPostDeleted)
}

func (s *Server) like(w http.ResponseWriter, r *http.Request, actorID int64) {
	s.postAction(w, r, actorID, s.Service.Like, KindLiked)
}

func (s *Server) unlike(w http.ResponseWriter, r *http.Request, actorID int64) {
	s.postAction(w, r, actorID, s.Service.Unlike, KindUnliked)
}

// postAction - мутация без тела ответа: 204 и событие kind
func (s *Server) postAction(w http.ResponseWriter, r *http.Request, actorID int64,
	do func(ctx context.Context, actorID, postID int64) error, kind string) {
	ctx := r.Context()
	postID, err := pathID(r)
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	if err := do(ctx, actorID, postID); err != nil {
		writeError(ctx, w, err)
		return
	}
	s.publish(ctx, kind, actorID, postID)
	w.WriteHeader(http.StatusNoContent)
}
