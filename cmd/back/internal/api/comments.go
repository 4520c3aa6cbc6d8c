package api

import (
	"net/http"

	"weconnect/cmd/back/internal/app"
)

func (s *Server) listComments(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	postID, err := pathID(r)
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	skip, limit, err := page(r)
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	comments, err := s.Service.Comments(ctx, postID, skip, limit)
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	writeJSON(ctx, w, http.StatusOK, comments)
}

func (s *Server) createComment(w http.ResponseWriter, r *http.Request, actorID int64) {
	ctx := r.Context()
	postID, err := pathID(r)
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	var in app.CommentInput
	if err := decodeJSON(w, r, &in); err != nil {
		writeError(ctx, w, err)
		return
	}
	c, err := s.Service.CreateComment(ctx, actorID, postID, in)
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	s.publish(ctx, KindCommented, actorID, postID)
	writeJSON(ctx, w, http.StatusOK, c)
}

func (s *Server) updateComment(w http.ResponseWriter, r *http.Request, actorID int64) {
	ctx := r.Context()
	commentID, err := pathID(r)
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	var in app.CommentInput
	if err := decodeJSON(w, r, &in); err != nil {
		writeError(ctx, w, err)
		return
	}
	c, err := s.Service.UpdateComment(ctx, actorID, commentID, in)
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	writeJSON(ctx, w, http.StatusOK, c)
}

func (s *Server) deleteComment(w http.ResponseWriter, r *http.Request, actorID int64) {
	ctx := r.Context()
	commentID, err := pathID(r)
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	if err := s.Service.DeleteComment(ctx, actorID, commentID); err != nil {
		writeError(ctx, w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
