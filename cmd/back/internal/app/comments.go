package app

import (
	"context"
	"errors"
)

type CommentInput struct {
	Content string `json:"content" validate:"comment_content"`
}

// Comments - комментарии поста, старые первыми
func (s *Service) Comments(ctx context.Context, postID int64, skip, limit int) ([]CommentView, error) {
	if err := validatePage(skip, limit); err != nil {
		return nil, err
	}
	out := []CommentView{}
	if limit == 0 {
		return out, nil
	}
	err := s.store.Tx(ctx, "list comments", func(tx Store) error {
		comments, err := tx.CommentsByPost(ctx, postID, skip, limit)
		if err != nil {
			return err
		}
		out = comments
		return nil
	})
	return out, err
}

func (s *Service) CreateComment(ctx context.Context, actorID, postID int64, in CommentInput) (CommentView, error) {
	if err := s.check(in); err != nil {
		return CommentView{}, err
	}
	var out CommentView
	err := s.store.Tx(ctx, "create comment", func(tx Store) error {
		actor, err := requireActor(ctx, tx, actorID)
		if err != nil {
			return err
		}
		if _, err := tx.PostByID(ctx, postID); errors.Is(err, ErrNotFound) {
			return NotFound("Post not found")
		} else if err != nil {
			return err
		}
		c := Comment{
			Content:   in.Content,
			Timestamp: s.now(),
			OwnerID:   actor.ID,
			PostID:    postID,
		}
		err = tx.CreateComment(ctx, &c)
		if errors.Is(err, ErrReferenceMissing) {
			return NotFound("Post not found")
		}
		if err != nil {
			return err
		}
		out = toCommentView(c, actor.Username)
		return nil
	})
	return out, err
}

// UpdateComment меняет текст. Только владелец и только в течение CommentEditWindow,
// timestamp создания не трогаем.
func (s *Service) UpdateComment(ctx context.Context, actorID, commentID int64, in CommentInput) (CommentView, error) {
	if err := s.check(in); err != nil {
		return CommentView{}, err
	}
	var out CommentView
	err := s.store.Tx(ctx, "update comment", func(tx Store) error {
		actor, c, err := ownComment(ctx, tx, actorID, commentID, "Not authorized to edit this comment")
		if err != nil {
			return err
		}
		if s.now().Sub(c.Timestamp) > CommentEditWindow {
			return Forbidden("Edit time expired (10 min limit)")
		}
		if err := tx.UpdateCommentContent(ctx, c.ID, in.Content); err != nil {
			return err
		}
		c.Content = in.Content
		out = toCommentView(c, actor.Username)
		return nil
	})
	return out, err
}

func (s *Service) DeleteComment(ctx context.Context, actorID, commentID int64) error {
	return s.store.Tx(ctx, "delete comment", func(tx Store) error {
		_, c, err := ownComment(ctx, tx, actorID, commentID, "Not authorized to delete this comment")
		if err != nil {
			return err
		}
		return tx.DeleteComment(ctx, c.ID)
	})
}

func ownComment(ctx context.Context, tx Store, actorID, commentID int64, forbidden string) (User, Comment, error) {
	actor, err := requireActor(ctx, tx, actorID)
	if err != nil {
		return User{}, Comment{}, err
	}
	c, err := tx.CommentByID(ctx, commentID)
	if errors.Is(err, ErrNotFound) {
		return User{}, Comment{}, NotFound("Comment not found")
	}
	if err != nil {
		return User{}, Comment{}, err
	}
	if c.OwnerID != actor.ID {
		return User{}, Comment{}, Forbidden(forbidden)
	}
	return actor, c, nil
}

func toCommentView(c Comment, ownerUsername string) CommentView {
	return CommentView{
		ID:            c.ID,
		Content:       c.Content,
		OwnerID:       c.OwnerID,
		PostID:        c.PostID,
		Timestamp:     c.Timestamp,
		OwnerUsername: ownerUsername,
	}
}
