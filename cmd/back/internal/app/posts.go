package app

import (
	"context"
	"errors"
)

type PostInput struct {
	Title   string `json:"title" validate:"post_title"`
	Content string `json:"content" validate:"post_content"`
}

// ListPosts - публичная лента без счетчиков
func (s *Service) ListPosts(ctx context.Context, skip, limit int) ([]PostView, error) {
	if err := validatePage(skip, limit); err != nil {
		return nil, err
	}
	if limit == 0 {
		return []PostView{}, nil
	}
	var out []PostView
	err := s.store.Tx(ctx, "list posts", func(tx Store) error {
		posts, err := tx.ListPosts(ctx, skip, limit)
		if err != nil {
			return err
		}
		out = toPostViews(posts)
		return nil
	})
	return out, err
}

// Feed - посты со счетчиками лайков/комментариев и флагом лайка текущего пользователя
func (s *Service) Feed(ctx context.Context, actorID int64, skip, limit int) ([]PostWithCounts, error) {
	if err := validatePage(skip, limit); err != nil {
		return nil, err
	}
	return s.feed(ctx, "feed", actorID, FeedQuery{Skip: skip, Limit: limit})
}

// UserPosts - то же что Feed, но только посты ownerID и без пагинации
func (s *Service) UserPosts(ctx context.Context, actorID, ownerID int64) ([]PostWithCounts, error) {
	return s.feed(ctx, "user posts", actorID, FeedQuery{OwnerID: &ownerID, Limit: NoLimit})
}

func (s *Service) feed(ctx context.Context, reason string, actorID int64, q FeedQuery) ([]PostWithCounts, error) {
	out := []PostWithCounts{}
	err := s.store.Tx(ctx, reason, func(tx Store) error {
		if _, err := requireActor(ctx, tx, actorID); err != nil {
			return err
		}
		if q.Limit == 0 {
			return nil
		}
		q.ViewerID = actorID
		rows, err := tx.Feed(ctx, q)
		if err != nil {
			return err
		}
		out = rows
		return nil
	})
	return out, err
}

func (s *Service) MyPosts(ctx context.Context, actorID int64) ([]PostView, error) {
	var out []PostView
	err := s.store.Tx(ctx, "my posts", func(tx Store) error {
		if _, err := requireActor(ctx, tx, actorID); err != nil {
			return err
		}
		posts, err := tx.PostsByOwner(ctx, actorID)
		if err != nil {
			return err
		}
		out = toPostViews(posts)
		return nil
	})
	return out, err
}

func (s *Service) CreatePost(ctx context.Context, actorID int64, in PostInput) (PostView, error) {
	if err := s.check(in); err != nil {
		return PostView{}, err
	}
	var out PostView
	err := s.store.Tx(ctx, "create post", func(tx Store) error {
		actor, err := requireActor(ctx, tx, actorID)
		if err != nil {
			return err
		}
		p := Post{
			Title:     in.Title,
			Content:   in.Content,
			Timestamp: s.now(),
			OwnerID:   actor.ID,
		}
		err = tx.CreatePost(ctx, &p)
		if errors.Is(err, ErrReferenceMissing) {
			return Unauthorized("Could not validate credentials")
		}
		if err != nil {
			return err
		}
		out = toPostView(p)
		return nil
	})
	return out, err
}

// DeletePost - удалить может только владелец; чужой и отсутствующий пост неразличимы (404)
func (s *Service) DeletePost(ctx context.Context, actorID, postID int64) error {
	return s.store.Tx(ctx, "delete post", func(tx Store) error {
		actor, err := requireActor(ctx, tx, actorID)
		if err != nil {
			return err
		}
		p, err := tx.PostByID(ctx, postID)
		if errors.Is(err, ErrNotFound) || (err == nil && p.OwnerID != actor.ID) {
			return NotFound("Post not found or not yours to delete.")
		}
		if err != nil {
			return err
		}
		return tx.DeletePost(ctx, p.ID)
	})
}

func (s *Service) Like(ctx context.Context, actorID, postID int64) error {
	return s.store.Tx(ctx, "like", func(tx Store) error {
		actor, err := requireActor(ctx, tx, actorID)
		if err != nil {
			return err
		}
		if _, err := tx.PostByID(ctx, postID); errors.Is(err, ErrNotFound) {
			return NotFound("Post not found")
		} else if err != nil {
			return err
		}
		liked, err := tx.HasLiked(ctx, actor.ID, postID)
		if err != nil {
			return err
		}
		if liked {
			return Conflict("Already liked")
		}
		err = tx.AddLike(ctx, actor.ID, postID)
		switch {
		case errors.Is(err, ErrDuplicate):
			return Conflict("Already liked")
		case errors.Is(err, ErrReferenceMissing):
			// пост удалили параллельным запросом после проверки
			return NotFound("Post not found")
		}
		return err
	})
}

func (s *Service) Unlike(ctx context.Context, actorID, postID int64) error {
	return s.store.Tx(ctx, "unlike", func(tx Store) error {
		actor, err := requireActor(ctx, tx, actorID)
		if err != nil {
			return err
		}
		err = tx.RemoveLike(ctx, actor.ID, postID)
		if errors.Is(err, ErrNotFound) {
			return NotFound("Not liked yet")
		}
		return err
	})
}
