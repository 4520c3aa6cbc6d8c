package app

import (
	"context"
	"errors"
)

// Follow создает ребро actor -> target.
// Проверка существующего ребра только для понятной ошибки, гарантия - составной ключ follows.
func (s *Service) Follow(ctx context.Context, actorID, targetID int64) error {
	return s.store.Tx(ctx, "follow", func(tx Store) error {
		actor, target, err := followPair(ctx, tx, actorID, targetID)
		if err != nil {
			return err
		}
		if actor.ID == target.ID {
			return BadRequest("Cannot follow yourself")
		}
		following, err := tx.IsFollowing(ctx, actor.ID, target.ID)
		if err != nil {
			return err
		}
		if following {
			return BadRequest("Already following this user")
		}
		err = tx.AddFollow(ctx, actor.ID, target.ID)
		switch {
		case errors.Is(err, ErrDuplicate):
			return BadRequest("Already following this user")
		case errors.Is(err, ErrReferenceMissing):
			return NotFound("User not found")
		}
		return err
	})
}

func (s *Service) Unfollow(ctx context.Context, actorID, targetID int64) error {
	return s.store.Tx(ctx, "unfollow", func(tx Store) error {
		actor, target, err := followPair(ctx, tx, actorID, targetID)
		if err != nil {
			return err
		}
		if actor.ID == target.ID {
			return BadRequest("Cannot unfollow yourself")
		}
		err = tx.RemoveFollow(ctx, actor.ID, target.ID)
		if errors.Is(err, ErrNotFound) {
			return BadRequest("Not following this user")
		}
		return err
	})
}

// Followers - кто подписан на userID
func (s *Service) Followers(ctx context.Context, actorID, userID int64) ([]UserSummary, error) {
	return s.projection(ctx, "followers", actorID, userID, Store.FollowersOf)
}

// Following - на кого подписан userID
func (s *Service) Following(ctx context.Context, actorID, userID int64) ([]UserSummary, error) {
	return s.projection(ctx, "following", actorID, userID, Store.FollowingOf)
}

func (s *Service) projection(ctx context.Context, reason string, actorID, userID int64,
	load func(Store, context.Context, int64) ([]User, error)) ([]UserSummary, error) {
	var out []UserSummary
	err := s.store.Tx(ctx, reason, func(tx Store) error {
		if _, err := requireActor(ctx, tx, actorID); err != nil {
			return err
		}
		if _, err := tx.UserByID(ctx, userID); errors.Is(err, ErrNotFound) {
			return NotFound("User not found")
		} else if err != nil {
			return err
		}
		users, err := load(tx, ctx, userID)
		if err != nil {
			return err
		}
		out = toSummaries(users)
		return nil
	})
	return out, err
}

func followPair(ctx context.Context, tx Store, actorID, targetID int64) (User, User, error) {
	actor, err := requireActor(ctx, tx, actorID)
	if err != nil {
		return User{}, User{}, err
	}
	target, err := tx.UserByID(ctx, targetID)
	if errors.Is(err, ErrNotFound) {
		return User{}, User{}, NotFound("User not found")
	}
	if err != nil {
		return User{}, User{}, err
	}
	return actor, target, nil
}

func followCounts(ctx context.Context, tx Store, userID int64) (followers, following int64, err error) {
	followers, err = tx.CountFollowers(ctx, userID)
	if err != nil {
		return 0, 0, err
	}
	following, err = tx.CountFollowing(ctx, userID)
	if err != nil {
		return 0, 0, err
	}
	return followers, following, nil
}
