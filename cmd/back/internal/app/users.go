package app

import (
	"context"
	"errors"
)

// ListUsers - все пользователи кроме текущего; is_following - подписан ли текущий на них
func (s *Service) ListUsers(ctx context.Context, actorID int64) ([]UserWithFollowers, error) {
	var out []UserWithFollowers
	err := s.store.Tx(ctx, "list users", func(tx Store) error {
		if _, err := requireActor(ctx, tx, actorID); err != nil {
			return err
		}
		users, err := tx.UsersWithFollowers(ctx, actorID)
		if err != nil {
			return err
		}
		out = users
		return nil
	})
	return out, err
}

func (s *Service) Me(ctx context.Context, actorID int64) (UserProfile, error) {
	var out UserProfile
	err := s.store.Tx(ctx, "me", func(tx Store) error {
		actor, err := requireActor(ctx, tx, actorID)
		if err != nil {
			return err
		}
		followers, following, err := followCounts(ctx, tx, actor.ID)
		if err != nil {
			return err
		}
		out = UserProfile{
			ID:             actor.ID,
			Username:       actor.Username,
			FollowersCount: followers,
			FollowingCount: following,
		}
		return nil
	})
	return out, err
}

// MyProfile - свой профиль вместе с постами и счетчиками
func (s *Service) MyProfile(ctx context.Context, actorID int64) (MyProfileWithPosts, error) {
	var out MyProfileWithPosts
	err := s.store.Tx(ctx, "my profile", func(tx Store) error {
		actor, err := requireActor(ctx, tx, actorID)
		if err != nil {
			return err
		}
		followers, following, err := followCounts(ctx, tx, actor.ID)
		if err != nil {
			return err
		}
		rows, err := tx.Feed(ctx, FeedQuery{ViewerID: actor.ID, OwnerID: &actor.ID, Limit: NoLimit})
		if err != nil {
			return err
		}
		posts := make([]MyPost, len(rows))
		for i, r := range rows {
			posts[i] = MyPost{
				ID:                   r.ID,
				Title:                r.Title,
				Content:              r.Content,
				Timestamp:            r.Timestamp,
				LikesCount:           r.LikesCount,
				CommentsCount:        r.CommentsCount,
				IsLikedByCurrentUser: r.IsLikedByCurrentUser,
			}
		}
		out = MyProfileWithPosts{
			ID:             actor.ID,
			Username:       actor.Username,
			FollowersCount: followers,
			FollowingCount: following,
			Posts:          posts,
		}
		return nil
	})
	return out, err
}

// DeleteAccount удаляет пользователя вместе с постами, лайками, комментариями и подписками
func (s *Service) DeleteAccount(ctx context.Context, actorID int64) error {
	return s.store.Tx(ctx, "delete account", func(tx Store) error {
		err := tx.DeleteUser(ctx, actorID)
		if errors.Is(err, ErrNotFound) {
			return NotFound("User not found")
		}
		return err
	})
}

func (s *Service) Profile(ctx context.Context, actorID, userID int64) (UserProfileWithPosts, error) {
	var out UserProfileWithPosts
	err := s.store.Tx(ctx, "profile", func(tx Store) error {
		actor, err := requireActor(ctx, tx, actorID)
		if err != nil {
			return err
		}
		user, err := tx.UserByID(ctx, userID)
		if errors.Is(err, ErrNotFound) {
			return NotFound("User not found")
		}
		if err != nil {
			return err
		}
		isFollowing, err := tx.IsFollowing(ctx, actor.ID, user.ID)
		if err != nil {
			return err
		}
		followers, following, err := followCounts(ctx, tx, user.ID)
		if err != nil {
			return err
		}
		posts, err := tx.PostsByOwner(ctx, user.ID)
		if err != nil {
			return err
		}
		out = UserProfileWithPosts{
			ID:             user.ID,
			Username:       user.Username,
			FollowersCount: followers,
			FollowingCount: following,
			IsFollowing:    isFollowing,
			Posts:          toPostViews(posts),
		}
		return nil
	})
	return out, err
}
