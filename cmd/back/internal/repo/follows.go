package repo

import (
	"context"

	"weconnect/cmd/back/internal/app"

	"gorm.io/gorm/clause"
)

// Граф подписок - одна таблица follows, две проекции по колонкам

func (r *Repository) AddFollow(ctx context.Context, followerID, followeeID int64) error {
	f := app.Follow{FollowerID: followerID, FolloweeID: followeeID}
	return translate("add follow", r.conn(ctx).Omit(clause.Associations).Create(&f).Error)
}

func (r *Repository) RemoveFollow(ctx context.Context, followerID, followeeID int64) error {
	res := r.conn(ctx).
		Where("follower_id = ? AND followee_id = ?", followerID, followeeID).
		Delete(&app.Follow{})
	return affected("remove follow", res)
}

func (r *Repository) IsFollowing(ctx context.Context, followerID, followeeID int64) (bool, error) {
	var n int64
	err := r.conn(ctx).Model(&app.Follow{}).
		Where("follower_id = ? AND followee_id = ?", followerID, followeeID).
		Count(&n).Error
	return n > 0, translate("is following", err)
}

func (r *Repository) FollowersOf(ctx context.Context, userID int64) ([]app.User, error) {
	return r.followUsers(ctx, "followers of", "follows.follower_id", "follows.followee_id", userID)
}

func (r *Repository) FollowingOf(ctx context.Context, userID int64) ([]app.User, error) {
	return r.followUsers(ctx, "following of", "follows.followee_id", "follows.follower_id", userID)
}

// followUsers: пользователи из колонки pick при фиксированной колонке by
func (r *Repository) followUsers(ctx context.Context, op, pick, by string, userID int64) ([]app.User, error) {
	users := []app.User{}
	err := r.conn(ctx).Model(&app.User{}).
		Select("users.*").
		Joins("JOIN follows ON "+pick+" = users.id").
		Where(by+" = ?", userID).
		Order("users.id").
		Find(&users).Error
	return users, translate(op, err)
}

func (r *Repository) CountFollowers(ctx context.Context, userID int64) (int64, error) {
	var n int64
	err := r.conn(ctx).Model(&app.Follow{}).Where("followee_id = ?", userID).Count(&n).Error
	return n, translate("count followers", err)
}

func (r *Repository) CountFollowing(ctx context.Context, userID int64) (int64, error) {
	var n int64
	err := r.conn(ctx).Model(&app.Follow{}).Where("follower_id = ?", userID).Count(&n).Error
	return n, translate("count following", err)
}
