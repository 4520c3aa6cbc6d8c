package repo

import (
	"context"
	"fmt"
	"strings"

	"weconnect/cmd/back/internal/app"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

func (r *Repository) CreateUser(ctx context.Context, u *app.User) error {
	err := r.conn(ctx).Omit(clause.Associations).Create(u).Error
	if err != nil && isUniqueViolation(err) && strings.Contains(violatedConstraint(err), "email") {
		return fmt.Errorf("create user: %w: %v", app.ErrDuplicateEmail, err)
	}
	return translate("create user", err)
}

func (r *Repository) UserByID(ctx context.Context, id int64) (app.User, error) {
	var u app.User
	err := r.conn(ctx).First(&u, id).Error
	return u, translate("user by id", err)
}

func (r *Repository) UserByUsername(ctx context.Context, username string) (app.User, error) {
	var u app.User
	err := r.conn(ctx).Where("username = ?", username).First(&u).Error
	return u, translate("user by username", err)
}

func (r *Repository) UserByEmail(ctx context.Context, email string) (app.User, error) {
	var u app.User
	err := r.conn(ctx).Where("email = ?", email).First(&u).Error
	return u, translate("user by email", err)
}

// DeleteUser удаляет зависимые строки явно, не полагаясь только на ON DELETE CASCADE
func (r *Repository) DeleteUser(ctx context.Context, id int64) error {
	db := r.conn(ctx)
	ownPosts := func() *gorm.DB {
		return db.Model(&app.Post{}).Select("id").Where("owner_id = ?", id)
	}

	steps := []struct {
		op    string
		model any
		query string
		args  []any
	}{
		{"delete user likes", &app.Like{}, "user_id = ? OR post_id IN (?)", []any{id, ownPosts()}},
		{"delete user retweets", &app.Retweet{}, "user_id = ? OR post_id IN (?)", []any{id, ownPosts()}},
		{"delete user comments", &app.Comment{}, "owner_id = ? OR post_id IN (?)", []any{id, ownPosts()}},
		{"delete user follows", &app.Follow{}, "follower_id = ? OR followee_id = ?", []any{id, id}},
		{"delete user posts", &app.Post{}, "owner_id = ?", []any{id}},
	}
	for _, s := range steps {
		if err := db.Where(s.query, s.args...).Delete(s.model).Error; err != nil {
			return translate(s.op, err)
		}
	}
	return affected("delete user", db.Delete(&app.User{}, id))
}

// UsersWithFollowers - все кроме viewer: число подписчиков и подписан ли viewer
func (r *Repository) UsersWithFollowers(ctx context.Context, viewerID int64) ([]app.UserWithFollowers, error) {
	db := r.conn(ctx)
	followers := db.Model(&app.Follow{}).
		Select("followee_id, COUNT(follower_id) AS followers_count").
		Group("followee_id")

	out := []app.UserWithFollowers{}
	err := db.Table("users").
		Select(`users.id, users.username,
			COALESCE(fc.followers_count, 0) AS followers_count,
			EXISTS (SELECT 1 FROM follows f WHERE f.followee_id = users.id AND f.follower_id = ?) AS is_following`, viewerID).
		Joins("LEFT JOIN (?) AS fc ON fc.followee_id = users.id", followers).
		Where("users.id <> ?", viewerID).
		Order("users.id").
		Scan(&out).Error
	return out, translate("users with followers", err)
}
