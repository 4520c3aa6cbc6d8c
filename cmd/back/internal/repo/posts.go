package repo

import (
	"context"

	"weconnect/cmd/back/internal/app"

	"gorm.io/gorm/clause"
)

func (r *Repository) CreatePost(ctx context.Context, p *app.Post) error {
	return translate("create post", r.conn(ctx).Omit(clause.Associations).Create(p).Error)
}

func (r *Repository) PostByID(ctx context.Context, id int64) (app.Post, error) {
	var p app.Post
	err := r.conn(ctx).First(&p, id).Error
	return p, translate("post by id", err)
}

func (r *Repository) ListPosts(ctx context.Context, skip, limit int) ([]app.Post, error) {
	posts := []app.Post{}
	err := r.conn(ctx).
		Order("posts.timestamp DESC").Order("posts.id DESC").
		Offset(skip).Limit(limit).
		Find(&posts).Error
	return posts, translate("list posts", err)
}

func (r *Repository) PostsByOwner(ctx context.Context, ownerID int64) ([]app.Post, error) {
	posts := []app.Post{}
	err := r.conn(ctx).
		Where("posts.owner_id = ?", ownerID).
		Order("posts.timestamp DESC").Order("posts.id DESC").
		Find(&posts).Error
	return posts, translate("posts by owner", err)
}

func (r *Repository) DeletePost(ctx context.Context, id int64) error {
	db := r.conn(ctx)
	for op, model := range map[string]any{
		"delete post likes":    &app.Like{},
		"delete post retweets": &app.Retweet{},
		"delete post comments": &app.Comment{},
	} {
		if err := db.Where("post_id = ?", id).Delete(model).Error; err != nil {
			return translate(op, err)
		}
	}
	return affected("delete post", db.Delete(&app.Post{}, id))
}

func (r *Repository) HasLiked(ctx context.Context, userID, postID int64) (bool, error) {
	var n int64
	err := r.conn(ctx).Model(&app.Like{}).
		Where("user_id = ? AND post_id = ?", userID, postID).
		Count(&n).Error
	return n > 0, translate("has liked", err)
}

func (r *Repository) AddLike(ctx context.Context, userID, postID int64) error {
	l := app.Like{UserID: userID, PostID: postID}
	return translate("add like", r.conn(ctx).Omit(clause.Associations).Create(&l).Error)
}

func (r *Repository) RemoveLike(ctx context.Context, userID, postID int64) error {
	res := r.conn(ctx).
		Where("user_id = ? AND post_id = ?", userID, postID).
		Delete(&app.Like{})
	return affected("remove like", res)
}
