package repo

import (
	"context"

	"weconnect/cmd/back/internal/app"

	"gorm.io/gorm/clause"
)

func (r *Repository) CreateComment(ctx context.Context, c *app.Comment) error {
	return translate("create comment", r.conn(ctx).Omit(clause.Associations).Create(c).Error)
}

func (r *Repository) CommentByID(ctx context.Context, id int64) (app.Comment, error) {
	var c app.Comment
	err := r.conn(ctx).First(&c, id).Error
	return c, translate("comment by id", err)
}

func (r *Repository) CommentsByPost(ctx context.Context, postID int64, skip, limit int) ([]app.CommentView, error) {
	out := []app.CommentView{}
	err := r.conn(ctx).Table("comments").
		Select(`comments.id, comments.content, comments.owner_id, comments.post_id,
			comments.timestamp, users.username AS owner_username`).
		Joins("JOIN users ON users.id = comments.owner_id").
		Where("comments.post_id = ?", postID).
		Order("comments.timestamp ASC").Order("comments.id ASC").
		Offset(skip).Limit(limit).
		Scan(&out).Error
	return out, translate("comments by post", err)
}

func (r *Repository) UpdateCommentContent(ctx context.Context, id int64, content string) error {
	res := r.conn(ctx).Model(&app.Comment{}).Where("id = ?", id).Update("content", content)
	return affected("update comment", res)
}

func (r *Repository) DeleteComment(ctx context.Context, id int64) error {
	return affected("delete comment", r.conn(ctx).Delete(&app.Comment{}, id))
}
