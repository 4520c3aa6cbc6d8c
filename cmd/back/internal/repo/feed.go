package repo

import (
	"context"

	"weconnect/cmd/back/internal/app"
)

// Feed - агрегирующий запрос ленты:
//
//	posts JOIN users
//	LEFT JOIN (likes GROUP BY post_id)    -> likes_count, 0 если лайков нет
//	LEFT JOIN (comments GROUP BY post_id) -> comments_count
//	EXISTS like(post, viewer)             -> is_liked_by_current_user
//
// EXISTS, а не COUNT: флаг не зависит от числа строк.
func (r *Repository) Feed(ctx context.Context, q app.FeedQuery) ([]app.PostWithCounts, error) {
	db := r.conn(ctx)

	likes := db.Model(&app.Like{}).
		Select("post_id, COUNT(user_id) AS likes_count").
		Group("post_id")
	comments := db.Model(&app.Comment{}).
		Select("post_id, COUNT(id) AS comments_count").
		Group("post_id")

	query := db.Table("posts").
		Select(`posts.id, posts.title, posts.content, posts.timestamp, posts.owner_id,
			users.username AS owner_username,
			COALESCE(lc.likes_count, 0) AS likes_count,
			COALESCE(cc.comments_count, 0) AS comments_count,
			EXISTS (SELECT 1 FROM likes l WHERE l.post_id = posts.id AND l.user_id = ?) AS is_liked_by_current_user`, q.ViewerID).
		Joins("JOIN users ON users.id = posts.owner_id").
		Joins("LEFT JOIN (?) AS lc ON lc.post_id = posts.id", likes).
		Joins("LEFT JOIN (?) AS cc ON cc.post_id = posts.id", comments)

	if q.OwnerID != nil {
		query = query.Where("posts.owner_id = ?", *q.OwnerID)
	}

	out := []app.PostWithCounts{}
	err := query.
		Order("posts.timestamp DESC").Order("posts.id DESC").
		Offset(q.Skip).Limit(q.Limit).
		Scan(&out).Error
	return out, translate("feed", err)
}
