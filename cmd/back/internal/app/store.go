package app

import "context"

// Store - доступ к реляционному хранилищу. Все методы, кроме Tx,
// выполняются в транзакции, которую открыл Tx.
type Store interface {
	// Tx открывает одну транзакцию на запрос: commit при nil, rollback при ошибке или панике
	Tx(ctx context.Context, reason string, fn func(tx Store) error) error

	CreateUser(ctx context.Context, u *User) error
	UserByID(ctx context.Context, id int64) (User, error)
	UserByUsername(ctx context.Context, username string) (User, error)
	UserByEmail(ctx context.Context, email string) (User, error)
	DeleteUser(ctx context.Context, id int64) error
	UsersWithFollowers(ctx context.Context, viewerID int64) ([]UserWithFollowers, error)

	AddFollow(ctx context.Context, followerID, followeeID int64) error
	RemoveFollow(ctx context.Context, followerID, followeeID int64) error
	IsFollowing(ctx context.Context, followerID, followeeID int64) (bool, error)
	FollowersOf(ctx context.Context, userID int64) ([]User, error)
	FollowingOf(ctx context.Context, userID int64) ([]User, error)
	CountFollowers(ctx context.Context, userID int64) (int64, error)
	CountFollowing(ctx context.Context, userID int64) (int64, error)

	CreatePost(ctx context.Context, p *Post) error
	PostByID(ctx context.Context, id int64) (Post, error)
	ListPosts(ctx context.Context, skip, limit int) ([]Post, error)
	PostsByOwner(ctx context.Context, ownerID int64) ([]Post, error)
	DeletePost(ctx context.Context, id int64) error
	Feed(ctx context.Context, q FeedQuery) ([]PostWithCounts, error)

	HasLiked(ctx context.Context, userID, postID int64) (bool, error)
	AddLike(ctx context.Context, userID, postID int64) error
	RemoveLike(ctx context.Context, userID, postID int64) error

	CreateComment(ctx context.Context, c *Comment) error
	CommentByID(ctx context.Context, id int64) (Comment, error)
	CommentsByPost(ctx context.Context, postID int64, skip, limit int) ([]CommentView, error)
	UpdateCommentContent(ctx context.Context, id int64, content string) error
	DeleteComment(ctx context.Context, id int64) error
}
