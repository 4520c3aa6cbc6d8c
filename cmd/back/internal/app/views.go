package app

import "time"

type UserView struct {
	ID        int64     `json:"id"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"created_at"`
}

type UserSummary struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
}

type UserProfile struct {
	ID             int64  `json:"id"`
	Username       string `json:"username"`
	FollowersCount int64  `json:"followers_count"`
	FollowingCount int64  `json:"following_count"`
}

type UserWithFollowers struct {
	ID             int64  `json:"id"`
	Username       string `json:"username"`
	FollowersCount int64  `json:"followers_count"`
	IsFollowing    bool   `json:"is_following"`
}

type UserProfileWithPosts struct {
	ID             int64      `json:"id"`
	Username       string     `json:"username"`
	FollowersCount int64      `json:"followers_count"`
	FollowingCount int64      `json:"following_count"`
	IsFollowing    bool       `json:"is_following"`
	Posts          []PostView `json:"posts"`
}

type MyPost struct {
	ID                   int64     `json:"id"`
	Title                string    `json:"title"`
	Content              string    `json:"content"`
	Timestamp            time.Time `json:"timestamp"`
	LikesCount           int64     `json:"likes_count"`
	CommentsCount        int64     `json:"comments_count"`
	IsLikedByCurrentUser bool      `json:"is_liked_by_current_user"`
}

type MyProfileWithPosts struct {
	ID             int64    `json:"id"`
	Username       string   `json:"username"`
	FollowersCount int64    `json:"followers_count"`
	FollowingCount int64    `json:"following_count"`
	Posts          []MyPost `json:"posts"`
}

type PostView struct {
	ID        int64     `json:"id"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	Timestamp time.Time `json:"timestamp"`
	OwnerID   int64     `json:"owner_id"`
}

// PostWithCounts - строка ленты. Колонки совпадают с алиасами в repo.Feed
type PostWithCounts struct {
	ID                   int64     `json:"id"`
	Title                string    `json:"title"`
	Content              string    `json:"content"`
	Timestamp            time.Time `json:"timestamp"`
	OwnerID              int64     `json:"owner_id"`
	OwnerUsername        string    `json:"owner_username"`
	LikesCount           int64     `json:"likes_count"`
	CommentsCount        int64     `json:"comments_count"`
	RetweetsCount        int64     `json:"retweets_count" gorm:"-"`
	IsLikedByCurrentUser bool      `json:"is_liked_by_current_user"`
}

type CommentView struct {
	ID            int64     `json:"id"`
	Content       string    `json:"content"`
	OwnerID       int64     `json:"owner_id"`
	PostID        int64     `json:"post_id"`
	Timestamp     time.Time `json:"timestamp"`
	OwnerUsername string    `json:"owner_username"`
}

// FeedQuery - параметры агрегирующего запроса ленты.
// Limit < 0 означает без ограничения.
type FeedQuery struct {
	ViewerID int64
	OwnerID  *int64
	Skip     int
	Limit    int
}

const NoLimit = -1

func toUserView(u User) UserView {
	return UserView{ID: u.ID, Username: u.Username, Email: u.Email, CreatedAt: u.CreatedAt}
}

func toPostView(p Post) PostView {
	return PostView{ID: p.ID, Title: p.Title, Content: p.Content, Timestamp: p.Timestamp, OwnerID: p.OwnerID}
}

func toPostViews(posts []Post) []PostView {
	out := make([]PostView, len(posts))
	for i := range posts {
		out[i] = toPostView(posts[i])
	}
	return out
}

func toSummaries(users []User) []UserSummary {
	out := make([]UserSummary, len(users))
	for i, u := range users {
		out[i] = UserSummary{ID: u.ID, Username: u.Username}
	}
	return out
}
