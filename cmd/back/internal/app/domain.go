package app

import (
	"time"
)

const (
	UsernameMaxLen       = 50
	EmailMaxLen          = 255
	PostTitleMaxLen      = 255
	PostContentMaxLen    = 280
	CommentContentMaxLen = 500

	// CommentEditWindow - сколько времени после создания комментарий можно редактировать
	CommentEditWindow = 10 * time.Minute
)

type User struct {
	ID             int64     `gorm:"primaryKey"`
	Username       string    `gorm:"size:50;not null;uniqueIndex"`
	Email          string    `gorm:"size:255;not null;uniqueIndex"`
	HashedPassword string    `gorm:"size:255;not null"`
	CreatedAt      time.Time `gorm:"not null"`
}

type Post struct {
	ID        int64     `gorm:"primaryKey"`
	Title     string    `gorm:"size:255;not null"`
	Content   string    `gorm:"size:280;not null"`
	Timestamp time.Time `gorm:"not null;index"`
	OwnerID   int64     `gorm:"not null;index"`
	Owner     *User     `gorm:"constraint:OnDelete:CASCADE"`
}

// Like - не больше одного лайка на пару (user, post), гарантирует составной ключ
type Like struct {
	UserID int64 `gorm:"primaryKey;autoIncrement:false"`
	PostID int64 `gorm:"primaryKey;autoIncrement:false;index"`
	User   *User `gorm:"constraint:OnDelete:CASCADE"`
	Post   *Post `gorm:"constraint:OnDelete:CASCADE"`
}

// Retweet пока только в схеме, ручек нет
type Retweet struct {
	UserID    int64     `gorm:"primaryKey;autoIncrement:false"`
	PostID    int64     `gorm:"primaryKey;autoIncrement:false;index"`
	Timestamp time.Time `gorm:"not null"`
	User      *User     `gorm:"constraint:OnDelete:CASCADE"`
	Post      *Post     `gorm:"constraint:OnDelete:CASCADE"`
}

type Comment struct {
	ID        int64     `gorm:"primaryKey"`
	Content   string    `gorm:"size:500;not null"`
	Timestamp time.Time `gorm:"not null"`
	OwnerID   int64     `gorm:"not null;index"`
	PostID    int64     `gorm:"not null;index"`
	Owner     *User     `gorm:"constraint:OnDelete:CASCADE"`
	Post      *Post     `gorm:"constraint:OnDelete:CASCADE"`
}

// Follow - ребро follower -> followee. Петли отсекаются в Service.Follow
type Follow struct {
	FollowerID int64 `gorm:"primaryKey;autoIncrement:false"`
	FolloweeID int64 `gorm:"primaryKey;autoIncrement:false;index"`
	Follower   *User `gorm:"foreignKey:FollowerID;constraint:OnDelete:CASCADE"`
	Followee   *User `gorm:"foreignKey:FolloweeID;constraint:OnDelete:CASCADE"`
}

// Models - все сущности в порядке зависимостей
func Models() []any {
	return []any{&User{}, &Post{}, &Like{}, &Retweet{}, &Comment{}, &Follow{}}
}
