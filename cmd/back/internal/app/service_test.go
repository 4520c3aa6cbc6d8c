package app_test

import (
	"context"
	"strings"
	"testing"
	"time"

	"weconnect/cmd/back/internal/app"
	"weconnect/cmd/back/internal/repo/repotest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// plainHasher - bcrypt в тестах слишком медленный
type plainHasher struct{}

func (plainHasher) Hash(p string) (string, error) {
	return "plain:" + p, nil
}

func (plainHasher) Verify(h, p string) bool {
	return h == "plain:"+p
}

type clock struct{ t time.Time }

func (c *clock) now() time.Time {
	return c.t
}

func (c *clock) advance(d time.Duration) {
	c.t = c.t.Add(d)
}

func newService(t *testing.T) (*app.Service, *clock) {
	t.Helper()
	r, _ := repotest.New(t)
	svc := app.NewService(r, plainHasher{})
	c := &clock{t: time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)}
	svc.Now = c.now
	return svc, c
}

func register(t *testing.T, svc *app.Service, name string) app.UserView {
	t.Helper()
	u, err := svc.Register(context.Background(), app.RegisterInput{
		Username: name, Email: name + "@example.com", Password: "secret-" + name,
	})
	require.NoError(t, err)
	return u
}

func requireCode(t *testing.T, err error, code codes.Code, detail string) {
	t.Helper()
	require.Error(t, err)
	st, ok := status.FromError(err)
	require.True(t, ok, "not a status error: %v", err)
	assert.Equal(t, code, st.Code())
	if detail != "" {
		assert.Equal(t, detail, st.Message())
	}
}

func TestRegisterAndAuthenticate(t *testing.T) {
	ctx := context.Background()
	svc, _ := newService(t)

	alice := register(t, svc, "alice")
	assert.NotZero(t, alice.ID)
	assert.Equal(t, "alice@example.com", alice.Email)

	_, err := svc.Register(ctx, app.RegisterInput{Username: "alice", Email: "other@example.com", Password: "x"})
	requireCode(t, err, codes.AlreadyExists, "Username already registered")

	_, err = svc.Register(ctx, app.RegisterInput{Username: "alice2", Email: "alice@example.com", Password: "x"})
	requireCode(t, err, codes.AlreadyExists, "Email already registered")

	_, err = svc.Register(ctx, app.RegisterInput{Username: "", Email: "e@example.com", Password: "x"})
	requireCode(t, err, codes.InvalidArgument, "")

	u, err := svc.Authenticate(ctx, "alice", "secret-alice")
	require.NoError(t, err)
	assert.Equal(t, alice.ID, u.ID)

	_, err = svc.Authenticate(ctx, "alice", "wrong")
	requireCode(t, err, codes.Unauthenticated, "Incorrect username or password")
	_, err = svc.Authenticate(ctx, "nobody", "wrong")
	requireCode(t, err, codes.Unauthenticated, "Incorrect username or password")
}

func TestLikeTwiceConflictsWithoutChangingState(t *testing.T) {
	ctx := context.Background()
	svc, _ := newService(t)
	alice := register(t, svc, "alice")
	bob := register(t, svc, "bob")

	p, err := svc.CreatePost(ctx, alice.ID, app.PostInput{Title: "hello", Content: "world"})
	require.NoError(t, err)

	require.NoError(t, svc.Like(ctx, bob.ID, p.ID))
	requireCode(t, svc.Like(ctx, bob.ID, p.ID), codes.AlreadyExists, "Already liked")

	feed, err := svc.Feed(ctx, bob.ID, 0, 10)
	require.NoError(t, err)
	require.Len(t, feed, 1)
	assert.EqualValues(t, 1, feed[0].LikesCount)

	requireCode(t, svc.Like(ctx, bob.ID, 9999), codes.NotFound, "Post not found")

	require.NoError(t, svc.Unlike(ctx, bob.ID, p.ID))
	requireCode(t, svc.Unlike(ctx, bob.ID, p.ID), codes.NotFound, "Not liked yet")
	requireCode(t, svc.Unlike(ctx, bob.ID, p.ID), codes.NotFound, "Not liked yet")
}

func TestFeedScenarioPerViewer(t *testing.T) {
	ctx := context.Background()
	svc, _ := newService(t)
	alice := register(t, svc, "alice")
	bob := register(t, svc, "bob")
	carol := register(t, svc, "carol")

	p, err := svc.CreatePost(ctx, alice.ID, app.PostInput{Title: "hello", Content: "world"})
	require.NoError(t, err)
	require.NoError(t, svc.Like(ctx, bob.ID, p.ID))

	asBob, err := svc.Feed(ctx, bob.ID, 0, 10)
	require.NoError(t, err)
	require.Len(t, asBob, 1)
	assert.EqualValues(t, 1, asBob[0].LikesCount)
	assert.True(t, asBob[0].IsLikedByCurrentUser)
	assert.Equal(t, "alice", asBob[0].OwnerUsername)

	asCarol, err := svc.Feed(ctx, carol.ID, 0, 10)
	require.NoError(t, err)
	require.Len(t, asCarol, 1)
	assert.EqualValues(t, 1, asCarol[0].LikesCount)
	assert.False(t, asCarol[0].IsLikedByCurrentUser)

	empty, err := svc.Feed(ctx, carol.ID, 0, 0)
	require.NoError(t, err)
	assert.Empty(t, empty)

	_, err = svc.Feed(ctx, carol.ID, -1, 10)
	requireCode(t, err, codes.InvalidArgument, "")

	missing, err := svc.UserPosts(ctx, carol.ID, 9999)
	require.NoError(t, err)
	assert.Empty(t, missing)
}

func TestFollowRules(t *testing.T) {
	ctx := context.Background()
	svc, _ := newService(t)
	alice := register(t, svc, "alice")
	bob := register(t, svc, "bob")

	requireCode(t, svc.Follow(ctx, alice.ID, alice.ID), codes.InvalidArgument, "Cannot follow yourself")
	requireCode(t, svc.Follow(ctx, alice.ID, 9999), codes.NotFound, "User not found")
	requireCode(t, svc.Unfollow(ctx, alice.ID, bob.ID), codes.InvalidArgument, "Not following this user")

	require.NoError(t, svc.Follow(ctx, alice.ID, bob.ID))
	requireCode(t, svc.Follow(ctx, alice.ID, bob.ID), codes.InvalidArgument, "Already following this user")
	// самоподписка отклоняется при любых существующих ребрах
	requireCode(t, svc.Follow(ctx, alice.ID, alice.ID), codes.InvalidArgument, "Cannot follow yourself")
	requireCode(t, svc.Unfollow(ctx, alice.ID, alice.ID), codes.InvalidArgument, "Cannot unfollow yourself")

	followers, err := svc.Followers(ctx, alice.ID, bob.ID)
	require.NoError(t, err)
	assert.Equal(t, []app.UserSummary{{ID: alice.ID, Username: "alice"}}, followers)

	following, err := svc.Following(ctx, bob.ID, alice.ID)
	require.NoError(t, err)
	assert.Equal(t, []app.UserSummary{{ID: bob.ID, Username: "bob"}}, following)

	_, err = svc.Followers(ctx, alice.ID, 9999)
	requireCode(t, err, codes.NotFound, "User not found")

	// is_following в списке - подписка смотрящего, а не обратная
	asBob, err := svc.ListUsers(ctx, bob.ID)
	require.NoError(t, err)
	require.Len(t, asBob, 1)
	assert.Equal(t, alice.ID, asBob[0].ID)
	assert.False(t, asBob[0].IsFollowing)
	assert.Zero(t, asBob[0].FollowersCount)

	asAlice, err := svc.ListUsers(ctx, alice.ID)
	require.NoError(t, err)
	require.Len(t, asAlice, 1)
	assert.True(t, asAlice[0].IsFollowing)
	assert.EqualValues(t, 1, asAlice[0].FollowersCount)

	me, err := svc.Me(ctx, bob.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 1, me.FollowersCount)
	assert.Zero(t, me.FollowingCount)

	profile, err := svc.Profile(ctx, alice.ID, bob.ID)
	require.NoError(t, err)
	assert.True(t, profile.IsFollowing)
	assert.EqualValues(t, 1, profile.FollowersCount)

	require.NoError(t, svc.Unfollow(ctx, alice.ID, bob.ID))
	me, err = svc.Me(ctx, bob.ID)
	require.NoError(t, err)
	assert.Zero(t, me.FollowersCount)
}

func TestCommentEditWindow(t *testing.T) {
	ctx := context.Background()
	svc, clk := newService(t)
	alice := register(t, svc, "alice")
	bob := register(t, svc, "bob")
	p, err := svc.CreatePost(ctx, alice.ID, app.PostInput{Title: "hello", Content: "world"})
	require.NoError(t, err)

	early, err := svc.CreateComment(ctx, bob.ID, p.ID, app.CommentInput{Content: "first"})
	require.NoError(t, err)
	assert.Equal(t, "bob", early.OwnerUsername)

	_, err = svc.UpdateComment(ctx, alice.ID, early.ID, app.CommentInput{Content: "hijack"})
	requireCode(t, err, codes.PermissionDenied, "Not authorized to edit this comment")

	clk.advance(9*time.Minute + 59*time.Second)
	edited, err := svc.UpdateComment(ctx, bob.ID, early.ID, app.CommentInput{Content: "edited"})
	require.NoError(t, err)
	assert.Equal(t, "edited", edited.Content)
	assert.True(t, edited.Timestamp.Equal(early.Timestamp), "creation timestamp must be preserved")

	late, err := svc.CreateComment(ctx, bob.ID, p.ID, app.CommentInput{Content: "second"})
	require.NoError(t, err)
	clk.advance(10*time.Minute + time.Second)
	_, err = svc.UpdateComment(ctx, bob.ID, late.ID, app.CommentInput{Content: "too late"})
	requireCode(t, err, codes.PermissionDenied, "Edit time expired (10 min limit)")

	_, err = svc.UpdateComment(ctx, bob.ID, 9999, app.CommentInput{Content: "x"})
	requireCode(t, err, codes.NotFound, "Comment not found")

	_, err = svc.CreateComment(ctx, bob.ID, 9999, app.CommentInput{Content: "x"})
	requireCode(t, err, codes.NotFound, "Post not found")

	comments, err := svc.Comments(ctx, p.ID, 0, 10)
	require.NoError(t, err)
	require.Len(t, comments, 2)
	assert.Equal(t, "edited", comments[0].Content)
	assert.Equal(t, "second", comments[1].Content)

	requireCode(t, svc.DeleteComment(ctx, alice.ID, late.ID), codes.PermissionDenied, "Not authorized to delete this comment")
	require.NoError(t, svc.DeleteComment(ctx, bob.ID, late.ID))
	requireCode(t, svc.DeleteComment(ctx, bob.ID, late.ID), codes.NotFound, "Comment not found")
}

func TestDeletePostOwnerOnly(t *testing.T) {
	ctx := context.Background()
	svc, _ := newService(t)
	alice := register(t, svc, "alice")
	bob := register(t, svc, "bob")
	p, err := svc.CreatePost(ctx, alice.ID, app.PostInput{Title: "hello", Content: "world"})
	require.NoError(t, err)

	requireCode(t, svc.DeletePost(ctx, bob.ID, p.ID), codes.NotFound, "Post not found or not yours to delete.")
	require.NoError(t, svc.DeletePost(ctx, alice.ID, p.ID))
	requireCode(t, svc.DeletePost(ctx, alice.ID, p.ID), codes.NotFound, "Post not found or not yours to delete.")
}

func TestDeleteAccountCascades(t *testing.T) {
	ctx := context.Background()
	svc, _ := newService(t)
	alice := register(t, svc, "alice")
	bob := register(t, svc, "bob")

	p, err := svc.CreatePost(ctx, alice.ID, app.PostInput{Title: "hello", Content: "world"})
	require.NoError(t, err)
	require.NoError(t, svc.Like(ctx, bob.ID, p.ID))
	_, err = svc.CreateComment(ctx, bob.ID, p.ID, app.CommentInput{Content: "hi"})
	require.NoError(t, err)
	require.NoError(t, svc.Follow(ctx, bob.ID, alice.ID))

	require.NoError(t, svc.DeleteAccount(ctx, alice.ID))
	requireCode(t, svc.DeleteAccount(ctx, alice.ID), codes.NotFound, "User not found")

	posts, err := svc.UserPosts(ctx, bob.ID, alice.ID)
	require.NoError(t, err)
	assert.Empty(t, posts)

	comments, err := svc.Comments(ctx, p.ID, 0, 10)
	require.NoError(t, err)
	assert.Empty(t, comments)

	me, err := svc.Me(ctx, bob.ID)
	require.NoError(t, err)
	assert.Zero(t, me.FollowingCount)

	// токен удаленного пользователя больше не действует
	_, err = svc.Me(ctx, alice.ID)
	requireCode(t, err, codes.Unauthenticated, "")
}

func TestMyProfile(t *testing.T) {
	ctx := context.Background()
	svc, clk := newService(t)
	alice := register(t, svc, "alice")
	bob := register(t, svc, "bob")

	first, err := svc.CreatePost(ctx, alice.ID, app.PostInput{Title: "one", Content: "1"})
	require.NoError(t, err)
	clk.advance(time.Second)
	second, err := svc.CreatePost(ctx, alice.ID, app.PostInput{Title: "two", Content: "2"})
	require.NoError(t, err)
	require.NoError(t, svc.Like(ctx, alice.ID, first.ID))
	require.NoError(t, svc.Follow(ctx, bob.ID, alice.ID))

	prof, err := svc.MyProfile(ctx, alice.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 1, prof.FollowersCount)
	require.Len(t, prof.Posts, 2)
	assert.Equal(t, second.ID, prof.Posts[0].ID)
	assert.Equal(t, first.ID, prof.Posts[1].ID)
	assert.True(t, prof.Posts[1].IsLikedByCurrentUser)
	assert.EqualValues(t, 1, prof.Posts[1].LikesCount)

	mine, err := svc.MyPosts(ctx, alice.ID)
	require.NoError(t, err)
	require.Len(t, mine, 2)
	assert.Equal(t, second.ID, mine[0].ID)

	all, err := svc.ListPosts(ctx, 1, 10)
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, first.ID, all[0].ID)
}

func TestPostValidation(t *testing.T) {
	ctx := context.Background()
	svc, _ := newService(t)
	alice := register(t, svc, "alice")

	_, err := svc.CreatePost(ctx, alice.ID, app.PostInput{Title: "t", Content: strings.Repeat("a", app.PostContentMaxLen+1)})
	requireCode(t, err, codes.InvalidArgument, "Content must be at most 280 characters")

	// лимит в символах, не в байтах
	_, err = svc.CreatePost(ctx, alice.ID, app.PostInput{Title: "t", Content: strings.Repeat("ж", app.PostContentMaxLen)})
	require.NoError(t, err)

	_, err = svc.CreatePost(ctx, alice.ID, app.PostInput{Title: strings.Repeat("a", app.PostTitleMaxLen+1), Content: "c"})
	requireCode(t, err, codes.InvalidArgument, "Title must be at most 255 characters")

	_, err = svc.CreatePost(ctx, alice.ID, app.PostInput{Title: "   ", Content: "c"})
	requireCode(t, err, codes.InvalidArgument, "Title is required")

	_, err = svc.CreatePost(ctx, alice.ID, app.PostInput{Title: "t"})
	requireCode(t, err, codes.InvalidArgument, "Content is required")
}

func TestRegisterValidation(t *testing.T) {
	ctx := context.Background()
	svc, _ := newService(t)

	for _, tc := range []struct {
		name   string
		in     app.RegisterInput
		detail string
	}{
		{"long username", app.RegisterInput{Username: strings.Repeat("u", app.UsernameMaxLen+1), Email: "e@example.com", Password: "pw"}, "Username must be at most 50 characters"},
		{"blank username", app.RegisterInput{Username: " ", Email: "e@example.com", Password: "pw"}, "Username is required"},
		{"long email", app.RegisterInput{Username: "bob", Email: strings.Repeat("e", app.EmailMaxLen+1), Password: "pw"}, "Email must be at most 255 characters"},
		{"no email", app.RegisterInput{Username: "bob", Password: "pw"}, "Email is required"},
		{"no password", app.RegisterInput{Username: "bob", Email: "e@example.com"}, "Password is required"},
	} {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.Register(ctx, tc.in)
			requireCode(t, err, codes.InvalidArgument, tc.detail)
		})
	}

	_, err := svc.Register(ctx, app.RegisterInput{Username: strings.Repeat("u", app.UsernameMaxLen), Email: "e@example.com", Password: "pw"})
	require.NoError(t, err)
}

func TestCommentValidation(t *testing.T) {
	ctx := context.Background()
	svc, _ := newService(t)
	alice := register(t, svc, "alice")
	p, err := svc.CreatePost(ctx, alice.ID, app.PostInput{Title: "t", Content: "c"})
	require.NoError(t, err)

	_, err = svc.CreateComment(ctx, alice.ID, p.ID, app.CommentInput{Content: strings.Repeat("a", app.CommentContentMaxLen+1)})
	requireCode(t, err, codes.InvalidArgument, "Content must be at most 500 characters")

	_, err = svc.CreateComment(ctx, alice.ID, p.ID, app.CommentInput{Content: "\t\n"})
	requireCode(t, err, codes.InvalidArgument, "Content is required")

	c, err := svc.CreateComment(ctx, alice.ID, p.ID, app.CommentInput{Content: strings.Repeat("a", app.CommentContentMaxLen)})
	require.NoError(t, err)

	_, err = svc.UpdateComment(ctx, alice.ID, c.ID, app.CommentInput{Content: ""})
	requireCode(t, err, codes.InvalidArgument, "Content is required")
}
