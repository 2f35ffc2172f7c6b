package repositories

import (
	"context"
	"time"

	"claw/models"
)

// UserRepository is the credential table: a read-only snapshot of the
// users file that can be replaced wholesale by the reload watcher.
type UserRepository interface {
	ResolveKey(key string) (*models.User, bool)
	FindByUsername(username string) (*models.User, bool)
	Reload() error
	Watch(ctx context.Context, poll, settle time.Duration)
}

// PostRepository owns the ordered post sequence. Every mutation is
// persisted before it is acknowledged.
type PostRepository interface {
	Create(author *models.User, content, attachment, origin string) (models.Post, error)
	Delete(id string) error
	Rate(id, username string, like bool) ([]string, error)
	Reply(id string, author *models.User, content string) (models.Post, error)
	Window(limit, offset int) []models.Post
	ByAuthor(username string) []models.Post
	All() []models.Post
	Size() int
}

// FollowRepository owns the follower sets, keyed by lower-cased target
// username.
type FollowRepository interface {
	Follow(follower, target string) error
	Unfollow(follower, target string) error
	FollowersOf(target string) []string
	FollowingOf(follower string) []string
	FollowerCount(target string) int
	FollowingCount(follower string) int
	IsFollowing(follower, target string) bool
}
