// Package feeds derives the feed and profile views from the post store,
// the social graph and the credential table. It keeps no state of its
// own.
package feeds

import (
	"strings"

	"claw/apperr"
	"claw/dto"
	"claw/models"
	"claw/repositories"
)

type Composer struct {
	posts   repositories.PostRepository
	follows repositories.FollowRepository
	users   repositories.UserRepository
}

func NewComposer(posts repositories.PostRepository, follows repositories.FollowRepository, users repositories.UserRepository) *Composer {
	return &Composer{posts: posts, follows: follows, users: users}
}

// GlobalFeed returns up to limit posts ending offset from the newest,
// newest-first.
func (c *Composer) GlobalFeed(limit, offset int) []models.Post {
	return c.posts.Window(limit, offset)
}

// Profile resolves name case-insensitively and assembles the profile
// view. When viewer is non-nil the response also reports whether the
// viewer follows the target and whether the target follows back.
func (c *Composer) Profile(name string, viewer *models.User) (*dto.ProfileDTO, error) {
	user, ok := c.users.FindByUsername(name)
	if !ok {
		return nil, apperr.New(apperr.NotFound, "User not found")
	}

	profile := &dto.ProfileDTO{
		Username:  user.Username,
		Pfp:       user.Pfp,
		Created:   user.Created,
		Theme:     user.Theme,
		Followers: c.follows.FollowerCount(user.Username),
		Following: c.follows.FollowingCount(user.Username),
		Posts:     c.posts.ByAuthor(user.Username),
	}
	if viewer != nil {
		isFollowing := c.follows.IsFollowing(viewer.Username, user.Username)
		followsYou := c.follows.IsFollowing(user.Username, viewer.Username)
		profile.IsFollowing = &isFollowing
		profile.FollowsYou = &followsYou
	}
	return profile, nil
}

// FollowingFeed filters the full post sequence to the viewer's
// followees, keeping insertion order, then returns the newest limit
// posts newest-first.
func (c *Composer) FollowingFeed(viewer *models.User, limit int) []models.Post {
	if limit < 0 {
		limit = 0
	}
	if limit > repositories.MaxFeedLimit {
		limit = repositories.MaxFeedLimit
	}

	following := map[string]bool{}
	for _, target := range c.follows.FollowingOf(viewer.Username) {
		following[target] = true
	}

	filtered := []models.Post{}
	for _, post := range c.posts.All() {
		if following[strings.ToLower(post.User)] {
			filtered = append(filtered, post)
		}
	}

	start := len(filtered) - limit
	if start < 0 {
		start = 0
	}
	out := make([]models.Post, 0, len(filtered)-start)
	for i := len(filtered) - 1; i >= start; i-- {
		out = append(out, filtered[i])
	}
	return out
}
