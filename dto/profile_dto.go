package dto

import "claw/models"

// ProfileDTO is the profile response: user display data, follow counts,
// the viewer relationship when a viewer is authenticated, and the
// user's posts newest-first.
type ProfileDTO struct {
	Username    string        `json:"username"`
	Pfp         string        `json:"pfp"`
	Created     int64         `json:"created"`
	Theme       string        `json:"theme"`
	Followers   int           `json:"followers"`
	Following   int           `json:"following"`
	IsFollowing *bool         `json:"is_following,omitempty"`
	FollowsYou  *bool         `json:"follows_you,omitempty"`
	Posts       []models.Post `json:"posts"`
}
