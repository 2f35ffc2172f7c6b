package models

// FollowerList is the per-target record of the followers file: who
// follows the target. Keys of the surrounding map are lower-cased
// usernames.
type FollowerList struct {
	Followers []string `json:"followers"`
}
