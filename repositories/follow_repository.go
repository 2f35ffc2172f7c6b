package repositories

import (
	"sort"
	"strings"
	"sync"

	"github.com/sirupsen/logrus"

	"claw/apperr"
	"claw/models"
	"claw/monitoring"
	"claw/storage"
)

type followRepository struct {
	mu    sync.RWMutex
	lists map[string]*models.FollowerList
	path  string
	users UserRepository
}

// NewFollowRepository loads the followers file. Keys and follower names
// are normalized to lower case on the way in, merging any case-variant
// entries older files may carry.
func NewFollowRepository(path string, users UserRepository) (FollowRepository, error) {
	raw := map[string]*models.FollowerList{}
	if _, err := storage.Load(path, &raw); err != nil {
		return nil, err
	}

	lists := make(map[string]*models.FollowerList, len(raw))
	for target, list := range raw {
		key := strings.ToLower(target)
		merged, ok := lists[key]
		if !ok {
			merged = &models.FollowerList{Followers: []string{}}
			lists[key] = merged
		}
		if list == nil {
			continue
		}
		for _, follower := range list.Followers {
			f := strings.ToLower(follower)
			if !contains(merged.Followers, f) {
				merged.Followers = append(merged.Followers, f)
			}
		}
	}

	return &followRepository{lists: lists, path: path, users: users}, nil
}

func (r *followRepository) persist() error {
	if err := storage.Save(r.path, r.lists); err != nil {
		monitoring.PersistFailure.WithLabelValues("followers").Inc()
		logrus.WithError(err).WithField("file", r.path).Error("failed to persist followers")
		return err
	}
	return nil
}

func (r *followRepository) Follow(follower, target string) error {
	if _, ok := r.users.FindByUsername(target); !ok {
		return apperr.New(apperr.NotFound, "User not found")
	}
	f := strings.ToLower(follower)
	key := strings.ToLower(target)

	r.mu.Lock()
	defer r.mu.Unlock()
	list, existed := r.lists[key]
	if !existed {
		list = &models.FollowerList{Followers: []string{}}
		r.lists[key] = list
	}
	if contains(list.Followers, f) {
		return apperr.New(apperr.Conflict, "You are already following %s", target)
	}
	list.Followers = append(list.Followers, f)
	if err := r.persist(); err != nil {
		list.Followers = list.Followers[:len(list.Followers)-1]
		if !existed {
			delete(r.lists, key)
		}
		return err
	}
	monitoring.FollowsRecorded.Inc()
	return nil
}

func (r *followRepository) Unfollow(follower, target string) error {
	f := strings.ToLower(follower)
	key := strings.ToLower(target)

	r.mu.Lock()
	defer r.mu.Unlock()
	list, ok := r.lists[key]
	if !ok || !contains(list.Followers, f) {
		return apperr.New(apperr.Conflict, "You are not following %s", target)
	}
	prev := append([]string{}, list.Followers...)
	list.Followers = remove(list.Followers, f)
	if err := r.persist(); err != nil {
		list.Followers = prev
		return err
	}
	monitoring.UnfollowsRecorded.Inc()
	return nil
}

func (r *followRepository) FollowersOf(target string) []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	list, ok := r.lists[strings.ToLower(target)]
	if !ok {
		return []string{}
	}
	return append([]string{}, list.Followers...)
}

// FollowingOf scans every follower set for membership. Linear in the
// number of targets, which is fine at this scale; a reverse index would
// have to keep these exact results.
func (r *followRepository) FollowingOf(follower string) []string {
	f := strings.ToLower(follower)

	r.mu.RLock()
	defer r.mu.RUnlock()
	out := []string{}
	for target, list := range r.lists {
		if contains(list.Followers, f) {
			out = append(out, target)
		}
	}
	sort.Strings(out)
	return out
}

func (r *followRepository) FollowerCount(target string) int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	list, ok := r.lists[strings.ToLower(target)]
	if !ok {
		return 0
	}
	return len(list.Followers)
}

func (r *followRepository) FollowingCount(follower string) int {
	return len(r.FollowingOf(follower))
}

func (r *followRepository) IsFollowing(follower, target string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	list, ok := r.lists[strings.ToLower(target)]
	return ok && contains(list.Followers, strings.ToLower(follower))
}
