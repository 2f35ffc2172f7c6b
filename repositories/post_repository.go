package repositories

import (
	"crypto/rand"
	"encoding/hex"
	"strings"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/sirupsen/logrus"

	"claw/apperr"
	"claw/models"
	"claw/monitoring"
	"claw/storage"
)

const (
	// MaxContentLength bounds post and reply content, in characters.
	MaxContentLength = 100
	// MaxAttachmentLength bounds attachment URLs, in characters.
	MaxAttachmentLength = 500
	// MaxFeedLimit caps how many posts a single window may return.
	MaxFeedLimit = 100
)

type postRepository struct {
	mu    sync.RWMutex
	posts []models.Post
	path  string
}

// NewPostRepository loads the posts file (an absent file means an empty
// store) and returns the store backed by it.
func NewPostRepository(path string) (PostRepository, error) {
	r := &postRepository{path: path, posts: []models.Post{}}
	if _, err := storage.Load(path, &r.posts); err != nil {
		return nil, err
	}
	for i := range r.posts {
		r.posts[i].Normalize()
	}
	return r, nil
}

// newToken returns a 128-bit random identifier as 32 hex characters.
// The space is large enough that a collision is a logic fault, not a
// condition to handle.
func newToken() string {
	b := make([]byte, 16)
	if _, err := rand.Read(b); err != nil {
		panic(err)
	}
	return hex.EncodeToString(b)
}

// validateContent checks post and reply text against the shared limits.
func validateContent(content string) error {
	if content == "" {
		return apperr.New(apperr.InvalidInput, "Content is required")
	}
	if utf8.RuneCountInString(content) > MaxContentLength {
		return apperr.New(apperr.InvalidInput, "Content exceeds %d character limit", MaxContentLength)
	}
	return nil
}

// ValidatePost checks content and origin. Shared with the HTTP layer so
// every local check runs before the remote attachment check does.
func ValidatePost(content, origin string) error {
	if err := validateContent(content); err != nil {
		return err
	}
	if origin != "" && !models.ValidOrigin(origin) {
		return apperr.New(apperr.InvalidInput, "Origin must be one of: claw, rotur, web")
	}
	return nil
}

// ValidateAttachment checks an attachment URL against length and scheme
// limits. Whether the URL actually serves an image is a separate remote
// check owned by the caller.
func ValidateAttachment(url string) error {
	if utf8.RuneCountInString(url) > MaxAttachmentLength {
		return apperr.New(apperr.InvalidInput, "Attachment URL exceeds %d character limit", MaxAttachmentLength)
	}
	if !strings.HasPrefix(url, "https://") {
		return apperr.New(apperr.InvalidInput, "Attachment must be a valid image URL, not a data URI")
	}
	return nil
}

func (r *postRepository) persist() error {
	if err := storage.Save(r.path, r.posts); err != nil {
		monitoring.PersistFailure.WithLabelValues("posts").Inc()
		logrus.WithError(err).WithField("file", r.path).Error("failed to persist posts")
		return err
	}
	return nil
}

func (r *postRepository) Create(author *models.User, content, attachment, origin string) (models.Post, error) {
	if err := ValidatePost(content, origin); err != nil {
		return models.Post{}, err
	}
	var att *string
	if attachment != "" {
		if err := ValidateAttachment(attachment); err != nil {
			return models.Post{}, err
		}
		att = &attachment
	}

	post := models.Post{
		ID:         newToken(),
		User:       author.Username,
		Pfp:        author.Pfp,
		Content:    content,
		Attachment: att,
		Origin:     origin,
		Likes:      []string{},
		Replies:    []models.Reply{},
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	// Stamped under the lock so timestamps agree with insertion order.
	post.Timestamp = time.Now().UnixMilli()
	r.posts = append(r.posts, post)
	if err := r.persist(); err != nil {
		r.posts = r.posts[:len(r.posts)-1]
		return models.Post{}, err
	}
	monitoring.PostsCreated.Inc()
	return post.Clone(), nil
}

func (r *postRepository) Delete(id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	idx := r.indexOf(id)
	if idx < 0 {
		return apperr.New(apperr.NotFound, "Post not found")
	}
	removed := r.posts[idx]
	r.posts = append(r.posts[:idx:idx], r.posts[idx+1:]...)
	if err := r.persist(); err != nil {
		rest := append([]models.Post{removed}, r.posts[idx:]...)
		r.posts = append(r.posts[:idx], rest...)
		return err
	}
	monitoring.PostsDeleted.Inc()
	return nil
}

func (r *postRepository) Rate(id, username string, like bool) ([]string, error) {
	username = strings.ToLower(username)

	r.mu.Lock()
	defer r.mu.Unlock()
	idx := r.indexOf(id)
	if idx < 0 {
		return nil, apperr.New(apperr.NotFound, "Post not found")
	}
	p := &r.posts[idx]

	prev := append([]string{}, p.Likes...)
	has := contains(p.Likes, username)
	switch {
	case like && !has:
		p.Likes = append(p.Likes, username)
	case !like && has:
		p.Likes = remove(p.Likes, username)
	}
	if err := r.persist(); err != nil {
		p.Likes = prev
		return nil, err
	}
	monitoring.PostsRated.Inc()
	return append([]string{}, p.Likes...), nil
}

func (r *postRepository) Reply(id string, author *models.User, content string) (models.Post, error) {
	if err := validateContent(content); err != nil {
		return models.Post{}, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	idx := r.indexOf(id)
	if idx < 0 {
		return models.Post{}, apperr.New(apperr.NotFound, "Post not found")
	}
	p := &r.posts[idx]
	p.Replies = append(p.Replies, models.Reply{
		ID:        newToken(),
		User:      author.Username,
		Content:   content,
		Timestamp: time.Now().UnixMilli(),
	})
	if err := r.persist(); err != nil {
		p.Replies = p.Replies[:len(p.Replies)-1]
		return models.Post{}, err
	}
	monitoring.RepliesPosted.Inc()
	return p.Clone(), nil
}

func (r *postRepository) Window(limit, offset int) []models.Post {
	if limit < 0 {
		limit = 0
	}
	if limit > MaxFeedLimit {
		limit = MaxFeedLimit
	}
	if offset < 0 {
		offset = 0
	}

	r.mu.RLock()
	defer r.mu.RUnlock()
	end := len(r.posts) - offset
	if end < 0 {
		end = 0
	}
	start := end - limit
	if start < 0 {
		start = 0
	}
	out := make([]models.Post, 0, end-start)
	for i := end - 1; i >= start; i-- {
		out = append(out, r.posts[i].Clone())
	}
	return out
}

func (r *postRepository) ByAuthor(username string) []models.Post {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := []models.Post{}
	for i := len(r.posts) - 1; i >= 0; i-- {
		if strings.EqualFold(r.posts[i].User, username) {
			out = append(out, r.posts[i].Clone())
		}
	}
	return out
}

func (r *postRepository) All() []models.Post {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]models.Post, 0, len(r.posts))
	for i := range r.posts {
		out = append(out, r.posts[i].Clone())
	}
	return out
}

func (r *postRepository) Size() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.posts)
}

// indexOf must be called with the lock held.
func (r *postRepository) indexOf(id string) int {
	for i := range r.posts {
		if r.posts[i].ID == id {
			return i
		}
	}
	return -1
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

func remove(list []string, s string) []string {
	out := list[:0]
	for _, v := range list {
		if v != s {
			out = append(out, v)
		}
	}
	return out
}
