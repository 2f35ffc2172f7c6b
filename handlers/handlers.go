package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/sirupsen/logrus"

	"claw/apperr"
	"claw/feeds"
	"claw/models"
	"claw/monitoring"
	"claw/repositories"
)

// Verifier is the remote attachment check: whether the URL serves an
// accepted image type.
type Verifier interface {
	IsValidImage(ctx context.Context, url string) bool
}

type Handler struct {
	users    repositories.UserRepository
	posts    repositories.PostRepository
	follows  repositories.FollowRepository
	composer *feeds.Composer
	verifier Verifier
}

func NewHandler(users repositories.UserRepository, posts repositories.PostRepository, follows repositories.FollowRepository, composer *feeds.Composer, verifier Verifier) *Handler {
	return &Handler{
		users:    users,
		posts:    posts,
		follows:  follows,
		composer: composer,
		verifier: verifier,
	}
}

// authKey pulls the bearer key from the "auth" query parameter or the
// Authorization header.
func authKey(r *http.Request) string {
	if key := r.URL.Query().Get("auth"); key != "" {
		return key
	}
	return strings.TrimPrefix(r.Header.Get("Authorization"), "Bearer ")
}

// authenticate resolves the caller's credential or fails the request.
func (h *Handler) authenticate(r *http.Request) (*models.User, error) {
	key := authKey(r)
	if key == "" {
		monitoring.AuthFailure.WithLabelValues("missing key").Inc()
		return nil, apperr.New(apperr.Unauthenticated, "auth key is required")
	}
	user, ok := h.users.ResolveKey(key)
	if !ok {
		monitoring.AuthFailure.WithLabelValues("unknown key").Inc()
		return nil, apperr.New(apperr.Unauthenticated, "Invalid authentication key")
	}
	return user, nil
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// writeError maps an error kind to its HTTP status, logs the failure
// and emits the JSON error body the original clients expect.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := http.StatusInternalServerError
	msg := "Internal server error"

	if kind, ok := apperr.KindOf(err); ok {
		msg = err.Error()
		switch kind {
		case apperr.Unauthenticated:
			status = http.StatusForbidden
		case apperr.NotFound:
			status = http.StatusNotFound
		case apperr.InvalidInput, apperr.Conflict, apperr.UpstreamUnavailable:
			status = http.StatusBadRequest
		}
	}

	if status >= http.StatusInternalServerError {
		logrus.WithError(err).WithField("path", r.URL.Path).Error("request failed")
	} else {
		logrus.WithFields(logrus.Fields{
			"path":   r.URL.Path,
			"status": status,
		}).Warn(msg)
	}
	writeJSON(w, status, map[string]string{"error": msg})
}

// Health reports liveness.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
