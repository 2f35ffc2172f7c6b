package handlers

import (
	"net/http"
	"strconv"

	"claw/apperr"
	"claw/models"
	"claw/repositories"
)

// queryInt parses a non-negative integer query parameter, falling back
// to def when absent or malformed.
func queryInt(r *http.Request, name string, def int) int {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return def
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		return def
	}
	return n
}

// Feed serves the global feed, newest-first.
func (h *Handler) Feed(w http.ResponseWriter, r *http.Request) {
	limit := queryInt(r, "limit", repositories.MaxFeedLimit)
	offset := queryInt(r, "offset", 0)
	writeJSON(w, http.StatusOK, h.composer.GlobalFeed(limit, offset))
}

// FollowingFeed serves the global feed restricted to the caller's
// followees.
func (h *Handler) FollowingFeed(w http.ResponseWriter, r *http.Request) {
	user, err := h.authenticate(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	limit := queryInt(r, "limit", repositories.MaxFeedLimit)
	writeJSON(w, http.StatusOK, h.composer.FollowingFeed(user, limit))
}

// Profile serves a user's profile. The auth key is optional here; when
// present it must still be valid, and the response then carries the
// viewer relationship.
func (h *Handler) Profile(w http.ResponseWriter, r *http.Request) {
	name := r.URL.Query().Get("name")
	if name == "" {
		writeError(w, r, apperr.New(apperr.InvalidInput, "Name is required"))
		return
	}

	var viewer *models.User
	if authKey(r) != "" {
		user, err := h.authenticate(r)
		if err != nil {
			writeError(w, r, err)
			return
		}
		viewer = user
	}

	profile, err := h.composer.Profile(name, viewer)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, profile)
}
