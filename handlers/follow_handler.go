package handlers

import (
	"fmt"
	"net/http"

	"claw/apperr"
)

func (h *Handler) Follow(w http.ResponseWriter, r *http.Request) {
	user, err := h.authenticate(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	target := r.URL.Query().Get("username")
	if target == "" {
		writeError(w, r, apperr.New(apperr.InvalidInput, "Target username is required"))
		return
	}
	if err := h.follows.Follow(user.Username, target); err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{
		"message": fmt.Sprintf("You are now following %s", target),
	})
}

func (h *Handler) Unfollow(w http.ResponseWriter, r *http.Request) {
	user, err := h.authenticate(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	target := r.URL.Query().Get("username")
	if target == "" {
		writeError(w, r, apperr.New(apperr.InvalidInput, "Target username is required"))
		return
	}
	if err := h.follows.Unfollow(user.Username, target); err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{
		"message": fmt.Sprintf("You have unfollowed %s", target),
	})
}

func (h *Handler) Followers(w http.ResponseWriter, r *http.Request) {
	username := r.URL.Query().Get("username")
	if username == "" {
		writeError(w, r, apperr.New(apperr.InvalidInput, "Username is required"))
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"followers": h.follows.FollowersOf(username),
	})
}

func (h *Handler) Following(w http.ResponseWriter, r *http.Request) {
	username := r.URL.Query().Get("username")
	if username == "" {
		writeError(w, r, apperr.New(apperr.InvalidInput, "Username is required"))
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"following": h.follows.FollowingOf(username),
	})
}
