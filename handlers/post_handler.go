package handlers

import (
	"net/http"

	"claw/apperr"
	"claw/repositories"
)

// CreatePost validates the content and the optional attachment, then
// appends the post. The remote image check runs after the cheap local
// checks so a bad URL never costs a round trip.
func (h *Handler) CreatePost(w http.ResponseWriter, r *http.Request) {
	user, err := h.authenticate(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	q := r.URL.Query()
	content := q.Get("content")
	attachment := q.Get("attachment")
	origin := q.Get("origin")

	if err := repositories.ValidatePost(content, origin); err != nil {
		writeError(w, r, err)
		return
	}
	if attachment != "" {
		if err := repositories.ValidateAttachment(attachment); err != nil {
			writeError(w, r, err)
			return
		}
		if !h.verifier.IsValidImage(r.Context(), attachment) {
			writeError(w, r, apperr.New(apperr.InvalidInput, "Attachment must be a valid image URL, not a data URI"))
			return
		}
	}

	post, err := h.posts.Create(user, content, attachment, origin)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, post)
}

func (h *Handler) DeletePost(w http.ResponseWriter, r *http.Request) {
	if _, err := h.authenticate(r); err != nil {
		writeError(w, r, err)
		return
	}

	id := r.URL.Query().Get("id")
	if id == "" {
		writeError(w, r, apperr.New(apperr.InvalidInput, "Post ID is required"))
		return
	}
	if err := h.posts.Delete(id); err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "Post deleted successfully"})
}

// RatePost likes (rating=1) or unlikes (rating=0) a post. Both
// directions are idempotent.
func (h *Handler) RatePost(w http.ResponseWriter, r *http.Request) {
	user, err := h.authenticate(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	q := r.URL.Query()
	id := q.Get("id")
	if id == "" {
		writeError(w, r, apperr.New(apperr.InvalidInput, "Post ID is required"))
		return
	}
	rating := q.Get("rating")
	if rating != "0" && rating != "1" {
		writeError(w, r, apperr.New(apperr.InvalidInput, "Rating must be 1 (like) or 0 (unlike)"))
		return
	}

	likes, err := h.posts.Rate(id, user.Username, rating == "1")
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"message": "Post rated successfully",
		"likes":   likes,
	})
}

func (h *Handler) ReplyPost(w http.ResponseWriter, r *http.Request) {
	user, err := h.authenticate(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	q := r.URL.Query()
	id := q.Get("id")
	if id == "" {
		writeError(w, r, apperr.New(apperr.InvalidInput, "Post ID is required"))
		return
	}

	post, err := h.posts.Reply(id, user, q.Get("content"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, post)
}
