package models

// Origin tags a client may stamp on a post.
const (
	OriginClaw  = "claw"
	OriginRotur = "rotur"
	OriginWeb   = "web"
)

// ValidOrigin reports whether origin is one of the accepted tags.
func ValidOrigin(origin string) bool {
	switch origin {
	case OriginClaw, OriginRotur, OriginWeb:
		return true
	}
	return false
}

// Reply belongs to exactly one post and has no lifecycle of its own.
type Reply struct {
	ID        string `json:"id"`
	User      string `json:"user"`
	Content   string `json:"content"`
	Timestamp int64  `json:"timestamp"`
}

// Post is one entry of the posts file. Likes and Replies are always
// present, possibly empty; Normalize repairs legacy records that omitted
// them. Timestamp is milliseconds since epoch; feed order is decided by
// position in the file, not by the timestamp.
type Post struct {
	ID         string   `json:"id"`
	User       string   `json:"user"`
	Pfp        string   `json:"pfp"`
	Content    string   `json:"content"`
	Attachment *string  `json:"attachment"`
	Origin     string   `json:"origin,omitempty"`
	Timestamp  int64    `json:"timestamp"`
	Likes      []string `json:"likes"`
	Replies    []Reply  `json:"replies"`
}

// Normalize fills in the like and reply lists on records loaded from
// files written before those fields were always emitted.
func (p *Post) Normalize() {
	if p.Likes == nil {
		p.Likes = []string{}
	}
	if p.Replies == nil {
		p.Replies = []Reply{}
	}
}

// Clone returns a copy that shares no slices with p, so callers can hand
// it out while the store keeps mutating the original.
func (p *Post) Clone() Post {
	out := *p
	out.Likes = append([]string{}, p.Likes...)
	out.Replies = append([]Reply{}, p.Replies...)
	return out
}
