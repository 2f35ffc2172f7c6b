package feeds

import (
	"path/filepath"
	"strings"
	"testing"

	"claw/apperr"
	"claw/models"
	"claw/repositories"
	"claw/storage"
)

type fixture struct {
	composer *Composer
	posts    repositories.PostRepository
	follows  repositories.FollowRepository
	users    repositories.UserRepository
}

func newFixture(t *testing.T, usernames ...string) *fixture {
	t.Helper()
	dir := t.TempDir()

	records := make([]models.User, len(usernames))
	for i, name := range usernames {
		records[i] = models.User{Username: name, Key: "key-" + name, Pfp: "https://cdn.example/" + name + ".png"}
	}
	usersPath := filepath.Join(dir, "users.json")
	if err := storage.Save(usersPath, records); err != nil {
		t.Fatal(err)
	}
	users, err := repositories.NewUserRepository(usersPath)
	if err != nil {
		t.Fatal(err)
	}
	posts, err := repositories.NewPostRepository(filepath.Join(dir, "posts.json"))
	if err != nil {
		t.Fatal(err)
	}
	follows, err := repositories.NewFollowRepository(filepath.Join(dir, "clawusers.json"), users)
	if err != nil {
		t.Fatal(err)
	}
	return &fixture{
		composer: NewComposer(posts, follows, users),
		posts:    posts,
		follows:  follows,
		users:    users,
	}
}

func (f *fixture) user(t *testing.T, name string) *models.User {
	t.Helper()
	u, ok := f.users.FindByUsername(name)
	if !ok {
		t.Fatalf("no such fixture user %q", name)
	}
	return u
}

func TestGlobalFeedIncludesNewPostFirst(t *testing.T) {
	f := newFixture(t, "Alice")
	f.posts.Create(f.user(t, "Alice"), "old", "", "")
	created, err := f.posts.Create(f.user(t, "Alice"), "new", "", "")
	if err != nil {
		t.Fatal(err)
	}

	feed := f.composer.GlobalFeed(1, 0)
	if len(feed) != 1 || feed[0].ID != created.ID {
		t.Fatalf("newest entry = %v, want %q", feed, created.Content)
	}
}

func TestProfile(t *testing.T) {
	f := newFixture(t, "Alice", "Bob", "Carol")
	f.posts.Create(f.user(t, "Alice"), "one", "", "")
	f.posts.Create(f.user(t, "Bob"), "noise", "", "")
	f.posts.Create(f.user(t, "Alice"), "two", "", "")
	f.follows.Follow("Bob", "Alice")
	f.follows.Follow("Carol", "Alice")
	f.follows.Follow("Alice", "Bob")

	profile, err := f.composer.Profile("ALICE", nil)
	if err != nil {
		t.Fatalf("profile: %v", err)
	}
	if profile.Username != "Alice" {
		t.Errorf("display username = %q", profile.Username)
	}
	if profile.Followers != 2 || profile.Following != 1 {
		t.Errorf("counts = %d/%d, want 2/1", profile.Followers, profile.Following)
	}
	if len(profile.Posts) != 2 || profile.Posts[0].Content != "two" {
		t.Errorf("posts not newest-first: %+v", profile.Posts)
	}
	if profile.IsFollowing != nil || profile.FollowsYou != nil {
		t.Error("viewer relationship must be absent without a viewer")
	}

	_, err = f.composer.Profile("Nobody", nil)
	if !apperr.Is(err, apperr.NotFound) {
		t.Fatalf("unknown profile err = %v, want NotFound", err)
	}
}

func TestProfileViewerRelationship(t *testing.T) {
	f := newFixture(t, "Alice", "Bob")
	f.follows.Follow("Bob", "Alice")

	profile, err := f.composer.Profile("Alice", f.user(t, "Bob"))
	if err != nil {
		t.Fatal(err)
	}
	if profile.IsFollowing == nil || !*profile.IsFollowing {
		t.Error("viewer follows target, is_following should be true")
	}
	if profile.FollowsYou == nil || *profile.FollowsYou {
		t.Error("target does not follow viewer, follows_you should be false")
	}
}

func TestFollowingFeedIsFilteredGlobalFeed(t *testing.T) {
	f := newFixture(t, "Alice", "Bob", "Carol")
	f.posts.Create(f.user(t, "Alice"), "a1", "", "")
	f.posts.Create(f.user(t, "Bob"), "b1", "", "")
	f.posts.Create(f.user(t, "Carol"), "c1", "", "")
	f.posts.Create(f.user(t, "Alice"), "a2", "", "")
	f.follows.Follow("Carol", "Alice")
	f.follows.Follow("Carol", "Bob")

	carol := f.user(t, "Carol")
	feed := f.composer.FollowingFeed(carol, 100)

	// Exactly the global feed filtered to followees, order preserved.
	following := map[string]bool{}
	for _, name := range f.follows.FollowingOf(carol.Username) {
		following[name] = true
	}
	want := []string{}
	for _, post := range f.composer.GlobalFeed(100, 0) {
		if following[strings.ToLower(post.User)] {
			want = append(want, post.Content)
		}
	}
	if len(feed) != len(want) {
		t.Fatalf("feed size = %d, want %d", len(feed), len(want))
	}
	for i := range want {
		if feed[i].Content != want[i] {
			t.Fatalf("feed[%d] = %q, want %q", i, feed[i].Content, want[i])
		}
	}

	// Limit takes the newest entries.
	limited := f.composer.FollowingFeed(carol, 1)
	if len(limited) != 1 || limited[0].Content != "a2" {
		t.Fatalf("limited feed = %v, want [a2]", limited)
	}
}

func TestFollowingFeedEmptyWithoutFollowees(t *testing.T) {
	f := newFixture(t, "Alice", "Bob")
	f.posts.Create(f.user(t, "Alice"), "a1", "", "")

	if feed := f.composer.FollowingFeed(f.user(t, "Bob"), 100); len(feed) != 0 {
		t.Fatalf("feed = %v, want empty", feed)
	}
}
