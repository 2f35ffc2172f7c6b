package repositories

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"sync/atomic"
	"time"

	"github.com/sirupsen/logrus"

	"claw/models"
	"claw/monitoring"
	"claw/storage"
)

// userTable is an immutable snapshot of the users file. Lookups go
// through an atomic pointer so a reload is a single reference swap and
// readers never see a half-built table.
type userTable struct {
	byKey  map[string]*models.User
	byName map[string]*models.User
}

func buildTable(users []models.User) *userTable {
	t := &userTable{
		byKey:  make(map[string]*models.User, len(users)),
		byName: make(map[string]*models.User, len(users)),
	}
	for i := range users {
		u := &users[i]
		t.byKey[u.Key] = u
		t.byName[strings.ToLower(u.Username)] = u
	}
	return t
}

type userRepository struct {
	path  string
	table atomic.Pointer[userTable]
}

// NewUserRepository loads the users file once. A missing file yields an
// empty table; a malformed file at startup is an error.
func NewUserRepository(path string) (UserRepository, error) {
	r := &userRepository{path: path}
	var users []models.User
	if _, err := storage.Load(path, &users); err != nil {
		return nil, err
	}
	r.table.Store(buildTable(users))
	return r, nil
}

func (r *userRepository) ResolveKey(key string) (*models.User, bool) {
	if key == "" {
		return nil, false
	}
	u, ok := r.table.Load().byKey[key]
	return u, ok
}

func (r *userRepository) FindByUsername(username string) (*models.User, bool) {
	u, ok := r.table.Load().byName[strings.ToLower(username)]
	return u, ok
}

// Reload replaces the whole table from the backing file. Unlike startup,
// a missing file here is a failure too: the previous table stays
// authoritative rather than dropping every credential.
func (r *userRepository) Reload() error {
	data, err := os.ReadFile(r.path)
	if err != nil {
		return fmt.Errorf("reading %s: %w", r.path, err)
	}
	var users []models.User
	if err := json.Unmarshal(data, &users); err != nil {
		return fmt.Errorf("parsing %s: %w", r.path, err)
	}
	r.table.Store(buildTable(users))
	return nil
}

// Watch polls the users file's modification time and reloads the table
// after a settle delay whenever it changes. The delay keeps the reload
// from racing a provisioner that is still writing the file. A failed
// reload is logged and the previous table kept.
func (r *userRepository) Watch(ctx context.Context, poll, settle time.Duration) {
	last, _ := storage.ModTime(r.path)
	ticker := time.NewTicker(poll)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}

		current, err := storage.ModTime(r.path)
		if err != nil || !current.After(last) {
			continue
		}
		logrus.WithField("file", r.path).Info("users file changed, reloading after settle delay")

		select {
		case <-ctx.Done():
			return
		case <-time.After(settle):
		}

		// Stat before loading: a write that lands mid-reload then
		// carries a newer mtime than last and triggers another cycle
		// instead of being silently absorbed.
		if pre, err := storage.ModTime(r.path); err == nil {
			last = pre
		}
		if err := r.Reload(); err != nil {
			monitoring.CredentialReloadFailure.Inc()
			logrus.WithError(err).Warn("users reload failed, keeping previous table")
		} else {
			monitoring.CredentialReloads.Inc()
		}
	}
}
