package main

import (
	"context"
	"net/http"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"claw/feeds"
	"claw/handlers"
	"claw/imagecheck"
	"claw/logger"
	"claw/repositories"
	"claw/routes"
)

type config struct {
	addr          string
	usersFile     string
	postsFile     string
	followersFile string
	reloadPoll    time.Duration
	reloadSettle  time.Duration
	imageTimeout  time.Duration
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getduration(key string, def time.Duration) time.Duration {
	raw := os.Getenv(key)
	if raw == "" {
		return def
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		logrus.Warnf("invalid %s %q, using %s", key, raw, def)
		return def
	}
	return d
}

func loadConfig() config {
	// A missing .env file is fine; the environment wins either way.
	godotenv.Load()

	return config{
		addr:          getenv("CLAW_ADDR", ":5602"),
		usersFile:     getenv("CLAW_USERS_FILE", "files/users.json"),
		postsFile:     getenv("CLAW_POSTS_FILE", "files/posts.json"),
		followersFile: getenv("CLAW_FOLLOWERS_FILE", "files/clawusers.json"),
		reloadPoll:    getduration("CLAW_RELOAD_POLL", time.Second),
		reloadSettle:  getduration("CLAW_RELOAD_SETTLE", 10*time.Second),
		imageTimeout:  getduration("CLAW_IMAGECHECK_TIMEOUT", 5*time.Second),
	}
}

func main() {
	cfg := loadConfig()
	logger.InitLogger()

	users, err := repositories.NewUserRepository(cfg.usersFile)
	if err != nil {
		logrus.WithError(err).Fatal("failed to load users file")
	}
	posts, err := repositories.NewPostRepository(cfg.postsFile)
	if err != nil {
		logrus.WithError(err).Fatal("failed to load posts file")
	}
	follows, err := repositories.NewFollowRepository(cfg.followersFile, users)
	if err != nil {
		logrus.WithError(err).Fatal("failed to load followers file")
	}

	composer := feeds.NewComposer(posts, follows, users)
	checker := imagecheck.New(cfg.imageTimeout)
	handler := handlers.NewHandler(users, posts, follows, composer, checker)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go users.Watch(ctx, cfg.reloadPoll, cfg.reloadSettle)

	router := routes.SetupRoutes(handler)
	logrus.WithField("addr", cfg.addr).Info("claw api listening")
	if err := http.ListenAndServe(cfg.addr, router); err != nil {
		logrus.WithError(err).Fatal("server stopped")
	}
}
