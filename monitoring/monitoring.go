package monitoring

import (
	"fmt"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	RequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Duration of HTTP requests.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route", "status"},
	)

	AuthFailure = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "auth_failure_total",
		Help: "Total rejected authentication attempts",
	}, []string{"reason"})

	PostsCreated = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "posts_created_total",
		Help: "Total posts successfully created",
	})

	PostsDeleted = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "posts_deleted_total",
		Help: "Total posts deleted",
	})

	PostsRated = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "posts_rated_total",
		Help: "Total like/unlike operations applied",
	})

	RepliesPosted = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "replies_posted_total",
		Help: "Total replies successfully posted",
	})

	FollowsRecorded = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "follows_total",
		Help: "Total follow edges created",
	})

	UnfollowsRecorded = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "unfollows_total",
		Help: "Total follow edges removed",
	})

	CredentialReloads = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "credential_reloads_total",
		Help: "Total successful reloads of the users file",
	})

	CredentialReloadFailure = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "credential_reload_failure_total",
		Help: "Total failed reloads of the users file",
	})

	PersistFailure = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "persist_failure_total",
		Help: "Total failed flat-file rewrites",
	}, []string{"file"})
)

func init() {
	prometheus.MustRegister(RequestDuration)
	prometheus.MustRegister(AuthFailure)
	prometheus.MustRegister(PostsCreated)
	prometheus.MustRegister(PostsDeleted)
	prometheus.MustRegister(PostsRated)
	prometheus.MustRegister(RepliesPosted)
	prometheus.MustRegister(FollowsRecorded)
	prometheus.MustRegister(UnfollowsRecorded)
	prometheus.MustRegister(CredentialReloads)
	prometheus.MustRegister(CredentialReloadFailure)
	prometheus.MustRegister(PersistFailure)
}

// Middleware to track request timing and status code
type statusRecordingWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *statusRecordingWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

func InstrumentHandler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		rw := &statusRecordingWriter{ResponseWriter: w, statusCode: 200}
		next.ServeHTTP(rw, r)

		duration := time.Since(start).Seconds()
		route := r.URL.Path
		method := r.Method
		status := fmt.Sprintf("%d", rw.statusCode)

		RequestDuration.WithLabelValues(method, route, status).Observe(duration)
	})
}
