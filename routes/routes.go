package routes

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"claw/handlers"
	"claw/monitoring"
)

// SetupRoutes initializes all the application routes.
// The routing logic is isolated here.
func SetupRoutes(h *handlers.Handler) http.Handler {
	router := mux.NewRouter()

	// Post routes
	router.HandleFunc("/post", h.CreatePost).Methods("GET")
	router.HandleFunc("/delete", h.DeletePost).Methods("GET")
	router.HandleFunc("/rate", h.RatePost).Methods("GET")
	router.HandleFunc("/reply", h.ReplyPost).Methods("GET")

	// Feed routes
	router.HandleFunc("/feed", h.Feed).Methods("GET")
	router.HandleFunc("/following_feed", h.FollowingFeed).Methods("GET")
	router.HandleFunc("/profile", h.Profile).Methods("GET")

	// Social graph routes
	router.HandleFunc("/follow", h.Follow).Methods("GET")
	router.HandleFunc("/unfollow", h.Unfollow).Methods("GET")
	router.HandleFunc("/followers", h.Followers).Methods("GET")
	router.HandleFunc("/following", h.Following).Methods("GET")

	// System routes
	router.HandleFunc("/healthz", h.Health).Methods("GET")
	router.Handle("/metrics", promhttp.Handler()).Methods("GET")

	return monitoring.InstrumentHandler(corsMiddleware(router))
}

// corsMiddleware adds the CORS headers every response carries and
// answers preflight requests before they reach the router.
func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, DELETE, PUT, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}
