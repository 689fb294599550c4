package http

import (
	"database/sql"
	"net/http"

	"github.com/gorilla/mux"

	"officetrack-backend/internal/obs"
	"officetrack-backend/internal/repository"
	"officetrack-backend/internal/security"
	"officetrack-backend/internal/service"
)

// Handlers bundles everything the router needs
type Handlers struct {
	TokenManager security.TokenManager
	Users        repository.UserRepository
	DB           *sql.DB

	Auth          service.AuthService
	User          service.UserService
	Office        service.OfficeService
	Attendance    service.AttendanceService
	Distribution  service.DistributionService
	Location      service.LocationService
	Notifications service.NotificationService
}

// NewRouter builds the full API route tree
func NewRouter(h *Handlers) *mux.Router {
	router := mux.NewRouter()
	router.Use(obs.Instrument)

	router.HandleFunc("/healthz", healthz(h.DB)).Methods("GET")
	router.Handle("/metrics", obs.Handler()).Methods("GET")

	api := router.PathPrefix("/api/v1").Subrouter()

	authMW := NewAuthMiddleware(h.TokenManager, h.Users)

	authHandler := NewAuthHandler(h.Auth)
	api.HandleFunc("/auth/register", authHandler.Register).Methods("POST")
	api.HandleFunc("/auth/login", authHandler.Login).Methods("POST")
	api.HandleFunc("/auth/refresh", authHandler.Refresh).Methods("POST")

	userHandler := NewUserHandler(h.User)
	api.HandleFunc("/users/me", authMW.Require(userHandler.Me)).Methods("GET")
	api.HandleFunc("/users", authMW.Require(userHandler.List)).Methods("GET")
	api.HandleFunc("/users/bulk", authMW.Require(userHandler.BulkCreate)).Methods("POST")
	api.HandleFunc("/users/{id}/verify", authMW.Require(userHandler.Verify)).Methods("POST")
	api.HandleFunc("/users/{id}/suspend", authMW.Require(userHandler.Suspend)).Methods("POST")
	api.HandleFunc("/users/{id}", authMW.Require(userHandler.Delete)).Methods("DELETE")

	officeHandler := NewOfficeHandler(h.Office)
	api.HandleFunc("/offices", authMW.Require(officeHandler.List)).Methods("GET")
	api.HandleFunc("/offices", authMW.Require(officeHandler.Create)).Methods("POST")
	api.HandleFunc("/offices/nearby", authMW.Require(officeHandler.Nearby)).Methods("GET")
	api.HandleFunc("/offices/{id}", authMW.Require(officeHandler.Get)).Methods("GET")
	api.HandleFunc("/offices/{id}", authMW.Require(officeHandler.Update)).Methods("PUT")
	api.HandleFunc("/offices/{id}", authMW.Require(officeHandler.Delete)).Methods("DELETE")

	attendanceHandler := NewAttendanceHandler(h.Attendance)
	api.HandleFunc("/attendance", authMW.Require(attendanceHandler.Mark)).Methods("POST")
	api.HandleFunc("/attendance", authMW.Require(attendanceHandler.List)).Methods("GET")
	api.HandleFunc("/attendance/{id}", authMW.Require(attendanceHandler.Delete)).Methods("DELETE")

	distributionHandler := NewDistributionHandler(h.Distribution)
	api.HandleFunc("/distributions", authMW.Require(distributionHandler.List)).Methods("GET")
	api.HandleFunc("/distributions", authMW.Require(distributionHandler.Create)).Methods("POST")
	api.HandleFunc("/distributions/bulk", authMW.Require(distributionHandler.BulkCreate)).Methods("POST")
	api.HandleFunc("/distributions/{id}/receive", authMW.Require(distributionHandler.Receive)).Methods("POST")
	api.HandleFunc("/distributions/{id}/claims", authMW.Require(distributionHandler.MarkClaim)).Methods("POST")
	api.HandleFunc("/distributions/{id}", authMW.Require(distributionHandler.Delete)).Methods("DELETE")
	api.HandleFunc("/received/{id}", authMW.Require(distributionHandler.DeleteReceived)).Methods("DELETE")

	locationHandler := NewLocationHandler(h.Location)
	api.HandleFunc("/locations/share", authMW.Require(locationHandler.Share)).Methods("POST")
	api.HandleFunc("/locations/shares", authMW.Require(locationHandler.ListShares)).Methods("GET")
	api.HandleFunc("/locations/requests", authMW.Require(locationHandler.Request)).Methods("POST")
	api.HandleFunc("/locations/requests", authMW.Require(locationHandler.ListRequests)).Methods("GET")
	api.HandleFunc("/locations/requests/{id}/deny", authMW.Require(locationHandler.Deny)).Methods("POST")

	notificationHandler := NewNotificationHandler(h.Notifications)
	api.HandleFunc("/notifications", authMW.Require(notificationHandler.List)).Methods("GET")
	api.HandleFunc("/notifications/{id}/read", authMW.Require(notificationHandler.MarkAsRead)).Methods("POST")
	api.HandleFunc("/notifications/device-token", authMW.Require(notificationHandler.RegisterDeviceToken)).Methods("POST")

	return router
}

// healthz reports liveness and database reachability
func healthz(db *sql.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if db != nil {
			if err := db.PingContext(r.Context()); err != nil {
				writeJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "degraded", "database": "unreachable"})
				return
			}
		}
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}
}
