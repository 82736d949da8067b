package routes

import (
	"net/http"

	"github.com/sehadigital/roomstatus/internal/api/handlers"
	"github.com/sehadigital/roomstatus/internal/api/middleware"
	"github.com/sehadigital/roomstatus/internal/infrastructure/observability"
)

// Router holds all route handlers
type Router struct {
	mux *http.ServeMux

	wardHandler    *handlers.WardHandler
	roomHandler    *handlers.RoomHandler
	historyHandler *handlers.HistoryHandler

	allowedOrigins string
	metrics        *observability.Metrics
}

// NewRouter creates a new router
func NewRouter(
	wardHandler *handlers.WardHandler,
	roomHandler *handlers.RoomHandler,
	historyHandler *handlers.HistoryHandler,
	allowedOrigins string,
	metrics *observability.Metrics,
) *Router {
	return &Router{
		mux:            http.NewServeMux(),
		wardHandler:    wardHandler,
		roomHandler:    roomHandler,
		historyHandler: historyHandler,
		allowedOrigins: allowedOrigins,
		metrics:        metrics,
	}
}

// SetupRoutes configures all application routes
func (r *Router) SetupRoutes() http.Handler {
	// Health check endpoint
	r.mux.HandleFunc("GET /health", func(w http.ResponseWriter, req *http.Request) {
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write([]byte("OK")); err != nil {
			return
		}
	})

	// Ward endpoints
	r.mux.HandleFunc("GET /api/wards", r.wardHandler.ListWards)
	r.mux.HandleFunc("POST /api/wards", r.wardHandler.AddWard)

	// Room endpoints
	r.mux.HandleFunc("GET /api/wards/{id}/rooms", r.roomHandler.GetWardRooms)
	r.mux.HandleFunc("POST /api/wards/{id}/rooms/clear", r.roomHandler.ClearAllRooms)
	r.mux.HandleFunc("PATCH /api/rooms/{id}/status", r.roomHandler.UpdateRoomStatus)
	r.mux.HandleFunc("POST /api/rooms", r.roomHandler.AddRoom)

	// History endpoints
	r.mux.HandleFunc("GET /api/history", r.historyHandler.GetHistory)

	// Apply middleware in reverse order (last middleware wraps first).
	// CORS must be outermost so error responses also get CORS headers.
	var handler http.Handler = r.mux
	handler = middleware.LoggingMiddleware(handler)

	if r.metrics != nil {
		handler = middleware.ObservabilityMiddleware(r.metrics)(handler)
	}

	handler = middleware.CORSMiddleware(r.allowedOrigins)(handler)

	return handler
}
