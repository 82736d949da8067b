package proxy

import (
	"net/http"

	"github.com/sehadigital/roomstatus/internal/api/middleware"
	"github.com/sehadigital/roomstatus/internal/infrastructure/observability"
	"github.com/sehadigital/roomstatus/pkg/config"
)

// ForwardPrefix is the local path prefix under which every SharePoint
// sub-path is reachable. The prefix is stripped before forwarding;
// nothing else in the path is rewritten.
const ForwardPrefix = "/api/sharepoint"

// Server is the credential-holding forwarding proxy. It is the only
// component that ever sees the SharePoint username and password; the
// browser and the dashboard API only know the proxy's own base URL.
type Server struct {
	cfg        config.ProxyConfig
	sharepoint config.SharePointConfig
	httpClient *http.Client
	metrics    *observability.Metrics
}

// NewServer creates a forwarding proxy from explicit configuration.
// metrics may be nil when observability is disabled.
func NewServer(cfg config.ProxyConfig, sp config.SharePointConfig, metrics *observability.Metrics) *Server {
	return &Server{
		cfg:        cfg,
		sharepoint: sp,
		httpClient: &http.Client{},
		metrics:    metrics,
	}
}

// Routes configures the proxy's HTTP surface.
func (s *Server) Routes() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /api/health", s.handleHealth)
	mux.HandleFunc("GET /api/test-connection", s.handleTestConnection)
	mux.HandleFunc(ForwardPrefix+"/", s.handleForward)
	mux.HandleFunc("GET /{$}", s.handleRoot)

	var handler http.Handler = mux
	handler = middleware.LoggingMiddleware(handler)
	handler = middleware.CORSMiddleware(s.cfg.AllowedOrigins)(handler)

	return handler
}
