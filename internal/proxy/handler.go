package proxy

import (
	"encoding/base64"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/sehadigital/roomstatus/internal/infrastructure/observability"
)

// errorEnvelope is the normalized failure shape the proxy returns when it
// cannot relay an upstream response.
type errorEnvelope struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

const connectFailure = "Failed to connect to SharePoint"

// authHeaders returns the headers attached to every forwarded request.
// These never come from, and are never exposed to, the browser.
func (s *Server) authHeaders() http.Header {
	auth := base64.StdEncoding.EncodeToString(
		[]byte(s.sharepoint.Username + ":" + s.sharepoint.Password),
	)

	headers := http.Header{}
	headers.Set("Accept", "application/json;odata=verbose")
	headers.Set("Content-Type", "application/json;odata=verbose")
	headers.Set("Authorization", "Basic "+auth)
	return headers
}

// handleForward relays any method and sub-path under the forward prefix
// onto the SharePoint site, attaching credentials on the way out.
func (s *Server) handleForward(w http.ResponseWriter, r *http.Request) {
	rest := strings.TrimPrefix(r.URL.Path, ForwardPrefix)
	target := s.sharepoint.SiteURL + rest
	if r.URL.RawQuery != "" {
		target += "?" + r.URL.RawQuery
	}

	log.Debug().Str("method", r.Method).Str("target", target).Msg("proxying request to SharePoint")

	var body io.Reader
	if r.Method != http.MethodGet && r.Method != http.MethodHead {
		body = r.Body
	}

	req, err := http.NewRequestWithContext(r.Context(), r.Method, target, body)
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, connectFailure, err.Error())
		return
	}
	req.Header = s.authHeaders()

	start := time.Now()
	resp, err := s.httpClient.Do(req)
	if err != nil {
		log.Error().Err(err).Str("target", target).Msg("proxy error")
		s.writeError(w, http.StatusInternalServerError, connectFailure, err.Error())
		return
	}
	defer resp.Body.Close()
	observability.RecordForwardMetric(r.Context(), s.metrics, r.Method, resp.StatusCode, time.Since(start))

	payload, err := io.ReadAll(resp.Body)
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, connectFailure, err.Error())
		return
	}

	// Mutations against the list store answer 204 with no body; relay the
	// status as-is rather than failing the JSON check.
	if len(payload) == 0 {
		w.WriteHeader(resp.StatusCode)
		return
	}

	if !json.Valid(payload) {
		log.Error().Int("status", resp.StatusCode).Str("target", target).
			Msg("SharePoint returned a non-JSON response")
		s.writeError(w, http.StatusInternalServerError, connectFailure,
			"SharePoint returned a non-JSON response")
		return
	}

	// Relay the upstream status and body verbatim, success or not.
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(resp.StatusCode)
	w.Write(payload)
}

// handleHealth answers without touching SharePoint so callers can tell a
// dead proxy apart from a dead remote store.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status":  "OK",
		"message": "Proxy server is running",
	})
}

// handleTestConnection performs one authenticated GET against the site
// metadata endpoint, localizing failures to credentials or store
// availability rather than the proxy itself.
func (s *Server) handleTestConnection(w http.ResponseWriter, r *http.Request) {
	target := s.sharepoint.SiteURL + "/_api/web/title"

	req, err := http.NewRequestWithContext(r.Context(), http.MethodGet, target, nil)
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, connectFailure, err.Error())
		return
	}
	req.Header = s.authHeaders()

	resp, err := s.httpClient.Do(req)
	if err != nil {
		log.Error().Err(err).Msg("connection test error")
		s.writeError(w, http.StatusInternalServerError, connectFailure, err.Error())
		return
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		log.Error().Int("status", resp.StatusCode).Msg("connection test error")
		s.writeError(w, http.StatusInternalServerError, connectFailure,
			"SharePoint responded with status: "+resp.Status)
		return
	}

	var data json.RawMessage
	if err := json.NewDecoder(resp.Body).Decode(&data); err != nil {
		s.writeError(w, http.StatusInternalServerError, connectFailure, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"status":  "OK",
		"message": "Successfully connected to SharePoint",
		"data":    data,
	})
}

// handleRoot lists the proxy's endpoints.
func (s *Server) handleRoot(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"message": "SharePoint proxy server is running",
		"endpoints": map[string]string{
			"health":         "/api/health",
			"testConnection": "/api/test-connection",
			"sharepoint":     ForwardPrefix + "/*",
		},
	})
}

func (s *Server) writeError(w http.ResponseWriter, status int, errMsg, detail string) {
	writeJSON(w, status, errorEnvelope{Error: errMsg, Message: detail})
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	data, err := json.Marshal(payload)
	if err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	w.Write(data)
}
