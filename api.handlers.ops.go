package main

import (
	"expvar"
	"fmt"
	"net/http"
	"net/http/pprof"
	"runtime"
	"strings"
	"sync/atomic"
	"time"

	"github.com/julienschmidt/httprouter"
	"go.uber.org/zap"
)

var (
	goroutines = expvar.NewInt("goroutines")
	shelfBooks = expvar.NewInt("books")
)

// profiles lists the runtime profiles served under /ops/debug/pprof/.
// The mutex and block ones show contention on the repository and render locks.
var profiles = map[string]bool{"heap": true, "goroutine": true, "mutex": true, "block": true}

func (m *Maintenance) enable(msg string, at time.Time) {
	m.mu.Lock()
	m.message, m.started = msg, at
	m.mu.Unlock()
	m.enabled.Store(true)
}

func (m *Maintenance) disable() {
	m.enabled.Store(false)
	m.mu.Lock()
	m.message, m.started = "", time.Time{}
	m.mu.Unlock()
}

// state returns the reason and start time formatted for clients. The start
// is empty when the mode was never enabled.
func (m *Maintenance) state() (reason, since string) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if !m.started.IsZero() {
		since = m.started.Format(time.RFC1123)
	}
	return m.message, since
}

// Maintenance switches the maintenance mode on or off.
// Enable: /ops/maintenance?status=enable&msg=message-to-be-displayed-to-users
// Disable: /ops/maintenance?status=disable
func (api *APIHandler) Maintenance(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	requestID := GetValueFromContext(r.Context(), ContextRequestID)
	q := r.URL.Query()
	status := q.Get("status")

	var err error
	switch status {
	case "enable":
		api.mode.enable(q.Get("msg"), api.clock.Now().UTC())
		reason, since := api.mode.state()
		err = WriteResponse(r.Context(), w, GenericResponse(requestID, http.StatusOK, "Maintenance mode enabled successfully.", nil,
			map[string]string{"reason": reason, "since": since}))
	case "disable":
		api.mode.disable()
		err = WriteResponse(r.Context(), w, GenericResponse(requestID, http.StatusOK, "Maintenance mode disabled successfully.", nil, EmptyData))
	default:
		err = WriteErrorResponse(r.Context(), w, NewAPIError(requestID, http.StatusBadRequest, "unknown maintenance status. use enable or disable.", status))
	}
	if err != nil {
		api.logger.Error("failed to send maintenance response",
			zap.String("request.id", requestID),
			zap.String("request.maintenance", status),
			zap.Error(err),
		)
	}
}

// maintenanceNotice answers a shelf request while the maintenance mode is on.
func (api *APIHandler) maintenanceNotice(w http.ResponseWriter, r *http.Request) {
	requestID := GetValueFromContext(r.Context(), ContextRequestID)
	reason, since := api.mode.state()
	errResp := NewAPIError(requestID, http.StatusServiceUnavailable, "service currently unavailable.",
		map[string]string{"reason": reason, "since": since})
	if err := WriteErrorResponse(r.Context(), w, errResp); err != nil {
		api.logger.Error("failed to send maintenance notice", zap.String("request.id", requestID), zap.Error(err))
	}
}

// GetDebugVars serves the expvar variables with the current number of
// goroutines and of books on the shelf.
func (api *APIHandler) GetDebugVars(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	goroutines.Set(int64(runtime.NumGoroutine()))
	shelfBooks.Set(int64(len(api.shelf.GetAll(r.Context()))))
	expvar.Handler().ServeHTTP(w, r)
}

// GetProfile serves the pprof index, a cpu profile or one of the runtime
// profiles the service exposes. Any other name is an unknown route.
func (api *APIHandler) GetProfile(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	name := strings.TrimPrefix(ps.ByName("profile"), "/")
	switch {
	case name == "":
		pprof.Index(w, r)
	case name == "profile":
		pprof.Profile(w, r)
	case profiles[name]:
		pprof.Handler(name).ServeHTTP(w, r)
	default:
		api.NotFound().ServeHTTP(w, r)
	}
}

// GetStatistics provides details about the running service to the ops users.
// The ops request being served is not counted in the called field so that
// it matches the status stats.
func (api *APIHandler) GetStatistics(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	requestID := GetValueFromContext(r.Context(), ContextRequestID)
	reason, since := api.mode.state()

	called := atomic.LoadUint64(&api.stats.called)
	if called > 0 {
		called--
	}

	api.stats.mu.RLock()
	status := make(map[int]uint64, len(api.stats.status))
	for code, n := range api.stats.status {
		status[code] = n
	}
	api.stats.mu.RUnlock()

	stats := map[string]interface{}{
		"app.version":   api.stats.version,
		"app.container": api.stats.container,
		"app.platform":  api.stats.platform,
		"go.version":    api.stats.runtime,
		"called":        called,
		"started":       api.stats.started.Format(time.RFC1123),
		"uptime":        fmt.Sprintf("%.0f mins", api.clock.Now().Sub(api.stats.started).Minutes()),
		"books":         len(api.shelf.GetAll(r.Context())),
		"maintenance": map[string]interface{}{
			"enabled": api.mode.enabled.Load(),
			"since":   since,
			"reason":  reason,
		},
		"status": status,
	}
	if err := WriteResponse(r.Context(), w, GenericResponse(requestID, http.StatusOK, "statistics", nil, stats)); err != nil {
		api.logger.Error("failed to send statistics response", zap.String("request.id", requestID), zap.Error(err))
	}
}

// GetConfigs serves the configuration in use. The redis password is masked.
func (api *APIHandler) GetConfigs(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	requestID := GetValueFromContext(r.Context(), ContextRequestID)
	configs := *api.config
	if configs.Redis.Password != "" {
		configs.Redis.Password = "*****"
	}
	if err := WriteResponse(r.Context(), w, GenericResponse(requestID, http.StatusOK, "configs", nil, configs)); err != nil {
		api.logger.Error("failed to send configs response", zap.String("request.id", requestID), zap.Error(err))
	}
}
