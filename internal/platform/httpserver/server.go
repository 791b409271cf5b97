package httpserver

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	accessgate "dealerportal/contexts/identity-access/access-gate"
	"dealerportal/contexts/identity-access/access-gate/domain/entities"
	accesserrors "dealerportal/contexts/identity-access/access-gate/domain/errors"
	accesshttp "dealerportal/contexts/identity-access/access-gate/transport/http"
	_ "dealerportal/internal/platform/httpserver/docs"
	"dealerportal/internal/platform/preferences"
	"dealerportal/pkg/identity"

	httpSwagger "github.com/swaggo/http-swagger"
)

type Server struct {
	mux        *http.ServeMux
	handler    http.Handler
	httpServer *http.Server
	logger     *slog.Logger
	addr       string
	access     accessgate.Module
	verifier   identity.Verifier
	prefs      preferences.Store
}

func New(
	access accessgate.Module,
	verifier identity.Verifier,
	prefs preferences.Store,
	logger *slog.Logger,
	addr string,
) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	if addr == "" {
		addr = ":8080"
	}

	s := &Server{
		mux:      http.NewServeMux(),
		logger:   logger,
		addr:     addr,
		access:   access,
		verifier: verifier,
		prefs:    prefs,
	}
	s.registerRoutes()

	guard := NewRouteGuard(verifier, logger)
	s.handler = guard.Wrap(s.withPreferences(s.mux))
	return s
}

// Handler exposes the guarded handler chain, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.handler
}

func (s *Server) Start() error {
	s.logger.Info("http server starting",
		"event", "http_server_starting",
		"module", "internal/platform/httpserver",
		"layer", "platform",
		"addr", s.addr,
	)
	s.httpServer = &http.Server{Addr: s.addr, Handler: s.handler}
	if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *Server) Shutdown(ctx context.Context) error {
	if s.httpServer == nil {
		return nil
	}
	return s.httpServer.Shutdown(ctx)
}

func (s *Server) registerRoutes() {
	s.mux.Handle("/swagger/", httpSwagger.Handler(
		httpSwagger.URL("/swagger/doc.json"),
	))

	s.mux.HandleFunc("GET /api/health", s.handleHealth)

	s.mux.HandleFunc("GET /api/admin/check-status", s.handleAdminCheckStatus)
	s.mux.HandleFunc("POST /api/dealer/check-status", s.handleDealerCheckStatus)

	s.mux.HandleFunc("POST /api/admin/dealers", s.handleCreateDealerApplication)
	s.mux.HandleFunc("POST /api/admin/dealers/{email}/status", s.handleSetDealerStatus)

	if s.prefs != nil {
		s.mux.HandleFunc("GET /api/preferences", s.handleGetPreferences)
		s.mux.HandleFunc("PUT /api/preferences", s.handlePutPreferences)
	}
}

// withPreferences scopes the preference store onto the request context so the
// preference handlers stay free of server fields.
func (s *Server) withPreferences(next http.Handler) http.Handler {
	if s.prefs == nil {
		return next
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		next.ServeHTTP(w, r.WithContext(preferences.WithStore(r.Context(), s.prefs)))
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleAdminCheckStatus(w http.ResponseWriter, r *http.Request) {
	resp, err := s.access.Handler.AdminStatusHandler(r.Context(), s.session(r))
	if err != nil {
		writeAdminStatusError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleDealerCheckStatus(w http.ResponseWriter, r *http.Request) {
	var req accesshttp.DealerStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeAccessError(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON")
		return
	}

	resp, err := s.access.Handler.DealerStatusHandler(r.Context(), s.session(r), req)
	if err != nil {
		writeAccessDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleCreateDealerApplication(w http.ResponseWriter, r *http.Request) {
	var req accesshttp.CreateDealerApplicationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeAccessError(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON")
		return
	}

	resp, err := s.access.Handler.CreateDealerApplicationHandler(r.Context(), s.session(r), req)
	if err != nil {
		writeAccessDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, resp)
}

func (s *Server) handleSetDealerStatus(w http.ResponseWriter, r *http.Request) {
	var req accesshttp.SetDealerStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeAccessError(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON")
		return
	}

	resp, err := s.access.Handler.SetDealerStatusHandler(r.Context(), s.session(r), r.PathValue("email"), req)
	if err != nil {
		writeAccessDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleGetPreferences(w http.ResponseWriter, r *http.Request) {
	store, session, ok := s.preferenceScope(w, r)
	if !ok {
		return
	}
	prefs, err := store.Load(r.Context(), session.SubjectID)
	if err != nil {
		writeAccessError(w, http.StatusInternalServerError, "preferences_unavailable", "preference store failure")
		return
	}
	writeJSON(w, http.StatusOK, prefs)
}

func (s *Server) handlePutPreferences(w http.ResponseWriter, r *http.Request) {
	store, session, ok := s.preferenceScope(w, r)
	if !ok {
		return
	}

	var prefs preferences.Preferences
	if err := json.NewDecoder(r.Body).Decode(&prefs); err != nil {
		writeAccessError(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON")
		return
	}
	if err := store.Save(r.Context(), session.SubjectID, prefs); err != nil {
		writeAccessError(w, http.StatusInternalServerError, "preferences_unavailable", "preference store failure")
		return
	}
	writeJSON(w, http.StatusOK, prefs.Normalize())
}

func (s *Server) preferenceScope(w http.ResponseWriter, r *http.Request) (preferences.Store, entities.IdentitySession, bool) {
	store, ok := preferences.FromContext(r.Context())
	if !ok {
		writeAccessError(w, http.StatusInternalServerError, "preferences_unavailable", "preference store not configured")
		return nil, entities.IdentitySession{}, false
	}
	session := s.session(r)
	if !session.Active {
		writeAccessError(w, http.StatusUnauthorized, "session_required", "identity session required")
		return nil, entities.IdentitySession{}, false
	}
	return store, session, true
}

// session resolves the provider session, mapping verifier failures to an
// inactive session so the application layer owns the 401 decision.
func (s *Server) session(r *http.Request) entities.IdentitySession {
	if s.verifier == nil {
		return entities.IdentitySession{}
	}
	session, err := s.verifier.SessionFromRequest(r.Context(), r)
	if err != nil {
		return entities.IdentitySession{}
	}
	return entities.IdentitySession{
		SubjectID: session.SubjectID,
		Email:     session.Email,
		FirstName: session.FirstName,
		LastName:  session.LastName,
		Active:    session.Active,
	}
}

// writeAdminStatusError keeps the admin endpoint's response shape: the
// decision document itself carries the error code plus a debug string. The
// debug string is for operators and must not be rendered to end users.
func writeAdminStatusError(w http.ResponseWriter, err error) {
	status, code := accessErrorStatus(err)
	debug := err.Error()
	if status == http.StatusInternalServerError {
		debug = "internal server error"
	}
	writeJSON(w, status, accesshttp.AdminStatusResponse{
		IsAdmin: false,
		Error:   code,
		Debug:   debug,
	})
}

func writeAccessDomainError(w http.ResponseWriter, err error) {
	status, code := accessErrorStatus(err)
	message := err.Error()
	if status == http.StatusInternalServerError {
		message = "internal server error"
	}
	writeAccessError(w, status, code, message)
}

func accessErrorStatus(err error) (int, string) {
	switch {
	case errors.Is(err, accesserrors.ErrSessionRequired):
		return http.StatusUnauthorized, "session_required"
	case errors.Is(err, accesserrors.ErrEmailMissing):
		return http.StatusBadRequest, "email_missing"
	case errors.Is(err, accesserrors.ErrIdentityMismatch):
		return http.StatusForbidden, "identity_mismatch"
	case errors.Is(err, accesserrors.ErrAdminRequired):
		return http.StatusForbidden, "admin_required"
	case errors.Is(err, accesserrors.ErrRecordNotFound):
		return http.StatusNotFound, "record_not_found"
	case errors.Is(err, accesserrors.ErrDuplicateRecord):
		return http.StatusConflict, "duplicate_record"
	case errors.Is(err, accesserrors.ErrInvalidApplication):
		return http.StatusBadRequest, "invalid_application"
	case errors.Is(err, accesserrors.ErrInvalidStatus):
		return http.StatusUnprocessableEntity, "invalid_status"
	case errors.Is(err, accesserrors.ErrStoreUnavailable):
		return http.StatusInternalServerError, "store_unavailable"
	default:
		return http.StatusInternalServerError, "internal_error"
	}
}

func writeAccessError(w http.ResponseWriter, status int, code string, message string) {
	writeJSON(w, status, accesshttp.ErrorResponse{
		Code:    code,
		Message: message,
	})
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
