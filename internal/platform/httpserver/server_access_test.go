package httpserver

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	accessgate "dealerportal/contexts/identity-access/access-gate"
	"dealerportal/contexts/identity-access/access-gate/domain/entities"
	domainerrors "dealerportal/contexts/identity-access/access-gate/domain/errors"
	httptransport "dealerportal/contexts/identity-access/access-gate/transport/http"
	"dealerportal/contexts/identity-access/access-gate/ports"
	"dealerportal/internal/platform/preferences"
	"dealerportal/pkg/identity"
)

type accessFixture struct {
	server   *Server
	provider *identity.DevProvider
	module   accessgate.Module
}

func newAccessFixture(t *testing.T) accessFixture {
	t.Helper()

	provider := identity.NewDevProvider("test-secret")
	module := accessgate.NewInMemoryModule(nil)
	server := New(module, provider, preferences.NewMemoryStore(), nil, ":0")

	return accessFixture{server: server, provider: provider, module: module}
}

func (f accessFixture) signedInRequest(t *testing.T, method, target string, body []byte, email string) *http.Request {
	t.Helper()

	var req *http.Request
	if body != nil {
		req = httptest.NewRequest(method, target, bytes.NewReader(body))
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	token, err := f.provider.SessionToken(email)
	if err != nil {
		t.Fatalf("session token for %s: %v", email, err)
	}
	req.Header.Set("Authorization", "Bearer "+token)
	return req
}

func (f accessFixture) addUser(t *testing.T, email, first, last string) string {
	t.Helper()
	subjectID, err := f.provider.AddUser(email, "pass1234", first, last, true)
	if err != nil {
		t.Fatalf("add user %s: %v", email, err)
	}
	return subjectID
}

func decodeBody[T any](t *testing.T, rr *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	if err := json.NewDecoder(rr.Body).Decode(&out); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	return out
}

func TestAdminCheckStatusGranted(t *testing.T) {
	f := newAccessFixture(t)
	f.addUser(t, "ops@example.com", "Mira", "Osei")
	f.module.Store.SeedRecord(entities.AuthorizationRecord{
		Email: "ops@example.com",
		Role:  entities.RoleAdmin,
	})

	rr := httptest.NewRecorder()
	req := f.signedInRequest(t, http.MethodGet, "/api/admin/check-status", nil, "ops@example.com")
	f.server.Handler().ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("got status %d, want 200; body %s", rr.Code, rr.Body.String())
	}
	resp := decodeBody[httptransport.AdminStatusResponse](t, rr)
	if !resp.IsAdmin {
		t.Error("isAdmin = false, want true")
	}
	if resp.User == nil || resp.User.Email != "ops@example.com" {
		t.Errorf("user = %+v, want ops@example.com profile", resp.User)
	}
	if resp.Error != "" {
		t.Errorf("error = %q, want empty on success", resp.Error)
	}
}

func TestAdminCheckStatusWithoutSession(t *testing.T) {
	f := newAccessFixture(t)

	rr := httptest.NewRecorder()
	f.server.Handler().ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/admin/check-status", nil))

	if rr.Code != http.StatusUnauthorized {
		t.Fatalf("got status %d, want 401", rr.Code)
	}
	resp := decodeBody[httptransport.AdminStatusResponse](t, rr)
	if resp.IsAdmin {
		t.Error("isAdmin = true on auth failure")
	}
	if resp.Error != "session_required" {
		t.Errorf("error = %q, want session_required", resp.Error)
	}
	if resp.Debug == "" {
		t.Error("debug string missing on failure")
	}
}

func TestAdminCheckStatusUnknownRecord(t *testing.T) {
	f := newAccessFixture(t)
	f.addUser(t, "ghost@example.com", "Gia", "Hale")

	rr := httptest.NewRecorder()
	req := f.signedInRequest(t, http.MethodGet, "/api/admin/check-status", nil, "ghost@example.com")
	f.server.Handler().ServeHTTP(rr, req)

	if rr.Code != http.StatusNotFound {
		t.Fatalf("got status %d, want 404; body %s", rr.Code, rr.Body.String())
	}
	resp := decodeBody[httptransport.AdminStatusResponse](t, rr)
	if resp.Error != "record_not_found" {
		t.Errorf("error = %q, want record_not_found", resp.Error)
	}
}

func TestAdminCheckStatusNonAdminIsTwoHundred(t *testing.T) {
	// A resolvable record that simply isn't admin is a successful decision,
	// not an error.
	f := newAccessFixture(t)
	f.addUser(t, "dealer@example.com", "Dana", "Reyes")
	f.module.Store.SeedRecord(entities.AuthorizationRecord{
		Email:        "dealer@example.com",
		Role:         entities.RoleDealer,
		DealerStatus: entities.DealerStatusApproved,
	})

	rr := httptest.NewRecorder()
	req := f.signedInRequest(t, http.MethodGet, "/api/admin/check-status", nil, "dealer@example.com")
	f.server.Handler().ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("got status %d, want 200", rr.Code)
	}
	resp := decodeBody[httptransport.AdminStatusResponse](t, rr)
	if resp.IsAdmin {
		t.Error("isAdmin = true for dealer record")
	}
}

func TestDealerCheckStatusApproved(t *testing.T) {
	f := newAccessFixture(t)
	subjectID := f.addUser(t, "dealer@example.com", "Dana", "Reyes")
	f.module.Store.SeedRecord(entities.AuthorizationRecord{
		Email:        "dealer@example.com",
		Role:         entities.RoleDealer,
		DealerStatus: entities.DealerStatusApproved,
		FullName:     "Dana Reyes",
	})

	body, _ := json.Marshal(httptransport.DealerStatusRequest{
		Email:       "dealer@example.com",
		ClerkUserID: subjectID,
	})
	rr := httptest.NewRecorder()
	req := f.signedInRequest(t, http.MethodPost, "/api/dealer/check-status", body, "dealer@example.com")
	f.server.Handler().ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("got status %d, want 200; body %s", rr.Code, rr.Body.String())
	}
	resp := decodeBody[httptransport.DealerStatusResponse](t, rr)
	if !resp.IsApprovedDealer {
		t.Error("isApprovedDealer = false, want true")
	}
	if resp.User == nil || resp.User.Name != "Dana Reyes" {
		t.Errorf("user = %+v, want Dana Reyes profile", resp.User)
	}
}

func TestDealerCheckStatusSubjectMismatch(t *testing.T) {
	f := newAccessFixture(t)
	f.addUser(t, "dealer@example.com", "Dana", "Reyes")
	f.module.Store.SeedRecord(entities.AuthorizationRecord{
		Email:        "dealer@example.com",
		Role:         entities.RoleDealer,
		DealerStatus: entities.DealerStatusApproved,
	})

	body, _ := json.Marshal(httptransport.DealerStatusRequest{
		Email:       "dealer@example.com",
		ClerkUserID: "user_someone_else",
	})
	rr := httptest.NewRecorder()
	req := f.signedInRequest(t, http.MethodPost, "/api/dealer/check-status", body, "dealer@example.com")
	f.server.Handler().ServeHTTP(rr, req)

	if rr.Code != http.StatusForbidden {
		t.Fatalf("got status %d, want 403", rr.Code)
	}
	resp := decodeBody[httptransport.ErrorResponse](t, rr)
	if resp.Code != "identity_mismatch" {
		t.Errorf("code = %q, want identity_mismatch", resp.Code)
	}
}

func TestDealerCheckStatusMalformedBody(t *testing.T) {
	f := newAccessFixture(t)
	f.addUser(t, "dealer@example.com", "Dana", "Reyes")

	rr := httptest.NewRecorder()
	req := f.signedInRequest(t, http.MethodPost, "/api/dealer/check-status", []byte("{not json"), "dealer@example.com")
	f.server.Handler().ServeHTTP(rr, req)

	if rr.Code != http.StatusBadRequest {
		t.Fatalf("got status %d, want 400", rr.Code)
	}
}

func TestCreateDealerApplicationRequiresAdmin(t *testing.T) {
	f := newAccessFixture(t)
	f.addUser(t, "customer@example.com", "Cleo", "Park")
	f.module.Store.SeedRecord(entities.AuthorizationRecord{
		Email: "customer@example.com",
		Role:  entities.RoleCustomer,
	})

	body, _ := json.Marshal(httptransport.CreateDealerApplicationRequest{
		Email:    "new-dealer@example.com",
		FullName: "New Dealer",
	})
	rr := httptest.NewRecorder()
	req := f.signedInRequest(t, http.MethodPost, "/api/admin/dealers", body, "customer@example.com")
	f.server.Handler().ServeHTTP(rr, req)

	if rr.Code != http.StatusForbidden {
		t.Fatalf("got status %d, want 403", rr.Code)
	}
	resp := decodeBody[httptransport.ErrorResponse](t, rr)
	if resp.Code != "admin_required" {
		t.Errorf("code = %q, want admin_required", resp.Code)
	}
}

func TestDealerRecordAdministrationFlow(t *testing.T) {
	f := newAccessFixture(t)
	f.addUser(t, "ops@example.com", "Mira", "Osei")
	f.module.Store.SeedRecord(entities.AuthorizationRecord{
		Email: "ops@example.com",
		Role:  entities.RoleAdmin,
	})

	// Create a pending application.
	body, _ := json.Marshal(httptransport.CreateDealerApplicationRequest{
		Email:        "new-dealer@example.com",
		FullName:     "New Dealer",
		BusinessName: "Summit Imports",
	})
	rr := httptest.NewRecorder()
	req := f.signedInRequest(t, http.MethodPost, "/api/admin/dealers", body, "ops@example.com")
	f.server.Handler().ServeHTTP(rr, req)
	if rr.Code != http.StatusCreated {
		t.Fatalf("create: got status %d, want 201; body %s", rr.Code, rr.Body.String())
	}
	created := decodeBody[httptransport.RecordResponse](t, rr)
	if created.DealerStatus != string(entities.DealerStatusPending) {
		t.Errorf("new record status = %q, want pending", created.DealerStatus)
	}

	// Re-creating the same record conflicts.
	rr = httptest.NewRecorder()
	req = f.signedInRequest(t, http.MethodPost, "/api/admin/dealers", body, "ops@example.com")
	f.server.Handler().ServeHTTP(rr, req)
	if rr.Code != http.StatusConflict {
		t.Fatalf("duplicate create: got status %d, want 409", rr.Code)
	}

	// Approve it.
	statusBody, _ := json.Marshal(httptransport.SetDealerStatusRequest{Status: "approved"})
	rr = httptest.NewRecorder()
	req = f.signedInRequest(t, http.MethodPost, "/api/admin/dealers/new-dealer@example.com/status", statusBody, "ops@example.com")
	f.server.Handler().ServeHTTP(rr, req)
	if rr.Code != http.StatusOK {
		t.Fatalf("approve: got status %d, want 200; body %s", rr.Code, rr.Body.String())
	}
	updated := decodeBody[httptransport.RecordResponse](t, rr)
	if updated.DealerStatus != string(entities.DealerStatusApproved) {
		t.Errorf("updated status = %q, want approved", updated.DealerStatus)
	}

	// Unknown record and unknown status both fail with distinct codes.
	rr = httptest.NewRecorder()
	req = f.signedInRequest(t, http.MethodPost, "/api/admin/dealers/missing@example.com/status", statusBody, "ops@example.com")
	f.server.Handler().ServeHTTP(rr, req)
	if rr.Code != http.StatusNotFound {
		t.Errorf("missing record: got status %d, want 404", rr.Code)
	}

	badStatus, _ := json.Marshal(httptransport.SetDealerStatusRequest{Status: "revoked"})
	rr = httptest.NewRecorder()
	req = f.signedInRequest(t, http.MethodPost, "/api/admin/dealers/new-dealer@example.com/status", badStatus, "ops@example.com")
	f.server.Handler().ServeHTTP(rr, req)
	if rr.Code != http.StatusUnprocessableEntity {
		t.Errorf("bad status: got status %d, want 422", rr.Code)
	}
}

func TestPreferencesRoundTrip(t *testing.T) {
	f := newAccessFixture(t)
	f.addUser(t, "dealer@example.com", "Dana", "Reyes")

	// Unauthenticated access is refused.
	rr := httptest.NewRecorder()
	f.server.Handler().ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/preferences", nil))
	if rr.Code != http.StatusUnauthorized {
		t.Fatalf("anonymous get: got status %d, want 401", rr.Code)
	}

	// Fresh sessions see defaults.
	rr = httptest.NewRecorder()
	req := f.signedInRequest(t, http.MethodGet, "/api/preferences", nil, "dealer@example.com")
	f.server.Handler().ServeHTTP(rr, req)
	if rr.Code != http.StatusOK {
		t.Fatalf("get: got status %d, want 200", rr.Code)
	}
	prefs := decodeBody[preferences.Preferences](t, rr)
	if prefs.Theme != preferences.DefaultTheme {
		t.Errorf("theme = %q, want default %q", prefs.Theme, preferences.DefaultTheme)
	}

	// Saved values come back on the next read.
	body, _ := json.Marshal(preferences.Preferences{Theme: "dark", Language: "de"})
	rr = httptest.NewRecorder()
	req = f.signedInRequest(t, http.MethodPut, "/api/preferences", body, "dealer@example.com")
	f.server.Handler().ServeHTTP(rr, req)
	if rr.Code != http.StatusOK {
		t.Fatalf("put: got status %d, want 200", rr.Code)
	}

	rr = httptest.NewRecorder()
	req = f.signedInRequest(t, http.MethodGet, "/api/preferences", nil, "dealer@example.com")
	f.server.Handler().ServeHTTP(rr, req)
	prefs = decodeBody[preferences.Preferences](t, rr)
	if prefs.Theme != "dark" || prefs.Language != "de" {
		t.Errorf("prefs = %+v, want dark/de", prefs)
	}
}

// failingRecordStore simulates a backing store outage.
type failingRecordStore struct{}

func (failingRecordStore) GetRecordByEmail(context.Context, string) (entities.AuthorizationRecord, error) {
	return entities.AuthorizationRecord{}, domainerrors.ErrStoreUnavailable
}

func (failingRecordStore) CreateRecord(context.Context, ports.CreateRecordInput) (entities.AuthorizationRecord, error) {
	return entities.AuthorizationRecord{}, domainerrors.ErrStoreUnavailable
}

func (failingRecordStore) SetDealerStatus(context.Context, ports.DealerStatusUpdate) (entities.AuthorizationRecord, error) {
	return entities.AuthorizationRecord{}, domainerrors.ErrStoreUnavailable
}

type serverFixedClock struct{}

func (serverFixedClock) Now() time.Time {
	return time.Date(2025, time.March, 1, 9, 0, 0, 0, time.UTC)
}

type serverStaticIDs struct{}

func (serverStaticIDs) NewID(context.Context) (string, error) { return "rec_static", nil }

func TestAdminCheckStatusStoreOutage(t *testing.T) {
	provider := identity.NewDevProvider("test-secret")
	if _, err := provider.AddUser("ops@example.com", "pass1234", "Mira", "Osei", true); err != nil {
		t.Fatalf("add user: %v", err)
	}
	module := accessgate.NewModule(accessgate.Dependencies{
		Records:     failingRecordStore{},
		Clock:       serverFixedClock{},
		IDGenerator: serverStaticIDs{},
	})
	server := New(module, provider, nil, nil, ":0")

	token, err := provider.SessionToken("ops@example.com")
	if err != nil {
		t.Fatalf("session token: %v", err)
	}
	req := httptest.NewRequest(http.MethodGet, "/api/admin/check-status", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rr := httptest.NewRecorder()
	server.Handler().ServeHTTP(rr, req)

	if rr.Code != http.StatusInternalServerError {
		t.Fatalf("got status %d, want 500", rr.Code)
	}
	resp := decodeBody[httptransport.AdminStatusResponse](t, rr)
	if resp.Error != "store_unavailable" {
		t.Errorf("error = %q, want store_unavailable", resp.Error)
	}
	if resp.Debug != "internal server error" {
		t.Errorf("debug = %q, want redacted internal message", resp.Debug)
	}
}
