package authclient_test

import (
	"context"
	"net/http/httptest"
	"testing"

	accessgate "dealerportal/contexts/identity-access/access-gate"
	"dealerportal/contexts/identity-access/access-gate/domain/entities"
	"dealerportal/internal/platform/httpserver"
	"dealerportal/pkg/authclient"
	"dealerportal/pkg/identity"
)

// These tests run the hook against the real HTTP stack: guard, handlers, and
// the dev identity provider, with only the record store in memory.

func startPortal(t *testing.T) (*httptest.Server, *identity.DevProvider, accessgate.Module) {
	t.Helper()

	provider := identity.NewDevProvider("e2e-secret")
	module := accessgate.NewInMemoryModule(nil)
	server := httpserver.New(module, provider, nil, nil, ":0")

	ts := httptest.NewServer(server.Handler())
	t.Cleanup(ts.Close)
	return ts, provider, module
}

func TestHookGrantsAgainstLiveServer(t *testing.T) {
	ts, provider, module := startPortal(t)

	if _, err := provider.AddUser("mira@example.com", "pass1234", "Mira", "Osei", true); err != nil {
		t.Fatalf("add user: %v", err)
	}
	// Record carries no full name; the profile name must fall back to the
	// session's first and last name.
	module.Store.SeedRecord(entities.AuthorizationRecord{
		Email: "mira@example.com",
		Role:  entities.RoleAdmin,
	})

	token, err := provider.SessionToken("mira@example.com")
	if err != nil {
		t.Fatalf("session token: %v", err)
	}
	client := authclient.NewClient(ts.URL, token)

	hook := authclient.NewHook(func(ctx context.Context) (authclient.StatusResult, error) {
		return client.AdminStatus(ctx)
	}, authclient.HookOptions{})

	hook.Start(context.Background())
	hook.Wait()

	snapshot := hook.Snapshot()
	if snapshot.State != authclient.StateGranted {
		t.Fatalf("state = %q, want granted (message %q)", snapshot.State, snapshot.Message)
	}
	if snapshot.Profile == nil || snapshot.Profile.Name != "Mira Osei" {
		t.Errorf("profile = %+v, want name fallback Mira Osei", snapshot.Profile)
	}
	if !snapshot.Terminal {
		t.Error("terminal = false after settled grant")
	}
}

func TestHookExhaustsRetriesWithoutSession(t *testing.T) {
	ts, _, _ := startPortal(t)

	client := authclient.NewClient(ts.URL, "")
	hook := authclient.NewHook(func(ctx context.Context) (authclient.StatusResult, error) {
		return client.AdminStatus(ctx)
	}, authclient.HookOptions{BaseDelay: 1})

	hook.Start(context.Background())
	hook.Wait()

	snapshot := hook.Snapshot()
	if snapshot.State != authclient.StateError {
		t.Fatalf("state = %q, want error after exhausted retries", snapshot.State)
	}
	if snapshot.Attempt != 3 {
		t.Errorf("attempt = %d, want 3", snapshot.Attempt)
	}
}

func TestHookDeniesNonAdminWithoutRetry(t *testing.T) {
	ts, provider, module := startPortal(t)

	if _, err := provider.AddUser("dana@example.com", "pass1234", "Dana", "Reyes", true); err != nil {
		t.Fatalf("add user: %v", err)
	}
	module.Store.SeedRecord(entities.AuthorizationRecord{
		Email:        "dana@example.com",
		Role:         entities.RoleDealer,
		DealerStatus: entities.DealerStatusApproved,
	})

	token, err := provider.SessionToken("dana@example.com")
	if err != nil {
		t.Fatalf("session token: %v", err)
	}
	client := authclient.NewClient(ts.URL, token)

	hook := authclient.NewHook(func(ctx context.Context) (authclient.StatusResult, error) {
		return client.AdminStatus(ctx)
	}, authclient.HookOptions{})

	hook.Start(context.Background())
	hook.Wait()

	snapshot := hook.Snapshot()
	if snapshot.State != authclient.StateDenied {
		t.Fatalf("state = %q, want denied", snapshot.State)
	}
	if snapshot.Attempt != 1 {
		t.Errorf("attempt = %d, want 1 (a denial is not retryable)", snapshot.Attempt)
	}
}
