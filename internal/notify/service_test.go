package notify_test

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"crosscheck/internal/notify"
	"crosscheck/internal/testsupport"
)

func TestNewServiceReturnsNoopWhenWebhookMissing(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	cfg.Notifications.WebhookURL = ""
	svc := notify.NewService(cfg)
	if err := svc.NotifyRunCompleted(context.Background(), "run-1", 3, 1, time.Minute); err != nil {
		t.Fatalf("expected noop notifier to return nil, got %v", err)
	}
}

func TestWebhookServiceFormatsPayloads(t *testing.T) {
	var captured struct {
		title    string
		tags     string
		priority string
		body     string
	}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Fatalf("unexpected method: %s", r.Method)
		}
		captured.title = r.Header.Get("Title")
		captured.tags = r.Header.Get("Tags")
		captured.priority = r.Header.Get("Priority")
		body, err := io.ReadAll(r.Body)
		if err != nil {
			t.Fatalf("read body: %v", err)
		}
		captured.body = string(body)
		_ = r.Body.Close()
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	cfg := testsupport.NewConfig(t, testsupport.WithWebhook(server.URL))
	svc := notify.NewService(cfg)

	tests := []struct {
		name           string
		notify         func() error
		expectTitle    string
		expectMessage  string
		expectTags     string
		expectPriority string
	}{
		{
			name: "folder ready",
			notify: func() error {
				return svc.NotifyFolderReady(context.Background(), "g1", "https://links.test/folder-1", 3)
			},
			expectTitle:   "Crosscheck - Folder Ready",
			expectMessage: "Media folder ready for game g1 (3 files)\nLink: https://links.test/folder-1",
			expectTags:    "crosscheck,folder,ready",
		},
		{
			name: "game absorbed",
			notify: func() error {
				return svc.NotifyGameAbsorbed(context.Background(), "g1", "g2")
			},
			expectTitle:   "Crosscheck - Duplicate Merged",
			expectMessage: "Game g1 absorbed duplicate g2",
			expectTags:    "crosscheck,merge,completed",
		},
		{
			name: "run completed",
			notify: func() error {
				return svc.NotifyRunCompleted(context.Background(), "run-1", 7, 2, 90*time.Second)
			},
			expectTitle:   "Crosscheck - Run Complete",
			expectMessage: "Run run-1 complete: 7 files matched, 2 duplicates merged in 1m30s",
			expectTags:    "crosscheck,run,completed",
		},
		{
			name: "error",
			notify: func() error {
				return svc.NotifyError(context.Background(), errors.New("backend unreachable"), "matching")
			},
			expectTitle:    "Crosscheck - Error",
			expectMessage:  "Error with matching: backend unreachable",
			expectTags:     "crosscheck,error,alert",
			expectPriority: "high",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if err := tc.notify(); err != nil {
				t.Fatalf("notification returned error: %v", err)
			}
			if captured.title != tc.expectTitle {
				t.Fatalf("expected title %q, got %q", tc.expectTitle, captured.title)
			}
			if captured.body != tc.expectMessage {
				t.Fatalf("expected message %q, got %q", tc.expectMessage, captured.body)
			}
			if captured.tags != tc.expectTags {
				t.Fatalf("expected tags %q, got %q", tc.expectTags, captured.tags)
			}
			if captured.priority != tc.expectPriority {
				t.Fatalf("expected priority %q, got %q", tc.expectPriority, captured.priority)
			}
		})
	}
}

func TestWebhookServiceHonorsCategoryToggles(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatalf("unexpected call for suppressed category: %s", r.Header.Get("Title"))
	}))
	defer server.Close()

	cfg := testsupport.NewConfig(t, testsupport.WithWebhook(server.URL))
	cfg.Notifications.RunSummary = false
	cfg.Notifications.FolderReady = false
	cfg.Notifications.Errors = false
	svc := notify.NewService(cfg)

	ctx := context.Background()
	if err := svc.NotifyRunStarted(ctx, "run-1", 2, 5); err != nil {
		t.Fatalf("suppressed run start should be nil, got %v", err)
	}
	if err := svc.NotifyFolderReady(ctx, "g1", "", 1); err != nil {
		t.Fatalf("suppressed folder ready should be nil, got %v", err)
	}
	if err := svc.NotifyError(ctx, errors.New("boom"), "scan"); err != nil {
		t.Fatalf("suppressed error should be nil, got %v", err)
	}
}

func TestWebhookServiceReportsNon2xx(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusForbidden)
	}))
	defer server.Close()

	cfg := testsupport.NewConfig(t, testsupport.WithWebhook(server.URL))
	svc := notify.NewService(cfg)
	if err := svc.TestNotification(context.Background()); err == nil {
		t.Fatal("expected an error for a 403 response")
	}
}
