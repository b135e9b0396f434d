package notify

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"crosscheck/internal/config"
)

const userAgent = "crosscheck/0.1.0"

// Service defines the notification surface exposed to the runner.
type Service interface {
	NotifyRunStarted(ctx context.Context, runID string, games, files int) error
	NotifyFolderReady(ctx context.Context, gameID, folderLink string, mediaCount int) error
	NotifyGameAbsorbed(ctx context.Context, targetID, sourceID string) error
	NotifyRunCompleted(ctx context.Context, runID string, matched, merged int, duration time.Duration) error
	NotifyError(ctx context.Context, err error, context string) error
	TestNotification(ctx context.Context) error
}

// NewService builds a notification service backed by a webhook when
// configured. When no webhook URL is configured, a noop implementation is
// returned.
func NewService(cfg *config.Config) Service {
	endpoint := strings.TrimSpace(cfg.Notifications.WebhookURL)
	if endpoint == "" {
		return noopService{}
	}

	timeout := time.Duration(cfg.Notifications.RequestTimeout) * time.Second
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	return &webhookService{
		endpoint:    endpoint,
		client:      &http.Client{Timeout: timeout},
		runSummary:  cfg.Notifications.RunSummary,
		folderReady: cfg.Notifications.FolderReady,
		errors:      cfg.Notifications.Errors,
	}
}

type payload struct {
	title    string
	message  string
	tags     []string
	priority string
}

type webhookService struct {
	endpoint    string
	client      *http.Client
	runSummary  bool
	folderReady bool
	errors      bool
}

func (w *webhookService) NotifyRunStarted(ctx context.Context, runID string, games, files int) error {
	if !w.runSummary {
		return nil
	}
	data := payload{
		title:   "Crosscheck - Run Started",
		message: fmt.Sprintf("Run %s started: %d games, %d unprocessed files", runID, games, files),
		tags:    []string{"crosscheck", "run", "started"},
	}
	return w.send(ctx, data)
}

func (w *webhookService) NotifyFolderReady(ctx context.Context, gameID, folderLink string, mediaCount int) error {
	if !w.folderReady {
		return nil
	}
	gameID = strings.TrimSpace(gameID)
	message := fmt.Sprintf("Media folder ready for game %s (%d files)", gameID, mediaCount)
	if folderLink = strings.TrimSpace(folderLink); folderLink != "" {
		message = fmt.Sprintf("%s\nLink: %s", message, folderLink)
	}
	data := payload{
		title:   "Crosscheck - Folder Ready",
		message: message,
		tags:    []string{"crosscheck", "folder", "ready"},
	}
	return w.send(ctx, data)
}

func (w *webhookService) NotifyGameAbsorbed(ctx context.Context, targetID, sourceID string) error {
	if !w.runSummary {
		return nil
	}
	data := payload{
		title:   "Crosscheck - Duplicate Merged",
		message: fmt.Sprintf("Game %s absorbed duplicate %s", targetID, sourceID),
		tags:    []string{"crosscheck", "merge", "completed"},
	}
	return w.send(ctx, data)
}

func (w *webhookService) NotifyRunCompleted(ctx context.Context, runID string, matched, merged int, duration time.Duration) error {
	if !w.runSummary {
		return nil
	}
	duration = duration.Round(time.Second)
	if duration < 0 {
		duration = 0
	}
	durationText := duration.String()
	if duration == 0 {
		durationText = "0s"
	}
	data := payload{
		title:   "Crosscheck - Run Complete",
		message: fmt.Sprintf("Run %s complete: %d files matched, %d duplicates merged in %s", runID, matched, merged, durationText),
		tags:    []string{"crosscheck", "run", "completed"},
	}
	return w.send(ctx, data)
}

func (w *webhookService) NotifyError(ctx context.Context, err error, contextLabel string) error {
	if !w.errors {
		return nil
	}
	var builder strings.Builder
	builder.WriteString("Error")
	if contextLabel = strings.TrimSpace(contextLabel); contextLabel != "" {
		builder.WriteString(" with ")
		builder.WriteString(contextLabel)
	}
	builder.WriteString(": ")
	if err != nil {
		builder.WriteString(strings.TrimSpace(err.Error()))
	} else {
		builder.WriteString("unknown")
	}
	data := payload{
		title:    "Crosscheck - Error",
		message:  builder.String(),
		tags:     []string{"crosscheck", "error", "alert"},
		priority: "high",
	}
	return w.send(ctx, data)
}

func (w *webhookService) TestNotification(ctx context.Context) error {
	data := payload{
		title:    "Crosscheck - Test",
		message:  "Notification system test",
		tags:     []string{"crosscheck", "test"},
		priority: "low",
	}
	return w.send(ctx, data)
}

func (w *webhookService) send(ctx context.Context, data payload) error {
	if w == nil || w.client == nil {
		return nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, w.endpoint, strings.NewReader(data.message))
	if err != nil {
		return fmt.Errorf("build webhook request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Content-Type", "text/plain; charset=utf-8")
	if data.title != "" {
		req.Header.Set("Title", data.title)
	}
	if len(data.tags) > 0 {
		req.Header.Set("Tags", strings.Join(data.tags, ","))
	}
	if data.priority != "" && data.priority != "default" {
		req.Header.Set("Priority", data.priority)
	}

	resp, err := w.client.Do(req)
	if err != nil {
		return fmt.Errorf("send webhook notification: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		return fmt.Errorf("webhook returned %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}
	_, _ = io.Copy(io.Discard, resp.Body)
	return nil
}

type noopService struct{}

func (noopService) NotifyRunStarted(context.Context, string, int, int) error           { return nil }
func (noopService) NotifyFolderReady(context.Context, string, string, int) error       { return nil }
func (noopService) NotifyGameAbsorbed(context.Context, string, string) error           { return nil }
func (noopService) NotifyRunCompleted(context.Context, string, int, int, time.Duration) error {
	return nil
}
func (noopService) NotifyError(context.Context, error, string) error { return nil }
func (noopService) TestNotification(context.Context) error           { return nil }
