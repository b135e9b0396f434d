package drive

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"crosscheck/internal/config"
	"crosscheck/internal/storage"
)

const userAgent = "crosscheck/0.1.0"

// HTTPDoer describes the HTTP client used by the drive backend.
type HTTPDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

// Client talks to a Drive-style storage API.
type Client struct {
	baseURL string
	apiKey  string
	client  HTTPDoer
}

// NewClient constructs a drive backend from explicit parameters.
func NewClient(baseURL, apiKey string, client HTTPDoer) *Client {
	if client == nil {
		client = http.DefaultClient
	}
	return &Client{
		baseURL: strings.TrimRight(strings.TrimSpace(baseURL), "/"),
		apiKey:  strings.TrimSpace(apiKey),
		client:  client,
	}
}

// NewConfiguredClient builds a drive backend from application config.
func NewConfiguredClient(cfg *config.Config) *Client {
	timeout := time.Duration(cfg.Storage.RequestTimeout) * time.Second
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return NewClient(cfg.Storage.BaseURL, cfg.Storage.APIKey, &http.Client{Timeout: timeout})
}

type itemPayload struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	MimeType    string   `json:"mimeType"`
	Description string   `json:"description,omitempty"`
	Parents     []string `json:"parents,omitempty"`
}

type listPayload struct {
	Files         []itemPayload `json:"files"`
	NextPageToken string        `json:"nextPageToken"`
}

func (c *Client) ListChildren(ctx context.Context, parentID string) ([]storage.Item, error) {
	var items []storage.Item
	pageToken := ""
	for {
		query := url.Values{}
		query.Set("q", fmt.Sprintf("'%s' in parents", parentID))
		query.Set("fields", "nextPageToken, files(id, name, mimeType, description, parents)")
		if pageToken != "" {
			query.Set("pageToken", pageToken)
		}

		var page listPayload
		if err := c.doJSON(ctx, http.MethodGet, "/files?"+query.Encode(), nil, &page); err != nil {
			return nil, storage.Wrap(nil, "list children", parentID, err)
		}
		for _, file := range page.Files {
			items = append(items, storage.Item{
				ID:          file.ID,
				Name:        file.Name,
				MimeType:    file.MimeType,
				Description: file.Description,
				Parents:     file.Parents,
			})
		}
		if page.NextPageToken == "" {
			return items, nil
		}
		pageToken = page.NextPageToken
	}
}

func (c *Client) CreateFolder(ctx context.Context, name, parentID string) (storage.Item, error) {
	body := itemPayload{
		Name:     name,
		MimeType: storage.FolderMimeType,
		Parents:  []string{parentID},
	}
	var created itemPayload
	if err := c.doJSON(ctx, http.MethodPost, "/files?fields=id,name,mimeType,parents", body, &created); err != nil {
		return storage.Item{}, storage.Wrap(nil, "create folder", name, err)
	}
	return storage.Item{
		ID:       created.ID,
		Name:     created.Name,
		MimeType: created.MimeType,
		Parents:  created.Parents,
	}, nil
}

func (c *Client) SetPublicRead(ctx context.Context, folderID string) error {
	body := map[string]string{"type": "anyone", "role": "reader"}
	path := fmt.Sprintf("/files/%s/permissions?fields=id", url.PathEscape(folderID))
	if err := c.doJSON(ctx, http.MethodPost, path, body, nil); err != nil {
		return storage.Wrap(nil, "set public read", folderID, err)
	}
	return nil
}

func (c *Client) Move(ctx context.Context, itemID, newParentID string) error {
	var current itemPayload
	getPath := fmt.Sprintf("/files/%s?fields=parents", url.PathEscape(itemID))
	if err := c.doJSON(ctx, http.MethodGet, getPath, nil, &current); err != nil {
		return storage.Wrap(nil, "move", itemID, err)
	}

	query := url.Values{}
	query.Set("addParents", newParentID)
	if len(current.Parents) > 0 {
		query.Set("removeParents", strings.Join(current.Parents, ","))
	}
	query.Set("fields", "id, parents")
	patchPath := fmt.Sprintf("/files/%s?%s", url.PathEscape(itemID), query.Encode())
	if err := c.doJSON(ctx, http.MethodPatch, patchPath, nil, nil); err != nil {
		return storage.Wrap(nil, "move", itemID, err)
	}
	return nil
}

func (c *Client) Rename(ctx context.Context, folderID, newName string) error {
	body := map[string]string{"name": newName}
	path := fmt.Sprintf("/files/%s?fields=id,name", url.PathEscape(folderID))
	if err := c.doJSON(ctx, http.MethodPatch, path, body, nil); err != nil {
		return storage.Wrap(nil, "rename", folderID, err)
	}
	return nil
}

func (c *Client) doJSON(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return storage.ErrNotFound
	}
	if resp.StatusCode >= http.StatusMultipleChoices {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		return fmt.Errorf("storage API returned %d: %s", resp.StatusCode, strings.TrimSpace(string(snippet)))
	}

	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
