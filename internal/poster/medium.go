package poster

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const (
	// MediumBaseURL is the root of Medium's v1 REST API.
	MediumBaseURL = "https://api.medium.com/v1"

	// DefaultTimeout bounds each request to the platform.
	DefaultTimeout = 10 * time.Second
)

// MediumPoster publishes articles to Medium.
type MediumPoster struct {
	httpClient *http.Client
	baseURL    string
	token      string
}

// MediumConfig holds configuration for the Medium poster.
type MediumConfig struct {
	Token   string
	BaseURL string        // default: MediumBaseURL
	Timeout time.Duration // default: DefaultTimeout
}

// NewMediumPoster creates a new Medium poster. Each call goes out as a single
// request with no retries.
func NewMediumPoster(cfg MediumConfig) *MediumPoster {
	baseURL := strings.TrimRight(cfg.BaseURL, "/")
	if baseURL == "" {
		baseURL = MediumBaseURL
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	return &MediumPoster{
		httpClient: &http.Client{
			Timeout: timeout,
		},
		baseURL: baseURL,
		token:   cfg.Token,
	}
}

// Platform returns the platform name.
func (m *MediumPoster) Platform() string {
	return "medium"
}

// meResponse is the response from the current user endpoint.
type meResponse struct {
	Data struct {
		ID       string `json:"id"`
		Username string `json:"username"`
		Name     string `json:"name"`
		URL      string `json:"url"`
	} `json:"data"`
}

// ResolveIdentity fetches the user the access token belongs to.
func (m *MediumPoster) ResolveIdentity(ctx context.Context) (*Identity, error) {
	const op = "resolve identity"

	query := url.Values{"accessToken": {m.token}}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, m.baseURL+"/me?"+query.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	status, respBody, err := m.do(req, op)
	if err != nil {
		return nil, err
	}

	var me meResponse
	if err := json.Unmarshal(respBody, &me); err != nil {
		return nil, &APIError{Op: op, StatusCode: status, Body: string(respBody)}
	}
	if me.Data.ID == "" {
		return nil, &APIError{Op: op, StatusCode: status, Body: string(respBody)}
	}

	slog.Debug("resolved Medium identity",
		"id", me.Data.ID,
		"username", me.Data.Username,
	)

	return &Identity{
		ID:       me.Data.ID,
		Username: me.Data.Username,
		Name:     me.Data.Name,
		URL:      me.Data.URL,
	}, nil
}

// createPostRequest is the request body for creating a post. Field order is
// the order the platform documents.
type createPostRequest struct {
	Title           string   `json:"title"`
	ContentFormat   string   `json:"contentFormat"`
	Content         string   `json:"content"`
	Tags            []string `json:"tags"`
	PublishStatus   string   `json:"publishStatus"`
	CanonicalURL    string   `json:"canonicalUrl,omitempty"`
	NotifyFollowers *bool    `json:"notifyFollowers,omitempty"`
}

// createPostResponse is the response from creating a post.
type createPostResponse struct {
	Data struct {
		ID            string `json:"id"`
		AuthorID      string `json:"authorId"`
		URL           string `json:"url"`
		PublishStatus string `json:"publishStatus"`
	} `json:"data"`
}

// Post resolves the current user and creates the article under that user.
// It is not idempotent: every successful call creates a new post.
func (m *MediumPoster) Post(ctx context.Context, article Article) (*PostResult, error) {
	if article.PublishStatus == "" {
		article.PublishStatus = StatusDraft
	}
	if article.ContentFormat == "" {
		article.ContentFormat = FormatMarkdown
	}
	if err := article.Validate(); err != nil {
		return nil, fmt.Errorf("invalid article: %w", err)
	}

	identity, err := m.ResolveIdentity(ctx)
	if err != nil {
		return nil, err
	}

	return m.createPost(ctx, identity.ID, article)
}

func (m *MediumPoster) createPost(ctx context.Context, userID string, article Article) (*PostResult, error) {
	const op = "create post"

	tags := article.Tags
	if tags == nil {
		tags = []string{}
	}

	reqBody := createPostRequest{
		Title:           article.Title,
		ContentFormat:   article.ContentFormat,
		Content:         article.Content,
		Tags:            tags,
		PublishStatus:   article.PublishStatus,
		CanonicalURL:    article.CanonicalURL,
		NotifyFollowers: article.NotifyFollowers,
	}

	// Markdown routinely carries <, > and &; send them as written.
	var body bytes.Buffer
	enc := json.NewEncoder(&body)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(reqBody); err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	endpoint := fmt.Sprintf("%s/users/%s/posts", m.baseURL, url.PathEscape(userID))
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, &body)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Authorization", "Bearer "+m.token)

	status, respBody, err := m.do(req, op)
	if err != nil {
		return nil, err
	}

	var created createPostResponse
	if err := json.Unmarshal(respBody, &created); err != nil || created.Data.URL == "" {
		return nil, &APIError{Op: op, StatusCode: status, Body: string(respBody)}
	}

	slog.Info("posted to Medium",
		"id", created.Data.ID,
		"url", created.Data.URL,
		"status", created.Data.PublishStatus,
	)

	return &PostResult{
		PostID:        created.Data.ID,
		PostURL:       created.Data.URL,
		AuthorID:      created.Data.AuthorID,
		PublishStatus: created.Data.PublishStatus,
	}, nil
}

// do sends req once and returns the status and body of a 2xx response.
func (m *MediumPoster) do(req *http.Request, op string) (int, []byte, error) {
	resp, err := m.httpClient.Do(req)
	if err != nil {
		return 0, nil, &TransportError{Op: op, Err: err}
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return resp.StatusCode, nil, &TransportError{Op: op, Err: fmt.Errorf("read response: %w", err)}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return resp.StatusCode, respBody, &APIError{Op: op, StatusCode: resp.StatusCode, Body: string(respBody)}
	}

	return resp.StatusCode, respBody, nil
}
