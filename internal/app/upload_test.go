package app

import (
	"context"
	"errors"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/abdulachik/mediumup/internal/article"
	"github.com/abdulachik/mediumup/internal/config"
	"github.com/abdulachik/mediumup/internal/poster"
	"github.com/abdulachik/mediumup/internal/poster/postertest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestApp(t *testing.T, srv *postertest.Server, mutate ...func(*config.Config)) *App {
	t.Helper()

	cfg := &config.Config{
		MediumToken:  "tok-123",
		MediumAPIURL: srv.BaseURL(),
		Timeout:      time.Second,
	}
	for _, m := range mutate {
		m(cfg)
	}

	a, err := New(context.Background(), cfg)
	require.NoError(t, err)
	t.Cleanup(func() { a.Close() })

	return a
}

func writeMarkdown(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestApp_Upload(t *testing.T) {
	ctx := context.Background()

	t.Run("publishes and returns the url", func(t *testing.T) {
		srv := postertest.NewServer(t)
		a := newTestApp(t, srv)

		outcome, err := a.Upload(ctx, UploadInput{
			FilePath: writeMarkdown(t, "hello.md", "# Hi"),
			Title:    "Hello World",
			Tags:     []string{"a", "b"},
		})
		require.NoError(t, err)

		assert.Equal(t, StatusPublished, outcome.Status)
		assert.Equal(t, "https://medium.com/@u/hello-world-u1", outcome.URL)
		assert.Equal(t, []string{"GET /v1/me", "POST /v1/users/u1/posts"}, srv.Paths())
		assert.JSONEq(t,
			`{"title":"Hello World","contentFormat":"markdown","content":"# Hi","tags":["a","b"],"publishStatus":"draft"}`,
			string(srv.Calls()[1].Body))
	})

	t.Run("non markdown file makes no calls", func(t *testing.T) {
		srv := postertest.NewServer(t)
		a := newTestApp(t, srv)

		outcome, err := a.Upload(ctx, UploadInput{
			FilePath: writeMarkdown(t, "notes.txt", "# Hi"),
			Title:    "Hello World",
		})
		require.NoError(t, err)

		assert.Equal(t, StatusSkippedNotMarkdown, outcome.Status)
		assert.Empty(t, srv.Calls())
	})

	t.Run("missing file makes no calls", func(t *testing.T) {
		srv := postertest.NewServer(t)
		a := newTestApp(t, srv)

		_, err := a.Upload(ctx, UploadInput{
			FilePath: filepath.Join(t.TempDir(), "missing.md"),
			Title:    "Hello World",
		})

		assert.True(t, article.IsKind(err, article.KindNotFound))
		assert.Empty(t, srv.Calls())
	})

	t.Run("empty file makes no calls", func(t *testing.T) {
		srv := postertest.NewServer(t)
		a := newTestApp(t, srv)

		outcome, err := a.Upload(ctx, UploadInput{
			FilePath: writeMarkdown(t, "empty.md", ""),
			Title:    "Hello World",
		})
		require.NoError(t, err)

		assert.Equal(t, StatusSkippedEmpty, outcome.Status)
		assert.Empty(t, srv.Calls())
	})

	t.Run("rejected credential stops before posting", func(t *testing.T) {
		srv := postertest.NewServer(t)
		srv.Me = postertest.Response{Status: http.StatusUnauthorized, Body: `{"errors":[{"message":"Token was invalid.","code":6003}]}`}
		a := newTestApp(t, srv)

		_, err := a.Upload(ctx, UploadInput{
			FilePath: writeMarkdown(t, "hello.md", "# Hi"),
			Title:    "Hello World",
		})

		var apiErr *poster.APIError
		require.True(t, errors.As(err, &apiErr))
		assert.Equal(t, http.StatusUnauthorized, apiErr.StatusCode)
		assert.Equal(t, []string{"GET /v1/me"}, srv.Paths())
	})

	t.Run("html format renders markdown", func(t *testing.T) {
		srv := postertest.NewServer(t)
		a := newTestApp(t, srv)

		_, err := a.Upload(ctx, UploadInput{
			FilePath:      writeMarkdown(t, "hello.md", "# Hi\n\nThere."),
			Title:         "Hello World",
			ContentFormat: poster.FormatHTML,
		})
		require.NoError(t, err)

		body := string(srv.Calls()[1].Body)
		assert.Contains(t, body, `"contentFormat":"html"`)
		assert.Contains(t, body, "<h1")
		assert.Contains(t, body, "<p>There.</p>")
	})

	t.Run("front matter feeds tags and canonical url", func(t *testing.T) {
		srv := postertest.NewServer(t)
		a := newTestApp(t, srv)

		path := writeMarkdown(t, "hello.md", strings.Join([]string{
			"---",
			"tags: [b, writing]",
			"canonical_url: https://blog.example.com/hello",
			"---",
			"# Hi",
		}, "\n"))

		_, err := a.Upload(ctx, UploadInput{
			FilePath:         path,
			Title:            "Hello World",
			Tags:             []string{"a", "b"},
			StripFrontMatter: true,
		})
		require.NoError(t, err)

		body := string(srv.Calls()[1].Body)
		assert.Contains(t, body, `"tags":["a","b","writing"]`)
		assert.Contains(t, body, `"canonicalUrl":"https://blog.example.com/hello"`)
		assert.NotContains(t, body, "canonical_url")
	})

	t.Run("invalid canonical url makes no calls", func(t *testing.T) {
		srv := postertest.NewServer(t)
		a := newTestApp(t, srv)

		_, err := a.Upload(ctx, UploadInput{
			FilePath:     writeMarkdown(t, "hello.md", "# Hi"),
			Title:        "Hello World",
			CanonicalURL: "not a url",
		})

		assert.Error(t, err)
		assert.Empty(t, srv.Calls())
	})
}

func TestApp_Upload_History(t *testing.T) {
	ctx := context.Background()

	withHistory := func(t *testing.T) func(*config.Config) {
		path := filepath.Join(t.TempDir(), "history.db")
		return func(cfg *config.Config) { cfg.HistoryPath = path }
	}

	t.Run("records successful publishes", func(t *testing.T) {
		srv := postertest.NewServer(t)
		a := newTestApp(t, srv, withHistory(t))

		outcome, err := a.Upload(ctx, UploadInput{
			FilePath: writeMarkdown(t, "hello.md", "# Hi"),
			Title:    "Hello World",
			Tags:     []string{"a", "b"},
		})
		require.NoError(t, err)

		pubs, err := a.History.List(ctx, 0)
		require.NoError(t, err)
		require.Len(t, pubs, 1)
		assert.Equal(t, outcome.URL, pubs[0].PostURL)
		assert.Equal(t, outcome.Source.Hash, pubs[0].ContentHash)
		assert.Equal(t, []string{"a", "b"}, pubs[0].Tags)
	})

	t.Run("refuses to publish the same content twice", func(t *testing.T) {
		srv := postertest.NewServer(t)
		a := newTestApp(t, srv, withHistory(t))
		path := writeMarkdown(t, "hello.md", "# Hi")

		_, err := a.Upload(ctx, UploadInput{FilePath: path, Title: "Hello World"})
		require.NoError(t, err)

		_, err = a.Upload(ctx, UploadInput{FilePath: path, Title: "Hello World"})
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrAlreadyPublished)

		var dupErr *DuplicateError
		require.True(t, errors.As(err, &dupErr))
		assert.Equal(t, "https://medium.com/@u/hello-world-u1", dupErr.Previous.PostURL)

		assert.Equal(t, 1, srv.Count(http.MethodPost, "/v1/users/u1/posts"))
	})

	t.Run("allow duplicate publishes again", func(t *testing.T) {
		srv := postertest.NewServer(t)
		a := newTestApp(t, srv, withHistory(t))
		path := writeMarkdown(t, "hello.md", "# Hi")

		_, err := a.Upload(ctx, UploadInput{FilePath: path, Title: "Hello World"})
		require.NoError(t, err)
		_, err = a.Upload(ctx, UploadInput{FilePath: path, Title: "Hello World", AllowDuplicate: true})
		require.NoError(t, err)

		assert.Equal(t, 2, srv.Count(http.MethodPost, "/v1/users/u1/posts"))
		count, err := a.History.Count(ctx)
		require.NoError(t, err)
		assert.Equal(t, int64(2), count)
	})

	t.Run("skipped files never open the history", func(t *testing.T) {
		srv := postertest.NewServer(t)
		path := filepath.Join(t.TempDir(), "history.db")
		a := newTestApp(t, srv, func(cfg *config.Config) { cfg.HistoryPath = path })

		outcome, err := a.Upload(ctx, UploadInput{FilePath: writeMarkdown(t, "notes.txt", "# Hi"), Title: "Hello World"})
		require.NoError(t, err)
		assert.Equal(t, StatusSkippedNotMarkdown, outcome.Status)

		outcome, err = a.Upload(ctx, UploadInput{FilePath: writeMarkdown(t, "empty.md", ""), Title: "Hello World"})
		require.NoError(t, err)
		assert.Equal(t, StatusSkippedEmpty, outcome.Status)

		assert.Nil(t, a.History)
		assert.NoFileExists(t, path)
	})

	t.Run("unusable history path does not mask file errors", func(t *testing.T) {
		srv := postertest.NewServer(t)
		blocker := writeMarkdown(t, "blocker", "x")
		a := newTestApp(t, srv, func(cfg *config.Config) { cfg.HistoryPath = filepath.Join(blocker, "history.db") })

		outcome, err := a.Upload(ctx, UploadInput{FilePath: writeMarkdown(t, "notes.txt", "# Hi"), Title: "Hello World"})
		require.NoError(t, err)
		assert.Equal(t, StatusSkippedNotMarkdown, outcome.Status)

		_, err = a.Upload(ctx, UploadInput{FilePath: filepath.Join(t.TempDir(), "missing.md"), Title: "Hello World"})
		assert.True(t, article.IsKind(err, article.KindNotFound))

		_, err = a.Upload(ctx, UploadInput{FilePath: writeMarkdown(t, "hello.md", "# Hi"), Title: "Hello World"})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "open history")
		assert.Empty(t, srv.Calls())
	})

	t.Run("failed publish is not recorded", func(t *testing.T) {
		srv := postertest.NewServer(t)
		srv.Post = postertest.Response{Status: http.StatusBadRequest, Body: `{"errors":[{"message":"Invalid tags","code":6026}]}`}
		a := newTestApp(t, srv, withHistory(t))

		_, err := a.Upload(ctx, UploadInput{FilePath: writeMarkdown(t, "hello.md", "# Hi"), Title: "Hello World"})
		require.Error(t, err)

		count, err := a.History.Count(ctx)
		require.NoError(t, err)
		assert.Equal(t, int64(0), count)
	})
}

func TestApp_Upload_GitHubOutputs(t *testing.T) {
	srv := postertest.NewServer(t)
	output := filepath.Join(t.TempDir(), "github_output")
	a := newTestApp(t, srv, func(cfg *config.Config) {
		cfg.CI = true
		cfg.GitHubOutput = output
	})

	_, err := a.Upload(context.Background(), UploadInput{
		FilePath: writeMarkdown(t, "hello.md", "# Hi"),
		Title:    "Hello World",
	})
	require.NoError(t, err)

	out, err := os.ReadFile(output)
	require.NoError(t, err)
	assert.Contains(t, string(out), "url=https://medium.com/@u/hello-world-u1\n")
}

func TestApp_Me(t *testing.T) {
	srv := postertest.NewServer(t)
	a := newTestApp(t, srv)

	identity, err := a.Me(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "u1", identity.ID)
	assert.Equal(t, []string{"GET /v1/me"}, srv.Paths())
}

func TestNew_InvalidConfig(t *testing.T) {
	_, err := New(context.Background(), &config.Config{MediumAPIURL: "nope", Timeout: time.Second})
	assert.Error(t, err)
}
