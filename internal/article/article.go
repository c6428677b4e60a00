// Package article loads local Markdown files for publishing.
package article

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"strings"
	"unicode/utf8"

	"github.com/adrg/frontmatter"
)

// Extension is the only file extension that gets published.
const Extension = ".md"

// ErrNotMarkdown is returned for paths without the Markdown extension.
var ErrNotMarkdown = errors.New("not a markdown file")

// Kind classifies file errors.
type Kind string

const (
	KindNotFound   Kind = "not_found"
	KindUnreadable Kind = "unreadable"
	KindEmpty      Kind = "empty"
)

// FileError describes why a file could not be used as article content.
type FileError struct {
	Path string
	Kind Kind
	Err  error
}

func (e *FileError) Error() string {
	switch e.Kind {
	case KindNotFound:
		return fmt.Sprintf("File not found: %s", e.Path)
	case KindEmpty:
		return fmt.Sprintf("No contents found in %s", e.Path)
	default:
		return fmt.Sprintf("File unreadable: %s: %v", e.Path, e.Err)
	}
}

func (e *FileError) Unwrap() error { return e.Err }

// IsKind reports whether err is a FileError of the given kind.
func IsKind(err error, kind Kind) bool {
	var fileErr *FileError
	return errors.As(err, &fileErr) && fileErr.Kind == kind
}

// FrontMatter is the metadata block some Markdown files start with.
type FrontMatter struct {
	Title        string   `yaml:"title" toml:"title"`
	Tags         []string `yaml:"tags" toml:"tags"`
	CanonicalURL string   `yaml:"canonical_url" toml:"canonical_url"`
}

// Source is a loaded Markdown file.
type Source struct {
	Path    string
	Content string

	// Hash is the hex SHA-256 of the file as read from disk.
	Hash string

	// FrontMatter is set only when it was stripped from Content.
	FrontMatter *FrontMatter
}

// Options controls how a file is loaded.
type Options struct {
	StripFrontMatter bool
}

// IsMarkdown reports whether path has the Markdown extension.
func IsMarkdown(path string) bool {
	return strings.HasSuffix(path, Extension)
}

// Load reads a Markdown file. The content is returned as written unless
// front matter stripping is requested.
func Load(path string, opts Options) (*Source, error) {
	if !IsMarkdown(path) {
		return nil, ErrNotMarkdown
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, &FileError{Path: path, Kind: KindNotFound, Err: err}
		}
		return nil, &FileError{Path: path, Kind: KindUnreadable, Err: err}
	}

	if len(raw) == 0 {
		return nil, &FileError{Path: path, Kind: KindEmpty}
	}

	if !utf8.Valid(raw) {
		return nil, &FileError{Path: path, Kind: KindUnreadable, Err: errors.New("content is not valid UTF-8")}
	}

	sum := sha256.Sum256(raw)
	src := &Source{
		Path:    path,
		Content: string(raw),
		Hash:    hex.EncodeToString(sum[:]),
	}

	if opts.StripFrontMatter {
		var meta FrontMatter
		body, err := frontmatter.Parse(bytes.NewReader(raw), &meta)
		if err != nil {
			return nil, &FileError{Path: path, Kind: KindUnreadable, Err: fmt.Errorf("parse front matter: %w", err)}
		}
		if len(bytes.TrimSpace(body)) == 0 {
			return nil, &FileError{Path: path, Kind: KindEmpty}
		}

		src.Content = string(body)
		src.FrontMatter = &meta

		slog.Debug("stripped front matter",
			"path", path,
			"title", meta.Title,
			"tags", len(meta.Tags),
		)
	}

	return src, nil
}
