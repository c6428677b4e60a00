package poster

import (
	"context"
	"fmt"
	"net/url"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// Publish states accepted by the platform.
const (
	StatusDraft    = "draft"
	StatusPublic   = "public"
	StatusUnlisted = "unlisted"
)

// Content formats accepted by the platform.
const (
	FormatMarkdown = "markdown"
	FormatHTML     = "html"
)

// Article represents the content to be posted.
type Article struct {
	Title         string
	Content       string
	Tags          []string
	PublishStatus string
	ContentFormat string

	// Optional; omitted from the request when unset.
	CanonicalURL    string
	NotifyFollowers *bool
}

// Validate checks the enumerated fields of the article. Title, tag count and
// tag length limits are enforced by the platform.
func (a Article) Validate() error {
	return validation.ValidateStruct(&a,
		validation.Field(&a.PublishStatus, validation.In(StatusDraft, StatusPublic, StatusUnlisted)),
		validation.Field(&a.ContentFormat, validation.In(FormatMarkdown, FormatHTML)),
		validation.Field(&a.CanonicalURL, validation.By(absoluteURL)),
	)
}

func absoluteURL(value any) error {
	s, _ := value.(string)
	if s == "" {
		return nil
	}
	u, err := url.Parse(s)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return validation.NewError("validation_canonical_url", fmt.Sprintf("must be an absolute http(s) URL, got %q", s))
	}
	return nil
}

// Identity is the authenticated user as reported by the platform.
type Identity struct {
	ID       string
	Username string
	Name     string
	URL      string
}

// PostResult represents the result of a post.
type PostResult struct {
	PostID        string
	PostURL       string
	AuthorID      string
	PublishStatus string
}

// Poster is the interface for publishing articles to a platform.
type Poster interface {
	// Platform returns the name of the platform.
	Platform() string

	// Post publishes the article and returns where it landed.
	Post(ctx context.Context, article Article) (*PostResult, error)

	// ResolveIdentity looks up the user the credential belongs to.
	ResolveIdentity(ctx context.Context) (*Identity, error)
}
