package release

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/google/go-github/v57/github"
	"golang.org/x/oauth2"
)

// VersionInfo holds a published release tag and its normalized version.
type VersionInfo struct {
	Tag     string // as published, e.g. "v1.2.0"
	Version string // normalized, e.g. "1.2.0"
}

// Client queries the GitHub releases API. The install path never calls
// it; the outdated command uses it to compare against the pinned version.
type Client struct {
	gh            *github.Client
	authenticated bool
}

// NewClient creates a releases API client. A GITHUB_TOKEN in the
// environment authenticates requests, which raises the API rate limit.
func NewClient() *Client {
	if token := os.Getenv("GITHUB_TOKEN"); token != "" {
		ts := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token})
		return &Client{
			gh:            github.NewClient(oauth2.NewClient(context.Background(), ts)),
			authenticated: true,
		}
	}
	return &Client{gh: github.NewClient(nil)}
}

// Authenticated reports whether requests carry a token.
func (c *Client) Authenticated() bool {
	return c.authenticated
}

// Latest returns the newest published release of the product repository.
func (c *Client) Latest(ctx context.Context) (*VersionInfo, error) {
	rel, _, err := c.gh.Repositories.GetLatestRelease(ctx, Owner, Repo)
	if err != nil {
		var rateLimitErr *github.RateLimitError
		if errors.As(err, &rateLimitErr) {
			hint := "set GITHUB_TOKEN to raise the limit"
			if c.authenticated {
				hint = "wait for the limit to reset"
			}
			return nil, fmt.Errorf("GitHub API rate limit exceeded (resets %s); %s",
				rateLimitErr.Rate.Reset.Time.Format("15:04 MST"), hint)
		}
		return nil, fmt.Errorf("failed to query latest release: %w", err)
	}

	if rel.TagName == nil || *rel.TagName == "" {
		return nil, fmt.Errorf("latest release has no tag")
	}

	tag := *rel.TagName
	return &VersionInfo{
		Tag:     tag,
		Version: strings.TrimPrefix(tag, "v"),
	}, nil
}
