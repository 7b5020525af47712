package stats

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	docserrors "github.com/protoworx/rippledocs/internal/errors"
	"github.com/protoworx/rippledocs/internal/logging"
	"github.com/protoworx/rippledocs/internal/validation"
)

const (
	githubAccept = "application/vnd.github.v3+json"
	maxBodyBytes = 4 << 20
)

// Options configures a Client. Empty base URLs fall back to the public
// services.
type Options struct {
	GitHubAPI      string
	RawContent     string
	Bundlephobia   string
	Owner          string
	Repo           string
	Branch         string
	Package        string
	PackageVersion string
	Timeout        time.Duration
	HTTPClient     *http.Client
	Logger         logging.Logger
}

// Client talks to the upstream APIs. It does no caching of its own.
type Client struct {
	http   *http.Client
	opts   Options
	logger logging.Logger
}

// NewClient validates the base URLs in opts and returns a Client.
func NewClient(opts Options) (*Client, error) {
	if opts.GitHubAPI == "" {
		opts.GitHubAPI = "https://api.github.com"
	}
	if opts.RawContent == "" {
		opts.RawContent = "https://raw.githubusercontent.com"
	}
	if opts.Bundlephobia == "" {
		opts.Bundlephobia = "https://bundlephobia.com"
	}
	if opts.Branch == "" {
		opts.Branch = "main"
	}

	for _, base := range []string{opts.GitHubAPI, opts.RawContent, opts.Bundlephobia} {
		if err := validation.ValidateURL(base); err != nil {
			return nil, docserrors.NewConfigError("STATS_BASE_URL", fmt.Sprintf("invalid upstream URL %q: %v", base, err))
		}
	}

	httpClient := opts.HTTPClient
	if httpClient == nil {
		timeout := opts.Timeout
		if timeout == 0 {
			timeout = 10 * time.Second
		}
		httpClient = &http.Client{Timeout: timeout}
	}

	logger := opts.Logger
	if logger == nil {
		logger = logging.NewNop()
	}

	return &Client{
		http:   httpClient,
		opts:   opts,
		logger: logger.WithComponent("stats"),
	}, nil
}

// Repository fetches the repository metadata together with the package.json
// name/version and the README. Failing to fetch or decode either file only
// drops that part of the result.
func (c *Client) Repository(ctx context.Context) (RepoStats, error) {
	base := fmt.Sprintf("%s/repos/%s/%s", strings.TrimSuffix(c.opts.GitHubAPI, "/"), c.opts.Owner, c.opts.Repo)

	var repo githubRepo
	status, err := c.getJSON(ctx, base, githubAccept, &repo)
	if err != nil {
		return RepoStats{}, err
	}
	if !isOK(status) {
		switch status {
		case http.StatusNotFound:
			return RepoStats{}, docserrors.NewUpstreamError("GITHUB_NOT_FOUND", "Repository not found", status)
		case http.StatusTooManyRequests:
			return RepoStats{}, docserrors.NewUpstreamError("GITHUB_RATE_LIMIT", "GitHub API rate limit exceeded", status)
		default:
			return RepoStats{}, docserrors.NewUpstreamError("GITHUB_FETCH", "Failed to fetch repository data", status)
		}
	}

	stats := RepoStats{Repository: Repository{
		Stars:       repo.StargazersCount,
		Forks:       repo.ForksCount,
		Description: repo.Description,
		Language:    repo.Language,
		Topics:      repo.Topics,
	}}
	if repo.License != nil && repo.License.Name != "" {
		name := repo.License.Name
		stats.Repository.License = &name
	}
	if stats.Repository.Topics == nil {
		stats.Repository.Topics = []string{}
	}

	if raw, ok := c.contents(ctx, base+"/contents/package.json"); ok {
		var pkg packageJSON
		if err := json.Unmarshal(raw, &pkg); err != nil {
			c.logger.Warn(ctx, err, "Failed to decode or parse package.json")
		} else {
			stats.Package = &PackageInfo{Name: pkg.Name, Version: pkg.Version}
		}
	}

	if raw, ok := c.contents(ctx, base+"/contents/README.md"); ok {
		readme := string(raw)
		stats.Repository.Readme = &readme
	}

	return stats, nil
}

// Bundle fetches the Bundlephobia size report of the configured package
// version.
func (c *Client) Bundle(ctx context.Context) (BundleStats, error) {
	query := url.Values{"package": {c.opts.Package + "@" + c.opts.PackageVersion}}
	endpoint := strings.TrimSuffix(c.opts.Bundlephobia, "/") + "/api/size?" + query.Encode()

	var bundle BundleStats
	status, err := c.getJSON(ctx, endpoint, "application/json", &bundle)
	if err != nil {
		return BundleStats{}, err
	}

	switch {
	case isOK(status):
		return bundle, nil
	case status == http.StatusNotFound:
		return BundleStats{}, docserrors.NewUpstreamError("BUNDLE_NOT_FOUND", "Package not found on Bundlephobia", status)
	default:
		return BundleStats{}, docserrors.NewUpstreamError("BUNDLE_FETCH", "Failed to fetch bundle size data", status)
	}
}

// Version reads the version field of package.json on the configured branch.
// A package.json without a version reports FallbackVersion.
func (c *Client) Version(ctx context.Context) (string, error) {
	endpoint := fmt.Sprintf("%s/%s/%s/%s/package.json",
		strings.TrimSuffix(c.opts.RawContent, "/"), c.opts.Owner, c.opts.Repo, c.opts.Branch)

	var pkg packageJSON
	status, err := c.getJSON(ctx, endpoint, "", &pkg)
	if err != nil {
		return FallbackVersion, err
	}
	if !isOK(status) {
		return FallbackVersion, docserrors.NewUpstreamError("VERSION_FETCH", "Failed to fetch package.json", http.StatusInternalServerError)
	}

	if pkg.Version == "" {
		return FallbackVersion, nil
	}

	return pkg.Version, nil
}

func isOK(status int) bool {
	return status >= 200 && status < 300
}

// getJSON performs a GET and decodes a 2xx body into out. Other statuses
// are returned without decoding. Transport and decode failures become
// internal errors.
func (c *Client) getJSON(ctx context.Context, endpoint, accept string, out interface{}) (int, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return 0, docserrors.NewInternalError("UPSTREAM_REQUEST", "Internal server error", err)
	}
	if accept != "" {
		req.Header.Set("Accept", accept)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return 0, docserrors.NewInternalError("UPSTREAM_TRANSPORT", "Internal server error", err).
			WithContext("url", endpoint)
	}
	defer resp.Body.Close()

	if !isOK(resp.StatusCode) {
		c.logger.Debug(ctx, "Upstream returned non-OK status", "url", endpoint, "status", resp.StatusCode)
		return resp.StatusCode, nil
	}

	if err := json.NewDecoder(io.LimitReader(resp.Body, maxBodyBytes)).Decode(out); err != nil {
		return resp.StatusCode, docserrors.NewInternalError("UPSTREAM_DECODE", "Internal server error", err).
			WithContext("url", endpoint)
	}

	return resp.StatusCode, nil
}

// contents fetches a GitHub contents API entry and returns the decoded file.
// ok is false for every failure.
func (c *Client) contents(ctx context.Context, endpoint string) ([]byte, bool) {
	var content githubContent
	status, err := c.getJSON(ctx, endpoint, githubAccept, &content)
	if err != nil {
		c.logger.Warn(ctx, err, "Failed to fetch repository file", "url", endpoint)
		return nil, false
	}
	if !isOK(status) || content.Encoding != "base64" || content.Content == "" {
		return nil, false
	}

	// GitHub wraps base64 content at 60 columns.
	cleaned := strings.NewReplacer("\n", "", "\r", "").Replace(content.Content)
	raw, err := base64.StdEncoding.DecodeString(cleaned)
	if err != nil {
		c.logger.Warn(ctx, err, "Failed to decode repository file", "url", endpoint)
		return nil, false
	}

	return raw, true
}
