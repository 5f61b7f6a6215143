package github

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const (
	defaultTimeout      = 45 * time.Second
	defaultUserAgent    = "logograb/dev"
	maxRevisionBytes    = 1 << 10
	maxTreeBytes        = 64 << 20
	maxDownloadBytes    = 16 << 20
	revisionMediaType   = "application/vnd.github.sha"
	githubJSONMediaType = "application/vnd.github+json"
)

// ErrTruncatedTree reports a recursive listing GitHub cut short. A partial
// listing is never indexed.
var ErrTruncatedTree = errors.New("github tree listing truncated")

// TreeNode is a single node of a recursive git tree listing.
type TreeNode struct {
	Path string `json:"path"`
	Type string `json:"type"`
	SHA  string `json:"sha"`
	Size int64  `json:"size"`
}

type treeResponse struct {
	SHA       string     `json:"sha"`
	Tree      []TreeNode `json:"tree"`
	Truncated bool       `json:"truncated"`
}

// StatusError reports a non-success HTTP status from GitHub.
type StatusError struct {
	Operation  string
	StatusCode int
	Latency    time.Duration
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("github %s returned %d (latency=%v)", e.Operation, e.StatusCode, e.Latency)
}

// Client provides access to one GitHub repository branch.
type Client struct {
	owner      string
	repo       string
	branch     string
	apiBaseURL string
	rawBaseURL string
	token      string
	userAgent  string
	httpClient *http.Client
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient overrides the default HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		if client != nil {
			c.httpClient = client
		}
	}
}

// WithToken sets the bearer token sent to the API.
func WithToken(token string) Option {
	return func(c *Client) {
		c.token = strings.TrimSpace(token)
	}
}

// WithUserAgent overrides the User-Agent header.
func WithUserAgent(agent string) Option {
	return func(c *Client) {
		if agent = strings.TrimSpace(agent); agent != "" {
			c.userAgent = agent
		}
	}
}

// WithRawBaseURL overrides the raw content host.
func WithRawBaseURL(base string) Option {
	return func(c *Client) {
		if base = strings.TrimSpace(base); base != "" {
			c.rawBaseURL = strings.TrimRight(base, "/")
		}
	}
}

// Repository identifies the catalog repository branch.
type Repository struct {
	Owner      string
	Repo       string
	Branch     string
	APIBaseURL string
}

// New creates a GitHub client for the given repository.
func New(repo Repository, opts ...Option) (*Client, error) {
	owner := strings.TrimSpace(repo.Owner)
	name := strings.TrimSpace(repo.Repo)
	branch := strings.TrimSpace(repo.Branch)
	if owner == "" || name == "" {
		return nil, errors.New("github owner and repo required")
	}
	if branch == "" {
		return nil, errors.New("github branch required")
	}
	apiBase := strings.TrimSpace(repo.APIBaseURL)
	if apiBase == "" {
		return nil, errors.New("github api base url required")
	}
	client := &Client{
		owner:      owner,
		repo:       name,
		branch:     branch,
		apiBaseURL: strings.TrimRight(apiBase, "/"),
		rawBaseURL: "https://raw.githubusercontent.com",
		userAgent:  defaultUserAgent,
		httpClient: NewHTTPClient(defaultTimeout, defaultRetryMax),
	}
	for _, opt := range opts {
		opt(client)
	}
	return client, nil
}

// Revision returns the commit SHA the branch currently points at.
func (c *Client) Revision(ctx context.Context) (string, error) {
	endpoint := fmt.Sprintf("%s/repos/%s/%s/commits/%s",
		c.apiBaseURL, url.PathEscape(c.owner), url.PathEscape(c.repo), url.PathEscape(c.branch))
	body, err := c.get(ctx, "revision", endpoint, revisionMediaType, maxRevisionBytes)
	if err != nil {
		return "", err
	}
	sha := strings.TrimSpace(string(body))
	if sha == "" {
		return "", errors.New("github revision response was empty")
	}
	return sha, nil
}

// Tree lists every node of the repository at revision.
func (c *Client) Tree(ctx context.Context, revision string) ([]TreeNode, error) {
	revision = strings.TrimSpace(revision)
	if revision == "" {
		return nil, errors.New("revision must not be empty")
	}
	endpoint, err := url.Parse(fmt.Sprintf("%s/repos/%s/%s/git/trees/%s",
		c.apiBaseURL, url.PathEscape(c.owner), url.PathEscape(c.repo), url.PathEscape(revision)))
	if err != nil {
		return nil, fmt.Errorf("parse github url: %w", err)
	}
	endpoint.RawQuery = url.Values{"recursive": {"1"}}.Encode()

	body, err := c.get(ctx, "tree", endpoint.String(), githubJSONMediaType, maxTreeBytes)
	if err != nil {
		return nil, err
	}
	var payload treeResponse
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, fmt.Errorf("decode github tree: %w", err)
	}
	if payload.Tree == nil {
		return nil, errors.New("github tree response missing tree")
	}
	if payload.Truncated {
		return nil, fmt.Errorf("%w at %s (%d nodes received)", ErrTruncatedTree, revision, len(payload.Tree))
	}
	return payload.Tree, nil
}

// RawURL returns the raw content URL for a repository path on the branch.
func (c *Client) RawURL(path string) string {
	segments := strings.Split(strings.TrimLeft(path, "/"), "/")
	for i, segment := range segments {
		segments[i] = url.PathEscape(segment)
	}
	return fmt.Sprintf("%s/%s/%s/%s/%s", c.rawBaseURL,
		url.PathEscape(c.owner), url.PathEscape(c.repo), url.PathEscape(c.branch), strings.Join(segments, "/"))
}

// Download fetches the file at path from the raw content host.
func (c *Client) Download(ctx context.Context, path string) ([]byte, error) {
	if strings.TrimSpace(path) == "" {
		return nil, errors.New("path must not be empty")
	}
	return c.get(ctx, "download", c.RawURL(path), "", maxDownloadBytes)
}

func (c *Client) get(ctx context.Context, operation, endpoint, accept string, limit int64) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("User-Agent", c.userAgent)
	if accept != "" {
		req.Header.Set("Accept", accept)
	}
	if c.token != "" && strings.HasPrefix(endpoint, c.apiBaseURL) {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	requestStart := time.Now()
	resp, err := c.httpClient.Do(req)
	latency := time.Since(requestStart)
	if err != nil {
		return nil, fmt.Errorf("github %s request (latency=%v): %w", operation, latency, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4<<10))
		return nil, &StatusError{Operation: operation, StatusCode: resp.StatusCode, Latency: latency}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, limit+1))
	if err != nil {
		return nil, fmt.Errorf("read github %s body: %w", operation, err)
	}
	if int64(len(body)) > limit {
		return nil, fmt.Errorf("github %s body exceeds %d bytes", operation, limit)
	}
	return body, nil
}
