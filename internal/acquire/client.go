package acquire

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"scribe/internal/config"
	"scribe/internal/workflow"
)

const (
	defaultUserAgent = "scribe/dev"
	defaultTimeout   = 30 * time.Second
	defaultMaxBytes  = 8 << 20
)

// ErrEmptyPage indicates the page produced no readable text.
var ErrEmptyPage = errors.New("acquire: page has no readable text")

// Config describes the acquisition client.
type Config struct {
	UserAgent  string
	Selector   string
	MaxBytes   int64
	Timeout    time.Duration
	HTTPClient *http.Client
}

// ConfigFrom maps the [acquisition] config section.
func ConfigFrom(cfg *config.Config) Config {
	if cfg == nil {
		return Config{}
	}
	return Config{
		UserAgent: cfg.Acquisition.UserAgent,
		Selector:  cfg.Acquisition.ContentSelector,
		MaxBytes:  cfg.Acquisition.MaxBytes,
		Timeout:   time.Duration(cfg.Acquisition.TimeoutSeconds) * time.Second,
	}
}

// Client fetches chapter pages.
type Client struct {
	userAgent string
	selector  selector
	maxBytes  int64
	http      *http.Client
}

// New creates a Client from cfg.
func New(cfg Config) (*Client, error) {
	sel, err := parseSelector(cfg.Selector)
	if err != nil {
		return nil, err
	}
	userAgent := strings.TrimSpace(cfg.UserAgent)
	if userAgent == "" {
		userAgent = defaultUserAgent
	}
	maxBytes := cfg.MaxBytes
	if maxBytes <= 0 {
		maxBytes = defaultMaxBytes
	}
	client := cfg.HTTPClient
	if client == nil {
		timeout := cfg.Timeout
		if timeout <= 0 {
			timeout = defaultTimeout
		}
		client = &http.Client{Timeout: timeout}
	}
	return &Client{userAgent: userAgent, selector: sel, maxBytes: maxBytes, http: client}, nil
}

// Fetch downloads rawURL and returns its readable text. label overrides the
// page-derived chapter label when non-empty.
func (c *Client) Fetch(ctx context.Context, rawURL, label string) (workflow.Acquired, error) {
	target, err := url.Parse(strings.TrimSpace(rawURL))
	if err != nil || target.Host == "" || (target.Scheme != "http" && target.Scheme != "https") {
		return workflow.Acquired{}, fmt.Errorf("acquire: invalid url %q", rawURL)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target.String(), nil)
	if err != nil {
		return workflow.Acquired{}, fmt.Errorf("acquire: build request: %w", err)
	}
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml;q=0.9,text/plain;q=0.8")

	resp, err := c.http.Do(req)
	if err != nil {
		return workflow.Acquired{}, fmt.Errorf("acquire: fetch page: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return workflow.Acquired{}, fmt.Errorf("acquire: fetch failed (%s): %s", resp.Status, strings.TrimSpace(string(snippet)))
	}
	body, err := io.ReadAll(io.LimitReader(resp.Body, c.maxBytes+1))
	if err != nil {
		return workflow.Acquired{}, fmt.Errorf("acquire: read body: %w", err)
	}
	if int64(len(body)) > c.maxBytes {
		return workflow.Acquired{}, fmt.Errorf("acquire: page exceeds %d bytes", c.maxBytes)
	}

	final := target
	if resp.Request != nil && resp.Request.URL != nil {
		final = resp.Request.URL
	}

	var page extracted
	if isPlainText(resp.Header.Get("Content-Type")) {
		page = extracted{text: normalizeText(string(body))}
	} else {
		page, err = extract(string(body), c.selector, label)
		if err != nil {
			return workflow.Acquired{}, err
		}
	}
	if page.text == "" {
		return workflow.Acquired{}, ErrEmptyPage
	}

	label = strings.TrimSpace(label)
	if label == "" {
		label = page.title
	}
	if label == "" {
		label = LabelFromURL(final)
	}
	return workflow.Acquired{Content: page.text, SourceURL: final.String(), Label: label}, nil
}

func isPlainText(contentType string) bool {
	return strings.HasPrefix(strings.ToLower(strings.TrimSpace(contentType)), "text/plain")
}
