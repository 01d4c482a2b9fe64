// Package enrich fetches preview metadata (title, description, image) for a
// saved link. Extraction never fails from the caller's point of view: any
// problem yields empty metadata.
package enrich

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/dmitrijs2005/myday/internal/common"
	"github.com/dmitrijs2005/myday/internal/logging"
	"github.com/doyensec/safeurl"
	"github.com/microcosm-cc/bluemonday"
	"golang.org/x/net/html"
	"golang.org/x/time/rate"
)

const (
	MaxTitleLen       = 200
	MaxDescriptionLen = 300

	DefaultTimeout = 10 * time.Second
	maxBodyBytes   = 1 << 20
	userAgent      = "Mozilla/5.0 (compatible; myday/1.0; +https://github.com/dmitrijs2005/myday)"
)

// Metadata is the preview of a URL. Empty fields mean "not found".
type Metadata struct {
	Title       string
	Description string
	ImageURL    string
}

// Extractor returns metadata for a URL, or empty Metadata on any failure.
type Extractor interface {
	Extract(ctx context.Context, rawURL string) Metadata
}

// Options configures a Fetcher. Zero values pick defaults.
type Options struct {
	Timeout time.Duration
	// Client overrides the SSRF-safe HTTP client.
	Client *http.Client
	// RequestsPerSecond caps outbound fetches; 0 means 2.
	RequestsPerSecond float64
	Logger            logging.Logger
}

// Fetcher downloads a page and reads its Open Graph, Twitter card and
// standard head tags.
type Fetcher struct {
	client  *http.Client
	limiter *rate.Limiter
	policy  *bluemonday.Policy
	timeout time.Duration
	logger  logging.Logger
}

func NewFetcher(opts Options) *Fetcher {
	if opts.Timeout <= 0 {
		opts.Timeout = DefaultTimeout
	}
	if opts.RequestsPerSecond <= 0 {
		opts.RequestsPerSecond = 2
	}
	if opts.Logger == nil {
		opts.Logger = logging.Nop{}
	}
	client := opts.Client
	if client == nil {
		cfg := safeurl.GetConfigBuilder().
			SetTimeout(opts.Timeout).
			SetAllowedSchemes("http", "https").
			SetAllowedPorts(80, 443).
			Build()
		client = safeurl.Client(cfg).Client
	}
	return &Fetcher{
		client:  client,
		limiter: rate.NewLimiter(rate.Limit(opts.RequestsPerSecond), 1),
		policy:  bluemonday.StrictPolicy(),
		timeout: opts.Timeout,
		logger:  opts.Logger,
	}
}

func (f *Fetcher) Extract(ctx context.Context, rawURL string) Metadata {
	md, err := f.fetch(ctx, rawURL)
	if err != nil {
		f.logger.Warn(ctx, "metadata extraction failed", "url", rawURL, "error", err)
		return Metadata{}
	}
	return md
}

func (f *Fetcher) fetch(ctx context.Context, rawURL string) (Metadata, error) {
	u, err := url.Parse(rawURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return Metadata{}, fmt.Errorf("%w: unsupported url %q", common.ErrMetadataExtraction, rawURL)
	}

	ctx, cancel := context.WithTimeout(ctx, f.timeout)
	defer cancel()

	if err := f.limiter.Wait(ctx); err != nil {
		return Metadata{}, fmt.Errorf("%w: %v", common.ErrMetadataExtraction, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return Metadata{}, fmt.Errorf("%w: %v", common.ErrMetadataExtraction, err)
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml")

	resp, err := f.client.Do(req)
	if err != nil {
		return Metadata{}, fmt.Errorf("%w: %v", common.ErrMetadataExtraction, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return Metadata{}, fmt.Errorf("%w: status %d", common.ErrMetadataExtraction, resp.StatusCode)
	}

	md := Parse(io.LimitReader(resp.Body, maxBodyBytes), resp.Request.URL)
	md.Title = f.clean(md.Title, MaxTitleLen)
	md.Description = f.clean(md.Description, MaxDescriptionLen)
	return md, nil
}

// clean strips markup, collapses whitespace and truncates to max runes.
func (f *Fetcher) clean(s string, max int) string {
	s = html.UnescapeString(f.policy.Sanitize(s))
	s = strings.Join(strings.Fields(s), " ")
	return Truncate(s, max)
}

// Truncate cuts s to at most max runes.
func Truncate(s string, max int) string {
	if utf8.RuneCountInString(s) <= max {
		return s
	}
	r := []rune(s)
	return string(r[:max])
}
