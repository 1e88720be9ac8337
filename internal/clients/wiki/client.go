// Package wiki is the MediaWiki API client used to fetch page wikitext and
// page revision metadata.
package wiki

//go:generate mockgen -destination=mock/mock_client.go -package=wikimock github.com/KirkDiggler/lenna/internal/clients/wiki Client

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/KirkDiggler/lenna/internal/errors"
)

const (
	// DefaultBaseURL is the api.php endpoint of the wiki.
	DefaultBaseURL = "https://iopwiki.com/api.php"
	// DefaultUserAgent identifies the client to the wiki operators.
	DefaultUserAgent = "LennaBot/1.0 (https://github.com/KirkDiggler/lenna)"

	// TouchedLayout is the timestamp layout of the info query.
	TouchedLayout = "2006-01-02T15:04:05Z"

	maxResponseBytes = 16 << 20
)

// Client defines the interface for wiki API interactions
type Client interface {
	// FetchPage fetches the current wikitext of a page, following redirects.
	// Returns errors.RemoteQueryFailed for transport, status or API errors
	FetchPage(ctx context.Context, title string) (*Page, error)

	// FetchLastModified returns when the page last changed.
	// Returns errors.RemoteQueryFailed for transport, status or API errors
	// and for pages that do not exist
	FetchLastModified(ctx context.Context, title string) (time.Time, error)
}

// Page is a fetched page. Payload is the raw API response, which is what
// the page cache stores.
type Page struct {
	Title    string
	Wikitext string
	Payload  []byte
}

// Config contains configuration options for the wiki client.
type Config struct {
	// BaseURL of api.php (optional, defaults to DefaultBaseURL)
	BaseURL string
	// UserAgent header (optional, defaults to DefaultUserAgent)
	UserAgent string
	// From header with a contact address (optional)
	From string
	// HTTPTimeout for API requests (optional, defaults to 30 seconds)
	HTTPTimeout time.Duration
	// HTTPClient overrides the client built from HTTPTimeout (optional)
	HTTPClient *http.Client
}

// Validate validates the Config and sets defaults if not provided.
func (cfg *Config) Validate() error {
	if cfg == nil {
		return errors.InvalidArgument("config cannot be nil")
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if _, err := url.Parse(cfg.BaseURL); err != nil {
		return errors.InvalidArgumentf("invalid base URL %q", cfg.BaseURL)
	}
	if cfg.UserAgent == "" {
		cfg.UserAgent = DefaultUserAgent
	}
	if cfg.HTTPTimeout == 0 {
		cfg.HTTPTimeout = 30 * time.Second
	}
	return nil
}

type client struct {
	baseURL    string
	userAgent  string
	from       string
	httpClient *http.Client
}

// New creates a new wiki client with the given configuration.
func New(cfg *Config) (Client, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: cfg.HTTPTimeout}
	}

	return &client{
		baseURL:    cfg.BaseURL,
		userAgent:  cfg.UserAgent,
		from:       cfg.From,
		httpClient: httpClient,
	}, nil
}

type apiError struct {
	Code string `json:"code"`
	Info string `json:"info"`
}

type parseResponse struct {
	Error *apiError `json:"error"`
	Parse *struct {
		Title    string `json:"title"`
		Wikitext struct {
			Text *string `json:"*"`
		} `json:"wikitext"`
	} `json:"parse"`
}

type infoResponse struct {
	Error *apiError `json:"error"`
	Query *struct {
		Pages map[string]struct {
			Title   string  `json:"title"`
			Touched string  `json:"touched"`
			Missing *string `json:"missing"`
		} `json:"pages"`
	} `json:"query"`
}

func (c *client) FetchPage(ctx context.Context, title string) (*Page, error) {
	body, err := c.get(ctx, url.Values{
		"action":    {"parse"},
		"prop":      {"wikitext"},
		"format":    {"json"},
		"redirects": {"1"},
		"page":      {title},
	})
	if err != nil {
		return nil, errors.Wrapf(err, "failed to fetch page %s", title).WithMeta("page", title)
	}

	wikitext, resolved, err := decodeParse(body)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to fetch page %s", title).WithMeta("page", title)
	}

	slog.DebugContext(ctx, "fetched wiki page", "page", title, "bytes", len(body))
	return &Page{
		Title:    resolved,
		Wikitext: wikitext,
		Payload:  body,
	}, nil
}

func (c *client) FetchLastModified(ctx context.Context, title string) (time.Time, error) {
	body, err := c.get(ctx, url.Values{
		"action": {"query"},
		"format": {"json"},
		"prop":   {"info"},
		"titles": {title},
	})
	if err != nil {
		return time.Time{}, errors.Wrapf(err, "failed to query page %s", title).WithMeta("page", title)
	}

	var resp infoResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return time.Time{}, errors.WrapWithCodef(err, errors.CodeRemoteQueryFailed, "undecodable info response for %s", title).
			WithMeta("page", title)
	}
	if resp.Error != nil {
		return time.Time{}, errors.RemoteQueryFailedf("api error %s: %s", resp.Error.Code, resp.Error.Info).
			WithMeta("page", title)
	}
	if resp.Query == nil || len(resp.Query.Pages) == 0 {
		return time.Time{}, errors.RemoteQueryFailedf("no page info for %s", title).WithMeta("page", title)
	}

	for _, page := range resp.Query.Pages {
		if page.Missing != nil {
			return time.Time{}, errors.RemoteQueryFailedf("page %s does not exist", title).WithMeta("page", title)
		}
		touched, err := time.Parse(TouchedLayout, page.Touched)
		if err != nil {
			return time.Time{}, errors.WrapWithCodef(err, errors.CodeRemoteQueryFailed, "invalid touched timestamp %q", page.Touched).
				WithMeta("page", title)
		}
		return touched, nil
	}
	return time.Time{}, nil
}

func (c *client) get(ctx context.Context, params url.Values) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"?"+params.Encode(), nil)
	if err != nil {
		return nil, errors.WrapWithCode(err, errors.CodeRemoteQueryFailed, "failed to build request")
	}
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "application/json")
	if c.from != "" {
		req.Header.Set("From", c.from)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, errors.FromContext(ctxErr, "request abandoned")
		}
		return nil, errors.WrapWithCode(err, errors.CodeRemoteQueryFailed, "request failed")
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode != http.StatusOK {
		return nil, errors.RemoteQueryFailed(fmt.Sprintf("unexpected status %d", resp.StatusCode)).
			WithMeta("status", resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, errors.WrapWithCode(err, errors.CodeRemoteQueryFailed, "failed to read response")
	}
	return body, nil
}

// decodeParse pulls the wikitext out of a parse response.
func decodeParse(payload []byte) (wikitext, title string, err error) {
	var resp parseResponse
	if err := json.Unmarshal(payload, &resp); err != nil {
		return "", "", errors.WrapWithCode(err, errors.CodeRemoteQueryFailed, "undecodable parse response")
	}
	if resp.Error != nil {
		return "", "", errors.RemoteQueryFailedf("api error %s: %s", resp.Error.Code, resp.Error.Info)
	}
	if resp.Parse == nil || resp.Parse.Wikitext.Text == nil {
		return "", "", errors.RemoteQueryFailed("parse response has no wikitext")
	}
	return *resp.Parse.Wikitext.Text, resp.Parse.Title, nil
}

// Wikitext extracts the wikitext from a cached parse payload. A payload that
// does not decode is reported as an extraction failure since it was
// accepted when it was fetched.
func Wikitext(payload []byte) (string, error) {
	wikitext, _, err := decodeParse(payload)
	if err != nil {
		return "", errors.WrapWithCode(err, errors.CodeExtractionFailed, "cached payload has no wikitext").
			WithMeta(string(errors.KindField), "parse.wikitext")
	}
	return wikitext, nil
}
