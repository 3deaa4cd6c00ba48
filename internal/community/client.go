// Package community talks to a community map server. Maps travel as share
// codes: uploads post {name, code, creator, difficulty} and get back a
// mapId, /top lists popular maps, and /{id} returns {code}.
package community

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/trackforge/internal/codec"
	"github.com/vovakirdan/trackforge/internal/config"
	"github.com/vovakirdan/trackforge/internal/mapdoc"
	"github.com/vovakirdan/trackforge/internal/stats"
)

// maxResponseBytes bounds how much of a server reply is read.
const maxResponseBytes = 4 << 20

var (
	// ErrDisabled is returned by New when no server URL is configured.
	ErrDisabled = errors.New("community: no server configured")
	// ErrNotFound is returned when the server has no map with the given ID.
	ErrNotFound = errors.New("community: map not found")
)

// Upload is the body posted for a new map.
type Upload struct {
	Name       string        `json:"name"`
	Code       string        `json:"code"`
	Creator    string        `json:"creator"`
	Difficulty config.Rating `json:"difficulty"`
}

// Listing is one entry of the top maps list.
type Listing struct {
	ID         string        `json:"mapId"`
	Name       string        `json:"name"`
	Creator    string        `json:"creator"`
	Difficulty config.Rating `json:"difficulty"`
	Code       string        `json:"code,omitempty"`
}

type uploadResponse struct {
	MapID string `json:"mapId"`
}

type downloadResponse struct {
	Code string `json:"code"`
}

// Client is a community server client.
type Client struct {
	base    *url.URL
	creator string
	rating  config.RatingConfig
	http    *http.Client
	logger  *log.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

// WithLogger sets the logger used for request tracing.
func WithLogger(l *log.Logger) Option {
	return func(c *Client) { c.logger = l }
}

// New creates a client for cfg.Community. Difficulty is rated with
// cfg.Rating.
func New(cfg config.EditorConfig, opts ...Option) (*Client, error) {
	cc := cfg.Community
	if cc.URL == "" {
		return nil, ErrDisabled
	}
	base, err := url.Parse(strings.TrimRight(cc.URL, "/"))
	if err != nil {
		return nil, fmt.Errorf("community: bad server url: %w", err)
	}
	creator := cc.Creator
	if creator == "" {
		creator = "Anonymous"
	}
	c := &Client{
		base:    base,
		creator: creator,
		rating:  cfg.Rating,
		http:    &http.Client{Timeout: cc.Timeout},
		logger:  log.New(io.Discard),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// Upload publishes doc and returns the server's map ID.
func (c *Client) Upload(ctx context.Context, doc *mapdoc.Document) (string, error) {
	code, err := codec.EncodeShareCode(doc)
	if err != nil {
		return "", err
	}
	body, err := json.Marshal(Upload{
		Name:       doc.Name(),
		Code:       code,
		Creator:    c.creator,
		Difficulty: stats.RateDifficulty(doc, c.rating),
	})
	if err != nil {
		return "", fmt.Errorf("community: cannot encode upload: %w", err)
	}

	var resp uploadResponse
	if err := c.do(ctx, http.MethodPost, "", bytes.NewReader(body), &resp); err != nil {
		return "", err
	}
	if resp.MapID == "" {
		return "", errors.New("community: server returned no mapId")
	}
	c.logger.Info("map uploaded", "name", doc.Name(), "id", resp.MapID)
	return resp.MapID, nil
}

// Top returns the server's list of top maps.
func (c *Client) Top(ctx context.Context) ([]Listing, error) {
	var maps []Listing
	if err := c.do(ctx, http.MethodGet, "top", nil, &maps); err != nil {
		return nil, err
	}
	return maps, nil
}

// Download fetches a map by ID and decodes its share code.
func (c *Client) Download(ctx context.Context, id string) (*mapdoc.Document, error) {
	if id == "" {
		return nil, fmt.Errorf("%w: empty id", ErrNotFound)
	}
	var resp downloadResponse
	if err := c.do(ctx, http.MethodGet, url.PathEscape(id), nil, &resp); err != nil {
		return nil, err
	}
	return codec.DecodeShareCode(resp.Code)
}

func (c *Client) do(ctx context.Context, method, path string, body io.Reader, out any) error {
	target := c.base.String()
	if path != "" {
		target += "/" + path
	}
	req, err := http.NewRequestWithContext(ctx, method, target, body)
	if err != nil {
		return fmt.Errorf("community: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	c.logger.Debug("request", "method", method, "url", target)
	res, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("community: %s %s: %w", method, target, err)
	}
	defer res.Body.Close()

	if res.StatusCode == http.StatusNotFound {
		return fmt.Errorf("%w: %s", ErrNotFound, target)
	}
	if res.StatusCode < 200 || res.StatusCode > 299 {
		return fmt.Errorf("community: %s %s: %s", method, target, res.Status)
	}
	if err := json.NewDecoder(io.LimitReader(res.Body, maxResponseBytes)).Decode(out); err != nil {
		return fmt.Errorf("community: bad response from %s: %w", target, err)
	}
	return nil
}
