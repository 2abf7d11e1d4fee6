// Package lookup calls the Nexon open API to resolve a character name to
// its current level, class, and portrait. The lookup is best effort by
// contract: every failure degrades to a no-data result and never blocks
// period or rank computation. No retries.
package lookup

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// Default client configuration constants.
const (
	defaultBaseURL = "https://open.api.nexon.com/maplestorytw/v1"
	defaultTimeout = 5 * time.Second
	defaultTTL     = time.Hour
)

// Status classifies a lookup outcome. Disabled (no credential configured)
// is distinguishable from Unavailable (network error, not found, rate
// limited), but both resolve to "no data" for the analytics core.
type Status string

const (
	StatusOK          Status = "ok"
	StatusDisabled    Status = "disabled"
	StatusUnavailable Status = "unavailable"
)

// Character is the small record returned for a resolved name.
type Character struct {
	Name           string `json:"name"`
	Level          int    `json:"level"`
	Job            string `json:"job"`
	ImageRef       string `json:"image_ref"`
	RecentlyActive bool   `json:"recently_active"`
}

// Result carries either a character or an explicit no-data status with a
// reason code for the presentation layer.
type Result struct {
	Status    Status     `json:"status"`
	Reason    string     `json:"reason,omitempty"`
	Character *Character `json:"character,omitempty"`
}

// Client resolves character names, caching results per name for a TTL.
type Client struct {
	apiKey  string
	baseURL string
	http    *http.Client
	cache   *ttlCache
}

// Option applies a configuration option to the Client.
type Option func(*Client)

// WithAPIKey sets the Nexon open API credential. An empty key leaves the
// lookup feature disabled.
func WithAPIKey(key string) Option {
	return func(c *Client) {
		c.apiKey = strings.TrimSpace(key)
	}
}

// WithBaseURL overrides the API base URL, mainly for tests.
func WithBaseURL(u string) Option {
	return func(c *Client) {
		if u != "" {
			c.baseURL = strings.TrimRight(u, "/")
		}
	}
}

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) {
		if h != nil {
			c.http = h
		}
	}
}

// WithCacheTTL bounds how long a resolved character stays valid.
// Staleness within the TTL is an accepted trade-off, not a bug.
func WithCacheTTL(ttl time.Duration) Option {
	return func(c *Client) {
		if ttl > 0 {
			c.cache = newTTLCache(ttl)
		}
	}
}

// New creates a lookup client with default configuration.
func New(opts ...Option) *Client {
	c := &Client{
		baseURL: defaultBaseURL,
		http:    &http.Client{Timeout: defaultTimeout},
		cache:   newTTLCache(defaultTTL),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Enabled reports whether a credential is configured.
func (c *Client) Enabled() bool {
	return c.apiKey != ""
}

// Lookup resolves a character name. Successful and unavailable results
// are both cached so a flapping upstream is not hammered per request.
func (c *Client) Lookup(ctx context.Context, name string) Result {
	if !c.Enabled() {
		return Result{Status: StatusDisabled, Reason: "no api key configured"}
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return Result{Status: StatusUnavailable, Reason: "empty name"}
	}
	if res, ok := c.cache.get(name); ok {
		return res
	}

	res := c.resolve(ctx, name)
	c.cache.put(name, res)
	return res
}

// resolve performs the two-step call: name -> ocid, then ocid -> basics.
func (c *Client) resolve(ctx context.Context, name string) Result {
	var idResp struct {
		OCID string `json:"ocid"`
	}
	q := url.Values{"character_name": {name}}
	if err := c.getJSON(ctx, "/id", q, &idResp); err != nil {
		return Result{Status: StatusUnavailable, Reason: err.Error()}
	}
	if idResp.OCID == "" {
		return Result{Status: StatusUnavailable, Reason: "character not found"}
	}

	var basic struct {
		Name       string `json:"character_name"`
		Level      int    `json:"character_level"`
		Class      string `json:"character_class"`
		Image      string `json:"character_image"`
		AccessFlag string `json:"access_flag"`
	}
	q = url.Values{"ocid": {idResp.OCID}}
	if err := c.getJSON(ctx, "/character/basic", q, &basic); err != nil {
		return Result{Status: StatusUnavailable, Reason: err.Error()}
	}

	return Result{
		Status: StatusOK,
		Character: &Character{
			Name:           name,
			Level:          basic.Level,
			Job:            basic.Class,
			ImageRef:       basic.Image,
			RecentlyActive: basic.AccessFlag == "true",
		},
	}
}

func (c *Client) getJSON(ctx context.Context, path string, q url.Values, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path+"?"+q.Encode(), nil)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("x-nxopen-api-key", c.apiKey)
	req.Header.Set("accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("call %s: %w", path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%s returned status %d", path, resp.StatusCode)
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode %s response: %w", path, err)
	}
	return nil
}
