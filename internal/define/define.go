// Package define looks up short word definitions from a dictionary API.
package define

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"
	"unicode"

	"github.com/charmbracelet/log"
	"golang.org/x/time/rate"
)

// DefaultEndpoint serves responses in the dictionaryapi.dev format.
const DefaultEndpoint = "https://api.dictionaryapi.dev/api/v2/entries/en"

// ErrNotFound indicates the dictionary has no entry for the word.
var ErrNotFound = errors.New("no definition found")

// Client queries a dictionary endpoint, caching answers and limiting the
// request rate.
type Client struct {
	endpoint string
	http     *http.Client
	limiter  *rate.Limiter

	mu    sync.Mutex
	cache map[string]entry
}

type entry struct {
	definition string
	found      bool
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

// WithRate limits lookups to perSecond requests per second. Zero or less
// disables the limit.
func WithRate(perSecond float64) Option {
	return func(c *Client) {
		if perSecond <= 0 {
			c.limiter = rate.NewLimiter(rate.Inf, 1)
			return
		}
		c.limiter = rate.NewLimiter(rate.Limit(perSecond), 1)
	}
}

// WithTimeout sets the per-request timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.http.Timeout = d }
}

// New creates a Client for endpoint, or DefaultEndpoint when empty.
func New(endpoint string, opts ...Option) *Client {
	if endpoint == "" {
		endpoint = DefaultEndpoint
	}
	c := &Client{
		endpoint: strings.TrimRight(endpoint, "/"),
		http:     &http.Client{Timeout: 5 * time.Second},
		limiter:  rate.NewLimiter(rate.Limit(2), 1),
		cache:    make(map[string]entry),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// response mirrors the parts of a dictionaryapi.dev entry we read.
type response []struct {
	Word     string `json:"word"`
	Meanings []struct {
		PartOfSpeech string `json:"partOfSpeech"`
		Definitions  []struct {
			Definition string `json:"definition"`
		} `json:"definitions"`
	} `json:"meanings"`
}

// Define returns the first definition of word, prefixed with its part of
// speech. Surrounding punctuation is ignored. A word without an entry
// returns "" and ErrNotFound.
func (c *Client) Define(ctx context.Context, word string) (string, error) {
	w := Normalize(word)
	if w == "" {
		return "", fmt.Errorf("%w: %q", ErrNotFound, word)
	}

	c.mu.Lock()
	cached, ok := c.cache[w]
	c.mu.Unlock()
	if ok {
		if !cached.found {
			return "", fmt.Errorf("%w: %q", ErrNotFound, w)
		}
		return cached.definition, nil
	}

	if err := c.limiter.Wait(ctx); err != nil {
		return "", err
	}

	def, err := c.lookup(ctx, w)
	if err != nil && !errors.Is(err, ErrNotFound) {
		return "", err
	}

	c.mu.Lock()
	c.cache[w] = entry{definition: def, found: err == nil}
	c.mu.Unlock()
	return def, err
}

func (c *Client) lookup(ctx context.Context, word string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.endpoint+"/"+url.PathEscape(word), nil)
	if err != nil {
		return "", err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("dictionary lookup %q: %w", word, err)
	}
	defer resp.Body.Close()
	log.Debug("dictionary lookup", "word", word, "status", resp.StatusCode)

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return "", fmt.Errorf("%w: %q", ErrNotFound, word)
	case resp.StatusCode != http.StatusOK:
		return "", fmt.Errorf("dictionary lookup %q: unexpected status %s", word, resp.Status)
	}

	var body response
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return "", fmt.Errorf("decode definition of %q: %w", word, err)
	}
	for _, e := range body {
		for _, m := range e.Meanings {
			for _, d := range m.Definitions {
				if d.Definition == "" {
					continue
				}
				if m.PartOfSpeech == "" {
					return d.Definition, nil
				}
				return m.PartOfSpeech + ": " + d.Definition, nil
			}
		}
	}
	return "", fmt.Errorf("%w: %q", ErrNotFound, word)
}

// Normalize lowercases word and trims surrounding punctuation.
func Normalize(word string) string {
	w := strings.TrimFunc(word, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsNumber(r)
	})
	return strings.ToLower(w)
}
