package pokeapi

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/nerdwave-nick/pokeview/internal/metrics"
)

const (
	kindPokemon = "pokemon"
	kindMove    = "move"
)

type Cache interface {
	// set, with value being a structure
	Set(endpoint string, value any) error
	// get, unmarshals into value and reports whether something was found
	Get(endpoint string, value any) (bool, error)
}

type Client struct {
	cache   Cache
	client  http.Client
	baseURL string
	metrics *metrics.Metrics
}

// NewClient builds a catalog client. baseURL is the pokemon collection, e.g.
// https://pokeapi.co/api/v2/pokemon.
func NewClient(cache Cache, client http.Client, baseURL string, m *metrics.Metrics) *Client {
	return &Client{
		cache:   cache,
		client:  client,
		baseURL: strings.TrimSuffix(baseURL, "/"),
		metrics: m,
	}
}

// PokemonURL is the endpoint of one record.
func (c *Client) PokemonURL(id int) string {
	return fmt.Sprintf("%s/%d/", c.baseURL, id)
}

// Pokemon reads one record document.
func (c *Client) Pokemon(ctx context.Context, id int) (*Pokemon, error) {
	return do[Pokemon](ctx, c, kindPokemon, c.PokemonURL(id))
}

// MoveDetail reads a move document from the absolute url found in a
// record's move list.
func (c *Client) MoveDetail(ctx context.Context, url string) (*Move, error) {
	return do[Move](ctx, c, kindMove, url)
}

func do[T any](ctx context.Context, c *Client, kind, url string) (*T, error) {
	value := new(T)
	found, err := c.cache.Get(url, value)
	if err != nil {
		slog.Warn("cache lookup failed, asking the catalog", slog.String("endpoint", url), slog.Any("error", err))
	} else if found {
		return value, nil
	}

	start := time.Now()
	v, err := fetch[T](ctx, &c.client, url)
	c.metrics.ObserveRequest(kind, outcomeLabel(err), time.Since(start))
	if err != nil {
		return nil, err
	}

	if err := c.cache.Set(url, v); err != nil {
		slog.Warn("caching catalog response", slog.String("endpoint", url), slog.Any("error", err))
	}
	return v, nil
}

func fetch[T any](ctx context.Context, client *http.Client, url string) (*T, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("building request for %s: %w", url, err)
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, ErrConnection{Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, ErrNotFound{URL: url}
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, ErrStatus{URL: url, Code: resp.StatusCode}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, ErrConnection{Err: err}
	}
	v := new(T)
	if err := json.Unmarshal(body, v); err != nil {
		return nil, ErrDecode{Err: err}
	}
	return v, nil
}
