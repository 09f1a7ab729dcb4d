package service

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"time"
)

const defaultOMDbURL = "http://www.omdbapi.com/"

// PosterPlaceholder is substituted when OMDb has no poster for a title.
const PosterPlaceholder = "https://placehold.co/300x450?text=No+Poster"

// OMDbRating is one entry of OMDb's per-source ratings list.
type OMDbRating struct {
	Source string `json:"Source"`
	Value  string `json:"Value"`
}

// OMDbMovie is the subset of an OMDb record this app consumes. OMDb signals
// "not found" in-band with Response=False rather than a non-200 status.
type OMDbMovie struct {
	Title      string       `json:"Title"`
	Year       string       `json:"Year"`
	Runtime    string       `json:"Runtime"`
	Genre      string       `json:"Genre"`
	Director   string       `json:"Director"`
	Actors     string       `json:"Actors"`
	Plot       string       `json:"Plot"`
	Language   string       `json:"Language"`
	Country    string       `json:"Country"`
	Awards     string       `json:"Awards"`
	Ratings    []OMDbRating `json:"Ratings"`
	ImdbRating string       `json:"imdbRating"`
	Poster     string       `json:"Poster"`
	Response   string       `json:"Response"`
	Error      string       `json:"Error"`
}

// OMDbClient queries the OMDb metadata API with the server-side key.
// Calls use a short fixed timeout and are never retried; a slow provider
// surfaces as an error for the current request only.
type OMDbClient struct {
	apiKey string
	apiURL string
	client *http.Client
}

// NewOMDbClient creates a client. OMDB_API_URL overrides the endpoint,
// which tests use to point at a local stub.
func NewOMDbClient(apiKey string) *OMDbClient {
	apiURL := os.Getenv("OMDB_API_URL")
	if apiURL == "" {
		apiURL = defaultOMDbURL
	}
	return &OMDbClient{
		apiKey: apiKey,
		apiURL: apiURL,
		client: &http.Client{Timeout: 3 * time.Second},
	}
}

// Lookup fetches a movie by exact title, optionally narrowed by year.
func (c *OMDbClient) Lookup(ctx context.Context, title, year string) (*OMDbMovie, error) {
	params := url.Values{}
	params.Set("t", title)
	if year != "" {
		params.Set("y", year)
	}

	body, err := c.fetch(ctx, params)
	if err != nil {
		return nil, err
	}

	var movie OMDbMovie
	if err := json.Unmarshal(body, &movie); err != nil {
		return nil, &ParseError{RawText: string(body), Err: err}
	}
	if movie.Response == "False" {
		return nil, ErrMovieNotFound
	}
	return &movie, nil
}

// Raw performs a passthrough query and returns OMDb's response verbatim.
// Used by the /proxy endpoint so the API key never reaches the browser.
func (c *OMDbClient) Raw(ctx context.Context, params url.Values) ([]byte, error) {
	return c.fetch(ctx, params)
}

func (c *OMDbClient) fetch(ctx context.Context, params url.Values) ([]byte, error) {
	params.Set("apikey", c.apiKey)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.apiURL+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, &UpstreamError{Provider: "OMDb", Message: err.Error()}
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &UpstreamError{Provider: "OMDb", Message: err.Error()}
	}
	if resp.StatusCode != http.StatusOK {
		return nil, &UpstreamError{Provider: "OMDb", StatusCode: resp.StatusCode, Detail: string(body)}
	}
	return body, nil
}
