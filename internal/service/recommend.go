package service

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"math/rand"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

// randomPicks is the candidate pool used when the client asks for title
// "random".
var randomPicks = []string{
	"The Shawshank Redemption",
	"Inception",
	"Pulp Fiction",
	"3 Idiots",
	"Interstellar",
	"The Dark Knight",
	"Parasite",
	"Spirited Away",
}

const recommendCacheTTL = 15 * time.Minute

// Movie is the normalized projection of an OMDb record returned to clients
// and embedded in the model prompt.
type Movie struct {
	Title      string       `json:"title"`
	Year       string       `json:"year"`
	Runtime    string       `json:"runtime"`
	Genre      string       `json:"genre"`
	Director   string       `json:"director"`
	Actors     string       `json:"actors"`
	Plot       string       `json:"plot"`
	Language   string       `json:"language"`
	Country    string       `json:"country"`
	Awards     string       `json:"awards"`
	Ratings    []OMDbRating `json:"ratings"`
	ImdbRating string       `json:"imdbRating"`
	Poster     string       `json:"poster"`
}

// FlexString accepts either a JSON string or a number. Models emit movie
// years both ways regardless of what the prompt asks for.
type FlexString struct {
	Value string
}

func (f *FlexString) UnmarshalJSON(data []byte) error {
	var num float64
	if err := json.Unmarshal(data, &num); err == nil {
		f.Value = fmt.Sprintf("%d", int(num))
		return nil
	}
	var str string
	if err := json.Unmarshal(data, &str); err == nil {
		f.Value = str
		return nil
	}
	return fmt.Errorf("invalid value %s", string(data))
}

func (f FlexString) MarshalJSON() ([]byte, error) {
	return json.Marshal(f.Value)
}

// Recommendation is one similar-movie suggestion from the model, with a
// poster backfilled from OMDb when the lookup succeeds.
type Recommendation struct {
	Title  string     `json:"title"`
	Year   FlexString `json:"year"`
	Reason string     `json:"reason"`
	Poster *string    `json:"poster"`
}

// WatchNext is one ordered "watch next" pick tagged by what the viewer
// liked: story, visuals, or performances.
type WatchNext struct {
	ReasonType  string     `json:"reason_type"`
	Title       string     `json:"title"`
	Year        FlexString `json:"year,omitempty"`
	ShortReason string     `json:"short_reason"`
}

// AIResult is the parsed model output.
type AIResult struct {
	Summary         string           `json:"summary"`
	Recommendations []Recommendation `json:"recommendations"`
	WatchNext       []WatchNext      `json:"watch_next"`
	Tagline         string           `json:"tagline"`
}

// RecommendResult is the combined payload of POST /recommend.
type RecommendResult struct {
	Movie Movie    `json:"movie"`
	AI    AIResult `json:"ai"`
}

// RecommendService chains the metadata and generative-text providers:
// OMDb lookup, prompt construction, Gemini call, strict-JSON parse, and a
// sequential poster backfill for each suggested title.
type RecommendService struct {
	omdb   *OMDbClient
	gemini *GeminiClient
	redis  *redis.Client
}

// NewRecommendService wires the pipeline. redisClient may be nil; the
// response cache is then disabled.
func NewRecommendService(omdb *OMDbClient, gemini *GeminiClient, redisClient *redis.Client) *RecommendService {
	return &RecommendService{
		omdb:   omdb,
		gemini: gemini,
		redis:  redisClient,
	}
}

// Recommend runs the full pipeline for a title (or a random pick when the
// title is the sentinel "random"). All failures are terminal for the
// request except per-item poster lookups, which degrade to a nil poster.
func (s *RecommendService) Recommend(ctx context.Context, title, year string) (*RecommendResult, error) {
	if title == "" || title == "random" {
		title = randomPicks[rand.Intn(len(randomPicks))]
		year = ""
	}

	record, err := s.omdb.Lookup(ctx, title, year)
	if err != nil {
		return nil, err
	}
	movie := normalizeMovie(record)

	if cached := s.cacheGet(ctx, movie.Title, movie.Year); cached != nil {
		return cached, nil
	}

	aiText, err := s.gemini.Generate(ctx, buildRecommendPrompt(movie))
	if err != nil {
		return nil, err
	}

	cleaned := cleanModelJSON(aiText)
	var ai AIResult
	if err := json.Unmarshal([]byte(cleaned), &ai); err != nil {
		return nil, &ParseError{RawText: aiText, Err: err}
	}

	// Sequential poster backfill. A failed lookup leaves the poster nil;
	// it never fails the request.
	for i := range ai.Recommendations {
		rec := &ai.Recommendations[i]
		d, err := s.omdb.Lookup(ctx, rec.Title, rec.Year.Value)
		if err != nil || d.Poster == "" || d.Poster == "N/A" {
			rec.Poster = nil
			continue
		}
		poster := d.Poster
		rec.Poster = &poster
	}

	result := &RecommendResult{Movie: movie, AI: ai}
	s.cacheSet(ctx, result)
	return result, nil
}

func normalizeMovie(record *OMDbMovie) Movie {
	poster := record.Poster
	if poster == "" || poster == "N/A" {
		poster = PosterPlaceholder
	}
	ratings := record.Ratings
	if ratings == nil {
		ratings = []OMDbRating{}
	}
	return Movie{
		Title:      record.Title,
		Year:       record.Year,
		Runtime:    record.Runtime,
		Genre:      record.Genre,
		Director:   record.Director,
		Actors:     record.Actors,
		Plot:       record.Plot,
		Language:   record.Language,
		Country:    record.Country,
		Awards:     record.Awards,
		Ratings:    ratings,
		ImdbRating: record.ImdbRating,
		Poster:     poster,
	}
}

func buildRecommendPrompt(movie Movie) string {
	movieJSON, _ := json.MarshalIndent(movie, "", "  ")

	var b strings.Builder
	b.WriteString(`You are an expert movie recommender. Based on the following movie details (from OMDb), provide:
1) A short natural-language recommendation summary (2-3 sentences) saying who will like it.
2) 6 recommended movies similar in tone/genre/themes - for each: title, year, 1-line explanation why it's similar.
3) 3 quick "watch next" suggestions ordered: (a) if user liked the story; (b) if user liked the visuals; (c) if user liked the performances.
4) 1 short tagline we can display on the card (max 8 words).

Here is the OMDb data:
`)
	b.Write(movieJSON)
	b.WriteString(`

Respond in JSON with keys: "summary", "recommendations" (array of {title, year, reason}), "watch_next" (array of {reason_type, title, short_reason}), "tagline".
Do not include markdown formatting.`)
	return b.String()
}

func (s *RecommendService) cacheKey(title, year string) string {
	return fmt.Sprintf("recommend:%s|%s", strings.ToLower(title), year)
}

func (s *RecommendService) cacheGet(ctx context.Context, title, year string) *RecommendResult {
	if s.redis == nil {
		return nil
	}
	data, err := s.redis.Get(ctx, s.cacheKey(title, year)).Bytes()
	if err != nil {
		return nil
	}
	var result RecommendResult
	if err := json.Unmarshal(data, &result); err != nil {
		return nil
	}
	return &result
}

func (s *RecommendService) cacheSet(ctx context.Context, result *RecommendResult) {
	if s.redis == nil {
		return
	}
	data, err := json.Marshal(result)
	if err != nil {
		return
	}
	key := s.cacheKey(result.Movie.Title, result.Movie.Year)
	if err := s.redis.Set(ctx, key, data, recommendCacheTTL).Err(); err != nil {
		log.Printf("[Recommend] cache write failed: %v", err)
	}
}
