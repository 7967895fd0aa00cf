package server

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/cinemind/cinemind/internal/config"
	"github.com/cinemind/cinemind/internal/database"
	"github.com/cinemind/cinemind/internal/events"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// stubAnalyzer returns a canned summary or error.
type stubAnalyzer struct {
	summary string
	err     error
}

func (s stubAnalyzer) Summarize(context.Context, string) (string, error) {
	return s.summary, s.err
}

func newTestRouter(t *testing.T, analyzer stubAnalyzer) (*gin.Engine, *gorm.DB) {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))
	bus, err := events.NewBus(db)
	require.NoError(t, err)
	t.Cleanup(bus.Close)
	return SetupRouter(config.Default(), db, analyzer, bus), db
}

func doGet(router http.Handler, path string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body
}

func seedCatalog(t *testing.T, db *gorm.DB, n int) {
	t.Helper()
	for i := 1; i <= n; i++ {
		movie := database.Movie{
			ID:         i,
			Title:      fmt.Sprintf("Movie %02d", i),
			Popularity: float64(100 - i),
		}
		require.NoError(t, db.Create(&movie).Error)
	}
}

func TestLiveness(t *testing.T) {
	router, _ := newTestRouter(t, stubAnalyzer{})
	w := doGet(router, "/")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Connected to CineMind API", decodeBody(t, w)["message"])
}

func TestListMoviesEnvelope(t *testing.T) {
	router, db := newTestRouter(t, stubAnalyzer{})
	seedCatalog(t, db, 25)

	w := doGet(router, "/movies?page=2&per_page=10")
	require.Equal(t, http.StatusOK, w.Code)

	body := decodeBody(t, w)
	assert.Equal(t, float64(25), body["total"])
	assert.Equal(t, float64(2), body["page"])
	assert.Equal(t, float64(10), body["per_page"])
	assert.Equal(t, float64(3), body["total_pages"])
	assert.Equal(t, true, body["has_next"])
	assert.Equal(t, true, body["has_prev"])
	assert.Len(t, body["movies"], 10)
}

func TestListMoviesToleratesBadPagination(t *testing.T) {
	router, db := newTestRouter(t, stubAnalyzer{})
	seedCatalog(t, db, 3)

	w := doGet(router, "/movies?page=banana&per_page=-1")
	require.Equal(t, http.StatusOK, w.Code)
	body := decodeBody(t, w)
	assert.Equal(t, float64(1), body["page"])
	assert.Equal(t, float64(20), body["per_page"])
}

func TestGetMovieNotFound(t *testing.T) {
	router, _ := newTestRouter(t, stubAnalyzer{})
	w := doGet(router, "/movies/99999")
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "Movie with ID 99999 not found", decodeBody(t, w)["error"])
}

func TestGetMovieDetail(t *testing.T) {
	router, db := newTestRouter(t, stubAnalyzer{})
	seedCatalog(t, db, 1)
	require.NoError(t, db.Create(&database.Genre{ID: 1, Name: "Action"}).Error)
	require.NoError(t, db.Create(&database.MovieGenre{MovieID: 1, GenreID: 1}).Error)

	w := doGet(router, "/movies/1")
	require.Equal(t, http.StatusOK, w.Code)
	body := decodeBody(t, w)
	assert.Equal(t, "Movie 01", body["title"])
	assert.Equal(t, []interface{}{"Action"}, body["genres"])
	assert.Contains(t, body, "cast_details")
}

func TestFeaturedAndPopularSplitTheRanking(t *testing.T) {
	router, db := newTestRouter(t, stubAnalyzer{})
	seedCatalog(t, db, 13)

	w := doGet(router, "/featured")
	require.Equal(t, http.StatusOK, w.Code)
	var featured []map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &featured))
	require.Len(t, featured, 3)
	assert.Equal(t, "Movie 01", featured[0]["title"])

	w = doGet(router, "/popular")
	require.Equal(t, http.StatusOK, w.Code)
	var popular []map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &popular))
	require.Len(t, popular, 10)
	// The popular slider starts where the featured ranking stops.
	assert.Equal(t, "Movie 04", popular[0]["title"])
	assert.Equal(t, "Movie 13", popular[9]["title"])
}

func TestExploreIsUncacheable(t *testing.T) {
	router, db := newTestRouter(t, stubAnalyzer{})
	seedCatalog(t, db, 4)

	w := doGet(router, "/explore")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "no-store", w.Header().Get("Cache-Control"))

	var rows []map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &rows))
	assert.Len(t, rows, 4)
}

func TestResultsRepeatedGenreParam(t *testing.T) {
	router, db := newTestRouter(t, stubAnalyzer{})
	seedCatalog(t, db, 3)
	require.NoError(t, db.Create(&database.Genre{ID: 1, Name: "Action"}).Error)
	require.NoError(t, db.Create(&database.Genre{ID: 2, Name: "Drama"}).Error)
	require.NoError(t, db.Create(&database.MovieGenre{MovieID: 1, GenreID: 1}).Error)
	require.NoError(t, db.Create(&database.MovieGenre{MovieID: 2, GenreID: 1}).Error)
	require.NoError(t, db.Create(&database.MovieGenre{MovieID: 2, GenreID: 2}).Error)

	w := doGet(router, "/results?genre=1&genre=2")
	require.Equal(t, http.StatusOK, w.Code)
	body := decodeBody(t, w)
	assert.Equal(t, float64(1), body["total"])

	movies := body["movies"].([]interface{})
	require.Len(t, movies, 1)
	entry := movies[0].(map[string]interface{})
	assert.Equal(t, "Movie 02", entry["title"])
	assert.ElementsMatch(t, []interface{}{"Action", "Drama"}, entry["genres"])
}

func TestSuggestCapsAtFive(t *testing.T) {
	router, db := newTestRouter(t, stubAnalyzer{})
	seedCatalog(t, db, 8)

	w := doGet(router, "/movies/suggest?query=movie")
	require.Equal(t, http.StatusOK, w.Code)
	var rows []map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &rows))
	assert.Len(t, rows, 5)
}

func TestMoviesByGenreUnknownID(t *testing.T) {
	router, _ := newTestRouter(t, stubAnalyzer{})
	w := doGet(router, "/movies/genre/999")
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "Genre with ID 999 not found", decodeBody(t, w)["error"])
}

func TestMoviesByGenre(t *testing.T) {
	router, db := newTestRouter(t, stubAnalyzer{})
	seedCatalog(t, db, 2)
	require.NoError(t, db.Create(&database.Genre{ID: 1, Name: "Action"}).Error)
	require.NoError(t, db.Create(&database.MovieGenre{MovieID: 1, GenreID: 1}).Error)

	w := doGet(router, "/movies/genre/1")
	require.Equal(t, http.StatusOK, w.Code)
	body := decodeBody(t, w)
	assert.Equal(t, "Action", body["genre"])
	require.Len(t, body["movies"], 1)
}

func TestLookupDumps(t *testing.T) {
	router, db := newTestRouter(t, stubAnalyzer{})
	require.NoError(t, db.Create(&database.Genre{ID: 1, Name: "Action"}).Error)
	require.NoError(t, db.Create(&database.SpokenLanguage{ID: 1, Name: "English", ISOCode: "en"}).Error)
	require.NoError(t, db.Create(&database.CastMember{ID: 1, Name: "Tom", Gender: "male"}).Error)

	w := doGet(router, "/genres")
	require.Equal(t, http.StatusOK, w.Code)
	var genres []map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &genres))
	require.Len(t, genres, 1)
	assert.Equal(t, "Action", genres[0]["name"])

	w = doGet(router, "/spoken_languages")
	require.Equal(t, http.StatusOK, w.Code)
	var languages []map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &languages))
	require.Len(t, languages, 1)
	assert.Equal(t, "en", languages[0]["iso_code"])

	w = doGet(router, "/cast")
	require.Equal(t, http.StatusOK, w.Code)
	var cast []map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &cast))
	require.Len(t, cast, 1)
	assert.Equal(t, "male", cast[0]["gender"])
	// The directory stays slim; rich actor fields live on the detail endpoint.
	assert.NotContains(t, cast[0], "biography")
}

func TestSentimentMissingMovie(t *testing.T) {
	router, _ := newTestRouter(t, stubAnalyzer{})
	w := doGet(router, "/movies/5/sentiment")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestSentimentNoReviews(t *testing.T) {
	router, db := newTestRouter(t, stubAnalyzer{summary: "positive"})
	seedCatalog(t, db, 1)

	w := doGet(router, "/movies/1/sentiment")
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "No reviews available for this movie", decodeBody(t, w)["error"])
}

func TestSentimentUpstreamFailure(t *testing.T) {
	router, db := newTestRouter(t, stubAnalyzer{err: fmt.Errorf("model unavailable")})
	require.NoError(t, db.Create(&database.Movie{ID: 1, Title: "Heat", Reviews: "great movie"}).Error)

	w := doGet(router, "/movies/1/sentiment")
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, decodeBody(t, w)["error"], "Failed to analyze sentiment")
}

func TestSentimentSummary(t *testing.T) {
	router, db := newTestRouter(t, stubAnalyzer{summary: "Overwhelmingly positive."})
	require.NoError(t, db.Create(&database.Movie{ID: 1, Title: "Heat", Reviews: "great movie"}).Error)

	w := doGet(router, "/movies/1/sentiment")
	require.Equal(t, http.StatusOK, w.Code)
	body := decodeBody(t, w)
	assert.Equal(t, float64(1), body["movie_id"])
	assert.Equal(t, "Heat", body["title"])
	assert.Equal(t, "Overwhelmingly positive.", body["sentiment_analysis"])
}

func TestDiscoveryListsRoutes(t *testing.T) {
	router, _ := newTestRouter(t, stubAnalyzer{})
	w := doGet(router, "/api")
	require.Equal(t, http.StatusOK, w.Code)

	body := decodeBody(t, w)
	routes := body["routes"].([]interface{})
	paths := make([]string, 0, len(routes))
	for _, r := range routes {
		paths = append(paths, r.(map[string]interface{})["path"].(string))
	}
	assert.Contains(t, paths, "/movies")
	assert.Contains(t, paths, "/movies/:id/sentiment")
	assert.Contains(t, paths, "/results")
}

func TestHealthReport(t *testing.T) {
	router, _ := newTestRouter(t, stubAnalyzer{})
	w := doGet(router, "/api/health")
	require.Equal(t, http.StatusOK, w.Code)

	body := decodeBody(t, w)
	assert.Equal(t, "healthy", body["status"])
	db := body["database"].(map[string]interface{})
	assert.Equal(t, "up", db["status"])
}

func TestEventLogEndpoint(t *testing.T) {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))
	bus, err := events.NewBus(db)
	require.NoError(t, err)
	t.Cleanup(bus.Close)
	router := SetupRouter(config.Default(), db, stubAnalyzer{}, bus)

	bus.Publish(events.SystemStarted, "test", nil)

	w := doGet(router, "/api/events")
	require.Equal(t, http.StatusOK, w.Code)
	body := decodeBody(t, w)
	entries := body["events"].([]interface{})
	require.Len(t, entries, 1)
	assert.Equal(t, string(events.SystemStarted), entries[0].(map[string]interface{})["type"])
}

func TestRequestIDIsEchoed(t *testing.T) {
	router, _ := newTestRouter(t, stubAnalyzer{})

	w := doGet(router, "/")
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-Request-ID", "abc-123")
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, "abc-123", w.Header().Get("X-Request-ID"))
}
