// Package handlers contains the HTTP request handlers, organized by
// functionality.
package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/cinemind/cinemind/internal/database"
	"github.com/cinemind/cinemind/internal/movies"
)

// MovieHandler serves the movie listing, search and detail endpoints.
type MovieHandler struct {
	db        *gorm.DB
	engine    *movies.Engine
	assembler *movies.Assembler
}

func NewMovieHandler(db *gorm.DB) *MovieHandler {
	return &MovieHandler{
		db:        db,
		engine:    movies.NewEngine(db),
		assembler: movies.NewAssembler(movies.NewResolver(db)),
	}
}

// intQuery reads an integer query parameter, falling back to def on missing
// or malformed values. Bad pagination input is tolerated, never rejected.
func intQuery(c *gin.Context, name string, def int) int {
	raw := c.Query(name)
	if raw == "" {
		return def
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return def
	}
	return n
}

// pageEnvelope is the shared pagination envelope for list endpoints.
func pageEnvelope(page *movies.Page, records interface{}) gin.H {
	return gin.H{
		"total":       page.Total,
		"page":        page.Page,
		"per_page":    page.PerPage,
		"total_pages": page.TotalPages,
		"has_next":    page.HasNext,
		"has_prev":    page.HasPrev,
		"movies":      records,
	}
}

// ListMovies returns the paginated movie catalog ordered by popularity, with
// denormalized country and language names.
func (h *MovieHandler) ListMovies(c *gin.Context) {
	page, err := h.engine.Search(movies.SearchFilter{
		Page:    intQuery(c, "page", movies.DefaultPage),
		PerPage: intQuery(c, "per_page", movies.DefaultPerPage),
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve movies"})
		return
	}

	records, err := h.assembler.ListEntries(page.Movies)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to assemble movie records"})
		return
	}

	c.JSON(http.StatusOK, pageEnvelope(page, records))
}

// GetMovie returns the full detail record for one movie.
func (h *MovieHandler) GetMovie(c *gin.Context) {
	idStr := c.Param("id")
	id, err := strconv.Atoi(idStr)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": fmt.Sprintf("Movie with ID %s not found", idStr)})
		return
	}

	movie, err := h.engine.GetByID(id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": fmt.Sprintf("Movie with ID %d not found", id)})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve movie"})
		return
	}

	detail, err := h.assembler.DetailRecord(movie)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to assemble movie record"})
		return
	}

	c.JSON(http.StatusOK, detail)
}

// MovieIDs returns every movie id in the catalog.
func (h *MovieHandler) MovieIDs(c *gin.Context) {
	ids, err := h.engine.AllIDs()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list movie ids"})
		return
	}

	type idRecord struct {
		ID int `json:"id"`
	}
	records := make([]idRecord, 0, len(ids))
	for _, id := range ids {
		records = append(records, idRecord{ID: id})
	}
	c.JSON(http.StatusOK, records)
}

// Featured returns the top three movies by popularity with genre names
// attached.
func (h *MovieHandler) Featured(c *gin.Context) {
	rows, err := h.engine.TopByPopularity(0, 3)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve featured movies"})
		return
	}

	records, err := h.assembler.FeaturedEntries(rows)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to assemble featured movies"})
		return
	}
	c.JSON(http.StatusOK, records)
}

// Popular returns popularity ranks 4 through 13: the slider right after the
// featured top three, not a top-10.
func (h *MovieHandler) Popular(c *gin.Context) {
	rows, err := h.engine.TopByPopularity(3, 10)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve popular movies"})
		return
	}
	c.JSON(http.StatusOK, h.assembler.PosterEntries(rows))
}

// Explore returns ten randomly ordered movies. Every call reshuffles, so the
// response is marked uncacheable.
func (h *MovieHandler) Explore(c *gin.Context) {
	rows, err := h.engine.Explore(10)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to sample movies"})
		return
	}
	c.Header("Cache-Control", "no-store")
	c.JSON(http.StatusOK, h.assembler.PosterEntries(rows))
}

// Results serves the search grid: full filter, sort and pagination support,
// with genre accepted as a repeated parameter forming an AND-match set.
func (h *MovieHandler) Results(c *gin.Context) {
	var genreIDs []int
	for _, raw := range c.QueryArray("genre") {
		id, err := strconv.Atoi(raw)
		if err != nil {
			continue
		}
		genreIDs = append(genreIDs, id)
	}

	page, err := h.engine.Search(movies.SearchFilter{
		TitleContains: c.Query("query"),
		GenreIDs:      genreIDs,
		LanguageCode:  c.Query("language"),
		SortBy:        c.Query("sort_by"),
		Order:         c.Query("order"),
		Page:          intQuery(c, "page", movies.DefaultPage),
		PerPage:       intQuery(c, "per_page", movies.DefaultPerPage),
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to search movies"})
		return
	}

	records, err := h.assembler.ResultEntries(page.Movies)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to assemble search results"})
		return
	}

	c.JSON(http.StatusOK, pageEnvelope(page, records))
}

// Search serves the search bar: independently optional title, genre and
// spoken-language filters, conjunctive when combined.
func (h *MovieHandler) Search(c *gin.Context) {
	rows, err := h.engine.QuickSearch(
		c.Query("title"),
		intQuery(c, "genre_id", 0),
		intQuery(c, "language_id", 0),
	)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to search movies"})
		return
	}
	c.JSON(http.StatusOK, h.assembler.MatchEntries(rows))
}

// Suggest returns up to five title matches for type-ahead suggestions.
func (h *MovieHandler) Suggest(c *gin.Context) {
	rows, err := h.engine.SuggestByTitle(c.Query("query"), 5)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to suggest movies"})
		return
	}
	c.JSON(http.StatusOK, h.assembler.Refs(rows))
}

// lookupNotFound writes the standard 404 envelope for a missing lookup row.
func lookupNotFound(c *gin.Context, kind string, id int) {
	c.JSON(http.StatusNotFound, gin.H{"error": fmt.Sprintf("%s with ID %d not found", kind, id)})
}

// relationMovies loads the lookup entity named by kind, then answers with
// its name and the movies linked to it. The existence check runs first so a
// bad id yields a 404 instead of a nil dereference.
func (h *MovieHandler) relationMovies(c *gin.Context, kind, field string, lookup func(id int) (string, error), list func(id int) ([]database.Movie, error)) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": fmt.Sprintf("%s with ID %s not found", kind, c.Param("id"))})
		return
	}

	name, err := lookup(id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		lookupNotFound(c, kind, id)
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load " + field})
		return
	}

	rows, err := list(id)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list movies"})
		return
	}

	c.JSON(http.StatusOK, gin.H{field: name, "movies": h.assembler.Refs(rows)})
}

// MoviesByGenre lists the movies linked to one genre.
func (h *MovieHandler) MoviesByGenre(c *gin.Context) {
	h.relationMovies(c, "Genre", "genre",
		func(id int) (string, error) {
			var genre database.Genre
			err := h.db.First(&genre, id).Error
			return genre.Name, err
		},
		h.engine.MoviesByGenre,
	)
}

// MoviesByKeyword lists the movies linked to one keyword.
func (h *MovieHandler) MoviesByKeyword(c *gin.Context) {
	h.relationMovies(c, "Keyword", "keyword",
		func(id int) (string, error) {
			var keyword database.Keyword
			err := h.db.First(&keyword, id).Error
			return keyword.Name, err
		},
		h.engine.MoviesByKeyword,
	)
}

// MoviesByActor lists the movies an actor appears in.
func (h *MovieHandler) MoviesByActor(c *gin.Context) {
	h.relationMovies(c, "Actor", "actor",
		func(id int) (string, error) {
			var actor database.CastMember
			err := h.db.First(&actor, id).Error
			return actor.Name, err
		},
		h.engine.MoviesByActor,
	)
}

// MoviesByCountry lists the movies produced in one country.
func (h *MovieHandler) MoviesByCountry(c *gin.Context) {
	h.relationMovies(c, "Country", "country",
		func(id int) (string, error) {
			var country database.ProductionCountry
			err := h.db.First(&country, id).Error
			return country.Name, err
		},
		h.engine.MoviesByCountry,
	)
}

// MoviesByLanguage lists the movies spoken in one language.
func (h *MovieHandler) MoviesByLanguage(c *gin.Context) {
	h.relationMovies(c, "Language", "language",
		func(id int) (string, error) {
			var language database.SpokenLanguage
			err := h.db.First(&language, id).Error
			return language.Name, err
		},
		h.engine.MoviesByLanguage,
	)
}
