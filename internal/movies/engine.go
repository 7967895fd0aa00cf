// Package movies implements the query layer of the catalog: filtering,
// sorting, pagination, relationship flattening and response shaping. It only
// ever issues reads.
package movies

import (
	"fmt"
	"math"

	"gorm.io/gorm"

	"github.com/cinemind/cinemind/internal/database"
)

const (
	DefaultPage    = 1
	DefaultPerPage = 20
	defaultSort    = "popularity"
)

// sortColumns whitelists the sortable movie columns. Anything else silently
// falls back to popularity.
var sortColumns = map[string]string{
	"popularity":   "movies.popularity",
	"vote_count":   "movies.vote_count",
	"vote_average": "movies.vote_average",
	"runtime":      "movies.runtime",
	"release_date": "movies.release_date",
	"title":        "movies.title",
}

// SearchFilter describes one catalog query. All fields are optional; zero
// values mean "no restriction".
type SearchFilter struct {
	// TitleContains matches the movie title case-insensitively.
	TitleContains string
	// GenreIDs restricts to movies linked to every listed genre (AND
	// semantics, not OR).
	GenreIDs []int
	// LanguageCode matches the scalar original_language column, not the
	// spoken-languages association.
	LanguageCode string
	SortBy       string
	Order        string
	Page         int
	PerPage      int
}

// Page is one slice of a result set plus its pagination metadata.
type Page struct {
	Movies     []database.Movie
	Total      int64
	Page       int
	PerPage    int
	TotalPages int
	HasNext    bool
	HasPrev    bool
}

// Engine builds and runs catalog queries against the store.
type Engine struct {
	db *gorm.DB
}

func NewEngine(db *gorm.DB) *Engine {
	return &Engine{db: db}
}

// normalize coerces out-of-range or unrecognized filter values to their
// defaults. Bad input is never an error on this path.
func (f SearchFilter) normalize() SearchFilter {
	if f.Page < 1 {
		f.Page = DefaultPage
	}
	if f.PerPage < 1 {
		f.PerPage = DefaultPerPage
	}
	if _, ok := sortColumns[f.SortBy]; !ok {
		f.SortBy = defaultSort
	}
	if f.Order != "asc" {
		f.Order = "desc"
	}
	return f
}

// Search runs the filter and returns the requested page. Pages past the end
// of the result set come back empty with HasNext false.
func (e *Engine) Search(filter SearchFilter) (*Page, error) {
	filter = filter.normalize()

	base := e.db.Model(&database.Movie{})

	if filter.TitleContains != "" {
		base = base.Where("LOWER(movies.title) LIKE LOWER(?)", "%"+filter.TitleContains+"%")
	}
	if filter.LanguageCode != "" {
		base = base.Where("movies.original_language = ?", filter.LanguageCode)
	}
	if len(filter.GenreIDs) > 0 {
		// AND semantics: keep only movies whose count of matched genre links
		// equals the size of the requested set. A plain join+IN would give OR
		// semantics.
		base = base.
			Joins("JOIN movie_genres ON movie_genres.movie_id = movies.id").
			Where("movie_genres.genre_id IN ?", filter.GenreIDs).
			Group("movies.id").
			Having("COUNT(movie_genres.genre_id) = ?", len(filter.GenreIDs))
	}

	// Counting through a subquery keeps the grouped genre filter honest: a
	// bare COUNT over a GROUP BY would return per-group counts.
	var total int64
	countQuery := base.Session(&gorm.Session{}).Select("movies.id")
	if err := e.db.Table("(?) AS matched", countQuery).Count(&total).Error; err != nil {
		return nil, fmt.Errorf("failed to count matching movies: %w", err)
	}

	// Ties fall back to ascending id so identical filters always paginate
	// the same way.
	order := fmt.Sprintf("%s %s, movies.id ASC", sortColumns[filter.SortBy], filter.Order)

	var rows []database.Movie
	err := base.
		Select("movies.*").
		Order(order).
		Limit(filter.PerPage).
		Offset((filter.Page - 1) * filter.PerPage).
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to query movies: %w", err)
	}

	totalPages := int(math.Ceil(float64(total) / float64(filter.PerPage)))
	return &Page{
		Movies:     rows,
		Total:      total,
		Page:       filter.Page,
		PerPage:    filter.PerPage,
		TotalPages: totalPages,
		HasNext:    filter.Page < totalPages,
		HasPrev:    filter.Page > 1,
	}, nil
}

// GetByID loads a single movie. Returns gorm.ErrRecordNotFound when absent.
func (e *Engine) GetByID(id int) (*database.Movie, error) {
	var movie database.Movie
	if err := e.db.First(&movie, id).Error; err != nil {
		return nil, err
	}
	return &movie, nil
}

// AllIDs returns every movie id in the catalog.
func (e *Engine) AllIDs() ([]int, error) {
	var ids []int
	if err := e.db.Model(&database.Movie{}).Order("id").Pluck("id", &ids).Error; err != nil {
		return nil, fmt.Errorf("failed to list movie ids: %w", err)
	}
	return ids, nil
}

// TopByPopularity returns limit movies ranked by descending popularity,
// skipping the first offset ranks. Ids break popularity ties.
func (e *Engine) TopByPopularity(offset, limit int) ([]database.Movie, error) {
	var rows []database.Movie
	err := e.db.
		Order("popularity DESC, id ASC").
		Offset(offset).
		Limit(limit).
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to rank movies by popularity: %w", err)
	}
	return rows, nil
}

// Explore samples n movies in store-randomized order. Deliberately
// non-deterministic; callers must not cache the result.
func (e *Engine) Explore(n int) ([]database.Movie, error) {
	var rows []database.Movie
	if err := e.db.Order("RANDOM()").Limit(n).Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to sample movies: %w", err)
	}
	return rows, nil
}

// SuggestByTitle returns up to limit movies whose title contains q,
// case-insensitively.
func (e *Engine) SuggestByTitle(q string, limit int) ([]database.Movie, error) {
	var rows []database.Movie
	err := e.db.
		Where("LOWER(title) LIKE LOWER(?)", "%"+q+"%").
		Order("id").
		Limit(limit).
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to suggest movies: %w", err)
	}
	return rows, nil
}

// QuickSearch applies the search-bar filters. All three are optional and
// conjunctive when combined; genreID filters the genre association and
// languageID the spoken-language association.
func (e *Engine) QuickSearch(title string, genreID, languageID int) ([]database.Movie, error) {
	q := e.db.Model(&database.Movie{})
	if title != "" {
		q = q.Where("LOWER(movies.title) LIKE LOWER(?)", "%"+title+"%")
	}
	if genreID != 0 {
		q = q.Joins("JOIN movie_genres ON movie_genres.movie_id = movies.id").
			Where("movie_genres.genre_id = ?", genreID)
	}
	if languageID != 0 {
		q = q.Joins("JOIN movie_spoken_languages ON movie_spoken_languages.movie_id = movies.id").
			Where("movie_spoken_languages.language_id = ?", languageID)
	}

	var rows []database.Movie
	if err := q.Select("movies.*").Order("movies.id").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to search movies: %w", err)
	}
	return rows, nil
}
