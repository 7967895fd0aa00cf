package movies

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/cinemind/cinemind/internal/database"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))
	return db
}

func seedMovie(t *testing.T, db *gorm.DB, movie database.Movie) {
	t.Helper()
	require.NoError(t, db.Create(&movie).Error)
}

func linkGenre(t *testing.T, db *gorm.DB, movieID, genreID int) {
	t.Helper()
	require.NoError(t, db.Create(&database.MovieGenre{MovieID: movieID, GenreID: genreID}).Error)
}

func TestSearchGenreFilterRequiresAllGenres(t *testing.T) {
	db := newTestDB(t)
	engine := NewEngine(db)

	require.NoError(t, db.Create(&database.Genre{ID: 1, Name: "Action"}).Error)
	require.NoError(t, db.Create(&database.Genre{ID: 2, Name: "Drama"}).Error)

	seedMovie(t, db, database.Movie{ID: 1, Title: "Action Only"})
	seedMovie(t, db, database.Movie{ID: 2, Title: "Action Drama"})
	seedMovie(t, db, database.Movie{ID: 3, Title: "Drama Only"})

	linkGenre(t, db, 1, 1)
	linkGenre(t, db, 2, 1)
	linkGenre(t, db, 2, 2)
	linkGenre(t, db, 3, 2)

	page, err := engine.Search(SearchFilter{GenreIDs: []int{1, 2}})
	require.NoError(t, err)

	// Only the movie carrying both genres may match.
	assert.Equal(t, int64(1), page.Total)
	require.Len(t, page.Movies, 1)
	assert.Equal(t, 2, page.Movies[0].ID)

	page, err = engine.Search(SearchFilter{GenreIDs: []int{1}})
	require.NoError(t, err)
	assert.Equal(t, int64(2), page.Total)
}

func TestSearchTitleFilterIsCaseInsensitive(t *testing.T) {
	db := newTestDB(t)
	engine := NewEngine(db)

	seedMovie(t, db, database.Movie{ID: 1, Title: "The Dark Knight"})
	seedMovie(t, db, database.Movie{ID: 2, Title: "Knives Out"})

	page, err := engine.Search(SearchFilter{TitleContains: "dark"})
	require.NoError(t, err)
	require.Len(t, page.Movies, 1)
	assert.Equal(t, "The Dark Knight", page.Movies[0].Title)
}

func TestSearchSortByTitle(t *testing.T) {
	db := newTestDB(t)
	engine := NewEngine(db)

	seedMovie(t, db, database.Movie{ID: 1, Title: "Banana"})
	seedMovie(t, db, database.Movie{ID: 2, Title: "Apple"})
	seedMovie(t, db, database.Movie{ID: 3, Title: "Cherry"})

	page, err := engine.Search(SearchFilter{SortBy: "title", Order: "asc"})
	require.NoError(t, err)
	require.Len(t, page.Movies, 3)
	assert.Equal(t, "Apple", page.Movies[0].Title)
	assert.Equal(t, "Banana", page.Movies[1].Title)
	assert.Equal(t, "Cherry", page.Movies[2].Title)

	page, err = engine.Search(SearchFilter{SortBy: "title", Order: "desc"})
	require.NoError(t, err)
	assert.Equal(t, "Cherry", page.Movies[0].Title)
}

func TestSearchPagination(t *testing.T) {
	db := newTestDB(t)
	engine := NewEngine(db)

	for i := 1; i <= 5; i++ {
		seedMovie(t, db, database.Movie{ID: i, Title: "Movie", Popularity: float64(100 - i)})
	}

	page, err := engine.Search(SearchFilter{Page: 1, PerPage: 2})
	require.NoError(t, err)
	assert.Equal(t, int64(5), page.Total)
	assert.Equal(t, 3, page.TotalPages)
	assert.Len(t, page.Movies, 2)
	assert.True(t, page.HasNext)
	assert.False(t, page.HasPrev)

	page, err = engine.Search(SearchFilter{Page: 3, PerPage: 2})
	require.NoError(t, err)
	assert.Len(t, page.Movies, 1)
	assert.False(t, page.HasNext)
	assert.True(t, page.HasPrev)

	// Pages past the end are empty, never an error.
	page, err = engine.Search(SearchFilter{Page: 9, PerPage: 2})
	require.NoError(t, err)
	assert.Empty(t, page.Movies)
	assert.False(t, page.HasNext)
}

func TestSearchCoercesBadInput(t *testing.T) {
	db := newTestDB(t)
	engine := NewEngine(db)

	seedMovie(t, db, database.Movie{ID: 1, Title: "Low", Popularity: 1})
	seedMovie(t, db, database.Movie{ID: 2, Title: "High", Popularity: 9})

	page, err := engine.Search(SearchFilter{
		Page:    -3,
		PerPage: 0,
		SortBy:  "no_such_column",
		Order:   "sideways",
	})
	require.NoError(t, err)
	assert.Equal(t, DefaultPage, page.Page)
	assert.Equal(t, DefaultPerPage, page.PerPage)
	// Fallback sort is popularity descending.
	require.Len(t, page.Movies, 2)
	assert.Equal(t, "High", page.Movies[0].Title)
}

func TestSearchOrderIsDeterministicAcrossTies(t *testing.T) {
	db := newTestDB(t)
	engine := NewEngine(db)

	for i := 1; i <= 4; i++ {
		seedMovie(t, db, database.Movie{ID: i, Title: "Tied", Popularity: 5})
	}

	first, err := engine.Search(SearchFilter{Page: 1, PerPage: 2})
	require.NoError(t, err)
	second, err := engine.Search(SearchFilter{Page: 2, PerPage: 2})
	require.NoError(t, err)

	seen := map[int]bool{}
	for _, m := range append(first.Movies, second.Movies...) {
		assert.False(t, seen[m.ID], "movie %d appeared on two pages", m.ID)
		seen[m.ID] = true
	}
	assert.Len(t, seen, 4)
}

func TestTopByPopularity(t *testing.T) {
	db := newTestDB(t)
	engine := NewEngine(db)

	for i := 1; i <= 5; i++ {
		seedMovie(t, db, database.Movie{ID: i, Title: "Movie", Popularity: float64(10 * (6 - i))})
	}

	top, err := engine.TopByPopularity(0, 3)
	require.NoError(t, err)
	require.Len(t, top, 3)
	assert.Equal(t, 1, top[0].ID)

	rest, err := engine.TopByPopularity(3, 10)
	require.NoError(t, err)
	require.Len(t, rest, 2)
	assert.Equal(t, 4, rest[0].ID)
	assert.Equal(t, 5, rest[1].ID)
}

func TestSuggestByTitleLimit(t *testing.T) {
	db := newTestDB(t)
	engine := NewEngine(db)

	for i := 1; i <= 7; i++ {
		seedMovie(t, db, database.Movie{ID: i, Title: "Star Wars"})
	}

	rows, err := engine.SuggestByTitle("star", 5)
	require.NoError(t, err)
	assert.Len(t, rows, 5)
}

func TestQuickSearchFiltersAreConjunctive(t *testing.T) {
	db := newTestDB(t)
	engine := NewEngine(db)

	require.NoError(t, db.Create(&database.Genre{ID: 1, Name: "Action"}).Error)
	require.NoError(t, db.Create(&database.SpokenLanguage{ID: 1, Name: "English", ISOCode: "en"}).Error)

	seedMovie(t, db, database.Movie{ID: 1, Title: "Heat"})
	seedMovie(t, db, database.Movie{ID: 2, Title: "Heat Remake"})
	linkGenre(t, db, 1, 1)
	linkGenre(t, db, 2, 1)
	require.NoError(t, db.Create(&database.MovieLanguage{MovieID: 1, LanguageID: 1}).Error)

	rows, err := engine.QuickSearch("heat", 1, 1)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, 1, rows[0].ID)

	rows, err = engine.QuickSearch("heat", 1, 0)
	require.NoError(t, err)
	assert.Len(t, rows, 2)
}

func TestAllIDs(t *testing.T) {
	db := newTestDB(t)
	engine := NewEngine(db)

	seedMovie(t, db, database.Movie{ID: 3, Title: "C"})
	seedMovie(t, db, database.Movie{ID: 1, Title: "A"})

	ids, err := engine.AllIDs()
	require.NoError(t, err)
	assert.Equal(t, []int{1, 3}, ids)
}

func TestGetByIDMissing(t *testing.T) {
	db := newTestDB(t)
	engine := NewEngine(db)

	_, err := engine.GetByID(42)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestMoviesByActorDeduplicates(t *testing.T) {
	db := newTestDB(t)
	engine := NewEngine(db)

	seedMovie(t, db, database.Movie{ID: 1, Title: "Cloud Atlas"})
	require.NoError(t, db.Create(&database.CastMember{ID: 1, Name: "Tom"}).Error)
	require.NoError(t, db.Create(&database.Character{ID: 1, Name: "Zachry"}).Error)
	require.NoError(t, db.Create(&database.Character{ID: 2, Name: "Dr. Goose"}).Error)
	require.NoError(t, db.Create(&database.MovieCast{MovieID: 1, ActorID: 1, CharacterID: 1}).Error)
	require.NoError(t, db.Create(&database.MovieCast{MovieID: 1, ActorID: 1, CharacterID: 2}).Error)

	rows, err := engine.MoviesByActor(1)
	require.NoError(t, err)
	assert.Len(t, rows, 1)
}
