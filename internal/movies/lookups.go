package movies

import (
	"fmt"

	"github.com/cinemind/cinemind/internal/database"
)

// MoviesByGenre lists movies linked to the given genre.
func (e *Engine) MoviesByGenre(genreID int) ([]database.Movie, error) {
	return e.byLink("movie_genres", "genre_id", genreID)
}

// MoviesByKeyword lists movies linked to the given keyword.
func (e *Engine) MoviesByKeyword(keywordID int) ([]database.Movie, error) {
	return e.byLink("movie_keywords", "keyword_id", keywordID)
}

// MoviesByActor lists movies the given actor appears in. An actor credited
// under several characters still shows up once per movie.
func (e *Engine) MoviesByActor(actorID int) ([]database.Movie, error) {
	var rows []database.Movie
	err := e.db.Model(&database.Movie{}).
		Distinct("movies.*").
		Joins("JOIN movie_cast ON movie_cast.movie_id = movies.id").
		Where("movie_cast.actor_id = ?", actorID).
		Order("movies.id").
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list movies for actor %d: %w", actorID, err)
	}
	return rows, nil
}

// MoviesByCountry lists movies produced in the given country.
func (e *Engine) MoviesByCountry(countryID int) ([]database.Movie, error) {
	return e.byLink("movie_production_countries", "country_id", countryID)
}

// MoviesByLanguage lists movies spoken in the given language.
func (e *Engine) MoviesByLanguage(languageID int) ([]database.Movie, error) {
	return e.byLink("movie_spoken_languages", "language_id", languageID)
}

func (e *Engine) byLink(linkTable, linkCol string, id int) ([]database.Movie, error) {
	var rows []database.Movie
	err := e.db.Model(&database.Movie{}).
		Joins(fmt.Sprintf("JOIN %s ON %s.movie_id = movies.id", linkTable, linkTable)).
		Where(fmt.Sprintf("%s.%s = ?", linkTable, linkCol), id).
		Order("movies.id").
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list movies via %s: %w", linkTable, err)
	}
	return rows, nil
}
