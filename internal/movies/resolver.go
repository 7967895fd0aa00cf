package movies

import (
	"fmt"

	"gorm.io/gorm"

	"github.com/cinemind/cinemind/internal/database"
)

// biographyLimit caps the biography text attached to a cast credit.
const biographyLimit = 150

// Resolver flattens the many-to-many relations of a movie into plain lists
// for JSON output. Unknown movie ids resolve to empty lists; validating that
// a movie exists is the caller's job.
type Resolver struct {
	db *gorm.DB
}

func NewResolver(db *gorm.DB) *Resolver {
	return &Resolver{db: db}
}

// CastCredit is one actor's appearance in a movie, with the character they
// played resolved through the movie-cast-character link.
type CastCredit struct {
	ID          int      `json:"id"`
	Name        string   `json:"name"`
	Character   *string  `json:"character"`
	Gender      string   `json:"gender"`
	Popularity  *float64 `json:"popularity"`
	ProfilePath *string  `json:"profile_path"`
	Biography   *string  `json:"biography"`
}

// GenreNames returns the genre names linked to a movie.
func (r *Resolver) GenreNames(movieID int) ([]string, error) {
	return r.names(movieID, "genres", "movie_genres", "genre_id", "id")
}

// KeywordNames returns the keyword names linked to a movie.
func (r *Resolver) KeywordNames(movieID int) ([]string, error) {
	return r.names(movieID, "keywords", "movie_keywords", "keyword_id", "id")
}

// CountryNames returns the production country names linked to a movie.
func (r *Resolver) CountryNames(movieID int) ([]string, error) {
	return r.names(movieID, "production_countries", "movie_production_countries", "country_id", "country_id")
}

// LanguageNames returns the spoken language names linked to a movie.
func (r *Resolver) LanguageNames(movieID int) ([]string, error) {
	return r.names(movieID, "spoken_languages", "movie_spoken_languages", "language_id", "language_id")
}

func (r *Resolver) names(movieID int, table, linkTable, linkCol, pkCol string) ([]string, error) {
	names := []string{}
	err := r.db.Table(table).
		Joins(fmt.Sprintf("JOIN %s ON %s.%s = %s.%s", linkTable, linkTable, linkCol, table, pkCol)).
		Where(fmt.Sprintf("%s.movie_id = ?", linkTable), movieID).
		Pluck(fmt.Sprintf("%s.name", table), &names).Error
	if err != nil {
		return nil, fmt.Errorf("failed to resolve %s for movie %d: %w", table, movieID, err)
	}
	return names, nil
}

// CastNames returns the flat actor name list for a movie, in the same order
// as CastCredits.
func (r *Resolver) CastNames(movieID int) ([]string, error) {
	credits, err := r.CastCredits(movieID)
	if err != nil {
		return nil, err
	}
	names := make([]string, 0, len(credits))
	for _, c := range credits {
		names = append(names, c.Name)
	}
	return names, nil
}

// CastCredits returns a movie's cast ordered by popularity descending with
// unset popularity last, ties broken by actor id. Character is nil when the
// link carries no character or the character row is gone; Biography is cut to
// biographyLimit runes with an ellipsis appended when it was longer.
func (r *Resolver) CastCredits(movieID int) ([]CastCredit, error) {
	type castRow struct {
		ActorID       int
		Name          string
		Gender        string
		Popularity    *float64
		ProfilePath   *string
		Biography     *string
		CharacterName *string
	}

	var rows []castRow
	err := r.db.Table("cast_members").
		Select("cast_members.actor_id, cast_members.name, cast_members.gender, " +
			"cast_members.popularity, cast_members.profile_path, cast_members.biography, " +
			"characters.name AS character_name").
		Joins("JOIN movie_cast ON movie_cast.actor_id = cast_members.actor_id").
		Joins("LEFT JOIN characters ON characters.character_id = movie_cast.character_id").
		Where("movie_cast.movie_id = ?", movieID).
		Order("cast_members.popularity DESC NULLS LAST, cast_members.actor_id ASC").
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to resolve cast for movie %d: %w", movieID, err)
	}

	credits := make([]CastCredit, 0, len(rows))
	for _, row := range rows {
		credits = append(credits, CastCredit{
			ID:          row.ActorID,
			Name:        row.Name,
			Character:   row.CharacterName,
			Gender:      row.Gender,
			Popularity:  row.Popularity,
			ProfilePath: row.ProfilePath,
			Biography:   truncateBiography(row.Biography),
		})
	}
	return credits, nil
}

func truncateBiography(bio *string) *string {
	if bio == nil || *bio == "" {
		return nil
	}
	runes := []rune(*bio)
	if len(runes) <= biographyLimit {
		return bio
	}
	cut := string(runes[:biographyLimit]) + "..."
	return &cut
}
