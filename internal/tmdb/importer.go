package tmdb

import (
	"context"
	"errors"
	"fmt"
	"math"

	"github.com/hashicorp/go-hclog"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/cinemind/cinemind/internal/config"
	"github.com/cinemind/cinemind/internal/database"
	"github.com/cinemind/cinemind/internal/logger"
)

// catalogFetcher is the slice of Client the importer needs; tests swap in a
// stub.
type catalogFetcher interface {
	MovieDetails(ctx context.Context, tmdbID int) (*MovieDetails, error)
	Credits(ctx context.Context, tmdbID int) (*CreditsResponse, error)
	Keywords(ctx context.Context, tmdbID int) (*KeywordsResponse, error)
	TrailerURL(ctx context.Context, tmdbID int) (string, error)
	PopularIDs(ctx context.Context, page int) ([]int, error)
}

// Importer upserts TMDB movies into the catalog. Every write is
// insert-if-absent keyed on natural names, so re-importing a movie is a
// no-op.
type Importer struct {
	db      *gorm.DB
	catalog catalogFetcher
	cfg     config.TMDBConfig
	log     hclog.Logger
}

func NewImporter(db *gorm.DB, catalog catalogFetcher, cfg config.TMDBConfig) *Importer {
	return &Importer{
		db:      db,
		catalog: catalog,
		cfg:     cfg,
		log:     logger.Named("importer"),
	}
}

// SyncPopular imports every movie on the first popular page that is not yet
// in the catalog. A failed movie is logged and skipped; the run continues.
func (i *Importer) SyncPopular(ctx context.Context) error {
	ids, err := i.catalog.PopularIDs(ctx, 1)
	if err != nil {
		return err
	}

	var existing []int
	if err := i.db.Model(&database.Movie{}).Pluck("id", &existing).Error; err != nil {
		return fmt.Errorf("failed to list existing movie ids: %w", err)
	}
	known := make(map[int]bool, len(existing))
	for _, id := range existing {
		known[id] = true
	}

	imported := 0
	for _, id := range ids {
		if known[id] {
			continue
		}
		if err := i.ImportMovie(ctx, id); err != nil {
			i.log.Error("movie import failed", "tmdb_id", id, "error", err)
			continue
		}
		imported++
	}
	i.log.Info("popular sync finished", "imported", imported, "candidates", len(ids))
	return nil
}

// ImportMovie fetches one movie and upserts it with all of its relations.
// The details fetch is mandatory; credits, keywords and trailer failures are
// logged and the rest of the movie still lands.
func (i *Importer) ImportMovie(ctx context.Context, tmdbID int) error {
	details, err := i.catalog.MovieDetails(ctx, tmdbID)
	if err != nil {
		return err
	}

	movie := i.movieRow(details)

	trailer, err := i.catalog.TrailerURL(ctx, tmdbID)
	if err != nil {
		i.log.Warn("trailer fetch failed, importing without video url", "tmdb_id", tmdbID, "error", err)
	}
	movie.VideoURL = trailer

	err = i.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(movie).Error; err != nil {
			return fmt.Errorf("failed to insert movie %d: %w", details.ID, err)
		}

		for _, g := range details.Genres {
			genreID, err := i.lookupOrCreateGenre(tx, g.Name)
			if err != nil {
				return err
			}
			if err := linkRow(tx, &database.MovieGenre{MovieID: details.ID, GenreID: genreID}); err != nil {
				return err
			}
		}
		for _, c := range details.ProductionCountries {
			countryID, err := i.lookupOrCreateCountry(tx, c.Name, c.ISO3166)
			if err != nil {
				return err
			}
			if err := linkRow(tx, &database.MovieCountry{MovieID: details.ID, CountryID: countryID}); err != nil {
				return err
			}
		}
		for _, l := range details.SpokenLanguages {
			languageID, err := i.lookupOrCreateLanguage(tx, l.Name, l.ISO639)
			if err != nil {
				return err
			}
			if err := linkRow(tx, &database.MovieLanguage{MovieID: details.ID, LanguageID: languageID}); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return err
	}

	// Credits and keywords are best-effort: one upstream failure must not
	// roll back the movie itself.
	if credits, err := i.catalog.Credits(ctx, tmdbID); err != nil {
		i.log.Warn("credits fetch failed, movie imported without cast", "tmdb_id", tmdbID, "error", err)
	} else if err := i.importCast(details.ID, credits.Cast); err != nil {
		return err
	}

	if keywords, err := i.catalog.Keywords(ctx, tmdbID); err != nil {
		i.log.Warn("keywords fetch failed, movie imported without keywords", "tmdb_id", tmdbID, "error", err)
	} else if err := i.importKeywords(details.ID, keywords.Keywords); err != nil {
		return err
	}

	i.log.Info("movie imported", "tmdb_id", tmdbID, "title", details.Title)
	return nil
}

func (i *Importer) movieRow(details *MovieDetails) *database.Movie {
	posterURL := ""
	if details.PosterPath != "" {
		posterURL = i.cfg.ImageBaseURL + details.PosterPath
	}
	backdropURL := ""
	if details.BackdropPath != "" {
		backdropURL = i.cfg.ImageBaseURL + details.BackdropPath
	}

	return &database.Movie{
		ID:            details.ID,
		Title:         details.Title,
		OriginalTitle: details.OriginalTitle,
		Overview:      details.Overview,
		Budget:        details.Budget,
		Revenue:       details.Revenue,
		ReleaseDate:   details.ReleaseDate,
		Runtime:       details.Runtime,
		Status:        details.Status,
		Tagline:       details.Tagline,
		Popularity:    details.Popularity,
		// Vote averages are rounded at ingestion, not at read time.
		VoteAverage:      math.Round(details.VoteAverage*10) / 10,
		VoteCount:        details.VoteCount,
		OriginalLanguage: details.OriginalLanguage,
		Homepage:         details.Homepage,
		PosterURL:        posterURL,
		BackdropURL:      backdropURL,
	}
}

func (i *Importer) importCast(movieID int, cast []CastEntry) error {
	limit := i.cfg.MaxCastMembers
	if limit > 0 && len(cast) > limit {
		cast = cast[:limit]
	}

	return i.db.Transaction(func(tx *gorm.DB) error {
		for _, entry := range cast {
			actorID, err := i.lookupOrCreateActor(tx, entry)
			if err != nil {
				return err
			}
			characterID := 0
			if entry.Character != "" {
				characterID, err = i.lookupOrCreateCharacter(tx, entry.Character)
				if err != nil {
					return err
				}
			}
			link := &database.MovieCast{MovieID: movieID, ActorID: actorID, CharacterID: characterID}
			if err := linkRow(tx, link); err != nil {
				return err
			}
		}
		return nil
	})
}

func (i *Importer) importKeywords(movieID int, keywords []NamedRef) error {
	return i.db.Transaction(func(tx *gorm.DB) error {
		for _, kw := range keywords {
			keywordID, err := i.lookupOrCreateKeyword(tx, kw.Name)
			if err != nil {
				return err
			}
			if err := linkRow(tx, &database.MovieKeyword{MovieID: movieID, KeywordID: keywordID}); err != nil {
				return err
			}
		}
		return nil
	})
}

// linkRow inserts an association row, ignoring duplicates.
func linkRow(tx *gorm.DB, row interface{}) error {
	if err := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(row).Error; err != nil {
		return fmt.Errorf("failed to insert association row: %w", err)
	}
	return nil
}

func (i *Importer) lookupOrCreateGenre(tx *gorm.DB, name string) (int, error) {
	var genre database.Genre
	err := tx.Where("name = ?", name).First(&genre).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		genre = database.Genre{Name: name}
		err = tx.Create(&genre).Error
	}
	if err != nil {
		return 0, fmt.Errorf("failed to upsert genre %q: %w", name, err)
	}
	return genre.ID, nil
}

func (i *Importer) lookupOrCreateKeyword(tx *gorm.DB, name string) (int, error) {
	var keyword database.Keyword
	err := tx.Where("name = ?", name).First(&keyword).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		keyword = database.Keyword{Name: name}
		err = tx.Create(&keyword).Error
	}
	if err != nil {
		return 0, fmt.Errorf("failed to upsert keyword %q: %w", name, err)
	}
	return keyword.ID, nil
}

func (i *Importer) lookupOrCreateCountry(tx *gorm.DB, name, iso string) (int, error) {
	var country database.ProductionCountry
	err := tx.Where("name = ? AND iso_code = ?", name, iso).First(&country).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		country = database.ProductionCountry{Name: name, ISOCode: iso}
		err = tx.Create(&country).Error
	}
	if err != nil {
		return 0, fmt.Errorf("failed to upsert country %q: %w", name, err)
	}
	return country.ID, nil
}

func (i *Importer) lookupOrCreateLanguage(tx *gorm.DB, name, iso string) (int, error) {
	var language database.SpokenLanguage
	err := tx.Where("name = ? AND iso_code = ?", name, iso).First(&language).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		language = database.SpokenLanguage{Name: name, ISOCode: iso}
		err = tx.Create(&language).Error
	}
	if err != nil {
		return 0, fmt.Errorf("failed to upsert language %q: %w", name, err)
	}
	return language.ID, nil
}

func (i *Importer) lookupOrCreateActor(tx *gorm.DB, entry CastEntry) (int, error) {
	var actor database.CastMember
	err := tx.Where("name = ?", entry.Name).First(&actor).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		actor = database.CastMember{
			Name:   entry.Name,
			Gender: genderLabel(entry.Gender),
		}
		if entry.Popularity != 0 {
			pop := entry.Popularity
			actor.Popularity = &pop
		}
		if entry.ProfilePath != "" {
			profile := entry.ProfilePath
			actor.ProfilePath = &profile
		}
		err = tx.Create(&actor).Error
	}
	if err != nil {
		return 0, fmt.Errorf("failed to upsert actor %q: %w", entry.Name, err)
	}
	return actor.ID, nil
}

func (i *Importer) lookupOrCreateCharacter(tx *gorm.DB, name string) (int, error) {
	var character database.Character
	err := tx.Where("name = ?", name).First(&character).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		character = database.Character{Name: name}
		err = tx.Create(&character).Error
	}
	if err != nil {
		return 0, fmt.Errorf("failed to upsert character %q: %w", name, err)
	}
	return character.ID, nil
}

// genderLabel maps TMDB gender codes to the stored labels.
func genderLabel(code int) string {
	switch code {
	case 1:
		return "female"
	case 2:
		return "male"
	case 3:
		return "nonbinary"
	default:
		return ""
	}
}
