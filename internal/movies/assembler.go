package movies

import "github.com/cinemind/cinemind/internal/database"

// The types below are the per-endpoint field manifests. Adding or removing a
// field changes the wire contract, so each endpoint has its own record shape
// instead of sharing a tagged superset.

// ListEntry is the compact record returned by the paginated /movies listing.
type ListEntry struct {
	ID                  int      `json:"id"`
	Title               string   `json:"title"`
	VoteAverage         float64  `json:"vote_average"`
	ReleaseDate         string   `json:"release_date"`
	OriginalLanguage    string   `json:"original_language"`
	Runtime             int      `json:"runtime"`
	Popularity          float64  `json:"popularity"`
	Homepage            string   `json:"homepage"`
	Status              string   `json:"status"`
	PosterURL           string   `json:"poster_url"`
	BackdropURL         string   `json:"backdrop_url"`
	VideoURL            string   `json:"video_url"`
	ProductionCountries []string `json:"production_countries"`
	SpokenLanguages     []string `json:"spoken_languages"`
	Reviews             string   `json:"reviews"`
	KeyposterURL        string   `json:"keyposter_url"`
	KeyvideoURL         string   `json:"keyvideo_url"`
}

// ResultEntry is the record returned by the /results search grid.
type ResultEntry struct {
	ID               int      `json:"id"`
	Title            string   `json:"title"`
	VoteAverage      float64  `json:"vote_average"`
	ReleaseDate      string   `json:"release_date"`
	OriginalLanguage string   `json:"original_language"`
	Runtime          int      `json:"runtime"`
	Popularity       float64  `json:"popularity"`
	Homepage         string   `json:"homepage"`
	Status           string   `json:"status"`
	PosterURL        string   `json:"poster_url"`
	BackdropURL      string   `json:"backdrop_url"`
	VideoURL         string   `json:"video_url"`
	Reviews          string   `json:"reviews"`
	KeyposterURL     string   `json:"keyposter_url"`
	KeyvideoURL      string   `json:"keyvideo_url"`
	Genres           []string `json:"genres"`
	Budget           int64    `json:"budget"`
	Revenue          int64    `json:"revenue"`
}

// FeaturedEntry is the record returned by /featured.
type FeaturedEntry struct {
	ID               int      `json:"id"`
	Title            string   `json:"title"`
	VoteAverage      float64  `json:"vote_average"`
	ReleaseDate      string   `json:"release_date"`
	Overview         string   `json:"overview"`
	OriginalLanguage string   `json:"original_language"`
	Runtime          int      `json:"runtime"`
	Popularity       float64  `json:"popularity"`
	Homepage         string   `json:"homepage"`
	VideoURL         string   `json:"video_url"`
	KeyvideoURL      string   `json:"keyvideo_url"`
	Genres           []string `json:"genres"`
}

// PosterEntry is the poster-card record shared by /popular and /explore.
type PosterEntry struct {
	ID           int     `json:"id"`
	Title        string  `json:"title"`
	ReleaseDate  string  `json:"release_date"`
	VoteAverage  float64 `json:"vote_average"`
	PosterURL    string  `json:"poster_url"`
	KeyposterURL string  `json:"keyposter_url"`
}

// MatchEntry is the record returned by /movies/search.
type MatchEntry struct {
	ID          int     `json:"id"`
	Title       string  `json:"title"`
	VoteAverage float64 `json:"vote_average"`
	ReleaseDate string  `json:"release_date"`
}

// Ref is the minimal id+title record used by suggestions and by-relation
// listings.
type Ref struct {
	ID    int    `json:"id"`
	Title string `json:"title"`
}

// Detail is the full movie record with every relation attached. The flat
// Cast name list predates CastDetails and is kept for older clients;
// CastDetails is the canonical structured form.
type Detail struct {
	ID                  int          `json:"id"`
	Title               string       `json:"title"`
	Overview            string       `json:"overview"`
	ReleaseDate         string       `json:"release_date"`
	OriginalTitle       string       `json:"original_title"`
	Genres              []string     `json:"genres"`
	Keywords            []string     `json:"keywords"`
	Cast                []string     `json:"cast"`
	CastDetails         []CastCredit `json:"cast_details"`
	Budget              int64        `json:"budget"`
	Revenue             int64        `json:"revenue"`
	Runtime             int          `json:"runtime"`
	Status              string       `json:"status"`
	Tagline             string       `json:"tagline"`
	Popularity          float64      `json:"popularity"`
	VoteAverage         float64      `json:"vote_average"`
	VoteCount           int          `json:"vote_count"`
	OriginalLanguage    string       `json:"original_language"`
	Homepage            string       `json:"homepage"`
	ProductionCountries []string     `json:"production_countries"`
	SpokenLanguages     []string     `json:"spoken_languages"`
	PosterURL           string       `json:"poster_url"`
	BackdropURL         string       `json:"backdrop_url"`
	VideoURL            string       `json:"video_url"`
	Reviews             string       `json:"reviews"`
	KeyposterURL        string       `json:"keyposter_url"`
	KeyvideoURL         string       `json:"keyvideo_url"`
}

// Assembler shapes store rows into endpoint records, pulling in flattened
// relations through the resolver.
type Assembler struct {
	resolver *Resolver
}

func NewAssembler(resolver *Resolver) *Assembler {
	return &Assembler{resolver: resolver}
}

// ListEntries builds the compact listing records with denormalized country
// and language names.
func (a *Assembler) ListEntries(rows []database.Movie) ([]ListEntry, error) {
	entries := make([]ListEntry, 0, len(rows))
	for _, m := range rows {
		countries, err := a.resolver.CountryNames(m.ID)
		if err != nil {
			return nil, err
		}
		languages, err := a.resolver.LanguageNames(m.ID)
		if err != nil {
			return nil, err
		}
		entries = append(entries, ListEntry{
			ID:                  m.ID,
			Title:               m.Title,
			VoteAverage:         m.VoteAverage,
			ReleaseDate:         m.ReleaseDate,
			OriginalLanguage:    m.OriginalLanguage,
			Runtime:             m.Runtime,
			Popularity:          m.Popularity,
			Homepage:            m.Homepage,
			Status:              m.Status,
			PosterURL:           m.PosterURL,
			BackdropURL:         m.BackdropURL,
			VideoURL:            m.VideoURL,
			ProductionCountries: countries,
			SpokenLanguages:     languages,
			Reviews:             m.Reviews,
			KeyposterURL:        m.KeyposterURL,
			KeyvideoURL:         m.KeyvideoURL,
		})
	}
	return entries, nil
}

// ResultEntries builds the search-grid records with genre names attached.
func (a *Assembler) ResultEntries(rows []database.Movie) ([]ResultEntry, error) {
	entries := make([]ResultEntry, 0, len(rows))
	for _, m := range rows {
		genres, err := a.resolver.GenreNames(m.ID)
		if err != nil {
			return nil, err
		}
		entries = append(entries, ResultEntry{
			ID:               m.ID,
			Title:            m.Title,
			VoteAverage:      m.VoteAverage,
			ReleaseDate:      m.ReleaseDate,
			OriginalLanguage: m.OriginalLanguage,
			Runtime:          m.Runtime,
			Popularity:       m.Popularity,
			Homepage:         m.Homepage,
			Status:           m.Status,
			PosterURL:        m.PosterURL,
			BackdropURL:      m.BackdropURL,
			VideoURL:         m.VideoURL,
			Reviews:          m.Reviews,
			KeyposterURL:     m.KeyposterURL,
			KeyvideoURL:      m.KeyvideoURL,
			Genres:           genres,
			Budget:           m.Budget,
			Revenue:          m.Revenue,
		})
	}
	return entries, nil
}

// FeaturedEntries builds the featured-slider records with genre names.
func (a *Assembler) FeaturedEntries(rows []database.Movie) ([]FeaturedEntry, error) {
	entries := make([]FeaturedEntry, 0, len(rows))
	for _, m := range rows {
		genres, err := a.resolver.GenreNames(m.ID)
		if err != nil {
			return nil, err
		}
		entries = append(entries, FeaturedEntry{
			ID:               m.ID,
			Title:            m.Title,
			VoteAverage:      m.VoteAverage,
			ReleaseDate:      m.ReleaseDate,
			Overview:         m.Overview,
			OriginalLanguage: m.OriginalLanguage,
			Runtime:          m.Runtime,
			Popularity:       m.Popularity,
			Homepage:         m.Homepage,
			VideoURL:         m.VideoURL,
			KeyvideoURL:      m.KeyvideoURL,
			Genres:           genres,
		})
	}
	return entries, nil
}

// PosterEntries builds poster-card records. No relations are attached.
func (a *Assembler) PosterEntries(rows []database.Movie) []PosterEntry {
	entries := make([]PosterEntry, 0, len(rows))
	for _, m := range rows {
		entries = append(entries, PosterEntry{
			ID:           m.ID,
			Title:        m.Title,
			ReleaseDate:  m.ReleaseDate,
			VoteAverage:  m.VoteAverage,
			PosterURL:    m.PosterURL,
			KeyposterURL: m.KeyposterURL,
		})
	}
	return entries
}

// MatchEntries builds search-bar match records.
func (a *Assembler) MatchEntries(rows []database.Movie) []MatchEntry {
	entries := make([]MatchEntry, 0, len(rows))
	for _, m := range rows {
		entries = append(entries, MatchEntry{
			ID:          m.ID,
			Title:       m.Title,
			VoteAverage: m.VoteAverage,
			ReleaseDate: m.ReleaseDate,
		})
	}
	return entries
}

// Refs builds id+title records.
func (a *Assembler) Refs(rows []database.Movie) []Ref {
	refs := make([]Ref, 0, len(rows))
	for _, m := range rows {
		refs = append(refs, Ref{ID: m.ID, Title: m.Title})
	}
	return refs
}

// DetailRecord builds the full record for the detail endpoint, attaching
// every relation.
func (a *Assembler) DetailRecord(m *database.Movie) (*Detail, error) {
	genres, err := a.resolver.GenreNames(m.ID)
	if err != nil {
		return nil, err
	}
	keywords, err := a.resolver.KeywordNames(m.ID)
	if err != nil {
		return nil, err
	}
	credits, err := a.resolver.CastCredits(m.ID)
	if err != nil {
		return nil, err
	}
	countries, err := a.resolver.CountryNames(m.ID)
	if err != nil {
		return nil, err
	}
	languages, err := a.resolver.LanguageNames(m.ID)
	if err != nil {
		return nil, err
	}

	castNames := make([]string, 0, len(credits))
	for _, c := range credits {
		castNames = append(castNames, c.Name)
	}

	return &Detail{
		ID:                  m.ID,
		Title:               m.Title,
		Overview:            m.Overview,
		ReleaseDate:         m.ReleaseDate,
		OriginalTitle:       m.OriginalTitle,
		Genres:              genres,
		Keywords:            keywords,
		Cast:                castNames,
		CastDetails:         credits,
		Budget:              m.Budget,
		Revenue:             m.Revenue,
		Runtime:             m.Runtime,
		Status:              m.Status,
		Tagline:             m.Tagline,
		Popularity:          m.Popularity,
		VoteAverage:         m.VoteAverage,
		VoteCount:           m.VoteCount,
		OriginalLanguage:    m.OriginalLanguage,
		Homepage:            m.Homepage,
		ProductionCountries: countries,
		SpokenLanguages:     languages,
		PosterURL:           m.PosterURL,
		BackdropURL:         m.BackdropURL,
		VideoURL:            m.VideoURL,
		Reviews:             m.Reviews,
		KeyposterURL:        m.KeyposterURL,
		KeyvideoURL:         m.KeyvideoURL,
	}, nil
}
