package tmdb

// Response shapes for the TMDB v3 endpoints the sync job consumes. Only the
// fields we store are declared.

// NamedRef is a TMDB id+name pair (genres, keywords).
type NamedRef struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// CountryRef is a production country entry.
type CountryRef struct {
	Name    string `json:"name"`
	ISO3166 string `json:"iso_3166_1"`
}

// LanguageRef is a spoken language entry.
type LanguageRef struct {
	Name   string `json:"name"`
	ISO639 string `json:"iso_639_1"`
}

// MovieDetails is the /movie/{id} payload.
type MovieDetails struct {
	ID                  int           `json:"id"`
	Title               string        `json:"title"`
	OriginalTitle       string        `json:"original_title"`
	Overview            string        `json:"overview"`
	Budget              int64         `json:"budget"`
	Revenue             int64         `json:"revenue"`
	ReleaseDate         string        `json:"release_date"`
	Runtime             int           `json:"runtime"`
	Status              string        `json:"status"`
	Tagline             string        `json:"tagline"`
	Popularity          float64       `json:"popularity"`
	VoteAverage         float64       `json:"vote_average"`
	VoteCount           int           `json:"vote_count"`
	OriginalLanguage    string        `json:"original_language"`
	Homepage            string        `json:"homepage"`
	PosterPath          string        `json:"poster_path"`
	BackdropPath        string        `json:"backdrop_path"`
	Genres              []NamedRef    `json:"genres"`
	ProductionCountries []CountryRef  `json:"production_countries"`
	SpokenLanguages     []LanguageRef `json:"spoken_languages"`
}

// CastEntry is one credit from /movie/{id}/credits.
type CastEntry struct {
	Name        string  `json:"name"`
	Gender      int     `json:"gender"`
	Character   string  `json:"character"`
	Popularity  float64 `json:"popularity"`
	ProfilePath string  `json:"profile_path"`
}

// CreditsResponse is the /movie/{id}/credits payload.
type CreditsResponse struct {
	Cast []CastEntry `json:"cast"`
}

// KeywordsResponse is the /movie/{id}/keywords payload.
type KeywordsResponse struct {
	Keywords []NamedRef `json:"keywords"`
}

// Video is one entry from /movie/{id}/videos.
type Video struct {
	Site string `json:"site"`
	Type string `json:"type"`
	Key  string `json:"key"`
}

// VideosResponse is the /movie/{id}/videos payload.
type VideosResponse struct {
	Results []Video `json:"results"`
}

// PopularResponse is the /movie/popular payload.
type PopularResponse struct {
	Results []struct {
		ID int `json:"id"`
	} `json:"results"`
}
