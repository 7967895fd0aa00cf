package database

// Movie is the central catalog entity. All relations hang off it through the
// association tables below. Rows are written only by the sync job; the API
// surface is read-only.
type Movie struct {
	ID               int     `gorm:"primaryKey" json:"id"`
	Title            string  `gorm:"not null;index" json:"title"`
	OriginalTitle    string  `json:"original_title"`
	Overview         string  `json:"overview"`
	Budget           int64   `json:"budget"`
	Revenue          int64   `json:"revenue"`
	ReleaseDate      string  `json:"release_date"`
	Runtime          int     `json:"runtime"`
	Status           string  `json:"status"`
	Tagline          string  `json:"tagline"`
	Popularity       float64 `gorm:"index" json:"popularity"`
	VoteAverage      float64 `json:"vote_average"`
	VoteCount        int     `json:"vote_count"`
	OriginalLanguage string  `json:"original_language"`
	Homepage         string  `json:"homepage"`
	PosterURL        string  `json:"poster_url"`
	BackdropURL      string  `json:"backdrop_url"`
	VideoURL         string  `json:"video_url"`
	Reviews          string  `json:"reviews"`
	KeyposterURL     string  `json:"keyposter_url"`
	KeyvideoURL      string  `json:"keyvideo_url"`
}

func (Movie) TableName() string { return "movies" }

// Genre is a lookup entity linked to movies through MovieGenre.
type Genre struct {
	ID   int    `gorm:"primaryKey" json:"id"`
	Name string `gorm:"not null;uniqueIndex" json:"name"`
}

func (Genre) TableName() string { return "genres" }

// Keyword is a lookup entity linked to movies through MovieKeyword.
type Keyword struct {
	ID   int    `gorm:"primaryKey" json:"id"`
	Name string `gorm:"not null;uniqueIndex" json:"name"`
}

func (Keyword) TableName() string { return "keywords" }

// CastMember is an actor. Popularity, ProfilePath and Biography are pointers
// because the sync job cannot always fill them and NULL ordering matters when
// ranking a movie's cast.
type CastMember struct {
	ID          int      `gorm:"primaryKey;column:actor_id" json:"id"`
	Name        string   `gorm:"not null;index" json:"name"`
	Gender      string   `json:"gender"`
	Popularity  *float64 `json:"popularity"`
	ProfilePath *string  `json:"profile_path"`
	Biography   *string  `json:"biography"`
}

func (CastMember) TableName() string { return "cast_members" }

// Character labels a single cast-to-movie link.
type Character struct {
	ID   int    `gorm:"primaryKey;column:character_id" json:"id"`
	Name string `gorm:"not null" json:"name"`
}

func (Character) TableName() string { return "characters" }

// ProductionCountry is a lookup entity linked to movies through MovieCountry.
type ProductionCountry struct {
	ID      int    `gorm:"primaryKey;column:country_id" json:"id"`
	Name    string `gorm:"not null" json:"name"`
	ISOCode string `gorm:"column:iso_code" json:"iso_code"`
}

func (ProductionCountry) TableName() string { return "production_countries" }

// SpokenLanguage is a lookup entity linked to movies through MovieLanguage.
type SpokenLanguage struct {
	ID      int    `gorm:"primaryKey;column:language_id" json:"id"`
	Name    string `gorm:"not null" json:"name"`
	ISOCode string `gorm:"column:iso_code" json:"iso_code"`
}

func (SpokenLanguage) TableName() string { return "spoken_languages" }

// MovieGenre links a movie to a genre. The composite primary key keeps the
// link unique.
type MovieGenre struct {
	MovieID int `gorm:"primaryKey" json:"movie_id"`
	GenreID int `gorm:"primaryKey" json:"genre_id"`
}

func (MovieGenre) TableName() string { return "movie_genres" }

// MovieKeyword links a movie to a keyword.
type MovieKeyword struct {
	MovieID   int `gorm:"primaryKey" json:"movie_id"`
	KeywordID int `gorm:"primaryKey" json:"keyword_id"`
}

func (MovieKeyword) TableName() string { return "movie_keywords" }

// MovieCountry links a movie to a production country.
type MovieCountry struct {
	MovieID   int `gorm:"primaryKey" json:"movie_id"`
	CountryID int `gorm:"primaryKey" json:"country_id"`
}

func (MovieCountry) TableName() string { return "movie_production_countries" }

// MovieLanguage links a movie to a spoken language.
type MovieLanguage struct {
	MovieID    int `gorm:"primaryKey" json:"movie_id"`
	LanguageID int `gorm:"primaryKey" json:"language_id"`
}

func (MovieLanguage) TableName() string { return "movie_spoken_languages" }

// MovieCast links an actor to a movie under a character. CharacterID is part
// of the key, so an actor can appear once per character; zero means the link
// carries no character.
type MovieCast struct {
	MovieID     int `gorm:"primaryKey" json:"movie_id"`
	ActorID     int `gorm:"primaryKey" json:"actor_id"`
	CharacterID int `gorm:"primaryKey" json:"character_id"`
}

func (MovieCast) TableName() string { return "movie_cast" }
