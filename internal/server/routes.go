package server

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/cinemind/cinemind/internal/apiroutes"
	"github.com/cinemind/cinemind/internal/events"
	"github.com/cinemind/cinemind/internal/sentiment"
	"github.com/cinemind/cinemind/internal/server/handlers"
)

// registerRoutes wires every endpoint. Each route is also recorded in the
// apiroutes registry so /api can describe the surface.
func registerRoutes(router *gin.Engine, db *gorm.DB, analyzer sentiment.Analyzer, bus *events.Bus) {
	movieHandler := handlers.NewMovieHandler(db)
	lookupHandler := handlers.NewLookupHandler(db)
	sentimentHandler := handlers.NewSentimentHandler(db, analyzer)
	healthHandler := handlers.NewHealthHandler(db, bus)

	apiroutes.Reset()

	register := func(method, path, description string, handler gin.HandlerFunc) {
		router.Handle(method, path, handler)
		apiroutes.Register(path, method, description)
	}

	register("GET", "/", "Liveness probe", healthHandler.Liveness)
	register("GET", "/api", "API route discovery", healthHandler.Discovery)
	register("GET", "/api/health", "Service health report", healthHandler.Health)
	register("GET", "/api/events", "Recent system events", healthHandler.Events)

	register("GET", "/movies", "Paginated movie catalog", movieHandler.ListMovies)
	register("GET", "/movies/ids", "All movie ids", movieHandler.MovieIDs)
	register("GET", "/movies/search", "Search bar lookup by title, genre and language", movieHandler.Search)
	register("GET", "/movies/suggest", "Type-ahead title suggestions", movieHandler.Suggest)
	register("GET", "/movies/:id", "Full movie detail", movieHandler.GetMovie)
	register("GET", "/movies/:id/sentiment", "Review sentiment summary", sentimentHandler.Analyze)

	register("GET", "/movies/genre/:id", "Movies linked to a genre", movieHandler.MoviesByGenre)
	register("GET", "/movies/keyword/:id", "Movies linked to a keyword", movieHandler.MoviesByKeyword)
	register("GET", "/movies/actor/:id", "Movies an actor appears in", movieHandler.MoviesByActor)
	register("GET", "/movies/country/:id", "Movies produced in a country", movieHandler.MoviesByCountry)
	register("GET", "/movies/language/:id", "Movies spoken in a language", movieHandler.MoviesByLanguage)

	register("GET", "/results", "Search grid with filters, sorting and pagination", movieHandler.Results)
	register("GET", "/featured", "Top three movies by popularity", movieHandler.Featured)
	register("GET", "/popular", "Popular slider, ranks four through thirteen", movieHandler.Popular)
	register("GET", "/explore", "Random movie sample", movieHandler.Explore)

	register("GET", "/genres", "All genres", lookupHandler.Genres)
	register("GET", "/cast", "Actor directory", lookupHandler.Cast)
	register("GET", "/keywords", "All keywords", lookupHandler.Keywords)
	register("GET", "/production_countries", "All production countries", lookupHandler.Countries)
	register("GET", "/spoken_languages", "All spoken languages", lookupHandler.Languages)
}
