package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/cinemind/cinemind/internal/database"
)

// LookupHandler serves the flat dumps of the lookup tables. Each endpoint
// returns a bare JSON array ordered by primary key.
type LookupHandler struct {
	db *gorm.DB
}

func NewLookupHandler(db *gorm.DB) *LookupHandler {
	return &LookupHandler{db: db}
}

func dumpTable(c *gin.Context, db *gorm.DB, order string, dest interface{}, label string) {
	if err := db.Order(order).Find(dest).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list " + label})
		return
	}
	c.JSON(http.StatusOK, dest)
}

// Genres dumps the genre table.
func (h *LookupHandler) Genres(c *gin.Context) {
	genres := []database.Genre{}
	dumpTable(c, h.db, "id", &genres, "genres")
}

// castRecord trims the cast dump to the directory fields; popularity and
// biography stay out of the listing.
type castRecord struct {
	ID     int    `json:"id"`
	Name   string `json:"name"`
	Gender string `json:"gender"`
}

// Cast dumps the actor directory.
func (h *LookupHandler) Cast(c *gin.Context) {
	records := []castRecord{}
	if err := h.db.Model(&database.CastMember{}).
		Select("actor_id AS id, name, gender").
		Order("actor_id").
		Find(&records).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list cast"})
		return
	}
	c.JSON(http.StatusOK, records)
}

// Keywords dumps the keyword table.
func (h *LookupHandler) Keywords(c *gin.Context) {
	keywords := []database.Keyword{}
	dumpTable(c, h.db, "id", &keywords, "keywords")
}

// Countries dumps the production country table.
func (h *LookupHandler) Countries(c *gin.Context) {
	countries := []database.ProductionCountry{}
	dumpTable(c, h.db, "country_id", &countries, "production countries")
}

// Languages dumps the spoken language table.
func (h *LookupHandler) Languages(c *gin.Context) {
	languages := []database.SpokenLanguage{}
	dumpTable(c, h.db, "language_id", &languages, "spoken languages")
}
