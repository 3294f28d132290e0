package repository

import (
	"strings"
	"unicode"

	"gorm.io/gorm"
)

// applySearch composes full-text search over name and description. On
// postgres the text-search configuration is dispatched by the detected
// language of the query; other dialects fall back to a LIKE scan.
func applySearch(stmt *gorm.DB, search string) *gorm.DB {
	search = strings.TrimSpace(search)
	if search == "" {
		return stmt
	}

	if stmt.Dialector != nil && stmt.Dialector.Name() == "postgres" {
		config := searchConfig(search)
		return stmt.Where(
			"to_tsvector(?::regconfig, name || ' ' || coalesce(description, '')) @@ plainto_tsquery(?::regconfig, ?)",
			config, config, search,
		)
	}

	pattern := "%" + strings.ToLower(search) + "%"
	return stmt.Where("LOWER(name) LIKE ? OR LOWER(description) LIKE ?", pattern, pattern)
}

// searchConfig picks the postgres text-search configuration for a query:
// Cyrillic input searches the russian config, Latin the english one.
func searchConfig(value string) string {
	hasCyrillic := false
	hasLatin := false
	for _, r := range value {
		switch {
		case unicode.Is(unicode.Cyrillic, r):
			hasCyrillic = true
		case unicode.In(r, unicode.Latin):
			hasLatin = true
		}
	}
	switch {
	case hasCyrillic:
		return "russian"
	case hasLatin:
		return "english"
	default:
		return "simple"
	}
}
