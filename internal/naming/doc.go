// Package naming derives filesystem-safe output paths from disc metadata.
//
// Components are transliterated to ASCII (diacritics stripped via Unicode
// decomposition), unsafe characters collapse into a configurable separator,
// and empty results fall back to "untitled" so downstream paths stay valid.
package naming
