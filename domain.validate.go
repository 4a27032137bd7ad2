package main

import (
	"fmt"
	"strings"
	"time"
	"unicode/utf8"
)

// ValidationError reports every field of a candidate book which
// violated its constraint, in data model order.
type ValidationError struct {
	Fields []FieldViolation
}

type FieldViolation struct {
	Field  string `json:"field"`
	Reason string `json:"reason"`
}

func (e *ValidationError) Error() string {
	reasons := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		reasons = append(reasons, f.Field+": "+f.Reason)
	}
	return "validation failed: " + strings.Join(reasons, "; ")
}

func (e *ValidationError) add(field, reason string) {
	e.Fields = append(e.Fields, FieldViolation{Field: field, Reason: reason})
}

// orNil lets callers return a plain nil error instead of a typed nil.
func (e *ValidationError) orNil() error {
	if len(e.Fields) == 0 {
		return nil
	}
	return e
}

// NormalizeISBN strips hyphens from a raw isbn value.
func NormalizeISBN(isbn string) string {
	return strings.ReplaceAll(isbn, "-", "")
}

func isDigitsOnly(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return len(s) != 0
}

// IsValidGenre reports whether the given value belongs to the
// closed genre set. Comparison is case-sensitive.
func IsValidGenre(genre string) bool {
	for _, g := range Genres {
		if g == genre {
			return true
		}
	}
	return false
}

// ValidateCreateBookInput checks a creation request against the data
// model. On top of the shared constraints it requires an explicit
// price, since a merely omitted one would pass the zero-or-positive
// rule unnoticed.
func ValidateCreateBookInput(in *BookInput, now time.Time) error {
	verr := validateBook(in.Build(), now)
	if in.Price == nil {
		verr.add("price", "is required")
	}
	return verr.orNil()
}

// ValidateBook checks a fully assembled record, typically the result
// of merging an update request into the stored book.
func ValidateBook(book Book, now time.Time) error {
	return validateBook(book, now).orNil()
}

// validateBook applies the field constraints of the data model. The
// reference time bounds publishedYear to the current calendar year.
func validateBook(book Book, now time.Time) *ValidationError {
	verr := &ValidationError{}

	if l := utf8.RuneCountInString(book.Title); l == 0 {
		verr.add("title", "is required")
	} else if l > 200 {
		verr.add("title", "must be at most 200 characters")
	}

	if l := utf8.RuneCountInString(book.Author); l == 0 {
		verr.add("author", "is required")
	} else if l < 2 {
		verr.add("author", "must be at least 2 characters")
	}

	if book.ISBN == "" {
		verr.add("isbn", "is required")
	} else if digits := NormalizeISBN(book.ISBN); !isDigitsOnly(digits) {
		verr.add("isbn", "must contain digits and hyphens only")
	} else if len(digits) != 10 && len(digits) != 13 {
		verr.add("isbn", "must have exactly 10 or 13 digits")
	}

	if year := book.PublishedYear; year < 1000 || year > now.Year() {
		verr.add("publishedYear", fmt.Sprintf("must be between 1000 and %d", now.Year()))
	}

	if book.Genre == "" {
		verr.add("genre", "is required")
	} else if !IsValidGenre(book.Genre) {
		verr.add("genre", "must be one of: "+strings.Join(Genres, ", "))
	}

	if book.Price < 0 {
		verr.add("price", "must be zero or positive")
	}

	return verr
}
