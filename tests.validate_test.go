package main

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ptr[T any](v T) *T { return &v }

// validBookInput returns a creation payload passing every constraint.
func validBookInput() *BookInput {
	return &BookInput{
		Title:         ptr("The Hobbit"),
		Author:        ptr("J.R.R. Tolkien"),
		ISBN:          ptr("978-0-345-33968-3"),
		PublishedYear: ptr(1937),
		Genre:         ptr("Fantasy"),
		Price:         ptr(14.99),
	}
}

// violatedFields extracts the names of the offending fields.
func violatedFields(t *testing.T, err error) []string {
	t.Helper()
	verr, ok := err.(*ValidationError)
	require.True(t, ok, "expected a *ValidationError, got %T", err)
	fields := make([]string, 0, len(verr.Fields))
	for _, f := range verr.Fields {
		fields = append(fields, f.Field)
	}
	return fields
}

// TestValidateCreateBookInput ensures each field constraint of the
// data model is enforced before any write.
func TestValidateCreateBookInput(t *testing.T) {
	now := NewMockClocker().Now()

	t.Run("valid 13-digit isbn", func(t *testing.T) {
		assert.NoError(t, ValidateCreateBookInput(validBookInput(), now))
	})

	t.Run("valid 10-digit isbn without hyphens", func(t *testing.T) {
		in := validBookInput()
		in.ISBN = ptr("0345339681")
		assert.NoError(t, ValidateCreateBookInput(in, now))
	})

	t.Run("in stock defaults to true", func(t *testing.T) {
		in := validBookInput()
		require.Nil(t, in.InStock)
		assert.True(t, in.Build().InStock)
	})

	testCases := []struct {
		name   string
		mutate func(in *BookInput)
		field  string
	}{
		{"missing title", func(in *BookInput) { in.Title = nil }, "title"},
		{"empty title", func(in *BookInput) { in.Title = ptr("") }, "title"},
		{"too long title", func(in *BookInput) { in.Title = ptr(strings.Repeat("x", 201)) }, "title"},
		{"missing author", func(in *BookInput) { in.Author = nil }, "author"},
		{"single char author", func(in *BookInput) { in.Author = ptr("X") }, "author"},
		{"missing isbn", func(in *BookInput) { in.ISBN = nil }, "isbn"},
		{"isbn with letters", func(in *BookInput) { in.ISBN = ptr("97803453396X") }, "isbn"},
		{"isbn with 11 digits", func(in *BookInput) { in.ISBN = ptr("03453396811") }, "isbn"},
		{"year before 1000", func(in *BookInput) { in.PublishedYear = ptr(999) }, "publishedYear"},
		{"year in the future", func(in *BookInput) { in.PublishedYear = ptr(now.Year() + 1) }, "publishedYear"},
		{"missing year", func(in *BookInput) { in.PublishedYear = nil }, "publishedYear"},
		{"missing genre", func(in *BookInput) { in.Genre = nil }, "genre"},
		{"genre with wrong case", func(in *BookInput) { in.Genre = ptr("fantasy") }, "genre"},
		{"unknown genre", func(in *BookInput) { in.Genre = ptr("Poetry") }, "genre"},
		{"missing price", func(in *BookInput) { in.Price = nil }, "price"},
		{"negative price", func(in *BookInput) { in.Price = ptr(-1.0) }, "price"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			in := validBookInput()
			tc.mutate(in)
			err := ValidateCreateBookInput(in, now)
			require.Error(t, err)
			assert.Equal(t, []string{tc.field}, violatedFields(t, err))
		})
	}

	t.Run("all violations reported at once", func(t *testing.T) {
		in := &BookInput{}
		err := ValidateCreateBookInput(in, now)
		require.Error(t, err)
		assert.Equal(t,
			[]string{"title", "author", "isbn", "publishedYear", "genre", "price"},
			violatedFields(t, err),
		)
	})

	t.Run("whole genre set accepted", func(t *testing.T) {
		for _, genre := range Genres {
			in := validBookInput()
			in.Genre = ptr(genre)
			assert.NoError(t, ValidateCreateBookInput(in, now), genre)
		}
	})
}

// TestValidateBook covers the update path where a merged record is
// re-checked before persisting.
func TestValidateBook(t *testing.T) {
	now := NewMockClocker().Now()
	book := validBookInput().Build()
	assert.NoError(t, ValidateBook(book, now))

	book.Genre = "fantasy"
	err := ValidateBook(book, now)
	require.Error(t, err)
	assert.Equal(t, []string{"genre"}, violatedFields(t, err))
}

// TestNormalizeISBN ensures hyphen removal only.
func TestNormalizeISBN(t *testing.T) {
	assert.Equal(t, "9780345339683", NormalizeISBN("978-0-345-33968-3"))
	assert.Equal(t, "0345339681", NormalizeISBN("0345339681"))
}
