package main

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// TestBookServiceCreate ensures creation stamps both timestamps,
// defaults the stock flag and lets the store assign the id.
func TestBookServiceCreate(t *testing.T) {
	clock := NewMockClocker()
	assigned := primitive.NewObjectID()
	var stored Book
	mockRepo := &MockBookStorage{
		AddFunc: func(ctx context.Context, book Book) (Book, error) {
			stored = book
			book.ID = assigned
			return book, nil
		},
	}
	bs := NewBookService(zap.NewNop(), &Config{}, clock, mockRepo)

	book, err := bs.Create(context.TODO(), validBookInput())
	require.NoError(t, err)
	assert.Equal(t, assigned, book.ID)
	assert.Equal(t, clock.Now(), book.CreatedAt)
	assert.Equal(t, clock.Now(), book.UpdatedAt)
	assert.True(t, book.InStock)
	assert.True(t, stored.ID.IsZero(), "the id must come from the store")
}

// TestBookServiceCreate_Invalid ensures nothing reaches the store when
// the input fails validation.
func TestBookServiceCreate_Invalid(t *testing.T) {
	var added bool
	mockRepo := &MockBookStorage{
		AddFunc: func(ctx context.Context, book Book) (Book, error) {
			added = true
			return book, nil
		},
	}
	bs := NewBookService(zap.NewNop(), &Config{}, NewMockClocker(), mockRepo)

	in := validBookInput()
	in.Author = nil
	_, err := bs.Create(context.TODO(), in)
	require.Error(t, err)
	assert.IsType(t, &ValidationError{}, err)
	assert.False(t, added)
}

// TestBookServiceUpdate ensures a partial update touches only the
// provided fields, refreshes updatedAt and keeps createdAt intact.
func TestBookServiceUpdate(t *testing.T) {
	clock := NewMockClocker()
	created := time.Date(2022, 1, 1, 0, 0, 0, 0, time.UTC)
	existing := validBookInput().Build()
	existing.ID = primitive.NewObjectID()
	existing.CreatedAt = created
	existing.UpdatedAt = created

	var replaced Book
	mockRepo := &MockBookStorage{
		GetOneFunc: func(ctx context.Context, id string) (Book, error) {
			return existing, nil
		},
		UpdateFunc: func(ctx context.Context, id string, book Book) (Book, error) {
			replaced = book
			return book, nil
		},
	}
	bs := NewBookService(zap.NewNop(), &Config{}, clock, mockRepo)

	in := &BookInput{Price: ptr(9.99), InStock: ptr(false)}
	book, err := bs.Update(context.TODO(), existing.ID.Hex(), in)
	require.NoError(t, err)

	assert.Equal(t, 9.99, book.Price)
	assert.False(t, book.InStock)
	assert.Equal(t, existing.Title, book.Title)
	assert.Equal(t, existing.Author, book.Author)
	assert.Equal(t, existing.ISBN, book.ISBN)
	assert.Equal(t, created, book.CreatedAt, "createdAt is immutable")
	assert.Equal(t, clock.Now(), book.UpdatedAt, "updatedAt must be refreshed")
	assert.Equal(t, book, replaced)
}

// TestBookServiceUpdate_UnknownID ensures the absent-result signal
// passes through untouched.
func TestBookServiceUpdate_UnknownID(t *testing.T) {
	mockRepo := &MockBookStorage{
		GetOneFunc: func(ctx context.Context, id string) (Book, error) {
			return Book{}, ErrBookNotFound
		},
	}
	bs := NewBookService(zap.NewNop(), &Config{}, NewMockClocker(), mockRepo)

	_, err := bs.Update(context.TODO(), primitive.NewObjectID().Hex(), &BookInput{Price: ptr(1.0)})
	assert.ErrorIs(t, err, ErrBookNotFound)
}

// TestBookServiceUpdate_InvalidMerge ensures the merged record is
// re-validated before persisting.
func TestBookServiceUpdate_InvalidMerge(t *testing.T) {
	existing := validBookInput().Build()
	var updated bool
	mockRepo := &MockBookStorage{
		GetOneFunc: func(ctx context.Context, id string) (Book, error) {
			return existing, nil
		},
		UpdateFunc: func(ctx context.Context, id string, book Book) (Book, error) {
			updated = true
			return book, nil
		},
	}
	bs := NewBookService(zap.NewNop(), &Config{}, NewMockClocker(), mockRepo)

	in := &BookInput{Genre: ptr("fantasy")} // wrong case, not in the set
	_, err := bs.Update(context.TODO(), "whatever", in)
	require.Error(t, err)
	assert.IsType(t, &ValidationError{}, err)
	assert.False(t, updated)
}
