package main

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

var (
	ErrBookNotFound  = errors.New("book not found")
	ErrDuplicateISBN = errors.New("a book with this isbn already exists")
)

// Genres is the closed set of values accepted for the genre field.
// Matching is exact and case-sensitive everywhere in the api.
var Genres = []string{
	"Fiction",
	"Non-Fiction",
	"Mystery",
	"Thriller",
	"Romance",
	"Science Fiction",
	"Fantasy",
	"Biography",
	"History",
	"Self-Help",
	"Other",
}

// Book represents a book record as stored and served.
// The id and both timestamps are server-controlled.
type Book struct {
	ID            primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	Title         string             `json:"title" bson:"title"`
	Author        string             `json:"author" bson:"author"`
	ISBN          string             `json:"isbn" bson:"isbn"`
	PublishedYear int                `json:"publishedYear" bson:"publishedYear"`
	Genre         string             `json:"genre" bson:"genre"`
	Price         float64            `json:"price" bson:"price"`
	InStock       bool               `json:"inStock" bson:"inStock"`
	CreatedAt     time.Time          `json:"createdAt" bson:"createdAt"`
	UpdatedAt     time.Time          `json:"updatedAt" bson:"updatedAt"`
}

// BookInput is the client-facing shape for create and update requests.
// Pointer fields distinguish absent from zero values so updates stay
// partial. It deliberately carries no id or timestamp fields: whatever
// the client sends for those is dropped at decoding time.
type BookInput struct {
	Title         *string  `json:"title"`
	Author        *string  `json:"author"`
	ISBN          *string  `json:"isbn"`
	PublishedYear *int     `json:"publishedYear"`
	Genre         *string  `json:"genre"`
	Price         *float64 `json:"price"`
	InStock       *bool    `json:"inStock"`
}

// Build assembles a new Book from the input. Fields left unset keep
// their zero value except inStock which defaults to true.
func (in *BookInput) Build() Book {
	book := Book{InStock: true}
	in.ApplyTo(&book)
	return book
}

// ApplyTo overwrites only the fields present in the input.
func (in *BookInput) ApplyTo(book *Book) {
	if in.Title != nil {
		book.Title = *in.Title
	}
	if in.Author != nil {
		book.Author = *in.Author
	}
	if in.ISBN != nil {
		book.ISBN = *in.ISBN
	}
	if in.PublishedYear != nil {
		book.PublishedYear = *in.PublishedYear
	}
	if in.Genre != nil {
		book.Genre = *in.Genre
	}
	if in.Price != nil {
		book.Price = *in.Price
	}
	if in.InStock != nil {
		book.InStock = *in.InStock
	}
}

// BookStorage defines possible operations on the book entity. All list
// results come back fully materialized and ordered newest-created first.
// Implementations translate their store-level failures into the sentinel
// errors above so no driver error code crosses this boundary.
type BookStorage interface {
	Add(ctx context.Context, book Book) (Book, error)
	GetOne(ctx context.Context, id string) (Book, error)
	Update(ctx context.Context, id string, book Book) (Book, error)
	Delete(ctx context.Context, id string) (Book, error)
	GetAll(ctx context.Context) ([]Book, error)
	Search(ctx context.Context, text string) ([]Book, error)
	GetByGenre(ctx context.Context, genre string) ([]Book, error)
	GetInStock(ctx context.Context) ([]Book, error)
	Close(ctx context.Context) error
}
