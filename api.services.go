package main

import (
	"context"

	"go.uber.org/zap"
)

// BookServiceProvider exposes one method per api operation.
type BookServiceProvider interface {
	Create(ctx context.Context, in *BookInput) (Book, error)
	GetOne(ctx context.Context, id string) (Book, error)
	Update(ctx context.Context, id string, in *BookInput) (Book, error)
	Delete(ctx context.Context, id string) (Book, error)
	GetAll(ctx context.Context) ([]Book, error)
	Search(ctx context.Context, text string) ([]Book, error)
	GetByGenre(ctx context.Context, genre string) ([]Book, error)
	GetInStock(ctx context.Context) ([]Book, error)
}

type BookService struct {
	logger  *zap.Logger
	config  *Config
	clock   Clocker
	storage BookStorage
}

func NewBookService(logger *zap.Logger, config *Config, clock Clocker, storage BookStorage) BookServiceProvider {
	return &BookService{
		logger:  logger,
		config:  config,
		clock:   clock,
		storage: storage,
	}
}

// Create validates the input, stamps both timestamps and inserts the
// record. The store assigns the id.
func (bs *BookService) Create(ctx context.Context, in *BookInput) (Book, error) {
	now := bs.clock.Now().UTC()
	if err := ValidateCreateBookInput(in, now); err != nil {
		return Book{}, err
	}
	book := in.Build()
	book.CreatedAt = now
	book.UpdatedAt = now
	return bs.storage.Add(ctx, book)
}

func (bs *BookService) GetOne(ctx context.Context, id string) (Book, error) {
	return bs.storage.GetOne(ctx, id)
}

// Update loads the stored record, merges only the fields present in
// the input, re-validates the result and persists it with a refreshed
// updatedAt. Id and timestamps of the stored record are untouchable:
// the input shape cannot even carry them.
func (bs *BookService) Update(ctx context.Context, id string, in *BookInput) (Book, error) {
	book, err := bs.storage.GetOne(ctx, id)
	if err != nil {
		return Book{}, err
	}

	in.ApplyTo(&book)
	now := bs.clock.Now().UTC()
	if err := ValidateBook(book, now); err != nil {
		return Book{}, err
	}
	book.UpdatedAt = now
	return bs.storage.Update(ctx, id, book)
}

// Delete removes the record and returns it as it was just before.
func (bs *BookService) Delete(ctx context.Context, id string) (Book, error) {
	return bs.storage.Delete(ctx, id)
}

func (bs *BookService) GetAll(ctx context.Context) ([]Book, error) {
	return bs.storage.GetAll(ctx)
}

func (bs *BookService) Search(ctx context.Context, text string) ([]Book, error) {
	return bs.storage.Search(ctx, text)
}

func (bs *BookService) GetByGenre(ctx context.Context, genre string) ([]Book, error) {
	return bs.storage.GetByGenre(ctx, genre)
}

func (bs *BookService) GetInStock(ctx context.Context) ([]Book, error) {
	return bs.storage.GetInStock(ctx)
}
