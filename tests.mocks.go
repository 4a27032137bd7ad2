package main

import (
	"context"
	"time"
)

// This file contains mocks definitions needed to perform unit tests.

type MockBookStorage struct {
	AddFunc        func(ctx context.Context, book Book) (Book, error)
	GetOneFunc     func(ctx context.Context, id string) (Book, error)
	UpdateFunc     func(ctx context.Context, id string, book Book) (Book, error)
	DeleteFunc     func(ctx context.Context, id string) (Book, error)
	GetAllFunc     func(ctx context.Context) ([]Book, error)
	SearchFunc     func(ctx context.Context, text string) ([]Book, error)
	GetByGenreFunc func(ctx context.Context, genre string) ([]Book, error)
	GetInStockFunc func(ctx context.Context) ([]Book, error)
}

// Add mocks the behavior of book creation by the repository.
func (m *MockBookStorage) Add(ctx context.Context, book Book) (Book, error) {
	return m.AddFunc(ctx, book)
}

// GetOne mocks the behavior of retrieving a book by the repository.
func (m *MockBookStorage) GetOne(ctx context.Context, id string) (Book, error) {
	return m.GetOneFunc(ctx, id)
}

// Update mocks the behavior of updating a book by the repository.
func (m *MockBookStorage) Update(ctx context.Context, id string, book Book) (Book, error) {
	return m.UpdateFunc(ctx, id, book)
}

// Delete mocks the behavior of deleting a book by the repository.
func (m *MockBookStorage) Delete(ctx context.Context, id string) (Book, error) {
	return m.DeleteFunc(ctx, id)
}

// GetAll mocks the behavior of retrieving all books by the repository.
func (m *MockBookStorage) GetAll(ctx context.Context) ([]Book, error) {
	return m.GetAllFunc(ctx)
}

// Search mocks the behavior of the substring search by the repository.
func (m *MockBookStorage) Search(ctx context.Context, text string) ([]Book, error) {
	return m.SearchFunc(ctx, text)
}

// GetByGenre mocks the behavior of the genre filter by the repository.
func (m *MockBookStorage) GetByGenre(ctx context.Context, genre string) ([]Book, error) {
	return m.GetByGenreFunc(ctx, genre)
}

// GetInStock mocks the behavior of the stock filter by the repository.
func (m *MockBookStorage) GetInStock(ctx context.Context) ([]Book, error) {
	return m.GetInStockFunc(ctx)
}

// Close is a no-op on the mock.
func (m *MockBookStorage) Close(_ context.Context) error {
	return nil
}

// MockClocker implements a fake Clocker.
type MockClocker struct {
	MockNow time.Time
}

// NewMockClocker returns a mocked instance with fixed time. This
// equals to `Sun, 02 Jul 2023 00:00:00 UTC` in time.RFC1123 format.
func NewMockClocker() *MockClocker {
	return &MockClocker{time.Date(2023, 7, 2, 0, 0, 0, 0, time.UTC)}
}

// Now returns an already defined time to be used as mock.
func (mck *MockClocker) Now() time.Time {
	return mck.MockNow
}

// MockUIDHandler implements a fake UIDHandler.
type MockUIDHandler struct {
	MockedUID string
}

// NewMockUIDHandler returns a mocked instance with predictable id.
func NewMockUIDHandler(id string) *MockUIDHandler {
	return &MockUIDHandler{MockedUID: id}
}

// Generate constructs a predictable id to be used as mock.
func (muid *MockUIDHandler) Generate(prefix string) string {
	return prefix + ":" + muid.MockedUID
}
