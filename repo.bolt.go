package main

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/boltdb/bolt"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// boltBookStorage is the embedded storage backend. It keeps the books
// in one bucket keyed by id and maintains a second bucket mapping isbn
// to id, which stands in for the unique index of the document store.
type boltBookStorage struct {
	logger *zap.Logger
	client *bolt.DB
	config *BoltDBConfig
}

// GetBoltDBClient sets up the database file and the buckets then
// provides a ready to use client.
func GetBoltDBClient(config *Config) (*bolt.DB, error) {
	db, err := bolt.Open(config.BoltDB.FilePath, 0o600, &bolt.Options{Timeout: config.BoltDB.Timeout})
	if err != nil {
		return nil, fmt.Errorf("failed to open the database: %v", err)
	}
	err = db.Update(func(tx *bolt.Tx) error {
		if _, errB := tx.CreateBucketIfNotExists([]byte(config.BoltDB.BucketName)); errB != nil {
			return fmt.Errorf("failed to create %s bucket: %v", config.BoltDB.BucketName, errB)
		}
		if _, errB := tx.CreateBucketIfNotExists([]byte(isbnBucketName(config.BoltDB.BucketName))); errB != nil {
			return fmt.Errorf("failed to create isbn index bucket: %v", errB)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to set up buckets: %v", err)
	}
	return db, nil
}

func isbnBucketName(bucket string) string {
	return bucket + ".isbn"
}

// NewBoltBookStorage provides an instance of bolt-based book storage.
func NewBoltBookStorage(logger *zap.Logger, boltConfig *BoltDBConfig, client *bolt.DB) *boltBookStorage {
	return &boltBookStorage{
		logger: logger,
		client: client,
		config: boltConfig,
	}
}

// Close shuts down the bolt-based book storage.
func (bs *boltBookStorage) Close(_ context.Context) error {
	return bs.client.Close()
}

func (bs *boltBookStorage) books(tx *bolt.Tx) *bolt.Bucket {
	return tx.Bucket([]byte(bs.config.BucketName))
}

func (bs *boltBookStorage) isbns(tx *bolt.Tx) *bolt.Bucket {
	return tx.Bucket([]byte(isbnBucketName(bs.config.BucketName)))
}

// Add inserts a new book record, assigning its id. The isbn index is
// checked and updated within the same transaction.
func (bs *boltBookStorage) Add(_ context.Context, book Book) (Book, error) {
	book.ID = primitive.NewObjectID()
	err := bs.client.Update(func(tx *bolt.Tx) error {
		if owner := bs.isbns(tx).Get([]byte(book.ISBN)); owner != nil {
			return ErrDuplicateISBN
		}
		bookBytes, err := json.Marshal(book)
		if err != nil {
			return err
		}
		id := []byte(book.ID.Hex())
		if err := bs.books(tx).Put(id, bookBytes); err != nil {
			return err
		}
		return bs.isbns(tx).Put([]byte(book.ISBN), id)
	})
	return book, err
}

// GetOne retrieves a book record based on its ID.
func (bs *boltBookStorage) GetOne(_ context.Context, id string) (Book, error) {
	var book Book
	tx, err := bs.client.Begin(false)
	if err != nil {
		return book, err
	}
	defer tx.Rollback()

	result := bs.books(tx).Get([]byte(id))
	if result == nil {
		return book, ErrBookNotFound
	}
	err = json.Unmarshal(result, &book)
	return book, err
}

// Update replaces an existing book record, keeping the isbn index in
// step when the isbn changed.
func (bs *boltBookStorage) Update(_ context.Context, id string, book Book) (Book, error) {
	err := bs.client.Update(func(tx *bolt.Tx) error {
		current := bs.books(tx).Get([]byte(id))
		if current == nil {
			return ErrBookNotFound
		}
		var previous Book
		if err := json.Unmarshal(current, &previous); err != nil {
			return err
		}
		book.ID = previous.ID

		if owner := bs.isbns(tx).Get([]byte(book.ISBN)); owner != nil && string(owner) != id {
			return ErrDuplicateISBN
		}
		if previous.ISBN != book.ISBN {
			if err := bs.isbns(tx).Delete([]byte(previous.ISBN)); err != nil {
				return err
			}
			if err := bs.isbns(tx).Put([]byte(book.ISBN), []byte(id)); err != nil {
				return err
			}
		}

		bookBytes, err := json.Marshal(book)
		if err != nil {
			return err
		}
		return bs.books(tx).Put([]byte(id), bookBytes)
	})
	return book, err
}

// Delete removes a book record and returns it as it was just before.
func (bs *boltBookStorage) Delete(_ context.Context, id string) (Book, error) {
	var book Book
	err := bs.client.Update(func(tx *bolt.Tx) error {
		result := bs.books(tx).Get([]byte(id))
		if result == nil {
			return ErrBookNotFound
		}
		if err := json.Unmarshal(result, &book); err != nil {
			return err
		}
		if err := bs.isbns(tx).Delete([]byte(book.ISBN)); err != nil {
			return err
		}
		return bs.books(tx).Delete([]byte(id))
	})
	return book, err
}

// GetAll retrieves every book record, newest-created first.
func (bs *boltBookStorage) GetAll(ctx context.Context) ([]Book, error) {
	return bs.scan(ctx, func(Book) bool { return true })
}

// Search retrieves the books whose title or author contains the given
// text as a case-insensitive substring, newest first.
func (bs *boltBookStorage) Search(ctx context.Context, text string) ([]Book, error) {
	needle := strings.ToLower(text)
	return bs.scan(ctx, func(b Book) bool {
		return strings.Contains(strings.ToLower(b.Title), needle) ||
			strings.Contains(strings.ToLower(b.Author), needle)
	})
}

// GetByGenre retrieves the books matching the genre exactly, newest first.
func (bs *boltBookStorage) GetByGenre(ctx context.Context, genre string) ([]Book, error) {
	return bs.scan(ctx, func(b Book) bool { return b.Genre == genre })
}

// GetInStock retrieves the books currently in stock, newest first.
func (bs *boltBookStorage) GetInStock(ctx context.Context) ([]Book, error) {
	return bs.scan(ctx, func(b Book) bool { return b.InStock })
}

// scan walks the books bucket, keeps the records the predicate accepts
// and orders the result newest-created first.
func (bs *boltBookStorage) scan(_ context.Context, keep func(Book) bool) ([]Book, error) {
	tx, err := bs.client.Begin(false)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	c := bs.books(tx).Cursor()
	books := []Book{}
	for k, v := c.First(); k != nil; k, v = c.Next() {
		var book Book
		if err = json.Unmarshal(v, &book); err != nil {
			return nil, err
		}
		if keep(book) {
			books = append(books, book)
		}
	}

	sort.Slice(books, func(i, j int) bool {
		if !books[i].CreatedAt.Equal(books[j].CreatedAt) {
			return books[i].CreatedAt.After(books[j].CreatedAt)
		}
		return books[i].ID.Hex() > books[j].ID.Hex()
	})
	return books, nil
}
