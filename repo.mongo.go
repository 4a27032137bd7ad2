package main

import (
	"context"
	"fmt"
	"regexp"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
)

// newestFirst orders documents by creation time, falling back on the
// object id so records created within the same instant stay stable.
var newestFirst = bson.D{{Key: "createdAt", Value: -1}, {Key: "_id", Value: -1}}

type mongoBookStorage struct {
	logger     *zap.Logger
	client     *mongo.Client
	collection *mongo.Collection
}

// GetMongoClient provides a connected mongo client. Like the storage
// boot contract requires, a reachability failure still returns a usable
// client along with the error so the caller can keep serving.
func GetMongoClient(ctx context.Context, config *Config) (*mongo.Client, error) {
	cCtx, cancel := context.WithTimeout(ctx, config.Mongo.ConnectTimeout)
	defer cancel()

	client, err := mongo.Connect(cCtx, options.Client().ApplyURI(config.Mongo.URI))
	if err != nil {
		return nil, fmt.Errorf("invalid mongo client options: %w", err)
	}

	if err := client.Ping(cCtx, nil); err != nil {
		return client, fmt.Errorf("test connection failed: %w", err)
	}
	return client, nil
}

// NewMongoBookStorage provides an instance of mongo-based book storage.
func NewMongoBookStorage(logger *zap.Logger, config *Config, client *mongo.Client) *mongoBookStorage {
	return &mongoBookStorage{
		logger:     logger,
		client:     client,
		collection: client.Database(config.Mongo.Database).Collection(config.Mongo.Collection),
	}
}

// EnsureIndexes installs the unique index backing isbn uniqueness.
func (ms *mongoBookStorage) EnsureIndexes(ctx context.Context) error {
	_, err := ms.collection.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "isbn", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	return err
}

// Close disconnects the underlying client.
func (ms *mongoBookStorage) Close(ctx context.Context) error {
	return ms.client.Disconnect(ctx)
}

// Add inserts a new book record and returns it with its assigned id.
func (ms *mongoBookStorage) Add(ctx context.Context, book Book) (Book, error) {
	book.ID = primitive.NilObjectID
	res, err := ms.collection.InsertOne(ctx, book)
	if mongo.IsDuplicateKeyError(err) {
		return book, ErrDuplicateISBN
	}
	if err != nil {
		return book, err
	}
	book.ID = res.InsertedID.(primitive.ObjectID)
	return book, nil
}

// GetOne retrieves a book record based on its ID. A structurally
// invalid id is answered like a well-formed absent one.
func (ms *mongoBookStorage) GetOne(ctx context.Context, id string) (Book, error) {
	var book Book
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return book, ErrBookNotFound
	}
	err = ms.collection.FindOne(ctx, bson.M{"_id": oid}).Decode(&book)
	if err == mongo.ErrNoDocuments {
		return book, ErrBookNotFound
	}
	return book, err
}

// Update replaces the stored record with the given one.
func (ms *mongoBookStorage) Update(ctx context.Context, id string, book Book) (Book, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return book, ErrBookNotFound
	}
	book.ID = oid
	res, err := ms.collection.ReplaceOne(ctx, bson.M{"_id": oid}, book)
	if mongo.IsDuplicateKeyError(err) {
		return book, ErrDuplicateISBN
	}
	if err != nil {
		return book, err
	}
	if res.MatchedCount == 0 {
		return book, ErrBookNotFound
	}
	return book, nil
}

// Delete removes a book record and returns it as it was just before.
func (ms *mongoBookStorage) Delete(ctx context.Context, id string) (Book, error) {
	var book Book
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return book, ErrBookNotFound
	}
	err = ms.collection.FindOneAndDelete(ctx, bson.M{"_id": oid}).Decode(&book)
	if err == mongo.ErrNoDocuments {
		return book, ErrBookNotFound
	}
	return book, err
}

// GetAll retrieves every book record, newest-created first.
func (ms *mongoBookStorage) GetAll(ctx context.Context) ([]Book, error) {
	return ms.find(ctx, bson.M{})
}

// Search retrieves the books whose title or author contains the given
// text as a case-insensitive substring, newest first.
func (ms *mongoBookStorage) Search(ctx context.Context, text string) ([]Book, error) {
	pattern := primitive.Regex{Pattern: regexp.QuoteMeta(text), Options: "i"}
	return ms.find(ctx, bson.M{"$or": []bson.M{
		{"title": pattern},
		{"author": pattern},
	}})
}

// GetByGenre retrieves the books matching the genre exactly, newest first.
func (ms *mongoBookStorage) GetByGenre(ctx context.Context, genre string) ([]Book, error) {
	return ms.find(ctx, bson.M{"genre": genre})
}

// GetInStock retrieves the books currently in stock, newest first.
func (ms *mongoBookStorage) GetInStock(ctx context.Context) ([]Book, error) {
	return ms.find(ctx, bson.M{"inStock": true})
}

func (ms *mongoBookStorage) find(ctx context.Context, filter bson.M) ([]Book, error) {
	cursor, err := ms.collection.Find(ctx, filter, options.Find().SetSort(newestFirst))
	if err != nil {
		return nil, err
	}
	books := []Book{}
	if err := cursor.All(ctx, &books); err != nil {
		return nil, err
	}
	return books, nil
}
