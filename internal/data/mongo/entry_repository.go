// Package mongo stores entries and settings in MongoDB. Entries are kept in
// their flat document shape with the entry id as _id.
package mongo

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/travel-ledger/internal/domain/entry"
)

const (
	// EntryCollectionName is the name of the entries collection in MongoDB
	EntryCollectionName = "entries"
	// SettingsCollectionName is the name of the settings collection in MongoDB
	SettingsCollectionName = "settings"
)

// EntryRepository implements the entry.Repository interface for MongoDB
type EntryRepository struct {
	db     *mongo.Database
	logger *slog.Logger
}

// NewEntryRepository creates a new MongoDB entry repository
func NewEntryRepository(logger *slog.Logger, db *mongo.Database) *EntryRepository {
	return &EntryRepository{
		db:     db,
		logger: logger,
	}
}

// EnsureIndexes creates the index recent listings walk.
func (r *EntryRepository) EnsureIndexes(ctx context.Context) error {
	_, err := r.db.Collection(EntryCollectionName).Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "timestampCreated", Value: -1}},
	})
	if err != nil {
		return fmt.Errorf("failed to create entry index: %w", err)
	}
	return nil
}

// Put replaces the stored document with the same _id, inserting it when
// there is none.
func (r *EntryRepository) Put(ctx context.Context, e *entry.Entry) error {
	collection := r.db.Collection(EntryCollectionName)

	_, err := collection.ReplaceOne(ctx,
		bson.M{"_id": e.EntryID},
		e.ToDocument(),
		options.Replace().SetUpsert(true),
	)
	if err != nil {
		r.logger.Error("Failed to put entry", "entry_id", e.EntryID, "error", err)
		return fmt.Errorf("failed to put entry: %w", err)
	}
	return nil
}

// Get retrieves an entry by id.
// Returns ErrEntryNotFound if no entry exists for the given id.
func (r *EntryRepository) Get(ctx context.Context, entryID string) (*entry.Entry, error) {
	collection := r.db.Collection(EntryCollectionName)

	var doc entry.Document
	err := collection.FindOne(ctx, bson.M{"_id": entryID}).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, entry.ErrEntryNotFound{EntryID: entryID}
		}
		r.logger.Error("Failed to get entry", "entry_id", entryID, "error", err)
		return nil, fmt.Errorf("failed to get entry: %w", err)
	}

	return entry.FromDocument(doc)
}

func (r *EntryRepository) Delete(ctx context.Context, entryID string) error {
	_, err := r.db.Collection(EntryCollectionName).DeleteOne(ctx, bson.M{"_id": entryID})
	if err != nil {
		r.logger.Error("Failed to delete entry", "entry_id", entryID, "error", err)
		return fmt.Errorf("failed to delete entry: %w", err)
	}
	return nil
}

func (r *EntryRepository) ListAll(ctx context.Context) ([]*entry.Entry, error) {
	return r.find(ctx, bson.M{}, options.Find())
}

// ListRecent sorts newest first on the server and lets it stop after limit
// documents.
func (r *EntryRepository) ListRecent(ctx context.Context, limit int, opts entry.ListOptions) ([]*entry.Entry, error) {
	if limit <= 0 {
		return []*entry.Entry{}, nil
	}

	filter := bson.M{}
	if !opts.IncludeWithdrawals {
		filter["isCashWithdrawal"] = false
	}
	findOpts := options.Find().
		SetSort(bson.D{{Key: "timestampCreated", Value: -1}, {Key: "_id", Value: -1}}).
		SetLimit(int64(limit))

	return r.find(ctx, filter, findOpts)
}

func (r *EntryRepository) Clear(ctx context.Context) error {
	if _, err := r.db.Collection(EntryCollectionName).DeleteMany(ctx, bson.M{}); err != nil {
		r.logger.Error("Failed to clear entries", "error", err)
		return fmt.Errorf("failed to clear entries: %w", err)
	}
	return nil
}

func (r *EntryRepository) find(ctx context.Context, filter bson.M, opts *options.FindOptions) ([]*entry.Entry, error) {
	cursor, err := r.db.Collection(EntryCollectionName).Find(ctx, filter, opts)
	if err != nil {
		r.logger.Error("Failed to find entries", "error", err)
		return nil, fmt.Errorf("failed to find entries: %w", err)
	}
	defer cursor.Close(ctx)

	var docs []entry.Document
	if err := cursor.All(ctx, &docs); err != nil {
		r.logger.Error("Failed to decode entries", "error", err)
		return nil, fmt.Errorf("failed to decode entries: %w", err)
	}

	entries := make([]*entry.Entry, 0, len(docs))
	for _, doc := range docs {
		e, err := entry.FromDocument(doc)
		if err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, nil
}
