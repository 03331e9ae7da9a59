package mongo

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// settingDocument keeps the value as JSON text so the store stays blind to
// its shape.
type settingDocument struct {
	Key       string    `bson:"_id"`
	Value     string    `bson:"value"`
	UpdatedAt time.Time `bson:"updatedAt"`
}

type SettingsRepository struct {
	db     *mongo.Database
	logger *slog.Logger
}

func NewSettingsRepository(logger *slog.Logger, db *mongo.Database) *SettingsRepository {
	return &SettingsRepository{db: db, logger: logger}
}

func (r *SettingsRepository) Get(ctx context.Context, key string) (json.RawMessage, error) {
	var doc settingDocument
	err := r.db.Collection(SettingsCollectionName).FindOne(ctx, bson.M{"_id": key}).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		r.logger.Error("Failed to get setting", "key", key, "error", err)
		return nil, fmt.Errorf("failed to get setting %s: %w", key, err)
	}
	return json.RawMessage(doc.Value), nil
}

func (r *SettingsRepository) Set(ctx context.Context, key string, value json.RawMessage) error {
	doc := settingDocument{Key: key, Value: string(value), UpdatedAt: time.Now().UTC()}
	_, err := r.db.Collection(SettingsCollectionName).ReplaceOne(ctx,
		bson.M{"_id": key}, doc, options.Replace().SetUpsert(true))
	if err != nil {
		r.logger.Error("Failed to set setting", "key", key, "error", err)
		return fmt.Errorf("failed to set setting %s: %w", key, err)
	}
	return nil
}

func (r *SettingsRepository) Delete(ctx context.Context, key string) error {
	if _, err := r.db.Collection(SettingsCollectionName).DeleteOne(ctx, bson.M{"_id": key}); err != nil {
		r.logger.Error("Failed to delete setting", "key", key, "error", err)
		return fmt.Errorf("failed to delete setting %s: %w", key, err)
	}
	return nil
}
