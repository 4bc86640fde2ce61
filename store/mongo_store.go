package store

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const highScoreDocID = "highScore"

type scoreDocument struct {
	ID    string `bson:"_id"`
	Value int    `bson:"value"`
}

// MongoStore keeps the high score in one document of a collection.
type MongoStore struct {
	client     *mongo.Client
	collection *mongo.Collection
}

// NewMongoStore connects to uri and verifies the connection with a ping.
func NewMongoStore(ctx context.Context, uri, database, collection string) (*MongoStore, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("connecting to mongodb: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("mongodb ping failed: %w", err)
	}
	return &MongoStore{
		client:     client,
		collection: client.Database(database).Collection(collection),
	}, nil
}

// LoadHighScore returns 0 when no score has been stored.
func (s *MongoStore) LoadHighScore(ctx context.Context) (int, error) {
	var doc scoreDocument
	err := s.collection.FindOne(ctx, bson.M{"_id": highScoreDocID}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("reading high score: %w", err)
	}
	return doc.Value, nil
}

// SaveHighScore upserts the document with $max, so the stored value never
// decreases even with several writers.
func (s *MongoStore) SaveHighScore(ctx context.Context, score int) error {
	if score < 0 {
		return ErrNegativeScore
	}
	_, err := s.collection.UpdateOne(ctx,
		bson.M{"_id": highScoreDocID},
		bson.M{"$max": bson.M{"value": score}},
		options.Update().SetUpsert(true),
	)
	if err != nil {
		return fmt.Errorf("writing high score: %w", err)
	}
	return nil
}

func (s *MongoStore) Close() error {
	return s.client.Disconnect(context.Background())
}
