// Package mongo stores board records as documents in a MongoDB collection.
package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"whiteboard/internal/ports"
)

const (
	// DatabaseName is used when the connection string names no database
	DatabaseName = "whiteboard"

	// CollectionName holds one document per board record
	CollectionName = "records"
)

type document struct {
	ID        string    `bson:"_id"`
	Board     string    `bson:"board"`
	Key       string    `bson:"key"`
	Value     []byte    `bson:"value"`
	UpdatedAt time.Time `bson:"updated_at"`
}

// Store is a KeyValueStore over a MongoDB collection
type Store struct {
	client *mongo.Client
	coll   *mongo.Collection
	board  string
}

var _ ports.KeyValueStore = (*Store)(nil)

// Open connects to uri and checks the server answers
func Open(ctx context.Context, uri, board string) (*Store, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("connect to mongo: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(context.WithoutCancel(ctx))
		return nil, fmt.Errorf("ping mongo: %w", err)
	}
	return &Store{
		client: client,
		coll:   client.Database(DatabaseName).Collection(CollectionName),
		board:  board,
	}, nil
}

// DocumentID returns the _id of a board record
func DocumentID(board, key string) string {
	return board + "/" + key
}

// Get returns the stored value, or nil when key is absent
func (s *Store) Get(ctx context.Context, key string) ([]byte, error) {
	var doc document
	err := s.coll.FindOne(ctx, bson.M{"_id": DocumentID(s.board, key)}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get %s: %w", key, err)
	}
	return doc.Value, nil
}

// Put replaces the document for key, creating it when missing
func (s *Store) Put(ctx context.Context, key string, value []byte) error {
	doc := document{
		ID:        DocumentID(s.board, key),
		Board:     s.board,
		Key:       key,
		Value:     value,
		UpdatedAt: time.Now().UTC(),
	}
	_, err := s.coll.ReplaceOne(ctx, bson.M{"_id": doc.ID}, doc, options.Replace().SetUpsert(true))
	if err != nil {
		return fmt.Errorf("put %s: %w", key, err)
	}
	return nil
}

// Delete removes key
func (s *Store) Delete(ctx context.Context, key string) error {
	if _, err := s.coll.DeleteOne(ctx, bson.M{"_id": DocumentID(s.board, key)}); err != nil {
		return fmt.Errorf("delete %s: %w", key, err)
	}
	return nil
}

// Close disconnects the client
func (s *Store) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return s.client.Disconnect(ctx)
}
