package catalog

import (
	"context"
	"encoding/json"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoSource reads part documents from a collection. Documents use the same
// field names as the JSON catalog; they are returned in natural order.
type MongoSource struct {
	Collection *mongo.Collection
}

// ConnectMongo connects to uri and returns the named collection.
// The caller owns the returned client and must Disconnect it.
func ConnectMongo(ctx context.Context, uri, database, collection string) (*mongo.Client, *mongo.Collection, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, nil, fmt.Errorf("connect mongo: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(ctx)
		return nil, nil, fmt.Errorf("ping mongo: %w", err)
	}
	return client, client.Database(database).Collection(collection), nil
}

// Parts loads every document. Documents are re-encoded as relaxed extended
// JSON and decoded by [DecodeJSON] so both sources share the field rules.
func (s MongoSource) Parts(ctx context.Context) ([]Part, error) {
	opts := options.Find().SetProjection(bson.D{{Key: "_id", Value: 0}})
	cur, err := s.Collection.Find(ctx, bson.D{}, opts)
	if err != nil {
		return nil, fmt.Errorf("find parts: %w", err)
	}
	defer cur.Close(ctx)

	raw := []json.RawMessage{}
	for cur.Next(ctx) {
		doc, err := bson.MarshalExtJSON(cur.Current, false, false)
		if err != nil {
			return nil, fmt.Errorf("encode part document: %w", err)
		}
		raw = append(raw, doc)
	}
	if err := cur.Err(); err != nil {
		return nil, fmt.Errorf("iterate parts: %w", err)
	}

	data, err := json.Marshal(raw)
	if err != nil {
		return nil, fmt.Errorf("encode parts: %w", err)
	}
	return DecodeJSON(data)
}

// Describe implements Source.
func (s MongoSource) Describe() string {
	return fmt.Sprintf("mongo:%s.%s", s.Collection.Database().Name(), s.Collection.Name())
}
