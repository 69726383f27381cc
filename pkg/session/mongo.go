package session

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoStore keeps sessions in a MongoDB collection, one document per
// session keyed by _id. It is the durable backend for deployments that must
// keep sessions across restarts.
type MongoStore struct {
	client     *mongo.Client
	collection *mongo.Collection
	ttl        time.Duration
}

// NewMongoStore connects to MongoDB and verifies the connection with a ping.
func NewMongoStore(ctx context.Context, uri, database string, ttl time.Duration) (*MongoStore, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("connect mongodb: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		client.Disconnect(ctx)
		return nil, fmt.Errorf("ping mongodb: %w", err)
	}
	if database == "" {
		database = "fpdviz"
	}
	if ttl == 0 {
		ttl = DefaultTTL
	}
	return &MongoStore{
		client:     client,
		collection: client.Database(database).Collection("sessions"),
		ttl:        ttl,
	}, nil
}

// Get implements [Store]. Reading a session renews its TTL in the database.
func (st *MongoStore) Get(ctx context.Context, id string) (*Session, error) {
	var s Session
	err := st.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&s)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find session: %w", err)
	}

	now := time.Now()
	if s.Expired(now) {
		st.collection.DeleteOne(ctx, bson.M{"_id": id})
		return nil, ErrExpired
	}

	s.Touch(now, st.ttl)
	if err := st.Set(ctx, &s); err != nil {
		return nil, err
	}
	return &s, nil
}

// Set implements [Store].
func (st *MongoStore) Set(ctx context.Context, s *Session) error {
	_, err := st.collection.ReplaceOne(ctx,
		bson.M{"_id": s.ID}, s, options.Replace().SetUpsert(true))
	if err != nil {
		return fmt.Errorf("upsert session: %w", err)
	}
	return nil
}

// Delete implements [Store].
func (st *MongoStore) Delete(ctx context.Context, id string) (bool, error) {
	res, err := st.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return false, fmt.Errorf("delete session: %w", err)
	}
	return res.DeletedCount > 0, nil
}

// Cleanup implements [Store].
func (st *MongoStore) Cleanup(ctx context.Context) error {
	_, err := st.collection.DeleteMany(ctx,
		bson.M{"expires_at": bson.M{"$lt": time.Now()}})
	if err != nil {
		return fmt.Errorf("cleanup sessions: %w", err)
	}
	return nil
}

// Close implements [Store].
func (st *MongoStore) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return st.client.Disconnect(ctx)
}
