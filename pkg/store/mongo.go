package store

import (
	"context"
	stderrors "errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/matzehuels/cartpile/pkg/config"
	"github.com/matzehuels/cartpile/pkg/errors"
	"github.com/matzehuels/cartpile/pkg/observability"
)

const (
	mongoAttempts = 3
	mongoDelay    = 100 * time.Millisecond
)

// MongoStore keeps one document per cart, keyed by _id. A TTL index on
// expires_at lets the server remove expired carts; reads also filter them.
type MongoStore struct {
	client *mongo.Client
	coll   *mongo.Collection
	ttl    time.Duration
}

// MongoOptions configures [OpenMongo].
type MongoOptions struct {
	URI        string
	Database   string
	Collection string
}

// OpenMongo connects, pings the server and ensures the expiry index exists.
func OpenMongo(ctx context.Context, opts MongoOptions, ttl time.Duration) (*MongoStore, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(opts.URI))
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeStore, err, "connect to mongo")
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(ctx)
		return nil, errors.Wrap(errors.ErrCodeStore, err, "ping mongo")
	}

	coll := client.Database(opts.Database).Collection(opts.Collection)
	_, err = coll.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "expires_at", Value: 1}},
		Options: options.Index().SetExpireAfterSeconds(0),
	})
	if err != nil {
		_ = client.Disconnect(ctx)
		return nil, errors.Wrap(errors.ErrCodeStore, err, "create expiry index")
	}
	return &MongoStore{client: client, coll: coll, ttl: ttl}, nil
}

// liveFilter matches documents that have no expiry or expire in the future.
// The TTL monitor runs about once a minute, so expired documents can linger.
func liveFilter(extra bson.M) bson.M {
	f := bson.M{"$or": bson.A{
		bson.M{"expires_at": bson.M{"$exists": false}},
		bson.M{"expires_at": bson.M{"$gt": time.Now().UTC()}},
	}}
	for k, v := range extra {
		f[k] = v
	}
	return f
}

func (s *MongoStore) Get(ctx context.Context, id string) (*Snapshot, error) {
	start := time.Now()
	if err := errors.ValidateCartID(id); err != nil {
		return nil, err
	}

	var snap Snapshot
	err := retry(ctx, mongoAttempts, mongoDelay, func() error {
		return mongoErr(s.coll.FindOne(ctx, liveFilter(bson.M{"_id": id})).Decode(&snap))
	})
	observability.Store().OnLoad(ctx, config.BackendMongo, err == nil, time.Since(start))

	switch {
	case stderrors.Is(err, mongo.ErrNoDocuments):
		return nil, notFound(id)
	case err != nil:
		return nil, wrapMongoErr(err, "get snapshot %s", id)
	}
	return &snap, nil
}

func (s *MongoStore) Set(ctx context.Context, snap *Snapshot) error {
	start := time.Now()
	if err := errors.ValidateCartID(snap.ID); err != nil {
		return err
	}
	snap.stamp(s.ttl)

	raw, err := bson.Marshal(snap)
	if err != nil {
		err = errors.Wrap(errors.ErrCodeStore, err, "encode snapshot %s", snap.ID)
	} else {
		err = retry(ctx, mongoAttempts, mongoDelay, func() error {
			_, err := s.coll.ReplaceOne(ctx, bson.M{"_id": snap.ID}, bson.Raw(raw), options.Replace().SetUpsert(true))
			return mongoErr(err)
		})
		if err != nil {
			err = wrapMongoErr(err, "set snapshot %s", snap.ID)
		}
	}
	observability.Store().OnSave(ctx, config.BackendMongo, len(raw), time.Since(start), err)
	return err
}

func (s *MongoStore) Delete(ctx context.Context, id string) error {
	if err := errors.ValidateCartID(id); err != nil {
		return err
	}
	err := retry(ctx, mongoAttempts, mongoDelay, func() error {
		_, err := s.coll.DeleteOne(ctx, bson.M{"_id": id})
		return mongoErr(err)
	})
	if err != nil {
		return wrapMongoErr(err, "delete snapshot %s", id)
	}
	return nil
}

func (s *MongoStore) List(ctx context.Context) ([]string, error) {
	opts := options.Find().
		SetProjection(bson.M{"_id": 1}).
		SetSort(bson.D{{Key: "_id", Value: 1}})
	cur, err := s.coll.Find(ctx, liveFilter(nil), opts)
	if err != nil {
		return nil, wrapMongoErr(err, "list snapshots")
	}
	defer cur.Close(ctx)

	var ids []string
	for cur.Next(ctx) {
		var doc struct {
			ID string `bson:"_id"`
		}
		if err := cur.Decode(&doc); err != nil {
			return nil, wrapMongoErr(err, "list snapshots")
		}
		ids = append(ids, doc.ID)
	}
	if err := cur.Err(); err != nil {
		return nil, wrapMongoErr(err, "list snapshots")
	}
	return ids, nil
}

// Close disconnects the client.
func (s *MongoStore) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return s.client.Disconnect(ctx)
}

func mongoErr(err error) error {
	if err != nil && (mongo.IsNetworkError(err) || mongo.IsTimeout(err)) {
		return retryable(err)
	}
	return err
}

func wrapMongoErr(err error, format string, args ...any) error {
	if mongo.IsTimeout(err) || stderrors.Is(err, context.DeadlineExceeded) {
		return errors.Wrap(errors.ErrCodeStoreTimeout, err, format, args...)
	}
	return errors.Wrap(errors.ErrCodeStore, err, format, args...)
}

var _ Store = (*MongoStore)(nil)
