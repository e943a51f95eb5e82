// Package mongostore serves sequence datasets from MongoDB.
//
// A database holds two collections:
//
//   - sequences: one document per record ({_id, name, residues})
//   - settings: the persisted k under _id "k"
//
// Records are returned sorted by _id so graph node order is stable across
// runs.
package mongostore

import (
	"context"
	stderrors "errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"github.com/matzehuels/afgraph/pkg/engine"
	"github.com/matzehuels/afgraph/pkg/errors"
)

// Collection names.
const (
	SequencesCollection = "sequences"
	SettingsCollection  = "settings"
)

const kSettingID = "k"

// DefaultTimeout bounds server selection when connecting.
const DefaultTimeout = 10 * time.Second

// Config describes a connection.
type Config struct {
	Location string // mongodb:// or mongodb+srv:// connection string
	Database string
	Username string
	Password string
	Timeout  time.Duration
}

// Store is an engine.Store backed by a MongoDB database.
type Store struct {
	client   *mongo.Client
	db       *mongo.Database
	location string
}

// clientOptions builds driver options from cfg. Explicit credentials
// override any in the connection string.
func clientOptions(cfg Config) (*options.ClientOptions, error) {
	if err := errors.ValidateLocation(cfg.Location); err != nil {
		return nil, err
	}
	if !errors.IsMongoURI(cfg.Location) {
		return nil, errors.New(errors.ErrCodeInvalidLocation, "not a MongoDB connection string: %q", cfg.Location)
	}
	if err := errors.ValidateDatabaseName(cfg.Database); err != nil {
		return nil, err
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	opts := options.Client().
		ApplyURI(cfg.Location).
		SetAppName("afgraph").
		SetServerSelectionTimeout(timeout)
	if cfg.Username != "" {
		opts.SetAuth(options.Credential{
			Username:    cfg.Username,
			Password:    cfg.Password,
			PasswordSet: cfg.Password != "",
		})
	}
	if err := opts.Validate(); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidLocation, err, "connection string")
	}
	return opts, nil
}

// Connect opens cfg.Database and verifies the server is reachable.
func Connect(ctx context.Context, cfg Config) (*Store, error) {
	opts, err := clientOptions(cfg)
	if err != nil {
		return nil, err
	}
	client, err := mongo.Connect(ctx, opts)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeConnection, err, "connect to %s", redact(cfg.Location))
	}
	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		_ = client.Disconnect(ctx)
		return nil, errors.Wrap(errors.ErrCodeConnection, err, "connect to %s", redact(cfg.Location))
	}
	return &Store{
		client:   client,
		db:       client.Database(cfg.Database),
		location: redact(cfg.Location),
	}, nil
}

// Sequences implements engine.Store.
func (s *Store) Sequences(ctx context.Context) ([]engine.Sequence, error) {
	cur, err := s.db.Collection(SequencesCollection).Find(ctx, bson.D{},
		options.Find().SetSort(bson.D{{Key: "_id", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("find sequences: %w", err)
	}
	var seqs []engine.Sequence
	if err := cur.All(ctx, &seqs); err != nil {
		return nil, fmt.Errorf("decode sequences: %w", err)
	}
	return seqs, nil
}

type setting struct {
	ID    string `bson:"_id"`
	Value int    `bson:"value"`
}

// LoadK implements engine.Store.
func (s *Store) LoadK(ctx context.Context) (int, bool, error) {
	var st setting
	err := s.db.Collection(SettingsCollection).FindOne(ctx, bson.M{"_id": kSettingID}).Decode(&st)
	if stderrors.Is(err, mongo.ErrNoDocuments) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, fmt.Errorf("load k: %w", err)
	}
	return st.Value, true, nil
}

// SaveK implements engine.Store.
func (s *Store) SaveK(ctx context.Context, k int) error {
	_, err := s.db.Collection(SettingsCollection).UpdateOne(ctx,
		bson.M{"_id": kSettingID},
		bson.M{"$set": bson.M{"value": k}},
		options.Update().SetUpsert(true))
	if err != nil {
		return fmt.Errorf("save k: %w", err)
	}
	return nil
}

// Import upserts seqs by ID and returns how many documents changed.
// With replace set, records not in seqs are removed first.
func (s *Store) Import(ctx context.Context, seqs []engine.Sequence, replace bool) (int64, error) {
	coll := s.db.Collection(SequencesCollection)
	if replace {
		if _, err := coll.DeleteMany(ctx, bson.D{}); err != nil {
			return 0, fmt.Errorf("clear sequences: %w", err)
		}
	}
	if len(seqs) == 0 {
		return 0, nil
	}
	res, err := coll.BulkWrite(ctx, importModels(seqs), options.BulkWrite().SetOrdered(false))
	if err != nil {
		return 0, fmt.Errorf("import sequences: %w", err)
	}
	return res.UpsertedCount + res.ModifiedCount, nil
}

func importModels(seqs []engine.Sequence) []mongo.WriteModel {
	models := make([]mongo.WriteModel, 0, len(seqs))
	for _, seq := range seqs {
		models = append(models, mongo.NewReplaceOneModel().
			SetFilter(bson.M{"_id": seq.ID}).
			SetReplacement(seq).
			SetUpsert(true))
	}
	return models
}

// Count returns the number of stored sequences.
func (s *Store) Count(ctx context.Context) (int64, error) {
	return s.db.Collection(SequencesCollection).CountDocuments(ctx, bson.D{})
}

// Scope implements engine.Store.
func (s *Store) Scope() string { return "mongo:" + s.location + "/" + s.db.Name() }

// Close implements engine.Store.
func (s *Store) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}

var _ engine.Store = (*Store)(nil)
