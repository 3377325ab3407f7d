package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/x/mongo/driver/connstring"

	"shorturl/internal/domain"
	"shorturl/internal/repository"
)

const (
	// CollectionName holds every URL mapping document
	CollectionName = "urls"

	// DefaultDatabase is used when the connection string names none
	DefaultDatabase = "url_shortener"
)

// urlRepository implements the URLRepository interface for MongoDB
type urlRepository struct {
	coll    *mongo.Collection
	timeout time.Duration
}

// NewURLRepository wraps an existing collection. Indexes are not touched; see EnsureIndexes.
func NewURLRepository(coll *mongo.Collection, timeout time.Duration) repository.URLRepository {
	return &urlRepository{coll: coll, timeout: timeout}
}

// Open connects to the deployment in uri, pings it and prepares the urls collection
func Open(ctx context.Context, uri string, timeout time.Duration) (repository.URLRepository, error) {
	cs, err := connstring.ParseAndValidate(uri)
	if err != nil {
		return nil, fmt.Errorf("invalid mongodb uri: %w", err)
	}
	database := cs.Database
	if database == "" {
		database = DefaultDatabase
	}

	client, err := mongo.Connect(ctx, options.Client().
		ApplyURI(uri).
		SetConnectTimeout(timeout).
		SetServerSelectionTimeout(timeout))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to mongodb: %w", err)
	}

	coll := client.Database(database).Collection(CollectionName)
	repo := &urlRepository{coll: coll, timeout: timeout}

	if err := repo.Ping(ctx); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, err
	}

	if err := EnsureIndexes(ctx, coll); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("failed to create indexes: %w", err)
	}

	return repo, nil
}

// EnsureIndexes makes short_code unique and indexes original_url for the dedup lookup.
// original_url stays non-unique: concurrent first-time shortening may store it twice.
func EnsureIndexes(ctx context.Context, coll *mongo.Collection) error {
	_, err := coll.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "short_code", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("short_code_unique"),
		},
		{
			Keys:    bson.D{{Key: "original_url", Value: 1}},
			Options: options.Index().SetName("original_url"),
		},
	})
	return err
}

// FindByOriginalURL returns the oldest mapping stored for originalURL
func (r *urlRepository) FindByOriginalURL(ctx context.Context, originalURL string) (*domain.URLMapping, error) {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	var mapping domain.URLMapping
	err := r.coll.FindOne(ctx, bson.M{"original_url": originalURL},
		options.FindOne().SetSort(bson.D{{Key: "created_at", Value: 1}}),
	).Decode(&mapping)

	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrNotFound
		}
		return nil, domain.NewStorageError("find_by_original_url", originalURL, err)
	}

	return &mapping, nil
}

// FindByShortCode retrieves a mapping by its short code
func (r *urlRepository) FindByShortCode(ctx context.Context, shortCode string) (*domain.URLMapping, error) {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	var mapping domain.URLMapping
	err := r.coll.FindOne(ctx, bson.M{"short_code": shortCode}).Decode(&mapping)

	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrNotFound
		}
		return nil, domain.NewStorageError("find_by_short_code", shortCode, err)
	}

	return &mapping, nil
}

// Insert stores a new document; the unique short_code index rejects collisions
func (r *urlRepository) Insert(ctx context.Context, mapping *domain.URLMapping) error {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	if _, err := r.coll.InsertOne(ctx, mapping); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return domain.ErrDuplicateKey
		}
		return domain.NewStorageError("insert", mapping.ShortCode, err)
	}
	return nil
}

// IncrementClicks applies $inc server side and returns the post-update document
func (r *urlRepository) IncrementClicks(ctx context.Context, shortCode string) (*domain.URLMapping, error) {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	var mapping domain.URLMapping
	err := r.coll.FindOneAndUpdate(ctx,
		bson.M{"short_code": shortCode},
		bson.M{"$inc": bson.M{"clicks": 1}},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&mapping)

	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrNotFound
		}
		return nil, domain.NewStorageError("increment_clicks", shortCode, err)
	}

	return &mapping, nil
}

// DeleteByShortCode removes at most one document
func (r *urlRepository) DeleteByShortCode(ctx context.Context, shortCode string) (int64, error) {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	result, err := r.coll.DeleteOne(ctx, bson.M{"short_code": shortCode})
	if err != nil {
		return 0, domain.NewStorageError("delete_by_short_code", shortCode, err)
	}

	return result.DeletedCount, nil
}

// ListAll returns every document without its _id
func (r *urlRepository) ListAll(ctx context.Context) ([]domain.URLMapping, error) {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	cursor, err := r.coll.Find(ctx, bson.M{}, options.Find().SetProjection(bson.M{"_id": 0}))
	if err != nil {
		return nil, domain.NewStorageError("list_all", "", err)
	}

	mappings := make([]domain.URLMapping, 0)
	if err := cursor.All(ctx, &mappings); err != nil {
		return nil, domain.NewStorageError("list_all", "", err)
	}

	return mappings, nil
}

// Ping runs the ping command against the database
func (r *urlRepository) Ping(ctx context.Context) error {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	err := r.coll.Database().RunCommand(ctx, bson.D{{Key: "ping", Value: 1}}).Err()
	if err != nil {
		return domain.NewStorageError("ping", "", err)
	}
	return nil
}

// Close disconnects the client owning the collection
func (r *urlRepository) Close(ctx context.Context) error {
	return r.coll.Database().Client().Disconnect(ctx)
}

func (r *urlRepository) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, r.timeout)
}
