// Package crud provides the generic persistence store and the resource
// handler factory the entity controllers are built from.
package crud

import (
	"context"
	"errors"
	"fmt"
	"time"

	apperrors "trailbook/pkg/errors"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	defaultReadTimeout  = 5 * time.Second
	defaultWriteTimeout = 10 * time.Second
)

// Lookup describes a read-time population of referenced documents.
type Lookup struct {
	From         string
	LocalField   string
	ForeignField string
	As           string
}

type identifiable interface {
	SetID(id primitive.ObjectID)
}

type timestamped interface {
	Touch(now time.Time)
}

// StoreConfig tunes a Store. BaseFilter is merged into every read and write
// filter so documents it excludes are invisible to all operations.
type StoreConfig struct {
	BaseFilter   bson.M
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

type Store[T any] struct {
	coll         *mongo.Collection
	resource     string
	baseFilter   bson.M
	readTimeout  time.Duration
	writeTimeout time.Duration
}

func NewStore[T any](coll *mongo.Collection, resource string, cfg StoreConfig) *Store[T] {
	if cfg.ReadTimeout <= 0 {
		cfg.ReadTimeout = defaultReadTimeout
	}
	if cfg.WriteTimeout <= 0 {
		cfg.WriteTimeout = defaultWriteTimeout
	}
	return &Store[T]{
		coll:         coll,
		resource:     resource,
		baseFilter:   cfg.BaseFilter,
		readTimeout:  cfg.ReadTimeout,
		writeTimeout: cfg.WriteTimeout,
	}
}

func (s *Store[T]) Collection() *mongo.Collection {
	return s.coll
}

// withTimeout wraps the context with a timeout unless already inside a
// transaction, where wrapping the session context would break its semantics.
func (s *Store[T]) withTimeout(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	if _, ok := ctx.(mongo.SessionContext); ok {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, timeout)
}

func (s *Store[T]) objectID(id string) (primitive.ObjectID, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return primitive.NilObjectID, &apperrors.CastError{Field: "_id", Value: id}
	}
	return oid, nil
}

// scoped merges the base filter into the given criteria. The base filter is
// applied last so client criteria can never override it.
func (s *Store[T]) scoped(criteria bson.M) bson.M {
	if len(s.baseFilter) == 0 {
		return criteria
	}
	merged := bson.M{}
	for k, v := range criteria {
		merged[k] = v
	}
	for k, v := range s.baseFilter {
		merged[k] = v
	}
	return merged
}

func (s *Store[T]) notFound() error {
	return apperrors.NotFound(s.resource)
}

func (s *Store[T]) Find(ctx context.Context, criteria bson.M, opts *options.FindOptions) ([]T, error) {
	ctx, cancel := s.withTimeout(ctx, s.readTimeout)
	defer cancel()

	cursor, err := s.coll.Find(ctx, s.scoped(criteria), opts)
	if err != nil {
		return nil, fmt.Errorf("failed to find %ss: %w", s.resource, err)
	}
	defer cursor.Close(ctx)

	docs := []T{}
	if err = cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("failed to decode %ss: %w", s.resource, err)
	}
	return docs, nil
}

func (s *Store[T]) FindByID(ctx context.Context, id string, lookups ...Lookup) (*T, error) {
	ctx, cancel := s.withTimeout(ctx, s.readTimeout)
	defer cancel()

	oid, err := s.objectID(id)
	if err != nil {
		return nil, err
	}
	filter := s.scoped(bson.M{"_id": oid})

	if len(lookups) > 0 {
		return s.findOneWithLookups(ctx, filter, lookups)
	}

	var doc T
	if err := s.coll.FindOne(ctx, filter).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, s.notFound()
		}
		return nil, fmt.Errorf("failed to find %s: %w", s.resource, err)
	}
	return &doc, nil
}

func (s *Store[T]) findOneWithLookups(ctx context.Context, filter bson.M, lookups []Lookup) (*T, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: filter}},
	}
	for _, l := range lookups {
		pipeline = append(pipeline, bson.D{{Key: "$lookup", Value: bson.M{
			"from":         l.From,
			"localField":   l.LocalField,
			"foreignField": l.ForeignField,
			"as":           l.As,
		}}})
	}

	cursor, err := s.coll.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("failed to populate %s: %w", s.resource, err)
	}
	defer cursor.Close(ctx)

	var docs []T
	if err = cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("failed to decode %s: %w", s.resource, err)
	}
	if len(docs) == 0 {
		return nil, s.notFound()
	}
	return &docs[0], nil
}

func (s *Store[T]) Insert(ctx context.Context, doc *T) error {
	ctx, cancel := s.withTimeout(ctx, s.writeTimeout)
	defer cancel()

	if ts, ok := any(doc).(timestamped); ok {
		ts.Touch(time.Now().UTC().Truncate(time.Millisecond))
	}

	result, err := s.coll.InsertOne(ctx, doc)
	if err != nil {
		return err
	}
	if oid, ok := result.InsertedID.(primitive.ObjectID); ok {
		if ident, ok := any(doc).(identifiable); ok {
			ident.SetID(oid)
		}
	}
	return nil
}

func (s *Store[T]) Replace(ctx context.Context, id string, doc *T) error {
	ctx, cancel := s.withTimeout(ctx, s.writeTimeout)
	defer cancel()

	oid, err := s.objectID(id)
	if err != nil {
		return err
	}

	result, err := s.coll.ReplaceOne(ctx, s.scoped(bson.M{"_id": oid}), doc)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return s.notFound()
	}
	return nil
}

// UpdateByID applies a targeted update document without replace semantics.
func (s *Store[T]) UpdateByID(ctx context.Context, id string, update bson.M) error {
	ctx, cancel := s.withTimeout(ctx, s.writeTimeout)
	defer cancel()

	oid, err := s.objectID(id)
	if err != nil {
		return err
	}

	result, err := s.coll.UpdateOne(ctx, s.scoped(bson.M{"_id": oid}), update)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return s.notFound()
	}
	return nil
}

func (s *Store[T]) DeleteByID(ctx context.Context, id string) error {
	ctx, cancel := s.withTimeout(ctx, s.writeTimeout)
	defer cancel()

	oid, err := s.objectID(id)
	if err != nil {
		return err
	}

	result, err := s.coll.DeleteOne(ctx, s.scoped(bson.M{"_id": oid}))
	if err != nil {
		return fmt.Errorf("failed to delete %s: %w", s.resource, err)
	}
	if result.DeletedCount == 0 {
		return s.notFound()
	}
	return nil
}

func (s *Store[T]) Count(ctx context.Context, criteria bson.M) (int64, error) {
	ctx, cancel := s.withTimeout(ctx, s.readTimeout)
	defer cancel()

	count, err := s.coll.CountDocuments(ctx, s.scoped(criteria))
	if err != nil {
		return 0, fmt.Errorf("failed to count %ss: %w", s.resource, err)
	}
	return count, nil
}

// Aggregate runs a raw pipeline. Base-filter scoping is the caller's business;
// aggregations declare their own match stages.
func (s *Store[T]) Aggregate(ctx context.Context, pipeline mongo.Pipeline, out any) error {
	ctx, cancel := s.withTimeout(ctx, s.readTimeout)
	defer cancel()

	cursor, err := s.coll.Aggregate(ctx, pipeline)
	if err != nil {
		return fmt.Errorf("failed to aggregate %ss: %w", s.resource, err)
	}
	defer cursor.Close(ctx)

	if err = cursor.All(ctx, out); err != nil {
		return fmt.Errorf("failed to decode %s aggregation: %w", s.resource, err)
	}
	return nil
}
