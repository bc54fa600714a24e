package documentstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/AashishRichhariya/openleaf/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

// MongoBackend stores one document per (slug, version) in a collection.
// Content is kept as a native BSON subdocument so it stays queryable.
type MongoBackend struct {
	c *mongo.Collection
}

// NewMongo creates a backend over the named collection.
func NewMongo(db *mongo.Database, collection string) *MongoBackend {
	return &MongoBackend{c: db.Collection(collection)}
}

type mongoDocument struct {
	Slug      string        `bson:"slug"`
	Version   int           `bson:"version"`
	Content   bson.RawValue `bson:"content"`
	ReadOnly  bool          `bson:"read_only"`
	CreatedAt time.Time     `bson:"created_at"`
	UpdatedAt time.Time     `bson:"updated_at"`
}

func (d mongoDocument) model() (*models.Document, error) {
	content, err := contentFromBSON(d.Content)
	if err != nil {
		return nil, fmt.Errorf("decode content for %q: %w", d.Slug, err)
	}
	return &models.Document{
		Slug:      d.Slug,
		Version:   d.Version,
		Content:   content,
		ReadOnly:  d.ReadOnly,
		CreatedAt: d.CreatedAt.UTC(),
		UpdatedAt: d.UpdatedAt.UTC(),
	}, nil
}

// contentToBSON converts editor JSON to a BSON document. Empty content maps
// to nil, which the driver writes as null.
func contentToBSON(raw json.RawMessage) (any, error) {
	raw = nullToNil(raw)
	if raw == nil {
		return nil, nil
	}
	var doc bson.D
	if err := bson.UnmarshalExtJSON(raw, false, &doc); err != nil {
		return nil, err
	}
	return doc, nil
}

func contentFromBSON(v bson.RawValue) (json.RawMessage, error) {
	if v.Type == 0 || v.Type == bson.TypeNull {
		return nil, nil
	}
	doc, ok := v.DocumentOK()
	if !ok {
		return nil, fmt.Errorf("content has BSON type %s, want document", v.Type)
	}
	out, err := bson.MarshalExtJSON(doc, false, false)
	if err != nil {
		return nil, err
	}
	return json.RawMessage(out), nil
}

func mongoKey(slug string, version int) bson.M {
	return bson.M{"slug": slug, "version": version}
}

// Get implements Backend.
func (m *MongoBackend) Get(ctx context.Context, slug string, version int) (*models.Document, error) {
	var d mongoDocument
	err := m.c.FindOne(ctx, mongoKey(slug, version)).Decode(&d)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return d.model()
}

// Put implements Backend.
func (m *MongoBackend) Put(ctx context.Context, doc models.Document) error {
	content, err := contentToBSON(doc.Content)
	if err != nil {
		return fmt.Errorf("encode content for %q: %w", doc.Slug, err)
	}
	replacement := bson.M{
		"slug":       doc.Slug,
		"version":    doc.Version,
		"content":    content,
		"read_only":  doc.ReadOnly,
		"created_at": doc.CreatedAt.UTC(),
		"updated_at": doc.UpdatedAt.UTC(),
	}
	opts := options.Replace().SetUpsert(true)
	_, err = m.c.ReplaceOne(ctx, mongoKey(doc.Slug, doc.Version), replacement, opts)
	return err
}

// Patch implements Backend.
func (m *MongoBackend) Patch(ctx context.Context, slug string, version int, p Patch) (*models.Document, error) {
	set := bson.M{}
	if p.Content != nil {
		content, err := contentToBSON(*p.Content)
		if err != nil {
			return nil, fmt.Errorf("encode content for %q: %w", slug, err)
		}
		set["content"] = content
	}
	if p.ReadOnly != nil {
		set["read_only"] = *p.ReadOnly
	}
	if p.UpdatedAt != nil {
		set["updated_at"] = p.UpdatedAt.UTC()
	}
	if len(set) == 0 {
		doc, err := m.Get(ctx, slug, version)
		if err == nil && doc == nil {
			err = ErrNotFound
		}
		return doc, err
	}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var d mongoDocument
	err := m.c.FindOneAndUpdate(ctx, mongoKey(slug, version), bson.M{"$set": set}, opts).Decode(&d)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return d.model()
}

// Ping implements Backend.
func (m *MongoBackend) Ping(ctx context.Context) error {
	return m.c.Database().Client().Ping(ctx, readpref.Primary())
}
