package documentstore

import (
	"encoding/json"
	"testing"

	"github.com/AashishRichhariya/openleaf/internal/domain/models"
	"github.com/AashishRichhariya/openleaf/internal/testutil"
	"go.mongodb.org/mongo-driver/bson"
)

func TestMongoBackend(t *testing.T) {
	runBackendSuite(t, func(t *testing.T) Backend {
		db := testutil.SetupTestDB(t)
		return NewMongo(db, "documents")
	})
}

func TestMongoBackend_StoresContentAsSubdocument(t *testing.T) {
	db := testutil.SetupTestDB(t)
	b := NewMongo(db, "documents")
	ctx, cancel := testutil.TestContext()
	defer cancel()

	doc := models.Document{Slug: "nested", Version: 1, Content: json.RawMessage(helloContent)}
	if err := b.Put(ctx, doc); err != nil {
		t.Fatalf("Put() error = %v", err)
	}

	var raw bson.M
	if err := db.Collection("documents").FindOne(ctx, bson.M{"slug": "nested"}).Decode(&raw); err != nil {
		t.Fatalf("FindOne() error = %v", err)
	}
	content, ok := raw["content"].(bson.M)
	if !ok {
		t.Fatalf("content stored as %T, want embedded document", raw["content"])
	}
	if _, ok := content["root"]; !ok {
		t.Errorf("content = %v, want root key", content)
	}
}

func TestContentBSONRoundTrip(t *testing.T) {
	in := json.RawMessage(`{"root":{"children":[{"type":"text","text":"Hi","format":3}],"indent":0}}`)
	v, err := contentToBSON(in)
	if err != nil {
		t.Fatalf("contentToBSON() error = %v", err)
	}
	typ, data, err := bson.MarshalValue(v)
	if err != nil {
		t.Fatalf("MarshalValue() error = %v", err)
	}
	out, err := contentFromBSON(bson.RawValue{Type: typ, Value: data})
	if err != nil {
		t.Fatalf("contentFromBSON() error = %v", err)
	}
	assertSameJSON(t, out, in)
}

func TestContentToBSON_Empty(t *testing.T) {
	for _, raw := range []json.RawMessage{nil, json.RawMessage("null")} {
		v, err := contentToBSON(raw)
		if err != nil || v != nil {
			t.Errorf("contentToBSON(%q) = %v, %v; want nil, nil", raw, v, err)
		}
	}
}

func TestContentFromBSON_Null(t *testing.T) {
	out, err := contentFromBSON(bson.RawValue{Type: bson.TypeNull})
	if err != nil || out != nil {
		t.Errorf("contentFromBSON(null) = %s, %v; want nil, nil", out, err)
	}
	if _, err := contentFromBSON(bson.RawValue{Type: bson.TypeString, Value: []byte{2, 0, 0, 0, 'x', 0}}); err == nil {
		t.Error("contentFromBSON(string) error = nil, want error")
	}
}
