package documentstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/AashishRichhariya/openleaf/internal/domain/models"
	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

// DynamoAPI is the subset of the DynamoDB client the backend calls.
// *dynamodb.Client satisfies it.
type DynamoAPI interface {
	GetItem(ctx context.Context, in *dynamodb.GetItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error)
	PutItem(ctx context.Context, in *dynamodb.PutItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error)
	UpdateItem(ctx context.Context, in *dynamodb.UpdateItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.UpdateItemOutput, error)
	DescribeTable(ctx context.Context, in *dynamodb.DescribeTableInput, optFns ...func(*dynamodb.Options)) (*dynamodb.DescribeTableOutput, error)
}

// DynamoBackend stores documents in a table with partition key "slug" (S)
// and sort key "version" (N). Timestamps are ISO-8601 strings.
type DynamoBackend struct {
	api   DynamoAPI
	table string
}

// NewDynamo creates a backend over the named table.
func NewDynamo(api DynamoAPI, table string) *DynamoBackend {
	return &DynamoBackend{api: api, table: table}
}

type dynamoItem struct {
	Slug      string `dynamodbav:"slug"`
	Version   int    `dynamodbav:"version"`
	Content   any    `dynamodbav:"content"`
	ReadOnly  bool   `dynamodbav:"read_only"`
	CreatedAt string `dynamodbav:"created_at"`
	UpdatedAt string `dynamodbav:"updated_at"`
}

func dynamoKey(slug string, version int) map[string]types.AttributeValue {
	return map[string]types.AttributeValue{
		"slug":    &types.AttributeValueMemberS{Value: slug},
		"version": &types.AttributeValueMemberN{Value: strconv.Itoa(version)},
	}
}

func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}

func parseTime(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, nil
	}
	return time.Parse(time.RFC3339Nano, s)
}

// contentToDynamo decodes editor JSON into plain maps so attributevalue
// stores it as a nested M attribute instead of an opaque string.
func contentToDynamo(raw json.RawMessage) (any, error) {
	raw = nullToNil(raw)
	if raw == nil {
		return nil, nil
	}
	var v any
	if err := json.Unmarshal(raw, &v); err != nil {
		return nil, err
	}
	return v, nil
}

func contentFromDynamo(v any) (json.RawMessage, error) {
	if v == nil {
		return nil, nil
	}
	out, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	return nullToNil(out), nil
}

func itemFromDocument(doc models.Document) (map[string]types.AttributeValue, error) {
	content, err := contentToDynamo(doc.Content)
	if err != nil {
		return nil, fmt.Errorf("encode content for %q: %w", doc.Slug, err)
	}
	return attributevalue.MarshalMap(dynamoItem{
		Slug:      doc.Slug,
		Version:   doc.Version,
		Content:   content,
		ReadOnly:  doc.ReadOnly,
		CreatedAt: formatTime(doc.CreatedAt),
		UpdatedAt: formatTime(doc.UpdatedAt),
	})
}

func documentFromItem(item map[string]types.AttributeValue) (*models.Document, error) {
	var it dynamoItem
	if err := attributevalue.UnmarshalMap(item, &it); err != nil {
		return nil, err
	}
	content, err := contentFromDynamo(it.Content)
	if err != nil {
		return nil, fmt.Errorf("decode content for %q: %w", it.Slug, err)
	}
	created, err := parseTime(it.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("created_at for %q: %w", it.Slug, err)
	}
	updated, err := parseTime(it.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("updated_at for %q: %w", it.Slug, err)
	}
	return &models.Document{
		Slug:      it.Slug,
		Version:   it.Version,
		Content:   content,
		ReadOnly:  it.ReadOnly,
		CreatedAt: created,
		UpdatedAt: updated,
	}, nil
}

// dynamoUpdate is a compiled SET expression.
type dynamoUpdate struct {
	expression string
	names      map[string]string
	values     map[string]types.AttributeValue
}

// buildUpdate compiles p into "SET #attr0 = :val0, ..." with placeholders
// numbered in field order: content, read_only, updated_at.
func buildUpdate(p Patch) (dynamoUpdate, error) {
	u := dynamoUpdate{
		names:  map[string]string{},
		values: map[string]types.AttributeValue{},
	}
	var clauses []string
	add := func(attr string, v any) error {
		av, err := attributevalue.Marshal(v)
		if err != nil {
			return fmt.Errorf("%s: %w", attr, err)
		}
		n := len(clauses)
		name, val := fmt.Sprintf("#attr%d", n), fmt.Sprintf(":val%d", n)
		u.names[name] = attr
		u.values[val] = av
		clauses = append(clauses, name+" = "+val)
		return nil
	}

	if p.Content != nil {
		content, err := contentToDynamo(*p.Content)
		if err != nil {
			return u, fmt.Errorf("content: %w", err)
		}
		if err := add("content", content); err != nil {
			return u, err
		}
	}
	if p.ReadOnly != nil {
		if err := add("read_only", *p.ReadOnly); err != nil {
			return u, err
		}
	}
	if p.UpdatedAt != nil {
		if err := add("updated_at", formatTime(*p.UpdatedAt)); err != nil {
			return u, err
		}
	}
	if len(clauses) > 0 {
		u.expression = "SET " + strings.Join(clauses, ", ")
	}
	return u, nil
}

// Get implements Backend.
func (d *DynamoBackend) Get(ctx context.Context, slug string, version int) (*models.Document, error) {
	out, err := d.api.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(d.table),
		Key:       dynamoKey(slug, version),
	})
	if err != nil {
		return nil, err
	}
	if len(out.Item) == 0 {
		return nil, nil
	}
	return documentFromItem(out.Item)
}

// Put implements Backend.
func (d *DynamoBackend) Put(ctx context.Context, doc models.Document) error {
	item, err := itemFromDocument(doc)
	if err != nil {
		return err
	}
	_, err = d.api.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(d.table),
		Item:      item,
	})
	return err
}

// Patch implements Backend. The update is conditioned on the row existing so
// a missing slug is reported as ErrNotFound rather than creating a partial row.
func (d *DynamoBackend) Patch(ctx context.Context, slug string, version int, p Patch) (*models.Document, error) {
	u, err := buildUpdate(p)
	if err != nil {
		return nil, fmt.Errorf("patch %q: %w", slug, err)
	}
	if u.expression == "" {
		doc, err := d.Get(ctx, slug, version)
		if err == nil && doc == nil {
			err = ErrNotFound
		}
		return doc, err
	}
	u.names["#slug"] = "slug"

	out, err := d.api.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName:                 aws.String(d.table),
		Key:                       dynamoKey(slug, version),
		UpdateExpression:          aws.String(u.expression),
		ConditionExpression:       aws.String("attribute_exists(#slug)"),
		ExpressionAttributeNames:  u.names,
		ExpressionAttributeValues: u.values,
		ReturnValues:              types.ReturnValueAllNew,
	})
	var ccf *types.ConditionalCheckFailedException
	if errors.As(err, &ccf) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return documentFromItem(out.Attributes)
}

// Ping implements Backend.
func (d *DynamoBackend) Ping(ctx context.Context) error {
	_, err := d.api.DescribeTable(ctx, &dynamodb.DescribeTableInput{
		TableName: aws.String(d.table),
	})
	return err
}
