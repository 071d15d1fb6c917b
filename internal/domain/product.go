// domain/product.go
package domain

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"
)

// IDField is the key the store assigns the product identifier under.
const IDField = "_id"

var (
	ErrInvalidID    = errors.New("invalid product id")
	ErrNotFound     = errors.New("product not found")
	ErrInvalidInput = errors.New("invalid product data")
)

// Document is a schemaless product. Values are limited to the shapes JSON can carry,
// see ValidateDocument.
type Document map[string]interface{}

type UpdateResult struct {
	MatchedCount  int64
	ModifiedCount int64
}

type ProductRepository interface {
	Find(ctx context.Context, fields []string) ([]Document, error)
	FindByID(ctx context.Context, id string) (Document, error)

	InsertOne(ctx context.Context, doc Document) (string, error)
	InsertMany(ctx context.Context, docs []Document) ([]string, error)

	UpdateByID(ctx context.Context, id string, set Document) (UpdateResult, error)
	UpdateMany(ctx context.Context, filter, set Document) (UpdateResult, error)
	ReplaceByID(ctx context.Context, id string, doc Document) (UpdateResult, error)

	DeleteByID(ctx context.Context, id string) (int64, error)
	DeleteMany(ctx context.Context, filter Document) (int64, error)
}

// ValidateDocument checks keys and normalises every value into one of
// nil, bool, string, float64, []interface{} or map[string]interface{}.
// Integers are widened to float64 in place.
func ValidateDocument(doc Document) error {
	for key, value := range doc {
		if err := validateKey(key); err != nil {
			return err
		}
		normalized, err := normalizeValue(key, value)
		if err != nil {
			return err
		}
		doc[key] = normalized
	}
	return nil
}

func validateKey(key string) error {
	if key == "" {
		return fmt.Errorf("%w: empty field name", ErrInvalidInput)
	}
	if strings.HasPrefix(key, "$") {
		return fmt.Errorf("%w: field name %q must not start with '$'", ErrInvalidInput, key)
	}
	return nil
}

func normalizeValue(path string, value interface{}) (interface{}, error) {
	switch v := value.(type) {
	case nil, bool, string:
		return v, nil
	case float64:
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return nil, fmt.Errorf("%w: field %q is not a finite number", ErrInvalidInput, path)
		}
		return v, nil
	case float32:
		return normalizeValue(path, float64(v))
	case int:
		return float64(v), nil
	case int32:
		return float64(v), nil
	case int64:
		return float64(v), nil
	case []interface{}:
		for i, item := range v {
			normalized, err := normalizeValue(fmt.Sprintf("%s.%d", path, i), item)
			if err != nil {
				return nil, err
			}
			v[i] = normalized
		}
		return v, nil
	case map[string]interface{}:
		for key, item := range v {
			if err := validateKey(key); err != nil {
				return nil, err
			}
			normalized, err := normalizeValue(path+"."+key, item)
			if err != nil {
				return nil, err
			}
			v[key] = normalized
		}
		return v, nil
	case Document:
		return normalizeValue(path, map[string]interface{}(v))
	default:
		return nil, fmt.Errorf("%w: field %q has unsupported type %T", ErrInvalidInput, path, value)
	}
}
