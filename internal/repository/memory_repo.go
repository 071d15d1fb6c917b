package repository

import (
	"catalog_service/internal/domain"
	"context"
	"fmt"
	"reflect"
	"strings"
	"sync"

	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// memoryProductRepository keeps products in process memory. Filters only
// support equality on top-level fields.
type memoryProductRepository struct {
	mu    sync.RWMutex
	docs  map[string]domain.Document
	order []string
	log   *logrus.Logger
}

func NewMemoryProductRepository(logger *logrus.Logger) domain.ProductRepository {
	return &memoryProductRepository{
		docs: make(map[string]domain.Document),
		log:  logger,
	}
}

func (r *memoryProductRepository) Find(_ context.Context, fields []string) ([]domain.Document, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	products := make([]domain.Document, 0, len(r.order))
	for _, id := range r.order {
		products = append(products, project(r.docs[id], fields))
	}
	return products, nil
}

func (r *memoryProductRepository) FindByID(_ context.Context, id string) (domain.Document, error) {
	if _, err := parseID(id); err != nil {
		return nil, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	doc, ok := r.docs[id]
	if !ok {
		return nil, fmt.Errorf("product with id %s: %w", id, domain.ErrNotFound)
	}
	return copyDocument(doc), nil
}

func (r *memoryProductRepository) InsertOne(_ context.Context, doc domain.Document) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	return r.insert(doc), nil
}

func (r *memoryProductRepository) InsertMany(_ context.Context, docs []domain.Document) ([]string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	ids := make([]string, 0, len(docs))
	for _, doc := range docs {
		ids = append(ids, r.insert(doc))
	}
	return ids, nil
}

func (r *memoryProductRepository) insert(doc domain.Document) string {
	id := primitive.NewObjectID().Hex()
	stored := copyDocument(doc)
	stored[domain.IDField] = id
	r.docs[id] = stored
	r.order = append(r.order, id)
	r.log.Debugf("Memory repository: Product inserted with ID: %s", id)
	return id
}

func (r *memoryProductRepository) UpdateByID(_ context.Context, id string, set domain.Document) (domain.UpdateResult, error) {
	if _, err := parseID(id); err != nil {
		return domain.UpdateResult{}, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	doc, ok := r.docs[id]
	if !ok {
		return domain.UpdateResult{}, fmt.Errorf("product with id %s: %w", id, domain.ErrNotFound)
	}
	res := domain.UpdateResult{MatchedCount: 1}
	if merge(doc, set) {
		res.ModifiedCount = 1
	}
	return res, nil
}

func (r *memoryProductRepository) UpdateMany(_ context.Context, filter, set domain.Document) (domain.UpdateResult, error) {
	if err := checkFilter(filter); err != nil {
		return domain.UpdateResult{}, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	var res domain.UpdateResult
	for _, id := range r.order {
		doc := r.docs[id]
		if !matches(doc, filter) {
			continue
		}
		res.MatchedCount++
		if merge(doc, set) {
			res.ModifiedCount++
		}
	}
	if res.MatchedCount == 0 {
		return domain.UpdateResult{}, fmt.Errorf("no product matches filter: %w", domain.ErrNotFound)
	}
	return res, nil
}

func (r *memoryProductRepository) ReplaceByID(_ context.Context, id string, doc domain.Document) (domain.UpdateResult, error) {
	if _, err := parseID(id); err != nil {
		return domain.UpdateResult{}, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	current, ok := r.docs[id]
	if !ok {
		return domain.UpdateResult{}, fmt.Errorf("product with id %s: %w", id, domain.ErrNotFound)
	}
	replacement := copyDocument(doc)
	replacement[domain.IDField] = id

	res := domain.UpdateResult{MatchedCount: 1}
	if !reflect.DeepEqual(current, replacement) {
		res.ModifiedCount = 1
	}
	r.docs[id] = replacement
	return res, nil
}

func (r *memoryProductRepository) DeleteByID(_ context.Context, id string) (int64, error) {
	if _, err := parseID(id); err != nil {
		return 0, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.docs[id]; !ok {
		return 0, fmt.Errorf("product with id %s: %w", id, domain.ErrNotFound)
	}
	r.remove(id)
	return 1, nil
}

func (r *memoryProductRepository) DeleteMany(_ context.Context, filter domain.Document) (int64, error) {
	if err := checkFilter(filter); err != nil {
		return 0, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	var victims []string
	for _, id := range r.order {
		if matches(r.docs[id], filter) {
			victims = append(victims, id)
		}
	}
	if len(victims) == 0 {
		return 0, fmt.Errorf("no product matches filter: %w", domain.ErrNotFound)
	}
	for _, id := range victims {
		r.remove(id)
	}
	return int64(len(victims)), nil
}

func (r *memoryProductRepository) remove(id string) {
	delete(r.docs, id)
	for i, existing := range r.order {
		if existing == id {
			r.order = append(r.order[:i], r.order[i+1:]...)
			return
		}
	}
}

func checkFilter(filter domain.Document) error {
	for key, value := range filter {
		if strings.HasPrefix(key, "$") {
			return fmt.Errorf("%w: operator %q is not supported by the memory store", domain.ErrInvalidInput, key)
		}
		if key == domain.IDField {
			raw, ok := value.(string)
			if !ok {
				return fmt.Errorf("%w: %v", domain.ErrInvalidID, value)
			}
			if _, err := parseID(raw); err != nil {
				return err
			}
		}
	}
	return nil
}

func matches(doc, filter domain.Document) bool {
	for key, want := range filter {
		got, ok := doc[key]
		if !ok || !reflect.DeepEqual(got, want) {
			return false
		}
	}
	return true
}

// merge sets every field of set on doc and reports whether anything changed.
func merge(doc, set domain.Document) bool {
	changed := false
	for key, value := range set {
		if current, ok := doc[key]; ok && reflect.DeepEqual(current, value) {
			continue
		}
		doc[key] = copyValue(value)
		changed = true
	}
	return changed
}

func project(doc domain.Document, fields []string) domain.Document {
	if len(fields) == 0 {
		return copyDocument(doc)
	}
	out := make(domain.Document, len(fields))
	for _, field := range fields {
		if value, ok := doc[field]; ok {
			out[field] = copyValue(value)
		}
	}
	return out
}

func copyDocument(doc domain.Document) domain.Document {
	out := make(domain.Document, len(doc))
	for k, v := range doc {
		out[k] = copyValue(v)
	}
	return out
}

func copyValue(v interface{}) interface{} {
	switch t := v.(type) {
	case map[string]interface{}:
		out := make(map[string]interface{}, len(t))
		for k, item := range t {
			out[k] = copyValue(item)
		}
		return out
	case []interface{}:
		out := make([]interface{}, len(t))
		for i, item := range t {
			out[i] = copyValue(item)
		}
		return out
	default:
		return v
	}
}
