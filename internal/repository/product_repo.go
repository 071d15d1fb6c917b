package repository

import (
	"catalog_service/internal/domain"
	"context"
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type mongoProductRepository struct {
	coll *mongo.Collection
	log  *logrus.Logger
}

func NewMongoProductRepository(coll *mongo.Collection, logger *logrus.Logger) domain.ProductRepository {
	return &mongoProductRepository{
		coll: coll,
		log:  logger,
	}
}

func (r *mongoProductRepository) Find(ctx context.Context, fields []string) ([]domain.Document, error) {
	opts := options.Find()
	if projection := buildProjection(fields); projection != nil {
		opts.SetProjection(projection)
	}

	cursor, err := r.coll.Find(ctx, bson.M{}, opts)
	if err != nil {
		r.log.Errorf("Repository: Failed to find products (fields: %v): %v", fields, err)
		return nil, fmt.Errorf("could not list products: %w", err)
	}
	defer cursor.Close(ctx)

	var raw []bson.M
	if err := cursor.All(ctx, &raw); err != nil {
		r.log.Errorf("Repository: Failed to decode products: %v", err)
		return nil, fmt.Errorf("error decoding products: %w", err)
	}

	products := make([]domain.Document, 0, len(raw))
	for _, m := range raw {
		products = append(products, fromBSON(m))
	}
	r.log.Debugf("Repository: Retrieved %d products", len(products))
	return products, nil
}

func (r *mongoProductRepository) FindByID(ctx context.Context, id string) (domain.Document, error) {
	oid, err := parseID(id)
	if err != nil {
		return nil, err
	}

	var m bson.M
	err = r.coll.FindOne(ctx, bson.M{domain.IDField: oid}).Decode(&m)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			r.log.Warnf("Repository: Product with ID %s not found", id)
			return nil, fmt.Errorf("product with id %s: %w", id, domain.ErrNotFound)
		}
		r.log.Errorf("Repository: Failed to get product by ID %s: %v", id, err)
		return nil, fmt.Errorf("could not get product by id: %w", err)
	}
	return fromBSON(m), nil
}

func (r *mongoProductRepository) InsertOne(ctx context.Context, doc domain.Document) (string, error) {
	res, err := r.coll.InsertOne(ctx, toBSON(doc))
	if err != nil {
		r.log.Errorf("Repository: Failed to insert product: %v", err)
		return "", fmt.Errorf("could not create product: %w", err)
	}
	id := formatID(res.InsertedID)
	r.log.Infof("Repository: Product inserted with ID: %s", id)
	return id, nil
}

func (r *mongoProductRepository) InsertMany(ctx context.Context, docs []domain.Document) ([]string, error) {
	batch := make([]interface{}, 0, len(docs))
	for _, doc := range docs {
		batch = append(batch, toBSON(doc))
	}

	res, err := r.coll.InsertMany(ctx, batch)
	if err != nil {
		r.log.Errorf("Repository: Failed to insert %d products: %v", len(docs), err)
		return nil, fmt.Errorf("could not create products: %w", err)
	}

	ids := make([]string, 0, len(res.InsertedIDs))
	for _, insertedID := range res.InsertedIDs {
		ids = append(ids, formatID(insertedID))
	}
	r.log.Infof("Repository: Inserted %d products", len(ids))
	return ids, nil
}

func (r *mongoProductRepository) UpdateByID(ctx context.Context, id string, set domain.Document) (domain.UpdateResult, error) {
	oid, err := parseID(id)
	if err != nil {
		return domain.UpdateResult{}, err
	}

	res, err := r.coll.UpdateOne(ctx, bson.M{domain.IDField: oid}, bson.M{"$set": toBSON(set)})
	if err != nil {
		r.log.Errorf("Repository: Failed to update product ID %s: %v", id, err)
		return domain.UpdateResult{}, fmt.Errorf("could not update product: %w", err)
	}
	if res.MatchedCount == 0 {
		r.log.Warnf("Repository: Product with ID %s not found for update", id)
		return domain.UpdateResult{}, fmt.Errorf("product with id %s: %w", id, domain.ErrNotFound)
	}
	return domain.UpdateResult{MatchedCount: res.MatchedCount, ModifiedCount: res.ModifiedCount}, nil
}

func (r *mongoProductRepository) UpdateMany(ctx context.Context, filter, set domain.Document) (domain.UpdateResult, error) {
	query, err := prepareFilter(filter)
	if err != nil {
		return domain.UpdateResult{}, err
	}

	res, err := r.coll.UpdateMany(ctx, query, bson.M{"$set": toBSON(set)})
	if err != nil {
		r.log.Errorf("Repository: Failed to update products matching %v: %v", filter, err)
		return domain.UpdateResult{}, fmt.Errorf("could not update products: %w", err)
	}
	if res.MatchedCount == 0 {
		r.log.Warnf("Repository: No products match filter %v for update", filter)
		return domain.UpdateResult{}, fmt.Errorf("no product matches filter: %w", domain.ErrNotFound)
	}
	return domain.UpdateResult{MatchedCount: res.MatchedCount, ModifiedCount: res.ModifiedCount}, nil
}

func (r *mongoProductRepository) ReplaceByID(ctx context.Context, id string, doc domain.Document) (domain.UpdateResult, error) {
	oid, err := parseID(id)
	if err != nil {
		return domain.UpdateResult{}, err
	}

	res, err := r.coll.ReplaceOne(ctx, bson.M{domain.IDField: oid}, toBSON(doc))
	if err != nil {
		r.log.Errorf("Repository: Failed to replace product ID %s: %v", id, err)
		return domain.UpdateResult{}, fmt.Errorf("could not replace product: %w", err)
	}
	if res.MatchedCount == 0 {
		r.log.Warnf("Repository: Product with ID %s not found for replace", id)
		return domain.UpdateResult{}, fmt.Errorf("product with id %s: %w", id, domain.ErrNotFound)
	}
	return domain.UpdateResult{MatchedCount: res.MatchedCount, ModifiedCount: res.ModifiedCount}, nil
}

func (r *mongoProductRepository) DeleteByID(ctx context.Context, id string) (int64, error) {
	oid, err := parseID(id)
	if err != nil {
		return 0, err
	}

	res, err := r.coll.DeleteOne(ctx, bson.M{domain.IDField: oid})
	if err != nil {
		r.log.Errorf("Repository: Failed to delete product ID %s: %v", id, err)
		return 0, fmt.Errorf("could not delete product: %w", err)
	}
	if res.DeletedCount == 0 {
		r.log.Warnf("Repository: Attempted to delete non-existent product ID %s", id)
		return 0, fmt.Errorf("product with id %s: %w", id, domain.ErrNotFound)
	}
	r.log.Infof("Repository: Product deleted with ID: %s", id)
	return res.DeletedCount, nil
}

func (r *mongoProductRepository) DeleteMany(ctx context.Context, filter domain.Document) (int64, error) {
	query, err := prepareFilter(filter)
	if err != nil {
		return 0, err
	}

	res, err := r.coll.DeleteMany(ctx, query)
	if err != nil {
		r.log.Errorf("Repository: Failed to delete products matching %v: %v", filter, err)
		return 0, fmt.Errorf("could not delete products: %w", err)
	}
	if res.DeletedCount == 0 {
		r.log.Warnf("Repository: No products match filter %v for delete", filter)
		return 0, fmt.Errorf("no product matches filter: %w", domain.ErrNotFound)
	}
	r.log.Infof("Repository: Deleted %d products", res.DeletedCount)
	return res.DeletedCount, nil
}

func parseID(id string) (primitive.ObjectID, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return primitive.NilObjectID, fmt.Errorf("%w: %q", domain.ErrInvalidID, id)
	}
	return oid, nil
}

func formatID(v interface{}) string {
	if oid, ok := v.(primitive.ObjectID); ok {
		return oid.Hex()
	}
	return fmt.Sprint(v)
}

// buildProjection returns nil when no fields are selected so the whole
// document comes back. _id is dropped unless it was asked for.
func buildProjection(fields []string) bson.M {
	if len(fields) == 0 {
		return nil
	}
	projection := bson.M{domain.IDField: 0}
	for _, field := range fields {
		projection[field] = 1
	}
	return projection
}

func prepareFilter(filter domain.Document) (bson.M, error) {
	query := toBSON(filter)
	if raw, ok := query[domain.IDField].(string); ok {
		oid, err := parseID(raw)
		if err != nil {
			return nil, err
		}
		query[domain.IDField] = oid
	}
	return query, nil
}

func toBSON(doc domain.Document) bson.M {
	m := make(bson.M, len(doc))
	for k, v := range doc {
		m[k] = v
	}
	return m
}

func fromBSON(m bson.M) domain.Document {
	doc := make(domain.Document, len(m))
	for k, v := range m {
		doc[k] = v
	}
	if oid, ok := m[domain.IDField].(primitive.ObjectID); ok {
		doc[domain.IDField] = oid.Hex()
	}
	return doc
}
