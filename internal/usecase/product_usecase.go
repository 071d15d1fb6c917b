package usecase

import (
	"catalog_service/internal/domain"
	"context"
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"
)

type ProductUseCase interface {
	ListProducts(ctx context.Context, fields []string) ([]domain.Document, error)
	GetProductByID(ctx context.Context, id string) (domain.Document, error)
	CreateProduct(ctx context.Context, product domain.Document) (string, error)
	CreateProducts(ctx context.Context, items []interface{}) ([]string, error)
	UpdateProduct(ctx context.Context, id string, updates domain.Document) (domain.UpdateResult, error)
	UpdateProducts(ctx context.Context, filter, updates domain.Document) (domain.UpdateResult, error)
	ReplaceProduct(ctx context.Context, id string, product domain.Document) (domain.UpdateResult, error)
	DeleteProduct(ctx context.Context, id string) error
	DeleteProducts(ctx context.Context, filter domain.Document) (int64, error)
}

type productUseCase struct {
	productRepo domain.ProductRepository
	log         *logrus.Logger
}

func NewProductUseCase(pRepo domain.ProductRepository, logger *logrus.Logger) ProductUseCase {
	return &productUseCase{
		productRepo: pRepo,
		log:         logger,
	}
}

// ParseFields turns a comma separated selection such as "name, price" into
// field names. Blank entries are dropped.
func ParseFields(raw string) []string {
	if strings.TrimSpace(raw) == "" {
		return nil
	}
	var fields []string
	for _, part := range strings.Split(raw, ",") {
		if field := strings.TrimSpace(part); field != "" {
			fields = append(fields, field)
		}
	}
	return fields
}

func (uc *productUseCase) ListProducts(ctx context.Context, fields []string) ([]domain.Document, error) {
	uc.log.Infof("Use Case: Attempting to list products (fields: %v)", fields)
	products, err := uc.productRepo.Find(ctx, fields)
	if err != nil {
		uc.log.Errorf("Use Case: Repository failed to list products: %v", err)
		return nil, fmt.Errorf("could not retrieve products: %w", err)
	}
	uc.log.Infof("Use Case: Retrieved %d products", len(products))
	return products, nil
}

func (uc *productUseCase) GetProductByID(ctx context.Context, id string) (domain.Document, error) {
	product, err := uc.productRepo.FindByID(ctx, id)
	if err != nil {
		uc.log.Warnf("Use Case: Repository failed to get product ID %s: %v", id, err)
		return nil, err
	}
	return product, nil
}

func (uc *productUseCase) CreateProduct(ctx context.Context, product domain.Document) (string, error) {
	if len(product) == 0 {
		uc.log.Warn("Use Case: Attempted to create product with empty body")
		return "", fmt.Errorf("%w: product data is required", domain.ErrInvalidInput)
	}
	if err := validateWritable(product); err != nil {
		uc.log.Warnf("Use Case: Rejected product data: %v", err)
		return "", err
	}

	id, err := uc.productRepo.InsertOne(ctx, product)
	if err != nil {
		uc.log.Errorf("Use Case: Repository failed to create product: %v", err)
		return "", err
	}
	uc.log.Infof("Use Case: Product created successfully with ID %s", id)
	return id, nil
}

func (uc *productUseCase) CreateProducts(ctx context.Context, items []interface{}) ([]string, error) {
	if len(items) == 0 {
		uc.log.Warn("Use Case: Attempted bulk create with empty array")
		return nil, fmt.Errorf("%w: a non-empty array of products is required", domain.ErrInvalidInput)
	}

	products := make([]domain.Document, 0, len(items))
	for i, item := range items {
		fields, ok := item.(map[string]interface{})
		if !ok || len(fields) == 0 {
			uc.log.Warnf("Use Case: Bulk create item %d is not a non-empty object", i)
			return nil, fmt.Errorf("%w: item %d must be a non-empty object", domain.ErrInvalidInput, i)
		}
		product := domain.Document(fields)
		if err := validateWritable(product); err != nil {
			uc.log.Warnf("Use Case: Rejected bulk item %d: %v", i, err)
			return nil, fmt.Errorf("item %d: %w", i, err)
		}
		products = append(products, product)
	}

	ids, err := uc.productRepo.InsertMany(ctx, products)
	if err != nil {
		uc.log.Errorf("Use Case: Repository failed to create %d products: %v", len(products), err)
		return nil, err
	}
	uc.log.Infof("Use Case: Created %d products", len(ids))
	return ids, nil
}

func (uc *productUseCase) UpdateProduct(ctx context.Context, id string, updates domain.Document) (domain.UpdateResult, error) {
	if len(updates) == 0 {
		uc.log.Warnf("Use Case: Attempted update for product ID %s with no fields", id)
		return domain.UpdateResult{}, fmt.Errorf("%w: update data is required", domain.ErrInvalidInput)
	}
	if err := validateWritable(updates); err != nil {
		uc.log.Warnf("Use Case: Rejected update for product ID %s: %v", id, err)
		return domain.UpdateResult{}, err
	}

	res, err := uc.productRepo.UpdateByID(ctx, id, updates)
	if err != nil {
		uc.log.Warnf("Use Case: Repository failed to update product ID %s: %v", id, err)
		return domain.UpdateResult{}, err
	}
	uc.log.Infof("Use Case: Product ID %s updated (modified: %d)", id, res.ModifiedCount)
	return res, nil
}

func (uc *productUseCase) UpdateProducts(ctx context.Context, filter, updates domain.Document) (domain.UpdateResult, error) {
	if len(filter) == 0 || len(updates) == 0 {
		uc.log.Warn("Use Case: Attempted bulk update without filter or updates")
		return domain.UpdateResult{}, fmt.Errorf("%w: filter and updates are required", domain.ErrInvalidInput)
	}
	if err := validateWritable(updates); err != nil {
		uc.log.Warnf("Use Case: Rejected bulk update: %v", err)
		return domain.UpdateResult{}, err
	}

	res, err := uc.productRepo.UpdateMany(ctx, filter, updates)
	if err != nil {
		uc.log.Warnf("Use Case: Repository failed bulk update with filter %v: %v", filter, err)
		return domain.UpdateResult{}, err
	}
	uc.log.Infof("Use Case: Bulk update matched %d, modified %d products", res.MatchedCount, res.ModifiedCount)
	return res, nil
}

func (uc *productUseCase) ReplaceProduct(ctx context.Context, id string, product domain.Document) (domain.UpdateResult, error) {
	if err := validateWritable(product); err != nil {
		uc.log.Warnf("Use Case: Rejected replacement for product ID %s: %v", id, err)
		return domain.UpdateResult{}, err
	}
	if _, ok := product["name"].(string); !ok {
		uc.log.Warnf("Use Case: Replace for product ID %s is missing name", id)
		return domain.UpdateResult{}, fmt.Errorf("%w: name and price are required", domain.ErrInvalidInput)
	}
	if _, ok := product["price"].(float64); !ok {
		uc.log.Warnf("Use Case: Replace for product ID %s is missing price", id)
		return domain.UpdateResult{}, fmt.Errorf("%w: name and price are required", domain.ErrInvalidInput)
	}

	res, err := uc.productRepo.ReplaceByID(ctx, id, product)
	if err != nil {
		uc.log.Warnf("Use Case: Repository failed to replace product ID %s: %v", id, err)
		return domain.UpdateResult{}, err
	}
	uc.log.Infof("Use Case: Product ID %s replaced", id)
	return res, nil
}

func (uc *productUseCase) DeleteProduct(ctx context.Context, id string) error {
	if _, err := uc.productRepo.DeleteByID(ctx, id); err != nil {
		uc.log.Warnf("Use Case: Repository failed to delete product ID %s: %v", id, err)
		return err
	}
	uc.log.Infof("Use Case: Product deleted successfully for ID %s", id)
	return nil
}

func (uc *productUseCase) DeleteProducts(ctx context.Context, filter domain.Document) (int64, error) {
	if len(filter) == 0 {
		uc.log.Warn("Use Case: Attempted bulk delete with empty filter")
		return 0, fmt.Errorf("%w: filter is required", domain.ErrInvalidInput)
	}

	deleted, err := uc.productRepo.DeleteMany(ctx, filter)
	if err != nil {
		uc.log.Warnf("Use Case: Repository failed bulk delete with filter %v: %v", filter, err)
		return 0, err
	}
	uc.log.Infof("Use Case: Deleted %d products", deleted)
	return deleted, nil
}

// validateWritable rejects client supplied identifiers and values outside the
// permitted shapes.
func validateWritable(product domain.Document) error {
	if _, ok := product[domain.IDField]; ok {
		return fmt.Errorf("%w: %s is assigned by the store and cannot be set", domain.ErrInvalidInput, domain.IDField)
	}
	return domain.ValidateDocument(product)
}
