package repository

import (
	"catalog_service/internal/domain"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestMemoryProductRepository(t *testing.T) {
	ctx := context.Background()

	t.Run("InsertAndFind", func(t *testing.T) {
		repo := NewMemoryProductRepository(newTestLogger())

		id, err := repo.InsertOne(ctx, domain.Document{"name": "Pen", "price": 20.0, "category": "stationery"})
		require.NoError(t, err)

		products, err := repo.Find(ctx, nil)
		require.NoError(t, err)
		require.Len(t, products, 1)
		assert.Equal(t, id, products[0]["_id"])
		assert.Equal(t, "Pen", products[0]["name"])

		projected, err := repo.Find(ctx, []string{"name", "price"})
		require.NoError(t, err)
		assert.Equal(t, domain.Document{"name": "Pen", "price": 20.0}, projected[0])
	})

	t.Run("ReturnedDocumentsAreCopies", func(t *testing.T) {
		repo := NewMemoryProductRepository(newTestLogger())
		id, err := repo.InsertOne(ctx, domain.Document{"name": "Pen"})
		require.NoError(t, err)

		doc, err := repo.FindByID(ctx, id)
		require.NoError(t, err)
		doc["name"] = "changed"

		again, err := repo.FindByID(ctx, id)
		require.NoError(t, err)
		assert.Equal(t, "Pen", again["name"])
	})

	t.Run("UpdateByIDMerges", func(t *testing.T) {
		repo := NewMemoryProductRepository(newTestLogger())
		id, err := repo.InsertOne(ctx, domain.Document{"name": "Pen", "price": 20.0})
		require.NoError(t, err)

		res, err := repo.UpdateByID(ctx, id, domain.Document{"price": 25.0})
		require.NoError(t, err)
		assert.Equal(t, domain.UpdateResult{MatchedCount: 1, ModifiedCount: 1}, res)

		res, err = repo.UpdateByID(ctx, id, domain.Document{"price": 25.0})
		require.NoError(t, err)
		assert.Equal(t, domain.UpdateResult{MatchedCount: 1, ModifiedCount: 0}, res)

		doc, err := repo.FindByID(ctx, id)
		require.NoError(t, err)
		assert.Equal(t, "Pen", doc["name"])
		assert.Equal(t, 25.0, doc["price"])
	})

	t.Run("UpdateMany", func(t *testing.T) {
		repo := NewMemoryProductRepository(newTestLogger())
		_, err := repo.InsertMany(ctx, []domain.Document{
			{"name": "Pen", "category": "stationery"},
			{"name": "Ink", "category": "stationery"},
			{"name": "Mug", "category": "kitchen"},
		})
		require.NoError(t, err)

		res, err := repo.UpdateMany(ctx, domain.Document{"category": "stationery"}, domain.Document{"inStock": false})
		require.NoError(t, err)
		assert.Equal(t, int64(2), res.MatchedCount)
		assert.Equal(t, int64(2), res.ModifiedCount)

		_, err = repo.UpdateMany(ctx, domain.Document{"category": "garden"}, domain.Document{"inStock": false})
		assert.ErrorIs(t, err, domain.ErrNotFound)

		_, err = repo.UpdateMany(ctx, domain.Document{"price": map[string]interface{}{"$gt": 1.0}, "$or": nil}, domain.Document{"inStock": false})
		assert.ErrorIs(t, err, domain.ErrInvalidInput)
	})

	t.Run("ReplaceByIDOverwrites", func(t *testing.T) {
		repo := NewMemoryProductRepository(newTestLogger())
		id, err := repo.InsertOne(ctx, domain.Document{"name": "Pen", "price": 20.0, "category": "stationery"})
		require.NoError(t, err)

		res, err := repo.ReplaceByID(ctx, id, domain.Document{"name": "Gel pen", "price": 30.0})
		require.NoError(t, err)
		assert.Equal(t, int64(1), res.ModifiedCount)

		doc, err := repo.FindByID(ctx, id)
		require.NoError(t, err)
		assert.Equal(t, domain.Document{"_id": id, "name": "Gel pen", "price": 30.0}, doc)
	})

	t.Run("DeleteByIDTwice", func(t *testing.T) {
		repo := NewMemoryProductRepository(newTestLogger())
		id, err := repo.InsertOne(ctx, domain.Document{"name": "Pen"})
		require.NoError(t, err)

		deleted, err := repo.DeleteByID(ctx, id)
		require.NoError(t, err)
		assert.Equal(t, int64(1), deleted)

		_, err = repo.DeleteByID(ctx, id)
		assert.ErrorIs(t, err, domain.ErrNotFound)

		products, err := repo.Find(ctx, nil)
		require.NoError(t, err)
		assert.Empty(t, products)
	})

	t.Run("DeleteMany", func(t *testing.T) {
		repo := NewMemoryProductRepository(newTestLogger())
		ids, err := repo.InsertMany(ctx, []domain.Document{
			{"name": "Pen", "category": "stationery"},
			{"name": "Mug", "category": "kitchen"},
		})
		require.NoError(t, err)

		deleted, err := repo.DeleteMany(ctx, domain.Document{"_id": ids[0]})
		require.NoError(t, err)
		assert.Equal(t, int64(1), deleted)

		_, err = repo.DeleteMany(ctx, domain.Document{"_id": ids[0]})
		assert.ErrorIs(t, err, domain.ErrNotFound)

		products, err := repo.Find(ctx, []string{"name"})
		require.NoError(t, err)
		assert.Equal(t, []domain.Document{{"name": "Mug"}}, products)
	})

	t.Run("MalformedAndUnknownIDs", func(t *testing.T) {
		repo := NewMemoryProductRepository(newTestLogger())

		_, err := repo.FindByID(ctx, "abc")
		assert.ErrorIs(t, err, domain.ErrInvalidID)
		_, err = repo.UpdateByID(ctx, "abc", domain.Document{"a": 1.0})
		assert.ErrorIs(t, err, domain.ErrInvalidID)
		_, err = repo.DeleteMany(ctx, domain.Document{"_id": 42.0})
		assert.ErrorIs(t, err, domain.ErrInvalidID)

		_, err = repo.DeleteByID(ctx, primitive.NewObjectID().Hex())
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})
}
