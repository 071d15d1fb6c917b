package delivery

import (
	"catalog_service/internal/usecase"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

type ProductHandler struct {
	useCase usecase.ProductUseCase
	log     *logrus.Logger
}

func NewProductHandler(uc usecase.ProductUseCase, logger *logrus.Logger) *ProductHandler {
	return &ProductHandler{
		useCase: uc,
		log:     logger,
	}
}

func (h *ProductHandler) RegisterRoutes(router gin.IRouter) {
	products := router.Group("/products")
	{
		products.GET("", h.ListProducts)
		products.POST("", h.CreateProduct)
		products.POST("/many", h.CreateProducts)
		products.PATCH("/many", h.UpdateProducts)
		products.DELETE("/many", h.DeleteProducts)
		products.GET("/:id", h.GetProductByID)
		products.PATCH("/:id", h.UpdateProduct)
		products.PUT("/:id", h.ReplaceProduct)
		products.DELETE("/:id", h.DeleteProduct)
	}
}

type bulkUpdateRequest struct {
	Filter  map[string]interface{} `json:"filter"`
	Updates map[string]interface{} `json:"updates"`
}

func (h *ProductHandler) ListProducts(c *gin.Context) {
	fields := usecase.ParseFields(c.Query("fields"))

	products, err := h.useCase.ListProducts(c.Request.Context(), fields)
	if err != nil {
		h.fail(c, "Failed to list products", err)
		return
	}

	h.log.Infof("Retrieved %d products", len(products))
	SuccessResponse(c, http.StatusOK, products)
}

func (h *ProductHandler) GetProductByID(c *gin.Context) {
	id := c.Param("id")

	product, err := h.useCase.GetProductByID(c.Request.Context(), id)
	if err != nil {
		h.fail(c, "Failed to get product "+id, err)
		return
	}

	SuccessResponse(c, http.StatusOK, product)
}

func (h *ProductHandler) CreateProduct(c *gin.Context) {
	var product map[string]interface{}
	if err := c.ShouldBindJSON(&product); err != nil {
		h.log.Warnf("Failed to bind JSON for create product: %v", err)
		ErrorResponse(c, http.StatusBadRequest, "Product data is required")
		return
	}

	id, err := h.useCase.CreateProduct(c.Request.Context(), product)
	if err != nil {
		h.fail(c, "Failed to create product", err)
		return
	}

	h.log.Infof("Product created successfully: ID %s", id)
	SuccessResponse(c, http.StatusCreated, CreatedResponse{
		Message:    "Product created successfully",
		InsertedID: id,
	})
}

func (h *ProductHandler) CreateProducts(c *gin.Context) {
	var items []interface{}
	if err := c.ShouldBindJSON(&items); err != nil {
		h.log.Warnf("Failed to bind JSON for bulk create: %v", err)
		ErrorResponse(c, http.StatusBadRequest, "A non-empty array of products is required")
		return
	}

	ids, err := h.useCase.CreateProducts(c.Request.Context(), items)
	if err != nil {
		h.fail(c, "Failed to create products", err)
		return
	}

	h.log.Infof("Created %d products", len(ids))
	SuccessResponse(c, http.StatusCreated, BulkCreatedResponse{
		Message:       "Products created successfully",
		InsertedCount: len(ids),
		InsertedIDs:   ids,
	})
}

func (h *ProductHandler) UpdateProduct(c *gin.Context) {
	id := c.Param("id")

	var updates map[string]interface{}
	if err := c.ShouldBindJSON(&updates); err != nil {
		h.log.Warnf("Failed to bind JSON for update product ID %s: %v", id, err)
		ErrorResponse(c, http.StatusBadRequest, "Update data is required")
		return
	}

	res, err := h.useCase.UpdateProduct(c.Request.Context(), id, updates)
	if err != nil {
		h.fail(c, "Failed to update product "+id, err)
		return
	}

	h.log.Infof("Product updated successfully: ID %s", id)
	SuccessResponse(c, http.StatusOK, UpdatedResponse{
		Message:       "Product updated successfully",
		ModifiedCount: res.ModifiedCount,
	})
}

func (h *ProductHandler) UpdateProducts(c *gin.Context) {
	var req bulkUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.log.Warnf("Failed to bind JSON for bulk update: %v", err)
		ErrorResponse(c, http.StatusBadRequest, "Filter and updates are required")
		return
	}

	res, err := h.useCase.UpdateProducts(c.Request.Context(), req.Filter, req.Updates)
	if err != nil {
		h.fail(c, "Failed to update products", err)
		return
	}

	SuccessResponse(c, http.StatusOK, BulkUpdatedResponse{
		Message:       "Products updated successfully",
		MatchedCount:  res.MatchedCount,
		ModifiedCount: res.ModifiedCount,
	})
}

func (h *ProductHandler) ReplaceProduct(c *gin.Context) {
	id := c.Param("id")

	var product map[string]interface{}
	if err := c.ShouldBindJSON(&product); err != nil {
		h.log.Warnf("Failed to bind JSON for replace product ID %s: %v", id, err)
		ErrorResponse(c, http.StatusBadRequest, "Name and price are required")
		return
	}

	res, err := h.useCase.ReplaceProduct(c.Request.Context(), id, product)
	if err != nil {
		h.fail(c, "Failed to replace product "+id, err)
		return
	}

	h.log.Infof("Product replaced successfully: ID %s", id)
	SuccessResponse(c, http.StatusOK, UpdatedResponse{
		Message:       "Product replaced successfully",
		ModifiedCount: res.ModifiedCount,
	})
}

func (h *ProductHandler) DeleteProduct(c *gin.Context) {
	id := c.Param("id")

	if err := h.useCase.DeleteProduct(c.Request.Context(), id); err != nil {
		h.fail(c, "Failed to delete product "+id, err)
		return
	}

	h.log.Infof("Product deleted successfully: ID %s", id)
	SuccessResponse(c, http.StatusOK, MessageResponse{Message: "Product deleted successfully"})
}

func (h *ProductHandler) DeleteProducts(c *gin.Context) {
	var filter map[string]interface{}
	if err := c.ShouldBindJSON(&filter); err != nil {
		h.log.Warnf("Failed to bind JSON for bulk delete: %v", err)
		ErrorResponse(c, http.StatusBadRequest, "Filter is required")
		return
	}

	deleted, err := h.useCase.DeleteProducts(c.Request.Context(), filter)
	if err != nil {
		h.fail(c, "Failed to delete products", err)
		return
	}

	SuccessResponse(c, http.StatusOK, DeletedResponse{
		Message:      "Products deleted successfully",
		DeletedCount: deleted,
	})
}

func (h *ProductHandler) fail(c *gin.Context, action string, err error) {
	status := mapErrorToStatus(err)
	if status == http.StatusInternalServerError {
		h.log.Errorf("%s: %v", action, err)
		_ = c.Error(err)
	} else {
		h.log.Warnf("%s: %v", action, err)
	}
	ErrorResponse(c, status, clientMessage(err))
}
