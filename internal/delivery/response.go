package delivery

import (
	"catalog_service/internal/domain"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
)

const internalErrorMessage = "Internal Server Error"

type MessageResponse struct {
	Message string `json:"message"`
}

type CreatedResponse struct {
	Message    string `json:"message"`
	InsertedID string `json:"insertedId"`
}

type BulkCreatedResponse struct {
	Message       string   `json:"message"`
	InsertedCount int      `json:"insertedCount"`
	InsertedIDs   []string `json:"insertedIds"`
}

type UpdatedResponse struct {
	Message       string `json:"message"`
	ModifiedCount int64  `json:"modifiedCount"`
}

type BulkUpdatedResponse struct {
	Message       string `json:"message"`
	MatchedCount  int64  `json:"matchedCount"`
	ModifiedCount int64  `json:"modifiedCount"`
}

type DeletedResponse struct {
	Message      string `json:"message"`
	DeletedCount int64  `json:"deletedCount"`
}

func SuccessResponse(c *gin.Context, statusCode int, body interface{}) {
	c.JSON(statusCode, body)
}

func ErrorResponse(c *gin.Context, statusCode int, message string) {
	c.JSON(statusCode, MessageResponse{Message: message})
}

func mapErrorToStatus(err error) int {
	switch {
	case errors.Is(err, domain.ErrInvalidID), errors.Is(err, domain.ErrInvalidInput):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

// clientMessage never exposes the cause of a 500.
func clientMessage(err error) string {
	switch {
	case errors.Is(err, domain.ErrInvalidID):
		return "Invalid product ID format"
	case errors.Is(err, domain.ErrNotFound):
		return "Product not found"
	case errors.Is(err, domain.ErrInvalidInput):
		return err.Error()
	default:
		return internalErrorMessage
	}
}
