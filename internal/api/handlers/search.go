package handlers

import (
	"context"
	"net/http"
	"strconv"

	"storemirror/internal/logger"
	"storemirror/internal/services/fakestore"

	"github.com/gin-gonic/gin"
)

// SearchService answers search and recommendation queries against the
// external catalog.
type SearchService interface {
	SearchProducts(ctx context.Context, query, category string) ([]fakestore.Product, error)
	SearchAndSync(ctx context.Context, query, category string) ([]fakestore.Product, error)
	Recommendations(ctx context.Context, productID int64, limit int) ([]fakestore.Product, error)
}

type SearchHandler struct {
	service SearchService
	logger  *logger.Logger
}

func NewSearchHandler(service SearchService, logger *logger.Logger) *SearchHandler {
	return &SearchHandler{
		service: service,
		logger:  logger,
	}
}

func (h *SearchHandler) Search(c *gin.Context) {
	query := c.Query("q")
	if query == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing query parameter q"})
		return
	}
	category := c.Query("category")

	var results []fakestore.Product
	var err error
	if c.Query("sync") == "true" {
		results, err = h.service.SearchAndSync(c.Request.Context(), query, category)
	} else {
		results, err = h.service.SearchProducts(c.Request.Context(), query, category)
	}
	if err != nil {
		h.logger.Error("Search failed: %v", err)
		c.JSON(http.StatusBadGateway, gin.H{"error": "Search failed"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": results})
}

func (h *SearchHandler) Recommendations(c *gin.Context) {
	productID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid product id"})
		return
	}

	limit := 0
	if raw := c.Query("limit"); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil {
			limit = parsed
		}
	}

	results, err := h.service.Recommendations(c.Request.Context(), productID, limit)
	if err != nil {
		h.logger.Error("Recommendations failed for product %d: %v", productID, err)
		c.JSON(http.StatusBadGateway, gin.H{"error": "Recommendations failed"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": results})
}
