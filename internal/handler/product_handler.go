package handler

import (
	"context"
	"errors"
	"goods-tracker/internal/ledger"
	"goods-tracker/internal/model"
	"goods-tracker/pkg/logger"
	"goods-tracker/prometheus"
	"mime/multipart"
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// ProductLedger is the record store the product routes work against
type ProductLedger interface {
	List(ctx context.Context) ([]model.Product, error)
	Get(ctx context.Context, id string) (*model.Product, error)
	GetByTransactionID(ctx context.Context, transactionID string) (*model.Product, error)
	Add(ctx context.Context, in model.NewProductInput) (*model.Product, error)
	Update(ctx context.Context, id string, in model.UpdateProductInput) (*model.Product, error)
	Delete(ctx context.Context, id string) (*model.Product, error)
}

// PhotoSaver stores uploaded photo files and returns their public paths
type PhotoSaver interface {
	Save(files []*multipart.FileHeader) ([]string, error)
}

// ProductHandler serves the /api/products routes
type ProductHandler struct {
	ledger ProductLedger
	photos PhotoSaver
}

// NewProductHandler creates a ProductHandler
func NewProductHandler(l ProductLedger, photos PhotoSaver) *ProductHandler {
	return &ProductHandler{ledger: l, photos: photos}
}

// Register mounts the product routes on g. Mutating routes get the extra guards.
func (h *ProductHandler) Register(g *echo.Group, guards ...echo.MiddlewareFunc) {
	g.GET("", h.ListProducts)
	g.GET("/transaction/:transactionId", h.GetProductByTransaction)
	g.GET("/:id", h.GetProduct)
	g.POST("", h.CreateProduct, guards...)
	g.PUT("/:id", h.UpdateProduct, guards...)
	g.DELETE("/:id", h.DeleteProduct, guards...)
}

// ListProducts returns every product in insertion order
func (h *ProductHandler) ListProducts(c echo.Context) error {
	log := logger.FromContext(c)

	// Execute the query
	products, err := h.ledger.List(c.Request().Context())
	if err != nil {
		log.Error("Failed to list products", zap.Error(err))
		prometheus.RecordProductOperation("list", "error")
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Failed to fetch products"})
	}

	prometheus.RecordProductOperation("list", "ok")
	log.Info("Products retrieved successfully", zap.Int("count", len(products)))
	return c.JSON(http.StatusOK, products)
}

// GetProduct returns a single product by internal id
func (h *ProductHandler) GetProduct(c echo.Context) error {
	log := logger.FromContext(c)
	id := c.Param("id")

	product, err := h.ledger.Get(c.Request().Context(), id)
	return h.respondWithProduct(c, log.With(zap.String("product_id", id)), "get", product, err)
}

// GetProductByTransaction returns a single product by its public transaction id
func (h *ProductHandler) GetProductByTransaction(c echo.Context) error {
	log := logger.FromContext(c)
	transactionID := c.Param("transactionId")

	product, err := h.ledger.GetByTransactionID(c.Request().Context(), transactionID)
	return h.respondWithProduct(c, log.With(zap.String("transaction_id", transactionID)), "track", product, err)
}

func (h *ProductHandler) respondWithProduct(c echo.Context, log *zap.Logger, op string, product *model.Product, err error) error {
	if errors.Is(err, ledger.ErrNotFound) {
		log.Warn("Product not found")
		prometheus.RecordProductOperation(op, "not_found")
		return c.JSON(http.StatusNotFound, echo.Map{"error": "Product not found"})
	}
	if err != nil {
		log.Error("Failed to fetch product", zap.Error(err))
		prometheus.RecordProductOperation(op, "error")
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Failed to fetch product"})
	}

	prometheus.RecordProductOperation(op, "ok")
	log.Info("Product retrieved successfully", zap.String("product_name", product.Name))
	return c.JSON(http.StatusOK, product)
}

// CreateProduct adds a product from a multipart form with up to the configured number of photos
func (h *ProductHandler) CreateProduct(c echo.Context) error {
	log := logger.FromContext(c)
	fail := func(msg string, err error) error {
		log.Error(msg, zap.Error(err))
		prometheus.RecordProductOperation("create", "error")
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Failed to add product"})
	}

	// Parse the form
	form, err := readProductForm(c)
	if err != nil {
		return fail("Invalid product form", err)
	}

	// Store uploaded photos
	photos, err := h.photos.Save(form.photos)
	if err != nil {
		return fail("Failed to store photos", err)
	}

	in := model.NewProductInput{
		Name:         form.textOr("name", ""),
		Description:  form.textOr("description", ""),
		ArrivalDate:  form.textOr("arrivalDate", ""),
		OrderDate:    form.textOr("orderDate", ""),
		Status:       form.textOr("status", ""),
		SenderName:   form.textOr("senderName", ""),
		ReceiverName: form.textOr("receiverName", ""),
		Photos:       photos,
	}
	if price := form.float("price"); price != nil {
		in.Price = *price
	}
	if quantity := form.int("quantity"); quantity != nil {
		in.Quantity = *quantity
	}

	log.Info("Product creation request",
		zap.String("name", in.Name),
		zap.Float64("price", in.Price),
		zap.Int("quantity", in.Quantity),
		zap.Int("photos", len(photos)))

	// Persist the product
	product, err := h.ledger.Add(c.Request().Context(), in)
	if err != nil {
		return fail("Failed to add product", err)
	}

	// Record metrics
	prometheus.RecordProductOperation("create", "ok")
	prometheus.SetQuantityLeft(product.TransactionID, product.QuantityLeft)
	log.Info("Product created successfully",
		zap.String("product_id", product.ID),
		zap.String("transaction_id", product.TransactionID))
	return c.JSON(http.StatusCreated, product)
}

// UpdateProduct applies the non-empty fields of the form to an existing product
func (h *ProductHandler) UpdateProduct(c echo.Context) error {
	id := c.Param("id")
	log := logger.FromContext(c).With(zap.String("product_id", id))
	fail := func(msg string, err error) error {
		log.Error(msg, zap.Error(err))
		prometheus.RecordProductOperation("update", "error")
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Failed to update product"})
	}

	form, err := readProductForm(c)
	if err != nil {
		return fail("Invalid product form", err)
	}

	// Only supplied fields are applied
	in := model.UpdateProductInput{
		Name:         form.textPtr("name"),
		Description:  form.textPtr("description"),
		Price:        form.float("price"),
		Quantity:     form.int("quantity"),
		QuantitySent: form.int("quantitySent"),
		ArrivalDate:  form.textPtr("arrivalDate"),
		ShippingDate: form.textPtr("shippingDate"),
		OrderDate:    form.textPtr("orderDate"),
		Status:       form.textPtr("status"),
		SenderName:   form.textPtr("senderName"),
		ReceiverName: form.textPtr("receiverName"),
	}

	if len(form.photos) > 0 {
		// Unknown ids must not leave stored files behind.
		if _, err := h.ledger.Get(c.Request().Context(), id); errors.Is(err, ledger.ErrNotFound) {
			return h.updateNotFound(c, log)
		}
		photos, err := h.photos.Save(form.photos)
		if err != nil {
			return fail("Failed to store photos", err)
		}
		in.Photos = photos
	}

	// Persist the changes
	product, err := h.ledger.Update(c.Request().Context(), id, in)
	if errors.Is(err, ledger.ErrNotFound) {
		return h.updateNotFound(c, log)
	}
	if err != nil {
		return fail("Failed to update product", err)
	}

	prometheus.RecordProductOperation("update", "ok")
	prometheus.SetQuantityLeft(product.TransactionID, product.QuantityLeft)
	log.Info("Product updated successfully",
		zap.String("status", product.Status),
		zap.Int("quantity_left", product.QuantityLeft))
	return c.JSON(http.StatusOK, product)
}

func (h *ProductHandler) updateNotFound(c echo.Context, log *zap.Logger) error {
	log.Warn("Product not found for update")
	prometheus.RecordProductOperation("update", "not_found")
	return c.JSON(http.StatusNotFound, echo.Map{"error": "Product not found"})
}

// DeleteProduct permanently removes a product
func (h *ProductHandler) DeleteProduct(c echo.Context) error {
	id := c.Param("id")
	log := logger.FromContext(c).With(zap.String("product_id", id))

	// Execute the delete
	removed, err := h.ledger.Delete(c.Request().Context(), id)
	if errors.Is(err, ledger.ErrNotFound) {
		log.Warn("Product not found for deletion")
		prometheus.RecordProductOperation("delete", "not_found")
		return c.JSON(http.StatusNotFound, echo.Map{"error": "Product not found"})
	}
	if err != nil {
		log.Error("Failed to delete product", zap.Error(err))
		prometheus.RecordProductOperation("delete", "error")
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Failed to delete product"})
	}

	// Record metrics
	prometheus.RecordProductOperation("delete", "ok")
	prometheus.DeleteQuantityLeft(removed.TransactionID)
	log.Info("Product deleted successfully", zap.String("transaction_id", removed.TransactionID))
	return c.JSON(http.StatusOK, echo.Map{"message": "Product deleted successfully"})
}
