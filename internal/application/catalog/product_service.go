package catalog

import (
	"context"
	"errors"
	"fmt"
	"path"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/preorder/backoffice/internal/domain/catalog"
	"github.com/preorder/backoffice/internal/domain/shared"
	"github.com/preorder/backoffice/internal/infrastructure/logger"
	"github.com/preorder/backoffice/internal/infrastructure/telemetry"
	"go.uber.org/zap"
)

// ImageStorage issues presigned uploads for product images
type ImageStorage interface {
	// GenerateUploadURL returns a presigned PUT URL for key and its expiry
	GenerateUploadURL(ctx context.Context, key, contentType string, expiresIn time.Duration) (string, time.Time, error)
	// PublicURL returns the URL the stored object is served from
	PublicURL(key string) string
}

// allowedImageTypes maps accepted content types to the stored file extension
var allowedImageTypes = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/webp": ".webp",
	"image/gif":  ".gif",
}

// ProductService manages the product catalog
type ProductService struct {
	productRepo    catalog.ProductRepository
	imageStorage   ImageStorage
	eventPublisher shared.EventPublisher
	logger         *zap.Logger
}

// NewProductService creates a new ProductService
func NewProductService(productRepo catalog.ProductRepository, log *zap.Logger) *ProductService {
	if log == nil {
		log = zap.NewNop()
	}
	return &ProductService{
		productRepo: productRepo,
		logger:      log,
	}
}

// SetEventPublisher sets the event publisher for domain events
func (s *ProductService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// SetImageStorage enables presigned image uploads
func (s *ProductService) SetImageStorage(storage ImageStorage) {
	s.imageStorage = storage
}

// Create adds a new active product
func (s *ProductService) Create(ctx context.Context, req CreateProductRequest) (*ProductResponse, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "product", "create")
	defer span.End()

	if req.Price == nil {
		return nil, shared.NewValidationError("price", "Price is required")
	}
	product, err := catalog.NewProduct(catalog.ProductDetails{
		Name:        req.Name,
		Description: req.Description,
		Cost:        req.Cost,
		Price:       *req.Price,
		ImageURL:    req.ImageURL,
	})
	if err != nil {
		return nil, err
	}

	if err := s.productRepo.Save(ctx, product); err != nil {
		telemetry.RecordError(span, err)
		return nil, fmt.Errorf("save product: %w", err)
	}
	telemetry.SetAttributes(span, telemetry.SpanAttrProductID, product.ID)

	logger.Ctx(ctx, s.logger).Info("Product created",
		zap.String("product_id", product.ID.String()),
		zap.String("name", product.Name),
	)
	s.publish(ctx, product)

	response := ToProductResponse(product)
	return &response, nil
}

// Update replaces a product's editable fields
func (s *ProductService) Update(ctx context.Context, id uuid.UUID, req UpdateProductRequest) (*ProductResponse, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "product", "update", telemetry.SpanAttrProductID, id)
	defer span.End()

	if req.Price == nil {
		return nil, shared.NewValidationError("price", "Price is required")
	}
	product, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := product.Update(catalog.ProductDetails{
		Name:        req.Name,
		Description: req.Description,
		Cost:        req.Cost,
		Price:       *req.Price,
		ImageURL:    req.ImageURL,
	}); err != nil {
		return nil, err
	}

	if err := s.productRepo.Save(ctx, product); err != nil {
		telemetry.RecordError(span, err)
		return nil, fmt.Errorf("save product: %w", err)
	}
	s.publish(ctx, product)

	response := ToProductResponse(product)
	return &response, nil
}

// Toggle flips whether the product is offered
func (s *ProductService) Toggle(ctx context.Context, id uuid.UUID) (*ProductResponse, error) {
	product, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}

	product.ToggleActive()
	if err := s.productRepo.Save(ctx, product); err != nil {
		return nil, fmt.Errorf("save product: %w", err)
	}

	logger.Ctx(ctx, s.logger).Info("Product status changed",
		zap.String("product_id", product.ID.String()),
		zap.Bool("is_active", product.IsActive),
	)
	s.publish(ctx, product)

	response := ToProductResponse(product)
	return &response, nil
}

// Delete removes a product. Order items and stock entries that point at it
// stay in place and resolve to the deleted product placeholder.
func (s *ProductService) Delete(ctx context.Context, id uuid.UUID) error {
	product, err := s.find(ctx, id)
	if err != nil {
		return err
	}

	if err := s.productRepo.Delete(ctx, id); err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return shared.NewNotFoundError("Product", id)
		}
		return err
	}
	product.MarkDeleted()

	logger.Ctx(ctx, s.logger).Info("Product deleted", zap.String("product_id", id.String()))
	s.publish(ctx, product)
	return nil
}

// GetByID returns a product
func (s *ProductService) GetByID(ctx context.Context, id uuid.UUID) (*ProductResponse, error) {
	product, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}
	response := ToProductResponse(product)
	return &response, nil
}

// List returns products matching the filter, newest first by default
func (s *ProductService) List(ctx context.Context, filter ProductListFilter) ([]ProductResponse, int64, error) {
	if filter.Page <= 0 {
		filter.Page = 1
	}
	if filter.PageSize <= 0 {
		filter.PageSize = 20
	}
	if filter.OrderBy == "" {
		filter.OrderBy = "created_at"
	}
	if filter.OrderDir == "" {
		filter.OrderDir = "desc"
	}

	domainFilter := shared.Filter{
		Page:     filter.Page,
		PageSize: filter.PageSize,
		OrderBy:  filter.OrderBy,
		OrderDir: filter.OrderDir,
		Search:   filter.Search,
		Filters:  make(map[string]interface{}),
	}
	if filter.IsActive != nil {
		domainFilter.Filters["is_active"] = *filter.IsActive
	}

	products, err := s.productRepo.FindAll(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.productRepo.Count(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}
	return ToProductResponses(products), total, nil
}

// ListActive returns the products currently offered, ordered by name
func (s *ProductService) ListActive(ctx context.Context) ([]ProductResponse, error) {
	products, err := s.productRepo.FindActive(ctx)
	if err != nil {
		return nil, err
	}
	return ToProductResponses(products), nil
}

// CreateImageUploadURL presigns an upload for a new product image
func (s *ProductService) CreateImageUploadURL(ctx context.Context, id uuid.UUID, req ImageUploadRequest) (*ImageUploadResponse, error) {
	if s.imageStorage == nil {
		return nil, shared.NewDomainError(shared.CodeUnavailable, "Image storage is not configured")
	}

	contentType := strings.ToLower(strings.TrimSpace(req.ContentType))
	ext, ok := allowedImageTypes[contentType]
	if !ok {
		return nil, shared.NewValidationError("content_type", "Only JPEG, PNG, WebP and GIF images are accepted")
	}
	if strings.TrimSpace(req.FileName) == "" {
		return nil, shared.NewValidationError("file_name", "File name is required")
	}

	exists, err := s.productRepo.ExistsByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, shared.NewNotFoundError("Product", id)
	}

	key := imageKey(id, req.FileName, ext)
	uploadURL, expiresAt, err := s.imageStorage.GenerateUploadURL(ctx, key, contentType, 0)
	if err != nil {
		return nil, fmt.Errorf("presign image upload: %w", err)
	}

	logger.Ctx(ctx, s.logger).Debug("Image upload URL issued",
		zap.String("product_id", id.String()),
		zap.String("storage_key", key),
	)
	return &ImageUploadResponse{
		UploadURL:  uploadURL,
		StorageKey: key,
		PublicURL:  s.imageStorage.PublicURL(key),
		ExpiresAt:  expiresAt,
	}, nil
}

// imageKey builds products/<product id>/<random>-<base name><ext>
func imageKey(productID uuid.UUID, fileName, ext string) string {
	base := path.Base(strings.ReplaceAll(fileName, "\\", "/"))
	base = strings.TrimSuffix(base, path.Ext(base))
	base = sanitizeKeyPart(base)
	if base == "" {
		base = "image"
	}
	return fmt.Sprintf("products/%s/%s-%s%s", productID, uuid.NewString()[:8], base, ext)
}

func sanitizeKeyPart(s string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(s) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == '-', r == '_':
			b.WriteRune(r)
		case r == ' ' || r == '.':
			b.WriteRune('-')
		}
	}
	return strings.Trim(b.String(), "-")
}

func (s *ProductService) find(ctx context.Context, id uuid.UUID) (*catalog.Product, error) {
	product, err := s.productRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.NewNotFoundError("Product", id)
		}
		return nil, err
	}
	return product, nil
}

func (s *ProductService) publish(ctx context.Context, product *catalog.Product) {
	if s.eventPublisher != nil {
		if err := s.eventPublisher.Publish(ctx, product.GetDomainEvents()...); err != nil {
			logger.Ctx(ctx, s.logger).Warn("Failed to publish product events",
				zap.String("product_id", product.ID.String()),
				zap.Error(err),
			)
		}
	}
	product.ClearDomainEvents()
}
