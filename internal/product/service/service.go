package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/huyteo/Server-danentang-GK/internal/product"
	"github.com/huyteo/Server-danentang-GK/internal/product/repository"
	"github.com/huyteo/Server-danentang-GK/internal/storage"
	"github.com/huyteo/Server-danentang-GK/pkg/logger"
	"github.com/huyteo/Server-danentang-GK/pkg/metrics"
)

var (
	ErrNotFound           = errors.New("product not found")
	ErrMissingFields      = errors.New("missing required fields")
	ErrInvalidPrice       = errors.New("price must be at least 1")
	ErrInvalidField       = errors.New("productId and category must not be blank")
	ErrDuplicateProductID = errors.New("identifier already exists")
	ErrNothingToUpdate    = errors.New("nothing to update")
)

// IsClientError reports whether err belongs to the validation bucket of the
// error taxonomy (answered with 400).
func IsClientError(err error) bool {
	return errors.Is(err, ErrMissingFields) ||
		errors.Is(err, ErrInvalidPrice) ||
		errors.Is(err, ErrInvalidField) ||
		errors.Is(err, ErrDuplicateProductID) ||
		errors.Is(err, ErrNothingToUpdate)
}

// Upload is an image attached to a create request. Open is called at most once,
// and only after the request passed validation and the uniqueness check.
type Upload struct {
	Filename    string
	Size        int64
	ContentType string
	Open        func() (io.ReadCloser, error)
}

// CreateInput carries the raw form values of a create request.
type CreateInput struct {
	ProductID string
	Category  string
	Price     string
	Image     *Upload
}

// UpdateInput is the decoded body of an update request; nil means absent.
type UpdateInput struct {
	ProductID *string  `json:"productId"`
	Category  *string  `json:"category"`
	Price     *float64 `json:"price"`
	ImagePath *string  `json:"imagePath"`
}

// newProduct is the typed, validated form of CreateInput.
type newProduct struct {
	ProductID string   `validate:"required"`
	Category  string   `validate:"required"`
	Price     *float64 `validate:"required"`
	Image     *Upload  `validate:"required"`
}

// Service implements the catalog operations on top of a repository and an
// image store.
type Service struct {
	repo     repository.Repository
	images   storage.ImageStore
	validate *validator.Validate
}

func NewService(repo repository.Repository, images storage.ImageStore) *Service {
	return &Service{repo: repo, images: images, validate: validator.New()}
}

// List returns every product in store order.
func (s *Service) List(ctx context.Context) ([]*product.Product, error) {
	list, err := s.repo.List(ctx)
	record("list", err)
	return list, err
}

// Create validates the input, checks productId uniqueness, stores the image
// and inserts the record. The stored image is removed again when the insert
// fails.
func (s *Service) Create(ctx context.Context, in CreateInput) (*product.Product, error) {
	p, err := s.create(ctx, in)
	record("create", err)
	return p, err
}

func (s *Service) create(ctx context.Context, in CreateInput) (*product.Product, error) {
	np, err := s.parseCreate(in)
	if err != nil {
		return nil, err
	}

	// fast path for the friendly message; the unique index stays authoritative
	if _, err := s.repo.FindByProductID(ctx, np.ProductID); err == nil {
		return nil, ErrDuplicateProductID
	} else if !errors.Is(err, repository.ErrNotFound) {
		return nil, err
	}

	name, err := s.storeImage(ctx, np.Image)
	if err != nil {
		return nil, err
	}

	p := &product.Product{
		ProductID: np.ProductID,
		Category:  np.Category,
		Price:     *np.Price,
		ImagePath: name,
	}
	if err := s.repo.Create(ctx, p); err != nil {
		if rmErr := s.images.Remove(context.WithoutCancel(ctx), name); rmErr != nil {
			logger.Warnf("orphaned image %s left after failed insert: %v", name, rmErr)
		}
		if errors.Is(err, repository.ErrDuplicateProductID) {
			return nil, ErrDuplicateProductID
		}
		return nil, err
	}
	return p, nil
}

func (s *Service) parseCreate(in CreateInput) (*newProduct, error) {
	np := &newProduct{
		ProductID: strings.TrimSpace(in.ProductID),
		Category:  strings.TrimSpace(in.Category),
		Image:     in.Image,
	}
	if raw := strings.TrimSpace(in.Price); raw != "" {
		price, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return nil, ErrInvalidPrice
		}
		np.Price = &price
	}
	if err := s.validate.Struct(np); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			return nil, ErrMissingFields
		}
		return nil, fmt.Errorf("validate product: %w", err)
	}
	if !validPrice(*np.Price) {
		return nil, ErrInvalidPrice
	}
	return np, nil
}

func (s *Service) storeImage(ctx context.Context, up *Upload) (string, error) {
	rc, err := up.Open()
	if err != nil {
		return "", fmt.Errorf("open upload %s: %w", up.Filename, err)
	}
	defer rc.Close()
	name, err := s.images.Save(ctx, up.Filename, rc, up.Size, up.ContentType)
	if err != nil {
		return "", fmt.Errorf("store image: %w", err)
	}
	if up.Size > 0 {
		metrics.ImageBytesStored.Add(float64(up.Size))
	}
	return name, nil
}

// Delete removes the product with the given external productId. Its image is
// left in the store.
func (s *Service) Delete(ctx context.Context, productID string) (*product.Product, error) {
	p, err := s.repo.DeleteByProductID(ctx, productID)
	if errors.Is(err, repository.ErrNotFound) {
		err = ErrNotFound
	}
	record("delete", err)
	if err != nil {
		return nil, err
	}
	return p, nil
}

// Update applies the present fields of in to the record with the given store
// id and returns the updated record.
func (s *Service) Update(ctx context.Context, id string, in UpdateInput) (*product.Product, error) {
	p, err := s.update(ctx, id, in)
	record("update", err)
	return p, err
}

func (s *Service) update(ctx context.Context, id string, in UpdateInput) (*product.Product, error) {
	u := product.Update{
		ProductID: in.ProductID,
		Category:  in.Category,
		Price:     in.Price,
		ImagePath: in.ImagePath,
	}
	if u.Empty() {
		return nil, ErrNothingToUpdate
	}
	if u.ProductID != nil {
		v := strings.TrimSpace(*u.ProductID)
		if v == "" {
			return nil, ErrInvalidField
		}
		u.ProductID = &v
	}
	if u.Category != nil {
		v := strings.TrimSpace(*u.Category)
		if v == "" {
			return nil, ErrInvalidField
		}
		u.Category = &v
	}
	if u.Price != nil && !validPrice(*u.Price) {
		return nil, ErrInvalidPrice
	}

	p, err := s.repo.Update(ctx, id, u)
	switch {
	case errors.Is(err, repository.ErrNotFound):
		return nil, ErrNotFound
	case errors.Is(err, repository.ErrDuplicateProductID):
		return nil, ErrDuplicateProductID
	case err != nil:
		return nil, err
	}
	return p, nil
}

// OpenImage opens a stored image by its generated name.
func (s *Service) OpenImage(ctx context.Context, name string) (io.ReadCloser, error) {
	return s.images.Open(ctx, name)
}

func validPrice(p float64) bool {
	// NaN fails the comparison and is rejected too
	return p >= 1 && !math.IsInf(p, 1)
}

func record(op string, err error) {
	result := metrics.ResultSuccess
	switch {
	case err == nil:
	case IsClientError(err), errors.Is(err, ErrNotFound):
		result = metrics.ResultClientError
	default:
		result = metrics.ResultError
	}
	metrics.ProductOperations.WithLabelValues(op, result).Inc()
}
