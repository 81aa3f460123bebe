package handler

import (
	"errors"
	"io"
	"mime"
	"mime/multipart"
	"net/http"
	"path/filepath"

	"github.com/gin-gonic/gin"
	"github.com/huyteo/Server-danentang-GK/internal/product/service"
	"github.com/huyteo/Server-danentang-GK/internal/storage"
	"github.com/huyteo/Server-danentang-GK/pkg/logger"
	"github.com/huyteo/Server-danentang-GK/pkg/middleware"
)

// multipart parts beyond this stay in temp files
const formMemory = 8 << 20

// RegisterProductRoutes mounts the catalog API and the image route on r.
// Bodies of /add-products larger than maxUploadBytes are rejected with 400.
func RegisterProductRoutes(r gin.IRouter, svc *service.Service, maxUploadBytes int64) {
	r.GET("/products", func(c *gin.Context) {
		list, err := svc.List(c.Request.Context())
		if err != nil {
			internalError(c, "list", "failed to list products", err)
			return
		}
		c.JSON(http.StatusOK, list)
	})

	r.POST("/add-products", func(c *gin.Context) {
		in, err := bindCreateForm(c, maxUploadBytes)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		p, err := svc.Create(c.Request.Context(), in)
		if err != nil {
			if service.IsClientError(err) {
				c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			internalError(c, "create", "failed to create product", err)
			return
		}
		c.JSON(http.StatusCreated, p)
	})

	r.DELETE("/products/:productId", func(c *gin.Context) {
		_, err := svc.Delete(c.Request.Context(), c.Param("productId"))
		switch {
		case errors.Is(err, service.ErrNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		case err != nil:
			internalError(c, "delete", "failed to delete product", err)
		default:
			c.JSON(http.StatusOK, gin.H{"message": "product deleted"})
		}
	})

	r.PUT("/products-update/:id", func(c *gin.Context) {
		var in service.UpdateInput
		// an empty body is an empty update, rejected by the service
		if err := c.ShouldBindJSON(&in); err != nil && !errors.Is(err, io.EOF) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
			return
		}
		p, err := svc.Update(c.Request.Context(), c.Param("id"), in)
		switch {
		case errors.Is(err, service.ErrNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		case service.IsClientError(err):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		case err != nil:
			internalError(c, "update", "failed to update product", err)
		default:
			c.JSON(http.StatusOK, p)
		}
	})

	r.GET("/uploads/:filename", func(c *gin.Context) {
		name := c.Param("filename")
		rc, err := svc.OpenImage(c.Request.Context(), name)
		if err != nil {
			if errors.Is(err, storage.ErrNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"error": "file not found"})
				return
			}
			internalError(c, "image", "failed to read file", err)
			return
		}
		defer rc.Close()
		ct := mime.TypeByExtension(filepath.Ext(name))
		if ct == "" {
			ct = "application/octet-stream"
		}
		c.DataFromReader(http.StatusOK, -1, ct, rc, nil)
	})
}

var errBodyTooLarge = errors.New("request body too large")

func bindCreateForm(c *gin.Context, maxUploadBytes int64) (service.CreateInput, error) {
	if maxUploadBytes > 0 {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxUploadBytes)
	}
	if err := c.Request.ParseMultipartForm(formMemory); err != nil {
		var tooLarge *http.MaxBytesError
		switch {
		case errors.As(err, &tooLarge):
			return service.CreateInput{}, errBodyTooLarge
		case errors.Is(err, http.ErrNotMultipart):
			// no form at all; the service reports the missing fields
			return service.CreateInput{}, nil
		default:
			return service.CreateInput{}, errors.New("invalid multipart form")
		}
	}
	in := service.CreateInput{
		ProductID: c.PostForm("productId"),
		Category:  c.PostForm("category"),
		Price:     c.PostForm("price"),
	}
	if fh, err := c.FormFile("image"); err == nil {
		in.Image = upload(fh)
	}
	return in, nil
}

func upload(fh *multipart.FileHeader) *service.Upload {
	return &service.Upload{
		Filename:    fh.Filename,
		Size:        fh.Size,
		ContentType: fh.Header.Get("Content-Type"),
		Open: func() (io.ReadCloser, error) {
			return fh.Open()
		},
	}
}

// internalError logs the cause with the request id and answers with a generic
// message so store details never reach the client.
func internalError(c *gin.Context, op, msg string, err error) {
	logger.WithFields(map[string]interface{}{
		"request_id": c.GetString(middleware.RequestIDKey),
		"operation":  op,
	}).Errorf("%s: %v", msg, err)
	c.JSON(http.StatusInternalServerError, gin.H{"error": msg})
}
