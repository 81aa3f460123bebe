package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// RegisterSwagger registers minimal Swagger/OpenAPI endpoints for the catalog API.
// - GET /swagger/index.html  -> a small HTML page that loads the OpenAPI JSON
// - GET /swagger/doc.json    -> machine-readable OpenAPI JSON
func RegisterSwagger(rg gin.IRouter) {
	rg.GET("/swagger/index.html", func(c *gin.Context) {
		c.Header("Content-Type", "text/html; charset=utf-8")
		c.String(http.StatusOK, swaggerHTML)
	})

	rg.GET("/swagger/doc.json", func(c *gin.Context) {
		c.Data(http.StatusOK, "application/json; charset=utf-8", []byte(swaggerJSON))
	})
}

const swaggerHTML = `<!doctype html>
<html>
  <head>
    <meta charset="utf-8" />
    <title>product catalog - Swagger</title>
    <link rel="stylesheet" href="https://unpkg.com/swagger-ui-dist@4/swagger-ui.css" />
  </head>
  <body>
    <div id="swagger-ui"></div>
    <script src="https://unpkg.com/swagger-ui-dist@4/swagger-ui-bundle.js"></script>
    <script>
      window.ui = SwaggerUIBundle({
        url: '/swagger/doc.json',
        dom_id: '#swagger-ui',
      })
    </script>
  </body>
</html>`

const swaggerJSON = `{
  "openapi": "3.0.0",
  "info": { "title": "product-catalog", "version": "v1.0.0" },
  "components": {
    "schemas": {
      "Product": {
        "type": "object",
        "properties": {
          "id": { "type": "string" },
          "productId": { "type": "string" },
          "category": { "type": "string" },
          "price": { "type": "number", "minimum": 1 },
          "imagePath": { "type": "string" },
          "createdAt": { "type": "string", "format": "date-time" },
          "updatedAt": { "type": "string", "format": "date-time" }
        }
      },
      "Error": { "type": "object", "properties": { "error": { "type": "string" } } }
    }
  },
  "paths": {
    "/products": {
      "get": {
        "summary": "List all products",
        "responses": {
          "200": { "description": "products", "content": { "application/json": { "schema": { "type": "array", "items": { "$ref": "#/components/schemas/Product" } } } } },
          "500": { "description": "store failure" }
        }
      }
    },
    "/add-products": {
      "post": {
        "summary": "Create a product with its image",
        "requestBody": { "required": true, "content": { "multipart/form-data": { "schema": { "type": "object", "required": ["productId", "category", "price", "image"], "properties": { "productId": { "type": "string" }, "category": { "type": "string" }, "price": { "type": "number" }, "image": { "type": "string", "format": "binary" } } } } } },
        "responses": {
          "201": { "description": "created", "content": { "application/json": { "schema": { "$ref": "#/components/schemas/Product" } } } },
          "400": { "description": "validation failure or duplicate productId" },
          "500": { "description": "store failure" }
        }
      }
    },
    "/products/{productId}": {
      "delete": {
        "summary": "Delete a product by its productId",
        "parameters": [{ "name": "productId", "in": "path", "required": true, "schema": { "type": "string" } }],
        "responses": { "200": { "description": "deleted" }, "404": { "description": "not found" }, "500": { "description": "store failure" } }
      }
    },
    "/products-update/{id}": {
      "put": {
        "summary": "Partially update a product by record id",
        "parameters": [{ "name": "id", "in": "path", "required": true, "schema": { "type": "string" } }],
        "requestBody": { "content": { "application/json": { "schema": { "type": "object", "properties": { "productId": { "type": "string" }, "category": { "type": "string" }, "price": { "type": "number" }, "imagePath": { "type": "string" } } } } } },
        "responses": { "200": { "description": "updated product" }, "400": { "description": "invalid or empty update" }, "404": { "description": "not found" }, "500": { "description": "store failure" } }
      }
    },
    "/uploads/{filename}": {
      "get": {
        "summary": "Fetch a stored product image",
        "parameters": [{ "name": "filename", "in": "path", "required": true, "schema": { "type": "string" } }],
        "responses": { "200": { "description": "image bytes" }, "404": { "description": "file not found" } }
      }
    },
    "/health": { "get": { "summary": "Liveness check", "responses": { "200": { "description": "healthy" } } } },
    "/ready": { "get": { "summary": "Readiness check", "responses": { "200": { "description": "ready" }, "503": { "description": "not ready" } } } }
  }
}`
