package handler

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/colabri-doc/internal/docs"
)

// DocsHandler serves the landing page, the Swagger UI and the OpenAPI
// document. Everything is rendered once at construction.
type DocsHandler struct {
	spec  []byte
	pages *docs.Pages
}

func NewDocsHandler(info docs.Info) (*DocsHandler, error) {
	spec, err := json.Marshal(docs.NewOpenAPI(info))
	if err != nil {
		return nil, fmt.Errorf("marshal openapi document: %w", err)
	}
	pages, err := docs.RenderPages(info)
	if err != nil {
		return nil, fmt.Errorf("render docs pages: %w", err)
	}
	return &DocsHandler{spec: spec, pages: pages}, nil
}

func (h *DocsHandler) OpenAPI(c echo.Context) error {
	return c.JSONBlob(http.StatusOK, h.spec)
}

func (h *DocsHandler) SwaggerUI(c echo.Context) error {
	return c.HTMLBlob(http.StatusOK, h.pages.SwaggerUI)
}

func (h *DocsHandler) Landing(c echo.Context) error {
	return c.HTMLBlob(http.StatusOK, h.pages.Landing)
}
