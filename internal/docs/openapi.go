// Package docs builds the OpenAPI document describing the HTTP surface and
// the static pages that present it.
package docs

import (
	"net/http"

	"github.com/getkin/kin-openapi/openapi3"

	"github.com/iliyamo/colabri-doc/internal/model"
)

const (
	// SpecPath is where the OpenAPI document is served.
	SpecPath = "/api-docs/openapi.json"
	// UIPath is where the Swagger UI page is served.
	UIPath = "/swagger-ui"
)

// Info identifies the service in the generated document.
type Info struct {
	Title       string
	Version     string
	Description string
}

// NewOpenAPI declares every public route. The result is built once at
// startup and never mutated.
func NewOpenAPI(info Info) *openapi3.T {
	healthSchema := objectSchema(map[string]*openapi3.Schema{
		"status":  openapi3.NewStringSchema(),
		"message": openapi3.NewStringSchema(),
	}, "status", "message")

	readySchema := objectSchema(map[string]*openapi3.Schema{
		"status":       openapi3.NewStringSchema(),
		"message":      openapi3.NewStringSchema(),
		"failed_check": openapi3.NewStringSchema(),
	}, "status", "message")

	itemRequestSchema := objectSchema(map[string]*openapi3.Schema{
		"name":        openapi3.NewStringSchema(),
		"description": openapi3.NewStringSchema(),
	}, "name", "description")

	itemSchema := objectSchema(map[string]*openapi3.Schema{
		"id":          openapi3.NewInt64Schema().WithMin(1),
		"name":        openapi3.NewStringSchema(),
		"description": openapi3.NewStringSchema(),
	}, "id", "name", "description")

	errorSchema := objectSchema(map[string]*openapi3.Schema{
		"code":   openapi3.NewIntegerSchema(),
		"status": openapi3.NewStringSchema(),
		"error":  openapi3.NewStringSchema(),
	}, "code", "status", "error")

	health := &openapi3.Operation{
		Tags:        []string{"health"},
		Summary:     "Health check",
		OperationID: "healthCheck",
		Responses: openapi3.NewResponses(
			withJSON(http.StatusOK, "Service is healthy", healthSchema),
		),
	}

	ready := &openapi3.Operation{
		Tags:        []string{"health"},
		Summary:     "Readiness check",
		Description: "Pings the configured database, Redis and RabbitMQ, if any.",
		OperationID: "readyCheck",
		Responses: openapi3.NewResponses(
			withJSON(http.StatusOK, "Service is ready", readySchema),
			withJSON(http.StatusServiceUnavailable, "A dependency is unavailable", readySchema),
		),
	}

	createItem := &openapi3.Operation{
		Tags:        []string{"items"},
		Summary:     "Create an item",
		Description: "Echoes the item back with a generated identifier. Nothing is stored.",
		OperationID: "createItem",
		RequestBody: &openapi3.RequestBodyRef{
			Value: openapi3.NewRequestBody().
				WithRequired(true).
				WithJSONSchema(itemRequestSchema),
		},
		Responses: openapi3.NewResponses(
			withJSON(http.StatusCreated, "Item created", itemSchema),
			withJSON(http.StatusBadRequest, "Malformed JSON body", errorSchema),
			withJSON(http.StatusUnprocessableEntity, "Missing name or description", errorSchema),
		),
	}

	websocket := &openapi3.Operation{
		Tags:        []string{"websocket"},
		Summary:     "Echo WebSocket",
		Description: "Upgrades to a WebSocket. The server sends \"" + model.WelcomeMessage +
			"\" and then echoes every text frame. Binary frames close the connection with code 1003.",
		OperationID: "websocketEcho",
		Responses: openapi3.NewResponses(
			openapi3.WithStatus(http.StatusSwitchingProtocols, &openapi3.ResponseRef{
				Value: openapi3.NewResponse().WithDescription("Switching to the WebSocket protocol"),
			}),
			withJSON(http.StatusBadRequest, "Not a WebSocket handshake", errorSchema),
		),
	}

	return &openapi3.T{
		OpenAPI: "3.0.3",
		Info: &openapi3.Info{
			Title:       info.Title,
			Version:     info.Version,
			Description: info.Description,
		},
		Paths: openapi3.NewPaths(
			openapi3.WithPath("/api/health", &openapi3.PathItem{Get: health}),
			openapi3.WithPath("/api/ready", &openapi3.PathItem{Get: ready}),
			openapi3.WithPath("/api/items", &openapi3.PathItem{Post: createItem}),
			openapi3.WithPath("/ws", &openapi3.PathItem{Get: websocket}),
		),
		Tags: openapi3.Tags{
			&openapi3.Tag{Name: "health", Description: "Health check endpoints"},
			&openapi3.Tag{Name: "items", Description: "Item endpoints"},
			&openapi3.Tag{Name: "websocket", Description: "WebSocket echo endpoint"},
		},
	}
}

func objectSchema(props map[string]*openapi3.Schema, required ...string) *openapi3.Schema {
	s := openapi3.NewObjectSchema()
	for name, prop := range props {
		s.WithProperty(name, prop)
	}
	s.Required = required
	return s
}

func withJSON(status int, description string, schema *openapi3.Schema) openapi3.NewResponsesOption {
	return openapi3.WithStatus(status, &openapi3.ResponseRef{
		Value: openapi3.NewResponse().
			WithDescription(description).
			WithJSONSchema(schema),
	})
}
