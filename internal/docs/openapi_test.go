package docs

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testInfo = Info{Title: "colabri-doc", Version: "test", Description: "Echo service"}

func TestNewOpenAPI_Validates(t *testing.T) {
	doc := NewOpenAPI(testInfo)
	require.NoError(t, doc.Validate(context.Background()))
}

func TestNewOpenAPI_ListsRoutes(t *testing.T) {
	doc := NewOpenAPI(testInfo)

	require.NotNil(t, doc.Paths.Find("/api/health"))
	assert.NotNil(t, doc.Paths.Find("/api/health").Get)
	assert.NotNil(t, doc.Paths.Find("/api/ready").Get)
	assert.NotNil(t, doc.Paths.Find("/api/items").Post)
	assert.NotNil(t, doc.Paths.Find("/ws").Get)
	assert.Equal(t, 4, doc.Paths.Len())
	assert.Contains(t, doc.Paths.Find("/api/ready").Get.Description, "RabbitMQ")

	created := doc.Paths.Find("/api/items").Post.Responses.Status(201)
	require.NotNil(t, created)
	schema := created.Value.Content.Get("application/json").Schema.Value
	assert.ElementsMatch(t, []string{"id", "name", "description"}, schema.Required)
}

func TestNewOpenAPI_MarshalsToJSON(t *testing.T) {
	raw, err := json.Marshal(NewOpenAPI(testInfo))
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(raw, &decoded))
	assert.Equal(t, "3.0.3", decoded["openapi"])
	info := decoded["info"].(map[string]any)
	assert.Equal(t, "colabri-doc", info["title"])
	assert.Contains(t, decoded["paths"], "/api/items")
}

func TestRenderPages(t *testing.T) {
	pages, err := RenderPages(Info{Title: "colabri <doc>", Description: "d"})
	require.NoError(t, err)

	ui := string(pages.SwaggerUI)
	assert.Contains(t, ui, "SwaggerUIBundle")
	assert.Contains(t, ui, "openapi.json")
	assert.Contains(t, ui, "colabri &lt;doc&gt;")

	landing := string(pages.Landing)
	assert.Contains(t, landing, `href="/swagger-ui"`)
	assert.Contains(t, landing, "/ws")
}
