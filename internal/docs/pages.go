package docs

import (
	"bytes"
	"html/template"
)

var swaggerUITemplate = template.Must(template.New("swagger-ui").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
    <meta charset="utf-8">
    <title>{{.Title}} · API docs</title>
    <link rel="stylesheet" href="https://unpkg.com/swagger-ui-dist@5/swagger-ui.css">
</head>
<body>
    <div id="swagger-ui"></div>
    <script src="https://unpkg.com/swagger-ui-dist@5/swagger-ui-bundle.js" crossorigin></script>
    <script>
        window.onload = function () {
            window.ui = SwaggerUIBundle({
                url: {{.SpecURL}},
                dom_id: '#swagger-ui',
                deepLinking: true
            });
        };
    </script>
</body>
</html>
`))

var landingTemplate = template.Must(template.New("landing").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
    <meta charset="utf-8">
    <title>{{.Title}}</title>
    <style>
        body { font-family: Arial, sans-serif; margin: 40px; color: #222; }
        code { background: #f3f3f3; padding: 2px 4px; }
    </style>
</head>
<body>
    <h1>{{.Title}}</h1>
    <p>{{.Description}}</p>
    <ul>
        <li><a href="{{.UIURL}}">Swagger UI</a></li>
        <li><a href="{{.SpecURL}}">OpenAPI document</a></li>
        <li><a href="/api/health">Health</a></li>
        <li>WebSocket echo: <code>/ws</code></li>
    </ul>
</body>
</html>
`))

type pageData struct {
	Title       string
	Description string
	SpecURL     string
	UIURL       string
}

// Pages holds the pre-rendered HTML documents. Both are static for the
// lifetime of the process, so they are rendered once.
type Pages struct {
	SwaggerUI []byte
	Landing   []byte
}

// RenderPages renders the Swagger UI and landing pages for info.
func RenderPages(info Info) (*Pages, error) {
	data := pageData{
		Title:       info.Title,
		Description: info.Description,
		SpecURL:     SpecPath,
		UIURL:       UIPath,
	}

	var ui, landing bytes.Buffer
	if err := swaggerUITemplate.Execute(&ui, data); err != nil {
		return nil, err
	}
	if err := landingTemplate.Execute(&landing, data); err != nil {
		return nil, err
	}
	return &Pages{SwaggerUI: ui.Bytes(), Landing: landing.Bytes()}, nil
}
