package handler // declare the package name; contains HTTP handlers

import (
    "net/http" // net/http provides status codes and response helpers

    "github.com/labstack/echo/v4" // echo is the web framework used for this project

    "github.com/iliyamo/colabri-doc/internal/model" // model holds the response payloads
)

// Health is a simple health‑check endpoint used by load balancers and
// monitoring systems to verify that the service is running.  It ignores the
// request entirely and always answers 200 with
// {"status":"ok","message":"Server is running"}.
func Health(c echo.Context) error { // Health handler signature accepts an echo context and returns an error
    return c.JSON(http.StatusOK, model.Healthy) // write the constant payload with a 200 OK status
}
