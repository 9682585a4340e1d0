package handler // handler package contains the item endpoint

import (
    "context"       // context bounds the event publish
    "encoding/json" // json decodes the request body
    "errors"        // errors.Is detects the end of the body
    "io"            // io.EOF marks a body with nothing after the document
    "log/slog"      // slog reports failed publishes
    "net/http"      // http provides status code constants
    "strings"       // strings matches the content type
    "sync/atomic"   // atomic backs the identifier sequence
    "time"          // time sets the publish timeout

    "github.com/labstack/echo/v4" // echo is the web framework used for handlers

    "github.com/iliyamo/colabri-doc/internal/metrics" // metrics counts created items
    "github.com/iliyamo/colabri-doc/internal/model"   // model defines request/response payloads
    "github.com/iliyamo/colabri-doc/internal/queue"   // queue defines the item-created event
)

const publishTimeout = 2 * time.Second

// ItemEvents receives an event for every created item.  *queue.Publisher
// satisfies it.
type ItemEvents interface {
    PublishItemCreated(ctx context.Context, ev queue.ItemCreatedEvent) error
}

// Sequence hands out item identifiers.  The zero value is ready to use and
// its first identifier is 1.  Identifiers only live as long as the process.
type Sequence struct {
    last atomic.Uint64 // last identifier handed out; 64 bits never wrap in practice
}

// Next returns the next identifier.  Safe for concurrent use; two callers
// never receive the same value.
func (s *Sequence) Next() uint64 {
    return s.last.Add(1) // single atomic increment, no lock needed
}

// ItemHandler serves POST /api/items.  It owns its identifier sequence so
// that two handlers (for example in tests) never share one.
type ItemHandler struct {
    seq     *Sequence        // identifier source owned by this handler
    metrics *metrics.Metrics // optional; nil disables instrumentation
    events  ItemEvents       // optional; nil disables events
}

// NewItemHandler constructs an ItemHandler with a fresh sequence.
func NewItemHandler(m *metrics.Metrics) *ItemHandler {
    return &ItemHandler{seq: &Sequence{}, metrics: m}
}

// WithEvents makes the handler publish an item-created event after each
// successful creation.  A failed publish is logged and never changes the
// response.
func (h *ItemHandler) WithEvents(events ItemEvents) *ItemHandler {
    h.events = events
    return h
}

// CreateItem handles POST /api/items.  Nothing is stored: the response is
// the request plus a freshly generated identifier.
func (h *ItemHandler) CreateItem(c echo.Context) error { // begin CreateItem handler
    if !strings.HasPrefix(c.Request().Header.Get(echo.HeaderContentType), echo.MIMEApplicationJSON) { // forms and XML are refused too
        return c.JSON(http.StatusUnsupportedMediaType, model.NewError(http.StatusUnsupportedMediaType, "content type must be application/json"))
    }
    body, err := decodeItemRequest(c.Request().Body) // exactly one JSON value, nothing after it
    if err != nil {
        return c.JSON(http.StatusBadRequest, model.NewError(http.StatusBadRequest, "invalid request body")) // malformed JSON is a client error
    }
    if body.Name == nil || body.Description == nil { // both fields must be present; empty strings are fine
        return c.JSON(http.StatusUnprocessableEntity, model.NewError(http.StatusUnprocessableEntity, "name and description are required"))
    }
    item := model.Item{ // assemble the echo response
        ID:          h.seq.Next(),      // fresh identifier
        Name:        *body.Name,        // copied verbatim
        Description: *body.Description, // copied verbatim
    }
    h.metrics.ItemCreated() // count the creation
    h.publish(c.Request().Context(), item)
    return c.JSON(http.StatusCreated, item) // return 201 and the created item on success
}

// decodeItemRequest reads a single JSON document from r.  Trailing values or
// garbage after it make the whole body invalid.
func decodeItemRequest(r io.Reader) (model.CreateItemRequest, error) {
    var body model.CreateItemRequest
    dec := json.NewDecoder(r)
    if err := dec.Decode(&body); err != nil {
        return body, err
    }
    var extra json.RawMessage
    if err := dec.Decode(&extra); !errors.Is(err, io.EOF) {
        return body, errors.New("unexpected data after JSON body")
    }
    return body, nil
}

func (h *ItemHandler) publish(ctx context.Context, item model.Item) {
    if h.events == nil {
        return
    }
    ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), publishTimeout)
    defer cancel()
    ev := queue.NewItemCreatedEvent(item.ID, item.Name, item.Description)
    if err := h.events.PublishItemCreated(ctx, ev); err != nil {
        slog.Warn("Item event not published", "item_id", item.ID, "error", err)
    }
}
