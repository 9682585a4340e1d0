package model

// CreateItemRequest is the body accepted by POST /api/items. Pointers let the
// handler tell an absent field apart from an empty string.
type CreateItemRequest struct {
    Name        *string `json:"name"`        // required
    Description *string `json:"description"` // required
}

// Item is returned by POST /api/items.  It reflects the request with an
// identifier drawn from the handler's sequence; nothing is stored.
//
// Fields:
//  ID          – process-local identifier, starts at 1 and only grows.
//  Name        – copied from the request.
//  Description – copied from the request.
type Item struct {
    ID          uint64 `json:"id"`
    Name        string `json:"name"`
    Description string `json:"description"`
}
