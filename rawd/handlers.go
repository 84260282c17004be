package rawd

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/advdv/rawhttp"
	"github.com/advdv/rawhttp/store"
	"github.com/cockroachdb/errors"
	"go.uber.org/zap"
)

// WelcomeMessage is served on the root path.
const WelcomeMessage = "Welcome to the HTTP Server from Scratch! Routing Test Successful."

// Handlers serves the root page, the echo endpoint and the /data collection.
type Handlers struct {
	store store.Store
	mux   *rawhttp.ServeMux
}

// NewHandlers creates the handlers. The mux is used to build Location headers.
func NewHandlers(s store.Store, mux *rawhttp.ServeMux) *Handlers {
	return &Handlers{store: s, mux: mux}
}

// Routes registers every handler on m.
func Routes(m *rawhttp.ServeMux, h *Handlers) {
	m.HandleFunc("GET /", h.Root, "root")
	m.HandleFunc("GET /echo", h.Echo, "echo")
	m.HandleFunc("GET /data", h.ListItems, "list-items")
	m.HandleFunc("POST /data", h.CreateItem, "create-item")
	m.HandleFunc("GET /data/{id}", h.GetItem, "get-item")
	m.HandleFunc("PUT /data/{id}", h.UpdateItem, "update-item")
}

func (h *Handlers) Root(_ context.Context, w rawhttp.ResponseWriter, _ *rawhttp.Request) error {
	w.SetContentType(rawhttp.ContentTypeHTML)
	_, err := w.WriteString(WelcomeMessage)
	return err
}

// Echo writes back the "message" query parameter.
func (h *Handlers) Echo(_ context.Context, w rawhttp.ResponseWriter, r *rawhttp.Request) error {
	msg := r.Query.Get("message")
	if msg == "" {
		return rawhttp.NewError(rawhttp.CodeBadRequest, errors.New("Missing 'message' query parameter"))
	}

	w.SetContentType(rawhttp.ContentTypeText)
	_, err := w.WriteString("Echoing: " + msg)
	return err
}

func (h *Handlers) ListItems(ctx context.Context, w rawhttp.ResponseWriter, _ *rawhttp.Request) error {
	items, err := h.store.All(ctx)
	if err != nil {
		return errors.Wrap(err, "list items")
	}

	if items == nil {
		items = []store.Item{}
	}

	return writeJSON(w, items)
}

func (h *Handlers) GetItem(ctx context.Context, w rawhttp.ResponseWriter, r *rawhttp.Request) error {
	item, err := h.store.Get(ctx, r.ID)
	if err != nil {
		return notFoundOr(err, r.ID)
	}

	return writeJSON(w, item)
}

// CreateItem stores the JSON object body under a new id and answers 201 with the stored
// item and its location.
func (h *Handlers) CreateItem(ctx context.Context, w rawhttp.ResponseWriter, r *rawhttp.Request) error {
	item, err := itemFromBody(r)
	if err != nil {
		return err
	}

	created, err := h.store.Insert(ctx, item)
	if err != nil {
		return errors.Wrap(err, "insert item")
	}

	loc, err := h.mux.Reverse("get-item", created.ID())
	if err != nil {
		return errors.Wrap(err, "build location")
	}

	Log(ctx).Info("created item", zap.String("id", created.ID()))

	w.Header().Set("Location", loc)
	w.WriteHeader(rawhttp.CodeCreated)
	return writeJSON(w, created)
}

// UpdateItem replaces an existing item. The path id always wins over an "id" in the body.
func (h *Handlers) UpdateItem(ctx context.Context, w rawhttp.ResponseWriter, r *rawhttp.Request) error {
	item, err := itemFromBody(r)
	if err != nil {
		return err
	}

	updated, err := h.store.Update(ctx, r.ID, item)
	if err != nil {
		return notFoundOr(err, r.ID)
	}

	return writeJSON(w, updated)
}

// itemFromBody returns the request's JSON object body or a 400 error.
func itemFromBody(r *rawhttp.Request) (store.Item, error) {
	if len(r.Body) == 0 {
		return nil, rawhttp.NewError(rawhttp.CodeBadRequest, errors.New("Missing request body"))
	}

	if r.JSON == nil {
		return nil, rawhttp.NewError(rawhttp.CodeBadRequest,
			errors.New("Request body must be JSON (Content-Type: application/json)"))
	}

	if !r.JSON.IsObject() {
		return nil, rawhttp.NewError(rawhttp.CodeBadRequest, errors.New("Request body must be a JSON object"))
	}

	// numbers stay json.Number so they are stored and served exactly as sent
	var item store.Item
	dec := json.NewDecoder(strings.NewReader(r.JSON.Raw))
	dec.UseNumber()
	if err := dec.Decode(&item); err != nil {
		return nil, errors.Wrap(err, "decode item")
	}

	return item, nil
}

func notFoundOr(err error, id string) error {
	if errors.Is(err, store.ErrNotFound) {
		return rawhttp.NewError(rawhttp.CodeNotFound, errors.Newf("Item %s not found", id))
	}
	return errors.Wrapf(err, "item %s", id)
}

func writeJSON(w rawhttp.ResponseWriter, v any) error {
	w.SetContentType(rawhttp.ContentTypeJSON)
	return json.NewEncoder(w).Encode(v)
}
