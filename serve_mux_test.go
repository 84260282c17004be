package rawhttp_test

import (
	"context"
	"fmt"
	"testing"

	"github.com/advdv/rawhttp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type ctxKey string

func serveItem(ctx context.Context, w rawhttp.ResponseWriter, r *rawhttp.Request) error {
	fmt.Fprintf(w, `hello %v, %s`, ctx.Value(ctxKey("foo")), r.ID)
	return nil
}

func middleware1(next rawhttp.Handler) rawhttp.Handler {
	return rawhttp.HandlerFunc(func(ctx context.Context, w rawhttp.ResponseWriter, r *rawhttp.Request) error {
		return next.ServeRaw(context.WithValue(ctx, ctxKey("foo"), "bar"), w, r)
	})
}

func named(name string) rawhttp.HandlerFunc {
	return func(_ context.Context, w rawhttp.ResponseWriter, _ *rawhttp.Request) error {
		_, err := w.WriteString(name)
		return err
	}
}

func TestServeMux(t *testing.T) {
	mux := rawhttp.NewServeMux()
	mux.Use(middleware1)
	mux.HandleFunc("GET /data/{id}", serveItem, "get_item")

	loc, err := mux.Reverse("get_item", "foo")
	require.NoError(t, err)
	require.Equal(t, `/data/foo`, loc)

	h, id, ok := mux.Match(rawhttp.MethodGet, "/data/111")
	require.True(t, ok)
	require.Equal(t, "111", id)

	req := &rawhttp.Request{Method: rawhttp.MethodGet, Path: "/data/111", ID: id}
	resp := rawhttp.Respond(context.Background(), h, req, rawhttp.NewTestLogger(t))

	require.Equal(t, rawhttp.CodeOK, resp.Code)
	require.Equal(t, `hello bar, 111`, string(resp.Body))
}

func TestServeMuxMatch(t *testing.T) {
	mux := rawhttp.NewServeMux()
	mux.HandleFunc("GET /", named("root"))
	mux.HandleFunc("GET /data", named("list"))
	mux.HandleFunc("POST /data", named("create"))
	mux.HandleFunc("GET /data/{id}", named("get"))
	mux.HandleFunc("PUT /data/{id}", named("update"))
	mux.HandleFunc("GET /data/special", named("special"))

	for _, tt := range []struct {
		method  rawhttp.Method
		path    string
		want    string
		wantID  string
		matches bool
	}{
		{rawhttp.MethodGet, "/", "root", "", true},
		{rawhttp.MethodGet, "/data", "list", "", true},
		{rawhttp.MethodPost, "/data", "create", "", true},
		{rawhttp.MethodGet, "/data/7", "get", "7", true},
		{rawhttp.MethodPut, "/data/abc-123", "update", "abc-123", true},
		{rawhttp.MethodGet, "/data/special", "special", "", true},
		{rawhttp.MethodPut, "/data/special", "update", "special", true},
		{rawhttp.MethodDelete, "/data/7", "", "", false},
		{rawhttp.MethodPost, "/data/7", "", "", false},
		{rawhttp.MethodGet, "/data/", "", "", false},
		{rawhttp.MethodGet, "/data/7/extra", "", "", false},
		{rawhttp.MethodGet, "/other/7", "", "", false},
		{rawhttp.MethodGet, "/echo", "", "", false},
		{rawhttp.MethodGet, "data/7", "", "", false},
	} {
		t.Run(string(tt.method)+" "+tt.path, func(t *testing.T) {
			h, id, ok := mux.Match(tt.method, tt.path)
			require.Equal(t, tt.matches, ok)
			if !ok {
				assert.Nil(t, h)
				return
			}

			assert.Equal(t, tt.wantID, id)
			resp := rawhttp.Respond(context.Background(), h, &rawhttp.Request{}, rawhttp.NewTestLogger(t))
			assert.Equal(t, tt.want, string(resp.Body))
		})
	}
}

func TestServeMuxPanics(t *testing.T) {
	t.Run("use after handle", func(t *testing.T) {
		mux := rawhttp.NewServeMux()
		mux.HandleFunc("GET /", named("root"))

		assert.PanicsWithValue(t, "rawhttp: cannot call Use() after calling Handle", func() {
			mux.Use(middleware1)
		})
	})

	t.Run("duplicate route", func(t *testing.T) {
		mux := rawhttp.NewServeMux()
		mux.HandleFunc("GET /data/{id}", named("a"))

		assert.PanicsWithValue(t, `rawhttp: a handler for "GET /data/{key}" is already registered`, func() {
			mux.HandleFunc("GET /data/{key}", named("b"))
		})
	})

	t.Run("invalid pattern", func(t *testing.T) {
		mux := rawhttp.NewServeMux()
		assert.Panics(t, func() { mux.HandleFunc("/data", named("a")) })
	})
}
