// Package rawhttp implements a minimal HTTP/1.1 server directly on top of a stream socket.
//
// # Overview
//
// rawhttp serves exactly one request per connection. A connection moves through a fixed
// sequence of steps and is always closed at the end:
//
//	reading → parsing → routing → handling → responding → closing
//
// Each step is exposed on its own so it can be tested without a socket:
//
//   - [ReadFrame] reads until the header terminator and then as many body bytes as
//     Content-Length declares (a peer that hangs up early yields a shorter body)
//   - [ParseFrame] and [ParseRequest] turn the bytes into a [Request] or a [*ParseError]
//   - [ServeMux.Match] finds the handler, extracting the id of parametric routes
//   - [Response.Bytes] writes a self-consistent HTTP/1.1 response
//   - [Server.ServeConn] runs the whole sequence on one connection
//
// A minimal example:
//
//	mux := rawhttp.NewServeMux()
//	mux.HandleFunc("GET /data/{id}", func(ctx context.Context, w rawhttp.ResponseWriter, r *rawhttp.Request) error {
//	    item, err := db.Get(ctx, r.ID)
//	    if err != nil {
//	        return rawhttp.NewError(rawhttp.CodeNotFound, err)
//	    }
//	    w.SetContentType(rawhttp.ContentTypeJSON)
//	    return json.NewEncoder(w).Encode(item)
//	}, "get-item")
//
//	srv := &rawhttp.Server{Addr: "127.0.0.1:8080", Router: mux}
//	err := srv.ListenAndServe(ctx)
//
// # Framing
//
// The header block is parsed once, by the framer. The resulting [Header] travels with the
// [Frame] into the parser, so the Content-Length used to size the body is always the one the
// parser sees. Only Content-Length delimited bodies are supported; there is no chunked
// transfer-encoding and no keep-alive.
//
// # Routing
//
// Routing is deliberately small. A pattern is either exact ("GET /data") or has a single
// placeholder as the second of two segments ("PUT /data/{id}"). Exact routes win. A
// parametric match stores the second path segment in [Request.ID].
//
// Routes can be named for URL generation:
//
//	mux.HandleFunc("GET /data/{id}", getItem, "get-item")
//	loc, err := mux.Reverse("get-item", "42") // "/data/42"
//
// # Errors
//
// Handlers write into a buffered [ResponseWriter] and return an error. When the error is or
// wraps an [*Error] its code and message become the response; any other error, and any
// panic, is reported to the [Logger] and answered with a 500 page:
//
//	return rawhttp.NewError(rawhttp.CodeBadRequest, errors.New("Missing 'message' query parameter"))
//
// Requests that cannot be parsed get a 400 and requests without a route a 404, before any
// handler runs. Status codes outside the closed table (200, 201, 400, 404, 500) keep their
// number but are rendered with the "Internal Server Error" reason phrase.
//
// # Middleware
//
// Middleware wraps handlers and must be registered with [ServeMux.Use] before the first
// call to [ServeMux.Handle]:
//
//	mux := rawhttp.NewServeMux()
//	mux.Use(accessLog)
//	mux.HandleFunc("GET /", root)
package rawhttp
