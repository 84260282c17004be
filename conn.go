package rawhttp

import (
	"context"
	"net"
	"time"

	"github.com/cockroachdb/errors"
)

// connState is a step of serving one connection. Every path ends in stateClosing.
type connState int

const (
	stateReading connState = iota
	stateParsing
	stateRouting
	stateHandling
	stateResponding
	stateClosing
)

func (s connState) String() string {
	switch s {
	case stateReading:
		return "reading"
	case stateParsing:
		return "parsing"
	case stateRouting:
		return "routing"
	case stateHandling:
		return "handling"
	case stateResponding:
		return "responding"
	default:
		return "closing"
	}
}

// conn carries one connection through its states.
type conn struct {
	srv   *Server
	rwc   net.Conn
	state connState

	frame   *Frame
	req     *Request
	handler Handler
	resp    Response
}

func (c *conn) serve(ctx context.Context) {
	defer func() {
		c.state = stateClosing
		_ = c.rwc.Close()
	}()

	defer func() {
		if v := recover(); v != nil {
			c.srv.logs().LogUnhandledServeError(
				errors.Newf("rawhttp: panic while %s: %v", c.state, v))
		}
	}()

	for c.state != stateClosing {
		c.state = c.step(ctx)
	}
}

func (c *conn) step(ctx context.Context) connState {
	switch c.state {
	case stateReading:
		return c.read()
	case stateParsing:
		return c.parse()
	case stateRouting:
		return c.route()
	case stateHandling:
		c.resp = Respond(ctx, c.handler, c.req, c.srv.logs())
		return stateResponding
	case stateResponding:
		c.write()
		return stateClosing
	default:
		return stateClosing
	}
}

func (c *conn) read() connState {
	if d := c.srv.ReadTimeout; d > 0 {
		_ = c.rwc.SetReadDeadline(time.Now().Add(d))
	}

	frame, err := ReadFrame(c.rwc, FrameLimits{
		MaxHeaderBytes: c.srv.MaxHeaderBytes,
		MaxBodyBytes:   c.srv.MaxBodyBytes,
	})

	switch {
	case errors.Is(err, ErrNoRequest):
		return stateClosing
	case IsMalformed(err):
		c.reject(CodeBadRequest, err)
		return stateResponding
	case err != nil:
		c.srv.logs().LogReadError(err)
		return stateClosing
	}

	c.frame = frame
	return stateParsing
}

func (c *conn) parse() connState {
	req, err := ParseFrame(c.frame)
	if err != nil {
		c.reject(CodeBadRequest, err)
		return stateResponding
	}

	req.RemoteAddr = c.rwc.RemoteAddr().String()
	c.req = req
	return stateRouting
}

func (c *conn) route() connState {
	h, id, ok := c.srv.Router.Match(c.req.Method, c.req.Path)
	if !ok {
		c.reject(CodeNotFound, errors.Newf("no route for %s %s", c.req.Method, c.req.Path))
		return stateResponding
	}

	c.req.ID, c.handler = id, h
	return stateHandling
}

func (c *conn) write() {
	if d := c.srv.WriteTimeout; d > 0 {
		_ = c.rwc.SetWriteDeadline(time.Now().Add(d))
	}

	if _, err := c.rwc.Write(c.resp.Bytes(c.srv.now(), c.srv.Name)); err != nil {
		c.srv.logs().LogWriteError(errors.Wrap(err, "write response"))
	}
}

// reject answers the request without running a handler.
func (c *conn) reject(code Code, err error) {
	c.srv.logs().LogRejected(code, err)

	if code == CodeNotFound {
		c.resp = HTMLResponse(CodeNotFound, "No route for "+string(c.req.Method)+" "+c.req.Path+".")
		return
	}
	c.resp = badRequest(err)
}

// badRequest renders a malformed request as a plain text 400. Only the reason is shown.
func badRequest(err error) Response {
	msg := "Malformed request"

	var perr *ParseError
	switch {
	case errors.As(err, &perr):
		msg = perr.Reason.String()
	case errors.Is(err, ErrHeaderTooLarge):
		msg = "Request header too large"
	case errors.Is(err, ErrBodyTooLarge):
		msg = "Request body too large"
	}

	return TextResponse(CodeBadRequest, CodeBadRequest.ReasonPhrase()+": "+msg)
}
