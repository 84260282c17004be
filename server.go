package rawhttp

import (
	"context"
	"net"
	"sync"
	"sync/atomic"
	"time"

	"github.com/cockroachdb/errors"
	"golang.org/x/net/netutil"
)

// DefaultBacklog is the listen backlog used when Server.Backlog is zero.
const DefaultBacklog = 5

// ErrServerClosed is returned by Serve after Shutdown was called.
var ErrServerClosed = errors.New("rawhttp: server closed")

// Server accepts connections and serves exactly one request on each, in its own goroutine.
type Server struct {
	Addr   string
	Router Router
	Logs   Logger
	Name   string // Server header token, DefaultServerName when empty

	ReadTimeout    time.Duration
	WriteTimeout   time.Duration
	MaxHeaderBytes int
	MaxBodyBytes   int
	MaxConns       int // 0 means unlimited
	Backlog        int

	// ConnContext optionally derives the context for a new connection.
	ConnContext func(ctx context.Context, c net.Conn) context.Context

	// Now stamps the Date header, time.Now when nil.
	Now func() time.Time

	mu         sync.Mutex
	listener   net.Listener
	inShutdown atomic.Bool
	conns      sync.WaitGroup
}

// Listen binds s.Addr with address reuse enabled and the configured backlog.
func (s *Server) Listen() (net.Listener, error) {
	backlog := s.Backlog
	if backlog <= 0 {
		backlog = DefaultBacklog
	}

	ln, err := listenTCP(s.Addr, backlog)
	if err != nil {
		return nil, errors.Wrapf(err, "listen on %q", s.Addr)
	}

	return ln, nil
}

// ListenAndServe binds s.Addr and serves until Shutdown.
func (s *Server) ListenAndServe(ctx context.Context) error {
	ln, err := s.Listen()
	if err != nil {
		return err
	}

	return s.Serve(ctx, ln)
}

// Serve accepts connections on ln until Shutdown is called. Failures on individual
// connections never stop the loop.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	if s.MaxConns > 0 {
		ln = netutil.LimitListener(ln, s.MaxConns)
	}

	if err := s.trackListener(ln); err != nil {
		return err
	}

	var delay time.Duration
	for {
		rwc, err := ln.Accept()
		if err != nil {
			if s.inShutdown.Load() || errors.Is(err, net.ErrClosed) {
				return ErrServerClosed
			}

			delay = min(max(2*delay, 5*time.Millisecond), time.Second)
			s.logs().LogAcceptError(errors.Wrapf(err, "retrying in %v", delay))
			time.Sleep(delay)
			continue
		}
		delay = 0

		s.conns.Add(1)
		go func() {
			defer s.conns.Done()
			s.ServeConn(s.connContext(ctx, rwc), rwc)
		}()
	}
}

// ServeConn reads one request from c, answers it and closes c.
func (s *Server) ServeConn(ctx context.Context, c net.Conn) {
	(&conn{srv: s, rwc: c, state: stateReading}).serve(ctx)
}

// ListenerAddr is the address of the listener passed to Serve, nil before that.
func (s *Server) ListenerAddr() net.Addr {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.listener == nil {
		return nil
	}
	return s.listener.Addr()
}

// Shutdown stops accepting connections and waits until in-flight connections are done or
// ctx expires.
func (s *Server) Shutdown(ctx context.Context) error {
	s.inShutdown.Store(true)

	s.mu.Lock()
	var err error
	if s.listener != nil {
		err = s.listener.Close()
	}
	s.mu.Unlock()

	done := make(chan struct{})
	go func() {
		s.conns.Wait()
		close(done)
	}()

	select {
	case <-done:
	case <-ctx.Done():
		return errors.Wrap(ctx.Err(), "wait for connections")
	}

	if err != nil && !errors.Is(err, net.ErrClosed) {
		return errors.Wrap(err, "close listener")
	}
	return nil
}

func (s *Server) trackListener(ln net.Listener) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.inShutdown.Load() {
		_ = ln.Close()
		return ErrServerClosed
	}

	s.listener = ln
	return nil
}

func (s *Server) connContext(ctx context.Context, c net.Conn) context.Context {
	if s.ConnContext == nil {
		return ctx
	}
	return s.ConnContext(ctx, c)
}

func (s *Server) logs() Logger {
	if s.Logs == nil {
		return NewStdLogger(nil)
	}
	return s.Logs
}

func (s *Server) now() time.Time {
	if s.Now == nil {
		return time.Now()
	}
	return s.Now()
}
