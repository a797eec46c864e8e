package control

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"net"
	"sync"
	"time"

	"github.com/charmbracelet/log"
)

const maxLineBytes = 64 * 1024

// Server accepts control connections and answers one response per request line.
type Server struct {
	listener net.Listener
	handler  *Handler
	logger   *log.Logger

	mu     sync.Mutex
	conns  map[net.Conn]struct{}
	closed bool
	wg     sync.WaitGroup
}

// NewServer creates a server on an already bound listener.
func NewServer(listener net.Listener, handler *Handler, logger *log.Logger) *Server {
	if logger == nil {
		logger = log.Default()
	}
	return &Server{
		listener: listener,
		handler:  handler,
		logger:   logger,
		conns:    make(map[net.Conn]struct{}),
	}
}

// Serve accepts connections until ctx is cancelled or Close is called.
func (server *Server) Serve(ctx context.Context) error {
	stop := context.AfterFunc(ctx, func() { _ = server.Close() })
	defer stop()

	server.logger.Info("control socket listening", "addr", server.listener.Addr())
	var tempDelay time.Duration
	for {
		conn, err := server.listener.Accept()
		if err != nil {
			if server.isClosed() || errors.Is(err, net.ErrClosed) {
				server.wg.Wait()
				return nil
			}
			var netErr net.Error
			if errors.As(err, &netErr) && netErr.Timeout() {
				tempDelay = min(max(2*tempDelay, 5*time.Millisecond), time.Second)
				time.Sleep(tempDelay)
				continue
			}
			return err
		}
		tempDelay = 0

		if !server.track(conn) {
			_ = conn.Close()
			continue
		}
		server.wg.Add(1)
		go func() {
			defer server.wg.Done()
			defer server.untrack(conn)
			server.ServeConn(ctx, conn)
		}()
	}
}

// ServeConn answers requests on conn until the peer closes it.
func (server *Server) ServeConn(ctx context.Context, conn net.Conn) {
	defer conn.Close() //nolint

	scanner := bufio.NewScanner(conn)
	scanner.Buffer(make([]byte, 0, 4096), maxLineBytes)
	encoder := json.NewEncoder(conn)

	for scanner.Scan() {
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}
		if err := encoder.Encode(server.handler.HandleLine(ctx, line)); err != nil {
			server.logger.Debug("control write failed", "err", err)
			return
		}
	}
	if err := scanner.Err(); err != nil && !errors.Is(err, net.ErrClosed) {
		server.logger.Debug("control read failed", "err", err)
	}
}

// Close stops accepting and closes every open connection.
func (server *Server) Close() error {
	server.mu.Lock()
	if server.closed {
		server.mu.Unlock()
		return nil
	}
	server.closed = true
	conns := make([]net.Conn, 0, len(server.conns))
	for conn := range server.conns {
		conns = append(conns, conn)
	}
	server.mu.Unlock()

	err := server.listener.Close()
	for _, conn := range conns {
		_ = conn.Close()
	}
	if errors.Is(err, net.ErrClosed) {
		return nil
	}
	return err
}

func (server *Server) isClosed() bool {
	server.mu.Lock()
	defer server.mu.Unlock()
	return server.closed
}

func (server *Server) track(conn net.Conn) bool {
	server.mu.Lock()
	defer server.mu.Unlock()
	if server.closed {
		return false
	}
	server.conns[conn] = struct{}{}
	return true
}

func (server *Server) untrack(conn net.Conn) {
	server.mu.Lock()
	delete(server.conns, conn)
	server.mu.Unlock()
}
