package control

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"net"
	"time"
)

// Client talks to a running instance.
type Client struct {
	conn    net.Conn
	reader  *bufio.Reader
	encoder *json.Encoder
}

// Dial connects to the control socket at address.
func Dial(ctx context.Context, address string) (*Client, error) {
	var dialer net.Dialer
	conn, err := dialer.DialContext(ctx, "tcp", address)
	if err != nil {
		return nil, fmt.Errorf("connect to %s: %w", address, err)
	}
	return NewClient(conn), nil
}

// NewClient wraps an open connection.
func NewClient(conn net.Conn) *Client {
	return &Client{conn: conn, reader: bufio.NewReader(conn), encoder: json.NewEncoder(conn)}
}

// Do sends request and waits for its response. The context deadline, if
// any, bounds the whole exchange.
func (client *Client) Do(ctx context.Context, request Request) (Response, error) {
	deadline, ok := ctx.Deadline()
	if !ok {
		deadline = time.Time{}
	}
	if err := client.conn.SetDeadline(deadline); err != nil {
		return Response{}, fmt.Errorf("set deadline: %w", err)
	}

	if err := client.encoder.Encode(request); err != nil {
		return Response{}, fmt.Errorf("send %s: %w", request.Action, err)
	}
	line, err := client.reader.ReadBytes('\n')
	if err != nil {
		return Response{}, fmt.Errorf("read %s response: %w", request.Action, err)
	}

	var response Response
	if err := json.Unmarshal(line, &response); err != nil {
		return Response{}, fmt.Errorf("decode %s response: %w", request.Action, err)
	}
	return response, nil
}

// Close closes the connection.
func (client *Client) Close() error {
	return client.conn.Close()
}
