package rpc

import (
	"context"
	"fmt"

	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"
	"google.golang.org/protobuf/types/known/wrapperspb"

	"github.com/danielpatrickdp/alien-probe/internal/progression"
	"github.com/danielpatrickdp/alien-probe/internal/state"
)

// #region client-struct
// Client wraps the gRPC connection to a probe server.
type Client struct {
	conn   *grpc.ClientConn
	client ProgressionClient
}

// #endregion client-struct

// #region constructor
// NewClient connects to a probe gRPC server.
func NewClient(addr string, opts ...grpc.DialOption) (*Client, error) {
	opts = append([]grpc.DialOption{grpc.WithTransportCredentials(insecure.NewCredentials())}, opts...)
	conn, err := grpc.NewClient(addr, opts...)
	if err != nil {
		return nil, fmt.Errorf("grpc dial %s: %w", addr, err)
	}
	return &Client{
		conn:   conn,
		client: NewProgressionClient(conn),
	}, nil
}

// NewClientWithService creates a Client with an injected service implementation.
// Used for testing without a real gRPC connection.
func NewClientWithService(svc ProgressionClient) *Client {
	return &Client{client: svc}
}

// #endregion constructor

// #region close
// Close shuts down the gRPC connection.
func (c *Client) Close() error {
	if c.conn == nil {
		return nil
	}
	return c.conn.Close()
}

// #endregion close

// #region calls
// ReportOutcome submits an answer result and returns the session afterwards.
func (c *Client) ReportOutcome(ctx context.Context, correct bool) (progression.Snapshot, error) {
	resp, err := c.client.ReportOutcome(ctx, wrapperspb.Bool(correct))
	if err != nil {
		return progression.Snapshot{}, fmt.Errorf("report outcome rpc: %w", err)
	}
	return SnapshotFromStruct(resp)
}

// Progress fetches the current session snapshot.
func (c *Client) Progress(ctx context.Context) (progression.Snapshot, error) {
	resp, err := c.client.GetProgress(ctx, &emptypb.Empty{})
	if err != nil {
		return progression.Snapshot{}, fmt.Errorf("get progress rpc: %w", err)
	}
	return SnapshotFromStruct(resp)
}

// Reset returns the session to level 0 with default meters.
func (c *Client) Reset(ctx context.Context) (progression.Snapshot, error) {
	resp, err := c.client.ResetProgress(ctx, &emptypb.Empty{})
	if err != nil {
		return progression.Snapshot{}, fmt.Errorf("reset progress rpc: %w", err)
	}
	return SnapshotFromStruct(resp)
}

// AdjustMeter nudges one meter on the server.
func (c *Client) AdjustMeter(ctx context.Context, m state.Meter, delta float32) (progression.Snapshot, error) {
	req, err := structpb.NewStruct(map[string]interface{}{
		"meter": m.String(),
		"delta": float64(delta),
	})
	if err != nil {
		return progression.Snapshot{}, fmt.Errorf("adjust meter request: %w", err)
	}
	resp, err := c.client.AdjustMeter(ctx, req)
	if err != nil {
		return progression.Snapshot{}, fmt.Errorf("adjust meter rpc: %w", err)
	}
	return SnapshotFromStruct(resp)
}

// #endregion calls
