package rpc

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"math"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"
	"google.golang.org/protobuf/types/known/wrapperspb"

	"github.com/danielpatrickdp/alien-probe/internal/progression"
	"github.com/danielpatrickdp/alien-probe/internal/state"
)

// Session is the slice of the controller the service drives.
type Session interface {
	ReportOutcome(correct bool) error
	ResetProgress()
	AdjustMeter(m state.Meter, delta float32) error
	Snapshot() progression.Snapshot
}

// #region server
// Server implements ProgressionServer over a Session.
type Server struct {
	session Session
	log     *slog.Logger
}

// NewServer wraps session. log may be nil.
func NewServer(session Session, log *slog.Logger) *Server {
	if log == nil {
		log = slog.Default()
	}
	return &Server{session: session, log: log}
}

func (s *Server) ReportOutcome(ctx context.Context, in *wrapperspb.BoolValue) (*structpb.Struct, error) {
	if err := s.session.ReportOutcome(in.GetValue()); err != nil {
		if errors.Is(err, progression.ErrInvalidState) {
			return nil, status.Error(codes.FailedPrecondition, err.Error())
		}
		return nil, status.Error(codes.Internal, err.Error())
	}
	return s.snapshot()
}

func (s *Server) GetProgress(ctx context.Context, _ *emptypb.Empty) (*structpb.Struct, error) {
	return s.snapshot()
}

func (s *Server) ResetProgress(ctx context.Context, _ *emptypb.Empty) (*structpb.Struct, error) {
	s.session.ResetProgress()
	s.log.Info("progress reset over grpc")
	return s.snapshot()
}

// AdjustMeter expects {"meter": name, "delta": number}.
func (s *Server) AdjustMeter(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	fields := in.GetFields()
	name := fields["meter"].GetStringValue()
	m, err := state.ParseMeter(name)
	if err != nil {
		return nil, status.Error(codes.InvalidArgument, err.Error())
	}
	dv, ok := fields["delta"]
	if !ok {
		return nil, status.Error(codes.InvalidArgument, "delta is required")
	}
	d := dv.GetNumberValue()
	if math.IsNaN(d) || math.IsInf(d, 0) || math.Abs(d) > math.MaxFloat32 {
		return nil, status.Errorf(codes.InvalidArgument, "delta %v is not a finite float32", d)
	}
	if err := s.session.AdjustMeter(m, float32(d)); err != nil {
		return nil, status.Error(codes.InvalidArgument, err.Error())
	}
	return s.snapshot()
}

func (s *Server) snapshot() (*structpb.Struct, error) {
	out, err := SnapshotToStruct(s.session.Snapshot())
	if err != nil {
		return nil, status.Error(codes.Internal, err.Error())
	}
	return out, nil
}

// #endregion server

// #region convert
// SnapshotToStruct encodes a snapshot with its JSON field names.
func SnapshotToStruct(snap progression.Snapshot) (*structpb.Struct, error) {
	b, err := json.Marshal(snap)
	if err != nil {
		return nil, fmt.Errorf("marshal snapshot: %w", err)
	}
	out := &structpb.Struct{}
	if err := protojson.Unmarshal(b, out); err != nil {
		return nil, fmt.Errorf("snapshot to struct: %w", err)
	}
	return out, nil
}

// SnapshotFromStruct decodes a snapshot produced by SnapshotToStruct.
func SnapshotFromStruct(in *structpb.Struct) (progression.Snapshot, error) {
	var snap progression.Snapshot
	b, err := protojson.Marshal(in)
	if err != nil {
		return snap, fmt.Errorf("struct to json: %w", err)
	}
	if err := json.Unmarshal(b, &snap); err != nil {
		return snap, fmt.Errorf("unmarshal snapshot: %w", err)
	}
	return snap, nil
}

// #endregion convert
