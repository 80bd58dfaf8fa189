// Package rpc exposes a progression session over gRPC. Messages are protobuf
// well-known types, so the service descriptor is declared by hand.
package rpc

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"
	"google.golang.org/protobuf/types/known/wrapperspb"
)

// ServiceName is the fully qualified gRPC service name.
const ServiceName = "alienprobe.v1.Progression"

const (
	methodReportOutcome = "/" + ServiceName + "/ReportOutcome"
	methodGetProgress   = "/" + ServiceName + "/GetProgress"
	methodResetProgress = "/" + ServiceName + "/ResetProgress"
	methodAdjustMeter   = "/" + ServiceName + "/AdjustMeter"
)

// #region interfaces
// ProgressionServer is the server API for the Progression service.
type ProgressionServer interface {
	ReportOutcome(context.Context, *wrapperspb.BoolValue) (*structpb.Struct, error)
	GetProgress(context.Context, *emptypb.Empty) (*structpb.Struct, error)
	ResetProgress(context.Context, *emptypb.Empty) (*structpb.Struct, error)
	AdjustMeter(context.Context, *structpb.Struct) (*structpb.Struct, error)
}

// ProgressionClient is the client API for the Progression service.
type ProgressionClient interface {
	ReportOutcome(ctx context.Context, in *wrapperspb.BoolValue, opts ...grpc.CallOption) (*structpb.Struct, error)
	GetProgress(ctx context.Context, in *emptypb.Empty, opts ...grpc.CallOption) (*structpb.Struct, error)
	ResetProgress(ctx context.Context, in *emptypb.Empty, opts ...grpc.CallOption) (*structpb.Struct, error)
	AdjustMeter(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error)
}

// #endregion interfaces

// #region client-stub
type progressionClient struct {
	cc grpc.ClientConnInterface
}

// NewProgressionClient wraps a connection in the service stub.
func NewProgressionClient(cc grpc.ClientConnInterface) ProgressionClient {
	return &progressionClient{cc: cc}
}

func (c *progressionClient) ReportOutcome(ctx context.Context, in *wrapperspb.BoolValue, opts ...grpc.CallOption) (*structpb.Struct, error) {
	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, methodReportOutcome, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *progressionClient) GetProgress(ctx context.Context, in *emptypb.Empty, opts ...grpc.CallOption) (*structpb.Struct, error) {
	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, methodGetProgress, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *progressionClient) ResetProgress(ctx context.Context, in *emptypb.Empty, opts ...grpc.CallOption) (*structpb.Struct, error) {
	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, methodResetProgress, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *progressionClient) AdjustMeter(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, methodAdjustMeter, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

// #endregion client-stub

// #region service-desc
// RegisterProgressionServer attaches srv to a gRPC server.
func RegisterProgressionServer(s grpc.ServiceRegistrar, srv ProgressionServer) {
	s.RegisterService(&progressionServiceDesc, srv)
}

var progressionServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*ProgressionServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "ReportOutcome", Handler: reportOutcomeHandler},
		{MethodName: "GetProgress", Handler: getProgressHandler},
		{MethodName: "ResetProgress", Handler: resetProgressHandler},
		{MethodName: "AdjustMeter", Handler: adjustMeterHandler},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "alienprobe/v1/progression.proto",
}

func reportOutcomeHandler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	in := new(wrapperspb.BoolValue)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(ProgressionServer).ReportOutcome(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: methodReportOutcome}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(ProgressionServer).ReportOutcome(ctx, req.(*wrapperspb.BoolValue))
	}
	return interceptor(ctx, in, info, handler)
}

func getProgressHandler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	in := new(emptypb.Empty)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(ProgressionServer).GetProgress(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: methodGetProgress}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(ProgressionServer).GetProgress(ctx, req.(*emptypb.Empty))
	}
	return interceptor(ctx, in, info, handler)
}

func resetProgressHandler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	in := new(emptypb.Empty)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(ProgressionServer).ResetProgress(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: methodResetProgress}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(ProgressionServer).ResetProgress(ctx, req.(*emptypb.Empty))
	}
	return interceptor(ctx, in, info, handler)
}

func adjustMeterHandler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	in := new(structpb.Struct)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(ProgressionServer).AdjustMeter(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: methodAdjustMeter}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(ProgressionServer).AdjustMeter(ctx, req.(*structpb.Struct))
	}
	return interceptor(ctx, in, info, handler)
}

// #endregion service-desc
