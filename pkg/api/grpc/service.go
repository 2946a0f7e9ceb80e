package grpcapi

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"
)

// RegisterCalculatorServer registers srv on gs.
func RegisterCalculatorServer(gs grpc.ServiceRegistrar, srv CalculatorServer) {
	gs.RegisterService(&calculatorServiceDesc, srv)
}

var calculatorServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*CalculatorServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "Evaluate", Handler: evaluateHandler},
		{MethodName: "GetEvaluation", Handler: getEvaluationHandler},
		{MethodName: "ListEvaluations", Handler: listEvaluationsHandler},
		{MethodName: "DeleteEvaluation", Handler: deleteEvaluationHandler},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "calc/v1/calculator.proto",
}

func fullMethod(name string) string {
	return "/" + ServiceName + "/" + name
}

func evaluateHandler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	in := new(structpb.Struct)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(CalculatorServer).Evaluate(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: fullMethod("Evaluate")}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(CalculatorServer).Evaluate(ctx, req.(*structpb.Struct))
	}
	return interceptor(ctx, in, info, handler)
}

func getEvaluationHandler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	in := new(structpb.Struct)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(CalculatorServer).GetEvaluation(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: fullMethod("GetEvaluation")}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(CalculatorServer).GetEvaluation(ctx, req.(*structpb.Struct))
	}
	return interceptor(ctx, in, info, handler)
}

func listEvaluationsHandler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	in := new(emptypb.Empty)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(CalculatorServer).ListEvaluations(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: fullMethod("ListEvaluations")}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(CalculatorServer).ListEvaluations(ctx, req.(*emptypb.Empty))
	}
	return interceptor(ctx, in, info, handler)
}

func deleteEvaluationHandler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	in := new(structpb.Struct)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(CalculatorServer).DeleteEvaluation(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: fullMethod("DeleteEvaluation")}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(CalculatorServer).DeleteEvaluation(ctx, req.(*structpb.Struct))
	}
	return interceptor(ctx, in, info, handler)
}

// Client calls the Calculator service.
type Client struct {
	cc grpc.ClientConnInterface
}

// NewClient creates a client using cc.
func NewClient(cc grpc.ClientConnInterface) *Client {
	return &Client{cc: cc}
}

// Evaluate evaluates expression on the server.
func (c *Client) Evaluate(ctx context.Context, expression string, float bool, opts ...grpc.CallOption) (*structpb.Struct, error) {
	in, err := structpb.NewStruct(map[string]interface{}{
		"expression": expression,
		"float":      float,
	})
	if err != nil {
		return nil, err
	}
	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, fullMethod("Evaluate"), in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

// GetEvaluation fetches one evaluation by ID.
func (c *Client) GetEvaluation(ctx context.Context, id string, opts ...grpc.CallOption) (*structpb.Struct, error) {
	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, fullMethod("GetEvaluation"), idRequest(id), out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

// ListEvaluations fetches the evaluation history.
func (c *Client) ListEvaluations(ctx context.Context, opts ...grpc.CallOption) (*structpb.Struct, error) {
	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, fullMethod("ListEvaluations"), &emptypb.Empty{}, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

// DeleteEvaluation removes one evaluation by ID.
func (c *Client) DeleteEvaluation(ctx context.Context, id string, opts ...grpc.CallOption) error {
	return c.cc.Invoke(ctx, fullMethod("DeleteEvaluation"), idRequest(id), new(emptypb.Empty), opts...)
}

func idRequest(id string) *structpb.Struct {
	return &structpb.Struct{Fields: map[string]*structpb.Value{
		"id": structpb.NewStringValue(id),
	}}
}
