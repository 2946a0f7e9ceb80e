// Package grpcapi implements the calc.v1.Calculator gRPC service. Messages
// are protobuf well-known types (Struct and Empty), so clients need no
// generated code beyond what google.golang.org/protobuf ships.
package grpcapi

import (
	"context"
	"errors"
	"fmt"
	"net"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/lemonberrylabs/calc/pkg/calc"
	"github.com/lemonberrylabs/calc/pkg/store"
)

// ServiceName is the fully qualified gRPC service name.
const ServiceName = "calc.v1.Calculator"

// CalculatorServer is the server API for the Calculator service.
type CalculatorServer interface {
	Evaluate(context.Context, *structpb.Struct) (*structpb.Struct, error)
	GetEvaluation(context.Context, *structpb.Struct) (*structpb.Struct, error)
	ListEvaluations(context.Context, *emptypb.Empty) (*structpb.Struct, error)
	DeleteEvaluation(context.Context, *structpb.Struct) (*emptypb.Empty, error)
}

// Server implements CalculatorServer on top of an evaluation store.
type Server struct {
	store    *store.Store
	maxDepth int
	grpc     *grpc.Server
}

// New creates a new gRPC server wrapping the given store. maxDepth limits
// parenthesis nesting; zero means calc.DefaultMaxDepth.
func New(s *store.Store, maxDepth int) *Server {
	srv := &Server{
		store:    s,
		maxDepth: maxDepth,
	}

	gs := grpc.NewServer()
	RegisterCalculatorServer(gs, srv)
	srv.grpc = gs

	return srv
}

// Serve starts listening on the given address and serves gRPC requests.
func (s *Server) Serve(addr string) error {
	lis, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("grpc listen: %w", err)
	}
	return s.grpc.Serve(lis)
}

// GracefulStop gracefully stops the gRPC server.
func (s *Server) GracefulStop() {
	s.grpc.GracefulStop()
}

// Evaluate evaluates req.expression (string) in the mode selected by
// req.float (bool). Evaluation failures are recorded and returned as
// InvalidArgument with the evaluation ID in the message.
func (s *Server) Evaluate(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	fields := req.GetFields()
	exprVal, ok := fields["expression"]
	if !ok {
		return nil, status.Error(codes.InvalidArgument, "expression is required")
	}
	if _, isStr := exprVal.GetKind().(*structpb.Value_StringValue); !isStr {
		return nil, status.Error(codes.InvalidArgument, "expression must be a string")
	}

	if floatVal, ok := fields["float"]; ok {
		if _, isBool := floatVal.GetKind().(*structpb.Value_BoolValue); !isBool {
			return nil, status.Error(codes.InvalidArgument, "float must be a bool")
		}
	}

	opts := calc.Options{
		Float:    fields["float"].GetBoolValue(),
		MaxDepth: s.maxDepth,
	}
	ev := s.store.Evaluate(exprVal.GetStringValue(), opts)
	if ev.State == store.EvaluationFailed {
		return nil, status.Errorf(codes.InvalidArgument, "%s: %s (evaluation %s)",
			ev.Error.Kind, ev.Error.Message, ev.ID)
	}
	return evaluationToProto(ev)
}

// GetEvaluation returns the evaluation named by req.id.
func (s *Server) GetEvaluation(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	ev, err := s.store.Get(req.GetFields()["id"].GetStringValue())
	if err != nil {
		return nil, storeError(err)
	}
	return evaluationToProto(ev)
}

// ListEvaluations returns {"evaluations": [...]}, newest first.
func (s *Server) ListEvaluations(ctx context.Context, _ *emptypb.Empty) (*structpb.Struct, error) {
	evaluations := s.store.List()

	items := make([]interface{}, len(evaluations))
	for i, ev := range evaluations {
		items[i] = evaluationToMap(ev)
	}
	return structpb.NewStruct(map[string]interface{}{"evaluations": items})
}

// DeleteEvaluation removes the evaluation named by req.id.
func (s *Server) DeleteEvaluation(ctx context.Context, req *structpb.Struct) (*emptypb.Empty, error) {
	if err := s.store.Delete(req.GetFields()["id"].GetStringValue()); err != nil {
		return nil, storeError(err)
	}
	return &emptypb.Empty{}, nil
}

// --- Helpers ---

func storeError(err error) error {
	if errors.Is(err, store.ErrNotFound) {
		return status.Error(codes.NotFound, err.Error())
	}
	return status.Error(codes.Internal, err.Error())
}

func evaluationToMap(ev *store.Evaluation) map[string]interface{} {
	m := map[string]interface{}{
		"id":         ev.ID,
		"expression": ev.Expression,
		"mode":       ev.Mode,
		"state":      string(ev.State),
		"createTime": ev.CreateTime.Format(time.RFC3339),
	}
	if ev.State == store.EvaluationSucceeded {
		m["result"] = ev.Result
		m["value"] = ev.Value
	}
	if ev.Error != nil {
		m["error"] = map[string]interface{}{
			"kind":    ev.Error.Kind,
			"message": ev.Error.Message,
		}
	}
	return m
}

func evaluationToProto(ev *store.Evaluation) (*structpb.Struct, error) {
	st, err := structpb.NewStruct(evaluationToMap(ev))
	if err != nil {
		return nil, status.Errorf(codes.Internal, "encoding evaluation: %v", err)
	}
	return st, nil
}
