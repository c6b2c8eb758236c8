// Package rpc exposes usecases over gRPC without generated stubs. Requests
// and responses are google.protobuf.Struct messages whose fields carry the
// JSON names of the DTOs.
package rpc

import (
	"context"
	"encoding/json"

	"github.com/fekuna/omnipos-sales-service/internal/apperror"
	"google.golang.org/grpc"
	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/types/known/structpb"
)

type UnaryFunc func(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error)

// Decode copies the request fields into dst using dst's json tags.
func Decode(req *structpb.Struct, dst interface{}) error {
	if req == nil {
		return nil
	}
	data, err := protojson.Marshal(req)
	if err != nil {
		return apperror.Wrap(apperror.KindInvalidInput, err, "malformed request")
	}
	if err := json.Unmarshal(data, dst); err != nil {
		return apperror.Wrap(apperror.KindInvalidInput, err, "malformed request")
	}
	return nil
}

// Encode converts v into a Struct through its JSON form. v must marshal to
// a JSON object.
func Encode(v interface{}) (*structpb.Struct, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	out := &structpb.Struct{}
	if err := protojson.Unmarshal(data, out); err != nil {
		return nil, err
	}
	return out, nil
}

// Method builds the descriptor of a unary method, routing the call through
// the server's interceptor chain.
func Method(service, name string, call UnaryFunc) grpc.MethodDesc {
	info := &grpc.UnaryServerInfo{FullMethod: "/" + service + "/" + name}
	return grpc.MethodDesc{
		MethodName: name,
		Handler: func(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
			in := new(structpb.Struct)
			if err := dec(in); err != nil {
				return nil, err
			}
			if interceptor == nil {
				return call(ctx, in)
			}
			info := *info
			info.Server = srv
			handler := func(ctx context.Context, req interface{}) (interface{}, error) {
				return call(ctx, req.(*structpb.Struct))
			}
			return interceptor(ctx, in, &info, handler)
		},
	}
}

// Service assembles a service descriptor. handlerType is a pointer to the
// interface the registered implementation must satisfy.
func Service(name string, handlerType interface{}, methods ...grpc.MethodDesc) *grpc.ServiceDesc {
	return &grpc.ServiceDesc{
		ServiceName: name,
		HandlerType: handlerType,
		Methods:     methods,
		Streams:     []grpc.StreamDesc{},
	}
}
