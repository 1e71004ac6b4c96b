package server

import (
	"context"

	"google.golang.org/grpc"

	svcErr "github.com/oggyb/muzz-dating/internal/errors"
)

// Unary builds a grpc.MethodDesc for a JSON-encoded unary method.
//
// call receives the registered service implementation; domain errors it
// returns are mapped to gRPC status codes via errors.Map.
func Unary[S any, Req any, Resp any](service, method string, call func(S, context.Context, *Req) (Resp, error)) grpc.MethodDesc {
	fullMethod := "/" + service + "/" + method

	return grpc.MethodDesc{
		MethodName: method,
		Handler: func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
			in := new(Req)
			if err := dec(in); err != nil {
				return nil, svcErr.InvalidArgument("malformed request body")
			}

			invoke := func(ctx context.Context, req any) (any, error) {
				resp, err := call(srv.(S), ctx, req.(*Req))
				if err != nil {
					return nil, svcErr.Map(err)
				}
				return resp, nil
			}

			if interceptor == nil {
				return invoke(ctx, in)
			}
			info := &grpc.UnaryServerInfo{Server: srv, FullMethod: fullMethod}
			return interceptor(ctx, in, info, invoke)
		},
	}
}
