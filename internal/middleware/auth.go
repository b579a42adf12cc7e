package middleware

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"

	"tutor-scheduling-api/internal/auth"
	"tutor-scheduling-api/internal/rpc"
)

type ctxKey string

const (
	UserIDKey ctxKey = "uid"
	RoleKey   ctxKey = "role"
)

// skip auth for these
var open = map[string]bool{
	rpc.FullMethod("Register"):         true,
	rpc.FullMethod("Login"):            true,
	rpc.FullMethod("ListAppointments"): true,
}

func Auth(secret string) grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req any, info *grpc.UnaryServerInfo, next grpc.UnaryHandler) (any, error) {
		if open[info.FullMethod] {
			return next(ctx, req)
		}

		md, ok := metadata.FromIncomingContext(ctx)
		if !ok {
			return nil, status.Error(codes.Unauthenticated, "missing metadata")
		}

		// token from Authorization: Bearer <jwt>
		vals := md.Get("authorization")
		if len(vals) == 0 {
			return nil, status.Error(codes.Unauthenticated, "no token")
		}
		claims, err := auth.ParseBearer(vals[0], secret)
		if err != nil {
			return nil, status.Error(codes.Unauthenticated, "bad token")
		}

		return next(WithCaller(ctx, claims.UserID, claims.Role), req)
	}
}

// WithCaller stores the authenticated user on ctx.
func WithCaller(ctx context.Context, uid, role string) context.Context {
	ctx = context.WithValue(ctx, UserIDKey, uid)
	return context.WithValue(ctx, RoleKey, role)
}

// Caller returns what Auth stored; empty strings on open methods.
func Caller(ctx context.Context) (uid, role string) {
	uid, _ = ctx.Value(UserIDKey).(string)
	role, _ = ctx.Value(RoleKey).(string)
	return uid, role
}
