package middleware_test

import (
	"context"
	"net"
	"testing"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/peer"
	"google.golang.org/grpc/status"

	"tutor-scheduling-api/internal/auth"
	"tutor-scheduling-api/internal/middleware"
	"tutor-scheduling-api/internal/rpc"
)

const secret = "test-secret"

func info(method string) *grpc.UnaryServerInfo {
	return &grpc.UnaryServerInfo{FullMethod: rpc.FullMethod(method)}
}

func echoCaller(ctx context.Context, _ any) (any, error) {
	uid, role := middleware.Caller(ctx)
	return uid + "/" + role, nil
}

func TestAuthInterceptor(t *testing.T) {
	intercept := middleware.Auth(secret)
	tok, _ := auth.MakeToken("t1", "TUTOR", secret)

	tests := []struct {
		name   string
		method string
		header string
		want   string
		code   codes.Code
	}{
		{"open method without token", "Login", "", "/", codes.OK},
		{"list is open", "ListAppointments", "", "/", codes.OK},
		{"valid token", "CreateAppointment", "Bearer " + tok, "t1/TUTOR", codes.OK},
		{"missing token", "CreateAppointment", "", "", codes.Unauthenticated},
		{"garbage token", "BookAppointment", "Bearer nope", "", codes.Unauthenticated},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			md := metadata.MD{}
			if tt.header != "" {
				md.Set("authorization", tt.header)
			}
			ctx := metadata.NewIncomingContext(context.Background(), md)
			got, err := intercept(ctx, nil, info(tt.method), echoCaller)
			if status.Code(err) != tt.code {
				t.Fatalf("code = %v, want %v", status.Code(err), tt.code)
			}
			if err == nil && got != tt.want {
				t.Errorf("caller = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestRateLimitPerPeer(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	intercept := middleware.RateLimit(middleware.NewRateLimiter(ctx, 0.001, 2))

	call := func(addr, method string) codes.Code {
		pctx := peer.NewContext(context.Background(), &peer.Peer{Addr: &net.TCPAddr{IP: net.ParseIP(addr), Port: 4000}})
		_, err := intercept(pctx, nil, info(method), echoCaller)
		return status.Code(err)
	}

	if c := call("10.0.0.1", "Login"); c != codes.OK {
		t.Fatalf("first call: %v", c)
	}
	if c := call("10.0.0.1", "Login"); c != codes.OK {
		t.Fatalf("second call: %v", c)
	}
	if c := call("10.0.0.1", "BookAppointment"); c != codes.ResourceExhausted {
		t.Fatalf("third call should be limited, got %v", c)
	}
	if c := call("10.0.0.2", "Login"); c != codes.OK {
		t.Fatalf("other peer limited: %v", c)
	}
	// unlimited methods never consume tokens
	for i := 0; i < 5; i++ {
		if c := call("10.0.0.1", "ListAppointments"); c != codes.OK {
			t.Fatalf("list limited: %v", c)
		}
	}
}

func TestRateLimitUsesForwardedAddressFromBridge(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	intercept := middleware.RateLimit(middleware.NewRateLimiter(ctx, 0.001, 1))

	call := func(browser string) codes.Code {
		c := peer.NewContext(context.Background(), &peer.Peer{Addr: &net.TCPAddr{IP: net.ParseIP("127.0.0.1"), Port: 5000}})
		c = metadata.NewIncomingContext(c, metadata.Pairs("x-forwarded-for", browser))
		_, err := intercept(c, nil, info("Login"), echoCaller)
		return status.Code(err)
	}

	if c := call("203.0.113.1"); c != codes.OK {
		t.Fatalf("first browser: %v", c)
	}
	if c := call("203.0.113.2"); c != codes.OK {
		t.Fatalf("second browser shares the bridge bucket: %v", c)
	}
	if c := call("203.0.113.1"); c != codes.ResourceExhausted {
		t.Fatalf("repeat browser should be limited, got %v", c)
	}
}
