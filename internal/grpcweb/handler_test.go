package grpcweb_test

import (
	"bytes"
	"context"
	"encoding/binary"
	"io"
	"log"
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"google.golang.org/grpc"

	"tutor-scheduling-api/internal/directory"
	"tutor-scheduling-api/internal/grpcweb"
	"tutor-scheduling-api/internal/handler"
	"tutor-scheduling-api/internal/middleware"
	"tutor-scheduling-api/internal/rpc"
	"tutor-scheduling-api/internal/scheduling"
	"tutor-scheduling-api/internal/store"
)

const secret = "test-secret"

func setup(t *testing.T) http.Handler {
	t.Helper()
	quiet := log.New(io.Discard, "", 0)

	st := store.NewMemory()
	eng := scheduling.New(st, directory.New(st), scheduling.WithLogger(quiet))
	h := handler.New(eng, st, secret, handler.WithLogger(quiet))

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	srv := grpc.NewServer(
		grpc.ForceServerCodec(rpc.Codec{}),
		grpc.ChainUnaryInterceptor(
			middleware.RateLimit(middleware.NewRateLimiter(ctx, 100, 100)),
			middleware.Auth(secret),
		),
	)
	rpc.RegisterSchedulingServiceServer(srv, h)

	lis, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatal(err)
	}
	go srv.Serve(lis)
	t.Cleanup(srv.Stop)

	bridge, err := grpcweb.New(lis.Addr().String(), quiet)
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { bridge.Close() })
	return bridge.Handler()
}

func call(t *testing.T, h http.Handler, method, token string, msg rpc.Message) *httptest.ResponseRecorder {
	t.Helper()
	payload := msg.AppendWire(nil)
	body := make([]byte, 5+len(payload))
	binary.BigEndian.PutUint32(body[1:5], uint32(len(payload)))
	copy(body[5:], payload)

	req := httptest.NewRequest(http.MethodPost, rpc.FullMethod(method), bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/grpc-web+proto")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

// frames splits a grpc-web response into its data payload and trailer text.
func frames(t *testing.T, b []byte) (data []byte, trailer string) {
	t.Helper()
	for len(b) >= 5 {
		n := binary.BigEndian.Uint32(b[1:5])
		chunk := b[5 : 5+n]
		if b[0]&0x80 != 0 {
			trailer = string(chunk)
		} else {
			data = chunk
		}
		b = b[5+n:]
	}
	return data, trailer
}

func TestBridgeRoundTrip(t *testing.T) {
	h := setup(t)

	rec := call(t, h, "Register", "", &rpc.RegisterRequest{
		Email: "tutor@test.com", Password: "testpass123", Name: "Ada", Role: "TUTOR",
	})
	data, trailer := frames(t, rec.Body.Bytes())
	if !strings.Contains(trailer, "grpc-status:0") {
		t.Fatalf("register trailer %q", trailer)
	}
	var reg rpc.RegisterResponse
	if err := reg.UnmarshalWire(data); err != nil {
		t.Fatal(err)
	}
	if reg.Token == "" || reg.UserId == "" {
		t.Fatalf("register response %+v", reg)
	}

	rec = call(t, h, "CreateAppointment", reg.Token, &rpc.CreateAppointmentRequest{
		Name: "Calc", StartTime: "2030-01-01 10:00:00", EndTime: "2030-01-01 11:00:00", Place: "H1",
	})
	data, trailer = frames(t, rec.Body.Bytes())
	if !strings.Contains(trailer, "grpc-status:0") {
		t.Fatalf("create trailer %q", trailer)
	}
	var created rpc.AppointmentResponse
	if err := created.UnmarshalWire(data); err != nil {
		t.Fatal(err)
	}
	if created.Appointment == nil || created.Appointment.MaxSlot != 1 || created.Appointment.Status != "OPEN" {
		t.Fatalf("created %+v", created.Appointment)
	}

	rec = call(t, h, "ListAppointments", "", &rpc.ListAppointmentsRequest{})
	data, _ = frames(t, rec.Body.Bytes())
	var list rpc.ListAppointmentsResponse
	if err := list.UnmarshalWire(data); err != nil {
		t.Fatal(err)
	}
	if len(list.Appointments) != 1 || list.Appointments[0].TutorName != "Ada" {
		t.Fatalf("list %+v", list.Appointments)
	}
}

func TestBridgeErrorTrailer(t *testing.T) {
	h := setup(t)

	// no token
	rec := call(t, h, "CreateAppointment", "", &rpc.CreateAppointmentRequest{Name: "x"})
	if rec.Code != http.StatusOK {
		t.Fatalf("http status %d", rec.Code)
	}
	data, trailer := frames(t, rec.Body.Bytes())
	if len(data) != 0 {
		t.Error("unexpected data frame")
	}
	if !strings.Contains(trailer, "grpc-status:16") {
		t.Errorf("trailer %q", trailer)
	}
}

func TestBridgeRejectsBadRequests(t *testing.T) {
	h := setup(t)

	tests := []struct {
		name   string
		method string
		ctype  string
		body   []byte
		code   int
		status string
	}{
		{"preflight", http.MethodOptions, "", nil, http.StatusOK, ""},
		{"get", http.MethodGet, "application/grpc-web+proto", nil, http.StatusMethodNotAllowed, ""},
		{"json", http.MethodPost, "application/json", []byte("{}"), http.StatusUnsupportedMediaType, ""},
		{"short body", http.MethodPost, "application/grpc-web+proto", []byte{0, 0}, http.StatusOK, "grpc-status:3"},
		{"truncated frame", http.MethodPost, "application/grpc-web+proto", []byte{0, 0, 0, 0, 9, 1}, http.StatusOK, "grpc-status:3"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, rpc.FullMethod("Login"), bytes.NewReader(tt.body))
			if tt.ctype != "" {
				req.Header.Set("Content-Type", tt.ctype)
			}
			req.Header.Set("Origin", "http://localhost:5173")
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)

			if rec.Code != tt.code {
				t.Fatalf("code %d, want %d", rec.Code, tt.code)
			}
			if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "http://localhost:5173" {
				t.Errorf("allow origin %q", got)
			}
			if tt.status != "" {
				_, trailer := frames(t, rec.Body.Bytes())
				if !strings.Contains(trailer, tt.status) {
					t.Errorf("trailer %q, want %s", trailer, tt.status)
				}
			}
		})
	}
}
