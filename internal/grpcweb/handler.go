package grpcweb

import (
	"encoding/binary"
	"fmt"
	"io"
	"log"
	"net"
	"net/http"
	"strings"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
)

// request bodies are a single unary message
const maxBody = 4 << 20

// Bridge translates gRPC-Web (browser HTTP/1.1) → native gRPC via TCP.
type Bridge struct {
	conn *grpc.ClientConn
	log  *log.Logger
}

// New dials the gRPC server at addr (e.g. "localhost:50051").
func New(addr string, l *log.Logger) (*Bridge, error) {
	conn, err := grpc.NewClient(
		addr,
		grpc.WithTransportCredentials(insecure.NewCredentials()),
	)
	if err != nil {
		return nil, fmt.Errorf("grpcweb dial: %w", err)
	}
	if l == nil {
		l = log.Default()
	}
	return &Bridge{conn: conn, log: l}, nil
}

func (b *Bridge) Close() error { return b.conn.Close() }

// CORS sets the headers browsers need for grpc-web calls.
func CORS(w http.ResponseWriter, r *http.Request) {
	origin := r.Header.Get("Origin")
	if origin == "" {
		origin = "*"
	}
	h := w.Header()
	h.Set("Access-Control-Allow-Origin", origin)
	h.Set("Access-Control-Allow-Methods", "POST, OPTIONS")
	h.Set("Access-Control-Allow-Headers",
		"Content-Type, X-Grpc-Web, X-User-Agent, Authorization, x-grpc-web")
	h.Set("Access-Control-Expose-Headers",
		"Grpc-Status, Grpc-Message, Grpc-Status-Details-Bin, grpc-status, grpc-message")
	h.Set("Access-Control-Max-Age", "86400")
}

// Handler returns an http.Handler that translates gRPC-Web → gRPC. The
// request path is the full gRPC method name.
func (b *Bridge) Handler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		CORS(w, r)
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}
		if r.Method != http.MethodPost {
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}
		if !strings.HasPrefix(r.Header.Get("Content-Type"), "application/grpc-web") {
			http.Error(w, "not grpc-web", http.StatusUnsupportedMediaType)
			return
		}

		b.log.Printf("grpc-web → %s", r.URL.Path)
		b.forward(w, r)
	})
}

func (b *Bridge) forward(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxBody+1))
	if err != nil {
		writeError(w, codes.Internal, "read body failed")
		return
	}
	if len(body) > maxBody {
		writeError(w, codes.ResourceExhausted, "message too large")
		return
	}
	payload, err := unframe(body)
	if err != nil {
		writeError(w, codes.InvalidArgument, err.Error())
		return
	}

	// forward credentials and the browser address for rate limiting
	md := metadata.MD{}
	if vals := r.Header.Values("Authorization"); len(vals) > 0 {
		md.Set("authorization", vals...)
	}
	if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
		md.Set("x-forwarded-for", host)
	}
	ctx := metadata.NewOutgoingContext(r.Context(), md)

	// invoke gRPC method using raw codec (pass-through bytes)
	resp := &rawMsg{}
	err = b.conn.Invoke(ctx, r.URL.Path, &rawMsg{data: payload}, resp, grpc.ForceCodec(rawCodec{}))
	if err != nil {
		st, _ := status.FromError(err)
		b.log.Printf("grpc-web error: %s: %s", st.Code(), st.Message())
		writeError(w, st.Code(), st.Message())
		return
	}

	writeSuccess(w, resp.data)
}

// unframe returns the message of a grpc-web data frame:
// 1-byte flag + 4-byte big-endian length + protobuf.
func unframe(body []byte) ([]byte, error) {
	if len(body) < 5 {
		return nil, fmt.Errorf("body too short")
	}
	if body[0]&0x80 != 0 {
		return nil, fmt.Errorf("expected a data frame")
	}
	n := binary.BigEndian.Uint32(body[1:5])
	if uint64(n)+5 > uint64(len(body)) {
		return nil, fmt.Errorf("incomplete frame")
	}
	return body[5 : 5+n], nil
}

func frame(flag byte, data []byte) []byte {
	f := make([]byte, 5+len(data))
	f[0] = flag
	binary.BigEndian.PutUint32(f[1:5], uint32(len(data)))
	copy(f[5:], data)
	return f
}

// rawMsg wraps raw protobuf bytes.
type rawMsg struct{ data []byte }

// rawCodec passes bytes through without marshal/unmarshal.
type rawCodec struct{}

func (rawCodec) Marshal(v any) ([]byte, error) {
	return v.(*rawMsg).data, nil
}
func (rawCodec) Unmarshal(data []byte, v any) error {
	m := v.(*rawMsg)
	m.data = append([]byte(nil), data...)
	return nil
}
func (rawCodec) Name() string { return "raw" }

func writeError(w http.ResponseWriter, code codes.Code, msg string) {
	w.Header().Set("Content-Type", "application/grpc-web+proto")
	w.WriteHeader(http.StatusOK)
	trailer := fmt.Sprintf("grpc-status:%d\r\ngrpc-message:%s\r\n", code, encodeMessage(msg))
	w.Write(frame(0x80, []byte(trailer)))
}

func writeSuccess(w http.ResponseWriter, data []byte) {
	w.Header().Set("Content-Type", "application/grpc-web+proto")
	w.WriteHeader(http.StatusOK)
	w.Write(frame(0x00, data))
	w.Write(frame(0x80, []byte("grpc-status:0\r\n")))
}

// encodeMessage percent-encodes grpc-message as gRPC does.
func encodeMessage(msg string) string {
	var sb strings.Builder
	for i := 0; i < len(msg); i++ {
		c := msg[i]
		if c < 0x20 || c > 0x7e || c == '%' {
			fmt.Fprintf(&sb, "%%%02X", c)
			continue
		}
		sb.WriteByte(c)
	}
	return sb.String()
}
