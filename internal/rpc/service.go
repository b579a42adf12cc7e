package rpc

import (
	"context"

	"google.golang.org/grpc"
)

const ServiceName = "scheduling.v1.SchedulingService"

// FullMethod returns the gRPC path of a service method, e.g.
// "/scheduling.v1.SchedulingService/Login".
func FullMethod(method string) string {
	return "/" + ServiceName + "/" + method
}

type SchedulingServiceServer interface {
	Register(context.Context, *RegisterRequest) (*RegisterResponse, error)
	Login(context.Context, *LoginRequest) (*LoginResponse, error)
	CreateAppointment(context.Context, *CreateAppointmentRequest) (*AppointmentResponse, error)
	CancelAppointment(context.Context, *AppointmentRequest) (*AppointmentResponse, error)
	BookAppointment(context.Context, *AppointmentRequest) (*AppointmentResponse, error)
	CancelBooking(context.Context, *AppointmentRequest) (*AppointmentResponse, error)
	RescheduleAppointment(context.Context, *RescheduleAppointmentRequest) (*AppointmentResponse, error)
	SaveMinutes(context.Context, *SaveMinutesRequest) (*MinutesResponse, error)
	GetMinutes(context.Context, *AppointmentRequest) (*MinutesResponse, error)
	ListAppointments(context.Context, *ListAppointmentsRequest) (*ListAppointmentsResponse, error)
	SaveFreeSchedule(context.Context, *SaveFreeScheduleRequest) (*FreeScheduleResponse, error)
	GetFreeSchedule(context.Context, *GetFreeScheduleRequest) (*FreeScheduleResponse, error)
	TriggerSync(context.Context, *TriggerSyncRequest) (*TriggerSyncResponse, error)
}

func unary[Req any, PReq interface {
	*Req
	Message
}, Resp Message](method string, call func(SchedulingServiceServer, context.Context, PReq) (Resp, error)) grpc.MethodDesc {
	return grpc.MethodDesc{
		MethodName: method,
		Handler: func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
			in := PReq(new(Req))
			if err := dec(in); err != nil {
				return nil, err
			}
			s := srv.(SchedulingServiceServer)
			if interceptor == nil {
				return call(s, ctx, in)
			}
			info := &grpc.UnaryServerInfo{Server: srv, FullMethod: FullMethod(method)}
			return interceptor(ctx, in, info, func(ctx context.Context, req any) (any, error) {
				return call(s, ctx, req.(PReq))
			})
		},
	}
}

var ServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*SchedulingServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		unary("Register", SchedulingServiceServer.Register),
		unary("Login", SchedulingServiceServer.Login),
		unary("CreateAppointment", SchedulingServiceServer.CreateAppointment),
		unary("CancelAppointment", SchedulingServiceServer.CancelAppointment),
		unary("BookAppointment", SchedulingServiceServer.BookAppointment),
		unary("CancelBooking", SchedulingServiceServer.CancelBooking),
		unary("RescheduleAppointment", SchedulingServiceServer.RescheduleAppointment),
		unary("SaveMinutes", SchedulingServiceServer.SaveMinutes),
		unary("GetMinutes", SchedulingServiceServer.GetMinutes),
		unary("ListAppointments", SchedulingServiceServer.ListAppointments),
		unary("SaveFreeSchedule", SchedulingServiceServer.SaveFreeSchedule),
		unary("GetFreeSchedule", SchedulingServiceServer.GetFreeSchedule),
		unary("TriggerSync", SchedulingServiceServer.TriggerSync),
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "scheduling/v1/scheduling.proto",
}

func RegisterSchedulingServiceServer(s grpc.ServiceRegistrar, srv SchedulingServiceServer) {
	s.RegisterService(&ServiceDesc, srv)
}

// Invoke calls method on cc with this package's codec.
func Invoke(ctx context.Context, cc grpc.ClientConnInterface, method string, in, out Message, opts ...grpc.CallOption) error {
	opts = append(opts, grpc.ForceCodec(Codec{}))
	return cc.Invoke(ctx, FullMethod(method), in, out, opts...)
}
