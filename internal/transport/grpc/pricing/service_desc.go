package pricing

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"
)

// ServiceName is the fully qualified gRPC service name.
const ServiceName = "pricing.v1.PricingService"

// Full method names.
const (
	MethodGetEffectivePrice = "/" + ServiceName + "/GetEffectivePrice"
	MethodGetSettings       = "/" + ServiceName + "/GetSettings"
	MethodSaveSettings      = "/" + ServiceName + "/SaveSettings"
)

// PricingServiceServer is the server API for the pricing service.
// Messages are well-known types, so no generated code is needed.
type PricingServiceServer interface {
	GetEffectivePrice(context.Context, *structpb.Struct) (*structpb.Struct, error)
	GetSettings(context.Context, *emptypb.Empty) (*structpb.Struct, error)
	SaveSettings(context.Context, *structpb.Struct) (*structpb.Struct, error)
}

// RegisterPricingServiceServer registers srv with s.
func RegisterPricingServiceServer(s grpc.ServiceRegistrar, srv PricingServiceServer) {
	s.RegisterService(&ServiceDesc, srv)
}

// ServiceDesc describes the pricing service for grpc.Server.
var ServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*PricingServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "GetEffectivePrice", Handler: getEffectivePriceHandler},
		{MethodName: "GetSettings", Handler: getSettingsHandler},
		{MethodName: "SaveSettings", Handler: saveSettingsHandler},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "pricing/v1/pricing.proto",
}

func getEffectivePriceHandler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	in := new(structpb.Struct)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(PricingServiceServer).GetEffectivePrice(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: MethodGetEffectivePrice}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(PricingServiceServer).GetEffectivePrice(ctx, req.(*structpb.Struct))
	}
	return interceptor(ctx, in, info, handler)
}

func getSettingsHandler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	in := new(emptypb.Empty)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(PricingServiceServer).GetSettings(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: MethodGetSettings}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(PricingServiceServer).GetSettings(ctx, req.(*emptypb.Empty))
	}
	return interceptor(ctx, in, info, handler)
}

func saveSettingsHandler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	in := new(structpb.Struct)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(PricingServiceServer).SaveSettings(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: MethodSaveSettings}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(PricingServiceServer).SaveSettings(ctx, req.(*structpb.Struct))
	}
	return interceptor(ctx, in, info, handler)
}

// Client is a thin client for the pricing service.
type Client struct {
	cc grpc.ClientConnInterface
}

// NewClient creates a pricing service client over cc.
func NewClient(cc grpc.ClientConnInterface) *Client {
	return &Client{cc: cc}
}

// GetEffectivePrice calls PricingService.GetEffectivePrice.
func (c *Client) GetEffectivePrice(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, MethodGetEffectivePrice, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

// GetSettings calls PricingService.GetSettings.
func (c *Client) GetSettings(ctx context.Context, opts ...grpc.CallOption) (*structpb.Struct, error) {
	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, MethodGetSettings, &emptypb.Empty{}, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

// SaveSettings calls PricingService.SaveSettings.
func (c *Client) SaveSettings(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, MethodSaveSettings, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}
