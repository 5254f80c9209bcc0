package pricing

import (
	"strings"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"
)

// validateGetEffectivePriceRequest extracts and checks product_id.
func validateGetEffectivePriceRequest(req *structpb.Struct) (string, error) {
	v, ok := req.GetFields()["product_id"]
	if !ok {
		return "", status.Error(codes.InvalidArgument, "product_id is required")
	}
	s, isString := v.GetKind().(*structpb.Value_StringValue)
	if !isString {
		return "", status.Error(codes.InvalidArgument, "product_id must be a string")
	}
	productID := strings.TrimSpace(s.StringValue)
	if productID == "" {
		return "", status.Error(codes.InvalidArgument, "product_id is required")
	}
	return productID, nil
}

// validateSaveSettingsRequest checks the top-level shape before decoding.
func validateSaveSettingsRequest(req *structpb.Struct) error {
	if req == nil {
		return status.Error(codes.InvalidArgument, "settings are required")
	}
	for _, key := range []string{"roles", "category_overrides"} {
		v, ok := req.GetFields()[key]
		if !ok {
			continue
		}
		switch v.GetKind().(type) {
		case *structpb.Value_StructValue, *structpb.Value_NullValue:
		default:
			return status.Errorf(codes.InvalidArgument, "%s must be an object", key)
		}
	}
	return nil
}
