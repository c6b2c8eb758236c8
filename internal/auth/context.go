package auth

import (
	"context"
	"strings"

	"google.golang.org/grpc/metadata"
)

// CashierKey is the gRPC metadata key and HTTP header naming the operator.
const CashierKey = "x-cashier"

type cashierCtxKey struct{}

func WithCashier(ctx context.Context, cashier string) context.Context {
	return context.WithValue(ctx, cashierCtxKey{}, cashier)
}

// GetCashier returns the cashier put on ctx by a middleware, falling back to
// incoming gRPC metadata.
func GetCashier(ctx context.Context) string {
	if val, ok := ctx.Value(cashierCtxKey{}).(string); ok && val != "" {
		return val
	}

	md, ok := metadata.FromIncomingContext(ctx)
	if ok {
		if val := md.Get(CashierKey); len(val) > 0 {
			return strings.TrimSpace(val[0])
		}
	}
	return ""
}
