package reqctx

import "context"

type ctxKey string

const (
	keyRID    ctxKey = "overbid_rid"
	keySigner ctxKey = "overbid_signer"
)

// WithRID stores the request id for transition logs.
func WithRID(ctx context.Context, rid string) context.Context {
	return context.WithValue(ctx, keyRID, rid)
}

// RID returns the request id if present.
func RID(ctx context.Context) string {
	v, _ := ctx.Value(keyRID).(string)
	return v
}

// WithSigner stores the authenticated signer address.
func WithSigner(ctx context.Context, signer string) context.Context {
	return context.WithValue(ctx, keySigner, signer)
}

func Signer(ctx context.Context) string {
	v, _ := ctx.Value(keySigner).(string)
	return v
}
