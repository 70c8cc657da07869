package auth

import "context"

type ctxKeyClaims struct{}

func CtxWithClaims(ctx context.Context, claims *Claims) context.Context {
	return context.WithValue(ctx, ctxKeyClaims{}, claims)
}

func ClaimsFromCtx(ctx context.Context) *Claims {
	item := ctx.Value(ctxKeyClaims{})
	claims, ok := item.(*Claims)
	if ok {
		return claims
	}
	return nil
}
