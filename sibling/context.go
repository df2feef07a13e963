package sibling

import "context"

type ctxKey struct{}

// NewContext returns a copy of ctx carrying tok. The context does not own tok;
// whoever minted it still closes it.
func NewContext(ctx context.Context, tok *Token) context.Context {
	return context.WithValue(ctx, ctxKey{}, tok)
}

// FromContext returns the Token stored in ctx, if any.
func FromContext(ctx context.Context) (*Token, bool) {
	tok, ok := ctx.Value(ctxKey{}).(*Token)
	return tok, ok && tok != nil
}

// CountFromContext returns the sibling count seen by the Token in ctx, or 0.
func CountFromContext(ctx context.Context) int {
	if tok, ok := FromContext(ctx); ok {
		return tok.SiblingCount()
	}
	return 0
}
