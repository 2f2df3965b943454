package middleware

import "context"

type userSinkKey struct{}

func withUserSink(ctx context.Context, id *int) context.Context {
	return context.WithValue(ctx, userSinkKey{}, id)
}

func userSinkFrom(ctx context.Context) *int {
	id, _ := ctx.Value(userSinkKey{}).(*int)
	return id
}
