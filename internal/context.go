package internal

import (
	"context"
	"time"

	"github.com/Abdulrahman-Alsuhaymi/Stocker/internal/core/user"
)

type ctxKey string

const ContextUserKey ctxKey = "actor"

func ActorFromContext(ctx context.Context) (*user.Actor, bool) {
	if ctx == nil {
		return nil, false
	}
	actor, ok := ctx.Value(ContextUserKey).(*user.Actor)
	return actor, ok && actor != nil
}

func ContextWithActor(ctx context.Context, actor *user.Actor) context.Context {
	return context.WithValue(ctx, ContextUserKey, actor)
}

// WithTimeout returns a context with timeout, defaulting to 5 seconds if duration is zero or negative.
func WithTimeout(ctx context.Context, duration time.Duration) (context.Context, context.CancelFunc) {
	if duration <= 0 {
		duration = 5 * time.Second
	}
	return context.WithTimeout(ctx, duration)
}
