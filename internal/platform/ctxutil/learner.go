package ctxutil

import (
	"context"

	"github.com/google/uuid"
)

type learnerKey struct{}

// LearnerData identifies whose progress a request reads and writes.
type LearnerData struct {
	LearnerID uuid.UUID
	// Anonymous is set when the request carried no identity.
	Anonymous bool
}

func WithLearner(ctx context.Context, ld *LearnerData) context.Context {
	return context.WithValue(ctx, learnerKey{}, ld)
}

func GetLearner(ctx context.Context) *LearnerData {
	if ctx == nil {
		return nil
	}
	if ld, ok := ctx.Value(learnerKey{}).(*LearnerData); ok {
		return ld
	}
	return nil
}

// LearnerID falls back to the anonymous learner (uuid.Nil).
func LearnerID(ctx context.Context) uuid.UUID {
	if ld := GetLearner(ctx); ld != nil {
		return ld.LearnerID
	}
	return uuid.Nil
}

// Default returns context.Background() when ctx is nil.
func Default(ctx context.Context) context.Context {
	if ctx == nil {
		return context.Background()
	}
	return ctx
}
