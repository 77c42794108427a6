package requestcontext

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestAccessors(t *testing.T) {
	t.Run("empty context yields zero values", func(t *testing.T) {
		ctx := context.Background()
		assert.Empty(t, RequestID(ctx))
		assert.Empty(t, ClientIP(ctx))
		assert.Empty(t, UserAgent(ctx))
		assert.WithinDuration(t, time.Now(), Now(ctx), time.Second)
	})

	t.Run("injected values round trip", func(t *testing.T) {
		fixed := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
		ctx := WithRequestID(context.Background(), "req-1")
		ctx = WithClientMetadata(ctx, "10.0.0.1", "curl/8.0")
		ctx = WithTime(ctx, fixed)

		assert.Equal(t, "req-1", RequestID(ctx))
		assert.Equal(t, "10.0.0.1", ClientIP(ctx))
		assert.Equal(t, "curl/8.0", UserAgent(ctx))
		assert.Equal(t, fixed, Now(ctx))
	})
}
