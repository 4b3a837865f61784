//go:build unit

package mail_test

import (
	"testing"
	"time"

	"academy-api/internal/domain/mail"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRenderZoned(t *testing.T) {
	at := time.Date(2025, 4, 1, 12, 0, 0, 0, time.UTC)

	t.Run("renders one line per zone in order", func(t *testing.T) {
		out := mail.RenderZoned(at, []string{"UTC", "Asia/Tokyo"})
		require.Len(t, out, 2)

		assert.Equal(t, "UTC", out[0].Zone)
		assert.Equal(t, "2025/04/01 12:00 (UTC)", out[0].Display)

		assert.Equal(t, "Asia/Tokyo", out[1].Zone)
		assert.Equal(t, "2025/04/01 21:00 (JST)", out[1].Display)
	})

	t.Run("unknown zone falls back to UTC", func(t *testing.T) {
		out := mail.RenderZoned(at, []string{"Not/AZone"})
		require.Len(t, out, 1)
		assert.Equal(t, "2025/04/01 12:00 (UTC)", out[0].Display)
	})
}
