package entrypoint

import (
	"context"
	"crypto/sha256"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/mrlokans/tourism/internal/config"
)

func TestCSRFKey(t *testing.T) {
	hexSecret := strings.Repeat("ab", 32)
	hashed := sha256.Sum256([]byte("not-hex-secret"))

	tests := []struct {
		name      string
		secret    string
		want      []byte
		generated bool
	}{
		{"hex secret of key size", hexSecret, []byte(strings.Repeat("\xab", 32)), false},
		{"plain secret is hashed", "not-hex-secret", hashed[:], false},
		{"short hex is hashed", "abcd", func() []byte { s := sha256.Sum256([]byte("abcd")); return s[:] }(), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			key, generated, err := CSRFKey(tt.secret)
			require.NoError(t, err)
			assert.Equal(t, tt.want, key)
			assert.Equal(t, tt.generated, generated)
		})
	}

	t.Run("empty secret is generated", func(t *testing.T) {
		first, generated, err := CSRFKey("")
		require.NoError(t, err)
		assert.True(t, generated)
		assert.Len(t, first, csrfKeyLength)

		second, _, err := CSRFKey("")
		require.NoError(t, err)
		assert.NotEqual(t, first, second)
	})
}

func TestServe_ShutsDownOnCancel(t *testing.T) {
	cfg := &config.Config{
		HTTP:   config.HTTP{Host: "127.0.0.1", Port: 0},
		Global: config.Global{ShutdownTimeoutInSeconds: 1},
	}
	ctx, cancel := context.WithCancel(context.Background())
	shutdownCalled := false

	done := make(chan error, 1)
	go func() {
		done <- Serve(ctx, http.NotFoundHandler(), cfg, zap.NewNop(), func(context.Context) {
			shutdownCalled = true
		})
	}()

	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		require.NoError(t, err)
		assert.True(t, shutdownCalled)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not shut down")
	}
}

func TestServe_ListenError(t *testing.T) {
	cfg := &config.Config{
		HTTP:   config.HTTP{Host: "127.0.0.1", Port: -1},
		Global: config.Global{ShutdownTimeoutInSeconds: 1},
	}
	err := Serve(context.Background(), http.NotFoundHandler(), cfg, zap.NewNop(), nil)
	assert.Error(t, err)
}
