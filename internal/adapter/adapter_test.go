package adapter_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/niksmo/storefront/internal/adapter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMakeTLSConfig(t *testing.T) {
	t.Run("Plaintext", func(t *testing.T) {
		cfg, err := adapter.MakeTLSConfig("", "", "")
		require.NoError(t, err)
		assert.Nil(t, cfg)
	})

	t.Run("MissingCA", func(t *testing.T) {
		_, err := adapter.MakeTLSConfig(filepath.Join(t.TempDir(), "ca.pem"), "", "")
		assert.ErrorIs(t, err, os.ErrNotExist)
	})

	t.Run("BadCA", func(t *testing.T) {
		ca := filepath.Join(t.TempDir(), "ca.pem")
		require.NoError(t, os.WriteFile(ca, []byte("not a certificate"), 0o600))

		_, err := adapter.MakeTLSConfig(ca, "", "")
		assert.ErrorIs(t, err, adapter.ErrBadCertificate)
	})
}

func TestWaitAvailable(t *testing.T) {
	errRefused := errors.New("connection refused")

	t.Run("AnswersAfterRetry", func(t *testing.T) {
		var pings int
		err := adapter.WaitAvailable(t.Context(), "test", func(context.Context) error {
			pings++
			if pings < 2 {
				return errRefused
			}
			return nil
		})
		require.NoError(t, err)
		assert.Equal(t, 2, pings)
	})

	t.Run("Canceled", func(t *testing.T) {
		ctx, cancel := context.WithCancel(t.Context())
		err := adapter.WaitAvailable(ctx, "test", func(context.Context) error {
			cancel()
			return errRefused
		})
		assert.ErrorIs(t, err, context.Canceled)
		assert.ErrorIs(t, err, errRefused)
	})
}
