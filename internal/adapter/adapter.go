// Package adapter holds helpers shared by the outbound adapters.
package adapter

import (
	"context"
	"crypto/tls"
	"crypto/x509"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/niksmo/storefront/pkg/retry"
)

var ErrBadCertificate = errors.New("failed to parse CA certificate")

// MakeTLSConfig returns a mutual TLS client config.
//
// All args are file paths. An empty ca, cert and key return nil config
// and no error, meaning plaintext.
func MakeTLSConfig(ca, cert, key string) (*tls.Config, error) {
	const op = "adapter.MakeTLSConfig"

	if ca == "" && cert == "" && key == "" {
		return nil, nil
	}

	caCert, err := os.ReadFile(ca)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to read CA certificate file: %w", op, err)
	}

	caCertPool := x509.NewCertPool()
	if !caCertPool.AppendCertsFromPEM(caCert) {
		return nil, fmt.Errorf("%s: %w", op, ErrBadCertificate)
	}

	cfg := &tls.Config{
		RootCAs:    caCertPool,
		MinVersion: tls.VersionTLS12,
	}

	if cert != "" || key != "" {
		clientCert, err := tls.LoadX509KeyPair(cert, key)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		cfg.Certificates = []tls.Certificate{clientCert}
	}

	return cfg, nil
}

// Startup retry limits of [WaitAvailable].
const (
	PingAttempts = 5
	PingDelay    = 200 * time.Millisecond
	PingMaxDelay = 3 * time.Second
)

// WaitAvailable pings a backend until it answers, logging every failed
// attempt under backend.
func WaitAvailable(
	ctx context.Context, backend string, ping func(context.Context) error,
) error {
	log := slog.With("op", "adapter.WaitAvailable", "backend", backend)

	return retry.Do(ctx, retry.RetryConfig{
		MaxAttempts: PingAttempts,
		Backoff:     retry.ExponentialBackoff(PingDelay, PingMaxDelay),
		OnRetry: func(attempt int, wait time.Duration, err error) {
			log.Warn("backend is not ready",
				"attempt", attempt, "retry_in", wait, "err", err)
		},
	}, func() error {
		return ping(ctx)
	})
}
