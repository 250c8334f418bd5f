package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/niksmo/storefront/config"
	"github.com/niksmo/storefront/internal/app"
	"github.com/niksmo/storefront/internal/core/service"
	"github.com/niksmo/storefront/pkg/sigctx"
	"github.com/spf13/pflag"
)

const (
	fileFlag     = "file"
	closeTimeout = 5 * time.Second
)

func main() {
	sigCtx, closeApp := sigctx.NotifyContext(context.Background())
	defer closeApp()

	path := getFlagsValues()

	cfg := config.Load()
	if cfg.Store.Driver == config.StoreMemory {
		fallDown(errors.New("store.driver: memory store does not outlive the seeder"))
	}

	s, err := readSeedFile(path)
	if err != nil {
		fallDown(err)
	}

	store, err := app.OpenStore(sigCtx, cfg)
	if err != nil {
		fallDown(err)
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), closeTimeout)
		defer cancel()
		store.Close(ctx)
	}()

	start := time.Now()
	rep, err := apply(sigCtx, service.New(store), s)
	fmt.Printf("created %d products and %d blog posts in %s\n",
		rep.Products, rep.BlogPosts, time.Since(start))
	if err != nil {
		slog.Error("failed to seed catalog", "err", err)
	}
}

func getFlagsValues() string {
	pflag.CommandLine.ParseErrorsWhitelist.UnknownFlags = true
	file := pflag.StringP(fileFlag, "f", "seed.yaml", "YAML seed file")
	pflag.Parse()
	return *file
}

func readSeedFile(path string) (seed, error) {
	f, err := os.Open(path)
	if err != nil {
		return seed{}, err
	}
	defer f.Close()
	return readSeed(f)
}

func fallDown(err error) {
	fmt.Printf("failed to seed: %v\n", err)
	os.Exit(2)
}
