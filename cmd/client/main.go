package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"

	"github.com/iudanet/coursemanager/internal/client/api"
	"github.com/iudanet/coursemanager/internal/client/auth"
	"github.com/iudanet/coursemanager/internal/client/cli"
	"github.com/iudanet/coursemanager/internal/client/guard"
	"github.com/iudanet/coursemanager/internal/client/iocli"
	"github.com/iudanet/coursemanager/internal/client/storage"
	"github.com/iudanet/coursemanager/internal/client/storage/boltdb"
	"github.com/iudanet/coursemanager/internal/client/storage/memory"
	"github.com/iudanet/coursemanager/internal/client/storage/sealed"
	"github.com/iudanet/coursemanager/internal/config"
)

var (
	// Version information set via ldflags during build
	Version   = "dev"
	BuildDate = "unknown"
	GitCommit = "unknown"
)

// localStore - хранилище сессии вместе с метаданными
type localStore interface {
	storage.Store
	storage.MetadataStorage
}

func main() {
	if err := config.LoadDotEnv(".env"); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	cfg, args, err := config.LoadClient(os.Args[0], os.Args[1:], os.LookupEnv)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			os.Exit(0)
		}
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(2)
	}

	// Show version and exit if requested
	if cfg.ShowVersion {
		printVersion()
		os.Exit(0)
	}

	stdio := iocli.NewStdio()
	if len(args) == 0 {
		cli.PrintUsage(stdio)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := run(ctx, cfg, stdio, args[0], args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		stop()
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Client, stdio iocli.IO, command string, args []string) error {
	logger, err := config.NewLogger(os.Stderr, cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		return err
	}

	local, closeStore, err := openStore(ctx, cfg.DB)
	if err != nil {
		return err
	}
	defer func() {
		if err := closeStore(); err != nil {
			logger.Error("failed to close database", "error", err)
		}
	}()

	var store storage.Store = local
	if cfg.StorePassphrase != "" {
		store, err = sealed.New(ctx, local, cfg.StorePassphrase)
		if err != nil {
			return fmt.Errorf("failed to unlock local session: %w", err)
		}
	}

	client := api.NewClient(cfg.Server, api.WithLogger(logger), api.WithTimeout(cfg.Timeout))

	manager, err := auth.NewManager(ctx, client, store, auth.WithLogger(logger))
	if err != nil {
		return fmt.Errorf("failed to load session: %w", err)
	}

	g := guard.New(manager, client, guard.WithLogger(logger), guard.WithRecorder(local))

	return cli.New(stdio, manager, g, cli.WithMetadata(local)).Run(ctx, command, args)
}

// openStore открывает BoltDB или, для :memory:, хранилище в памяти процесса
func openStore(ctx context.Context, path string) (localStore, func() error, error) {
	if path == config.MemoryDB {
		return memory.New(), func() error { return nil }, nil
	}

	bolt, err := boltdb.New(ctx, path)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open database: %w", err)
	}
	return bolt, bolt.Close, nil
}

func printVersion() {
	fmt.Printf("CourseManager Client\n")
	fmt.Printf("Version:    %s\n", Version)
	fmt.Printf("Build Date: %s\n", BuildDate)
	fmt.Printf("Git Commit: %s\n", GitCommit)
}
