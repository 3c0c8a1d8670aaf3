// Copyright (C) 2025 Storj Labs, Inc.
// See LICENSE for copying information.

package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"storj.io/enrichment"
	"storj.io/enrichment/redistable"
)

var (
	rootCmd = &cobra.Command{
		Use:   "enrichtable",
		Short: "Inspect a live redis enrichment table",
	}
	lookupCmd = &cobra.Command{
		Use:   "lookup <field>",
		Short: "Look up a single field in the table",
		Args:  cobra.ExactArgs(1),
		RunE:  cmdLookup,
	}
	watchCmd = &cobra.Command{
		Use:   "watch",
		Short: "Keep the table synchronized and report its size",
		RunE:  cmdWatch,
	}

	runCfg struct {
		Addresses  []string
		Password   string
		DB         int
		Keys       []string
		MasterName string
		Wait       time.Duration
	}
)

func init() {
	flags := rootCmd.PersistentFlags()
	flags.StringSliceVar(&runCfg.Addresses, "addr", []string{"localhost:6379"}, "redis address, or the sentinel addresses when --master-name is set")
	flags.StringVar(&runCfg.Password, "password", "", "redis password")
	flags.IntVar(&runCfg.DB, "db", 0, "redis database holding the tracked hashes")
	flags.StringSliceVar(&runCfg.Keys, "key", nil, "redis hash keys to keep synchronized")
	flags.StringVar(&runCfg.MasterName, "master-name", "", "sentinel master name")
	flags.DurationVar(&runCfg.Wait, "wait", 30*time.Second, "how long to wait for the first synchronization")

	rootCmd.AddCommand(lookupCmd, watchCmd)
}

func openTable(ctx context.Context, log *zap.Logger) (*redistable.Table, error) {
	openCtx, cancel := context.WithTimeout(ctx, runCfg.Wait)
	defer cancel()

	return redistable.Open(openCtx, log, redistable.Config{
		Addresses:  runCfg.Addresses,
		Password:   runCfg.Password,
		DB:         runCfg.DB,
		Keys:       runCfg.Keys,
		MasterName: runCfg.MasterName,
	})
}

func cmdLookup(cmd *cobra.Command, args []string) error {
	ctx, log, cleanup, err := newContext()
	if err != nil {
		return err
	}
	defer cleanup()

	table, err := openTable(ctx, log)
	if err != nil {
		return err
	}
	defer func() { _ = table.Close() }()

	row, err := table.FindOne([]enrichment.Condition{{Field: "field", Equals: args[0]}})
	if err != nil {
		return err
	}

	for _, field := range row {
		fmt.Printf("%s\t%s\n", field.Name, field.Value)
	}
	return nil
}

func cmdWatch(cmd *cobra.Command, args []string) error {
	ctx, log, cleanup, err := newContext()
	if err != nil {
		return err
	}
	defer cleanup()

	table, err := openTable(ctx, log)
	if err != nil {
		return err
	}
	defer func() { _ = table.Close() }()

	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			log.Info("table state", zap.Int("rows", table.Rows()))
		case <-ctx.Done():
			return nil
		}
	}
}

func newContext() (context.Context, *zap.Logger, func(), error) {
	log, err := zap.NewDevelopment()
	if err != nil {
		return nil, nil, nil, err
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	return ctx, log, func() {
		stop()
		_ = log.Sync()
	}, nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
