// Copyright (c) 2025 Michael D Henderson. All rights reserved.

package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/mdhender/scnr/export"
	store "github.com/mdhender/scnr/stores/sqlite"
	"github.com/spf13/cobra"
)

func cmdInitDB() *cobra.Command {
	var dbPath string
	var cmd = &cobra.Command{
		Use:          "init-db",
		Short:        "create a new database file",
		SilenceUsage: true,
		Args:         cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := store.InitDatabase(dbPath); err != nil {
				return err
			}
			log.Printf("db: created %s\n", dbPath)
			return nil
		},
	}
	cmd.Flags().StringVar(&dbPath, "db", dbPath, "path to the database file")
	if err := cmd.MarkFlagRequired("db"); err != nil {
		log.Fatal(err)
	}
	return cmd
}

func cmdCompactDB() *cobra.Command {
	var dbPath string
	var cmd = &cobra.Command{
		Use:          "compact-db",
		Short:        "checkpoint and vacuum a database file",
		SilenceUsage: true,
		Args:         cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return store.CompactDatabase(dbPath)
		},
	}
	cmd.Flags().StringVar(&dbPath, "db", dbPath, "path to the database file")
	if err := cmd.MarkFlagRequired("db"); err != nil {
		log.Fatal(err)
	}
	return cmd
}

func cmdRuns() *cobra.Command {
	var dbPath, exportRun string
	var ndjson bool
	addFlags := func(cmd *cobra.Command) error {
		cmd.Flags().StringVar(&dbPath, "db", dbPath, "path to the database file")
		cmd.Flags().StringVar(&exportRun, "export", exportRun, "write the records of this run as JSON to stdout")
		cmd.Flags().BoolVar(&ndjson, "ndjson", ndjson, "write newline delimited JSON")
		return cmd.MarkFlagRequired("db")
	}
	var cmd = &cobra.Command{
		Use:          "runs",
		Short:        "list extraction runs",
		SilenceUsage: true,
		Args:         cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			sqliteStore, err := openStore(dbPath)
			if err != nil {
				return err
			}
			defer sqliteStore.Close()
			ctx := context.Background()

			if exportRun != "" {
				run, err := sqliteStore.GetRun(ctx, exportRun)
				if err != nil {
					return err
				} else if run == nil {
					return fmt.Errorf("run %s: not found", exportRun)
				}
				recs, err := sqliteStore.GetRecords(ctx, run.ID)
				if err != nil {
					return err
				}
				return export.New(export.WithNewlineDelimited(ndjson)).Write(recs, os.Stdout)
			}

			runs, err := sqliteStore.ListRuns(ctx)
			if err != nil {
				return err
			}
			for _, run := range runs {
				fmt.Printf("%s  %s  %-7s  %6d  %s  %q\n",
					run.ID, run.StartedAt.Local().Format(time.DateTime), run.Status, run.Records, run.Source, run.Format)
				if run.ErrorCode != nil {
					msg := ""
					if run.ErrorMessage != nil {
						msg = *run.ErrorMessage
					}
					fmt.Printf("    %s: %s\n", *run.ErrorCode, msg)
				}
			}
			return nil
		},
	}
	if err := addFlags(cmd); err != nil {
		log.Fatal(err)
	}
	return cmd
}
