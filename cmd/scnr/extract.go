// Copyright (c) 2025 Michael D Henderson. All rights reserved.

package main

import (
	"context"
	"fmt"
	"io"
	"log"
	"log/slog"
	"os"
	"strings"

	"github.com/mdhender/scnr/export"
	"github.com/mdhender/scnr/pipelines/extract"
	store "github.com/mdhender/scnr/stores/sqlite"
	"github.com/spf13/cobra"
)

func cmdExtract() *cobra.Command {
	var format, types, dbPath, outputFile, names string
	var localeTag, localeFile string
	var limit int
	var ndjson, showDBStats bool
	addFlags := func(cmd *cobra.Command) error {
		cmd.Flags().StringVarP(&format, "format", "f", format, "format of one record")
		cmd.Flags().StringVarP(&types, "types", "t", types, "comma separated field types (string, int, uint, float, bool, rune)")
		cmd.Flags().StringVar(&dbPath, "db", dbPath, "save the run to this database (default in-memory)")
		cmd.Flags().StringVarP(&outputFile, "output", "o", outputFile, "write records as JSON to file (- for stdout)")
		cmd.Flags().StringVar(&names, "names", names, "comma separated field names for JSON output")
		cmd.Flags().StringVar(&localeTag, "locale", localeTag, "BCP 47 locale tag for L fields")
		cmd.Flags().StringVar(&localeFile, "locale-file", localeFile, "load the locale from a TOML or YAML file")
		cmd.Flags().IntVar(&limit, "limit", limit, "stop after this many records")
		cmd.Flags().BoolVar(&ndjson, "ndjson", ndjson, "write newline delimited JSON")
		cmd.Flags().BoolVar(&showDBStats, "show-db-stats", showDBStats, "show database row counts")
		return cmd.MarkFlagRequired("format")
	}
	var cmd = &cobra.Command{
		Use:          "extract <file>",
		Short:        "scan a file into records, one pass of the format per record",
		SilenceUsage: true,
		Args:         cobra.ExactArgs(1), // require path to the input file
		RunE: func(cmd *cobra.Command, args []string) error {
			fieldTypes, err := extract.ParseFieldTypes(types)
			if err != nil {
				return err
			}
			loc, err := loadLocale(localeTag, localeFile)
			if err != nil {
				return err
			}

			sqliteStore, err := openStore(dbPath)
			if err != nil {
				return err
			}
			defer sqliteStore.Close()

			ctx := context.Background()
			svc := extract.NewService(sqliteStore)
			svc.SetLogger(slog.Default())
			run, runErr := svc.Extract(ctx, extract.Request{
				Path:   args[0],
				Format: format,
				Types:  fieldTypes,
				Locale: loc,
				Limit:  limit,
			})
			if run == nil {
				return runErr
			}
			log.Printf("extract: run %s: %s: %d records\n", run.ID, run.Status, run.Records)

			if outputFile != "" {
				recs, err := sqliteStore.GetRecords(ctx, run.ID)
				if err != nil {
					return err
				}
				var opts []export.Option
				opts = append(opts, export.WithNewlineDelimited(ndjson))
				if names != "" {
					opts = append(opts, export.WithFieldNames(strings.Split(names, ",")...))
				}
				var w io.Writer = os.Stdout
				if outputFile != "-" {
					fd, err := os.Create(outputFile)
					if err != nil {
						return err
					}
					defer fd.Close()
					w = fd
				}
				if err := export.New(opts...).Write(recs, w); err != nil {
					return fmt.Errorf("export: %w", err)
				}
			}

			if showDBStats {
				st, err := sqliteStore.Stats(ctx)
				if err != nil {
					return err
				}
				log.Printf("db: runs %d (failed %d), records %d\n", st.Runs, st.Failed, st.Records)
			}

			if runErr != nil {
				log.Printf("extract: %s: %v\n", extract.ErrorCode(runErr), runErr)
			}
			return runErr
		},
	}
	if err := addFlags(cmd); err != nil {
		log.Fatal(err)
	}
	return cmd
}

// openStore opens the database at path, or an in-memory one if path is empty.
func openStore(path string) (*store.SQLiteStore, error) {
	if path == "" {
		return store.NewSQLiteStore()
	}
	// File-based mode: database must already exist (created by init-db command)
	return store.NewSQLiteStoreWithConfig(store.StoreConfig{
		Path:       path,
		InitSchema: false,
	})
}
