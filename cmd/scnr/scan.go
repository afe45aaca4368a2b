// Copyright (c) 2025 Michael D Henderson. All rights reserved.

package main

import (
	"fmt"
	"io"
	"log"
	"log/slog"
	"os"

	"github.com/mdhender/scnr"
	"github.com/mdhender/scnr/export"
	"github.com/mdhender/scnr/model"
	"github.com/mdhender/scnr/pipelines/extract"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
)

func cmdScan() *cobra.Command {
	var format, types, input, inputFile string
	var localeTag, localeFile string
	var asJSON, showRest bool
	addFlags := func(cmd *cobra.Command) error {
		cmd.Flags().StringVarP(&format, "format", "f", format, "format string, e.g. \"{} {:d}\"")
		cmd.Flags().StringVarP(&types, "types", "t", types, "comma separated field types (string, int, uint, float, bool, rune)")
		cmd.Flags().StringVarP(&input, "input", "i", input, "text to scan")
		cmd.Flags().StringVar(&inputFile, "file", inputFile, "scan the contents of a file")
		cmd.Flags().StringVar(&localeTag, "locale", localeTag, "BCP 47 locale tag for L fields")
		cmd.Flags().StringVar(&localeFile, "locale-file", localeFile, "load the locale from a TOML or YAML file")
		cmd.Flags().BoolVar(&asJSON, "json", asJSON, "print values as JSON")
		cmd.Flags().BoolVar(&showRest, "show-rest", showRest, "print the unscanned input")
		return cmd.MarkFlagRequired("format")
	}
	var cmd = &cobra.Command{
		Use:          "scan",
		Short:        "scan values from text (--input, --file or stdin)",
		SilenceUsage: true,
		Args:         cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			fieldTypes, err := extract.ParseFieldTypes(types)
			if err != nil {
				return err
			}
			if fieldTypes == nil {
				n, err := scnr.FieldCount(format)
				if err != nil {
					return err
				}
				for i := 0; i < n; i++ {
					fieldTypes = append(fieldTypes, extract.FieldString)
				}
			}
			loc, err := loadLocale(localeTag, localeFile)
			if err != nil {
				return err
			}

			name := "<input>"
			switch {
			case cmd.Flags().Changed("input"):
			case inputFile != "":
				data, err := afero.ReadFile(afero.NewOsFs(), inputFile)
				if err != nil {
					return err
				}
				name, input = inputFile, string(data)
			default:
				data, err := io.ReadAll(os.Stdin)
				if err != nil {
					return err
				}
				name, input = "<stdin>", string(data)
			}

			rest := input
			rng := scnr.BorrowBuffer(&rest)
			dests := extract.Destinations(fieldTypes)
			opts := []scnr.Option{scnr.WithLogger(slog.Default())}
			var res scnr.Result
			if loc != nil {
				res = scnr.VScanBorrowedBufferLocalized(rng, loc, scnr.NewParseContext(format), dests, opts...)
			} else {
				res = scnr.VScanBorrowedBuffer(rng, scnr.NewParseContext(format), dests, opts...)
			}
			if diag, failed := scnr.DiagnosticFromResult(res, []byte(input)); failed {
				scnr.PrintDiagnostic(os.Stderr, diag, name, []byte(input))
				return fmt.Errorf("scan failed: %w", res.Err)
			}

			values := extract.Values(dests)
			if asJSON {
				rec := model.Record{Seq: 1, Length: res.Pos, Values: values}
				if err := export.New(export.WithNewlineDelimited(true)).Write([]model.Record{rec}, os.Stdout); err != nil {
					return err
				}
			} else {
				for i, v := range values {
					fmt.Printf("%d\t%v\n", i, v)
				}
			}
			if showRest {
				fmt.Printf("rest\t%q\n", rest)
			}
			return nil
		},
	}
	if err := addFlags(cmd); err != nil {
		log.Fatal(err)
	}
	return cmd
}
