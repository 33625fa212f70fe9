package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/joho/godotenv"
	"github.com/randeepbydesign/readfilesfast"
	"github.com/randeepbydesign/readfilesfast/excel"
	"github.com/randeepbydesign/readfilesfast/internal/logging"
	"github.com/randeepbydesign/readfilesfast/profile"
	"github.com/spf13/cobra"
)

func main() {
	// .env is optional
	_ = godotenv.Load()

	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var logMode string

	rootCmd := &cobra.Command{
		Use:           "readfiles",
		Short:         "Read spreadsheets, delimited text and JSON files into JSON records",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.PersistentFlags().StringVar(&logMode, "log-mode", envOr("LOG_MODE", "dev"), "Logger mode: dev|prod")

	rootCmd.AddCommand(
		newRunCmd(&logMode),
		newSheetsCmd(),
		newDescribeCmd(),
		newCheckCmd(),
	)
	return rootCmd
}

func newRunCmd(logMode *string) *cobra.Command {
	var outPath string
	var noSnapshot bool

	cmd := &cobra.Command{
		Use:   "run [profile.yaml]",
		Short: "Run an ingestion profile and print the records as JSON",
		Long: `Run an ingestion profile and print the records as a JSON array.

Workbooks with a header produce one object per group, keyed by header name.
Headerless workbooks and delimited files produce one array of fields per row.

Example: readfiles run profiles/orders.yaml --out orders.json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			log, err := logging.New(*logMode)
			if err != nil {
				return fmt.Errorf("init logger: %w", err)
			}
			defer log.Sync()

			p, err := profile.Load(args[0])
			if err != nil {
				return err
			}
			if noSnapshot {
				p.Snapshot = ""
			}

			records, err := readfilesfast.Run(cmd.Context(), p, log.SugaredLogger.Desugar())
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if outPath != "" {
				f, err := os.Create(outPath)
				if err != nil {
					return fmt.Errorf("create output: %w", err)
				}
				defer f.Close()
				out = f
			}
			log.Info("profile finished", "profile", p.Name, "records", len(records))
			return writeJSON(out, records)
		},
	}

	cmd.Flags().StringVar(&outPath, "out", "", "Write JSON to this file instead of stdout")
	cmd.Flags().BoolVar(&noSnapshot, "no-snapshot", false, "Ignore the profile's snapshot file")
	return cmd
}

func newSheetsCmd() *cobra.Command {
	var password string

	cmd := &cobra.Command{
		Use:   "sheets [file.xlsx]",
		Short: "List the sheets of a workbook in order",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var opts []excel.Option
			if password != "" {
				opts = append(opts, excel.WithPassword(password))
			}
			return listSheets(cmd.OutOrStdout(), args[0], opts...)
		},
	}
	cmd.Flags().StringVar(&password, "password", os.Getenv("XLSX_PASSWORD"), "Workbook password")
	return cmd
}

func newDescribeCmd() *cobra.Command {
	var password string
	var noHeader bool

	cmd := &cobra.Command{
		Use:   "describe [file.xlsx]",
		Short: "Summarize each sheet of a workbook: rows, columns and header",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := []excel.Option{excel.WithPassword(password)}
			if noHeader {
				opts = append(opts, excel.WithoutHeader())
			}
			out, err := excel.Describe(args[0], opts...)
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), out)
			return nil
		},
	}
	cmd.Flags().StringVar(&password, "password", os.Getenv("XLSX_PASSWORD"), "Workbook password")
	cmd.Flags().BoolVar(&noHeader, "no-header", false, "Treat the first row as data")
	return cmd
}

func newCheckCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "check [profile.yaml]",
		Short: "Check a workbook profile for header and key problems without mapping",
		Long: `Check a workbook profile for header and key problems without mapping.

Exits non-zero when any issue has ERROR severity.

Example: readfiles check profiles/orders.yaml`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := profile.Load(args[0])
			if err != nil {
				return err
			}
			if p.FormatOf() != profile.FormatXLSX {
				return fmt.Errorf("check supports workbook profiles only, got %q", p.FormatOf())
			}
			opts, err := p.ExcelOptions(nil)
			if err != nil {
				return err
			}
			issues, err := excel.Validate(p.File, opts...)
			if err != nil {
				return err
			}

			failed := 0
			for _, is := range issues {
				fmt.Fprintln(cmd.OutOrStdout(), is)
				if is.Severity == excel.SeverityError {
					failed++
				}
			}
			if failed > 0 {
				return fmt.Errorf("%d of %d issues are errors", failed, len(issues))
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s: ok (%d warnings)\n", p.Name, len(issues))
			return nil
		},
	}
	return cmd
}

func listSheets(w io.Writer, path string, opts ...excel.Option) error {
	names, err := excel.SheetNamesOf(path, opts...)
	if err != nil {
		return err
	}
	for i, name := range names {
		fmt.Fprintf(w, "%d\t%s\n", i, name)
	}
	return nil
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
