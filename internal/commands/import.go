package commands

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/fintrack-dev/fintrack/internal/activitylog"
	"github.com/fintrack-dev/fintrack/internal/importer"
	"github.com/fintrack-dev/fintrack/internal/logging"
	"github.com/fintrack-dev/fintrack/internal/session"
)

func newImportCommand(opts *globalOptions) *cobra.Command {
	registry := importer.DefaultRegistry()

	return &cobra.Command{
		Use:   "import <format> [file]",
		Short: "Import a legacy ledger file",
		Long: "Import transactions from a legacy ledger. Formats: " + strings.Join(registry.Formats(), ", ") +
			". Without a file, every matching file in import/ is imported and moved to import/processed/.",
		Args: cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			parser := registry.Get(args[0])
			if parser == nil {
				return fmt.Errorf("unknown import format %q (have %s)", args[0], strings.Join(registry.Formats(), ", "))
			}

			a, err := openApp(opts.dir)
			if err != nil {
				return err
			}
			logger := logging.Logger(logging.SourceImporter)

			var imported int
			err = a.withSession(opts, func(s *session.Session) error {
				if len(args) == 2 {
					n, err := importOne(cmd.OutOrStdout(), s, a, parser, args[1])
					imported += n
					return err
				}

				files, err := importer.Scan(a.dataRoot(), parser.Ext())
				if err != nil {
					return err
				}
				if len(files) == 0 {
					fmt.Fprintf(cmd.OutOrStdout(), "No %s files in %s\n", parser.Ext(), filepath.Join(a.dataRoot(), "import"))
					return nil
				}
				for _, f := range files {
					n, err := importOne(cmd.OutOrStdout(), s, a, parser, f.Path)
					imported += n
					if err != nil {
						return err
					}
					if err := importer.MarkProcessed(a.dataRoot(), f.Name); err != nil {
						logger.Warn("could not move imported file", "file", f.Name, "error", err)
					}
				}
				return nil
			})
			if imported > 0 {
				a.snapshot(fmt.Sprintf("import: %d transaction(s)", imported))
			}
			return err
		},
	}
}

func importOne(out io.Writer, s *session.Session, a *app, parser importer.Parser, path string) (int, error) {
	res, err := importer.ImportFile(s, a.catalog, parser, path)
	details := fmt.Sprintf("%s %s: %d imported, %d skipped, %d rejected",
		parser.Format(), filepath.Base(path), res.Imported, len(res.Skipped), len(res.Rejected))
	s.LogActivity(activitylog.ActionImport, details)

	fmt.Fprintf(out, "%s: %d imported, %d skipped, %d rejected\n",
		filepath.Base(path), res.Imported, len(res.Skipped), len(res.Rejected))
	for _, le := range res.Skipped {
		fmt.Fprintf(out, "  skipped %v\n", le)
	}
	for _, r := range res.Rejected {
		fmt.Fprintf(out, "  rejected %s %s/%s: %v\n",
			r.Transaction.Timestamp.Format("2006-01-02"), r.Transaction.Category, r.Transaction.Subcategory, r.Err)
	}
	return res.Imported, err
}
