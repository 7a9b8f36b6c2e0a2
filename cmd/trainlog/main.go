package main

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/jask/trainlog/internal/config"
	"github.com/jask/trainlog/internal/database"
	"github.com/jask/trainlog/internal/database/repository"
	"github.com/jask/trainlog/internal/kvstore"
	"github.com/jask/trainlog/internal/service"
	"github.com/jask/trainlog/internal/testdata"
	"github.com/jask/trainlog/internal/tui"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

// backend is an opened register with the services built on it.
type backend struct {
	register *service.RegisterService
	reset    service.Resetter
	close    func() error
}

func openBackend(ctx context.Context, cfg config.Config) (*backend, error) {
	switch cfg.Backend() {
	case config.BackendGData:
		store, err := kvstore.Open(cfg.Storage.AppName)
		if err != nil {
			return nil, err
		}
		return &backend{
			register: &service.RegisterService{
				Trainings:  store.Trainings(),
				Attendance: store.Attendance(),
				Types:      store.Types(),
				DateFormat: cfg.UI.DateFormat,
			},
			reset: store,
			close: func() error { return nil },
		}, nil
	default:
		db, err := database.Prepare(ctx, cfg.Database.Path)
		if err != nil {
			return nil, err
		}
		return &backend{
			register: &service.RegisterService{
				Trainings:  repository.NewTrainingRepo(db),
				Attendance: repository.NewAttendanceRepo(db),
				Types:      repository.NewTrainingTypeRepo(db),
				DateFormat: cfg.UI.DateFormat,
			},
			reset: &service.MaintenanceService{DB: db},
			close: db.Close,
		}, nil
	}
}

// withBackend loads configuration, opens the register and runs fn against it.
func withBackend(cmd *cobra.Command, fn func(ctx context.Context, cfg config.Config, b *backend) error) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("config: %w", err)
	}
	b, err := openBackend(ctx, cfg)
	if err != nil {
		return fmt.Errorf("open register: %w", err)
	}
	defer b.close()
	return fn(ctx, cfg, b)
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:          "trainlog",
		Short:        "Training register with on-screen attendance signatures",
		SilenceUsage: true,
		Args:         cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withBackend(cmd, runTUI)
		},
	}
	root.AddCommand(newReportCmd(), newExportCmd(), newImportCmd(), newSeedCmd(), newConfigCmd(), newInfoCmd())
	return root
}

func newSeedCmd() *cobra.Command {
	var (
		count int
		seed  int64
	)
	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Add sample trainings with drawn signatures",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withBackend(cmd, func(ctx context.Context, _ config.Config, b *backend) error {
				n, err := testdata.Seed(ctx, b.register, count, seed)
				fmt.Fprintf(cmd.OutOrStdout(), "added %d sample trainings\n", n)
				return err
			})
		},
	}
	cmd.Flags().IntVarP(&count, "count", "n", 5, "number of trainings")
	cmd.Flags().Int64Var(&seed, "seed", 1, "random seed")
	return cmd
}

func newConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage the configuration file",
	}
	var force bool
	initCmd := &cobra.Command{
		Use:   "init",
		Short: "Write the default configuration file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			path := config.Path()
			if _, err := os.Stat(path); err == nil && !force {
				return fmt.Errorf("%s already exists (use --force to overwrite)", path)
			}
			cfg, err := config.Default()
			if err != nil {
				return err
			}
			if err := config.Save(cfg); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "wrote %s\n", path)
			return nil
		},
	}
	initCmd.Flags().BoolVar(&force, "force", false, "overwrite an existing file")
	cmd.AddCommand(initCmd)
	return cmd
}

func newInfoCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "info",
		Short: "Show storage backend, location and register size",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withBackend(cmd, func(ctx context.Context, cfg config.Config, b *backend) error {
				w := cmd.OutOrStdout()
				fmt.Fprintf(w, "backend: %s\n", cfg.Backend())
				if cfg.Backend() == config.BackendGData {
					fmt.Fprintf(w, "app: %s\n", cfg.Storage.AppName)
				} else {
					v, dirty, err := database.SchemaVersion(cfg.Database.Path)
					if err != nil {
						return fmt.Errorf("schema version: %w", err)
					}
					fmt.Fprintf(w, "database: %s\nschema: %d", cfg.Database.Path, v)
					if dirty {
						fmt.Fprint(w, " (dirty)")
					}
					fmt.Fprintln(w)
				}
				list, err := b.register.ListTrainings(ctx, "")
				if err != nil {
					return err
				}
				signers := 0
				for _, t := range list {
					signers += t.Signers
				}
				fmt.Fprintf(w, "trainings: %d\nsignatures: %d\n", len(list), signers)
				return nil
			})
		},
	}
}

func runTUI(ctx context.Context, cfg config.Config, b *backend) error {
	if cfg.Log.Path != "" {
		f, err := tea.LogToFile(cfg.Log.Path, "trainlog")
		if err != nil {
			return fmt.Errorf("log file: %w", err)
		}
		defer f.Close()
	} else {
		log.SetOutput(io.Discard)
	}

	loc, err := time.LoadLocation(cfg.UI.Timezone)
	if err != nil {
		log.Printf("warn: using local timezone due to load failure: %v", err)
		loc = time.Local
	}

	app := tui.New(ctx, cfg, tui.Services{
		Register: b.register,
		Report:   &service.ReportService{Register: b.register, DateFormat: cfg.UI.DateFormat},
		Reset:    b.reset,
	}, loc)
	p := tea.NewProgram(app, tea.WithAltScreen(), tea.WithMouseCellMotion(), tea.WithContext(ctx))
	_, err = p.Run()
	return err
}

// writeFile creates path and fills it with write. The file is removed when
// writing or closing fails.
func writeFile(path string, write func(io.Writer) error) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := write(f); err != nil {
		f.Close()
		os.Remove(path)
		return err
	}
	if err := f.Close(); err != nil {
		os.Remove(path)
		return fmt.Errorf("close %s: %w", path, err)
	}
	return nil
}

func newReportCmd() *cobra.Command {
	var out string
	cmd := &cobra.Command{
		Use:   "report <training-id>",
		Short: "Write the attendance sheet of a training as PDF",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withBackend(cmd, func(ctx context.Context, cfg config.Config, b *backend) error {
				path := out
				if path == "" {
					path = fmt.Sprintf("attendance-%s.pdf", args[0])
				}
				report := &service.ReportService{Register: b.register, DateFormat: cfg.UI.DateFormat}
				err := writeFile(path, func(w io.Writer) error {
					return report.WriteAttendanceSheet(ctx, w, args[0])
				})
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "wrote %s\n", path)
				return nil
			})
		},
	}
	cmd.Flags().StringVarP(&out, "output", "o", "", "PDF path (default attendance-<id>.pdf)")
	return cmd
}

func newExportCmd() *cobra.Command {
	var (
		out        string
		signatures bool
	)
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Dump the register as YAML",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withBackend(cmd, func(ctx context.Context, _ config.Config, b *backend) error {
				exp := &service.ExportService{Register: b.register, IncludeSignatures: signatures}
				if out == "" || out == "-" {
					return exp.WriteYAML(ctx, cmd.OutOrStdout())
				}
				if err := writeFile(out, func(w io.Writer) error { return exp.WriteYAML(ctx, w) }); err != nil {
					return err
				}
				fmt.Fprintf(cmd.ErrOrStderr(), "wrote %s\n", out)
				return nil
			})
		},
	}
	cmd.Flags().StringVarP(&out, "output", "o", "", "YAML path (default stdout)")
	cmd.Flags().BoolVar(&signatures, "signatures", false, "embed signature data URIs")
	return cmd
}

func newImportCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "import <trainings.json>",
		Short: "Import trainings exported from the browser register",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withBackend(cmd, func(ctx context.Context, _ config.Config, b *backend) error {
				f, err := os.Open(args[0])
				if err != nil {
					return err
				}
				defer f.Close()
				res, err := (&service.ImportService{Register: b.register}).ImportJSON(ctx, f)
				if err != nil {
					return err
				}
				w := cmd.OutOrStdout()
				fmt.Fprintf(w, "imported %d, skipped %d, errors %d\n", res.Imported, res.Skipped, len(res.Errors))
				for _, e := range res.Errors {
					fmt.Fprintf(w, "  %v\n", e)
				}
				return nil
			})
		},
	}
}
