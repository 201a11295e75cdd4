// @title BHW Patient Registry API
// @version 1.0
// @description Registro de residentes del barangay: altas, historial, embarazos, listas y reportes.
// @BasePath /
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"bhw-patient-registry/internal/adapters/storage/csvfile"
	mem "bhw-patient-registry/internal/adapters/storage/memory"
	pg "bhw-patient-registry/internal/adapters/storage/postgres"
	"bhw-patient-registry/internal/domain/patients"
	"bhw-patient-registry/internal/platform/config"
	"bhw-patient-registry/internal/platform/logger"
	"bhw-patient-registry/internal/platform/metrics"
	"bhw-patient-registry/internal/router"

	"github.com/spf13/cobra"
)

func main() {
	rootCmd := &cobra.Command{
		Use:           "registry",
		Short:         "BHW patient registry",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().String("env-file", ".env", "optional .env file")
	rootCmd.PersistentFlags().String("data-file", "", "registry CSV file (overrides DATA_FILE)")
	rootCmd.PersistentFlags().String("recent-lmp", "", "answer for a recent LMP: clear|abort (default: ask)")

	rootCmd.AddCommand(serveCmd())
	rootCmd.AddCommand(migrateCmd())
	rootCmd.AddCommand(addCmd())
	rootCmd.AddCommand(updateCmd())
	rootCmd.AddCommand(findCmd())
	rootCmd.AddCommand(reportCmd())
	rootCmd.AddCommand(exportCmd())

	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the registry HTTP API",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			return runServer(cfg)
		},
	}
}

func migrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create the patients table in DB_DSN",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			if !cfg.UsePostgres() {
				return errors.New("migrate requires DB_DSN")
			}

			db, err := pg.Open(cmd.Context(), cfg.DBDSN)
			if err != nil {
				return err
			}
			defer db.Close()

			if err := pg.Migrate(cmd.Context(), db); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "migrations applied")
			return nil
		},
	}
}

func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	envFile, _ := cmd.Flags().GetString("env-file")
	cfg, err := config.Load(envFile)
	if err != nil {
		return nil, err
	}
	if dataFile, _ := cmd.Flags().GetString("data-file"); dataFile != "" {
		cfg.DataFile = dataFile
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	return cfg, nil
}

func newLogger(cfg *config.Config, output string) (logger.Logger, error) {
	return logger.New(logger.Options{
		Level:  logger.ParseLevel(cfg.LogLevel),
		Format: logger.ParseFormat(cfg.LogFormat),
		App:    cfg.AppName,
		Output: output,
	})
}

// registry es el servicio de pacientes más cómo persistirlo al terminar.
type registry struct {
	svc     *patients.Service
	cfg     *config.Config
	closeDB func() error
}

// openRegistry arma el servicio: Postgres si hay DB_DSN, si no memoria cargada desde DATA_FILE.
func openRegistry(ctx context.Context, cfg *config.Config, log logger.Logger, m patients.Metrics) (*registry, error) {
	opts := patients.Options{
		Taxonomy: cfg.Taxonomy(),
		Codec:    csvfile.New(),
		Logger:   log,
		Metrics:  m,
	}

	if cfg.UsePostgres() {
		db, err := pg.Open(ctx, cfg.DBDSN)
		if err != nil {
			return nil, err
		}
		return &registry{
			svc:     patients.NewService(pg.NewPatientsRepo(db), opts),
			cfg:     cfg,
			closeDB: db.Close,
		}, nil
	}

	svc := patients.NewService(mem.NewPatientRepo(), opts)
	if err := svc.LoadFile(ctx, cfg.DataFile); err != nil {
		// igual que al abrir la app: se arranca con el registro vacío
		log.Warn("registry file could not be loaded", map[string]any{"path": cfg.DataFile, "error": err.Error()})
	}
	return &registry{svc: svc, cfg: cfg}, nil
}

// persist guarda en DATA_FILE; con Postgres cada cambio ya quedó escrito.
// Si DATA_FILE no se pudo cargar no se escribe encima: se perderían sus pacientes.
func (r *registry) persist(ctx context.Context) error {
	if r.cfg.UsePostgres() {
		return nil
	}
	if r.svc.LoadFailed() {
		return fmt.Errorf("%w: %s (fix or move the file first)", errUnloadedDataFile, r.cfg.DataFile)
	}
	return r.svc.SaveFile(ctx, r.cfg.DataFile)
}

var errUnloadedDataFile = errors.New("registry file failed to load; refusing to overwrite it")

func (r *registry) Close() error {
	if r.closeDB != nil {
		return r.closeDB()
	}
	return nil
}

func runServer(cfg *config.Config) error {
	log, err := newLogger(cfg, "stdout")
	if err != nil {
		return fmt.Errorf("logger: %w", err)
	}
	defer logger.Sync(log)

	m := metrics.New()

	ctx := context.Background()
	reg, err := openRegistry(ctx, cfg, log, m)
	if err != nil {
		return err
	}
	defer reg.Close()

	r := router.NewRouter(router.Options{
		Logger:   log,
		Metrics:  m,
		Patients: reg.svc,
	})

	srv := &http.Server{
		Addr:         cfg.Addr(),
		Handler:      r,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 30 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("starting server", map[string]any{"addr": srv.Addr, "postgres": cfg.UsePostgres(), "data_file": cfg.DataFile})
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		if err != nil {
			log.Error("server error", map[string]any{"error": err.Error()})
			return err
		}
	case <-quit:
	}

	log.Info("shutting down server", nil)
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("server shutdown failed", map[string]any{"error": err.Error()})
	}

	if err := reg.persist(shutdownCtx); err != nil {
		log.Error("registry save on shutdown failed", map[string]any{"error": err.Error()})
		return err
	}
	log.Info("server stopped", nil)
	return nil
}
