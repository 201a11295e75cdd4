package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"bhw-patient-registry/internal/adapters/export/xlsx"
	"bhw-patient-registry/internal/domain/dates"
	"bhw-patient-registry/internal/domain/patients"
	"bhw-patient-registry/internal/domain/reports"
	"bhw-patient-registry/internal/domain/validation"
	"bhw-patient-registry/internal/platform/logger"

	"github.com/spf13/cobra"
)

// withRegistry abre el registro para un comando del CLI (logs a stderr).
func withRegistry(cmd *cobra.Command, fn func(ctx context.Context, reg *registry) error) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	log, err := newLogger(cfg, "stderr")
	if err != nil {
		return fmt.Errorf("logger: %w", err)
	}
	defer logger.Sync(log)

	ctx := cmd.Context()
	reg, err := openRegistry(ctx, cfg, log, nil)
	if err != nil {
		return err
	}
	defer reg.Close()

	return fn(ctx, reg)
}

func addCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "add",
		Short: "Register a new resident",
		RunE: func(cmd *cobra.Command, args []string) error {
			in := patients.CreateInput{}
			in.Name, _ = cmd.Flags().GetString("name")
			in.Birthday, _ = cmd.Flags().GetString("birthday")
			in.LMP, _ = cmd.Flags().GetString("lmp")
			in.Sitio, _ = cmd.Flags().GetString("sitio")
			in.Conditions, _ = cmd.Flags().GetStringSlice("condition")
			in.PWDType, _ = cmd.Flags().GetString("pwd-type")

			return withRegistry(cmd, func(ctx context.Context, reg *registry) error {
				p, err := withConfirmation(cmd, func(d validation.Decision) (patients.Patient, error) {
					return reg.svc.Register(ctx, in, d)
				})
				if err != nil {
					return err
				}
				if err := reg.persist(ctx); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Patient %s registered with ID %d.\n", p.Name, p.ID)
				return nil
			})
		},
	}

	cmd.Flags().String("name", "", "full name (required)")
	cmd.Flags().String("birthday", dates.Unknown, "YYYY-MM-DD or N/A")
	cmd.Flags().String("lmp", dates.Unknown, "last menstrual period, YYYY-MM-DD or N/A")
	cmd.Flags().String("sitio", "", "sitio")
	cmd.Flags().StringSlice("condition", nil, "health condition (repeatable)")
	cmd.Flags().String("pwd-type", patients.NotPWD, "PWD category")
	_ = cmd.MarkFlagRequired("name")
	return cmd
}

func updateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "update ID",
		Short: "Add a history entry; optionally change health status, PWD type and LMP",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.Atoi(strings.TrimSpace(args[0]))
			if err != nil || id <= 0 {
				return fmt.Errorf("invalid id %q", args[0])
			}

			return withRegistry(cmd, func(ctx context.Context, reg *registry) error {
				cur, err := reg.svc.GetByID(ctx, id)
				if err != nil {
					return err
				}
				in := updateInput(cmd, cur)

				p, err := withConfirmation(cmd, func(d validation.Decision) (patients.Patient, error) {
					return reg.svc.Update(ctx, id, in, d)
				})
				if err != nil {
					return err
				}
				if err := reg.persist(ctx); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Patient %d updated (%d records).\n", p.ID, len(p.Records))
				return nil
			})
		},
	}

	cmd.Flags().String("record", "", "history entry (required)")
	cmd.Flags().String("health-status", "", "new health status (default: keep current)")
	cmd.Flags().String("pwd-type", "", "new PWD category (default: keep current)")
	cmd.Flags().String("lmp", "", "new LMP, YYYY-MM-DD or N/A (default: keep current)")
	return cmd
}

// updateInput arma el cambio partiendo de los valores actuales; solo pisa los flags indicados.
func updateInput(cmd *cobra.Command, cur patients.Patient) patients.UpdateInput {
	in := patients.UpdateInput{
		HealthStatus: cur.HealthStatus,
		PWDType:      cur.PWDType,
		LMP:          cur.LMP,
	}
	in.RecordText, _ = cmd.Flags().GetString("record")

	flags := cmd.Flags()
	if flags.Changed("health-status") {
		in.HealthStatus, _ = flags.GetString("health-status")
	}
	if flags.Changed("pwd-type") {
		in.PWDType, _ = flags.GetString("pwd-type")
	}
	if flags.Changed("lmp") {
		in.LMP, _ = flags.GetString("lmp")
	}
	return in
}

// withConfirmation ejecuta op y, si la LMP es reciente y no hay --recent-lmp, pregunta por stdin.
func withConfirmation(cmd *cobra.Command, op func(validation.Decision) (patients.Patient, error)) (patients.Patient, error) {
	flag, _ := cmd.Flags().GetString("recent-lmp")
	decision := validation.ParseDecision(flag)

	p, err := op(decision)
	candidate, ok := validation.NeedsConfirmation(err)
	if !ok {
		return p, err
	}

	in := bufio.NewReader(cmd.InOrStdin())
	confirm := func(c time.Time) bool {
		fmt.Fprintf(cmd.OutOrStdout(),
			"LMP %s is less than 4 weeks ago; the patient is not considered pregnant yet.\nSave with LMP = N/A instead? [y/N]: ",
			dates.Format(c))
		line, _ := in.ReadString('\n')
		return validation.ParseDecision(line) == validation.ClearRecentLMP
	}
	return op(validation.Resolve(confirm, candidate))
}

func findCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "find ID|NAME",
		Short: "Show a resident profile",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			term := strings.Join(args, " ")
			return withRegistry(cmd, func(ctx context.Context, reg *registry) error {
				p, ok, err := reg.svc.Find(ctx, term)
				if err != nil {
					return err
				}
				if !ok {
					return fmt.Errorf("patient not found: %q", term)
				}
				printProfile(cmd.OutOrStdout(), p, reg.svc.Now())
				return nil
			})
		},
	}
}

func printProfile(w io.Writer, p patients.Patient, today time.Time) {
	age := dates.Unknown
	if a := p.Age(today); a != dates.UnknownAge {
		age = strconv.Itoa(a)
	}
	est := p.Pregnancy(today)

	fmt.Fprintf(w, "ID:            %d\n", p.ID)
	fmt.Fprintf(w, "Name:          %s\n", p.Name)
	fmt.Fprintf(w, "Birthday:      %s (age %s)\n", p.Birthday, age)
	fmt.Fprintf(w, "Sitio:         %s\n", p.Sitio)
	fmt.Fprintf(w, "Health status: %s\n", p.HealthStatus)
	fmt.Fprintf(w, "PWD type:      %s\n", p.PWDType)
	fmt.Fprintf(w, "LMP:           %s\n", p.LMP)
	fmt.Fprintf(w, "EDD:           %s\n", est.Label())

	if up := est.Upcoming(); len(up) > 0 {
		fmt.Fprintln(w, "\nUpcoming visits:")
		for _, v := range up {
			fmt.Fprintf(w, "  - %s\n", v)
		}
	} else if est.IsActive() {
		fmt.Fprintln(w, "\nNo upcoming checkups.")
	}

	fmt.Fprintln(w, "\nHistory:")
	for _, r := range p.Records {
		fmt.Fprintf(w, "  %s\n", r)
	}
}

func reportCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "report",
		Short: "Print the registry summary",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withRegistry(cmd, func(ctx context.Context, reg *registry) error {
				snap, err := reports.NewService(reg.svc).Snapshot(ctx)
				if err != nil {
					return err
				}
				printSnapshot(cmd.OutOrStdout(), snap)
				return nil
			})
		},
	}
}

func printSnapshot(w io.Writer, s reports.Snapshot) {
	fmt.Fprintf(w, "Total residents:   %d\n", s.Total)
	fmt.Fprintf(w, "Senior citizens:   %d\n", s.Seniors)
	fmt.Fprintf(w, "Active pregnant:   %d\n", s.ActivePregnancies)
	fmt.Fprintf(w, "Registered PWD:    %d\n", s.PWD)

	fmt.Fprintln(w, "\nResidents by sitio:")
	for _, sc := range s.BySitio {
		fmt.Fprintf(w, "  %-20s %d\n", sc.Sitio, sc.Count)
	}
	fmt.Fprintf(w, "  %-20s %d\n", "N/A or Undefined", s.Undefined)

	fmt.Fprintln(w, "\nIllness breakdown (excluding NORMAL):")
	if len(s.Illnesses) == 0 {
		fmt.Fprintln(w, "  none recorded")
	}
	for _, sh := range s.Illnesses {
		fmt.Fprintf(w, "  %-24s %4d  %.1f%%\n", sh.Name, sh.Count, sh.Percent)
	}

	fmt.Fprintln(w, "\nPWD categories:")
	for _, sh := range s.PWDCategories {
		fmt.Fprintf(w, "  %-24s %4d  %.1f%%\n", sh.Name, sh.Count, sh.Percent)
	}
}

func exportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write the registry to a CSV or XLSX file",
		RunE: func(cmd *cobra.Command, args []string) error {
			out, _ := cmd.Flags().GetString("out")
			return withRegistry(cmd, func(ctx context.Context, reg *registry) error {
				if out == "" {
					out = patients.DefaultExportName(reg.svc.Now())
				}

				switch strings.ToLower(filepath.Ext(out)) {
				case ".xlsx":
					if err := exportWorkbook(ctx, reg.svc, out); err != nil {
						return err
					}
				case ".csv":
					if err := reg.svc.SaveFile(ctx, out); err != nil {
						return err
					}
				default:
					return fmt.Errorf("unsupported export format %q (use .csv or .xlsx)", filepath.Ext(out))
				}

				fmt.Fprintf(cmd.OutOrStdout(), "Registry exported to %s\n", out)
				return nil
			})
		},
	}

	cmd.Flags().String("out", "", "output file, .csv or .xlsx (default BHW_Patient_Registry_YYYYMMDD.csv)")
	return cmd
}

func exportWorkbook(ctx context.Context, svc *patients.Service, path string) error {
	wb, err := reports.NewService(svc).Workbook(ctx)
	if err != nil {
		return err
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("export %s: %w", path, err)
	}
	if err := xlsx.New().WriteWorkbook(f, wb); err != nil {
		_ = f.Close()
		return fmt.Errorf("export %s: %w", path, err)
	}
	return f.Close()
}
