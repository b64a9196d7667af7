package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/cmlabs-hris/absensi-backend-go/internal/domain/attendance"
	"github.com/cmlabs-hris/absensi-backend-go/internal/domain/auth"
	"github.com/cmlabs-hris/absensi-backend-go/internal/domain/employee"
	"github.com/cmlabs-hris/absensi-backend-go/internal/pkg/jwt"
	"github.com/cmlabs-hris/absensi-backend-go/internal/pkg/spreadsheet"
	"github.com/cmlabs-hris/absensi-backend-go/internal/pkg/storage"
	"github.com/cmlabs-hris/absensi-backend-go/internal/repository/postgresql"
	attendanceService "github.com/cmlabs-hris/absensi-backend-go/internal/service/attendance"
	serviceAuth "github.com/cmlabs-hris/absensi-backend-go/internal/service/auth"
	employeeService "github.com/cmlabs-hris/absensi-backend-go/internal/service/employee"
	"github.com/spf13/cobra"
)

func printJSON(cmd *cobra.Command, v interface{}) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func newNormalizeCommand() *cobra.Command {
	var (
		file   string
		year   int
		month  int
		cutoff string
	)

	cmd := &cobra.Command{
		Use:   "normalize",
		Short: "Normalize a wide timesheet and print the records as JSON",
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := os.Open(file)
			if err != nil {
				return err
			}
			defer f.Close()

			rows, err := spreadsheet.ReadRows(f, file)
			if err != nil {
				return err
			}

			result, err := attendanceService.Normalize(rows, attendanceService.NormalizeOptions{
				Year:   year,
				Month:  time.Month(month),
				Cutoff: cutoff,
			}, nil)
			if err != nil {
				return err
			}
			attendanceService.SortRecords(result.Records)

			return printJSON(cmd, map[string]interface{}{
				"records":  attendance.NewRecordResponses(result.Records),
				"warnings": result.Warnings,
			})
		},
	}

	cmd.Flags().StringVar(&file, "file", "", "timesheet file (.xlsx, .xls or .csv)")
	cmd.Flags().IntVar(&year, "year", time.Now().Year(), "year the day columns belong to")
	cmd.Flags().IntVar(&month, "month", int(time.Now().Month()), "month the day columns belong to")
	cmd.Flags().StringVar(&cutoff, "cutoff", attendanceService.DefaultCutoff, "latest on-time arrival (HH:MM)")
	_ = cmd.MarkFlagRequired("file")
	return cmd
}

func newImportCommand() *cobra.Command {
	var (
		file   string
		year   int
		month  int
		dryRun bool
	)

	cmd := &cobra.Command{
		Use:   "import",
		Short: "Import a monthly timesheet into the database",
		RunE: func(cmd *cobra.Command, args []string) error {
			content, err := os.ReadFile(file)
			if err != nil {
				return err
			}

			cfg, db, err := connect(cmd.Context())
			if err != nil {
				return err
			}
			defer db.Close()

			fileStorage, err := storage.NewLocalStorage(cfg.Storage.BasePath)
			if err != nil {
				return err
			}

			svc := attendanceService.NewAttendanceService(
				postgresql.NewTransactor(db),
				cfg.Attendance.CutoffTime,
				postgresql.NewAttendanceRepository(db),
				postgresql.NewLeaveRequestRepository(db),
				postgresql.NewEmployeeRepository(db),
				fileStorage,
			)

			result, err := svc.ImportTimesheet(cmd.Context(), attendance.ImportTimesheetRequest{
				Year:     year,
				Month:    month,
				Filename: filepath.Base(file),
				Content:  content,
				DryRun:   dryRun,
			})
			if err != nil {
				return err
			}
			return printJSON(cmd, result)
		},
	}

	cmd.Flags().StringVar(&file, "file", "", "timesheet file (.xlsx, .xls or .csv)")
	cmd.Flags().IntVar(&year, "year", 0, "year the day columns belong to")
	cmd.Flags().IntVar(&month, "month", 0, "month the day columns belong to")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "normalize only, do not write")
	_ = cmd.MarkFlagRequired("file")
	_ = cmd.MarkFlagRequired("year")
	_ = cmd.MarkFlagRequired("month")
	return cmd
}

func newImportEmployeesCommand() *cobra.Command {
	var file string

	cmd := &cobra.Command{
		Use:   "import-employees",
		Short: "Upsert employees (ID, Nama, Divisi) from a spreadsheet",
		RunE: func(cmd *cobra.Command, args []string) error {
			content, err := os.ReadFile(file)
			if err != nil {
				return err
			}

			_, db, err := connect(cmd.Context())
			if err != nil {
				return err
			}
			defer db.Close()

			svc := employeeService.NewEmployeeService(postgresql.NewTransactor(db), postgresql.NewEmployeeRepository(db))
			result, err := svc.Import(cmd.Context(), employee.ImportEmployeesRequest{
				Filename: filepath.Base(file),
				Content:  content,
			})
			if err != nil {
				return err
			}
			return printJSON(cmd, result)
		},
	}

	cmd.Flags().StringVar(&file, "file", "", "employee sheet (.xlsx, .xls or .csv)")
	_ = cmd.MarkFlagRequired("file")
	return cmd
}

func newAddUserCommand() *cobra.Command {
	var req auth.CreateUserRequest

	cmd := &cobra.Command{
		Use:   "add-user",
		Short: "Create a login",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, db, err := connect(cmd.Context())
			if err != nil {
				return err
			}
			defer db.Close()

			svc := serviceAuth.NewAuthService(
				postgresql.NewUserRepository(db),
				jwt.NewJWTService(cfg.JWT.Secret, cfg.JWT.AccessExpiration),
			)
			created, err := svc.CreateUser(cmd.Context(), req)
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "User created successfully: %s (%s)\n", created.Username, created.Role)
			return nil
		},
	}

	cmd.Flags().StringVar(&req.Username, "username", "", "login name")
	cmd.Flags().StringVar(&req.Password, "password", "", "password, at least 8 characters")
	cmd.Flags().StringVar(&req.Role, "role", "employee", "admin or employee")
	_ = cmd.MarkFlagRequired("username")
	_ = cmd.MarkFlagRequired("password")
	return cmd
}

func newMigrateCommand() *cobra.Command {
	var file string

	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Apply a SQL migration file",
		RunE: func(cmd *cobra.Command, args []string) error {
			schema, err := os.ReadFile(file)
			if err != nil {
				return err
			}

			_, db, err := connect(cmd.Context())
			if err != nil {
				return err
			}
			defer db.Close()

			if _, err := db.Exec(cmd.Context(), string(schema)); err != nil {
				return fmt.Errorf("failed to apply %s: %w", file, err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Applied %s\n", file)
			return nil
		},
	}

	cmd.Flags().StringVar(&file, "file", filepath.Join("migrations", "000001_init.up.sql"), "migration file")
	return cmd
}
