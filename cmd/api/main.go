package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/cmlabs-hris/absensi-backend-go/internal/config"
	appHTTP "github.com/cmlabs-hris/absensi-backend-go/internal/handler/http"
	"github.com/cmlabs-hris/absensi-backend-go/internal/pkg/database"
	"github.com/cmlabs-hris/absensi-backend-go/internal/pkg/jwt"
	"github.com/cmlabs-hris/absensi-backend-go/internal/pkg/storage"
	"github.com/cmlabs-hris/absensi-backend-go/internal/repository/postgresql"
	attendanceService "github.com/cmlabs-hris/absensi-backend-go/internal/service/attendance"
	serviceAuth "github.com/cmlabs-hris/absensi-backend-go/internal/service/auth"
	employeeService "github.com/cmlabs-hris/absensi-backend-go/internal/service/employee"
	"github.com/cmlabs-hris/absensi-backend-go/internal/service/leave"
)

const version = "v1.0.0"

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Error loading config: ", err)
	}

	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: cfg.SlogLevel()})).With(
		slog.String("app", "absensi-cmlabs"),
		slog.String("version", version),
		slog.String("env", cfg.App.Env),
	))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := database.NewPostgreSQLDB(ctx, cfg.DatabaseURL())
	if err != nil {
		log.Fatal("Error connecting to database: ", err)
	}
	defer db.Close()

	fileStorage, err := storage.NewLocalStorage(cfg.Storage.BasePath)
	if err != nil {
		log.Fatal("Failed to initialize local storage: ", err)
	}

	transactor := postgresql.NewTransactor(db)
	userRepo := postgresql.NewUserRepository(db)
	employeeRepo := postgresql.NewEmployeeRepository(db)
	attendanceRepo := postgresql.NewAttendanceRepository(db)
	leaveRequestRepo := postgresql.NewLeaveRequestRepository(db)

	JWTService := jwt.NewJWTService(cfg.JWT.Secret, cfg.JWT.AccessExpiration)
	authService := serviceAuth.NewAuthService(userRepo, JWTService)
	leaveService := leave.NewLeaveService(transactor, leaveRequestRepo, attendanceRepo, employeeRepo)
	attendanceSvc := attendanceService.NewAttendanceService(
		transactor,
		cfg.Attendance.CutoffTime,
		attendanceRepo,
		leaveRequestRepo,
		employeeRepo,
		fileStorage,
	)
	employeeSvc := employeeService.NewEmployeeService(transactor, employeeRepo)

	authHandler := appHTTP.NewAuthHandler(authService)
	leaveHandler := appHTTP.NewLeaveHandler(leaveService)
	attendanceHandler := appHTTP.NewAttendanceHandler(attendanceSvc, cfg.UploadMaxBytes())
	employeeHandler := appHTTP.NewEmployeeHandler(employeeSvc, cfg.UploadMaxBytes())

	router := appHTTP.NewRouter(
		appHTTP.RouterOptions{
			FrontendURL: cfg.App.FrontendURL,
			Env:         cfg.App.Env,
			Version:     version,
			LogLevel:    cfg.SlogLevel(),
		},
		JWTService,
		authHandler,
		leaveHandler,
		attendanceHandler,
		employeeHandler,
	)

	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.App.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		slog.Info("server running", "addr", server.Addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("server error", "error", err)
			stop()
		}
	}()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		slog.Error("server shutdown error", "error", err)
	}
	slog.Info("server stopped")
}
