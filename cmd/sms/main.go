// Package main starts the student management console, setting up
// configuration, logging, the database, repositories, services and the
// interactive shell.
package main

import (
	"cmp"
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/atinyakov/sms/internal/config"
	"github.com/atinyakov/sms/internal/console"
	"github.com/atinyakov/sms/internal/db"
	"github.com/atinyakov/sms/internal/logger"
	"github.com/atinyakov/sms/internal/repository"
	"github.com/atinyakov/sms/internal/service"
	"github.com/atinyakov/sms/internal/session"
	"go.uber.org/zap"
)

var (
	// version holds the build version set via ldflags.
	version string
	// buildDate holds the build timestamp set via ldflags.
	buildDate string
)

func main() {
	// Parse command-line, file and environment configuration.
	options := config.Parse()

	// Print build metadata (or "N/A" if unset).
	fmt.Printf("Build version: %s\n", cmp.Or(version, "N/A"))
	fmt.Printf("Build date: %s\n", cmp.Or(buildDate, "N/A"))

	// Initialize structured logging.
	log := logger.New()
	defer func() { _ = log.Log.Sync() }()
	if err := log.Init(options.LogLevel); err != nil {
		log.Log.Fatal("failed to init logger", zap.Error(err))
	}
	zapLogger := log.Log

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Initialize PostgreSQL connection and schema.
	postgresDB, err := db.InitPostgres(options.DatabaseDSN)
	if err != nil {
		zapLogger.Fatal("cannot init database", zap.Error(err))
	}
	defer postgresDB.Close()

	if options.SeedDefaultAdmin {
		created, err := db.SeedDefaultAdmin(ctx, postgresDB)
		if err != nil {
			zapLogger.Fatal("cannot seed default admin", zap.Error(err))
		}
		if created {
			zapLogger.Info("default admin created", zap.String("email", db.DefaultAdminEmail))
		}
	}

	// Initialize repositories.
	adminRepo := repository.NewPostgresAdminRepository(postgresDB)
	studentRepo := repository.NewPostgresStudentRepository(postgresDB)
	courseRepo := repository.NewPostgresCourseRepository(postgresDB)

	// Initialize business-logic services.
	authService := service.NewAuthService(adminRepo, studentRepo, zapLogger)
	studentService := service.NewStudentService(studentRepo, zapLogger)
	courseService := service.NewCourseService(courseRepo, zapLogger)
	adminService := service.NewAdminService(adminRepo, zapLogger)

	// The session is shared by every screen for the lifetime of the process.
	sess := session.New()
	shell := console.NewShell(os.Stdin, os.Stdout, sess, console.Services{
		Auth:     authService,
		Courses:  courseService,
		Students: studentService,
		Admins:   adminService,
	}, zapLogger)

	fmt.Println("Student Management System. Type 'help' for a list of commands.")
	if err := shell.Run(ctx); err != nil && ctx.Err() == nil {
		zapLogger.Error("shell stopped", zap.Error(err))
	}
}
