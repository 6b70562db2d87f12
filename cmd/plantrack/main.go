package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/alexanderramin/plantrack/internal/cli"
	"github.com/alexanderramin/plantrack/internal/db"
	"github.com/alexanderramin/plantrack/internal/repository"
	"github.com/alexanderramin/plantrack/internal/service"
	"github.com/mattn/go-isatty"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	// Determine DB path: env var or default ~/.plantrack/plantrack.db
	dbPath := os.Getenv("PLANTRACK_DB")
	if dbPath == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return fmt.Errorf("finding home directory: %w", err)
		}
		dbPath = filepath.Join(home, ".plantrack", "plantrack.db")
	}

	database, err := db.OpenDB(dbPath)
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer database.Close()

	// Wire repositories
	userRepo := repository.NewSQLiteUserRepo(database)
	planRepo := repository.NewSQLitePlanRepo(database)
	milestoneRepo := repository.NewSQLiteMilestoneRepo(database)
	initiativeRepo := repository.NewSQLiteInitiativeRepo(database)
	auditRepo := repository.NewSQLiteAuditLogRepo(database)
	notificationRepo := repository.NewSQLiteNotificationRepo(database)

	// Wire unit of work for transactional operations
	uow := db.NewSQLiteUnitOfWork(database)

	// Optional use-case logging, enabled with PLANTRACK_LOG=1
	var observer service.UseCaseObserver = service.NoopUseCaseObserver{}
	if os.Getenv("PLANTRACK_LOG") != "" {
		observer = service.NewLogUseCaseObserver(os.Stderr)
	}

	notifySvc := service.NewNotificationService(notificationRepo, observer)
	defer notifySvc.Drain()

	app := &cli.App{
		Plans:         service.NewPlanService(planRepo, uow, notifySvc, observer),
		Milestones:    service.NewMilestoneService(milestoneRepo, uow),
		Initiatives:   service.NewInitiativeService(initiativeRepo, uow, notifySvc, observer),
		Progress:      service.NewProgressService(uow),
		Cascade:       service.NewCascadeService(planRepo, milestoneRepo, initiativeRepo, uow, notifySvc, observer),
		Notifications: notifySvc,
		Audit:         service.NewAuditService(auditRepo),
		Import:        service.NewImportService(uow, notifySvc),
		Users:         userRepo,
	}

	// Detect interactive terminal so destructive commands can prompt.
	app.IsInteractive = func() bool {
		return isatty.IsTerminal(os.Stdin.Fd()) || isatty.IsCygwinTerminal(os.Stdin.Fd())
	}

	rootCmd := cli.NewRootCmd(app)
	return rootCmd.Execute()
}
