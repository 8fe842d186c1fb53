package main

import (
	"errors"
	"log"
	"os"
	"path/filepath"
	"strconv"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/josericardo-fo/jul.ia-bancodedados/internal/callrecord"
	"github.com/josericardo-fo/jul.ia-bancodedados/internal/config"
	"github.com/josericardo-fo/jul.ia-bancodedados/internal/database"
)

const (
	minArgs       = 2
	migrationsDir = "migrations"
	usage         = "usage: migrate-apply up | down [steps] | version (conversas postgres sink)"
)

func main() {
	if len(os.Args) < minArgs {
		log.Fatal(usage)
	}

	_, err := config.Load(nil)
	if err != nil {
		log.Fatal(err)
	}

	dir, err := filepath.Abs(migrationsDir)
	if err != nil {
		log.Fatal(err)
	}

	migrator, err := migrate.New("file://"+filepath.ToSlash(dir), database.GetURL())
	if err != nil {
		log.Fatalf("conversas migrations: %v", err)
	}

	defer func() {
		sourceErr, dbErr := migrator.Close()
		if sourceErr != nil || dbErr != nil {
			log.Printf("failed to close migrator: source=%v database=%v", sourceErr, dbErr)
		}
	}()

	switch os.Args[1] {
	case "up":
		err = migrator.Up()
	case "down":
		err = migrator.Steps(-downSteps(os.Args[2:]))
	case "version":
	default:
		log.Fatal(usage)
	}

	if err != nil && !errors.Is(err, migrate.ErrNoChange) {
		log.Fatal(err)
	}

	version, dirty, err := migrator.Version()
	if err != nil && !errors.Is(err, migrate.ErrNilVersion) {
		log.Fatal(err)
	}

	log.Printf("%s schema at version=%d dirty=%v", callrecord.CallRecord{}.TableName(), version, dirty)
}

// downSteps defaults to rolling back a single migration.
func downSteps(args []string) int {
	if len(args) == 0 {
		return 1
	}

	steps, err := strconv.Atoi(args[0])
	if err != nil || steps <= 0 {
		log.Fatalf("down expects a positive step count, got %q", args[0])
	}

	return steps
}
