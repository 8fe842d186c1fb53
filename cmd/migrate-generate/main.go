package main

import (
	"cmp"
	"log"
	"os"
	"os/exec"
	"path/filepath"

	"ariga.io/atlas-provider-gorm/gormschema"
	"github.com/josericardo-fo/jul.ia-bancodedados/internal/callrecord"
)

const (
	minArgs = 2

	// overridable through ATLAS_DEV_URL when docker is not available
	defaultDevURL = "docker://postgres/15/dev?search_path=public"
	migrationsDir = "file://migrations?format=golang-migrate"
)

func main() {
	if len(os.Args) < minArgs {
		log.Fatal("usage: migrate-generate <name> (diffs the conversas call_records model)")
	}

	migrationName := filepath.Base(os.Args[1])

	schema, err := gormschema.New("postgres").Load(&callrecord.CallRecord{})
	if err != nil {
		log.Fatalf("failed to load %s schema: %v", callrecord.CallRecord{}.TableName(), err)
	}

	schemaPath, err := writeSchema(schema)
	if err != nil {
		log.Fatal(err)
	}
	defer os.Remove(schemaPath)

	cmd := exec.Command(
		"atlas",
		"migrate", "diff",
		migrationName,
		"--to", "file://"+schemaPath,
		"--dev-url", cmp.Or(os.Getenv("ATLAS_DEV_URL"), defaultDevURL),
		"--dir", migrationsDir,
	)

	out, err := cmd.CombinedOutput()
	if err != nil {
		log.Fatalf("atlas diff failed: %v\n%s", err, out)
	}

	log.Printf("conversas migration %q generated:\n%s", migrationName, out)
}

func writeSchema(schema string) (string, error) {
	tmp, err := os.CreateTemp("", "conversas-schema-*.sql")
	if err != nil {
		return "", err
	}

	_, err = tmp.WriteString(schema)
	if err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmp.Name())

		return "", err
	}

	err = tmp.Close()
	if err != nil {
		_ = os.Remove(tmp.Name())

		return "", err
	}

	return filepath.Abs(tmp.Name())
}
