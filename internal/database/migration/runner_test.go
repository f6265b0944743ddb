package migration

import (
	"strings"
	"testing"
	"testing/fstest"
)

func TestLoadMigrationsSortsByVersion(t *testing.T) {
	src := fstest.MapFS{
		"V2__add_index.sql":      {Data: []byte("CREATE INDEX idx ON t (a);")},
		"V1__initial_schema.sql": {Data: []byte("CREATE TABLE t (a INT);")},
		"V10__widen_column.sql":  {Data: []byte("ALTER TABLE t ALTER COLUMN a TYPE BIGINT;")},
	}

	migs, err := loadMigrations(src)
	if err != nil {
		t.Fatalf("loadMigrations: %v", err)
	}
	if len(migs) != 3 {
		t.Fatalf("expected 3 migrations, got %d", len(migs))
	}
	for i, want := range []int64{1, 2, 10} {
		if migs[i].Version != want {
			t.Errorf("position %d: want version %d, got %d", i, want, migs[i].Version)
		}
	}
	if migs[0].Name != "initial_schema" {
		t.Errorf("unexpected name: %q", migs[0].Name)
	}
}

func TestLoadMigrationsIgnoresNonMatchingFiles(t *testing.T) {
	src := fstest.MapFS{
		"V1__schema.sql": {Data: []byte("CREATE TABLE t (a INT);")},
		"README.md":      {Data: []byte("notes")},
		"schema.sql":     {Data: []byte("not versioned")},
	}

	migs, err := loadMigrations(src)
	if err != nil {
		t.Fatalf("loadMigrations: %v", err)
	}
	if len(migs) != 1 {
		t.Fatalf("expected 1 migration, got %d", len(migs))
	}
}

func TestLoadMigrationsRejectsDuplicateVersions(t *testing.T) {
	src := fstest.MapFS{
		"V1__first.sql":  {Data: []byte("SELECT 1;")},
		"V1__second.sql": {Data: []byte("SELECT 2;")},
	}

	if _, err := loadMigrations(src); err == nil || !strings.Contains(err.Error(), "duplicate") {
		t.Fatalf("expected duplicate version error, got %v", err)
	}
}

func TestLoadMigrationsRejectsEmptyFile(t *testing.T) {
	src := fstest.MapFS{
		"V1__empty.sql": {Data: []byte("   \n")},
	}

	if _, err := loadMigrations(src); err == nil || !strings.Contains(err.Error(), "empty") {
		t.Fatalf("expected empty file error, got %v", err)
	}
}

func TestChecksumTracksContent(t *testing.T) {
	a := fstest.MapFS{"V1__s.sql": {Data: []byte("CREATE TABLE a (x INT);")}}
	b := fstest.MapFS{"V1__s.sql": {Data: []byte("CREATE TABLE b (x INT);")}}

	ma, err := loadMigrations(a)
	if err != nil {
		t.Fatalf("loadMigrations: %v", err)
	}
	mb, err := loadMigrations(b)
	if err != nil {
		t.Fatalf("loadMigrations: %v", err)
	}
	if ma[0].Checksum == mb[0].Checksum {
		t.Fatal("different content should produce different checksums")
	}
}

func TestEmbeddedMigrationsParse(t *testing.T) {
	migs, err := loadEmbedded()
	if err != nil {
		t.Fatalf("loadEmbedded: %v", err)
	}
	if len(migs) == 0 {
		t.Fatal("no embedded migrations found")
	}
	if migs[0].Version != 1 {
		t.Errorf("first embedded migration should be version 1, got %d", migs[0].Version)
	}
}
