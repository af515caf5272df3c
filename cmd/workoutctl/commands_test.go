package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"example.com/workoutmap/internal/domain"
)

func execute(t *testing.T, dbPath string, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cmd := newRootCmd(&out)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs(append([]string{"--db", dbPath}, args...))
	err := cmd.Execute()
	return out.String(), err
}

func addRun(t *testing.T, dbPath string) record {
	t.Helper()
	out, err := execute(t, dbPath, "add", "--type", "running", "--lat", "51.5", "--lng", "-0.12",
		"--distance", "10", "--duration", "50", "--cadence", "170", "-o", "json")
	require.NoError(t, err)

	var records []record
	require.NoError(t, json.Unmarshal([]byte(out), &records))
	require.Len(t, records, 1)
	return records[0]
}

func TestAddPersistsAcrossInvocations(t *testing.T) {
	db := filepath.Join(t.TempDir(), "workouts.db")

	created := addRun(t, db)
	require.Equal(t, "running", created.Type)
	require.NotNil(t, created.Pace)
	require.InDelta(t, 5.0, *created.Pace, 1e-9)

	out, err := execute(t, db, "list", "-o", "json")
	require.NoError(t, err)
	var records []record
	require.NoError(t, json.Unmarshal([]byte(out), &records))
	require.Len(t, records, 1)
	require.Equal(t, created.ID, records[0].ID)
}

func TestAddRejectsInvalidMeasurements(t *testing.T) {
	db := filepath.Join(t.TempDir(), "workouts.db")

	_, err := execute(t, db, "add", "--type", "cycling", "--lat", "1", "--lng", "2",
		"--distance", "-3", "--duration", "20", "--elevation-gain", "-5")
	require.ErrorIs(t, err, domain.ErrInvalidInput)

	out, err := execute(t, db, "list", "-o", "json")
	require.NoError(t, err)
	require.JSONEq(t, "[]", out)
}

func TestListTableAndYAML(t *testing.T) {
	db := filepath.Join(t.TempDir(), "workouts.db")
	created := addRun(t, db)

	table, err := execute(t, db, "list")
	require.NoError(t, err)
	require.Contains(t, table, "SUMMARY")
	require.Contains(t, table, created.ID)

	out, err := execute(t, db, "list", "-o", "yaml")
	require.NoError(t, err)
	var records []record
	require.NoError(t, yaml.Unmarshal([]byte(out), &records))
	require.Len(t, records, 1)
	require.Equal(t, created.ID, records[0].ID)
}

func TestListRejectsUnknownFormat(t *testing.T) {
	_, err := execute(t, filepath.Join(t.TempDir(), "workouts.db"), "list", "-o", "xml")
	require.Error(t, err)
}

func TestEditRecomputesMetric(t *testing.T) {
	db := filepath.Join(t.TempDir(), "workouts.db")
	created := addRun(t, db)

	out, err := execute(t, db, "edit", created.ID, "--distance", "5", "--duration", "30", "--cadence", "160", "-o", "json")
	require.NoError(t, err)
	var records []record
	require.NoError(t, json.Unmarshal([]byte(out), &records))
	require.Len(t, records, 1)
	require.InDelta(t, 6.0, *records[0].Pace, 1e-9)
	require.Equal(t, created.Description, records[0].Description)
}

func TestShowAndEditUnknownID(t *testing.T) {
	db := filepath.Join(t.TempDir(), "workouts.db")

	_, err := execute(t, db, "show", "missing")
	require.ErrorIs(t, err, domain.ErrNotFound)

	_, err = execute(t, db, "edit", "missing", "--distance", "5", "--duration", "30", "--cadence", "160")
	require.ErrorIs(t, err, domain.ErrNotFound)
}

func TestDeleteAndClear(t *testing.T) {
	db := filepath.Join(t.TempDir(), "workouts.db")
	first := addRun(t, db)
	addRun(t, db)

	out, err := execute(t, db, "delete", first.ID)
	require.NoError(t, err)
	require.Contains(t, out, "deleted "+first.ID)

	out, err = execute(t, db, "delete", first.ID)
	require.NoError(t, err)
	require.Contains(t, out, "no workout")

	_, err = execute(t, db, "clear")
	require.NoError(t, err)

	out, err = execute(t, db, "list", "-o", "json")
	require.NoError(t, err)
	require.JSONEq(t, "[]", out)
}

func TestResetRemovesBlob(t *testing.T) {
	db := filepath.Join(t.TempDir(), "workouts.db")
	addRun(t, db)

	_, err := execute(t, db, "reset")
	require.NoError(t, err)

	out, err := execute(t, db, "list", "-o", "json")
	require.NoError(t, err)
	require.JSONEq(t, "[]", out)
}

func TestExportWritesGPX(t *testing.T) {
	dir := t.TempDir()
	db := filepath.Join(dir, "workouts.db")
	created := addRun(t, db)

	out, err := execute(t, db, "export")
	require.NoError(t, err)
	require.True(t, strings.Contains(out, "<gpx"))
	require.Contains(t, out, created.ID)

	file := filepath.Join(dir, "workouts.gpx")
	_, err = execute(t, db, "export", "-f", file)
	require.NoError(t, err)
	data, err := os.ReadFile(file)
	require.NoError(t, err)
	require.Contains(t, string(data), created.Description)
}

func TestStorageSettingsComeFromEnvironment(t *testing.T) {
	db := filepath.Join(t.TempDir(), "from-env.db")
	t.Setenv("STORAGE_BACKEND", "sqlite")
	t.Setenv("SQLITE_PATH", db)
	t.Setenv("STORAGE_KEY", "cli-workouts")

	var out bytes.Buffer
	cmd := newRootCmd(&out)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{"add", "--lat", "1", "--lng", "2", "--distance", "3", "--duration", "15", "--cadence", "160"})
	require.NoError(t, cmd.Execute())

	_, err := os.Stat(db)
	require.NoError(t, err)

	// a different key sees an empty collection in the same file
	out.Reset()
	cmd = newRootCmd(&out)
	cmd.SetArgs([]string{"list", "-o", "json", "--key", "other"})
	require.NoError(t, cmd.Execute())
	require.JSONEq(t, "[]", out.String())
}

func TestBackendFlagSelectsStore(t *testing.T) {
	db := filepath.Join(t.TempDir(), "workouts.db")

	_, err := execute(t, db, "--backend", "memory", "add", "--lat", "1", "--lng", "2",
		"--distance", "3", "--duration", "15", "--cadence", "160")
	require.NoError(t, err)
	_, err = os.Stat(db)
	require.True(t, os.IsNotExist(err))

	t.Setenv("STORAGE_BACKEND", "cassandra")
	_, err = execute(t, db, "list")
	require.ErrorContains(t, err, "unknown storage backend")
}
