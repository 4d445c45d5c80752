package store

import (
	"context"
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"

	"gitlab.com/tinyland/lab/parkicle/pkg/station"
)

const seedYAML = `
areas:
  B2:
    - id: CS-02
      carNum: "12GA3456"
      chargingTime: 35
    - id: CS-01
    - id: CS-03
      carNum: "77NA0001"
      isIllegal: true
  empty: []
`

func mustSeed(t *testing.T) *Seed {
	t.Helper()
	s, err := LoadSeed(strings.NewReader(seedYAML))
	if err != nil {
		t.Fatalf("LoadSeed: %v", err)
	}
	return s
}

// exerciseBackend checks the read/write contract every backend shares.
func exerciseBackend(t *testing.T, b Backend) {
	t.Helper()
	ctx := context.Background()

	n, err := mustSeed(t).Apply(ctx, b)
	if err != nil {
		t.Fatalf("Apply: %v", err)
	}
	if n != 3 {
		t.Errorf("expected 3 documents written, got %d", n)
	}

	got, err := b.FetchCollection(ctx, "B2")
	if err != nil {
		t.Fatalf("FetchCollection: %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("expected 3 stations, got %d", len(got))
	}
	if got[0].ID != "CS-01" || got[1].ID != "CS-02" || got[2].ID != "CS-03" {
		t.Errorf("expected stations ordered by id, got %v", got)
	}
	if got[1].CarNum != "12GA3456" || got[1].ChargingTime != 35 {
		t.Errorf("unexpected CS-02 %+v", got[1])
	}
	if got[0].CarNum != "" {
		t.Errorf("expected CS-01 unoccupied, got %q", got[0].CarNum)
	}
	if !got[2].IsIllegal {
		t.Error("expected CS-03 illegal")
	}

	// Overwrite keeps one document per id.
	if err := b.PutStation(ctx, "B2", station.Station{ID: "CS-02"}); err != nil {
		t.Fatalf("PutStation: %v", err)
	}
	got, err = b.FetchCollection(ctx, "B2")
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 3 || got[1].CarNum != "" || got[1].ChargingTime != 0 {
		t.Errorf("expected CS-02 cleared in place, got %v", got)
	}

	none, err := b.FetchCollection(ctx, "nowhere")
	if err != nil {
		t.Fatalf("FetchCollection(nowhere): %v", err)
	}
	if len(none) != 0 {
		t.Errorf("expected no stations for unknown area, got %d", len(none))
	}
}

func TestMemoryStore(t *testing.T) {
	exerciseBackend(t, NewMemoryStore())
}

func TestMemoryStoreDeny(t *testing.T) {
	m := NewMemoryStore()
	m.Deny("locked")

	_, err := m.FetchCollection(context.Background(), "locked")
	if !IsPermissionDenied(err) {
		t.Fatalf("expected permission denied, got %v", err)
	}
	var fe *FetchError
	if !errors.As(err, &fe) || fe.Area != "locked" {
		t.Errorf("expected FetchError for area 'locked', got %v", err)
	}
}

func TestMemoryStoreCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := NewMemoryStore().FetchCollection(ctx, "B2")
	if err == nil || IsPermissionDenied(err) {
		t.Errorf("expected a non-permission error, got %v", err)
	}
}

func TestSQLiteStore(t *testing.T) {
	s, err := OpenSQLite(context.Background(), filepath.Join(t.TempDir(), "stations.db"))
	if err != nil {
		t.Fatalf("OpenSQLite: %v", err)
	}
	defer s.Close()
	exerciseBackend(t, s)
}

func TestOpenUnknownDriver(t *testing.T) {
	if _, err := Open(context.Background(), Options{Driver: "firestore"}); err == nil {
		t.Error("expected error for unknown driver")
	}
}

func TestOpenSQLiteNeedsPath(t *testing.T) {
	if _, err := Open(context.Background(), Options{Driver: "sqlite"}); err == nil {
		t.Error("expected error for sqlite without a path")
	}
}

func TestOpenDefaultsToMemory(t *testing.T) {
	b, err := Open(context.Background(), Options{})
	if err != nil {
		t.Fatal(err)
	}
	defer b.Close()
	if b.Name() != "memory" {
		t.Errorf("expected memory backend, got %q", b.Name())
	}
}

func TestLoadSeedRejectsDuplicateIDs(t *testing.T) {
	_, err := LoadSeed(strings.NewReader("areas:\n  A:\n    - id: X\n    - id: X\n"))
	if err == nil || !strings.Contains(err.Error(), "duplicate") {
		t.Errorf("expected duplicate id error, got %v", err)
	}
}

func TestLoadSeedRejectsMissingID(t *testing.T) {
	if _, err := LoadSeed(strings.NewReader("areas:\n  A:\n    - carNum: X\n")); err == nil {
		t.Error("expected error for entry without id")
	}
}

func TestLoadSeedRejectsUnknownFields(t *testing.T) {
	if _, err := LoadSeed(strings.NewReader("areas:\n  A:\n    - id: X\n      colour: red\n")); err == nil {
		t.Error("expected error for unknown field")
	}
}

func TestSeedAreaNamesSorted(t *testing.T) {
	names := mustSeed(t).AreaNames()
	if len(names) != 2 || names[0] != "B2" || names[1] != "empty" {
		t.Errorf("unexpected area names %v", names)
	}
}

func TestClassifyPostgres(t *testing.T) {
	err := classifyPostgres("B2", &pgconn.PgError{Code: "42501", Message: "permission denied for table stations"})
	if !IsPermissionDenied(err) {
		t.Errorf("expected 42501 to map to permission denied, got %v", err)
	}
	if !strings.Contains(err.Error(), "permission denied for table stations") {
		t.Errorf("expected driver message preserved, got %q", err.Error())
	}

	err = classifyPostgres("B2", &pgconn.PgError{Code: "57014", Message: "canceling statement"})
	if IsPermissionDenied(err) {
		t.Errorf("expected 57014 to be a plain failure, got %v", err)
	}
}

func TestClassifyRedis(t *testing.T) {
	if !IsPermissionDenied(classifyRedis("B2", errors.New("NOPERM this user has no permissions to run the 'hgetall' command"))) {
		t.Error("expected NOPERM to map to permission denied")
	}
	if IsPermissionDenied(classifyRedis("B2", errors.New("dial tcp: connection refused"))) {
		t.Error("expected connection error to be a plain failure")
	}
}

func TestMockFetcher(t *testing.T) {
	m := NewMockFetcher(WithStations(station.Station{ID: "CS-01"}))
	got, err := m.FetchCollection(context.Background(), "B2")
	if err != nil || len(got) != 1 {
		t.Fatalf("unexpected result %v, %v", got, err)
	}
	if m.CallCount() != 1 || m.LastArea() != "B2" {
		t.Errorf("expected 1 call for B2, got %d for %q", m.CallCount(), m.LastArea())
	}

	m.SetError(ErrPermissionDenied)
	if _, err := m.FetchCollection(context.Background(), "B2"); !IsPermissionDenied(err) {
		t.Errorf("expected configured error, got %v", err)
	}
}
