package repo

import (
	"context"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"ytbuzz/internal/models"
)

type noopLogger struct{}

func (noopLogger) Errorf(string, ...any) {}
func (noopLogger) Warnf(string, ...any)  {}
func (noopLogger) Infof(string, ...any)  {}

type fakeRow struct {
	payload []byte
	err     error
}

func (r fakeRow) Scan(dest ...any) error {
	if r.err != nil {
		return r.err
	}
	if len(dest) != 1 {
		return pgx.ErrNoRows
	}
	p, ok := dest[0].(*[]byte)
	if !ok {
		return pgx.ErrNoRows
	}
	*p = r.payload
	return nil
}

type fakeDriver struct {
	row fakeRow

	execSQL  []string
	execArgs [][]any
	execErr  error
	execCh   chan string
}

func (d *fakeDriver) QueryRow(_ context.Context, _ string, _ ...any) pgx.Row {
	return d.row
}

func (d *fakeDriver) Exec(_ context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	d.execSQL = append(d.execSQL, sql)
	d.execArgs = append(d.execArgs, args)
	if d.execCh != nil {
		d.execCh <- sql
	}
	return pgconn.CommandTag{}, d.execErr
}

func TestGetResult_Hit(t *testing.T) {
	want := &models.SearchResult{
		Keyword: "golang",
		Videos:  []models.Video{{VideoID: "v1", ImpactRatio: 2.5}},
	}
	payload, err := json.Marshal(want)
	if err != nil {
		t.Fatalf("marshal fixture: %v", err)
	}

	driver := &fakeDriver{
		row:    fakeRow{payload: payload},
		execCh: make(chan string, 1),
	}
	r := NewSearchCacheRepo(driver, noopLogger{}, time.Second)

	got, err := r.GetResult(context.Background(), "abcdef0123456789")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got == nil || got.Keyword != "golang" || len(got.Videos) != 1 {
		t.Fatalf("unexpected result: %+v", got)
	}

	// The hit must bump telemetry in the background.
	select {
	case sql := <-driver.execCh:
		if !strings.Contains(sql, "hit_count = hit_count + 1") {
			t.Errorf("expected telemetry update, got: %s", sql)
		}
	case <-time.After(time.Second):
		t.Fatal("telemetry update never ran")
	}
}

func TestGetResult_MissIsNotAnError(t *testing.T) {
	driver := &fakeDriver{row: fakeRow{err: pgx.ErrNoRows}}
	r := NewSearchCacheRepo(driver, noopLogger{}, time.Second)

	got, err := r.GetResult(context.Background(), "deadbeef")
	if err != nil {
		t.Fatalf("miss must not error, got: %v", err)
	}
	if got != nil {
		t.Fatalf("expected nil on miss, got: %+v", got)
	}
}

func TestGetResult_CorruptPayload(t *testing.T) {
	driver := &fakeDriver{row: fakeRow{payload: []byte("{broken")}}
	r := NewSearchCacheRepo(driver, noopLogger{}, time.Second)

	if _, err := r.GetResult(context.Background(), "deadbeef"); err == nil {
		t.Fatal("expected decode error")
	}
}

func TestSaveResult_Upsert(t *testing.T) {
	driver := &fakeDriver{}
	r := NewSearchCacheRepo(driver, noopLogger{}, time.Second)

	result := &models.SearchResult{Keyword: "golang", Videos: []models.Video{}}
	err := r.SaveResult(context.Background(), "cafebabe", "golang", nil, result, time.Hour)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(driver.execSQL) != 1 {
		t.Fatalf("expected one statement, got %d", len(driver.execSQL))
	}
	if !strings.Contains(driver.execSQL[0], "ON CONFLICT (cache_key) DO UPDATE") {
		t.Errorf("expected an upsert, got: %s", driver.execSQL[0])
	}

	args := driver.execArgs[0]
	if len(args) != 5 {
		t.Fatalf("expected 5 args, got %d", len(args))
	}
	if args[0] != "cafebabe" || args[1] != "golang" {
		t.Errorf("unexpected key/keyword args: %v", args[:2])
	}
	if args[2] != nil {
		// Normalized nil filters must store SQL NULL, not "null".
		if b, ok := args[2].([]byte); !ok || b != nil {
			t.Errorf("expected nil filters arg, got %v", args[2])
		}
	}

	expiresAt, ok := args[4].(time.Time)
	if !ok {
		t.Fatalf("expected time.Time expiry, got %T", args[4])
	}
	want := time.Now().UTC().Add(time.Hour)
	if diff := expiresAt.Sub(want); diff < -time.Minute || diff > time.Minute {
		t.Errorf("expiry off by %s", diff)
	}
}

func TestSaveResult_FiltersStored(t *testing.T) {
	driver := &fakeDriver{}
	r := NewSearchCacheRepo(driver, noopLogger{}, time.Second)

	days := 7
	filters := &models.SearchFilters{PeriodDays: &days}
	result := &models.SearchResult{Keyword: "golang", Videos: []models.Video{}}

	if err := r.SaveResult(context.Background(), "cafebabe", "golang", filters, result, time.Hour); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	raw, ok := driver.execArgs[0][2].([]byte)
	if !ok || len(raw) == 0 {
		t.Fatalf("expected filters JSON, got %v", driver.execArgs[0][2])
	}
	var got models.SearchFilters
	if err := json.Unmarshal(raw, &got); err != nil {
		t.Fatalf("filters arg is not valid JSON: %v", err)
	}
	if got.PeriodDays == nil || *got.PeriodDays != 7 {
		t.Errorf("unexpected filters: %+v", got)
	}
}
