package logstore

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/s-oshima-kops/automakedoc/internal/apperr"
)

func tempStore(t *testing.T) *FS {
	t.Helper()
	s, err := NewFS(t.TempDir())
	if err != nil {
		t.Fatalf("NewFS: %v", err)
	}
	return s
}

func day(t *testing.T, key string) time.Time {
	t.Helper()
	d, err := time.ParseInLocation("2006-01-02", key, time.UTC)
	if err != nil {
		t.Fatalf("parse %s: %v", key, err)
	}
	return d
}

func TestSaveAndGetRoundTrip(t *testing.T) {
	s := tempStore(t)
	body := "サーバ移行を完了。\n残件:\n- DNS切替 (3.5時間)\n- \"logs\" の整理"
	tags := []string{"infra", "移行"}
	d := day(t, "2024-01-15")

	if err := s.Save(d, body, tags); err != nil {
		t.Fatalf("Save: %v", err)
	}
	got, err := s.Get(d)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.Body != body {
		t.Errorf("body mismatch: got %q", got.Body)
	}
	if len(got.Tags) != 2 || got.Tags[0] != "infra" || got.Tags[1] != "移行" {
		t.Errorf("tags mismatch: got %v", got.Tags)
	}
	if got.DateKey() != "2024-01-15" {
		t.Errorf("date key = %q", got.DateKey())
	}
}

func TestSaveOverwritesAndBumpsUpdatedAt(t *testing.T) {
	s := tempStore(t)
	d := day(t, "2024-02-01")

	if err := s.Save(d, "first", nil); err != nil {
		t.Fatalf("Save: %v", err)
	}
	before, _ := s.Get(d)

	time.Sleep(10 * time.Millisecond)
	if err := s.Save(d, "second", []string{"x"}); err != nil {
		t.Fatalf("Save: %v", err)
	}
	after, err := s.Get(d)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if after.Body != "second" {
		t.Errorf("body = %q, want overwrite", after.Body)
	}
	if !after.CreatedAt.Equal(before.CreatedAt) {
		t.Errorf("CreatedAt changed on overwrite")
	}
	if !after.UpdatedAt.After(before.UpdatedAt) {
		t.Errorf("UpdatedAt not bumped")
	}
}

func TestGetMissing(t *testing.T) {
	s := tempStore(t)
	if _, err := s.Get(day(t, "1999-12-31")); !errors.Is(err, apperr.ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}

func TestGetRangeOrderedWithGaps(t *testing.T) {
	s := tempStore(t)
	// Saved out of order, with 01-03 missing.
	for _, key := range []string{"2024-01-04", "2024-01-01", "2024-01-02", "2024-01-05"} {
		if err := s.Save(day(t, key), "body "+key, nil); err != nil {
			t.Fatalf("Save %s: %v", key, err)
		}
	}

	got, err := s.GetRange(day(t, "2024-01-01"), day(t, "2024-01-05"))
	if err != nil {
		t.Fatalf("GetRange: %v", err)
	}
	want := []string{"2024-01-01", "2024-01-02", "2024-01-04", "2024-01-05"}
	if len(got) != len(want) {
		t.Fatalf("len = %d, want %d", len(got), len(want))
	}
	for i, e := range got {
		if e.DateKey() != want[i] {
			t.Errorf("entry %d: date = %s, want %s", i, e.DateKey(), want[i])
		}
	}
}

func TestGetRangeEndInclusive(t *testing.T) {
	s := tempStore(t)
	d := day(t, "2024-03-10")
	_ = s.Save(d, "x", nil)
	got, err := s.GetRange(d, d)
	if err != nil {
		t.Fatalf("GetRange: %v", err)
	}
	if len(got) != 1 {
		t.Errorf("single-day range returned %d entries", len(got))
	}
}

func TestGetRangeInverted(t *testing.T) {
	s := tempStore(t)
	_, err := s.GetRange(day(t, "2024-01-05"), day(t, "2024-01-01"))
	if !errors.Is(err, apperr.ErrInvalidArgument) {
		t.Errorf("err = %v, want ErrInvalidArgument", err)
	}
}

func TestDelete(t *testing.T) {
	s := tempStore(t)
	d := day(t, "2024-04-01")
	_ = s.Save(d, "bye", nil)
	if err := s.Delete(d); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := s.Get(d); !errors.Is(err, apperr.ErrNotFound) {
		t.Errorf("entry still readable after delete")
	}
	if err := s.Delete(d); !errors.Is(err, apperr.ErrNotFound) {
		t.Errorf("second delete err = %v, want ErrNotFound", err)
	}
}

func TestDates(t *testing.T) {
	s := tempStore(t)
	for _, key := range []string{"2024-06-03", "2024-06-01", "2024-06-02"} {
		_ = s.Save(day(t, key), "x", nil)
	}
	dates, err := s.Dates()
	if err != nil {
		t.Fatalf("Dates: %v", err)
	}
	if len(dates) != 3 {
		t.Fatalf("len = %d", len(dates))
	}
	for i := 1; i < len(dates); i++ {
		if !dates[i-1].Before(dates[i]) {
			t.Errorf("dates not ascending: %v", dates)
		}
	}
}

func TestConcurrentWritersSameDate(t *testing.T) {
	s := tempStore(t)
	d := day(t, "2024-05-05")

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = s.Save(d, "concurrent body", []string{"t"})
		}()
	}
	wg.Wait()

	got, err := s.Get(d)
	if err != nil {
		t.Fatalf("Get after concurrent writes: %v", err)
	}
	if got.Body != "concurrent body" {
		t.Errorf("store corrupted: body = %q", got.Body)
	}
}
