package domain

import (
	"testing"
	"time"

	"github.com/pkg/errors"
)

func TestLookupZone_NormalizesInput(t *testing.T) {
	z, err := LookupZone("  AMERICA/new_York \t")
	if err != nil {
		t.Fatalf("lookup: %v", err)
	}
	if z.ID != "america/new_york" {
		t.Fatalf("ID = %q, want america/new_york", z.ID)
	}
	if z.Name != "America/New_York" {
		t.Fatalf("Name = %q, want America/New_York", z.Name)
	}

	winter := time.Date(2024, time.January, 15, 12, 0, 0, 0, time.UTC)
	if _, off := winter.In(z.Location).Zone(); off != -5*3600 {
		t.Fatalf("winter offset = %d, want -18000", off)
	}
	summer := time.Date(2024, time.July, 15, 12, 0, 0, 0, time.UTC)
	if _, off := summer.In(z.Location).Zone(); off != -4*3600 {
		t.Fatalf("summer offset = %d, want -14400", off)
	}
}

func TestLookupZone_Unknown(t *testing.T) {
	_, err := LookupZone("mars/phobos")
	if !errors.Is(err, ErrInvalidTimezone) {
		t.Fatalf("err = %v, want ErrInvalidTimezone", err)
	}
	var ite *InvalidTimezoneError
	if !errors.As(err, &ite) || ite.Input != "mars/phobos" {
		t.Fatalf("err = %#v, want InvalidTimezoneError naming the input", err)
	}
}

func TestLookupZone_Aliases(t *testing.T) {
	for _, in := range []string{"utc", "Etc/GMT", "us/eastern", "asia/kolkata"} {
		if !ValidZone(in) {
			t.Errorf("ValidZone(%q) = false", in)
		}
	}
	for _, in := range []string{"", "   ", "Europe", "America/New York"} {
		if ValidZone(in) {
			t.Errorf("ValidZone(%q) = true", in)
		}
	}
}

func TestSuggestZones(t *testing.T) {
	got := SuggestZones("YORK", 25)
	if len(got) != 1 || got[0] != "America/New_York" {
		t.Fatalf("SuggestZones(YORK) = %v", got)
	}

	got = SuggestZones("america/", 25)
	if len(got) != 25 {
		t.Fatalf("len = %d, want 25", len(got))
	}
	for i := 1; i < len(got); i++ {
		if got[i-1] > got[i] {
			t.Fatalf("not sorted at %d: %v", i, got)
		}
	}
}

func TestFormatNow(t *testing.T) {
	z, err := LookupZone("asia/tokyo")
	if err != nil {
		t.Fatalf("lookup: %v", err)
	}
	now := time.Date(2024, time.March, 3, 23, 4, 5, 0, time.UTC)
	if got, want := FormatNow(now, z), "Mar 04, 2024 08:04:05 JST"; got != want {
		t.Fatalf("FormatNow = %q, want %q", got, want)
	}
}
