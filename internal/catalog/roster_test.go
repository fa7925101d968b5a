package catalog

import (
	"errors"
	"math/rand"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/kayz/docsynth/internal/errs"
)

const rosterFixture = `patient_names:
  - Jane Doe
  - John Smith
clinician_names:
  - Dr. Patel
providers:
  - St. Mary's Hospital
wards_clinics:
  - Oncology Ward B
`

func writeRoster(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "names_locations.yml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("write roster: %v", err)
	}
	return path
}

func TestRosterSampleDrawsFromPools(t *testing.T) {
	r, err := LoadRoster(writeRoster(t, rosterFixture))
	if err != nil {
		t.Fatalf("LoadRoster failed: %v", err)
	}

	rng := rand.New(rand.NewSource(1))
	for i := 0; i < 50; i++ {
		s := r.Sample(rng)
		if s["patient_name"] != "Jane Doe" && s["patient_name"] != "John Smith" {
			t.Fatalf("unexpected patient_name %q", s["patient_name"])
		}
		if s["clinician_name"] != "Dr. Patel" {
			t.Fatalf("unexpected clinician_name %q", s["clinician_name"])
		}
		if s["provider"] != "St. Mary's Hospital" || s["ward_clinic"] != "Oncology Ward B" {
			t.Fatalf("unexpected location sample: %v", s)
		}
	}
}

func TestRosterFormatBlock(t *testing.T) {
	r, err := LoadRoster(writeRoster(t, rosterFixture))
	if err != nil {
		t.Fatalf("LoadRoster failed: %v", err)
	}

	block := FormatBlock(r.Sample(rand.New(rand.NewSource(1))))
	for _, marker := range []string{
		"## USE THESE NAMES AND LOCATIONS",
		"**Patient Name:**",
		"**Clinician Name:** Dr. Patel",
		"**Hospital/Practice:** St. Mary's Hospital",
		"**Ward/Clinic:** Oncology Ward B",
	} {
		if !strings.Contains(block, marker) {
			t.Fatalf("expected block to contain %q:\n%s", marker, block)
		}
	}
}

func TestLoadRosterEmptyPool(t *testing.T) {
	path := writeRoster(t, `patient_names: []
clinician_names: [Dr. Patel]
providers: [A]
wards_clinics: [B]
`)
	if _, err := LoadRoster(path); !errors.Is(err, errs.ErrConfig) {
		t.Fatalf("expected ErrConfig for empty pool, got %v", err)
	}
}
