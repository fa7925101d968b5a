package catalog

import (
	"fmt"
	"math/rand"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/kayz/docsynth/internal/errs"
)

// Roster holds the pools of names and locations injected into prompts so
// generated documents carry realistic identifiers.
type Roster struct {
	PatientNames   []string `yaml:"patient_names"`
	ClinicianNames []string `yaml:"clinician_names"`
	Providers      []string `yaml:"providers"`
	WardsClinics   []string `yaml:"wards_clinics"`
}

// LoadRoster reads a names/locations file.
func LoadRoster(path string) (*Roster, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read roster %s: %w: %v", path, errs.ErrConfig, err)
	}
	var r Roster
	if err := yaml.Unmarshal(data, &r); err != nil {
		return nil, fmt.Errorf("parse roster %s: %w: %v", path, errs.ErrConfig, err)
	}
	for name, pool := range map[string][]string{
		"patient_names":   r.PatientNames,
		"clinician_names": r.ClinicianNames,
		"providers":       r.Providers,
		"wards_clinics":   r.WardsClinics,
	} {
		if len(pool) == 0 {
			return nil, fmt.Errorf("roster %s: %s is empty: %w", path, name, errs.ErrConfig)
		}
	}
	return &r, nil
}

// Sample draws one entry from each pool.
func (r *Roster) Sample(rng *rand.Rand) map[string]string {
	return map[string]string{
		"patient_name":   r.PatientNames[rng.Intn(len(r.PatientNames))],
		"clinician_name": r.ClinicianNames[rng.Intn(len(r.ClinicianNames))],
		"provider":       r.Providers[rng.Intn(len(r.Providers))],
		"ward_clinic":    r.WardsClinics[rng.Intn(len(r.WardsClinics))],
	}
}

// FormatBlock renders a sampled roster as a prompt section.
func FormatBlock(sampled map[string]string) string {
	var b strings.Builder
	b.WriteString("## USE THESE NAMES AND LOCATIONS (BUT REDACT AS PROMPTED)\n\n")
	b.WriteString(fmt.Sprintf("**Patient Name:** %s\n", sampled["patient_name"]))
	b.WriteString(fmt.Sprintf("**Clinician Name:** %s\n", sampled["clinician_name"]))
	b.WriteString(fmt.Sprintf("**Hospital/Practice:** %s\n", sampled["provider"]))
	b.WriteString(fmt.Sprintf("**Ward/Clinic:** %s\n", sampled["ward_clinic"]))
	return b.String()
}
