// Package formulary provides the static drug interaction table and the
// alternative suggestions map used by the prescription analyzer. The default
// table is embedded constant data; an external TSV file can replace it so
// operators can ship formulary updates without a redeploy.
package formulary

import (
	"fmt"
	"strings"

	"github.com/DevarneniSindhuja/medical/formulary/entities"
	"github.com/DevarneniSindhuja/medical/interfaces"
)

// Compile-time check to ensure DefaultLoader implements FormularyLoader
var _ interfaces.FormularyLoader = (*DefaultLoader)(nil)

// defaultDrugs is the embedded drug interaction table. Names are canonical
// lowercase; interaction entries are listed in both directions on purpose,
// the interaction check only tests the direction a record declares.
var defaultDrugs = []entities.DrugRecord{
	{Name: "ibuprofen", InteractsWith: []string{"aspirin"}, MinAge: 12, Dosage: "200mg"},
	{Name: "aspirin", InteractsWith: []string{"ibuprofen"}, MinAge: 16, Dosage: "100mg"},
	{Name: "paracetamol", InteractsWith: []string{}, MinAge: 1, Dosage: "500mg"},
}

// defaultAlternatives is the embedded alternative suggestions map.
var defaultAlternatives = map[string]string{
	"ibuprofen": "paracetamol",
	"aspirin":   "paracetamol",
}

// DefaultLoader serves the embedded formulary.
type DefaultLoader struct{}

// NewDefaultLoader creates a loader for the embedded formulary
func NewDefaultLoader() *DefaultLoader {
	return &DefaultLoader{}
}

// Load implements the FormularyLoader interface
func (l *DefaultLoader) Load() (map[string]entities.DrugRecord, map[string]string, error) {
	return BuildFormulary(defaultDrugs, defaultAlternatives)
}

// Canonicalize normalizes a drug name to its canonical lookup form.
// Every extracted entity must pass through here before any table lookup,
// the maps are keyed by lowercase names only.
func Canonicalize(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

// BuildFormulary validates the given records and builds the lookup maps,
// canonicalizing every drug name and interaction entry.
func BuildFormulary(records []entities.DrugRecord, alternatives map[string]string) (map[string]entities.DrugRecord, map[string]string, error) {
	drugs := make(map[string]entities.DrugRecord, len(records))

	for _, record := range records {
		name := Canonicalize(record.Name)
		if name == "" {
			return nil, nil, fmt.Errorf("formulary record has an empty drug name")
		}
		if record.MinAge < 0 {
			return nil, nil, fmt.Errorf("formulary record %s has a negative minimum age: %d", name, record.MinAge)
		}
		if strings.TrimSpace(record.Dosage) == "" {
			return nil, nil, fmt.Errorf("formulary record %s has an empty dosage", name)
		}
		if _, exists := drugs[name]; exists {
			return nil, nil, fmt.Errorf("duplicate formulary record: %s", name)
		}

		interacts := make([]string, 0, len(record.InteractsWith))
		for _, other := range record.InteractsWith {
			canonical := Canonicalize(other)
			if canonical == "" {
				continue
			}
			interacts = append(interacts, canonical)
		}

		drugs[name] = entities.DrugRecord{
			Name:          name,
			InteractsWith: interacts,
			MinAge:        record.MinAge,
			Dosage:        strings.TrimSpace(record.Dosage),
		}
	}

	alts := make(map[string]string, len(alternatives))
	for drug, alternative := range alternatives {
		canonical := Canonicalize(drug)
		target := Canonicalize(alternative)
		if canonical == "" || target == "" {
			return nil, nil, fmt.Errorf("alternative entry %q -> %q has an empty name", drug, alternative)
		}
		alts[canonical] = target
	}

	return drugs, alts, nil
}
