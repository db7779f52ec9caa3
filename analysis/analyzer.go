// Package analysis implements the prescription decision rules: drug name
// extraction, interaction checking, dosage recommendation by age, and
// alternative suggestions. All lookups run against the formulary snapshot
// held by the injected store, so reloads never affect an in-flight request.
package analysis

import (
	"context"
	"fmt"
	"sort"

	"github.com/DevarneniSindhuja/medical/formulary"
	"github.com/DevarneniSindhuja/medical/formulary/entities"
	"github.com/DevarneniSindhuja/medical/interfaces"
)

// MiscEntityGroup is the entity label whose spans are treated as drug name
// candidates. The model emits no dedicated drug label, so extraction keeps
// whatever it tags as miscellaneous, non-drug nouns included.
const MiscEntityGroup = "MISC"

// Compile-time check to ensure Analyzer implements the Analyzer interface
var _ interfaces.Analyzer = (*Analyzer)(nil)

// Analyzer runs the analysis rules against an entity extractor and a
// formulary store.
type Analyzer struct {
	extractor interfaces.EntityExtractor
	store     interfaces.FormularyStore
}

// NewAnalyzer creates an analyzer with injected dependencies
func NewAnalyzer(extractor interfaces.EntityExtractor, store interfaces.FormularyStore) *Analyzer {
	return &Analyzer{
		extractor: extractor,
		store:     store,
	}
}

// Analyze runs the full pipeline for one prescription request.
func (a *Analyzer) Analyze(ctx context.Context, text string, age int) (entities.AnalysisResult, error) {
	drugs, err := a.ExtractDrugs(ctx, text)
	if err != nil {
		return entities.AnalysisResult{}, fmt.Errorf("drug extraction failed: %w", err)
	}

	return entities.AnalysisResult{
		ExtractedDrugs: drugs,
		Interactions:   a.CheckInteractions(drugs),
		DosageInfo:     a.RecommendDosage(drugs, age),
		Alternatives:   a.SuggestAlternatives(drugs),
	}, nil
}

// ExtractDrugs invokes the entity extractor and keeps the MISC spans,
// lowercased and deduplicated. The result is sorted so that downstream pair
// enumeration is deterministic. An extractor that finds nothing is not an
// error, the result is just empty.
func (a *Analyzer) ExtractDrugs(ctx context.Context, text string) ([]string, error) {
	spans, err := a.extractor.Extract(ctx, text)
	if err != nil {
		return nil, err
	}

	seen := make(map[string]struct{}, len(spans))
	drugs := make([]string, 0, len(spans))

	for _, span := range spans {
		if span.EntityGroup != MiscEntityGroup {
			continue
		}
		name := formulary.Canonicalize(span.Word)
		if name == "" {
			continue
		}
		if _, dup := seen[name]; dup {
			continue
		}
		seen[name] = struct{}{}
		drugs = append(drugs, name)
	}

	sort.Strings(drugs)
	return drugs, nil
}

// CheckInteractions tests every unordered pair of extracted drugs, in
// lexicographic order, and reports the pairs where the first drug's record
// lists the second. The check is one-directional per pair: a pair is only
// flagged in the directions the formulary declares, the shipped table lists
// both directions for every known interaction.
func (a *Analyzer) CheckInteractions(drugs []string) []string {
	table := a.store.GetDrugs()
	interactions := make([]string, 0)

	for i, drug := range drugs {
		record, ok := table[drug]
		if !ok {
			continue
		}
		for _, other := range drugs[i+1:] {
			if containsString(record.InteractsWith, other) {
				interactions = append(interactions, fmt.Sprintf("%s interacts with %s", drug, other))
			}
		}
	}

	return interactions
}

// RecommendDosage maps each known drug to its dosage string, or to a
// restriction message when the patient is under the drug's minimum age.
// Drugs absent from the formulary get no entry at all.
func (a *Analyzer) RecommendDosage(drugs []string, age int) map[string]string {
	table := a.store.GetDrugs()
	dosage := make(map[string]string, len(drugs))

	for _, drug := range drugs {
		record, ok := table[drug]
		if !ok {
			continue
		}
		if age >= record.MinAge {
			dosage[drug] = record.Dosage
		} else {
			dosage[drug] = fmt.Sprintf("Not recommended under age %d", record.MinAge)
		}
	}

	return dosage
}

// SuggestAlternatives maps each drug with a known alternative to it. Drugs
// without a mapping are omitted, not given a placeholder entry.
func (a *Analyzer) SuggestAlternatives(drugs []string) map[string]string {
	alternatives := a.store.GetAlternatives()
	suggestions := make(map[string]string, len(drugs))

	for _, drug := range drugs {
		if alternative, ok := alternatives[drug]; ok {
			suggestions[drug] = alternative
		}
	}

	return suggestions
}

func containsString(list []string, target string) bool {
	for _, item := range list {
		if item == target {
			return true
		}
	}
	return false
}
