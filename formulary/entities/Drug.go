package entities

// DrugRecord describes a single drug in the formulary. The Name field is
// the canonical lowercase form used as the lookup key everywhere.
type DrugRecord struct {
	Name          string   `json:"name"`
	InteractsWith []string `json:"interactsWith"`
	MinAge        int      `json:"minAge"`
	Dosage        string   `json:"dosage"`
}

// Formulary bundles the drug table and the alternative suggestions map.
// Both maps are keyed by canonical lowercase drug names.
type Formulary struct {
	Drugs        map[string]DrugRecord `json:"drugs"`
	Alternatives map[string]string     `json:"alternatives"`
}
