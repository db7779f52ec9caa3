package entities

// PrescriptionRequest is the analyze endpoint input.
type PrescriptionRequest struct {
	Text string `json:"text"`
	Age  int    `json:"age"`
}

// AnalysisResult is the analyze endpoint output. Slices and maps are always
// non-nil so the JSON encoding never contains null fields.
type AnalysisResult struct {
	ExtractedDrugs []string          `json:"extracted_drugs"`
	Interactions   []string          `json:"interactions"`
	DosageInfo     map[string]string `json:"dosage_info"`
	Alternatives   map[string]string `json:"alternatives"`
}
