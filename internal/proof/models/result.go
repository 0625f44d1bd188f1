package models

// NoveltyResult is the per sub-type outcome of the novelty comparison.
type NoveltyResult struct {
	SubType     string  `json:"subType"`
	UniqueCount int     `json:"unique_entry_count"`
	TotalCount  int     `json:"total_entry_count"`
	Ratio       float64 `json:"subtype_unique_score"`
}

// UniquenessResult is what the uniqueness engine hands to the quality scorer
// and the score composer.
type UniquenessResult struct {
	Entries []NoveltyResult `json:"unique_entries"`
	Score   float64         `json:"uniqueness_score"`
}

// Entry returns the novelty result for a sub-type, if any.
func (r UniquenessResult) Entry(subType string) (NoveltyResult, bool) {
	for _, e := range r.Entries {
		if e.SubType == subType {
			return e, true
		}
	}
	return NoveltyResult{}, false
}

// ProofResponse is the final verdict for one submission.
type ProofResponse struct {
	DLPID        string          `json:"dlp_id"`
	Valid        bool            `json:"valid"`
	Score        float64         `json:"score"`
	Authenticity float64         `json:"authenticity"`
	Ownership    float64         `json:"ownership"`
	Uniqueness   float64         `json:"uniqueness"`
	Quality      float64         `json:"quality"`
	Attributes   ProofAttributes `json:"attributes"`
	Metadata     ProofMetadata   `json:"metadata"`
}

// ProofAttributes carries the supporting numbers behind the verdict.
type ProofAttributes struct {
	SubmissionID                string          `json:"submissionId"`
	WalletAddress               string          `json:"walletAddress"`
	TotalContributionScore      float64         `json:"totalContributionScore"`
	NormalizedContributionScore float64         `json:"normalizedContributionScore"`
	UniqueEntries               []NoveltyResult `json:"unique_entries"`
}

// ProofMetadata identifies the run that produced a proof.
type ProofMetadata struct {
	DLPID       string `json:"dlp_id"`
	ProofRunID  string `json:"proof_run_id"`
	GeneratedAt string `json:"generated_at"`
}
