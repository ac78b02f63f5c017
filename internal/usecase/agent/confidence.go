package agent

import "github.com/finsight-cloud/finsight/internal/domain/analysis"

// relevanceBonusWeight scales the mean hit relevance of each successful step
// into the confidence bonus.
const relevanceBonusWeight = 0.2

// confidence rates an execution: the successful-step ratio plus a bonus for
// high-relevance retrievals, clamped to [0, 1].
func confidence(result analysis.ExecutionResult) float64 {
	if len(result.Steps) == 0 {
		return 0
	}

	successful := 0
	bonus := 0.0
	for _, rec := range result.Steps {
		if !rec.Success {
			continue
		}
		successful++
		if len(rec.Result.Documents) > 0 {
			sum := 0.0
			for _, doc := range rec.Result.Documents {
				sum += doc.Relevance
			}
			bonus += sum / float64(len(rec.Result.Documents)) * relevanceBonusWeight
		}
	}

	c := float64(successful)/float64(len(result.Steps)) + bonus
	if c > 1 {
		return 1
	}
	return c
}

// extractSources collects every document source cited by successful steps,
// first occurrence order, without duplicates.
func extractSources(result analysis.ExecutionResult) []string {
	var sources []string
	for _, key := range sortedRecordKeys(result.Steps) {
		rec := result.Steps[key]
		if !rec.Success {
			continue
		}
		for _, doc := range rec.Result.Documents {
			sources = append(sources, doc.Source)
		}
		sources = append(sources, rec.Result.SourcesUsed...)
	}
	return dedup(sources)
}
