package search

// financialSynonyms drives query expansion. Expansion is bidirectional: a
// query word that is itself a synonym pulls in its key and the key's whole
// synonym group.
var financialSynonyms = map[string][]string{
	"revenue":     {"sales", "income", "turnover", "receipts"},
	"profit":      {"earnings", "income", "margin", "pbt", "pat"},
	"loss":        {"deficit", "negative", "decline"},
	"growth":      {"increase", "expansion", "rise", "improvement"},
	"decline":     {"decrease", "fall", "drop", "reduction"},
	"ratio":       {"metric", "indicator", "measure"},
	"debt":        {"borrowing", "liability", "loan"},
	"equity":      {"shares", "stock", "ownership"},
	"dividend":    {"payout", "distribution"},
	"cash":        {"liquid", "money", "funds"},
	"investment":  {"capex", "expenditure", "spending"},
	"market":      {"trading", "exchange", "sector"},
	"performance": {"results", "outcome", "achievement"},
	"analysis":    {"evaluation", "assessment", "review"},
	"financial":   {"monetary", "fiscal", "economic"},
	"quarter":     {"q1", "q2", "q3", "q4", "quarterly"},
	"year":        {"annual", "yearly", "fy"},
	"percentage":  {"percent", "%", "rate"},
	"million":     {"mn", "crore", "cr"},
	"billion":     {"bn", "thousand crore"},
}

// expandQuery returns the query word set augmented with financial synonyms.
func expandQuery(queryWords map[string]struct{}) map[string]struct{} {
	expanded := make(map[string]struct{}, len(queryWords))
	for w := range queryWords {
		expanded[w] = struct{}{}
	}

	for w := range queryWords {
		if syns, ok := financialSynonyms[w]; ok {
			for _, s := range syns {
				expanded[s] = struct{}{}
			}
		}
		for key, syns := range financialSynonyms {
			for _, s := range syns {
				if w == s {
					expanded[key] = struct{}{}
					for _, other := range syns {
						expanded[other] = struct{}{}
					}
					break
				}
			}
		}
	}

	return expanded
}
