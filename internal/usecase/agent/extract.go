package agent

import (
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/finsight-cloud/finsight/internal/domain/analysis"
)

// metricPattern extracts one named metric from lowercased chunk text.
type metricPattern struct {
	name string
	re   *regexp.Regexp
}

var metricPatterns = []metricPattern{
	{"revenue", regexp.MustCompile(`revenue[:\s]+\$?(\d+(?:,\d{3})*(?:\.\d+)?)`)},
	{"profit", regexp.MustCompile(`profit[:\s]+\$?(\d+(?:,\d{3})*(?:\.\d+)?)`)},
	{"pe_ratio", regexp.MustCompile(`p/e[:\s]+(\d+(?:\.\d+)?)`)},
	{"price", regexp.MustCompile(`price[:\s]+\$?(\d+(?:\.\d+)?)`)},
	{"volume", regexp.MustCompile(`volume[:\s]+(\d+(?:,\d{3})*)`)},
}

// extractKeyMetrics pulls known financial figures out of chunk content.
func extractKeyMetrics(content string) map[string]float64 {
	lower := strings.ToLower(content)
	metrics := make(map[string]float64)
	for _, p := range metricPatterns {
		m := p.re.FindStringSubmatch(lower)
		if m == nil {
			continue
		}
		v, err := strconv.ParseFloat(strings.ReplaceAll(m[1], ",", ""), 64)
		if err != nil {
			continue
		}
		metrics[p.name] = v
	}
	return metrics
}

// detectContentType classifies chunk content for downstream tools.
func detectContentType(content string) string {
	if strings.ContainsAny(content, ",\t|") && strings.Contains(content, "\n") {
		return "structured_data"
	}
	if numberPattern.MatchString(content) {
		return "numerical"
	}
	return "text"
}

var numberPattern = regexp.MustCompile(`\d+\.?\d*`)

// sortedStepKeys returns accumulated step keys in execution order. Keys have
// the form "step_N"; anything else sorts after them lexically.
func sortedStepKeys(accumulated map[string]analysis.StepResult) []string {
	keys := make([]string, 0, len(accumulated))
	for k := range accumulated {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		ni, iok := stepNumber(keys[i])
		nj, jok := stepNumber(keys[j])
		if iok && jok {
			return ni < nj
		}
		if iok != jok {
			return iok
		}
		return keys[i] < keys[j]
	})
	return keys
}

func stepNumber(key string) (int, bool) {
	rest, ok := strings.CutPrefix(key, "step_")
	if !ok {
		return 0, false
	}
	n, err := strconv.Atoi(rest)
	if err != nil {
		return 0, false
	}
	return n, true
}

// extractSeries collects metric values from every document hit accumulated so
// far, in step then hit order. The resulting per-metric slices double as
// ordered series for trend analysis.
func extractSeries(accumulated map[string]analysis.StepResult) map[string][]float64 {
	series := make(map[string][]float64)
	for _, key := range sortedStepKeys(accumulated) {
		for _, doc := range accumulated[key].Documents {
			for metric, value := range doc.KeyMetrics {
				series[metric] = append(series[metric], value)
			}
		}
	}
	if len(series) == 0 {
		return nil
	}
	return series
}

// extractComparisons groups metric values by the document they came from, so
// entities can be ranked against each other.
func extractComparisons(accumulated map[string]analysis.StepResult) map[string][]analysis.ComparisonValue {
	comparisons := make(map[string][]analysis.ComparisonValue)
	for _, key := range sortedStepKeys(accumulated) {
		for _, doc := range accumulated[key].Documents {
			for metric, value := range doc.KeyMetrics {
				comparisons[metric] = append(comparisons[metric], analysis.ComparisonValue{
					Entity: doc.Source,
					Value:  value,
				})
			}
		}
	}
	if len(comparisons) == 0 {
		return nil
	}
	return comparisons
}
