package vectorstore

import (
	"strconv"
	"strings"
)

// splitWeights splits a FusionExpr.Weights string ("0.3,0.7") into its two
// comma-separated components, trimming whitespace around each.
func splitWeights(weights string) []string {
	parts := strings.Split(weights, ",")
	for i, p := range parts {
		parts[i] = strings.TrimSpace(p)
	}
	return parts
}

func parseFloat(s string) (float64, bool) {
	v, err := strconv.ParseFloat(s, 64)
	return v, err == nil
}
