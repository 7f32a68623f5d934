// Package matching holds the types shared by the term extractor, the
// similarity scorer and the suggestion engine.
package matching

// TermWeights maps a case-folded term to a confidence in [0,1]. Values
// handed out by the extractor are shared and must not be mutated.
type TermWeights map[string]float64

// Keys returns the terms in no particular order.
func (w TermWeights) Keys() []string {
	keys := make([]string, 0, len(w))
	for k := range w {
		keys = append(keys, k)
	}
	return keys
}
