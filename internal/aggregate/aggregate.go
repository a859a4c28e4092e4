package aggregate

// Pure computations over cached collections. Aggregates are always derived
// from the current cache value and never stored, so they cannot drift from
// their source. Missing collections aggregate as empty, missing numeric
// fields as zero.

// CountBy buckets items by the category reader.
func CountBy[T any](items []T, category func(T) string) map[string]int {
	counts := make(map[string]int, 8)
	for _, item := range items {
		counts[category(item)]++
	}
	return counts
}

// Sum totals the value reader over all items.
func Sum[T any](items []T, value func(T) float64) float64 {
	var total float64
	for _, item := range items {
		total += value(item)
	}
	return total
}

// SumBy buckets sums by the category reader.
func SumBy[T any](items []T, category func(T) string, value func(T) float64) map[string]float64 {
	totals := make(map[string]float64, 8)
	for _, item := range items {
		totals[category(item)] += value(item)
	}
	return totals
}

// Percentage returns part as a percentage of total, with zero totals yielding
// zero rather than NaN or Inf.
func Percentage(part, total float64) float64 {
	if total == 0 {
		return 0
	}
	return part / total * 100
}

// Segments converts bucketed counts into chart segments with safe
// percentages.
func Segments(counts map[string]int) map[string]float64 {
	var total float64
	for _, count := range counts {
		total += float64(count)
	}
	segments := make(map[string]float64, len(counts))
	for category, count := range counts {
		segments[category] = Percentage(float64(count), total)
	}
	return segments
}
