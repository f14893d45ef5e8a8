package aggregator

import (
	"fmt"
	"sort"

	"github.com/shopspring/decimal"
)

const (
	// ModeAverage uses the arithmetic mean.
	ModeAverage = "average"
	// ModeMedian uses the median, averaging the two middle values for an even count.
	ModeMedian = "median"
)

// Combiner folds per-feed averages into one value.
type Combiner interface {
	Combine(values []decimal.Decimal) (decimal.Decimal, error)
}

// NewCombiner creates a combiner based on the specified mode.
func NewCombiner(mode string) (Combiner, error) {
	switch mode {
	case ModeAverage, "":
		return AverageCombiner{}, nil
	case ModeMedian:
		return MedianCombiner{}, nil
	default:
		return nil, fmt.Errorf("%w: %s (supported: average, median)", ErrUnknownMode, mode)
	}
}

// AverageCombiner computes the arithmetic mean.
type AverageCombiner struct{}

// Combine calculates the arithmetic mean of values
func (AverageCombiner) Combine(values []decimal.Decimal) (decimal.Decimal, error) {
	if len(values) == 0 {
		return decimal.Zero, ErrNoData
	}

	sum := decimal.Zero
	for _, v := range values {
		sum = sum.Add(v)
	}
	return sum.Div(decimal.NewFromInt(int64(len(values)))), nil
}

// MedianCombiner computes the median.
type MedianCombiner struct{}

// Combine calculates the median of values without modifying the input.
func (MedianCombiner) Combine(values []decimal.Decimal) (decimal.Decimal, error) {
	if len(values) == 0 {
		return decimal.Zero, ErrNoData
	}

	sorted := make([]decimal.Decimal, len(values))
	copy(sorted, values)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].LessThan(sorted[j])
	})

	mid := len(sorted) / 2
	if len(sorted)%2 == 1 {
		return sorted[mid], nil
	}
	return sorted[mid-1].Add(sorted[mid]).Div(decimal.NewFromInt(2)), nil
}
