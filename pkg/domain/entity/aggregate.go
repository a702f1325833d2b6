package entity

// Aggregate summarizes the contents of a result store
type Aggregate struct {
	Count              int            `json:"count"`
	AvgPrice           float64        `json:"avg_price"`
	AvgTrendScore      float64        `json:"avg_trend_score"`
	ExtensionHistogram map[string]int `json:"extension_histogram"`
	PriceHistogram     map[string]int `json:"price_histogram"`
	TrendHistogram     map[string]int `json:"trend_histogram"`
}

type bucket struct {
	label string
	upper float64 // exclusive
}

var priceBuckets = []bucket{
	{"0-10", 10},
	{"10-25", 25},
	{"25-50", 50},
	{"50-100", 100},
}

const priceOverflowBucket = "100+"

var trendBuckets = []bucket{
	{"0-19", 20},
	{"20-39", 40},
	{"40-59", 60},
	{"60-79", 80},
}

const trendTopBucket = "80-100"

// PriceBucket returns the histogram label for a price
func PriceBucket(price float64) string {
	for _, b := range priceBuckets {
		if price < b.upper {
			return b.label
		}
	}
	return priceOverflowBucket
}

// TrendBucket returns the histogram label for a trend score
func TrendBucket(score int) string {
	for _, b := range trendBuckets {
		if float64(score) < b.upper {
			return b.label
		}
	}
	return trendTopBucket
}

// ComputeAggregate builds an Aggregate over results
func ComputeAggregate(results []DomainResult) Aggregate {
	agg := Aggregate{
		Count:              len(results),
		ExtensionHistogram: make(map[string]int),
		PriceHistogram:     make(map[string]int),
		TrendHistogram:     make(map[string]int),
	}
	if len(results) == 0 {
		return agg
	}

	var priceSum, trendSum float64
	for _, r := range results {
		priceSum += r.Price
		trendSum += float64(r.TrendScore)
		agg.ExtensionHistogram[ExtensionKey(r.Extension)]++
		agg.PriceHistogram[PriceBucket(r.Price)]++
		agg.TrendHistogram[TrendBucket(r.TrendScore)]++
	}
	agg.AvgPrice = priceSum / float64(len(results))
	agg.AvgTrendScore = trendSum / float64(len(results))
	return agg
}
