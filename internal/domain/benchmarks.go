package domain

import "strings"

// Benchmark holds typical paid-social results for an industry. Ratios are fractions
// (0.01 is 1%), costs are in account currency.
type Benchmark struct {
	Industry       string  `json:"industry"`
	CTR            float64 `json:"ctr"`
	CPC            float64 `json:"cpc"`
	CPM            float64 `json:"cpm"`
	ConversionRate float64 `json:"conversion_rate"`
	CPA            float64 `json:"cpa"`
}

const GeneralIndustry = "general"

var benchmarks = map[string]Benchmark{
	GeneralIndustry: {Industry: GeneralIndustry, CTR: 0.0090, CPC: 1.72, CPM: 12.00, ConversionRate: 0.0911, CPA: 18.68},
	"apparel":       {Industry: "apparel", CTR: 0.0124, CPC: 0.45, CPM: 8.50, ConversionRate: 0.0411, CPA: 10.98},
	"automotive":    {Industry: "automotive", CTR: 0.0080, CPC: 2.24, CPM: 14.00, ConversionRate: 0.0511, CPA: 43.84},
	"b2b":           {Industry: "b2b", CTR: 0.0078, CPC: 2.52, CPM: 15.50, ConversionRate: 0.1063, CPA: 23.77},
	"beauty":        {Industry: "beauty", CTR: 0.0116, CPC: 1.81, CPM: 11.00, ConversionRate: 0.0720, CPA: 25.49},
	"education":     {Industry: "education", CTR: 0.0073, CPC: 1.06, CPM: 9.00, ConversionRate: 0.1358, CPA: 7.85},
	"ecommerce":     {Industry: "ecommerce", CTR: 0.0159, CPC: 0.70, CPM: 10.00, ConversionRate: 0.0317, CPA: 21.47},
	"fitness":       {Industry: "fitness", CTR: 0.0101, CPC: 1.90, CPM: 12.50, ConversionRate: 0.1429, CPA: 13.29},
	"home":          {Industry: "home", CTR: 0.0070, CPC: 2.93, CPM: 13.50, ConversionRate: 0.1037, CPA: 44.66},
	"legal":         {Industry: "legal", CTR: 0.0161, CPC: 1.32, CPM: 13.00, ConversionRate: 0.0545, CPA: 28.70},
	"real_estate":   {Industry: "real_estate", CTR: 0.0099, CPC: 1.81, CPM: 14.00, ConversionRate: 0.1068, CPA: 16.92},
	"restaurants":   {Industry: "restaurants", CTR: 0.0120, CPC: 0.80, CPM: 7.50, ConversionRate: 0.0600, CPA: 12.00},
	"technology":    {Industry: "technology", CTR: 0.0104, CPC: 1.27, CPM: 13.00, ConversionRate: 0.0231, CPA: 55.21},
	"travel":        {Industry: "travel", CTR: 0.0090, CPC: 0.63, CPM: 9.50, ConversionRate: 0.0282, CPA: 22.50},
}

// BenchmarkFor returns the benchmark for an industry, falling back to the general one.
func BenchmarkFor(industry string) Benchmark {
	key := strings.ReplaceAll(strings.ToLower(strings.TrimSpace(industry)), " ", "_")
	if b, ok := benchmarks[key]; ok {
		return b
	}
	return benchmarks[GeneralIndustry]
}

// Industries lists the known industry keys.
func Industries() []string {
	return []string{
		GeneralIndustry, "apparel", "automotive", "b2b", "beauty", "education", "ecommerce",
		"fitness", "home", "legal", "real_estate", "restaurants", "technology", "travel",
	}
}
