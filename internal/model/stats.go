package model

// Age band labels used by UserStats.AgeGroups.
const (
	AgeBandUnder18 = "0-17"
	AgeBand18to24  = "18-24"
	AgeBand25to34  = "25-34"
	AgeBand35to44  = "35-44"
	AgeBand45to54  = "45-54"
	AgeBand55to64  = "55-64"
	AgeBand65Plus  = "65+"
)

// ageBand is a half-open range [Min, Max). Max of 0 means unbounded.
type ageBand struct {
	Label string
	Min   int
	Max   int
}

var ageBands = []ageBand{
	{Label: AgeBandUnder18, Min: 0, Max: 18},
	{Label: AgeBand18to24, Min: 18, Max: 25},
	{Label: AgeBand25to34, Min: 25, Max: 35},
	{Label: AgeBand35to44, Min: 35, Max: 45},
	{Label: AgeBand45to54, Min: 45, Max: 55},
	{Label: AgeBand55to64, Min: 55, Max: 65},
	{Label: AgeBand65Plus, Min: 65},
}

// AgeBandFor returns the band label an age falls into.
func AgeBandFor(age int) string {
	for _, b := range ageBands {
		if age < b.Max || b.Max == 0 {
			return b.Label
		}
	}
	return AgeBand65Plus
}

// UserStats is the aggregate view over all users.
type UserStats struct {
	TotalUsers int            `json:"totalUsers"`
	AverageAge *float64       `json:"averageAge"`
	AgeGroups  map[string]int `json:"ageGroups"`
}
