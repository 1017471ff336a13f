package models

// ECBResponse is the subset of the ECB SDMX "jsondata" payload needed to read
// a single daily reference rate.
type ECBResponse struct {
	DataSets []struct {
		Series map[string]struct {
			Observations map[string][]float64 `json:"observations"`
		} `json:"series"`
	} `json:"dataSets"`
}
