package execution

import "fmt"

// Series is one named line/bar of a chart.
type Series struct {
	Name   string `json:"name"`
	Values []int  `json:"values"`
}

// Chart is a display-ready dataset: one label per iteration bucket and
// one series per role group. The front-end charting layer consumes it
// as-is.
type Chart struct {
	Labels []string `json:"labels"`
	Series []Series `json:"series"`
}

// PerformanceChart turns aggregated role buckets into chart data with
// supervisor/worker/peer series across iterations.
func PerformanceChart(buckets []RoleBucket) Chart {
	c := Chart{
		Labels: make([]string, 0, len(buckets)),
		Series: []Series{
			{Name: "supervisor", Values: make([]int, 0, len(buckets))},
			{Name: "worker", Values: make([]int, 0, len(buckets))},
			{Name: "peer", Values: make([]int, 0, len(buckets))},
		},
	}
	for _, b := range buckets {
		c.Labels = append(c.Labels, fmt.Sprintf("iteration %d", b.Iteration))
		c.Series[0].Values = append(c.Series[0].Values, b.Supervisor)
		c.Series[1].Values = append(c.Series[1].Values, b.Worker)
		c.Series[2].Values = append(c.Series[2].Values, b.Peer)
	}
	return c
}

// UsageChart produces a per-agent output length bar chart from usage
// records, preserving record order.
func UsageChart(records []UsageRecord) Chart {
	c := Chart{Series: []Series{{Name: "output_length"}}}
	for _, r := range records {
		c.Labels = append(c.Labels, r.Agent)
		c.Series[0].Values = append(c.Series[0].Values, r.OutputLength)
	}
	return c
}
