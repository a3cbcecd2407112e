package domain

// ChartDatum is one {name, value} bar, slice or radar point.
type ChartDatum struct {
	Name  string `json:"name"`
	Value int    `json:"value"`
}

// AverageDatum is one grouped mean. Avg keeps the fraction for trend lines;
// Rounded is what whole-unit charts display, and Label is its scale label
// when the averaged field has one.
type AverageDatum struct {
	Name    string  `json:"name"`
	Avg     float64 `json:"avg"`
	Rounded int     `json:"value"`
	Count   int     `json:"count"`
	Label   string  `json:"label,omitempty"`
}

// TrendDatum compares a baseline count with a follow-up count.
type TrendDatum struct {
	Name     string `json:"name"`
	Original int    `json:"original"`
	Followup int    `json:"followup"`
}

// SankeyNode is a flow-diagram node; its index is its position in Nodes.
type SankeyNode struct {
	Name string `json:"name"`
}

// SankeyLink is a weighted edge between two node indices.
type SankeyLink struct {
	Source int `json:"source"`
	Target int `json:"target"`
	Value  int `json:"value"`
}

// Sankey is the node/link payload consumed by the flow-diagram renderer.
type Sankey struct {
	Nodes []SankeyNode `json:"nodes"`
	Links []SankeyLink `json:"links"`
}

// Ratio is a count with its share of a total, in percent.
type Ratio struct {
	Count      int     `json:"count"`
	Percentage float64 `json:"percentage"`
}
