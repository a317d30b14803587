package view

// Plot is chart configuration handed to the client-side plotting library.
// Field names follow the library's JSON schema.
type Plot struct {
	Data             []Trace `json:"data"`
	Layout           Layout  `json:"layout"`
	UseResizeHandler bool    `json:"useResizeHandler"`
}

type Trace struct {
	X      []float64 `json:"x"`
	Y      []float64 `json:"y"`
	Type   string    `json:"type"`
	Mode   string    `json:"mode"`
	Marker *Marker   `json:"marker,omitempty"`
}

type Marker struct {
	Color string `json:"color"`
}

type Layout struct {
	ShowLegend    bool `json:"showlegend"`
	SpikeDistance int  `json:"spikedistance"`
	XAxis         Axis `json:"xaxis"`
}

type Axis struct {
	SpikeColor string `json:"spikecolor,omitempty"`
	SpikeDash  string `json:"spikedash,omitempty"`
	SpikeMode  string `json:"spikemode,omitempty"`
	SpikeSnap  string `json:"spikesnap,omitempty"`
}

// SamplePlot is the dashboard's time-series plot. The points are fixed
// sample data; the cross-hair spike line follows the cursor across the
// x axis and the legend is hidden.
func SamplePlot() *Plot {
	return &Plot{
		UseResizeHandler: true,
		Data: []Trace{
			{
				X:      []float64{1, 2, 3},
				Y:      []float64{2, 6, 3},
				Type:   "scatter",
				Mode:   "lines+markers",
				Marker: &Marker{Color: "red"},
			},
		},
		Layout: Layout{
			ShowLegend:    false,
			SpikeDistance: -1, // spikes regardless of cursor distance
			XAxis: Axis{
				SpikeColor: "rgba(255, 0, 0, 0.3)",
				SpikeDash:  "solid",
				SpikeMode:  "across+toaxis+marker",
				SpikeSnap:  "cursor",
			},
		},
	}
}
