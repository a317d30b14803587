package view

import "github.com/GoSim-25-26J-441/lhci-dashboard/internal/dashboard/async"

// Loader is the shared placeholder shown while data is loading or after a
// lookup failed.
func Loader(state async.LoadingState, err error) *Node {
	switch state {
	case async.Error:
		msg := "unknown error"
		if err != nil {
			msg = err.Error()
		}
		return El("div", "async-loader async-loader--error",
			El("h3", "", Text("Uh oh, an error occurred")),
			El("pre", "async-loader__message", Text(msg)),
		)
	default:
		return El("div", "async-loader async-loader--loading",
			El("span", "async-loader__spinner").Attr("aria-busy", "true"),
			Text("Loading..."),
		)
	}
}
