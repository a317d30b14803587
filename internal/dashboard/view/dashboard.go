package view

import (
	"fmt"

	"github.com/GoSim-25-26J-441/lhci-dashboard/internal/dashboard/domain"
)

// RecentBuildLimit is how many builds the dashboard header lists.
const RecentBuildLimit = 3

// SummaryPlaceholder stands in for the score delta summary until deltas are
// computed from build statistics.
const SummaryPlaceholder = "Compared to previous builds, the commit afd3591e on July 4 scored -18 pts for Performance, " +
	"+11 pts for Accessibility, -5 pts for SEO, +2 pts for Best Practices, and -10 pts for " +
	"Progressive Web App."

// Options carries what the views need besides the domain data.
type Options struct {
	Time          *TimeFormatter
	PublicBaseURL string
}

// Dashboard renders the project dashboard. Builds are expected most recent
// first. With no builds it renders the getting started view instead.
func Dashboard(project domain.Project, builds []domain.Build, opts Options) *Node {
	if len(builds) == 0 {
		return GettingStarted(project, opts)
	}

	return El("div", "dashboard",
		El("div", "dashboard__header",
			El("h2", "dashboard__project-name", Text(project.Name)),
			Paper("dashboard__build-list", buildTable(builds, opts)),
			Paper("dashboard__summary", Text(SummaryPlaceholder)),
		),
		El("div", "dashboard_graphs-container",
			Paper("dashboard__graph", plotNode(SamplePlot())),
		),
	)
}

func buildTable(builds []domain.Build, opts Options) *Node {
	tf := opts.Time
	if tf == nil {
		tf = DefaultTimeFormatter()
	}

	n := min(len(builds), RecentBuildLimit)
	rows := make([]*Node, 0, n)
	for _, b := range builds[:n] {
		link := El("a", "", Text(BuildLabel(b))).Attr("href", b.ExternalBuildURL)
		row := El("tr", "",
			El("td", "", link),
			El("td", "", Text(tf.TimeOfDay(b.CreatedAtOrEpoch()))),
		)
		rows = append(rows, row.Attr("data-build-id", b.ID))
	}
	return El("table", "", rows...)
}

// BuildLabel is the link text for a build: branch and short hash.
func BuildLabel(b domain.Build) string {
	return fmt.Sprintf("%s (%s) ", b.Branch, b.ShortHash())
}

func plotNode(p *Plot) *Node {
	n := El("div", "plot")
	n.Plot = p
	return n
}
