package view

import (
	"fmt"

	"github.com/GoSim-25-26J-441/lhci-dashboard/internal/dashboard/domain"
)

// GettingStarted is the onboarding view for a project without builds.
func GettingStarted(project domain.Project, opts Options) *Node {
	upload := fmt.Sprintf("lhci upload --target=lhci --serverBaseUrl=%s --project=%s", opts.PublicBaseURL, project.ID)

	return El("div", "project-getting-started",
		El("h2", "dashboard__project-name", Text(project.Name)),
		Paper("project-getting-started__instructions",
			El("h3", "", Text("Getting Started")),
			El("p", "", Text("No builds have been uploaded for this project yet.")),
			El("p", "", Text("Run Lighthouse CI in your build and upload the results to this server:")),
			El("pre", "", El("code", "", Text(upload))),
			El("p", "", Text("The dashboard appears here once the first build arrives.")),
		),
	)
}
