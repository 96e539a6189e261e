package report

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"gazecenter/app"
	"gazecenter/domain/core"
	"gazecenter/domain/gaze"
	"gazecenter/ports"
)

func analysis(scope, label string, inside, outside int) *app.Analysis {
	total := inside + outside
	s := gaze.Summary{Total: total, Inside: inside, Outside: outside, OutsideRatio: 1}
	if total > 0 {
		s.InsideRatio = float64(inside) / float64(total)
		s.OutsideRatio = 1 - s.InsideRatio
	}
	return &app.Analysis{Scope: scope, Label: label, Device: gaze.DK2(), Summary: s}
}

func TestBuild(t *testing.T) {
	md := Build(Report{
		Source:    "dir:./data",
		RadiusDeg: 10,
		Analyses: []*app.Analysis{
			analysis(ports.ScopeIndividual, "Participant P01", 2, 2),
			analysis(ports.ScopeAggregate, app.AggregateLabel, 3, 1),
		},
	})

	assert.Contains(t, md, "# Eye Center Report")
	assert.Contains(t, md, "| individual | Participant P01 | 4 | 2 | 2 | 50.0% | 50.0% |")
	assert.Contains(t, md, "| aggregate | All participants | 4 | 3 | 1 | 75.0% | 25.0% |")
	assert.Contains(t, md, "Center radius: 10°")
	assert.NotContains(t, md, "Failed participants")
}

func TestBuildListsFailures(t *testing.T) {
	md := Build(Report{
		RadiusDeg: 5,
		Failures: map[core.ParticipantID]error{
			"P02": fmt.Errorf("line 3: column yaw: \"x\" is not a number"),
		},
	})

	assert.Contains(t, md, "No participants analyzed.")
	assert.Contains(t, md, "- **P02**: line 3")
}

func TestHTMLRendersTables(t *testing.T) {
	out := string(HTML(Build(Report{
		Analyses: []*app.Analysis{analysis(ports.ScopeIndividual, "Participant P07", 1, 0)},
	})))

	assert.True(t, strings.Contains(out, "<table>"))
	assert.Contains(t, out, "<h1")
	assert.Contains(t, out, "Participant P07")
}
