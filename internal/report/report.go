// Package report renders analysis summaries as a markdown document.
package report

import (
	"fmt"
	"strings"
	"time"

	"github.com/gomarkdown/markdown"
	"github.com/gomarkdown/markdown/html"
	"github.com/gomarkdown/markdown/parser"

	"gazecenter/app"
	"gazecenter/domain/core"
)

// Report is the input of Build
type Report struct {
	Source      string
	RadiusDeg   float64
	GeneratedAt time.Time
	Analyses    []*app.Analysis
	Failures    map[core.ParticipantID]error
}

// Build renders r as markdown
func Build(r Report) string {
	var b strings.Builder

	b.WriteString("# Eye Center Report\n\n")
	fmt.Fprintf(&b, "- Source: `%s`\n", r.Source)
	fmt.Fprintf(&b, "- Center radius: %g°\n", r.RadiusDeg)
	if !r.GeneratedAt.IsZero() {
		fmt.Fprintf(&b, "- Generated: %s\n", r.GeneratedAt.UTC().Format(time.RFC3339))
	}
	if len(r.Analyses) > 0 {
		d := r.Analyses[0].Device
		fmt.Fprintf(&b, "- Device: %s, %gx%g px, FOV %g°x%g°\n", d.Name, d.Resolution.Width, d.Resolution.Height, d.FOV.X, d.FOV.Y)
	}
	b.WriteString("\n## Summary\n\n")

	if len(r.Analyses) == 0 {
		b.WriteString("No participants analyzed.\n")
	} else {
		b.WriteString("| Scope | Label | Samples | Inside | Outside | Inside % | Outside % |\n")
		b.WriteString("|---|---|---:|---:|---:|---:|---:|\n")
		for _, a := range r.Analyses {
			fmt.Fprintf(&b, "| %s | %s | %d | %d | %d | %.1f%% | %.1f%% |\n",
				a.Scope, escape(a.Label), a.Summary.Total, a.Summary.Inside, a.Summary.Outside,
				a.Summary.InsideRatio*100, a.Summary.OutsideRatio*100)
		}

		b.WriteString("\n## Distance from center\n\n")
		b.WriteString("| Label | Mean (px) | Median (px) | Std dev (px) | Median (deg) | Outliers | Eye disagreement (px) |\n")
		b.WriteString("|---|---:|---:|---:|---:|---:|---:|\n")
		for _, a := range r.Analyses {
			d := a.Distances
			fmt.Fprintf(&b, "| %s | %.1f | %.1f | %.1f | %.2f | %d | %.1f |\n",
				escape(a.Label), d.Pixels.Mean, d.Pixels.Median, d.Pixels.StdDev, d.Degrees.Median, d.Outliers, d.EyeDisagreement)
		}
	}

	if len(r.Failures) > 0 {
		b.WriteString("\n## Failed participants\n\n")
		for _, id := range app.FailedIDs(r.Failures) {
			fmt.Fprintf(&b, "- **%s**: %s\n", escape(id.String()), escape(r.Failures[id].Error()))
		}
		b.WriteString("\nThe aggregate is omitted while any participant fails to load.\n")
	}

	return b.String()
}

// HTML converts markdown to an HTML fragment
func HTML(md string) []byte {
	p := parser.NewWithExtensions(parser.CommonExtensions | parser.AutoHeadingIDs)
	doc := p.Parse([]byte(md))
	renderer := html.NewRenderer(html.RendererOptions{Flags: html.CommonFlags})
	return markdown.Render(doc, renderer)
}

func escape(s string) string {
	return strings.NewReplacer("|", `\|`, "\n", " ").Replace(s)
}
