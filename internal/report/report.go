// Package report renders assessment results as markdown and HTML for
// download and for the dashboard report view.
package report

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/gomarkdown/markdown"
	"github.com/gomarkdown/markdown/html"
	"github.com/gomarkdown/markdown/parser"

	"normscope/domain/norms"
)

// Markdown builds the full assessment report as a markdown document.
// Scores appear in assessment order, skipped constructs after them, and
// the band legend is derived from the table the scores were banded with.
func Markdown(a *norms.Assessment, bands norms.BandTable) string {
	var doc strings.Builder

	doc.WriteString("# Normative Assessment Report\n\n")
	doc.WriteString(fmt.Sprintf("Generated: %s\n\n", a.CreatedAt.String()))
	doc.WriteString(fmt.Sprintf("Assessment: `%s`\n\n", a.ID.String()))

	doc.WriteString("## Cohort\n\n")
	doc.WriteString(fmt.Sprintf("- Source: %s (`%s`)\n", a.Source, a.Fingerprint.Short()))
	doc.WriteString(fmt.Sprintf("- Age range: %s\n", a.Filter.Age.String()))
	doc.WriteString(fmt.Sprintf("- IQ range: %s\n", a.Filter.IQ.String()))
	doc.WriteString(fmt.Sprintf("- Matching records: %d\n\n", a.CohortSize))

	if len(a.Scores) > 0 {
		doc.WriteString("## Construct Scores\n\n")
		doc.WriteString("| Construct | Observed | Cohort Mean | Cohort SD | N | Z | Percentile | Band |\n")
		doc.WriteString("|---|---|---|---|---|---|---|---|\n")
		for _, s := range a.Scores {
			doc.WriteString(fmt.Sprintf("| %s | %s | %.2f | %.2f | %d | %+.2f | %.1f | %s |\n",
				s.Metric.String(), trimFloat(s.Observed), s.Summary.Mean,
				s.Summary.StdDev, s.Summary.Count, s.Z, s.Percentile, s.Band))
		}
		doc.WriteString("\n")
	}

	if len(a.Skipped) > 0 {
		doc.WriteString("## Skipped Constructs\n\n")
		doc.WriteString("| Construct | Reason |\n")
		doc.WriteString("|---|---|\n")
		for _, sk := range a.Skipped {
			doc.WriteString(fmt.Sprintf("| %s | %s |\n", sk.Metric.String(), sk.Reason))
		}
		doc.WriteString("\n")
	}

	doc.WriteString("## Band Legend\n\n")
	doc.WriteString("| Band | Z range |\n")
	doc.WriteString("|---|---|\n")
	for _, line := range legend(bands) {
		doc.WriteString(line)
	}

	return doc.String()
}

// Summary builds a one-line plain-text digest used by CLI output and logs.
func Summary(a *norms.Assessment) string {
	labels := make([]string, 0, len(a.Scores))
	for _, s := range a.Scores {
		labels = append(labels, fmt.Sprintf("%s z=%+.2f (%s)", s.Metric.String(), s.Z, s.Band))
	}
	sort.Strings(labels)
	return fmt.Sprintf("n=%d scored=%d skipped=%d [%s]",
		a.CohortSize, len(a.Scores), len(a.Skipped), strings.Join(labels, ", "))
}

// HTML renders a markdown document to an HTML fragment. Parsers are
// single-use, so each call constructs its own.
func HTML(md string) []byte {
	p := parser.NewWithExtensions(parser.CommonExtensions | parser.Tables)
	doc := p.Parse([]byte(md))
	renderer := html.NewRenderer(html.RendererOptions{Flags: html.CommonFlags})
	return markdown.Render(doc, renderer)
}

func legend(bands norms.BandTable) []string {
	lines := make([]string, 0, len(bands))
	var prev float64
	for i, b := range bands {
		var zrange string
		switch {
		case i == 0:
			zrange = fmt.Sprintf("z <= %g", b.Upper)
		case math.IsInf(b.Upper, 1):
			zrange = fmt.Sprintf("z > %g", prev)
		default:
			zrange = fmt.Sprintf("%g < z <= %g", prev, b.Upper)
		}
		lines = append(lines, fmt.Sprintf("| %s | %s |\n", b.Label, zrange))
		prev = b.Upper
	}
	return lines
}

// trimFloat prints observed values the way they were typed: no trailing
// zeros for whole numbers, full precision otherwise.
func trimFloat(v float64) string {
	return fmt.Sprintf("%g", v)
}
