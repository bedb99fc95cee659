// Package tui renders pipeline results for the terminal and hosts the
// interactive confirm prompt and init wizard.
package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/alexisbeaulieu97/devsync/internal/model"
)

// StatusIcon maps a step status to its rendered glyph.
func StatusIcon(status string) string {
	switch status {
	case model.StatusSuccess:
		return successStyle.Render("✔")
	case model.StatusFailed:
		return failureStyle.Render("✖")
	case model.StatusWarned:
		return warnStyle.Render("▲")
	case model.StatusSkipped:
		return skippedStyle.Render("↷")
	case model.StatusRunning:
		return mutedStyle.Render("…")
	default:
		return mutedStyle.Render("·")
	}
}

func severityLabel(sev model.Severity) string {
	switch sev {
	case model.SeverityBlocking:
		return failureStyle.Render("blocking")
	case model.SeverityRecommended:
		return warnStyle.Render("recommended")
	default:
		return mutedStyle.Render("info")
	}
}

// RenderDiff renders discrepancy records as a per-check report.
func RenderDiff(projectName string, records []model.Discrepancy) string {
	var sections []string
	sections = append(sections, titleStyle.Render(fmt.Sprintf("devsync • %s", projectName)))

	if len(records) == 0 {
		sections = append(sections, successStyle.Render("environment matches the manifest"))
		return lipgloss.JoinVertical(lipgloss.Left, sections...)
	}

	sections = append(sections, sectionStyle.Render(fmt.Sprintf("Discrepancies (%d)", len(records))))
	for _, rec := range records {
		line := fmt.Sprintf(" %s %s: expected %s, observed %s",
			severityLabel(rec.Severity),
			rec.Key,
			expectedStyle.Render(rec.Expected),
			observedStyle.Render(rec.Observed))
		sections = append(sections, line)
		if rec.Suggested != "" {
			sections = append(sections, mutedStyle.Render("     ↳ "+rec.Suggested))
		}
	}

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

// RenderRun renders step outcomes and the aggregate status. Verbose mode
// additionally surfaces each failed step's raw underlying error.
func RenderRun(result *model.RunResult, verbose bool) string {
	var sections []string

	sections = append(sections, sectionStyle.Render("Steps"))
	for _, res := range result.Steps {
		sections = append(sections, fmt.Sprintf(" %s %s  %s", StatusIcon(res.Status), res.StepID, res.Message))
		if verbose && res.Error != nil {
			sections = append(sections, mutedStyle.Render("     ↳ "+res.Error.Error()))
		}
	}

	var status string
	switch result.Status {
	case model.StatusSuccess:
		status = successStyle.Render("sync succeeded")
	case model.StatusWarned:
		status = warnStyle.Render("sync finished with warnings")
	default:
		status = failureStyle.Render("sync failed")
	}
	sections = append(sections, summaryStyle.Render(status))

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

// RenderHealth renders the weighted score, band, and deductions.
func RenderHealth(projectName string, report model.HealthReport) string {
	var sections []string
	sections = append(sections, titleStyle.Render(fmt.Sprintf("devsync • %s", projectName)))

	var bandStyle lipgloss.Style
	switch report.Band {
	case model.BandExcellent:
		bandStyle = successStyle
	case model.BandGood:
		bandStyle = warnStyle
	default:
		bandStyle = failureStyle
	}
	sections = append(sections, fmt.Sprintf("Health: %d/100 (%s)", report.Score, bandStyle.Render(string(report.Band))))

	if len(report.Deductions) > 0 {
		sections = append(sections, sectionStyle.Render("Deductions"))
		for _, d := range report.Deductions {
			sections = append(sections, fmt.Sprintf(" -%-3d %s  %s", d.Weight, d.Key, mutedStyle.Render(d.Reason)))
		}
	}

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

// RenderDelta renders a unified diff of a proposed manifest rewrite.
func RenderDelta(delta string) string {
	if strings.TrimSpace(delta) == "" {
		return successStyle.Render("manifest already matches the machine")
	}

	var lines []string
	for _, line := range strings.Split(strings.TrimRight(delta, "\n"), "\n") {
		switch {
		case strings.HasPrefix(line, "+"):
			lines = append(lines, expectedStyle.Render(line))
		case strings.HasPrefix(line, "-"):
			lines = append(lines, observedStyle.Render(line))
		default:
			lines = append(lines, mutedStyle.Render(line))
		}
	}
	return strings.Join(lines, "\n")
}
