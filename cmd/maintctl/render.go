package main

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/ukydev/fleet-maintenance/internal/forecast"
	"github.com/ukydev/fleet-maintenance/internal/models"
)

var (
	headerStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#3AA99F"))
	mutedStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#6F6E69"))
	statusStyles = map[models.ServiceStatus]lipgloss.Style{
		models.StatusOverdue: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#D14D41")),
		models.StatusDueSoon: lipgloss.NewStyle().Foreground(lipgloss.Color("#DA702C")),
		models.StatusGood:    lipgloss.NewStyle().Foreground(lipgloss.Color("#879A39")),
		models.StatusNeutral: mutedStyle,
	}
)

func statusLabel(s models.ServiceStatus) string {
	label := strings.ReplaceAll(string(s), "_", " ")
	if style, ok := statusStyles[s]; ok {
		return style.Render(label)
	}
	return label
}

func dateOrDash(t *time.Time) string {
	if t == nil {
		return "-"
	}
	return t.Format("2006-01-02")
}

func distanceOrDash(d *int) string {
	if d == nil {
		return "-"
	}
	return fmt.Sprintf("%d", *d)
}

// overallStatus is the most urgent status among items.
func overallStatus(items []forecast.Item) models.ServiceStatus {
	worst := models.StatusNeutral
	for _, item := range items {
		if item.Status.Priority() < worst.Priority() {
			worst = item.Status
		}
	}
	return worst
}

func renderReport(w io.Writer, r *forecast.Report) {
	fmt.Fprintln(w, headerStyle.Render("Vehicle "+r.VehicleID))
	if r.Pace != nil {
		fmt.Fprintf(w, "  Pace:       %.1f/day", *r.Pace)
		if r.Confidence != nil {
			fmt.Fprintf(w, " (%s confidence)", r.Confidence.Level)
		}
		fmt.Fprintln(w)
	} else {
		fmt.Fprintln(w, mutedStyle.Render("  Pace:       not enough readings"))
	}
	fmt.Fprintf(w, "  Odometer:   %d", r.LastOdometer)
	if r.ProjectedOdometer != nil {
		fmt.Fprintf(w, " (projected %d)", *r.ProjectedOdometer)
	}
	fmt.Fprintln(w)
	fmt.Fprintf(w, "  Overall:    %s\n", statusLabel(overallStatus(r.Items)))
	fmt.Fprintln(w)

	if len(r.Items) == 0 {
		fmt.Fprintln(w, mutedStyle.Render("  No tracked items"))
		return
	}

	fmt.Fprintln(w, headerStyle.Render(fmt.Sprintf("  %-24s %-10s %-12s %-12s %s", "Item", "Status", "Due date", "Due distance", "Effective")))
	for _, item := range r.Items {
		// pad before styling so escape codes don't skew the columns
		status := statusLabel(item.Status) + strings.Repeat(" ", max(0, 10-len(item.Status)))
		fmt.Fprintf(w, "  %-24s %s %-12s %-12s %s\n",
			item.Name,
			status,
			dateOrDash(item.Deadlines.DueDate),
			distanceOrDash(item.Deadlines.DueDistance),
			dateOrDash(item.EffectiveDue),
		)
	}
}
