package alerts

import (
	"fmt"
	"strings"

	"github.com/saeedalam/trendvision-mcp/pkg/types"
)

// Unknown fills summary fields whose source was not fetched
const Unknown = "Unknown"

const (
	noDetailsFindings        = "No alert details available for analysis."
	noDetailsImpact          = "No alert details available for impact assessment."
	noDetailsRecommendations = "Cannot provide recommendations without alert details."
	noNotes                  = "No investigation notes available."
	noImpactScope            = "No detailed impact scope information available."
	statusUpdateReminder     = " Update alert status to reflect investigation progress."
)

var severityActions = map[types.Severity]string{
	types.SeverityCritical: "Immediate investigation required. Isolate affected systems. Escalate to security team leads.",
	types.SeverityHigh:     "Prioritize investigation. Consider containment measures for affected systems.",
	types.SeverityMedium:   "Investigate within 24 hours. Monitor for escalation or related alerts.",
	types.SeverityLow:      "Review during regular security operations. Monitor for pattern development.",
}

const defaultAction = "Review alert details and determine appropriate action based on context."

// Findings narrates the alert model, description, indicators and notes.
// Notes are only consulted when the alert itself is known.
func Findings(detail *types.AlertDetail, notes *types.NotesPage) string {
	if detail == nil {
		return noDetailsFindings
	}

	var b strings.Builder
	b.WriteString("Alert model: " + orDefault(detail.Model, "Not specified") + ". ")

	if detail.Description != "" {
		b.WriteString("Description: " + detail.Description + ". ")
	}

	if len(detail.Indicators) > 0 {
		pairs := make([]string, 0, len(detail.Indicators))
		for _, ind := range detail.Indicators {
			pairs = append(pairs, ind.Type+":"+ind.Value)
		}
		b.WriteString("Detected indicators: " + strings.Join(pairs, ", ") + ". ")
	}

	if notes != nil && len(notes.Items) > 0 {
		contents := make([]string, 0, len(notes.Items))
		for _, n := range notes.Items {
			contents = append(contents, n.Content)
		}
		b.WriteString("Investigation notes: " + strings.Join(contents, " | "))
	} else {
		b.WriteString(noNotes)
	}

	return b.String()
}

// ImpactAssessment states the severity and whichever impact counts are present,
// in the order endpoints, servers, email accounts, total.
func ImpactAssessment(detail *types.AlertDetail) string {
	if detail == nil {
		return noDetailsImpact
	}

	var b strings.Builder
	b.WriteString("Severity: " + orDefault(string(detail.Severity), Unknown) + ". ")

	scope := detail.ImpactScope
	if scope == nil {
		b.WriteString(noImpactScope)
		return b.String()
	}

	b.WriteString("Impact scope: ")
	if scope.Endpoints != nil {
		fmt.Fprintf(&b, "%d endpoints. ", *scope.Endpoints)
	}
	if scope.Servers != nil {
		fmt.Fprintf(&b, "%d servers. ", *scope.Servers)
	}
	if scope.AccountEmails != nil {
		fmt.Fprintf(&b, "%d email accounts. ", *scope.AccountEmails)
	}
	if scope.TotalImpactedEntities != nil {
		fmt.Fprintf(&b, "Total of %d impacted entities.", *scope.TotalImpactedEntities)
	}

	return b.String()
}

// RecommendedActions maps severity to a fixed playbook line. New alerts also
// get a reminder to move their status forward.
func RecommendedActions(detail *types.AlertDetail) string {
	if detail == nil {
		return noDetailsRecommendations
	}

	action, ok := severityActions[detail.Severity]
	if !ok {
		action = defaultAction
	}
	if detail.Status == types.StatusNew {
		action += statusUpdateReminder
	}
	return action
}

// Summarize derives the investigation summary. Either argument may be nil.
func Summarize(detail *types.AlertDetail, notes *types.NotesPage) types.InvestigationSummary {
	summary := types.InvestigationSummary{
		Severity:            Unknown,
		Status:              Unknown,
		CreatedDateTime:     Unknown,
		LastUpdatedDateTime: Unknown,
		Findings:            Findings(detail, notes),
		ImpactAssessment:    ImpactAssessment(detail),
		RecommendedActions:  RecommendedActions(detail),
	}

	if detail != nil {
		summary.Severity = orDefault(string(detail.Severity), Unknown)
		summary.Status = orDefault(string(detail.Status), Unknown)
		summary.CreatedDateTime = orDefault(detail.CreatedDateTime, Unknown)
		summary.LastUpdatedDateTime = orDefault(detail.LastUpdatedDateTime, Unknown)
	}
	if notes != nil {
		summary.NotesCount = len(notes.Items)
	}

	return summary
}

func orDefault(s, fallback string) string {
	if s == "" {
		return fallback
	}
	return s
}
