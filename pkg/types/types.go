package types

import "encoding/json"

// =============================================================================
// WORKBENCH ALERT TYPES
// Shapes returned by the Vision One workbench API
// =============================================================================

// Severity is the alert severity reported by the workbench.
type Severity string

const (
	SeverityCritical      Severity = "critical"
	SeverityHigh          Severity = "high"
	SeverityMedium        Severity = "medium"
	SeverityLow           Severity = "low"
	SeverityInformational Severity = "informational"
)

// Status is the workbench investigation status of an alert.
type Status string

const (
	StatusNew        Status = "new"
	StatusInProgress Status = "in_progress"
	StatusClosed     Status = "closed"
	StatusReopened   Status = "reopened"
)

// AlertSummary holds the fields every alert carries
type AlertSummary struct {
	ID                  string   `json:"id"`
	Severity            Severity `json:"severity"`
	Status              Status   `json:"status"`
	CreatedDateTime     string   `json:"createdDateTime"`
	LastUpdatedDateTime string   `json:"lastUpdatedDateTime"`
	Model               string   `json:"model,omitempty"`
	Description         string   `json:"description,omitempty"`
	WorkbenchLink       string   `json:"workbenchLink,omitempty"`
}

// AlertsPage is a page of the alert list. The workbench returns list items
// in the detail shape, so they decode as AlertDetail and keep every field.
type AlertsPage struct {
	Items    []AlertDetail `json:"items"`
	NextLink string        `json:"nextLink,omitempty"`
}

// ImpactScope counts the entities an alert touches. Nil fields were absent upstream.
type ImpactScope struct {
	Endpoints             *int `json:"endpoints,omitempty"`
	Servers               *int `json:"servers,omitempty"`
	AccountEmails         *int `json:"accountEmails,omitempty"`
	TotalImpactedEntities *int `json:"totalImpactedEntities,omitempty"`
}

// Indicator is a single observable attached to an alert
type Indicator struct {
	Type  string `json:"type"`
	Value string `json:"value"`
}

// AlertDetail is the full alert record.
//
// Fields the workbench returns beyond the ones modelled here (entityType,
// entityValue, sourceProduct, schemaVersion, matchedIndicators, ...) are kept
// verbatim in Extra and written back out unchanged.
type AlertDetail struct {
	AlertSummary
	InvestigationStatus string       `json:"investigationStatus,omitempty"`
	ImpactScope         *ImpactScope `json:"impactScope,omitempty"`
	Indicators          []Indicator  `json:"indicators,omitempty"`

	Extra map[string]json.RawMessage `json:"-"`
}

var alertDetailKeys = []string{
	"id", "severity", "status", "createdDateTime", "lastUpdatedDateTime",
	"model", "description", "workbenchLink",
	"investigationStatus", "impactScope", "indicators",
}

// UnmarshalJSON decodes the known fields and collects the rest into Extra.
func (d *AlertDetail) UnmarshalJSON(data []byte) error {
	type known AlertDetail
	var k known
	if err := json.Unmarshal(data, &k); err != nil {
		return err
	}

	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	for _, key := range alertDetailKeys {
		delete(raw, key)
	}

	*d = AlertDetail(k)
	if len(raw) > 0 {
		d.Extra = raw
	}
	return nil
}

// MarshalJSON writes the known fields followed by Extra. Known fields win on collision.
func (d AlertDetail) MarshalJSON() ([]byte, error) {
	type known AlertDetail
	data, err := json.Marshal(known(d))
	if err != nil || len(d.Extra) == 0 {
		return data, err
	}

	var merged map[string]json.RawMessage
	if err := json.Unmarshal(data, &merged); err != nil {
		return nil, err
	}
	for k, v := range d.Extra {
		if _, ok := merged[k]; !ok {
			merged[k] = v
		}
	}
	return json.Marshal(merged)
}

// =============================================================================
// NOTE TYPES
// =============================================================================

// Note is an investigation note attached to an alert
type Note struct {
	ID              string `json:"id"`
	Content         string `json:"content"`
	CreatedDateTime string `json:"createdDateTime"`
	CreatedBy       string `json:"createdBy"`
}

// NotesPage is the first page of an alert's note log
type NotesPage struct {
	Items    []Note `json:"items"`
	NextLink string `json:"nextLink,omitempty"`
}

// NewNote is the body sent when adding a note
type NewNote struct {
	Content string `json:"content"`
}

// =============================================================================
// ENRICHMENT TYPES
// Derived per call, never persisted
// =============================================================================

// InvestigationSummary is the narrative derived from an alert and its notes
type InvestigationSummary struct {
	Severity            string `json:"severity"`
	Status              string `json:"status"`
	CreatedDateTime     string `json:"createdDateTime"`
	LastUpdatedDateTime string `json:"lastUpdatedDateTime"`
	NotesCount          int    `json:"notesCount"`
	Findings            string `json:"findings"`
	ImpactAssessment    string `json:"impactAssessment"`
	RecommendedActions  string `json:"recommendedActions"`
}

// EnrichedAlert combines the fetched alert, its notes and the derived summary.
// AlertDetails and Notes are nil when the corresponding fetch failed.
type EnrichedAlert struct {
	AlertDetails *AlertDetail         `json:"alertDetails"`
	Notes        *NotesPage           `json:"notes"`
	Summary      InvestigationSummary `json:"summary"`
}

// NoteAppendResult reports the outcome of adding a note.
// Notes is nil when the write failed and points to a possibly empty list
// otherwise. Confirmed is true only when the read-back contains the submitted content.
type NoteAppendResult struct {
	Success   bool    `json:"success"`
	Message   string  `json:"message"`
	Notes     *[]Note `json:"notes,omitempty"`
	Confirmed bool    `json:"confirmed"`
}

// =============================================================================
// DEFAULTS
// =============================================================================

// DateRange is a start/end pair of ISO-8601 timestamps
type DateRange struct {
	StartDate string `json:"startDate"`
	EndDate   string `json:"endDate"`
}

// DefaultFilters are the list filters callers are advised to apply
type DefaultFilters struct {
	Status    string `json:"status"`
	SortBy    string `json:"sortBy"`
	SortOrder string `json:"sortOrder"`
}

// SystemDefaults groups the recommended list defaults
type SystemDefaults struct {
	DefaultDateRange DateRange      `json:"defaultDateRange"`
	DefaultFilters   DefaultFilters `json:"defaultFilters"`
}

// SystemInstructions is the payload of the defaults introspection tool
type SystemInstructions struct {
	Instructions string         `json:"instructions"`
	Defaults     SystemDefaults `json:"defaults"`
	Usage        string         `json:"usage"`
}
