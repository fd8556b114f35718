package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/saeedalam/trendvision-mcp/internal/alerts"
	"github.com/saeedalam/trendvision-mcp/internal/mcp"
)

var alertsCmd = &cobra.Command{
	Use:   "alerts",
	Short: "Query workbench alerts from the terminal",
	Long: `Run the same workflows the MCP tools expose and print their JSON output.

Examples:
  trendvision-mcp alerts list --status new --top 20
  trendvision-mcp alerts show WB-9002-20240101-00001
  trendvision-mcp alerts note WB-9002-20240101-00001 "Host isolated"`,
}

// listOptions backs the alerts list flags
type listOptions struct {
	startDateTime  string
	endDateTime    string
	dateTimeTarget string
	top            int
	sortBy         string
	sortOrder      string
	severity       string
	status         string
	sourceProduct  string
	model          string
	description    string
	entityValue    string
	skipToken      string
}

var listFlags listOptions

var alertsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List alerts (only flags you set are sent)",
	Args:  cobra.NoArgs,
	RunE:  runAlertsList,
}

var alertsShowCmd = &cobra.Command{
	Use:   "show <alert-id>",
	Short: "Show an alert with its notes and investigation summary",
	Args:  cobra.ExactArgs(1),
	RunE:  runAlertsShow,
}

var alertsNoteCmd = &cobra.Command{
	Use:   "note <alert-id> <content>",
	Short: "Add an investigation note to an alert",
	Args:  cobra.ExactArgs(2),
	RunE:  runAlertsNote,
}

func init() {
	listFlags.register(alertsListCmd.Flags())

	alertsCmd.AddCommand(alertsListCmd)
	alertsCmd.AddCommand(alertsShowCmd)
	alertsCmd.AddCommand(alertsNoteCmd)
}

func (o *listOptions) register(f *pflag.FlagSet) {
	f.StringVar(&o.startDateTime, "start", "", "Start of time range (ISO-8601)")
	f.StringVar(&o.endDateTime, "end", "", "End of time range (ISO-8601)")
	f.StringVar(&o.dateTimeTarget, "date-target", "", "Date field to filter on (created, lastUpdated)")
	f.IntVar(&o.top, "top", 0, "Maximum number of alerts to return")
	f.StringVar(&o.sortBy, "sort-by", "", "Sort field (createdDateTime, lastUpdatedDateTime, severity, status)")
	f.StringVar(&o.sortOrder, "sort-order", "", "Sort order (asc, desc)")
	f.StringVar(&o.severity, "severity", "", "Filter by severity")
	f.StringVar(&o.status, "status", "", "Filter by status")
	f.StringVar(&o.sourceProduct, "source-product", "", "Filter by source product")
	f.StringVar(&o.model, "model", "", "Filter by alert model")
	f.StringVar(&o.description, "description", "", "Filter by description substring")
	f.StringVar(&o.entityValue, "entity-value", "", "Filter by entity value")
	f.StringVar(&o.skipToken, "skip-token", "", "Pagination token from a previous page")
}

// query sets only the fields whose flags were given on f
func (o *listOptions) query(f *pflag.FlagSet) alerts.ListQuery {
	str := func(name, val string) *string {
		if !f.Changed(name) {
			return nil
		}
		return &val
	}

	q := alerts.ListQuery{
		StartDateTime:  str("start", o.startDateTime),
		EndDateTime:    str("end", o.endDateTime),
		DateTimeTarget: str("date-target", o.dateTimeTarget),
		SortBy:         str("sort-by", o.sortBy),
		SortOrder:      str("sort-order", o.sortOrder),
		Severity:       str("severity", o.severity),
		Status:         str("status", o.status),
		SourceProduct:  str("source-product", o.sourceProduct),
		Model:          str("model", o.model),
		Description:    str("description", o.description),
		EntityValue:    str("entity-value", o.entityValue),
		SkipToken:      str("skip-token", o.skipToken),
	}
	if f.Changed("top") {
		top := o.top
		q.Top = &top
	}
	return q
}

func runAlertsList(cmd *cobra.Command, args []string) error {
	q := listFlags.query(cmd.Flags())
	if err := mcp.Validate(&q); err != nil {
		return fmt.Errorf("invalid flags: %w", err)
	}

	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.close()

	page, err := a.alerts.ListAlerts(context.Background(), q)
	if err != nil {
		return errors.New("Failed to fetch alerts")
	}
	return printJSON(cmd, page)
}

func runAlertsShow(cmd *cobra.Command, args []string) error {
	if args[0] == "" {
		return errors.New("alert id is required")
	}

	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.close()

	return printJSON(cmd, a.alerts.Enrich(context.Background(), args[0]))
}

func runAlertsNote(cmd *cobra.Command, args []string) error {
	note := struct {
		AlertID string `json:"alertId" validate:"required"`
		Content string `json:"content" validate:"required,max=10000"`
	}{AlertID: args[0], Content: args[1]}
	if err := mcp.Validate(&note); err != nil {
		return fmt.Errorf("invalid arguments: %w", err)
	}

	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.close()

	result := a.alerts.AppendNote(context.Background(), note.AlertID, note.Content)
	if err := printJSON(cmd, result); err != nil {
		return err
	}
	if !result.Success {
		return errors.New(result.Message)
	}
	return nil
}

func printJSON(cmd *cobra.Command, v interface{}) error {
	text, err := mcp.FormatJSON(v)
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), text)
	return nil
}
