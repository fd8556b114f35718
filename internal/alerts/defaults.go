package alerts

import (
	"time"

	"github.com/saeedalam/trendvision-mcp/pkg/types"
)

// DefaultStartDate is the start of the recommended list window
const DefaultStartDate = "2020-01-01T00:00:00Z"

// isoMillis matches the millisecond UTC format the workbench emits
const isoMillis = "2006-01-02T15:04:05.000Z"

const (
	defaultsInstructions = "When using the get-alerts-list tool, please apply the following defaults unless the user specifically requests different parameters:"
	defaultsUsage        = "Example: To get in-progress alerts from 2020 until today, sorted by last updated date in descending order, just call get-alerts-list without parameters. To override defaults, explicitly specify the parameters you want to change."
)

// Defaults returns the recommended list parameters. Only the end of the
// date range depends on now; everything else is fixed.
func Defaults(now time.Time) types.SystemInstructions {
	return types.SystemInstructions{
		Instructions: defaultsInstructions,
		Defaults: types.SystemDefaults{
			DefaultDateRange: types.DateRange{
				StartDate: DefaultStartDate,
				EndDate:   now.UTC().Format(isoMillis),
			},
			DefaultFilters: types.DefaultFilters{
				Status:    string(types.StatusNew),
				SortBy:    "lastUpdatedDateTime",
				SortOrder: "desc",
			},
		},
		Usage: defaultsUsage,
	}
}
