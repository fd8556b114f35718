package alerts

import (
	"net/url"
	"strings"
)

const workbenchAlertsPath = "/v3.0/workbench/alerts"

// Endpoints builds workbench URLs under a fixed API base
type Endpoints struct {
	base string
}

func NewEndpoints(baseURL string) Endpoints {
	return Endpoints{base: strings.TrimRight(baseURL, "/")}
}

// Alerts is the list URL. No "?" is added for an empty query.
func (e Endpoints) Alerts(q ListQuery) string {
	u := e.base + workbenchAlertsPath
	if qs := q.Encode(); qs != "" {
		u += "?" + qs
	}
	return u
}

func (e Endpoints) Alert(alertID string) string {
	return e.base + workbenchAlertsPath + "/" + url.PathEscape(alertID)
}

func (e Endpoints) Notes(alertID string) string {
	return e.Alert(alertID) + "/notes"
}
