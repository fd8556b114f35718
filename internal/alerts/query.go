package alerts

import (
	"net/url"
	"strconv"
)

// ListQuery holds the optional alert list filters. Nil fields are left out
// of the request so the API applies its own defaults.
type ListQuery struct {
	StartDateTime  *string `json:"startDateTime,omitempty" validate:"omitempty,datetime=2006-01-02T15:04:05Z07:00"`
	EndDateTime    *string `json:"endDateTime,omitempty" validate:"omitempty,datetime=2006-01-02T15:04:05Z07:00"`
	DateTimeTarget *string `json:"dateTimeTarget,omitempty" validate:"omitempty,oneof=created lastUpdated"`
	Top            *int    `json:"top,omitempty" validate:"omitempty,gt=0"`
	SortBy         *string `json:"sortBy,omitempty" validate:"omitempty,oneof=createdDateTime lastUpdatedDateTime severity status"`
	SortOrder      *string `json:"sortOrder,omitempty" validate:"omitempty,oneof=asc desc"`
	Severity       *string `json:"severity,omitempty" validate:"omitempty,oneof=critical high medium low informational"`
	Status         *string `json:"status,omitempty" validate:"omitempty,oneof=new in_progress closed reopened"`
	SourceProduct  *string `json:"sourceProduct,omitempty"`
	Model          *string `json:"model,omitempty"`
	Description    *string `json:"description,omitempty"`
	EntityValue    *string `json:"entityValue,omitempty"`
	SkipToken      *string `json:"skipToken,omitempty"`
}

// Values returns every set field under its wire name, verbatim.
func (q ListQuery) Values() url.Values {
	v := url.Values{}
	set := func(key string, val *string) {
		if val != nil {
			v.Set(key, *val)
		}
	}

	set("startDateTime", q.StartDateTime)
	set("endDateTime", q.EndDateTime)
	set("dateTimeTarget", q.DateTimeTarget)
	if q.Top != nil {
		v.Set("top", strconv.Itoa(*q.Top))
	}
	set("sortBy", q.SortBy)
	set("sortOrder", q.SortOrder)
	set("severity", q.Severity)
	set("status", q.Status)
	set("sourceProduct", q.SourceProduct)
	set("model", q.Model)
	set("description", q.Description)
	set("entityValue", q.EntityValue)
	set("skipToken", q.SkipToken)
	return v
}

// Encode renders the query string, empty when nothing is set.
func (q ListQuery) Encode() string {
	return q.Values().Encode()
}
