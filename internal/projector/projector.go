package projector

import (
	"strings"

	"github.com/Otwaboy/Agaspay-Capstone-sub004/internal/models"
)

// Filter is the page-scoped filter state: free-text search plus the facet
// selections. Empty facets are ignored; non-empty ones are AND-combined.
type Filter struct {
	Search string
	Status string
	Zone   string
	Tab    string
}

// Facets tells the projector how to read one resource type. SearchFields
// yields the text fields the search term is OR-matched against; Status and
// Zone read the facet values; Tab decides membership of the active tab.
// Nil readers disable the corresponding facet.
type Facets[T any] struct {
	SearchFields func(T) []string
	Status       func(T) string
	Zone         func(T) string
	Tab          func(T, string) bool
}

// Project returns the visible subset of items for the filter. It is pure:
// it never reorders, never mutates its input, and identical inputs yield
// identical output.
func Project[T any](items []T, filter Filter, facets Facets[T]) []T {
	search := strings.ToLower(strings.TrimSpace(filter.Search))

	out := make([]T, 0, len(items))
	for _, item := range items {
		if search != "" && facets.SearchFields != nil && !matchesSearch(facets.SearchFields(item), search) {
			continue
		}
		if filter.Status != "" && facets.Status != nil && facets.Status(item) != filter.Status {
			continue
		}
		if filter.Zone != "" && facets.Zone != nil && facets.Zone(item) != filter.Zone {
			continue
		}
		if filter.Tab != "" && facets.Tab != nil && !facets.Tab(item, filter.Tab) {
			continue
		}
		out = append(out, item)
	}
	return out
}

func matchesSearch(fields []string, search string) bool {
	for _, field := range fields {
		if strings.Contains(strings.ToLower(field), search) {
			return true
		}
	}
	return false
}

// ConnectionFacets matches connections on resident name, account and meter
// numbers.
func ConnectionFacets() Facets[models.Connection] {
	return Facets[models.Connection]{
		SearchFields: func(c models.Connection) []string {
			return []string{c.ResidentName, c.AccountNumber, c.MeterNumber}
		},
		Status: func(c models.Connection) string { return string(c.Status) },
		Zone:   func(c models.Connection) string { return c.Zone },
		Tab: func(c models.Connection, tab string) bool {
			return string(c.Status) == tab
		},
	}
}

// ResidentFacets matches residents on name and contact number.
func ResidentFacets() Facets[models.Resident] {
	return Facets[models.Resident]{
		SearchFields: func(r models.Resident) []string {
			return []string{r.FullName(), r.ContactNo, r.Email}
		},
		Status: func(r models.Resident) string { return string(r.Status) },
		Zone:   func(r models.Resident) string { return r.Zone },
	}
}

// PersonnelFacets matches staff on name and role.
func PersonnelFacets() Facets[models.Personnel] {
	return Facets[models.Personnel]{
		SearchFields: func(p models.Personnel) []string {
			return []string{p.Name, string(p.Role)}
		},
		Status: func(p models.Personnel) string { return string(p.Status) },
		Zone:   func(p models.Personnel) string { return p.Zone },
	}
}

// ArchiveFacets matches archive requests on target name and requester; the
// tab facet splits connection requests from personnel requests.
func ArchiveFacets() Facets[models.ArchiveRequest] {
	return Facets[models.ArchiveRequest]{
		SearchFields: func(r models.ArchiveRequest) []string {
			return []string{r.TargetName, r.RequestedBy, r.Reason}
		},
		Status: func(r models.ArchiveRequest) string { return string(r.Status) },
		Tab: func(r models.ArchiveRequest, tab string) bool {
			return string(r.Target) == tab
		},
	}
}

// BillFacets matches bills on resident name and account number.
func BillFacets() Facets[models.Bill] {
	return Facets[models.Bill]{
		SearchFields: func(b models.Bill) []string {
			return []string{b.ResidentName, b.AccountNumber}
		},
		Status: func(b models.Bill) string { return string(b.Status) },
		Zone:   func(b models.Bill) string { return b.Zone },
	}
}

// IncidentFacets matches incidents on title, description and assignee.
func IncidentFacets() Facets[models.Incident] {
	return Facets[models.Incident]{
		SearchFields: func(i models.Incident) []string {
			return []string{i.Title, i.Description, i.AssignedTo}
		},
		Status: func(i models.Incident) string { return string(i.Status) },
		Zone:   func(i models.Incident) string { return i.Zone },
	}
}

// TaskFacets matches tasks on title, kind and assignee.
func TaskFacets() Facets[models.Task] {
	return Facets[models.Task]{
		SearchFields: func(t models.Task) []string {
			return []string{t.Title, t.Kind, t.AssignedTo}
		},
		Status: func(t models.Task) string { return string(t.Status) },
		Zone:   func(t models.Task) string { return t.Zone },
	}
}
