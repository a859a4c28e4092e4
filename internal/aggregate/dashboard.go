package aggregate

import (
	"fmt"
	"sort"

	"github.com/Otwaboy/Agaspay-Capstone-sub004/internal/models"
	"github.com/Otwaboy/Agaspay-Capstone-sub004/pkg/export"
)

// DashboardSummary is the admin landing view composed from the cached
// collections.
type DashboardSummary struct {
	TotalConnections   int                `json:"totalConnections"`
	ConnectionsByState map[string]int     `json:"connectionsByState"`
	PendingApprovals   int                `json:"pendingApprovals"`
	BilledTotal        float64            `json:"billedTotal"`
	CollectedTotal     float64            `json:"collectedTotal"`
	CollectionRate     float64            `json:"collectionRate"`
	UnpaidTotal        float64            `json:"unpaidTotal"`
	RevenueByZone      map[string]float64 `json:"revenueByZone"`
	OpenIncidents      int                `json:"openIncidents"`
	ScheduledTasks     int                `json:"scheduledTasks"`
}

// BuildDashboard derives the summary from whatever collections are cached.
// Nil slices contribute zeroes.
func BuildDashboard(connections []models.Connection, bills []models.Bill, payments []models.Payment, incidents []models.Incident, tasks []models.Task) DashboardSummary {
	summary := DashboardSummary{
		TotalConnections: len(connections),
		ConnectionsByState: CountBy(connections, func(c models.Connection) string {
			return string(c.Status)
		}),
	}
	summary.PendingApprovals = summary.ConnectionsByState[string(models.ConnectionStatusPending)]

	summary.BilledTotal = Sum(bills, func(b models.Bill) float64 { return b.Amount })
	summary.CollectedTotal = Sum(payments, func(p models.Payment) float64 { return p.Amount })
	summary.CollectionRate = Percentage(summary.CollectedTotal, summary.BilledTotal)

	for _, bill := range bills {
		if bill.Status != models.BillStatusPaid {
			summary.UnpaidTotal += bill.Amount
		}
	}

	summary.RevenueByZone = SumBy(payments, func(p models.Payment) string {
		return zoneForAccount(bills, p.AccountNumber)
	}, func(p models.Payment) float64 {
		return p.Amount
	})

	for _, incident := range incidents {
		if incident.Status != models.IncidentStatusResolved {
			summary.OpenIncidents++
		}
	}
	for _, task := range tasks {
		if task.Status == models.TaskStatusScheduled {
			summary.ScheduledTasks++
		}
	}

	return summary
}

func zoneForAccount(bills []models.Bill, accountNumber string) string {
	for _, bill := range bills {
		if bill.AccountNumber == accountNumber && bill.Zone != "" {
			return bill.Zone
		}
	}
	return "unassigned"
}

// CollectionDataset renders a per-zone collection report for export.
func CollectionDataset(period string, bills []models.Bill, payments []models.Payment) export.Dataset {
	billedByZone := SumBy(bills, func(b models.Bill) string { return b.Zone }, func(b models.Bill) float64 { return b.Amount })
	collectedByZone := SumBy(payments, func(p models.Payment) string {
		return zoneForAccount(bills, p.AccountNumber)
	}, func(p models.Payment) float64 {
		return p.Amount
	})

	zones := make([]string, 0, len(billedByZone))
	for zone := range billedByZone {
		zones = append(zones, zone)
	}
	sort.Strings(zones)

	dataset := export.Dataset{
		Title:   "Collection Report",
		Period:  period,
		Headers: []string{"Zone", "Billed", "Collected", "Rate"},
	}
	var billedTotal, collectedTotal float64
	for _, zone := range zones {
		billed := billedByZone[zone]
		collected := collectedByZone[zone]
		billedTotal += billed
		collectedTotal += collected
		dataset.Rows = append(dataset.Rows, map[string]string{
			"Zone":      zone,
			"Billed":    formatAmount(billed),
			"Collected": formatAmount(collected),
			"Rate":      formatRate(Percentage(collected, billed)),
		})
	}
	dataset.Totals = map[string]string{
		"Zone":      "TOTAL",
		"Billed":    formatAmount(billedTotal),
		"Collected": formatAmount(collectedTotal),
		"Rate":      formatRate(Percentage(collectedTotal, billedTotal)),
	}
	return dataset
}

// BillingDataset renders the bill list for export.
func BillingDataset(period string, bills []models.Bill) export.Dataset {
	dataset := export.Dataset{
		Title:   "Billing Report",
		Period:  period,
		Headers: []string{"Account", "Resident", "Zone", "Cubic Meters", "Amount", "Status"},
	}
	var total float64
	for _, bill := range bills {
		total += bill.Amount
		dataset.Rows = append(dataset.Rows, map[string]string{
			"Account":      bill.AccountNumber,
			"Resident":     bill.ResidentName,
			"Zone":         bill.Zone,
			"Cubic Meters": fmt.Sprintf("%.1f", bill.CubicMeters),
			"Amount":       formatAmount(bill.Amount),
			"Status":       string(bill.Status),
		})
	}
	dataset.Totals = map[string]string{
		"Account": "TOTAL",
		"Amount":  formatAmount(total),
	}
	return dataset
}

func formatAmount(amount float64) string {
	return fmt.Sprintf("%.2f", amount)
}

func formatRate(rate float64) string {
	return fmt.Sprintf("%.1f%%", rate)
}
