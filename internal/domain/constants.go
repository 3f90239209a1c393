package domain

const (
	RoleUser      = "USER"
	RoleAnonymous = "ANONYMOUS"
)

// Donations and requests share one lifecycle. "Requested" is a presentation
// phase derived by ItemPhase, never stored.
const (
	ItemStatusOpen      = "Open"
	ItemStatusMatched   = "Matched"
	ItemStatusCompleted = "Completed"

	ItemPhaseRequested = "Requested"
)

const (
	MatchStatusPending   = "Pending"
	MatchStatusMatched   = "Matched"
	MatchStatusInTransit = "InTransit"
	MatchStatusCompleted = "Completed"
)

// MatchTimeline is the fixed forward-only ordering of match statuses.
var MatchTimeline = []string{
	MatchStatusPending,
	MatchStatusMatched,
	MatchStatusInTransit,
	MatchStatusCompleted,
}

// NextMatchStatus returns the status following current in the timeline.
// ok is false when current is terminal or unknown.
func NextMatchStatus(current string) (next string, ok bool) {
	for i, s := range MatchTimeline {
		if s == current {
			if i+1 >= len(MatchTimeline) {
				return "", false
			}
			return MatchTimeline[i+1], true
		}
	}
	return "", false
}

// ItemPhase collapses the stored status and the pending-request count into
// the single presentation state shown to users.
func ItemPhase(status string, pendingRequests int) string {
	if status == ItemStatusOpen && pendingRequests > 0 {
		return ItemPhaseRequested
	}
	return status
}

const (
	NotifRequestReceived  = "request_received"
	NotifRequestCancelled = "request_cancelled"
	NotifRequestAccepted  = "request_accepted"
	NotifRequestRemoved   = "request_removed"
	NotifMatchCreated     = "match_created"
	NotifMatchStatus      = "match_status"
	NotifMatchCompleted   = "match_completed"
)

const (
	DeliveryPickUp   = "PickUp"
	DeliveryDelivery = "Delivery"
)

var DeliveryTypes = []string{DeliveryPickUp, DeliveryDelivery}

var CategoryOptions = []string{
	"Clothes",
	"Electronics",
	"Furniture",
	"Sports",
	"Kitchen",
	"Other",
}

var SubcategoryOptions = map[string][]string{
	"Clothes":     {"T-Shirt", "Jacket", "Jeans", "Shoes", "Accessories"},
	"Electronics": {"Laptop", "Phone", "Tablet", "TV", "Kitchen appliance"},
	"Furniture":   {"Bed", "Sofa", "Chair", "Desk", "Storage"},
	"Sports":      {"Cricket Bat", "Football", "Yoga Mat", "Bicycle", "Shoes"},
	"Kitchen":     {"Cookware", "Dinnerware", "Small appliance", "Storage", "Utensils"},
	"Other":       {"Miscellaneous"},
}

func ValidCategory(c string) bool {
	for _, opt := range CategoryOptions {
		if opt == c {
			return true
		}
	}
	return false
}

func ValidDeliveryType(d string) bool {
	return d == DeliveryPickUp || d == DeliveryDelivery
}
