package payments

import "errors"

// ErrUnknownPlan is returned when a checkout names a plan that does not exist.
var ErrUnknownPlan = errors.New("payments: unknown plan")

// Plan is a subscription tier shown on the pricing page. Prices are in INR.
type Plan struct {
	ID           string   `json:"id"`
	Name         string   `json:"name"`
	MonthlyPrice int      `json:"monthly_price"`
	YearlyPrice  int      `json:"yearly_price"`
	Features     []string `json:"features"`
	Highlight    bool     `json:"highlight,omitempty"`
	Badge        string   `json:"badge,omitempty"`
}

var plans = []Plan{
	{
		ID:           "free",
		Name:         "Free Trial",
		MonthlyPrice: 0,
		YearlyPrice:  0,
		Features:     []string{"50 Chats / Month", "Basic AI Replies", "Manual Leads Export", "1 Business Profile"},
	},
	{
		ID:           "starter",
		Name:         "Starter",
		MonthlyPrice: 499,
		YearlyPrice:  4790,
		Features:     []string{"500 Chats / Month", "Standard AI Training", "Automatic Lead Capture", "Google Sheets Sync"},
	},
	{
		ID:           "pro",
		Name:         "Business Pro",
		MonthlyPrice: 999,
		YearlyPrice:  9590,
		Features:     []string{"Unlimited Chats", "Advanced Logic Training", "Multi-language Support", "Premium Analytics", "Priority API Access"},
		Highlight:    true,
		Badge:        "Most Popular",
	},
	{
		ID:           "agency",
		Name:         "Agency Elite",
		MonthlyPrice: 2999,
		YearlyPrice:  28790,
		Features:     []string{"White Label Dashboard", "Manage 10 Clients", "Dedicated Account Manager", "Custom Integration", "Lead Routing Engine"},
	},
}

// Plans returns the catalog of subscription tiers.
func Plans() []Plan {
	out := make([]Plan, len(plans))
	copy(out, plans)
	return out
}

// PlanByID looks up a plan by its identifier.
func PlanByID(id string) (Plan, error) {
	for _, p := range plans {
		if p.ID == id {
			return p, nil
		}
	}
	return Plan{}, ErrUnknownPlan
}
