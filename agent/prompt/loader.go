package prompt

import (
	_ "embed"
	"strings"
)

var (
	//go:embed template/router.txt
	routerRaw string

	//go:embed template/order.txt
	orderRaw string

	//go:embed template/billing.txt
	billingRaw string

	//go:embed template/support.txt
	supportRaw string
)

// PromptSet holds loaded prompt content.
type PromptSet struct {
	Router  string
	Order   string
	Billing string
	Support string
}

// LoadPromptSet returns a PromptSet with trimmed prompt strings.
func LoadPromptSet() PromptSet {
	return PromptSet{
		Router:  strings.TrimSpace(routerRaw),
		Order:   strings.TrimSpace(orderRaw),
		Billing: strings.TrimSpace(billingRaw),
		Support: strings.TrimSpace(supportRaw),
	}
}
