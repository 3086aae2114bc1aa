package classifier

import (
	"regexp"

	contractx "github.com/tanpawarit/Chative-Support-Dispatch/agent/contract"
)

var (
	invoiceIDPattern = regexp.MustCompile(`(?i)\binv-\d+`)
	orderIDPattern   = regexp.MustCompile(`(?i)\bord-\d+`)
)

type keywordRule struct {
	label    contractx.AgentLabel
	patterns []*regexp.Regexp
}

// Rules are evaluated in order; the first rule with a matching pattern wins.
var keywordRules = []keywordRule{
	{
		label: contractx.AgentSupport,
		patterns: compileAll(
			`\bpassword\b`,
			`\breset\b`,
			`\btroubleshoot`,
			`\bfaq\b`,
			`\baccount\s*(issue|problem|help|lock|access)`,
			`\bhow\s+(do|can|to)\b`,
			`\bhelp\s+(with|me)\b`,
			`\breturn\s?policy\b`,
			`\bhow\s+long\b`,
		),
	},
	{
		label: contractx.AgentBilling,
		patterns: compileAll(
			`\binvoices?\b`,
			`\bpayment\b`,
			`\bcharge\b`,
			`\bbilling\b`,
			`\bsubscription\b`,
		),
	},
	{
		label: contractx.AgentOrder,
		patterns: compileAll(
			`\borders?\b`,
			`\btracking\b`,
			`\bshipment\b`,
			`\bdelivery\b`,
			`\bshipping\b`,
		),
	},
}

func compileAll(exprs ...string) []*regexp.Regexp {
	out := make([]*regexp.Regexp, 0, len(exprs))
	for _, expr := range exprs {
		out = append(out, regexp.MustCompile(`(?i)`+expr))
	}
	return out
}

// ClassifyKeywords resolves a label from explicit ids and intent keywords
// without any I/O. Invoice ids take precedence over order ids, and ids take
// precedence over every keyword.
func ClassifyKeywords(text string) Result {
	if invoiceIDPattern.MatchString(text) {
		return Resolved(contractx.AgentBilling)
	}
	if orderIDPattern.MatchString(text) {
		return Resolved(contractx.AgentOrder)
	}

	for _, rule := range keywordRules {
		for _, p := range rule.patterns {
			if p.MatchString(text) {
				return Resolved(rule.label)
			}
		}
	}
	return Unresolved()
}
