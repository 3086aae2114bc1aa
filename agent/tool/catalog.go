package tool

import (
	"fmt"

	"github.com/cloudwego/eino/schema"
	contractx "github.com/tanpawarit/Chative-Support-Dispatch/agent/contract"
)

const (
	ToolGetOrderDetails        = "getOrderDetails"
	ToolCheckDeliveryStatus    = "checkDeliveryStatus"
	ToolGetTrackingInfo        = "getTrackingInfo"
	ToolGetInvoiceDetails      = "getInvoiceDetails"
	ToolCheckPaymentStatus     = "checkPaymentStatus"
	ToolListAllInvoices        = "listAllInvoices"
	ToolSearchFAQ              = "searchFAQ"
	ToolGetConversationHistory = "getConversationHistory"
)

// InfosForAgent returns the tool descriptors an agent is allowed to use.
func InfosForAgent(label contractx.AgentLabel) ([]*schema.ToolInfo, error) {
	switch label {
	case contractx.AgentOrder:
		return []*schema.ToolInfo{
			{
				Name: ToolGetOrderDetails,
				Desc: "Look up an order by its ID and return full order details (status, tracking, etc.)",
				ParamsOneOf: schema.NewParamsOneOfByParams(map[string]*schema.ParameterInfo{
					"orderId": {Type: schema.String, Desc: "The order ID to look up, e.g. ORD-1001", Required: true},
				}),
			},
			{
				Name: ToolCheckDeliveryStatus,
				Desc: "Check the current delivery/shipping status of an order",
				ParamsOneOf: schema.NewParamsOneOfByParams(map[string]*schema.ParameterInfo{
					"orderId": {Type: schema.String, Desc: "The order ID to check status for", Required: true},
				}),
			},
			{
				Name: ToolGetTrackingInfo,
				Desc: "Get the tracking number/information for a shipped order",
				ParamsOneOf: schema.NewParamsOneOfByParams(map[string]*schema.ParameterInfo{
					"orderId": {Type: schema.String, Desc: "The order ID to get tracking info for", Required: true},
				}),
			},
		}, nil
	case contractx.AgentBilling:
		return []*schema.ToolInfo{
			{
				Name: ToolGetInvoiceDetails,
				Desc: "Look up an invoice by its ID and return full details (amount, status, etc.)",
				ParamsOneOf: schema.NewParamsOneOfByParams(map[string]*schema.ParameterInfo{
					"invoiceId": {Type: schema.String, Desc: "The invoice ID to look up, e.g. INV-2001", Required: true},
				}),
			},
			{
				Name: ToolCheckPaymentStatus,
				Desc: "Check the payment status of a specific invoice",
				ParamsOneOf: schema.NewParamsOneOfByParams(map[string]*schema.ParameterInfo{
					"invoiceId": {Type: schema.String, Desc: "The invoice ID to check payment status for", Required: true},
				}),
			},
			{
				Name: ToolListAllInvoices,
				Desc: "List all invoices in the system",
			},
		}, nil
	case contractx.AgentSupport:
		return []*schema.ToolInfo{
			{
				Name: ToolSearchFAQ,
				Desc: "Search the FAQ knowledge base for an answer to a customer question",
				ParamsOneOf: schema.NewParamsOneOfByParams(map[string]*schema.ParameterInfo{
					"question": {Type: schema.String, Desc: "The customer question or keyword to search for", Required: true},
				}),
			},
			{
				Name: ToolGetConversationHistory,
				Desc: "Retrieve the full message history of a conversation for context",
				ParamsOneOf: schema.NewParamsOneOfByParams(map[string]*schema.ParameterInfo{
					"conversationId": {Type: schema.String, Desc: "The conversation ID to retrieve history for", Required: true},
				}),
			},
		}, nil
	default:
		return nil, fmt.Errorf("%w: agent type=%q", contractx.ErrNotFound, label)
	}
}

// Capabilities projects the tool descriptors to tool name and description pairs.
func Capabilities(label contractx.AgentLabel) ([]contractx.Capability, error) {
	infos, err := InfosForAgent(label)
	if err != nil {
		return nil, err
	}
	out := make([]contractx.Capability, 0, len(infos))
	for _, info := range infos {
		if info == nil {
			continue
		}
		out = append(out, contractx.Capability{Tool: info.Name, Description: info.Desc})
	}
	return out, nil
}
