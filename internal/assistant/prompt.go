package assistant

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// SystemPrompt renders the instructions sent ahead of the customer's message.
func SystemPrompt(cc ConversationContext) string {
	var b strings.Builder

	b.WriteString("You are a customer service specialist for a wholesale electronics accessories supplier.\n\n")

	b.WriteString("ACCOUNT:\n")
	fmt.Fprintf(&b, "- Company: %s\n", orDash(cc.Customer.Name))
	fmt.Fprintf(&b, "- Customer since: %s\n", orDash(cc.Customer.CustomerSince))
	fmt.Fprintf(&b, "- Lifetime spend: $%s\n", FormatMoney(cc.Customer.TotalSpent))
	fmt.Fprintf(&b, "- Last order: %s\n", orDash(cc.Customer.LastOrder))
	fmt.Fprintf(&b, "- Orders shown below: %d\n\n", len(cc.RecentOrders))

	b.WriteString("RECENT ORDERS:\n")
	b.WriteString(indentJSON(cc.RecentOrders))
	b.WriteString("\n\nBUYING PREFERENCES:\n")
	b.WriteString(indentJSON(cc.Preferences))
	b.WriteString("\n\n")

	b.WriteString(`WHAT YOU HANDLE:
1. Advice on phone cases, screen protectors, chargers, cables and tablet accessories
2. Questions about past orders, shipment tracking and repeat orders
3. Device compatibility checks
4. Taking new orders
5. Suggestions drawn from the account's purchase history

HOW TO ANSWER:
- Keep a friendly, professional tone
- Mention earlier purchases when they are relevant
- Name specific products and SKUs when recommending
- For a new order, collect the SKU, the quantity and any special instructions
- For tracking questions, give the order status and the expected delivery date
- Keep replies short enough to read aloud

The account history above is complete; refer to specific orders when it helps.`)
	return b.String()
}

// FormatMoney renders an amount with two decimals and thousands separators.
func FormatMoney(v float64) string {
	s := decimal.NewFromFloat(v).StringFixed(2)
	sign := ""
	if strings.HasPrefix(s, "-") {
		sign, s = "-", s[1:]
	}
	whole, frac, _ := strings.Cut(s, ".")

	var grouped strings.Builder
	for i, r := range whole {
		if i > 0 && (len(whole)-i)%3 == 0 {
			grouped.WriteByte(',')
		}
		grouped.WriteRune(r)
	}
	return sign + grouped.String() + "." + frac
}

func indentJSON(v any) string {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return "{}"
	}
	return string(data)
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
