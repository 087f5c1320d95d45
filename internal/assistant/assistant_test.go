package assistant

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/GTDGit/customer_portal/internal/models"
)

type fakeCompleter struct {
	text   string
	err    error
	system string
	user   string
}

func (f *fakeCompleter) Complete(_ context.Context, systemPrompt, userMessage string) (string, error) {
	f.system, f.user = systemPrompt, userMessage
	return f.text, f.err
}

type blockingCompleter struct{}

func (blockingCompleter) Complete(ctx context.Context, _, _ string) (string, error) {
	<-ctx.Done()
	return "", ctx.Err()
}

func sampleOrders(n int) []models.Order {
	orders := make([]models.Order, 0, n)
	base := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < n; i++ {
		orders = append(orders, models.Order{
			ID:          "ORD-" + string(rune('A'+i)),
			CustomerID:  "C1",
			Date:        base.AddDate(0, 0, -7*i),
			Products:    []string{"CASE-01", "GLASS-02"},
			Quantities:  []int{2, 1},
			TotalAmount: 120,
			Status:      models.OrderStatusDelivered,
		})
	}
	return orders
}

func TestClassifyAction(t *testing.T) {
	cases := []struct {
		message string
		want    string
	}{
		{"I want to order 3 cases", ActionCreateOrder},
		{"Order 10 more chargers please", ActionCreateOrder},
		{"Can I place an order?", ActionCreateOrder},
		{"I'd like to BUY screen protectors", ActionCreateOrder},
		{"track my order to buy more", ActionCreateOrder},
		{"Please reorder my last shipment", ActionCreateOrder},
		{"Where is my order?", ActionTrackOrder},
		{"where's my order?", ActionTrackOrder},
		{"Where’s my order", ActionTrackOrder},
		{"I'm waiting on my order", ActionInformation},
		{"Is my company's order history available", ActionInformation},
		{"What's the order status for ORD-1?", ActionTrackOrder},
		{"Show me my last orders", ActionInformation},
		{"When is delivery expected", ActionTrackOrder},
		{"Is this case compatible with iPhone 15?", ActionProductInquiry},
		{"Can you recommend a charger", ActionProductInquiry},
		{"Hello there", ActionInformation},
		{"", ActionInformation},
		{"The ordering portal is slow", ActionInformation},
		{"Is the product in stock", ActionInformation},
	}
	for _, tc := range cases {
		t.Run(tc.message, func(t *testing.T) {
			assert.Equal(t, tc.want, ClassifyAction(tc.message).Type)
		})
	}
}

func TestTokenize_ExpandsContractions(t *testing.T) {
	assert.Equal(t, []string{"where", "is", "my", "order"}, tokenize("Where's my order?"))
	assert.Equal(t, []string{"i", "am", "here"}, tokenize("I’m here"))
	assert.Equal(t, []string{"acme's", "order"}, tokenize("Acme's order"))
}

func TestClassifyAction_Priorities(t *testing.T) {
	assert.Equal(t, PriorityHigh, ClassifyAction("buy").Priority)
	assert.Equal(t, PriorityMedium, ClassifyAction("track").Priority)
	assert.Equal(t, PriorityMedium, ClassifyAction("fits").Priority)
	assert.Equal(t, PriorityLow, ClassifyAction("hi").Priority)
}

func TestBuildContext(t *testing.T) {
	customer := &models.Customer{
		ID:               "C1",
		CompanyName:      "Acme Mobile",
		Email:            "buyer@acme.test",
		RegistrationDate: "2022-05-01",
		TotalSpent:       1234.5,
		LastOrderDate:    "2024-06-01",
		Status:           models.CustomerStatusActive,
	}
	orders := sampleOrders(7)

	cc := BuildContext(customer, orders)
	require.Len(t, cc.RecentOrders, MaxContextOrders)
	assert.Equal(t, "ORD-A", cc.RecentOrders[0].ID)
	assert.Equal(t, "ORD-E", cc.RecentOrders[4].ID)
	assert.Equal(t, 7, cc.Patterns.TotalOrders)
	assert.Equal(t, "Acme Mobile", cc.Customer.Name)
	assert.Equal(t, "active", cc.Customer.Status)

	cc.RecentOrders[0].Products[0] = "MUTATED"
	assert.Equal(t, "CASE-01", orders[0].Products[0])
}

func TestBuildContext_NilCustomerAndNoOrders(t *testing.T) {
	cc := BuildContext(nil, nil)
	assert.Equal(t, CustomerSummary{}, cc.Customer)
	assert.Empty(t, cc.RecentOrders)
	assert.Zero(t, cc.Patterns.TotalOrders)
}

func TestSystemPrompt(t *testing.T) {
	cc := BuildContext(&models.Customer{CompanyName: "Acme Mobile", TotalSpent: 1234567.891}, sampleOrders(2))
	prompt := SystemPrompt(cc)

	assert.Contains(t, prompt, "Company: Acme Mobile")
	assert.Contains(t, prompt, "$1,234,567.89")
	assert.Contains(t, prompt, `"id": "ORD-A"`)
	assert.Contains(t, prompt, `"topProducts"`)
	assert.Contains(t, prompt, "Orders shown below: 2")
}

func TestFormatMoney(t *testing.T) {
	assert.Equal(t, "0.00", FormatMoney(0))
	assert.Equal(t, "999.50", FormatMoney(999.5))
	assert.Equal(t, "1,000.00", FormatMoney(1000))
	assert.Equal(t, "-12,345.68", FormatMoney(-12345.678))
}

func TestRespond_Success(t *testing.T) {
	completer := &fakeCompleter{text: "  Sure, I can set that up.  "}
	a := New(completer, time.Second)
	fixed := time.Date(2024, 6, 2, 10, 0, 0, 0, time.UTC)
	a.now = func() time.Time { return fixed }

	reply := a.Respond(context.Background(), "I want to order 3 cases", BuildContext(nil, nil), "sess-1")

	assert.Equal(t, "Sure, I can set that up.", reply.Text)
	require.NotNil(t, reply.Action)
	assert.Equal(t, Action{Type: ActionCreateOrder, Priority: PriorityHigh}, *reply.Action)
	assert.Equal(t, "sess-1", reply.SessionID)
	assert.Equal(t, fixed, reply.Timestamp)
	assert.Equal(t, SuccessConfidence, reply.Confidence)
	assert.Equal(t, "I want to order 3 cases", completer.user)
	assert.Contains(t, completer.system, "RECENT ORDERS")
}

func TestRespond_GeneratesSessionID(t *testing.T) {
	reply := New(&fakeCompleter{text: "hi"}, 0).Respond(context.Background(), "hello", ConversationContext{}, "")
	_, err := uuid.Parse(reply.SessionID)
	assert.NoError(t, err)
}

func TestRespond_Fallbacks(t *testing.T) {
	cases := map[string]*Assistant{
		"completer error": New(&fakeCompleter{err: errors.New("rate limited")}, time.Second),
		"empty text":      New(&fakeCompleter{text: "   "}, time.Second),
		"no completer":    New(nil, time.Second),
		"timeout":         New(blockingCompleter{}, 10*time.Millisecond),
	}
	for name, a := range cases {
		t.Run(name, func(t *testing.T) {
			reply := a.Respond(context.Background(), "where is my order", ConversationContext{}, "sess-2")
			assert.Equal(t, FallbackText, reply.Text)
			assert.Nil(t, reply.Action)
			assert.Zero(t, reply.Confidence)
			assert.Equal(t, "sess-2", reply.SessionID)
		})
	}
}
