package service

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"github.com/GTDGit/customer_portal/internal/assistant"
	"github.com/GTDGit/customer_portal/internal/models"
	"github.com/GTDGit/customer_portal/internal/repository"
	"github.com/GTDGit/customer_portal/internal/sse"
)

// chatHistoryOrders is how many recent orders feed the conversation context.
const chatHistoryOrders = 10

const interactionLogTimeout = 5 * time.Second

// ChatService answers chat messages with the customer's history in context.
type ChatService struct {
	customers    *repository.CustomerRepository
	orders       *repository.OrderRepository
	interactions *repository.InteractionRepository
	assistant    *assistant.Assistant
	activity     sse.ActivityNotifier
}

// NewChatService constructs a new ChatService. activity may be nil.
func NewChatService(
	customers *repository.CustomerRepository,
	orders *repository.OrderRepository,
	interactions *repository.InteractionRepository,
	asst *assistant.Assistant,
	activity sse.ActivityNotifier,
) *ChatService {
	if activity == nil {
		activity = sse.NopNotifier{}
	}
	return &ChatService{
		customers:    customers,
		orders:       orders,
		interactions: interactions,
		assistant:    asst,
		activity:     activity,
	}
}

// Chat answers message for customerID. The customer and recent orders are
// loaded concurrently; an unknown customer fails the call. The exchange is
// logged on channel afterwards, best-effort.
func (s *ChatService) Chat(ctx context.Context, customerID, message, sessionID, channel string) (*assistant.Reply, error) {
	var (
		customer *models.Customer
		orders   []models.Order
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		customer, err = s.customers.GetByID(gctx, customerID)
		return err
	})
	g.Go(func() error {
		var err error
		orders, err = s.orders.ListByCustomer(gctx, customerID, chatHistoryOrders)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	reply := s.assistant.Respond(ctx, message, assistant.BuildContext(customer, orders), sessionID)

	entry := models.InteractionLog{
		Timestamp:  reply.Timestamp,
		CustomerID: customerID,
		Channel:    channel,
		Query:      message,
		Response:   reply.Text,
		SessionID:  reply.SessionID,
	}
	s.logInteraction(ctx, entry)

	action := ""
	if reply.Action != nil {
		action = reply.Action.Type
	}
	s.activity.ChatInteraction(entry, action)
	return &reply, nil
}

func (s *ChatService) logInteraction(ctx context.Context, entry models.InteractionLog) {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), interactionLogTimeout)
	defer cancel()

	if err := s.interactions.Append(ctx, entry); err != nil {
		log.Warn().Err(err).Str("customer_id", entry.CustomerID).Str("channel", entry.Channel).Msg("Failed to log interaction")
	}
}
