package worker

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/GTDGit/customer_portal/internal/models"
)

type stubCustomers map[string]*models.Customer

func (s stubCustomers) GetByID(_ context.Context, id string) (*models.Customer, error) {
	if c, ok := s[id]; ok {
		return c, nil
	}
	return nil, errors.New("not found")
}

type sentMail struct{ to, subject, body string }

type recordingMailer struct {
	mu   sync.Mutex
	sent []sentMail
	done chan struct{}
}

func (m *recordingMailer) Send(_ context.Context, to, subject, body string) error {
	m.mu.Lock()
	m.sent = append(m.sent, sentMail{to, subject, body})
	m.mu.Unlock()
	m.done <- struct{}{}
	return nil
}

func TestNotificationWorker_SendsConfirmation(t *testing.T) {
	mailer := &recordingMailer{done: make(chan struct{}, 1)}
	customers := stubCustomers{"C1": {ID: "C1", CompanyName: "Acme", Email: "buyer@acme.test"}}
	w := NewNotificationWorker(customers, mailer, 4)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go w.Start(ctx)

	require.True(t, w.Enqueue(models.Order{
		ID: "ORD-1", CustomerID: "C1", Products: []string{"X", "Y"}, Quantities: []int{2, 1}, TotalAmount: 25,
	}))

	select {
	case <-mailer.done:
	case <-time.After(2 * time.Second):
		t.Fatal("confirmation not sent")
	}

	mailer.mu.Lock()
	defer mailer.mu.Unlock()
	require.Len(t, mailer.sent, 1)
	assert.Equal(t, "buyer@acme.test", mailer.sent[0].to)
	assert.Equal(t, "Order ORD-1 received", mailer.sent[0].subject)
	assert.Contains(t, mailer.sent[0].body, "X x 2")
	assert.Contains(t, mailer.sent[0].body, "Total: $25.00")
}

func TestNotificationWorker_EnqueueDropsWhenFull(t *testing.T) {
	w := NewNotificationWorker(stubCustomers{}, LogMailer{}, 1)
	assert.True(t, w.Enqueue(models.Order{ID: "ORD-1"}))
	assert.False(t, w.Enqueue(models.Order{ID: "ORD-2"}))
}

func TestLogMailer(t *testing.T) {
	assert.NoError(t, LogMailer{}.Send(context.Background(), "a@b.c", "s", "b"))
}
