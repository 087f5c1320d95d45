package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/GTDGit/customer_portal/internal/assistant"
	"github.com/GTDGit/customer_portal/internal/cache"
	"github.com/GTDGit/customer_portal/internal/config"
	"github.com/GTDGit/customer_portal/internal/models"
	"github.com/GTDGit/customer_portal/internal/repository"
	"github.com/GTDGit/customer_portal/internal/utils"
	"github.com/GTDGit/customer_portal/pkg/elevenlabs"
)

type fakeKV struct {
	mu   sync.Mutex
	data map[string]string
}

func newFakeKV() *fakeKV { return &fakeKV{data: map[string]string{}} }

func (f *fakeKV) Set(_ context.Context, key, value string, _ time.Duration) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.data[key] = value
	return nil
}

func (f *fakeKV) Get(_ context.Context, key string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	v, ok := f.data[key]
	if !ok {
		return "", cache.ErrMiss
	}
	return v, nil
}

func (f *fakeKV) Delete(_ context.Context, keys ...string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, k := range keys {
		delete(f.data, k)
	}
	return nil
}

type repos struct {
	store        *repository.MemoryRowStore
	customers    *repository.CustomerRepository
	orders       *repository.OrderRepository
	products     *repository.ProductRepository
	interactions *repository.InteractionRepository
}

func newRepos() repos {
	store := repository.NewMemoryRowStore().
		Seed(repository.SheetCustomers,
			[]string{"C1", "Acme Mobile", "buyer@acme.test", "555-0100", "2023-01-10", "100", "", "active"},
			[]string{"C2", "Globex", "ops@globex.test", "", "2023-02-01", "0", "", "inactive"},
		).
		Seed(repository.SheetOrders,
			[]string{"ORD-1", "C1", "2024-03-01T10:00:00Z", `["X"]`, `[1]`, "10", "shipped", "TRK-9"},
			[]string{"ORD-2", "C2", "2024-03-02T10:00:00Z", `["Y"]`, `[1]`, "5"},
		).
		Seed(repository.SheetProducts,
			[]string{"X", "Clear Case", "Cases", "10", "5", "Slim case", "iPhone 15, iPhone 15 Pro"},
			[]string{"Y", "Glass", "Screen", "5", "5", "Tempered glass", "Galaxy S24"},
		)
	customers := repository.NewCustomerRepository(store, time.Second)
	return repos{
		store:        store,
		customers:    customers,
		orders:       repository.NewOrderRepository(store, customers, time.Second),
		products:     repository.NewProductRepository(store, time.Second),
		interactions: repository.NewInteractionRepository(store, time.Second),
	}
}

func TestAuthService_LoginAuthenticateLogout(t *testing.T) {
	r := newRepos()
	auth := NewAuthService(r.customers, cache.NewSessionCache(newFakeKV()), utils.NewJWTManager("secret", time.Hour), config.AdminConfig{})
	ctx := context.Background()

	res, err := auth.Login(ctx, "BUYER@acme.test", "acme mobile")
	require.NoError(t, err)
	assert.Equal(t, TokenType, res.TokenType)
	assert.Equal(t, int64(3600), res.ExpiresIn)
	assert.Equal(t, "C1", res.Customer.ID)

	claims, err := auth.Authenticate(ctx, res.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, "C1", claims.CustomerID)

	require.NoError(t, auth.Logout(ctx, claims))
	_, err = auth.Authenticate(ctx, res.AccessToken)
	assert.ErrorIs(t, err, utils.ErrUnauthorized)
}

func TestAuthService_LoginFailures(t *testing.T) {
	r := newRepos()
	auth := NewAuthService(r.customers, cache.NewSessionCache(newFakeKV()), utils.NewJWTManager("secret", time.Hour), config.AdminConfig{})
	ctx := context.Background()

	_, err := auth.Login(ctx, "nobody@acme.test", "Acme Mobile")
	assert.ErrorIs(t, err, utils.ErrNotFound)

	_, err = auth.Login(ctx, "ops@globex.test", "Globex")
	assert.ErrorIs(t, err, utils.ErrForbidden)

	_, err = auth.Authenticate(ctx, "")
	assert.ErrorIs(t, err, utils.ErrUnauthorized)

	token, err := utils.NewJWTManager("secret", time.Hour).GenerateJWT("C1", "never-saved")
	require.NoError(t, err)
	_, err = auth.Authenticate(ctx, token)
	assert.ErrorIs(t, err, utils.ErrUnauthorized)
}

func TestAuthService_AdminLogin(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("s3cret"), bcrypt.MinCost)
	require.NoError(t, err)

	r := newRepos()
	admin := config.AdminConfig{Email: "ops@portal.test", PasswordHash: string(hash)}
	auth := NewAuthService(r.customers, cache.NewSessionCache(newFakeKV()), utils.NewJWTManager("secret", time.Hour), admin)
	ctx := context.Background()

	res, err := auth.AdminLogin(ctx, "OPS@portal.test", "s3cret")
	require.NoError(t, err)
	assert.Equal(t, utils.RoleAdmin, res.Role)

	claims, err := auth.Authenticate(ctx, res.AccessToken)
	require.NoError(t, err)
	assert.True(t, claims.IsAdmin())
	assert.NoError(t, Authorize(claims, "C2"))

	_, err = auth.AdminLogin(ctx, "ops@portal.test", "wrong")
	assert.ErrorIs(t, err, utils.ErrUnauthorized)

	disabled := NewAuthService(r.customers, cache.NewSessionCache(newFakeKV()), utils.NewJWTManager("secret", time.Hour), config.AdminConfig{})
	_, err = disabled.AdminLogin(ctx, "ops@portal.test", "s3cret")
	assert.ErrorIs(t, err, utils.ErrUnauthorized)
}

func TestAuthorize(t *testing.T) {
	assert.NoError(t, Authorize(&utils.Claims{CustomerID: "C1"}, "C1"))
	assert.ErrorIs(t, Authorize(&utils.Claims{CustomerID: "C1"}, "C2"), utils.ErrForbidden)
	assert.ErrorIs(t, Authorize(nil, "C1"), utils.ErrUnauthorized)
}

func TestClampOrderLimit(t *testing.T) {
	assert.Equal(t, DefaultOrderLimit, ClampOrderLimit(0))
	assert.Equal(t, 1, ClampOrderLimit(-5))
	assert.Equal(t, 20, ClampOrderLimit(20))
	assert.Equal(t, MaxOrderLimit, ClampOrderLimit(1000))
}

type fakeQueue struct{ orders []models.Order }

func (q *fakeQueue) Enqueue(o models.Order) bool {
	q.orders = append(q.orders, o)
	return true
}

type fakeActivity struct {
	orders  []*models.Order
	chats   []models.InteractionLog
	actions []string
}

func (a *fakeActivity) OrderCreated(o *models.Order) { a.orders = append(a.orders, o) }
func (a *fakeActivity) ChatInteraction(e models.InteractionLog, action string) {
	a.chats = append(a.chats, e)
	a.actions = append(a.actions, action)
}

func TestOrderService_Create(t *testing.T) {
	r := newRepos()
	queue := &fakeQueue{}
	activity := &fakeActivity{}
	svc := NewOrderService(r.orders, queue, activity)

	order, err := svc.Create(context.Background(), "C1", []models.LineItem{
		{SKU: "X", Price: 10, Quantity: 2},
		{SKU: "Y", Price: 5, Quantity: 1},
	}, "")
	require.NoError(t, err)

	assert.InDelta(t, 25.0, order.TotalAmount, 1e-9)
	require.Len(t, queue.orders, 1)
	assert.Equal(t, order.ID, queue.orders[0].ID)
	require.Len(t, activity.orders, 1)

	customer, err := r.customers.GetByID(context.Background(), "C1")
	require.NoError(t, err)
	assert.InDelta(t, 125.0, customer.TotalSpent, 1e-9)

	_, err = svc.Create(context.Background(), "C1", nil, "")
	assert.ErrorIs(t, err, utils.ErrInvalidRequest)
	assert.Len(t, queue.orders, 1)
}

func TestOrderService_Tracking(t *testing.T) {
	svc := NewOrderService(newRepos().orders, nil, nil)
	ctx := context.Background()

	tr, err := svc.Tracking(ctx, "ORD-1", "C1")
	require.NoError(t, err)
	assert.Equal(t, models.OrderStatusShipped, tr.Status)
	assert.Equal(t, "TRK-9", tr.TrackingNumber)
	assert.Equal(t, "2024-03-01T10:00:00Z", tr.OrderDate)
	assert.Equal(t, "2024-03-06T10:00:00Z", tr.EstimatedDelivery)

	_, err = svc.Tracking(ctx, "ORD-2", "C1")
	assert.ErrorIs(t, err, utils.ErrForbidden)

	_, err = svc.Tracking(ctx, "ORD-2", "")
	assert.NoError(t, err)

	_, err = svc.Tracking(ctx, "ORD-404", "C1")
	assert.ErrorIs(t, err, utils.ErrNotFound)
}

func TestProductService_Compatibility(t *testing.T) {
	svc := NewProductService(newRepos().products, nil)
	ctx := context.Background()

	res, err := svc.CheckCompatibility(ctx, "X", "  IPHONE 15 ")
	require.NoError(t, err)
	assert.True(t, res.Compatible)
	assert.Equal(t, "Clear Case", res.ProductName)
	assert.Equal(t, []string{"iPhone 15", "iPhone 15 Pro"}, res.SupportedDevices)

	res, err = svc.CheckCompatibility(ctx, "X", "Pixel 8")
	require.NoError(t, err)
	assert.False(t, res.Compatible)

	_, err = svc.CheckCompatibility(ctx, "X", " ")
	assert.ErrorIs(t, err, utils.ErrInvalidRequest)

	_, err = svc.CheckCompatibility(ctx, "NOPE", "iPhone")
	assert.ErrorIs(t, err, utils.ErrNotFound)
}

func TestProductService_ListUsesCatalogCache(t *testing.T) {
	r := newRepos()
	svc := NewProductService(r.products, cache.NewCatalogCache(newFakeKV(), time.Minute))
	ctx := context.Background()

	first, err := svc.List(ctx, "", "")
	require.NoError(t, err)
	require.Len(t, first, 2)

	require.NoError(t, r.store.AppendRows(ctx, repository.SheetProducts, [][]string{{"Z", "Charger", "Power", "20"}}))

	cached, err := svc.List(ctx, "", "")
	require.NoError(t, err)
	assert.Len(t, cached, 2)

	screens, err := svc.List(ctx, "screen", "")
	require.NoError(t, err)
	require.Len(t, screens, 1)
	assert.Equal(t, "Y", screens[0].SKU)
}

type stubCompleter struct {
	text string
	err  error
}

func (s stubCompleter) Complete(context.Context, string, string) (string, error) { return s.text, s.err }

func TestChatService_Chat(t *testing.T) {
	r := newRepos()
	activity := &fakeActivity{}
	svc := NewChatService(r.customers, r.orders, r.interactions,
		assistant.New(stubCompleter{text: "Your order ORD-1 has shipped."}, time.Second), activity)
	ctx := context.Background()

	reply, err := svc.Chat(ctx, "C1", "Where is my order?", "sess-1", models.ChannelChat)
	require.NoError(t, err)
	assert.Equal(t, "Your order ORD-1 has shipped.", reply.Text)
	require.NotNil(t, reply.Action)
	assert.Equal(t, assistant.ActionTrackOrder, reply.Action.Type)

	logged, err := r.interactions.ListRecent(ctx, 10)
	require.NoError(t, err)
	require.Len(t, logged, 1)
	assert.Equal(t, "Where is my order?", logged[0].Query)
	assert.Equal(t, models.ChannelChat, logged[0].Channel)
	assert.Equal(t, "sess-1", logged[0].SessionID)
	assert.Equal(t, []string{assistant.ActionTrackOrder}, activity.actions)

	_, err = svc.Chat(ctx, "C404", "hello", "", models.ChannelChat)
	assert.ErrorIs(t, err, utils.ErrNotFound)
}

func TestChatService_CompleterFailureStillReplies(t *testing.T) {
	r := newRepos()
	svc := NewChatService(r.customers, r.orders, r.interactions,
		assistant.New(stubCompleter{err: errors.New("503")}, time.Second), nil)

	reply, err := svc.Chat(context.Background(), "C1", "hi", "", models.ChannelWebSocket)
	require.NoError(t, err)
	assert.Equal(t, assistant.FallbackText, reply.Text)
	assert.Nil(t, reply.Action)
	assert.NotEmpty(t, reply.SessionID)

	logged, err := r.interactions.ListRecent(context.Background(), 10)
	require.NoError(t, err)
	require.Len(t, logged, 1)
	assert.Equal(t, models.ChannelWebSocket, logged[0].Channel)
}

type fakeSynth struct {
	voiceID  string
	settings elevenlabs.VoiceSettings
	err      error
}

func (f *fakeSynth) TextToSpeech(_ context.Context, voiceID, _ string, settings elevenlabs.VoiceSettings) ([]byte, error) {
	f.voiceID, f.settings = voiceID, settings
	if f.err != nil {
		return nil, f.err
	}
	return []byte("mp3"), nil
}

type fakeAudioStore struct {
	names []string
	err   error
}

func (f *fakeAudioStore) Save(_ context.Context, name string, _ []byte) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	f.names = append(f.names, name)
	return "/audio/" + name, nil
}

func TestVoiceService_Synthesize(t *testing.T) {
	synth := &fakeSynth{}
	store := &fakeAudioStore{}
	svc := NewVoiceService(synth, store, time.Second)
	svc.now = func() time.Time { return time.UnixMicro(1700000000123456) }

	ref := svc.Synthesize(context.Background(), "Hello", "friendly_male")
	assert.Equal(t, "/audio/audio_1700000000123456.mp3", ref)
	assert.Equal(t, "29vD33N1CtxCmqQRPOHJ", synth.voiceID)
	assert.Equal(t, defaultVoiceSettings, synth.settings)

	svc.Synthesize(context.Background(), "Hello", "robot")
	assert.Equal(t, "21m00Tcm4TlvDq8ikWAM", synth.voiceID)
}

func TestVoiceService_FailuresReturnEmpty(t *testing.T) {
	assert.Empty(t, NewVoiceService(&fakeSynth{err: errors.New("quota")}, &fakeAudioStore{}, 0).
		Synthesize(context.Background(), "Hello", ""))
	assert.Empty(t, NewVoiceService(&fakeSynth{}, &fakeAudioStore{err: errors.New("disk full")}, 0).
		Synthesize(context.Background(), "Hello", ""))
	assert.Empty(t, NewVoiceService(nil, nil, 0).Synthesize(context.Background(), "Hello", ""))
}

func TestAnalyticsService(t *testing.T) {
	r := newRepos()
	svc := NewAnalyticsService(r.customers, r.orders, r.interactions)
	svc.now = func() time.Time { return time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC) }
	ctx := context.Background()

	c, err := svc.Customer(ctx, "C1")
	require.NoError(t, err)
	assert.Equal(t, 1, c.TotalOrders)
	assert.InDelta(t, 10.0, c.MonthlySpend, 1e-9)

	d, err := svc.Dashboard(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, d.TotalCustomers)
	assert.Equal(t, 1, d.ActiveCustomers)
	assert.Equal(t, 2, d.TotalOrders)
	assert.InDelta(t, 15.0, d.TotalRevenue, 1e-9)
	assert.Equal(t, map[string]int{"shipped": 1, "pending": 1}, d.OrdersByStatus)
}
