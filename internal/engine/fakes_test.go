package engine

import (
	"context"
	"fmt"
	"math"
	"strconv"
	"sync"

	"signal_gate/internal/models"
)

// Фейки портов движка для тестов. Биржа пишет все вызовы,
// отказами управляет по имени учётки.

type fakeFactory struct {
	mu        sync.Mutex
	clients   map[string]*fakeExchange
	entryFail map[string]bool
	stopFail  map[string]bool
	tpFail    map[string]bool
	formatErr bool
}

func newFakeFactory() *fakeFactory {
	return &fakeFactory{
		clients:   make(map[string]*fakeExchange),
		entryFail: make(map[string]bool),
		stopFail:  make(map[string]bool),
		tpFail:    make(map[string]bool),
	}
}

func (f *fakeFactory) ClientFor(creds models.Credentials) ExchangeClient {
	f.mu.Lock()
	defer f.mu.Unlock()
	c, ok := f.clients[creds.AccountRef]
	if !ok {
		c = &fakeExchange{ref: creds.AccountRef, f: f}
		f.clients[creds.AccountRef] = c
	}
	return c
}

func (f *fakeFactory) totalOrders() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, c := range f.clients {
		n += len(c.orders)
	}
	return n
}

type fakeExchange struct {
	ref    string
	f      *fakeFactory
	orders []PlaceOrderRequest
	seq    int
}

func (c *fakeExchange) PlaceOrder(_ context.Context, req PlaceOrderRequest) (string, error) {
	c.f.mu.Lock()
	defer c.f.mu.Unlock()

	switch {
	case !req.ReduceOnly:
		if c.f.entryFail[c.ref] {
			return "", fmt.Errorf("exchange rejected entry for %s", c.ref)
		}
	case req.TriggerPx > 0:
		if c.f.stopFail[c.ref] {
			return "", fmt.Errorf("exchange rejected stop for %s", c.ref)
		}
	default:
		if c.f.tpFail[c.ref] {
			return "", fmt.Errorf("exchange rejected tp for %s", c.ref)
		}
	}

	c.orders = append(c.orders, req)
	c.seq++
	return fmt.Sprintf("ord-%s-%d", c.ref, c.seq), nil
}

// FormatQuantity имитирует шаг лота 0.001.
func (c *fakeExchange) FormatQuantity(_ context.Context, _ string, raw float64) (string, error) {
	if c.f.formatErr {
		return "", fmt.Errorf("instrument meta unavailable")
	}
	qty := math.Floor(raw/0.001+1e-9) * 0.001
	return strconv.FormatFloat(qty, 'f', 3, 64), nil
}

func fakeCredsFor(ref string) models.Credentials {
	return models.Credentials{AccountRef: ref, APIKey: "k", APISecret: "s"}
}

type fakeCreds struct {
	missing map[string]bool
}

func (f *fakeCreds) Get(_ context.Context, userID, accountRef string) (models.Credentials, error) {
	if f.missing[accountRef] {
		return models.Credentials{}, fmt.Errorf("no key for %s/%s", userID, accountRef)
	}
	return models.Credentials{AccountRef: accountRef, APIKey: "k-" + accountRef, APISecret: "s"}, nil
}

type fakeStrategyStore struct {
	mu          sync.Mutex
	strategies  []models.Strategy
	incremented []int64
	loadErr     error
}

func (f *fakeStrategyStore) Load(_ context.Context, _ string) ([]models.Strategy, error) {
	if f.loadErr != nil {
		return nil, f.loadErr
	}
	return f.strategies, nil
}

func (f *fakeStrategyStore) IncrementAlertCount(_ context.Context, id int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.incremented = append(f.incremented, id)
	return nil
}

type fakeAlertStore struct {
	mu      sync.Mutex
	records []*models.AlertRecord
}

func (f *fakeAlertStore) Append(_ context.Context, rec *models.AlertRecord) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.records = append(f.records, rec)
	return nil
}

// Строгие варианты ведут себя как pgx: на умершем контексте запрос падает.

type strictAlertStore struct {
	fakeAlertStore
}

func (f *strictAlertStore) Append(ctx context.Context, rec *models.AlertRecord) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return f.fakeAlertStore.Append(ctx, rec)
}

type strictStrategyStore struct {
	fakeStrategyStore
}

func (f *strictStrategyStore) IncrementAlertCount(ctx context.Context, id int64) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return f.fakeStrategyStore.IncrementAlertCount(ctx, id)
}
