package service

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"sync"
	"time"

	"signal_gate/internal/models"

	"github.com/bytedance/sonic"
	"github.com/pkg/errors"
)

const categoryLinear = "linear"

// Factory строит клиент под ключи конкретной учётки. HTTP-клиент и кэш
// метаданных инструментов общие: шаг лота не зависит от учётки.
type Factory struct {
	baseURL    string
	recvWindow string
	http       *http.Client

	metaMu sync.RWMutex
	meta   map[string]instrumentMeta
}

func NewFactory(baseURL, recvWindow string) *Factory {
	return &Factory{
		baseURL:    baseURL,
		recvWindow: recvWindow,
		http:       &http.Client{Timeout: 30 * time.Second},
		meta:       make(map[string]instrumentMeta),
	}
}

// Client — подписанные вызовы Bybit v5 от имени одной учётки.
type Client struct {
	f         *Factory
	apiKey    string
	apiSecret string
}

func (f *Factory) NewClient(creds models.Credentials) *Client {
	return &Client{f: f, apiKey: creds.APIKey, apiSecret: creds.APISecret}
}

// sign: HMAC-SHA256(ts + apiKey + recvWindow + payload), hex.
func (c *Client) sign(ts, payload string) string {
	h := hmac.New(sha256.New, []byte(c.apiSecret))
	h.Write([]byte(ts + c.apiKey + c.f.recvWindow + payload))
	return hex.EncodeToString(h.Sum(nil))
}

func (c *Client) doPost(ctx context.Context, path string, body any, out any) error {
	payload, err := sonic.Marshal(body)
	if err != nil {
		return errors.Wrap(err, "marshal body")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.f.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return errors.Wrap(err, "new request")
	}

	ts := strconv.FormatInt(time.Now().UnixMilli(), 10)
	req.Header.Set("X-BAPI-API-KEY", c.apiKey)
	req.Header.Set("X-BAPI-TIMESTAMP", ts)
	req.Header.Set("X-BAPI-RECV-WINDOW", c.f.recvWindow)
	req.Header.Set("X-BAPI-SIGN", c.sign(ts, string(payload)))
	req.Header.Set("Content-Type", "application/json")

	return c.f.do(req, out)
}

// doGet — публичные эндпоинты без подписи (market data).
func (f *Factory) doGet(ctx context.Context, path, query string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, f.baseURL+path+"?"+query, nil)
	if err != nil {
		return errors.Wrap(err, "new request")
	}
	return f.do(req, out)
}

func (f *Factory) do(req *http.Request, out any) error {
	resp, err := f.http.Do(req)
	if err != nil {
		return errors.Wrap(err, "execute request")
	}
	defer resp.Body.Close()

	rb, err := io.ReadAll(resp.Body)
	if err != nil {
		return errors.Wrap(err, "read response")
	}
	if resp.StatusCode/100 != 2 {
		return fmt.Errorf("http %d: %s", resp.StatusCode, string(rb))
	}
	if err := sonic.Unmarshal(rb, out); err != nil {
		return errors.Wrap(err, "unmarshal response")
	}
	return nil
}
