package service

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/bytedance/sonic"

	"bybit_bot/internal/modules/config"
)

// Client — REST-клиент Bybit V5. Один инстанс на одного юзера (его ключи),
// публичные маркет-данные доступны и без ключей. Ретраев внутри нет:
// решение "пропустить цикл или погасить бота" принимает вызывающий.
type Client struct {
	http       *http.Client
	baseURL    string
	apiKey     string
	apiSecret  string
	recvWindow string
}

// NewClient — авторизованный клиент под ключи конкретного юзера.
func NewClient(cfg *config.Config, apiKey, apiSecret string) *Client {
	return &Client{
		http:       &http.Client{Timeout: cfg.RequestTimeout},
		baseURL:    cfg.Bybit.RESTHost,
		apiKey:     apiKey,
		apiSecret:  apiSecret,
		recvWindow: cfg.Bybit.RecvWindow,
	}
}

// NewPublic — клиент только для маркет-данных (графики без запущенного бота).
func NewPublic(cfg *config.Config) *Client {
	return NewClient(cfg, "", "")
}

// Error — единая форма отказа биржи: сетевая ошибка, не-2xx и ненулевой
// retCode выглядят для вызывающего одинаково.
type Error struct {
	Op      string
	RetCode int
	RetMsg  string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("bybit %s: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("bybit %s: retCode=%d retMsg=%s", e.Op, e.RetCode, e.RetMsg)
}

func (e *Error) Unwrap() error { return e.Err }

// sign: HMAC-SHA256(secret, timestamp + apiKey + recvWindow + payload), hex.
// payload — канонический query string для GET или JSON-тело для POST,
// байт-в-байт то, что уйдёт в запрос: при расхождении биржа молча
// отвергает подпись.
func (c *Client) sign(timestamp, payload string) string {
	mac := hmac.New(sha256.New, []byte(c.apiSecret))
	mac.Write([]byte(timestamp + c.apiKey + c.recvWindow + payload))
	return hex.EncodeToString(mac.Sum(nil))
}

func (c *Client) authHeaders(req *http.Request, payload string) {
	ts := fmt.Sprintf("%d", time.Now().UnixMilli())
	req.Header.Set("X-BAPI-API-KEY", c.apiKey)
	req.Header.Set("X-BAPI-TIMESTAMP", ts)
	req.Header.Set("X-BAPI-RECV-WINDOW", c.recvWindow)
	req.Header.Set("X-BAPI-SIGN-TYPE", "2")
	req.Header.Set("X-BAPI-SIGN", c.sign(ts, payload))
}

type envelope struct {
	RetCode int             `json:"retCode"`
	RetMsg  string          `json:"retMsg"`
	Result  json.RawMessage `json:"result"`
}

// get выполняет GET (подписанный, если signed) и возвращает result.
// Ненулевой retCode приходит как *Error с кодом — некоторые коды
// вызывающие трактуют как идемпотентный успех.
func (c *Client) get(ctx context.Context, op, path string, q url.Values, signed bool) (json.RawMessage, error) {
	query := q.Encode() // сортирует ключи — канонический вид для подписи

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path+"?"+query, nil)
	if err != nil {
		return nil, &Error{Op: op, Err: err}
	}
	if signed {
		c.authHeaders(req, query)
	}

	return c.do(op, req)
}

// post подписывает и отправляет JSON-тело. body должен быть структурой с
// фиксированным порядком полей, чтобы сериализация была стабильной.
func (c *Client) post(ctx context.Context, op, path string, body any) (json.RawMessage, error) {
	payload, err := sonic.Marshal(body)
	if err != nil {
		return nil, &Error{Op: op, Err: err}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return nil, &Error{Op: op, Err: err}
	}
	req.Header.Set("Content-Type", "application/json")
	c.authHeaders(req, string(payload))

	return c.do(op, req)
}

func (c *Client) do(op string, req *http.Request) (json.RawMessage, error) {
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, &Error{Op: op, Err: err}
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &Error{Op: op, Err: err}
	}
	if resp.StatusCode/100 != 2 {
		return nil, &Error{Op: op, Err: fmt.Errorf("http %d: %s", resp.StatusCode, string(data))}
	}

	var env envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return nil, &Error{Op: op, Err: fmt.Errorf("decode: %w; body=%s", err, string(data))}
	}
	if env.RetCode != 0 {
		return nil, &Error{Op: op, RetCode: env.RetCode, RetMsg: env.RetMsg}
	}
	return env.Result, nil
}
