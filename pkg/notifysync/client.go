package notifysync

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"go.uber.org/zap"
)

// ErrorKind classifies failures at the API boundary.
type ErrorKind int

const (
	KindNetwork ErrorKind = iota + 1
	KindValidation
	KindUnauthorized
	KindNotFound
	KindServer
)

// APIError is returned for any failed snapshot or action call. Message holds
// the server's human-readable reason when one was provided.
type APIError struct {
	Kind       ErrorKind
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return fmt.Sprintf("request failed with status %d", e.StatusCode)
}

func classify(status int) ErrorKind {
	switch {
	case status == http.StatusUnauthorized || status == http.StatusForbidden:
		return KindUnauthorized
	case status == http.StatusNotFound:
		return KindNotFound
	case status >= 400 && status < 500:
		return KindValidation
	default:
		return KindServer
	}
}

// Client is the snapshot loader and action dispatcher for one authenticated
// session. Successful actions mirror their transition into the Store
// immediately; failures leave the Store untouched and are never retried.
type Client struct {
	baseURL string
	token   string
	store   *Store
	httpc   *http.Client
	log     *zap.Logger
}

// NewClient builds a client bound to one store and one user's access token.
func NewClient(baseURL, token string, store *Store, log *zap.Logger) *Client {
	if log == nil {
		log = zap.NewNop()
	}
	return &Client{
		baseURL: baseURL,
		token:   token,
		store:   store,
		httpc:   &http.Client{Timeout: 30 * time.Second},
		log:     log,
	}
}

type envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

func (c *Client) do(ctx context.Context, method, path string, body interface{}) (json.RawMessage, error) {
	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return nil, err
		}
		reader = bytes.NewReader(b)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := c.httpc.Do(req)
	if err != nil {
		return nil, &APIError{Kind: KindNetwork, Message: err.Error()}
	}
	defer resp.Body.Close()
	respBody, _ := io.ReadAll(resp.Body)
	var env envelope
	if err := json.Unmarshal(respBody, &env); err != nil {
		if resp.StatusCode >= 300 {
			return nil, &APIError{Kind: classify(resp.StatusCode), StatusCode: resp.StatusCode}
		}
		return nil, &APIError{Kind: KindServer, StatusCode: resp.StatusCode, Message: "malformed response"}
	}
	if resp.StatusCode >= 300 || !env.Success {
		return nil, &APIError{Kind: classify(resp.StatusCode), StatusCode: resp.StatusCode, Message: env.Message}
	}
	return env.Data, nil
}

type snapshotData struct {
	Notifications []Notification `json:"notifications"`
	UnreadCount   int            `json:"unreadCount"`
}

// Refresh pulls the full list and unread count and replaces the store's state
// wholesale. Filters are forwarded verbatim as query parameters. Refresh is
// idempotent and must be called after a transport reconnect before further
// push events are trusted.
func (c *Client) Refresh(ctx context.Context, filters map[string]string) error {
	path := "/api/v1/notification"
	if len(filters) > 0 {
		q := url.Values{}
		for k, v := range filters {
			q.Set(k, v)
		}
		path += "?" + q.Encode()
	}
	data, err := c.do(ctx, http.MethodGet, path, nil)
	if err != nil {
		return err
	}
	var snap snapshotData
	if err := json.Unmarshal(data, &snap); err != nil {
		return &APIError{Kind: KindServer, Message: "malformed snapshot"}
	}
	c.store.Replace(snap.Notifications, snap.UnreadCount)
	return nil
}

type markReadData struct {
	NotificationID uint      `json:"notificationId"`
	ReadAt         time.Time `json:"readAt"`
}

// MarkAsRead marks one notification read on the server and mirrors the
// transition locally without waiting for the push echo.
func (c *Client) MarkAsRead(ctx context.Context, id uint) error {
	data, err := c.do(ctx, http.MethodPut, "/api/v1/notification/"+strconv.FormatUint(uint64(id), 10)+"/read", nil)
	if err != nil {
		return err
	}
	readAt := time.Now()
	var out markReadData
	if json.Unmarshal(data, &out) == nil && !out.ReadAt.IsZero() {
		readAt = out.ReadAt
	}
	c.store.Apply(Event{Kind: EventRead, ID: id, ReadAt: readAt})
	return nil
}

func (c *Client) MarkAllAsRead(ctx context.Context) error {
	if _, err := c.do(ctx, http.MethodPut, "/api/v1/notification/mark-all-read", nil); err != nil {
		return err
	}
	c.store.Apply(Event{Kind: EventAllRead})
	return nil
}

func (c *Client) DeleteNotification(ctx context.Context, id uint) error {
	if _, err := c.do(ctx, http.MethodDelete, "/api/v1/notification/"+strconv.FormatUint(uint64(id), 10), nil); err != nil {
		return err
	}
	c.store.Apply(Event{Kind: EventDeleted, ID: id})
	return nil
}

// CreateNotification asks the server to create (and push) a notification for
// some user. The caller's own list updates through the push channel if the
// target is the caller, so no local mirror is applied.
type CreateNotification struct {
	UserID   uint   `json:"userId"`
	Title    string `json:"title"`
	Message  string `json:"message"`
	Type     string `json:"type"`
	ParcelID *uint  `json:"parcelId,omitempty"`
}

func (c *Client) CreateNotification(ctx context.Context, req CreateNotification) (*Notification, error) {
	data, err := c.do(ctx, http.MethodPost, "/api/v1/notification", req)
	if err != nil {
		return nil, err
	}
	var n Notification
	if err := json.Unmarshal(data, &n); err != nil {
		return nil, &APIError{Kind: KindServer, Message: "malformed response"}
	}
	return &n, nil
}
