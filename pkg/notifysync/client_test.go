package notifysync

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func jsonOK(w http.ResponseWriter, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{"success": true, "data": data})
}

func jsonFail(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]interface{}{"success": false, "message": message})
}

func TestClientRefreshReplacesState(t *testing.T) {
	now := time.Now().UTC().Truncate(time.Second)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodGet, r.Method)
		require.Equal(t, "/api/v1/notification", r.URL.Path)
		require.Equal(t, "Bearer tok", r.Header.Get("Authorization"))
		jsonOK(w, map[string]interface{}{
			"notifications": []Notification{
				{ID: 2, Title: "b", CreatedAt: now},
				{ID: 1, Title: "a", IsRead: true, CreatedAt: now.Add(-time.Minute)},
			},
			"unreadCount": 1,
		})
	}))
	defer srv.Close()

	st := NewStore(nil)
	// Provisional push state from before the snapshot resolved.
	st.Apply(Event{Kind: EventNew, Notification: unreadAt(9, now)})

	c := NewClient(srv.URL, "tok", st, nil)
	require.NoError(t, c.Refresh(context.Background(), nil))

	list := st.Notifications()
	require.Len(t, list, 2)
	require.Equal(t, uint(2), list[0].ID)
	require.Equal(t, 1, st.UnreadCount())
}

func TestClientRefreshForwardsFilters(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "false", r.URL.Query().Get("isRead"))
		require.Equal(t, "parcel-booked", r.URL.Query().Get("type"))
		jsonOK(w, map[string]interface{}{"notifications": []Notification{}, "unreadCount": 0})
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "tok", NewStore(nil), nil)
	err := c.Refresh(context.Background(), map[string]string{"isRead": "false", "type": "parcel-booked"})
	require.NoError(t, err)
}

func TestClientMarkAsReadMirrorsLocally(t *testing.T) {
	readAt := time.Now().UTC().Truncate(time.Second)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPut, r.Method)
		require.Equal(t, "/api/v1/notification/1/read", r.URL.Path)
		jsonOK(w, map[string]interface{}{"notificationId": 1, "readAt": readAt})
	}))
	defer srv.Close()

	st := NewStore(nil)
	st.Replace([]Notification{unreadAt(1, time.Now())}, 1)

	c := NewClient(srv.URL, "tok", st, nil)
	require.NoError(t, c.MarkAsRead(context.Background(), 1))

	list := st.Notifications()
	require.True(t, list[0].IsRead)
	require.Equal(t, readAt, *list[0].ReadAt)
	require.Equal(t, 0, st.UnreadCount())

	// The push echo of the same change must be harmless.
	st.Apply(Event{Kind: EventRead, ID: 1, ReadAt: readAt})
	require.Equal(t, 0, st.UnreadCount())
}

func TestClientMarkAllAndDeleteMirrorLocally(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.Method == http.MethodPut && r.URL.Path == "/api/v1/notification/mark-all-read":
			jsonOK(w, map[string]interface{}{"updated": 2})
		case r.Method == http.MethodDelete && r.URL.Path == "/api/v1/notification/2":
			jsonOK(w, map[string]interface{}{"notificationId": 2})
		default:
			jsonFail(w, http.StatusNotFound, "not found")
		}
	}))
	defer srv.Close()

	st := NewStore(nil)
	st.Replace([]Notification{unreadAt(2, time.Now()), unreadAt(1, time.Now())}, 2)

	c := NewClient(srv.URL, "tok", st, nil)
	require.NoError(t, c.MarkAllAsRead(context.Background()))
	require.Equal(t, 0, st.UnreadCount())

	require.NoError(t, c.DeleteNotification(context.Background(), 2))
	list := st.Notifications()
	require.Len(t, list, 1)
	require.Equal(t, uint(1), list[0].ID)
}

func TestClientFailureLeavesStateUntouched(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		jsonFail(w, http.StatusNotFound, "notification not found")
	}))
	defer srv.Close()

	st := NewStore(nil)
	st.Replace([]Notification{unreadAt(1, time.Now())}, 1)

	c := NewClient(srv.URL, "tok", st, nil)
	err := c.MarkAsRead(context.Background(), 1)
	require.Error(t, err)

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	require.Equal(t, KindNotFound, apiErr.Kind)
	require.Equal(t, "notification not found", apiErr.Message)

	require.Equal(t, 1, st.UnreadCount())
	require.False(t, st.Notifications()[0].IsRead)
}

func TestClientErrorClassification(t *testing.T) {
	cases := []struct {
		status int
		kind   ErrorKind
	}{
		{http.StatusUnauthorized, KindUnauthorized},
		{http.StatusForbidden, KindUnauthorized},
		{http.StatusNotFound, KindNotFound},
		{http.StatusBadRequest, KindValidation},
		{http.StatusInternalServerError, KindServer},
	}
	for _, tc := range cases {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			jsonFail(w, tc.status, "nope")
		}))
		c := NewClient(srv.URL, "tok", NewStore(nil), nil)
		err := c.Refresh(context.Background(), nil)
		var apiErr *APIError
		require.ErrorAs(t, err, &apiErr)
		require.Equal(t, tc.kind, apiErr.Kind, "status %d", tc.status)
		srv.Close()
	}
}

func TestClientNetworkErrorKind(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close() // connection refused from here on

	c := NewClient(srv.URL, "tok", NewStore(nil), nil)
	err := c.Refresh(context.Background(), nil)
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	require.Equal(t, KindNetwork, apiErr.Kind)
}

func TestClientCreateNotification(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		var req CreateNotification
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		require.Equal(t, uint(7), req.UserID)
		w.WriteHeader(http.StatusCreated)
		jsonOK(w, Notification{ID: 11, Title: req.Title, Message: req.Message, Type: req.Type})
	}))
	defer srv.Close()

	st := NewStore(nil)
	c := NewClient(srv.URL, "tok", st, nil)
	n, err := c.CreateNotification(context.Background(), CreateNotification{
		UserID: 7, Title: "hi", Message: "there", Type: "system",
	})
	require.NoError(t, err)
	require.Equal(t, uint(11), n.ID)
	// Creation targets another user; no local mirror.
	require.Empty(t, st.Notifications())
}
