package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/thedon-dev/Final-Year-Project/internal/domain"
	"github.com/thedon-dev/Final-Year-Project/internal/security/auth"
	"github.com/thedon-dev/Final-Year-Project/internal/service"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func (a *testAPI) userID(t *testing.T, token string) primitive.ObjectID {
	t.Helper()
	_, res := a.do(t, http.MethodGet, "/api/auth/me", token, nil)
	var me struct {
		ID primitive.ObjectID `json:"_id"`
	}
	require.NoError(t, json.Unmarshal(res.Data, &me))
	return me.ID
}

func TestNotificationStreamPushesToOwner(t *testing.T) {
	api := newTestAPI(t)
	token := api.register(t, "ws@example.com", domain.RoleTenant)
	userID := api.userID(t, token)

	srv := httptest.NewServer(api.router)
	defer srv.Close()

	header := http.Header{}
	header.Set("Cookie", auth.CookieName+"="+token)
	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws/notifications"
	conn, _, err := websocket.DefaultDialer.Dial(url, header)
	require.NoError(t, err)
	defer conn.Close()

	require.Eventually(t, func() bool {
		return api.notify.Hub().Subscribers(userID.Hex()) == 1
	}, time.Second, 10*time.Millisecond)

	_, err = api.notify.Notify(context.Background(), service.NotifyInput{
		UserID:  userID,
		Title:   "Rent due",
		Message: "Your rent is due in 3 days",
	})
	require.NoError(t, err)

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	var got domain.Notification
	require.NoError(t, conn.ReadJSON(&got))
	assert.Equal(t, "Rent due", got.Title)
	assert.Equal(t, userID, got.UserID)

	conn.Close()
	require.Eventually(t, func() bool {
		return api.notify.Hub().Subscribers(userID.Hex()) == 0
	}, time.Second, 10*time.Millisecond)
}

func TestNotificationStreamRejects(t *testing.T) {
	api := newTestAPI(t)
	srv := httptest.NewServer(api.router)
	defer srv.Close()
	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws/notifications"

	_, resp, err := websocket.DefaultDialer.Dial(url, nil)
	require.Error(t, err)
	require.NotNil(t, resp)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	token := api.register(t, "origin@example.com", domain.RoleTenant)
	header := http.Header{}
	header.Set("Cookie", auth.CookieName+"="+token)
	header.Set("Origin", "http://evil.example")
	_, resp, err = websocket.DefaultDialer.Dial(url, header)
	require.Error(t, err)
	require.NotNil(t, resp)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
}

func TestNotificationEndpoints(t *testing.T) {
	api := newTestAPI(t)
	owner := api.register(t, "owner@example.com", domain.RoleTenant)
	other := api.register(t, "other@example.com", domain.RoleTenant)

	n, err := api.notify.Notify(context.Background(), service.NotifyInput{
		UserID: api.userID(t, owner), Title: "Hello", Message: "World",
	})
	require.NoError(t, err)
	path := "/api/notifications/" + n.ID.Hex()

	rec, _ := api.do(t, http.MethodPatch, path+"/read", other, nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec, res := api.do(t, http.MethodPatch, path+"/read", owner, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var read domain.Notification
	require.NoError(t, json.Unmarshal(res.Data, &read))
	assert.True(t, read.Read)

	_, res = api.do(t, http.MethodGet, "/api/notifications?unread=true", owner, nil)
	assert.JSONEq(t, `[]`, string(res.Data))

	rec, res = api.do(t, http.MethodDelete, path, owner, nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Notification deleted successfully", res.Message)
}
