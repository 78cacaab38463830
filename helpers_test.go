package main

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/require"
)

func testConfig() *Config {
	return &Config{
		bind:           "127.0.0.1",
		port:           8080,
		playerTimeout:  time.Hour,
		everyoneChance: 0.5,
		voteVisibility: "count-only",
	}
}

func newTestServer(t *testing.T, cfg *Config) (*httptest.Server, *GameManager) {
	t.Helper()

	ctx, cancel := context.WithCancel(context.Background())
	errs := make(chan error, 64)

	mux, gm, err := newRouter(ctx, cfg, errs)
	require.NoError(t, err)

	srv := httptest.NewServer(mux)
	t.Cleanup(func() {
		gm.Close()
		srv.Close()
		cancel()
	})

	return srv, gm
}

type wsClient struct {
	t      *testing.T
	cookie string
	conn   *websocket.Conn
}

func dial(t *testing.T, srv *httptest.Server, gameID string) *wsClient {
	t.Helper()
	return dialAs(t, srv, gameID, uuid.NewString())
}

// dialAs connects to gameID with an existing player cookie.
func dialAs(t *testing.T, srv *httptest.Server, gameID, cookie string) *wsClient {
	t.Helper()

	header := http.Header{}
	header.Set("Cookie", playerCookieName+"="+cookie)

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/chameleon/" + gameID + "/ws"
	conn, resp, err := websocket.DefaultDialer.Dial(url, header)
	require.NoError(t, err)
	if resp.Body != nil {
		_ = resp.Body.Close()
	}
	t.Cleanup(func() { _ = conn.Close() })

	return &wsClient{t: t, cookie: cookie, conn: conn}
}

func (c *wsClient) send(msg ClientMessage) {
	c.t.Helper()
	require.NoError(c.t, c.conn.WriteJSON(msg))
}

// next discards messages until one of type typ arrives and decodes it
// into out.
func (c *wsClient) next(typ string, out any) {
	c.t.Helper()

	require.NoError(c.t, c.conn.SetReadDeadline(time.Now().Add(5*time.Second)))
	for {
		_, raw, err := c.conn.ReadMessage()
		require.NoError(c.t, err, "waiting for %s", typ)

		var env struct {
			Type string `json:"type"`
		}
		require.NoError(c.t, json.Unmarshal(raw, &env))
		if env.Type != typ {
			continue
		}
		if out != nil {
			require.NoError(c.t, json.Unmarshal(raw, out))
		}
		return
	}
}

func (c *wsClient) join(username string) {
	c.t.Helper()
	c.send(ClientMessage{Type: "join", Username: username})
}

// waitForLobby reads lobby updates until n players have joined.
func (c *wsClient) waitForLobby(n int) LobbyStateMessage {
	c.t.Helper()

	for {
		var lobby LobbyStateMessage
		c.next("lobby_state", &lobby)
		if len(lobby.Players) == n {
			return lobby
		}
	}
}
