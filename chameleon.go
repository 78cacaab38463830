/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

// Chameleon multiplayer driver
//
// Every match lives under its own game ID and has one Hub. The first
// browser to connect hosts the match, and hosting passes to a lobby player
// if that browser goes away before the match starts. Players join the lobby with a
// username; the host can lock the lobby, kick players and start the match
// once enough players have joined. From then on every accepted move is
// applied to the match and each connected browser receives its own view,
// so the chameleon never receives the secret word.
//
// Routes:
//   - $path                  redirects to a new random game (8-char ID)
//   - $path/:gameid          HTML client
//   - $path/:gameid/ws       websocket for that game
//   - $path/:gameid/qr       PNG QR code for that game URL

package main

import (
	"context"
	"crypto/rand"
	"math/big"
	"net/http"
	"strings"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/Seednode/chameleon/games/chameleon"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/julienschmidt/httprouter"
	"github.com/skip2/go-qrcode"
	"go.uber.org/zap"
)

const (
	gameIDLength      = 8
	maxUsernameLength = 32
	playerCookieName  = "chameleon_id"
)

// lobbyPlayer ties a browser cookie to the seat it plays. The seat ID is
// what other players see, the cookie never leaves this process.
type lobbyPlayer struct {
	cookie   string
	id       chameleon.PlayerID
	username string
}

// Messages coming from clients
type ClientMessage struct {
	Type           string              `json:"type"`                      // "join", "lock_lobby", "kick", "start_game", "move"
	Username       string              `json:"username,omitempty"`        // join
	Lock           *bool               `json:"lock,omitempty"`            // lock_lobby
	TargetUsername string              `json:"target_username,omitempty"` // kick
	Settings       *chameleon.Settings `json:"settings,omitempty"`        // start_game
	Move           *chameleon.Move     `json:"move,omitempty"`            // move
}

// SessionInfoMessage is sent immediately on connect so the client knows
// what this cookie already is in the match.
type SessionInfoMessage struct {
	Type        string             `json:"type"` // "session_info"
	LobbyLocked bool               `json:"lobby_locked"`
	Started     bool               `json:"started"`
	IsExisting  bool               `json:"is_existing"`
	IsHost      bool               `json:"is_host"`
	PlayerID    chameleon.PlayerID `json:"player_id,omitempty"`
	Username    string             `json:"username,omitempty"`
}

// LobbyStateMessage lists who has joined and whether new players may.
type LobbyStateMessage struct {
	Type     string             `json:"type"` // "lobby_state"
	Locked   bool               `json:"locked"`
	Started  bool               `json:"started"`
	Host     string             `json:"host,omitempty"`
	Players  []string           `json:"players"`
	Defaults chameleon.Settings `json:"defaults"`
}

// ViewMessage carries one viewer's projection of the match.
type ViewMessage struct {
	Type  string                        `json:"type"` // "view"
	View  chameleon.View                `json:"view"`
	Names map[chameleon.PlayerID]string `json:"names"`
}

// RejectedMessage goes only to the client whose move was refused.
type RejectedMessage struct {
	Type    string `json:"type"` // "move_rejected"
	Kind    string `json:"kind"`
	Message string `json:"message"`
}

// SimpleMessage is for generic notifications ("kicked", "error")
type SimpleMessage struct {
	Type    string `json:"type"`
	Message string `json:"message"`
}

type Client struct {
	conn   *websocket.Conn
	send   chan any
	cookie string
}

type clientRequest struct {
	client *Client
	msg    ClientMessage
}

type Hub struct {
	id       string
	engine   *chameleon.Engine
	defaults chameleon.Settings
	logger   *zap.Logger

	clients  map[*Client]bool
	players  []lobbyPlayer
	removals map[string]*time.Timer

	register chan *Client
	unreg    chan *Client
	joins    chan clientRequest
	hostCmds chan clientRequest
	moves    chan clientRequest
	quit     chan struct{}
	quitOnce sync.Once

	mu sync.RWMutex

	createdAt   time.Time
	lastActive  time.Time
	lobbyLocked bool
	hostCookie  string

	match *chameleon.Match
}

func newHub(cfg *Config, gameID string, engine *chameleon.Engine, defaults chameleon.Settings) *Hub {
	now := time.Now()
	return &Hub{
		id:         gameID,
		engine:     engine,
		defaults:   defaults,
		logger:     cfg.log().With(zap.String("game", gameID)),
		clients:    make(map[*Client]bool),
		removals:   make(map[string]*time.Timer),
		register:   make(chan *Client),
		unreg:      make(chan *Client),
		joins:      make(chan clientRequest),
		hostCmds:   make(chan clientRequest),
		moves:      make(chan clientRequest),
		quit:       make(chan struct{}),
		createdAt:  now,
		lastActive: now,
	}
}

func (h *Hub) run(cfg *Config) {
	for {
		select {
		case <-h.quit:
			return

		case c := <-h.register:
			h.handleRegister(c)

		case c := <-h.unreg:
			h.handleUnregister(cfg, c)

		case req := <-h.joins:
			h.handleJoin(cfg, req)

		case req := <-h.hostCmds:
			h.handleHostCommand(cfg, req)

		case req := <-h.moves:
			h.handleMove(req)
		}
	}
}

// submit hands req to the run loop unless the hub has been closed.
func (h *Hub) submit(ch chan<- clientRequest, req clientRequest) bool {
	select {
	case ch <- req:
		return true
	case <-h.quit:
		return false
	}
}

func (h *Hub) playerLocked(cookie string) (lobbyPlayer, bool) {
	for _, p := range h.players {
		if p.cookie == cookie {
			return p, true
		}
	}
	return lobbyPlayer{}, false
}

func (h *Hub) namesLocked() map[chameleon.PlayerID]string {
	names := make(map[chameleon.PlayerID]string, len(h.players))
	for _, p := range h.players {
		names[p.id] = p.username
	}
	return names
}

// trySendLocked queues msg for c, dropping the client if its buffer is full.
func (h *Hub) trySendLocked(c *Client, msg any) {
	if !h.clients[c] {
		return
	}

	select {
	case c.send <- msg:
	default:
		delete(h.clients, c)
		close(c.send)
	}
}

func (h *Hub) sendErrorLocked(c *Client, text string) {
	h.trySendLocked(c, SimpleMessage{
		Type:    "error",
		Message: text,
	})
}

func (h *Hub) handleRegister(c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.lastActive = time.Now()

	if h.hostCookie == "" {
		h.hostCookie = c.cookie
	}

	if t, ok := h.removals[c.cookie]; ok {
		t.Stop()
		delete(h.removals, c.cookie)
	}

	h.clients[c] = true

	h.trySendLocked(c, h.sessionInfoLocked(c.cookie))
	h.trySendLocked(c, h.lobbyStateLocked())

	if h.match != nil {
		h.trySendLocked(c, h.viewForLocked(c))
	}
}

func (h *Hub) handleUnregister(cfg *Config, c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.lastActive = time.Now()

	if h.clients[c] {
		delete(h.clients, c)
		close(c.send)
	}

	if h.reassignHostLocked() {
		h.sendSessionInfoLocked(h.hostCookie)
		h.broadcastLobbyLocked()
	}

	if _, ok := h.playerLocked(c.cookie); !ok || h.match != nil {
		return
	}
	for other := range h.clients {
		if other.cookie == c.cookie {
			return
		}
	}

	cookie := c.cookie
	if t, ok := h.removals[cookie]; ok {
		t.Stop()
	}
	h.removals[cookie] = time.AfterFunc(cfg.playerTimeout, func() {
		h.removeIfAbsent(cfg, cookie)
	})
}

func (h *Hub) sessionInfoLocked(cookie string) SessionInfoMessage {
	p, existing := h.playerLocked(cookie)

	return SessionInfoMessage{
		Type:        "session_info",
		LobbyLocked: h.lobbyLocked,
		Started:     h.match != nil,
		IsExisting:  existing,
		IsHost:      h.hostCookie != "" && h.hostCookie == cookie,
		PlayerID:    p.id,
		Username:    p.username,
	}
}

// sendSessionInfoLocked refreshes the session of every browser using cookie.
func (h *Hub) sendSessionInfoLocked(cookie string) {
	if cookie == "" {
		return
	}

	msg := h.sessionInfoLocked(cookie)
	for client := range h.clients {
		if client.cookie == cookie {
			h.trySendLocked(client, msg)
		}
	}
}

// reassignHostLocked hands hosting on when the host is neither in the lobby
// nor connected. Lobby players are preferred over browsers that have not
// joined yet. It reports whether the host changed.
func (h *Hub) reassignHostLocked() bool {
	if h.match != nil {
		return false
	}
	if h.hostCookie != "" {
		if _, ok := h.playerLocked(h.hostCookie); ok {
			return false
		}
		for c := range h.clients {
			if c.cookie == h.hostCookie {
				return false
			}
		}
	}

	previous := h.hostCookie
	h.hostCookie = ""
	if len(h.players) > 0 {
		h.hostCookie = h.players[0].cookie
	} else {
		for c := range h.clients {
			h.hostCookie = c.cookie
			break
		}
	}

	return h.hostCookie != previous
}

// removeIfAbsent drops a lobby player whose browser has not come back.
func (h *Hub) removeIfAbsent(cfg *Config, cookie string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	delete(h.removals, cookie)

	if h.match != nil {
		return
	}
	for c := range h.clients {
		if c.cookie == cookie {
			return
		}
	}

	if p, ok := h.removePlayerLocked(cookie); ok {
		logf(cfg, "GAMES: Player %q timed out of %s", p.username, h.id)
		h.broadcastLobbyLocked()
	}
}

// removePlayerLocked drops the player behind cookie and passes hosting on
// when the host leaves.
func (h *Hub) removePlayerLocked(cookie string) (lobbyPlayer, bool) {
	for i, p := range h.players {
		if p.cookie != cookie {
			continue
		}

		h.players = append(h.players[:i], h.players[i+1:]...)
		if h.hostCookie == cookie {
			h.hostCookie = ""
			h.reassignHostLocked()
			h.sendSessionInfoLocked(h.hostCookie)
		}
		h.lastActive = time.Now()

		return p, true
	}
	return lobbyPlayer{}, false
}

func (h *Hub) handleJoin(cfg *Config, req clientRequest) {
	c := req.client

	username := strings.TrimSpace(req.msg.Username)

	h.mu.Lock()
	defer h.mu.Unlock()

	h.lastActive = time.Now()

	switch {
	case username == "":
		h.sendErrorLocked(c, "Please choose a username.")
		return
	case utf8.RuneCountInString(username) > maxUsernameLength:
		h.sendErrorLocked(c, "That username is too long.")
		return
	}

	existing, isExisting := h.playerLocked(c.cookie)

	switch {
	case h.match != nil:
		h.sendErrorLocked(c, "The match has already started.")
		return
	case !isExisting && h.lobbyLocked:
		h.sendErrorLocked(c, "The lobby is locked; no new players may join.")
		return
	case !isExisting && len(h.players) >= chameleon.MaxPlayers:
		h.sendErrorLocked(c, "The lobby is full.")
		return
	}

	for _, p := range h.players {
		if p.cookie != c.cookie && strings.EqualFold(p.username, username) {
			h.sendErrorLocked(c, "That username is already taken. Please choose a different username.")
			return
		}
	}

	if isExisting {
		for i := range h.players {
			if h.players[i].cookie == existing.cookie {
				h.players[i].username = username
			}
		}
	} else {
		h.players = append(h.players, lobbyPlayer{
			cookie:   c.cookie,
			id:       chameleon.PlayerID(uuid.NewString()),
			username: username,
		})
		logf(cfg, "GAMES: Player %q joined %s", username, h.id)
	}

	if h.reassignHostLocked() && h.hostCookie != c.cookie {
		h.sendSessionInfoLocked(h.hostCookie)
	}
	h.sendSessionInfoLocked(c.cookie)
	h.broadcastLobbyLocked()
}

// handleHostCommand processes host commands: lock/unlock lobby, kick users,
// start the match.
func (h *Hub) handleHostCommand(cfg *Config, req clientRequest) {
	c := req.client
	msg := req.msg

	h.mu.Lock()
	defer h.mu.Unlock()

	h.lastActive = time.Now()

	if h.hostCookie == "" || c.cookie != h.hostCookie {
		h.sendErrorLocked(c, "Only the host can do that.")
		return
	}
	if h.match != nil {
		h.sendErrorLocked(c, "The match has already started.")
		return
	}

	switch msg.Type {
	case "lock_lobby":
		h.lobbyLocked = msg.Lock != nil && *msg.Lock
		h.broadcastLobbyLocked()

	case "kick":
		var target string
		for _, p := range h.players {
			if p.username == msg.TargetUsername && p.cookie != c.cookie {
				target = p.cookie
			}
		}
		if target == "" {
			h.sendErrorLocked(c, "No such player.")
			return
		}

		p, _ := h.removePlayerLocked(target)
		if t, ok := h.removals[target]; ok {
			t.Stop()
			delete(h.removals, target)
		}

		for client := range h.clients {
			if client.cookie == target {
				h.trySendLocked(client, SimpleMessage{
					Type:    "kicked",
					Message: "You have been removed by the host.",
				})
				if h.clients[client] {
					delete(h.clients, client)
					close(client.send)
				}
			}
		}

		logf(cfg, "GAMES: Player %q kicked from %s", p.username, h.id)
		h.broadcastLobbyLocked()

	case "start_game":
		h.startMatchLocked(cfg, c, msg.Settings)
	}
}

func (h *Hub) startMatchLocked(cfg *Config, c *Client, settings *chameleon.Settings) {
	if len(h.players) < chameleon.MinPlayers {
		h.sendErrorLocked(c, "At least three players are needed to start.")
		return
	}

	s := h.defaults
	if settings != nil {
		s = *settings
	}

	seats := make([]chameleon.PlayerID, 0, len(h.players))
	for _, p := range h.players {
		seats = append(seats, p.id)
	}
	shuffleSeats(seats)

	match, err := chameleon.NewMatch(h.engine, seats, s)
	if err != nil {
		h.sendErrorLocked(c, err.Error())
		return
	}

	h.match = match
	h.lobbyLocked = true

	logf(cfg, "GAMES: Match %s started with %d players", h.id, len(seats))

	h.broadcastLobbyLocked()
	h.broadcastViewsLocked()
}

// shuffleSeats randomises the seating with crypto/rand so that joining
// first gives no advantage.
func shuffleSeats(seats []chameleon.PlayerID) {
	for i := len(seats) - 1; i > 0; i-- {
		n, err := rand.Int(rand.Reader, big.NewInt(int64(i+1)))
		if err != nil {
			continue
		}
		j := int(n.Int64())
		seats[i], seats[j] = seats[j], seats[i]
	}
}

func (h *Hub) handleMove(req clientRequest) {
	c := req.client

	h.mu.Lock()
	defer h.mu.Unlock()

	h.lastActive = time.Now()

	reject := func(kind, text string) {
		h.trySendLocked(c, RejectedMessage{
			Type:    "move_rejected",
			Kind:    kind,
			Message: text,
		})
	}

	if h.match == nil {
		reject("illegal_move", "The match has not started.")
		return
	}
	p, ok := h.playerLocked(c.cookie)
	if !ok {
		reject("illegal_move", "Spectators cannot make moves.")
		return
	}
	if req.msg.Move == nil {
		reject("invalid_payload", "Missing move.")
		return
	}

	if _, err := h.match.Apply(p.id, *req.msg.Move); err != nil {
		kind := chameleon.ErrorKind(err)
		if kind == "" {
			kind = "illegal_move"
		}
		h.logger.Debug("move rejected",
			zap.String("player", p.username),
			zap.String("move", string(req.msg.Move.Name)),
			zap.Error(err),
		)
		reject(kind, err.Error())
		return
	}

	h.broadcastViewsLocked()
}

func (h *Hub) lobbyStateLocked() LobbyStateMessage {
	players := make([]string, 0, len(h.players))
	host := ""
	for _, p := range h.players {
		players = append(players, p.username)
		if p.cookie == h.hostCookie {
			host = p.username
		}
	}

	return LobbyStateMessage{
		Type:     "lobby_state",
		Locked:   h.lobbyLocked,
		Started:  h.match != nil,
		Host:     host,
		Players:  players,
		Defaults: h.defaults,
	}
}

func (h *Hub) broadcastLobbyLocked() {
	msg := h.lobbyStateLocked()
	for client := range h.clients {
		h.trySendLocked(client, msg)
	}
}

// viewForLocked projects the match for whoever sits behind c. Browsers
// without a seat get the spectator view.
func (h *Hub) viewForLocked(c *Client) ViewMessage {
	var viewer *chameleon.PlayerID
	if p, ok := h.playerLocked(c.cookie); ok {
		viewer = &p.id
	}

	return ViewMessage{
		Type:  "view",
		View:  h.match.View(viewer),
		Names: h.namesLocked(),
	}
}

func (h *Hub) broadcastViewsLocked() {
	for client := range h.clients {
		h.trySendLocked(client, h.viewForLocked(client))
	}
}

// closeAll stops the hub and disconnects all of its clients.
func (h *Hub) closeAll() {
	h.quitOnce.Do(func() { close(h.quit) })

	h.mu.Lock()
	defer h.mu.Unlock()

	for cookie, t := range h.removals {
		t.Stop()
		delete(h.removals, cookie)
	}

	for c := range h.clients {
		close(c.send)
		_ = c.conn.Close()
		delete(h.clients, c)
	}
}

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

func getOrSetPlayerID(w http.ResponseWriter, r *http.Request) string {
	if c, err := r.Cookie(playerCookieName); err == nil {
		if _, err := uuid.Parse(c.Value); err == nil {
			return c.Value
		}
	}

	id := uuid.NewString()

	http.SetCookie(w, &http.Cookie{
		Name:     playerCookieName,
		Value:    id,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})

	return id
}

// GameManager holds a set of hubs keyed by game ID, so each $path/$gameid
// is its own isolated match.
type GameManager struct {
	cfg      *Config
	engine   *chameleon.Engine
	defaults chameleon.Settings

	mu          sync.Mutex
	hubs        map[string]*Hub
	idleTimeout time.Duration

	done      chan struct{}
	closeOnce sync.Once
	wg        sync.WaitGroup
}

func newGameManager(ctx context.Context, cfg *Config, engine *chameleon.Engine, defaults chameleon.Settings) *GameManager {
	gm := &GameManager{
		cfg:         cfg,
		engine:      engine,
		defaults:    defaults,
		hubs:        make(map[string]*Hub),
		idleTimeout: cfg.sessionTimeout,
		done:        make(chan struct{}),
	}
	if gm.idleTimeout > 0 {
		gm.wg.Add(1)
		go func() {
			defer gm.wg.Done()
			gm.reaperLoop(ctx)
		}()
	}
	return gm
}

func (gm *GameManager) getHub(gameID string) *Hub {
	gm.mu.Lock()
	defer gm.mu.Unlock()

	if hub, ok := gm.hubs[gameID]; ok {
		return hub
	}

	hub := newHub(gm.cfg, gameID, gm.engine, gm.defaults)
	gm.hubs[gameID] = hub

	gm.wg.Add(1)
	go func() {
		defer gm.wg.Done()
		hub.run(gm.cfg)
	}()

	return hub
}

func (gm *GameManager) hubCount() int {
	gm.mu.Lock()
	defer gm.mu.Unlock()

	return len(gm.hubs)
}

const gameIDLetters = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789"

// newGameID generates a crypto-random game ID and ensures it doesn't
// collide with existing games.
func (gm *GameManager) newGameID() string {
	for {
		buf := make([]byte, gameIDLength)
		if _, err := rand.Read(buf); err != nil {
			panic("crypto/rand failure: " + err.Error())
		}
		for i := range buf {
			buf[i] = gameIDLetters[int(buf[i])%len(gameIDLetters)]
		}
		id := string(buf)

		gm.mu.Lock()
		_, exists := gm.hubs[id]
		gm.mu.Unlock()

		if !exists {
			return id
		}
	}
}

func validGameID(id string) bool {
	if id == "" || len(id) > 2*gameIDLength {
		return false
	}
	for _, r := range id {
		if !strings.ContainsRune(gameIDLetters, r) {
			return false
		}
	}
	return true
}

// reaperLoop periodically removes hubs that have been idle longer than idleTimeout.
func (gm *GameManager) reaperLoop(ctx context.Context) {
	ticker := time.NewTicker(gm.idleTimeout / 2)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-gm.done:
			return
		case <-ticker.C:
		}

		cutoff := time.Now().Add(-gm.idleTimeout)

		gm.mu.Lock()
		for id, hub := range gm.hubs {
			hub.mu.RLock()
			last := hub.lastActive
			hub.mu.RUnlock()

			if last.Before(cutoff) {
				delete(gm.hubs, id)
				hub.closeAll()
				logf(gm.cfg, "GAMES: Reaped idle game %s", id)
			}
		}
		gm.mu.Unlock()
	}
}

// Close ends every match and waits for the hubs to stop.
func (gm *GameManager) Close() {
	gm.closeOnce.Do(func() {
		close(gm.done)

		gm.mu.Lock()
		for id, hub := range gm.hubs {
			delete(gm.hubs, id)
			hub.closeAll()
		}
		gm.mu.Unlock()

		gm.wg.Wait()
	})
}

// WebSocket handler that picks the hub based on :gameid
func serveWSForManager(cfg *Config, gm *GameManager) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
		gameID := ps.ByName("gameid")
		if !validGameID(gameID) {
			http.Error(w, "invalid game id", http.StatusBadRequest)
			return
		}

		cookie := getOrSetPlayerID(w, r)

		hub := gm.getHub(gameID)

		conn, err := upgrader.Upgrade(w, r, w.Header())
		if err != nil {
			cfg.log().Debug("websocket upgrade failed", zap.Error(err))
			return
		}

		client := &Client{
			conn:   conn,
			send:   make(chan any, 16),
			cookie: cookie,
		}

		select {
		case hub.register <- client:
		case <-hub.quit:
			_ = conn.Close()
			return
		}

		go client.writePump()
		client.readPump(hub)
	}
}

func (c *Client) readPump(h *Hub) {
	defer func() {
		select {
		case h.unreg <- c:
		case <-h.quit:
		}
		_ = c.conn.Close()
	}()

	c.conn.SetReadLimit(4096)

	for {
		var msg ClientMessage
		if err := c.conn.ReadJSON(&msg); err != nil {
			return
		}

		req := clientRequest{client: c, msg: msg}

		var ok bool
		switch msg.Type {
		case "join":
			ok = h.submit(h.joins, req)
		case "lock_lobby", "kick", "start_game":
			ok = h.submit(h.hostCmds, req)
		case "move":
			ok = h.submit(h.moves, req)
		default:
			ok = true
		}
		if !ok {
			return
		}
	}
}

func (c *Client) writePump() {
	defer c.conn.Close()

	for msg := range c.send {
		_ = c.conn.SetWriteDeadline(time.Now().Add(timeout))
		if err := c.conn.WriteJSON(msg); err != nil {
			return
		}
	}
}

// QR handler: generates a PNG QR code for the current game URL using go-qrcode.
func qrHandler(cfg *Config, errs chan<- error) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
		if !validGameID(ps.ByName("gameid")) {
			http.Error(w, "invalid game id", http.StatusBadRequest)
			return
		}

		scheme := cfg.scheme()
		if proto := r.Header.Get("X-Forwarded-Proto"); proto == "http" || proto == "https" {
			scheme = proto
		}

		url := scheme + "://" + r.Host + strings.TrimSuffix(r.URL.Path, "/qr")

		const qrSize = 320
		png, err := qrcode.Encode(url, qrcode.Medium, qrSize)
		if err != nil {
			http.Error(w, "qr generation failed", http.StatusInternalServerError)
			return
		}

		w.Header().Set("Content-Type", "image/png")
		securityHeaders(cfg, w)

		if _, err := w.Write(png); err != nil {
			errs <- err
		}
	}
}

func serveIndex(cfg *Config, errs chan<- error) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
		if !validGameID(ps.ByName("gameid")) {
			http.NotFound(w, r)
			return
		}

		data, err := assets.ReadFile("assets/chameleon/index.html")
		if err != nil {
			http.NotFound(w, r)
			return
		}

		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.Header().Set("Cache-Control", "no-cache")
		securityHeaders(cfg, w)

		_ = getOrSetPlayerID(w, r)

		if _, err := w.Write(data); err != nil {
			errs <- err
		}
	}
}

// redirectNewGame handles GET /path by generating a new random game ID
// (with server-side collision detection) and redirecting to /path/:gameid.
func redirectNewGame(cfg *Config, path string, gm *GameManager) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
		gameID := gm.newGameID()
		logf(cfg, "GAMES: Created game %s/%s", path, gameID)
		http.Redirect(w, r, cfg.prefix+path+"/"+gameID, http.StatusTemporaryRedirect)
	}
}

func registerChameleonGame(ctx context.Context, cfg *Config, path string, mux *httprouter.Router, errs chan<- error, engine *chameleon.Engine, defaults chameleon.Settings) *GameManager {
	gm := newGameManager(ctx, cfg, engine, defaults)

	mux.GET(cfg.prefix+path, redirectNewGame(cfg, path, gm))
	mux.GET(cfg.prefix+path+"/:gameid", serveIndex(cfg, errs))
	mux.GET(cfg.prefix+path+"/:gameid/ws", serveWSForManager(cfg, gm))
	mux.GET(cfg.prefix+path+"/:gameid/qr", qrHandler(cfg, errs))

	return gm
}
