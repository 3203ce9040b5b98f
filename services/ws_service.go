package services

import (
	"log"
	"sync"
	"time"

	"sklad-backend/models"
	"sklad-backend/utils"

	"github.com/gofiber/websocket/v2"
	"gorm.io/gorm"
)

// Колекції, на які можна підписатися
const (
	CollectionUnits       = "units"
	CollectionSections    = "sections"
	CollectionItems       = "items"
	CollectionFieldConfig = "fieldConfig"
	CollectionUsers       = "users"
)

// WSMessage представляє повідомлення WebSocket
type WSMessage struct {
	Type    string      `json:"type"`
	Payload interface{} `json:"payload"`
}

// SubscribePayload описує форму запиту підписки: колекція та
// необов'язкове звуження за підрозділом/відділом.
type SubscribePayload struct {
	Collection string `json:"collection"`
	UnitID     uint   `json:"unit_id,omitempty"`
	SectionID  uint   `json:"section_id,omitempty"`
}

// ChangePayload описує подію зміни сутності, що розсилається підписникам
type ChangePayload struct {
	Collection string      `json:"collection"`
	Event      string      `json:"event"` // created, updated, deleted
	Entity     interface{} `json:"entity,omitempty"`
	EntityID   uint        `json:"entity_id"`
}

// Client представляє підключеного клієнта з його областю доступу
type Client struct {
	ID       uint
	UserID   uint
	Scope    Scope
	Conn     *websocket.Conn
	Send     chan WSMessage
	Hub      *Hub
	LastPing time.Time

	// Одна активна підписка на колекцію; повторна підписка замінює
	// попередню форму запиту
	subsMu sync.Mutex
	subs   map[string]SubscribePayload
}

// Hub керує всіма підключеннями та розсилає зміни сутностей
type Hub struct {
	clients    map[*Client]bool
	register   chan *Client
	unregister chan *Client
	mutex      sync.RWMutex
	db         *gorm.DB
}

// NewHub створює новий хаб
func NewHub(db *gorm.DB) *Hub {
	return &Hub{
		clients:    make(map[*Client]bool),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		db:         db,
	}
}

// Run запускає хаб
func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.mutex.Lock()
			h.clients[client] = true
			h.mutex.Unlock()

			log.Printf("Client %d connected. Total clients: %d", client.UserID, len(h.clients))

		case client := <-h.unregister:
			h.mutex.Lock()
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				close(client.Send)
			}
			h.mutex.Unlock()

			log.Printf("Client %d disconnected. Total clients: %d", client.UserID, len(h.clients))
		}
	}
}

// NotifyChange розсилає подію зміни сутності клієнтам, чия область
// доступу покриває сутність і чия підписка відповідає формі запиту.
// Конфігурація полів спільна для всіх, тому розсилається без звуження.
func (h *Hub) NotifyChange(collection string, unitID, sectionID uint, event string, entityID uint, entity interface{}) {
	if h == nil {
		return
	}

	message := WSMessage{
		Type: collection + "." + event,
		Payload: ChangePayload{
			Collection: collection,
			Event:      event,
			Entity:     entity,
			EntityID:   entityID,
		},
	}

	var slow []*Client

	h.mutex.RLock()
	for client := range h.clients {
		if !client.wantsChange(collection, unitID, sectionID) {
			continue
		}
		select {
		case client.Send <- message:
		default:
			// Повільного клієнта відключаємо, щоб не накопичувати чергу
			slow = append(slow, client)
		}
	}
	h.mutex.RUnlock()

	if len(slow) > 0 {
		h.mutex.Lock()
		for _, client := range slow {
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				close(client.Send)
			}
		}
		h.mutex.Unlock()
	}
}

// wantsChange перевіряє підписку та область доступу клієнта
func (c *Client) wantsChange(collection string, unitID, sectionID uint) bool {
	c.subsMu.Lock()
	sub, ok := c.subs[collection]
	c.subsMu.Unlock()
	if !ok {
		return false
	}

	if collection == CollectionFieldConfig {
		return true
	}
	if collection == CollectionUsers {
		return c.Scope.Kind == ScopeAll
	}

	// Звуження форми запиту
	if sub.UnitID != 0 && sub.UnitID != unitID {
		return false
	}
	if sub.SectionID != 0 && sub.SectionID != sectionID {
		return false
	}

	return CoversEntity(c.Scope, unitID, sectionID)
}

// HandleWebSocket обробляє WebSocket з'єднання
func (h *Hub) HandleWebSocket(c *websocket.Conn) {
	// Отримуємо JWT токен з query параметрів
	tokenString := c.Query("token")
	if tokenString == "" {
		c.Close()
		return
	}

	claims, err := utils.ValidateJWT(tokenString)
	if err != nil {
		c.Close()
		return
	}

	// Область доступу береться зі свіжого профілю, а не з токена
	var user models.User
	if err := h.db.First(&user, claims.UserID).Error; err != nil || !user.IsActive {
		c.Close()
		return
	}

	client := &Client{
		ID:       uint(time.Now().UnixNano()),
		UserID:   user.ID,
		Scope:    UserScope(&user),
		Conn:     c,
		Send:     make(chan WSMessage, 256),
		Hub:      h,
		LastPing: time.Now(),
		subs:     make(map[string]SubscribePayload),
	}

	// Реєструємо клієнта
	h.register <- client

	// Запис виконуємо в окремій горутині, читання — в поточній,
	// щоб з'єднання жило, доки живе handler
	go client.writePump()
	client.readPump()
}

// readPump читає повідомлення з WebSocket
func (c *Client) readPump() {
	defer func() {
		c.Hub.unregister <- c
		c.Conn.Close()
	}()

	c.Conn.SetReadLimit(512)
	c.Conn.SetReadDeadline(time.Now().Add(60 * time.Second))
	c.Conn.SetPongHandler(func(string) error {
		c.Conn.SetReadDeadline(time.Now().Add(60 * time.Second))
		c.LastPing = time.Now()
		return nil
	})

	for {
		var message WSMessage
		err := c.Conn.ReadJSON(&message)
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Printf("WebSocket error: %v", err)
			}
			break
		}

		c.handleMessage(message)
	}
}

// writePump записує повідомлення у WebSocket
func (c *Client) writePump() {
	ticker := time.NewTicker(54 * time.Second)
	defer func() {
		ticker.Stop()
		c.Conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.Send:
			c.Conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
			if !ok {
				c.Conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			if err := c.Conn.WriteJSON(message); err != nil {
				return
			}

		case <-ticker.C:
			c.Conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
			if err := c.Conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// handleMessage обробляє вхідні повідомлення
func (c *Client) handleMessage(message WSMessage) {
	switch message.Type {
	case "subscribe":
		c.handleSubscribe(message)
	case "unsubscribe":
		c.handleUnsubscribe(message)
	case "ping":
		c.LastPing = time.Now()
		select {
		case c.Send <- WSMessage{Type: "pong"}:
		default:
		}
	}
}

// handleSubscribe реєструє підписку клієнта на колекцію. Клієнт тримає
// щонайбільше одну підписку на колекцію: нова форма запиту витісняє стару.
func (c *Client) handleSubscribe(message WSMessage) {
	sub, ok := parseSubscribePayload(message.Payload)
	if !ok || !validCollection(sub.Collection) {
		return
	}

	c.subsMu.Lock()
	c.subs[sub.Collection] = sub
	c.subsMu.Unlock()
}

// handleUnsubscribe знімає підписку клієнта з колекції
func (c *Client) handleUnsubscribe(message WSMessage) {
	sub, ok := parseSubscribePayload(message.Payload)
	if !ok {
		return
	}

	c.subsMu.Lock()
	delete(c.subs, sub.Collection)
	c.subsMu.Unlock()
}

// parseSubscribePayload розбирає payload підписки з JSON-мапи
func parseSubscribePayload(payload interface{}) (SubscribePayload, bool) {
	raw, ok := payload.(map[string]interface{})
	if !ok {
		return SubscribePayload{}, false
	}

	sub := SubscribePayload{}
	sub.Collection, _ = raw["collection"].(string)
	if v, ok := raw["unit_id"].(float64); ok {
		sub.UnitID = uint(v)
	}
	if v, ok := raw["section_id"].(float64); ok {
		sub.SectionID = uint(v)
	}
	return sub, sub.Collection != ""
}

// validCollection перевіряє назву колекції
func validCollection(name string) bool {
	switch name {
	case CollectionUnits, CollectionSections, CollectionItems, CollectionFieldConfig, CollectionUsers:
		return true
	}
	return false
}
