package api

import (
	"encoding/json"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"github.com/seedfinder/balatro/pkg/models"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true // Allow all for local dashboard
	},
}

// FrameType names the shapes of telemetry this hub pushes to dashboard
// subscribers (spec §4, "Live search telemetry"), grounded on the
// teacher's StreamPayload/CoinJoinAlert broadcast-on-detection pattern:
// a periodic speed tick generalized here, plus a broadcast fired on the
// first 2-second tick that sees a search's best score improve, rather
// than waiting for the next GET /search poll.
type FrameType string

const (
	FrameSearchProgress FrameType = "search_progress"
	FrameNewTopResult   FrameType = "new_top_result"
)

// SearchProgressFrame is the periodic seeds/sec + best-score tick a
// running search pushes every couple seconds.
type SearchProgressFrame struct {
	Type           FrameType `json:"type"`
	SearchID       string    `json:"searchId"`
	SeedsPerSecond float64   `json:"seedsPerSecond"`
	CurrentBatch   uint64    `json:"currentBatch"`
	BestScore      int64     `json:"bestScore"`
	ResultsFound   int64     `json:"resultsFound"`
}

// NewTopResultFrame is pushed on the first speed tick after a search
// accepts a seed that beats every prior result, carrying the seed's
// full tally so a
// subscribed dashboard never has to round-trip GET /search to learn why
// it scored the way it did.
type NewTopResultFrame struct {
	Type     FrameType     `json:"type"`
	SearchID string        `json:"searchId"`
	Result   models.Result `json:"result"`
}

// Hub maintains the set of active websocket clients and broadcasts
// search_progress/new_top_result frames (spec §4, "Live search
// telemetry").
type Hub struct {
	clients   map[*websocket.Conn]bool
	broadcast chan []byte
	mutex     sync.Mutex
}

func NewHub() *Hub {
	return &Hub{
		broadcast: make(chan []byte, 256),
		clients:   make(map[*websocket.Conn]bool),
	}
}

func (h *Hub) Run() {
	for message := range h.broadcast {
		h.mutex.Lock()
		for client := range h.clients {
			// Set write deadline to prevent blocked clients from hanging the hub
			_ = client.SetWriteDeadline(time.Now().Add(5 * time.Second))
			err := client.WriteMessage(websocket.TextMessage, message)
			if err != nil {
				log.Printf("Websocket write error: %v", err)
				client.Close()
				delete(h.clients, client)
			}
		}
		h.mutex.Unlock()
	}
}

// Subscribe handles incoming websocket connections
func (h *Hub) Subscribe(c *gin.Context) {
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Printf("Failed to upgrade websocket: %v", err)
		return
	}

	h.mutex.Lock()
	h.clients[conn] = true
	h.mutex.Unlock()

	log.Printf("New WebSocket client connected. Total clients: %d", len(h.clients))

	// Keep alive loop (we only care about pushing down, but we must read to handle disconnects)
	go func() {
		defer func() {
			h.mutex.Lock()
			delete(h.clients, conn)
			h.mutex.Unlock()
			conn.Close()
			log.Printf("WebSocket client disconnected. Total clients: %d", len(h.clients))
		}()
		for {
			_, _, err := conn.ReadMessage()
			if err != nil {
				if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
					log.Printf("WebSocket error: %v", err)
				}
				break
			}
		}
	}()
}

// Broadcast sends a pre-encoded JSON frame to all connected clients.
func (h *Hub) Broadcast(data []byte) {
	h.broadcast <- data
}

// BroadcastFrame encodes one of this package's typed frame structs and
// pushes it to all connected clients, logging rather than failing on a
// marshal error since every caller passes a frame type declared above.
func (h *Hub) BroadcastFrame(frame any) {
	data, err := json.Marshal(frame)
	if err != nil {
		log.Printf("Websocket: failed to marshal frame %T: %v", frame, err)
		return
	}
	h.Broadcast(data)
}
