package proxylive

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"
)

const writeWait = 5 * time.Second

// Payload is a single message of the live feed
type Payload struct {
	Kind string `json:"kind"`
	Body any    `json:"body"`
}

// Feed streams results and statistics of a run to websocket clients
type Feed struct {
	log       logrus.FieldLogger
	upgrader  websocket.Upgrader
	clients   map[*websocket.Conn]bool
	broadcast chan []byte
	last      []byte
	m         sync.Mutex
}

// NewFeed returns a feed that is ready to Run
func NewFeed(log logrus.FieldLogger) *Feed {
	if log == nil {
		log = discardLogger()
	}
	return &Feed{
		log:       log,
		clients:   make(map[*websocket.Conn]bool),
		broadcast: make(chan []byte, 64),
		last:      []byte("{}"),
	}
}

// Handler serves /ws for the stream and /stat for the latest statistics
func (f *Feed) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", f.wsHandler)
	mux.HandleFunc("/stat", f.statHandler)
	return mux
}

// ListenAndServe serves the feed on addr until ctx is done. It returns once
// the messages queued before that have been delivered.
func (f *Feed) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{Addr: addr, Handler: f.Handler()}

	flushed := make(chan struct{})
	go func() {
		defer close(flushed)
		f.Run(ctx)
	}()
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), writeWait)
		defer cancel()
		srv.Shutdown(shutdownCtx)
	}()

	f.log.Infof("live feed on ws://%s/ws", addr)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}

	<-flushed
	return nil
}

// Publish queues a message for every client. It never blocks: the message
// is dropped when the queue is full.
func (f *Feed) Publish(kind string, body any) {
	p, err := json.Marshal(Payload{kind, body})
	if err != nil {
		f.log.WithError(err).Warn("feed: encode payload")
		return
	}

	if kind == "stat" {
		if b, err := json.Marshal(body); err == nil {
			f.m.Lock()
			f.last = b
			f.m.Unlock()
		}
	}

	select {
	case f.broadcast <- p:
	default:
		f.log.Debug("feed: queue full, message dropped")
	}
}

// Run delivers queued messages until ctx is done. What is still queued at
// that point is delivered before all clients are closed.
func (f *Feed) Run(ctx context.Context) {
	defer f.closeClients()

	for {
		select {
		case <-ctx.Done():
			f.flush()
			return
		case msg := <-f.broadcast:
			f.handleMessage(msg)
		}
	}
}

func (f *Feed) flush() {
	for {
		select {
		case msg := <-f.broadcast:
			f.handleMessage(msg)
		default:
			return
		}
	}
}

func (f *Feed) handleMessage(msg []byte) {
	f.m.Lock()
	defer f.m.Unlock()

	for c := range f.clients {
		c.SetWriteDeadline(time.Now().Add(writeWait))
		if err := c.WriteMessage(websocket.TextMessage, msg); err != nil {
			c.Close()
			delete(f.clients, c)
		}
	}
}

func (f *Feed) wsHandler(w http.ResponseWriter, r *http.Request) {
	conn, err := f.upgrader.Upgrade(w, r, nil)
	if err != nil {
		f.log.WithError(err).Debug("feed: upgrade")
		return
	}

	f.m.Lock()
	f.clients[conn] = true
	f.m.Unlock()
}

func (f *Feed) statHandler(w http.ResponseWriter, _ *http.Request) {
	f.m.Lock()
	b := f.last
	f.m.Unlock()

	w.Header().Set("Content-Type", "application/json")
	w.Write(b)
}

func (f *Feed) clientCount() int {
	f.m.Lock()
	defer f.m.Unlock()
	return len(f.clients)
}

func (f *Feed) closeClients() {
	f.m.Lock()
	defer f.m.Unlock()

	for c := range f.clients {
		c.Close()
		delete(f.clients, c)
	}
}
