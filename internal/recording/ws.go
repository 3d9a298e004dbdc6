package recording

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"inkpick/internal/logging"
)

// dialTimeout bounds a single connection attempt to the collector.
const dialTimeout = 5 * time.Second

// WSRecorder delivers selections over a persistent websocket connection
// to a training-data collector. The connection is dialed lazily and
// redialed after a failure; a selection that cannot be delivered is
// reported back to the caller, which journals it.
type WSRecorder struct {
	mu   sync.Mutex
	url  string
	log  *logging.Logger
	conn *websocket.Conn
}

var _ Recorder = (*WSRecorder)(nil)

// NewWSRecorder creates a recorder for the given ws:// or wss:// URL.
func NewWSRecorder(url string, log *logging.Logger) *WSRecorder {
	if log == nil {
		log = logging.Default()
	}
	return &WSRecorder{
		url: url,
		log: log.WithComponent("recording"),
	}
}

// Record implements Recorder.
func (r *WSRecorder) Record(ctx context.Context, sel Selection) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	conn, err := r.connLocked(ctx)
	if err != nil {
		return err
	}
	if err := conn.WriteJSON(sel); err != nil {
		// The connection is likely broken; drop it so the next
		// record redials.
		conn.Close()
		r.conn = nil
		return fmt.Errorf("send selection: %w", err)
	}
	return nil
}

func (r *WSRecorder) connLocked(ctx context.Context) (*websocket.Conn, error) {
	if r.conn != nil {
		return r.conn, nil
	}
	dialCtx, cancel := context.WithTimeout(ctx, dialTimeout)
	defer cancel()

	conn, _, err := websocket.DefaultDialer.DialContext(dialCtx, r.url, nil)
	if err != nil {
		return nil, fmt.Errorf("dial collector: %w", err)
	}
	r.log.Info("connected to collector", "url", r.url)
	r.conn = conn
	return conn, nil
}

// Close implements Recorder.
func (r *WSRecorder) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.conn != nil {
		err := r.conn.Close()
		r.conn = nil
		return err
	}
	return nil
}
