package logger

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoHandler mirrors log records into a MongoDB collection, which acts
// as the audit trail for order activity. Handle only appends to an
// in-memory buffer under a mutex; a background goroutine swaps the
// buffer out and bulk-inserts it, so the request path never waits on
// Mongo. Once the buffer hits its cap further records are counted and
// dropped until the next flush.
type MongoHandler struct {
	core   *mongoCore
	attrs  []slog.Attr
	groups []string
}

// mongoCore holds the connection and buffer shared by every clone the
// slog.Handler interface produces via WithAttrs/WithGroup.
type mongoCore struct {
	col    *mongo.Collection
	client *mongo.Client

	mu      sync.Mutex
	buf     []interface{}
	dropped int

	stop     chan struct{}
	stopOnce sync.Once
	flushed  chan struct{}
}

const (
	mongoBufferCap     = 4096
	mongoFlushInterval = 2 * time.Second
)

// auditEntry is the document shape stored in the collection.
type auditEntry struct {
	Time      time.Time `bson:"time"`
	Level     string    `bson:"level"`
	Msg       string    `bson:"msg"`
	RequestID string    `bson:"request_id,omitempty"`
	Attrs     bson.M    `bson:"attrs,omitempty"`
}

// NewMongoHandler connects to uri and mirrors records into db/collection.
// The caller must eventually call Close to flush and disconnect.
func NewMongoHandler(uri, db, collection string) (*MongoHandler, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	opts := options.Client().ApplyURI(uri).
		SetConnectTimeout(5 * time.Second).
		SetServerSelectionTimeout(5 * time.Second).
		SetMaxPoolSize(10)

	client, err := mongo.Connect(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("mongo_handler: connect: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("mongo_handler: ping: %w", err)
	}

	col := client.Database(db).Collection(collection)

	// Descending time index keeps "latest activity" queries cheap.
	_, _ = col.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "time", Value: -1}},
	})

	core := &mongoCore{
		col:     col,
		client:  client,
		buf:     make([]interface{}, 0, 256),
		stop:    make(chan struct{}),
		flushed: make(chan struct{}),
	}
	go core.flushLoop()
	return &MongoHandler{core: core}, nil
}

func (h *MongoHandler) Enabled(context.Context, slog.Level) bool { return true }

func (h *MongoHandler) Handle(_ context.Context, r slog.Record) error {
	entry := auditEntry{
		Time:  r.Time,
		Level: r.Level.String(),
		Msg:   r.Message,
		Attrs: bson.M{},
	}
	take := func(a slog.Attr) {
		if a.Key == "request_id" {
			entry.RequestID = a.Value.String()
			return
		}
		entry.Attrs[a.Key] = a.Value.Any()
	}
	for _, a := range h.attrs {
		take(a)
	}
	r.Attrs(func(a slog.Attr) bool {
		take(a)
		return true
	})

	c := h.core
	c.mu.Lock()
	if len(c.buf) >= mongoBufferCap {
		c.dropped++
	} else {
		c.buf = append(c.buf, entry)
	}
	c.mu.Unlock()
	return nil
}

func (h *MongoHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	clone := *h
	clone.attrs = append(append([]slog.Attr(nil), h.attrs...), attrs...)
	return &clone
}

func (h *MongoHandler) WithGroup(name string) slog.Handler {
	clone := *h
	clone.groups = append(append([]string(nil), h.groups...), name)
	return &clone
}

func (c *mongoCore) flushLoop() {
	defer close(c.flushed)
	ticker := time.NewTicker(mongoFlushInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			c.flush()
		case <-c.stop:
			c.flush()
			return
		}
	}
}

// flush swaps the buffer out under the lock and inserts outside it.
func (c *mongoCore) flush() {
	c.mu.Lock()
	batch := c.buf
	dropped := c.dropped
	c.buf = make([]interface{}, 0, 256)
	c.dropped = 0
	c.mu.Unlock()

	if dropped > 0 {
		batch = append(batch, auditEntry{
			Time:  time.Now(),
			Level: slog.LevelWarn.String(),
			Msg:   "audit trail overflow",
			Attrs: bson.M{"dropped": dropped},
		})
	}
	if len(batch) == 0 {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_, _ = c.col.InsertMany(ctx, batch) // best effort
}

// Close flushes pending records and disconnects. Safe to call twice.
func (h *MongoHandler) Close() {
	c := h.core
	c.stopOnce.Do(func() { close(c.stop) })
	select {
	case <-c.flushed:
	case <-time.After(10 * time.Second):
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_ = c.client.Disconnect(ctx)
}

// MultiHandler forwards each record to every wrapped slog.Handler.
type MultiHandler struct {
	handlers []slog.Handler
}

func NewMultiHandler(hs ...slog.Handler) *MultiHandler {
	return &MultiHandler{handlers: hs}
}

func (m *MultiHandler) Enabled(ctx context.Context, l slog.Level) bool {
	for _, h := range m.handlers {
		if h.Enabled(ctx, l) {
			return true
		}
	}
	return false
}

func (m *MultiHandler) Handle(ctx context.Context, r slog.Record) error {
	for _, h := range m.handlers {
		if h.Enabled(ctx, r.Level) {
			_ = h.Handle(ctx, r.Clone())
		}
	}
	return nil
}

func (m *MultiHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	hs := make([]slog.Handler, len(m.handlers))
	for i, h := range m.handlers {
		hs[i] = h.WithAttrs(attrs)
	}
	return &MultiHandler{handlers: hs}
}

func (m *MultiHandler) WithGroup(name string) slog.Handler {
	hs := make([]slog.Handler, len(m.handlers))
	for i, h := range m.handlers {
		hs[i] = h.WithGroup(name)
	}
	return &MultiHandler{handlers: hs}
}
