package logger

import (
	"context"
	"fmt"
	"os"
	"sync"
	"time"

	"go-chms/internal/config"
	"go-chms/internal/database"

	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap/zapcore"
)

const (
	logCollection = "logs"
	insertTimeout = 5 * time.Second
)

type LogEntry struct {
	Level     zapcore.Level
	Message   string
	UserID    string
	Route     string
	Reason    string
	IpAddress string
	Caller    string
}

type LogRecord struct {
	ApplicationID string    `bson:"application_id"`
	Level         string    `bson:"level"`
	Message       string    `bson:"message"`
	UserID        string    `bson:"user_id,omitempty"`
	Route         string    `bson:"route,omitempty"`
	Reason        string    `bson:"reason,omitempty"`
	IpAddress     string    `bson:"ip_address,omitempty"`
	Caller        string    `bson:"caller,omitempty"`
	CreatedAt     time.Time `bson:"created_at"`
}

// DBLogWriter inserts log records from a buffered channel on its own goroutine.
type DBLogWriter struct {
	collection *mongo.Collection
	logChan    chan LogEntry
	done       chan struct{}
	appId      string

	mu     sync.Mutex
	closed bool
}

func NewDBLogWriter(mongodb *database.MongodbDB, cfg *config.Config) *DBLogWriter {
	writer := &DBLogWriter{
		collection: mongodb.DB.Collection(logCollection),
		logChan:    make(chan LogEntry, 1000),
		done:       make(chan struct{}),
		appId:      cfg.AppId,
	}
	go writer.processLogs()
	return writer
}

// AddLog never blocks the caller; entries are dropped while the buffer is
// full or after Close.
func (w *DBLogWriter) AddLog(entry LogEntry) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.closed {
		return
	}
	select {
	case w.logChan <- entry:
	default:
		fmt.Fprintln(os.Stderr, "DB log channel full, dropping log:", entry.Message)
	}
}

// Close drains the buffer and waits for the last insert. Later calls only wait.
func (w *DBLogWriter) Close() {
	w.mu.Lock()
	if !w.closed {
		w.closed = true
		close(w.logChan)
	}
	w.mu.Unlock()
	<-w.done
}

func (w *DBLogWriter) processLogs() {
	defer close(w.done)
	for entry := range w.logChan {
		ctx, cancel := context.WithTimeout(context.Background(), insertTimeout)
		_, _ = w.collection.InsertOne(ctx, w.record(entry))
		cancel()
	}
}

func (w *DBLogWriter) record(entry LogEntry) LogRecord {
	return LogRecord{
		ApplicationID: w.appId,
		Level:         entry.Level.String(),
		Message:       entry.Message,
		UserID:        entry.UserID,
		Route:         entry.Route,
		Reason:        entry.Reason,
		IpAddress:     entry.IpAddress,
		Caller:        entry.Caller,
		CreatedAt:     time.Now().UTC(),
	}
}
