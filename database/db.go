package database

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"go.mongodb.org/mongo-driver/event"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
)

// Connection parameters are fixed; they mirror the production deployment
// and are deliberately not exposed through configuration.
const (
	maxPoolSize            = 10
	serverSelectionTimeout = 5 * time.Second
	socketTimeout          = 45 * time.Second
	connectTimeout         = 10 * time.Second
	disconnectTimeout      = 5 * time.Second
)

// State exposes the driver's current connectivity, fed by server
// heartbeat events. Reading it never issues a live ping.
type State struct {
	connected atomic.Bool
}

// Connected reports whether the last server heartbeat succeeded.
func (s *State) Connected() bool {
	return s.connected.Load()
}

func (s *State) serverMonitor() *event.ServerMonitor {
	return &event.ServerMonitor{
		ServerHeartbeatSucceeded: func(_ *event.ServerHeartbeatSucceededEvent) {
			s.connected.Store(true)
		},
		ServerHeartbeatFailed: func(e *event.ServerHeartbeatFailedEvent) {
			if s.connected.Swap(false) {
				zap.L().Warn("MongoDB heartbeat failed", zap.Error(e.Failure))
			}
		},
	}
}

// Connect dials MongoDB and returns the client, the target database and
// the connection state tracker. The caller owns the client lifecycle.
func Connect(ctx context.Context, uri, dbName string) (*mongo.Client, *mongo.Database, *State, error) {
	state := &State{}

	connectCtx, cancel := context.WithTimeout(ctx, connectTimeout)
	defer cancel()

	clientOptions := options.Client().
		ApplyURI(uri).
		SetMaxPoolSize(maxPoolSize).
		SetServerSelectionTimeout(serverSelectionTimeout).
		SetSocketTimeout(socketTimeout).
		SetServerMonitor(state.serverMonitor())

	client, err := mongo.Connect(connectCtx, clientOptions)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("failed to connect to MongoDB: %w", err)
	}
	if err := client.Ping(connectCtx, nil); err != nil {
		return nil, nil, nil, fmt.Errorf("failed to ping MongoDB: %w", err)
	}
	state.connected.Store(true)

	return client, client.Database(dbName), state, nil
}

// Disconnect closes the client with a bounded timeout.
func Disconnect(client *mongo.Client) error {
	disconnectCtx, cancel := context.WithTimeout(context.Background(), disconnectTimeout)
	defer cancel()

	if err := client.Disconnect(disconnectCtx); err != nil {
		return fmt.Errorf("failed to disconnect from MongoDB: %w", err)
	}
	return nil
}
