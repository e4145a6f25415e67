package services

import (
	"context"

	redisbus "github.com/yungbote/linguabridge-backend/internal/clients/redis"
	"github.com/yungbote/linguabridge-backend/internal/sse"
)

// HubEmitter delivers straight to the local hub. Single-instance deployments
// use this; multi-instance deployments publish through redis instead.
type HubEmitter struct{ Hub *sse.Hub }

func (e *HubEmitter) Emit(ctx context.Context, msg sse.Message) error {
	e.Hub.Broadcast(msg)
	return nil
}

// RedisEmitter publishes to the decision bus; every instance's forwarder
// (this one included) relays into its local hub.
type RedisEmitter struct{ Bus redisbus.DecisionBus }

func (e *RedisEmitter) Emit(ctx context.Context, msg sse.Message) error {
	return e.Bus.Publish(ctx, msg)
}
