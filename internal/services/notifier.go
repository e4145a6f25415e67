package services

import (
	"context"

	"github.com/google/uuid"

	"github.com/yungbote/linguabridge-backend/internal/sse"
	"github.com/yungbote/linguabridge-backend/internal/types"
)

// DecisionEmitter abstracts where decision-stream messages go. In a single
// instance it is the SSE hub directly; with replicas it is the redis bus and
// the hub receives via the forwarder.
type DecisionEmitter interface {
	Emit(ctx context.Context, msg sse.Message) error
}

type DecisionNotifier interface {
	DecisionLogged(ctx context.Context, entry *types.DecisionLogEntry)
	ChannelDegraded(ctx context.Context, sessionID uuid.UUID, from, to string)
	ReviewDue(ctx context.Context, userID uuid.UUID, count int)
}

type decisionNotifier struct {
	emit DecisionEmitter
}

func NewDecisionNotifier(emit DecisionEmitter) DecisionNotifier {
	return &decisionNotifier{emit: emit}
}

func (n *decisionNotifier) DecisionLogged(ctx context.Context, entry *types.DecisionLogEntry) {
	if n == nil || n.emit == nil || entry == nil {
		return
	}
	msg := sse.Message{
		Channel: sse.SessionChannel(entry.SessionID),
		Event:   sse.EventDecisionLogged,
		Data:    entry,
	}
	_ = n.emit.Emit(ctx, msg)

	// Operator feed sees every decision regardless of session.
	msg.Channel = sse.DecisionsChannel
	_ = n.emit.Emit(ctx, msg)
}

func (n *decisionNotifier) ChannelDegraded(ctx context.Context, sessionID uuid.UUID, from, to string) {
	if n == nil || n.emit == nil || sessionID == uuid.Nil {
		return
	}
	_ = n.emit.Emit(ctx, sse.Message{
		Channel: sse.SessionChannel(sessionID),
		Event:   sse.EventChannelDegraded,
		Data:    map[string]any{"from": from, "to": to},
	})
}

func (n *decisionNotifier) ReviewDue(ctx context.Context, userID uuid.UUID, count int) {
	if n == nil || n.emit == nil || userID == uuid.Nil {
		return
	}
	_ = n.emit.Emit(ctx, sse.Message{
		Channel: "user:" + userID.String(),
		Event:   sse.EventReviewDue,
		Data:    map[string]any{"due_count": count},
	})
}
