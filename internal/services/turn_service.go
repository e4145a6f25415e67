package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"

	"github.com/yungbote/linguabridge-backend/internal/agent"
	"github.com/yungbote/linguabridge-backend/internal/decision"
	"github.com/yungbote/linguabridge-backend/internal/pkg/dbctx"
	"github.com/yungbote/linguabridge-backend/internal/platform/ctxutil"
	"github.com/yungbote/linguabridge-backend/internal/platform/logger"
	"github.com/yungbote/linguabridge-backend/internal/repos"
	"github.com/yungbote/linguabridge-backend/internal/schemas"
	"github.com/yungbote/linguabridge-backend/internal/signals"
	"github.com/yungbote/linguabridge-backend/internal/types"
)

// TurnInput is one learner turn as submitted by the client.
type TurnInput struct {
	Text             string                  `json:"text"`
	StructuredEvents []signals.IncomingEvent `json:"events"`

	SelectedText   string `json:"selected_text"`
	ImageSource    bool   `json:"image_source"`
	TenantLanguage string `json:"tenant_language"`
}

// TurnResult reports everything the engine decided for one turn.
type TurnResult struct {
	TurnID uuid.UUID `json:"turn_id"`

	CandidateAction decision.Action           `json:"candidate_action"`
	FinalAction     decision.Action           `json:"final_action"`
	Suppressed      bool                      `json:"suppressed"`
	SuppressReasons []decision.SuppressReason `json:"suppress_reasons,omitempty"`

	ChannelBefore decision.Channel `json:"channel_before"`
	ChannelAfter  decision.Channel `json:"channel_after"`
	Degraded      bool             `json:"degraded"`

	BudgetRemaining int        `json:"budget_remaining"`
	CooldownUntil   *time.Time `json:"cooldown_until,omitempty"`

	AgentOutput json.RawMessage   `json:"agent_output,omitempty"`
	Events      []signals.Event   `json:"events,omitempty"`
	Rejected    []RejectedEvent   `json:"rejected_events,omitempty"`
	Usage       *agent.TokenUsage `json:"token_usage,omitempty"`
}

// RejectedEvent is the client-facing shape of a per-event validation failure.
type RejectedEvent struct {
	Type  string `json:"type"`
	Error string `json:"error"`
}

type TurnService interface {
	ProcessTurn(ctx context.Context, in TurnInput) (*TurnResult, error)
}

type turnService struct {
	log       *logger.Logger
	collector *signals.Collector
	policies  PolicyService
	tracker   *decision.Tracker
	agent     agent.Client
	decisions repos.DecisionLogRepo
	events    repos.LearnerEventRepo
	reviews   repos.ReviewItemRepo
	notifier  DecisionNotifier
}

func NewTurnService(
	collector *signals.Collector,
	policies PolicyService,
	tracker *decision.Tracker,
	agentClient agent.Client,
	decisions repos.DecisionLogRepo,
	events repos.LearnerEventRepo,
	reviews repos.ReviewItemRepo,
	notifier DecisionNotifier,
	baseLog *logger.Logger,
) TurnService {
	return &turnService{
		log:       baseLog.With("service", "TurnService"),
		collector: collector,
		policies:  policies,
		tracker:   tracker,
		agent:     agentClient,
		decisions: decisions,
		events:    events,
		reviews:   reviews,
		notifier:  notifier,
	}
}

// ProcessTurn runs the full decision pipeline for one turn: collect signals,
// select a candidate, gate it against policy, check budget and cooldown,
// execute or degrade, then write exactly one audit entry.
//
// The session lock is only held inside Tracker calls; the agent call happens
// between Reserve and Commit with no lock held.
func (s *turnService) ProcessTurn(ctx context.Context, in TurnInput) (*TurnResult, error) {
	rd := ctxutil.GetRequestData(ctx)
	if rd == nil || rd.UserID == uuid.Nil || rd.SessionID == uuid.Nil {
		return nil, fmt.Errorf("turn requires user and session identity")
	}
	turnID := uuid.New()
	now := time.Now().UTC()
	dbc := dbctx.Context{Ctx: ctx}

	pol, err := s.policies.EffectiveForSession(ctx, rd.SessionID, rd.UserID, rd.TenantID)
	if err != nil {
		return nil, err
	}
	s.tracker.StartSession(rd.SessionID, pol)

	// Signal collection. A missing schema is a deployment defect, not bad
	// client input, and fails the whole turn.
	collected := s.collector.CollectText(in.Text, in.TenantLanguage)
	structured, rejections := s.collector.CollectStructured(in.StructuredEvents)
	var rejected []RejectedEvent
	for _, r := range rejections {
		if errors.Is(r.Err, schemas.ErrSchemaNotFound) {
			return nil, r.Err
		}
		rejected = append(rejected, RejectedEvent{Type: r.Event.Type, Error: r.Err.Error()})
	}
	collected = append(collected, structured...)

	if err := s.persistEvents(dbc, rd, turnID, collected); err != nil {
		return nil, err
	}
	s.seedReviewItems(dbc, rd.UserID, collected)

	// Candidate selection from the session's live signals.
	state := s.tracker.Snapshot(rd.SessionID)
	candidate := decision.Select(decision.SelectorInput{
		Mastery:         state.Mastery,
		Frustration:     state.Frustration,
		PendingQuestion: looksLikeQuestion(in.Text),
		Policy:          pol,
	})

	gateRes := decision.Gate(decision.GateInput{
		Candidate:         candidate,
		Policy:            pol,
		SelectedTextChars: len([]rune(in.SelectedText)),
		NeedsExtraction:   in.SelectedText != "" && candidate.CallsBackend(),
		ImageSource:       in.ImageSource,
	})

	final := gateRes.Final
	channelBefore := decision.ChannelDeterministic
	if final.CallsBackend() {
		channelBefore = decision.ChannelLLM
	}
	channelAfter := channelBefore
	degraded := false

	var agentOutput json.RawMessage
	var usage *agent.TokenUsage

	if final.CallsBackend() {
		allowed, _ := s.tracker.Reserve(rd.SessionID, final, now)
		if !allowed {
			final, channelAfter = decision.Degrade(final)
			degraded = true
		} else {
			res, callErr := s.agent.Execute(ctx, agent.ExecuteRequest{
				Prompt: agent.PromptMessage{
					Kind:         strings.ToLower(string(candidate)),
					Text:         in.Text,
					SelectedText: in.SelectedText,
					Language:     in.TenantLanguage,
				},
				// Correlation follows the session so every call the
				// session makes traces together; the request id is
				// this turn.
				CorrelationID: rd.SessionID.String(),
				RequestID:     turnID.String(),
			})
			if callErr != nil {
				s.tracker.CommitFailure(rd.SessionID, time.Now().UTC())
				if agent.IsRateLimited(callErr) {
					s.log.Warn("Agent backend rate limited, degrading turn", "session_id", rd.SessionID, "error", callErr)
				} else {
					s.log.Error("Agent backend call failed, degrading turn", "session_id", rd.SessionID, "error", callErr)
				}
				final, channelAfter = decision.Degrade(final)
				degraded = true
			} else {
				s.tracker.CommitSuccess(rd.SessionID)
				agentOutput = res.Output
				usage = &res.Usage
			}
		}
	}
	state = s.tracker.SetChannel(rd.SessionID, channelAfter)

	entry, err := s.writeDecision(dbc, rd, turnID, candidate, final, gateRes, channelBefore, channelAfter, state, pol.Snapshot(), usage, now)
	if err != nil {
		return nil, err
	}

	s.notifier.DecisionLogged(ctx, entry)
	if degraded {
		s.notifier.ChannelDegraded(ctx, rd.SessionID, string(channelBefore), string(channelAfter))
	}

	return &TurnResult{
		TurnID:          turnID,
		CandidateAction: candidate,
		FinalAction:     final,
		Suppressed:      gateRes.Suppressed,
		SuppressReasons: gateRes.Reasons,
		ChannelBefore:   channelBefore,
		ChannelAfter:    channelAfter,
		Degraded:        degraded,
		BudgetRemaining: state.BudgetRemaining,
		CooldownUntil:   state.CooldownUntil,
		AgentOutput:     agentOutput,
		Events:          collected,
		Rejected:        rejected,
		Usage:           usage,
	}, nil
}

func (s *turnService) persistEvents(dbc dbctx.Context, rd *ctxutil.RequestData, turnID uuid.UUID, events []signals.Event) error {
	if len(events) == 0 {
		return nil
	}
	rows := make([]*types.LearnerEvent, 0, len(events))
	now := time.Now().UTC()
	for _, ev := range events {
		payload, err := json.Marshal(ev.Payload)
		if err != nil {
			return fmt.Errorf("marshal event payload: %w", err)
		}
		rows = append(rows, &types.LearnerEvent{
			UserID:    rd.UserID,
			SessionID: rd.SessionID,
			TurnID:    turnID,
			EventType: string(ev.Type),
			Version:   ev.Version,
			Payload:   datatypes.JSON(payload),
			CreatedAt: now,
		})
	}
	if _, err := s.events.Create(dbc, rows); err != nil {
		return fmt.Errorf("persist learner events: %w", err)
	}
	return nil
}

// seedReviewItems registers newly marked unknown words for spaced review.
// Best effort: a failed insert is logged, never fails the turn.
func (s *turnService) seedReviewItems(dbc dbctx.Context, userID uuid.UUID, events []signals.Event) {
	for _, ev := range events {
		if ev.Type != signals.EventMarkUnknownWord {
			continue
		}
		word, _ := ev.Payload["word"].(string)
		lang, _ := ev.Payload["language"].(string)
		if word == "" {
			continue
		}
		if err := s.reviews.Ensure(dbc, userID, word, lang); err != nil {
			s.log.Warn("Failed to seed review item", "user_id", userID, "term", word, "error", err)
		}
	}
}

func (s *turnService) writeDecision(
	dbc dbctx.Context,
	rd *ctxutil.RequestData,
	turnID uuid.UUID,
	candidate, final decision.Action,
	gateRes decision.GateResult,
	channelBefore, channelAfter decision.Channel,
	state decision.SessionState,
	snapshot []byte,
	usage *agent.TokenUsage,
	now time.Time,
) (*types.DecisionLogEntry, error) {
	var reasonsJSON datatypes.JSON
	if len(gateRes.Reasons) > 0 {
		raw, err := json.Marshal(gateRes.Reasons)
		if err != nil {
			return nil, fmt.Errorf("marshal suppress reasons: %w", err)
		}
		reasonsJSON = datatypes.JSON(raw)
	}
	var usageJSON datatypes.JSON
	if usage != nil {
		raw, err := json.Marshal(usage)
		if err != nil {
			return nil, fmt.Errorf("marshal token usage: %w", err)
		}
		usageJSON = datatypes.JSON(raw)
	}

	entry := &types.DecisionLogEntry{
		UserID:               rd.UserID,
		SessionID:            rd.SessionID,
		TurnID:               turnID,
		CandidateAction:      string(candidate),
		FinalAction:          string(final),
		Suppressed:           gateRes.Suppressed,
		SuppressReasons:      reasonsJSON,
		ChannelBefore:        string(channelBefore),
		ChannelAfter:         string(channelAfter),
		BudgetRemainingAfter: state.BudgetRemaining,
		CooldownUntilAfter:   state.CooldownUntil,
		PolicySnapshot:       datatypes.JSON(snapshot),
		TokenUsage:           usageJSON,
		CreatedAt:            now,
	}
	if _, err := s.decisions.Create(dbc, entry); err != nil {
		return nil, fmt.Errorf("write decision log: %w", err)
	}
	return entry, nil
}

func looksLikeQuestion(text string) bool {
	t := strings.TrimSpace(strings.ToLower(text))
	if t == "" || strings.HasPrefix(t, "/") {
		return false
	}
	if strings.HasSuffix(t, "?") {
		return true
	}
	for _, lead := range []string{
		"what ", "which ", "why ", "how ", "when ", "where ",
		"can you ", "could you ", "would you ", "do you ",
	} {
		if strings.HasPrefix(t, lead) {
			return true
		}
	}
	return false
}
