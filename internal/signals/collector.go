package signals

import (
	"fmt"

	"github.com/yungbote/linguabridge-backend/internal/platform/logger"
	"github.com/yungbote/linguabridge-backend/internal/schemas"
)

// IncomingEvent is a structured UI event as submitted by a client. Version 0
// means "latest loaded schema version".
type IncomingEvent struct {
	Type    string         `json:"type"`
	Version int            `json:"version"`
	Payload map[string]any `json:"payload"`
}

// Collector normalizes learner input, both free-text commands and structured
// events, into the internal Event shape. Structured events are validated
// against the schema registry; an invalid event is rejected individually and
// never takes the rest of the turn down with it.
type Collector struct {
	log *logger.Logger
	reg *schemas.Registry
}

func NewCollector(reg *schemas.Registry, baseLog *logger.Logger) *Collector {
	return &Collector{
		log: baseLog.With("component", "SignalCollector"),
		reg: reg,
	}
}

// Rejection pairs a rejected incoming event with the reason it was refused.
type Rejection struct {
	Event IncomingEvent
	Err   error
}

// CollectText derives events from free text. Unrecognized text yields no
// events and no rejection; it is ordinary conversational input.
func (c *Collector) CollectText(text, tenantLanguage string) []Event {
	return ParseCommand(text, tenantLanguage)
}

// CollectStructured validates each structured event against its exact
// type.vN schema. Valid events come back normalized; invalid ones come back
// as rejections.
func (c *Collector) CollectStructured(incoming []IncomingEvent) ([]Event, []Rejection) {
	var accepted []Event
	var rejected []Rejection

	for _, in := range incoming {
		version := in.Version
		if version == 0 {
			latest, ok := c.reg.LatestVersion(in.Type)
			if !ok {
				rejected = append(rejected, Rejection{
					Event: in,
					Err:   fmt.Errorf("%w: %s (no versions loaded)", schemas.ErrSchemaNotFound, in.Type),
				})
				continue
			}
			version = latest
		}

		if err := c.reg.Validate(in.Type, version, in.Payload); err != nil {
			c.log.Warn("Rejected structured event", "event_type", in.Type, "version", version, "error", err)
			rejected = append(rejected, Rejection{Event: in, Err: err})
			continue
		}

		accepted = append(accepted, Event{
			Type:    EventType(in.Type),
			Version: version,
			Payload: in.Payload,
		})
	}

	return accepted, rejected
}
