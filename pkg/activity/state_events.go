package activity

import "time"

// StateEventInput describes the common fields for state lifecycle events.
type StateEventInput struct {
	ActorID    string
	BusinessID string
	ObjectID   string
	Channel    string
	Metadata   map[string]any
	OldValue   any
	NewValue   any
	OccurredAt time.Time
}

// BuildStateUpdatedEvent constructs a generic event for a store mutation.
func BuildStateUpdatedEvent(objectType string, input StateEventInput) Event {
	if objectType == "" {
		objectType = "state"
	}
	return buildStateEvent(objectType+".updated", objectType, input)
}

// BuildCartUpdatedEvent constructs a normalized event for cart mutations.
func BuildCartUpdatedEvent(input StateEventInput) Event {
	return buildStateEvent("cart.updated", "cart", input)
}

// BuildCartClearedEvent constructs a normalized event for cart resets.
func BuildCartClearedEvent(input StateEventInput) Event {
	return buildStateEvent("cart.cleared", "cart", input)
}

// BuildGuestUpdatedEvent constructs a normalized event for guest identity changes.
func BuildGuestUpdatedEvent(input StateEventInput) Event {
	return buildStateEvent("guest.updated", "guest", input)
}

// BuildGuestOrderUpsertedEvent constructs a normalized event for guest order upserts.
func BuildGuestOrderUpsertedEvent(input StateEventInput) Event {
	return buildStateEvent("guest.order.upserted", "guest.order", input)
}

// BuildSessionUpdatedEvent constructs a normalized event for session changes.
func BuildSessionUpdatedEvent(input StateEventInput) Event {
	return buildStateEvent("session.updated", "session", input)
}

// BuildSessionClearedEvent constructs a normalized event for logout resets.
func BuildSessionClearedEvent(input StateEventInput) Event {
	return buildStateEvent("session.cleared", "session", input)
}

// BuildSelectionToggledEvent constructs a normalized event for selection toggles.
func BuildSelectionToggledEvent(input StateEventInput) Event {
	return buildStateEvent("selection.toggled", "selection", input)
}

func buildStateEvent(verb, objectType string, input StateEventInput) Event {
	metadata := cloneMap(input.Metadata)
	if input.OldValue != nil {
		metadata = ensureMetadata(metadata)
		metadata["old_value"] = input.OldValue
	}
	if input.NewValue != nil {
		metadata = ensureMetadata(metadata)
		metadata["new_value"] = input.NewValue
	}

	return Event{
		Verb:       verb,
		ActorID:    input.ActorID,
		BusinessID: input.BusinessID,
		ObjectType: objectType,
		ObjectID:   input.ObjectID,
		Channel:    input.Channel,
		Metadata:   metadata,
		OccurredAt: input.OccurredAt,
	}
}

func ensureMetadata(metadata map[string]any) map[string]any {
	if metadata == nil {
		return map[string]any{}
	}
	return metadata
}
