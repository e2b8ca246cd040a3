package service

// Real-time event names pushed to WebSocket subscribers
const (
	EventNewMessage     = "message:new"
	EventReaction       = "message:reaction"
	EventThemeChanged   = "theme:changed"
	EventRoomUpdated    = "room:updated"
	EventMemberLeft     = "room:member_left"
	EventMemberKicked   = "room:member_kicked"
	EventAdminChanged   = "room:admin_changed"
	EventRoomDeleted    = "room:deleted"
	EventConvUpdated    = "conversation:updated"
	EventMyRoomsUpdated = "rooms:updated"
)

// Broadcaster mirrors committed writes to connected clients. Delivery is
// best-effort and advisory: a failed or missed event never rolls back a
// write, clients reconcile with a follow-up fetch.
type Broadcaster interface {
	Emit(channel, event string, payload interface{})
	EmitToUser(userID, event string, payload interface{})
}

// NopBroadcaster discards all events (used when the hub is disabled)
type NopBroadcaster struct{}

// Emit implements Broadcaster
func (NopBroadcaster) Emit(_, _ string, _ interface{}) {}

// EmitToUser implements Broadcaster
func (NopBroadcaster) EmitToUser(_, _ string, _ interface{}) {}
