package domain

import (
	"time"

	"github.com/google/uuid"
)

// NotificationKind categorizes outbound messages. Rendering the actual copy
// is the delivery process's concern; the tracker only records that a message
// of a given kind is due.
type NotificationKind string

const (
	NotifyPregame   NotificationKind = "pregame"
	NotifyMilestone NotificationKind = "milestone"
	NotifyWon       NotificationKind = "won"
	NotifyMarketing NotificationKind = "marketing"
	NotifyStreak    NotificationKind = "streak"
)

// DeliveryStatus is the outbound message lifecycle, owned by the external
// delivery process once the event is queued.
type DeliveryStatus string

const (
	DeliveryPending DeliveryStatus = "pending"
	DeliverySent    DeliveryStatus = "sent"
	DeliveryFailed  DeliveryStatus = "failed"
)

// NotificationEvent is one durable outbound-message record. Bet and game are
// weak references by identifier; the event survives bet cleanup.
type NotificationEvent struct {
	ID          string
	CommunityID int64
	Community   string
	Kind        NotificationKind
	Milestone   MilestoneKey // set for milestone events only
	BetID       int64        // 0 for marketing/streak events
	GameID      int64        // 0 when not game-scoped
	// AboutCommunity names the community a cross-community broadcast is
	// about (streak events); empty when the event is about its own community.
	AboutCommunity string
	Priority    CommunityTier
	ScheduledAt time.Time
	Status      DeliveryStatus
	CreatedAt   time.Time
}

// NewNotificationEvent builds a pending event with a fresh identifier,
// scheduled for the given send time.
func NewNotificationEvent(kind NotificationKind, communityID int64, community string, tier CommunityTier, sendAt time.Time) NotificationEvent {
	return NotificationEvent{
		ID:          uuid.NewString(),
		CommunityID: communityID,
		Community:   community,
		Kind:        kind,
		Priority:    tier,
		ScheduledAt: sendAt,
		Status:      DeliveryPending,
	}
}
