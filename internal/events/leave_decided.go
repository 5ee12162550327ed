package events

import "time"

const LeaveDecidedTopic = "leave.request.decided.v1"

type LeaveDecidedEvent struct {
	EventType   string    `json:"event_type"`
	LeaveID     string    `json:"leave_id"`
	RequesterID string    `json:"requester_id"`
	ApproverID  string    `json:"approver_id"`
	Category    string    `json:"category"`
	Amount      string    `json:"amount"`
	Outcome     string    `json:"outcome"`
	OccurredAt  time.Time `json:"occurred_at"`
}
