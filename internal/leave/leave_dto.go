package leave

import "time"

type SubmitLeaveRequest struct {
	Category  string   `json:"category" binding:"required,oneof=COMPENSATE ANNUAL SICK PERSONAL OTHER"`
	Amount    string   `json:"amount" binding:"required"`
	StartDate string   `json:"start_date" binding:"required"`
	EndDate   string   `json:"end_date" binding:"required"`
	Reason    string   `json:"reason" binding:"required"`
	ProofRefs []string `json:"proof_refs"`
	Comment   *string  `json:"comment"`
}

// UpdateLeaveRequest edits a still-pending request. ProofRefs is a pointer
// so an absent field leaves attachments alone while an empty list detaches
// everything.
type UpdateLeaveRequest struct {
	Category  string    `json:"category" binding:"required,oneof=COMPENSATE ANNUAL SICK PERSONAL OTHER"`
	Amount    string    `json:"amount" binding:"required"`
	StartDate string    `json:"start_date" binding:"required"`
	EndDate   string    `json:"end_date" binding:"required"`
	Reason    string    `json:"reason" binding:"required"`
	ProofRefs *[]string `json:"proof_refs"`
	Comment   *string   `json:"comment"`
}

type DecideLeaveRequest struct {
	Comment *string `json:"comment"`
}

type ListLeavesQuery struct {
	Category  string
	Status    string
	StartDate string
	EndDate   string
	Page      int
	PageSize  int
}

type LeaveResponse struct {
	ID          string   `json:"id"`
	RequesterID string   `json:"requester_id"`
	ApproverID  *string  `json:"approver_id,omitempty"`
	Category    string   `json:"category"`
	Amount      string   `json:"amount"`
	StartDate   string   `json:"start_date"`
	EndDate     string   `json:"end_date"`
	Reason      string   `json:"reason"`
	Comment     *string  `json:"comment,omitempty"`
	Status      string   `json:"status"`
	ProofRefs   []string `json:"proof_refs"`
	DecidedAt   *string  `json:"decided_at,omitempty"`
	CreatedAt   string   `json:"created_at"`
	UpdatedAt   string   `json:"updated_at"`
}

const dateTimeLayout = "2006-01-02 15:04:05"

func mapToResponse(l LeaveRequest, proofRefs []string) LeaveResponse {
	resp := LeaveResponse{
		ID:          l.ID.String(),
		RequesterID: l.RequesterID.String(),
		Category:    l.Category,
		Amount:      l.Amount.String(),
		StartDate:   l.StartDate.Format(dateTimeLayout),
		EndDate:     l.EndDate.Format(dateTimeLayout),
		Reason:      l.Reason,
		Comment:     l.Comment,
		Status:      l.Status,
		ProofRefs:   proofRefs,
		CreatedAt:   l.CreatedAt.Format(time.RFC3339),
		UpdatedAt:   l.UpdatedAt.Format(time.RFC3339),
	}
	if resp.ProofRefs == nil {
		resp.ProofRefs = []string{}
	}
	if l.ApproverID != nil {
		v := l.ApproverID.String()
		resp.ApproverID = &v
	}
	if l.DecidedAt != nil {
		v := l.DecidedAt.Format(time.RFC3339)
		resp.DecidedAt = &v
	}
	return resp
}
