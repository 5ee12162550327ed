package balance

import "time"

type GrantBalanceRequest struct {
	UserID   string `json:"user_id" binding:"required,uuid"`
	Category string `json:"category" binding:"required,oneof=COMPENSATE ANNUAL SICK PERSONAL OTHER"`
	Amount   string `json:"amount" binding:"required"`
	Year     int    `json:"year"`
}

type EntryResponse struct {
	ID        string `json:"id"`
	UserID    string `json:"user_id"`
	Category  string `json:"category"`
	Amount    string `json:"amount"`
	Year      int    `json:"year"`
	Action    string `json:"action"`
	CreatedAt string `json:"created_at"`
}

func mapToEntryResponse(e Entry) EntryResponse {
	return EntryResponse{
		ID:        e.ID.String(),
		UserID:    e.UserID.String(),
		Category:  e.Category,
		Amount:    e.Amount.String(),
		Year:      e.Year,
		Action:    e.Action,
		CreatedAt: e.CreatedAt.Format(time.RFC3339),
	}
}

func mapToEntryListResponse(entries []Entry) []EntryResponse {
	resp := make([]EntryResponse, len(entries))
	for i, e := range entries {
		resp[i] = mapToEntryResponse(e)
	}
	return resp
}
