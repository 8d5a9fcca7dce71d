package assistant

import "ArdenGolang/internal/entity"

type SubmitInputRequest struct {
	Text string `json:"text" validate:"required,min=1,max=1000"`
}

type HistoryQuery struct {
	Page  int `query:"page" validate:"min=1"`
	Limit int `query:"limit" validate:"min=1,max=100"`
}

// TurnResponse is returned by input and confirm. Entry is the assistant entry
// the turn appended, if any.
type TurnResponse struct {
	Outcome    string                  `json:"outcome"`
	Entry      *entity.TranscriptEntry `json:"entry,omitempty"`
	Decision   *entity.Decision        `json:"decision,omitempty"`
	Result     *entity.ExecutionResult `json:"result,omitempty"`
	Pending    *entity.Decision        `json:"pending,omitempty"`
	Processing bool                    `json:"processing"`
}

type StateResponse struct {
	Changed    bool             `json:"changed"`
	Pending    *entity.Decision `json:"pending,omitempty"`
	Processing bool             `json:"processing"`
}

type TranscriptResponse struct {
	Entries    []entity.TranscriptEntry `json:"entries"`
	Pending    *entity.Decision         `json:"pending,omitempty"`
	Processing bool                     `json:"processing"`
}

type PendingResponse struct {
	Pending bool             `json:"pending"`
	Action  *entity.Decision `json:"action,omitempty"`
}

type HistoryResponse struct {
	Commands []entity.CommandRecord `json:"commands"`
	Total    int                    `json:"total"`
	Page     int                    `json:"page"`
	Limit    int                    `json:"limit"`
}
