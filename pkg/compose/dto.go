package compose

// DraftRequest is the body of POST /api/v1/draft.
type DraftRequest struct {
	Prompt string `json:"prompt"`
}

// DraftResponse is the success body of POST /api/v1/draft. Email carries the
// raw completion with the subject-line convention embedded; Subject and Body
// carry the split form.
type DraftResponse struct {
	Success bool   `json:"success"`
	Email   string `json:"email"`
	Subject string `json:"subject"`
	Body    string `json:"body"`
}

// DispatchRequest is the body of POST /api/v1/dispatch.
type DispatchRequest struct {
	Recipients []string `json:"recipients"`
	Subject    string   `json:"subject"`
	Content    string   `json:"content"`
}

// DispatchResponse is the body of POST /api/v1/dispatch for 200, 207, and
// send-time 500 outcomes.
type DispatchResponse struct {
	Success          bool     `json:"success"`
	SentCount        int      `json:"sentCount"`
	FailedRecipients []string `json:"failedRecipients,omitempty"`
	Error            string   `json:"error,omitempty"`
}

// MailtoRequest is the body of POST /api/v1/compose/mailto.
type MailtoRequest struct {
	Recipients []string `json:"recipients"`
	Subject    string   `json:"subject"`
	Content    string   `json:"content"`
}

// MailtoResponse is the success body of POST /api/v1/compose/mailto.
type MailtoResponse struct {
	Success bool   `json:"success"`
	Mailto  string `json:"mailto"`
}

// ErrorResponse is the generic failure body shared by the endpoints.
type ErrorResponse struct {
	Success          bool     `json:"success"`
	Error            string   `json:"error"`
	FailedRecipients []string `json:"failedRecipients,omitempty"`
}
