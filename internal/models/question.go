package models

// Question is a customer support thread opened against a product or topic.
type Question struct {
	ID         string `json:"id"`
	Topic      string `json:"topic"`
	Subject    string `json:"subject"`
	Message    string `json:"message"`
	CustomerID string `json:"customerId"`
	// AssigneeID is the vendor or sales user the thread is routed to, empty
	// until triage assigns one.
	AssigneeID string `json:"assigneeId,omitempty"`
	ProductID  string `json:"productId,omitempty"`
}

// QuestionReply is one message appended to a support thread.
type QuestionReply struct {
	QuestionID string `json:"questionId"`
	AuthorID   string `json:"authorId"`
	Message    string `json:"message"`
}
