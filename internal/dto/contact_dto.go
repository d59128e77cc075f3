package dto

// ContactRequest defines the expected payload for the contact form endpoint.
type ContactRequest struct {
	Name        string     `json:"name" validate:"required"`
	Email       string     `json:"email" validate:"required"`
	Message     string     `json:"message" validate:"required"`
	SubmittedAt *Timestamp `json:"submitted_at,omitempty"`
}

// Record flattens the request into the generic document persisted for it.
// submitted_at is kept as an explicit null when the client omitted it.
func (r ContactRequest) Record() map[string]interface{} {
	record := map[string]interface{}{
		"name":         r.Name,
		"email":        r.Email,
		"message":      r.Message,
		"submitted_at": nil,
	}
	if r.SubmittedAt != nil {
		record["submitted_at"] = r.SubmittedAt.UTC()
	}
	return record
}

// ContactResponse reports the outcome of a stored submission.
type ContactResponse struct {
	OK          bool   `json:"ok"`
	ID          string `json:"id"`
	EmailStatus string `json:"email_status"`
}

// MessageResponse is the body of the static greeting endpoints.
type MessageResponse struct {
	Message string `json:"message"`
}

// DiagnosticsResponse describes backend and database availability.
type DiagnosticsResponse struct {
	Backend          string   `json:"backend"`
	Database         string   `json:"database"`
	DatabaseURL      string   `json:"database_url"`
	DatabaseName     string   `json:"database_name"`
	ConnectionStatus string   `json:"connection_status"`
	Collections      []string `json:"collections"`
}
