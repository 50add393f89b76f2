package model

// Operator is the authenticated caller of the admin API.
type Operator struct {
	Subject string   `json:"subject"`
	Email   string   `json:"email"`
	Roles   []string `json:"roles"`
}
