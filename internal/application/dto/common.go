package dto

// ErrorResponse risposta di errore uniforme dell'API.
// Details elenca le violazioni di regola fiscale quando presenti.
type ErrorResponse struct {
	Code    string   `json:"code"`
	Message string   `json:"message"`
	Details []string `json:"details,omitempty"`
}
