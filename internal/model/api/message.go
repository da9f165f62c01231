package api

// DefaultLanguage is applied when a request omits the language field.
const DefaultLanguage = "English"

// MessageRequest is the inbound body for POST /api/message.
type MessageRequest struct {
	Message  string `json:"message"`
	Language string `json:"language"`
}

// MessageResponse is the envelope returned by POST /api/message. Reply and
// Error are pointers so the unused side serializes as an explicit null.
type MessageResponse struct {
	Success bool    `json:"success"`
	Reply   *string `json:"reply"`
	Error   *string `json:"error"`
}

// SuccessResponse builds the envelope for a reachable upstream.
func SuccessResponse(reply string) MessageResponse {
	return MessageResponse{Success: true, Reply: &reply}
}

// FailureResponse builds the degraded envelope carrying an error description.
func FailureResponse(message string) MessageResponse {
	return MessageResponse{Success: false, Error: &message}
}
