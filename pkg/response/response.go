package response

const (
	StatusSuccess = "success"
	StatusError   = "error"
)

// Response is the envelope of every JSON reply
type Response struct {
	Status     string      `json:"status"`
	StatusCode int         `json:"status_code"`
	Data       interface{} `json:"data,omitempty"`
	Error      string      `json:"error,omitempty"`
}

// Success wraps data in a success envelope
func Success(statusCode int, data interface{}) Response {
	return Response{
		Status:     StatusSuccess,
		StatusCode: statusCode,
		Data:       data,
	}
}

// Error wraps a message in an error envelope
func Error(statusCode int, err string) Response {
	return Response{
		Status:     StatusError,
		StatusCode: statusCode,
		Error:      err,
	}
}

// Message is a success envelope whose data is {"message": msg}
func Message(statusCode int, msg string) Response {
	return Success(statusCode, map[string]string{"message": msg})
}
