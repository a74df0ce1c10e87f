package models

type Response struct {
	Success bool        `json:"success"`
	Message string      `json:"message,omitempty"`
	Error   string      `json:"error,omitempty"`
	Code    string      `json:"code,omitempty"`
	Data    interface{} `json:"data,omitempty"`
}

func SuccessResponse(data interface{}, message string) Response {
	return Response{
		Success: true,
		Message: message,
		Data:    data,
	}
}

func ErrorResponse(err string) Response {
	return Response{
		Success: false,
		Error:   err,
	}
}

// CodedErrorResponse carries a stable machine-readable code alongside
// the human-readable message.
func CodedErrorResponse(code, err string) Response {
	return Response{
		Success: false,
		Code:    code,
		Error:   err,
	}
}
