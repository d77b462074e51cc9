package response

// Response represents the standard local-API response format
type Response struct {
	Status     string      `json:"status"`      // "success" or "error"
	StatusCode int         `json:"status_code"` // HTTP status code
	Data       interface{} `json:"data,omitempty"`
	Error      string      `json:"error,omitempty"`
	// Redirect, when set, tells the UI to perform a hard navigation (used only
	// by the session-expiry path).
	Redirect string `json:"redirect,omitempty"`
}

// Success returns a standard success response wrapping the data
func Success(statusCode int, data interface{}) Response {
	return Response{
		Status:     "success",
		StatusCode: statusCode,
		Data:       data,
	}
}

// Error returns a standard error response wrapping the error message
func Error(statusCode int, err string) Response {
	return Response{
		Status:     "error",
		StatusCode: statusCode,
		Error:      err,
	}
}

// ErrorRedirect returns an error response that also carries a navigation
// target; the caller of the failed request still receives the rejection.
func ErrorRedirect(statusCode int, err, redirect string) Response {
	return Response{
		Status:     "error",
		StatusCode: statusCode,
		Error:      err,
		Redirect:   redirect,
	}
}
