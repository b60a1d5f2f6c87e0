package generativeAI

import (
	"errors"
	"net/http"
	"strings"

	"google.golang.org/genai"
)

const statusResourceExhausted = "RESOURCE_EXHAUSTED"

// IsRateLimited reports whether err is the backend telling us the request or
// token quota is used up.
func IsRateLimited(err error) bool {
	if err == nil {
		return false
	}
	var apiErr genai.APIError
	if errors.As(err, &apiErr) {
		return apiErr.Code == http.StatusTooManyRequests || apiErr.Status == statusResourceExhausted
	}
	var apiErrPtr *genai.APIError
	if errors.As(err, &apiErrPtr) && apiErrPtr != nil {
		return apiErrPtr.Code == http.StatusTooManyRequests || apiErrPtr.Status == statusResourceExhausted
	}
	msg := err.Error()
	return strings.Contains(msg, "429") || strings.Contains(msg, statusResourceExhausted)
}
