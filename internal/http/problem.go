package http

import (
	"strings"

	"github.com/gin-gonic/gin"
)

// ProblemDetail is the stable error body for every failure response
// (RFC 7807). Detail never carries internal specifics for 5xx answers; the
// trace id is what correlates with the server logs.
type ProblemDetail struct {
	Type    string `json:"type"`
	Title   string `json:"title"`
	Status  int    `json:"status"`
	Detail  string `json:"detail"`
	TraceID string `json:"trace_id,omitempty"`
}

// problem writes a problem-detail response and aborts the request. The title
// is derived from the last segment of the type code.
func problem(c *gin.Context, status int, code, detail string) {
	c.AbortWithStatusJSON(status, ProblemDetail{
		Type:    code,
		Title:   titleFromCode(code),
		Status:  status,
		Detail:  detail,
		TraceID: GetRequestID(c),
	})
}

func titleFromCode(code string) string {
	segment := code
	if idx := strings.LastIndex(code, "/"); idx >= 0 {
		segment = code[idx+1:]
	}
	words := strings.Split(segment, "-")
	for i, w := range words {
		if w == "" {
			continue
		}
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}
