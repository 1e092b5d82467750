package session

import (
	"errors"
	"net/http"

	"github.com/progtrack-dev/progtrack/internal/cli/client"
)

// Messages shown for classified request failures
const (
	MsgInvalidCredentials = "Invalid email/username or password."
	MsgPermissionDenied   = "You do not have permission to perform this action."
	MsgInvalidData        = "The submitted data is invalid. Please check your input."
	MsgGeneric            = "Something went wrong. Please try again."
)

// Classify maps a request failure to a user-facing message. The mapping
// depends only on the error itself, not on which operation produced it:
// 401 means bad credentials, 403 means missing permission, 422 means the
// server rejected the submitted data, any other server-supplied message
// is passed through, and everything else (including network failures)
// gets the generic retry message.
func Classify(err error) string {
	if err == nil {
		return ""
	}

	var apiErr *client.APIError
	if errors.As(err, &apiErr) {
		switch apiErr.Status {
		case http.StatusUnauthorized:
			return MsgInvalidCredentials
		case http.StatusForbidden:
			return MsgPermissionDenied
		case http.StatusUnprocessableEntity:
			return MsgInvalidData
		}
		if apiErr.Message != "" {
			return apiErr.Message
		}
	}

	return MsgGeneric
}
