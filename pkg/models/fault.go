package models

import "github.com/navarrastar/contact-ingest/pkg/utils"

const faultDetailLimit = 200

// FaultBody is the generic 500 payload for unanticipated errors.
func FaultBody(err error) map[string]interface{} {
	return map[string]interface{}{
		"error":   "server error",
		"details": utils.Truncate(err.Error(), faultDetailLimit),
	}
}
