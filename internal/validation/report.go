package validation

import "fmt"

// ValidMethod contains the allowed cost-basis accounting method values.
var ValidMethod = map[string]bool{
	"fifo": true, "lifo": true, "average": true, "specific": true,
}

// ValidOversellPolicy contains the allowed oversell policy values.
var ValidOversellPolicy = map[string]bool{
	"truncate": true, "warn": true, "error": true,
}

// ValidateReportQuery validates the cost-basis report query parameters.
// Both parameters are optional; empty strings fall back to server defaults.
//
// Returns a validation Error with field-specific error messages if validation fails.
func ValidateReportQuery(method, oversell string) error {
	errors := make(map[string]string)

	if method != "" && !ValidMethod[method] {
		errors["method"] = fmt.Sprintf("invalid method: %s (expected fifo, lifo, average, or specific)", method)
	}

	if oversell != "" && !ValidOversellPolicy[oversell] {
		errors["oversell"] = fmt.Sprintf("invalid oversell policy: %s (expected truncate, warn, or error)", oversell)
	}

	if len(errors) > 0 {
		return &Error{Fields: errors}
	}
	return nil
}
