package shared

import (
	"net/http"
	"sort"

	"tikidan/internal/domain/rbac"
	"tikidan/internal/transport/http/api"
)

// FailValidation writes a 400 listing the rejected fields, sorted by field.
func FailValidation(w http.ResponseWriter, requestID string, issues []rbac.FieldIssue) {
	sorted := make([]rbac.FieldIssue, len(issues))
	copy(sorted, issues)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].Field == sorted[j].Field {
			return sorted[i].Reason < sorted[j].Reason
		}
		return sorted[i].Field < sorted[j].Field
	})
	api.FailWithDetails(
		w,
		http.StatusBadRequest,
		"validation_error",
		"payload validation failed",
		map[string]any{"fields": sorted},
		requestID,
	)
}
