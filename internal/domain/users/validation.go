package users

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"tikidan/internal/domain/rbac"
)

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		name, _, _ := strings.Cut(field.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// checkStruct runs the tag rules and returns the failures as field issues.
func checkStruct(v *validator.Validate, input any) ([]rbac.FieldIssue, error) {
	err := v.Struct(input)
	if err == nil {
		return nil, nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return nil, err
	}
	issues := make([]rbac.FieldIssue, 0, len(verrs))
	for _, fe := range verrs {
		issues = append(issues, rbac.FieldIssue{Field: fe.Field(), Reason: describe(fe)})
	}
	return issues, nil
}

func describe(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "email":
		return "must be a valid email"
	case "uuid":
		return "must be a valid id"
	case "min":
		return fmt.Sprintf("must be at least %s characters", fe.Param())
	case "max":
		return fmt.Sprintf("must be at most %s characters", fe.Param())
	default:
		return fmt.Sprintf("failed %s check", fe.Tag())
	}
}

// accessIssues checks the fields that must agree with the role registry.
func accessIssues(registry *rbac.Registry, role, department *string, custom *[]string) []rbac.FieldIssue {
	var issues []rbac.FieldIssue
	if role != nil && !registry.HasRole(*role) {
		issues = append(issues, rbac.FieldIssue{Field: "role", Reason: "must be a registered role"})
	}
	if department != nil && !registry.HasDepartment(*department) {
		issues = append(issues, rbac.FieldIssue{Field: "department", Reason: "must be a registered department"})
	}
	if custom != nil {
		for _, perm := range *custom {
			if perm == rbac.Wildcard {
				issues = append(issues, rbac.FieldIssue{Field: "customPermissions", Reason: "wildcard cannot be granted to a user"})
				break
			}
			if !registry.InCatalogue(perm) {
				issues = append(issues, rbac.FieldIssue{Field: "customPermissions", Reason: "unknown capability " + perm})
				break
			}
		}
	}
	return issues
}

func reportingIssue(value *string) []rbac.FieldIssue {
	if value == nil {
		return nil
	}
	for _, allowed := range ReportingValues {
		if *value == allowed {
			return nil
		}
	}
	return []rbac.FieldIssue{{Field: "reporting", Reason: "must be one of self, manager, supervisor, director"}}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
