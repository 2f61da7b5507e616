package cv

import "strings"

// ValidateForRender reports which of fullName and email are blank. Callers
// check it before rendering or sending; the renderer does not re-validate.
func (d *Document) ValidateForRender() error {
	var missing []string
	if strings.TrimSpace(d.PersonalInfo.FullName) == "" {
		missing = append(missing, "fullName")
	}
	if strings.TrimSpace(d.PersonalInfo.Email) == "" {
		missing = append(missing, "email")
	}
	if len(missing) > 0 {
		return &ValidationError{Missing: missing}
	}
	return nil
}
