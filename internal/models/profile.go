// internal/models/profile.go
package models

import "strings"

// Institute is one program a user is admitted to apply for. The portal
// assigns at most one per user; the first entry decides the form type.
type Institute struct {
	Code string `json:"code"`
	Name string `json:"name,omitempty"`
}

// Profile is the authenticated user's profile as returned by the portal.
// studentName, mobileNo and email on the application always mirror it.
type Profile struct {
	FirstName  string      `json:"firstName"`
	MiddleName string      `json:"middleName,omitempty"`
	LastName   string      `json:"lastName"`
	Email      string      `json:"email"`
	PhoneNo    string      `json:"phoneNo"`
	Institutes []Institute `json:"institutes"`
}

// StudentName joins the name parts, skipping an empty middle name.
func (p *Profile) StudentName() string {
	parts := make([]string, 0, 3)
	for _, s := range []string{p.FirstName, p.MiddleName, p.LastName} {
		if s != "" {
			parts = append(parts, s)
		}
	}
	return strings.Join(parts, " ")
}
