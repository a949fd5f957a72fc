// internal/models/formtype.go
package models

import "fmt"

// FormType identifies the admission program an application belongs to.
// It is derived once from the user's institute at load time and selects
// which section variants and validation rules apply.
type FormType string

const (
	FormTypeMETIPP FormType = "METIPP" // pharmacy (B.Pharm)
	FormTypeMETIPD FormType = "METIPD" // pharmacy (D.Pharm)
	FormTypeMETIOM FormType = "METIOM" // management
	FormTypeMETICS FormType = "METICS" // computer science
)

// IsValid reports whether the form type is one of the known programs.
func (f FormType) IsValid() bool {
	switch f {
	case FormTypeMETIPP, FormTypeMETIPD, FormTypeMETIOM, FormTypeMETICS:
		return true
	default:
		return false
	}
}

// ParseFormType converts an institute code into a FormType.
func ParseFormType(code string) (FormType, error) {
	ft := FormType(code)
	if !ft.IsValid() {
		return "", fmt.Errorf("unknown form type: %q", code)
	}
	return ft, nil
}

// EducationLevels returns the education levels that exist on the form for
// this program. Requiredness of individual fields is decided by the
// validation rules, not here.
func (f FormType) EducationLevels() []string {
	switch f {
	case FormTypeMETIOM, FormTypeMETICS:
		return []string{LevelSSC, LevelHSC, LevelGraduation}
	default:
		return []string{LevelSSC, LevelHSC}
	}
}

// Exams lists every entrance exam the portal knows about. METIOM applicants
// may select several at once; the other programs use CET only.
var Exams = []string{"cet", "cat", "cmat", "gmat", "mat", "atma", "xat"}

// Education level keys.
const (
	LevelSSC        = "ssc"
	LevelHSC        = "hsc"
	LevelGraduation = "graduation"
)
