// internal/engine/merge.go
package engine

import "admission-portal/internal/models"

// Section names, matching the multipart part names on the wire.
type Section string

const (
	SectionPersonal  Section = "personal"
	SectionEntrance  Section = "entrance"
	SectionEducation Section = "education"
	SectionDocuments Section = "documents"
)

// SectionPatch carries the changed fields of exactly one section. Only the
// field matching the section is read; the others stay nil.
type SectionPatch struct {
	Personal  models.Personal
	Entrance  models.Entrance
	Education models.Education
	Documents models.Documents
}

// SectionUpdate is the immutable pair a section editor emits on change:
// its value patch and the errors it detected itself. No shared mutable
// error maps exist between editors and the engine.
type SectionUpdate struct {
	Patch  SectionPatch
	Errors []models.ValidationError
}

// mergePatch folds a patch into the record. Shallow merge per section,
// two-level for education (per education level). Idempotent, and
// commutative within a section for disjoint key sets.
func mergePatch(rec *models.ApplicationRecord, section Section, patch SectionPatch) {
	switch section {
	case SectionPersonal:
		for k, v := range patch.Personal {
			rec.Personal[k] = v
		}
	case SectionEntrance:
		for k, v := range patch.Entrance {
			rec.Entrance[k] = v
		}
	case SectionEducation:
		for level, fields := range patch.Education {
			existing, ok := rec.Education[level]
			if !ok {
				existing = models.EducationLevel{}
				rec.Education[level] = existing
			}
			for k, v := range fields {
				existing[k] = v
			}
		}
	case SectionDocuments:
		for slot, v := range patch.Documents {
			rec.Documents[slot] = v
		}
	}
}

// mirrorProfile re-asserts the read-only personal fields from the session
// profile. Runs after every merge so no patch can make them diverge.
func mirrorProfile(rec *models.ApplicationRecord, profile *models.Profile) {
	if profile == nil {
		return
	}
	rec.Personal["studentName"] = profile.StudentName()
	rec.Personal["mobileNo"] = profile.PhoneNo
	rec.Personal["email"] = profile.Email
}
