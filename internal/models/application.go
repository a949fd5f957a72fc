// internal/models/application.go
package models

// Status tracks the lifecycle of an application record.
// StatusFinalSubmitted is terminal: the record becomes read-only for the
// applicant and the engine refuses further edits or submissions.
type Status string

const (
	StatusDraft          Status = "draft"
	StatusSubmitted      Status = "submitted"
	StatusFinalSubmitted Status = "final-submitted"
)

// Personal holds the scalar personal-details fields keyed by field name
// (studentName, dob, gender, mobileNo, fatherMobileNo, motherMobileNo,
// fatherName, motherName, email, address, allIndiaMeritNo, stateMeritNo).
// studentName, mobileNo and email always mirror the session profile.
type Personal map[string]string

// Entrance holds per-exam fields using exam-prefixed keys
// (cetApplicationId, cetScore, cetScorePercent, catApplicationId, ...)
// plus the overall "percentile" used by METICS. Values stay as entered;
// percentile-like fields are coerced to 2-decimal numbers only when the
// submission payload is built.
type Entrance map[string]string

// EducationLevel holds the fields of one education level (board, school,
// stream, marks, percent, year, plus program-specific extras such as
// pcmMarks/pcbMarks/englishMarks or graduationStatus).
type EducationLevel map[string]string

// Education maps level name (ssc, hsc, graduation) to its fields.
type Education map[string]EducationLevel

// DocumentValue is either a freshly selected local file (pending upload)
// or an opaque server-side path for a document already on file. Stored
// documents are never re-sent.
type DocumentValue struct {
	LocalPath  string `json:"localPath,omitempty"`
	StoredPath string `json:"storedPath,omitempty"`
}

// IsPending reports whether the slot holds a local file still to upload.
func (d DocumentValue) IsPending() bool {
	return d.LocalPath != ""
}

// IsStored reports whether the slot is already persisted server-side.
func (d DocumentValue) IsStored() bool {
	return d.StoredPath != ""
}

// Documents maps document-slot name (signaturePhoto, cetScoreCard,
// fcReceipt, hscMarksheet) to its value.
type Documents map[string]DocumentValue

// ApplicationRecord is the canonical in-memory application, owned
// exclusively by the form engine for the lifetime of one session.
type ApplicationRecord struct {
	FormType       FormType  `json:"formType"`
	ApplicationID  string    `json:"applicationId,omitempty"`
	ApplicationNo  string    `json:"applicationNo,omitempty"`
	Personal       Personal  `json:"personal"`
	Entrance       Entrance  `json:"entrance"`
	Education      Education `json:"education"`
	Documents      Documents `json:"documents"`
	Status         Status    `json:"status"`
	SubmissionDate string    `json:"submissionDate,omitempty"`
}

// NewApplicationRecord creates an empty record for the given program with
// every section initialized so merges never hit a nil map.
func NewApplicationRecord(formType FormType) *ApplicationRecord {
	rec := &ApplicationRecord{
		FormType:  formType,
		Personal:  Personal{},
		Entrance:  Entrance{},
		Education: Education{},
		Documents: Documents{},
		Status:    StatusDraft,
	}
	for _, level := range formType.EducationLevels() {
		rec.Education[level] = EducationLevel{}
	}
	return rec
}

// IsNew reports whether the record has not been created server-side yet.
func (r *ApplicationRecord) IsNew() bool {
	return r.ApplicationID == ""
}

// IsFinalSubmitted reports whether the record reached its terminal state.
func (r *ApplicationRecord) IsFinalSubmitted() bool {
	return r.Status == StatusFinalSubmitted
}

// Clone returns a deep copy of the record.
func (r *ApplicationRecord) Clone() *ApplicationRecord {
	out := *r
	out.Personal = make(Personal, len(r.Personal))
	for k, v := range r.Personal {
		out.Personal[k] = v
	}
	out.Entrance = make(Entrance, len(r.Entrance))
	for k, v := range r.Entrance {
		out.Entrance[k] = v
	}
	out.Education = make(Education, len(r.Education))
	for level, fields := range r.Education {
		lvl := make(EducationLevel, len(fields))
		for k, v := range fields {
			lvl[k] = v
		}
		out.Education[level] = lvl
	}
	out.Documents = make(Documents, len(r.Documents))
	for k, v := range r.Documents {
		out.Documents[k] = v
	}
	return &out
}
