// internal/engine/rules.go
package engine

import "admission-portal/internal/models"

// fieldRule names one required field and the message shown when absent.
type fieldRule struct {
	Key     string
	Message string
}

// entranceKind selects how the entrance section is validated per program.
type entranceKind int

const (
	entranceNone          entranceKind = iota // METIPP: no entrance exam
	entranceCET                               // METIPD: CET id + score percent
	entranceMultiExam                         // METIOM: at least one full exam entry
	entranceCETPercentile                     // METICS: CET id + overall percentile
)

// programRules is the per-formType checklist: required personal fields,
// required education fields per level, the entrance rule, and document
// slots. Changing a program's form means editing one entry here.
type programRules struct {
	Personal      []fieldRule
	Education     map[string][]fieldRule
	Entrance      entranceKind
	Documents     []string // required whenever no copy is on file
	FinalOnlyDocs []string // required only for final submission
}

// basePersonal is shared by every program. studentName, mobileNo and email
// presence falls back to the session profile since those fields are
// read-only mirrors of it.
var basePersonal = []fieldRule{
	{Key: "dob", Message: "Date of birth is required"},
	{Key: "gender", Message: "Gender is required"},
	{Key: "fatherMobileNo", Message: "Father's mobile number is required"},
	{Key: "motherMobileNo", Message: "Mother's mobile number is required"},
}

var formTypeRules = map[models.FormType]programRules{
	models.FormTypeMETIPP: {
		Personal: basePersonal,
		Education: map[string][]fieldRule{
			models.LevelHSC: {
				{Key: "board", Message: "HSC board is required"},
				{Key: "marks", Message: "HSC marks are required"},
				{Key: "percent", Message: "HSC percentage is required"},
				{Key: "englishMarks", Message: "HSC English marks are required"},
			},
		},
		Entrance:      entranceNone,
		Documents:     []string{"signaturePhoto", "hscMarksheet"},
		FinalOnlyDocs: []string{"fcReceipt"},
	},
	models.FormTypeMETIPD: {
		Personal: basePersonal,
		Education: map[string][]fieldRule{
			models.LevelHSC: {
				{Key: "board", Message: "HSC board is required"},
				{Key: "marks", Message: "HSC marks are required"},
				{Key: "percent", Message: "HSC percentage is required"},
			},
		},
		Entrance:      entranceCET,
		Documents:     []string{"signaturePhoto", "hscMarksheet"},
		FinalOnlyDocs: []string{"fcReceipt"},
	},
	models.FormTypeMETIOM: {
		Personal: basePersonal,
		Education: map[string][]fieldRule{
			models.LevelHSC: {
				{Key: "board", Message: "HSC board is required"},
				{Key: "school", Message: "HSC college/school is required"},
				{Key: "stream", Message: "HSC stream is required"},
				{Key: "marks", Message: "HSC marks are required"},
				{Key: "percent", Message: "HSC percentage is required"},
			},
			models.LevelGraduation: {
				{Key: "board", Message: "Graduation board/university is required"},
			},
		},
		Entrance:      entranceMultiExam,
		Documents:     []string{"signaturePhoto"},
		FinalOnlyDocs: []string{"fcReceipt"},
	},
	models.FormTypeMETICS: {
		Personal: basePersonal,
		Education: map[string][]fieldRule{
			models.LevelGraduation: {
				{Key: "board", Message: "Graduation board/university is required"},
				{Key: "school", Message: "Graduation college is required"},
				{Key: "stream", Message: "Graduation stream is required"},
			},
		},
		Entrance:      entranceCETPercentile,
		Documents:     []string{"signaturePhoto", "cetScoreCard"},
		FinalOnlyDocs: []string{"fcReceipt"},
	},
}
