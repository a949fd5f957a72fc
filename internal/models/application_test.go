// internal/models/application_test.go
package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseFormType(t *testing.T) {
	tests := []struct {
		code    string
		want    FormType
		wantErr bool
	}{
		{code: "METIPP", want: FormTypeMETIPP},
		{code: "METIPD", want: FormTypeMETIPD},
		{code: "METIOM", want: FormTypeMETIOM},
		{code: "METICS", want: FormTypeMETICS},
		{code: "metipp", wantErr: true},
		{code: "", wantErr: true},
		{code: "METXXX", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.code, func(t *testing.T) {
			got, err := ParseFormType(tt.code)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestEducationLevelsPerProgram(t *testing.T) {
	assert.Equal(t, []string{LevelSSC, LevelHSC}, FormTypeMETIPP.EducationLevels())
	assert.Equal(t, []string{LevelSSC, LevelHSC}, FormTypeMETIPD.EducationLevels())
	assert.Equal(t, []string{LevelSSC, LevelHSC, LevelGraduation}, FormTypeMETIOM.EducationLevels())
	assert.Equal(t, []string{LevelSSC, LevelHSC, LevelGraduation}, FormTypeMETICS.EducationLevels())
}

func TestNewApplicationRecordInitializesAllSections(t *testing.T) {
	rec := NewApplicationRecord(FormTypeMETICS)

	assert.True(t, rec.IsNew())
	assert.Equal(t, StatusDraft, rec.Status)
	assert.NotNil(t, rec.Personal)
	assert.NotNil(t, rec.Entrance)
	assert.NotNil(t, rec.Documents)
	for _, level := range FormTypeMETICS.EducationLevels() {
		assert.NotNil(t, rec.Education[level])
	}
}

func TestCloneIsDeep(t *testing.T) {
	rec := NewApplicationRecord(FormTypeMETIPD)
	rec.Personal["dob"] = "2001-04-12"
	rec.Education[LevelHSC]["board"] = "State Board"
	rec.Documents["signaturePhoto"] = DocumentValue{LocalPath: "/tmp/sig.png"}

	clone := rec.Clone()
	clone.Personal["dob"] = "changed"
	clone.Education[LevelHSC]["board"] = "changed"
	clone.Documents["signaturePhoto"] = DocumentValue{StoredPath: "remote"}

	assert.Equal(t, "2001-04-12", rec.Personal["dob"])
	assert.Equal(t, "State Board", rec.Education[LevelHSC]["board"])
	assert.Equal(t, "/tmp/sig.png", rec.Documents["signaturePhoto"].LocalPath)
}

func TestDocumentValueStates(t *testing.T) {
	assert.True(t, DocumentValue{LocalPath: "/tmp/a"}.IsPending())
	assert.False(t, DocumentValue{LocalPath: "/tmp/a"}.IsStored())
	assert.True(t, DocumentValue{StoredPath: "remote/a"}.IsStored())
	assert.False(t, DocumentValue{StoredPath: "remote/a", LocalPath: ""}.IsPending())
	assert.False(t, DocumentValue{}.IsPending())
	assert.False(t, DocumentValue{}.IsStored())
}

func TestStudentNameSkipsEmptyMiddleName(t *testing.T) {
	p := &Profile{FirstName: "Asha", LastName: "Patel"}
	assert.Equal(t, "Asha Patel", p.StudentName())

	p.MiddleName = "R"
	assert.Equal(t, "Asha R Patel", p.StudentName())
}

func TestErrorSetFirstWinsAndOverride(t *testing.T) {
	errs := ErrorSet{}
	errs.Add("dob", "first message")
	errs.Add("dob", "second message")
	assert.Equal(t, "first message", errs["dob"])

	errs.MergeOverride([]ValidationError{
		{Field: "dob", Code: CodeInvalidFormat, Message: "editor message"},
	})
	assert.Equal(t, "editor message", errs["dob"])
}

func TestErrorSetMessagesOrderedByField(t *testing.T) {
	errs := ErrorSet{}
	errs.Add("zeta", "last")
	errs.Add("alpha", "first")
	errs.Add("hsc.board", "middle")

	assert.Equal(t, []string{"first", "middle", "last"}, errs.Messages())
}
