// internal/engine/validate.go
package engine

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"admission-portal/internal/models"
)

var tenDigitMobileRegex = regexp.MustCompile(`^[0-9]{10}$`)

const (
	maxScore   = 200.0
	maxPercent = 100.0
)

// Validate runs the per-program checklist against the record and returns
// the full error set; the record is valid iff the set is empty. Pure
// function of its inputs: it never mutates the record and never clamps an
// out-of-bound value.
func Validate(formType models.FormType, rec *models.ApplicationRecord, profile *models.Profile, isFinal bool) models.ErrorSet {
	errs := models.ErrorSet{}

	rules, ok := formTypeRules[formType]
	if !ok {
		errs.Add("formType", fmt.Sprintf("Unknown program %q", formType))
		return errs
	}

	validatePersonal(rec, profile, rules, errs)
	validateEducation(rec, rules, errs)
	validateEntrance(rec, rules, errs)
	validateNumericBounds(rec, errs)
	validateDocuments(rec, rules, isFinal, errs)

	return errs
}

func validatePersonal(rec *models.ApplicationRecord, profile *models.Profile, rules programRules, errs models.ErrorSet) {
	// Read-only fields fall back to the profile: they are mirrored, not
	// entered, so an empty editable copy is not an error as long as the
	// profile carries the value.
	if personalOrProfile(rec, profile, "studentName") == "" {
		errs.Add("studentName", "Student name is missing from the profile")
	}
	if personalOrProfile(rec, profile, "mobileNo") == "" {
		errs.Add("mobileNo", "Mobile number is missing from the profile")
	}
	if personalOrProfile(rec, profile, "email") == "" {
		errs.Add("email", "Email is missing from the profile")
	}

	for _, rule := range rules.Personal {
		if strings.TrimSpace(rec.Personal[rule.Key]) == "" {
			errs.Add(rule.Key, rule.Message)
		}
	}

	for _, key := range []string{"fatherMobileNo", "motherMobileNo"} {
		if v := strings.TrimSpace(rec.Personal[key]); v != "" && !tenDigitMobileRegex.MatchString(v) {
			errs.Add(key, "Mobile number must be exactly 10 digits")
		}
	}
}

func personalOrProfile(rec *models.ApplicationRecord, profile *models.Profile, key string) string {
	if v := strings.TrimSpace(rec.Personal[key]); v != "" {
		return v
	}
	if profile == nil {
		return ""
	}
	switch key {
	case "studentName":
		return profile.StudentName()
	case "mobileNo":
		return profile.PhoneNo
	case "email":
		return profile.Email
	}
	return ""
}

func validateEducation(rec *models.ApplicationRecord, rules programRules, errs models.ErrorSet) {
	for level, fields := range rules.Education {
		levelData := rec.Education[level]
		for _, rule := range fields {
			if strings.TrimSpace(levelData[rule.Key]) == "" {
				errs.Add(level+"."+rule.Key, rule.Message)
			}
		}
	}
}

func validateEntrance(rec *models.ApplicationRecord, rules programRules, errs models.ErrorSet) {
	switch rules.Entrance {
	case entranceCET:
		if strings.TrimSpace(rec.Entrance["cetApplicationId"]) == "" {
			errs.Add("cetApplicationId", "CET application ID is required")
		}
		requirePercentField(rec, "cetScorePercent", "CET score percentile is required", errs)

	case entranceCETPercentile:
		if strings.TrimSpace(rec.Entrance["cetApplicationId"]) == "" {
			errs.Add("cetApplicationId", "CET application ID is required")
		}
		requirePercentField(rec, "percentile", "Overall percentile is required", errs)

	case entranceMultiExam:
		// At least one exam needs both its application id and percentile.
		selected := false
		for _, exam := range models.Exams {
			id := strings.TrimSpace(rec.Entrance[exam+"ApplicationId"])
			percent := strings.TrimSpace(rec.Entrance[exam+"ScorePercent"])
			if id != "" && percent != "" {
				selected = true
			}
		}
		if !selected {
			errs.Add("selectedExam", "Select at least one entrance exam and fill in its application ID and percentile")
		}
	}
}

func requirePercentField(rec *models.ApplicationRecord, key, message string, errs models.ErrorSet) {
	if strings.TrimSpace(rec.Entrance[key]) == "" {
		errs.Add(key, message)
	}
}

// validateNumericBounds enforces the universal invariant: numeric entrance
// fields are either absent or within their declared bound. Out-of-bound
// values are errors, never silently clamped.
func validateNumericBounds(rec *models.ApplicationRecord, errs models.ErrorSet) {
	for key, raw := range rec.Entrance {
		v := strings.TrimSpace(raw)
		if v == "" {
			continue
		}
		switch {
		case strings.HasSuffix(key, "ScorePercent") || key == "percentile":
			checkRange(key, v, maxPercent, errs)
		case strings.HasSuffix(key, "Score"):
			checkRange(key, v, maxScore, errs)
		}
	}
}

func checkRange(key, raw string, max float64, errs models.ErrorSet) {
	n, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		errs.Add(key, fmt.Sprintf("%s must be a number", key))
		return
	}
	if n < 0 || n > max {
		errs.Add(key, fmt.Sprintf("%s must be between 0 and %g", key, max))
	}
}

func validateDocuments(rec *models.ApplicationRecord, rules programRules, isFinal bool, errs models.ErrorSet) {
	for _, slot := range rules.Documents {
		if documentOnFile(rec, slot) {
			continue
		}
		// An existing application is treated as having its signature
		// photo already on file.
		if slot == "signaturePhoto" && !rec.IsNew() {
			continue
		}
		errs.Add(slot, documentMessage(slot))
	}

	if isFinal {
		for _, slot := range rules.FinalOnlyDocs {
			if !documentOnFile(rec, slot) {
				errs.Add(slot, documentMessage(slot))
			}
		}
	}
}

func documentOnFile(rec *models.ApplicationRecord, slot string) bool {
	doc := rec.Documents[slot]
	return doc.IsPending() || doc.IsStored()
}

func documentMessage(slot string) string {
	switch slot {
	case "signaturePhoto":
		return "Signature photo is required"
	case "hscMarksheet":
		return "HSC marksheet is required"
	case "cetScoreCard":
		return "CET score card is required"
	case "fcReceipt":
		return "Facilitation center receipt is required for final submission"
	default:
		return fmt.Sprintf("Document %s is required", slot)
	}
}
