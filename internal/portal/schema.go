// internal/portal/schema.go
package portal

import (
	"strings"

	"github.com/xeipuuv/gojsonschema"

	apperrors "admission-portal/internal/common/errors"
)

// JSON Schemas for the three JSON-encoded multipart parts. These guard the
// outbound contract: a payload that fails here would be rejected (or worse,
// silently mangled) by the portal, so the request is never sent.
const (
	personalSchema = `{
		"type": "object",
		"additionalProperties": {"type": "string"}
	}`

	entranceSchema = `{
		"type": "object",
		"additionalProperties": {"type": ["string", "number"]},
		"patternProperties": {
			"ScorePercent$": {"type": "number", "minimum": 0, "maximum": 100},
			"^percentile$":  {"type": "number", "minimum": 0, "maximum": 100}
		}
	}`

	educationSchema = `{
		"type": "object",
		"additionalProperties": {
			"type": "object",
			"additionalProperties": {"type": "string"}
		}
	}`
)

var (
	personalSchemaLoader  = gojsonschema.NewStringLoader(personalSchema)
	entranceSchemaLoader  = gojsonschema.NewStringLoader(entranceSchema)
	educationSchemaLoader = gojsonschema.NewStringLoader(educationSchema)
)

func validateSubmissionPayload(sub *Submission) error {
	if err := validateSection("personal", personalSchemaLoader, sub.Personal); err != nil {
		return err
	}
	if err := validateSection("entrance", entranceSchemaLoader, sub.Entrance); err != nil {
		return err
	}
	if err := validateSection("education", educationSchemaLoader, sub.Education); err != nil {
		return err
	}
	return nil
}

func validateSection(name string, schema gojsonschema.JSONLoader, doc interface{}) error {
	result, err := gojsonschema.Validate(schema, gojsonschema.NewGoLoader(doc))
	if err != nil {
		return apperrors.NewPayloadSchemaError(name, err.Error())
	}
	if result.Valid() {
		return nil
	}

	details := make([]string, 0, len(result.Errors()))
	for _, desc := range result.Errors() {
		details = append(details, desc.String())
	}
	return apperrors.NewPayloadSchemaError(name, strings.Join(details, "; "))
}
