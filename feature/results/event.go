package results

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"document-manager/core/validation"
	"document-manager/feature/results/models"

	"github.com/google/uuid"
)

// DecodeError marks a payload that can never be processed. Transports drop
// such messages instead of redelivering them.
type DecodeError struct {
	Fields []string
	Err    error
}

func (e *DecodeError) Error() string {
	if len(e.Fields) > 0 {
		return "invalid appointment result: " + strings.Join(e.Fields, ", ")
	}
	return fmt.Sprintf("malformed appointment result: %v", e.Err)
}

func (e *DecodeError) Unwrap() error { return e.Err }

// Permanent reports that redelivery cannot help.
func (e *DecodeError) Permanent() bool { return true }

// envelope is the MassTransit wrapper around published messages.
type envelope struct {
	ResultID json.RawMessage `json:"resultId"`
	Message  json.RawMessage `json:"message"`
}

// DecodeEvent parses and validates an appointment result. Both the bare
// event and a MassTransit envelope carrying it under "message" are accepted.
func DecodeEvent(body []byte) (models.AppointmentResult, error) {
	var env envelope
	if err := json.Unmarshal(body, &env); err != nil {
		return models.AppointmentResult{}, &DecodeError{Err: err}
	}
	payload := body
	if len(env.ResultID) == 0 && len(env.Message) > 0 && env.Message[0] == '{' {
		payload = env.Message
	}

	var event models.AppointmentResult
	if err := json.NewDecoder(bytes.NewReader(payload)).Decode(&event); err != nil {
		return models.AppointmentResult{}, &DecodeError{Err: err}
	}

	var fields []string
	if event.ResultID == uuid.Nil {
		fields = append(fields, "resultId: required")
	}
	if event.Date.IsZero() {
		fields = append(fields, "date: required")
	}
	if event.PatientBirthDate.IsZero() {
		fields = append(fields, "patientBirthDate: required")
	}
	if err := validation.Struct(event); err != nil {
		fields = append(fields, validation.Fields(err)...)
	}
	if len(fields) > 0 {
		return models.AppointmentResult{}, &DecodeError{Fields: fields}
	}
	return event, nil
}
