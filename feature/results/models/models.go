package models

import (
	"bytes"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// AppointmentResult is the event published when a doctor records the outcome
// of an appointment. Field names follow the producer's camelCase JSON.
type AppointmentResult struct {
	ResultID           uuid.UUID `json:"resultId"`
	Date               Timestamp `json:"date"`
	ServiceName        string    `json:"serviceName" validate:"required"`
	SpecializationName string    `json:"specializationName" validate:"required"`
	PatientFullName    string    `json:"patientFullName" validate:"required"`
	PatientBirthDate   Timestamp `json:"patientBirthDate"`
	DoctorFullName     string    `json:"doctorFullName" validate:"required"`
	Complaints         string    `json:"complaints"`
	Conclusion         string    `json:"conclusion"`
	Recommendations    string    `json:"recommendations"`
	PatientEmail       string    `json:"patientEmail,omitempty"`
}

// StorageKey is the object key the rendered report is stored under.
func (a AppointmentResult) StorageKey() string {
	return a.ResultID.String() + ".pdf"
}

// Timestamp decodes both RFC 3339 times and the zone-less
// "2006-01-02T15:04:05.9999999" form emitted by .NET DateTime.
type Timestamp struct {
	time.Time
}

var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.9999999",
	"2006-01-02T15:04:05",
	"2006-01-02",
}

// NewTimestamp wraps t.
func NewTimestamp(t time.Time) Timestamp {
	return Timestamp{Time: t}
}

func (t *Timestamp) UnmarshalJSON(b []byte) error {
	if bytes.Equal(b, []byte("null")) {
		t.Time = time.Time{}
		return nil
	}
	s := strings.Trim(string(b), `"`)
	for _, layout := range timestampLayouts {
		if parsed, err := time.Parse(layout, s); err == nil {
			t.Time = parsed
			return nil
		}
	}
	return fmt.Errorf("invalid timestamp %q", s)
}

func (t Timestamp) MarshalJSON() ([]byte, error) {
	return []byte(`"` + t.Format(time.RFC3339Nano) + `"`), nil
}
