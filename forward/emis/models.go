package emis

// Wire models for the EMIS session-create dialect. Field names follow the
// supplier's JSON schema, not this codebase's conventions.

// Identifier is how EMIS expects patient and user identifiers to be qualified.
type Identifier struct {
	IdentifierValue string `json:"IdentifierValue"`
	IdentifierType  string `json:"IdentifierType"`
}

// SessionRequest is the outbound session-create body.
type SessionRequest struct {
	PatientIdentifier           Identifier `json:"PatientIdentifier"`
	PatientNationalPracticeCode string     `json:"PatientNationalPracticeCode"`
	UserIdentifier              Identifier `json:"UserIdentifier"`
}

// SessionReply is the successful session-create response. Proxy demographics
// sit at the top level, linked patients under UserPatientLinks.
type SessionReply struct {
	SessionID        string            `json:"SessionId"`
	EndUserSessionID string            `json:"EndUserSessionId"`
	FirstName        string            `json:"FirstName"`
	Surname          string            `json:"Surname"`
	Title            string            `json:"Title"`
	UserPatientLinks []UserPatientLink `json:"UserPatientLinks"`
}

// UserPatientLink is one patient the end user may act for, with the services
// EMIS grants the user on that patient's record.
type UserPatientLink struct {
	FirstName         string            `json:"FirstName"`
	Surname           string            `json:"Surname"`
	Title             string            `json:"Title"`
	EffectiveServices EffectiveServices `json:"EffectiveServices"`
}

// EffectiveServices is EMIS's flag-per-capability model. Flags are pointers to
// distinguish "absent" from "false"; absent flags normalize to false.
type EffectiveServices struct {
	AppointmentsEnabled                 *bool                 `json:"AppointmentsEnabled"`
	DemographicsUpdateEnabled           *bool                 `json:"DemographicsUpdateEnabled"`
	EpsEnabled                          *bool                 `json:"EpsEnabled"`
	MedicalRecordEnabled                *bool                 `json:"MedicalRecordEnabled"`
	OnlineTriageEnabled                 *bool                 `json:"OnlineTriageEnabled"`
	PracticePatientCommunicationEnabled *bool                 `json:"PracticePatientCommunicationEnabled"`
	PrescribingEnabled                  *bool                 `json:"PrescribingEnabled"`
	QuestionnairesEnabled               *bool                 `json:"QuestionnairesEnabled"`
	RecordSharingEnabled                *bool                 `json:"RecordSharingEnabled"`
	RecordViewAuditEnabled              *bool                 `json:"RecordViewAuditEnabled"`
	MedicalRecord                       MedicalRecordServices `json:"MedicalRecord"`
}

// MedicalRecordServices are the record-section flags nested one level down.
type MedicalRecordServices struct {
	RecordAccessScheme   string `json:"RecordAccessScheme"`
	SummaryEnabled       *bool  `json:"SummaryEnabled"`
	AllergiesEnabled     *bool  `json:"AllergiesEnabled"`
	ConsultationsEnabled *bool  `json:"ConsultationsEnabled"`
	ImmunisationsEnabled *bool  `json:"ImmunisationsEnabled"`
	DocumentsEnabled     *bool  `json:"DocumentsEnabled"`
	MedicationEnabled    *bool  `json:"MedicationEnabled"`
	ProblemsEnabled      *bool  `json:"ProblemsEnabled"`
	TestResultsEnabled   *bool  `json:"TestResultsEnabled"`
}

// errorReply is the body EMIS returns on non-201 statuses.
type errorReply struct {
	Message string `json:"message"`
}
