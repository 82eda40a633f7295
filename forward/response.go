package forward

import "fmt"

// Demographics holds the name fields a supplier reports for a person. Fields
// may be empty when a supplier omits them, but are always present in output.
type Demographics struct {
	FirstName string `json:"firstName"`
	Surname   string `json:"surname"`
	Title     string `json:"title"`
}

// ViewPermissions is the canonical set of record-section access flags.
type ViewPermissions struct {
	MedicalRecord              bool `json:"medicalRecord"`
	SummaryMedicalRecord       bool `json:"summaryMedicalRecord"`
	AllergiesMedicalRecord     bool `json:"allergiesMedicalRecord"`
	ConsultationsMedicalRecord bool `json:"consultationsMedicalRecord"`
	ImmunisationsMedicalRecord bool `json:"immunisationsMedicalRecord"`
	DocumentsMedicalRecord     bool `json:"documentsMedicalRecord"`
	MedicationMedicalRecord    bool `json:"medicationMedicalRecord"`
	ProblemsMedicalRecord      bool `json:"problemsMedicalRecord"`
	TestResultsMedicalRecord   bool `json:"testResultsMedicalRecord"`
	RecordAudit                bool `json:"recordAudit"`
	RecordSharing              bool `json:"recordSharing"`
}

// Permissions is the canonical capability model both suppliers are normalized
// into, regardless of their native vocabulary (EMIS per-capability flags, TPP
// enumerated service-access records).
type Permissions struct {
	AccessSystemConnect          bool            `json:"accessSystemConnect"`
	BookAppointments             bool            `json:"bookAppointments"`
	ChangePharmacy               bool            `json:"changePharmacy"`
	MessagePractice              bool            `json:"messagePractice"`
	ProvideInformationToPractice bool            `json:"provideInformationToPractice"`
	RequestMedication            bool            `json:"requestMedication"`
	UpdateDemographics           bool            `json:"updateDemographics"`
	ManageOnlineTriage           bool            `json:"manageOnlineTriage"`
	View                         ViewPermissions `json:"view"`
}

// Patient is one patient the proxy user is linked to, with the capabilities
// the supplier grants the proxy on that patient's record.
type Patient struct {
	Demographics
	Permissions Permissions `json:"permissions"`
}

// Response is the canonical output returned to the caller whichever supplier
// serviced the request. Constructed once by a client's transform step and
// returned unmodified.
type Response struct {
	SessionID        string       `json:"sessionId"`
	EndUserSessionID string       `json:"endUserSessionId,omitempty"`
	Supplier         string       `json:"supplier"`
	Proxy            Demographics `json:"proxy"`
	Patients         []Patient    `json:"patients"`
}

// Validate checks the structural invariants a supplier response must satisfy
// after transformation. Violations indicate an unexpected supplier payload
// shape, so they surface as plain errors for the router to wrap as Downstream.
func (r Response) Validate() error {
	if r.SessionID == "" {
		return fmt.Errorf("supplier %s returned no session id", r.Supplier)
	}
	if r.Proxy.FirstName == "" && r.Proxy.Surname == "" {
		return fmt.Errorf("supplier %s returned no proxy demographics", r.Supplier)
	}
	if len(r.Patients) == 0 {
		return fmt.Errorf("supplier %s returned no patient links", r.Supplier)
	}
	return nil
}
