package tpp

// Wire models for the TPP session-create dialect. The request goes out as
// JSON; the response comes back as XML (see client.go / transform.go).

// Identifier qualifies a patient or user identifier.
type Identifier struct {
	Value string `json:"value"`
	Type  string `json:"type"`
}

// User wraps the acting user's identifier.
type User struct {
	Identifier Identifier `json:"Identifier"`
}

// PatientUnit carries the patient identifier and the unit (practice) the
// patient is registered with.
type PatientUnit struct {
	Identifier Identifier `json:"Identifier"`
	UnitID     string     `json:"UnitId"`
}

// Application describes the calling application; name, version and device
// type are fixed for this gateway.
type Application struct {
	Name       string `json:"name"`
	Version    string `json:"version"`
	ProviderID string `json:"providerId"`
	DeviceType string `json:"deviceType"`
}

// SessionRequest is the outbound session-create body. UUID is freshly
// generated per call.
type SessionRequest struct {
	APIVersion  string      `json:"apiVersion"`
	UUID        string      `json:"uuid"`
	User        User        `json:"User"`
	Patient     PatientUnit `json:"Patient"`
	Application Application `json:"Application"`
}

// TPP exposes patient permissions as named service-access records. The
// descriptions and status codes below are the supplier's fixed vocabulary.
const (
	ServiceFullClinicalRecord  = "Full Clinical Record"
	ServiceAppointments        = "Appointments"
	ServiceRequestMedication   = "Request Medication"
	ServiceQuestionnaires      = "Questionnaires"
	ServiceSummaryRecord       = "Summary Record"
	ServiceDetailedCodedRecord = "Detailed Coded Record"
	ServiceMessaging           = "Messaging"
	ServiceViewSharingStatus   = "View Sharing Status"
	ServiceRecordAudit         = "Record Audit"
	ServiceChangePharmacy      = "Change Pharmacy"
	ServiceManageSharingRules  = "Manage Sharing Rules And Requests"
	ServiceAccessSystmConnect  = "Access SystmConnect"
)

const (
	StatusAvailable         = "A"
	StatusUnavailable       = "U"
	StatusNotOffered        = "N"
	StatusGMSRegisteredOnly = "G"
	StatusOther             = "O"
)

// ServiceAccess is one named capability record with its availability status.
type ServiceAccess struct {
	Description       string
	ServiceIdentifier int
	Status            string
	StatusDescription string
}

// Available reports whether the service is usable by the patient; any status
// other than "A" means no access.
func (s ServiceAccess) Available() bool {
	return s.Status == StatusAvailable
}
