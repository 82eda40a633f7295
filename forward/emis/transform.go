package emis

import (
	"github.com/NHSDigital/im1-pfs-auth/forward"
	"github.com/NHSDigital/im1-pfs-auth/lib/to"
)

// Transform normalizes an EMIS session reply into the canonical response and
// validates its structure.
func (c *Client) Transform(reply *SessionReply) (*forward.Response, error) {
	patients := make([]forward.Patient, 0, len(reply.UserPatientLinks))
	for _, link := range reply.UserPatientLinks {
		patients = append(patients, forward.Patient{
			Demographics: forward.Demographics{
				FirstName: link.FirstName,
				Surname:   link.Surname,
				Title:     link.Title,
			},
			Permissions: mapPermissions(link.EffectiveServices),
		})
	}

	response := forward.Response{
		SessionID:        reply.SessionID,
		EndUserSessionID: reply.EndUserSessionID,
		Supplier:         supplierName,
		Proxy: forward.Demographics{
			FirstName: reply.FirstName,
			Surname:   reply.Surname,
			Title:     reply.Title,
		},
		Patients: patients,
	}
	if err := response.Validate(); err != nil {
		return nil, err
	}
	return &response, nil
}

// mapPermissions translates EMIS's flag vocabulary into the canonical
// permission model. The correspondence is fixed:
//
//	bookAppointments             <- AppointmentsEnabled
//	changePharmacy               <- EpsEnabled
//	messagePractice              <- PracticePatientCommunicationEnabled
//	provideInformationToPractice <- QuestionnairesEnabled
//	requestMedication            <- PrescribingEnabled
//	updateDemographics           <- DemographicsUpdateEnabled
//	manageOnlineTriage           <- OnlineTriageEnabled
//	view.medicalRecord           <- MedicalRecordEnabled
//	view.summary..testResults    <- MedicalRecord.<Section>Enabled
//	view.recordAudit             <- RecordViewAuditEnabled
//	view.recordSharing           <- RecordSharingEnabled
//
// EMIS exposes no SystmConnect equivalent, so accessSystemConnect is always false.
func mapPermissions(services EffectiveServices) forward.Permissions {
	record := services.MedicalRecord
	return forward.Permissions{
		AccessSystemConnect:          false,
		BookAppointments:             to.Empty(services.AppointmentsEnabled),
		ChangePharmacy:               to.Empty(services.EpsEnabled),
		MessagePractice:              to.Empty(services.PracticePatientCommunicationEnabled),
		ProvideInformationToPractice: to.Empty(services.QuestionnairesEnabled),
		RequestMedication:            to.Empty(services.PrescribingEnabled),
		UpdateDemographics:           to.Empty(services.DemographicsUpdateEnabled),
		ManageOnlineTriage:           to.Empty(services.OnlineTriageEnabled),
		View: forward.ViewPermissions{
			MedicalRecord:              to.Empty(services.MedicalRecordEnabled),
			SummaryMedicalRecord:       to.Empty(record.SummaryEnabled),
			AllergiesMedicalRecord:     to.Empty(record.AllergiesEnabled),
			ConsultationsMedicalRecord: to.Empty(record.ConsultationsEnabled),
			ImmunisationsMedicalRecord: to.Empty(record.ImmunisationsEnabled),
			DocumentsMedicalRecord:     to.Empty(record.DocumentsEnabled),
			MedicationMedicalRecord:    to.Empty(record.MedicationEnabled),
			ProblemsMedicalRecord:      to.Empty(record.ProblemsEnabled),
			TestResultsMedicalRecord:   to.Empty(record.TestResultsEnabled),
			RecordAudit:                to.Empty(services.RecordViewAuditEnabled),
			RecordSharing:              to.Empty(services.RecordSharingEnabled),
		},
	}
}
