package tpp

import (
	"fmt"
	"strconv"

	"github.com/NHSDigital/im1-pfs-auth/forward"
	"github.com/beevik/etree"
)

// Transform normalizes a TPP CreateSessionReply document into the canonical
// response and validates its structure.
func (c *Client) Transform(doc *etree.Document) (*forward.Response, error) {
	reply := doc.FindElement("/CreateSessionReply")
	if reply == nil {
		return nil, fmt.Errorf("TPP reply has no CreateSessionReply element")
	}

	var patients []forward.Patient
	for _, access := range reply.FindElements("PatientAccess") {
		person := access.FindElement("Person")
		if person == nil {
			continue
		}
		patients = append(patients, forward.Patient{
			Demographics: personName(person),
			Permissions:  mapPermissions(serviceAccessRecords(person)),
		})
	}

	var proxy forward.Demographics
	if person := reply.FindElement("User/Person"); person != nil {
		proxy = personName(person)
	}

	response := forward.Response{
		SessionID:        reply.SelectAttrValue("suid", ""),
		EndUserSessionID: reply.SelectAttrValue("euid", ""),
		Supplier:         supplierName,
		Proxy:            proxy,
		Patients:         patients,
	}
	if err := response.Validate(); err != nil {
		return nil, err
	}
	return &response, nil
}

// personName reads the demographic attributes off a Person's PersonName element.
func personName(person *etree.Element) forward.Demographics {
	name := person.FindElement("PersonName")
	if name == nil {
		return forward.Demographics{}
	}
	return forward.Demographics{
		FirstName: name.SelectAttrValue("firstName", ""),
		Surname:   name.SelectAttrValue("surname", ""),
		Title:     name.SelectAttrValue("title", ""),
	}
}

// serviceAccessRecords collects the EffectiveServiceAccess/ServiceAccess
// entries under a Person element.
func serviceAccessRecords(person *etree.Element) []ServiceAccess {
	var records []ServiceAccess
	for _, entry := range person.FindElements("EffectiveServiceAccess/ServiceAccess") {
		serviceIdentifier, _ := strconv.Atoi(entry.SelectAttrValue("serviceIdentifier", "0"))
		records = append(records, ServiceAccess{
			Description:       entry.SelectAttrValue("description", ""),
			ServiceIdentifier: serviceIdentifier,
			Status:            entry.SelectAttrValue("status", ""),
			StatusDescription: entry.SelectAttrValue("statusDesc", ""),
		})
	}
	return records
}

// mapPermissions translates TPP's service-access records into the canonical
// permission model. Each canonical field maps to exactly one named service and
// is true only when that service's status is "A" (Available):
//
//	bookAppointments             <- Appointments
//	changePharmacy               <- Change Pharmacy
//	messagePractice              <- Messaging
//	provideInformationToPractice <- Questionnaires
//	requestMedication            <- Request Medication
//	accessSystemConnect          <- Access SystmConnect
//	view.medicalRecord           <- Full Clinical Record
//	view.summaryMedicalRecord    <- Summary Record
//	view.<coded sections>        <- Detailed Coded Record
//	view.recordAudit             <- Record Audit
//	view.recordSharing           <- View Sharing Status
//
// TPP has no demographics-update or online-triage service, so those fields
// are always false.
func mapPermissions(records []ServiceAccess) forward.Permissions {
	available := make(map[string]bool, len(records))
	for _, record := range records {
		if record.Available() {
			available[record.Description] = true
		}
	}

	detailedCodedRecord := available[ServiceDetailedCodedRecord]
	return forward.Permissions{
		AccessSystemConnect:          available[ServiceAccessSystmConnect],
		BookAppointments:             available[ServiceAppointments],
		ChangePharmacy:               available[ServiceChangePharmacy],
		MessagePractice:              available[ServiceMessaging],
		ProvideInformationToPractice: available[ServiceQuestionnaires],
		RequestMedication:            available[ServiceRequestMedication],
		UpdateDemographics:           false,
		ManageOnlineTriage:           false,
		View: forward.ViewPermissions{
			MedicalRecord:              available[ServiceFullClinicalRecord],
			SummaryMedicalRecord:       available[ServiceSummaryRecord],
			AllergiesMedicalRecord:     detailedCodedRecord,
			ConsultationsMedicalRecord: detailedCodedRecord,
			ImmunisationsMedicalRecord: detailedCodedRecord,
			DocumentsMedicalRecord:     detailedCodedRecord,
			MedicationMedicalRecord:    detailedCodedRecord,
			ProblemsMedicalRecord:      detailedCodedRecord,
			TestResultsMedicalRecord:   detailedCodedRecord,
			RecordAudit:                available[ServiceRecordAudit],
			RecordSharing:              available[ServiceViewSharingStatus],
		},
	}
}
