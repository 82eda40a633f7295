package forward

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResponse_Validate(t *testing.T) {
	valid := Response{
		SessionID: "session-1",
		Supplier:  "EMIS",
		Proxy:     Demographics{FirstName: "Alex", Surname: "Taylor"},
		Patients:  []Patient{{Demographics: Demographics{FirstName: "Jane"}}},
	}

	t.Run("ok", func(t *testing.T) {
		assert.NoError(t, valid.Validate())
	})
	t.Run("missing session id", func(t *testing.T) {
		response := valid
		response.SessionID = ""

		assert.EqualError(t, response.Validate(), "supplier EMIS returned no session id")
	})
	t.Run("missing proxy demographics", func(t *testing.T) {
		response := valid
		response.Proxy = Demographics{Title: "Mr"}

		assert.EqualError(t, response.Validate(), "supplier EMIS returned no proxy demographics")
	})
	t.Run("proxy with only a surname is accepted", func(t *testing.T) {
		response := valid
		response.Proxy = Demographics{Surname: "Taylor"}

		assert.NoError(t, response.Validate())
	})
	t.Run("no patient links", func(t *testing.T) {
		response := valid
		response.Patients = nil

		assert.EqualError(t, response.Validate(), "supplier EMIS returned no patient links")
	})
}

func TestResponse_JSONShape(t *testing.T) {
	response := Response{
		SessionID: "session-1",
		Supplier:  "TPP",
		Proxy:     Demographics{FirstName: "Sam", Surname: "Jones", Title: "Mr"},
		Patients: []Patient{{
			Demographics: Demographics{FirstName: "Clare", Surname: "Jones", Title: "Mrs"},
			Permissions:  Permissions{BookAppointments: true, View: ViewPermissions{MedicalRecord: true}},
		}},
	}

	raw, err := json.Marshal(response)
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(raw, &decoded))
	// endUserSessionId is omitted when the supplier does not report one.
	assert.NotContains(t, decoded, "endUserSessionId")

	patients, ok := decoded["patients"].([]any)
	require.True(t, ok)
	require.Len(t, patients, 1)
	patient, ok := patients[0].(map[string]any)
	require.True(t, ok)
	// Demographics are flattened onto the patient object.
	assert.Equal(t, "Clare", patient["firstName"])
	assert.NotContains(t, patient, "demographics")
}
