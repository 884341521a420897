package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestActionArgumentsMarshalOrder(t *testing.T) {
	app := &Application{ID: 42, CustomerID: 7, Variant: VariantLegacy}
	transition := NewStatusTransition(app, StatusLenderApproval, StatusBankNameValidated, "r", "n")

	payload, err := json.Marshal(transition.Arguments())
	require.NoError(t, err)

	assert.JSONEq(t, `[42, 172, "r", "n", 160]`, string(payload))
}

func TestActionArgumentsRoundTrip(t *testing.T) {
	args := ActionArguments{
		ApplicationID: 99,
		NewStatusCode: StatusDocumentsVerified,
		ChangeReason:  "system_triggered",
		Note:          "",
		OldStatusCode: StatusScrapedDataVerified,
	}

	payload, err := json.Marshal(args)
	require.NoError(t, err)

	var decoded ActionArguments
	require.NoError(t, json.Unmarshal(payload, &decoded))

	assert.Equal(t, args, decoded)
}

func TestActionArgumentsUnmarshalRejectsWrongArity(t *testing.T) {
	tests := []struct {
		name    string
		payload string
	}{
		{name: "too few", payload: `[42, 172, "r", "n"]`},
		{name: "too many", payload: `[42, 172, "r", "n", 160, 1]`},
		{name: "not an array", payload: `{"application_id": 42}`},
		{name: "wrong element type", payload: `[42, "172", "r", "n", 160]`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var decoded ActionArguments

			assert.Error(t, json.Unmarshal([]byte(tt.payload), &decoded))
		})
	}
}
