package dto

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	helper "eventhub_backend/internals/helpers"
	"eventhub_backend/internals/helpers/apperr"
)

func TestCreateEventRequestValidate(t *testing.T) {
	v := helper.NewValidator()

	ok := CreateEventRequest{EventTitle: "T", EventDate: "2030-01-01", EventTime: "09:30", EventVenue: "V", EventCapacity: 1}
	ok.Normalize()
	require.NoError(t, ok.Validate(v))
	assert.Equal(t, "ACTIVE", string(ok.ToModel().EventStatus))

	bad := CreateEventRequest{EventTitle: "", EventDate: "01/02/2030", EventTime: "9pm", EventVenue: "V", EventCapacity: 0, EventStatus: "open"}
	bad.Normalize()
	err := bad.Validate(v)
	var ae *apperr.Error
	require.ErrorAs(t, err, &ae)
	for _, f := range []string{"event_title", "event_date", "event_time", "event_capacity", "event_status"} {
		assert.Contains(t, ae.Details, f)
	}
}

func TestPatchEventRequestValidatePartial(t *testing.T) {
	v := helper.NewValidator()

	p := PatchEventRequest{EventCapacity: helper.Set(0), EventTime: helper.Set("25:00")}
	p.Normalize()
	err := p.ValidatePartial(v)
	var ae *apperr.Error
	require.ErrorAs(t, err, &ae)
	assert.Contains(t, ae.Details, "event_capacity")
	assert.Contains(t, ae.Details, "event_time")

	p = PatchEventRequest{EventStatus: helper.Set("completed")}
	p.Normalize()
	assert.NoError(t, p.ValidatePartial(v))
	assert.Equal(t, "COMPLETED", *p.EventStatus.Value)

	// title cannot be nulled
	p = PatchEventRequest{}
	require.NoError(t, p.EventTitle.UnmarshalJSON([]byte("null")))
	assert.Error(t, p.ValidatePartial(v))
}
