package callrecord

import (
	"testing"
	"time"

	"github.com/josericardo-fo/jul.ia-bancodedados/internal/synthetic"
	"github.com/stretchr/testify/require"
)

func TestFromSynthetic(t *testing.T) {
	rating := 8
	start := time.Date(2026, time.February, 3, 10, 0, 0, 0, time.UTC)

	record := synthetic.CallRecord{
		ID:          42,
		PhoneNumber: "+55 11 91234-5678",
		StartTime:   start,
		EndTime:     start.Add(7 * time.Minute),
		CallStatus:  synthetic.StatusIncomplete,
		Transcript: synthetic.Transcript{
			UserLines:   []string{"Olá."},
			SystemLines: []string{"Bom dia.", "Como posso ajudar."},
		},
		Service:  synthetic.ServiceInformation,
		Reviewed: true,
		Rating:   &rating,
	}

	row := FromSynthetic("1c8f5a6e-0000-4000-8000-000000000001", &record)

	require.Equal(t, "1c8f5a6e-0000-4000-8000-000000000001", row.RunID)
	require.Equal(t, 42, row.CallID)
	require.Equal(t, "incomplete", row.CallStatus)
	require.Equal(t, "information", row.Service)
	require.Equal(t, record.Transcript, row.Transcript.Data())
	require.Equal(t, 8, *row.Rating)
	require.Equal(t, "call_records", row.TableName())
}
