package export

import (
	"time"

	"github.com/josericardo-fo/jul.ia-bancodedados/internal/synthetic"
)

func sampleRecords() []synthetic.CallRecord {
	start := time.Date(2024, time.June, 12, 14, 30, 5, 0, time.FixedZone("BRT", -3*60*60))
	rating := 9

	return []synthetic.CallRecord{
		{
			ID:          1,
			PhoneNumber: "+55 11 91234-5678",
			StartTime:   start,
			EndTime:     start.Add(12 * time.Minute),
			CallStatus:  synthetic.StatusComplete,
			Transcript: synthetic.Transcript{
				UserLines:   []string{"Quero marcar uma consulta."},
				SystemLines: []string{"Claro, qual horário?", "Agendado <amanhã> & confirmado."},
			},
			Service:  synthetic.ServiceScheduling,
			Reviewed: true,
			Rating:   &rating,
		},
		{
			ID:          2,
			PhoneNumber: "+55 98 99876-5432",
			StartTime:   start.Add(time.Hour),
			EndTime:     start.Add(time.Hour + time.Minute),
			CallStatus:  synthetic.StatusIncomplete,
			Transcript: synthetic.Transcript{
				UserLines:   []string{"Qual o endereço?"},
				SystemLines: []string{"Rua da Informação."},
			},
			Service: synthetic.ServiceInformation,
		},
	}
}
