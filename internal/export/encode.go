package export

import (
	"bytes"
	"errors"
	"fmt"
	"io"

	"github.com/goccy/go-json"
	"github.com/josericardo-fo/jul.ia-bancodedados/internal/config"
	"github.com/josericardo-fo/jul.ia-bancodedados/internal/synthetic"
	"github.com/vmihailenco/msgpack/v5"
)

type Locale string

const (
	LocaleEnglish    Locale = "en"
	LocalePortuguese Locale = "pt_BR"
)

const (
	naiveTimestamp = "2006-01-02T15:04:05"
	jsonIndent     = "    "
)

var ErrUnknownLocale = errors.New("unknown output locale")

var statusPortuguese = map[synthetic.CallStatus]string{
	synthetic.StatusComplete:   "completa",
	synthetic.StatusIncomplete: "incompleta",
	synthetic.StatusFailure:    "falha",
}

var servicePortuguese = map[synthetic.Service]string{
	synthetic.ServiceScheduling:  "agendamento",
	synthetic.ServiceInformation: "informação",
}

type historicoMensagens struct {
	Usuario []string `json:"usuario"`
	Sistema []string `json:"sistema"`
}

// chamada is the Portuguese layout of a record, with local timestamps that
// carry no offset.
type chamada struct {
	IDChamada          int                `json:"id_chamada"`
	NumeroTelefone     string             `json:"numero_telefone"`
	HoraInicio         string             `json:"hora_inicio"`
	HoraFim            string             `json:"hora_fim"`
	StatusChamada      string             `json:"status_chamada"`
	HistoricoMensagens historicoMensagens `json:"historico_mensagens"`
	Servico            string             `json:"servico"`
	Avaliada           bool               `json:"avaliada"`
	Avaliacao          *int               `json:"avaliacao"`
}

func ParseLocale(value string) (Locale, error) {
	switch locale := Locale(value); locale {
	case LocaleEnglish, LocalePortuguese:
		return locale, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownLocale, value)
	}
}

// document returns the value serialized for record under locale.
func document(record *synthetic.CallRecord, locale Locale) any {
	if locale != LocalePortuguese {
		return record
	}

	return chamada{
		IDChamada:      record.ID,
		NumeroTelefone: record.PhoneNumber,
		HoraInicio:     record.StartTime.Format(naiveTimestamp),
		HoraFim:        record.EndTime.Format(naiveTimestamp),
		StatusChamada:  statusPortuguese[record.CallStatus],
		HistoricoMensagens: historicoMensagens{
			Usuario: record.Transcript.UserLines,
			Sistema: record.Transcript.SystemLines,
		},
		Servico:   servicePortuguese[record.Service],
		Avaliada:  record.Reviewed,
		Avaliacao: record.Rating,
	}
}

// WriteDocument writes records as one indented JSON array. Non-ASCII text is
// kept as UTF-8.
func WriteDocument(w io.Writer, records []synthetic.CallRecord, locale Locale) error {
	documents := make([]any, len(records))
	for indx := range records {
		documents[indx] = document(&records[indx], locale)
	}

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", jsonIndent)
	encoder.SetEscapeHTML(false)

	return encoder.Encode(documents)
}

// MarshalDocument is WriteDocument into a buffer.
func MarshalDocument(records []synthetic.CallRecord, locale Locale) (*bytes.Buffer, error) {
	buffer := new(bytes.Buffer)

	err := WriteDocument(buffer, records, locale)
	if err != nil {
		return nil, err
	}

	return buffer, nil
}

// MarshalRecord encodes one record as a message payload.
func MarshalRecord(record *synthetic.CallRecord, locale Locale, encoding string) ([]byte, error) {
	value := document(record, locale)

	if encoding != config.EncodingMsgpack {
		return json.Marshal(value)
	}

	var buffer bytes.Buffer

	encoder := msgpack.NewEncoder(&buffer)
	encoder.SetCustomStructTag("json")

	err := encoder.Encode(value)
	if err != nil {
		return nil, err
	}

	return buffer.Bytes(), nil
}
