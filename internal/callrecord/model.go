package callrecord

import (
	"time"

	"github.com/josericardo-fo/jul.ia-bancodedados/internal/synthetic"
	"gorm.io/datatypes"
)

type CallRecord struct {
	RunID       string                                   `gorm:"column:run_id;type:uuid;primaryKey"`
	CallID      int                                      `gorm:"column:call_id;primaryKey;autoIncrement:false"`
	PhoneNumber string                                   `gorm:"column:phone_number;type:varchar(20);not null"`
	StartTime   time.Time                                `gorm:"column:start_time;type:timestamptz;not null"`
	EndTime     time.Time                                `gorm:"column:end_time;type:timestamptz;not null"`
	CallStatus  string                                   `gorm:"column:call_status;type:varchar(20);not null;index"`
	Transcript  datatypes.JSONType[synthetic.Transcript] `gorm:"column:transcript;type:jsonb;not null"`
	Service     string                                   `gorm:"column:service;type:varchar(20);not null"`
	Reviewed    bool                                     `gorm:"column:reviewed;not null"`
	Rating      *int                                     `gorm:"column:rating;type:smallint"`
	CreatedAt   time.Time                                `gorm:"column:created_at;autoCreateTime"`
}

func (CallRecord) TableName() string {
	return "call_records"
}

func FromSynthetic(runID string, record *synthetic.CallRecord) CallRecord {
	return CallRecord{
		RunID:       runID,
		CallID:      record.ID,
		PhoneNumber: record.PhoneNumber,
		StartTime:   record.StartTime,
		EndTime:     record.EndTime,
		CallStatus:  string(record.CallStatus),
		Transcript:  datatypes.NewJSONType(record.Transcript),
		Service:     string(record.Service),
		Reviewed:    record.Reviewed,
		Rating:      record.Rating,
	}
}
