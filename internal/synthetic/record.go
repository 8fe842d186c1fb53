package synthetic

import "time"

type CallStatus string

const (
	StatusComplete   CallStatus = "complete"
	StatusIncomplete CallStatus = "incomplete"
	StatusFailure    CallStatus = "failure"
)

type Service string

const (
	ServiceScheduling  Service = "scheduling"
	ServiceInformation Service = "information"
)

// Transcript holds the two sides of a conversation in the order they were generated.
type Transcript struct {
	UserLines   []string `bson:"userLines"   json:"userLines"`
	SystemLines []string `bson:"systemLines" json:"systemLines"`
}

// CallRecord is one synthetic phone call. Rating is nil unless Reviewed is true.
type CallRecord struct {
	ID          int        `bson:"id"          json:"id"`
	PhoneNumber string     `bson:"phoneNumber" json:"phoneNumber"`
	StartTime   time.Time  `bson:"startTime"   json:"startTime"`
	EndTime     time.Time  `bson:"endTime"     json:"endTime"`
	CallStatus  CallStatus `bson:"callStatus"  json:"callStatus"`
	Transcript  Transcript `bson:"transcript"  json:"transcript"`
	Service     Service    `bson:"service"     json:"service"`
	Reviewed    bool       `bson:"reviewed"    json:"reviewed"`
	Rating      *int       `bson:"rating"      json:"rating"`
}

func (r *CallRecord) Duration() time.Duration {
	return r.EndTime.Sub(r.StartTime)
}
