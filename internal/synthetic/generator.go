// Package synthetic builds reproducible synthetic call-center records.
//
// A Generator advances one pseudo-random stream. Each record consumes it in a
// fixed order: area code, subscriber digits, start second, call minutes,
// status, system line count, line count delta, user sentences, system
// sentences, service, reviewed flag and, only for reviewed calls, the rating.
// Reordering these draws changes every record produced for a given seed.
package synthetic

import (
	"errors"
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/brianvoe/gofakeit/v7"
)

var (
	ErrInvalidCount  = errors.New("record count must be positive")
	ErrInvalidWindow = errors.New("generation window must end after it starts")
)

const (
	minCallMinutes = 1
	maxCallMinutes = 30

	minSystemLines = 5
	maxSystemLines = 15

	minRating = 1
	maxRating = 10

	subscriberDigits = 100_000_000
	subscriberSplit  = 10_000

	// second PCG word, fixed so a seed alone identifies the stream
	streamSequence = 0x5851f42d4c957f2d
)

var (
	DefaultStatusWeights   = []float64{0.70, 0.25, 0.05}
	DefaultServiceWeights  = []float64{0.775, 0.225}
	DefaultReviewedWeights = []float64{0.60, 0.40}
)

// Window is the half-open interval [From, To) start times are drawn from.
type Window struct {
	From time.Time
	To   time.Time
}

// CalendarYear covers the whole year containing now, in now's location.
func CalendarYear(now time.Time) Window {
	from := time.Date(now.Year(), time.January, 1, 0, 0, 0, 0, now.Location())

	return Window{From: from, To: from.AddDate(1, 0, 0)}
}

// YearToDate covers January 1st up to now. At the very first second of the
// year the window still spans one second.
func YearToDate(now time.Time) Window {
	window := CalendarYear(now)
	window.To = now

	if window.To.Sub(window.From) < time.Second {
		window.To = window.From.Add(time.Second)
	}

	return window
}

type options struct {
	window          *Window
	location        *time.Location
	statusWeights   []float64
	serviceWeights  []float64
	reviewedWeights []float64
}

type Option func(*options)

func WithWindow(window Window) Option {
	return func(o *options) {
		o.window = &window
	}
}

// WithLocation sets the zone timestamps are expressed in and, when no window is
// given, the zone whose current year is used.
func WithLocation(loc *time.Location) Option {
	return func(o *options) {
		o.location = loc
	}
}

// WithStatusWeights overrides the complete, incomplete, failure weights.
func WithStatusWeights(weights ...float64) Option {
	return func(o *options) {
		o.statusWeights = weights
	}
}

// WithServiceWeights overrides the scheduling, information weights.
func WithServiceWeights(weights ...float64) Option {
	return func(o *options) {
		o.serviceWeights = weights
	}
}

// WithReviewedWeights overrides the reviewed, not reviewed weights.
func WithReviewedWeights(weights ...float64) Option {
	return func(o *options) {
		o.reviewedWeights = weights
	}
}

type Generator struct {
	rng      *rand.Rand
	faker    *gofakeit.Faker
	window   Window
	span     int64
	location *time.Location
	statuses *Weighted[CallStatus]
	services *Weighted[Service]
	reviewed *Weighted[bool]
}

// NewStream returns the pseudo-random source Generate uses for seed.
func NewStream(seed int64) rand.Source {
	return rand.NewPCG(uint64(seed), streamSequence)
}

// NewGenerator validates the configuration before taking any draw from src.
// src is owned by the caller and must not be shared with other goroutines.
func NewGenerator(src rand.Source, opts ...Option) (*Generator, error) {
	cfg := options{
		location:        time.UTC,
		statusWeights:   DefaultStatusWeights,
		serviceWeights:  DefaultServiceWeights,
		reviewedWeights: DefaultReviewedWeights,
	}

	for _, opt := range opts {
		opt(&cfg)
	}

	statuses, err := NewWeighted(
		[]CallStatus{StatusComplete, StatusIncomplete, StatusFailure},
		cfg.statusWeights,
	)
	if err != nil {
		return nil, fmt.Errorf("call status: %w", err)
	}

	services, err := NewWeighted([]Service{ServiceScheduling, ServiceInformation}, cfg.serviceWeights)
	if err != nil {
		return nil, fmt.Errorf("service: %w", err)
	}

	reviewed, err := NewWeighted([]bool{true, false}, cfg.reviewedWeights)
	if err != nil {
		return nil, fmt.Errorf("reviewed: %w", err)
	}

	window := CalendarYear(time.Now().In(cfg.location))
	if cfg.window != nil {
		window = *cfg.window
	}

	span := int64(window.To.Sub(window.From) / time.Second)
	if span <= 0 {
		return nil, fmt.Errorf("%w: %s - %s", ErrInvalidWindow, window.From, window.To)
	}

	return &Generator{
		rng:      rand.New(src),
		faker:    gofakeit.NewFaker(src, false),
		window:   window,
		span:     span,
		location: cfg.location,
		statuses: statuses,
		services: services,
		reviewed: reviewed,
	}, nil
}

// Generate builds count records on a fresh stream seeded with seed.
func Generate(count int, seed int64, opts ...Option) ([]CallRecord, error) {
	if count <= 0 {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidCount, count)
	}

	generator, err := NewGenerator(NewStream(seed), opts...)
	if err != nil {
		return nil, err
	}

	return generator.Generate(count)
}

func (g *Generator) Window() Window {
	return g.window
}

// Generate returns count records with ids 1..count, continuing the stream.
func (g *Generator) Generate(count int) ([]CallRecord, error) {
	if count <= 0 {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidCount, count)
	}

	records := make([]CallRecord, 0, count)
	for indx := range count {
		records = append(records, g.next(indx+1))
	}

	return records, nil
}

func (g *Generator) next(id int) CallRecord {
	phoneNumber := g.phoneNumber()
	startTime := g.startTime()
	endTime := startTime.Add(time.Duration(g.intBetween(minCallMinutes, maxCallMinutes)) * time.Minute)
	status := g.statuses.Draw(g.rng)
	transcript := g.transcript()
	service := g.services.Draw(g.rng)
	reviewed := g.reviewed.Draw(g.rng)

	var rating *int

	if reviewed {
		value := g.intBetween(minRating, maxRating)
		rating = &value
	}

	return CallRecord{
		ID:          id,
		PhoneNumber: phoneNumber,
		StartTime:   startTime,
		EndTime:     endTime,
		CallStatus:  status,
		Transcript:  transcript,
		Service:     service,
		Reviewed:    reviewed,
		Rating:      rating,
	}
}

func (g *Generator) phoneNumber() string {
	ddd := validDDD[g.rng.IntN(len(validDDD))]
	subscriber := g.rng.IntN(subscriberDigits)

	return fmt.Sprintf("+55 %s 9%04d-%04d", ddd, subscriber/subscriberSplit, subscriber%subscriberSplit)
}

func (g *Generator) startTime() time.Time {
	offset := g.rng.Int64N(g.span)

	return g.window.From.Add(time.Duration(offset) * time.Second).In(g.location)
}

// transcript may produce one user line fewer than minSystemLines.
func (g *Generator) transcript() Transcript {
	systemCount := g.intBetween(minSystemLines, maxSystemLines)
	userCount := systemCount + g.rng.IntN(3) - 1

	return Transcript{
		UserLines:   g.sentences(userCount),
		SystemLines: g.sentences(systemCount),
	}
}

func (g *Generator) intBetween(low, high int) int {
	return low + g.rng.IntN(high-low+1)
}
