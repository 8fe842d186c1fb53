package synthetic

import (
	"fmt"
	"math/rand/v2"
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var phonePattern = regexp.MustCompile(`^\+55 (\d{2}) 9\d{4}-\d{4}$`)

func fixedWindow() Option {
	return WithWindow(CalendarYear(time.Date(2026, time.June, 1, 12, 0, 0, 0, time.UTC)))
}

func TestGenerateIDsAreContiguous(t *testing.T) {
	records, err := Generate(250, 7, fixedWindow())
	require.NoError(t, err)
	require.Len(t, records, 250)

	for indx, record := range records {
		require.Equal(t, indx+1, record.ID)
	}
}

func TestGenerateFieldInvariants(t *testing.T) {
	window := CalendarYear(time.Date(2026, time.June, 1, 12, 0, 0, 0, time.UTC))

	records, err := Generate(2000, 4321, WithWindow(window))
	require.NoError(t, err)

	for _, record := range records {
		match := phonePattern.FindStringSubmatch(record.PhoneNumber)
		require.NotNil(t, match, "malformed phone number %q", record.PhoneNumber)
		assert.True(t, IsValidDDD(match[1]), "unknown DDD in %q", record.PhoneNumber)

		assert.False(t, record.StartTime.Before(window.From))
		assert.True(t, record.StartTime.Before(window.To))

		duration := record.Duration()
		assert.Zero(t, duration%time.Minute)
		assert.GreaterOrEqual(t, duration, time.Minute)
		assert.LessOrEqual(t, duration, 30*time.Minute)

		systemLines := len(record.Transcript.SystemLines)
		userLines := len(record.Transcript.UserLines)
		assert.GreaterOrEqual(t, systemLines, 5)
		assert.LessOrEqual(t, systemLines, 15)
		assert.LessOrEqual(t, abs(userLines-systemLines), 1)

		if record.Reviewed {
			require.NotNil(t, record.Rating)
			assert.GreaterOrEqual(t, *record.Rating, 1)
			assert.LessOrEqual(t, *record.Rating, 10)
		} else {
			assert.Nil(t, record.Rating)
		}

		assert.Contains(t, []CallStatus{StatusComplete, StatusIncomplete, StatusFailure}, record.CallStatus)
		assert.Contains(t, []Service{ServiceScheduling, ServiceInformation}, record.Service)
	}
}

func TestGenerateIsDeterministic(t *testing.T) {
	first, err := Generate(300, 4321, fixedWindow())
	require.NoError(t, err)

	second, err := Generate(300, 4321, fixedWindow())
	require.NoError(t, err)

	require.Equal(t, first, second)

	other, err := Generate(300, 4322, fixedWindow())
	require.NoError(t, err)
	require.NotEqual(t, first, other)
}

func TestGeneratorContinuesStream(t *testing.T) {
	generator, err := NewGenerator(NewStream(99), fixedWindow())
	require.NoError(t, err)

	first, err := generator.Generate(5)
	require.NoError(t, err)

	second, err := generator.Generate(5)
	require.NoError(t, err)

	require.Equal(t, 1, second[0].ID)
	require.NotEqual(t, first, second)
}

func TestGenerateDistribution(t *testing.T) {
	const count = 10000

	records, err := Generate(count, 4321, fixedWindow())
	require.NoError(t, err)

	statuses := map[CallStatus]int{}
	services := map[Service]int{}
	reviewed := 0

	for _, record := range records {
		statuses[record.CallStatus]++
		services[record.Service]++

		if record.Reviewed {
			reviewed++
		}
	}

	share := func(n int) float64 { return float64(n) / count }

	assert.InDelta(t, 0.70, share(statuses[StatusComplete]), 0.03)
	assert.InDelta(t, 0.25, share(statuses[StatusIncomplete]), 0.03)
	assert.InDelta(t, 0.05, share(statuses[StatusFailure]), 0.02)
	assert.InDelta(t, 0.775, share(services[ServiceScheduling]), 0.03)
	assert.InDelta(t, 0.60, share(reviewed), 0.03)
}

func TestGenerateSingleRecord(t *testing.T) {
	records, err := Generate(1, 1)
	require.NoError(t, err)
	require.Len(t, records, 1)

	record := records[0]
	require.Equal(t, 1, record.ID)
	require.Regexp(t, phonePattern, record.PhoneNumber)
	require.True(t, record.EndTime.After(record.StartTime))
	require.Equal(t, time.Now().UTC().Year(), record.StartTime.Year())

	if record.Rating != nil {
		require.True(t, record.Reviewed)
		require.GreaterOrEqual(t, *record.Rating, 1)
		require.LessOrEqual(t, *record.Rating, 10)
	}
}

func TestGenerateRejectsNonPositiveCount(t *testing.T) {
	for _, count := range []int{0, -1} {
		records, err := Generate(count, 1)
		require.ErrorIs(t, err, ErrInvalidCount)
		require.Nil(t, records)
	}

	generator, err := NewGenerator(NewStream(1))
	require.NoError(t, err)

	_, err = generator.Generate(0)
	require.ErrorIs(t, err, ErrInvalidCount)
}

func TestNewGeneratorRejectsBadConfiguration(t *testing.T) {
	_, err := NewGenerator(NewStream(1), WithStatusWeights(0.5, 0.5))
	require.ErrorIs(t, err, ErrInvalidWeights)

	_, err = NewGenerator(NewStream(1), WithServiceWeights(0, 0))
	require.ErrorIs(t, err, ErrInvalidWeights)

	_, err = NewGenerator(NewStream(1), WithReviewedWeights(1, -1))
	require.ErrorIs(t, err, ErrInvalidWeights)

	now := time.Now()
	_, err = NewGenerator(NewStream(1), WithWindow(Window{From: now, To: now}))
	require.ErrorIs(t, err, ErrInvalidWindow)
}

func TestWithLocationConvertsTimestamps(t *testing.T) {
	saoPaulo := time.FixedZone("BRT", -3*60*60)

	records, err := Generate(10, 3, WithLocation(saoPaulo))
	require.NoError(t, err)

	for _, record := range records {
		require.Equal(t, saoPaulo, record.StartTime.Location())
		require.Equal(t, time.Now().In(saoPaulo).Year(), record.StartTime.Year())
	}
}

func TestYearToDateEndsAtNow(t *testing.T) {
	now := time.Date(2026, time.March, 10, 8, 30, 0, 0, time.UTC)
	window := YearToDate(now)

	require.Equal(t, time.Date(2026, time.January, 1, 0, 0, 0, 0, time.UTC), window.From)
	require.Equal(t, now, window.To)

	records, err := Generate(500, 11, WithWindow(window))
	require.NoError(t, err)

	for _, record := range records {
		require.True(t, record.StartTime.Before(now))
	}
}

func TestYearToDateAtNewYearKeepsOneSecond(t *testing.T) {
	newYear := time.Date(2027, time.January, 1, 0, 0, 0, 0, time.UTC)

	for _, now := range []time.Time{newYear, newYear.Add(500 * time.Millisecond)} {
		window := YearToDate(now)
		require.Equal(t, newYear, window.From)
		require.Equal(t, newYear.Add(time.Second), window.To)

		records, err := Generate(3, 1, WithWindow(window))
		require.NoError(t, err)

		for _, record := range records {
			require.Equal(t, newYear, record.StartTime)
		}
	}
}

// pick mirrors the cumulative lookup for a single uniform draw u in [0, 1).
func pick(u float64, weights []float64) int {
	var total float64
	for _, weight := range weights {
		total += weight
	}

	target := u * total

	var bound float64

	for indx, weight := range weights {
		bound += weight
		if target < bound {
			return indx
		}
	}

	return len(weights) - 1
}

// TestGenerateFollowsDrawOrder rebuilds records by hand from a parallel stream
// consumed in the documented order. Moving any draw breaks the comparison.
func TestGenerateFollowsDrawOrder(t *testing.T) {
	const seed = 4321

	window := CalendarYear(time.Date(2026, time.June, 1, 12, 0, 0, 0, time.UTC))

	records, err := Generate(3, seed, WithWindow(window))
	require.NoError(t, err)

	src := NewStream(seed)
	rng := rand.New(src)
	faker := gofakeit.NewFaker(src, false)

	span := int64(window.To.Sub(window.From) / time.Second)
	require.Equal(t, int64(365*24*60*60), span)

	sentences := func(count int) []string {
		lines := make([]string, count)
		for indx := range lines {
			words := make([]string, 3+rng.IntN(6))
			for word := range words {
				words[word] = faker.Word()
			}

			lines[indx] = capitalize(strings.Join(words, " ")) + "."
		}

		return lines
	}

	statuses := []CallStatus{StatusComplete, StatusIncomplete, StatusFailure}
	services := []Service{ServiceScheduling, ServiceInformation}

	for indx := range 3 {
		ddd := validDDD[rng.IntN(len(validDDD))]
		subscriber := rng.IntN(100_000_000)
		phone := fmt.Sprintf("+55 %s 9%04d-%04d", ddd, subscriber/10_000, subscriber%10_000)

		start := window.From.Add(time.Duration(rng.Int64N(span)) * time.Second).In(time.UTC)
		end := start.Add(time.Duration(1+rng.IntN(30)) * time.Minute)
		status := statuses[pick(rng.Float64(), DefaultStatusWeights)]

		systemCount := 5 + rng.IntN(11)
		userCount := systemCount + rng.IntN(3) - 1
		userLines := sentences(userCount)
		systemLines := sentences(systemCount)

		service := services[pick(rng.Float64(), DefaultServiceWeights)]
		reviewed := pick(rng.Float64(), DefaultReviewedWeights) == 0

		var rating *int

		if reviewed {
			value := 1 + rng.IntN(10)
			rating = &value
		}

		require.Equal(t, CallRecord{
			ID:          indx + 1,
			PhoneNumber: phone,
			StartTime:   start,
			EndTime:     end,
			CallStatus:  status,
			Transcript:  Transcript{UserLines: userLines, SystemLines: systemLines},
			Service:     service,
			Reviewed:    reviewed,
			Rating:      rating,
		}, records[indx], "record %d", indx+1)
	}

	// Nothing else was drawn after the third record.
	generator, err := NewGenerator(NewStream(seed), WithWindow(window))
	require.NoError(t, err)
	_, err = generator.Generate(3)
	require.NoError(t, err)
	require.Equal(t, rng.Uint64(), generator.rng.Uint64())
}

func TestSentencesAreCapitalizedAndTerminated(t *testing.T) {
	records, err := Generate(20, 5, fixedWindow())
	require.NoError(t, err)

	for _, record := range records {
		for _, line := range append(record.Transcript.UserLines, record.Transcript.SystemLines...) {
			require.NotEmpty(t, line)
			require.True(t, line[len(line)-1] == '.', "sentence %q is not terminated", line)
		}
	}
}

func abs(n int) int {
	if n < 0 {
		return -n
	}

	return n
}
