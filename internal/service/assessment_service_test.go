package service

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"careerai/internal/classifier"
	"careerai/internal/domain"
	"careerai/internal/session"
	"careerai/internal/voice"
)

func authed(username string) *session.Session {
	s := session.New()
	s.Authenticate(username)
	return s
}

func stepClock(start time.Time, step time.Duration) func() time.Time {
	now := start
	return func() time.Time {
		now = now.Add(step)
		return now
	}
}

func adviceCodes(advice []Advice) []string {
	codes := make([]string, len(advice))
	for i, a := range advice {
		codes[i] = a.Code
	}
	return codes
}

func TestRecommendThresholds(t *testing.T) {
	strong := Recommend(domain.Scores{Logical: 95, Coding: 96, Communication: 40, Creativity: 30})
	assert.Contains(t, adviceCodes(strong), AdviceExcellenceAlert)
	assert.NotContains(t, adviceCodes(strong), AdviceCodingWeakness)
	assert.Contains(t, adviceCodes(strong), AdviceCommunicationWeakness)
	for _, a := range strong {
		if a.Code == AdviceExcellenceAlert {
			assert.Contains(t, a.Message, "Excellence Alert")
		}
	}

	creative := Recommend(domain.Scores{Logical: 50, Coding: 20, Communication: 85, Creativity: 90})
	assert.Equal(t, []string{AdviceCodingWeakness}, adviceCodes(creative))

	edge := Recommend(domain.Scores{Logical: 80, Coding: 60, Communication: 60, Creativity: 0})
	assert.Empty(t, edge)
}

func TestBenchmarkAndRadar(t *testing.T) {
	s := domain.Scores{Logical: 1, Coding: 2, Communication: 3, Creativity: 4}

	radar := Radar(s)
	require.Len(t, radar, 4)
	assert.Equal(t, RadarPoint{Axis: "Comm", Value: 3}, radar[2])

	bench := Benchmark(s)
	assert.Equal(t, []BenchmarkPoint{
		{Metric: "Logic", YourScore: 1, IndustryAvg: 75},
		{Metric: "Coding", YourScore: 2, IndustryAvg: 70},
		{Metric: "Comm", YourScore: 3, IndustryAvg: 65},
		{Metric: "Crea", YourScore: 4, IndustryAvg: 60},
	}, bench)
}

func TestAnalyzePersistsAndAnnounces(t *testing.T) {
	ctx := context.Background()
	records := &fakeRecords{}
	announcer := &fakeAnnouncer{}
	start := time.Date(2026, 10, 1, 12, 0, 0, 0, time.UTC)
	svc := NewAssessmentService(records, fixedPredictor{label: "Backend Dev"}, announcer, AssessmentConfig{
		Clock: stepClock(start, time.Second),
	})

	scores := domain.Scores{Logical: 95, Coding: 96, Communication: 40, Creativity: 30}
	got, err := svc.Analyze(ctx, authed("asha"), scores)
	require.NoError(t, err)

	assert.Equal(t, "Backend Dev", got.Record.PredictedCareer)
	assert.Equal(t, "asha", got.Record.Username)
	assert.Equal(t, scores, got.Record.Scores)
	assert.Equal(t, start.Add(time.Second), got.Record.Timestamp)
	assert.InDelta(t, 87.65, got.ConfidencePercent, 1e-9)
	assert.Equal(t, voice.OutcomeQueued, got.Announcement)
	assert.Equal(t, "clip-1", got.AnnouncementClip)
	assert.Equal(t, []string{"Recommended career is Backend Dev"}, announcer.lines)
	assert.Len(t, got.Radar, 4)
	assert.Len(t, got.Benchmark, 4)
	assert.Contains(t, adviceCodes(got.Advice), AdviceExcellenceAlert)

	require.Len(t, records.records, 1)
	assert.Equal(t, got.Record, records.records[0])
}

func TestAnalyzeWithoutAnnouncer(t *testing.T) {
	svc := NewAssessmentService(&fakeRecords{}, fixedPredictor{label: "HR Manager"}, nil, AssessmentConfig{})
	got, err := svc.Analyze(context.Background(), authed("asha"), domain.Scores{Logical: 60, Coding: 40, Communication: 90, Creativity: 70})
	require.NoError(t, err)
	assert.Equal(t, voice.OutcomeDisabled, got.Announcement)
	assert.Empty(t, got.AnnouncementClip)
}

func TestAnalyzeRejectsAnonymousAndInvalid(t *testing.T) {
	ctx := context.Background()
	records := &fakeRecords{}
	svc := NewAssessmentService(records, fixedPredictor{label: "x"}, nil, AssessmentConfig{})

	_, err := svc.Analyze(ctx, session.New(), domain.Scores{})
	assert.ErrorIs(t, err, ErrNotAuthenticated)
	_, err = svc.Analyze(ctx, nil, domain.Scores{})
	assert.ErrorIs(t, err, ErrNotAuthenticated)

	_, err = svc.Analyze(ctx, authed("asha"), domain.Scores{Logical: 101})
	var verr *domain.ValidationError
	assert.True(t, errors.As(err, &verr))
	assert.Empty(t, records.records)
}

func TestAnalyzeSurfacesStorageFailure(t *testing.T) {
	announcer := &fakeAnnouncer{}
	svc := NewAssessmentService(&fakeRecords{appendErr: errBoom}, fixedPredictor{label: "x"}, announcer, AssessmentConfig{})

	got, err := svc.Analyze(context.Background(), authed("asha"), domain.Scores{Logical: 50})
	assert.Nil(t, got)
	assert.ErrorIs(t, err, ErrStorage)
	assert.ErrorIs(t, err, errBoom)
	assert.Empty(t, announcer.lines)
}

func TestAnalyzeWithTrainedModel(t *testing.T) {
	model, err := classifier.Train(classifier.TrainingSet(), classifier.Options{Seed: 11})
	require.NoError(t, err)
	svc := NewAssessmentService(&fakeRecords{}, model, nil, AssessmentConfig{})

	got, err := svc.Analyze(context.Background(), authed("asha"), domain.Scores{Logical: 35, Coding: 5, Communication: 98, Creativity: 92})
	require.NoError(t, err)
	assert.Equal(t, "Event Manager", got.Record.PredictedCareer)
	assert.GreaterOrEqual(t, got.Confidence, 0.0)
	assert.LessOrEqual(t, got.Confidence, 1.0)
}

func TestHistoryOrderingAndCount(t *testing.T) {
	ctx := context.Background()
	records := &fakeRecords{}
	svc := NewAssessmentService(records, fixedPredictor{label: "Cloud Architect"}, nil, AssessmentConfig{
		Clock: stepClock(time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC), time.Minute),
	})

	for i := 0; i < 4; i++ {
		_, err := svc.Analyze(ctx, authed("asha"), domain.Scores{Logical: 10 * i})
		require.NoError(t, err)
	}
	_, err := svc.Analyze(ctx, authed("ravi"), domain.Scores{})
	require.NoError(t, err)

	history, err := svc.History(ctx, authed("asha"))
	require.NoError(t, err)
	require.Len(t, history, 4)
	for i := 1; i < len(history); i++ {
		assert.False(t, history[i].Timestamp.After(history[i-1].Timestamp))
	}
	assert.Equal(t, 30, history[0].Logical)

	empty, err := svc.History(ctx, authed("nobody"))
	require.NoError(t, err)
	assert.Empty(t, empty)

	_, err = svc.History(ctx, session.New())
	assert.ErrorIs(t, err, ErrNotAuthenticated)
}

func TestHistoryStorageError(t *testing.T) {
	svc := NewAssessmentService(&fakeRecords{listErr: errBoom}, fixedPredictor{}, nil, AssessmentConfig{})
	_, err := svc.History(context.Background(), authed("asha"))
	assert.ErrorIs(t, err, ErrStorage)
}

func TestExportRoundTrip(t *testing.T) {
	ctx := context.Background()
	records := &fakeRecords{}
	svc := NewAssessmentService(records, fixedPredictor{label: `Designer, "Senior"`}, nil, AssessmentConfig{
		Clock: stepClock(time.Date(2026, 5, 5, 8, 0, 0, 123456789, time.UTC), 90*time.Second),
	})

	user := authed("o'neil, jr")
	for _, s := range []domain.Scores{{Logical: 1, Coding: 2, Communication: 3, Creativity: 4}, {Logical: 100, Coding: 0, Communication: 55, Creativity: 66}} {
		_, err := svc.Analyze(ctx, user, s)
		require.NoError(t, err)
	}

	report, err := svc.Export(ctx, user)
	require.NoError(t, err)
	assert.Equal(t, "o'neil, jr_career_report.csv", report.FileName)
	assert.Equal(t, "text/csv", report.ContentType)
	assert.True(t, strings.HasPrefix(string(report.Data), "username,career,logical,coding,communication,creativity,timestamp\n"))

	want, err := svc.History(ctx, user)
	require.NoError(t, err)
	got, err := ParseReport(bytes.NewReader(report.Data))
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestExportEmptyHistory(t *testing.T) {
	svc := NewAssessmentService(&fakeRecords{}, fixedPredictor{}, nil, AssessmentConfig{})
	report, err := svc.Export(context.Background(), authed("asha"))
	require.NoError(t, err)

	got, err := ParseReport(bytes.NewReader(report.Data))
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestParseReportRejectsForeignHeader(t *testing.T) {
	_, err := ParseReport(strings.NewReader("a,b,c,d,e,f,g\n"))
	assert.Error(t, err)
}

func TestArchive(t *testing.T) {
	ctx := context.Background()
	records := &fakeRecords{}
	archive := &fakeArchive{}
	svc := NewAssessmentService(records, fixedPredictor{label: "ML Engineer"}, nil, AssessmentConfig{
		Archive:       archive,
		ArchivePrefix: "career-reports",
	})
	user := authed("asha")
	_, err := svc.Analyze(ctx, user, domain.Scores{Logical: 85, Coding: 80, Communication: 55, Creativity: 45})
	require.NoError(t, err)

	archived, err := svc.Archive(ctx, user)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(archived.Key, "career-reports/asha/"))
	assert.Equal(t, "s3://bucket/"+archived.Key, archived.Location)
	assert.Equal(t, "https://example.test/"+archived.Key, archived.URL)
	assert.Contains(t, archive.objects[archived.Key], "ML Engineer")

	listed, err := svc.ListArchives(ctx, user)
	require.NoError(t, err)
	require.Len(t, listed, 1)
	assert.Equal(t, archived.Key, listed[0].Key)
	assert.Equal(t, archived.Size, listed[0].Size)

	other, err := svc.ListArchives(ctx, authed("ravi"))
	require.NoError(t, err)
	assert.Empty(t, other)
}

func TestArchiveDisabledAndFailing(t *testing.T) {
	ctx := context.Background()
	svc := NewAssessmentService(&fakeRecords{}, fixedPredictor{}, nil, AssessmentConfig{})
	_, err := svc.Archive(ctx, authed("asha"))
	assert.ErrorIs(t, err, ErrArchiveDisabled)
	_, err = svc.ListArchives(ctx, authed("asha"))
	assert.ErrorIs(t, err, ErrArchiveDisabled)

	failing := NewAssessmentService(&fakeRecords{}, fixedPredictor{}, nil, AssessmentConfig{Archive: &fakeArchive{putErr: errBoom}})
	_, err = failing.Archive(ctx, authed("asha"))
	assert.ErrorIs(t, err, ErrStorage)
}

func TestMarketTrends(t *testing.T) {
	svc := NewAssessmentService(&fakeRecords{}, fixedPredictor{}, nil, AssessmentConfig{})
	trends := svc.MarketTrends()
	require.Len(t, trends, 15)
	assert.Equal(t, "Software Engineer", trends[0].Role)
	assert.Equal(t, 95, trends[0].Coding)
}
