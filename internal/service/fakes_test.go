package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"
	"sync"
	"time"

	"careerai/internal/classifier"
	"careerai/internal/domain"
	"careerai/internal/repository"
	"careerai/internal/storage"
	"careerai/internal/voice"
)

type fakeUsers struct {
	mu        sync.Mutex
	users     map[string]domain.User
	getErr    error
	createErr error
}

func newFakeUsers() *fakeUsers {
	return &fakeUsers{users: map[string]domain.User{}}
}

func (f *fakeUsers) Init(context.Context) error { return nil }

func (f *fakeUsers) Create(_ context.Context, u *domain.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.createErr != nil {
		return f.createErr
	}
	if _, ok := f.users[u.Username]; ok {
		return repository.ErrUserExists
	}
	f.users[u.Username] = *u
	return nil
}

func (f *fakeUsers) GetByUsername(_ context.Context, username string) (*domain.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.getErr != nil {
		return nil, f.getErr
	}
	u, ok := f.users[username]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &u, nil
}

func (f *fakeUsers) UpdatePasswordHash(_ context.Context, username, hash string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.users[username]
	if !ok {
		return repository.ErrNotFound
	}
	u.PasswordHash = hash
	f.users[username] = u
	return nil
}

type fakeRecords struct {
	mu        sync.Mutex
	records   []domain.AssessmentRecord
	appendErr error
	listErr   error
}

func (f *fakeRecords) Init(context.Context) error { return nil }

func (f *fakeRecords) Append(_ context.Context, r *domain.AssessmentRecord) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.appendErr != nil {
		return f.appendErr
	}
	f.records = append(f.records, *r)
	return nil
}

func (f *fakeRecords) ListByUser(_ context.Context, username string) ([]domain.AssessmentRecord, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.listErr != nil {
		return nil, f.listErr
	}
	out := []domain.AssessmentRecord{}
	for i := len(f.records) - 1; i >= 0; i-- {
		if f.records[i].Username == username {
			out = append(out, f.records[i])
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Timestamp.After(out[j].Timestamp) })
	return out, nil
}

type fixedPredictor struct {
	label string
}

func (p fixedPredictor) Predict(domain.Scores) classifier.Prediction {
	return classifier.Prediction{
		Label:         p.label,
		Confidence:    0.8765,
		Probabilities: map[string]float64{p.label: 0.8765, "Other": 0.1235},
	}
}

func (p fixedPredictor) Examples() []classifier.Example {
	return classifier.TrainingSet()
}

type fakeAnnouncer struct {
	lines []string
}

func (f *fakeAnnouncer) Announce(text string) voice.Announcement {
	f.lines = append(f.lines, text)
	return voice.Announcement{Outcome: voice.OutcomeQueued, ClipID: fmt.Sprintf("clip-%d", len(f.lines))}
}

type fakeArchive struct {
	objects map[string]string
	putErr  error
}

func (f *fakeArchive) Put(_ context.Context, key string, body io.Reader, _ string) (string, error) {
	if f.putErr != nil {
		return "", f.putErr
	}
	data, err := io.ReadAll(body)
	if err != nil {
		return "", err
	}
	if f.objects == nil {
		f.objects = map[string]string{}
	}
	f.objects[key] = string(data)
	return "s3://bucket/" + key, nil
}

func (f *fakeArchive) ListObjects(_ context.Context, prefix string) ([]storage.ObjectInfo, error) {
	var out []storage.ObjectInfo
	for k, v := range f.objects {
		if strings.HasPrefix(k, prefix) {
			out = append(out, storage.ObjectInfo{Key: k, Size: int64(len(v))})
		}
	}
	return out, nil
}

func (f *fakeArchive) GetObjectURL(_ context.Context, key string, _ time.Duration) (string, error) {
	return "https://example.test/" + key, nil
}

var errBoom = errors.New("disk full")
