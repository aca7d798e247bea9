package service

import (
	"context"
	"sort"
	"sync"
	"time"

	"study-buddy/internal/domain"
	"study-buddy/internal/util"

	"github.com/stretchr/testify/mock"
)

// --- fakeQuizRepository ---

// fakeQuizRepository is an in-memory domain.QuizRepository. Topic scans need
// real storage semantics, which call-by-call mocks cannot give.
type fakeQuizRepository struct {
	mu      sync.Mutex
	quizzes map[string]*domain.Quiz

	listErr   error
	updateErr map[string]error
}

func newFakeQuizRepository() *fakeQuizRepository {
	return &fakeQuizRepository{quizzes: make(map[string]*domain.Quiz), updateErr: make(map[string]error)}
}

func copyQuiz(q *domain.Quiz) *domain.Quiz {
	data, err := q.Payload.Encode()
	if err != nil {
		panic(err)
	}
	payload, err := domain.DecodePayload(data)
	if err != nil {
		panic(err)
	}
	out := *q
	out.Payload = payload
	if q.Topic != nil {
		t := *q.Topic
		out.Topic = &t
	}
	return &out
}

func (r *fakeQuizRepository) CreateQuiz(ctx context.Context, quiz *domain.Quiz) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if quiz.CreatedAt.IsZero() {
		quiz.CreatedAt = time.Now().UTC()
	}
	quiz.ID = util.NewULIDAt(quiz.CreatedAt)
	quiz.Version = 1
	r.quizzes[quiz.ID] = copyQuiz(quiz)
	return nil
}

// insert stores q as-is, keeping whatever topic fields the test set up.
func (r *fakeQuizRepository) insert(q *domain.Quiz) *domain.Quiz {
	if err := r.CreateQuiz(context.Background(), q); err != nil {
		panic(err)
	}
	return q
}

func (r *fakeQuizRepository) GetQuizByID(ctx context.Context, id string) (*domain.Quiz, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	q, ok := r.quizzes[id]
	if !ok {
		return nil, nil
	}
	return copyQuiz(q), nil
}

func (r *fakeQuizRepository) ListQuizzes(ctx context.Context, order domain.SortOrder) ([]*domain.Quiz, error) {
	if r.listErr != nil {
		return nil, r.listErr
	}
	return r.sorted(order, func(*domain.Quiz) bool { return true }), nil
}

func (r *fakeQuizRepository) ListTopicCandidates(ctx context.Context, topic string) ([]*domain.Quiz, error) {
	if r.listErr != nil {
		return nil, r.listErr
	}
	return r.sorted(domain.OldestFirst, func(q *domain.Quiz) bool {
		return q.Topic == nil || *q.Topic == "" || *q.Topic == topic
	}), nil
}

func (r *fakeQuizRepository) UpdateQuiz(ctx context.Context, id string, fn domain.QuizMutator) (*domain.Quiz, bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.updateErr[id]; err != nil {
		return nil, false, err
	}
	stored, ok := r.quizzes[id]
	if !ok {
		return nil, false, domain.NewQuizNotFoundError(id)
	}
	q := copyQuiz(stored)
	changed, err := fn(q)
	if err != nil {
		return nil, false, err
	}
	if changed {
		q.Version++
		r.quizzes[id] = copyQuiz(q)
	}
	return q, changed, nil
}

func (r *fakeQuizRepository) sorted(order domain.SortOrder, keep func(*domain.Quiz) bool) []*domain.Quiz {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*domain.Quiz, 0, len(r.quizzes))
	for _, q := range r.quizzes {
		if keep(q) {
			out = append(out, copyQuiz(q))
		}
	}
	sort.Slice(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if order == domain.NewestFirst {
			a, b = b, a
		}
		if !a.CreatedAt.Equal(b.CreatedAt) {
			return a.CreatedAt.Before(b.CreatedAt)
		}
		return a.ID < b.ID
	})
	return out
}

// --- MockTextGenerator ---
type MockTextGenerator struct {
	mock.Mock
}

func (m *MockTextGenerator) Generate(ctx context.Context, req domain.GenerationRequest) (string, error) {
	args := m.Called(ctx, req)
	return args.String(0), args.Error(1)
}

func (m *MockTextGenerator) Name() string {
	return "fake/generator"
}

// --- MockTextExtractor ---
type MockTextExtractor struct {
	mock.Mock
}

func (m *MockTextExtractor) Extract(ctx context.Context, document []byte) (string, error) {
	args := m.Called(ctx, document)
	return args.String(0), args.Error(1)
}

// --- MockCache ---
type MockCache struct {
	mock.Mock
}

func (m *MockCache) Get(ctx context.Context, key string) (string, error) {
	args := m.Called(ctx, key)
	return args.String(0), args.Error(1)
}

func (m *MockCache) Set(ctx context.Context, key string, value string, expiration time.Duration) error {
	args := m.Called(ctx, key, value, expiration)
	return args.Error(0)
}

func (m *MockCache) Delete(ctx context.Context, key string) error {
	args := m.Called(ctx, key)
	return args.Error(0)
}

func (m *MockCache) Ping(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

// --- MockSessionRepository ---
type MockSessionRepository struct {
	mock.Mock
}

func (m *MockSessionRepository) CreateSession(ctx context.Context, session *domain.QuizSession) error {
	args := m.Called(ctx, session)
	return args.Error(0)
}

func (m *MockSessionRepository) ListSessions(ctx context.Context, order domain.SortOrder) ([]*domain.QuizSession, error) {
	args := m.Called(ctx, order)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.QuizSession), args.Error(1)
}

// --- MockSettingsRepository ---
type MockSettingsRepository struct {
	mock.Mock
}

func (m *MockSettingsRepository) GetOrCreateSettings(ctx context.Context, defaultTheme domain.Theme) (*domain.AppSettings, error) {
	args := m.Called(ctx, defaultTheme)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.AppSettings), args.Error(1)
}

func (m *MockSettingsRepository) SaveTheme(ctx context.Context, theme domain.Theme) (*domain.AppSettings, error) {
	args := m.Called(ctx, theme)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.AppSettings), args.Error(1)
}
