package service

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"
	"unicode/utf8"

	"study-buddy/internal/cache"
	"study-buddy/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

const photosynthesisReply = `{"meta":{"topic":"Photosynthesis","total_questions":1},"questions":[{"id":1,"type":"flashcard","front":"Photosynthesis","back":"Converts light to chemical energy"}]}`

func newTestSynthesizer(gen domain.TextGenerator, validator domain.PayloadValidator, c domain.Cache) QuizSynthesizer {
	return NewQuizSynthesizer(gen, validator, c, SynthesizerConfig{Temperature: 0.5, Timeout: time.Second, CacheTTL: time.Hour})
}

func TestSynthesize_BuildsRequest(t *testing.T) {
	gen := new(MockTextGenerator)
	var got domain.GenerationRequest
	gen.On("Generate", mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) { got = args.Get(1).(domain.GenerationRequest) }).
		Return(photosynthesisReply, nil).Once()

	payload, err := newTestSynthesizer(gen, nil, nil).Synthesize(context.Background(), "Photosynthesis converts light into chemical energy.")

	require.NoError(t, err)
	assert.Equal(t, "Photosynthesis", payload.MetaTopic())
	assert.Equal(t, 1, payload.QuestionCount())
	assert.Equal(t, "Here are my notes:\nPhotosynthesis converts light into chemical energy.", got.UserPrompt)
	assert.Contains(t, got.SystemPrompt, `"correct_index"`)
	assert.Contains(t, got.SystemPrompt, "Generate exactly 5 questions")
	assert.Equal(t, 0.5, got.Temperature)
	assert.True(t, got.JSONMode)
	gen.AssertExpectations(t)
}

func TestSynthesize_TruncatesToExactBudget(t *testing.T) {
	head := strings.Repeat("a", MaxSourceChars-1) + "é"
	text := head + strings.Repeat("z", 500)

	gen := new(MockTextGenerator)
	var got domain.GenerationRequest
	gen.On("Generate", mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) { got = args.Get(1).(domain.GenerationRequest) }).
		Return(photosynthesisReply, nil)

	_, err := newTestSynthesizer(gen, nil, nil).Synthesize(context.Background(), text)

	require.NoError(t, err)
	submitted := strings.TrimPrefix(got.UserPrompt, "Here are my notes:\n")
	assert.Equal(t, head, submitted)
	assert.Equal(t, MaxSourceChars, utf8.RuneCountInString(submitted))
}

func TestSynthesize_ShortTextSentWhole(t *testing.T) {
	gen := new(MockTextGenerator)
	gen.On("Generate", mock.Anything, mock.MatchedBy(func(req domain.GenerationRequest) bool {
		return req.UserPrompt == "Here are my notes:\nshort"
	})).Return(photosynthesisReply, nil)

	_, err := newTestSynthesizer(gen, nil, nil).Synthesize(context.Background(), "short")
	require.NoError(t, err)
	gen.AssertExpectations(t)
}

func TestSynthesize_GenerationFailures(t *testing.T) {
	tests := []struct {
		name  string
		reply string
		err   error
	}{
		{"call error", "", errors.New("503 from upstream")},
		{"not json", "Sure! Here is your quiz:", nil},
		{"json array", `[{"meta":{},"questions":[]}]`, nil},
		{"json string", `"quiz"`, nil},
		{"missing questions", `{"meta":{"topic":"x"}}`, nil},
		{"missing meta", `{"questions":[]}`, nil},
		{"meta not an object", `{"meta":"Cells","questions":[]}`, nil},
		{"questions not an array", `{"meta":{},"questions":{"1":{}}}`, nil},
		{"trailing text", `{"meta":{},"questions":[]} and more`, nil},
		{"truncated", `{"meta":{"topic":"x"},"questions":[`, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gen := new(MockTextGenerator)
			gen.On("Generate", mock.Anything, mock.Anything).Return(tt.reply, tt.err).Once()

			_, err := newTestSynthesizer(gen, nil, nil).Synthesize(context.Background(), "notes")

			assert.True(t, domain.HasCode(err, domain.CodeGenerationFailure), "got %v", err)
			if tt.err != nil {
				assert.ErrorIs(t, err, tt.err)
			}
			// no retries
			gen.AssertNumberOfCalls(t, "Generate", 1)
		})
	}
}

func TestSynthesize_Timeout(t *testing.T) {
	gen := new(MockTextGenerator)
	gen.On("Generate", mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) {
			<-args.Get(0).(context.Context).Done()
		}).
		Return("", context.DeadlineExceeded)

	s := NewQuizSynthesizer(gen, nil, nil, SynthesizerConfig{Timeout: 20 * time.Millisecond})
	_, err := s.Synthesize(context.Background(), "notes")

	assert.True(t, domain.HasCode(err, domain.CodeGenerationFailure), "got %v", err)
	assert.ErrorContains(t, err, "timed out")
}

func TestSynthesize_StripsWrappers(t *testing.T) {
	gen := new(MockTextGenerator)
	gen.On("Generate", mock.Anything, mock.Anything).
		Return("<think>the notes are about plants</think>\n```json\n"+photosynthesisReply+"\n```", nil)

	payload, err := newTestSynthesizer(gen, nil, nil).Synthesize(context.Background(), "notes")

	require.NoError(t, err)
	assert.Equal(t, "Photosynthesis", payload.MetaTopic())
}

func TestSynthesize_ValidationHook(t *testing.T) {
	badItem := `{"meta":{"topic":"Math"},"questions":[{"id":1,"type":"mcq","question":"2+2?","options":["4"],"correct_index":3}]}`

	t.Run("lenient passes items through", func(t *testing.T) {
		gen := new(MockTextGenerator)
		gen.On("Generate", mock.Anything, mock.Anything).Return(badItem, nil)

		payload, err := newTestSynthesizer(gen, LenientValidator{}, nil).Synthesize(context.Background(), "notes")

		require.NoError(t, err)
		assert.Equal(t, 1, payload.QuestionCount())
	})

	t.Run("strict rejects malformed items", func(t *testing.T) {
		gen := new(MockTextGenerator)
		gen.On("Generate", mock.Anything, mock.Anything).Return(badItem, nil)

		_, err := newTestSynthesizer(gen, StrictValidator{}, nil).Synthesize(context.Background(), "notes")

		assert.True(t, domain.HasCode(err, domain.CodeGenerationFailure), "got %v", err)
		assert.ErrorContains(t, err, "question 0")
	})

	t.Run("strict rejects off-type fields", func(t *testing.T) {
		gen := new(MockTextGenerator)
		gen.On("Generate", mock.Anything, mock.Anything).
			Return(`{"meta":{},"questions":[{"type":"mcq","question":"?","options":["a","b"],"correct_index":"0"}]}`, nil)

		_, err := newTestSynthesizer(gen, StrictValidator{}, nil).Synthesize(context.Background(), "notes")

		assert.True(t, domain.HasCode(err, domain.CodeGenerationFailure), "got %v", err)
	})

	t.Run("any question count is accepted", func(t *testing.T) {
		many := `{"meta":{"topic":"Big"},"questions":[` + strings.TrimSuffix(strings.Repeat(`{"type":"flashcard","front":"f","back":"b"},`, 40), ",") + `]}`
		gen := new(MockTextGenerator)
		gen.On("Generate", mock.Anything, mock.Anything).Return(many, nil)

		payload, err := newTestSynthesizer(gen, StrictValidator{}, nil).Synthesize(context.Background(), "notes")

		require.NoError(t, err)
		assert.Equal(t, 40, payload.QuestionCount())
	})
}

func TestSynthesize_LenientKeepsReplyAsIs(t *testing.T) {
	tests := []struct {
		name  string
		reply string
	}{
		{"float total", `{"meta":{"topic":"T","total_questions":5.0},"questions":[{"type":"flashcard","front":"f","back":"b"}]}`},
		{"string total", `{"meta":{"topic":"T","total_questions":"5"},"questions":[{"type":"flashcard","front":"f","back":"b"}]}`},
		{"string correct_index", `{"meta":{"topic":"T"},"questions":[{"type":"mcq","question":"?","options":["a","b"],"correct_index":"0"}]}`},
		{"unknown fields", `{"meta":{"topic":"T","total_questions":1,"difficulty":"easy"},"questions":[{"type":"flashcard","front":"f","back":"b","hint":"starts with f"}],"source":"notes.pdf"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			quizzes, _, repo, _ := newUploadPipeline("notes", nil, tt.reply)

			quiz, err := quizzes.UploadDocument(context.Background(), "notes.pdf", []byte("%PDF"))
			require.NoError(t, err)

			stored, err := repo.GetQuizByID(context.Background(), quiz.ID)
			require.NoError(t, err)
			raw, err := stored.Payload.Encode()
			require.NoError(t, err)
			assert.JSONEq(t, tt.reply, string(raw))
		})
	}

	t.Run("number literals are kept", func(t *testing.T) {
		gen := new(MockTextGenerator)
		gen.On("Generate", mock.Anything, mock.Anything).Return(`{"meta":{"total_questions":5.0},"questions":[]}`, nil)

		payload, err := newTestSynthesizer(gen, nil, nil).Synthesize(context.Background(), "notes")

		require.NoError(t, err)
		raw, err := payload.Encode()
		require.NoError(t, err)
		assert.Equal(t, `{"meta":{"total_questions":5.0},"questions":[]}`, string(raw))
	})
}

func TestSynthesize_GenerationCache(t *testing.T) {
	key := cache.GenerationKey("notes", "fake/generator")

	t.Run("miss stores the payload", func(t *testing.T) {
		gen := new(MockTextGenerator)
		gen.On("Generate", mock.Anything, mock.Anything).Return(photosynthesisReply, nil).Once()
		c := new(MockCache)
		c.On("Get", mock.Anything, key).Return("", domain.ErrCacheMiss).Once()
		c.On("Set", mock.Anything, key, mock.MatchedBy(func(v string) bool {
			return strings.Contains(v, `"Photosynthesis"`)
		}), time.Hour).Return(nil).Once()

		_, err := newTestSynthesizer(gen, nil, c).Synthesize(context.Background(), "notes")

		require.NoError(t, err)
		gen.AssertExpectations(t)
		c.AssertExpectations(t)
	})

	t.Run("hit skips the model", func(t *testing.T) {
		gen := new(MockTextGenerator)
		c := new(MockCache)
		c.On("Get", mock.Anything, key).Return(photosynthesisReply, nil).Once()

		payload, err := newTestSynthesizer(gen, nil, c).Synthesize(context.Background(), "notes")

		require.NoError(t, err)
		assert.Equal(t, "Photosynthesis", payload.MetaTopic())
		gen.AssertNotCalled(t, "Generate", mock.Anything, mock.Anything)
	})

	t.Run("cache outage is bypassed", func(t *testing.T) {
		gen := new(MockTextGenerator)
		gen.On("Generate", mock.Anything, mock.Anything).Return(photosynthesisReply, nil).Once()
		c := new(MockCache)
		c.On("Get", mock.Anything, key).Return("", errors.New("dial tcp: connection refused"))
		c.On("Set", mock.Anything, key, mock.Anything, time.Hour).Return(errors.New("dial tcp: connection refused"))

		payload, err := newTestSynthesizer(gen, nil, c).Synthesize(context.Background(), "notes")

		require.NoError(t, err)
		assert.NotNil(t, payload)
	})

	t.Run("corrupt entry is ignored", func(t *testing.T) {
		gen := new(MockTextGenerator)
		gen.On("Generate", mock.Anything, mock.Anything).Return(photosynthesisReply, nil).Once()
		c := new(MockCache)
		c.On("Get", mock.Anything, key).Return("garbage", nil)
		c.On("Set", mock.Anything, key, mock.Anything, time.Hour).Return(nil)

		_, err := newTestSynthesizer(gen, nil, c).Synthesize(context.Background(), "notes")

		require.NoError(t, err)
		gen.AssertExpectations(t)
	})

	t.Run("concurrent misses share one call", func(t *testing.T) {
		gen := new(MockTextGenerator)
		gen.On("Generate", mock.Anything, mock.Anything).
			After(150 * time.Millisecond).
			Return(photosynthesisReply, nil)
		c := new(MockCache)
		c.On("Get", mock.Anything, key).Return("", domain.ErrCacheMiss)
		c.On("Set", mock.Anything, key, mock.Anything, time.Hour).Return(nil)
		synth := newTestSynthesizer(gen, nil, c)

		var wg sync.WaitGroup
		results := make([]domain.Payload, 2)
		errs := make([]error, 2)
		for i := range results {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				results[i], errs[i] = synth.Synthesize(context.Background(), "notes")
			}(i)
		}
		wg.Wait()

		require.NoError(t, errs[0])
		require.NoError(t, errs[1])
		gen.AssertNumberOfCalls(t, "Generate", 1)

		// each caller owns its copy
		results[0].SetMetaTopic("Renamed")
		assert.Equal(t, "Photosynthesis", results[1].MetaTopic())
	})

	t.Run("failures are not cached", func(t *testing.T) {
		gen := new(MockTextGenerator)
		gen.On("Generate", mock.Anything, mock.Anything).Return("nope", nil)
		c := new(MockCache)
		c.On("Get", mock.Anything, key).Return("", domain.ErrCacheMiss)

		_, err := newTestSynthesizer(gen, nil, c).Synthesize(context.Background(), "notes")

		assert.Error(t, err)
		c.AssertNotCalled(t, "Set", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})
}

func TestTruncateText(t *testing.T) {
	assert.Equal(t, "abc", TruncateText("abc", 5))
	assert.Equal(t, "ab", TruncateText("abc", 2))
	assert.Equal(t, "한국", TruncateText("한국어", 2))
	assert.Equal(t, "", TruncateText("abc", 0))
	assert.Equal(t, "abc", TruncateText("abc", 3))
}

func TestCleanModelResponse(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{`{"a":1}`, `{"a":1}`},
		{"```json\n{\"a\":1}\n```", `{"a":1}`},
		{"```\n{\"a\":1}\n```", `{"a":1}`},
		{"<think>hmm</think>{\"a\":1}", `{"a":1}`},
		{"<think>a</think><think>b</think>  {\"a\":1}", `{"a":1}`},
		{"<think>unterminated {\"a\":1}", "<think>unterminated {\"a\":1}"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, CleanModelResponse(tt.in), "input %q", tt.in)
	}
}
