package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"study-buddy/internal/domain"
	"study-buddy/internal/logger"
	"study-buddy/internal/util"

	"go.uber.org/zap"
)

// TopicService is the topic view aggregated over every stored quiz.
type TopicService interface {
	ListTopics(ctx context.Context) ([]domain.TopicSummary, error)
	CreateTopic(ctx context.Context, topic string) (*domain.Quiz, error)
	RenameTopic(ctx context.Context, oldTopic, newTopic string) (int, error)
	RemoveTopic(ctx context.Context, topic string) (int, error)
}

type topicService struct {
	repo domain.QuizRepository
	now  func() time.Time
}

// NewTopicService creates a new instance of topicService
func NewTopicService(repo domain.QuizRepository) TopicService {
	return &topicService{
		repo: repo,
		now:  func() time.Time { return time.Now().UTC() },
	}
}

// ListTopics groups quizzes by effective topic. Topics appear in the order
// they are first met when scanning newest quiz first; unlabeled quizzes are
// left out.
func (s *topicService) ListTopics(ctx context.Context) ([]domain.TopicSummary, error) {
	quizzes, err := s.repo.ListQuizzes(ctx, domain.NewestFirst)
	if err != nil {
		return nil, wrapStoreError(err, "Failed to list quizzes")
	}

	summaries := make([]domain.TopicSummary, 0)
	index := make(map[string]int)
	for _, q := range quizzes {
		topic := q.EffectiveTopic()
		if topic == "" {
			continue
		}
		i, ok := index[topic]
		if !ok {
			i = len(summaries)
			index[topic] = i
			summaries = append(summaries, domain.TopicSummary{Topic: topic})
		}
		summary := &summaries[i]
		summary.QuizCount++
		summary.QuestionCount += q.QuestionCount()
		if q.CreatedAt.After(summary.LastUpdated) {
			summary.LastUpdated = q.CreatedAt
		}
	}
	return summaries, nil
}

// CreateTopic makes topic exist by storing a quiz with no questions.
func (s *topicService) CreateTopic(ctx context.Context, topic string) (*domain.Quiz, error) {
	if isBlank(topic) {
		return nil, domain.NewMissingFieldError("topic")
	}

	now := s.now()
	quiz := domain.NewQuiz(placeholderFilename(now), topic, domain.NewPlaceholderPayload(topic), now)
	if err := s.repo.CreateQuiz(ctx, quiz); err != nil {
		return nil, wrapStoreError(err, "Failed to create topic")
	}

	logger.Get().Info("Topic placeholder created", zap.String("topic", topic), zap.String("quiz_id", quiz.ID))
	return quiz, nil
}

// RenameTopic relabels every quiz whose effective topic is oldTopic, writing
// both topic fields. Rows are updated one at a time; a failure part way
// leaves the earlier rows renamed.
func (s *topicService) RenameTopic(ctx context.Context, oldTopic, newTopic string) (int, error) {
	if isBlank(oldTopic) {
		return 0, domain.NewMissingFieldError("old_topic")
	}
	if isBlank(newTopic) {
		return 0, domain.NewMissingFieldError("new_topic")
	}

	updated, err := s.relabel(ctx, oldTopic, func(q *domain.Quiz) {
		q.SetTopic(newTopic)
	})
	logger.Get().Info("Topic renamed",
		zap.String("old_topic", oldTopic),
		zap.String("new_topic", newTopic),
		zap.Int("updated", updated),
		zap.Error(err))
	return updated, err
}

// RemoveTopic detaches topic from every quiz carrying it. The quizzes and
// their questions are kept.
func (s *topicService) RemoveTopic(ctx context.Context, topic string) (int, error) {
	if isBlank(topic) {
		return 0, domain.NewMissingFieldError("topic")
	}

	updated, err := s.relabel(ctx, topic, func(q *domain.Quiz) {
		q.ClearTopic()
	})
	logger.Get().Info("Topic removed", zap.String("topic", topic), zap.Int("updated", updated), zap.Error(err))
	return updated, err
}

// relabel applies edit to each quiz whose effective topic is topic and
// returns how many rows changed. The topic is re-checked inside each row
// update so a concurrent rename of the same row is not clobbered.
func (s *topicService) relabel(ctx context.Context, topic string, edit func(q *domain.Quiz)) (int, error) {
	candidates, err := s.repo.ListTopicCandidates(ctx, topic)
	if err != nil {
		return 0, wrapStoreError(err, "Failed to load quizzes for topic")
	}

	updated := 0
	for _, candidate := range candidates {
		if candidate.EffectiveTopic() != topic {
			continue
		}
		_, changed, err := s.repo.UpdateQuiz(ctx, candidate.ID, func(q *domain.Quiz) (bool, error) {
			if q.EffectiveTopic() != topic {
				return false, nil
			}
			edit(q)
			return true, nil
		})
		if err != nil {
			if domain.HasCode(err, domain.CodeNotFound) {
				continue
			}
			return updated, wrapStoreError(err, fmt.Sprintf("Failed to update quiz %s", candidate.ID))
		}
		if changed {
			updated++
		}
	}
	return updated, nil
}

// placeholderFilename names a manual topic quiz. The ULID entropy suffix
// keeps names unique when several topics are created in the same millisecond.
func placeholderFilename(now time.Time) string {
	id := util.NewULIDAt(now)
	return fmt.Sprintf("manual-topic-%d-%s.json", now.UnixMilli(), strings.ToLower(id[10:]))
}

func isBlank(s string) bool {
	return strings.TrimSpace(s) == ""
}
