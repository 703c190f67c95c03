package reading

import (
	"context"
	"log"
	"time"

	"github.com/cozyclip/backend/internal/gamification"
	"github.com/cozyclip/backend/internal/models"
)

// Service turns reading activity into ledger side effects. The primary
// write (points, book completion) must succeed; quest and streak updates
// ride along best effort so a catalog hiccup never loses a reader's
// quiz result.
type Service struct {
	gam *gamification.Service
}

func NewService(gam *gamification.Service) *Service {
	return &Service{gam: gam}
}

// SubmitQuiz credits one point per correct answer and fires the
// quiz_completed trigger.
func (s *Service) SubmitQuiz(ctx context.Context, userID int64, req models.SubmitQuizRequest) (models.QuizResultResponse, error) {
	account, err := s.gam.AddPoints(ctx, userID, req.Correct)
	if err != nil {
		return models.QuizResultResponse{}, err
	}

	coins := s.fireQuest(ctx, userID, models.EventQuizCompleted, gamification.EventMeta{StoryID: req.BookID})
	s.touchSession(ctx, userID)

	return models.QuizResultResponse{
		PointsEarned: req.Correct,
		TotalPoints:  account.Points,
		CoinsEarned:  coins,
	}, nil
}

// RecordChapter fires chapter_read for every chapter event and
// chapter_completed when the reader finished the chapter.
func (s *Service) RecordChapter(ctx context.Context, userID int64, req models.ChapterEventRequest) (models.QuestEventResponse, error) {
	meta := gamification.EventMeta{StoryID: req.BookID, Chapter: req.Chapter}

	coins, err := s.gam.UpdateQuestProgress(ctx, userID, models.EventChapterRead, meta)
	if err != nil {
		return models.QuestEventResponse{}, err
	}
	if req.Completed {
		coins += s.fireQuest(ctx, userID, models.EventChapterCompleted, meta)
	}
	s.touchSession(ctx, userID)

	return models.QuestEventResponse{CoinsEarned: coins}, nil
}

// CompleteStory records the book completion and fires story_completed.
// Re-completing the same book still fires the quest trigger, but the
// uniqueStories dedup keeps unique-story quests honest.
func (s *Service) CompleteStory(ctx context.Context, userID int64, req models.CompleteBookRequest) (models.QuestEventResponse, error) {
	if err := s.gam.AddCompletedBook(ctx, userID, req.BookID, req.Title); err != nil {
		return models.QuestEventResponse{}, err
	}

	coins := s.fireQuest(ctx, userID, models.EventStoryCompleted, gamification.EventMeta{StoryID: req.BookID})
	s.touchSession(ctx, userID)

	return models.QuestEventResponse{CoinsEarned: coins}, nil
}

func (s *Service) fireQuest(ctx context.Context, userID int64, eventType string, meta gamification.EventMeta) int {
	coins, err := s.gam.UpdateQuestProgress(ctx, userID, eventType, meta)
	if err != nil {
		log.Printf("[reading] quest update %s failed for user %d: %v", eventType, userID, err)
		return 0
	}
	return coins
}

func (s *Service) touchSession(ctx context.Context, userID int64) {
	if _, err := s.gam.RecordReadingSession(ctx, userID, time.Time{}); err != nil {
		log.Printf("[reading] session record failed for user %d: %v", userID, err)
	}
}
