package session

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/pkarhu/deduction-api/internal/answercheck"
	"github.com/pkarhu/deduction-api/internal/domain"
	"github.com/pkarhu/deduction-api/internal/msgcat"
	"github.com/pkarhu/deduction-api/internal/obslog"
	"github.com/pkarhu/deduction-api/internal/question"
)

// Manager drives the game: it owns the join/resume rules and the answer
// submission flow, delegating correctness to answercheck and persistence to
// the store and question repository.
type Manager struct {
	store     Store
	questions question.Repository
	checker   *answercheck.Checker
	messages  *msgcat.Catalog
	maxStage  int
}

func NewManager(store Store, questions question.Repository, checker *answercheck.Checker, messages *msgcat.Catalog, maxStage int) *Manager {
	if maxStage <= 0 {
		maxStage = 3
	}
	return &Manager{
		store:     store,
		questions: questions,
		checker:   checker,
		messages:  messages,
		maxStage:  maxStage,
	}
}

type JoinResult struct {
	User     *domain.User
	Question *domain.Question // nil once the player has won
}

type AttemptResult struct {
	Correct  bool
	Victory  bool
	Question *domain.Question // next question, or the same one on a miss
	Message  string
}

// Join registers or resumes a player by name. With startNew any existing
// user of the same name is deleted first so the run starts fresh.
func (m *Manager) Join(ctx context.Context, name string, startNew bool) (*JoinResult, error) {
	name = strings.TrimSpace(name)

	existingID, err := m.store.FindUserIDByName(ctx, name)
	if err != nil {
		return nil, err
	}

	var user *domain.User
	if startNew {
		if existingID != "" {
			if err := m.store.DeleteUser(ctx, existingID); err != nil {
				return nil, err
			}
		}
		user, err = m.store.CreateUser(ctx, name)
		if err != nil {
			return nil, err
		}
	} else {
		if existingID != "" {
			user, err = m.store.GetUser(ctx, existingID)
			if err != nil {
				return nil, err
			}
		}
		if user == nil {
			user, err = m.store.CreateUser(ctx, name)
			if err != nil {
				return nil, err
			}
		}
	}

	var current *domain.Question
	if user.CurrentStage <= m.maxStage {
		current, err = m.questions.GetByStage(ctx, user.CurrentStage)
		if err != nil {
			return nil, err
		}
		if current == nil {
			obslog.L().Warn("no question for active stage",
				zap.Int("stage", user.CurrentStage),
				zap.String("user_id", user.ID),
			)
		}
	}

	obslog.L().Info("player joined",
		zap.String("user_id", user.ID),
		zap.Int("stage", user.CurrentStage),
		zap.Bool("start_new", startNew),
	)
	return &JoinResult{User: user, Question: current}, nil
}

// SubmitAnswer judges the answer for the user's current stage and advances
// them on success.
func (m *Manager) SubmitAnswer(ctx context.Context, userID, answer string) (*AttemptResult, error) {
	user, err := m.store.GetUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrUnknownUser
	}

	stage := user.CurrentStage
	if stage > m.maxStage {
		return &AttemptResult{
			Victory: true,
			Message: m.msg("attempt.already_won", nil),
		}, nil
	}

	current, err := m.questions.GetByStage(ctx, stage)
	if err != nil {
		return nil, err
	}
	if current == nil {
		return &AttemptResult{
			Message: m.msg("attempt.no_question", map[string]any{"Stage": stage}),
		}, nil
	}

	correct := m.checker.Check(answer, current.Answer, stage)
	res := &AttemptResult{Correct: correct}

	if !correct {
		m.bumpStat(ctx, domain.StatWrongSubmissions)
		res.Question = current
		res.Message = m.msg("attempt.wrong", nil)
		return res, nil
	}

	m.bumpStat(ctx, domain.StatCorrectSubmissions)
	next := stage + 1
	if err := m.store.UpdateUserStage(ctx, userID, next); err != nil {
		return nil, err
	}

	if next > m.maxStage {
		res.Victory = true
		res.Message = m.msg("attempt.victory", nil)
		obslog.L().Info("player won", zap.String("user_id", userID))
		return res, nil
	}

	res.Question, err = m.questions.GetByStage(ctx, next)
	if err != nil {
		return nil, err
	}
	if res.Question == nil {
		obslog.L().Warn("no next question after correct answer",
			zap.Int("stage", next),
			zap.String("user_id", userID),
		)
		res.Message = m.msg("attempt.correct_no_next", nil)
		return res, nil
	}
	res.Message = m.msg("attempt.correct", nil)
	return res, nil
}

func (m *Manager) msg(key string, data any) string {
	out, err := m.messages.Render(key, data)
	if err != nil {
		obslog.L().Warn("message render failed", zap.String("key", key), zap.Error(err))
		return ""
	}
	return out
}

func (m *Manager) bumpStat(ctx context.Context, key string) {
	if err := m.questions.IncrementStat(ctx, key, 1); err != nil {
		obslog.L().Warn("stat increment failed", zap.String("key", key), zap.Error(err))
	}
}
