package app

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"interview-prep/internal/metrics"
	"interview-prep/internal/repository"
)

// ReconcileService repairs session question indexes from the questions table.
type ReconcileService struct {
	sessionRepo *repository.SessionRepository
	cache       QuestionCache
	logger      *zap.Logger
}

type ReconcileReport struct {
	Checked  int
	Repaired int
	Missing  int
}

func NewReconcileService(sessionRepo *repository.SessionRepository, cache QuestionCache, logger *zap.Logger) *ReconcileService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ReconcileService{sessionRepo: sessionRepo, cache: cache, logger: logger}
}

// ReconcileSession rewrites one session's index and reports whether it had
// drifted. A missing session yields ErrSessionNotFound.
func (s *ReconcileService) ReconcileSession(ctx context.Context, sessionID uint) (bool, error) {
	if sessionID == 0 {
		return false, ErrInvalidInput
	}
	changed, err := s.sessionRepo.Reconcile(ctx, sessionID, rebuildIndex)
	if err != nil {
		if errors.Is(err, repository.ErrSessionGone) {
			return false, ErrSessionNotFound
		}
		return false, err
	}
	if changed {
		metrics.RecordIndexRepair()
		invalidateQuestions(ctx, s.cache, s.logger, sessionID)
		s.logger.Info("session question index repaired", zap.Uint("session_id", sessionID))
	}
	return changed, nil
}

// ReconcileAll walks every session. Sessions deleted mid-walk are counted as
// missing; any other error stops the walk.
func (s *ReconcileService) ReconcileAll(ctx context.Context) (ReconcileReport, error) {
	var report ReconcileReport
	ids, err := s.sessionRepo.ListIDs(ctx)
	if err != nil {
		return report, err
	}
	for _, id := range ids {
		if err := ctx.Err(); err != nil {
			return report, err
		}
		changed, err := s.ReconcileSession(ctx, id)
		if errors.Is(err, ErrSessionNotFound) {
			report.Missing++
			continue
		}
		if err != nil {
			return report, err
		}
		report.Checked++
		if changed {
			report.Repaired++
		}
	}
	return report, nil
}

// rebuildIndex keeps the indexed order for ids that still exist, drops the
// rest and appends unindexed ids in creation order.
func rebuildIndex(indexed, actual []uint) []uint {
	present := make(map[uint]bool, len(actual))
	for _, id := range actual {
		present[id] = true
	}

	out := make([]uint, 0, len(actual))
	seen := make(map[uint]bool, len(actual))
	for _, id := range indexed {
		if present[id] && !seen[id] {
			out = append(out, id)
			seen[id] = true
		}
	}
	for _, id := range actual {
		if !seen[id] {
			out = append(out, id)
			seen[id] = true
		}
	}
	return out
}
