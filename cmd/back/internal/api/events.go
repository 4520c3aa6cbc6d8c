package api

import (
	"context"
	"time"

	"weconnect/internal/logger"
	"weconnect/internal/metrics"
)

const (
	ActivityQueue = "activity"

	KindPostCreated    = "post_created"
	KindPostDeleted    = "post_deleted"
	KindLiked          = "liked"
	KindUnliked        = "unliked"
	KindFollowed       = "followed"
	KindUnfollowed     = "unfollowed"
	KindCommented      = "commented"
	KindAccountDeleted = "account_deleted"
)

// Event - сообщение об изменении, уходит в очередь после commit
type Event struct {
	Kind      string    `json:"kind"`
	ActorID   int64     `json:"actor_id"`
	SubjectID int64     `json:"subject_id"`
	At        time.Time `json:"at"`
}

// publish не влияет на ответ: транзакция уже закоммичена
func (s *Server) publish(ctx context.Context, kind string, actorID, subjectID int64) {
	metrics.ActivityTotal.WithLabelValues(kind).Inc()
	if s.Producer == nil {
		return
	}
	ev := Event{Kind: kind, ActorID: actorID, SubjectID: subjectID, At: time.Now().UTC()}
	if err := s.Producer.PublishJSON(ctx, ActivityQueue, ev); err != nil {
		logger.FromContext(ctx).Warn("publish activity", "kind", kind, "err", err)
	}
}
