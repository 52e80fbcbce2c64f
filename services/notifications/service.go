package notifications

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"time"

	"classtrack_go/config"
	"classtrack_go/database"
	"classtrack_go/models"

	"github.com/go-redis/redis/v8"
	"gorm.io/gorm"
)

const redisListKey = "notifications:queue"

// Payload is the notification content fanned out to one or more users
type Payload struct {
	Title   string `json:"title"`
	Message string `json:"message"`
	Type    string `json:"type"`
	Data    any    `json:"data,omitempty"`
}

// queuedNotification is the Redis queue item. Kept minimal to reduce payload
// size; one item may fan out to many users. If Redis is down the service
// falls back to a direct DB insert.
type queuedNotification struct {
	UserIDs   []uint    `json:"user_ids"`
	Payload   Payload   `json:"payload"`
	CreatedAt time.Time `json:"created_at"`
}

// WSHub interface for WebSocket broadcasting
type WSHub interface {
	BroadcastToUser(userID uint, message interface{})
}

// defaultHub lets services created in different parts of the app broadcast
// over the same WebSocket hub without manually wiring each instance.
var defaultHub WSHub

// SetDefaultWSHub sets the package-level default WebSocket hub used by new Service instances.
func SetDefaultWSHub(h WSHub) {
	defaultHub = h
}

// Service exposes notification creation with optional Redis queue.
// If Redis disabled/unavailable, performs direct DB insert.
type Service struct {
	db       *gorm.DB
	redis    *redis.Client
	useRedis bool
	wsHub    WSHub
}

func NewService() *Service {
	return &Service{
		db:       database.GetDB(),
		redis:    database.GetRedisClient(),
		useRedis: config.AppConfig != nil && config.AppConfig.UseRedisNotifications && database.GetRedisClient() != nil,
		wsHub:    defaultHub,
	}
}

// SetWebSocketHub sets the WebSocket hub for real-time notifications
func (s *Service) SetWebSocketHub(hub WSHub) {
	s.wsHub = hub
}

// EnqueueOrCreate stores notifications using the Redis queue if enabled, else direct insert.
func (s *Service) EnqueueOrCreate(userIDs []uint, p Payload) error {
	if len(userIDs) == 0 {
		return errors.New("no user ids")
	}
	item := queuedNotification{
		UserIDs:   userIDs,
		Payload:   p,
		CreatedAt: time.Now().UTC(),
	}

	if s.useRedis {
		b, err := json.Marshal(item)
		if err != nil {
			return err
		}
		if err = s.redis.RPush(context.Background(), redisListKey, b).Err(); err == nil {
			return nil // queued successfully
		} else {
			log.Printf("[notif] Redis queue failed, falling back to direct insert: %v", err)
		}
	}

	return s.createDirect(userIDs, p)
}

// createDirect writes directly to the DB (used by worker or fallback)
func (s *Service) createDirect(userIDs []uint, p Payload) error {
	var dataJSON models.JSON
	if p.Data != nil {
		if b, err := json.Marshal(p.Data); err == nil {
			dataJSON = b
		}
	}

	notifs := make([]models.Notification, 0, len(userIDs))
	for _, uid := range userIDs {
		notifs = append(notifs, models.Notification{
			UserID:  uid,
			Title:   p.Title,
			Message: p.Message,
			Type:    p.Type,
			Data:    dataJSON,
			Read:    false,
		})
	}

	if err := s.db.Create(&notifs).Error; err != nil {
		return err
	}

	// Push over WebSocket if a hub is wired
	if s.wsHub != nil {
		for _, notif := range notifs {
			s.wsHub.BroadcastToUser(notif.UserID, map[string]interface{}{
				"type": "notification",
				"data": notif,
			})
		}
	}

	return nil
}

// StartWorker starts a background worker polling the Redis queue and flushing to DB
func (s *Service) StartWorker(stop <-chan struct{}) {
	if !s.useRedis {
		log.Println("[notif] Redis notifications disabled; worker not started")
		return
	}
	go func() {
		log.Println("[notif] Redis notification worker started")
		ticker := time.NewTicker(2 * time.Second)
		defer ticker.Stop()
		ctx := context.Background()
		batchSize := 200
		for {
			select {
			case <-stop:
				log.Println("[notif] Worker stopping")
				return
			case <-ticker.C:
				s.flushBatch(ctx, batchSize)
			}
		}
	}()
}

// flushBatch polls the Redis queue and processes notifications in batches
func (s *Service) flushBatch(ctx context.Context, batchSize int) {
	if s.redis == nil {
		return
	}
	for i := 0; i < 5; i++ { // up to 5 sub-batches per tick
		vals, err := s.redis.LRange(ctx, redisListKey, 0, int64(batchSize-1)).Result()
		if err != nil || len(vals) == 0 {
			return
		}
		// Trim immediately to avoid duplicates (best-effort)
		if err = s.redis.LTrim(ctx, redisListKey, int64(len(vals)), -1).Err(); err != nil {
			log.Printf("[notif] LTrim failed: %v", err)
		}
		for _, raw := range vals {
			var q queuedNotification
			if err := json.Unmarshal([]byte(raw), &q); err != nil {
				continue
			}
			if err := s.createDirect(q.UserIDs, q.Payload); err != nil {
				log.Printf("[notif] DB insert failed (retry later?): %v", err)
			}
		}
		if len(vals) < batchSize {
			return
		}
	}
}
