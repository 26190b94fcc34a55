package config

import "fmt"

type CacheKeyStruct struct{}

// UserSessionKey returns the cache key holding a user's active login JTI.
func (r *CacheKeyStruct) UserSessionKey(userID string) string {
	return fmt.Sprintf("login:%s", userID)
}

// ActiveExamKey returns the cache key for a user's in-progress exam session
// snapshot, written by the checkpoint path for crash recovery.
func (r *CacheKeyStruct) ActiveExamKey(userID string) string {
	return fmt.Sprintf("user:%s:active_exam", userID)
}

// ActiveSprintKey returns the cache key for a user's in-progress practice
// sprint snapshot.
func (r *CacheKeyStruct) ActiveSprintKey(userID string) string {
	return fmt.Sprintf("user:%s:active_sprint", userID)
}

var CacheKey = &CacheKeyStruct{}

// QueueKeyStruct names the Redis lists drained by background workers.
type QueueKeyStruct struct {
	CheckpointQueue string
}

var QueueKey = &QueueKeyStruct{
	CheckpointQueue: "persist_checkpoints_queue",
}
