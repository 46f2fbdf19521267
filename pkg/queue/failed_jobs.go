package queue

import (
	"encoding/json"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/shashiranjanraj/vastra/pkg/logger"
)

// FailedJobRecord is the durable copy of an exhausted job, written so a
// confirmation email lost to an SMTP outage can be replayed by hand.
type FailedJobRecord struct {
	ID       uint      `gorm:"primaryKey;autoIncrement"`
	JobType  string    `gorm:"size:255;not null;index"`
	Payload  string    `gorm:"type:text;not null"`
	Error    string    `gorm:"type:text"`
	Attempts int       `gorm:"not null;default:0"`
	FailedAt time.Time `gorm:"autoCreateTime"`
}

func (FailedJobRecord) TableName() string { return "vastra_failed_jobs" }

var failedJobDB *gorm.DB

// UseDB turns on database persistence for exhausted jobs. Call once at
// boot after the database connects; without it failures stay in memory.
func UseDB(db *gorm.DB) {
	failedJobDB = db
	db.AutoMigrate(&FailedJobRecord{}) //nolint:errcheck
}

// persistFailed appends the failure to the in-memory list and, when a
// database is configured, writes the durable record too.
func (m *Manager) persistFailed(job Job, typeName string, lastErr error, attempts int) {
	entry := FailedJob{Job: job, Err: lastErr, FailedAt: time.Now(), Attempts: attempts}
	m.mu.Lock()
	m.failed = append(m.failed, entry)
	m.mu.Unlock()

	if failedJobDB == nil {
		return
	}

	payload, err := json.Marshal(job)
	if err != nil {
		payload = []byte(fmt.Sprintf(`{"error": "could not marshal: %v"}`, err))
	}

	rec := FailedJobRecord{
		JobType:  typeName,
		Payload:  string(payload),
		Error:    lastErr.Error(),
		Attempts: attempts,
	}
	if err := failedJobDB.Create(&rec).Error; err != nil {
		// Non-fatal; the in-memory list still has it.
		logger.Error("queue: persist failed job", "type", typeName, "error", err)
	}
}
