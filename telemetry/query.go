package telemetry

import (
	"database/sql"

	"gorm.io/gorm"
)

// SessionStats summarizes one recorded session.
type SessionStats struct {
	Samples     int64
	Hits        int64
	TotalDamage float64
	LastFrame   int64
}

func Sessions(db *gorm.DB) ([]Session, error) {
	var out []Session
	if err := db.Order("started_at").Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func Stats(db *gorm.DB, sessionID uint) (SessionStats, error) {
	var stats SessionStats
	if err := db.Model(&FrameSample{}).Where("session_id = ?", sessionID).Count(&stats.Samples).Error; err != nil {
		return stats, err
	}
	if err := db.Model(&DamageRecord{}).Where("session_id = ?", sessionID).Count(&stats.Hits).Error; err != nil {
		return stats, err
	}

	row := db.Model(&DamageRecord{}).Where("session_id = ?", sessionID).Select("COALESCE(SUM(amount), 0)").Row()
	if err := row.Scan(&stats.TotalDamage); err != nil {
		return stats, err
	}

	var last sql.NullInt64
	row = db.Model(&FrameSample{}).Where("session_id = ?", sessionID).Select("MAX(frame)").Row()
	if err := row.Scan(&last); err != nil {
		return stats, err
	}
	stats.LastFrame = last.Int64

	return stats, nil
}

// Samples returns a session's frame samples in frame order.
func Samples(db *gorm.DB, sessionID uint) ([]FrameSample, error) {
	var out []FrameSample
	if err := db.Where("session_id = ?", sessionID).Order("frame").Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

// Damage returns a session's damage records in frame order.
func Damage(db *gorm.DB, sessionID uint) ([]DamageRecord, error) {
	var out []DamageRecord
	if err := db.Where("session_id = ?", sessionID).Order("frame").Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}
