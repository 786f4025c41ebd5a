package telemetry

import (
	"database/sql"
	"time"
)

// DatabaseModels lists every struct that maps to a table, in migration
// order.
var DatabaseModels = []interface{}{
	&Session{},
	&FrameSample{},
	&DamageRecord{},
}

// Session is one recorded run of the sim.
type Session struct {
	ID        uint `gorm:"primarykey"`
	StartedAt time.Time
	EndedAt   sql.NullTime
	Seed      int64
	Frames    int64
	Label     string `gorm:"size:127"`
}

func (*Session) TableName() string {
	return "sessions"
}

// FrameSample is a periodic snapshot of the player state.
type FrameSample struct {
	ID        uint  `gorm:"primarykey"`
	SessionID uint  `gorm:"index:idx_sample_session_frame,priority:1"`
	Frame     int64 `gorm:"index:idx_sample_session_frame,priority:2"`

	PosX float64
	PosY float64
	PosZ float64
	VelX float64
	VelY float64
	VelZ float64

	Health   float64
	Grounded bool

	LeftHook  string `gorm:"size:15"`
	RightHook string `gorm:"size:15"`
}

func (*FrameSample) TableName() string {
	return "frame_samples"
}

// DamageRecord is one resolved hit, stamped with the frame it landed.
type DamageRecord struct {
	ID        uint `gorm:"primarykey"`
	SessionID uint `gorm:"index"`
	Frame     int64
	Target    uint64
	Amount    float64
	Source    string `gorm:"size:63"`
}

func (*DamageRecord) TableName() string {
	return "damage_records"
}
