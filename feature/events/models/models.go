package models

import (
	"time"

	"verbena/core/reconcile"
)

// EventRecord is the database row for one scheduled performance.
type EventRecord struct {
	ID              string     `gorm:"primaryKey;size:64" json:"id"`
	Day             string     `gorm:"size:32" json:"day"`
	Hora            string     `gorm:"size:16" json:"hora"`
	Tipo            string     `gorm:"size:64" json:"tipo"`
	Municipio       string     `gorm:"size:128;index" json:"municipio"`
	Lugar           string     `gorm:"size:255" json:"lugar"`
	Orquesta        string     `gorm:"size:512" json:"orquesta"`
	Cancelado       bool       `json:"cancelado"`
	FechaAgregado   time.Time  `json:"FechaAgregado"`
	FechaEditado    time.Time  `json:"FechaEditado"`
	ReAgregado      bool       `json:"reAgregado"`
	OriginalEventID string     `gorm:"size:64" json:"originalEventId"`
	CancelTimestamp *time.Time `json:"cancelTimestamp"`
}

// TableName specifies the table name
func (EventRecord) TableName() string {
	return "events"
}

// ToEvent converts the row to the engine representation.
func (r EventRecord) ToEvent() reconcile.Event {
	ev := reconcile.Event{
		ID:              r.ID,
		Day:             r.Day,
		Hora:            r.Hora,
		Tipo:            r.Tipo,
		Municipio:       r.Municipio,
		Lugar:           r.Lugar,
		Orquesta:        r.Orquesta,
		Cancelado:       r.Cancelado,
		FechaAgregado:   r.FechaAgregado,
		FechaEditado:    r.FechaEditado,
		ReAgregado:      r.ReAgregado,
		OriginalEventID: r.OriginalEventID,
	}
	if r.CancelTimestamp != nil {
		ev.CancelTimestamp = *r.CancelTimestamp
	}
	return ev
}

// FromEvent converts an engine event to a database row.
func FromEvent(ev reconcile.Event) EventRecord {
	r := EventRecord{
		ID:              ev.ID,
		Day:             ev.Day,
		Hora:            ev.Hora,
		Tipo:            ev.Tipo,
		Municipio:       ev.Municipio,
		Lugar:           ev.Lugar,
		Orquesta:        ev.Orquesta,
		Cancelado:       ev.Cancelado,
		FechaAgregado:   ev.FechaAgregado,
		FechaEditado:    ev.FechaEditado,
		ReAgregado:      ev.ReAgregado,
		OriginalEventID: ev.OriginalEventID,
	}
	if !ev.CancelTimestamp.IsZero() {
		ts := ev.CancelTimestamp
		r.CancelTimestamp = &ts
	}
	return r
}

// DeletionRecord is the database row for one cancellation. It is written
// exactly once at cancellation time and never mutated; a housekeeping
// job purges rows past the retention window.
type DeletionRecord struct {
	// Key is the composite primary key "<eventID>_<timestamp>".
	Key       string          `gorm:"primaryKey;size:128;column:deletion_key" json:"key"`
	EventID   string          `gorm:"size:64;index" json:"eventId"`
	DeletedBy string          `gorm:"size:128" json:"deletedBy"`
	DeletedAt time.Time       `gorm:"index" json:"deletedAt"`
	EventData reconcile.Event `gorm:"serializer:json;type:text" json:"eventData"`
}

// TableName specifies the table name
func (DeletionRecord) TableName() string {
	return "event_deletions"
}

// ToDeletion converts the row to the engine representation.
func (r DeletionRecord) ToDeletion() reconcile.Deletion {
	return reconcile.Deletion{
		EventID:   r.EventID,
		DeletedBy: r.DeletedBy,
		DeletedAt: r.DeletedAt,
		EventData: r.EventData,
	}
}
