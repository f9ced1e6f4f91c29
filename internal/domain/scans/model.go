package scans

import (
	"time"

	"animal-rfid-relay/internal/domain/animals"
)

// EventRFIDScanned es el nombre del evento del live feed.
const EventRFIDScanned = "rfid-scanned"

// ScanTimeLayout es el formato de waktu_scan (dd/mm/yyyy hh:mm:ss).
const ScanTimeLayout = "02/01/2006 15:04:05"

// ScanEvent se construye por request y se descarta tras notificar; nunca se persiste.
type ScanEvent struct {
	ID        string
	RFIDCode  string
	Found     bool
	Animal    animals.Animal // solo si Found
	ScannedAt time.Time
}

// FeedEvent es el payload de rfid-scanned.
type FeedEvent struct {
	RFIDCode  string `json:"rfid_code"`
	Name      string `json:"nama"`
	Info      string `json:"info_tambahan"`
	ScannedAt string `json:"waktu_scan"`
}

func (e ScanEvent) Feed(loc *time.Location) FeedEvent {
	t := e.ScannedAt
	if loc != nil {
		t = t.In(loc)
	}
	return FeedEvent{
		RFIDCode:  e.RFIDCode,
		Name:      e.Animal.Name,
		Info:      e.Animal.Species,
		ScannedAt: t.Format(ScanTimeLayout),
	}
}
