package scans

import (
	"fmt"
	"strings"

	"animal-rfid-relay/internal/domain/animals"
)

// FoundText es el resumen multi-línea enviado a los canales de chat.
func FoundText(a animals.Animal) string {
	var b strings.Builder
	b.WriteString("🐾 Data Hewan Ditemukan\n")
	fmt.Fprintf(&b, "Nama: %s\n", a.Name)
	fmt.Fprintf(&b, "Jenis: %s\n", a.Species)
	fmt.Fprintf(&b, "Usia: %d tahun\n", a.Age)
	fmt.Fprintf(&b, "Status Kesehatan: %s\n", a.HealthStatus)
	fmt.Fprintf(&b, "RFID: %s", a.RFIDCode)
	return b.String()
}

func NotFoundText(rfid string) string {
	return fmt.Sprintf("⚠️ RFID %s tidak ditemukan di database (not found)", rfid)
}

func (e ScanEvent) Text() string {
	if e.Found {
		return FoundText(e.Animal)
	}
	return NotFoundText(e.RFIDCode)
}
