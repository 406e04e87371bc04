package speech

import (
	"encoding/binary"
	"math"

	"smarthome-panel/internal/models"
)

// EnergyGate drops audio whose RMS amplitude is below a threshold. With
// Dynamic set, rejected (ambient) audio pulls the threshold toward
// Ratio times the ambient level.
type EnergyGate struct {
	Threshold float64
	Dynamic   bool
	Damping   float64 // weight kept by the old threshold per adjustment
	Ratio     float64 // speech/ambient energy ratio
}

// NewEnergyGate creates a dynamic gate starting at threshold
func NewEnergyGate(threshold float64) *EnergyGate {
	return &EnergyGate{
		Threshold: threshold,
		Dynamic:   true,
		Damping:   0.15,
		Ratio:     1.5,
	}
}

// Admit reports whether rec is loud enough to be speech
func (g *EnergyGate) Admit(rec *models.AudioRecording) bool {
	energy := RMS16(rec.Data)
	if energy >= g.Threshold {
		return true
	}
	if g.Dynamic {
		target := energy * g.Ratio
		g.Threshold = g.Threshold*g.Damping + target*(1-g.Damping)
	}
	return false
}

// RMS16 calculates RMS from 16-bit little-endian PCM audio data
func RMS16(audioData []byte) float64 {
	if len(audioData) < 2 {
		return 0.0
	}

	var sumSquares float64
	sampleCount := len(audioData) / 2

	for i := 0; i < len(audioData)-1; i += 2 {
		sample := float64(int16(binary.LittleEndian.Uint16(audioData[i : i+2])))
		sumSquares += sample * sample
	}

	return math.Sqrt(sumSquares / float64(sampleCount))
}

// VolumeDB converts 16-bit PCM to decibels relative to full scale,
// clamped to [-80, 0]
func VolumeDB(audioData []byte) float64 {
	rms := RMS16(audioData)
	if rms < 1.0 {
		rms = 1.0
	}
	db := 20.0 * math.Log10(rms/32768.0)
	if db < -80.0 {
		db = -80.0
	}
	if db > 0.0 {
		db = 0.0
	}
	return db
}

// trimToDuration cuts 16-bit mono PCM to at most limit of audio
func trimToDuration(rec *models.AudioRecording, limit float64) {
	if limit <= 0 || rec.SampleRate <= 0 || rec.Duration <= limit {
		return
	}
	maxBytes := int(limit*float64(rec.SampleRate)) * 2
	if maxBytes < len(rec.Data) {
		rec.Data = rec.Data[:maxBytes]
	}
	rec.Duration = limit
}
