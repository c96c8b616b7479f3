package services

import (
	"github.com/tonalworks/voicelead-api/internal/models"
	"github.com/tonalworks/voicelead-api/internal/voicing"
)

const (
	defaultVelocity      = 100
	defaultBeatsPerChord = 4.0 // one bar of 4/4 per chord
)

// VoicingsToNoteEvents serializes an optimized voicing sequence into
// playable note events: each voicing sounds as a block chord for
// beatsPerChord beats, one after another from startBeat.
func VoicingsToNoteEvents(voicings []voicing.Voicing, startBeat, beatsPerChord float64, velocity int) []models.NoteEvent {
	if beatsPerChord <= 0 {
		beatsPerChord = defaultBeatsPerChord
	}
	if velocity <= 0 || velocity > 127 {
		velocity = defaultVelocity
	}

	var events []models.NoteEvent
	currentBeat := startBeat
	for _, v := range voicings {
		for _, pitch := range v.Pitches {
			if pitch < 0 || pitch > 127 {
				continue
			}
			events = append(events, models.NoteEvent{
				MidiNoteNumber: pitch,
				Velocity:       velocity,
				StartBeats:     currentBeat,
				DurationBeats:  beatsPerChord,
			})
		}
		currentBeat += beatsPerChord
	}
	return events
}
