package models

// NoteEvent is a single playable note in beat time, the wire format the
// notation/MIDI export layer consumes.
type NoteEvent struct {
	MidiNoteNumber int     `json:"midi_note_number"`
	Velocity       int     `json:"velocity"`
	StartBeats     float64 `json:"start_beats"`
	DurationBeats  float64 `json:"duration_beats"`
}
