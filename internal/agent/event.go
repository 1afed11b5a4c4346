package agent

import (
	"bytes"
	"encoding/json"
	"strings"
)

// EventShape classifies which producer shape a speech event arrived in. The
// voice engine emits several payload layouts depending on which pipeline
// stage committed the utterance, so the decoder tags each event instead of
// probing fields reflectively.
type EventShape int

const (
	// ShapeUnknown covers payloads that match none of the known layouts.
	ShapeUnknown EventShape = iota
	// ShapePlainText is a bare JSON string.
	ShapePlainText
	// ShapeContent is an object carrying a string "content" field.
	ShapeContent
	// ShapeAlternatives is an object carrying an "alternatives" list of
	// transcription candidates.
	ShapeAlternatives
	// ShapeTextField is an object carrying a string "text" field.
	ShapeTextField
	// ShapeMapping is any other JSON object.
	ShapeMapping
)

// Alternative is one transcription candidate inside an alternatives-shaped
// event.
type Alternative struct {
	Text    string
	Mapping map[string]interface{}
}

// SpeechEvent is the normalized form of a committed speech event. Only the
// fields matching the event's shape are populated; the extractor walks them
// in a fixed fallback order.
type SpeechEvent struct {
	Shape        EventShape
	Plain        string
	Content      string
	Alternatives []Alternative
	Text         string
	Mapping      map[string]interface{}

	// Language hints, filled independently of the text fields.
	Language         string
	LanguageCode     string
	DetectedLanguage string

	// Raw is a generic string rendering of the payload, used as the last
	// extraction fallback for scalar events.
	Raw string
}

// DecodeSpeechEvent turns a raw engine payload into a SpeechEvent. It never
// fails: payloads that match no known shape come back as ShapeUnknown and
// extraction later yields the no-text sentinel.
func DecodeSpeechEvent(raw []byte) SpeechEvent {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return SpeechEvent{Shape: ShapeUnknown}
	}

	// Bare string payload.
	if trimmed[0] == '"' {
		var s string
		if err := json.Unmarshal(trimmed, &s); err == nil {
			return SpeechEvent{Shape: ShapePlainText, Plain: s}
		}
		return SpeechEvent{Shape: ShapeUnknown, Raw: string(trimmed)}
	}

	// Object payload.
	if trimmed[0] == '{' {
		var m map[string]interface{}
		if err := json.Unmarshal(trimmed, &m); err != nil {
			return SpeechEvent{Shape: ShapeUnknown, Raw: string(trimmed)}
		}
		return classifyMapping(m)
	}

	// Scalar or array payload: keep a string rendering for the generic
	// fallback.
	return SpeechEvent{Shape: ShapeUnknown, Raw: strings.Trim(string(trimmed), `"`)}
}

// classifyMapping tags a decoded JSON object with the first producer shape
// that matches, while retaining the full mapping for key-based fallback.
func classifyMapping(m map[string]interface{}) SpeechEvent {
	ev := SpeechEvent{Shape: ShapeMapping, Mapping: m}

	if s, ok := m["content"].(string); ok {
		ev.Content = s
		ev.Shape = ShapeContent
	}

	if alts, ok := m["alternatives"].([]interface{}); ok && len(alts) > 0 {
		for _, a := range alts {
			alt := Alternative{}
			switch v := a.(type) {
			case string:
				alt.Text = v
			case map[string]interface{}:
				alt.Mapping = v
				if t, ok := v["text"].(string); ok {
					alt.Text = t
				}
			}
			ev.Alternatives = append(ev.Alternatives, alt)
		}
		if ev.Shape == ShapeMapping {
			ev.Shape = ShapeAlternatives
		}
	}

	if s, ok := m["text"].(string); ok {
		ev.Text = s
		if ev.Shape == ShapeMapping {
			ev.Shape = ShapeTextField
		}
	}

	if s, ok := m["language"].(string); ok {
		ev.Language = s
	}
	if s, ok := m["language_code"].(string); ok {
		ev.LanguageCode = s
	}
	if s, ok := m["detected_language"].(string); ok {
		ev.DetectedLanguage = s
	}

	return ev
}
