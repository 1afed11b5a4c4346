package agent

import "strings"

// textMatcher attempts to pull usable text out of one aspect of a speech
// event. Matchers run in a fixed order; the first non-empty result wins.
type textMatcher func(SpeechEvent) (string, bool)

// textMatchers is the ordered fallback table over the known producer shapes.
// Keep the order stable: content beats alternatives beats a bare text field
// beats mapping keys, mirroring how the upstream engines layer their
// payloads.
var textMatchers = []textMatcher{
	matchContent,
	matchAlternatives,
	matchTextField,
	matchMappingKeys,
	matchRaw,
}

// ExtractText normalizes a speech event into plain trimmed text. The second
// return value is false when no usable text exists anywhere in the event;
// callers treat that as "nothing to relay", never as an error.
func ExtractText(ev SpeechEvent) (string, bool) {
	// A bare string payload is taken as-is: empty after trimming means no
	// text, with no further fallback.
	if ev.Shape == ShapePlainText {
		text := strings.TrimSpace(ev.Plain)
		return text, text != ""
	}

	for _, match := range textMatchers {
		if text, ok := match(ev); ok {
			return text, true
		}
	}
	return "", false
}

func matchContent(ev SpeechEvent) (string, bool) {
	text := strings.TrimSpace(ev.Content)
	return text, text != ""
}

// matchAlternatives takes the first transcription candidate only; later
// candidates are lower-confidence rescoring output.
func matchAlternatives(ev SpeechEvent) (string, bool) {
	if len(ev.Alternatives) == 0 {
		return "", false
	}
	first := ev.Alternatives[0]
	if text := strings.TrimSpace(first.Text); text != "" {
		return text, true
	}
	if first.Mapping != nil {
		if s, ok := first.Mapping["text"].(string); ok {
			if text := strings.TrimSpace(s); text != "" {
				return text, true
			}
		}
	}
	return "", false
}

func matchTextField(ev SpeechEvent) (string, bool) {
	text := strings.TrimSpace(ev.Text)
	return text, text != ""
}

func matchMappingKeys(ev SpeechEvent) (string, bool) {
	if ev.Mapping == nil {
		return "", false
	}
	for _, key := range []string{"text", "message", "content"} {
		if s, ok := ev.Mapping[key].(string); ok {
			if text := strings.TrimSpace(s); text != "" {
				return text, true
			}
		}
	}
	return "", false
}

// matchRaw is the generic string-conversion fallback. It only applies to
// scalar payloads; an object with no matching fields yields no text rather
// than its serialized form.
func matchRaw(ev SpeechEvent) (string, bool) {
	if ev.Mapping != nil {
		return "", false
	}
	text := strings.TrimSpace(ev.Raw)
	return text, text != ""
}

// ExtractLanguage looks for a detected-language hint on the event. It is
// independent of text extraction and purely best-effort.
func ExtractLanguage(ev SpeechEvent) (string, bool) {
	for _, v := range []string{ev.Language, ev.LanguageCode, ev.DetectedLanguage} {
		if v != "" {
			return v, true
		}
	}
	if ev.Mapping != nil {
		for _, key := range []string{"language", "language_code", "detected_language"} {
			if s, ok := ev.Mapping[key].(string); ok && s != "" {
				return s, true
			}
		}
	}
	return "", false
}
