package scripts

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/therealutkarshpriyadarshi/parrotkit/internal/apperr"
)

// Generated is the model's answer after decoding. Either slice may be shorter
// than requested and any entry may be blank.
type Generated struct {
	Descriptions []string
	Scripts      map[int][]string // keyed by 1-based scene id
}

type contractPayload struct {
	Descriptions []string            `json:"descriptions"`
	Scripts      map[string][]string `json:"scripts"`
}

// ParseContract extracts and decodes the first balanced JSON object in raw.
// It fails with ErrContractViolation when there is no object, the object
// does not decode, or it carries neither descriptions nor scripts.
func ParseContract(raw string) (*Generated, error) {
	object, ok := FirstJSONObject(raw)
	if !ok {
		return nil, fmt.Errorf("no JSON object in model response: %w", apperr.ErrContractViolation)
	}

	var payload contractPayload
	if err := json.Unmarshal([]byte(object), &payload); err != nil {
		return nil, fmt.Errorf("decoding model JSON: %v: %w", err, apperr.ErrContractViolation)
	}

	gen := &Generated{
		Descriptions: payload.Descriptions,
		Scripts:      make(map[int][]string, len(payload.Scripts)),
	}
	for key, lines := range payload.Scripts {
		id, err := strconv.Atoi(strings.TrimSpace(key))
		if err != nil || id < 1 {
			continue
		}
		gen.Scripts[id] = lines
	}

	if len(gen.Descriptions) == 0 && len(gen.Scripts) == 0 {
		return nil, fmt.Errorf("model JSON has no descriptions or scripts: %w", apperr.ErrContractViolation)
	}

	return gen, nil
}

// FirstJSONObject returns the first balanced {...} block in raw. Braces inside
// JSON strings are ignored.
func FirstJSONObject(raw string) (string, bool) {
	start := strings.IndexByte(raw, '{')
	for start >= 0 {
		if end, ok := matchBrace(raw, start); ok {
			return raw[start : end+1], true
		}
		next := strings.IndexByte(raw[start+1:], '{')
		if next < 0 {
			break
		}
		start += next + 1
	}
	return "", false
}

func matchBrace(s string, start int) (int, bool) {
	depth := 0
	inString := false
	escaped := false

	for i := start; i < len(s); i++ {
		c := s[i]
		if inString {
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inString = false
			}
			continue
		}

		switch c {
		case '"':
			inString = true
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return i, true
			}
		}
	}

	return 0, false
}
