package scripts

import (
	_ "embed"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

// LinesPerScript is the fixed script shape: spoken line, direction, expression
const LinesPerScript = 3

//go:embed bank.yaml
var defaultBankYAML []byte

// Entry is the bank content for one narrative stage
type Entry struct {
	Stage       string   `yaml:"stage"`
	Description string   `yaml:"description"`
	Script      []string `yaml:"script"`
}

// Bank is the static scene-script content used in template mode and as the
// per-scene default for generated scripts. Entries are keyed by stage title.
type Bank struct {
	Stages   []Entry `yaml:"stages"`
	Fallback Entry   `yaml:"fallback"`

	byStage map[string]int
}

// LoadBank parses a YAML bank
func LoadBank(data []byte) (*Bank, error) {
	var bank Bank
	if err := yaml.Unmarshal(data, &bank); err != nil {
		return nil, fmt.Errorf("failed to parse script bank: %w", err)
	}
	if len(bank.Stages) == 0 {
		return nil, fmt.Errorf("script bank has no stages")
	}

	bank.byStage = make(map[string]int, len(bank.Stages))
	for i, entry := range bank.Stages {
		key := stageKey(entry.Stage)
		if key == "" {
			return nil, fmt.Errorf("script bank entry %d has no stage", i+1)
		}
		if _, dup := bank.byStage[key]; dup {
			return nil, fmt.Errorf("script bank stage %q is listed twice", entry.Stage)
		}
		if len(entry.Script) != LinesPerScript {
			return nil, fmt.Errorf("script bank stage %q has %d lines, want %d", entry.Stage, len(entry.Script), LinesPerScript)
		}
		bank.byStage[key] = i
	}
	if len(bank.Fallback.Script) != LinesPerScript {
		return nil, fmt.Errorf("script bank fallback has %d lines, want %d", len(bank.Fallback.Script), LinesPerScript)
	}
	return &bank, nil
}

// DefaultBank returns the embedded bank
func DefaultBank() *Bank {
	bank, err := LoadBank(defaultBankYAML)
	if err != nil {
		panic(err)
	}
	return bank
}

func stageKey(stage string) string {
	return strings.ToLower(strings.TrimSpace(stage))
}

func (b *Bank) lookup(stage string) (Entry, bool) {
	i, ok := b.byStage[stageKey(stage)]
	if !ok {
		return Entry{}, false
	}
	return b.Stages[i], true
}

// Has reports whether the bank has an entry for stage
func (b *Bank) Has(stage string) bool {
	_, ok := b.lookup(stage)
	return ok
}

// Description returns the bank description for stage, or fallback when the
// bank has no entry for it.
func (b *Bank) Description(stage, fallback string) string {
	if entry, ok := b.lookup(stage); ok && entry.Description != "" {
		return entry.Description
	}
	return fallback
}

// Script returns a copy of the bank script for stage
func (b *Bank) Script(stage string) []string {
	lines := b.Fallback.Script
	if entry, ok := b.lookup(stage); ok {
		lines = entry.Script
	}
	out := make([]string, len(lines))
	copy(out, lines)
	return out
}

// Size is the number of stage entries
func (b *Bank) Size() int {
	return len(b.Stages)
}
