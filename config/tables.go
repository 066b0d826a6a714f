package config

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"slices"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed tables.yaml
var defaultTables []byte

// ErrUnknownTool and ErrUnknownLevel report configuration absence
var (
	ErrUnknownTool  = errors.New("unknown tool")
	ErrUnknownLevel = errors.New("unknown level")
)

// ToolKind separates construction from destruction tools
type ToolKind string

const (
	ToolBuild     ToolKind = "build"
	ToolDestroy   ToolKind = "destroy"
	ToolBlackHole ToolKind = "blackhole"
)

// WinType is the level objective
type WinType string

const (
	WinScore            WinType = "SCORE"
	WinDestructionCount WinType = "DESTRUCTION_COUNT"
)

// Tool is one row of the tool table
type Tool struct {
	ID     string   `yaml:"id"`
	Name   string   `yaml:"name"`
	Kind   ToolKind `yaml:"kind"`
	Price  int      `yaml:"price"`
	Force  float64  `yaml:"force,omitempty"`
	Radius float64  `yaml:"radius,omitempty"`
	Life   float64  `yaml:"life,omitempty"` // black hole duration in seconds
}

// WinCondition is evaluated by the engine every tick
type WinCondition struct {
	Type  WinType `yaml:"type"`
	Value int     `yaml:"value"`
}

// Level is one row of the level table
type Level struct {
	ID           int          `yaml:"id"`
	Name         string       `yaml:"name"`
	Objective    string       `yaml:"objective"`
	Budget       int          `yaml:"budget"`
	Buildings    int          `yaml:"buildings"`
	Theme        string       `yaml:"theme"`
	Archetypes   []string     `yaml:"archetypes,omitempty"`
	ToolsAllowed []string     `yaml:"tools_allowed"`
	Win          WinCondition `yaml:"win"`
}

// AllowsTool reports whether the level permits toolID; "ALL" permits everything
func (l *Level) AllowsTool(toolID string) bool {
	if len(l.ToolsAllowed) == 0 {
		return true
	}
	return slices.Contains(l.ToolsAllowed, "ALL") || slices.Contains(l.ToolsAllowed, toolID)
}

type tablesFile struct {
	Tools  []Tool  `yaml:"tools"`
	Levels []Level `yaml:"levels"`
}

// Tables holds the tool and level tables indexed by id
type Tables struct {
	tools  map[string]*Tool
	levels map[int]*Level
	order  []int
}

// LoadTables loads path, or the embedded tables when path is empty
func LoadTables(path string) (*Tables, error) {
	data := defaultTables
	if path != "" {
		var err error
		data, err = os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read tables %s: %w", path, err)
		}
	}
	return ParseTables(data)
}

// ParseTables decodes and validates a tables document
func ParseTables(data []byte) (*Tables, error) {
	var f tablesFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse tables: %w", err)
	}

	t := &Tables{
		tools:  make(map[string]*Tool, len(f.Tools)),
		levels: make(map[int]*Level, len(f.Levels)),
	}
	for i := range f.Tools {
		tool := &f.Tools[i]
		tool.ID = strings.ToUpper(tool.ID)
		switch tool.Kind {
		case ToolBuild, ToolDestroy, ToolBlackHole:
		default:
			return nil, fmt.Errorf("%w: tool %s kind %q", ErrInvalid, tool.ID, tool.Kind)
		}
		if tool.Price < 0 {
			return nil, fmt.Errorf("%w: tool %s negative price", ErrInvalid, tool.ID)
		}
		if tool.Kind != ToolBuild && (tool.Force <= 0 || tool.Radius <= 0) {
			return nil, fmt.Errorf("%w: tool %s needs force and radius", ErrInvalid, tool.ID)
		}
		if _, dup := t.tools[tool.ID]; dup {
			return nil, fmt.Errorf("%w: duplicate tool %s", ErrInvalid, tool.ID)
		}
		t.tools[tool.ID] = tool
	}
	for i := range f.Levels {
		lvl := &f.Levels[i]
		switch lvl.Win.Type {
		case WinScore, WinDestructionCount:
		default:
			return nil, fmt.Errorf("%w: level %d win type %q", ErrInvalid, lvl.ID, lvl.Win.Type)
		}
		if _, dup := t.levels[lvl.ID]; dup {
			return nil, fmt.Errorf("%w: duplicate level %d", ErrInvalid, lvl.ID)
		}
		t.levels[lvl.ID] = lvl
		t.order = append(t.order, lvl.ID)
	}
	return t, nil
}

// Tool returns the tool row for id
func (t *Tables) Tool(id string) (*Tool, error) {
	tool, ok := t.tools[strings.ToUpper(id)]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownTool, id)
	}
	return tool, nil
}

// Level returns the level row for id
func (t *Tables) Level(id int) (*Level, error) {
	lvl, ok := t.levels[id]
	if !ok {
		return nil, fmt.Errorf("%w: %d", ErrUnknownLevel, id)
	}
	return lvl, nil
}

// NextLevel returns the level after id in table order
func (t *Tables) NextLevel(id int) (int, bool) {
	i := slices.Index(t.order, id)
	if i < 0 || i+1 >= len(t.order) {
		return 0, false
	}
	return t.order[i+1], true
}

// ToolIDs returns every tool id, sorted
func (t *Tables) ToolIDs() []string {
	ids := make([]string, 0, len(t.tools))
	for id := range t.tools {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids
}

// LevelCount returns the number of levels
func (t *Tables) LevelCount() int { return len(t.order) }
