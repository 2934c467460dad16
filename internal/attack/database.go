package attack

import (
	"fmt"
	"os"
	"sort"
	"strconv"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"

	"github.com/CloudTigerx/BladeFighters-sub000/internal/games/puzzle"
)

// Entry is the resolved output for one combo pattern: strike dimensions in
// "WxH" form plus a garbage count.
type Entry struct {
	Strikes []string `yaml:"strikes,omitempty"`
	Garbage int      `yaml:"garbage,omitempty"`
}

// Payloads expands the entry into concrete payloads in the given color.
// Malformed strike specs are skipped.
func (e Entry) Payloads(color puzzle.BlockColor) []Payload {
	var out []Payload
	for _, s := range e.Strikes {
		w, h, err := ParseStrikeDim(s)
		if err != nil {
			continue
		}
		out = append(out, Strike{Width: w, Height: h, Color: color})
	}
	if e.Garbage > 0 {
		out = append(out, Garbage{Count: e.Garbage, Color: color})
	}
	return out
}

// ParseStrikeDim parses a "WxH" strike spec such as "2x6".
func ParseStrikeDim(s string) (w, h int, err error) {
	left, right, ok := strings.Cut(s, "x")
	if !ok {
		return 0, 0, fmt.Errorf("attack: bad strike spec %q", s)
	}
	w, err = strconv.Atoi(strings.TrimSpace(left))
	if err != nil {
		return 0, 0, fmt.Errorf("attack: bad strike width in %q", s)
	}
	h, err = strconv.Atoi(strings.TrimSpace(right))
	if err != nil {
		return 0, 0, fmt.Errorf("attack: bad strike height in %q", s)
	}
	if w < 1 || h < 1 {
		return 0, 0, fmt.Errorf("attack: non-positive strike spec %q", s)
	}
	return w, h, nil
}

// Database maps combo patterns to tuned attack outputs. It answers exact
// lookups first, then tries a rescaled match on the same pattern at a
// different chain level. Misses fall through to the caller's formulas.
//
// Keys look like "4,4|2i|1b|3x": cluster sizes descending, individual count,
// breaker count, chain multiplier.
type Database struct {
	mu    sync.RWMutex
	rules map[string]Entry
}

// NewDatabase returns an empty database.
func NewDatabase() *Database {
	return &Database{rules: make(map[string]Entry)}
}

// GenerateDefault builds a database pre-populated from the formulaic rules
// for the common combo shapes, ready to be exported and hand-tuned.
func GenerateDefault(cfg CalcConfig) *Database {
	db := NewDatabase()

	clusterShapes := []ClusterInfo{
		{Size: 4, Width: 2, Height: 2},
		{Size: 6, Width: 3, Height: 2},
		{Size: 8, Width: 2, Height: 4},
		{Size: 9, Width: 3, Height: 3},
		{Size: 12, Width: 3, Height: 4},
		{Size: 16, Width: 4, Height: 4},
	}
	for _, shape := range clusterShapes {
		for chain := 1; chain <= 8; chain++ {
			db.put(Combo{Clusters: []ClusterInfo{shape}, Chain: chain}, cfg)
		}
	}

	// Stacked same-shape clusters breaking as one batch.
	small := ClusterInfo{Size: 4, Width: 2, Height: 2}
	for count := 2; count <= 3; count++ {
		clusters := make([]ClusterInfo, count)
		for i := range clusters {
			clusters[i] = small
		}
		for chain := 1; chain <= 4; chain++ {
			db.put(Combo{Clusters: clusters, Chain: chain}, cfg)
		}
	}

	// Pure loose-block combos.
	for ind := 1; ind <= 12; ind++ {
		for breakers := 1; breakers <= 2; breakers++ {
			for chain := 1; chain <= 6; chain++ {
				db.put(Combo{Individuals: ind, Breakers: breakers, Chain: chain}, cfg)
			}
		}
	}
	return db
}

func (db *Database) put(combo Combo, cfg CalcConfig) {
	entry := Entry{Garbage: cfg.garbageCount(combo)}
	for _, dim := range cfg.strikeDims(combo) {
		entry.Strikes = append(entry.Strikes, fmt.Sprintf("%dx%d", dim[0], dim[1]))
	}
	db.Set(comboKey(combo), entry)
}

// Len returns the number of rules.
func (db *Database) Len() int {
	db.mu.RLock()
	defer db.mu.RUnlock()
	return len(db.rules)
}

// Set installs or replaces the rule for a key.
func (db *Database) Set(key string, e Entry) {
	db.mu.Lock()
	defer db.mu.Unlock()
	db.rules[key] = e
}

// Resolve finds the output for a combo: exact key first, then the same
// pattern at the nearest chain level with strikes rescaled.
func (db *Database) Resolve(combo Combo) (Entry, bool) {
	db.mu.RLock()
	defer db.mu.RUnlock()

	if e, ok := db.rules[comboKey(combo)]; ok {
		return e, true
	}

	prefix := comboPrefix(combo)
	bestChain := -1
	var best Entry
	for key, e := range db.rules {
		p, chain, ok := splitKey(key)
		if !ok || p != prefix || chain == combo.Chain {
			continue
		}
		if bestChain < 0 || absInt(chain-combo.Chain) < absInt(bestChain-combo.Chain) {
			bestChain, best = chain, e
		}
	}
	if bestChain < 0 {
		return Entry{}, false
	}
	return rescaleEntry(best, bestChain, combo.Chain), true
}

// rescaleEntry adjusts a neighboring chain level's output to the requested
// one: strike heights scale proportionally (capped at 12 rows) and garbage
// scales by the chain ratio.
func rescaleEntry(e Entry, fromChain, toChain int) Entry {
	if fromChain < 1 {
		fromChain = 1
	}
	out := Entry{Garbage: e.Garbage * toChain / fromChain}
	for _, s := range e.Strikes {
		w, h, err := ParseStrikeDim(s)
		if err != nil {
			continue
		}
		h = h * toChain / fromChain
		if h < 1 {
			h = 1
		}
		if h > 12 {
			h = 12
		}
		out.Strikes = append(out.Strikes, fmt.Sprintf("%dx%d", w, h))
	}
	return out
}

// comboKey builds the canonical rule key for a combo.
func comboKey(combo Combo) string {
	return fmt.Sprintf("%s|%dx", comboPrefix(combo), combo.Chain)
}

// comboPrefix is the key without the chain level.
func comboPrefix(combo Combo) string {
	sizes := make([]int, len(combo.Clusters))
	for i, cl := range combo.Clusters {
		sizes[i] = cl.Size
	}
	sort.Sort(sort.Reverse(sort.IntSlice(sizes)))

	parts := make([]string, len(sizes))
	for i, s := range sizes {
		parts[i] = strconv.Itoa(s)
	}
	clusterPart := strings.Join(parts, ",")
	if clusterPart == "" {
		clusterPart = "-"
	}
	return fmt.Sprintf("%s|%di|%db", clusterPart, combo.Individuals, combo.Breakers)
}

func splitKey(key string) (prefix string, chain int, ok bool) {
	i := strings.LastIndexByte(key, '|')
	if i < 0 || !strings.HasSuffix(key, "x") {
		return "", 0, false
	}
	chain, err := strconv.Atoi(key[i+1 : len(key)-1])
	if err != nil {
		return "", 0, false
	}
	return key[:i], chain, true
}

func absInt(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

// LoadYAML merges rules from a YAML file into the database. File rules
// override generated ones with the same key.
func (db *Database) LoadYAML(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("attack: read database: %w", err)
	}
	var rules map[string]Entry
	if err := yaml.Unmarshal(data, &rules); err != nil {
		return fmt.Errorf("attack: parse database: %w", err)
	}
	db.mu.Lock()
	defer db.mu.Unlock()
	for k, e := range rules {
		db.rules[k] = e
	}
	return nil
}

// SaveYAML writes every rule to a YAML file, keys sorted for stable diffs.
func (db *Database) SaveYAML(path string) error {
	db.mu.RLock()
	rules := make(map[string]Entry, len(db.rules))
	for k, e := range db.rules {
		rules[k] = e
	}
	db.mu.RUnlock()

	data, err := yaml.Marshal(rules)
	if err != nil {
		return fmt.Errorf("attack: encode database: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("attack: write database: %w", err)
	}
	return nil
}
