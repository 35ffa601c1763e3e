package bot

import (
	"fmt"
	"sort"
	"sync"

	"github.com/vovakirdan/tui-tenthousand/internal/config"
)

// Factory builds a policy from the configured thresholds.
type Factory func(bots config.BotsConfig) Policy

// Info contains metadata about a registered difficulty.
type Info struct {
	Difficulty config.Difficulty
	Title      string
}

var (
	factories = make(map[config.Difficulty]Factory)
	mu        sync.RWMutex
)

func init() {
	for _, d := range config.Difficulties() {
		Register(d, func(bots config.BotsConfig) Policy {
			tier, _ := bots.Tier(d)
			return NewThresholdPolicy(d.Title(), tier)
		})
	}
}

// Register adds a policy factory for a difficulty.
// Panics if the difficulty is already registered.
func Register(d config.Difficulty, f Factory) {
	mu.Lock()
	defer mu.Unlock()

	if _, exists := factories[d]; exists {
		panic(fmt.Sprintf("bot: difficulty %q already registered", d))
	}
	factories[d] = f
}

// List returns all registered difficulties, sorted by name.
func List() []Info {
	mu.RLock()
	defer mu.RUnlock()

	result := make([]Info, 0, len(factories))
	for d := range factories {
		result = append(result, Info{Difficulty: d, Title: d.Title()})
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].Difficulty < result[j].Difficulty
	})
	return result
}

// Create instantiates the policy for a difficulty.
func Create(d config.Difficulty, bots config.BotsConfig) (Policy, error) {
	mu.RLock()
	defer mu.RUnlock()

	f, ok := factories[d]
	if !ok {
		return nil, fmt.Errorf("bot: unknown difficulty %q", d)
	}
	return f(bots), nil
}

// Exists checks if a difficulty is registered.
func Exists(d config.Difficulty) bool {
	mu.RLock()
	defer mu.RUnlock()

	_, ok := factories[d]
	return ok
}
