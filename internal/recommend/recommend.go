package recommend

import (
	_ "embed"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/safar/storefront/internal/models"
	"gopkg.in/yaml.v3"
)

// MaxPerList caps both the primary and the secondary list.
const MaxPerList = 3

type Goal string

type Result struct {
	Primary   []models.Product `json:"primary"`
	Secondary []models.Product `json:"secondary"`
}

//go:embed goals.yaml
var goalsYAML []byte

type goalEntry struct {
	Name     string   `yaml:"name"`
	Keywords []string `yaml:"keywords"`
}

type goalTable struct {
	Goals []goalEntry `yaml:"goals"`
}

var (
	goalOrder []Goal
	keywords  map[Goal][]string
)

func init() {
	order, table, err := parseGoals(goalsYAML)
	if err != nil {
		panic(err)
	}
	goalOrder, keywords = order, table
}

func parseGoals(data []byte) ([]Goal, map[Goal][]string, error) {
	var table goalTable
	if err := yaml.Unmarshal(data, &table); err != nil {
		return nil, nil, fmt.Errorf("parse goal table: %w", err)
	}

	order := make([]Goal, 0, len(table.Goals))
	byGoal := make(map[Goal][]string, len(table.Goals))
	for _, entry := range table.Goals {
		goal := Goal(entry.Name)
		if goal == "" {
			return nil, nil, fmt.Errorf("parse goal table: entry without name")
		}
		if _, dup := byGoal[goal]; dup {
			return nil, nil, fmt.Errorf("parse goal table: duplicate goal %q", goal)
		}
		order = append(order, goal)
		byGoal[goal] = entry.Keywords
	}
	return order, byGoal, nil
}

// Goals returns the known goals in their declared order.
func Goals() []Goal {
	out := make([]Goal, len(goalOrder))
	copy(out, goalOrder)
	return out
}

func Known(goal Goal) bool {
	_, ok := keywords[goal]
	return ok
}

// Keywords returns a copy of the keyword list for goal, nil when unknown.
func Keywords(goal Goal) []string {
	kw, ok := keywords[goal]
	if !ok {
		return nil
	}
	out := make([]string, len(kw))
	copy(out, kw)
	return out
}

func matches(p models.Product, keyword string) bool {
	kw := strings.ToLower(keyword)
	return strings.Contains(strings.ToLower(p.Name), kw) ||
		strings.Contains(strings.ToLower(p.Description), kw)
}

type collector struct {
	seen map[uuid.UUID]struct{}
}

func (c *collector) add(dst []models.Product, p models.Product) []models.Product {
	if _, ok := c.seen[p.ID]; ok {
		return dst
	}
	c.seen[p.ID] = struct{}{}
	return append(dst, p)
}

func (c *collector) scan(dst []models.Product, goal Goal, catalog []models.Product) []models.Product {
	for _, kw := range keywords[goal] {
		for _, p := range catalog {
			if matches(p, kw) {
				dst = c.add(dst, p)
			}
		}
	}
	return dst
}

func (c *collector) featured(dst []models.Product, catalog []models.Product) []models.Product {
	for _, p := range catalog {
		if p.Featured {
			dst = c.add(dst, p)
		}
	}
	return dst
}

func truncate(products []models.Product) []models.Product {
	if len(products) > MaxPerList {
		return products[:MaxPerList]
	}
	return products
}

// Recommend maps goals onto catalog products. The first goal feeds the
// primary list and the rest feed the secondary list; a product appears at most
// once across both, at its first qualifying position. When the first goal
// matches nothing the featured products stand in for the primary list.
func Recommend(goals []Goal, catalog []models.Product) Result {
	c := &collector{seen: make(map[uuid.UUID]struct{})}
	primary := []models.Product{}
	secondary := []models.Product{}

	if len(goals) > 0 {
		primary = c.scan(primary, goals[0], catalog)
		for _, goal := range goals[1:] {
			secondary = c.scan(secondary, goal, catalog)
		}
	}

	if len(primary) == 0 {
		primary = c.featured(primary, catalog)
	}

	return Result{
		Primary:   truncate(primary),
		Secondary: truncate(secondary),
	}
}

// ParseGoals converts raw goal names, dropping blanks and repeats while
// keeping selection order.
func ParseGoals(names []string) []Goal {
	out := make([]Goal, 0, len(names))
	seen := make(map[Goal]struct{}, len(names))
	for _, name := range names {
		goal := Goal(strings.TrimSpace(name))
		if goal == "" {
			continue
		}
		if _, ok := seen[goal]; ok {
			continue
		}
		seen[goal] = struct{}{}
		out = append(out, goal)
	}
	return out
}
