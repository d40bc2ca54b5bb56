package category

import (
	"errors"
	"fmt"
	"strings"

	"github.com/dtroode/spendy/internal/model"
)

// UncategorizedKey is the key of the fallback category.
const UncategorizedKey = "uncategorized"

// sentinels are backend category values meaning "no category".
var sentinels = map[string]struct{}{
	"uncategorized":    {},
	"non classificato": {},
}

// Category is one canonical category with its display attributes.
type Category struct {
	Key   string `yaml:"key"`
	Name  string `yaml:"name"`
	Color string `yaml:"color"`
	Icon  string `yaml:"icon"`
}

// Rule maps a description keyword to a category key. Rules are checked in order.
type Rule struct {
	Keyword  string `yaml:"keyword"`
	Category string `yaml:"category"`
}

// Classification is the outcome of classifying one transaction.
type Classification struct {
	Key   string `json:"key"`
	Label string `json:"label"`
	Color string `json:"color"`
	Icon  string `json:"icon"`
}

var (
	ErrNoFallback      = errors.New("category table has no uncategorized entry")
	ErrUnknownCategory = errors.New("rule references unknown category")
	ErrEmptyKeyword    = errors.New("rule keyword is empty")
)

// Classifier infers canonical categories from backend categories and descriptions.
// It is immutable after construction and safe for concurrent use.
type Classifier struct {
	byKey    map[string]Category
	byLookup map[string]Category
	rules    []Rule
	fallback Category
}

// NewClassifier validates the tables and builds a Classifier. The category table must
// contain an entry keyed UncategorizedKey.
func NewClassifier(categories []Category, rules []Rule) (*Classifier, error) {
	c := &Classifier{
		byKey:    make(map[string]Category, len(categories)),
		byLookup: make(map[string]Category, 2*len(categories)),
		rules:    make([]Rule, 0, len(rules)),
	}

	for _, cat := range categories {
		key := strings.ToLower(strings.TrimSpace(cat.Key))
		cat.Key = key
		c.byKey[key] = cat
		c.byLookup[key] = cat
		c.byLookup[strings.ToLower(strings.TrimSpace(cat.Name))] = cat
	}

	fallback, ok := c.byKey[UncategorizedKey]
	if !ok {
		return nil, ErrNoFallback
	}
	c.fallback = fallback

	for i, rule := range rules {
		keyword := strings.ToLower(strings.TrimSpace(rule.Keyword))
		if keyword == "" {
			return nil, fmt.Errorf("rule %d: %w", i, ErrEmptyKeyword)
		}
		key := strings.ToLower(strings.TrimSpace(rule.Category))
		if _, ok := c.byKey[key]; !ok {
			return nil, fmt.Errorf("rule %d (%s -> %s): %w", i, rule.Keyword, rule.Category, ErrUnknownCategory)
		}
		c.rules = append(c.rules, Rule{Keyword: keyword, Category: key})
	}

	return c, nil
}

// Classify maps a backend category and a free-text description to a canonical category.
// A non-empty, non-sentinel backend category is authoritative; otherwise the description is
// matched against the ordered keyword rules and the first hit wins.
func (c *Classifier) Classify(category, description string) Classification {
	category = strings.TrimSpace(category)
	if category != "" {
		if _, sentinel := sentinels[strings.ToLower(category)]; !sentinel {
			if cat, ok := c.byLookup[strings.ToLower(category)]; ok {
				return classification(cat)
			}
			return Classification{
				Key:   "",
				Label: category,
				Color: c.fallback.Color,
				Icon:  c.fallback.Icon,
			}
		}
	}

	desc := strings.ToLower(description)
	if strings.TrimSpace(desc) != "" {
		for _, rule := range c.rules {
			if strings.Contains(desc, rule.Keyword) {
				return classification(c.byKey[rule.Category])
			}
		}
	}

	return classification(c.fallback)
}

// ClassifyTransaction classifies tx by its category and description.
func (c *Classifier) ClassifyTransaction(tx model.Transaction) Classification {
	var category string
	if tx.Category != nil {
		category = *tx.Category
	}
	return c.Classify(category, tx.Description)
}

// Category looks up a category by key.
func (c *Classifier) Category(key string) (Category, bool) {
	cat, ok := c.byKey[strings.ToLower(key)]
	return cat, ok
}

func classification(cat Category) Classification {
	return Classification{Key: cat.Key, Label: cat.Name, Color: cat.Color, Icon: cat.Icon}
}
