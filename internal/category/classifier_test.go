package category

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dtroode/spendy/internal/model"
)

func TestClassifier_Classify(t *testing.T) {
	c := Default()

	tests := []struct {
		name        string
		category    string
		description string
		wantKey     string
		wantLabel   string
	}{
		{name: "coffee before market", description: "Starbucks Coffee", wantKey: "dining", wantLabel: "Ristorazione e Bar"},
		{name: "coffee shop market stand", description: "Starbucks Market", wantKey: "dining"},
		{name: "generic market", description: "Mini Market Roma", wantKey: "groceries"},
		{name: "case insensitive description", description: "NETFLIX.COM", wantKey: "subscriptions"},
		{name: "no match", description: "Bonifico condominio", wantKey: UncategorizedKey, wantLabel: "Uncategorized"},
		{name: "empty description", description: "   ", wantKey: UncategorizedKey},
		{name: "backend category by name", category: "trasporti", description: "Starbucks", wantKey: "transport", wantLabel: "Trasporti"},
		{name: "backend category by key", category: "Travel", description: "", wantKey: "travel"},
		{name: "sentinel falls back to rules", category: "Non classificato", description: "Lidl 123", wantKey: "groceries"},
		{name: "english sentinel", category: "uncategorized", description: "Uber trip", wantKey: "transport"},
		{name: "unknown backend category keeps label", category: "Regali", description: "Starbucks", wantKey: "", wantLabel: "Regali"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := c.Classify(tt.category, tt.description)
			assert.Equal(t, tt.wantKey, got.Key)
			if tt.wantLabel != "" {
				assert.Equal(t, tt.wantLabel, got.Label)
			}
			assert.NotEmpty(t, got.Color)
			assert.NotEmpty(t, got.Icon)
		})
	}
}

func TestClassifier_UnknownCategoryUsesDefaultLook(t *testing.T) {
	c := Default()
	fallback, ok := c.Category(UncategorizedKey)
	require.True(t, ok)

	got := c.Classify("Regali", "")
	assert.Equal(t, fallback.Color, got.Color)
	assert.Equal(t, fallback.Icon, got.Icon)
}

func TestClassifier_RuleOrderIsSignificant(t *testing.T) {
	categories := DefaultCategories()

	first, err := NewClassifier(categories, []Rule{
		{Keyword: "coffee", Category: "dining"},
		{Keyword: "market", Category: "groceries"},
	})
	require.NoError(t, err)

	swapped, err := NewClassifier(categories, []Rule{
		{Keyword: "market", Category: "groceries"},
		{Keyword: "coffee", Category: "dining"},
	})
	require.NoError(t, err)

	assert.Equal(t, "dining", first.Classify("", "Coffee Market").Key)
	assert.Equal(t, "groceries", swapped.Classify("", "Coffee Market").Key)
}

func TestClassifier_ClassifyTransaction(t *testing.T) {
	c := Default()
	cat := "Shopping e Abbigliamento"

	assert.Equal(t, "shopping", c.ClassifyTransaction(model.Transaction{Description: "Starbucks", Category: &cat}).Key)
	assert.Equal(t, "dining", c.ClassifyTransaction(model.Transaction{Description: "Starbucks"}).Key)
}

func TestNewClassifier_Validation(t *testing.T) {
	tests := []struct {
		name       string
		categories []Category
		rules      []Rule
		wantErr    error
	}{
		{
			name:       "missing fallback",
			categories: []Category{{Key: "dining", Name: "Dining"}},
			wantErr:    ErrNoFallback,
		},
		{
			name:       "unknown rule category",
			categories: DefaultCategories(),
			rules:      []Rule{{Keyword: "x", Category: "pets"}},
			wantErr:    ErrUnknownCategory,
		},
		{
			name:       "empty keyword",
			categories: DefaultCategories(),
			rules:      []Rule{{Keyword: " ", Category: "dining"}},
			wantErr:    ErrEmptyKeyword,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewClassifier(tt.categories, tt.rules)
			require.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestLoad(t *testing.T) {
	t.Run("empty path uses defaults", func(t *testing.T) {
		c, err := Load("")
		require.NoError(t, err)
		assert.Equal(t, "dining", c.Classify("", "Starbucks").Key)
	})

	t.Run("custom rules file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "rules.yaml")
		content := `
categories:
  - key: pets
    name: Animali
    color: "#A16207"
    icon: pawprint.fill
  - key: uncategorized
    name: Altro
    color: "#4F46E5"
    icon: questionmark.circle.fill
rules:
  - keyword: Arcaplanet
    category: pets
`
		require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

		c, err := Load(path)
		require.NoError(t, err)

		got := c.Classify("", "ARCAPLANET Roma")
		assert.Equal(t, "pets", got.Key)
		assert.Equal(t, "Animali", got.Label)
		assert.Equal(t, "Altro", c.Classify("", "Starbucks").Label)
	})

	t.Run("rules only keeps default categories", func(t *testing.T) {
		c, err := Parse([]byte("rules:\n  - keyword: esselunga\n    category: groceries\n"))
		require.NoError(t, err)
		assert.Equal(t, "groceries", c.Classify("", "Esselunga").Key)
		assert.Equal(t, UncategorizedKey, c.Classify("", "Starbucks").Key)
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
		require.Error(t, err)
	})

	t.Run("invalid yaml", func(t *testing.T) {
		_, err := Parse([]byte("rules: ["))
		require.Error(t, err)
	})
}
