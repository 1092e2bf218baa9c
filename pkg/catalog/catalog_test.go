package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func loadTestCatalog(t *testing.T) *Catalog {
	t.Helper()
	c, err := Load()
	require.NoError(t, err)
	return c
}

func TestLoadEmbeddedCatalog(t *testing.T) {
	c := loadTestCatalog(t)

	assert.Len(t, c.Techniques(), 15)
	assert.Len(t, c.Glossary(), 27)
	assert.Len(t, c.BestPractices(), 12)
	assert.Len(t, c.Templates(), 6)
}

func TestGetTechnique(t *testing.T) {
	c := loadTestCatalog(t)

	technique, ok := c.GetTechnique("chain-of-thought")
	require.True(t, ok)
	assert.Equal(t, "Chain-of-Thought (CoT)", technique.Name)
	assert.NotEmpty(t, technique.Description)
	assert.NotEmpty(t, technique.Example)
	assert.NotEmpty(t, technique.Applications)

	_, ok = c.GetTechnique("non-esiste")
	assert.False(t, ok)
}

func TestSearchTechniques(t *testing.T) {
	c := loadTestCatalog(t)

	t.Run("empty query returns everything", func(t *testing.T) {
		assert.Len(t, c.SearchTechniques(""), 15)
		assert.Len(t, c.SearchTechniques("   "), 15)
	})

	t.Run("matches are case-insensitive", func(t *testing.T) {
		lower := c.SearchTechniques("contratt")
		upper := c.SearchTechniques("CONTRATT")
		require.NotEmpty(t, lower)
		assert.Equal(t, lower, upper)
	})

	t.Run("matches name description and use case", func(t *testing.T) {
		byName := c.SearchTechniques("zero-shot")
		require.NotEmpty(t, byName)
		assert.Equal(t, "zero-shot", byName[0].ID)

		byUseCase := c.SearchTechniques("ben codificate")
		require.Len(t, byUseCase, 1)
		assert.Equal(t, "zero-shot", byUseCase[0].ID)
	})

	t.Run("no match returns empty", func(t *testing.T) {
		assert.Empty(t, c.SearchTechniques("xyzzy"))
	})
}

func TestFilterTechniques(t *testing.T) {
	c := loadTestCatalog(t)

	base := c.FilterByCategory(CategoryBase)
	avanzata := c.FilterByCategory(CategoryAvanzata)
	esperta := c.FilterByCategory(CategoryEsperta)
	assert.NotEmpty(t, base)
	assert.NotEmpty(t, avanzata)
	assert.NotEmpty(t, esperta)
	assert.Len(t, c.Techniques(), len(base)+len(avanzata)+len(esperta))

	for _, technique := range c.FilterByComplexity("Bassa") {
		assert.Equal(t, "Bassa", technique.Complexity)
	}
}

func TestSortTechniques(t *testing.T) {
	c := loadTestCatalog(t)

	t.Run("by name", func(t *testing.T) {
		sorted := c.SortTechniques(SortByName)
		for i := 1; i < len(sorted); i++ {
			assert.LessOrEqual(t, sorted[i-1].Name, sorted[i].Name)
		}
	})

	t.Run("by complexity rank", func(t *testing.T) {
		sorted := c.SortTechniques(SortByComplexity)
		for i := 1; i < len(sorted); i++ {
			assert.LessOrEqual(t, complexityRank[sorted[i-1].Complexity], complexityRank[sorted[i].Complexity])
		}
	})

	t.Run("by cost rank", func(t *testing.T) {
		sorted := c.SortTechniques(SortByCost)
		for i := 1; i < len(sorted); i++ {
			assert.LessOrEqual(t, costRank[sorted[i-1].Cost], costRank[sorted[i].Cost])
		}
	})

	t.Run("does not mutate catalog order", func(t *testing.T) {
		before := c.Techniques()
		_ = c.SortTechniques(SortByName)
		assert.Equal(t, before, c.Techniques())
	})
}

func TestCompare(t *testing.T) {
	c := loadTestCatalog(t)

	compared := c.Compare("few-shot", "non-esiste", "zero-shot")
	require.Len(t, compared, 2)
	assert.Equal(t, "few-shot", compared[0].ID)
	assert.Equal(t, "zero-shot", compared[1].ID)
}

func TestGlossaryIsSorted(t *testing.T) {
	c := loadTestCatalog(t)

	terms := c.Glossary()
	require.NotEmpty(t, terms)
	for i := 1; i < len(terms); i++ {
		previous, current := terms[i-1], terms[i]
		if previous.Letter == current.Letter {
			assert.LessOrEqual(t, previous.Term, current.Term)
		} else {
			assert.Less(t, previous.Letter, current.Letter)
		}
	}
}

func TestBestPracticesHaveValidTypes(t *testing.T) {
	c := loadTestCatalog(t)

	dos, donts := 0, 0
	for _, practice := range c.BestPractices() {
		switch practice.Type {
		case "do":
			dos++
		case "dont":
			donts++
		default:
			t.Fatalf("unexpected practice type %q", practice.Type)
		}
	}
	assert.NotZero(t, dos)
	assert.NotZero(t, donts)
}

func TestGetTemplate(t *testing.T) {
	c := loadTestCatalog(t)

	tmpl, ok := c.GetTemplate("analisi-contratto")
	require.True(t, ok)
	assert.Equal(t, []string{"contratto"}, tmpl.Params)
	assert.Contains(t, tmpl.Template, "{{ .contratto }}")

	_, ok = c.GetTemplate("non-esiste")
	assert.False(t, ok)
}
