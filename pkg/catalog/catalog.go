package catalog

import (
	"embed"
	"sort"
	"strings"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

//go:embed data/*.yaml
var dataFS embed.FS

type Category string

const (
	CategoryBase     Category = "base"
	CategoryAvanzata Category = "avanzata"
	CategoryEsperta  Category = "esperta"
)

// Technique is one prompting technique from the reference catalog.
type Technique struct {
	ID            string   `yaml:"id"`
	Name          string   `yaml:"name"`
	Description   string   `yaml:"description"`
	UseCase       string   `yaml:"useCase"`
	Advantages    string   `yaml:"advantages"`
	Disadvantages string   `yaml:"disadvantages"`
	Complexity    string   `yaml:"complexity"`
	Cost          string   `yaml:"cost"`
	Example       string   `yaml:"example"`
	Applications  []string `yaml:"applications"`
	Category      Category `yaml:"category"`
}

type GlossaryTerm struct {
	ID         string `yaml:"id"`
	Term       string `yaml:"term"`
	Definition string `yaml:"definition"`
	Letter     string `yaml:"letter"`
}

type BestPractice struct {
	ID          string `yaml:"id"`
	Title       string `yaml:"title"`
	Description string `yaml:"description"`
	// Type is "do" or "dont".
	Type string `yaml:"type"`
}

// PromptTemplate is a reusable prompt skeleton; Template holds Go
// template syntax with one field per entry in Params.
type PromptTemplate struct {
	ID          string   `yaml:"id"`
	Name        string   `yaml:"name"`
	Description string   `yaml:"description"`
	Category    string   `yaml:"category"`
	Params      []string `yaml:"params"`
	Template    string   `yaml:"template"`
}

// complexityRank orders the Italian complexity labels for sorting.
var complexityRank = map[string]int{
	"Bassa":      0,
	"Media":      1,
	"Alta":       2,
	"Molto Alta": 3,
}

var costRank = map[string]int{
	"Basso":      0,
	"Medio":      1,
	"Alto":       2,
	"Molto Alto": 3,
	"Altissimo":  4,
}

// Catalog is the static, in-memory reference catalog.
type Catalog struct {
	techniques []Technique
	glossary   []GlossaryTerm
	practices  []BestPractice
	templates  []PromptTemplate
}

// Load parses the embedded data files into a Catalog.
func Load() (*Catalog, error) {
	ret := &Catalog{}

	if err := loadYAML("data/techniques.yaml", &ret.techniques); err != nil {
		return nil, err
	}
	if err := loadYAML("data/glossary.yaml", &ret.glossary); err != nil {
		return nil, err
	}
	if err := loadYAML("data/practices.yaml", &ret.practices); err != nil {
		return nil, err
	}
	if err := loadYAML("data/templates.yaml", &ret.templates); err != nil {
		return nil, err
	}

	return ret, nil
}

func loadYAML(path string, v interface{}) error {
	b, err := dataFS.ReadFile(path)
	if err != nil {
		return errors.Wrapf(err, "read %s", path)
	}
	if err := yaml.Unmarshal(b, v); err != nil {
		return errors.Wrapf(err, "parse %s", path)
	}
	return nil
}

func (c *Catalog) Techniques() []Technique {
	ret := make([]Technique, len(c.techniques))
	copy(ret, c.techniques)
	return ret
}

func (c *Catalog) GetTechnique(id string) (Technique, bool) {
	for _, t := range c.techniques {
		if t.ID == id {
			return t, true
		}
	}
	return Technique{}, false
}

// SearchTechniques matches the query case-insensitively against name,
// description and use case. An empty query returns everything.
func (c *Catalog) SearchTechniques(query string) []Technique {
	query = strings.ToLower(strings.TrimSpace(query))
	if query == "" {
		return c.Techniques()
	}

	ret := []Technique{}
	for _, t := range c.techniques {
		haystack := strings.ToLower(t.Name + " " + t.Description + " " + t.UseCase)
		if strings.Contains(haystack, query) {
			ret = append(ret, t)
		}
	}
	return ret
}

func (c *Catalog) FilterByCategory(category Category) []Technique {
	ret := []Technique{}
	for _, t := range c.techniques {
		if t.Category == category {
			ret = append(ret, t)
		}
	}
	return ret
}

func (c *Catalog) FilterByComplexity(complexity string) []Technique {
	ret := []Technique{}
	for _, t := range c.techniques {
		if t.Complexity == complexity {
			ret = append(ret, t)
		}
	}
	return ret
}

type SortKey string

const (
	SortByName       SortKey = "name"
	SortByComplexity SortKey = "complexity"
	SortByCost       SortKey = "cost"
)

// SortTechniques returns the techniques ordered by the given key.
// Complexity and cost sort by their Italian label rank, not
// alphabetically.
func (c *Catalog) SortTechniques(key SortKey) []Technique {
	ret := c.Techniques()
	switch key {
	case SortByComplexity:
		sort.SliceStable(ret, func(i, j int) bool {
			return complexityRank[ret[i].Complexity] < complexityRank[ret[j].Complexity]
		})
	case SortByCost:
		sort.SliceStable(ret, func(i, j int) bool {
			return costRank[ret[i].Cost] < costRank[ret[j].Cost]
		})
	default:
		sort.SliceStable(ret, func(i, j int) bool {
			return ret[i].Name < ret[j].Name
		})
	}
	return ret
}

// Compare returns the named techniques in argument order, skipping
// unknown ids, for side-by-side display.
func (c *Catalog) Compare(ids ...string) []Technique {
	ret := []Technique{}
	for _, id := range ids {
		if t, ok := c.GetTechnique(id); ok {
			ret = append(ret, t)
		}
	}
	return ret
}

// Glossary returns the glossary terms sorted by letter, then term.
func (c *Catalog) Glossary() []GlossaryTerm {
	ret := make([]GlossaryTerm, len(c.glossary))
	copy(ret, c.glossary)
	sort.SliceStable(ret, func(i, j int) bool {
		if ret[i].Letter != ret[j].Letter {
			return ret[i].Letter < ret[j].Letter
		}
		return ret[i].Term < ret[j].Term
	})
	return ret
}

func (c *Catalog) BestPractices() []BestPractice {
	ret := make([]BestPractice, len(c.practices))
	copy(ret, c.practices)
	return ret
}

func (c *Catalog) Templates() []PromptTemplate {
	ret := make([]PromptTemplate, len(c.templates))
	copy(ret, c.templates)
	return ret
}

func (c *Catalog) GetTemplate(id string) (PromptTemplate, bool) {
	for _, t := range c.templates {
		if t.ID == id {
			return t, true
		}
	}
	return PromptTemplate{}, false
}
