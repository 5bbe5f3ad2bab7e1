// Package grammar models the grammar reference: a topic index and the
// topics it points to.
package grammar

// TopicInfo is one entry of the topic index.
type TopicInfo struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Subtitle    string `json:"subtitle"`
	Level       string `json:"level"`
	Description string `json:"description"`
	Icon        string `json:"icon"`
	Color       string `json:"color"`
}

// Index is the content of grammar/index.json.
type Index struct {
	Topics []TopicInfo `json:"grammarTopics"`
}

// Find returns the index entry with the given id.
func (ix *Index) Find(id string) (TopicInfo, bool) {
	for _, t := range ix.Topics {
		if t.ID == id {
			return t, true
		}
	}
	return TopicInfo{}, false
}

// Topic is a full grammar topic. Info is filled from the index when the
// topic file itself lacks a title.
type Topic struct {
	Info       TopicInfo   `json:"-"`
	Title      string      `json:"title"`
	Sections   []Section   `json:"sections"`
	Comparison *Comparison `json:"comparison,omitempty"`
	Tips       []Tip       `json:"tips,omitempty"`
}

type Section struct {
	Title           string          `json:"title"`
	Structure       string          `json:"structure,omitempty"`
	Description     string          `json:"description,omitempty"`
	Uses            []Use           `json:"uses,omitempty"`
	Forms           map[string]Form `json:"forms,omitempty"`
	TimeExpressions []string        `json:"timeExpressions,omitempty"`
	IrregularVerbs  []IrregularVerb `json:"irregularVerbs,omitempty"`
}

type Use struct {
	Use         string `json:"use"`
	Example     string `json:"example"`
	Translation string `json:"translation"`
	Note        string `json:"note,omitempty"`
}

// Form is one sentence form (affirmative, negative, ...) of a section.
type Form struct {
	Structure string   `json:"structure"`
	Rules     []string `json:"rules,omitempty"`
	Examples  []string `json:"examples,omitempty"`
}

type IrregularVerb struct {
	Base    string `json:"base"`
	Past    string `json:"past"`
	Meaning string `json:"meaning"`
}

// Comparison shows one sentence across tenses.
type Comparison struct {
	Title    string              `json:"title"`
	Examples []ComparisonExample `json:"examples"`
}

type ComparisonExample struct {
	Present     string `json:"present"`
	Past        string `json:"past"`
	Future      string `json:"future"`
	Translation string `json:"translation"`
}

type Tip struct {
	Title   string `json:"title"`
	Content string `json:"content"`
	Example string `json:"example,omitempty"`
}
