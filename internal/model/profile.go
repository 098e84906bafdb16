package model

// Profile はプロフィール・職務経歴を表す。
type Profile struct {
	Name        string       `yaml:"name" json:"name"`
	Role        string       `yaml:"role" json:"role"`
	Quote       string       `yaml:"quote" json:"quote"`
	QuoteAuthor string       `yaml:"quote_author" json:"quote_author"`
	Summary     string       `yaml:"summary" json:"summary"`
	Skills      []string     `yaml:"skills" json:"skills"`
	Tools       []string     `yaml:"tools" json:"tools"`
	Experience  []Experience `yaml:"experience" json:"experience"`
	Education   []Education  `yaml:"education" json:"education"`
	Links       []Link       `yaml:"links" json:"links"`
}

// Experience は職歴の1件を表す。
type Experience struct {
	Role        string `yaml:"role" json:"role"`
	Company     string `yaml:"company" json:"company"`
	Period      string `yaml:"period" json:"period"`
	Description string `yaml:"description" json:"description"`
}

// Education は学歴・資格の1件を表す。
type Education struct {
	Degree      string `yaml:"degree" json:"degree"`
	Institution string `yaml:"institution" json:"institution"`
	Details     string `yaml:"details" json:"details"`
}

// Link は外部プロフィールへのリンクを表す。
type Link struct {
	Label string `yaml:"label" json:"label"`
	URL   string `yaml:"url" json:"url"`
}
