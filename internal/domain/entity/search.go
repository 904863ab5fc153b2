package entity

type SearchQuery struct {
	Query string
	Num   int
}

type SearchHit struct {
	Position int
	Title    string
	Link     string
	Snippet  string
}

type SearchResponse struct {
	Query          string
	Answer         string
	KnowledgeGraph string
	Hits           []SearchHit
}

type WebPage struct {
	URL       string
	Title     string
	Markdown  string
	Truncated bool
}
