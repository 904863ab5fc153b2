package entity

// PersonaContext is the background text shared read-only by every agent and
// task of a run.
type PersonaContext struct {
	text string
}

func NewPersonaContext(text string) *PersonaContext {
	return &PersonaContext{text: text}
}

func (p *PersonaContext) Text() string {
	if p == nil {
		return ""
	}
	return p.text
}
