package event

// Base carries the fields and trivial accessors shared by every event
// variant.
type Base struct {
	name          string
	id            int64
	conditionName string
}

// NewBase builds a Base naming the event and the condition it feeds.
func NewBase(name, conditionName string) Base {
	return Base{name: name, conditionName: conditionName}
}

func (b *Base) Name() string          { return b.name }
func (b *Base) ID() int64             { return b.id }
func (b *Base) SetID(id int64)        { b.id = id }
func (b *Base) ConditionName() string { return b.conditionName }
