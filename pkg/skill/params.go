package skill

// Params holds a validated parameter mapping in schema declaration order, so
// downstream engine calls receive deterministic argument ordering.
type Params struct {
	names  []string
	values map[string]any
}

func newParams(capacity int) *Params {
	return &Params{
		names:  make([]string, 0, capacity),
		values: make(map[string]any, capacity),
	}
}

func (p *Params) set(name string, value any) {
	if _, ok := p.values[name]; !ok {
		p.names = append(p.names, name)
	}
	p.values[name] = value
}

// Get returns a parameter value and whether it is present.
func (p *Params) Get(name string) (any, bool) {
	v, ok := p.values[name]
	return v, ok
}

// Names returns the parameter names in schema declaration order.
func (p *Params) Names() []string {
	out := make([]string, len(p.names))
	copy(out, p.names)
	return out
}

// Len returns the number of parameters present.
func (p *Params) Len() int {
	return len(p.names)
}

// Map returns a copy of the parameter mapping keyed by name.
func (p *Params) Map() map[string]any {
	out := make(map[string]any, len(p.values))
	for k, v := range p.values {
		out[k] = v
	}
	return out
}

// String returns a string parameter; the zero value if absent or mistyped.
// Validated params are already type-checked, so the ok-less accessors below
// are safe inside handlers for parameters the schema declares.
func (p *Params) String(name string) string {
	v, _ := p.values[name].(string)
	return v
}

// Float returns a float parameter.
func (p *Params) Float(name string) float64 {
	switch v := p.values[name].(type) {
	case float64:
		return v
	case int:
		return float64(v)
	}
	return 0
}

// Int returns an int parameter.
func (p *Params) Int(name string) int {
	switch v := p.values[name].(type) {
	case int:
		return v
	case float64:
		return int(v)
	}
	return 0
}

// Bool returns a bool parameter.
func (p *Params) Bool(name string) bool {
	v, _ := p.values[name].(bool)
	return v
}

// Vec3 returns a 3-tuple parameter.
func (p *Params) Vec3(name string) [3]float64 {
	v, _ := p.values[name].([3]float64)
	return v
}

// IntList returns an integer-list parameter.
func (p *Params) IntList(name string) []int {
	v, _ := p.values[name].([]int)
	return v
}
