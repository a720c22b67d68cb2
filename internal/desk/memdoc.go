// internal/desk/memdoc.go
package desk

import "sync"

// MemDocument is an in-memory Document used by the CLI preview and tests.
// It records style properties, per-element classes, and inline display
// values for a configurable set of present elements.
type MemDocument struct {
	mu         sync.Mutex
	properties map[string]string
	classes    map[string]map[string]struct{}
	displays   map[string]string
	elements   map[string]struct{}
}

// NewMemDocument creates a document containing the given elements. With no
// arguments the standard console elements are present.
func NewMemDocument(selectors ...string) *MemDocument {
	if len(selectors) == 0 {
		selectors = []string{SelectorLoginBox, SelectorSidebar, SelectorSearchBar}
	}
	elements := make(map[string]struct{}, len(selectors))
	for _, selector := range selectors {
		elements[selector] = struct{}{}
	}
	return &MemDocument{
		properties: make(map[string]string),
		classes:    make(map[string]map[string]struct{}),
		displays:   make(map[string]string),
		elements:   elements,
	}
}

func (d *MemDocument) SetStyleProperty(name, value string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.properties[name] = value
}

func (d *MemDocument) ClearStyleProperty(name string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	delete(d.properties, name)
}

func (d *MemDocument) AddClass(selector, class string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if _, ok := d.elements[selector]; !ok {
		return
	}
	if d.classes[selector] == nil {
		d.classes[selector] = make(map[string]struct{})
	}
	d.classes[selector][class] = struct{}{}
}

func (d *MemDocument) RemoveClass(selector, class string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if set, ok := d.classes[selector]; ok {
		delete(set, class)
	}
}

func (d *MemDocument) SetInlineDisplay(selector, value string) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	if _, ok := d.elements[selector]; !ok {
		return false
	}
	if value == "" {
		delete(d.displays, selector)
	} else {
		d.displays[selector] = value
	}
	return true
}

func (d *MemDocument) HasElement(selector string) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	_, ok := d.elements[selector]
	return ok
}

// StyleProperty returns the current value of a custom property.
func (d *MemDocument) StyleProperty(name string) (string, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	v, ok := d.properties[name]
	return v, ok
}

// StyleProperties returns a copy of all set custom properties.
func (d *MemDocument) StyleProperties() map[string]string {
	d.mu.Lock()
	defer d.mu.Unlock()
	out := make(map[string]string, len(d.properties))
	for k, v := range d.properties {
		out[k] = v
	}
	return out
}

// HasClass reports whether the element at selector carries class.
func (d *MemDocument) HasClass(selector, class string) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	set, ok := d.classes[selector]
	if !ok {
		return false
	}
	_, ok = set[class]
	return ok
}

// InlineDisplay returns the inline display value set on selector, if any.
func (d *MemDocument) InlineDisplay(selector string) (string, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	v, ok := d.displays[selector]
	return v, ok
}
