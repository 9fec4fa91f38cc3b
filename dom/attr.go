package dom

import "iter"

// Attribute is a single element attribute.
type Attribute struct {
	Namespace string
	Prefix    string
	Local     string
	Value     string
}

// Name returns the qualified attribute name.
func (a Attribute) Name() string {
	if a.Prefix == "" {
		return a.Local
	}
	return a.Prefix + ":" + a.Local
}

// Attributes is the ordered attribute list of an element. Source order is
// preserved; setting an existing attribute keeps its position.
type Attributes []Attribute

func (as Attributes) index(namespace, local string) int {
	for i := range as {
		if as[i].Local == local && as[i].Namespace == namespace {
			return i
		}
	}
	return -1
}

// Get returns the value of the attribute with no namespace and the given local name.
func (as Attributes) Get(local string) (string, bool) {
	return as.GetNS("", local)
}

// GetNS returns the value of the attribute with the given namespace and local name.
func (as Attributes) GetNS(namespace, local string) (string, bool) {
	if i := as.index(namespace, local); i >= 0 {
		return as[i].Value, true
	}
	return "", false
}

// Contains reports whether the attribute with no namespace is present.
func (as Attributes) Contains(local string) bool {
	return as.index("", local) >= 0
}

// Len returns the number of attributes.
func (as Attributes) Len() int {
	return len(as)
}

// All iterates over the attributes in order.
func (as Attributes) All() iter.Seq[Attribute] {
	return func(yield func(Attribute) bool) {
		for _, a := range as {
			if !yield(a) {
				return
			}
		}
	}
}

// Set sets an attribute with no namespace, returning the previous value if any.
func (as *Attributes) Set(local, value string) (string, bool) {
	return as.SetNS(Attribute{Local: local, Value: value})
}

// SetNS sets the attribute identified by a.Namespace and a.Local,
// returning the previous value if any.
func (as *Attributes) SetNS(a Attribute) (string, bool) {
	if i := as.index(a.Namespace, a.Local); i >= 0 {
		old := (*as)[i].Value
		(*as)[i].Value = a.Value
		return old, true
	}
	*as = append(*as, a)
	return "", false
}

// Remove deletes an attribute with no namespace, returning its value if it was present.
func (as *Attributes) Remove(local string) (string, bool) {
	return as.RemoveNS("", local)
}

// RemoveNS deletes the attribute with the given namespace and local name.
func (as *Attributes) RemoveNS(namespace, local string) (string, bool) {
	i := as.index(namespace, local)
	if i < 0 {
		return "", false
	}
	old := (*as)[i].Value
	*as = append((*as)[:i], (*as)[i+1:]...)
	return old, true
}

// Clone returns an independent copy.
func (as Attributes) Clone() Attributes {
	if as == nil {
		return nil
	}
	out := make(Attributes, len(as))
	copy(out, as)
	return out
}
