package jsonv

// Member is a single key/value pair of an Object.
type Member struct {
	Key   string
	Value Value
}

// Object is a JSON object whose members keep insertion order.
type Object struct {
	members []Member
}

// Kind returns KindObject.
func (*Object) Kind() Kind { return KindObject }

func (*Object) jsonValue() {}

// NewObject returns an object holding the given members in order.
func NewObject(members ...Member) *Object {
	o := &Object{}
	for _, m := range members {
		o.Set(m.Key, m.Value)
	}
	return o
}

// WithKey returns an object with a single member.
func WithKey(key string, v Value) *Object {
	return &Object{members: []Member{{Key: key, Value: v}}}
}

// Len returns the number of members.
func (o *Object) Len() int {
	if o == nil {
		return 0
	}
	return len(o.members)
}

// Members returns the ordered member list. The returned slice is shared with
// the object and must be treated as read-only.
func (o *Object) Members() []Member {
	if o == nil {
		return nil
	}
	return o.members
}

// Get returns the value stored under key, if any.
func (o *Object) Get(key string) (Value, bool) {
	if o == nil {
		return nil, false
	}
	for _, m := range o.members {
		if m.Key == key {
			return m.Value, true
		}
	}
	return nil, false
}

// Set replaces the value under key, or appends a new member when the key is
// not yet present.
func (o *Object) Set(key string, v Value) {
	for i, m := range o.members {
		if m.Key == key {
			o.members[i].Value = v
			return
		}
	}
	o.members = append(o.members, Member{Key: key, Value: v})
}

// Merge returns the right-biased key union of a and b: the result holds a's
// members in a's order, with b's value wherever both define a key, followed
// by b's remaining members in b's order. Neither input is mutated.
func Merge(a, b *Object) *Object {
	out := &Object{}
	if a != nil {
		out.members = make([]Member, len(a.members))
		copy(out.members, a.members)
	}
	if b != nil {
		for _, m := range b.members {
			out.Set(m.Key, m.Value)
		}
	}
	return out
}
