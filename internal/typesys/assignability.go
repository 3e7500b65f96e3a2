package typesys

// AssignableTo implements the ⊑ relation: can a value of type src be
// used where dst is expected. It is reflexive, and every type is
// assignable to Any and Unknown.
func AssignableTo(src, dst Type) bool {
	if src == nil || dst == nil {
		return false
	}
	if dp, ok := dst.(Primitive); ok && (dp == Any || dp == Unknown) {
		return true
	}
	if sp, ok := src.(Primitive); ok && sp == Never {
		return true
	}
	if equalTypes(src, dst) {
		return true
	}

	switch d := dst.(type) {
	case *Union:
		for _, m := range d.Members {
			if AssignableTo(src, m) {
				return true
			}
		}
		return false
	case *Ref:
		// An unresolved generic type parameter has no constraint to
		// check against, so (absent a substitution mechanism) any
		// value is accepted where it is expected.
		if d.Resolved != nil {
			return AssignableTo(src, d.Resolved)
		}
		return true
	}

	switch s := src.(type) {
	case *Union:
		for _, m := range s.Members {
			if !AssignableTo(m, dst) {
				return false
			}
		}
		return true
	case *Array:
		if d, ok := dst.(*Array); ok {
			return AssignableTo(s.Elem, d.Elem)
		}
		return false
	case *Promise:
		if d, ok := dst.(*Promise); ok {
			return AssignableTo(s.Elem, d.Elem)
		}
		return false
	case *Function:
		d, ok := dst.(*Function)
		if !ok || len(s.Params) != len(d.Params) {
			return false
		}
		// Parameters are contravariant: the destination's parameter
		// type must be assignable to the source's.
		for i := range s.Params {
			if !AssignableTo(d.Params[i].Type, s.Params[i].Type) {
				return false
			}
		}
		// Return type is covariant.
		return AssignableTo(s.Return, d.Return)
	case *Class:
		switch d := dst.(type) {
		case *Class:
			return s.IsSubclassOf(d.Name)
		case *Interface:
			return s.ImplementsInterface(d.Name)
		}
		return false
	case *Object:
		switch d := dst.(type) {
		case *Object:
			return objectAssignable(s, d)
		case *Class:
			return objectSatisfiesMembers(s, classAllMembers(d))
		case *Interface:
			return objectSatisfiesMembers(s, interfaceAllMembers(d))
		}
		return false
	case *Ref:
		// An unresolved generic type parameter is opaque: it is only
		// assignable to itself (handled above by equalTypes) or to
		// whatever its instantiation resolves to.
		if s.Resolved != nil {
			return AssignableTo(s.Resolved, dst)
		}
		return false
	}

	return false
}

// objectAssignable checks width/depth subtyping: dst's required
// fields must all be present and assignable in src; src may carry
// extra fields.
func objectAssignable(src, dst *Object) bool {
	for _, df := range dst.Fields {
		sf, ok := lookupField(src, df.Name)
		if !ok {
			if df.Optional {
				continue
			}
			return false
		}
		if !AssignableTo(sf.Type, df.Type) {
			return false
		}
	}
	return true
}

func lookupField(o *Object, name string) (ObjectField, bool) {
	for _, f := range o.Fields {
		if f.Name == name {
			return f, true
		}
	}
	return ObjectField{}, false
}

func objectSatisfiesMembers(o *Object, members []Member) bool {
	for _, m := range members {
		if m.Method {
			return false // object literals carry no methods
		}
		f, ok := lookupField(o, m.Name)
		if !ok {
			return false
		}
		if !AssignableTo(f.Type, m.Type) {
			return false
		}
	}
	return true
}

func classAllMembers(c *Class) []Member {
	var out []Member
	for cur := c; cur != nil; cur = cur.Extends {
		out = append(out, cur.Members...)
	}
	return out
}

func interfaceAllMembers(i *Interface) []Member {
	out := append([]Member(nil), i.Members...)
	for _, e := range i.Extends {
		out = append(out, interfaceAllMembers(e)...)
	}
	return out
}

func equalTypes(a, b Type) bool {
	switch x := a.(type) {
	case Primitive:
		y, ok := b.(Primitive)
		return ok && x == y
	case *Array:
		y, ok := b.(*Array)
		return ok && equalTypes(x.Elem, y.Elem)
	case *Promise:
		y, ok := b.(*Promise)
		return ok && equalTypes(x.Elem, y.Elem)
	case *Class:
		y, ok := b.(*Class)
		return ok && x.Name == y.Name
	case *Interface:
		y, ok := b.(*Interface)
		return ok && x.Name == y.Name
	case *Ref:
		y, ok := b.(*Ref)
		return ok && x.Name == y.Name
	}
	return false
}
