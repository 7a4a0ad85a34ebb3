package tdms

// WalkFunc is called for each object during traversal.
// path is the object path. obj is the *File, a *Group or a *Channel.
// Return nil to continue walking, or an error to stop.
type WalkFunc func(path string, obj any) error

// Walk visits the file, then each group followed by its channels, in the
// order they first appeared.
//
// Example:
//
//	tdms.Walk(f, func(path string, obj any) error {
//	    switch o := obj.(type) {
//	    case *tdms.Group:
//	        fmt.Println(o.Name())
//	    case *tdms.Channel:
//	        fmt.Println("    " + o.Name())
//	    }
//	    return nil
//	})
func Walk(f *File, fn WalkFunc) error {
	if err := fn("/", f); err != nil {
		return err
	}
	for _, g := range f.groups {
		if err := fn(g.path, g); err != nil {
			return err
		}
		for _, ch := range g.channels {
			if err := fn(ch.path, ch); err != nil {
				return err
			}
		}
	}
	return nil
}

// PropertyInfo describes a property during walking.
type PropertyInfo struct {
	// ObjectPath is the path of the object carrying the property.
	ObjectPath string

	// ObjectType is "file", "group" or "channel".
	ObjectType string

	Property
}

// WalkPropertiesFunc is the callback function type for WalkProperties.
// Return nil to continue walking, or an error to stop.
type WalkPropertiesFunc func(info PropertyInfo) error

// WalkProperties visits every property of the file, its groups and their
// channels.
//
// Example:
//
//	f.WalkProperties(func(info tdms.PropertyInfo) error {
//	    fmt.Printf("%s %s = %v\n", info.ObjectPath, info.Name, info.Value)
//	    return nil
//	})
func (f *File) WalkProperties(fn WalkPropertiesFunc) error {
	return Walk(f, func(path string, obj any) error {
		var (
			props *Properties
			kind  string
		)
		switch o := obj.(type) {
		case *File:
			props, kind = o.props, "file"
		case *Group:
			props, kind = o.props, "group"
		case *Channel:
			props, kind = o.props, "channel"
		}
		for _, p := range props.All() {
			if err := fn(PropertyInfo{ObjectPath: path, ObjectType: kind, Property: p}); err != nil {
				return err
			}
		}
		return nil
	})
}

// ErrStopWalk can be returned from a walk callback to stop walking without
// an error.
var ErrStopWalk = &walkStopError{}

type walkStopError struct{}

func (e *walkStopError) Error() string { return "walk stopped" }

// IsStopWalk returns true if the error is ErrStopWalk.
func IsStopWalk(err error) bool {
	_, ok := err.(*walkStopError)
	return ok
}
