package command

// Category is a named, reusable precondition that can be attached to any
// number of commands. When the predicate rejects an invocation, the failure
// message (if any) is sent as the reply
type Category struct {
	Name           string
	FailureMessage string
	Predicate      func(*Event) bool
}

// Test reports whether the invocation passes the category's predicate
// A category without a predicate accepts everything
func (c *Category) Test(ev *Event) bool {
	if c.Predicate == nil {
		return true
	}
	return c.Predicate(ev)
}
