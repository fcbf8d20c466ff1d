package core

// Visitor receives the concrete kind of a Tree during a Do dispatch,
// grounded on providers/base/provider.go's recursive walkTree/checkNode
// kind-switch — folded here into the idiomatic Go shape of "one method
// per kind plus a default", rather than a class hierarchy.
//
// Any method may return (result, true) to short-circuit Do for that node
// without falling back to Any; returning (_, false) delegates to Any.
type Visitor interface {
	Natural(t *Tree) (*Tree, bool)
	Real(t *Tree) (*Tree, bool)
	Text(t *Tree) (*Tree, bool)
	Name(t *Tree) (*Tree, bool)
	Block(t *Tree) (*Tree, bool)
	Prefix(t *Tree) (*Tree, bool)
	Postfix(t *Tree) (*Tree, bool)
	Infix(t *Tree) (*Tree, bool)
	// Any is the fallback invoked when a per-kind method declines to
	// handle the node (returns false), or by Do for the node's kind if no
	// more specific override is needed.
	Any(t *Tree) *Tree
}

// BaseVisitor implements Visitor with every per-kind method delegating to
// Any, so embedders only override the kinds they care about — "override
// a handful of methods, inherit the rest" ergonomics.
type BaseVisitor struct {
	// AnyFunc is invoked by the default Any implementation. If nil, Any
	// returns t unchanged (self-evaluation default).
	AnyFunc func(t *Tree) *Tree
}

func (b BaseVisitor) Natural(t *Tree) (*Tree, bool) { return nil, false }
func (b BaseVisitor) Real(t *Tree) (*Tree, bool)    { return nil, false }
func (b BaseVisitor) Text(t *Tree) (*Tree, bool)    { return nil, false }
func (b BaseVisitor) Name(t *Tree) (*Tree, bool)    { return nil, false }
func (b BaseVisitor) Block(t *Tree) (*Tree, bool)   { return nil, false }
func (b BaseVisitor) Prefix(t *Tree) (*Tree, bool)  { return nil, false }
func (b BaseVisitor) Postfix(t *Tree) (*Tree, bool) { return nil, false }
func (b BaseVisitor) Infix(t *Tree) (*Tree, bool)   { return nil, false }

func (b BaseVisitor) Any(t *Tree) *Tree {
	if b.AnyFunc != nil {
		return b.AnyFunc(t)
	}
	return t
}

// Do dispatches t to the method of v matching t.Kind, falling back to
// v.Any when the specific method declines.
func Do(v Visitor, t *Tree) *Tree {
	if t == nil {
		return nil
	}

	var (
		result  *Tree
		handled bool
	)

	switch t.Kind {
	case NATURAL:
		result, handled = v.Natural(t)
	case REAL:
		result, handled = v.Real(t)
	case TEXT:
		result, handled = v.Text(t)
	case NAME:
		result, handled = v.Name(t)
	case BLOCK:
		result, handled = v.Block(t)
	case PREFIX:
		result, handled = v.Prefix(t)
	case POSTFIX:
		result, handled = v.Postfix(t)
	case INFIX:
		result, handled = v.Infix(t)
	}

	if handled {
		return result
	}
	return v.Any(t)
}

// Walk recurses into t's children in fixed kind order: blocks recurse into
// their child first, prefix/infix into both sides left-then-right, postfix
// right-then-left. fn is called on every node including t itself,
// post-order (children before parent).
func Walk(t *Tree, fn func(*Tree)) {
	if t == nil {
		return
	}
	switch t.Kind {
	case BLOCK:
		Walk(t.Child, fn)
	case PREFIX, INFIX:
		Walk(t.Left, fn)
		Walk(t.Right, fn)
	case POSTFIX:
		Walk(t.Right, fn)
		Walk(t.Left, fn)
	}
	fn(t)
}
