package markup

// Predicate selects nodes during a search.
type Predicate func(*Node) bool

// FindAll returns every node under root (root included) matching pred,
// in pre-order depth-first order.
func FindAll(root *Node, pred Predicate) []*Node {
	var matches []*Node
	stack := []int{root.id}
	for len(stack) > 0 {
		id := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		n := root.doc.nodes[id]
		if pred(n) {
			matches = append(matches, n)
		}
		for i := len(n.children) - 1; i >= 0; i-- {
			stack = append(stack, n.children[i])
		}
	}
	return matches
}

// FindFirst returns the first pre-order match under root, or nil.
func FindFirst(root *Node, pred Predicate) *Node {
	stack := []int{root.id}
	for len(stack) > 0 {
		id := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		n := root.doc.nodes[id]
		if pred(n) {
			return n
		}
		for i := len(n.children) - 1; i >= 0; i-- {
			stack = append(stack, n.children[i])
		}
	}
	return nil
}

// HasAncestorWithClass walks the parent chain of n (excluding n itself).
func HasAncestorWithClass(n *Node, class string) bool {
	for p := n.Parent(); p != nil; p = p.Parent() {
		if p.HasClass(class) {
			return true
		}
	}
	return false
}

// Element matches nodes with the given tag carrying every listed class.
// An empty tag matches any element.
func Element(tag string, classes ...string) Predicate {
	return func(n *Node) bool {
		if tag != "" && n.Tag != tag {
			return false
		}
		for _, c := range classes {
			if !n.HasClass(c) {
				return false
			}
		}
		return true
	}
}

// And matches when every predicate matches.
func And(preds ...Predicate) Predicate {
	return func(n *Node) bool {
		for _, p := range preds {
			if !p(n) {
				return false
			}
		}
		return true
	}
}

// Or matches when any predicate matches.
func Or(preds ...Predicate) Predicate {
	return func(n *Node) bool {
		for _, p := range preds {
			if p(n) {
				return true
			}
		}
		return false
	}
}
