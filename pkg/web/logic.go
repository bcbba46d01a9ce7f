package web

// Logic is embedded by objects grouping flows over several pages or
// modules. A logic object has element fields like a page but no URL and
// no lifecycle; its fields search the whole document.
type Logic struct {
	Context
}

// LogicObject is a struct pointer embedding Logic.
type LogicObject interface {
	Node
	logic() *Logic
}

func (l *Logic) logic() *Logic { return l }

// NewLogic constructs T below parent and binds its fields.
func NewLogic[T LogicObject](parent Node) (T, error) {
	pc := parent.node()
	obj, err := construct[T](pc, rootOf(pc.browser.driver))
	if err != nil {
		return obj, err
	}
	if err := bindFields(obj); err != nil {
		return obj, err
	}
	obj.node().state = StateVerified
	return obj, nil
}
