package event

import "sync"

// Listener receives events, one method per kind. A returned error aborts
// the dispatch and the operation that triggered it. Embed Base to
// implement only the methods of interest.
type Listener interface {
	OnBeforeNavigate(e *Event) error
	OnAfterNavigate(e *Event) error
	OnBeforeFindBy(e *Event) error
	OnAfterFindBy(e *Event) error
	OnBeforeClickOn(e *Event) error
	OnAfterClickOn(e *Event) error
	OnBeforeChangeValueOf(e *Event) error
	OnAfterChangeValueOf(e *Event) error
	OnBeforeScript(e *Event) error
	OnAfterScript(e *Event) error
	OnDriverException(e *Event) error

	OnBrowserConstruct(e *Event) error
	OnBrowserQuit(e *Event) error

	OnBeforeInit(e *Event) error
	OnBeforeInitElements(e *Event) error
	OnAfterInitElements(e *Event) error
	OnBeforeSetup(e *Event) error
	OnAfterSetup(e *Event) error
	OnBeforeVerify(e *Event) error
	OnAfterVerify(e *Event) error
	OnAfterInit(e *Event) error
	OnInitException(e *Event) error

	OnPageActivated(e *Event) error
}

// Base is a Listener that ignores every event.
type Base struct{}

func (Base) OnBeforeNavigate(*Event) error      { return nil }
func (Base) OnAfterNavigate(*Event) error       { return nil }
func (Base) OnBeforeFindBy(*Event) error        { return nil }
func (Base) OnAfterFindBy(*Event) error         { return nil }
func (Base) OnBeforeClickOn(*Event) error       { return nil }
func (Base) OnAfterClickOn(*Event) error        { return nil }
func (Base) OnBeforeChangeValueOf(*Event) error { return nil }
func (Base) OnAfterChangeValueOf(*Event) error  { return nil }
func (Base) OnBeforeScript(*Event) error        { return nil }
func (Base) OnAfterScript(*Event) error         { return nil }
func (Base) OnDriverException(*Event) error     { return nil }
func (Base) OnBrowserConstruct(*Event) error    { return nil }
func (Base) OnBrowserQuit(*Event) error         { return nil }
func (Base) OnBeforeInit(*Event) error          { return nil }
func (Base) OnBeforeInitElements(*Event) error  { return nil }
func (Base) OnAfterInitElements(*Event) error   { return nil }
func (Base) OnBeforeSetup(*Event) error         { return nil }
func (Base) OnAfterSetup(*Event) error          { return nil }
func (Base) OnBeforeVerify(*Event) error        { return nil }
func (Base) OnAfterVerify(*Event) error         { return nil }
func (Base) OnAfterInit(*Event) error           { return nil }
func (Base) OnInitException(*Event) error       { return nil }
func (Base) OnPageActivated(*Event) error       { return nil }

// NotifyFunc delivers an event of one kind to a listener.
type NotifyFunc func(l Listener, e *Event) error

var (
	notifiersMu sync.RWMutex
	notifiers   = map[Kind]NotifyFunc{
		KindBeforeNavigate:      func(l Listener, e *Event) error { return l.OnBeforeNavigate(e) },
		KindAfterNavigate:       func(l Listener, e *Event) error { return l.OnAfterNavigate(e) },
		KindBeforeFindBy:        func(l Listener, e *Event) error { return l.OnBeforeFindBy(e) },
		KindAfterFindBy:         func(l Listener, e *Event) error { return l.OnAfterFindBy(e) },
		KindBeforeClickOn:       func(l Listener, e *Event) error { return l.OnBeforeClickOn(e) },
		KindAfterClickOn:        func(l Listener, e *Event) error { return l.OnAfterClickOn(e) },
		KindBeforeChangeValueOf: func(l Listener, e *Event) error { return l.OnBeforeChangeValueOf(e) },
		KindAfterChangeValueOf:  func(l Listener, e *Event) error { return l.OnAfterChangeValueOf(e) },
		KindBeforeScript:        func(l Listener, e *Event) error { return l.OnBeforeScript(e) },
		KindAfterScript:         func(l Listener, e *Event) error { return l.OnAfterScript(e) },
		KindDriverException:     func(l Listener, e *Event) error { return l.OnDriverException(e) },
		KindBrowserConstruct:    func(l Listener, e *Event) error { return l.OnBrowserConstruct(e) },
		KindBrowserQuit:         func(l Listener, e *Event) error { return l.OnBrowserQuit(e) },
		KindBeforeInit:          func(l Listener, e *Event) error { return l.OnBeforeInit(e) },
		KindBeforeInitElements:  func(l Listener, e *Event) error { return l.OnBeforeInitElements(e) },
		KindAfterInitElements:   func(l Listener, e *Event) error { return l.OnAfterInitElements(e) },
		KindBeforeSetup:         func(l Listener, e *Event) error { return l.OnBeforeSetup(e) },
		KindAfterSetup:          func(l Listener, e *Event) error { return l.OnAfterSetup(e) },
		KindBeforeVerify:        func(l Listener, e *Event) error { return l.OnBeforeVerify(e) },
		KindAfterVerify:         func(l Listener, e *Event) error { return l.OnAfterVerify(e) },
		KindAfterInit:           func(l Listener, e *Event) error { return l.OnAfterInit(e) },
		KindInitException:       func(l Listener, e *Event) error { return l.OnInitException(e) },
		KindPageActivated:       func(l Listener, e *Event) error { return l.OnPageActivated(e) },
	}
)

// Define registers the notifier of an additional kind. Listeners usually
// receive custom kinds by implementing an extra interface the notifier
// asserts on. Defining an existing kind replaces its notifier.
func Define(kind Kind, notify NotifyFunc) {
	notifiersMu.Lock()
	defer notifiersMu.Unlock()
	notifiers[kind] = notify
}

func lookupNotifier(kind Kind) (NotifyFunc, bool) {
	notifiersMu.RLock()
	defer notifiersMu.RUnlock()
	n, ok := notifiers[kind]
	return n, ok
}

// Kinds returns every kind with a notifier.
func Kinds() []Kind {
	notifiersMu.RLock()
	defer notifiersMu.RUnlock()
	kinds := make([]Kind, 0, len(notifiers))
	for k := range notifiers {
		kinds = append(kinds, k)
	}
	return kinds
}

// Func is a Listener that handles every kind with one function. It
// receives custom kinds only through notifiers that call a Listener
// method.
type Func func(e *Event) error

func (f Func) OnBeforeNavigate(e *Event) error      { return f(e) }
func (f Func) OnAfterNavigate(e *Event) error       { return f(e) }
func (f Func) OnBeforeFindBy(e *Event) error        { return f(e) }
func (f Func) OnAfterFindBy(e *Event) error         { return f(e) }
func (f Func) OnBeforeClickOn(e *Event) error       { return f(e) }
func (f Func) OnAfterClickOn(e *Event) error        { return f(e) }
func (f Func) OnBeforeChangeValueOf(e *Event) error { return f(e) }
func (f Func) OnAfterChangeValueOf(e *Event) error  { return f(e) }
func (f Func) OnBeforeScript(e *Event) error        { return f(e) }
func (f Func) OnAfterScript(e *Event) error         { return f(e) }
func (f Func) OnDriverException(e *Event) error     { return f(e) }
func (f Func) OnBrowserConstruct(e *Event) error    { return f(e) }
func (f Func) OnBrowserQuit(e *Event) error         { return f(e) }
func (f Func) OnBeforeInit(e *Event) error          { return f(e) }
func (f Func) OnBeforeInitElements(e *Event) error  { return f(e) }
func (f Func) OnAfterInitElements(e *Event) error   { return f(e) }
func (f Func) OnBeforeSetup(e *Event) error         { return f(e) }
func (f Func) OnAfterSetup(e *Event) error          { return f(e) }
func (f Func) OnBeforeVerify(e *Event) error        { return f(e) }
func (f Func) OnAfterVerify(e *Event) error         { return f(e) }
func (f Func) OnAfterInit(e *Event) error           { return f(e) }
func (f Func) OnInitException(e *Event) error       { return f(e) }
func (f Func) OnPageActivated(e *Event) error       { return f(e) }
