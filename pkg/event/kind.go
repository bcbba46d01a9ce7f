package event

import "strings"

// Kind defines the type of an event. Kind names end in "Event"; the label
// of an event is its kind name without that suffix.
type Kind string

const (
	KindBeforeNavigate      Kind = "BeforeNavigateEvent"      // KindBeforeNavigate is published before the driver loads a URL.
	KindAfterNavigate       Kind = "AfterNavigateEvent"       // KindAfterNavigate is published after the driver loaded a URL.
	KindBeforeFindBy        Kind = "BeforeFindByEvent"        // KindBeforeFindBy is published before a raw element lookup.
	KindAfterFindBy         Kind = "AfterFindByEvent"         // KindAfterFindBy is published after a raw element lookup.
	KindBeforeClickOn       Kind = "BeforeClickOnEvent"       // KindBeforeClickOn is published before an element is clicked.
	KindAfterClickOn        Kind = "AfterClickOnEvent"        // KindAfterClickOn is published after an element was clicked.
	KindBeforeChangeValueOf Kind = "BeforeChangeValueOfEvent" // KindBeforeChangeValueOf is published before typing into or clearing an element.
	KindAfterChangeValueOf  Kind = "AfterChangeValueOfEvent"  // KindAfterChangeValueOf is published after typing into or clearing an element.
	KindBeforeScript        Kind = "BeforeScriptEvent"        // KindBeforeScript is published before a script runs in the page.
	KindAfterScript         Kind = "AfterScriptEvent"         // KindAfterScript is published after a script ran in the page.
	KindDriverException     Kind = "DriverExceptionEvent"     // KindDriverException is published when a driver call fails.
	KindBrowserConstruct    Kind = "BrowserConstructEvent"    // KindBrowserConstruct is published once a browser controller is ready.
	KindBrowserQuit         Kind = "BrowserQuitEvent"         // KindBrowserQuit is published before the session is quit.
	KindBeforeInit          Kind = "BeforeInitEvent"          // KindBeforeInit starts a page or module lifecycle.
	KindBeforeInitElements  Kind = "BeforeInitElementsEvent"  // KindBeforeInitElements precedes field binding.
	KindAfterInitElements   Kind = "AfterInitElementsEvent"   // KindAfterInitElements follows field binding.
	KindBeforeSetup         Kind = "BeforeSetupEvent"         // KindBeforeSetup precedes the setup hook.
	KindAfterSetup          Kind = "AfterSetupEvent"          // KindAfterSetup follows the setup hook.
	KindBeforeVerify        Kind = "BeforeVerifyEvent"        // KindBeforeVerify precedes verification.
	KindAfterVerify         Kind = "AfterVerifyEvent"         // KindAfterVerify follows successful verification.
	KindAfterInit           Kind = "AfterInitEvent"           // KindAfterInit ends a successful lifecycle.
	KindInitException       Kind = "InitExceptionEvent"       // KindInitException reports a failed lifecycle before the error is returned.
	KindPageActivated       Kind = "PageActivatedEvent"       // KindPageActivated reports a new current page of a browser.
)

// Label returns the kind name without its "Event" suffix.
func (k Kind) Label() string {
	return strings.TrimSuffix(string(k), "Event")
}

func (k Kind) String() string {
	return string(k)
}
