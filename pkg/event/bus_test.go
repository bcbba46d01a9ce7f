package event

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/entrhq/pagekit/pkg/errs"
)

type recorder struct {
	Base
	name string
	log  *[]string
	fail error
}

func (r *recorder) OnBeforeInit(e *Event) error {
	*r.log = append(*r.log, r.name+":"+e.Label())
	return r.fail
}

func (r *recorder) OnAfterInit(e *Event) error {
	*r.log = append(*r.log, r.name+":"+e.Label())
	return nil
}

func (r *recorder) OnBeforeNavigate(e *Event) error {
	*r.log = append(*r.log, r.name+":"+e.Label()+":"+e.URL())
	return nil
}

var fixed = time.Date(2026, 3, 4, 5, 6, 7, 8_000_000, time.UTC)

func TestConstruct_Stamps(t *testing.T) {
	bus := NewBus(WithNow(func() time.Time { return fixed }))
	origin := Origin{Label: "LoginPage", Type: "*pages.LoginPage"}

	first := bus.Construct(KindBeforeInit, origin, Payload{Subject: "*pages.LoginPage"})
	second := bus.Construct(KindInitException, origin, Payload{Err: errors.New("x")})

	assert.Equal(t, uint64(1), first.Seq())
	assert.Equal(t, uint64(2), second.Seq())
	assert.Equal(t, "BeforeInit", first.Label())
	assert.Equal(t, "InitException", second.Label())
	assert.Equal(t, fixed, first.Time())
	assert.Equal(t, "20260304-050607.008_LoginPage_pages.LoginPage_BeforeInit", first.FilePrefix())
	assert.Equal(t, "*pages.LoginPage", first.Subject())
	assert.Equal(t, origin, first.Origin())
}

func TestPublish_RegistrationOrder(t *testing.T) {
	var log []string
	bus := NewBus()
	bus.Register(&recorder{name: "a", log: &log})
	bus.Register(&recorder{name: "b", log: &log})

	require.NoError(t, bus.Emit(KindBeforeInit, Origin{Label: "p"}, Payload{}))
	require.NoError(t, bus.Emit(KindBeforeNavigate, Origin{Label: "b"}, Payload{URL: "http://x"}))

	assert.Equal(t, []string{"a:BeforeInit", "b:BeforeInit", "a:BeforeNavigate:http://x", "b:BeforeNavigate:http://x"}, log)
}

func TestPublish_ListenerErrorAbortsDispatch(t *testing.T) {
	var log []string
	boom := errors.New("broken listener")
	bus := NewBus()
	bus.Register(&recorder{name: "a", log: &log, fail: boom})
	bus.Register(&recorder{name: "b", log: &log})

	err := bus.Emit(KindBeforeInit, Origin{}, Payload{})

	assert.ErrorIs(t, err, boom)
	var lerr *errs.ListenerError
	require.ErrorAs(t, err, &lerr)
	assert.Equal(t, "BeforeInit", lerr.Event)
	assert.Equal(t, []string{"a:BeforeInit"}, log)
}

func TestFilter_LastSetWins(t *testing.T) {
	var f Filter
	assert.True(t, f.Allows(KindBeforeInit))
	assert.False(t, f.Restricted())

	require.NoError(t, f.Disable(KindBeforeInit))
	assert.False(t, f.Allows(KindBeforeInit))
	assert.True(t, f.Allows(KindAfterInit))

	// enabling clears the deny-set
	require.NoError(t, f.Enable(KindAfterInit))
	assert.False(t, f.Allows(KindBeforeInit))
	assert.True(t, f.Allows(KindAfterInit))

	// disabling clears the allow-set
	require.NoError(t, f.Disable(KindPageActivated))
	assert.True(t, f.Allows(KindBeforeInit))
	assert.False(t, f.Allows(KindPageActivated))

	f.EnableAll()
	assert.True(t, f.Allows(KindPageActivated))
}

func TestFilter_Globs(t *testing.T) {
	var f Filter
	require.NoError(t, f.Enable("Before*", "InitExceptionEvent"))

	assert.True(t, f.Allows(KindBeforeNavigate))
	assert.True(t, f.Allows(KindBeforeVerify))
	assert.True(t, f.Allows(KindInitException))
	assert.False(t, f.Allows(KindAfterNavigate))
}

func TestPublish_AppliesFilter(t *testing.T) {
	var log []string
	bus := NewBus()
	reg := bus.Register(&recorder{name: "a", log: &log})
	require.NoError(t, reg.Enable(KindAfterInit))

	require.NoError(t, bus.Emit(KindBeforeInit, Origin{}, Payload{}))
	require.NoError(t, bus.Emit(KindAfterInit, Origin{}, Payload{}))
	assert.Equal(t, []string{"a:AfterInit"}, log)

	assert.True(t, bus.Unregister(reg))
	assert.False(t, bus.Unregister(reg))
	require.NoError(t, bus.Emit(KindAfterInit, Origin{}, Payload{}))
	assert.Len(t, log, 1)
}

type customListener interface {
	OnSnapshot(e *Event) error
}

type snapshotRecorder struct {
	Base
	got []string
}

func (s *snapshotRecorder) OnSnapshot(e *Event) error {
	s.got = append(s.got, e.Label())
	return nil
}

func TestDefine_CustomKind(t *testing.T) {
	const kindSnapshot Kind = "SnapshotEvent"
	Define(kindSnapshot, func(l Listener, e *Event) error {
		if c, ok := l.(customListener); ok {
			return c.OnSnapshot(e)
		}
		return nil
	})

	bus := NewBus()
	rec := &snapshotRecorder{}
	bus.Register(rec)
	bus.Register(Base{})

	require.NoError(t, bus.Emit(kindSnapshot, Origin{}, Payload{}))
	assert.Equal(t, []string{"Snapshot"}, rec.got)
	assert.Contains(t, Kinds(), kindSnapshot)
}

func TestNotify_UnknownKindIsIgnored(t *testing.T) {
	bus := NewBus()
	e := bus.Construct("NeverDefinedEvent", Origin{}, Payload{})
	assert.NoError(t, e.Notify(Base{}))
}

func TestFunc_ReceivesEveryBuiltinKind(t *testing.T) {
	var got []Kind
	bus := NewBus()
	bus.Register(Func(func(e *Event) error {
		got = append(got, e.Kind())
		return nil
	}))

	builtin := []Kind{
		KindBeforeNavigate, KindAfterNavigate, KindBeforeFindBy, KindAfterFindBy,
		KindBeforeClickOn, KindAfterClickOn, KindBeforeChangeValueOf, KindAfterChangeValueOf,
		KindBeforeScript, KindAfterScript, KindDriverException, KindBrowserConstruct,
		KindBrowserQuit, KindBeforeInit, KindBeforeInitElements, KindAfterInitElements,
		KindBeforeSetup, KindAfterSetup, KindBeforeVerify, KindAfterVerify,
		KindAfterInit, KindInitException, KindPageActivated,
	}
	for _, k := range builtin {
		require.NoError(t, bus.Emit(k, Origin{}, Payload{}))
	}
	assert.Equal(t, builtin, got)
}
