package timeline

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// recorder builds steps that log their lifecycle calls.
type recorder struct {
	calls []string
}

func (r *recorder) step(name string, done func() bool) *Step {
	return &Step{
		OnStart: func() { r.calls = append(r.calls, "start:"+name) },
		Done:    done,
		OnEnd:   func() { r.calls = append(r.calls, "end:"+name) },
	}
}

func (r *recorder) ends() []string {
	var out []string
	for _, c := range r.calls {
		if len(c) > 4 && c[:4] == "end:" {
			out = append(out, c[4:])
		}
	}
	return out
}

func TestTimelineRunsActionsInOrder(t *testing.T) {
	rec := &recorder{}
	names := []string{"a", "b", "c", "d"}
	tl := New()
	for _, n := range names {
		tl.Append(rec.step(n, nil))
	}
	tl.Start()

	for i := 0; i < len(names)-1; i++ {
		require.NoError(t, tl.Update())
		assert.False(t, tl.Finished(), "tick %d", i)
	}
	require.NoError(t, tl.Update())

	assert.True(t, tl.Finished())
	assert.Equal(t, names, rec.ends())
	assert.Equal(t, []string{
		"start:a", "end:a", "start:b", "end:b", "start:c", "end:c", "start:d", "end:d",
	}, rec.calls)
}

func TestTimelineDoesNothingUntilStarted(t *testing.T) {
	ran := false
	tl := New(Do(func() { ran = true }))
	require.NoError(t, tl.Update())
	assert.False(t, ran)
	tl.Start()
	require.NoError(t, tl.Update())
	assert.True(t, ran)
}

func TestTimelinePollsUntilFinished(t *testing.T) {
	rec := &recorder{}
	gate := false
	polls := 0
	tl := New(rec.step("wait", func() bool { polls++; return gate }), rec.step("after", nil))
	tl.Start()

	for i := 0; i < 5; i++ {
		require.NoError(t, tl.Update())
	}
	assert.Equal(t, 5, polls)
	assert.Empty(t, rec.ends())

	gate = true
	require.NoError(t, tl.Update())
	assert.Equal(t, []string{"wait"}, rec.ends())
	require.NoError(t, tl.Update())
	assert.Equal(t, []string{"wait", "after"}, rec.ends())
	assert.True(t, tl.Finished())

	// polling after the end must not reach the predicate again
	require.NoError(t, tl.Update())
	assert.Equal(t, 6, polls)
}

func TestAppendWhileRunningGoesToTail(t *testing.T) {
	rec := &recorder{}
	tl := New()
	tl.Start()
	tl.Append(rec.step("first", nil))
	tl.Append(Do(func() { tl.Append(rec.step("appended", nil)) }))
	tl.Append(rec.step("second", nil))

	for !tl.Finished() {
		require.NoError(t, tl.Update())
	}
	assert.Equal(t, []string{"first", "second", "appended"}, rec.ends())
}

func TestStepStartAndEndRunOnce(t *testing.T) {
	starts, ends := 0, 0
	s := &Step{OnStart: func() { starts++ }, OnEnd: func() { ends++ }}
	assert.False(t, s.Finished())
	s.Start()
	s.Start()
	assert.True(t, s.Finished())
	s.End()
	s.End()
	assert.Equal(t, 1, starts)
	assert.Equal(t, 1, ends)
	assert.True(t, s.Finished())
}

func TestIncludeLaterFalseSkipsBuilder(t *testing.T) {
	built := false
	var after bool
	tl := Build(SystemClock{}, func(b *Builder) {
		b.IncludeLater(func() *Timeline { built = true; return New() }, func() bool { return false })
		b.Action(func() { after = true })
	})
	tl.Start()

	require.NoError(t, tl.Update())
	assert.False(t, built)
	assert.False(t, after)
	assert.Equal(t, 1, tl.Pending())

	require.NoError(t, tl.Update())
	assert.True(t, after)
	assert.True(t, tl.Finished())
	assert.False(t, built)
}

func TestIncludeLaterEvaluatesAtExecutionPoint(t *testing.T) {
	rec := &recorder{}
	target := "nobody"
	var included []string
	tl := Build(SystemClock{}, func(b *Builder) {
		b.Action(func() { target = "boss" })
		b.IncludeLater(func() *Timeline {
			return Build(SystemClock{}, func(b *Builder) {
				who := target
				b.Action(func() { included = append(included, "hit:"+who) })
				b.IncludeAction(rec.step("inner", nil))
			})
		}, func() bool { return target != "nobody" })
		b.IncludeAction(rec.step("outer", nil))
	})
	tl.Start()
	for !tl.Finished() {
		require.NoError(t, tl.Update())
	}
	assert.Equal(t, []string{"hit:boss"}, included)
	assert.Equal(t, []string{"inner", "outer"}, rec.ends())
}

func TestIncludeCopiesEntries(t *testing.T) {
	rec := &recorder{}
	inner := New(rec.step("x", nil), rec.step("y", nil))
	tl := Build(SystemClock{}, func(b *Builder) {
		b.Include(inner)
		b.Include(nil)
		b.IncludeAction(rec.step("z", nil))
	})
	tl.Start()
	for !tl.Finished() {
		require.NoError(t, tl.Update())
	}
	assert.Equal(t, []string{"x", "y", "z"}, rec.ends())
}

func TestParallelWaitsForEveryChild(t *testing.T) {
	rec := &recorder{}
	never := rec.step("never", func() bool { return false })
	p := Parallel(rec.step("fast", nil), never, New(rec.step("nested", nil)).AsAction())
	tl := New(p)
	tl.Start()

	for i := 0; i < 50; i++ {
		require.NoError(t, tl.Update())
		assert.False(t, tl.Finished())
	}
	assert.ElementsMatch(t, []string{"fast", "nested"}, rec.ends())
	assert.Equal(t, []string{"start:fast", "start:never"}, rec.calls[:2])
}

func TestParallelFinishesWhenAllChildrenDo(t *testing.T) {
	rec := &recorder{}
	gate := false
	tl := New(Parallel(rec.step("a", nil), rec.step("b", func() bool { return gate })), rec.step("next", nil))
	tl.Start()

	require.NoError(t, tl.Update())
	require.NoError(t, tl.Update())
	assert.Equal(t, []string{"a"}, rec.ends())

	gate = true
	require.NoError(t, tl.Update())
	assert.Equal(t, []string{"a", "b"}, rec.ends())
	require.NoError(t, tl.Update())
	assert.Equal(t, []string{"a", "b", "next"}, rec.ends())
	assert.True(t, tl.Finished())
}

func TestParallelWithoutChildrenFinishes(t *testing.T) {
	tl := New(Parallel())
	tl.Start()
	require.NoError(t, tl.Update())
	assert.True(t, tl.Finished())
}

func TestDelayUsesClock(t *testing.T) {
	clock := NewManualClock(time.Unix(0, 0))
	done := false
	tl := Build(clock, func(b *Builder) {
		b.Delay(300 * time.Millisecond)
		b.Action(func() { done = true })
	})
	tl.Start()

	require.NoError(t, tl.Update())
	clock.Advance(200 * time.Millisecond)
	require.NoError(t, tl.Update())
	assert.Equal(t, 1, tl.Pending())
	assert.False(t, done)

	clock.Advance(100 * time.Millisecond)
	require.NoError(t, tl.Update())
	require.NoError(t, tl.Update())
	assert.True(t, done)
}

func TestPanicAbortsTimeline(t *testing.T) {
	boom := errors.New("boom")
	reached := false
	tl := New(Do(func() { panic(boom) }), Do(func() { reached = true }))
	outer := New(tl.AsAction())
	outer.Start()

	err := outer.Update()
	require.Error(t, err)
	var abort *AbortError
	require.ErrorAs(t, err, &abort)
	assert.ErrorIs(t, err, boom)
	assert.True(t, outer.Finished())

	require.NoError(t, outer.Update())
	assert.False(t, reached)
}

func TestRegistryRunsIndependently(t *testing.T) {
	r := NewRegistry()
	rec := &recorder{}
	gate := false
	r.Dispatch(New(rec.step("slow", func() bool { return gate })))
	r.Play(rec.step("quick", nil))
	r.Dispatch(nil)
	assert.Equal(t, 2, r.Len())

	require.NoError(t, r.Update())
	assert.Equal(t, 1, r.Len())
	assert.Equal(t, []string{"quick"}, rec.ends())

	gate = true
	require.NoError(t, r.Update())
	assert.Equal(t, 0, r.Len())
}

func TestRegistryDropsAbortedTimeline(t *testing.T) {
	r := NewRegistry()
	r.Play(Do(func() { panic("bad anim") }))
	r.Play(Until(func() bool { return false }))
	err := r.Update()
	require.Error(t, err)
	assert.Equal(t, 1, r.Len())
}
