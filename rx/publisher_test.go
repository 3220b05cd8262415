package rx

import (
	stderrors "errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var errBoom = stderrors.New("boom")

func TestJustComplete_ReplaysValueThenComplete(t *testing.T) {
	j := NewJustComplete(5)
	require.True(t, j.IsComplete())

	r, _ := record(j.Pipe())
	assert.Equal(t, []string{"5", "complete"}, r.events)

	r2, _ := record(j.Pipe())
	assert.Equal(t, []string{"5", "complete"}, r2.events, "every late subscriber gets the same replay")
}

func TestJustComplete_WithoutValue(t *testing.T) {
	r, _ := record(NewJustComplete[int]().Pipe())
	assert.Equal(t, []string{"complete"}, r.events)
}

func TestJustError_ReplaysErrorThenComplete(t *testing.T) {
	r, _ := record(NewJustError[int](errBoom).Pipe())
	assert.Equal(t, []string{"err:boom", "complete"}, r.events)
}

func TestFrom_ReplaysAllThenComplete(t *testing.T) {
	r, _ := record(NewFrom([]string{"a", "b", "c"}).Pipe())
	assert.Equal(t, []string{"a", "b", "c", "complete"}, r.events)
}

func TestPublisher_CompletionIsMonotonic(t *testing.T) {
	e := NewEmitter[int]()
	r, _ := record(e.Pipe())

	e.Send(1)
	e.SendComplete()
	require.NotPanics(t, func() {
		e.Send(2)
		e.SendError(errBoom)
		e.SendComplete()
	})

	assert.Equal(t, []string{"1", "complete"}, r.events)
	v, ok := e.Value()
	assert.True(t, ok)
	assert.Equal(t, 1, v)
	assert.NoError(t, e.Err())
}

func TestPublisher_PipeAfterCompleteDoesNotAttach(t *testing.T) {
	s := NewSubject(1)
	s.SendComplete()

	op := s.Pipe()
	assert.Empty(t, s.pipelines)

	r, _ := record(op)
	assert.Equal(t, []string{"1", "complete"}, r.events)
}

func TestSubject_FanOutIndependence(t *testing.T) {
	s := NewSubject(0)
	a, unsubscribeA := record(s.Pipe())
	b, _ := record(s.Pipe())

	s.Send(1)
	unsubscribeA()
	s.Send(2)
	s.SendComplete()

	assert.Equal(t, []string{"0", "1"}, a.events)
	assert.Equal(t, []string{"0", "1", "2", "complete"}, b.events)
}

func TestSubject_LateSubscriberGetsCurrentValue(t *testing.T) {
	s := NewSubject(0)
	s.Send(1)
	s.Send(2)

	r, _ := record(s.Pipe())
	assert.Equal(t, []string{"2"}, r.events)
	assert.Equal(t, 2, s.Value())
}

func TestSubject_ErrorIsReplayedInsteadOfValue(t *testing.T) {
	s := NewSubject(0)
	s.SendError(errBoom)
	s.Send(3)

	r, _ := record(s.Pipe())
	assert.Equal(t, []string{"err:boom"}, r.events)
	assert.Equal(t, errBoom, s.Err())
	assert.Equal(t, 3, s.Value())
}

func TestSubject_Resend(t *testing.T) {
	s := NewSubject("a")
	r, _ := record(s.Pipe())
	s.Resend()
	assert.Equal(t, []string{"a", "a"}, r.events)
}

func TestEmitter_Replay(t *testing.T) {
	tests := []struct {
		name  string
		drive func(e *Emitter[int])
		want  []string
	}{
		{
			name:  "nothing sent",
			drive: func(*Emitter[int]) {},
		},
		{
			name: "last value",
			drive: func(e *Emitter[int]) {
				e.Send(1)
				e.Send(2)
			},
			want: []string{"2"},
		},
		{
			name: "error wins over value",
			drive: func(e *Emitter[int]) {
				e.SendError(errBoom)
				e.Send(2)
			},
			want: []string{"err:boom"},
		},
		{
			name:  "complete without value",
			drive: func(e *Emitter[int]) { e.SendComplete() },
			want:  []string{"complete"},
		},
		{
			name: "value then complete",
			drive: func(e *Emitter[int]) {
				e.Send(7)
				e.SendComplete()
			},
			want: []string{"7", "complete"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := NewEmitter[int]()
			tt.drive(e)
			r, _ := record(e.Pipe())
			assert.Equal(t, tt.want, r.events)
		})
	}
}

func TestBuffer_ReplaysFullHistory(t *testing.T) {
	b := NewBuffer[int]()
	live, _ := record(b.Pipe())

	b.Send(1)
	b.Send(2)
	b.SendError(errBoom)
	b.Send(3)
	b.SendComplete()

	late, _ := record(b.Pipe())
	want := []string{"1", "2", "err:boom", "3", "complete"}
	assert.Equal(t, want, live.events)
	assert.Equal(t, want, late.events)
	assert.Equal(t, 4, b.Len())
}

func TestBuffer_Unsubscribe(t *testing.T) {
	b := NewBuffer[int]()
	b.Send(1)
	b.Send(2)
	first, unsubscribe := record(b.Pipe())
	unsubscribe()
	unsubscribe()

	second, _ := record(b.Pipe())
	b.Send(3)
	b.SendComplete()

	assert.Equal(t, []string{"1", "2"}, first.events)
	assert.Equal(t, []string{"1", "2", "3", "complete"}, second.events)
}

func TestOperation_ResolvesOnce(t *testing.T) {
	t.Run("success then fail", func(t *testing.T) {
		op := NewOperation[int]()
		before, _ := record(op.Pipe())
		op.Success(10)
		op.Fail(errBoom)
		after, _ := record(op.Pipe())

		assert.Equal(t, []string{"10", "complete"}, before.events)
		assert.Equal(t, []string{"10", "complete"}, after.events)
		assert.Equal(t, 10, op.Value())
		assert.NoError(t, op.Err())
	})

	t.Run("fail then success", func(t *testing.T) {
		op := NewOperation[int]()
		before, _ := record(op.Pipe())
		op.Fail(errBoom)
		op.Success(10)
		after, _ := record(op.Pipe())

		assert.Equal(t, []string{"err:boom", "complete"}, before.events)
		assert.Equal(t, []string{"err:boom", "complete"}, after.events)
		assert.ErrorIs(t, op.Err(), errBoom)
	})

	t.Run("unresolved replays nothing", func(t *testing.T) {
		r, _ := record(NewOperation[int]().Pipe())
		assert.Empty(t, r.events)
	})
}

func TestNilErrorIsReplayedAsError(t *testing.T) {
	t.Run("operation", func(t *testing.T) {
		op := NewOperation[int]()
		op.Fail(nil)
		r, _ := record(op.Pipe())
		assert.Equal(t, []string{"err:<nil>", "complete"}, r.events)
	})

	t.Run("emitter", func(t *testing.T) {
		e := NewEmitter[int]()
		e.Send(3)
		e.SendError(nil)
		r, _ := record(e.Pipe())
		assert.Equal(t, []string{"err:<nil>"}, r.events)
	})

	t.Run("subject", func(t *testing.T) {
		s := NewSubject(3)
		s.SendError(nil)
		s.SendComplete()
		r, _ := record(s.Pipe())
		assert.Equal(t, []string{"err:<nil>", "complete"}, r.events)
	})
}

func TestValue_SendsOnlyChanges(t *testing.T) {
	v := NewValue(1)
	r, _ := record(v.Pipe())

	v.Set(1)
	v.Set(2)
	v.Set(2)
	v.Set(3)

	assert.Equal(t, []string{"1", "2", "3"}, r.events)
	assert.Equal(t, 3, v.Get())

	v.SendComplete()
	v.Set(4)
	late, _ := record(v.Pipe())
	assert.Equal(t, []string{"3", "complete"}, late.events)
}

func TestPublisher_UnsubscribeDuringBroadcastIsDeferred(t *testing.T) {
	s := NewSubject(0)
	var unsubscribeA func()
	var a []int
	unsubscribeA = s.Pipe().SkipFirst().OnReceive(func(v int) {
		a = append(a, v)
		unsubscribeA()
	}).Subscribe()
	b, _ := record(s.Pipe().SkipFirst())

	s.Send(1)
	assert.Len(t, s.pipelines, 1, "detach applies once the broadcast returns")
	assert.Empty(t, s.pending)

	s.Send(2)
	assert.Equal(t, []int{1}, a)
	assert.Equal(t, []string{"1", "2"}, b.events)
}

func TestPublisher_ReentrantSendKeepsOrderPerPipeline(t *testing.T) {
	s := NewSubject(0)
	var got []int
	s.Pipe().SkipFirst().OnReceive(func(v int) {
		got = append(got, v)
		if v == 1 {
			s.Send(2)
		}
	}).Subscribe()
	late, unsubscribe := record(s.Pipe().SkipFirst())
	defer unsubscribe()

	s.Send(1)

	assert.Equal(t, []int{1, 2}, got)
	assert.Equal(t, []string{"2", "1"}, late.events, "the nested send reaches later pipelines first")
	assert.Zero(t, s.sending)
}

func TestPublisher_CompletionDetachesEveryPipeline(t *testing.T) {
	e := NewEmitter[int]()
	record(e.Pipe())
	record(e.Pipe())
	require.Len(t, e.pipelines, 2)

	e.SendComplete()
	assert.Empty(t, e.pipelines)
	assert.Empty(t, e.pending)
}

func TestSessionID_Monotonic(t *testing.T) {
	a := NewEmitter[int]()
	b := NewEmitter[int]()
	assert.Greater(t, b.ID(), a.ID())
	assert.Contains(t, a.ID().String(), "rx-")
}
