package rx

import (
	"reflect"
)

type mapStage struct {
	node
	fn func(any) any
}

func (s *mapStage) send(v any, broadcast bool) {
	if s.complete {
		return
	}
	s.node.send(s.fn(v), broadcast)
}

type filterStage struct {
	node
	keep func(any) bool
}

func (s *filterStage) send(v any, broadcast bool) {
	if s.complete || !s.keep(v) {
		return
	}
	s.node.send(v, broadcast)
}

type spreadStage struct {
	node
	each func(v any, yield func(any))
}

func (s *spreadStage) send(v any, broadcast bool) {
	if s.complete {
		return
	}
	s.each(v, func(e any) { s.node.send(e, broadcast) })
}

type skipFirstStage struct {
	node
}

func (s *skipFirstStage) send(v any, broadcast bool) {
	if broadcast {
		s.node.send(v, broadcast)
	}
}

type skipNullableStage struct {
	node
}

func (s *skipNullableStage) send(v any, broadcast bool) {
	if !isNil(v) {
		s.node.send(v, broadcast)
	}
}

func isNil(v any) bool {
	if v == nil {
		return true
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Pointer, reflect.Map, reflect.Slice, reflect.Chan, reflect.Func, reflect.Interface, reflect.UnsafePointer:
		return rv.IsNil()
	}
	return false
}

type removeDuplicatesStage struct {
	node
	last    any
	hasLast bool
}

func (s *removeDuplicatesStage) send(v any, broadcast bool) {
	if s.complete {
		return
	}
	if s.hasLast && equal(s.last, v) {
		return
	}
	s.last, s.hasLast = v, true
	s.node.send(v, broadcast)
}

func equal(a, b any) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	ra, rb := reflect.ValueOf(a), reflect.ValueOf(b)
	if ra.Type() != rb.Type() {
		return false
	}
	if ra.Comparable() {
		return ra.Equal(rb)
	}
	return reflect.DeepEqual(a, b)
}

type replaceErrorStage struct {
	node
	replace func(error) (any, bool)
}

func (s *replaceErrorStage) sendError(err error, broadcast bool) {
	if s.complete {
		return
	}
	if v, ok := s.replace(err); ok {
		s.node.send(v, broadcast)
		return
	}
	s.node.sendError(err, broadcast)
}

type tapStage struct {
	node
	onValue    func(any, bool)
	onError    func(error, bool)
	onComplete func(bool)
}

func (s *tapStage) send(v any, broadcast bool) {
	if s.complete {
		return
	}
	if s.onValue != nil {
		s.onValue(v, broadcast)
	}
	s.node.send(v, broadcast)
}

func (s *tapStage) sendError(err error, broadcast bool) {
	if s.complete {
		return
	}
	if s.onError != nil {
		s.onError(err, broadcast)
	}
	s.node.sendError(err, broadcast)
}

func (s *tapStage) sendComplete(broadcast bool) {
	if s.complete {
		return
	}
	if s.onComplete != nil {
		s.onComplete(broadcast)
	}
	s.node.sendComplete(broadcast)
}
