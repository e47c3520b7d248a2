package signal

import "testing"

func TestSignalEmitOrder(t *testing.T) {
	var s Signal[int]
	var got []int

	s.Add(func(v int) { got = append(got, v*1) })
	s.Add(func(v int) { got = append(got, v*2) })
	s.Add(func(v int) { got = append(got, v*3) })

	s.Emit(10)

	want := []int{10, 20, 30}
	if len(got) != len(want) {
		t.Fatalf("got %d calls, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("call %d = %d, want %d", i, got[i], want[i])
		}
	}
}

func TestSignalRemove(t *testing.T) {
	var s Signal[struct{}]
	calls := 0

	h := s.Add(func(struct{}) { calls++ })
	s.Add(func(struct{}) { calls++ })
	s.Remove(h)
	s.Remove(Handle("bogus"))

	s.Emit(struct{}{})
	if calls != 1 {
		t.Errorf("calls = %d, want 1", calls)
	}
	if s.Len() != 1 {
		t.Errorf("Len = %d, want 1", s.Len())
	}
}

func TestSignalRemoveDuringEmit(t *testing.T) {
	var s Signal[struct{}]
	calls := 0

	var h Handle
	h = s.Add(func(struct{}) {
		calls++
		s.Remove(h)
	})

	s.Emit(struct{}{})
	s.Emit(struct{}{})
	if calls != 1 {
		t.Errorf("calls = %d, want 1 (listener removed itself)", calls)
	}
}
