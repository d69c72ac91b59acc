package dialog

import "testing"

func TestCanTransition(t *testing.T) {
	legal := [][2]State{
		{StateEmpty, StateCollecting},
		{StateCollecting, StateReady},
		{StateReady, StateSearching},
		{StateSearching, StateAnswered},
		{StateSearching, StateError},
		{StateAnswered, StateCollecting},
		{StateError, StateSearching},
	}
	for _, pair := range legal {
		if !CanTransition(pair[0], pair[1]) {
			t.Errorf("%s -> %s should be legal", pair[0], pair[1])
		}
	}

	illegal := [][2]State{
		{StateEmpty, StateSearching},
		{StateEmpty, StateAnswered},
		{StateCollecting, StateError},
		{StateAnswered, StateEmpty},
	}
	for _, pair := range illegal {
		if CanTransition(pair[0], pair[1]) {
			t.Errorf("%s -> %s should be illegal", pair[0], pair[1])
		}
	}
}
