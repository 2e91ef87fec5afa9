package client

import (
	"testing"
	"time"
)

func TestBox(t *testing.T) {
	s0 := "ok"
	s1 := "test"
	box := NewBox[*string]()
	box.Put(&s0)
	go func() {
		time.Sleep(1000)
		box.Put(&s1)
	}()
	v := box.Wait(&s0)
	if v != &s1 {
		t.Errorf("wrong pointer")
	}
}
