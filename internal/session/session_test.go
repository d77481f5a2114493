package session

import "testing"

func TestSelectSubItemsResetsPhotos(t *testing.T) {
	s := New(1)
	s.SelectSubItems([]string{"ACRILICO_1", "ACRILICO_3"})

	if len(s.Photos) != 2 {
		t.Fatalf("photo map has %d keys, want 2", len(s.Photos))
	}
	for _, name := range s.SubItems {
		if _, ok := s.Photos[name]; !ok {
			t.Errorf("missing photo key for %s", name)
		}
	}
	if s.CurrentIndex != 0 {
		t.Errorf("current index = %d", s.CurrentIndex)
	}
}

func TestAppendPhotoAssignsOrdinals(t *testing.T) {
	s := New(1)
	s.SelectSubItems([]string{"ACRILICO_2"})

	first := s.AppendPhoto("file-a")
	second := s.AppendPhoto("file-b")

	if first.Ordinal != 1 || second.Ordinal != 2 {
		t.Errorf("ordinals = %d, %d, want 1, 2", first.Ordinal, second.Ordinal)
	}
	if s.TotalPhotos() != 2 {
		t.Errorf("total photos = %d", s.TotalPhotos())
	}

	refs := s.Photos["ACRILICO_2"]
	if refs[0].FileID != "file-a" || refs[1].FileID != "file-b" {
		t.Errorf("append order not preserved: %+v", refs)
	}
}

func TestStoreLifecycle(t *testing.T) {
	st := NewStore()

	if got := st.Get(7); got != nil {
		t.Fatalf("empty store returned %+v", got)
	}

	s := New(7)
	st.Put(s)
	if got := st.Get(7); got != s {
		t.Errorf("Get returned a different session")
	}
	if st.Len() != 1 {
		t.Errorf("len = %d", st.Len())
	}

	st.Delete(7)
	if got := st.Get(7); got != nil {
		t.Errorf("session survived delete")
	}

	// Deleting again is a no-op.
	st.Delete(7)
}
