package rendergraph

import "testing"

// TestNewBuilderBackBufferHasIDZero guards nextHandle's ID assignment
// order: BackBufferID and physical.go's BindBackBuffer both assume the
// very first handle NewBuilder mints (the back buffer) has ID 0.
func TestNewBuilderBackBufferHasIDZero(t *testing.T) {
	b := NewBuilder(64, 64)
	if b.BackBuffer.ID != BackBufferID {
		t.Fatalf("back buffer handle ID = %d, want %d", b.BackBuffer.ID, BackBufferID)
	}

	h := b.CreateTexture(TextureDesc{Name: "scratch", Width: 1, Height: 1}, TemporalLifetimeInfinite)
	if h.ID == b.BackBuffer.ID {
		t.Fatalf("second handle reused the back buffer's ID %d", h.ID)
	}
}
