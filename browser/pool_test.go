package browser

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/neilthomass/instaPFP/models"
)

func TestPool_BusyAfterExhaustion(t *testing.T) {
	p := NewPool(1, 50*time.Millisecond)

	release, err := p.Slot(context.Background())
	if err != nil {
		t.Fatalf("first slot should be free: %v", err)
	}
	defer release()

	start := time.Now()
	_, err = p.Slot(context.Background())
	if err == nil {
		t.Fatal("expected busy error on the second slot")
	}
	if models.CodeOf(err) != models.ErrCodeBusy {
		t.Errorf("expected %s, got %s", models.ErrCodeBusy, models.CodeOf(err))
	}
	if waited := time.Since(start); waited < 40*time.Millisecond {
		t.Errorf("slot should wait out the acquire timeout before failing, waited %v", waited)
	}
}

func TestPool_CallerCancellationIsNotBusy(t *testing.T) {
	p := NewPool(1, time.Second)

	release, err := p.Slot(context.Background())
	if err != nil {
		t.Fatalf("first slot should be free: %v", err)
	}
	defer release()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err = p.Slot(ctx)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected the context error as-is, got %v", err)
	}
	if models.CodeOf(err) == models.ErrCodeBusy {
		t.Error("a canceled caller must not be reported as pool exhaustion")
	}
}

func TestPool_ReleaseFreesSlot(t *testing.T) {
	p := NewPool(1, 50*time.Millisecond)

	release, err := p.Slot(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	release()
	release() // second call must be a no-op

	if got := p.Stats().ActiveSessions; got != 0 {
		t.Errorf("active sessions after release = %d, want 0", got)
	}

	release2, err := p.Slot(context.Background())
	if err != nil {
		t.Fatalf("slot should be free again: %v", err)
	}
	release2()
}

func TestPool_Stats(t *testing.T) {
	p := NewPool(4, time.Second)

	r1, _ := p.Slot(context.Background())
	r2, _ := p.Slot(context.Background())
	defer r1()
	defer r2()

	s := p.Stats()
	if s.MaxSessions != 4 || s.ActiveSessions != 2 {
		t.Errorf("stats = %+v, want max 4 active 2", s)
	}
}
