package fetch

import (
	"context"
	"errors"
	"strconv"
	"testing"
	"time"
)

func TestFuture_Go(t *testing.T) {
	release := make(chan struct{})
	f := Go(context.Background(), func(ctx context.Context) (int, error) {
		<-release
		return 42, nil
	})

	select {
	case <-f.Done():
		t.Fatal("future resolved before work finished")
	default:
	}

	close(release)

	got, err := f.Wait(context.Background())
	if err != nil {
		t.Fatalf("Wait() error = %v", err)
	}
	if got != 42 {
		t.Errorf("Wait() = %d, want 42", got)
	}
}

func TestFuture_ResolvedAndFailed(t *testing.T) {
	v, err := Resolved("ok").Wait(context.Background())
	if err != nil || v != "ok" {
		t.Errorf("Resolved Wait() = %q, %v", v, err)
	}

	boom := errors.New("boom")
	v, err = Failed[string](boom).Wait(context.Background())
	if !errors.Is(err, boom) || v != "" {
		t.Errorf("Failed Wait() = %q, %v", v, err)
	}
}

func TestFuture_Then(t *testing.T) {
	boom := errors.New("boom")

	tests := []struct {
		name    string
		source  *Future[int]
		fn      func(int, error) (string, error)
		want    string
		wantErr error
	}{
		{
			name:   "transform value",
			source: Resolved(2),
			fn: func(v int, err error) (string, error) {
				if err != nil {
					return "", err
				}
				return "v" + strconv.Itoa(v), nil
			},
			want: "v2",
		},
		{
			name:   "recover error",
			source: Failed[int](boom),
			fn: func(v int, err error) (string, error) {
				if err != nil {
					return "fallback", nil
				}
				return "value", nil
			},
			want: "fallback",
		},
		{
			name:   "propagate error",
			source: Failed[int](boom),
			fn: func(v int, err error) (string, error) {
				return "", err
			},
			wantErr: boom,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Then(tt.source, tt.fn).Wait(context.Background())
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("Wait() error = %v, want %v", err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("Wait() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestFuture_WaitContextDone(t *testing.T) {
	f := Go(context.Background(), func(ctx context.Context) (int, error) {
		time.Sleep(time.Second)
		return 1, nil
	})

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	if _, err := f.Wait(ctx); !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("Wait() error = %v, want context.DeadlineExceeded", err)
	}
}
