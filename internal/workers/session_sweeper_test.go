package workers

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"

	"github.com/MKhiriev/go-invoicer/internal/logger"
	"github.com/MKhiriev/go-invoicer/internal/mock"
)

func TestSessionSweeper_SweepsUntilCancelled(t *testing.T) {
	ctrl := gomock.NewController(t)
	sessions := mock.NewMockSessionService(ctrl)

	ctx, cancel := context.WithCancel(context.Background())
	calls := make(chan struct{}, 10)

	sessions.EXPECT().
		SweepExpired(gomock.Any()).
		DoAndReturn(func(context.Context) (int64, error) {
			select {
			case calls <- struct{}{}:
			default:
			}
			return 2, nil
		}).
		MinTimes(2)

	sweeper := NewSessionSweeper(sessions, 5*time.Millisecond, logger.Nop())
	done := make(chan struct{})
	go func() {
		sweeper.Run(ctx)
		close(done)
	}()

	// the first sweep runs immediately, the second on the ticker
	for i := 0; i < 2; i++ {
		select {
		case <-calls:
		case <-time.After(time.Second):
			t.Fatalf("sweep %d did not happen", i+1)
		}
	}

	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("sweeper did not stop")
	}
}

func TestSessionSweeper_KeepsRunningAfterError(t *testing.T) {
	ctrl := gomock.NewController(t)
	sessions := mock.NewMockSessionService(ctrl)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	recovered := make(chan struct{})

	gomock.InOrder(
		sessions.EXPECT().SweepExpired(gomock.Any()).Return(int64(0), errors.New("database is locked")),
		sessions.EXPECT().SweepExpired(gomock.Any()).DoAndReturn(func(context.Context) (int64, error) {
			close(recovered)
			cancel()
			return 1, nil
		}),
	)
	// a tick may still race the cancellation
	sessions.EXPECT().SweepExpired(gomock.Any()).Return(int64(0), context.Canceled).AnyTimes()

	sweeper := NewSessionSweeper(sessions, 5*time.Millisecond, logger.Nop())
	done := make(chan struct{})
	go func() {
		sweeper.Run(ctx)
		close(done)
	}()

	select {
	case <-recovered:
	case <-time.After(time.Second):
		t.Fatal("sweeper gave up after an error")
	}
	<-done
}

func TestSessionSweeper_StopsImmediatelyOnCancelledContext(t *testing.T) {
	ctrl := gomock.NewController(t)
	sessions := mock.NewMockSessionService(ctrl)
	sessions.EXPECT().SweepExpired(gomock.Any()).Return(int64(0), context.Canceled)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	done := make(chan struct{})
	go func() {
		NewSessionSweeper(sessions, time.Hour, logger.Nop()).Run(ctx)
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("sweeper ignored a cancelled context")
	}
	assert.Error(t, ctx.Err())
}
