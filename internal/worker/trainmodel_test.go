package worker_test

import (
	"context"
	"errors"
	"io/fs"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/riverqueue/river"
	"github.com/riverqueue/river/rivertype"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"fraudrisk/internal/training"
	mocktraining "fraudrisk/internal/training/mock"
	"fraudrisk/internal/worker"
	"fraudrisk/pkg/domain"
	"fraudrisk/pkg/logger"
)

func TestMain(m *testing.M) {
	logger.Setup(logger.DevelopmentEnvironment, "error")
	m.Run()
}

func makeJob(id int64, attempt, maxAttempts int) *river.Job[training.JobArgs] {
	return &river.Job[training.JobArgs]{
		JobRow: &rivertype.JobRow{ID: id, Attempt: attempt, MaxAttempts: maxAttempts},
		Args: training.JobArgs{
			RunID:  uuid.MustParse("3f1c2a64-1d7e-4d4e-9a55-4a0b6d3c1e01"),
			Path:   "/data/raw.csv",
			Format: domain.SourceFormatRaw,
		},
	}
}

var (
	runID = domain.RunID(uuid.MustParse("3f1c2a64-1d7e-4d4e-9a55-4a0b6d3c1e01"))
	src   = training.Source{Path: "/data/raw.csv", Format: domain.SourceFormatRaw}
)

func TestTrainModelWorker_Success(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	trainer := mocktraining.NewMockTrainer(ctrl)
	w := worker.NewTrainModelWorker(trainer, 0)

	trainer.EXPECT().Process(gomock.Any(), runID, src, false).Return(nil)
	require.NoError(t, w.Work(context.Background(), makeJob(1, 1, 3)))
}

func TestTrainModelWorker_LastAttempt(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	trainer := mocktraining.NewMockTrainer(ctrl)
	w := worker.NewTrainModelWorker(trainer, 0)

	transient := errors.New("connection reset")
	trainer.EXPECT().Process(gomock.Any(), runID, src, true).Return(transient)

	err := w.Work(context.Background(), makeJob(2, 3, 3))
	require.ErrorIs(t, err, transient)
	var cancelErr *river.JobCancelError
	require.False(t, errors.As(err, &cancelErr))
}

func TestTrainModelWorker_PermanentCancels(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	trainer := mocktraining.NewMockTrainer(ctrl)
	w := worker.NewTrainModelWorker(trainer, 0)

	trainer.EXPECT().Process(gomock.Any(), runID, src, false).Return(fs.ErrNotExist)

	err := w.Work(context.Background(), makeJob(3, 1, 3))
	var cancelErr *river.JobCancelError
	require.ErrorAs(t, err, &cancelErr)
}

func TestTrainModelWorker_Timeout(t *testing.T) {
	job := makeJob(4, 1, 3)
	require.Equal(t, time.Duration(-1), worker.NewTrainModelWorker(nil, 0).Timeout(job))
	require.Equal(t, 30*time.Minute, worker.NewTrainModelWorker(nil, 30*time.Minute).Timeout(job))
}
